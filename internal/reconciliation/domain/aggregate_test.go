package domain_test

import (
	"math/rand"
	"testing"

	"github.com/bwmarrin/snowflake"

	bookingdomain "github.com/sabaispa/sabai/internal/booking/domain"
	orderdomain "github.com/sabaispa/sabai/internal/order/domain"
	"github.com/sabaispa/sabai/internal/reconciliation/domain"
)

func staffRef(id snowflake.ID) *snowflake.ID {
	return &id
}

func cashBooking(staff *snowflake.ID, total, commission, transport, company int64, paid bool) *bookingdomain.Booking {
	return &bookingdomain.Booking{
		PaymentMethod:   "cash",
		StaffID:         staff,
		TotalPrice:      total,
		StaffCommission: commission,
		TransportFee:    transport,
		CompanyShare:    company,
		PaidToStaff:     paid,
		Status:          bookingdomain.StatusCompleted,
	}
}

func cardBooking(staff *snowflake.ID, total, commission, transport, company int64, paid bool) *bookingdomain.Booking {
	return &bookingdomain.Booking{
		PaymentMethod:   "card",
		StaffID:         staff,
		TotalPrice:      total,
		StaffCommission: commission,
		TransportFee:    transport,
		CompanyShare:    company,
		PaidToStaff:     paid,
		Status:          bookingdomain.StatusCompleted,
	}
}

func TestSummarizeNetBalance(t *testing.T) {
	staff := staffRef(snowflake.ID(42))

	// One unsettled cash booking where staff owe 171, one unsettled card
	// booking where the company owes 300. Net is negative: company pays out.
	bookings := []*bookingdomain.Booking{
		cashBooking(staff, 500, 200, 100, 171, false),
		cardBooking(staff, 500, 200, 100, 171, false),
	}

	sum := domain.Summarize(bookings)
	if sum.StaffOwesCompany != 171 {
		t.Fatalf("staff owes company: got %d", sum.StaffOwesCompany)
	}
	if sum.CompanyOwesStaff != 300 {
		t.Fatalf("company owes staff: got %d", sum.CompanyOwesStaff)
	}
	if sum.NetBalance != -129 {
		t.Fatalf("net balance: got %d, want -129", sum.NetBalance)
	}
	if sum.UnsettledCount != 2 {
		t.Fatalf("unsettled count: got %d", sum.UnsettledCount)
	}
}

func TestSummarizeSkipsSettledBookings(t *testing.T) {
	staff := staffRef(snowflake.ID(7))

	sum := domain.Summarize([]*bookingdomain.Booking{
		cashBooking(staff, 500, 200, 100, 200, true),
		cardBooking(staff, 500, 200, 100, 171, true),
	})

	if sum.StaffOwesCompany != 0 || sum.CompanyOwesStaff != 0 {
		t.Fatalf("settled bookings must not create balances: %+v", sum)
	}
	if sum.UnsettledCount != 0 {
		t.Fatalf("unsettled count: got %d", sum.UnsettledCount)
	}
	// Channel totals still accumulate for revenue reporting.
	if sum.Cash.Total != 500 || sum.Online.Total != 500 {
		t.Fatalf("channel totals missing: %+v", sum)
	}
}

func TestSummarizeSkipsStaffLessBalances(t *testing.T) {
	sum := domain.Summarize([]*bookingdomain.Booking{
		cashBooking(nil, 500, 200, 100, 200, false),
	})

	if sum.StaffOwesCompany != 0 {
		t.Fatalf("booking without staff cannot owe anyone, got %d", sum.StaffOwesCompany)
	}
	if sum.Cash.Total != 500 {
		t.Fatalf("revenue still counts: got %d", sum.Cash.Total)
	}
}

func TestSummarizeIsOrderIndependent(t *testing.T) {
	staff := staffRef(snowflake.ID(9))
	bookings := []*bookingdomain.Booking{
		cashBooking(staff, 500, 200, 100, 200, false),
		cardBooking(staff, 800, 320, 100, 40, false),
		cashBooking(staff, 300, 120, 100, 80, true),
		cardBooking(nil, 200, 80, 100, 9, false),
	}

	want := domain.Summarize(bookings)
	shuffled := make([]*bookingdomain.Booking, len(bookings))
	copy(shuffled, bookings)
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 10; i++ {
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})
		if got := domain.Summarize(shuffled); got != want {
			t.Fatalf("summary depends on input order: %+v != %+v", got, want)
		}
	}
}

func TestSummarizeOrders(t *testing.T) {
	sum := domain.SummarizeOrders([]*orderdomain.Order{
		{TotalPrice: 1000, ShopCommission: 100, CompanyShare: 852},
		{TotalPrice: 500, ShopCommission: 50, CompanyShare: 450},
	})

	if sum.Count != 2 {
		t.Fatalf("count: got %d", sum.Count)
	}
	if sum.Total != 1500 || sum.ShopCommission != 150 || sum.CompanyShare != 1302 {
		t.Fatalf("order totals wrong: %+v", sum)
	}
}

func TestGroupByStaffDeterministicOrder(t *testing.T) {
	alice := snowflake.ID(100)
	bob := snowflake.ID(200)

	payouts := domain.GroupByStaff([]*bookingdomain.Booking{
		cashBooking(staffRef(alice), 500, 200, 100, 200, false),
		cashBooking(staffRef(bob), 300, 120, 100, 80, false),
		cardBooking(staffRef(alice), 500, 200, 100, 171, false),
		cashBooking(nil, 100, 40, 100, -40, false),
	})

	if len(payouts) != 2 {
		t.Fatalf("expected two staff, got %d", len(payouts))
	}
	if payouts[0].StaffID != alice || payouts[1].StaffID != bob {
		t.Fatalf("grouping must keep first-seen order: %v, %v", payouts[0].StaffID, payouts[1].StaffID)
	}
	if payouts[0].Summary.StaffOwesCompany != 200 {
		t.Fatalf("alice owes: got %d", payouts[0].Summary.StaffOwesCompany)
	}
	if payouts[0].Summary.CompanyOwesStaff != 300 {
		t.Fatalf("company owes alice: got %d", payouts[0].Summary.CompanyOwesStaff)
	}
}
