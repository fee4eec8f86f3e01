package domain

import (
	"github.com/bwmarrin/snowflake"
	bookingdomain "github.com/sabaispa/sabai/internal/booking/domain"
	"github.com/sabaispa/sabai/internal/commission"
	orderdomain "github.com/sabaispa/sabai/internal/order/domain"
)

// Summarize folds bookings into a reconciliation summary. The fold is pure:
// order-independent, no hidden state, missing numeric fields count as zero.
//
// Cash: the staff member physically holds the total. They keep commission
// plus transport and owe the company share until settled. Online: the company
// holds the total, keeps its share, and owes commission plus transport until
// settled.
func Summarize(bookings []*bookingdomain.Booking) Summary {
	var sum Summary
	for _, b := range bookings {
		if b == nil {
			continue
		}
		staffKeeps := b.StaffCommission + b.TransportFee
		switch b.PaymentMethod {
		case string(commission.MethodCash):
			sum.Cash.Count++
			sum.Cash.Total += b.TotalPrice
			sum.Cash.StaffKeeps += staffKeeps
			sum.Cash.Company += b.CompanyShare
			if !b.PaidToStaff && b.StaffID != nil {
				sum.StaffOwesCompany += b.CompanyShare
				sum.UnsettledCount++
			}
		default:
			sum.Online.Count++
			sum.Online.Total += b.TotalPrice
			sum.Online.StaffKeeps += staffKeeps
			sum.Online.Company += b.CompanyShare
			if !b.PaidToStaff && b.StaffID != nil {
				sum.CompanyOwesStaff += staffKeeps
				sum.UnsettledCount++
			}
		}
	}
	sum.NetBalance = sum.StaffOwesCompany - sum.CompanyOwesStaff
	return sum
}

// SummarizeOrders folds confirmed orders into shop revenue totals.
func SummarizeOrders(orders []*orderdomain.Order) OrdersSummary {
	var sum OrdersSummary
	for _, o := range orders {
		if o == nil {
			continue
		}
		sum.Count++
		sum.Total += o.TotalPrice
		sum.ShopCommission += o.ShopCommission
		sum.CompanyShare += o.CompanyShare
	}
	return sum
}

// GroupByStaff builds one summary per assigned staff member. Staff-less
// bookings are skipped here and only appear in the global summary.
func GroupByStaff(bookings []*bookingdomain.Booking) []StaffPayout {
	grouped := make(map[snowflake.ID][]*bookingdomain.Booking)
	var ids []snowflake.ID
	for _, b := range bookings {
		if b == nil || b.StaffID == nil {
			continue
		}
		id := *b.StaffID
		if _, seen := grouped[id]; !seen {
			ids = append(ids, id)
		}
		grouped[id] = append(grouped[id], b)
	}

	payouts := make([]StaffPayout, 0, len(ids))
	for _, id := range ids {
		staffID := id
		summary := Summarize(grouped[id])
		summary.StaffID = &staffID
		payouts = append(payouts, StaffPayout{StaffID: staffID, Summary: summary})
	}
	return payouts
}
