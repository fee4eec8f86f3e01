package commission

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidInput rejects out-of-range or malformed split inputs.
var ErrInvalidInput = errors.New("invalid split input")

// Kind selects the fee schedule applied to a transaction.
type Kind string

const (
	KindBooking Kind = "booking"
	KindOrder   Kind = "order"
)

// Method is the payment channel a transaction settles over.
type Method string

const (
	MethodCash Method = "cash"
	MethodCard Method = "card"
)

const (
	staffCommissionRate = 0.40
	shopCommissionRate  = 0.10
	materialCostRate    = 0.50
	gatewayFeeRate      = 0.0365
	gatewayFeeFixed     = 11
	transportFee        = 100
)

// AddonLine is one optional add-on attached to a booking.
type AddonLine struct {
	Reference string
	UnitPrice int64
	Quantity  int64
}

// Input describes a single transaction at creation time. Amounts are whole
// Thai Baht.
type Input struct {
	Kind       Kind
	Method     Method
	BaseAmount int64
	Addons     []AddonLine
}

// Split is the full disbursement breakdown for one transaction. CompanyShare
// is the remainder after every other component, so the components always sum
// back to TotalPrice.
type Split struct {
	TotalPrice      int64
	StaffCommission int64
	TransportFee    int64
	ShopCommission  int64
	GatewayFee      int64
	MaterialCost    int64
	CompanyShare    int64
}

// Compute derives the split for a transaction. It either returns the complete
// breakdown or an error, never a partial result.
func Compute(in Input) (Split, error) {
	if err := validate(in); err != nil {
		return Split{}, err
	}

	var addonTotal int64
	for _, a := range in.Addons {
		addonTotal += a.UnitPrice * a.Quantity
	}
	total := in.BaseAmount + addonTotal

	split := Split{TotalPrice: total}
	switch in.Kind {
	case KindBooking:
		split.StaffCommission = roundHalfUp(float64(total) * staffCommissionRate)
		split.TransportFee = transportFee
		split.MaterialCost = roundHalfUp(float64(addonTotal) * materialCostRate)
	case KindOrder:
		split.ShopCommission = roundHalfUp(float64(total) * shopCommissionRate)
	}

	if in.Method == MethodCard {
		split.GatewayFee = roundHalfUp(float64(total)*gatewayFeeRate) + gatewayFeeFixed
	}

	split.CompanyShare = total - split.StaffCommission - split.TransportFee -
		split.ShopCommission - split.GatewayFee - split.MaterialCost
	return split, nil
}

func validate(in Input) error {
	switch in.Kind {
	case KindBooking, KindOrder:
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidInput, in.Kind)
	}
	switch in.Method {
	case MethodCash, MethodCard:
	default:
		return fmt.Errorf("%w: unknown payment method %q", ErrInvalidInput, in.Method)
	}
	if in.BaseAmount < 0 {
		return fmt.Errorf("%w: negative base amount %d", ErrInvalidInput, in.BaseAmount)
	}
	if in.Kind == KindOrder && len(in.Addons) > 0 {
		return fmt.Errorf("%w: orders do not carry addons", ErrInvalidInput)
	}
	for i, a := range in.Addons {
		if a.UnitPrice < 0 {
			return fmt.Errorf("%w: addon %d has negative price", ErrInvalidInput, i)
		}
		if a.Quantity < 1 {
			return fmt.Errorf("%w: addon %d has quantity below 1", ErrInvalidInput, i)
		}
	}
	return nil
}

func roundHalfUp(v float64) int64 {
	return int64(math.Floor(v + 0.5))
}
