package domain

import (
	"context"
	"errors"
)

type ItemSelection struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
}

type CheckoutRequest struct {
	CustomerID    string
	Items         []ItemSelection
	PaymentMethod string
}

// CheckoutResult carries the persisted order plus, for card payments, the
// hosted payment page to redirect to.
type CheckoutResult struct {
	Order       Order  `json:"order"`
	RedirectURL string `json:"redirect_url,omitempty"`
}

type ListOrderRequest struct {
	Page            int
	PageSize        int
	CustomerID      string
	Statuses        []Status
	PaymentStatuses []PaymentStatus
}

type Service interface {
	Checkout(context.Context, CheckoutRequest) (CheckoutResult, error)
	GetByID(ctx context.Context, id string) (Order, error)
	List(context.Context, ListOrderRequest) ([]Order, error)

	// ConfirmCashReceipt marks a cash order paid once staff collect the
	// money on delivery.
	ConfirmCashReceipt(ctx context.Context, id string) (Order, error)
	Cancel(ctx context.Context, id string) (Order, error)
}

var (
	ErrInvalidID         = errors.New("invalid_id")
	ErrInvalidInput      = errors.New("invalid_input")
	ErrNotFound          = errors.New("not_found")
	ErrOutOfStock        = errors.New("out_of_stock")
	ErrInvalidTransition = errors.New("invalid_transition")
)
