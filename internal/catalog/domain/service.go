package domain

import (
	"context"
	"errors"

	"github.com/sabaispa/sabai/pkg/i18n"
)

type ListFilter struct {
	Slug       string
	ActiveOnly bool
}

type ListRequest struct {
	Page       int
	PageSize   int
	Slug       string
	ActiveOnly bool
}

type CreateTreatmentRequest struct {
	Name            i18n.Text
	Description     i18n.Text
	Price           int64
	DurationMinutes int
}

type CreateAddonRequest struct {
	TreatmentID string
	Name        i18n.Text
	Price       int64
}

type CreateProductRequest struct {
	Name  i18n.Text
	Price int64
	Stock int64
}

type Service interface {
	CreateTreatment(context.Context, CreateTreatmentRequest) (Treatment, error)
	GetTreatment(ctx context.Context, id string) (Treatment, error)
	ListTreatments(context.Context, ListRequest) ([]Treatment, error)
	ListAddons(ctx context.Context, treatmentID string) ([]Addon, error)
	CreateAddon(context.Context, CreateAddonRequest) (Addon, error)

	CreateProduct(context.Context, CreateProductRequest) (Product, error)
	GetProduct(ctx context.Context, id string) (Product, error)
	ListProducts(context.Context, ListRequest) ([]Product, error)
}

var (
	ErrInvalidID    = errors.New("invalid_id")
	ErrInvalidName  = errors.New("invalid_name")
	ErrInvalidPrice = errors.New("invalid_price")
	ErrInvalidStock = errors.New("invalid_stock")
	ErrSlugTaken    = errors.New("slug_taken")
	ErrNotFound     = errors.New("not_found")
)
