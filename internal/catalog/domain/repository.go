package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/sabaispa/sabai/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	InsertTreatment(ctx context.Context, db *gorm.DB, treatment *Treatment) error
	FindTreatmentByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Treatment, error)
	ListTreatments(ctx context.Context, db *gorm.DB, filter ListFilter, page pagination.Pagination) ([]*Treatment, error)

	InsertAddon(ctx context.Context, db *gorm.DB, addon *Addon) error
	FindAddonsByIDs(ctx context.Context, db *gorm.DB, ids []snowflake.ID) ([]*Addon, error)
	ListAddons(ctx context.Context, db *gorm.DB, treatmentID snowflake.ID) ([]*Addon, error)

	InsertProduct(ctx context.Context, db *gorm.DB, product *Product) error
	FindProductByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Product, error)
	FindProductsByIDs(ctx context.Context, db *gorm.DB, ids []snowflake.ID) ([]*Product, error)
	ListProducts(ctx context.Context, db *gorm.DB, filter ListFilter, page pagination.Pagination) ([]*Product, error)

	// DecrementStock lowers a product's stock by qty in a single statement,
	// never below zero.
	DecrementStock(ctx context.Context, db *gorm.DB, id snowflake.ID, qty int64) error
}
