package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/sabaispa/sabai/internal/catalog/domain"
	"github.com/sabaispa/sabai/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) InsertTreatment(ctx context.Context, db *gorm.DB, treatment *domain.Treatment) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO treatments (id, slug, name, description, price, duration_minutes, active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		treatment.ID,
		treatment.Slug,
		treatment.Name,
		treatment.Description,
		treatment.Price,
		treatment.DurationMinutes,
		treatment.Active,
		treatment.CreatedAt,
		treatment.UpdatedAt,
	).Error
}

func (r *repo) FindTreatmentByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Treatment, error) {
	var treatment domain.Treatment
	err := db.WithContext(ctx).Raw(
		`SELECT id, slug, name, description, price, duration_minutes, active, created_at, updated_at
		 FROM treatments WHERE id = ?`,
		id,
	).Scan(&treatment).Error
	if err != nil {
		return nil, err
	}
	if treatment.ID == 0 {
		return nil, nil
	}
	return &treatment, nil
}

func (r *repo) ListTreatments(ctx context.Context, db *gorm.DB, filter domain.ListFilter, page pagination.Pagination) ([]*domain.Treatment, error) {
	var treatments []*domain.Treatment
	stmt := db.WithContext(ctx).Model(&domain.Treatment{})
	if filter.Slug != "" {
		stmt = stmt.Where("slug = ?", filter.Slug)
	}
	if filter.ActiveOnly {
		stmt = stmt.Where("active = ?", true)
	}
	err := stmt.
		Order("created_at desc, id desc").
		Offset(page.Offset()).
		Limit(page.Limit()).
		Find(&treatments).Error
	if err != nil {
		return nil, err
	}
	return treatments, nil
}

func (r *repo) InsertAddon(ctx context.Context, db *gorm.DB, addon *domain.Addon) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO addons (id, treatment_id, slug, name, price, active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		addon.ID,
		addon.TreatmentID,
		addon.Slug,
		addon.Name,
		addon.Price,
		addon.Active,
		addon.CreatedAt,
		addon.UpdatedAt,
	).Error
}

func (r *repo) FindAddonsByIDs(ctx context.Context, db *gorm.DB, ids []snowflake.ID) ([]*domain.Addon, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var addons []*domain.Addon
	err := db.WithContext(ctx).
		Model(&domain.Addon{}).
		Where("id IN ?", ids).
		Find(&addons).Error
	if err != nil {
		return nil, err
	}
	return addons, nil
}

func (r *repo) ListAddons(ctx context.Context, db *gorm.DB, treatmentID snowflake.ID) ([]*domain.Addon, error) {
	var addons []*domain.Addon
	err := db.WithContext(ctx).
		Model(&domain.Addon{}).
		Where("treatment_id = ? AND active = ?", treatmentID, true).
		Order("id asc").
		Find(&addons).Error
	if err != nil {
		return nil, err
	}
	return addons, nil
}

func (r *repo) InsertProduct(ctx context.Context, db *gorm.DB, product *domain.Product) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO products (id, slug, name, price, stock, active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		product.ID,
		product.Slug,
		product.Name,
		product.Price,
		product.Stock,
		product.Active,
		product.CreatedAt,
		product.UpdatedAt,
	).Error
}

func (r *repo) FindProductByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Product, error) {
	var product domain.Product
	err := db.WithContext(ctx).Raw(
		`SELECT id, slug, name, price, stock, active, created_at, updated_at
		 FROM products WHERE id = ?`,
		id,
	).Scan(&product).Error
	if err != nil {
		return nil, err
	}
	if product.ID == 0 {
		return nil, nil
	}
	return &product, nil
}

func (r *repo) FindProductsByIDs(ctx context.Context, db *gorm.DB, ids []snowflake.ID) ([]*domain.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var products []*domain.Product
	err := db.WithContext(ctx).
		Model(&domain.Product{}).
		Where("id IN ?", ids).
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (r *repo) ListProducts(ctx context.Context, db *gorm.DB, filter domain.ListFilter, page pagination.Pagination) ([]*domain.Product, error) {
	var products []*domain.Product
	stmt := db.WithContext(ctx).Model(&domain.Product{})
	if filter.Slug != "" {
		stmt = stmt.Where("slug = ?", filter.Slug)
	}
	if filter.ActiveOnly {
		stmt = stmt.Where("active = ?", true)
	}
	err := stmt.
		Order("created_at desc, id desc").
		Offset(page.Offset()).
		Limit(page.Limit()).
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

// DecrementStock applies the floor in SQL so concurrent orders cannot drive
// stock negative.
func (r *repo) DecrementStock(ctx context.Context, db *gorm.DB, id snowflake.ID, qty int64) error {
	return db.WithContext(ctx).Exec(
		`UPDATE products
		 SET stock = CASE WHEN stock - ? < 0 THEN 0 ELSE stock - ? END,
		     updated_at = ?
		 WHERE id = ?`,
		qty,
		qty,
		time.Now().UTC(),
		id,
	).Error
}
