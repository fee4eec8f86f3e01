package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/sabaispa/sabai/internal/catalog/domain"
	catalogrepo "github.com/sabaispa/sabai/internal/catalog/repository"
	catalogservice "github.com/sabaispa/sabai/internal/catalog/service"
	"github.com/sabaispa/sabai/pkg/i18n"
)

type env struct {
	db   *gorm.DB
	repo domain.Repository
	svc  domain.Service
}

func newEnv(t *testing.T) *env {
	t.Helper()

	db := setupTestDB(t)
	node, err := snowflake.NewNode(4)
	if err != nil {
		t.Fatalf("new node: %v", err)
	}
	repo := catalogrepo.Provide()
	svc := catalogservice.New(catalogservice.Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repo,
	})
	return &env{db: db, repo: repo, svc: svc}
}

func TestCreateTreatmentSlugFromDefaultLocale(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	treatment, err := e.svc.CreateTreatment(ctx, domain.CreateTreatmentRequest{
		Name:            i18n.Localized(map[string]string{"en": "Aroma Oil Massage", "th": "นวดน้ำมันอโรม่า"}),
		Price:           900,
		DurationMinutes: 90,
	})
	if err != nil {
		t.Fatalf("create treatment: %v", err)
	}
	if treatment.Slug != "aroma-oil-massage" {
		t.Fatalf("slug: got %q", treatment.Slug)
	}
	if !treatment.Active {
		t.Fatal("new treatments start active")
	}

	found, err := e.svc.GetTreatment(ctx, treatment.ID.String())
	if err != nil {
		t.Fatalf("get treatment: %v", err)
	}
	if found.Price != 900 || found.DurationMinutes != 90 {
		t.Fatalf("stored treatment diverged: %+v", found)
	}
}

func TestCreateTreatmentValidation(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	if _, err := e.svc.CreateTreatment(ctx, domain.CreateTreatmentRequest{Name: i18n.Plain("  "), Price: 100}); !errors.Is(err, domain.ErrInvalidName) {
		t.Fatalf("blank name: expected invalid name, got %v", err)
	}
	if _, err := e.svc.CreateTreatment(ctx, domain.CreateTreatmentRequest{Name: i18n.Plain("Foot Massage"), Price: -1}); !errors.Is(err, domain.ErrInvalidPrice) {
		t.Fatalf("negative price: expected invalid price, got %v", err)
	}
}

func TestCreateTreatmentRejectsDuplicateSlug(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	if _, err := e.svc.CreateTreatment(ctx, domain.CreateTreatmentRequest{Name: i18n.Plain("Thai Massage"), Price: 500}); err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err := e.svc.CreateTreatment(ctx, domain.CreateTreatmentRequest{Name: i18n.Plain("Thai Massage"), Price: 600})
	if !errors.Is(err, domain.ErrSlugTaken) {
		t.Fatalf("expected slug taken, got %v", err)
	}
}

func TestCreateAddonRequiresTreatment(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	_, err := e.svc.CreateAddon(ctx, domain.CreateAddonRequest{
		TreatmentID: "123456789",
		Name:        i18n.Plain("Hot Herbal Compress"),
		Price:       200,
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCreateAddonScopesSlugToTreatment(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	treatment, err := e.svc.CreateTreatment(ctx, domain.CreateTreatmentRequest{
		Name:  i18n.Plain("Thai Massage"),
		Price: 500,
	})
	if err != nil {
		t.Fatalf("create treatment: %v", err)
	}

	addon, err := e.svc.CreateAddon(ctx, domain.CreateAddonRequest{
		TreatmentID: treatment.ID.String(),
		Name:        i18n.Plain("Hot Herbal Compress"),
		Price:       200,
	})
	if err != nil {
		t.Fatalf("create addon: %v", err)
	}
	if addon.Slug != "thai-massage-hot-herbal-compress" {
		t.Fatalf("addon slug: got %q", addon.Slug)
	}
	if addon.TreatmentID != treatment.ID {
		t.Fatalf("addon bound to wrong treatment: %v", addon.TreatmentID)
	}

	addons, err := e.svc.ListAddons(ctx, treatment.ID.String())
	if err != nil {
		t.Fatalf("list addons: %v", err)
	}
	if len(addons) != 1 || addons[0].ID != addon.ID {
		t.Fatalf("unexpected addon list: %+v", addons)
	}
}

func TestListTreatmentsFilters(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	first, err := e.svc.CreateTreatment(ctx, domain.CreateTreatmentRequest{Name: i18n.Plain("Thai Massage"), Price: 500})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := e.svc.CreateTreatment(ctx, domain.CreateTreatmentRequest{Name: i18n.Plain("Foot Massage"), Price: 300}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := e.db.Exec(`UPDATE treatments SET active = FALSE WHERE id = ?`, first.ID).Error; err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	bySlug, err := e.svc.ListTreatments(ctx, domain.ListRequest{Slug: "thai-massage"})
	if err != nil {
		t.Fatalf("list by slug: %v", err)
	}
	if len(bySlug) != 1 || bySlug[0].ID != first.ID {
		t.Fatalf("slug filter: %+v", bySlug)
	}

	active, err := e.svc.ListTreatments(ctx, domain.ListRequest{ActiveOnly: true})
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(active) != 1 || active[0].Slug != "foot-massage" {
		t.Fatalf("active filter: %+v", active)
	}
}

func TestCreateProductValidation(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	if _, err := e.svc.CreateProduct(ctx, domain.CreateProductRequest{Name: i18n.Plain("Balm"), Price: 100, Stock: -1}); !errors.Is(err, domain.ErrInvalidStock) {
		t.Fatalf("negative stock: expected invalid stock, got %v", err)
	}

	product, err := e.svc.CreateProduct(ctx, domain.CreateProductRequest{
		Name:  i18n.Plain("Herbal Balm 50g"),
		Price: 150,
		Stock: 10,
	})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	if product.Slug != "herbal-balm-50g" {
		t.Fatalf("product slug: got %q", product.Slug)
	}
}

func TestGetByMalformedID(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	if _, err := e.svc.GetTreatment(ctx, "not-a-number"); !errors.Is(err, domain.ErrInvalidID) {
		t.Fatalf("expected invalid id, got %v", err)
	}
	if _, err := e.svc.GetProduct(ctx, ""); !errors.Is(err, domain.ErrInvalidID) {
		t.Fatalf("expected invalid id, got %v", err)
	}
}

func TestDecrementStockFloorsAtZero(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	product, err := e.svc.CreateProduct(ctx, domain.CreateProductRequest{
		Name:  i18n.Plain("Massage Oil"),
		Price: 250,
		Stock: 3,
	})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}

	if err := e.repo.DecrementStock(ctx, e.db, product.ID, 2); err != nil {
		t.Fatalf("decrement: %v", err)
	}
	stored, err := e.svc.GetProduct(ctx, product.ID.String())
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	if stored.Stock != 1 {
		t.Fatalf("stock: got %d, want 1", stored.Stock)
	}

	// Over-decrement clamps instead of going negative.
	if err := e.repo.DecrementStock(ctx, e.db, product.ID, 5); err != nil {
		t.Fatalf("decrement past zero: %v", err)
	}
	stored, err = e.svc.GetProduct(ctx, product.ID.String())
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	if stored.Stock != 0 {
		t.Fatalf("stock floor: got %d, want 0", stored.Stock)
	}
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:memdb_catalog_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}

	schema := []string{
		`CREATE TABLE treatments (
			id BIGINT PRIMARY KEY,
			slug TEXT NOT NULL,
			name TEXT NOT NULL,
			description TEXT,
			price BIGINT NOT NULL DEFAULT 0,
			duration_minutes BIGINT NOT NULL DEFAULT 0,
			active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE TABLE addons (
			id BIGINT PRIMARY KEY,
			treatment_id BIGINT NOT NULL,
			slug TEXT NOT NULL,
			name TEXT NOT NULL,
			price BIGINT NOT NULL DEFAULT 0,
			active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE TABLE products (
			id BIGINT PRIMARY KEY,
			slug TEXT NOT NULL,
			name TEXT NOT NULL,
			price BIGINT NOT NULL DEFAULT 0,
			stock BIGINT NOT NULL DEFAULT 0,
			active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE UNIQUE INDEX idx_treatments_slug ON treatments (slug)`,
		`CREATE UNIQUE INDEX idx_products_slug ON products (slug)`,
	}
	for _, stmt := range schema {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("create schema: %v", err)
		}
	}
	return db
}
