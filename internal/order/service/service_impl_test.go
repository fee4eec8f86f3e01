package service_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	catalogdomain "github.com/sabaispa/sabai/internal/catalog/domain"
	catalogrepo "github.com/sabaispa/sabai/internal/catalog/repository"
	"github.com/sabaispa/sabai/internal/config"
	"github.com/sabaispa/sabai/internal/order/domain"
	orderrepo "github.com/sabaispa/sabai/internal/order/repository"
	orderservice "github.com/sabaispa/sabai/internal/order/service"
	paymentdomain "github.com/sabaispa/sabai/internal/payment/domain"
	settingsdomain "github.com/sabaispa/sabai/internal/settings/domain"
	"github.com/sabaispa/sabai/pkg/i18n"
)

type fakeSettings struct {
	methods settingsdomain.PaymentMethods
}

func (f fakeSettings) GetPaymentMethods(ctx context.Context) (settingsdomain.PaymentMethods, int64, error) {
	return f.methods, 1, nil
}

func (f fakeSettings) UpdatePaymentMethods(ctx context.Context, methods settingsdomain.PaymentMethods, expectedVersion int64) (settingsdomain.PaymentMethods, int64, error) {
	return methods, expectedVersion + 1, nil
}

func (f fakeSettings) GetLoan(ctx context.Context) (settingsdomain.LoanState, int64, error) {
	return settingsdomain.LoanState{}, 1, nil
}

func (f fakeSettings) UpdateLoan(ctx context.Context, state settingsdomain.LoanState, expectedVersion int64) (settingsdomain.LoanState, int64, error) {
	return state, expectedVersion + 1, nil
}

func (f fakeSettings) EnsureDefaults(ctx context.Context, loan settingsdomain.LoanState) error {
	return nil
}

type fakeGateway struct {
	lastReq paymentdomain.CreateCheckoutSessionRequest
	calls   int
}

func (f *fakeGateway) CreateCheckoutSession(ctx context.Context, req paymentdomain.CreateCheckoutSessionRequest) (paymentdomain.CheckoutSession, error) {
	f.calls++
	f.lastReq = req
	return paymentdomain.CheckoutSession{ID: "cs_order_1", URL: "https://checkout.test/cs_order_1"}, nil
}

type env struct {
	db      *gorm.DB
	node    *snowflake.Node
	catalog catalogdomain.Repository
	gateway *fakeGateway
	svc     domain.Service
}

func newEnv(t *testing.T) *env {
	t.Helper()

	db := setupTestDB(t)
	node, err := snowflake.NewNode(3)
	if err != nil {
		t.Fatalf("new node: %v", err)
	}

	gateway := &fakeGateway{}
	catalog := catalogrepo.Provide()
	svc := orderservice.New(orderservice.Params{
		Cfg:      config.Config{SiteURL: "https://sabai.test"},
		DB:       db,
		Log:      zap.NewNop(),
		GenID:    node,
		Repo:     orderrepo.Provide(),
		Catalog:  catalog,
		Settings: fakeSettings{methods: settingsdomain.PaymentMethods{CashEnabled: true, CardEnabled: true}},
		Gateway:  gateway,
	})

	return &env{db: db, node: node, catalog: catalog, gateway: gateway, svc: svc}
}

func (e *env) seedProduct(t *testing.T, price, stock int64) catalogdomain.Product {
	t.Helper()

	now := time.Now().UTC()
	product := catalogdomain.Product{
		ID:        e.node.Generate(),
		Slug:      fmt.Sprintf("massage-oil-%d", now.UnixNano()),
		Name:      i18n.Plain("Massage Oil"),
		Price:     price,
		Stock:     stock,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := e.catalog.InsertProduct(context.Background(), e.db, &product); err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return product
}

func (e *env) stockOf(t *testing.T, id snowflake.ID) int64 {
	t.Helper()

	var stock int64
	if err := e.db.Raw("SELECT stock FROM products WHERE id = ?", id).Scan(&stock).Error; err != nil {
		t.Fatalf("query stock: %v", err)
	}
	return stock
}

func TestCheckoutRepricesFromCatalog(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	product := e.seedProduct(t, 250, 10)

	result, err := e.svc.Checkout(ctx, domain.CheckoutRequest{
		CustomerID: e.node.Generate().String(),
		Items: []domain.ItemSelection{
			{ProductID: product.ID.String(), Quantity: 4},
		},
		PaymentMethod: "card",
	})
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	order := result.Order

	// 4 x 250 = 1000: shop keeps 100, gateway round(36.5)+11 = 48.
	if order.TotalPrice != 1000 {
		t.Fatalf("total price: got %d", order.TotalPrice)
	}
	if order.ShopCommission != 100 {
		t.Fatalf("shop commission: got %d", order.ShopCommission)
	}
	if order.GatewayFee != 48 {
		t.Fatalf("gateway fee: got %d", order.GatewayFee)
	}
	if order.CompanyShare != 852 {
		t.Fatalf("company share: got %d", order.CompanyShare)
	}
	if !strings.HasPrefix(order.OrderNumber, "ORD-") {
		t.Fatalf("order number: got %q", order.OrderNumber)
	}
	if result.RedirectURL == "" {
		t.Fatalf("card checkout must return a redirect url")
	}
	if e.gateway.lastReq.TargetID != order.ID.String() {
		t.Fatalf("gateway target: got %s, want %s", e.gateway.lastReq.TargetID, order.ID)
	}
}

func TestCashCheckoutDecrementsStockImmediately(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	product := e.seedProduct(t, 100, 5)

	_, err := e.svc.Checkout(ctx, domain.CheckoutRequest{
		CustomerID: e.node.Generate().String(),
		Items: []domain.ItemSelection{
			{ProductID: product.ID.String(), Quantity: 3},
		},
		PaymentMethod: "cash",
	})
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}

	if got := e.stockOf(t, product.ID); got != 2 {
		t.Fatalf("stock after cash checkout: got %d, want 2", got)
	}
	if e.gateway.calls != 0 {
		t.Fatalf("cash checkout must not open a session")
	}
}

func TestCardCheckoutKeepsStockUntilWebhook(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	product := e.seedProduct(t, 100, 5)

	_, err := e.svc.Checkout(ctx, domain.CheckoutRequest{
		CustomerID: e.node.Generate().String(),
		Items: []domain.ItemSelection{
			{ProductID: product.ID.String(), Quantity: 3},
		},
		PaymentMethod: "card",
	})
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}

	if got := e.stockOf(t, product.ID); got != 5 {
		t.Fatalf("stock after card checkout: got %d, want 5", got)
	}
}

func TestCheckoutRejectsInsufficientStock(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	product := e.seedProduct(t, 100, 2)

	_, err := e.svc.Checkout(ctx, domain.CheckoutRequest{
		CustomerID: e.node.Generate().String(),
		Items: []domain.ItemSelection{
			{ProductID: product.ID.String(), Quantity: 3},
		},
		PaymentMethod: "cash",
	})
	if !errors.Is(err, domain.ErrOutOfStock) {
		t.Fatalf("expected out of stock, got %v", err)
	}

	if got := e.stockOf(t, product.ID); got != 2 {
		t.Fatalf("stock must be untouched, got %d", got)
	}
}

func TestConfirmCashReceipt(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	product := e.seedProduct(t, 100, 5)

	result, err := e.svc.Checkout(ctx, domain.CheckoutRequest{
		CustomerID: e.node.Generate().String(),
		Items: []domain.ItemSelection{
			{ProductID: product.ID.String(), Quantity: 1},
		},
		PaymentMethod: "cash",
	})
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}

	confirmed, err := e.svc.ConfirmCashReceipt(ctx, result.Order.ID.String())
	if err != nil {
		t.Fatalf("confirm cash receipt: %v", err)
	}
	if confirmed.PaymentStatus != domain.PaymentPaid {
		t.Fatalf("payment status: got %s", confirmed.PaymentStatus)
	}
	if confirmed.Status != domain.StatusConfirmed {
		t.Fatalf("status: got %s", confirmed.Status)
	}

	// Second confirmation hits no rows.
	if _, err := e.svc.ConfirmCashReceipt(ctx, result.Order.ID.String()); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected invalid transition, got %v", err)
	}
}

func TestConfirmCashReceiptRejectsCardOrder(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	product := e.seedProduct(t, 100, 5)

	result, err := e.svc.Checkout(ctx, domain.CheckoutRequest{
		CustomerID: e.node.Generate().String(),
		Items: []domain.ItemSelection{
			{ProductID: product.ID.String(), Quantity: 1},
		},
		PaymentMethod: "card",
	})
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}

	if _, err := e.svc.ConfirmCashReceipt(ctx, result.Order.ID.String()); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected invalid transition, got %v", err)
	}
}

func TestCancelPaidOrderFails(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	product := e.seedProduct(t, 100, 5)

	result, err := e.svc.Checkout(ctx, domain.CheckoutRequest{
		CustomerID: e.node.Generate().String(),
		Items: []domain.ItemSelection{
			{ProductID: product.ID.String(), Quantity: 1},
		},
		PaymentMethod: "cash",
	})
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if _, err := e.svc.ConfirmCashReceipt(ctx, result.Order.ID.String()); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	if _, err := e.svc.Cancel(ctx, result.Order.ID.String()); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected invalid transition, got %v", err)
	}
}

func TestCancelIsNotRepeatable(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	product := e.seedProduct(t, 100, 5)

	result, err := e.svc.Checkout(ctx, domain.CheckoutRequest{
		CustomerID: e.node.Generate().String(),
		Items: []domain.ItemSelection{
			{ProductID: product.ID.String(), Quantity: 1},
		},
		PaymentMethod: "cash",
	})
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}

	cancelled, err := e.svc.Cancel(ctx, result.Order.ID.String())
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if cancelled.Status != domain.StatusCancelled {
		t.Fatalf("status: got %s", cancelled.Status)
	}

	// Cancelled is terminal. A second cancel must not rewrite the recorded
	// payment outcome.
	if _, err := e.svc.Cancel(ctx, result.Order.ID.String()); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected invalid transition, got %v", err)
	}
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:memdb_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}

	schema := []string{
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
		`CREATE TABLE orders (
			id BIGINT PRIMARY KEY,
			order_number TEXT NOT NULL,
			customer_id BIGINT NOT NULL,
			items TEXT NOT NULL,
			payment_method TEXT NOT NULL,
			payment_status TEXT NOT NULL DEFAULT 'pending',
			status TEXT NOT NULL DEFAULT 'pending',
			total_price BIGINT NOT NULL DEFAULT 0,
			shop_commission BIGINT NOT NULL DEFAULT 0,
			gateway_fee BIGINT NOT NULL DEFAULT 0,
			company_share BIGINT NOT NULL DEFAULT 0,
			stripe_session_id TEXT NOT NULL DEFAULT '',
			stripe_payment_intent_id TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE UNIQUE INDEX ux_orders_order_number ON orders(order_number)`,
	}
	for _, stmt := range schema {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("create schema: %v", err)
		}
	}
	return db
}
