package webhook_test

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

	bookingdomain "github.com/sabaispa/sabai/internal/booking/domain"
	bookingrepo "github.com/sabaispa/sabai/internal/booking/repository"
	catalogrepo "github.com/sabaispa/sabai/internal/catalog/repository"
	orderdomain "github.com/sabaispa/sabai/internal/order/domain"
	orderrepo "github.com/sabaispa/sabai/internal/order/repository"
	"github.com/sabaispa/sabai/internal/payment/domain"
	paymentrepo "github.com/sabaispa/sabai/internal/payment/repository"
	"github.com/sabaispa/sabai/internal/payment/webhook"
)

type env struct {
	db   *gorm.DB
	node *snowflake.Node
	svc  domain.WebhookService
}

func newEnv(t *testing.T) *env {
	t.Helper()

	db := setupTestDB(t)
	node, err := snowflake.NewNode(5)
	if err != nil {
		t.Fatalf("new node: %v", err)
	}

	svc := webhook.New(webhook.Params{
		DB:       db,
		Log:      zap.NewNop(),
		GenID:    node,
		Repo:     paymentrepo.Provide(),
		Orders:   orderrepo.Provide(),
		Bookings: bookingrepo.Provide(),
		Catalog:  catalogrepo.Provide(),
	})
	return &env{db: db, node: node, svc: svc}
}

func (e *env) seedProduct(t *testing.T, stock int64) snowflake.ID {
	t.Helper()

	id := e.node.Generate()
	now := time.Now().UTC()
	err := e.db.Exec(
		`INSERT INTO products (id, slug, name, price, stock, active, created_at, updated_at)
		 VALUES (?, ?, '"Herbal Balm"', 100, ?, TRUE, ?, ?)`,
		id, fmt.Sprintf("balm-%d", id), stock, now, now,
	).Error
	if err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return id
}

func (e *env) seedCardOrder(t *testing.T, productID snowflake.ID, qty int64) snowflake.ID {
	t.Helper()

	id := e.node.Generate()
	now := time.Now().UTC()
	items := fmt.Sprintf(`[{"product_id":"%d","name":"Herbal Balm","unit_price":100,"quantity":%d}]`, productID, qty)
	err := e.db.Exec(
		`INSERT INTO orders (
			id, order_number, customer_id, items,
			payment_method, payment_status, status,
			total_price, shop_commission, gateway_fee, company_share,
			stripe_session_id, stripe_payment_intent_id, created_at, updated_at
		) VALUES (?, ?, ?, ?, 'card', 'pending', 'pending', ?, 0, 0, 0, 'cs_1', '', ?, ?)`,
		id, fmt.Sprintf("ORD-%d", id), e.node.Generate(), items, 100*qty, now, now,
	).Error
	if err != nil {
		t.Fatalf("seed order: %v", err)
	}
	return id
}

func (e *env) seedCardBooking(t *testing.T) snowflake.ID {
	t.Helper()

	id := e.node.Generate()
	now := time.Now().UTC()
	err := e.db.Exec(
		`INSERT INTO bookings (
			id, customer_id, staff_id, treatment_id, scheduled_at, address, addons,
			payment_method, status,
			total_price, staff_commission, transport_fee, gateway_fee, material_cost, company_share,
			paid_to_staff, paid_to_staff_at, payout_notes,
			stripe_session_id, stripe_payment_intent_id,
			created_at, updated_at
		) VALUES (?, ?, NULL, ?, ?, '', NULL, 'card', 'pending', 500, 200, 100, 29, 0, 171, FALSE, NULL, '', 'cs_2', '', ?, ?)`,
		id, e.node.Generate(), e.node.Generate(), now, now, now,
	).Error
	if err != nil {
		t.Fatalf("seed booking: %v", err)
	}
	return id
}

func (e *env) orderState(t *testing.T, id snowflake.ID) (orderdomain.PaymentStatus, orderdomain.Status) {
	t.Helper()

	var row struct {
		PaymentStatus string
		Status        string
	}
	if err := e.db.Raw("SELECT payment_status, status FROM orders WHERE id = ?", id).Scan(&row).Error; err != nil {
		t.Fatalf("query order: %v", err)
	}
	return orderdomain.PaymentStatus(row.PaymentStatus), orderdomain.Status(row.Status)
}

func (e *env) stockOf(t *testing.T, id snowflake.ID) int64 {
	t.Helper()

	var stock int64
	if err := e.db.Raw("SELECT stock FROM products WHERE id = ?", id).Scan(&stock).Error; err != nil {
		t.Fatalf("query stock: %v", err)
	}
	return stock
}

func completedEvent(eventID string, kind domain.TargetKind, targetID snowflake.ID) domain.GatewayEvent {
	return domain.GatewayEvent{
		EventID:         eventID,
		Type:            domain.EventSessionCompleted,
		PaymentIntentID: "pi_" + eventID,
		SessionID:       "cs_" + eventID,
		TargetKind:      kind,
		TargetID:        targetID.String(),
	}
}

func TestCompletedSessionConfirmsOrderAndDecrementsStock(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	product := e.seedProduct(t, 10)
	order := e.seedCardOrder(t, product, 3)

	if err := e.svc.HandleEvent(ctx, completedEvent("evt_1", domain.TargetOrder, order)); err != nil {
		t.Fatalf("handle event: %v", err)
	}

	payment, status := e.orderState(t, order)
	if payment != orderdomain.PaymentPaid || status != orderdomain.StatusConfirmed {
		t.Fatalf("order state: got %s/%s", payment, status)
	}
	if got := e.stockOf(t, product); got != 7 {
		t.Fatalf("stock: got %d, want 7", got)
	}
}

func TestDuplicateEventIsReportedAndAppliedOnce(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	product := e.seedProduct(t, 10)
	order := e.seedCardOrder(t, product, 3)

	event := completedEvent("evt_dup", domain.TargetOrder, order)
	if err := e.svc.HandleEvent(ctx, event); err != nil {
		t.Fatalf("first delivery: %v", err)
	}
	if err := e.svc.HandleEvent(ctx, event); !errors.Is(err, domain.ErrEventAlreadyProcessed) {
		t.Fatalf("second delivery: expected already processed, got %v", err)
	}

	// The replay must not touch stock again.
	if got := e.stockOf(t, product); got != 7 {
		t.Fatalf("stock after replay: got %d, want 7", got)
	}
}

func TestSameIntentDifferentEventIDIsRejected(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	product := e.seedProduct(t, 10)
	order := e.seedCardOrder(t, product, 3)

	first := completedEvent("evt_a", domain.TargetOrder, order)
	second := completedEvent("evt_b", domain.TargetOrder, order)
	second.PaymentIntentID = first.PaymentIntentID

	if err := e.svc.HandleEvent(ctx, first); err != nil {
		t.Fatalf("first delivery: %v", err)
	}
	if err := e.svc.HandleEvent(ctx, second); !errors.Is(err, domain.ErrEventAlreadyProcessed) {
		t.Fatalf("expected intent dedupe, got %v", err)
	}
	if got := e.stockOf(t, product); got != 7 {
		t.Fatalf("stock after intent replay: got %d, want 7", got)
	}
}

func TestExpiredSessionCancelsPendingOrder(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	product := e.seedProduct(t, 10)
	order := e.seedCardOrder(t, product, 3)

	event := completedEvent("evt_exp", domain.TargetOrder, order)
	event.Type = domain.EventSessionExpired
	if err := e.svc.HandleEvent(ctx, event); err != nil {
		t.Fatalf("handle event: %v", err)
	}

	payment, status := e.orderState(t, order)
	if payment != orderdomain.PaymentExpired || status != orderdomain.StatusCancelled {
		t.Fatalf("order state: got %s/%s", payment, status)
	}
	if got := e.stockOf(t, product); got != 10 {
		t.Fatalf("expired session must not touch stock, got %d", got)
	}
}

func TestStaleFailureNeverOverwritesPaidOrder(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	product := e.seedProduct(t, 10)
	order := e.seedCardOrder(t, product, 3)

	if err := e.svc.HandleEvent(ctx, completedEvent("evt_ok", domain.TargetOrder, order)); err != nil {
		t.Fatalf("completion: %v", err)
	}

	failure := domain.GatewayEvent{
		EventID:       "evt_late_failure",
		Type:          domain.EventPaymentFailed,
		TargetKind:    domain.TargetOrder,
		TargetID:      order.String(),
		FailureReason: "card declined",
	}
	if err := e.svc.HandleEvent(ctx, failure); err != nil {
		t.Fatalf("stale failure must be acknowledged, got %v", err)
	}

	payment, status := e.orderState(t, order)
	if payment != orderdomain.PaymentPaid || status != orderdomain.StatusConfirmed {
		t.Fatalf("paid order was overwritten: %s/%s", payment, status)
	}
}

func TestLateFailureKeepsCancelledOrderTerminal(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	product := e.seedProduct(t, 10)
	order := e.seedCardOrder(t, product, 3)

	expiry := completedEvent("evt_first_exp", domain.TargetOrder, order)
	expiry.Type = domain.EventSessionExpired
	if err := e.svc.HandleEvent(ctx, expiry); err != nil {
		t.Fatalf("expiry: %v", err)
	}

	// A distinct failure event for the same order passes idempotency but
	// must leave the first terminal outcome untouched.
	failure := domain.GatewayEvent{
		EventID:         "evt_late_fail",
		Type:            domain.EventPaymentFailed,
		PaymentIntentID: "pi_evt_late_fail",
		TargetKind:      domain.TargetOrder,
		TargetID:        order.String(),
		FailureReason:   "card declined",
	}
	if err := e.svc.HandleEvent(ctx, failure); err != nil {
		t.Fatalf("late failure must be acknowledged, got %v", err)
	}

	payment, status := e.orderState(t, order)
	if payment != orderdomain.PaymentExpired || status != orderdomain.StatusCancelled {
		t.Fatalf("terminal failure state was overwritten: %s/%s", payment, status)
	}

	var recorded string
	if err := e.db.Raw("SELECT status FROM webhook_events WHERE gateway_event_id = ?", "evt_late_fail").Scan(&recorded).Error; err != nil {
		t.Fatalf("query event: %v", err)
	}
	if recorded != string(domain.ProcessingSkipped) {
		t.Fatalf("late failure must be recorded as skipped, got %s", recorded)
	}
}

func TestUnknownOrderIsRecordedAndAcknowledged(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	event := completedEvent("evt_ghost", domain.TargetOrder, e.node.Generate())
	if err := e.svc.HandleEvent(ctx, event); err != nil {
		t.Fatalf("unknown order must not error, got %v", err)
	}

	var status string
	if err := e.db.Raw("SELECT status FROM webhook_events WHERE gateway_event_id = ?", "evt_ghost").Scan(&status).Error; err != nil {
		t.Fatalf("query event: %v", err)
	}
	if status != string(domain.ProcessingSkipped) {
		t.Fatalf("event status: got %s", status)
	}
}

func TestCompletedSessionConfirmsBooking(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	booking := e.seedCardBooking(t)

	if err := e.svc.HandleEvent(ctx, completedEvent("evt_bk", domain.TargetBooking, booking)); err != nil {
		t.Fatalf("handle event: %v", err)
	}

	var row struct {
		Status                string
		StripePaymentIntentID string
	}
	if err := e.db.Raw("SELECT status, stripe_payment_intent_id FROM bookings WHERE id = ?", booking).Scan(&row).Error; err != nil {
		t.Fatalf("query booking: %v", err)
	}
	if row.Status != string(bookingdomain.StatusConfirmed) {
		t.Fatalf("booking status: got %s", row.Status)
	}
	if row.StripePaymentIntentID != "pi_evt_bk" {
		t.Fatalf("intent not recorded: %q", row.StripePaymentIntentID)
	}
}

func TestExpiredSessionCancelsPendingBooking(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	booking := e.seedCardBooking(t)

	event := completedEvent("evt_bk_exp", domain.TargetBooking, booking)
	event.Type = domain.EventSessionExpired
	if err := e.svc.HandleEvent(ctx, event); err != nil {
		t.Fatalf("handle event: %v", err)
	}

	var status string
	if err := e.db.Raw("SELECT status FROM bookings WHERE id = ?", booking).Scan(&status).Error; err != nil {
		t.Fatalf("query booking: %v", err)
	}
	if status != string(bookingdomain.StatusCancelled) {
		t.Fatalf("booking status: got %s", status)
	}
}

func TestEmptyEventIDIsRejected(t *testing.T) {
	e := newEnv(t)
	err := e.svc.HandleEvent(context.Background(), domain.GatewayEvent{Type: domain.EventSessionCompleted})
	if !errors.Is(err, domain.ErrInvalidPayload) {
		t.Fatalf("expected invalid payload, got %v", err)
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
		`CREATE TABLE bookings (
			id BIGINT PRIMARY KEY,
			customer_id BIGINT NOT NULL,
			staff_id BIGINT,
			treatment_id BIGINT NOT NULL,
			scheduled_at DATETIME NOT NULL,
			address TEXT NOT NULL DEFAULT '',
			addons TEXT,
			payment_method TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'pending',
			total_price BIGINT NOT NULL DEFAULT 0,
			staff_commission BIGINT NOT NULL DEFAULT 0,
			transport_fee BIGINT NOT NULL DEFAULT 0,
			gateway_fee BIGINT NOT NULL DEFAULT 0,
			material_cost BIGINT NOT NULL DEFAULT 0,
			company_share BIGINT NOT NULL DEFAULT 0,
			paid_to_staff BOOLEAN NOT NULL DEFAULT FALSE,
			paid_to_staff_at DATETIME,
			payout_notes TEXT NOT NULL DEFAULT '',
			stripe_session_id TEXT NOT NULL DEFAULT '',
			stripe_payment_intent_id TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE TABLE webhook_events (
			id BIGINT PRIMARY KEY,
			gateway_event_id TEXT NOT NULL,
			payment_intent_id TEXT,
			event_type TEXT NOT NULL,
			target_kind TEXT NOT NULL,
			target_id TEXT NOT NULL,
			status TEXT NOT NULL,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE UNIQUE INDEX ux_webhook_events_gateway_event_id ON webhook_events(gateway_event_id)`,
		`CREATE UNIQUE INDEX ux_webhook_events_payment_intent_id ON webhook_events(payment_intent_id) WHERE payment_intent_id IS NOT NULL`,
	}
	for _, stmt := range schema {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("create schema: %v", err)
		}
	}
	return db
}
