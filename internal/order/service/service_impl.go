package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/oklog/ulid/v2"
	catalogdomain "github.com/sabaispa/sabai/internal/catalog/domain"
	"github.com/sabaispa/sabai/internal/commission"
	"github.com/sabaispa/sabai/internal/config"
	"github.com/sabaispa/sabai/internal/order/domain"
	paymentdomain "github.com/sabaispa/sabai/internal/payment/domain"
	settingsdomain "github.com/sabaispa/sabai/internal/settings/domain"
	"github.com/sabaispa/sabai/pkg/db/pagination"
	"github.com/sabaispa/sabai/pkg/i18n"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	Cfg      config.Config
	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Repo     domain.Repository
	Catalog  catalogdomain.Repository
	Settings settingsdomain.Service
	Gateway  paymentdomain.CheckoutGateway
}

type Service struct {
	cfg      config.Config
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	repo     domain.Repository
	catalog  catalogdomain.Repository
	settings settingsdomain.Service
	gateway  paymentdomain.CheckoutGateway
}

func New(p Params) domain.Service {
	return &Service{
		cfg:      p.Cfg,
		db:       p.DB,
		log:      p.Log.Named("order.service"),
		genID:    p.GenID,
		repo:     p.Repo,
		catalog:  p.Catalog,
		settings: p.Settings,
		gateway:  p.Gateway,
	}
}

// Checkout prices the cart from the catalog, persists the order with its
// frozen split, and for card payments returns the gateway redirect. Client
// prices are never trusted.
func (s *Service) Checkout(ctx context.Context, req domain.CheckoutRequest) (domain.CheckoutResult, error) {
	customerID, err := parseID(req.CustomerID)
	if err != nil {
		return domain.CheckoutResult{}, err
	}
	if len(req.Items) == 0 {
		return domain.CheckoutResult{}, fmt.Errorf("%w: empty cart", domain.ErrInvalidInput)
	}

	method := commission.Method(strings.ToLower(strings.TrimSpace(req.PaymentMethod)))
	if err := s.checkMethodEnabled(ctx, method); err != nil {
		return domain.CheckoutResult{}, err
	}

	lines, err := s.priceItems(ctx, req.Items)
	if err != nil {
		return domain.CheckoutResult{}, err
	}
	var subtotal int64
	for _, line := range lines {
		subtotal += line.UnitPrice * line.Quantity
	}

	split, err := commission.Compute(commission.Input{
		Kind:       commission.KindOrder,
		Method:     method,
		BaseAmount: subtotal,
	})
	if err != nil {
		return domain.CheckoutResult{}, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	now := time.Now().UTC()
	order := domain.Order{
		ID:             s.genID.Generate(),
		OrderNumber:    "ORD-" + ulid.Make().String(),
		CustomerID:     customerID,
		Items:          datatypes.NewJSONSlice(lines),
		PaymentMethod:  string(method),
		PaymentStatus:  domain.PaymentPending,
		Status:         domain.StatusPending,
		TotalPrice:     split.TotalPrice,
		ShopCommission: split.ShopCommission,
		GatewayFee:     split.GatewayFee,
		CompanyShare:   split.CompanyShare,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	var redirectURL string
	if method == commission.MethodCard {
		session, err := s.createSession(ctx, lines, order.ID)
		if err != nil {
			return domain.CheckoutResult{}, err
		}
		order.StripeSessionID = session.ID
		redirectURL = session.URL
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Insert(ctx, tx, &order); err != nil {
			return err
		}
		// Cash has no asynchronous confirmation, so stock comes off now.
		// Card stock is decremented by the webhook on payment success.
		if method == commission.MethodCash {
			for _, line := range lines {
				if err := s.catalog.DecrementStock(ctx, tx, line.ProductID, line.Quantity); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return domain.CheckoutResult{}, err
	}

	s.log.Info("order created",
		zap.String("order_id", order.ID.String()),
		zap.String("order_number", order.OrderNumber),
		zap.String("payment_method", order.PaymentMethod),
		zap.Int64("total_price", order.TotalPrice),
	)
	return domain.CheckoutResult{Order: order, RedirectURL: redirectURL}, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Order, error) {
	parsed, err := parseID(id)
	if err != nil {
		return domain.Order{}, err
	}
	item, err := s.repo.FindByID(ctx, s.db, parsed)
	if err != nil {
		return domain.Order{}, err
	}
	if item == nil {
		return domain.Order{}, domain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) List(ctx context.Context, req domain.ListOrderRequest) ([]domain.Order, error) {
	filter := domain.ListFilter{
		Statuses:        req.Statuses,
		PaymentStatuses: req.PaymentStatuses,
	}
	if strings.TrimSpace(req.CustomerID) != "" {
		id, err := parseID(req.CustomerID)
		if err != nil {
			return nil, err
		}
		filter.CustomerID = id
	}
	items, err := s.repo.List(ctx, s.db, filter, pagination.Pagination{Page: req.Page, PageSize: req.PageSize})
	if err != nil {
		return nil, err
	}
	orders := make([]domain.Order, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		orders = append(orders, *item)
	}
	return orders, nil
}

func (s *Service) ConfirmCashReceipt(ctx context.Context, id string) (domain.Order, error) {
	parsed, err := parseID(id)
	if err != nil {
		return domain.Order{}, err
	}
	current, err := s.repo.FindByID(ctx, s.db, parsed)
	if err != nil {
		return domain.Order{}, err
	}
	if current == nil {
		return domain.Order{}, domain.ErrNotFound
	}
	if current.PaymentMethod != string(commission.MethodCash) {
		return domain.Order{}, fmt.Errorf("%w: only cash orders are confirmed manually", domain.ErrInvalidTransition)
	}
	affected, err := s.repo.MarkPaid(ctx, s.db, parsed, "")
	if err != nil {
		return domain.Order{}, err
	}
	if affected == 0 {
		return domain.Order{}, fmt.Errorf("%w: order is %s/%s", domain.ErrInvalidTransition, current.PaymentStatus, current.Status)
	}
	return s.GetByID(ctx, id)
}

func (s *Service) Cancel(ctx context.Context, id string) (domain.Order, error) {
	parsed, err := parseID(id)
	if err != nil {
		return domain.Order{}, err
	}
	affected, err := s.repo.MarkFailed(ctx, s.db, parsed, domain.PaymentFailed)
	if err != nil {
		return domain.Order{}, err
	}
	if affected == 0 {
		current, err := s.repo.FindByID(ctx, s.db, parsed)
		if err != nil {
			return domain.Order{}, err
		}
		if current == nil {
			return domain.Order{}, domain.ErrNotFound
		}
		return domain.Order{}, fmt.Errorf("%w: order is %s/%s", domain.ErrInvalidTransition, current.PaymentStatus, current.Status)
	}
	return s.GetByID(ctx, id)
}

func (s *Service) checkMethodEnabled(ctx context.Context, method commission.Method) error {
	if method != commission.MethodCash && method != commission.MethodCard {
		return fmt.Errorf("%w: payment method %q", domain.ErrInvalidInput, method)
	}
	methods, _, err := s.settings.GetPaymentMethods(ctx)
	if errors.Is(err, settingsdomain.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if method == commission.MethodCash && !methods.CashEnabled {
		return fmt.Errorf("%w: cash payments are disabled", domain.ErrInvalidInput)
	}
	if method == commission.MethodCard && !methods.CardEnabled {
		return fmt.Errorf("%w: card payments are disabled", domain.ErrInvalidInput)
	}
	return nil
}

func (s *Service) priceItems(ctx context.Context, selections []domain.ItemSelection) ([]domain.ItemLine, error) {
	ids := make([]snowflake.ID, 0, len(selections))
	for _, sel := range selections {
		id, err := parseID(sel.ProductID)
		if err != nil {
			return nil, err
		}
		if sel.Quantity < 1 {
			return nil, fmt.Errorf("%w: quantity below 1", domain.ErrInvalidInput)
		}
		ids = append(ids, id)
	}

	products, err := s.catalog.FindProductsByIDs(ctx, s.db, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[snowflake.ID]*catalogdomain.Product, len(products))
	for _, product := range products {
		byID[product.ID] = product
	}

	lines := make([]domain.ItemLine, 0, len(selections))
	for _, sel := range selections {
		id, _ := parseID(sel.ProductID)
		product, ok := byID[id]
		if !ok || !product.Active {
			return nil, fmt.Errorf("%w: product %s", domain.ErrNotFound, sel.ProductID)
		}
		if product.Stock < sel.Quantity {
			return nil, fmt.Errorf("%w: product %s has %d left", domain.ErrOutOfStock, product.Slug, product.Stock)
		}
		lines = append(lines, domain.ItemLine{
			ProductID: product.ID,
			Name:      product.Name.Resolve(i18n.DefaultLocale),
			UnitPrice: product.Price,
			Quantity:  sel.Quantity,
		})
	}
	return lines, nil
}

func (s *Service) createSession(ctx context.Context, lines []domain.ItemLine, orderID snowflake.ID) (paymentdomain.CheckoutSession, error) {
	items := make([]paymentdomain.LineItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, paymentdomain.LineItem{
			Name:      line.Name,
			UnitPrice: line.UnitPrice,
			Quantity:  line.Quantity,
		})
	}
	return s.gateway.CreateCheckoutSession(ctx, paymentdomain.CreateCheckoutSessionRequest{
		LineItems:  items,
		Currency:   "thb",
		SuccessURL: s.cfg.SiteURL + "/shop/success",
		CancelURL:  s.cfg.SiteURL + "/shop/cancelled",
		TargetKind: paymentdomain.TargetOrder,
		TargetID:   orderID.String(),
	})
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
