package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/sabaispa/sabai/internal/booking/domain"
	catalogdomain "github.com/sabaispa/sabai/internal/catalog/domain"
	"github.com/sabaispa/sabai/internal/commission"
	"github.com/sabaispa/sabai/internal/config"
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
		log:      p.Log.Named("booking.service"),
		genID:    p.GenID,
		repo:     p.Repo,
		catalog:  p.Catalog,
		settings: p.Settings,
		gateway:  p.Gateway,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateBookingRequest) (domain.Booking, error) {
	customerID, err := parseID(req.CustomerID)
	if err != nil {
		return domain.Booking{}, err
	}
	treatmentID, err := parseID(req.TreatmentID)
	if err != nil {
		return domain.Booking{}, err
	}
	var staffID *snowflake.ID
	if strings.TrimSpace(req.StaffID) != "" {
		id, err := parseID(req.StaffID)
		if err != nil {
			return domain.Booking{}, err
		}
		staffID = &id
	}
	if req.ScheduledAt.IsZero() {
		return domain.Booking{}, fmt.Errorf("%w: scheduled_at is required", domain.ErrInvalidInput)
	}

	method := commission.Method(strings.ToLower(strings.TrimSpace(req.PaymentMethod)))
	if err := s.checkMethodEnabled(ctx, method); err != nil {
		return domain.Booking{}, err
	}

	treatment, err := s.catalog.FindTreatmentByID(ctx, s.db, treatmentID)
	if err != nil {
		return domain.Booking{}, err
	}
	if treatment == nil || !treatment.Active {
		return domain.Booking{}, fmt.Errorf("%w: treatment %s", domain.ErrNotFound, req.TreatmentID)
	}

	addonLines, addonInputs, err := s.resolveAddons(ctx, treatmentID, req.Addons)
	if err != nil {
		return domain.Booking{}, err
	}

	split, err := commission.Compute(commission.Input{
		Kind:       commission.KindBooking,
		Method:     method,
		BaseAmount: treatment.Price,
		Addons:     addonInputs,
	})
	if err != nil {
		return domain.Booking{}, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	now := time.Now().UTC()
	booking := domain.Booking{
		ID:              s.genID.Generate(),
		CustomerID:      customerID,
		StaffID:         staffID,
		TreatmentID:     treatmentID,
		ScheduledAt:     req.ScheduledAt.UTC(),
		Address:         strings.TrimSpace(req.Address),
		Addons:          datatypes.NewJSONSlice(addonLines),
		PaymentMethod:   string(method),
		Status:          domain.StatusPending,
		TotalPrice:      split.TotalPrice,
		StaffCommission: split.StaffCommission,
		TransportFee:    split.TransportFee,
		GatewayFee:      split.GatewayFee,
		MaterialCost:    split.MaterialCost,
		CompanyShare:    split.CompanyShare,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if method == commission.MethodCard {
		session, err := s.createSession(ctx, treatment, addonLines, booking.ID)
		if err != nil {
			return domain.Booking{}, err
		}
		booking.StripeSessionID = session.ID
	}

	if err := s.repo.Insert(ctx, s.db, &booking); err != nil {
		return domain.Booking{}, err
	}
	s.log.Info("booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("payment_method", booking.PaymentMethod),
		zap.Int64("total_price", booking.TotalPrice),
	)
	return booking, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Booking, error) {
	parsed, err := parseID(id)
	if err != nil {
		return domain.Booking{}, err
	}
	item, err := s.repo.FindByID(ctx, s.db, parsed)
	if err != nil {
		return domain.Booking{}, err
	}
	if item == nil {
		return domain.Booking{}, domain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) List(ctx context.Context, req domain.ListBookingRequest) ([]domain.Booking, error) {
	filter := domain.ListFilter{
		Statuses:    req.Statuses,
		PaidToStaff: req.PaidToStaff,
	}
	if strings.TrimSpace(req.CustomerID) != "" {
		id, err := parseID(req.CustomerID)
		if err != nil {
			return nil, err
		}
		filter.CustomerID = id
	}
	if strings.TrimSpace(req.StaffID) != "" {
		id, err := parseID(req.StaffID)
		if err != nil {
			return nil, err
		}
		filter.StaffID = id
	}

	items, err := s.repo.List(ctx, s.db, filter, pagination.Pagination{Page: req.Page, PageSize: req.PageSize})
	if err != nil {
		return nil, err
	}
	bookings := make([]domain.Booking, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		bookings = append(bookings, *item)
	}
	return bookings, nil
}

// Update applies a sparse patch. Requests naming a frozen split column are
// rejected before any write.
func (s *Service) Update(ctx context.Context, req domain.UpdateBookingRequest) (domain.Booking, error) {
	id, err := parseID(req.ID)
	if err != nil {
		return domain.Booking{}, err
	}
	current, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Booking{}, err
	}
	if current == nil {
		return domain.Booking{}, domain.ErrNotFound
	}

	scheduledAt := current.ScheduledAt
	address := current.Address
	notes := current.PayoutNotes
	var touchScheduling, touchNotes bool

	for field, raw := range req.Fields {
		if _, frozen := domain.FrozenFields[field]; frozen {
			return domain.Booking{}, fmt.Errorf("%w: %s", domain.ErrImmutableField, field)
		}
		switch field {
		case "scheduled_at":
			parsed, err := parseTime(raw)
			if err != nil {
				return domain.Booking{}, fmt.Errorf("%w: scheduled_at", domain.ErrInvalidInput)
			}
			scheduledAt = parsed
			touchScheduling = true
		case "address":
			value, ok := raw.(string)
			if !ok {
				return domain.Booking{}, fmt.Errorf("%w: address", domain.ErrInvalidInput)
			}
			address = strings.TrimSpace(value)
			touchScheduling = true
		case "payout_notes":
			value, ok := raw.(string)
			if !ok {
				return domain.Booking{}, fmt.Errorf("%w: payout_notes", domain.ErrInvalidInput)
			}
			notes = value
			touchNotes = true
		case "status", "paid_to_staff", "paid_to_staff_at":
			return domain.Booking{}, fmt.Errorf("%w: %s changes only through its dedicated operation", domain.ErrInvalidInput, field)
		default:
			return domain.Booking{}, fmt.Errorf("%w: unknown field %s", domain.ErrInvalidInput, field)
		}
	}

	if touchScheduling {
		if _, err := s.repo.UpdateScheduling(ctx, s.db, id, scheduledAt, address); err != nil {
			return domain.Booking{}, err
		}
	}
	if touchNotes {
		if _, err := s.repo.UpdatePayoutNotes(ctx, s.db, id, notes); err != nil {
			return domain.Booking{}, err
		}
	}
	return s.GetByID(ctx, req.ID)
}

func (s *Service) Confirm(ctx context.Context, id string) (domain.Booking, error) {
	return s.transition(ctx, id, []domain.Status{domain.StatusPending}, domain.StatusConfirmed)
}

func (s *Service) Complete(ctx context.Context, id string) (domain.Booking, error) {
	return s.transition(ctx, id, []domain.Status{domain.StatusConfirmed}, domain.StatusCompleted)
}

func (s *Service) Cancel(ctx context.Context, id string) (domain.Booking, error) {
	return s.transition(ctx, id, []domain.Status{domain.StatusPending, domain.StatusConfirmed}, domain.StatusCancelled)
}

func (s *Service) AssignStaff(ctx context.Context, id, staffID string) (domain.Booking, error) {
	bookingID, err := parseID(id)
	if err != nil {
		return domain.Booking{}, err
	}
	staff, err := parseID(staffID)
	if err != nil {
		return domain.Booking{}, err
	}
	affected, err := s.repo.AssignStaff(ctx, s.db, bookingID, staff)
	if err != nil {
		return domain.Booking{}, err
	}
	if affected == 0 {
		return domain.Booking{}, s.explainNoRows(ctx, bookingID)
	}
	return s.GetByID(ctx, id)
}

func (s *Service) transition(ctx context.Context, id string, from []domain.Status, to domain.Status) (domain.Booking, error) {
	parsed, err := parseID(id)
	if err != nil {
		return domain.Booking{}, err
	}
	affected, err := s.repo.UpdateStatus(ctx, s.db, parsed, from, to)
	if err != nil {
		return domain.Booking{}, err
	}
	if affected == 0 {
		return domain.Booking{}, s.explainNoRows(ctx, parsed)
	}
	return s.GetByID(ctx, id)
}

func (s *Service) explainNoRows(ctx context.Context, id snowflake.ID) error {
	current, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return err
	}
	if current == nil {
		return domain.ErrNotFound
	}
	return fmt.Errorf("%w: booking is %s", domain.ErrInvalidTransition, current.Status)
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

func (s *Service) resolveAddons(ctx context.Context, treatmentID snowflake.ID, selections []domain.AddonSelection) ([]domain.AddonLine, []commission.AddonLine, error) {
	if len(selections) == 0 {
		return nil, nil, nil
	}

	ids := make([]snowflake.ID, 0, len(selections))
	for _, sel := range selections {
		id, err := parseID(sel.AddonID)
		if err != nil {
			return nil, nil, err
		}
		ids = append(ids, id)
	}
	addons, err := s.catalog.FindAddonsByIDs(ctx, s.db, ids)
	if err != nil {
		return nil, nil, err
	}
	byID := make(map[snowflake.ID]*catalogdomain.Addon, len(addons))
	for _, addon := range addons {
		byID[addon.ID] = addon
	}

	lines := make([]domain.AddonLine, 0, len(selections))
	inputs := make([]commission.AddonLine, 0, len(selections))
	for _, sel := range selections {
		id, _ := parseID(sel.AddonID)
		addon, ok := byID[id]
		if !ok || !addon.Active || addon.TreatmentID != treatmentID {
			return nil, nil, fmt.Errorf("%w: addon %s", domain.ErrNotFound, sel.AddonID)
		}
		if sel.Quantity < 1 {
			return nil, nil, fmt.Errorf("%w: addon quantity below 1", domain.ErrInvalidInput)
		}
		lines = append(lines, domain.AddonLine{
			AddonID:   addon.ID,
			Name:      addon.Name.Resolve(i18n.DefaultLocale),
			UnitPrice: addon.Price,
			Quantity:  sel.Quantity,
		})
		inputs = append(inputs, commission.AddonLine{
			Reference: addon.Slug,
			UnitPrice: addon.Price,
			Quantity:  sel.Quantity,
		})
	}
	return lines, inputs, nil
}

func (s *Service) createSession(ctx context.Context, treatment *catalogdomain.Treatment, addons []domain.AddonLine, bookingID snowflake.ID) (paymentdomain.CheckoutSession, error) {
	items := []paymentdomain.LineItem{{
		Name:      treatment.Name.Resolve(i18n.DefaultLocale),
		UnitPrice: treatment.Price,
		Quantity:  1,
	}}
	for _, addon := range addons {
		items = append(items, paymentdomain.LineItem{
			Name:      addon.Name,
			UnitPrice: addon.UnitPrice,
			Quantity:  addon.Quantity,
		})
	}
	return s.gateway.CreateCheckoutSession(ctx, paymentdomain.CreateCheckoutSessionRequest{
		LineItems:  items,
		Currency:   "thb",
		SuccessURL: s.cfg.SiteURL + "/bookings/success",
		CancelURL:  s.cfg.SiteURL + "/bookings/cancelled",
		TargetKind: paymentdomain.TargetBooking,
		TargetID:   bookingID.String(),
	})
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}

func parseTime(raw any) (time.Time, error) {
	switch v := raw.(type) {
	case time.Time:
		return v.UTC(), nil
	case string:
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return time.Time{}, err
		}
		return parsed.UTC(), nil
	default:
		return time.Time{}, fmt.Errorf("unsupported time value %T", raw)
	}
}
