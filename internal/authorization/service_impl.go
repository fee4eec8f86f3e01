package authorization

import (
	"context"
	_ "embed"
	"errors"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"github.com/sabaispa/sabai/internal/auth"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:embed model.conf
var modelText string

const (
	ObjectBooking    = "booking"
	ObjectOrder      = "order"
	ObjectCatalog    = "catalog"
	ObjectAccounting = "accounting"
	ObjectEarnings   = "earnings"
	ObjectSettlement = "settlement"
	ObjectLoan       = "loan"
	ObjectSettings   = "settings"
)

const (
	ActionView   = "view"
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionManage = "manage"
)

var (
	ErrInvalidActor = errors.New("invalid_actor")
	ErrForbidden    = errors.New("forbidden")
)

type Service interface {
	Authorize(ctx context.Context, role auth.Role, object, action string) error
}

type Params struct {
	fx.In

	Log      *zap.Logger
	Enforcer *casbin.SyncedEnforcer
}

type ServiceImpl struct {
	log      *zap.Logger
	enforcer *casbin.SyncedEnforcer
}

func NewEnforcer(db *gorm.DB) (*casbin.SyncedEnforcer, error) {
	adapter, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		return nil, err
	}
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}
	enforcer, err := casbin.NewSyncedEnforcer(m, adapter)
	if err != nil {
		return nil, err
	}
	enforcer.EnableAutoSave(true)
	enforcer.EnableAutoBuildRoleLinks(true)
	if err := enforcer.LoadPolicy(); err != nil {
		return nil, err
	}
	if err := seedPolicies(enforcer); err != nil {
		return nil, err
	}
	enforcer.BuildRoleLinks()
	return enforcer, nil
}

func NewService(p Params) Service {
	return &ServiceImpl{
		log:      p.Log.Named("authorization.service"),
		enforcer: p.Enforcer,
	}
}

func (s *ServiceImpl) Authorize(ctx context.Context, role auth.Role, object, action string) error {
	object = strings.TrimSpace(object)
	action = strings.TrimSpace(action)
	if object == "" || action == "" || !auth.ValidRole(role) {
		return ErrInvalidActor
	}

	allowed, err := s.enforcer.Enforce("role:"+string(role), object, action)
	if err != nil {
		return err
	}
	if !allowed {
		s.log.Debug("authorization denied",
			zap.String("role", string(role)),
			zap.String("object", object),
			zap.String("action", action),
		)
		return ErrForbidden
	}
	return nil
}

func seedPolicies(enforcer *casbin.SyncedEnforcer) error {
	policies := [][]string{
		// Customers book treatments, order products and browse the catalog.
		{"role:customer", ObjectCatalog, ActionView},
		{"role:customer", ObjectBooking, ActionCreate},
		{"role:customer", ObjectBooking, ActionView},
		{"role:customer", ObjectOrder, ActionCreate},
		{"role:customer", ObjectOrder, ActionView},

		// Staff additionally run appointments, collect cash and see their
		// own earnings. Settlement stays admin-only so staff cannot certify
		// their own payouts.
		{"role:staff", ObjectBooking, ActionUpdate},
		{"role:staff", ObjectOrder, ActionUpdate},
		{"role:staff", ObjectEarnings, ActionView},

		// Admin surface.
		{"role:admin", ObjectCatalog, ActionManage},
		{"role:admin", ObjectAccounting, ActionView},
		{"role:admin", ObjectSettlement, ActionCreate},
		{"role:admin", ObjectSettlement, ActionView},
		{"role:admin", ObjectLoan, ActionView},
		{"role:admin", ObjectLoan, ActionUpdate},
		{"role:admin", ObjectSettings, ActionView},
		{"role:admin", ObjectSettings, ActionUpdate},
	}
	for _, policy := range policies {
		if _, err := enforcer.AddPolicy(policy); err != nil {
			return err
		}
	}

	groupings := [][]string{
		{"role:staff", "role:customer"},
		{"role:admin", "role:staff"},
	}
	for _, grouping := range groupings {
		if _, err := enforcer.AddGroupingPolicy(grouping); err != nil {
			return err
		}
	}
	return nil
}
