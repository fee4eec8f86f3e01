package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/sabaispa/sabai/internal/auth"
	"github.com/sabaispa/sabai/internal/authorization"
	"github.com/sabaispa/sabai/internal/booking"
	bookingdomain "github.com/sabaispa/sabai/internal/booking/domain"
	"github.com/sabaispa/sabai/internal/catalog"
	catalogdomain "github.com/sabaispa/sabai/internal/catalog/domain"
	"github.com/sabaispa/sabai/internal/config"
	"github.com/sabaispa/sabai/internal/loan"
	loandomain "github.com/sabaispa/sabai/internal/loan/domain"
	"github.com/sabaispa/sabai/internal/observability"
	obslogger "github.com/sabaispa/sabai/internal/observability/logger"
	obsmetrics "github.com/sabaispa/sabai/internal/observability/metrics"
	obstracing "github.com/sabaispa/sabai/internal/observability/tracing"
	"github.com/sabaispa/sabai/internal/order"
	orderdomain "github.com/sabaispa/sabai/internal/order/domain"
	"github.com/sabaispa/sabai/internal/payment"
	paymentdomain "github.com/sabaispa/sabai/internal/payment/domain"
	"github.com/sabaispa/sabai/internal/ratelimit"
	"github.com/sabaispa/sabai/internal/reconciliation"
	reconciliationdomain "github.com/sabaispa/sabai/internal/reconciliation/domain"
	"github.com/sabaispa/sabai/internal/settings"
	settingsdomain "github.com/sabaispa/sabai/internal/settings/domain"
	"github.com/sabaispa/sabai/internal/settlement"
	settlementdomain "github.com/sabaispa/sabai/internal/settlement/domain"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	authorization.Module,
	catalog.Module,
	booking.Module,
	order.Module,
	payment.Module,
	settings.Module,
	settlement.Module,
	reconciliation.Module,
	loan.Module,
	ratelimit.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obslogger.GinMiddleware(obslogger.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine *gin.Engine
	cfg    config.Config
	db     *gorm.DB
	log    *zap.Logger
	genID  *snowflake.Node

	authzSvc          authorization.Service
	catalogSvc        catalogdomain.Service
	bookingSvc        bookingdomain.Service
	orderSvc          orderdomain.Service
	settingsSvc       settingsdomain.Service
	settlementSvc     settlementdomain.Service
	reconciliationSvc reconciliationdomain.Service
	loanSvc           loandomain.Service
	webhookVerifier   paymentdomain.Verifier
	webhookSvc        paymentdomain.WebhookService

	limiter *ratelimit.TokenBucket
}

type ServerParams struct {
	fx.In

	Gin   *gin.Engine
	Cfg   config.Config
	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node

	AuthzSvc          authorization.Service
	CatalogSvc        catalogdomain.Service
	BookingSvc        bookingdomain.Service
	OrderSvc          orderdomain.Service
	SettingsSvc       settingsdomain.Service
	SettlementSvc     settlementdomain.Service
	ReconciliationSvc reconciliationdomain.Service
	LoanSvc           loandomain.Service
	WebhookVerifier   paymentdomain.Verifier
	WebhookSvc        paymentdomain.WebhookService

	Limiter *ratelimit.TokenBucket `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	s := &Server{
		engine:            p.Gin,
		cfg:               p.Cfg,
		db:                p.DB,
		log:               p.Log.Named("http.server"),
		genID:             p.GenID,
		authzSvc:          p.AuthzSvc,
		catalogSvc:        p.CatalogSvc,
		bookingSvc:        p.BookingSvc,
		orderSvc:          p.OrderSvc,
		settingsSvc:       p.SettingsSvc,
		settlementSvc:     p.SettlementSvc,
		reconciliationSvc: p.ReconciliationSvc,
		loanSvc:           p.LoanSvc,
		webhookVerifier:   p.WebhookVerifier,
		webhookSvc:        p.WebhookSvc,
		limiter:           p.Limiter,
	}

	s.registerWebhookRoutes()
	s.registerAPIRoutes()

	return s
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerWebhookRoutes() {
	webhooks := s.engine.Group("/api/webhooks")
	webhooks.POST("/stripe",
		ratelimit.GinMiddleware(s.limiter, s.log, "webhook:stripe", 50, 100),
		s.HandleStripeWebhook,
	)
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api", auth.GinMiddleware(s.cfg.AuthJWTSecret))

	treatments := api.Group("/treatments")
	{
		treatments.GET("", s.authorize(authorization.ObjectCatalog, authorization.ActionView), s.ListTreatments)
		treatments.GET("/:id", s.authorize(authorization.ObjectCatalog, authorization.ActionView), s.GetTreatment)
		treatments.GET("/:id/addons", s.authorize(authorization.ObjectCatalog, authorization.ActionView), s.ListAddons)
		treatments.POST("", s.authorize(authorization.ObjectCatalog, authorization.ActionManage), s.CreateTreatment)
		treatments.POST("/:id/addons", s.authorize(authorization.ObjectCatalog, authorization.ActionManage), s.CreateAddon)
	}

	products := api.Group("/products")
	{
		products.GET("", s.authorize(authorization.ObjectCatalog, authorization.ActionView), s.ListProducts)
		products.GET("/:id", s.authorize(authorization.ObjectCatalog, authorization.ActionView), s.GetProduct)
		products.POST("", s.authorize(authorization.ObjectCatalog, authorization.ActionManage), s.CreateProduct)
	}

	bookings := api.Group("/bookings")
	{
		bookings.POST("", s.authorize(authorization.ObjectBooking, authorization.ActionCreate), s.CreateBooking)
		bookings.GET("", s.authorize(authorization.ObjectBooking, authorization.ActionView), s.ListBookings)
		bookings.GET("/:id", s.authorize(authorization.ObjectBooking, authorization.ActionView), s.GetBooking)
		bookings.PATCH("/:id", s.authorize(authorization.ObjectBooking, authorization.ActionUpdate), s.UpdateBooking)
		bookings.POST("/:id/confirm", s.authorize(authorization.ObjectBooking, authorization.ActionUpdate), s.ConfirmBooking)
		bookings.POST("/:id/complete", s.authorize(authorization.ObjectBooking, authorization.ActionUpdate), s.CompleteBooking)
		bookings.POST("/:id/cancel", s.authorize(authorization.ObjectBooking, authorization.ActionUpdate), s.CancelBooking)
		bookings.POST("/:id/assign-staff", s.authorize(authorization.ObjectBooking, authorization.ActionUpdate), s.AssignBookingStaff)
	}

	api.POST("/checkout",
		s.authorize(authorization.ObjectOrder, authorization.ActionCreate),
		ratelimit.GinMiddleware(s.limiter, s.log, "checkout", 10, 20),
		s.Checkout,
	)

	orders := api.Group("/orders")
	{
		orders.GET("", s.authorize(authorization.ObjectOrder, authorization.ActionView), s.ListOrders)
		orders.GET("/:id", s.authorize(authorization.ObjectOrder, authorization.ActionView), s.GetOrder)
		orders.POST("/:id/confirm-cash", s.authorize(authorization.ObjectOrder, authorization.ActionUpdate), s.ConfirmCashReceipt)
		orders.POST("/:id/cancel", s.authorize(authorization.ObjectOrder, authorization.ActionUpdate), s.CancelOrder)
	}

	accounting := api.Group("/accounting")
	{
		accounting.GET("/summary", s.authorize(authorization.ObjectAccounting, authorization.ActionView), s.AccountingSummary)
		accounting.GET("/payouts", s.authorize(authorization.ObjectAccounting, authorization.ActionView), s.StaffPayouts)
	}

	api.GET("/earnings", s.authorize(authorization.ObjectEarnings, authorization.ActionView), s.MyEarnings)

	settlements := api.Group("/settlements")
	{
		settlements.POST("", s.authorize(authorization.ObjectSettlement, authorization.ActionCreate), s.CreateSettlement)
		settlements.POST("/settle-all", s.authorize(authorization.ObjectSettlement, authorization.ActionCreate), s.SettleAllForStaff)
		settlements.GET("", s.authorize(authorization.ObjectSettlement, authorization.ActionView), s.ListSettlements)
		settlements.GET("/:id", s.authorize(authorization.ObjectSettlement, authorization.ActionView), s.GetSettlement)
		settlements.GET("/:id/statement", s.authorize(authorization.ObjectSettlement, authorization.ActionView), s.SettlementStatement)
	}

	loans := api.Group("/loan")
	{
		loans.GET("", s.authorize(authorization.ObjectLoan, authorization.ActionView), s.LoanProgress)
		loans.POST("/repay", s.authorize(authorization.ObjectLoan, authorization.ActionUpdate), s.RepayLoan)
		loans.POST("/reset", s.authorize(authorization.ObjectLoan, authorization.ActionUpdate), s.ResetLoan)
	}

	settingsGroup := api.Group("/settings")
	{
		settingsGroup.GET("/payment-methods", s.authorize(authorization.ObjectSettings, authorization.ActionView), s.GetPaymentMethods)
		settingsGroup.PUT("/payment-methods", s.authorize(authorization.ObjectSettings, authorization.ActionUpdate), s.UpdatePaymentMethods)
	}
}
