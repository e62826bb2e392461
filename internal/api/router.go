package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/recoverypro/portal/internal/api/handler"
	"github.com/recoverypro/portal/internal/api/middleware"
	"github.com/recoverypro/portal/internal/config"
	"github.com/recoverypro/portal/internal/domain"
	"github.com/recoverypro/portal/internal/idempotency"
	"github.com/recoverypro/portal/internal/mailer"
	"github.com/recoverypro/portal/internal/repository"
	"github.com/recoverypro/portal/internal/service"
)

type Router struct {
	cfg       *config.Config
	logger    *zap.Logger
	db        *pgxpool.Pool
	store     *repository.Store
	idemStore *idempotency.Store
	redis     redis.Cmdable
}

func NewRouter(cfg *config.Config, logger *zap.Logger, db *pgxpool.Pool, store *repository.Store, idemStore *idempotency.Store, redisClient redis.Cmdable) *Router {
	return &Router{
		cfg:       cfg,
		logger:    logger,
		db:        db,
		store:     store,
		idemStore: idemStore,
		redis:     redisClient,
	}
}

func (api *Router) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.TraceMiddleware)
	r.Use(middleware.LoggingMiddleware(api.logger))
	r.Use(middleware.RecoverMiddleware(api.logger))
	r.Use(middleware.MetricsMiddleware)

	// Services
	var m mailer.Mailer
	if api.cfg.SMTPHost != "" {
		m = mailer.NewSMTPMailer(api.cfg.SMTPHost, api.cfg.SMTPPort, api.cfg.SMTPUsername, api.cfg.SMTPPassword, api.cfg.SMTPFrom)
	} else {
		m = mailer.NewMockMailer()
	}

	notificationSvc := service.NewNotificationService(api.store)
	emailSvc := service.NewEmailService(api.store, m)
	authSvc := service.NewAuthService(api.store, emailSvc, []byte(api.cfg.JWTSecret), api.cfg.JWTIssuer, api.cfg.JWTAudience, api.cfg.TokenTTL)
	caseSvc := service.NewCaseService(api.store, notificationSvc, emailSvc)
	depositSvc := service.NewDepositService(api.store, notificationSvc, emailSvc)
	ledgerSvc := service.NewLedgerService(api.store, notificationSvc, emailSvc, api.cfg.KYCRequiredForWithdraw)
	kycSvc := service.NewKYCService(api.store, notificationSvc, emailSvc)
	planSvc := service.NewPlanService(api.store)
	statsSvc := service.NewStatsService(api.store)

	var rateSvc service.ExchangeRateService
	if api.cfg.ExchangeRateAPIURL != "" {
		rateSvc = service.NewHTTPExchangeRateService(api.cfg.ExchangeRateAPIURL)
	} else {
		rateSvc = service.NewMockExchangeRateService()
	}

	// Handlers
	healthHandler := handler.NewHealthHandler(api.db, api.redis)
	authHandler := handler.NewAuthHandler(authSvc)
	caseHandler := handler.NewCaseHandler(caseSvc)
	depositHandler := handler.NewDepositHandler(depositSvc)
	walletHandler := handler.NewWalletHandler(ledgerSvc)
	kycHandler := handler.NewKYCHandler(kycSvc)
	notificationHandler := handler.NewNotificationHandler(notificationSvc, emailSvc)
	planHandler := handler.NewPlanHandler(planSvc)
	dashboardHandler := handler.NewDashboardHandler(statsSvc, rateSvc)
	cryptoWalletHandler := handler.NewCryptoWalletHandler(api.store)
	adminHandler := handler.NewAdminHandler(caseSvc, depositSvc, ledgerSvc, kycSvc, planSvc, statsSvc, api.store)

	idem := middleware.IdempotencyMiddleware(api.idemStore, api.logger)

	// Operational endpoints
	r.Get("/healthz", healthHandler.Live)
	r.Get("/readyz", healthHandler.Ready)
	r.Handle("/metrics", promhttp.Handler())

	// Public routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.PublicRateLimiter(api.cfg.PublicRateLimitRPS))
		r.Post("/v1/auth/register", authHandler.Register)
		r.Post("/v1/auth/login", authHandler.Login)
		r.Get("/v1/plans", planHandler.ListPlans)
	})

	// Authenticated routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthMiddleware)
		r.Use(middleware.AuthRateLimiter(api.cfg.AuthRateLimitRPS))

		r.Get("/v1/me", authHandler.Me)
		r.Get("/v1/me/dashboard", dashboardHandler.Dashboard)
		r.Get("/v1/rates", dashboardHandler.Rate)

		r.Post("/v1/cases", caseHandler.SubmitCase)
		r.Get("/v1/cases", caseHandler.ListCases)
		r.Get("/v1/cases/{id}", caseHandler.GetCase)
		r.Get("/v1/cases/{id}/timeline", caseHandler.Timeline)
		r.Post("/v1/cases/{id}/plan", caseHandler.SelectPlan)
		r.Post("/v1/cases/{id}/evidence", caseHandler.AttachEvidence)
		r.Get("/v1/cases/{id}/evidence", caseHandler.ListEvidence)

		r.With(idem).Post("/v1/cases/{id}/deposits", depositHandler.InitiateDeposit)
		r.Get("/v1/deposits", depositHandler.ListDeposits)
		r.Get("/v1/deposits/{id}", depositHandler.GetDeposit)
		r.Post("/v1/deposits/{id}/tx-hash", depositHandler.SubmitTxHash)

		r.Get("/v1/wallet", walletHandler.GetWallet)
		r.Get("/v1/recoveries", walletHandler.ListRecoveries)
		r.With(idem).Post("/v1/withdrawals", walletHandler.RequestWithdrawal)
		r.Get("/v1/withdrawals", walletHandler.ListWithdrawals)
		r.Get("/v1/withdrawals/{id}", walletHandler.GetWithdrawal)

		r.Post("/v1/kyc", kycHandler.Submit)
		r.Get("/v1/kyc/status", kycHandler.Status)

		r.Get("/v1/notifications", notificationHandler.List)
		r.Post("/v1/notifications/{id}/read", notificationHandler.MarkRead)
		r.Post("/v1/notifications/read-all", notificationHandler.MarkAllRead)
		r.Get("/v1/emails", notificationHandler.EmailHistory)

		r.Get("/v1/crypto-wallets", cryptoWalletHandler.ListActive)
	})

	// Staff routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthMiddleware)
		r.Use(middleware.RequireRole(domain.RoleAdmin, domain.RoleAgent))

		r.Get("/v1/admin/overview", adminHandler.Overview)
		r.Get("/v1/admin/cases", adminHandler.ListCases)
		r.Post("/v1/admin/cases/{id}/status", adminHandler.UpdateCaseStatus)
		r.Post("/v1/admin/cases/{id}/assign", adminHandler.AssignCase)
		r.With(idem).Post("/v1/admin/cases/{id}/recoveries", adminHandler.RecordRecovery)
		r.Get("/v1/admin/deposits", adminHandler.ListDeposits)
		r.Post("/v1/admin/deposits/{id}/confirm", adminHandler.ConfirmDeposit)
		r.Post("/v1/admin/deposits/{id}/reject", adminHandler.RejectDeposit)
		r.Get("/v1/admin/withdrawals", adminHandler.ListWithdrawals)
		r.Post("/v1/admin/withdrawals/{id}/resolve", adminHandler.ResolveWithdrawal)
		r.Get("/v1/admin/kyc", adminHandler.ListKYC)
		r.Post("/v1/admin/kyc/{id}/review", adminHandler.ReviewKYC)
	})

	// Admin-only routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthMiddleware)
		r.Use(middleware.RequireRole(domain.RoleAdmin))

		r.Post("/v1/admin/plans", adminHandler.CreatePlan)
		r.Post("/v1/admin/plans/{id}/active", adminHandler.SetPlanActive)
		r.Post("/v1/admin/crypto-wallets", adminHandler.CreateCryptoWallet)
		r.Post("/v1/admin/crypto-wallets/{id}/active", adminHandler.SetCryptoWalletActive)
	})

	return r
}
