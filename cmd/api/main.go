package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/clinovia/portal-api/config"
	appointmentHandler "github.com/clinovia/portal-api/internal/handler/appointment"
	healthHandler "github.com/clinovia/portal-api/internal/handler/health"
	invitationHandler "github.com/clinovia/portal-api/internal/handler/invitation"
	orderHandler "github.com/clinovia/portal-api/internal/handler/order"
	patientHandler "github.com/clinovia/portal-api/internal/handler/patient"
	portalHandler "github.com/clinovia/portal-api/internal/handler/portal"
	requestHandler "github.com/clinovia/portal-api/internal/handler/request"
	webhookHandler "github.com/clinovia/portal-api/internal/handler/webhook"
	"github.com/clinovia/portal-api/internal/middleware"
	"github.com/clinovia/portal-api/internal/repository/postgres"
	"github.com/clinovia/portal-api/internal/router"
	appointmentService "github.com/clinovia/portal-api/internal/service/appointment"
	invitationService "github.com/clinovia/portal-api/internal/service/invitation"
	membershipService "github.com/clinovia/portal-api/internal/service/membership"
	orderService "github.com/clinovia/portal-api/internal/service/order"
	patientService "github.com/clinovia/portal-api/internal/service/patient"
	portalService "github.com/clinovia/portal-api/internal/service/portal"
	releaseService "github.com/clinovia/portal-api/internal/service/release"
	requestService "github.com/clinovia/portal-api/internal/service/request"
	sessionService "github.com/clinovia/portal-api/internal/service/session"
	"github.com/clinovia/portal-api/pkg/metrics"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	m := metrics.NewMetrics("portal_api", "api")

	// Repositories
	invitationRepo := postgres.NewInvitationRepository(db)
	userRepo := postgres.NewUserRepository(db)
	membershipRepo := postgres.NewMembershipRepository(db)
	clinicRepo := postgres.NewClinicRepository(db)
	patientRepo := postgres.NewPatientRepository(db)
	requestRepo := postgres.NewAppointmentRequestRepository(db)
	appointmentRepo := postgres.NewAppointmentRepository(db)
	orderRepo := postgres.NewOrderRepository(db)
	releaseRepo := postgres.NewReleaseRepository(db)
	sessionRepo := postgres.NewSessionRepository(db)
	outboxRepo := postgres.NewOutboxRepository(db)

	// Services
	invitationSvc := invitationService.NewService(invitationRepo, userRepo, clinicRepo, m)
	membershipSvc := membershipService.NewService(membershipRepo)
	patientSvc := patientService.NewService(patientRepo)
	requestSvc := requestService.NewService(requestRepo, outboxRepo, m)
	appointmentSvc := appointmentService.NewService(appointmentRepo, patientRepo, membershipRepo)
	orderSvc := orderService.NewService(orderRepo, patientRepo)
	releaseSvc := releaseService.NewService(releaseRepo, orderRepo, m)
	portalSvc := portalService.NewService(requestRepo, appointmentRepo, releaseRepo, membershipRepo, m)
	sessionSvc := sessionService.NewService(sessionRepo, userRepo)

	authMiddleware := middleware.NewAuthMiddleware(sessionSvc, membershipSvc, patientRepo)

	r := router.NewRouter(
		authMiddleware,
		healthHandler.NewHandler(db),
		invitationHandler.NewHandler(invitationSvc),
		patientHandler.NewHandler(patientSvc),
		requestHandler.NewHandler(requestSvc),
		appointmentHandler.NewHandler(appointmentSvc),
		orderHandler.NewHandler(orderSvc, releaseSvc),
		portalHandler.NewHandler(portalSvc),
		webhookHandler.NewHandler(sessionSvc),
		cfg.Webhook.Secret,
		router.Config{
			RateLimit: middleware.RateLimitConfig{
				Enabled:           cfg.RateLimit.Enabled,
				RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
				Burst:             cfg.RateLimit.Burst,
			},
			CORSConfig: middleware.DefaultCORSConfig(),
			Timeout:    cfg.Server.RequestTimeout,
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:        r.Engine(),
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()
	log.Info().Int("port", cfg.Server.Port).Msg("server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
