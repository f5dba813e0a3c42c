package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"
	"github.com/kelseyhightower/envconfig"

	"github.com/clinovia/portal-api/config"
	"github.com/clinovia/portal-api/internal/email"
	"github.com/clinovia/portal-api/internal/repository/postgres"
	"github.com/clinovia/portal-api/pkg/logger"
	redisbroker "github.com/clinovia/portal-api/pkg/messaging/redis"
	"github.com/clinovia/portal-api/pkg/metrics"
	"github.com/clinovia/portal-api/pkg/worker"
)

// workerEnv holds the deployment-level knobs that exist only as env vars;
// everything else comes from the shared config file.
type workerEnv struct {
	HealthPort int `envconfig:"HEALTH_PORT" default:"8081"`
}

func main() {
	log := logger.NewLogger(nil)

	var env workerEnv
	if err := envconfig.Process("", &env); err != nil {
		log.Fatal(err, "Failed to load worker environment")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err, "Failed to load config")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal(err, "Failed to connect to database")
	}
	defer db.Close()

	broker, err := redisbroker.NewRedisBroker(cfg.Redis.ToBrokerConfig(), log.Zerolog())
	if err != nil {
		log.Fatal(err, "Failed to connect to Redis")
	}
	defer broker.Close()

	m := metrics.NewMetrics("portal_api", "worker")
	outboxRepo := postgres.NewOutboxRepository(db)

	processor := worker.NewOutboxProcessor(outboxRepo, broker, cfg.Outbox.ToWorkerConfig(), log, m)

	mailer := worker.NewMailer(broker, email.NewService(email.Config{
		Host:      cfg.SMTP.Host,
		Port:      cfg.SMTP.Port,
		Username:  cfg.SMTP.Username,
		Password:  cfg.SMTP.Password,
		From:      cfg.SMTP.From,
		PortalURL: cfg.SMTP.PortalURL,
	}), log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go processor.Start(ctx)
	go func() {
		if err := mailer.Start(ctx); err != nil {
			log.Error(err, "Mailer stopped")
		}
	}()

	setupHealthCheck(env.HealthPort, db, log)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down worker")
	cancel()
}

func setupHealthCheck(port int, db *sqlx.DB, log *logger.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/health/live", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	go func() {
		if err := http.ListenAndServe(fmt.Sprintf(":%d", port), mux); err != nil {
			log.Fatal(err, "Health check server failed")
		}
	}()
}
