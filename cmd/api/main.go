package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mhmdnvn18/CAPSTONE-CC25-CF225/internal/application"
	apppred "github.com/mhmdnvn18/CAPSTONE-CC25-CF225/internal/application/prediction"
	"github.com/mhmdnvn18/CAPSTONE-CC25-CF225/internal/config"
	"github.com/mhmdnvn18/CAPSTONE-CC25-CF225/internal/domain/features"
	domain "github.com/mhmdnvn18/CAPSTONE-CC25-CF225/internal/domain/prediction"
	"github.com/mhmdnvn18/CAPSTONE-CC25-CF225/internal/infra/httpserver"
	"github.com/mhmdnvn18/CAPSTONE-CC25-CF225/internal/infra/scorer/httpml"
	"github.com/mhmdnvn18/CAPSTONE-CC25-CF225/internal/infra/store/jsonfile"
	sqlitestore "github.com/mhmdnvn18/CAPSTONE-CC25-CF225/internal/infra/store/sqlite"
	"github.com/mhmdnvn18/CAPSTONE-CC25-CF225/internal/middleware"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	level := cfg.Logging.Level
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		level = v
	}
	logLevel, err := logrus.ParseLevel(level)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	log.SetLevel(logLevel)

	clock := application.SystemClock{}

	// init record store
	var repo domain.Repository
	checkers := map[string]middleware.HealthChecker{}
	switch cfg.Data.Backend {
	case "sqlite":
		if err := os.MkdirAll(cfg.Data.Dir, 0o755); err != nil {
			log.Fatalf("data dir error: %v", err)
		}
		store, err := sqlitestore.New(cfg.Data.Dir, clock, log)
		if err != nil {
			log.Fatalf("sqlite store error: %v", err)
		}
		defer store.Close()
		repo = store
		checkers["store"] = middleware.CheckerFunc(store.Ping)
	default:
		store, err := jsonfile.New(cfg.Data.Dir, clock, log)
		if err != nil {
			log.Fatalf("json store error: %v", err)
		}
		repo = store
	}

	// init scoring pipeline; a missing schema degrades the service instead of
	// failing startup, and /predict reports the model as unavailable
	var encoder *features.Encoder
	schema, err := features.LoadSchema(cfg.Model.SchemaPath)
	if err != nil {
		log.WithError(err).Warn("feature schema not loaded, starting in degraded mode")
	} else {
		encoder, err = features.NewEncoder(schema)
		if err != nil {
			log.WithError(err).Warn("encoder init failed, starting in degraded mode")
		}
	}

	scorer := httpml.New(cfg.Model.ScorerURL, cfg.ScorerTimeout())
	checkers["model"] = middleware.CheckerFunc(scorer.Check)

	svc := &apppred.Service{
		Repo:      repo,
		Scorer:    scorer,
		Encoder:   encoder,
		Threshold: cfg.Model.Threshold,
		Log:       log,
	}

	handler := httpserver.NewRouter(svc, checkers, cfg.Server.CORSOrigins)
	handler = middleware.RateLimitMiddleware(cfg.Server.RateLimit.Capacity, cfg.Server.RateLimit.RefillRate)(handler)
	handler = middleware.MetricsMiddleware(handler)
	handler = middleware.RequestLogging(log)(handler)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infof("server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Errorf("shutdown error: %v", err)
	}
}
