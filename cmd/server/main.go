package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"haven/internal/audit"
	auditstore "haven/internal/audit/store"
	auditstream "haven/internal/audit/stream"
	"haven/internal/crisis/session"
	jwttoken "haven/internal/jwt_token"
	"haven/internal/platform/config"
	"haven/internal/platform/httpserver"
	"haven/internal/platform/logger"
	platformmetrics "haven/internal/platform/metrics"
	"haven/internal/platform/middleware"
	platformredis "haven/internal/platform/redis"
	validationhandler "haven/internal/validation/handler"
	validationmetrics "haven/internal/validation/metrics"
	"haven/internal/validation/service"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()

	httpMetrics := platformmetrics.New()
	valMetrics := validationmetrics.New()

	// Audit store: postgres when configured, memory otherwise.
	var store audit.Store
	var db *sql.DB
	if cfg.PostgresDSN != "" {
		var err error
		db, err = sql.Open("postgres", cfg.PostgresDSN)
		if err != nil {
			log.Error("postgres open failed", "error", err)
			os.Exit(1)
		}
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err = db.PingContext(pingCtx)
		cancel()
		if err != nil {
			log.Error("postgres ping failed", "error", err)
			os.Exit(1)
		}
		pg := auditstore.NewPostgres(db)
		if err := pg.Schema(context.Background()); err != nil {
			log.Error("audit schema setup failed", "error", err)
			os.Exit(1)
		}
		store = pg
		log.Info("audit store: postgres")
	} else {
		store = auditstore.NewInMemoryStore()
		log.Info("audit store: memory")
	}

	auditOpts := []audit.Option{audit.WithLogger(log)}

	// Kafka stream for blocked-impact events, best-effort.
	kafka, err := auditstream.NewKafka(cfg.KafkaBrokers, cfg.KafkaAuditTopic, log)
	if err != nil {
		log.Warn("kafka audit stream unavailable", "error", err)
	} else if kafka != nil {
		auditOpts = append(auditOpts, audit.WithStream(kafka))
		defer kafka.Close()
		log.Info("audit stream: kafka", "topic", cfg.KafkaAuditTopic)
	}

	publisher := audit.NewPublisher(store, auditOpts...)

	// Crisis session registry: redis when configured, memory otherwise.
	var sessions session.Store
	redisClient, err := platformredis.New(cfg.Redis())
	if err != nil {
		log.Error("redis connect failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		sessions = session.NewRedisStore(redisClient.Client)
		defer redisClient.Close()
		log.Info("crisis sessions: redis")
	} else {
		sessions = session.NewInMemoryStore()
		log.Info("crisis sessions: memory")
	}

	validator := service.New(
		service.WithLogger(log),
		service.WithMetrics(valMetrics),
		service.WithAuditSink(audit.NewRecorder(publisher, log)),
	)

	tokens := jwttoken.NewService(cfg.JWTSigningKey, cfg.JWTIssuer)

	r := chi.NewRouter()
	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(log))
	r.Use(middleware.Latency(httpMetrics))
	r.Use(middleware.Timeout(10 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", promhttp.Handler())

	h := validationhandler.New(validator, sessions, publisher, jwttoken.NewMiddlewareAdapter(tokens),
		validationhandler.WithLogger(log),
		validationhandler.WithSessionTTL(cfg.CrisisSessionTTL),
	)
	r.Group(func(r chi.Router) {
		r.Use(middleware.ContentTypeJSON)
		h.Register(r)
	})

	srv := httpserver.New(cfg.Addr, r)

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	case sig := <-stop:
		log.Info("shutting down", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Error("shutdown error", "error", err)
		}
	}

	if db != nil {
		_ = db.Close()
	}
}
