package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/osamamer/trucking-partner/internal/mapprovider"
	"github.com/osamamer/trucking-partner/internal/platform/config"
	"github.com/osamamer/trucking-partner/internal/platform/database"
	"github.com/osamamer/trucking-partner/internal/platform/kafka"
	"github.com/osamamer/trucking-partner/internal/platform/logger"
	"github.com/osamamer/trucking-partner/internal/repository"
	"github.com/osamamer/trucking-partner/internal/service"
	grpctransport "github.com/osamamer/trucking-partner/internal/transport/grpc"
	"github.com/osamamer/trucking-partner/internal/transport/health"
	"github.com/osamamer/trucking-partner/internal/transport/httpapi"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.Service.Name, cfg.Service.Environment, cfg.Service.LogLevel)
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Infow("starting service",
		"service", cfg.Service.Name,
		"version", Version,
		"build_time", BuildTime,
		"environment", cfg.Service.Environment,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := database.New(ctx, cfg.Database)
	if err != nil {
		log.Fatal("failed to connect to database", "error", err)
	}
	defer db.Close()
	log.Info("connected to database")

	producer := kafka.NewProducer(cfg.Kafka.Brokers, log)
	defer producer.Close()
	log.Info("kafka producer initialized")

	failedConsumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.ConsumerGroup, kafka.Topics.PlanFailed, log)
	defer failedConsumer.Close()
	go func() {
		err := failedConsumer.Consume(ctx, func(_ context.Context, event *kafka.Event) error {
			log.Warnw("trip plan failed, flagged for retry review", "event_id", event.ID, "data", event.Data)
			return nil
		})
		if err != nil && ctx.Err() == nil {
			log.Errorw("plan-failed consumer stopped", "error", err)
		}
	}()

	provider := mapprovider.NewHTTPProvider(mapprovider.HTTPConfig{
		BaseURL: cfg.Server.MapProviderURL,
		APIKey:  cfg.Server.MapProviderKey,
		Timeout: cfg.Server.ProviderTimeout,
	}, log)

	repo := repository.NewPostgresPlanRepository(db)
	planService := service.New(provider, repo, producer, nil, log)

	grpcServer := grpctransport.NewServer(cfg.Service.Name, cfg.Service.Environment, log)

	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.Server.GRPCPort))
	if err != nil {
		log.Fatal("failed to create grpc listener", "port", cfg.Server.GRPCPort, "error", err)
	}
	go func() {
		log.Infow("grpc server starting", "port", cfg.Server.GRPCPort)
		if err := grpcServer.Serve(listener); err != nil {
			log.Fatal("grpc server failed", "error", err)
		}
	}()

	healthServer := health.NewServer()
	httpServer := httpapi.NewServer(planService, log, healthServer)

	mux := http.NewServeMux()
	mux.Handle("/v1/plans", httpServer)
	mux.Handle("/healthz", healthServer)
	mux.Handle("/readyz", healthServer)
	mux.Handle("/metrics", healthServer)
	healthServer.SetReady(true)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	go func() {
		log.Infow("http server starting", "port", cfg.Server.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("http server failed", "error", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Info("shutting down...")

	healthServer.SetReady(false)
	grpcServer.SetNotServing()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = srv.Shutdown(shutdownCtx)
	grpcServer.GracefulStop()

	log.Info("service stopped")
}
