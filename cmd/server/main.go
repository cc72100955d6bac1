package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	"github.com/simaogato/fundflow-backend/internal/adapter/cache"
	grpcadapter "github.com/simaogato/fundflow-backend/internal/adapter/grpc"
	httpadapter "github.com/simaogato/fundflow-backend/internal/adapter/http"
	"github.com/simaogato/fundflow-backend/internal/app/config"
	"github.com/simaogato/fundflow-backend/internal/domain"
	"github.com/simaogato/fundflow-backend/internal/usecase/scenario"
)

const serviceName = "fundflow"

func main() {
	// 1. Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/default.yaml"
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err.Error())
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})).
		With("service", serviceName)
	slog.SetDefault(logger)

	// 2. Initialize the evaluation cache (Redis when configured, in-process otherwise)
	ctx := context.Background()
	var evaluationCache domain.EvaluationCache
	if cfg.RedisAddr != "" {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		client, err := cache.Connect(pingCtx, cfg.RedisAddr)
		cancel()
		if err != nil {
			logger.Error("failed to connect to redis", "error", err.Error())
			os.Exit(1)
		}
		defer client.Close()
		evaluationCache = cache.NewRedisCache(client, cfg.CacheTTL)
		logger.Info("using redis evaluation cache", "addr", cfg.RedisAddr, "ttl", cfg.CacheTTL.String())
	} else {
		evaluationCache = cache.NewMemoryCache(cfg.CacheTTL)
		logger.Info("using in-process evaluation cache", "ttl", cfg.CacheTTL.String(), "max_entries", cache.DefaultMaxEntries)
	}

	// 3. Initialize Services (Use Cases)
	scenarioService := scenario.NewScenarioService(evaluationCache, logger)

	// 4. Start gRPC Server
	grpcServer := grpclib.NewServer(
		grpclib.ChainUnaryInterceptor(
			grpcadapter.LoggingInterceptor(logger),
			grpcadapter.AuthInterceptor(cfg.APIToken),
		),
	)
	grpcadapter.RegisterCashFlowServiceServer(grpcServer, grpcadapter.NewServer(scenarioService))
	reflection.Register(grpcServer)

	grpcAddr := fmt.Sprintf(":%d", cfg.GRPCPort)
	lis, err := net.Listen("tcp", grpcAddr)
	if err != nil {
		logger.Error("failed to listen", "addr", grpcAddr, "error", err.Error())
		os.Exit(1)
	}

	go func() {
		logger.Info("gRPC server listening", "addr", grpcAddr)
		if err := grpcServer.Serve(lis); err != nil {
			logger.Error("gRPC server stopped with error", "error", err.Error())
			os.Exit(1)
		}
	}()

	// 5. Start HTTP Server
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           httpadapter.NewRouter(httpadapter.NewHandler(scenarioService)),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server stopped with error", "error", err.Error())
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	waitForShutdown(logger, grpcServer, httpServer)
}

// waitForShutdown waits for SIGTERM or SIGINT and gracefully shuts down both servers
func waitForShutdown(logger *slog.Logger, grpcServer *grpclib.Server, httpServer *http.Server) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	logger.Info("shutting down gracefully", "signal", sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err.Error())
	}

	grpcServer.GracefulStop()
	logger.Info("servers stopped")
}
