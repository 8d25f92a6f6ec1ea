package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/Prachiti-Gaikwad/creator-insight/internal/config"
	"github.com/Prachiti-Gaikwad/creator-insight/internal/db"
	dbRedis "github.com/Prachiti-Gaikwad/creator-insight/internal/db/redis"
	"github.com/Prachiti-Gaikwad/creator-insight/internal/domain/query"
	logpkg "github.com/Prachiti-Gaikwad/creator-insight/internal/logger"
	"github.com/Prachiti-Gaikwad/creator-insight/internal/metrics"
	datasetrepo "github.com/Prachiti-Gaikwad/creator-insight/internal/repository/dataset"
	historyrepo "github.com/Prachiti-Gaikwad/creator-insight/internal/repository/history"
	"github.com/Prachiti-Gaikwad/creator-insight/internal/repository/parsecache"
	chiTransport "github.com/Prachiti-Gaikwad/creator-insight/internal/transport/chi"
	openaiParser "github.com/Prachiti-Gaikwad/creator-insight/internal/transport/openai"
	healthuc "github.com/Prachiti-Gaikwad/creator-insight/internal/usecase/health"
	insightuc "github.com/Prachiti-Gaikwad/creator-insight/internal/usecase/insight"
	"github.com/Prachiti-Gaikwad/creator-insight/internal/usecase/interpret"
	"github.com/Prachiti-Gaikwad/creator-insight/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting creator-insight API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
		zap.Bool("remote_parser", cfg.Parser.Provider.APIKey != ""),
	)

	// Optional parse-cache store
	var store db.Store
	if cfg.Cache.Enabled {
		store, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Password: cfg.Cache.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create cache store", zap.Error(err))
		}
		defer store.Close()

		ctx := context.Background()
		if err := store.WaitForReady(ctx, time.Duration(cfg.Cache.ReadinessTimeout)*time.Second); err != nil {
			logger.Fatal("Cache store not ready", zap.Error(err))
		}
		logger.Info("Connected to cache store")
	}

	// Register parser metrics explicitly (no init())
	metrics.RegisterParserMetrics()

	// Build the interpreter chain — composition root
	heuristic := interpret.NewHeuristicParser(cfg.Parser.Categories)
	interpreter := interpret.New(heuristic, logger)

	// Pass nil interface (not typed nil pointer!) if the remote parser
	// is not configured. Go gotcha: (*openai.Parser)(nil) wrapped in
	// interpret.Parser != nil.
	var remoteBase *openaiParser.Parser
	if cfg.Parser.Provider.APIKey != "" {
		remoteBase = openaiParser.NewParser(&openaiParser.Config{
			APIKey:  cfg.Parser.Provider.APIKey,
			BaseURL: cfg.Parser.Provider.BaseURL,
			Model:   cfg.Parser.Provider.Model,
			Logger:  logger,
		})

		var remote interpret.Parser = remoteBase
		if store != nil {
			remote = parsecache.New(
				remoteBase, store,
				time.Duration(cfg.Cache.TTLSec)*time.Second,
				metrics.ParseCacheTotal, logger,
			)
		}
		interpreter = interpreter.WithRemote(remote, time.Duration(cfg.Parser.TimeoutSec)*time.Second)
		logger.Info("Remote query parser enabled",
			zap.String("model", cfg.Parser.Provider.Model),
			zap.Bool("cached", store != nil),
		)
	}

	// Repositories
	datasets := datasetrepo.New()
	history := historyrepo.New()

	// Use case services
	defaultWeights, err := query.NewWeights(
		cfg.Ranking.WeightEngagement,
		cfg.Ranking.WeightFollowers,
		cfg.Ranking.WeightLikesComments,
	)
	if err != nil {
		logger.Fatal("Invalid default ranking weights", zap.Error(err))
	}
	insightSvc := insightuc.New(datasets, interpreter, history, cfg.Limits.MaxResults, logger)

	var cachePinger healthuc.CachePinger
	if store != nil {
		cachePinger = store
	}
	var parserChecker healthuc.ParserChecker
	if remoteBase != nil {
		parserChecker = remoteBase
	}
	healthSvc := healthuc.New(cachePinger, parserChecker)

	// Create chi server
	server := chiTransport.NewServer(
		datasets, history, insightSvc, healthSvc,
		defaultWeights, cfg.Limits.MaxUploadRows, logger,
	)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			// Set X-Request-ID in response header
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
