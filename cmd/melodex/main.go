package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/melodex/melodex/internal/cache"
	"github.com/melodex/melodex/internal/config"
	dbRedis "github.com/melodex/melodex/internal/db/redis"
	"github.com/melodex/melodex/internal/domain/catalog"
	"github.com/melodex/melodex/internal/domain/search/query"
	"github.com/melodex/melodex/internal/fuzzy"
	logpkg "github.com/melodex/melodex/internal/logger"
	"github.com/melodex/melodex/internal/metrics"
	"github.com/melodex/melodex/internal/ranking"
	catalogrepo "github.com/melodex/melodex/internal/repository/catalog"
	historyrepo "github.com/melodex/melodex/internal/repository/history"
	prefsrepo "github.com/melodex/melodex/internal/repository/prefs"
	chiTransport "github.com/melodex/melodex/internal/transport/chi"
	"github.com/melodex/melodex/internal/typo"
	healthuc "github.com/melodex/melodex/internal/usecase/health"
	searchuc "github.com/melodex/melodex/internal/usecase/search"
	"github.com/melodex/melodex/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting melodex API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register metrics explicitly (no init())
	metrics.RegisterHTTPMetrics()
	metrics.RegisterSearchMetrics()

	// Tiered cache. A disabled cache is a nil distributed tier: every
	// lookup falls through to the fetcher.
	ttls := cache.TTLs{
		Short:  time.Duration(cfg.Cache.TTLShortSec) * time.Second,
		Medium: time.Duration(cfg.Cache.TTLMediumSec) * time.Second,
		Long:   time.Duration(cfg.Cache.TTLLongSec) * time.Second,
	}
	var tiered *cache.Tiered
	if cfg.Cache.Enabled {
		tiered = cache.New(store, cfg.Cache.LocalEntries,
			time.Duration(cfg.Cache.LocalTTLSec)*time.Second, logger)
	} else {
		tiered = cache.New(nil, cfg.Cache.LocalEntries,
			time.Duration(cfg.Cache.LocalTTLSec)*time.Second, logger)
	}

	// Repositories
	catRepo := catalogrepo.New(store)
	prefRepo := prefsrepo.New(store, tiered, ttls.Short)
	histSink := historyrepo.New(store, cfg.Search.HistoryLimit)

	// Scoring components
	matcher := fuzzy.New(fuzzy.Config{
		ExactWeight:       cfg.Search.Fuzzy.ExactWeight,
		PrefixWeight:      cfg.Search.Fuzzy.PrefixWeight,
		ContainsWeight:    cfg.Search.Fuzzy.ContainsWeight,
		LevenshteinWeight: cfg.Search.Fuzzy.LevenshteinWeight,
		JaroWinklerWeight: cfg.Search.Fuzzy.JaroWinklerWeight,
		NGramWeight:       cfg.Search.Fuzzy.NGramWeight,
		NGramSize:         cfg.Search.Fuzzy.NGramSize,
		MinScore:          cfg.Search.Fuzzy.MinScore,
	})
	ranker := ranking.New(ranking.Config{
		ExactWeight:          cfg.Search.Ranking.ExactWeight,
		PrefixWeight:         cfg.Search.Ranking.PrefixWeight,
		ContainsWeight:       cfg.Search.Ranking.ContainsWeight,
		WordBoundaryWeight:   cfg.Search.Ranking.WordBoundaryWeight,
		LengthProximity:      cfg.Search.Ranking.LengthProximity,
		PopularityNormalizer: cfg.Search.Ranking.PopularityNormalizer,
		PopularityCap:        cfg.Search.Ranking.PopularityCap,
		PreferredGenreBoost:  cfg.Search.Ranking.PreferredGenreBoost,
		ExcludedGenrePenalty: cfg.Search.Ranking.ExcludedGenrePenalty,
		MultiFieldBonus:      cfg.Search.Ranking.MultiFieldBonus,
	})
	corrector := typo.New(catRepo, typo.Config{
		EditThreshold: cfg.Search.Typo.EditThreshold,
		SampleCap:     cfg.Search.Typo.SampleCap,
	})

	// Use case services
	searchSvc := searchuc.New(
		catRepo, prefRepo, histSink, tiered, corrector, matcher, ranker,
		searchuc.Config{
			MaxCandidatesPerKind: cfg.Search.MaxCandidatesPerKind,
			RetrievalBudget:      time.Duration(cfg.Search.RetrievalBudgetMs) * time.Millisecond,
			MaxSuggestions:       cfg.Search.MaxSuggestions,
			TrendingTerms:        cfg.Search.TrendingTerms,
			FuzzyRelevanceWeight: cfg.Search.FuzzyRelevanceWeight,
			TTLs:                 ttls,
		},
		logger,
	)

	var cacheChecker healthuc.CacheChecker
	if cfg.Cache.Enabled {
		cacheChecker = store
	}
	healthSvc := healthuc.New(store, cacheChecker)

	// Cache warm-up
	var warmer *cache.Warmer
	if cfg.Cache.Enabled && cfg.Cache.WarmupEnabled {
		warmer = cache.NewWarmer(logger)
		registerWarmupTasks(warmer, searchSvc, histSink, cfg.Search.TrendingTerms, logger)
		warmer.Start()
		defer warmer.Stop()
	}

	// HTTP server
	server := chiTransport.NewServer(searchSvc, healthSvc, logger)

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

// commonGenres seeds autocomplete warm-up alongside trending terms.
var commonGenres = []string{"rock", "pop", "jazz", "hip hop", "electronic", "classical"}

func registerWarmupTasks(
	warmer *cache.Warmer,
	searchSvc *searchuc.Service,
	histSink *historyrepo.Sink,
	trendingCount int,
	logger *zap.Logger,
) {
	tasks := []cache.Task{
		{
			Name:     "trending-searches",
			Schedule: "@every 10m",
			Pattern:  "search:full:*",
			Run: func(ctx context.Context) error {
				terms, err := histSink.TopTerms(ctx, trendingCount)
				if err != nil {
					return fmt.Errorf("load trending terms: %w", err)
				}
				for _, term := range terms {
					q, err := query.New(term, catalog.Searchable(), query.Filters{}, "", query.General, 0, 0)
					if err != nil {
						continue
					}
					if _, err := searchSvc.Search(ctx, q); err != nil {
						return fmt.Errorf("warm search %q: %w", term, err)
					}
				}
				return nil
			},
		},
		{
			Name:     "trending-autocomplete",
			Schedule: "@every 15m",
			Pattern:  "search:autocomplete:*",
			Run: func(ctx context.Context) error {
				terms, err := histSink.TopTerms(ctx, trendingCount)
				if err != nil {
					return fmt.Errorf("load trending terms: %w", err)
				}
				for _, term := range terms {
					runes := []rune(term)
					if len(runes) < 2 {
						continue
					}
					if _, err := searchSvc.Autocomplete(ctx, string(runes[:2]), "", 0); err != nil {
						return fmt.Errorf("warm autocomplete %q: %w", term, err)
					}
				}
				return nil
			},
		},
		{
			Name:     "genre-autocomplete",
			Schedule: "@every 30m",
			Pattern:  "search:autocomplete:*",
			Run: func(ctx context.Context) error {
				for _, genre := range commonGenres {
					if _, err := searchSvc.Autocomplete(ctx, genre, "", 0); err != nil {
						return fmt.Errorf("warm autocomplete %q: %w", genre, err)
					}
				}
				return nil
			},
		},
	}
	for _, task := range tasks {
		if err := warmer.Register(task); err != nil {
			logger.Warn("warmup task not registered", zap.String("task", task.Name), zap.Error(err))
		}
	}
}

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
				zap.String("path", strings.TrimSuffix(r.URL.Path, "/")),
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
