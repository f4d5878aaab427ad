package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ultimate-kits/config"
	"ultimate-kits/internal/delivery/http/middleware"
	v1 "ultimate-kits/internal/delivery/http/v1"
	"ultimate-kits/internal/domain"
	"ultimate-kits/internal/infrastructure/appscript"
	"ultimate-kits/internal/infrastructure/cache"
	"ultimate-kits/internal/infrastructure/drive"
	"ultimate-kits/internal/infrastructure/feed"
	"ultimate-kits/internal/infrastructure/gemini"
	pgxrepo "ultimate-kits/internal/repository/pgx"
	"ultimate-kits/internal/usecase"
	"ultimate-kits/pkg/logger"
	"ultimate-kits/pkg/storage"
	"ultimate-kits/pkg/utils"

	"github.com/NYTimes/gziphandler"
	"golang.org/x/time/rate"
)

const serviceName = "ultimate-kits-api"

func main() {
	cfg := config.LoadConfig()
	utils.SetSecret(cfg.JWTSecret)

	// Initialize Logger
	logger.Init(cfg.Env, cfg.LogLevel)
	log := logger.Get()
	ctx := context.Background()

	// Cache (In-Memory): catalog snapshots, sessions, stats and processed images.
	// Default expiration 30m, cleanup every 10m
	memCache := cache.NewMemoryCache(30*time.Minute, 10*time.Minute)

	// --- Database (optional) ---
	var (
		userRepo  domain.UserRepository
		visitRepo domain.VisitRepository
		dbPinger  v1.Pinger
	)
	if cfg.DBUrl != "" {
		pool, err := pgxrepo.NewPgxPool(ctx, cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to database")
		}
		defer pool.Close()
		if err := pgxrepo.Migrate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("Failed to apply database schema")
		}
		log.Info().Msg("Successfully connected to PostgreSQL via pgx")

		userRepo = pgxrepo.NewUserRepository(pool)
		visitRepo = pgxrepo.NewVisitRepository(pool)
		dbPinger = pool
	}

	// --- Catalog Module ---
	feedClient := feed.NewClient(feed.Config{
		ProxyURL:      cfg.FeedProxyURL,
		ScriptURL:     cfg.FeedScriptURL,
		Retries:       cfg.FeedRetries,
		Backoff:       cfg.FeedBackoff,
		Timeout:       cfg.FeedTimeout,
		MobileTimeout: cfg.FeedMobileTimeout,
	})
	normalizer := usecase.NewNormalizer(cfg.PublicBaseURL, cfg.DefaultPrice, cfg.TopSellerCount)
	catalogUC := usecase.NewCatalogUsecase(feedClient, normalizer, memCache, cfg.CatalogTTL, cfg.CatalogPageSize)

	// Cart Module
	cartUC := usecase.NewCartUsecase(catalogUC, cfg.WhatsAppNumber, cfg.MaxCartQuantity)
	sessionStore := usecase.NewSessionStore(memCache, cfg.SessionTTL)

	// --- Image Module ---
	var fetchers []domain.ImageFetcher
	if cfg.DriveCredentialsFile != "" {
		apiFetcher, err := drive.NewAPIFetcher(ctx, cfg.DriveCredentialsFile)
		if err != nil {
			log.Warn().Err(err).Msg("Drive API unavailable, using public URLs only")
		} else {
			fetchers = append(fetchers, apiFetcher)
		}
	}
	fetchers = append(fetchers, drive.NewPublicFetcher(cfg.ImageFetchTimeout))

	// A nil *R2Storage must not end up inside the interface.
	var objectStore domain.ObjectStore
	if cfg.R2Enabled() {
		r2Storage, err := storage.NewR2Storage(
			ctx,
			cfg.R2AccountID,
			cfg.R2AccessKeyID,
			cfg.R2AccessKeySecret,
			cfg.R2BucketName,
			cfg.R2PublicURL,
			cfg.R2UploadTimeout,
		)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize R2 Storage")
		}
		objectStore = r2Storage
	}
	imageUC := usecase.NewImageUsecase(fetchers, objectStore, memCache, cfg.CacheImageTTL, cfg.MaxImageWidth)
	proxyUC := usecase.NewProductsProxyUsecase(feedClient)

	// --- Assistant Module ---
	var assistantUC *usecase.AssistantUsecase
	if cfg.GeminiAPIKey != "" {
		assistant, err := gemini.NewAssistant(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiThinkingBudget)
		if err != nil {
			log.Warn().Err(err).Msg("Assistant disabled")
			assistantUC = usecase.NewAssistantUsecase(nil, cfg.GeminiModel)
		} else {
			assistantUC = usecase.NewAssistantUsecase(assistant, assistant.Model())
		}
	} else {
		assistantUC = usecase.NewAssistantUsecase(nil, cfg.GeminiModel)
	}

	handlers := v1.Handlers{
		Catalog:      v1.NewCatalogHandler(catalogUC),
		Cart:         v1.NewCartHandler(cartUC),
		Products:     v1.NewProductsHandler(proxyUC, imageUC, cfg.PublicBaseURL),
		Assistant:    v1.NewAssistantHandler(assistantUC),
		AdminCatalog: v1.NewAdminCatalogHandler(catalogUC, imageUC, memCache),
		Health:       v1.NewHealthHandler(dbPinger),
	}

	// --- Auth & Stats (need the database) ---
	if userRepo != nil {
		var mirror domain.RegistrationMirror
		if cfg.RegistrationScriptURL != "" {
			m := appscript.NewRegistrationMirror(cfg.RegistrationScriptURL, 15*time.Second)
			defer m.Close()
			mirror = m
		}
		authUC := usecase.NewAuthUsecase(userRepo, mirror, cfg.AdminEmails, cfg.AccessTokenExpiry)
		handlers.Auth = v1.NewAuthHandler(authUC)
		handlers.AdminStats = v1.NewAdminStatsHandler(usecase.NewStatsUsecase(userRepo, visitRepo, memCache))
	}

	// Set up Router
	mux := http.NewServeMux()
	v1.RegisterRoutes(mux, handlers, middleware.NewSessionMiddleware(sessionStore, cfg.SessionTTL, cfg.IsProduction()))

	// Warm the catalog so the first visitor does not pay for the feed round trip.
	go catalogUC.Snapshot(context.WithoutCancel(ctx), domain.FetchOptions{})

	addr := fmt.Sprintf(":%s", cfg.Port)

	// Rate limiting: 50 req/s with bursts of 100 per IP, and a much tighter budget on the
	// auth endpoints. Buckets idle for 3 minutes are evicted by the cache janitor.
	rateLimiter := middleware.NewRateLimiter(
		cache.NewMemoryCache(3*time.Minute, time.Minute),
		3*time.Minute,
		middleware.RatePolicy{Limit: 50, Burst: 100},
		middleware.RatePolicy{Prefix: "/api/auth/", Limit: rate.Every(6 * time.Second), Burst: 10},
	)

	// Apply Visit Tracking, CORS, Request Logger, Rate Limit, and Gzip
	var handler http.Handler = mux
	if visitRepo != nil {
		handler = middleware.NewVisitTracker(visitRepo)(handler)
	}
	handler = middleware.NewCORSMiddleware(cfg)(handler)
	handler = middleware.RequestLogger(handler)
	handler = rateLimiter.Middleware()(handler)
	handler = gziphandler.GzipHandler(handler)

	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful Shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	logger.ServiceStart(serviceName, "1.0.0", cfg.Port)

	// Wait for interrupt signal via channel
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Server shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.ServiceStop(serviceName)
}
