package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"bannerlab/internal/http/handlers"
	"bannerlab/internal/http/httpapi"
	"bannerlab/internal/infra"
	"bannerlab/internal/infra/geoip"
	"bannerlab/internal/jobs"
	"bannerlab/internal/middleware"
	"bannerlab/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv, "api")

	ctx := context.Background()
	pool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("api: failed to connect database")
	}
	defer pool.Close()
	runner := infra.NewSQLRunner(pool, logger)

	store, err := storage.New(ctx, storage.Options{
		Backend: cfg.StorageBackend,
		Path:    cfg.StoragePath,
		BaseURL: cfg.StorageBaseURL,
		Bucket:  cfg.S3Bucket,
		Region:  cfg.S3Region,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("api: failed to configure storage")
	}

	var countryLookup middleware.CountryLookup
	resolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("api: geoip resolver disabled")
	} else if resolver != nil {
		countryLookup = resolver.CountryCode
	}

	dispatcher := jobs.NewDispatcher(runner, logger)
	app := handlers.NewApp(runner, cfg, store, dispatcher, logger)
	router := httpapi.NewRouter(app, httpapi.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		DefaultLocale:  cfg.DefaultLocale,
		CountryLookup:  countryLookup,
		RateLimit:      cfg.RateLimitPerMinute,
	})

	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("api: listening on %s", server.Addr())
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("api: http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("api: failed to shutdown server")
	}
	logger.Info().Msg("api: stopped")
}
