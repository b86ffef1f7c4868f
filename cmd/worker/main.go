package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"bannerlab/internal/infra"
	"bannerlab/internal/infra/credentials"
	"bannerlab/internal/jobs"
	"bannerlab/internal/providers/adcopy"
	"bannerlab/internal/providers/bgstudio"
	"bannerlab/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv, "worker")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: db connection failed")
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
		logger.Fatal().Err(err).Msg("worker: failed to configure storage")
	}

	creds := credentials.NewStore(runner)
	if cfg.StudioAPIKey == "" {
		if key, err := creds.StudioAPIKey(ctx); err != nil {
			logger.Warn().Err(err).Msg("worker: studio key lookup failed")
		} else {
			cfg.StudioAPIKey = key
		}
	}
	if cfg.OpenAIAPIKey == "" {
		if key, err := creds.OpenAIAPIKey(ctx); err != nil {
			logger.Warn().Err(err).Msg("worker: openai key lookup failed")
		} else {
			cfg.OpenAIAPIKey = key
		}
	}

	studio, err := bgstudio.New(bgstudio.Options{
		APIKey:     cfg.StudioAPIKey,
		BaseURL:    cfg.StudioBaseURL,
		Username:   cfg.StudioUsername,
		HTTPClient: &http.Client{Timeout: cfg.StudioTimeout},
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: failed to configure studio client")
	}

	composer := newComposer(cfg, logger)

	pipelines := jobs.NewPipelines(jobs.PipelineOptions{
		SQL:         runner,
		Store:       store,
		Studio:      studio,
		Composer:    composer,
		FetchClient: &http.Client{Timeout: cfg.SourceFetchTimeout},
		Logger:      logger,
	})

	worker := jobs.NewRunner(runner, jobs.RunnerConfig{
		Concurrency:  cfg.WorkerConcurrency,
		PollInterval: cfg.JobPollInterval,
		SoftTimeout:  cfg.TaskSoftTimeout,
		HardTimeout:  cfg.TaskHardTimeout,
	}, logger)
	pipelines.RegisterAll(worker)

	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal().Err(err).Msg("worker: stopped with error")
	}
	logger.Info().Msg("worker: stopped")
}

// newComposer prefers the chat-completion composer and falls back to the
// offline static one when no API key is configured.
func newComposer(cfg *infra.Config, logger infra.Logger) adcopy.Composer {
	if cfg.OpenAIAPIKey == "" {
		logger.Warn().Msg("worker: openai api key missing, using static copy composer")
		return adcopy.NewStaticComposer()
	}
	client, err := adcopy.NewClient(adcopy.Options{
		APIKey:     cfg.OpenAIAPIKey,
		BaseURL:    cfg.OpenAIBaseURL,
		Model:      cfg.OpenAIModel,
		HTTPClient: &http.Client{Timeout: cfg.OpenAITimeout},
	})
	if err != nil {
		logger.Warn().Err(err).Msg("worker: chat composer unavailable, using static copy composer")
		return adcopy.NewStaticComposer()
	}
	return adcopy.NewChatComposer(client)
}
