package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"bannerlab/internal/adapter/repo"
	"bannerlab/internal/domain"
	"bannerlab/internal/infra"
)

// Handler executes one claimed task. The returned value is JSON-encoded
// into the task's result column; a returned error fails the task for good.
type Handler func(ctx context.Context, payload []byte) (any, error)

// RunnerConfig bounds the worker pool.
type RunnerConfig struct {
	Concurrency  int
	PollInterval time.Duration
	// SoftTimeout logs a warning while the task keeps running;
	// HardTimeout cancels the task context.
	SoftTimeout time.Duration
	HardTimeout time.Duration
}

// Runner drains the task queue. Each poller claims with FOR UPDATE SKIP
// LOCKED, so any number of runners can share the queue table.
type Runner struct {
	tasks    *repo.TaskRepo
	handlers map[domain.TaskType]Handler
	cfg      RunnerConfig
	logger   zerolog.Logger
}

func NewRunner(sql infra.SQLExecutor, cfg RunnerConfig, logger zerolog.Logger) *Runner {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 2 * time.Second
	}
	return &Runner{
		tasks:    repo.NewTaskRepo(sql),
		handlers: make(map[domain.TaskType]Handler),
		cfg:      cfg,
		logger:   logger,
	}
}

// Register binds a task type to its pipeline. Unregistered types fail on
// claim rather than sitting in the queue forever.
func (r *Runner) Register(taskType domain.TaskType, h Handler) {
	r.handlers[taskType] = h
}

// Run blocks until ctx is cancelled, polling with cfg.Concurrency workers.
func (r *Runner) Run(ctx context.Context) error {
	r.logger.Info().Int("concurrency", r.cfg.Concurrency).Msg("runner: started")
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < r.cfg.Concurrency; i++ {
		worker := i
		g.Go(func() error {
			return r.poll(ctx, worker)
		})
	}
	return g.Wait()
}

func (r *Runner) poll(ctx context.Context, worker int) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		task, ok, err := r.tasks.Claim(ctx)
		if err != nil {
			r.logger.Error().Err(err).Int("worker", worker).Msg("runner: claim failed")
			ok = false
		}
		if !ok {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(r.cfg.PollInterval):
			}
			continue
		}

		r.execute(ctx, worker, task)
	}
}

func (r *Runner) execute(ctx context.Context, worker int, task domain.Task) {
	log := r.logger.With().
		Int("worker", worker).
		Str("task_id", task.ID).
		Str("task_type", string(task.Type)).
		Logger()
	log.Info().Msg("runner: picked task")

	result, err := r.runHandler(ctx, &log, task)
	if err != nil {
		log.Error().Err(err).Msg("runner: task failed")
		if failErr := r.tasks.Fail(ctx, task.ID, err.Error()); failErr != nil {
			log.Error().Err(failErr).Msg("runner: record failure failed")
		}
		return
	}

	body, err := json.Marshal(result)
	if err != nil {
		log.Error().Err(err).Msg("runner: encode result failed")
		body = []byte(`{}`)
	}
	if err := r.tasks.Complete(ctx, task.ID, body); err != nil {
		log.Error().Err(err).Msg("runner: record success failed")
		return
	}
	log.Info().Msg("runner: task succeeded")
}

func (r *Runner) runHandler(ctx context.Context, log *zerolog.Logger, task domain.Task) (any, error) {
	handler, ok := r.handlers[task.Type]
	if !ok {
		return nil, fmt.Errorf("no handler registered for task type %q", task.Type)
	}

	if r.cfg.HardTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.HardTimeout)
		defer cancel()
	}
	if r.cfg.SoftTimeout > 0 {
		soft := time.AfterFunc(r.cfg.SoftTimeout, func() {
			log.Warn().Dur("soft_timeout", r.cfg.SoftTimeout).Msg("runner: task exceeded soft time limit")
		})
		defer soft.Stop()
	}

	result, err := handler(ctx, task.Payload)
	if err != nil && errors.Is(err, context.DeadlineExceeded) {
		return nil, fmt.Errorf("task exceeded hard time limit of %s: %w", r.cfg.HardTimeout, err)
	}
	return result, err
}
