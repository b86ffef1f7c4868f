package jobs

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"bannerlab/internal/adapter/repo"
	"bannerlab/internal/domain"
	"bannerlab/internal/infra"
)

// Dispatcher is the API-side half of the queue: it enqueues tasks and
// answers status polls. Every mutating endpoint goes through Submit and
// returns 202 with the task id; clients follow up on the status endpoint.
type Dispatcher struct {
	tasks  *repo.TaskRepo
	logger zerolog.Logger
}

func NewDispatcher(sql infra.SQLExecutor, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{tasks: repo.NewTaskRepo(sql), logger: logger}
}

// Submit enqueues a task and returns its id.
func (d *Dispatcher) Submit(ctx context.Context, taskType domain.TaskType, payload any) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode %s payload: %w", taskType, err)
	}
	id, err := d.tasks.Insert(ctx, taskType, body)
	if err != nil {
		return "", err
	}
	d.logger.Info().Str("task_id", id).Str("task_type", string(taskType)).Msg("dispatcher: task queued")
	return id, nil
}

// Poll returns the current task state. Result and Error are only populated
// in terminal states.
func (d *Dispatcher) Poll(ctx context.Context, taskID string) (domain.Task, error) {
	return d.tasks.GetByID(ctx, taskID)
}
