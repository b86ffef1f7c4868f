package repo

import (
	"context"
	"encoding/json"
	"fmt"

	"bannerlab/internal/domain"
	"bannerlab/internal/infra"
	"bannerlab/internal/sqlinline"
)

// TaskRepo is the queue table. Tasks are inserted QUEUED by the API
// process and claimed RUNNING by workers with FOR UPDATE SKIP LOCKED, so
// several worker processes can share one database without double delivery.
type TaskRepo struct {
	sql infra.SQLExecutor
}

func NewTaskRepo(sql infra.SQLExecutor) *TaskRepo {
	return &TaskRepo{sql: sql}
}

// Insert enqueues a task and returns its id.
func (r *TaskRepo) Insert(ctx context.Context, taskType domain.TaskType, payload []byte) (string, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QInsertTask, string(taskType), payload)
	var id string
	if err := row.Scan(&id); err != nil {
		return "", fmt.Errorf("insert task: %w", err)
	}
	return id, nil
}

func (r *TaskRepo) GetByID(ctx context.Context, id string) (domain.Task, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QSelectTaskByID, id)
	var t domain.Task
	if err := row.Scan(&t.ID, &t.Type, &t.Status, &t.Result, &t.Error, &t.CreatedAt, &t.UpdatedAt); err != nil {
		if infra.IsNoRows(err) {
			return domain.Task{}, fmt.Errorf("%w: task %s", domain.ErrNotFound, id)
		}
		return domain.Task{}, fmt.Errorf("select task: %w", err)
	}
	return t, nil
}

// Claim moves the oldest QUEUED task to RUNNING and returns it. The second
// return value is false when the queue is empty.
func (r *TaskRepo) Claim(ctx context.Context) (domain.Task, bool, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QClaimTask)
	var t domain.Task
	if err := row.Scan(&t.ID, &t.Type, &t.Payload); err != nil {
		if infra.IsNoRows(err) {
			return domain.Task{}, false, nil
		}
		return domain.Task{}, false, fmt.Errorf("claim task: %w", err)
	}
	// Payload bytes may alias the driver buffer.
	t.Payload = append(json.RawMessage(nil), t.Payload...)
	t.Status = domain.TaskStatusRunning
	return t, true, nil
}

func (r *TaskRepo) Complete(ctx context.Context, id string, result []byte) error {
	if len(result) == 0 {
		result = []byte(`{}`)
	}
	if _, err := r.sql.Exec(ctx, sqlinline.QCompleteTask, id, result); err != nil {
		return fmt.Errorf("complete task: %w", err)
	}
	return nil
}

func (r *TaskRepo) Fail(ctx context.Context, id, message string) error {
	if _, err := r.sql.Exec(ctx, sqlinline.QFailTask, id, message); err != nil {
		return fmt.Errorf("fail task: %w", err)
	}
	return nil
}
