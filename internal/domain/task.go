package domain

import "time"

// TaskType names a registered worker pipeline.
type TaskType string

const (
	TaskTypeImageUpload          TaskType = "image_upload"
	TaskTypeBackgroundGenerate   TaskType = "background_generate"
	TaskTypeBackgroundRegenerate TaskType = "background_regenerate"
	TaskTypeBackgroundRecreate   TaskType = "background_recreate"
	TaskTypeImageResize          TaskType = "image_resize"
	TaskTypeBannerCopy           TaskType = "banner_copy"
)

// TaskStatus enumerates the job lifecycle states.
type TaskStatus string

const (
	TaskStatusQueued    TaskStatus = "QUEUED"
	TaskStatusRunning   TaskStatus = "RUNNING"
	TaskStatusSucceeded TaskStatus = "SUCCEEDED"
	TaskStatusFailed    TaskStatus = "FAILED"
)

// Terminal reports whether the status is final. Failed tasks are never
// retried by the dispatcher itself.
func (s TaskStatus) Terminal() bool {
	return s == TaskStatusSucceeded || s == TaskStatusFailed
}

// Task is a queued unit of work. Payload carries the scalar job arguments,
// including the pre-reserved destination blob key, so a re-delivered task
// re-runs against the same key.
type Task struct {
	ID        string
	Type      TaskType
	Status    TaskStatus
	Payload   []byte
	Result    []byte
	Error     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
