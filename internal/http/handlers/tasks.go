package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"bannerlab/internal/domain"
)

// TaskStatus answers status polls for any queued task. Result and error
// only show up in terminal states.
func (a *App) TaskStatus(w http.ResponseWriter, r *http.Request) {
	task, err := a.Dispatcher.Poll(r.Context(), chi.URLParam(r, "task_id"))
	if err != nil {
		a.domainError(w, r, err)
		return
	}
	body := map[string]any{
		"task_id":   task.ID,
		"task_type": task.Type,
		"status":    task.Status,
	}
	if task.Status == domain.TaskStatusSucceeded && len(task.Result) > 0 {
		body["result"] = json.RawMessage(task.Result)
	}
	if task.Status == domain.TaskStatusFailed {
		body["error"] = task.Error
	}
	a.json(w, http.StatusOK, body)
}
