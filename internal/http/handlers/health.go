package handlers

import (
	"net/http"
	"time"
)

var startedAt = time.Now()

func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]string{
		"status": "ok",
		"uptime": time.Since(startedAt).Truncate(time.Second).String(),
	})
}
