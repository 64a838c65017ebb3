package main

import (
	"net/http"
	"time"
)

type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Services  map[string]string `json:"services"`
}

func (app *application) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	// check local cache
	cacheStatus := "ok"
	if err := app.storage.Ping(r.Context()); err != nil {
		cacheStatus = "error"
	}

	// check remote store; absent means intentional offline-only mode
	remoteStatus := "offline"
	if app.pg != nil {
		remoteStatus = "ok"
		if err := app.pg.Ping(r.Context()); err != nil {
			remoteStatus = "error"
		}
	}

	// check broker: assume ok if app is running
	queueStatus := "ok"

	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Services: map[string]string{
			"cache":  cacheStatus,
			"remote": remoteStatus,
			"queue":  queueStatus,
		},
	}

	// a dead cache is fatal, a dead remote is not: writes park on the queue
	if cacheStatus != "ok" || queueStatus != "ok" {
		response.Status = "unhealthy"
		if err := writeJson(w, http.StatusServiceUnavailable, response); err != nil {
			app.internalServerError(w, r, err)
		}
		return
	}

	if remoteStatus == "error" {
		response.Status = "degraded"
	}

	if err := writeJson(w, http.StatusOK, response); err != nil {
		app.internalServerError(w, r, err)
	}
}
