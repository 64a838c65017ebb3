package main

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
)

const defaultAuditLimit = 50

// syncAuditHandler returns the trail of offline-queue activity for a
// business: parked writes, replay successes, replay failures.
func (app *application) syncAuditHandler(w http.ResponseWriter, r *http.Request) {
	businessID := chi.URLParam(r, "business_id")
	if businessID == "" {
		app.badRequestResponse(w, r, errors.New("business_id is required"))
		return
	}

	limit := defaultAuditLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			app.badRequestResponse(w, r, errors.New("limit must be a positive integer"))
			return
		}
		limit = parsed
	}

	events, err := app.syncAuditRepo.GetByBusinessID(r.Context(), businessID, limit)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonRespone(w, http.StatusOK, events); err != nil {
		app.internalServerError(w, r, err)
	}
}
