package main

import (
	"net/http"

	"github.com/go-chi/chi"

	"github.com/ranbenri-hacklberry/self-service-kiosk-sub003/internal/domain"
	"github.com/ranbenri-hacklberry/self-service-kiosk-sub003/internal/dsl"
	"github.com/ranbenri-hacklberry/self-service-kiosk-sub003/internal/validate"
)

type ParseModifiersRequest struct {
	Modifiers string `json:"modifiers" validate:"required"`
}

type ParseModifiersResponse struct {
	Groups    []domain.ModifierGroup `json:"groups"`
	Canonical string                 `json:"canonical"`
	Warnings  []string               `json:"warnings"`
	Issues    []validate.Issue       `json:"issues"`
}

// parseModifiersHandler is a stateless preview: it decodes the modifier
// text and reports the parsed groups, the canonical round-trip form, and
// any advisory findings without touching an item.
func (app *application) parseModifiersHandler(w http.ResponseWriter, r *http.Request) {
	var req ParseModifiersRequest
	if err := readJson(w, r, &req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	groups, warnings := dsl.Decode(req.Modifiers)
	issues := validate.Check(groups)

	response := ParseModifiersResponse{
		Groups:    groups,
		Canonical: dsl.Encode(groups),
		Warnings:  warningStrings(warnings),
		Issues:    issues,
	}

	if err := app.jsonRespone(w, http.StatusOK, response); err != nil {
		app.internalServerError(w, r, err)
	}
}

type ReplaceModifiersRequest struct {
	Modifiers string `json:"modifiers"`
}

type ReplaceModifiersResponse struct {
	Item     *domain.OnboardingItem `json:"item"`
	Warnings []string               `json:"warnings"`
	Issues   []validate.Issue       `json:"issues"`
	Queued   bool                   `json:"queued"`
}

func (app *application) replaceModifiersHandler(w http.ResponseWriter, r *http.Request) {
	session, ok := app.itemSession(w, r)
	if !ok {
		return
	}

	itemID := chi.URLParam(r, "item_id")
	if itemID == "" {
		app.badRequestResponse(w, r, ErrInvalidID)
		return
	}

	var req ReplaceModifiersRequest
	if err := readJson(w, r, &req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	item, warnings, issues, queued, err := session.ReplaceModifiers(r.Context(), itemID, req.Modifiers)
	if err != nil {
		app.itemError(w, r, err)
		return
	}

	status := http.StatusOK
	if queued {
		status = http.StatusAccepted
	}

	response := ReplaceModifiersResponse{
		Item:     item,
		Warnings: warningStrings(warnings),
		Issues:   issues,
		Queued:   queued,
	}

	if err := app.jsonRespone(w, status, response); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) attachGroupHandler(w http.ResponseWriter, r *http.Request) {
	session, ok := app.itemSession(w, r)
	if !ok {
		return
	}

	itemID := chi.URLParam(r, "item_id")
	groupID := chi.URLParam(r, "group_id")
	if itemID == "" || groupID == "" {
		app.badRequestResponse(w, r, ErrInvalidID)
		return
	}

	item, err := session.AttachSharedGroup(r.Context(), itemID, groupID)
	if err != nil {
		app.itemError(w, r, err)
		return
	}

	if err := app.jsonRespone(w, http.StatusOK, item); err != nil {
		app.internalServerError(w, r, err)
	}
}

func warningStrings(warnings []dsl.Warning) []string {
	out := make([]string, 0, len(warnings))
	for _, w := range warnings {
		out = append(out, w.String())
	}
	return out
}
