package main

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/ranbenri-hacklberry/self-service-kiosk-sub003/internal/domain"
	"github.com/ranbenri-hacklberry/self-service-kiosk-sub003/internal/repo"
	"github.com/ranbenri-hacklberry/self-service-kiosk-sub003/internal/service"
)

var (
	ErrInvalidID = errors.New("invalid ID format")
)

// itemError picks the responder for a session error: a row that does not
// exist is a 404, anything else (cache or remote I/O failure) is a 500.
func (app *application) itemError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, repo.ErrNotFound) {
		app.notFoundError(w, r, err)
		return
	}
	app.internalServerError(w, r, err)
}

// itemSession resolves the business session for the request, writing the
// error response itself when it cannot.
func (app *application) itemSession(w http.ResponseWriter, r *http.Request) (*service.Session, bool) {
	businessID := chi.URLParam(r, "business_id")
	if businessID == "" {
		app.badRequestResponse(w, r, errors.New("business_id is required"))
		return nil, false
	}

	session, err := app.sessions.Get(r.Context(), businessID)
	if err != nil {
		app.internalServerError(w, r, err)
		return nil, false
	}

	return session, true
}

func (app *application) listItemsHandler(w http.ResponseWriter, r *http.Request) {
	session, ok := app.itemSession(w, r)
	if !ok {
		return
	}

	if err := app.jsonRespone(w, http.StatusOK, session.Items()); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) getItemHandler(w http.ResponseWriter, r *http.Request) {
	session, ok := app.itemSession(w, r)
	if !ok {
		return
	}

	itemID := chi.URLParam(r, "item_id")
	if itemID == "" {
		app.badRequestResponse(w, r, ErrInvalidID)
		return
	}

	item, err := session.GetItem(r.Context(), itemID)
	if err != nil {
		app.itemError(w, r, err)
		return
	}

	if err := app.jsonRespone(w, http.StatusOK, item); err != nil {
		app.internalServerError(w, r, err)
	}
}

type UpdateItemRequest struct {
	Category       *string  `json:"category"`
	Name           *string  `json:"name"`
	Price          *float64 `json:"price" validate:"omitempty,gte=0"`
	Description    *string  `json:"description"`
	ProductionArea *string  `json:"production_area"`
	Ingredients    *string  `json:"ingredients"`
	ImageURL       *string  `json:"image_url"`
}

type itemResponse struct {
	Item   *domain.OnboardingItem `json:"item"`
	Queued bool                   `json:"queued"`
}

func (app *application) updateItemHandler(w http.ResponseWriter, r *http.Request) {
	session, ok := app.itemSession(w, r)
	if !ok {
		return
	}

	itemID := chi.URLParam(r, "item_id")
	if itemID == "" {
		app.badRequestResponse(w, r, ErrInvalidID)
		return
	}

	var req UpdateItemRequest
	if err := readJson(w, r, &req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	patch := domain.ItemPatch{
		Category:       req.Category,
		Name:           req.Name,
		Price:          req.Price,
		Description:    req.Description,
		ProductionArea: req.ProductionArea,
		Ingredients:    req.Ingredients,
		ImageURL:       req.ImageURL,
	}

	item, queued, err := session.UpdateItem(r.Context(), itemID, patch)
	if err != nil {
		app.itemError(w, r, err)
		return
	}

	status := http.StatusOK
	if queued {
		status = http.StatusAccepted
	}

	if err := app.jsonRespone(w, status, itemResponse{Item: item, Queued: queued}); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) deleteItemHandler(w http.ResponseWriter, r *http.Request) {
	session, ok := app.itemSession(w, r)
	if !ok {
		return
	}

	itemID := chi.URLParam(r, "item_id")
	if itemID == "" {
		app.badRequestResponse(w, r, ErrInvalidID)
		return
	}

	queued, err := session.DeleteItem(r.Context(), itemID)
	if err != nil {
		app.itemError(w, r, err)
		return
	}

	status := http.StatusOK
	if queued {
		status = http.StatusAccepted
	}

	response := map[string]any{
		"deleted": true,
		"queued":  queued,
	}

	if err := app.jsonRespone(w, status, response); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) validateItemHandler(w http.ResponseWriter, r *http.Request) {
	session, ok := app.itemSession(w, r)
	if !ok {
		return
	}

	itemID := chi.URLParam(r, "item_id")
	if itemID == "" {
		app.badRequestResponse(w, r, ErrInvalidID)
		return
	}

	issues, err := session.ValidateItem(r.Context(), itemID)
	if err != nil {
		app.itemError(w, r, err)
		return
	}

	response := map[string]any{
		"valid":  len(issues) == 0,
		"issues": issues,
	}

	if err := app.jsonRespone(w, http.StatusOK, response); err != nil {
		app.internalServerError(w, r, err)
	}
}
