package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"catalog-backend/application/services"
	"catalog-backend/pkg/auth"
	"catalog-backend/pkg/common"
	apperrors "catalog-backend/pkg/errors"
)

// recordRequest is the write body shared by create and update.
type recordRequest[F any] struct {
	Name   string `json:"name" validate:"required,min=1,max=200"`
	Fields F      `json:"fields"`
}

// CatalogHandler serves the lifecycle endpoints for one resource kind. The
// same handler type is mounted once per kind; the fields type parameter is
// the only difference between mounts.
type CatalogHandler[F any] struct {
	service *services.CatalogService[F]
	logger  *zap.Logger
}

// NewCatalogHandler creates the handler for one resource kind.
func NewCatalogHandler[F any](service *services.CatalogService[F], logger *zap.Logger) *CatalogHandler[F] {
	return &CatalogHandler[F]{service: service, logger: logger}
}

// Mount registers the kind's routes on a subrouter.
func (h *CatalogHandler[F]) Mount(r chi.Router) {
	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/name/{name}", h.GetByName)
	r.Get("/{recordID}", h.Get)
	r.Put("/{recordID}", h.Update)
	r.Delete("/{recordID}", h.Delete)
	r.Post("/{recordID}/approve", h.Approve)
	r.Post("/{recordID}/deny", h.Deny)
}

// Create handles POST /{resource}.
func (h *CatalogHandler[F]) Create(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.ActorFromContext(r.Context())
	if err != nil {
		common.RespondError(w, err)
		return
	}
	req, err := h.decode(r)
	if err != nil {
		common.RespondError(w, err)
		return
	}

	rec, err := h.service.Create(r.Context(), req.Name, req.Fields, actor)
	if err != nil {
		common.RespondError(w, err)
		return
	}

	h.logger.Info("record created",
		zap.String("kind", h.service.Kind().String()),
		zap.String("recordID", rec.ID),
		zap.String("status", rec.Status.String()),
		zap.String("actor", actor.Username),
	)
	common.RespondJSON(w, http.StatusCreated, rec)
}

// Update handles PUT /{resource}/{recordID}.
func (h *CatalogHandler[F]) Update(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.ActorFromContext(r.Context())
	if err != nil {
		common.RespondError(w, err)
		return
	}
	req, err := h.decode(r)
	if err != nil {
		common.RespondError(w, err)
		return
	}

	rec, err := h.service.Update(r.Context(), chi.URLParam(r, "recordID"), req.Name, req.Fields, actor)
	if err != nil {
		common.RespondError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, rec)
}

// Delete handles DELETE /{resource}/{recordID}. The record is staged for
// deletion, not removed; removal happens when the request is approved.
func (h *CatalogHandler[F]) Delete(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.ActorFromContext(r.Context())
	if err != nil {
		common.RespondError(w, err)
		return
	}

	rec, err := h.service.Delete(r.Context(), chi.URLParam(r, "recordID"), actor)
	if err != nil {
		common.RespondError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, rec)
}

// Approve handles POST /{resource}/{recordID}/approve.
func (h *CatalogHandler[F]) Approve(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.ActorFromContext(r.Context())
	if err != nil {
		common.RespondError(w, err)
		return
	}

	rec, err := h.service.Approve(r.Context(), chi.URLParam(r, "recordID"), actor)
	if err != nil {
		common.RespondError(w, err)
		return
	}

	h.logger.Info("change request approved",
		zap.String("kind", h.service.Kind().String()),
		zap.String("recordID", rec.ID),
		zap.String("actor", actor.Username),
	)
	common.RespondJSON(w, http.StatusOK, rec)
}

// Deny handles POST /{resource}/{recordID}/deny.
func (h *CatalogHandler[F]) Deny(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.ActorFromContext(r.Context())
	if err != nil {
		common.RespondError(w, err)
		return
	}

	rec, err := h.service.Deny(r.Context(), chi.URLParam(r, "recordID"), actor)
	if err != nil {
		common.RespondError(w, err)
		return
	}

	h.logger.Info("change request denied",
		zap.String("kind", h.service.Kind().String()),
		zap.String("recordID", rec.ID),
		zap.String("actor", actor.Username),
	)
	common.RespondJSON(w, http.StatusOK, rec)
}

// Get handles GET /{resource}/{recordID}.
func (h *CatalogHandler[F]) Get(w http.ResponseWriter, r *http.Request) {
	rec, err := h.service.Get(r.Context(), chi.URLParam(r, "recordID"))
	if err != nil {
		common.RespondError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, rec)
}

// GetByName handles GET /{resource}/name/{name}.
func (h *CatalogHandler[F]) GetByName(w http.ResponseWriter, r *http.Request) {
	rec, err := h.service.GetByName(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		common.RespondError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, rec)
}

// List handles GET /{resource} with status/limit/direction/cursorPointer
// query parameters.
func (h *CatalogHandler[F]) List(w http.ResponseWriter, r *http.Request) {
	req, err := common.ExtractPageRequest(r)
	if err != nil {
		common.RespondError(w, err)
		return
	}

	page, err := h.service.List(r.Context(), req)
	if err != nil {
		common.RespondError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, page)
}

func (h *CatalogHandler[F]) decode(r *http.Request) (recordRequest[F], error) {
	var req recordRequest[F]
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return req, apperrors.NewValidationError("invalid request body")
	}
	if err := common.ValidateStruct(req); err != nil {
		return req, err
	}
	return req, nil
}
