package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lfournier/datebook/internal/apperror"
	"github.com/lfournier/datebook/internal/auth"
	"github.com/lfournier/datebook/internal/service"
)

// CategoryHandler exposes the category CRUD endpoints.
type CategoryHandler struct {
	service *service.CategoryService
	logger  *slog.Logger
}

func NewCategoryHandler(service *service.CategoryService, logger *slog.Logger) *CategoryHandler {
	return &CategoryHandler{service: service, logger: logger}
}

// HandleList serves GET /api/categories.
func (h *CategoryHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, categories)
}

type createCategoryRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

// HandleCreate serves POST /api/categories.
func (h *CategoryHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized(apperror.KeyUnauthorized))
		return
	}

	var req createCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("body", apperror.KeyMissingFields))
		return
	}

	category, err := h.service.Create(r.Context(), userID, req.Name, req.Color, req.Icon)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, category)
}

type updateCategoryRequest struct {
	Name  *string `json:"name"`
	Color *string `json:"color"`
	Icon  *string `json:"icon"`
}

// HandleUpdate serves PUT /api/categories/{id}.
func (h *CategoryHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized(apperror.KeyUnauthorized))
		return
	}

	var req updateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("body", apperror.KeyMissingFields))
		return
	}

	category, err := h.service.Update(r.Context(), userID, chi.URLParam(r, "id"), service.CategoryUpdate{
		Name:  req.Name,
		Color: req.Color,
		Icon:  req.Icon,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, category)
}

// HandleDelete serves DELETE /api/categories/{id}. Deleting a default
// category is rejected with 400.
func (h *CategoryHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized(apperror.KeyUnauthorized))
		return
	}

	if err := h.service.Delete(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: apperror.KeyCategoryDeleted})
}
