package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lfournier/datebook/internal/apperror"
	"github.com/lfournier/datebook/internal/auth"
	"github.com/lfournier/datebook/internal/model"
	"github.com/lfournier/datebook/internal/repository"
	"github.com/lfournier/datebook/internal/service"
)

// DateHandler exposes the date-idea CRUD endpoints. It parses requests,
// resolves the caller from the context, and delegates to DateService.
type DateHandler struct {
	service *service.DateService
	logger  *slog.Logger
}

func NewDateHandler(service *service.DateService, logger *slog.Logger) *DateHandler {
	return &DateHandler{service: service, logger: logger}
}

// listResponse matches the wire shape the client expects from GET /dates.
type listResponse struct {
	Dates []model.Date `json:"dates"`
	Count int          `json:"count"`
}

// HandleList serves GET /api/dates?page&size&category&done&sortBy&sortOrder.
// Unknown filter or sort values fall back to defaults instead of failing.
func (h *DateHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized(apperror.KeyUnauthorized))
		return
	}

	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	size, _ := strconv.Atoi(q.Get("size"))

	opts := repository.DateListOptions{
		Page:      page,
		Size:      size,
		Category:  q.Get("category"),
		Done:      repository.ParseDoneFilter(q.Get("done")),
		SortField: repository.ParseSortField(q.Get("sortBy")),
		SortOrder: repository.ParseSortOrder(q.Get("sortOrder")),
	}

	dates, count, err := h.service.List(r.Context(), userID, opts)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, listResponse{Dates: dates, Count: count})
}

type createDateRequest struct {
	Title    string `json:"title"`
	Notes    string `json:"notes"`
	Category string `json:"category"`
}

// HandleCreate serves POST /api/dates.
func (h *DateHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized(apperror.KeyUnauthorized))
		return
	}

	var req createDateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("body", apperror.KeyMissingFields))
		return
	}

	date, err := h.service.Create(r.Context(), userID, req.Title, req.Notes, req.Category)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, date)
}

type updateDateRequest struct {
	Title    *string `json:"title"`
	Notes    *string `json:"notes"`
	Category *string `json:"category"`
}

// HandleUpdate serves PUT /api/dates/{id}. Absent fields stay unchanged.
func (h *DateHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized(apperror.KeyUnauthorized))
		return
	}

	var req updateDateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("body", apperror.KeyMissingFields))
		return
	}

	date, err := h.service.Update(r.Context(), userID, chi.URLParam(r, "id"), service.DateUpdate{
		Title:    req.Title,
		Notes:    req.Notes,
		Category: req.Category,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, date)
}

type toggleDateRequest struct {
	Done         bool    `json:"done"`
	DateRealised *string `json:"date_realised"`
}

// HandleToggle serves PATCH /api/dates/{id}/toggle.
func (h *DateHandler) HandleToggle(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized(apperror.KeyUnauthorized))
		return
	}

	var req toggleDateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("body", apperror.KeyMissingFields))
		return
	}

	var realised *time.Time
	if req.DateRealised != nil {
		t, err := parseDateValue(*req.DateRealised)
		if err != nil {
			writeError(w, apperror.ValidationFailed("date_realised", apperror.KeyMissingFields))
			return
		}
		realised = &t
	}

	date, err := h.service.Toggle(r.Context(), userID, chi.URLParam(r, "id"), req.Done, realised)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, date)
}

// HandleDelete serves DELETE /api/dates/{id}.
func (h *DateHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized(apperror.KeyUnauthorized))
		return
	}

	if err := h.service.Delete(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: apperror.KeyDateDeleted})
}

// parseDateValue accepts both full RFC 3339 timestamps and bare dates,
// because the completion dialog sends whichever the date picker produced.
func parseDateValue(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
