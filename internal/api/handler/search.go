package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/kdm-dev/tubevault/internal/api/middleware"
	"github.com/kdm-dev/tubevault/internal/domain/model"
	"github.com/kdm-dev/tubevault/internal/usecase"
	"github.com/kdm-dev/tubevault/internal/youtube"
)

// SearchHandler handles search and channel browsing requests.
type SearchHandler struct {
	svc usecase.SearchService
}

// NewSearchHandler creates a new SearchHandler.
func NewSearchHandler(svc usecase.SearchService) *SearchHandler {
	return &SearchHandler{svc: svc}
}

// Search handles GET /v1/search?q={query}&type={videos|channels}
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		Error(w, http.StatusBadRequest, "missing_query", "Query parameter q is required")
		return
	}

	searchType := model.SearchType(r.URL.Query().Get("type"))
	if searchType == "" {
		searchType = model.SearchVideos
	}

	var userID *uuid.UUID
	if id, ok := middleware.GetUserID(r.Context()); ok {
		userID = &id
	}

	result, err := h.svc.Search(r.Context(), query, searchType, userID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	JSON(w, http.StatusOK, result)
}

// Channel handles GET /v1/channels/{id}
func (h *SearchHandler) Channel(w http.ResponseWriter, r *http.Request) {
	channelID := chi.URLParam(r, "id")

	page, err := h.svc.BrowseChannel(r.Context(), channelID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	JSON(w, http.StatusOK, page)
}

// CacheStats handles GET /v1/cache/stats
func (h *SearchHandler) CacheStats(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, h.svc.CacheStats())
}

func (h *SearchHandler) handleServiceError(w http.ResponseWriter, err error) {
	var statusErr *youtube.StatusError
	switch {
	case errors.Is(err, model.ErrInvalidSearchType):
		Error(w, http.StatusBadRequest, "invalid_search_type", "Search type must be videos or channels")
	case errors.Is(err, youtube.ErrChannelNotFound):
		Error(w, http.StatusNotFound, "channel_not_found", "Channel not found")
	case errors.As(err, &statusErr):
		Error(w, http.StatusBadGateway, "upstream_error", "Upstream request failed")
	default:
		Error(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
	}
}
