package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/kdm-dev/tubevault/internal/api/middleware"
	"github.com/kdm-dev/tubevault/internal/domain/model"
	"github.com/kdm-dev/tubevault/internal/domain/repository"
	"github.com/kdm-dev/tubevault/internal/usecase"
)

type SaveVideoRequest struct {
	VideoID      string `json:"video_id"`
	Title        string `json:"title"`
	ThumbnailURL string `json:"thumbnail"`
	CustomTitle  string `json:"custom_title"`
	Notes        string `json:"notes"`
}

type UpdateVideoRequest struct {
	CustomTitle *string `json:"custom_title"`
	Notes       *string `json:"notes"`
	Favorite    *bool   `json:"favorite"`
}

type QueueDownloadRequest struct {
	Itag int `json:"itag"`
}

type UserVideoResponse struct {
	ID              string `json:"id"`
	VideoID         string `json:"video_id"`
	CustomTitle     string `json:"custom_title,omitempty"`
	Notes           string `json:"notes,omitempty"`
	Favorite        bool   `json:"favorite"`
	Downloaded      bool   `json:"downloaded"`
	DownloadDate    string `json:"download_date,omitempty"`
	DownloadPath    string `json:"download_path,omitempty"`
	DownloadQuality string `json:"download_quality,omitempty"`
	CreatedAt       string `json:"created_at"`
}

type SearchHistoryResponse struct {
	ID           string `json:"id"`
	Query        string `json:"query"`
	SearchType   string `json:"search_type"`
	ResultsCount int    `json:"results_count"`
	Timestamp    string `json:"timestamp"`
}

type ArchiveURLResponse struct {
	URL string `json:"url"`
}

// LibraryHandler handles saved-video and search-history requests. Every
// route requires an authenticated session.
type LibraryHandler struct {
	svc usecase.LibraryService
}

// NewLibraryHandler creates a new LibraryHandler.
func NewLibraryHandler(svc usecase.LibraryService) *LibraryHandler {
	return &LibraryHandler{svc: svc}
}

// Save handles POST /v1/library
func (h *LibraryHandler) Save(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req SaveVideoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	entry, err := h.svc.SaveVideo(r.Context(), usecase.SaveVideoInput{
		UserID:       userID,
		VideoID:      req.VideoID,
		Title:        req.Title,
		ThumbnailURL: req.ThumbnailURL,
		CustomTitle:  req.CustomTitle,
		Notes:        req.Notes,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	JSON(w, http.StatusCreated, toUserVideoResponse(entry))
}

// List handles GET /v1/library
func (h *LibraryHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	entries, err := h.svc.ListVideos(r.Context(), userID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	responses := make([]UserVideoResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, toUserVideoResponse(entry))
	}
	JSON(w, http.StatusOK, responses)
}

// Update handles PATCH /v1/library/{id}
func (h *LibraryHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	entryID, ok := h.entryID(w, r)
	if !ok {
		return
	}

	var req UpdateVideoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	entry, err := h.svc.UpdateVideo(r.Context(), entryID, userID, usecase.UpdateVideoInput{
		CustomTitle: req.CustomTitle,
		Notes:       req.Notes,
		Favorite:    req.Favorite,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	JSON(w, http.StatusOK, toUserVideoResponse(entry))
}

// Delete handles DELETE /v1/library/{id}
func (h *LibraryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	entryID, ok := h.entryID(w, r)
	if !ok {
		return
	}

	if err := h.svc.DeleteVideo(r.Context(), entryID, userID); err != nil {
		h.handleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// QueueDownload handles POST /v1/library/{id}/download
func (h *LibraryHandler) QueueDownload(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	entryID, ok := h.entryID(w, r)
	if !ok {
		return
	}

	var req QueueDownloadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}
	if req.Itag == 0 {
		Error(w, http.StatusBadRequest, "missing_itag", "Itag is required")
		return
	}

	if err := h.svc.RequestDownload(r.Context(), entryID, userID, req.Itag); err != nil {
		h.handleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// ArchiveURL handles GET /v1/library/{id}/archive-url
func (h *LibraryHandler) ArchiveURL(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	entryID, ok := h.entryID(w, r)
	if !ok {
		return
	}

	url, err := h.svc.ArchiveDownloadURL(r.Context(), entryID, userID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	JSON(w, http.StatusOK, ArchiveURLResponse{URL: url})
}

// History handles GET /v1/history
func (h *LibraryHandler) History(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	entries, err := h.svc.ListHistory(r.Context(), userID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	responses := make([]SearchHistoryResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, SearchHistoryResponse{
			ID:           entry.ID.String(),
			Query:        entry.Query,
			SearchType:   entry.SearchType.String(),
			ResultsCount: entry.ResultsCount,
			Timestamp:    entry.Timestamp.Format(time.RFC3339),
		})
	}
	JSON(w, http.StatusOK, responses)
}

// DeleteHistory handles DELETE /v1/history/{id}
func (h *LibraryHandler) DeleteHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	entryID, ok := h.entryID(w, r)
	if !ok {
		return
	}

	if err := h.svc.DeleteHistory(r.Context(), entryID, userID); err != nil {
		h.handleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ClearHistory handles DELETE /v1/history
func (h *LibraryHandler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	if err := h.svc.ClearHistory(r.Context(), userID); err != nil {
		h.handleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *LibraryHandler) userID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		Error(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return uuid.Nil, false
	}
	return userID, true
}

func (h *LibraryHandler) entryID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid_id", "ID must be a valid UUID")
		return uuid.Nil, false
	}
	return id, true
}

func (h *LibraryHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrUserVideoNotFound):
		Error(w, http.StatusNotFound, "not_found", "Library entry not found")
	case errors.Is(err, repository.ErrHistoryNotFound):
		Error(w, http.StatusNotFound, "not_found", "History entry not found")
	case errors.Is(err, repository.ErrDuplicateUserVideo):
		Error(w, http.StatusConflict, "already_saved", "Video already saved")
	case errors.Is(err, usecase.ErrNotArchived):
		Error(w, http.StatusNotFound, "not_archived", "Video has no archived artifact")
	case errors.Is(err, model.ErrEmptyVideoID),
		errors.Is(err, model.ErrEmptyTitle),
		errors.Is(err, model.ErrTitleTooLong):
		Error(w, http.StatusBadRequest, "invalid_input", err.Error())
	default:
		Error(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
	}
}

func toUserVideoResponse(v *model.UserVideo) UserVideoResponse {
	resp := UserVideoResponse{
		ID:              v.ID.String(),
		VideoID:         v.VideoID,
		CustomTitle:     v.CustomTitle,
		Notes:           v.Notes,
		Favorite:        v.Favorite,
		Downloaded:      v.Downloaded,
		DownloadPath:    v.DownloadPath,
		DownloadQuality: v.DownloadQuality,
		CreatedAt:       v.CreatedAt.Format(time.RFC3339),
	}
	if v.DownloadDate != nil {
		resp.DownloadDate = v.DownloadDate.Format(time.RFC3339)
	}
	return resp
}
