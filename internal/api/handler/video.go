package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"

	"github.com/go-chi/chi/v5"

	"github.com/kdm-dev/tubevault/internal/download"
	"github.com/kdm-dev/tubevault/internal/usecase"
	"github.com/kdm-dev/tubevault/internal/youtube"
)

// videoIDPattern matches the upstream's 11-character content identifiers.
var videoIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// DownloadRequest selects a format from the stream catalog.
type DownloadRequest struct {
	Itag int `json:"itag"`
}

// DirectDownloadRequest carries an explicit downloader format selector.
type DirectDownloadRequest struct {
	Selector string `json:"selector"`
}

// VideoHandler handles stream resolution and download requests.
type VideoHandler struct {
	svc usecase.DownloadService
}

// NewVideoHandler creates a new VideoHandler.
func NewVideoHandler(svc usecase.DownloadService) *VideoHandler {
	return &VideoHandler{svc: svc}
}

// Streams handles GET /v1/videos/{id}/streams
func (h *VideoHandler) Streams(w http.ResponseWriter, r *http.Request) {
	videoID, ok := h.videoID(w, r)
	if !ok {
		return
	}

	options, err := h.svc.GetStreamOptions(r.Context(), videoID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	JSON(w, http.StatusOK, options)
}

// Download handles POST /v1/videos/{id}/download
func (h *VideoHandler) Download(w http.ResponseWriter, r *http.Request) {
	videoID, ok := h.videoID(w, r)
	if !ok {
		return
	}

	var req DownloadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}
	if req.Itag == 0 {
		Error(w, http.StatusBadRequest, "missing_itag", "Itag is required")
		return
	}

	result, err := h.svc.Download(r.Context(), videoID, req.Itag)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	JSON(w, http.StatusOK, result)
}

// DirectDownload handles POST /v1/videos/{id}/direct-download
func (h *VideoHandler) DirectDownload(w http.ResponseWriter, r *http.Request) {
	videoID, ok := h.videoID(w, r)
	if !ok {
		return
	}

	var req DirectDownloadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}
	if req.Selector == "" {
		req.Selector = "best"
	}

	result, err := h.svc.DirectDownload(r.Context(), videoID, req.Selector)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	JSON(w, http.StatusOK, result)
}

func (h *VideoHandler) videoID(w http.ResponseWriter, r *http.Request) (string, bool) {
	videoID := chi.URLParam(r, "id")
	if !videoIDPattern.MatchString(videoID) {
		Error(w, http.StatusBadRequest, "invalid_video_id", "Video ID must be an 11-character identifier")
		return "", false
	}
	return videoID, true
}

func (h *VideoHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, youtube.ErrVideoUnavailable):
		Error(w, http.StatusNotFound, "video_unavailable", err.Error())
	case errors.Is(err, download.ErrFormatUnavailable):
		Error(w, http.StatusBadRequest, "format_unavailable", "No format is known for the requested itag")
	default:
		Error(w, http.StatusInternalServerError, "download_failed", "The download produced no artifact")
	}
}
