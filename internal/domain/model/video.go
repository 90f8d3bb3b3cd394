package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyVideoID  = errors.New("video ID cannot be empty")
	ErrEmptyTitle    = errors.New("title cannot be empty")
	ErrTitleTooLong  = errors.New("title exceeds maximum length of 200 characters")
	ErrInvalidUserID = errors.New("user ID cannot be nil")
)

const maxTitleLength = 200

// Video is a piece of upstream content discovered through search or saved by a user.
// The ID is the upstream platform's public content identifier, not a UUID.
type Video struct {
	ID           string
	Title        string
	ThumbnailURL string
	SearchID     *uuid.UUID
	CreatedAt    time.Time
}

// NewVideo creates a Video record for an upstream content identifier.
func NewVideo(id, title, thumbnailURL string) (*Video, error) {
	if id == "" {
		return nil, ErrEmptyVideoID
	}
	if title == "" {
		return nil, ErrEmptyTitle
	}
	if len(title) > maxTitleLength {
		return nil, ErrTitleTooLong
	}

	return &Video{
		ID:           id,
		Title:        title,
		ThumbnailURL: thumbnailURL,
		CreatedAt:    time.Now(),
	}, nil
}

// UserVideo links a user to a saved video with per-user metadata and
// download bookkeeping.
type UserVideo struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	VideoID     string
	CustomTitle string
	Notes       string
	Favorite    bool

	Downloaded      bool
	DownloadDate    *time.Time
	DownloadPath    string
	DownloadQuality string
	ArchiveKey      string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewUserVideo creates a library entry for a user and video.
func NewUserVideo(userID uuid.UUID, videoID, customTitle, notes string) (*UserVideo, error) {
	if userID == uuid.Nil {
		return nil, ErrInvalidUserID
	}
	if videoID == "" {
		return nil, ErrEmptyVideoID
	}

	now := time.Now()
	return &UserVideo{
		ID:          uuid.New(),
		UserID:      userID,
		VideoID:     videoID,
		CustomTitle: customTitle,
		Notes:       notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// MarkDownloaded records a completed download against the library entry.
func (v *UserVideo) MarkDownloaded(path, quality string) {
	now := time.Now()
	v.Downloaded = true
	v.DownloadDate = &now
	v.DownloadPath = path
	v.DownloadQuality = quality
	v.UpdatedAt = now
}
