package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/kdm-dev/tubevault/internal/domain/model"
)

// VideoRepository persists the shared video catalog: one row per upstream
// content identifier, referenced by saved-video entries.
type VideoRepository interface {
	// Upsert persists a video, updating title and thumbnail when the
	// identifier already exists.
	Upsert(ctx context.Context, video *model.Video) error

	// GetByID retrieves a video by its upstream content identifier.
	// Returns ErrVideoNotFound if the video does not exist.
	GetByID(ctx context.Context, id string) (*model.Video, error)
}

// UserVideoRepository persists per-user saved videos and their download
// state.
type UserVideoRepository interface {
	// Create saves a video into a user's library.
	// Returns ErrDuplicateUserVideo when the user already saved it.
	Create(ctx context.Context, userVideo *model.UserVideo) error

	// GetByID retrieves a saved-video entry scoped to its owner.
	// Returns ErrUserVideoNotFound if no such entry exists for the user.
	GetByID(ctx context.Context, id, userID uuid.UUID) (*model.UserVideo, error)

	// GetByUserAndVideo retrieves a saved-video entry by its owner and the
	// upstream content identifier. The download worker looks entries up
	// this way because tasks carry the video ID, not the entry ID.
	// Returns ErrUserVideoNotFound if no such entry exists.
	GetByUserAndVideo(ctx context.Context, userID uuid.UUID, videoID string) (*model.UserVideo, error)

	// ListByUser retrieves all of a user's saved videos, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.UserVideo, error)

	// Update persists changes to a saved-video entry.
	// Returns ErrUserVideoNotFound if the entry does not exist.
	Update(ctx context.Context, userVideo *model.UserVideo) error

	// Delete removes a saved-video entry scoped to its owner.
	// Returns ErrUserVideoNotFound if the entry does not exist.
	Delete(ctx context.Context, id, userID uuid.UUID) error
}
