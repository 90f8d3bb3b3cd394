package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/kdm-dev/tubevault/internal/domain/model"
	"github.com/kdm-dev/tubevault/internal/domain/repository"
)

// VideoRepository implements repository.VideoRepository using PostgreSQL.
type VideoRepository struct {
	db DBTX
}

var _ repository.VideoRepository = (*VideoRepository)(nil)

// NewVideoRepository creates a new VideoRepository instance.
func NewVideoRepository(db DBTX) *VideoRepository {
	return &VideoRepository{db: db}
}

// Upsert persists a video, refreshing title and thumbnail for an already
// known content identifier.
func (r *VideoRepository) Upsert(ctx context.Context, video *model.Video) error {
	const query = `
		INSERT INTO videos (id, title, thumbnail_url, search_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET title = EXCLUDED.title, thumbnail_url = EXCLUDED.thumbnail_url
	`

	_, err := r.db.Exec(ctx, query,
		video.ID,
		video.Title,
		video.ThumbnailURL,
		video.SearchID,
		video.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert video: %w", err)
	}
	return nil
}

// GetByID retrieves a video by its upstream content identifier.
func (r *VideoRepository) GetByID(ctx context.Context, id string) (*model.Video, error) {
	const query = `
		SELECT id, title, thumbnail_url, search_id, created_at
		FROM videos
		WHERE id = $1
	`

	var video model.Video
	err := r.db.QueryRow(ctx, query, id).Scan(
		&video.ID,
		&video.Title,
		&video.ThumbnailURL,
		&video.SearchID,
		&video.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrVideoNotFound
		}
		return nil, fmt.Errorf("failed to get video by ID: %w", err)
	}
	return &video, nil
}

// UserVideoRepository implements repository.UserVideoRepository using
// PostgreSQL.
type UserVideoRepository struct {
	db DBTX
}

var _ repository.UserVideoRepository = (*UserVideoRepository)(nil)

// NewUserVideoRepository creates a new UserVideoRepository instance.
func NewUserVideoRepository(db DBTX) *UserVideoRepository {
	return &UserVideoRepository{db: db}
}

const userVideoColumns = `
	id, user_id, video_id, custom_title, notes, favorite,
	downloaded, download_date, download_path, download_quality, archive_key,
	created_at, updated_at
`

// Create saves a video into a user's library.
func (r *UserVideoRepository) Create(ctx context.Context, uv *model.UserVideo) error {
	const query = `
		INSERT INTO user_videos (` + userVideoColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.db.Exec(ctx, query,
		uv.ID,
		uv.UserID,
		uv.VideoID,
		uv.CustomTitle,
		uv.Notes,
		uv.Favorite,
		uv.Downloaded,
		uv.DownloadDate,
		nullString(uv.DownloadPath),
		nullString(uv.DownloadQuality),
		nullString(uv.ArchiveKey),
		uv.CreatedAt,
		uv.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return repository.ErrDuplicateUserVideo
		}
		return fmt.Errorf("failed to create user video: %w", err)
	}
	return nil
}

// GetByID retrieves a saved-video entry scoped to its owner.
func (r *UserVideoRepository) GetByID(ctx context.Context, id, userID uuid.UUID) (*model.UserVideo, error) {
	const query = `
		SELECT ` + userVideoColumns + `
		FROM user_videos
		WHERE id = $1 AND user_id = $2
	`

	uv, err := scanUserVideo(r.db.QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrUserVideoNotFound
		}
		return nil, fmt.Errorf("failed to get user video: %w", err)
	}
	return uv, nil
}

// GetByUserAndVideo retrieves a saved-video entry by owner and upstream
// content identifier.
func (r *UserVideoRepository) GetByUserAndVideo(ctx context.Context, userID uuid.UUID, videoID string) (*model.UserVideo, error) {
	const query = `
		SELECT ` + userVideoColumns + `
		FROM user_videos
		WHERE user_id = $1 AND video_id = $2
	`

	uv, err := scanUserVideo(r.db.QueryRow(ctx, query, userID, videoID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrUserVideoNotFound
		}
		return nil, fmt.Errorf("failed to get user video: %w", err)
	}
	return uv, nil
}

// ListByUser retrieves all of a user's saved videos, newest first.
func (r *UserVideoRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.UserVideo, error) {
	const query = `
		SELECT ` + userVideoColumns + `
		FROM user_videos
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query user videos: %w", err)
	}
	defer rows.Close()

	var videos []*model.UserVideo
	for rows.Next() {
		uv, err := scanUserVideo(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user video: %w", err)
		}
		videos = append(videos, uv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user videos: %w", err)
	}
	return videos, nil
}

// Update persists changes to a saved-video entry.
func (r *UserVideoRepository) Update(ctx context.Context, uv *model.UserVideo) error {
	const query = `
		UPDATE user_videos
		SET custom_title = $3, notes = $4, favorite = $5,
			downloaded = $6, download_date = $7, download_path = $8,
			download_quality = $9, archive_key = $10, updated_at = $11
		WHERE id = $1 AND user_id = $2
	`

	uv.UpdatedAt = time.Now()

	tag, err := r.db.Exec(ctx, query,
		uv.ID,
		uv.UserID,
		uv.CustomTitle,
		uv.Notes,
		uv.Favorite,
		uv.Downloaded,
		uv.DownloadDate,
		nullString(uv.DownloadPath),
		nullString(uv.DownloadQuality),
		nullString(uv.ArchiveKey),
		uv.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update user video: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrUserVideoNotFound
	}
	return nil
}

// Delete removes a saved-video entry scoped to its owner.
func (r *UserVideoRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	const query = `
		DELETE FROM user_videos
		WHERE id = $1 AND user_id = $2
	`

	tag, err := r.db.Exec(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete user video: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrUserVideoNotFound
	}
	return nil
}

func scanUserVideo(row pgx.Row) (*model.UserVideo, error) {
	var (
		uv              model.UserVideo
		downloadPath    *string
		downloadQuality *string
		archiveKey      *string
	)

	err := row.Scan(
		&uv.ID,
		&uv.UserID,
		&uv.VideoID,
		&uv.CustomTitle,
		&uv.Notes,
		&uv.Favorite,
		&uv.Downloaded,
		&uv.DownloadDate,
		&downloadPath,
		&downloadQuality,
		&archiveKey,
		&uv.CreatedAt,
		&uv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if downloadPath != nil {
		uv.DownloadPath = *downloadPath
	}
	if downloadQuality != nil {
		uv.DownloadQuality = *downloadQuality
	}
	if archiveKey != nil {
		uv.ArchiveKey = *archiveKey
	}
	return &uv, nil
}

// nullString returns nil for empty strings, otherwise a pointer to the
// string.
func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
