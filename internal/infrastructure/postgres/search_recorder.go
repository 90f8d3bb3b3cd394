package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/kdm-dev/tubevault/internal/domain/model"
)

// TxStarter opens transactions. *pgxpool.Pool satisfies this interface.
type TxStarter interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// SearchRecorder persists the side effects of a completed search: the
// history entry and every discovered video, in one transaction so the
// catalog never references a search that was not recorded.
type SearchRecorder struct {
	db TxStarter
}

// NewSearchRecorder creates a new SearchRecorder instance.
func NewSearchRecorder(db TxStarter) *SearchRecorder {
	return &SearchRecorder{db: db}
}

// RecordSearch stores a history entry and upserts the videos it surfaced.
// Any failure rolls the whole record back.
func (r *SearchRecorder) RecordSearch(ctx context.Context, entry *model.SearchHistory, videos []*model.Video) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const historyQuery = `
		INSERT INTO search_history (id, query, search_type, results_count, user_id, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err = tx.Exec(ctx, historyQuery,
		entry.ID,
		entry.Query,
		entry.SearchType.String(),
		entry.ResultsCount,
		entry.UserID,
		entry.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to insert search history: %w", err)
	}

	const videoQuery = `
		INSERT INTO videos (id, title, thumbnail_url, search_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET title = EXCLUDED.title, thumbnail_url = EXCLUDED.thumbnail_url
	`
	for _, video := range videos {
		video.SearchID = &entry.ID
		_, err = tx.Exec(ctx, videoQuery,
			video.ID,
			video.Title,
			video.ThumbnailURL,
			video.SearchID,
			video.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert video %s: %w", video.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit search record: %w", err)
	}
	return nil
}
