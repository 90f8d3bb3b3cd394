package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/kdm-dev/tubevault/internal/domain/model"
	"github.com/kdm-dev/tubevault/internal/domain/repository"
)

// SearchHistoryRepository implements repository.SearchHistoryRepository
// using PostgreSQL.
type SearchHistoryRepository struct {
	db DBTX
}

var _ repository.SearchHistoryRepository = (*SearchHistoryRepository)(nil)

// NewSearchHistoryRepository creates a new SearchHistoryRepository
// instance.
func NewSearchHistoryRepository(db DBTX) *SearchHistoryRepository {
	return &SearchHistoryRepository{db: db}
}

// Create persists one search history entry.
func (r *SearchHistoryRepository) Create(ctx context.Context, entry *model.SearchHistory) error {
	const query = `
		INSERT INTO search_history (id, query, search_type, results_count, user_id, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(ctx, query,
		entry.ID,
		entry.Query,
		entry.SearchType.String(),
		entry.ResultsCount,
		entry.UserID,
		entry.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to create search history: %w", err)
	}
	return nil
}

// ListByUser retrieves a user's search history, newest first.
func (r *SearchHistoryRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*model.SearchHistory, error) {
	const query = `
		SELECT id, query, search_type, results_count, user_id, timestamp
		FROM search_history
		WHERE user_id = $1
		ORDER BY timestamp DESC
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query search history: %w", err)
	}
	defer rows.Close()

	var entries []*model.SearchHistory
	for rows.Next() {
		var (
			entry      model.SearchHistory
			searchType string
		)
		err := rows.Scan(
			&entry.ID,
			&entry.Query,
			&searchType,
			&entry.ResultsCount,
			&entry.UserID,
			&entry.Timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan search history: %w", err)
		}
		entry.SearchType = model.SearchType(searchType)
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating search history: %w", err)
	}
	return entries, nil
}

// Delete removes a single history entry scoped to its owner.
func (r *SearchHistoryRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	const query = `
		DELETE FROM search_history
		WHERE id = $1 AND user_id = $2
	`

	tag, err := r.db.Exec(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete search history: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrHistoryNotFound
	}
	return nil
}

// ClearByUser removes all history entries for a user.
func (r *SearchHistoryRepository) ClearByUser(ctx context.Context, userID uuid.UUID) error {
	const query = `
		DELETE FROM search_history
		WHERE user_id = $1
	`

	if _, err := r.db.Exec(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to clear search history: %w", err)
	}
	return nil
}
