package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/kdm-dev/tubevault/internal/domain/model"
)

// SearchHistoryRepository persists the record of executed searches.
// Recording is best-effort for callers: a failed write must not fail the
// search that triggered it.
type SearchHistoryRepository interface {
	// Create persists one search history entry.
	Create(ctx context.Context, entry *model.SearchHistory) error

	// ListByUser retrieves a user's search history, newest first, capped
	// at limit entries.
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*model.SearchHistory, error)

	// Delete removes a single history entry scoped to its owner.
	// Returns ErrHistoryNotFound if the entry does not exist.
	Delete(ctx context.Context, id, userID uuid.UUID) error

	// ClearByUser removes all history entries for a user.
	ClearByUser(ctx context.Context, userID uuid.UUID) error
}
