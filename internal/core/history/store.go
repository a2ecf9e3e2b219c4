// Package history reads a user's recently consumed content.
package history

import (
	"context"

	"media-tracker/internal/pkg/common"
)

// Store reads consumption history for a user. Implementations return items
// newest first; a user with no history yields an empty slice, not an error.
type Store interface {
	// Recent returns up to limit items of the given type. An empty
	// contentType reads across all types.
	Recent(ctx context.Context, userID string, contentType common.ContentType, limit int) ([]common.HistoryItem, error)
}
