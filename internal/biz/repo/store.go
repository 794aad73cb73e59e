package repo

import (
	"context"
	"time"

	"github.com/anthropics/recap-bot/internal/biz/domain"
)

// ConversationStore is the short-term message buffer interface.
// State is process-lifetime unless an implementation says otherwise.
type ConversationStore interface {
	// Append adds a message to a conversation's buffer and applies the
	// trim policy (rolling age window plus max count).
	Append(ctx context.Context, chatID string, msg domain.StoredMessage) error

	// QueryWithin returns buffered messages newer than since, oldest first
	QueryWithin(ctx context.Context, chatID string, since time.Time) ([]domain.StoredMessage, error)

	// UpdateReactions mutates the reaction count of a buffered message in
	// place. Unknown message IDs are ignored.
	UpdateReactions(ctx context.Context, chatID, msgID string, count int) error

	// Trim applies the trim policy to every conversation
	Trim(ctx context.Context, now time.Time) error

	// Stats returns the buffered message count per chat ID
	Stats(ctx context.Context) (map[string]int, error)
}

// PendingCallbackStore correlates payment tokens with chat destinations.
// Tokens are single-use; TakeOnce removes the entry it returns.
type PendingCallbackStore interface {
	// Put stores a callback, replacing any live entry with the same token
	Put(ctx context.Context, cb *domain.PendingCallback) error

	// TakeOnce returns and deletes the callback for token.
	// Returns nil (no error) when the token is unknown or already taken.
	TakeOnce(ctx context.Context, token string) (*domain.PendingCallback, error)

	// SweepExpired deletes entries whose deadline has passed, returning the
	// number removed.
	SweepExpired(ctx context.Context, now time.Time) (int64, error)

	Close() error
}
