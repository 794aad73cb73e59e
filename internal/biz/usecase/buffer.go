package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/anthropics/recap-bot/internal/biz/domain"
	"github.com/anthropics/recap-bot/internal/biz/repo"
)

// BufferUsecase routes inbound platform messages into the short-term
// conversation buffer. Commands addressed to the bot are not buffered; they
// are requests, not conversation.
type BufferUsecase struct {
	store repo.ConversationStore
}

// NewBufferUsecase creates a new buffer usecase
func NewBufferUsecase(store repo.ConversationStore) *BufferUsecase {
	return &BufferUsecase{store: store}
}

// IsCommand reports whether a message is a bot command rather than
// conversation
func IsCommand(text string) bool {
	return strings.HasPrefix(strings.TrimSpace(text), "/")
}

// HandleInbound buffers a non-command message. Command messages are ignored
// and return false.
func (uc *BufferUsecase) HandleInbound(ctx context.Context, chatID string, msg domain.StoredMessage) (bool, error) {
	if IsCommand(msg.Text) {
		return false, nil
	}
	if err := uc.store.Append(ctx, chatID, msg); err != nil {
		return false, err
	}
	return true, nil
}

// HandleReaction updates the reaction count of an already-buffered message
func (uc *BufferUsecase) HandleReaction(ctx context.Context, chatID, msgID string, count int) error {
	return uc.store.UpdateReactions(ctx, chatID, msgID, count)
}

// QueryWindow returns buffered messages within the lookback window,
// converted for the summary pipeline
func (uc *BufferUsecase) QueryWindow(ctx context.Context, chatID string, since time.Time) ([]domain.Message, error) {
	stored, err := uc.store.QueryWithin(ctx, chatID, since)
	if err != nil {
		return nil, err
	}
	msgs := make([]domain.Message, 0, len(stored))
	for _, s := range stored {
		msgs = append(msgs, s.ToMessage())
	}
	return msgs, nil
}
