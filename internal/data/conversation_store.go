package data

import (
	"context"
	"sync"
	"time"

	"github.com/anthropics/recap-bot/internal/biz/domain"
	"github.com/anthropics/recap-bot/internal/biz/repo"
)

// Buffer trim policy: a conversation keeps at most maxBufferedMessages
// covering at most maxBufferAge, applied on every insert.
const (
	maxBufferedMessages = 1000
	maxBufferAge        = 24 * time.Hour
)

// conversationStore is the in-memory short-term message buffer.
// Entirely volatile; lost on process restart.
type conversationStore struct {
	mu    sync.Mutex
	chats map[string][]domain.StoredMessage
}

// NewConversationStore creates an in-memory conversation store
func NewConversationStore() repo.ConversationStore {
	return &conversationStore{chats: make(map[string][]domain.StoredMessage)}
}

// Append adds a message and trims the conversation to the rolling window
func (s *conversationStore) Append(ctx context.Context, chatID string, msg domain.StoredMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	buf := append(s.chats[chatID], msg)
	s.chats[chatID] = trimBuffer(buf, msg.Timestamp)
	return nil
}

// QueryWithin returns messages newer than since, oldest first
func (s *conversationStore) QueryWithin(ctx context.Context, chatID string, since time.Time) ([]domain.StoredMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []domain.StoredMessage
	for _, m := range s.chats[chatID] {
		if m.Timestamp.After(since) {
			result = append(result, m)
		}
	}
	return result, nil
}

// UpdateReactions mutates a buffered message's reaction count in place.
// Unknown message IDs are ignored.
func (s *conversationStore) UpdateReactions(ctx context.Context, chatID, msgID string, count int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	buf := s.chats[chatID]
	for i := range buf {
		if buf[i].MsgID == msgID {
			buf[i].ReactionCount = count
			return nil
		}
	}
	return nil
}

// Trim applies the trim policy to every conversation
func (s *conversationStore) Trim(ctx context.Context, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for chatID, buf := range s.chats {
		trimmed := trimBuffer(buf, now)
		if len(trimmed) == 0 {
			delete(s.chats, chatID)
			continue
		}
		s.chats[chatID] = trimmed
	}
	return nil
}

// Stats returns the buffered message count per chat ID
func (s *conversationStore) Stats(ctx context.Context) (map[string]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := make(map[string]int, len(s.chats))
	for chatID, buf := range s.chats {
		stats[chatID] = len(buf)
	}
	return stats, nil
}

// trimBuffer drops messages older than the rolling age window, then cuts the
// buffer down to the max count (oldest first)
func trimBuffer(buf []domain.StoredMessage, now time.Time) []domain.StoredMessage {
	cutoff := now.Add(-maxBufferAge)

	firstKept := 0
	for firstKept < len(buf) && !buf[firstKept].Timestamp.After(cutoff) {
		firstKept++
	}
	buf = buf[firstKept:]

	if len(buf) > maxBufferedMessages {
		buf = buf[len(buf)-maxBufferedMessages:]
	}
	return buf
}
