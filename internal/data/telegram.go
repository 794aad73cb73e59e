package data

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/anthropics/recap-bot/internal/biz/domain"
	"github.com/anthropics/recap-bot/internal/biz/repo"
	"github.com/anthropics/recap-bot/internal/infra/telegram"
)

// ErrRangeUnsupported is returned for explicit message-range queries on
// Telegram; the Bot API exposes no history endpoint, so only the buffered
// window is reachable.
var ErrRangeUnsupported = errors.New("telegram: message-range queries are not supported")

// telegramMessageRepo adapts the Telegram client plus the short-term buffer
// to the message repository interface. The buffer is the only source of
// history on Telegram.
type telegramMessageRepo struct {
	client *telegram.Client
	store  repo.ConversationStore
}

// NewTelegramMessageRepo creates a buffer-backed Telegram message repository
func NewTelegramMessageRepo(client *telegram.Client, store repo.ConversationStore) repo.MessageRepo {
	return &telegramMessageRepo{client: client, store: store}
}

func (r *telegramMessageRepo) FetchSince(ctx context.Context, chatID string, since time.Time) ([]domain.Message, error) {
	stored, err := r.store.QueryWithin(ctx, chatID, since)
	if err != nil {
		return nil, err
	}
	msgs := make([]domain.Message, 0, len(stored))
	for _, s := range stored {
		msgs = append(msgs, s.ToMessage())
	}
	return msgs, nil
}

func (r *telegramMessageRepo) FetchRange(ctx context.Context, chatID, fromID, toID string) ([]domain.Message, error) {
	return nil, ErrRangeUnsupported
}

func (r *telegramMessageRepo) GetChatInfo(ctx context.Context, chatID string) (*repo.ChatInfo, error) {
	id, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return nil, err
	}
	chat, err := r.client.GetChat(ctx, id)
	if err != nil {
		return nil, err
	}
	return &repo.ChatInfo{ChatID: chatID, Name: chat.Title, Platform: domain.PlatformTelegram}, nil
}

func (r *telegramMessageRepo) SendText(ctx context.Context, chatID, text string) error {
	id, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return err
	}
	return r.client.SendMessage(ctx, id, text)
}
