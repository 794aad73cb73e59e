package repo

import (
	"context"
	"time"

	"github.com/anthropics/recap-bot/internal/biz/domain"
)

// ChatInfo represents basic chat/channel information
type ChatInfo struct {
	ChatID   string
	Name     string
	Platform domain.Platform
}

// MessageRepo is the platform message repository interface.
// Responsible for fetching message data from the chat platform API
// and delivering the final summary text back to the chat.
type MessageRepo interface {
	// FetchSince fetches messages newer than the given time, oldest first.
	// Implementations page backwards through platform history and must stop
	// at the page cap even if the window is not exhausted.
	FetchSince(ctx context.Context, chatID string, since time.Time) ([]domain.Message, error)

	// FetchRange fetches messages between two message markers, inclusive
	FetchRange(ctx context.Context, chatID, fromID, toID string) ([]domain.Message, error)

	// GetChatInfo gets chat information
	GetChatInfo(ctx context.Context, chatID string) (*ChatInfo, error)

	// SendText sends a text message to the chat
	SendText(ctx context.Context, chatID, text string) error
}
