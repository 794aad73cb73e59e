package domain

import "time"

// Platform identifies the chat platform a request came from
type Platform string

const (
	PlatformDiscord  Platform = "discord"
	PlatformTelegram Platform = "telegram"
)

// PendingCallback correlates an issued payment challenge with the chat
// destination that requested a summary. Tokens are single-use: an entry is
// looked up and deleted exactly once when settlement arrives, or reaped by
// the background sweep once ExpiresAt has passed.
type PendingCallback struct {
	Token        string
	Platform     Platform
	ChatID       string
	Window       WindowDescriptor
	PaymentMsgID string
	CreatedAt    time.Time
	ExpiresAt    time.Time
}

// IsExpired checks whether the callback is past its deadline
func (p *PendingCallback) IsExpired(now time.Time) bool {
	return now.After(p.ExpiresAt)
}
