package data

import (
	"github.com/anthropics/recap-bot/internal/biz/repo"
	"github.com/anthropics/recap-bot/internal/infra/discord"
	"github.com/anthropics/recap-bot/internal/infra/openai"
	"github.com/anthropics/recap-bot/internal/infra/telegram"
)

// Repositories contains all repository implementations
type Repositories struct {
	Discord    repo.MessageRepo // nil when Discord is not configured
	Telegram   repo.MessageRepo // nil when Telegram is not configured
	Summarizer repo.SummarizerRepo
	Store      repo.ConversationStore
	Callbacks  repo.PendingCallbackStore
}

// NewRepositories wires repository implementations from infrastructure
// clients. callbackDBPath selects the SQLite-backed pending-callback store;
// empty keeps callbacks in memory.
func NewRepositories(
	discordClient *discord.Client,
	telegramClient *telegram.Client,
	openaiClient *openai.Client,
	callbackDBPath string,
) (*Repositories, error) {
	store := NewConversationStore()

	callbacks := NewCallbackStore()
	if callbackDBPath != "" {
		var err error
		callbacks, err = NewSQLiteCallbackStore(callbackDBPath)
		if err != nil {
			return nil, err
		}
	}

	repos := &Repositories{
		Summarizer: NewSummarizerRepo(openaiClient),
		Store:      store,
		Callbacks:  callbacks,
	}
	if discordClient != nil {
		repos.Discord = NewDiscordMessageRepo(discordClient)
	}
	if telegramClient != nil {
		repos.Telegram = NewTelegramMessageRepo(telegramClient, store)
	}
	return repos, nil
}

// MessageRepoFor returns the message repository for a platform, or nil
func (r *Repositories) MessageRepoFor(platform string) repo.MessageRepo {
	switch platform {
	case "discord":
		return r.Discord
	case "telegram":
		return r.Telegram
	}
	return nil
}

// Close releases store resources
func (r *Repositories) Close() error {
	if r.Callbacks != nil {
		return r.Callbacks.Close()
	}
	return nil
}
