package data

import (
	"context"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/anthropics/recap-bot/internal/biz/domain"
	"github.com/anthropics/recap-bot/internal/biz/repo"
	"github.com/anthropics/recap-bot/internal/infra/discord"
)

// discordMessageRepo adapts the Discord client to the message repository
// interface. History is fetched live from the API; the local buffer is not
// consulted for Discord.
type discordMessageRepo struct {
	client *discord.Client
}

// NewDiscordMessageRepo creates a Discord-backed message repository
func NewDiscordMessageRepo(client *discord.Client) repo.MessageRepo {
	return &discordMessageRepo{client: client}
}

func (r *discordMessageRepo) FetchSince(ctx context.Context, chatID string, since time.Time) ([]domain.Message, error) {
	msgs, err := r.client.GetMessagesSince(ctx, chatID, since)
	if err != nil {
		return nil, err
	}
	return convertDiscordMessages(msgs), nil
}

func (r *discordMessageRepo) FetchRange(ctx context.Context, chatID, fromID, toID string) ([]domain.Message, error) {
	msgs, err := r.client.GetMessagesBetween(ctx, chatID, fromID, toID)
	if err != nil {
		return nil, err
	}
	return convertDiscordMessages(msgs), nil
}

func (r *discordMessageRepo) GetChatInfo(ctx context.Context, chatID string) (*repo.ChatInfo, error) {
	ch, err := r.client.GetChannel(ctx, chatID)
	if err != nil {
		return nil, err
	}
	return &repo.ChatInfo{ChatID: ch.ID, Name: ch.Name, Platform: domain.PlatformDiscord}, nil
}

func (r *discordMessageRepo) SendText(ctx context.Context, chatID, text string) error {
	return r.client.CreateMessage(ctx, chatID, text)
}

func convertDiscordMessages(msgs []*discordgo.Message) []domain.Message {
	out := make([]domain.Message, 0, len(msgs))
	for _, m := range msgs {
		if m == nil {
			continue
		}

		var attachments []string
		for _, a := range m.Attachments {
			attachments = append(attachments, a.Filename)
		}

		var replyTo string
		if m.MessageReference != nil {
			replyTo = m.MessageReference.MessageID
		}

		out = append(out, domain.Message{
			ID:          m.ID,
			Timestamp:   m.Timestamp,
			Author:      discordAuthor(m),
			Text:        m.Content,
			ReplyToID:   replyTo,
			Attachments: attachments,
			Reactions:   totalReactions(m),
		})
	}
	return out
}

// discordAuthor resolves attribution names: server nickname wins over the
// global display name, the username is the stable fallback
func discordAuthor(m *discordgo.Message) domain.Author {
	var author domain.Author
	if m.Member != nil && m.Member.Nick != "" {
		author.DisplayName = m.Member.Nick
	}
	if m.Author == nil {
		return author
	}
	author.ID = m.Author.ID
	author.Username = m.Author.Username
	if author.DisplayName == "" {
		author.DisplayName = m.Author.GlobalName
	}
	return author
}

func totalReactions(m *discordgo.Message) int {
	total := 0
	for _, r := range m.Reactions {
		if r != nil {
			total += r.Count
		}
	}
	return total
}
