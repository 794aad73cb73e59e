package discord

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
)

const (
	pageSize = 100
	// maxHistoryPages caps backfill cost per request; a window that needs
	// more than ~1000 messages is summarized from what fits.
	maxHistoryPages = 10
)

// api is the slice of the discordgo session the client needs. Tests
// substitute a fake.
type api interface {
	ChannelMessages(channelID string, limit int, beforeID, afterID, aroundID string, options ...discordgo.RequestOption) ([]*discordgo.Message, error)
	ChannelMessage(channelID, messageID string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageSend(channelID, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	Channel(channelID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
}

// Client wraps a discordgo session with the history paging the summary
// window needs. Only the REST surface is used; no gateway connection is
// opened.
type Client struct {
	session api
}

// NewClient creates a Discord client authenticating as a bot
func NewClient(token string) (*Client, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	return &Client{session: session}, nil
}

// GetMessagesSince pages backwards through channel history until it passes
// the cutoff or hits the page cap. Messages are returned oldest first.
func (c *Client) GetMessagesSince(ctx context.Context, channelID string, since time.Time) ([]*discordgo.Message, error) {
	var collected []*discordgo.Message
	before := ""

	for page := 0; page < maxHistoryPages; page++ {
		batch, err := c.session.ChannelMessages(channelID, pageSize, before, "", "", discordgo.WithContext(ctx))
		if err != nil {
			return nil, fmt.Errorf("fetch channel history: %w", err)
		}
		if len(batch) == 0 {
			break
		}

		// The API returns newest first
		done := false
		for _, m := range batch {
			if m.Timestamp.Before(since) {
				done = true
				break
			}
			collected = append(collected, m)
		}
		if done || len(batch) < pageSize {
			break
		}
		before = batch[len(batch)-1].ID
	}

	reverse(collected)
	return collected, nil
}

// GetMessagesBetween pages forward from fromID until toID or the page cap.
// Both markers are included: the "after" cursor excludes its own message,
// so the start message is fetched explicitly first.
func (c *Client) GetMessagesBetween(ctx context.Context, channelID, fromID, toID string) ([]*discordgo.Message, error) {
	start, err := c.session.ChannelMessage(channelID, fromID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("fetch range start: %w", err)
	}
	collected := []*discordgo.Message{start}
	if fromID == toID {
		return collected, nil
	}

	after := fromID
	for page := 0; page < maxHistoryPages; page++ {
		batch, err := c.session.ChannelMessages(channelID, pageSize, "", after, "", discordgo.WithContext(ctx))
		if err != nil {
			return nil, fmt.Errorf("fetch channel history: %w", err)
		}
		if len(batch) == 0 {
			break
		}

		// With "after", the API still returns newest first within the page
		reverse(batch)

		done := false
		for _, m := range batch {
			collected = append(collected, m)
			if m.ID == toID {
				done = true
				break
			}
		}
		if done || len(batch) < pageSize {
			break
		}
		after = collected[len(collected)-1].ID
	}

	return collected, nil
}

// GetChannel fetches channel metadata
func (c *Client) GetChannel(ctx context.Context, channelID string) (*discordgo.Channel, error) {
	ch, err := c.session.Channel(channelID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("fetch channel: %w", err)
	}
	return ch, nil
}

// CreateMessage posts a text message to a channel
func (c *Client) CreateMessage(ctx context.Context, channelID, content string) error {
	if _, err := c.session.ChannelMessageSend(channelID, content, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("send channel message: %w", err)
	}
	return nil
}

func reverse(msgs []*discordgo.Message) {
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
}
