package telegram

import (
	"context"
	"fmt"
	"strconv"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// UpdateHandler is the callback for received updates
type UpdateHandler func(ctx context.Context, upd *models.Update)

// Client wraps the Bot API library's long-poll loop behind an explicit
// start/stop lifecycle
type Client struct {
	bot     *bot.Bot
	handler UpdateHandler

	cancel context.CancelFunc
	done   chan struct{}
}

// NewClient creates a Telegram client. Reaction updates have to be asked
// for; the default update set omits them.
func NewClient(token string, opts ...bot.Option) (*Client, error) {
	c := &Client{}

	options := append([]bot.Option{
		bot.WithDefaultHandler(c.dispatch),
		bot.WithAllowedUpdates(bot.AllowedUpdates{"message", "message_reaction"}),
	}, opts...)

	b, err := bot.New(token, options...)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	c.bot = b
	return c, nil
}

// OnUpdate sets the update handler. Must be called before Start.
func (c *Client) OnUpdate(handler UpdateHandler) {
	c.handler = handler
}

func (c *Client) dispatch(ctx context.Context, _ *bot.Bot, upd *models.Update) {
	if c.handler != nil {
		c.handler(ctx, upd)
	}
}

// Start begins the long-poll loop in a background goroutine
func (c *Client) Start(ctx context.Context) {
	ctx, c.cancel = context.WithCancel(ctx)
	c.done = make(chan struct{})

	go func() {
		defer close(c.done)
		c.bot.Start(ctx)
	}()
	fmt.Println("[Telegram] Long-poll loop started")
}

// Stop halts the poll loop and waits for it to exit
func (c *Client) Stop() {
	if c.cancel != nil {
		c.cancel()
	}
	if c.done != nil {
		<-c.done
	}
	fmt.Println("[Telegram] Stopped")
}

// SendMessage sends a text message to a chat
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string) error {
	_, err := c.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		return fmt.Errorf("telegram sendMessage: %w", err)
	}
	return nil
}

// GetChat fetches chat metadata
func (c *Client) GetChat(ctx context.Context, chatID int64) (*models.ChatFullInfo, error) {
	chat, err := c.bot.GetChat(ctx, &bot.GetChatParams{ChatID: chatID})
	if err != nil {
		return nil, fmt.Errorf("telegram getChat: %w", err)
	}
	return chat, nil
}

// DisplayName joins a user's first and last name
func DisplayName(u *models.User) string {
	if u == nil {
		return ""
	}
	if u.LastName != "" {
		return u.FirstName + " " + u.LastName
	}
	return u.FirstName
}

// FormatChatID renders a chat ID the way the store keys conversations
func FormatChatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
