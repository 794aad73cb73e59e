package server

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-telegram/bot/models"

	"github.com/anthropics/recap-bot/internal/biz/domain"
	"github.com/anthropics/recap-bot/internal/biz/usecase"
	"github.com/anthropics/recap-bot/internal/infra/telegram"
	"github.com/anthropics/recap-bot/internal/service"
)

// TelegramServer handles Telegram update processing: buffering inbound
// conversation and serving the /recap command.
type TelegramServer struct {
	client   *telegram.Client
	bufferUC *usecase.BufferUsecase
	recapSvc *service.RecapService

	paymentsEnabled bool
	defaultLookback int

	// Update deduplication cache
	seenMu   sync.Mutex
	seenUpds map[int64]time.Time
}

// NewTelegramServer creates a new Telegram server
func NewTelegramServer(
	client *telegram.Client,
	bufferUC *usecase.BufferUsecase,
	recapSvc *service.RecapService,
	paymentsEnabled bool,
	defaultLookback int,
) *TelegramServer {
	return &TelegramServer{
		client:          client,
		bufferUC:        bufferUC,
		recapSvc:        recapSvc,
		paymentsEnabled: paymentsEnabled,
		defaultLookback: defaultLookback,
		seenUpds:        make(map[int64]time.Time),
	}
}

// Start sets the update handler and begins long polling
func (s *TelegramServer) Start(ctx context.Context) {
	s.client.OnUpdate(s.handleUpdate)
	s.client.Start(ctx)
}

// Stop stops the underlying client
func (s *TelegramServer) Stop() {
	s.client.Stop()
}

func (s *TelegramServer) handleUpdate(ctx context.Context, upd *models.Update) {
	if s.isSeen(upd.ID) {
		return
	}
	s.markSeen(upd.ID)

	if upd.MessageReaction != nil {
		r := upd.MessageReaction
		chatID := telegram.FormatChatID(r.Chat.ID)
		msgID := strconv.Itoa(r.MessageID)
		if err := s.bufferUC.HandleReaction(ctx, chatID, msgID, len(r.NewReaction)); err != nil {
			fmt.Printf("[Telegram] Reaction update failed: %v\n", err)
		}
		return
	}

	if upd.Message == nil {
		return
	}

	msg := upd.Message
	chatID := telegram.FormatChatID(msg.Chat.ID)

	if cmd, args, ok := parseCommand(msg.Text); ok {
		if cmd == "recap" {
			s.handleRecapCommand(ctx, chatID, args)
		}
		return
	}

	if msg.From != nil && msg.From.IsBot {
		return
	}

	stored := domain.StoredMessage{
		MsgID:         strconv.Itoa(msg.ID),
		Text:          msg.Text,
		Timestamp:     time.Unix(int64(msg.Date), 0),
		AuthorDisplay: telegram.DisplayName(msg.From),
	}
	if msg.From != nil {
		stored.AuthorID = strconv.FormatInt(msg.From.ID, 10)
	}
	if msg.ReplyToMessage != nil {
		stored.ReplyToID = strconv.Itoa(msg.ReplyToMessage.ID)
	}

	if _, err := s.bufferUC.HandleInbound(ctx, chatID, stored); err != nil {
		fmt.Printf("[Telegram] Buffer append failed: %v\n", err)
	}
}

// handleRecapCommand serves "/recap [minutes]". With payments enabled the
// chat gets a challenge message; otherwise the summary is produced
// directly.
func (s *TelegramServer) handleRecapCommand(ctx context.Context, chatID, args string) {
	minutes := s.defaultLookback
	if args != "" {
		if parsed, err := strconv.Atoi(strings.Fields(args)[0]); err == nil && parsed > 0 {
			minutes = parsed
		}
	}
	window := domain.WindowDescriptor{LookbackMinutes: minutes}

	if !s.paymentsEnabled {
		text, err := s.recapSvc.SummarizeNow(ctx, domain.PlatformTelegram, chatID, window)
		if err != nil {
			fmt.Printf("[Telegram] Summary failed: %v\n", err)
			s.reply(ctx, chatID, "Sorry, the summary failed. Try again in a bit.")
			return
		}
		s.reply(ctx, chatID, text)
		return
	}

	challenge, err := s.recapSvc.RequestSummary(ctx, domain.PlatformTelegram, chatID, window)
	if err != nil {
		fmt.Printf("[Telegram] Challenge failed: %v\n", err)
		s.reply(ctx, chatID, "Sorry, could not start a paid summary right now.")
		return
	}

	s.reply(ctx, chatID, fmt.Sprintf(
		"A recap of %s costs %s %s.\nPay to %s on %s, then settle with token:\n%s\nThe token expires at %s.",
		window.Phrase(), challenge.Amount, challenge.Currency,
		challenge.PayTo, challenge.Network, challenge.Token,
		challenge.ExpiresAt.Format(time.RFC3339),
	))
}

func (s *TelegramServer) reply(ctx context.Context, chatID, text string) {
	id, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return
	}
	if err := s.client.SendMessage(ctx, id, text); err != nil {
		fmt.Printf("[Telegram] Send failed: %v\n", err)
	}
}

// parseCommand splits "/recap 90" or "/recap@RecapBot 90" into name and args
func parseCommand(text string) (cmd, args string, ok bool) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return "", "", false
	}
	head, rest, _ := strings.Cut(text[1:], " ")
	head, _, _ = strings.Cut(head, "@")
	if head == "" {
		return "", "", false
	}
	return strings.ToLower(head), strings.TrimSpace(rest), true
}

func (s *TelegramServer) isSeen(updateID int64) bool {
	s.seenMu.Lock()
	defer s.seenMu.Unlock()

	// Opportunistic cleanup keeps the cache bounded
	if len(s.seenUpds) > 4096 {
		cutoff := time.Now().Add(-time.Hour)
		for id, seen := range s.seenUpds {
			if seen.Before(cutoff) {
				delete(s.seenUpds, id)
			}
		}
	}

	_, ok := s.seenUpds[updateID]
	return ok
}

func (s *TelegramServer) markSeen(updateID int64) {
	s.seenMu.Lock()
	defer s.seenMu.Unlock()
	s.seenUpds[updateID] = time.Now()
}
