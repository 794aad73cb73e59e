package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/anthropics/recap-bot/internal/biz/domain"
	"github.com/anthropics/recap-bot/internal/biz/repo"
	"github.com/anthropics/recap-bot/internal/biz/usecase"
)

var (
	// ErrUnknownToken covers unknown, already-settled, and swept tokens
	// alike; the caller cannot distinguish them and should not retry.
	ErrUnknownToken = errors.New("unknown or already-settled payment token")

	// ErrPlatformUnavailable means the requested platform is not configured
	ErrPlatformUnavailable = errors.New("platform not configured")
)

// PriceConfig describes the per-summary charge
type PriceConfig struct {
	Amount   string // Decimal string, e.g. "0.25"
	Currency string // e.g. "USDC"
	PayTo    string // Receiving address
	Network  string // e.g. "base"
}

// PaymentChallenge is what a requester must satisfy before a summary is
// produced
type PaymentChallenge struct {
	Token     string    `json:"token"`
	Amount    string    `json:"amount"`
	Currency  string    `json:"currency"`
	PayTo     string    `json:"pay_to"`
	Network   string    `json:"network"`
	ExpiresAt time.Time `json:"expires_at"`
}

// RecapService glues payment correlation to the summary orchestrator and
// the platform delivery adapters.
type RecapService struct {
	summaries map[domain.Platform]*usecase.SummaryUsecase
	senders   map[domain.Platform]repo.MessageRepo
	callbacks repo.PendingCallbackStore
	price     PriceConfig
	tokenTTL  time.Duration
	now       func() time.Time
}

// NewRecapService creates the recap delivery service
func NewRecapService(callbacks repo.PendingCallbackStore, price PriceConfig, tokenTTL time.Duration) *RecapService {
	if tokenTTL <= 0 {
		tokenTTL = 15 * time.Minute
	}
	return &RecapService{
		summaries: make(map[domain.Platform]*usecase.SummaryUsecase),
		senders:   make(map[domain.Platform]repo.MessageRepo),
		callbacks: callbacks,
		price:     price,
		tokenTTL:  tokenTTL,
		now:       time.Now,
	}
}

// RegisterPlatform attaches a summary usecase and delivery repo for a
// platform
func (s *RecapService) RegisterPlatform(platform domain.Platform, summaryUC *usecase.SummaryUsecase, sender repo.MessageRepo) {
	s.summaries[platform] = summaryUC
	s.senders[platform] = sender
}

// HasPlatform reports whether a platform was registered
func (s *RecapService) HasPlatform(platform domain.Platform) bool {
	_, ok := s.summaries[platform]
	return ok
}

// RequestSummary issues a payment challenge and stores the pending callback
// correlating its token with the chat destination
func (s *RecapService) RequestSummary(ctx context.Context, platform domain.Platform, chatID string, window domain.WindowDescriptor) (*PaymentChallenge, error) {
	if !s.HasPlatform(platform) {
		return nil, ErrPlatformUnavailable
	}

	now := s.now()
	cb := &domain.PendingCallback{
		Token:     uuid.NewString(),
		Platform:  platform,
		ChatID:    chatID,
		Window:    window,
		CreatedAt: now,
		ExpiresAt: now.Add(s.tokenTTL),
	}
	if err := s.callbacks.Put(ctx, cb); err != nil {
		return nil, fmt.Errorf("store pending callback: %w", err)
	}

	fmt.Printf("[Recap] Payment challenge issued: token=%s chat=%s window=%s\n",
		cb.Token, chatID, window.Phrase())

	return &PaymentChallenge{
		Token:     cb.Token,
		Amount:    s.price.Amount,
		Currency:  s.price.Currency,
		PayTo:     s.price.PayTo,
		Network:   s.price.Network,
		ExpiresAt: cb.ExpiresAt,
	}, nil
}

// Settle consumes a settled payment token exactly once, produces the
// summary, and delivers it to the originating chat. The final text is also
// returned so HTTP callers get it in the response body.
func (s *RecapService) Settle(ctx context.Context, token string) (string, error) {
	cb, err := s.callbacks.TakeOnce(ctx, token)
	if err != nil {
		return "", fmt.Errorf("take callback: %w", err)
	}
	if cb == nil {
		return "", ErrUnknownToken
	}
	if cb.IsExpired(s.now()) {
		return "", ErrUnknownToken
	}

	text, err := s.summarize(ctx, cb.Platform, cb.ChatID, cb.Window)
	if err != nil {
		// The token is already paid for; put the callback back so a
		// transient platform failure stays retryable.
		if putErr := s.callbacks.Put(ctx, cb); putErr != nil {
			fmt.Printf("[Recap] Failed to restore callback for token %s: %v\n", cb.Token, putErr)
		}
		return "", err
	}

	if sender := s.senders[cb.Platform]; sender != nil {
		if err := sender.SendText(ctx, cb.ChatID, text); err != nil {
			// The summary is already paid for; return it even if delivery
			// to the chat failed.
			fmt.Printf("[Recap] Delivery failed for chat %s: %v\n", cb.ChatID, err)
		}
	}
	return text, nil
}

// SummarizeNow runs a summary without the payment gate (payments disabled,
// or tool-initiated requests)
func (s *RecapService) SummarizeNow(ctx context.Context, platform domain.Platform, chatID string, window domain.WindowDescriptor) (string, error) {
	return s.summarize(ctx, platform, chatID, window)
}

func (s *RecapService) summarize(ctx context.Context, platform domain.Platform, chatID string, window domain.WindowDescriptor) (string, error) {
	uc, ok := s.summaries[platform]
	if !ok {
		return "", ErrPlatformUnavailable
	}
	q := &usecase.SummaryQuery{
		Platform:        platform,
		ChatID:          chatID,
		LookbackMinutes: window.LookbackMinutes,
		RangeLabel:      window.RangeLabel,
	}
	return uc.Summarize(ctx, q)
}
