package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/recap-bot/internal/biz/domain"
	"github.com/anthropics/recap-bot/internal/biz/repo"
)

// SummaryConfig contains orchestrator configuration
type SummaryConfig struct {
	DefaultLookbackMinutes int           // Window when the request names none
	MaxChars               int           // Budget passed to the LLM
	LLMTimeout             time.Duration // Single timeout, no retry
	FallbackLines          int           // Transcript lines used when the LLM is unavailable
}

// DefaultSummaryConfig returns default orchestrator configuration
func DefaultSummaryConfig() SummaryConfig {
	return SummaryConfig{
		DefaultLookbackMinutes: 60,
		MaxChars:               1200,
		LLMTimeout:             25 * time.Second,
		FallbackLines:          8,
	}
}

// SummaryUsecase resolves the window, fetches messages, invokes the LLM and
// routes the result (or a deterministic fallback) through the Bullet
// Pipeline.
type SummaryUsecase struct {
	messageRepo repo.MessageRepo
	summarizer  repo.SummarizerRepo // nil disables the LLM path entirely
	pipeline    *Pipeline
	cfg         SummaryConfig
	now         func() time.Time
}

// NewSummaryUsecase creates a new summary orchestrator
func NewSummaryUsecase(
	messageRepo repo.MessageRepo,
	summarizer repo.SummarizerRepo,
	pipeline *Pipeline,
	cfg SummaryConfig,
	now func() time.Time,
) *SummaryUsecase {
	if now == nil {
		now = time.Now
	}
	return &SummaryUsecase{
		messageRepo: messageRepo,
		summarizer:  summarizer,
		pipeline:    pipeline,
		cfg:         cfg,
		now:         now,
	}
}

// SummaryQuery represents a summary request
type SummaryQuery struct {
	Platform        domain.Platform
	ChatID          string
	LookbackMinutes int    // Exclusive with FromID/ToID
	FromID          string // Explicit message range start
	ToID            string // Explicit message range end
	RangeLabel      string // Free-form label for explicit ranges
}

// Window derives the descriptor handed to the Bullet Pipeline
func (q *SummaryQuery) Window() domain.WindowDescriptor {
	if q.FromID != "" || q.ToID != "" {
		label := q.RangeLabel
		if label == "" {
			label = "the requested range"
		}
		return domain.WindowDescriptor{RangeLabel: label}
	}
	return domain.WindowDescriptor{LookbackMinutes: q.LookbackMinutes}
}

func (q *SummaryQuery) validate() error {
	hasRange := q.FromID != "" || q.ToID != ""
	if hasRange && q.LookbackMinutes > 0 {
		return errors.New("lookback window and message range are mutually exclusive")
	}
	if hasRange && (q.FromID == "" || q.ToID == "") {
		return errors.New("message range requires both start and end markers")
	}
	return nil
}

// Summarize produces the final user-facing summary text for a query.
// Platform or validation failures are returned as errors; LLM failures
// degrade to the deterministic fallback instead.
func (uc *SummaryUsecase) Summarize(ctx context.Context, q *SummaryQuery) (string, error) {
	if err := q.validate(); err != nil {
		return "", err
	}
	if q.LookbackMinutes <= 0 && q.FromID == "" {
		q.LookbackMinutes = uc.cfg.DefaultLookbackMinutes
	}
	window := q.Window()

	msgs, err := uc.fetch(ctx, q)
	if err != nil {
		return "", fmt.Errorf("fetch messages: %w", err)
	}
	if len(msgs) == 0 {
		return fmt.Sprintf("There was nothing to summarize in %s.", window.Phrase()), nil
	}

	fr := FormatConversation(msgs)

	raw := uc.invokeLLM(ctx, q, window, msgs)
	if strings.TrimSpace(raw) == "" {
		raw = uc.fallbackSummary(fr, msgs)
	}

	return uc.pipeline.Finalize(raw, window, fr.Entries), nil
}

func (uc *SummaryUsecase) fetch(ctx context.Context, q *SummaryQuery) ([]domain.Message, error) {
	if q.FromID != "" {
		return uc.messageRepo.FetchRange(ctx, q.ChatID, q.FromID, q.ToID)
	}
	since := uc.now().Add(-time.Duration(q.LookbackMinutes) * time.Minute)
	return uc.messageRepo.FetchSince(ctx, q.ChatID, since)
}

// invokeLLM calls the summarizer under a single timeout. Any failure or
// degenerate (empty) result yields "", which routes the request to the
// deterministic fallback.
func (uc *SummaryUsecase) invokeLLM(ctx context.Context, q *SummaryQuery, window domain.WindowDescriptor, msgs []domain.Message) string {
	if uc.summarizer == nil {
		return ""
	}

	req := &repo.SummaryRequest{
		Platform:    string(q.Platform),
		WindowLabel: window.Phrase(),
		MaxChars:    uc.cfg.MaxChars,
		Messages:    make([]repo.SummaryMessage, 0, len(msgs)),
	}
	for _, m := range msgs {
		req.Messages = append(req.Messages, repo.SummaryMessage{
			Author:      m.Author.SpeakerName(),
			Text:        m.Text,
			Attachments: m.Attachments,
			Reactions:   m.Reactions,
		})
	}

	llmCtx, cancel := context.WithTimeout(ctx, uc.cfg.LLMTimeout)
	defer cancel()

	raw, err := uc.summarizer.Summarize(llmCtx, req)
	if err != nil {
		fmt.Printf("[Summary] LLM unavailable, using fallback: %v\n", err)
		return ""
	}
	return raw
}

// fallbackSummary builds a deterministic raw summary when the LLM result is
// missing or degenerate: a social highlight for chatty windows, the first
// transcript lines otherwise.
func (uc *SummaryUsecase) fallbackSummary(fr FormatResult, msgs []domain.Message) string {
	if isSocialWindow(msgs) {
		return socialFallback(msgs)
	}

	lines := fr.TranscriptLines()
	n := uc.cfg.FallbackLines
	if n <= 0 || n > len(lines) {
		n = len(lines)
	}

	var b strings.Builder
	b.WriteString("Here are the most recent messages.")
	for _, line := range lines[:n] {
		b.WriteString("\n")
		b.WriteString(BulletMarker)
		b.WriteString(line)
	}
	return b.String()
}
