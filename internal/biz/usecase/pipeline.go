package usecase

import (
	"regexp"
	"strings"
	"time"

	"github.com/anthropics/recap-bot/internal/biz/domain"
)

// BulletMarker is the prefix for every highlight line in the final summary.
// Historical snapshots of the bot alternated between "• " and "- "; this
// constant settles on the round bullet.
const BulletMarker = "• "

// greetingRe recognizes a summary that already opens with a greeting
var greetingRe = regexp.MustCompile(`(?i)^(good\s+(morning|afternoon|evening|night)|hello|hi|hey|greetings)\b`)

// Pipeline is the deterministic post-processor applied to a raw LLM summary
// (or a fallback transcript excerpt). It never fails: every step degrades to
// a safe passthrough rather than returning an error, so an already-paid-for
// LLM result is never discarded.
type Pipeline struct {
	now func() time.Time
}

// NewPipeline creates a pipeline with an injected clock. A nil clock falls
// back to time.Now.
func NewPipeline(now func() time.Time) *Pipeline {
	if now == nil {
		now = time.Now
	}
	return &Pipeline{now: now}
}

// Finalize converts a raw summary into the user-facing message: a greeting
// line followed by normalized, speaker-attributed, scored bullet lines.
// A summary that already starts with a greeting is passed through unchanged,
// which makes Finalize idempotent on its own output.
func (p *Pipeline) Finalize(rawSummary string, window domain.WindowDescriptor, entries []domain.ConversationEntry) string {
	trimmed := strings.TrimSpace(rawSummary)
	if trimmed == "" {
		return ""
	}
	if greetingRe.MatchString(trimmed) {
		return rawSummary
	}

	intro, body := p.injectGreeting(trimmed, window)

	bullets := extractBullets(body, entries)
	if len(bullets) == 0 {
		if strings.TrimSpace(body) == "" {
			return intro
		}
		return intro + "\n" + body
	}

	kept := filterBullets(bullets)

	var b strings.Builder
	b.WriteString(intro)
	for _, bullet := range kept {
		b.WriteString("\n")
		b.WriteString(BulletMarker)
		b.WriteString(bullet.Text)
	}
	return b.String()
}

// injectGreeting prepends the time-of-day greeting and the window phrase.
// When the summary body opens with a bullet marker the greeting gets its own
// line above it; otherwise the first summary line is folded into the intro.
func (p *Pipeline) injectGreeting(trimmed string, window domain.WindowDescriptor) (intro, body string) {
	greeting := greetingForHour(p.now().Hour())
	lead := greeting + " Here is what happened in " + window.Phrase() + ":"

	if startsWithBullet(trimmed) {
		return lead, trimmed
	}

	firstLine, rest, _ := strings.Cut(trimmed, "\n")
	return lead + " " + strings.TrimSpace(firstLine), rest
}

func greetingForHour(hour int) string {
	switch {
	case hour >= 5 && hour < 12:
		return "Good morning!"
	case hour >= 12 && hour < 17:
		return "Good afternoon!"
	case hour >= 17 && hour < 22:
		return "Good evening!"
	default:
		return "Hello!"
	}
}

func startsWithBullet(s string) bool {
	return strings.HasPrefix(s, "•") || strings.HasPrefix(s, "-")
}
