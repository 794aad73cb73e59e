package usecase

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/anthropics/recap-bot/internal/biz/domain"
)

// longMessageChars marks a message as "long" for the chattiness heuristic
const longMessageChars = 240

var humorCueRe = regexp.MustCompile(`(?i)\b(lol|lmao|haha|hehe|rofl)\b|😂|🤣`)

// isSocialWindow guesses whether a window was chatty rather than
// substantive: long messages, emoji, reply threads, or laughter all point at
// banter worth surfacing over a transcript dump.
func isSocialWindow(msgs []domain.Message) bool {
	replies := 0
	for _, m := range msgs {
		if len([]rune(m.Text)) > longMessageChars {
			return true
		}
		if humorCueRe.MatchString(m.Text) {
			return true
		}
		if containsEmoji(m.Text) {
			return true
		}
		if m.ReplyToID != "" {
			replies++
		}
	}
	return replies >= 2
}

func containsEmoji(s string) bool {
	for _, r := range s {
		if isEmojiRune(r) {
			return true
		}
	}
	return false
}

// socialFallback surfaces the single most engagement-heavy message:
// reactions weigh most, length breaks ties
func socialFallback(msgs []domain.Message) string {
	best := msgs[0]
	bestScore := engagementScore(best)
	for _, m := range msgs[1:] {
		if s := engagementScore(m); s > bestScore {
			best, bestScore = m, s
		}
	}

	text := collapseWhitespace(best.Text)
	if text == "" {
		text = EmptyTextPlaceholder
	}
	return fmt.Sprintf("The chat was lively rather than substantive. The message that got the most attention:\n%s%s: %s",
		BulletMarker, best.Author.SpeakerName(), text)
}

func engagementScore(m domain.Message) int {
	return m.Reactions*5 + len(strings.TrimSpace(m.Text))/40
}
