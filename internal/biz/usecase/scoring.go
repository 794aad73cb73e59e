package usecase

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/anthropics/recap-bot/internal/biz/domain"
)

// Vocabulary patterns are prefix-anchored on the left only, so "confirm"
// also matches "confirmed" and "deploy" matches "deployment".
var (
	actionVocabRe     = regexp.MustCompile(`(?i)\b(action item|todo|need to|must|should|task|follow up|deadline|due)`)
	statusVocabRe     = regexp.MustCompile(`(?i)\b(plan|progress|status|update|launch|deploy|issue|fix|bug|release)`)
	resolutionVocabRe = regexp.MustCompile(`(?i)\b(confirm|decided|agreed|resolved|concluded)`)
	questionVocabRe   = regexp.MustCompile(`(?i)\b(question|asked|whether|how|when|what)\b`)
	bareNumberRe      = regexp.MustCompile(`\b\d+\b`)
	clockTimeRe       = regexp.MustCompile(`\b\d{1,2}:\d{2}\b`)
	laughterRe        = regexp.MustCompile(`(?i)\b(lol|haha|hehe|lmao|rofl|omg)`)
	loneTokenRe       = regexp.MustCompile(`^[A-Za-z]{1,6}$`)
)

// scoreBullet rates a candidate bullet. Positive signals are substance
// (tasks, status, resolutions, specifics); negative signals are noise
// (emoji, laughter, one-word fragments).
func scoreBullet(text string) int {
	score := 0

	length := utf8.RuneCountInString(text)
	if length < 20 {
		score -= 3
	}
	if length > 120 {
		score -= 1
	}

	if actionVocabRe.MatchString(text) {
		score += 4
	}
	if statusVocabRe.MatchString(text) {
		score += 3
	}
	if resolutionVocabRe.MatchString(text) {
		score += 3
	}
	if questionVocabRe.MatchString(text) {
		score += 1
	}
	if bareNumberRe.MatchString(text) || clockTimeRe.MatchString(text) {
		score += 1
	}
	if letterCount(text) >= 3 {
		score += 1
	}

	if isAllEmoji(text) {
		score -= 5
	}
	if loneTokenRe.MatchString(text) {
		score -= 4
	}
	if laughterRe.MatchString(text) {
		score -= 4
	}
	if len(strings.Fields(text)) <= 3 {
		score -= 2
	}

	return score
}

// filterBullets keeps non-negative bullets in original order. If nothing
// scores non-negative, the single best bullet survives (first maximum wins
// on ties), so a paid summary is never reduced to nothing.
func filterBullets(texts []string) []domain.ScoredBullet {
	if len(texts) == 0 {
		return nil
	}

	scored := make([]domain.ScoredBullet, 0, len(texts))
	for _, t := range texts {
		scored = append(scored, domain.ScoredBullet{Text: t, Score: scoreBullet(t)})
	}

	var kept []domain.ScoredBullet
	for _, sb := range scored {
		if sb.Score >= 0 {
			kept = append(kept, sb)
		}
	}
	if len(kept) > 0 {
		return kept
	}

	best := scored[0]
	for _, sb := range scored[1:] {
		if sb.Score > best.Score {
			best = sb
		}
	}
	return []domain.ScoredBullet{best}
}

func letterCount(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsLetter(r) {
			n++
		}
	}
	return n
}

// isAllEmoji reports whether the text consists solely of emoji (joiners,
// variation selectors, and spaces allowed)
func isAllEmoji(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	sawEmoji := false
	for _, r := range s {
		switch {
		case r == ' ' || r == 0xFE0F || r == 0x200D:
			// joiners and spacing between emoji
		case isEmojiRune(r):
			sawEmoji = true
		default:
			return false
		}
	}
	return sawEmoji
}

func isEmojiRune(r rune) bool {
	return (r >= 0x1F000 && r <= 0x1FAFF) || // pictographs, emoticons, symbols
		(r >= 0x2190 && r <= 0x2BFF) || // arrows, misc symbols, dingbats
		(r >= 0x1FB00 && r <= 0x1FBFF)
}
