package usecase

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/anthropics/recap-bot/internal/biz/domain"
)

// explicitSpeakerRe matches a "Speaker: statement" bullet with a bounded
// name before the colon, so prose containing a late colon is not mistaken
// for attribution.
var explicitSpeakerRe = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9 _.'\-]{0,59}):\s*(.*)$`)

// impliedSpeakerRe matches a capitalized leading token followed by
// whitespace, a comma, or a double dash
var impliedSpeakerRe = regexp.MustCompile(`^([A-Z][A-Za-z'\-]*)(?:\s+|,\s*|--\s*)(.+)$`)

// extractBullets splits the summary body into candidate lines and rewrites
// each into a third-person sentence. Lines yielding no usable statement are
// dropped; at most one bullet comes out of each source line.
func extractBullets(body string, entries []domain.ConversationEntry) []string {
	speakers := domain.SpeakerSet(entries)

	var bullets []string
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		line = stripBulletMarker(line)
		if line == "" {
			continue
		}

		sentence := rewriteLine(line, speakers, entries)
		if sentence == "" {
			continue
		}
		bullets = append(bullets, sentence)
	}
	return bullets
}

func stripBulletMarker(line string) string {
	line = strings.TrimLeft(line, "•-")
	return strings.TrimSpace(line)
}

// rewriteLine resolves the speaker of a candidate line and routes it to the
// attributed sentence builder, or builds a plain sentence when no speaker
// can be resolved.
func rewriteLine(line string, speakers map[string]string, entries []domain.ConversationEntry) string {
	if m := explicitSpeakerRe.FindStringSubmatch(line); m != nil {
		speaker := strings.TrimSpace(m[1])
		statement := strings.TrimSpace(m[2])
		if statement == "" {
			return ""
		}
		return buildAttributed(speaker, statement, speakers, entries)
	}

	if m := impliedSpeakerRe.FindStringSubmatch(line); m != nil {
		if canonical, ok := speakers[domain.NormalizeSpeaker(m[1])]; ok {
			statement := strings.TrimSpace(m[2])
			if statement == "" {
				return ""
			}
			return buildAttributed(canonical, statement, speakers, entries)
		}
	}

	return plainSentence(line)
}

// plainSentence capitalizes and punctuates a line with no resolved speaker
func plainSentence(line string) string {
	line = strings.TrimSpace(line)
	if line == "" {
		return ""
	}
	line = capitalizeFirst(line)
	if strings.HasSuffix(line, "?") {
		return line
	}
	if strings.HasSuffix(line, ".") || strings.HasSuffix(line, "!") {
		return line
	}
	if letterCount(line) == 0 {
		// Emoji-only and symbol lines stay as-is; punctuation would only
		// disguise them from the scorer.
		return line
	}
	return line + "."
}

func capitalizeFirst(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

func lowercaseFirst(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	r[0] = unicode.ToLower(r[0])
	return string(r)
}

// ensurePeriod appends a terminal period unless the sentence already ends
// with closing punctuation
func ensurePeriod(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	if strings.HasSuffix(s, ".") || strings.HasSuffix(s, "!") || strings.HasSuffix(s, "?") {
		return s
	}
	return s + "."
}
