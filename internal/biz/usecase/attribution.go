package usecase

import (
	"regexp"
	"strings"

	"github.com/anthropics/recap-bot/internal/biz/domain"
)

// discourseMarkers are filler openers stripped from the front of a
// statement, repeatedly, until none remain. "never mind" goes first so the
// multi-word marker wins over a bare prefix.
var discourseMarkers = []string{
	"never mind", "well", "okay", "ok", "oh", "anyway", "so", "hey",
	"hmm", "um", "uh", "alright", "right", "ah",
}

var discourseMarkerRe = buildDiscourseMarkerRe()

func buildDiscourseMarkerRe() *regexp.Regexp {
	return regexp.MustCompile(`(?i)^(` + strings.Join(discourseMarkers, `|`) + `)\b[\s,.!]*`)
}

// buildAttributed turns a (speaker, statement) pair into a third-person
// sentence. Questions are detected before pronoun neutralization so the
// original wording is still available for the answer search.
func buildAttributed(speaker, statement string, speakers map[string]string, entries []domain.ConversationEntry) string {
	statement = stripLeadingSelfName(speaker, statement)
	statement = stripDiscourseMarkers(statement)

	if strings.TrimSpace(statement) == "" {
		return ensurePeriod(speaker + " shared an update")
	}

	if strings.HasSuffix(strings.TrimSpace(statement), "?") {
		return rewriteQuestion(speaker, statement, entries)
	}

	neutral := neutralizePronouns(speaker, statement)
	return rewriteStatement(speaker, neutral, speakers)
}

// stripLeadingSelfName drops a redundant repetition of the speaker's own
// name at the front of the statement ("Alice: Alice will ..." reads badly
// once attributed).
func stripLeadingSelfName(speaker, statement string) string {
	trimmed := strings.TrimSpace(statement)
	lower := strings.ToLower(trimmed)
	name := strings.ToLower(strings.TrimSpace(speaker))
	if name == "" || !strings.HasPrefix(lower, name) {
		return trimmed
	}
	rest := trimmed[len(name):]
	if rest == "" {
		return ""
	}
	// Only a real word boundary counts; "Al" must not strip from "Alice".
	if rest[0] != ' ' && rest[0] != ',' && rest[0] != ':' {
		return trimmed
	}
	return strings.TrimSpace(strings.TrimLeft(rest, " ,:"))
}

func stripDiscourseMarkers(statement string) string {
	s := strings.TrimSpace(statement)
	for {
		loc := discourseMarkerRe.FindStringIndex(s)
		if loc == nil {
			return s
		}
		next := strings.TrimSpace(s[loc[1]:])
		if next == s {
			return s
		}
		s = next
		if s == "" {
			return s
		}
	}
}

// First-person contractions are rewritten before the bare pronoun so "I'm"
// never degrades into "Alice'm".
var pronounRules = []struct {
	re   *regexp.Regexp
	name bool   // substitute the speaker's name
	tail string // appended after the name, or the full replacement
}{
	{regexp.MustCompile(`\bI'm\b`), true, " is"},
	{regexp.MustCompile(`\bI am\b`), true, " is"},
	{regexp.MustCompile(`\bI've\b`), true, " has"},
	{regexp.MustCompile(`\bI'll\b`), true, " will"},
	{regexp.MustCompile(`\bI'd\b`), true, " would"},
	{regexp.MustCompile(`\bI\b`), true, ""},
	{regexp.MustCompile(`(?i)\bmyself\b`), false, "themself"},
	{regexp.MustCompile(`(?i)\bme\b`), false, "them"},
	{regexp.MustCompile(`(?i)\bmy\b`), false, "their"},
	{regexp.MustCompile(`(?i)\bmine\b`), false, "theirs"},
}

// neutralizePronouns rewrites first-person pronouns to the speaker's
// capitalized name or the matching third-person form
func neutralizePronouns(speaker, statement string) string {
	name := capitalizeFirst(strings.TrimSpace(speaker))
	out := statement
	for _, rule := range pronounRules {
		if rule.name {
			out = rule.re.ReplaceAllString(out, name+rule.tail)
		} else {
			out = rule.re.ReplaceAllString(out, rule.tail)
		}
	}
	return out
}

// sameSpeaker compares two speaker names under normalization
func sameSpeaker(a, b string) bool {
	return domain.NormalizeSpeaker(a) == domain.NormalizeSpeaker(b)
}
