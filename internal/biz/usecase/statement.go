package usecase

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/anthropics/recap-bot/internal/biz/domain"
)

// leadingIRe matches a clause that still opens with the literal pronoun "I"
// after neutralization
var leadingIRe = regexp.MustCompile(`^[Ii]\b`)

// properNounStoplist holds common capitalized sentence openers that are not
// names. Anything here falls through to the default rewrite.
var properNounStoplist = map[string]bool{
	"The": true, "A": true, "An": true, "It": true, "He": true, "She": true,
	"We": true, "They": true, "This": true, "That": true, "There": true,
	"You": true, "Our": true, "His": true, "Her": true, "Its": true,
	"Their": true, "Everyone": true, "Someone": true, "Nobody": true,
	"Today": true, "Tomorrow": true, "Yesterday": true, "Now": true,
}

// rewriteStatement converts a neutralized clause into a third-person
// sentence attributed to the speaker
func rewriteStatement(speaker, clause string, speakers map[string]string) string {
	c := strings.TrimSpace(clause)
	if c == "" {
		return ensurePeriod(speaker + " shared an update")
	}

	if leadingIRe.MatchString(c) {
		return ensurePeriod(capitalizeFirst(leadingIRe.ReplaceAllString(c, speaker)))
	}

	first := firstWord(c)
	if sameSpeaker(first, speaker) {
		// Pronoun neutralization already put the speaker's name up front
		return ensurePeriod(capitalizeFirst(c))
	}

	if looksLikeProperNoun(first) {
		if _, known := speakers[domain.NormalizeSpeaker(first)]; known {
			// A different participant leads the clause; it already reads as
			// third person.
			return ensurePeriod(capitalizeFirst(c))
		}
		// Reported speech about a third party outside the conversation
		sentences := splitSentences(c)
		out := speaker + " relayed that " + ensurePeriod(sentences[0])
		for _, s := range sentences[1:] {
			out += " " + ensurePeriod(capitalizeFirst(s))
		}
		return out
	}

	return ensurePeriod(speaker + " " + lowercaseFirst(c))
}

func firstWord(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return strings.TrimFunc(fields[0], func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func looksLikeProperNoun(word string) bool {
	if word == "" || properNounStoplist[word] {
		return false
	}
	r := []rune(word)
	return unicode.IsUpper(r[0])
}

// splitSentences breaks a clause at sentence-ending punctuation followed by
// whitespace. It never returns an empty slice.
func splitSentences(s string) []string {
	var sentences []string
	start := 0
	runes := []rune(s)
	for i := 0; i < len(runes)-1; i++ {
		if (runes[i] == '.' || runes[i] == '!' || runes[i] == '?') && unicode.IsSpace(runes[i+1]) {
			sentences = append(sentences, strings.TrimSpace(string(runes[start:i+1])))
			start = i + 1
		}
	}
	if tail := strings.TrimSpace(string(runes[start:])); tail != "" {
		sentences = append(sentences, tail)
	}
	if len(sentences) == 0 {
		return []string{s}
	}
	return sentences
}
