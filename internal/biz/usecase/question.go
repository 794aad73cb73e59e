package usecase

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/anthropics/recap-bot/internal/biz/domain"
)

// answerWindow is how many entries after the original question are scanned
// for a reply
const answerWindow = 5

var (
	// addresseeRe extracts a trailing ", Name" clause ("can you deploy,
	// Bob?"), tolerating the "lord" honorific
	addresseeRe = regexp.MustCompile(`,\s*(?:[Ll]ord\s+)?([A-Z][A-Za-z'\-]*)\s*\?$`)

	affirmativeRe = regexp.MustCompile(`(?i)\b(yes|yep|yeah|affirmative|confirmed|done|already|of course|sure)\b`)
	negativeRe    = regexp.MustCompile(`(?i)\b(no|nope|not yet|haven't|have not|didn't|cannot|can't)\b`)

	nonAlnumRe = regexp.MustCompile(`[^a-z0-9]+`)
)

var yesNoWords = map[string]bool{
	"do": true, "does": true, "did": true,
	"is": true, "are": true, "was": true, "were": true, "am": true,
	"can": true, "could": true, "will": true, "would": true, "should": true,
	"have": true, "has": true, "had": true,
}

// copulaWords are stripped from the front of a "how" question's topic
var copulaWords = map[string]bool{
	"is": true, "are": true, "was": true, "were": true,
	"do": true, "does": true, "did": true,
	"can": true, "could": true, "will": true, "would": true, "should": true,
}

// rewriteQuestion turns a quoted question into either an answered sentence
// ("Bob confirmed that ...") when a reply is found within the lookahead
// window, or an "asked" sentence otherwise.
func rewriteQuestion(speaker, question string, entries []domain.ConversationEntry) string {
	q := strings.TrimSpace(question)

	addressee := ""
	if m := addresseeRe.FindStringSubmatch(q); m != nil {
		addressee = m[1]
		q = strings.TrimSpace(strings.TrimSuffix(q, m[0])) + "?"
	}

	core := strings.TrimSpace(strings.TrimSuffix(q, "?"))
	if core == "" {
		return ensurePeriod(speaker + " asked a question")
	}

	word, remainder, _ := strings.Cut(core, " ")
	word = strings.ToLower(word)
	remainder = strings.TrimSpace(remainder)

	if responder, affirmative, ok := findAnswer(speaker, question, addressee, entries); ok {
		verb := "reported"
		if affirmative {
			verb = "confirmed"
		}
		clause := reconstructClause(word, remainder, affirmative)
		if clause == "" {
			clause = "it was handled"
		}
		return fmt.Sprintf("%s %s that %s.", responder, verb, clause)
	}

	// The original wording was needed for the answer search above; the
	// "asked" sentence still has to read in third person.
	return askedSentence(speaker, addressee, word, neutralizePronouns(speaker, remainder))
}

// findAnswer locates the original question in the conversation and scans the
// following entries for an affirmative or negative reply. When an addressee
// was named, only their replies count.
func findAnswer(speaker, question, addressee string, entries []domain.ConversationEntry) (responder string, affirmative, ok bool) {
	qKey := fuzzyKey(question)
	if qKey == "" {
		return "", false, false
	}

	idx := -1
	for i, e := range entries {
		if !sameSpeaker(e.Speaker, speaker) {
			continue
		}
		eKey := fuzzyKey(e.Content)
		if eKey == "" {
			continue
		}
		if strings.Contains(eKey, qKey) || strings.Contains(qKey, eKey) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return "", false, false
	}

	end := idx + 1 + answerWindow
	if end > len(entries) {
		end = len(entries)
	}
	for _, e := range entries[idx+1 : end] {
		if addressee != "" && !sameSpeaker(e.Speaker, addressee) {
			continue
		}
		if affirmativeRe.MatchString(e.Content) {
			return e.Speaker, true, true
		}
		if negativeRe.MatchString(e.Content) {
			return e.Speaker, false, true
		}
	}
	return "", false, false
}

// fuzzyKey lowercases text and strips everything non-alphanumeric, so
// punctuation and spacing differences do not break the containment match
func fuzzyKey(s string) string {
	return nonAlnumRe.ReplaceAllString(strings.ToLower(s), "")
}

// reconstructClause rebuilds the answered question as a declarative clause.
// Yes/no questions are negated or affirmed grammatically; other question
// types pass the remainder through verbatim, lowercase-led.
func reconstructClause(word, remainder string, affirmative bool) string {
	if !yesNoWords[word] {
		return lowercaseFirst(remainder)
	}

	fields := strings.Fields(remainder)
	if len(fields) == 0 {
		return ""
	}
	subject := lowercaseFirst(fields[0])
	rest := strings.Join(fields[1:], " ")

	switch word {
	case "did":
		if !affirmative {
			return joinClause(subject, "did not", rest)
		}
		if subject == "we" && rest != "" {
			return "we have " + pastTense(rest)
		}
		return joinClause(subject, "did", rest)
	case "have", "has", "had":
		if affirmative {
			return joinClause(subject, word, rest)
		}
		return joinClause(subject, word+" not", rest)
	case "is", "are", "was", "were", "am":
		if affirmative {
			return joinClause(subject, word, rest)
		}
		return joinClause(subject, word+" not", rest)
	default:
		if affirmative {
			return joinClause(subject, word, rest)
		}
		return joinClause(subject, word+" not", rest)
	}
}

func joinClause(parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}

// irregularPast covers the verbs that actually show up in chat; everything
// else takes the regular -ed rules.
var irregularPast = map[string]string{
	"do": "done", "go": "gone", "make": "made", "take": "taken",
	"get": "gotten", "send": "sent", "build": "built", "write": "written",
	"find": "found", "meet": "met", "ship": "shipped", "run": "run",
	"set": "set", "put": "put",
}

// pastTense converts the leading verb of a clause to past tense
func pastTense(clause string) string {
	verb, rest, _ := strings.Cut(clause, " ")
	lower := strings.ToLower(verb)

	past, ok := irregularPast[lower]
	if !ok {
		switch {
		case strings.HasSuffix(lower, "e"):
			past = lower + "d"
		case len(lower) > 1 && strings.HasSuffix(lower, "y") && !isVowel(lower[len(lower)-2]):
			past = lower[:len(lower)-1] + "ied"
		default:
			past = lower + "ed"
		}
	}

	if rest == "" {
		return past
	}
	return past + " " + rest
}

func isVowel(b byte) bool {
	switch b {
	case 'a', 'e', 'i', 'o', 'u':
		return true
	}
	return false
}

// askedSentence is the fallback when no reply was found in the window
func askedSentence(speaker, addressee, word, remainder string) string {
	target := ""
	if addressee != "" {
		target = " " + addressee
	}

	if remainder == "" {
		return ensurePeriod(speaker + " asked" + target + " a question")
	}

	if yesNoWords[word] {
		return fmt.Sprintf("%s asked%s whether %s.", speaker, target, clauseLead(speaker, remainder))
	}

	if word == "how" {
		topic := stripLeadingCopula(remainder)
		if !strings.HasPrefix(strings.ToLower(topic), "the ") {
			topic = "the " + topic
		}
		return fmt.Sprintf("%s asked%s about %s.", speaker, target, lowercaseFirst(topic))
	}

	return fmt.Sprintf("%s asked%s %s %s.", speaker, target, word, clauseLead(speaker, remainder))
}

// clauseLead lowercases the clause opener unless pronoun neutralization put
// the speaker's capitalized name there
func clauseLead(speaker, clause string) string {
	name := capitalizeFirst(strings.TrimSpace(speaker))
	if name != "" && strings.HasPrefix(clause, name) {
		rest := clause[len(name):]
		if rest == "" || rest[0] == ' ' || rest[0] == ',' {
			return clause
		}
	}
	return lowercaseFirst(clause)
}

func stripLeadingCopula(s string) string {
	first, rest, found := strings.Cut(s, " ")
	if found && copulaWords[strings.ToLower(first)] {
		return strings.TrimSpace(rest)
	}
	return s
}
