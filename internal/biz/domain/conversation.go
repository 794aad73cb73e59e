package domain

import "strings"

// ConversationEntry is one speaker/content pair derived from a transcript
// line. Content is never empty; lines that would produce empty content are
// dropped during extraction. The ordered entry sequence is the lookup
// structure for question/answer proximity search.
type ConversationEntry struct {
	Speaker string
	Content string
}

// NormalizeSpeaker lowercases a speaker name and strips the "lord "
// honorific so variant spellings compare equal.
func NormalizeSpeaker(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.TrimPrefix(n, "lord ")
	return n
}

// SpeakerSet builds the set of known speakers, keyed by normalized name.
// The stored value keeps the original casing for output.
func SpeakerSet(entries []ConversationEntry) map[string]string {
	set := make(map[string]string, len(entries))
	for _, e := range entries {
		key := NormalizeSpeaker(e.Speaker)
		if key == "" {
			continue
		}
		if _, ok := set[key]; !ok {
			set[key] = strings.TrimSpace(e.Speaker)
		}
	}
	return set
}
