package usecase

import (
	"fmt"
	"strings"

	"github.com/anthropics/recap-bot/internal/biz/domain"
)

// EmptyTextPlaceholder renders in place of a message with no text, so every
// message still produces a non-empty transcript line.
const EmptyTextPlaceholder = "(no text content)"

// FormatResult is the output of the conversation formatter
type FormatResult struct {
	Transcript string
	Entries    []domain.ConversationEntry
}

// TranscriptLines returns the transcript split into lines
func (r FormatResult) TranscriptLines() []string {
	if r.Transcript == "" {
		return nil
	}
	return strings.Split(r.Transcript, "\n")
}

// FormatConversation turns an ordered message list into a flat
// "Speaker: text" transcript plus the entry list derived from it.
// Messages are stably sorted ascending by timestamp first; the function is
// pure and total.
func FormatConversation(msgs []domain.Message) FormatResult {
	sorted := make([]domain.Message, len(msgs))
	copy(sorted, msgs)
	domain.SortMessages(sorted)

	lines := make([]string, 0, len(sorted))
	for _, m := range sorted {
		lines = append(lines, formatLine(m))
	}

	transcript := strings.Join(lines, "\n")
	return FormatResult{
		Transcript: transcript,
		Entries:    ExtractEntries(lines),
	}
}

func formatLine(m domain.Message) string {
	speaker := m.Author.SpeakerName()

	parts := []string{m.Text}
	if strings.TrimSpace(m.Text) == "" {
		parts = []string{EmptyTextPlaceholder}
	}
	for _, a := range m.Attachments {
		parts = append(parts, fmt.Sprintf("[attachment: %s]", a))
	}
	if m.Reactions > 0 {
		parts = append(parts, fmt.Sprintf("[%d reactions]", m.Reactions))
	}

	content := collapseWhitespace(strings.Join(parts, " "))
	return speaker + ": " + content
}

// ExtractEntries re-splits transcript lines on their first colon.
// Lines without a colon or with empty content are dropped, so every entry
// has non-empty content.
func ExtractEntries(lines []string) []domain.ConversationEntry {
	var entries []domain.ConversationEntry
	for _, line := range lines {
		speaker, content, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		speaker = strings.TrimSpace(speaker)
		content = strings.TrimSpace(content)
		if speaker == "" || content == "" {
			continue
		}
		entries = append(entries, domain.ConversationEntry{Speaker: speaker, Content: content})
	}
	return entries
}

// collapseWhitespace folds all internal whitespace runs (including newlines)
// into single spaces
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
