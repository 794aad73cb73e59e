package repo

import (
	"context"
	"errors"
)

// Summarizer boundary errors. The orchestrator treats both the same way:
// fall back to the deterministic summary. They are distinguished only for
// logging.
var (
	ErrTimeout  = errors.New("summarizer: timed out")
	ErrProvider = errors.New("summarizer: provider error")
)

// SummaryMessage is one message in the summarizer payload
type SummaryMessage struct {
	Author      string   `json:"author"`
	Text        string   `json:"text"`
	Attachments []string `json:"attachments,omitempty"`
	Reactions   int      `json:"reactions,omitempty"`
}

// SummaryRequest is the structured payload sent to the LLM
type SummaryRequest struct {
	Platform    string           `json:"platform"`
	WindowLabel string           `json:"window_label"`
	MaxChars    int              `json:"max_chars"`
	Messages    []SummaryMessage `json:"messages"`
}

// SummarizerRepo is the LLM collaborator interface. It returns a raw
// natural-language summary string; the Bullet Pipeline owns all formatting.
type SummarizerRepo interface {
	Summarize(ctx context.Context, req *SummaryRequest) (string, error)
}
