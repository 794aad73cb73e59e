package data

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/anthropics/recap-bot/internal/biz/repo"
	"github.com/anthropics/recap-bot/internal/infra/openai"
)

// openaiSummarizerRepo adapts the OpenAI-compatible client to the
// summarizer repository interface
type openaiSummarizerRepo struct {
	client *openai.Client
}

// NewSummarizerRepo creates a summarizer repository. A nil client returns a
// nil repo, which the orchestrator treats as "LLM disabled".
func NewSummarizerRepo(client *openai.Client) repo.SummarizerRepo {
	if client == nil {
		return nil
	}
	return &openaiSummarizerRepo{client: client}
}

func (r *openaiSummarizerRepo) Summarize(ctx context.Context, req *repo.SummaryRequest) (string, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("%w: marshal payload: %v", repo.ErrProvider, err)
	}

	raw, err := r.client.SummarizeConversation(ctx, string(payload))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", repo.ErrTimeout
		}
		return "", fmt.Errorf("%w: %v", repo.ErrProvider, err)
	}
	return raw, nil
}
