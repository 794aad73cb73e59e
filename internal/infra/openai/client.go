package openai

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

const defaultModel = "gpt-4o-mini"

// summarySystemPrompt keeps the LLM output in a shape the bullet pipeline
// can work with: an overview line, then one "Name: point" line per
// highlight. The pipeline owns greetings and final formatting.
const summarySystemPrompt = `You summarize chat conversations.

You receive a JSON payload with the platform, a window label, a max_chars budget, and the messages (author, text, attachments, reactions).

Output format:
- First line: a single-sentence overview of the window. No greeting.
- Then one line per notable point, formatted exactly as "Name: point", where Name is the author the point belongs to.
- Prefer decisions, action items, status updates, and answered questions. Skip pure banter.
- Stay within the max_chars budget. Output plain text only.`

// Client is the LLM summarizer client using an OpenAI-compatible API
type Client struct {
	client *openai.Client
	model  string
}

// NewClient creates a summarizer client. baseURL may be empty for the
// default OpenAI endpoint; model defaults when empty.
func NewClient(apiKey, baseURL, model string) *Client {
	if model == "" {
		model = defaultModel
	}

	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}

	return &Client{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}
}

// SummarizeConversation sends the JSON payload and returns the raw summary
// text. Timeout and cancellation come from ctx; there is no retry here.
func (c *Client) SummarizeConversation(ctx context.Context, payload string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: summarySystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: payload},
		},
		Temperature: 0.3,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response choices")
	}

	return resp.Choices[0].Message.Content, nil
}
