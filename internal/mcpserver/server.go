package mcpserver

import (
	"context"
	"sort"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anthropics/recap-bot/internal/biz/domain"
	"github.com/anthropics/recap-bot/internal/biz/repo"
	"github.com/anthropics/recap-bot/internal/service"
)

// RecapMCPServer exposes the summarizer as MCP tools so an agent can pull
// chat recaps and inspect the message buffer.
type RecapMCPServer struct {
	server   *mcp.Server
	recapSvc *service.RecapService
	store    repo.ConversationStore
}

// NewServer creates a new recap MCP server
func NewServer(recapSvc *service.RecapService, store repo.ConversationStore) *RecapMCPServer {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "recap-tools",
		Version: "v1.0.0",
	}, nil)

	rs := &RecapMCPServer{
		server:   server,
		recapSvc: recapSvc,
		store:    store,
	}
	rs.registerTools()
	return rs
}

func (s *RecapMCPServer) registerTools() {
	// Tool: recap_summarize - Summarize a chat window
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "recap_summarize",
		Description: "Summarize recent activity in a Discord or Telegram chat. Returns a greeting line followed by attributed bullet points.",
	}, s.handleSummarize)

	// Tool: recap_buffer_stats - Inspect the message buffer
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "recap_buffer_stats",
		Description: "Report how many messages are buffered per chat. Useful to check whether a chat has enough activity to summarize.",
	}, s.handleBufferStats)
}

// SummarizeInput is the input for the recap_summarize tool
type SummarizeInput struct {
	Platform        string `json:"platform" jsonschema:"description=The chat platform: discord or telegram"`
	ChatID          string `json:"chat_id" jsonschema:"description=The channel or chat ID to summarize"`
	LookbackMinutes int    `json:"lookback_minutes,omitempty" jsonschema:"description=How many minutes of history to cover (default 60)"`
}

// SummarizeOutput is the output for the recap_summarize tool
type SummarizeOutput struct {
	Summary string `json:"summary,omitempty"`
	Error   string `json:"error,omitempty"`
}

func (s *RecapMCPServer) handleSummarize(ctx context.Context, req *mcp.CallToolRequest, input SummarizeInput) (*mcp.CallToolResult, SummarizeOutput, error) {
	platform := domain.Platform(input.Platform)
	if platform != domain.PlatformDiscord && platform != domain.PlatformTelegram {
		return nil, SummarizeOutput{Error: "platform must be discord or telegram"}, nil
	}
	if input.ChatID == "" {
		return nil, SummarizeOutput{Error: "chat_id is required"}, nil
	}

	window := domain.WindowDescriptor{LookbackMinutes: input.LookbackMinutes}
	text, err := s.recapSvc.SummarizeNow(ctx, platform, input.ChatID, window)
	if err != nil {
		return nil, SummarizeOutput{Error: err.Error()}, nil
	}
	return nil, SummarizeOutput{Summary: text}, nil
}

// BufferStatsInput is empty - no input needed
type BufferStatsInput struct{}

// ChatStats describes one buffered conversation
type ChatStats struct {
	ChatID   string `json:"chat_id"`
	Messages int    `json:"messages"`
}

// BufferStatsOutput contains per-chat buffer counts
type BufferStatsOutput struct {
	Chats []ChatStats `json:"chats"`
	Error string      `json:"error,omitempty"`
}

func (s *RecapMCPServer) handleBufferStats(ctx context.Context, req *mcp.CallToolRequest, input BufferStatsInput) (*mcp.CallToolResult, BufferStatsOutput, error) {
	stats, err := s.store.Stats(ctx)
	if err != nil {
		return nil, BufferStatsOutput{Error: err.Error()}, nil
	}

	chats := make([]ChatStats, 0, len(stats))
	for chatID, count := range stats {
		chats = append(chats, ChatStats{ChatID: chatID, Messages: count})
	}
	sort.Slice(chats, func(i, j int) bool { return chats[i].ChatID < chats[j].ChatID })

	return nil, BufferStatsOutput{Chats: chats}, nil
}

// Run runs the MCP server on stdio
func (s *RecapMCPServer) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}
