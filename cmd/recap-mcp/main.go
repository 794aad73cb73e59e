package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/anthropics/recap-bot/internal/biz/domain"
	"github.com/anthropics/recap-bot/internal/biz/usecase"
	"github.com/anthropics/recap-bot/internal/conf"
	"github.com/anthropics/recap-bot/internal/data"
	"github.com/anthropics/recap-bot/internal/infra/discord"
	"github.com/anthropics/recap-bot/internal/infra/openai"
	"github.com/anthropics/recap-bot/internal/mcpserver"
	"github.com/anthropics/recap-bot/internal/service"
)

// Standalone MCP server exposing recap tools over stdio. Discord history
// comes straight from the REST API, so no long-running bot process is
// needed. Telegram is unavailable here: its history only exists in the
// bot's in-process buffer.
func main() {
	// Logs must not pollute stdout, the MCP transport owns it
	log.SetOutput(os.Stderr)

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := conf.LoadFromEnv()
	if cfg.Discord.BotToken == "" {
		log.Fatal("DISCORD_BOT_TOKEN is required for the MCP server")
	}

	discordClient, err := discord.NewClient(cfg.Discord.BotToken)
	if err != nil {
		log.Fatalf("Failed to create Discord client: %v", err)
	}

	var openaiClient *openai.Client
	if cfg.LLM.APIKey != "" {
		openaiClient = openai.NewClient(cfg.LLM.APIKey, cfg.LLM.BaseURL, cfg.LLM.Model)
	}

	// In-memory callbacks only: the MCP path never issues payment tokens
	repos, err := data.NewRepositories(discordClient, nil, openaiClient, "")
	if err != nil {
		log.Fatalf("Failed to create repositories: %v", err)
	}
	defer repos.Close()

	pipeline := usecase.NewPipeline(time.Now)
	summaryUC := usecase.NewSummaryUsecase(repos.Discord, repos.Summarizer, pipeline, cfg.ToSummaryConfig(), time.Now)

	recapSvc := service.NewRecapService(repos.Callbacks, cfg.ToPriceConfig(), 0)
	recapSvc.RegisterPlatform(domain.PlatformDiscord, summaryUC, repos.Discord)

	srv := mcpserver.NewServer(recapSvc, repos.Store)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	if err := srv.Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatalf("MCP server error: %v", err)
	}
}
