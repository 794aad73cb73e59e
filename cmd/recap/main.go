package main

import (
	"context"
	"fmt"
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
	"github.com/anthropics/recap-bot/internal/infra/telegram"
	"github.com/anthropics/recap-bot/internal/server"
	"github.com/anthropics/recap-bot/internal/service"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := conf.LoadFromEnv()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	// Initialize clients
	var discordClient *discord.Client
	if cfg.Discord.BotToken != "" {
		var err error
		discordClient, err = discord.NewClient(cfg.Discord.BotToken)
		if err != nil {
			log.Fatalf("Failed to create Discord client: %v", err)
		}
		fmt.Println("[Recap] Discord adapter enabled")
	}

	var telegramClient *telegram.Client
	if cfg.Telegram.BotToken != "" {
		var err error
		telegramClient, err = telegram.NewClient(cfg.Telegram.BotToken)
		if err != nil {
			log.Fatalf("Failed to create Telegram client: %v", err)
		}
		fmt.Println("[Recap] Telegram adapter enabled")
	}

	var openaiClient *openai.Client
	if cfg.LLM.APIKey != "" {
		openaiClient = openai.NewClient(cfg.LLM.APIKey, cfg.LLM.BaseURL, cfg.LLM.Model)
		fmt.Println("[Recap] LLM summarizer enabled")
	} else {
		fmt.Println("[Recap] No LLM key configured, running with deterministic fallback only")
	}

	// Initialize repository layer
	repos, err := data.NewRepositories(discordClient, telegramClient, openaiClient, cfg.Callbacks.DBPath)
	if err != nil {
		log.Fatalf("Failed to create repositories: %v", err)
	}
	defer repos.Close()

	if cfg.Callbacks.DBPath != "" {
		fmt.Printf("[Recap] Callback DB: %s\n", cfg.Callbacks.DBPath)
	}

	// Initialize usecase layer
	pipeline := usecase.NewPipeline(time.Now)
	summaryCfg := cfg.ToSummaryConfig()
	bufferUC := usecase.NewBufferUsecase(repos.Store)

	// Initialize service layer
	tokenTTL := time.Duration(cfg.Payment.TokenTTLMinutes) * time.Minute
	recapSvc := service.NewRecapService(repos.Callbacks, cfg.ToPriceConfig(), tokenTTL)

	if repos.Discord != nil {
		uc := usecase.NewSummaryUsecase(repos.Discord, repos.Summarizer, pipeline, summaryCfg, time.Now)
		recapSvc.RegisterPlatform(domain.PlatformDiscord, uc, repos.Discord)
	}
	if repos.Telegram != nil {
		uc := usecase.NewSummaryUsecase(repos.Telegram, repos.Summarizer, pipeline, summaryCfg, time.Now)
		recapSvc.RegisterPlatform(domain.PlatformTelegram, uc, repos.Telegram)
	}

	if cfg.PaymentsEnabled() {
		fmt.Printf("[Recap] Payments enabled: %s %s to %s on %s\n",
			cfg.Payment.Amount, cfg.Payment.Currency, cfg.Payment.PayTo, cfg.Payment.Network)
	} else {
		fmt.Println("[Recap] Payments disabled, summaries are free")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start Telegram long polling
	var tgServer *server.TelegramServer
	if telegramClient != nil {
		tgServer = server.NewTelegramServer(
			telegramClient, bufferUC, recapSvc,
			cfg.PaymentsEnabled(), cfg.Summary.DefaultLookbackMinutes,
		)
		tgServer.Start(ctx)
		fmt.Println("[Recap] Telegram long polling started")
	}

	// Start HTTP gateway
	var verifier server.Verifier
	if cfg.Payment.FacilitatorURL != "" {
		verifier = server.NewFacilitatorVerifier(cfg.Payment.FacilitatorURL)
		fmt.Printf("[Recap] Payment facilitator: %s\n", cfg.Payment.FacilitatorURL)
	} else if cfg.PaymentsEnabled() {
		fmt.Println("[Recap] Warning: payments enabled without a facilitator, accepting all proofs")
	}
	gateway := server.NewGateway(cfg.HTTP.Addr, recapSvc, verifier)
	gateway.Start()

	// Start background sweeper
	sweeper := service.NewSweeper(repos.Callbacks, repos.Store,
		time.Duration(cfg.Payment.SweepIntervalMin)*time.Minute)
	sweeper.Start(ctx)

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	fmt.Println("\nShutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := gateway.Shutdown(shutdownCtx); err != nil {
		fmt.Printf("[Recap] Gateway shutdown error: %v\n", err)
	}
	if tgServer != nil {
		tgServer.Stop()
	}
	sweeper.Stop()
}
