package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/ryosukesatoh/arxiv-daily/internal/config"
	"github.com/ryosukesatoh/arxiv-daily/internal/fetcher"
	"github.com/ryosukesatoh/arxiv-daily/internal/ingest"
	"github.com/ryosukesatoh/arxiv-daily/internal/publisher"
	"github.com/ryosukesatoh/arxiv-daily/internal/report"
	"github.com/ryosukesatoh/arxiv-daily/internal/retry"
	"github.com/ryosukesatoh/arxiv-daily/internal/runner"
	"github.com/ryosukesatoh/arxiv-daily/internal/store"
	"github.com/ryosukesatoh/arxiv-daily/internal/summarizer"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	once := flag.Bool("once", false, "run the pipeline once and exit")
	flag.Parse()

	// Optional .env for local runs; config references vars via ${VAR}.
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Build store
	st := store.New(cfg.Store.Path)
	if err := st.Init(context.Background()); err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}

	// Build fetcher
	f := fetcher.NewArxivFetcher()

	// Build summarizer; without an API key the report degrades instead.
	var sum report.BatchSummarizer
	if cfg.Summarizer.APIKey == "" {
		log.Println("No summarizer API key configured; reports will skip the generated summary")
	} else {
		client, err := summarizer.NewClient(cfg)
		if err != nil {
			log.Fatalf("Failed to create summarizer: %v", err)
		}
		sum = summarizer.NewResilient(client, retry.Config{
			MaxAttempts: cfg.Summarizer.MaxAttempts,
			PerAttempt:  time.Duration(cfg.Summarizer.TimeoutSec) * time.Second,
		})
	}

	composer, err := report.NewComposer(sum, cfg.Report.ChunkSize)
	if err != nil {
		log.Fatalf("Failed to create report composer: %v", err)
	}

	// Build publisher
	var pubs []publisher.Publisher
	var webPub *publisher.WebPublisher

	switch cfg.Publisher.Type {
	case "file":
		pubs = append(pubs, publisher.NewFilePublisher(cfg.Publisher.File.Dir))
	case "stdout":
		pubs = append(pubs, publisher.NewStdoutPublisher())
	case "email":
		pubs = append(pubs, publisher.NewEmailPublisher(
			cfg.Publisher.Email.SMTPHost,
			cfg.Publisher.Email.SMTPPort,
			cfg.Publisher.Email.Username,
			cfg.Publisher.Email.Password,
			cfg.Publisher.Email.From,
			cfg.Publisher.Email.To,
		))
	case "web":
		webPub = publisher.NewWebPublisher(cfg.Publisher.Web.Addr)
		pubs = append(pubs, webPub)
	case "discord":
		pubs = append(pubs, publisher.NewDiscordPublisher(cfg.Publisher.Discord.WebhookURL))
	default:
		log.Fatalf("Unknown publisher type: %s", cfg.Publisher.Type)
	}

	// Start web server if configured
	if webPub != nil {
		if err := webPub.Start(); err != nil {
			log.Fatalf("Failed to start web publisher: %v", err)
		}
	}

	// Build runner
	ing := ingest.New(st, time.Duration(cfg.LookbackDays)*24*time.Hour)
	r := runner.New(cfg.Query, cfg.MaxResults, f, ing, st, composer, pubs)

	// Single-run mode: run the pipeline once and exit
	if *once {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		log.Println("Running report (once mode)...")
		if err := r.Run(ctx); err != nil {
			log.Fatalf("Pipeline failed: %v", err)
		}
		log.Println("Done")
		return
	}

	// Set up context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Run immediately on startup if configured
	if cfg.RunOnStart {
		log.Println("Running initial report...")
		if err := r.Run(ctx); err != nil {
			log.Printf("Initial run failed: %v", err)
		}
	}

	// Set up cron scheduler
	c := cron.New()
	_, err = c.AddFunc(cfg.Schedule, func() {
		log.Println("Cron triggered, running report...")
		if err := r.Run(ctx); err != nil {
			log.Printf("Scheduled run failed: %v", err)
		}
	})
	if err != nil {
		log.Fatalf("Failed to set up cron schedule %q: %v", cfg.Schedule, err)
	}
	c.Start()
	log.Printf("Scheduled report with cron expression: %s", cfg.Schedule)

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	log.Printf("Received signal %v, shutting down...", sig)

	// Graceful shutdown
	cancel()
	c.Stop()

	if webPub != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := webPub.Shutdown(shutdownCtx); err != nil {
			log.Printf("Web server shutdown error: %v", err)
		}
	}

	log.Println("Shutdown complete")
}
