package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lbkulinski/ffxiv-economy-bot/internal/baseline"
	"github.com/lbkulinski/ffxiv-economy-bot/internal/config"
	"github.com/lbkulinski/ffxiv-economy-bot/internal/logger"
	"github.com/lbkulinski/ffxiv-economy-bot/internal/models"
	"github.com/lbkulinski/ffxiv-economy-bot/internal/monitor"
	"github.com/lbkulinski/ffxiv-economy-bot/internal/notify"
	"github.com/lbkulinski/ffxiv-economy-bot/internal/universalis"
	"github.com/lbkulinski/ffxiv-economy-bot/internal/xivapi"
)

var configPath = flag.String("config", "configs/config.yaml", "Path to configuration file")

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	logger.Info("Configuration loaded from %s", *configPath)

	watchedItems := cfg.Watchlist.Items
	if len(watchedItems) == 0 {
		watchedItems = models.DefaultWatchlist
	}
	watchlist := models.NewWatchlist(watchedItems)

	marketClient := universalis.NewClient(cfg.Universalis.APIURL, cfg.Universalis.Timeout)
	catalogClient := xivapi.NewClient(cfg.XIVAPI.APIURL, cfg.XIVAPI.Timeout)

	cache := baseline.New(marketClient, baseline.Config{
		Region:     cfg.Universalis.Region,
		TTL:        cfg.Baseline.TTL,
		MaxRetries: cfg.Baseline.MaxRetries,
		RetryDelay: cfg.Baseline.RetryDelay,
	})

	var senders []notify.Sender
	if cfg.Discord.Enabled {
		senders = append(senders, notify.NewDiscordSender(cfg.Discord.BotToken, cfg.Discord.ChannelID, 3, time.Second))
		logger.Info("Discord sender initialized for channel %s", cfg.Discord.ChannelID)
	}
	if cfg.Telegram.Enabled {
		telegramSender, err := notify.NewTelegramSender(cfg.Telegram.BotToken, cfg.Telegram.ChatID, 3, time.Second)
		if err != nil {
			logger.Fatal("Failed to initialize Telegram sender: %v", err)
		}
		senders = append(senders, telegramSender)
		logger.Info("Telegram sender initialized")
	}
	if len(senders) == 0 {
		logger.Warn("No notification sinks enabled; alerts will only be logged")
	}
	notifier := notify.NewNotifier(senders...)

	evaluator := monitor.NewEvaluator(cache, catalogClient, notifier, cfg.Alert.ThresholdPercent)
	dispatcher := monitor.NewDispatcher(watchlist, evaluator)
	feed := universalis.NewFeed(cfg.Universalis.WSURL, cfg.Universalis.Worlds, dispatcher.HandleListings)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info("Shutdown signal received, cleaning up...")
		feed.Close()
		cancel()
	}()

	logger.Info("Watching %d items in %s (baseline TTL: %v, alert threshold: %.1f%%)",
		watchlist.Len(),
		cfg.Universalis.Region,
		cfg.Baseline.TTL,
		cfg.Alert.ThresholdPercent,
	)

	if err := feed.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Feed stopped: %v", err)
	}

	dispatcher.Wait()
	logger.Info("Service stopped")
}
