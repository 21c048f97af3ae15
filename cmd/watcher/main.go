package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/betbot/copycat/internal/clob"
	"github.com/betbot/copycat/internal/dataapi"
	"github.com/betbot/copycat/internal/notify"
	"github.com/betbot/copycat/internal/runner"
	"github.com/betbot/copycat/internal/snapshot"
	"github.com/betbot/copycat/internal/trading"
	"github.com/betbot/copycat/pkg/config"
	"github.com/betbot/copycat/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "optional YAML config file (env vars override it)")
	dryRun := flag.Bool("dry-run", false, "compute and log trade decisions without submitting orders")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if *dryRun {
		cfg.DryRun = true
	}

	if err := logger.Init(logger.Config{Level: cfg.LogLevel, OutputFile: cfg.LogFile}); err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		logger.Errorf("invalid configuration: %v", err)
		os.Exit(1)
	}

	fetcher := dataapi.NewClient(cfg.DataAPIHost)
	store := snapshot.NewStore(cfg.SnapshotFile)

	var notifier notify.Sender
	if cfg.Telegram.Token != "" && cfg.Telegram.ChatID != "" {
		notifier = notify.NewTelegram(cfg.Telegram.Token, cfg.Telegram.ChatID, "")
	} else {
		logger.Warn("telegram credentials not set, alerts disabled")
	}

	var trader runner.Trader
	if cfg.TradingEnabled() {
		venue, err := clob.NewClient(
			cfg.Venue.Host,
			cfg.Venue.ChainID,
			cfg.Venue.PrivateKey,
			clob.Credentials{
				Key:        cfg.Venue.APIKey,
				Secret:     cfg.Venue.APISecret,
				Passphrase: cfg.Venue.APIPassphrase,
			},
			cfg.Venue.FunderAddress,
			cfg.Venue.SignatureType,
		)
		if err != nil {
			logger.Errorf("init venue client: %v", err)
			os.Exit(1)
		}
		trader = trading.NewExecutor(venue, notifier, trading.Policy{
			Notional:    cfg.TradeNotional,
			MaxNotional: cfg.MaxTradeNotional,
			DryRun:      cfg.DryRun,
		})
		logger.Infof("copy trading enabled: notional=%.2f max=%.2f dryRun=%v",
			cfg.TradeNotional, cfg.MaxTradeNotional, cfg.DryRun)
	} else {
		logger.Info("venue credentials not set, running watch-only")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	r := runner.New(cfg.TargetWallet, fetcher, store, notifier, trader)
	if err := r.RunOnce(ctx); err != nil {
		logger.Errorf("run failed: %v", err)
		os.Exit(1)
	}
}
