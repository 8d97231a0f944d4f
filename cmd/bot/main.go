// Command bot runs the condor signal engine: a scheduled evaluator that
// fetches the option chain, decides entries and exits, and notifies the
// operator. It never places orders.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"nifty-condor-bot/internal/config"
	"nifty-condor-bot/internal/market"
	"nifty-condor-bot/internal/notify"
	"nifty-condor-bot/internal/recorder"
	"nifty-condor-bot/internal/storage"
	"nifty-condor-bot/internal/strategy"
)

type app struct {
	cfg      *config.Config
	strat    strategy.Config
	logger   *logrus.Logger
	provider market.Provider
	store    storage.Store
	rec      recorder.Recorder
	notifier notify.Notifier
	now      func() time.Time
}

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	mode := flag.String("mode", "daemon", "run mode: entry|exit|dryrun|daemon")
	flag.Parse()

	// Secrets come from the environment; a local .env is optional.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Environment.LogLevel)

	a, cleanup, err := buildApp(cfg, logger, *mode)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize")
	}
	defer cleanup()

	var runErr error
	switch *mode {
	case "entry":
		runErr = a.runEntry()
	case "exit":
		runErr = a.runExit()
	case "dryrun":
		runErr = a.runDryRun()
	case "daemon":
		runErr = a.runDaemon()
	default:
		logger.Fatalf("unknown mode %q", *mode)
	}
	if runErr != nil {
		logger.WithError(runErr).Fatal("Run failed")
	}
}

func newLogger(level string) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)
	return logger
}

func buildApp(cfg *config.Config, logger *logrus.Logger, mode string) (*app, func(), error) {
	strat, err := cfg.StrategyConfig()
	if err != nil {
		return nil, nil, err
	}

	a := &app{
		cfg:    cfg,
		strat:  strat,
		logger: logger,
		now:    time.Now,
	}

	nse := market.NewNSEClient(logger,
		market.WithBaseURL(cfg.Market.BaseURL),
		market.WithTimeout(time.Duration(cfg.Market.TimeoutSeconds)*time.Second),
		market.WithRateLimit(cfg.Market.RequestsPerMin),
	)
	a.provider = market.NewBreakerProvider(nse, logger)

	store, err := storage.NewJSONStore(cfg.Storage.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("storage: %w", err)
	}
	a.store = store

	cleanup := func() {}
	if cfg.Recorder.SQLitePath != "" {
		rec, err := recorder.NewSQLiteRecorder(cfg.Recorder.SQLitePath, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("recorder: %w", err)
		}
		a.rec = rec
		cleanup = func() {
			if err := rec.Close(); err != nil {
				logger.WithError(err).Warn("Failed to close recorder")
			}
		}
	} else {
		a.rec = recorder.Noop{}
	}

	if cfg.Telegram.BotToken != "" && cfg.Telegram.ChatID != "" && mode != "dryrun" {
		a.notifier = notify.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, logger)
	}

	return a, cleanup, nil
}

// send delivers a message if a notifier is configured. Notification failures
// never abort the cycle.
func (a *app) send(text string) {
	if a.notifier == nil {
		return
	}
	ctx, cancel := contextWithTimeout()
	defer cancel()
	if t, ok := a.notifier.(*notify.TelegramNotifier); ok {
		if err := t.SendWithRetry(ctx, text, 3); err != nil {
			a.logger.WithError(err).Error("Notification delivery failed")
		}
		return
	}
	if err := a.notifier.Send(ctx, text); err != nil {
		a.logger.WithError(err).Error("Notification delivery failed")
	}
}
