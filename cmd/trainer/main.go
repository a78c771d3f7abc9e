package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/english-rpg/trainer/internal/cli"
	"github.com/english-rpg/trainer/internal/gateway"
	"github.com/english-rpg/trainer/internal/importer"
	"github.com/english-rpg/trainer/internal/infrastructure/config"
	"github.com/english-rpg/trainer/internal/service"
	"github.com/english-rpg/trainer/internal/store"
	"github.com/english-rpg/trainer/internal/ui"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}

	// Structured logs go to a file; stdout belongs to the console UI.
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		os.Stderr.WriteString("cannot create data directory: " + err.Error() + "\n")
		os.Exit(1)
	}
	logFile, err := os.OpenFile(cfg.LogPath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		os.Stderr.WriteString("cannot open log file: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer logFile.Close()
	logger := slog.New(slog.NewJSONHandler(logFile, nil))

	// ── Dependencies ────────────────────────────────────────────────
	st := store.NewFileStore(cfg.StatePath(), cfg.LockPath(), logger)

	policy := gateway.DefaultPolicy()
	policy.Timeout = cfg.Timeout
	policy.MaxRetries = cfg.MaxRetries

	var opts []gateway.Option
	if cfg.CacheEnabled {
		opts = append(opts, gateway.WithCache(cfg.CacheSize, cfg.CacheTTL))
	}
	gw := gateway.NewOpenAIGateway(cfg.BaseURL, cfg.APIKey, cfg.Model, policy, logger, opts...)

	vocabulary := service.NewVocabularyService(gw, logger)
	app := cli.New(cli.Deps{
		Console:       ui.New(os.Stdin, os.Stdout),
		Store:         st,
		Exercises:     service.NewExerciseService(gw, logger),
		Lessons:       service.NewLessonService(gw, logger),
		Conversations: service.NewConversationService(gw, logger),
		Vocabulary:    vocabulary,
		Challenges:    service.NewChallengeService(gw, logger),
		Importer:      importer.New(vocabulary, logger),
		Logger:        logger,
		MaxParallel:   cfg.MaxParallel,
	})

	// Ctrl-C cancels in-flight model calls; the current command finishes
	// its state cycle before the loop exits.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("session started", "base_url", cfg.BaseURL, "model", cfg.Model)
	if err := app.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("session ended with error", "error", err)
		os.Exit(1)
	}
	logger.Info("session ended")
}
