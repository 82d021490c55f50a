package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/MikeSquared-Agency/bep/internal/backend"
	"github.com/MikeSquared-Agency/bep/internal/config"
	"github.com/MikeSquared-Agency/bep/internal/format"
	"github.com/MikeSquared-Agency/bep/internal/session"
	"github.com/MikeSquared-Agency/bep/internal/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "bep:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()

	logger, closeLog, err := setupLogging(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client := backend.NewClient(cfg.APIURL, cfg.DocsURL, cfg.RequestTimeout)
	sess := session.New(client,
		session.WithFormatter(format.New(cfg.TipMarker)),
		session.WithLogger(logger),
	)
	client.SetSessionID(sess.ID().String())

	logger.Info("bep client starting", "session_id", sess.ID(), "api_url", cfg.APIURL, "docs_url", cfg.DocsURL)

	p := tea.NewProgram(tui.NewModel(ctx, sess, logger), tea.WithAltScreen(), tea.WithContext(ctx))
	tui.Notify(sess, p)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	logger.Info("bep client stopped", "session_id", sess.ID())
	return nil
}

// setupLogging writes JSON logs to path, or discards them when path is empty
// so the terminal UI is not disturbed.
func setupLogging(path, level string) (*slog.Logger, func(), error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}

	if path == "" {
		return slog.New(slog.NewJSONHandler(io.Discard, nil)), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger := slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: lvl}))
	return logger, func() { f.Close() }, nil
}
