// Package main is the entry point for the landsculpt terrain editor.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/landsculpt/internal/config"
	"github.com/Faultbox/landsculpt/internal/editor"
	"github.com/Faultbox/landsculpt/internal/logger"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.LoggerOptions()); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		logger.Error("editor error", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
	logger.Info("editor closed normally")
	logger.Sync()
}

func run(cfg *config.Config) error {
	logger.Info("=== Landsculpt ===")
	logger.Sugar.Debugf("config: %+v", cfg)

	app, err := editor.New(cfg)
	if err != nil {
		return fmt.Errorf("create editor: %w", err)
	}
	defer app.Close()

	return app.Run()
}
