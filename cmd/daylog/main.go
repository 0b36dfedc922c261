package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/felixgeelhaar/daylog/adapter/cli"
	"github.com/felixgeelhaar/daylog/adapter/cli/activity"
	"github.com/felixgeelhaar/daylog/adapter/cli/diary"
	"github.com/felixgeelhaar/daylog/adapter/cli/profile"
	"github.com/felixgeelhaar/daylog/adapter/cli/task"
	"github.com/felixgeelhaar/daylog/internal/app"
	"github.com/felixgeelhaar/daylog/pkg/config"
	"github.com/felixgeelhaar/daylog/pkg/observability"
)

func main() {
	// Setup logger
	logger := observability.NewLogger(observability.DefaultLogConfig())
	cli.SetLogger(logger)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		cancel()
	}()

	// The container is built after flag parsing so --config and --verbose apply.
	cli.SetAppFactory(func(ctx context.Context, opts cli.Options) (*cli.App, func(), error) {
		cfg, err := config.Load(opts.ConfigPath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return nil, nil, fmt.Errorf("invalid config: %w", err)
		}

		logCfg := observability.DefaultLogConfig()
		logCfg.Level = observability.LogLevel(cfg.App.LogLevel)
		logCfg.Format = observability.LogFormat(cfg.App.LogFormat)
		logCfg.Environment = cfg.App.Env
		if opts.Verbose {
			logCfg.Level = observability.LogLevelDebug
		}
		logger := observability.NewLogger(logCfg)
		cli.SetLogger(logger)

		container, err := app.NewContainer(ctx, cfg, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize: %w", err)
		}
		result, err := container.Bootstrap(ctx)
		if err != nil {
			container.Close()
			return nil, nil, fmt.Errorf("failed to load journal: %w", err)
		}
		logger.Debug("journal loaded", "source", result.Source, "reset", result.Reset)

		return cli.NewApp(container), container.Close, nil
	})

	// Register commands
	cli.AddCommand(activity.Cmd)
	cli.AddCommand(task.Cmd)
	cli.AddCommand(diary.Cmd)
	cli.AddCommand(profile.Cmd)

	// Execute CLI
	cli.Execute(ctx)
}
