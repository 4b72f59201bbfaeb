package main

import (
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"etlstage/internal/config"
	"etlstage/internal/logging"
	"etlstage/internal/stage"
	"etlstage/store"
	"etlstage/store/memory"
	"etlstage/store/s3"
)

var version = "dev"

const (
	_ = iota
	exitFailed
	exitConfiguration
	exitInputRead
	exitTransform
	exitOutputWrite
)

func main() {
	store.Register("s3", s3.New)
	store.Register("memory", memory.NewStore)

	root := &cobra.Command{
		Use:           "etlstage",
		Short:         "Run one ETL stage of an S3-orchestrated workflow",
		Version:       version,
		RunE:          run,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	config.RegisterFlags(root.Flags())

	if err := root.Execute(); err != nil {
		logging.L().Error("stage failed", "error", err)
		os.Exit(exitCode(err))
	}
}

func run(cmd *cobra.Command, args []string) error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return err
	}

	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return errors.Join(stage.ErrConfiguration, err)
	}
	logging.Configure(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s, err := stage.Bootstrap(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := s.Close(); err != nil {
			logging.L().Warn("session teardown failed", "error", err)
		}
	}()

	return s.Run(ctx)
}

func exitCode(err error) int {
	switch {
	case errors.Is(err, stage.ErrConfiguration):
		return exitConfiguration
	case errors.Is(err, stage.ErrInputRead):
		return exitInputRead
	case errors.Is(err, stage.ErrTransform):
		return exitTransform
	case errors.Is(err, stage.ErrOutputWrite):
		return exitOutputWrite
	default:
		return exitFailed
	}
}
