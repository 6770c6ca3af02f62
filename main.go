package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/BatmanBruc/bat-bot-multitool/internal/app"
	"github.com/BatmanBruc/bat-bot-multitool/internal/config"
	"github.com/BatmanBruc/bat-bot-multitool/internal/logging"
	"github.com/BatmanBruc/bat-bot-multitool/internal/pipeline"
	"github.com/BatmanBruc/bat-bot-multitool/store"
	"github.com/BatmanBruc/bat-bot-multitool/types"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var envFile string
	serve := newServeCmd(&envFile)

	cmd := &cobra.Command{
		Use:          "bat-bot",
		Short:        "Multi-mode Telegram bot for translation, downloads, currency and file conversion",
		SilenceUsage: true,
		RunE:         serve.RunE,
	}
	cmd.PersistentPreRunE = func(*cobra.Command, []string) error {
		return config.LoadEnvFile(envFile)
	}
	cmd.PersistentFlags().StringVar(&envFile, "env-file", "config.env", "KEY=VALUE file loaded before reading the environment")

	cmd.AddCommand(serve)
	cmd.AddCommand(newMigrateCmd())
	cmd.AddCommand(newSweepCmd())
	return cmd
}

func newServeCmd(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the bot (default)",
		RunE: func(*cobra.Command, []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log, err := logging.New(cfg.LogLevel, cfg.LogFormat)
			if err != nil {
				return err
			}
			defer log.Sync()

			log.Info("starting", zap.String("env_file", *envFile), zap.String("temp_dir", cfg.TempDir))
			application := app.New(cfg, log)
			if err := application.Err(); err != nil {
				log.Error("build application", zap.Error(err))
				return err
			}
			application.Run()
			return nil
		},
	}
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the user registry migrations to POSTGRES_DSN",
		RunE: func(cmd *cobra.Command, _ []string) error {
			infra, err := config.LoadInfra()
			if err != nil {
				return err
			}
			if infra.PostgresDSN == "" {
				return fmt.Errorf("%w: POSTGRES_DSN is not set", types.ErrConfig)
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
			defer cancel()

			pg, err := store.NewPostgresStore(ctx, infra.PostgresDSN)
			if err != nil {
				return err
			}
			pg.Close()
			cmd.Println("migrations applied")
			return nil
		},
	}
}

func newSweepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Remove stale temp files left by previous runs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			infra, err := config.LoadInfra()
			if err != nil {
				return err
			}
			log, err := logging.New(infra.LogLevel, infra.LogFormat)
			if err != nil {
				return err
			}
			defer log.Sync()

			reg, err := pipeline.NewRegistry(infra.TempDir, log)
			if err != nil {
				return err
			}
			removed, err := reg.Sweep(infra.SweepMaxAge, time.Now())
			if err != nil {
				return err
			}
			cmd.Printf("removed %d files from %s\n", removed, reg.Dir())
			return nil
		},
	}
}
