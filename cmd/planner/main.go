package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"planner/internal/cli"
	"planner/internal/common"
	"planner/internal/config"
)

var (
	configDir string
	dataDir   string
	version   = "dev"
	cfg       *config.Config

	rootCmd = &cobra.Command{
		Use:   "planner",
		Short: "Purchase planning and money tracking",
		Long: `planner keeps your planned purchases and money movements in plain CSV
files, snapshots them with a two-tier retention policy, and ranks purchases by
a configurable priority score so the stale, urgent, and affordable float up.`,
		PersistentPreRunE: initConfig,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "config directory (default: $HOME/.config/planner)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory (default: $HOME/.local/share/planner)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "console", "log format (console, json)")

	_ = viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("logging.format", rootCmd.PersistentFlags().Lookup("log-format"))

	rootCmd.AddCommand(itemsCmd())
	rootCmd.AddCommand(moneyCmd())
	rootCmd.AddCommand(backupCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(importCmd())
	rootCmd.AddCommand(versionCmd())
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		slog.Info("Received interrupt signal, shutting down gracefully...")
		cancel()
	}()

	err := rootCmd.ExecuteContext(ctx)
	cancel()

	if err != nil {
		fmt.Fprintln(os.Stderr, cli.FormatError(err.Error()))
		os.Exit(1)
	}
}

func initConfig(_ *cobra.Command, _ []string) error {
	if err := setupLogging(); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}

	loaded, err := config.Load(config.Options{
		Dir:     config.ExpandPath(configDir),
		DataDir: config.ExpandPath(dataDir),
	})
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	cfg = loaded

	cli.ApplyTheme(cfg.ActiveTheme())

	// Config warnings are informational; never block the command.
	for _, warning := range cfg.Warnings {
		fmt.Fprintln(os.Stderr, cli.FormatWarning(warning))
	}

	return nil
}

func setupLogging() error {
	level, err := common.ParseLevel(viper.GetString("logging.level"))
	if err != nil {
		return err
	}
	return common.SetupLogger(level, viper.GetString("logging.format"))
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("planner version %s\n", version)
		},
	}
}
