package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"dooby/internal/auth"
	"dooby/internal/config"
	"dooby/internal/server"
	"dooby/internal/store"
)

var (
	// Global flags
	configPath string
	verbose    bool

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "dooby",
	Short: "dooby - multi-user to-do lists with sharing",
	Long: `dooby serves a multi-user to-do list API: accounts, task lists,
priorities and deadlines, soft deletion with undo, list sharing with
collaborators, and signed password-reset tokens.

Run without arguments to start the server.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zapCfg := zap.NewProductionConfig()
		if verbose {
			zapCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zapCfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runServe,
}

// serveCmd runs the HTTP server explicitly.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

// initDBCmd creates or migrates the database without serving.
var initDBCmd = &cobra.Command{
	Use:   "init-db",
	Short: "Create or migrate the database, then exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		st, err := store.Open(cfg.Storage.DatabasePath)
		if err != nil {
			return fmt.Errorf("failed to open store: %w", err)
		}
		defer st.Close()
		logger.Info("database ready", zap.String("path", cfg.Storage.DatabasePath))
		return nil
	},
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cfg.Auth.Secret == "dev_secret_key" {
		logger.Warn("running with the development signing secret; set DOOBY_SECRET")
	}

	st, err := store.Open(cfg.Storage.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer st.Close()

	ttl, err := cfg.SessionTTL()
	if err != nil {
		return err
	}
	tokens := auth.NewTokens(cfg.Auth.Secret, ttl)

	srv := server.New(st, tokens, logger)
	return srv.Run(cfg.Server.Addr)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "dooby.yaml", "Path to config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(initDBCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
