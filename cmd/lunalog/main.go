package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"lunalog/internal/client"
	"lunalog/internal/config"
)

var (
	configPath string
	logLevel   string
)

// rootCmd is the lunalog terminal client
var rootCmd = &cobra.Command{
	Use:   "lunalog",
	Short: "Mood journal in your terminal",
	Long: `LunaLog asks a short series of questions, scores your mood and keeps a
history of your entries on the LunaLog server.

Available commands:
  journal - answer today's questionnaire
  history - list past entries`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ./lunalog.yaml or ~/.lunalog/lunalog.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override LOG_LEVEL")
	rootCmd.AddCommand(journalCmd, historyCmd)
}

// session is the resolved config, logger and API client of one invocation
type session struct {
	cfg    *config.Config
	logger *zap.Logger
	api    *client.Client
}

func newSession() (*session, error) {
	cfg, err := config.LoadFile(configPath)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	logger := zap.NewNop()
	// the TUI owns the terminal, so logs stay off unless asked for
	if logLevel != "" {
		if logger, err = config.NewLogger(cfg.LogLevel); err != nil {
			return nil, err
		}
	}
	return &session{
		cfg:    cfg,
		logger: logger,
		api:    client.New(cfg.APIBaseURL, cfg.SubmitTimeout, logger),
	}, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
