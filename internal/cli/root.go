// internal/cli/root.go
package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"monday-bi-agent/internal/agent"
	"monday-bi-agent/internal/board"
	"monday-bi-agent/internal/common/config"
	"monday-bi-agent/internal/common/logger"
	"monday-bi-agent/internal/common/observability"
	"monday-bi-agent/internal/llm"
)

var (
	// Global flags
	cfgFile  string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "bi-agent",
	Short: "Business-intelligence answers over the deals and work-orders boards",
	Long: `bi-agent fetches the deals and work-orders boards on every question,
detects which columns carry status, revenue and company names, and answers
from a fixed set of analytics or, failing those, from a language model.`,
	SilenceUsage: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./configs/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (overrides config)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(askCmd)
}

func loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if cfgFile != "" {
		cfg, err = config.LoadFromFile(cfgFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	return cfg, nil
}

// app bundles what both commands build from the config.
type app struct {
	cfg   *config.Config
	log   logger.Logger
	obs   *observability.Observability
	agent *agent.Agent
}

func newApp(cfg *config.Config) *app {
	log := logger.NewStructured(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	obs := observability.New(cfg.Observability.ServiceName, cfg.Observability.JaegerEndpoint)

	fetcher := board.NewClient(board.Config{
		APIURL:     cfg.Monday.APIURL,
		APIVersion: cfg.Monday.APIVersion,
		PageLimit:  cfg.Monday.PageLimit,
		Timeout:    config.GetDuration(cfg.Monday.Timeout),
	})
	generator := llm.NewGeminiClient(&llm.Config{
		BaseURL: cfg.GenAI.BaseURL,
		Model:   cfg.GenAI.Model,
		Timeout: config.GetDuration(cfg.GenAI.Timeout),
	})

	return &app{
		cfg: cfg,
		log: log,
		obs: obs,
		agent: agent.New(agent.Options{
			Fetcher:       fetcher,
			Generator:     generator,
			Lookup:        config.EnvLookup(cfg),
			Observability: obs,
			Logger:        log,
		}),
	}
}

func (a *app) close() {
	a.obs.Shutdown()
}

const shutdownTimeout = 10 * time.Second
