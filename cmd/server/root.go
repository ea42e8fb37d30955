package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ahmednasr/ai-in-action/embed-api/internal/config"
)

var globalConfig config.Config

var rootCmd = &cobra.Command{
	Use:   "embed-api",
	Short: "Serve a pretrained text-embedding model over HTTP",
	Long: `embed-api loads one embedding model at startup and serves it over HTTP:

  GET  /        service info and model name
  GET  /health  liveness
  GET  /ready   readiness (runs a probe through the model)
  POST /embed   {"texts": [...]} -> {"embeddings": [[...], ...]}

Running without a subcommand is the same as "embed-api serve".`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "version" || cmd.Name() == "embed" {
			return nil
		}

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		applyFlags(cmd, &cfg)
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		globalConfig = cfg

		setupLogger(cfg.LogLevel, cfg.LogFormat)
		for _, w := range cfg.Warnings {
			slog.Warn("ignored configuration value", "detail", w)
		}
		return nil
	},
	RunE: runServe,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("model", "", "embedding model identifier (overrides MODEL_NAME)")
	pf.String("backend", "", "model backend: local, ollama, openai, vertex, hash (overrides MODEL_BACKEND)")
	pf.String("host", "", "bind host (overrides HOST)")
	pf.String("port", "", "bind port (overrides PORT)")
	pf.String("log-level", "", "debug, info, warn or error (overrides LOG_LEVEL)")
}

// applyFlags copies explicitly set flags over the loaded configuration.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	override := func(name string, dst *string) {
		if flags.Changed(name) {
			if v, err := flags.GetString(name); err == nil {
				*dst = v
			}
		}
	}
	override("model", &cfg.ModelName)
	override("backend", &cfg.ModelBackend)
	override("host", &cfg.Host)
	override("port", &cfg.Port)
	override("log-level", &cfg.LogLevel)
}
