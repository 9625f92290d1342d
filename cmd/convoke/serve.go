package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/convokehq/convoke"
	"github.com/convokehq/convoke/config"
	"github.com/convokehq/convoke/logging"
	"github.com/convokehq/convoke/model"
	"github.com/convokehq/convoke/model/anthropic"
	"github.com/convokehq/convoke/model/openai"
	"github.com/convokehq/convoke/server"
)

var addrFlag string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the orchestrator HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func init() {
	serveCmd.Flags().StringVar(&addrFlag, "addr", "", "listen address (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe() error {
	// Optional .env for local development; provider SDK keys live there.
	_ = godotenv.Load()

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if addrFlag != "" {
		cfg.Addr = addrFlag
	}

	logger := buildLogger(cfg)

	mdl, err := buildModel(cfg.Model)
	if err != nil {
		return err
	}

	orch := convoke.New(mdl, func(o *convoke.Options) {
		o.AgentsDir = cfg.AgentsDir
		o.ToolsDir = cfg.ToolsDir
		o.HistoryLimit = cfg.HistoryLimit
		o.Logger = logger
	})
	if err := orch.LoadAgents(); err != nil {
		return fmt.Errorf("load agents: %w", err)
	}

	srv := server.New(orch, func(o *server.Options) {
		o.StaticDir = cfg.StaticDir
		o.Logger = logger
	})

	logger.Info("server starting",
		"addr", cfg.Addr,
		"agents", orch.Store().Len(),
		"model", mdl.Info().Name,
		"provider", mdl.Info().Provider,
	)

	return http.ListenAndServe(cfg.Addr, srv.Handler())
}

func buildLogger(cfg config.Config) logging.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	if cfg.LogFormat == "text" {
		return logging.NewTextLogger(os.Stderr, level)
	}
	return logging.NewJSONLogger(os.Stderr, level)
}

func buildModel(cfg config.ModelConfig) (model.Model, error) {
	switch strings.ToLower(cfg.Provider) {
	case "openai", "":
		return openai.NewModel(func(o *openai.Options) {
			if cfg.Name != "" {
				o.Model = cfg.Name
			}
			o.Temperature = cfg.Temperature
		}), nil
	case "anthropic":
		return anthropic.NewModel(func(o *anthropic.Options) {
			if cfg.Name != "" {
				o.Model = cfg.Name
			}
			o.Temperature = cfg.Temperature
		}), nil
	case "mock":
		return model.NewMock(), nil
	default:
		return nil, fmt.Errorf("unknown model provider %q", cfg.Provider)
	}
}
