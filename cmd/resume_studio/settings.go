package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/jonathan/resume-studio/internal/config"
	"github.com/jonathan/resume-studio/internal/content"
	"github.com/jonathan/resume-studio/internal/export"
	"github.com/jonathan/resume-studio/internal/filter"
	"github.com/jonathan/resume-studio/internal/gateway"
	"github.com/jonathan/resume-studio/internal/llm"
	"github.com/jonathan/resume-studio/internal/logging"
	"github.com/jonathan/resume-studio/internal/metrics"
	"github.com/jonathan/resume-studio/internal/session"
	"github.com/spf13/cobra"
)

// loadSettings resolves the configuration: defaults, then the config file,
// then environment variables, then flags that were set explicitly.
func loadSettings(cmd *cobra.Command, override func(*config.Config)) (*config.Config, error) {
	cfg := &config.Config{}
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	merged := cfg.MergeWithDefaults(config.Defaults())
	cfg = &merged

	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if override != nil {
		override(cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// assistantStack is the gateway wiring of one process.
type assistantStack struct {
	// Invoker is what assistant jobs call.
	Invoker gateway.Invoker
	// Backend is the in-process gateway, nil without an API key.
	Backend *gateway.Handler
	close   func() error
}

func (a *assistantStack) Close() error {
	if a.close == nil {
		return nil
	}
	return a.close()
}

// buildAssistant prefers a remote gateway, then an in-process backend, then
// an invoker that reports the assistant as unavailable.
func buildAssistant(ctx context.Context, cfg *config.Config, log *logging.Logger, rec *metrics.Recorder) (*assistantStack, error) {
	stack := &assistantStack{Invoker: gateway.Unavailable{}}

	if cfg.APIKey != "" {
		client, err := llm.NewClient(ctx, llm.DefaultConfig(), cfg.APIKey)
		if err != nil {
			return nil, fmt.Errorf("failed to create LLM client: %w", err)
		}
		stack.Backend = gateway.NewHandler(client, log.With("component", "gateway"), rec)
		stack.Invoker = stack.Backend
		stack.close = client.Close
	}

	if cfg.GatewayURL != "" {
		stack.Invoker = gateway.NewClient(cfg.GatewayURL,
			gateway.WithHTTPClient(&http.Client{Timeout: cfg.JobTimeout()}),
			gateway.WithClientMetrics(rec),
		)
	}
	return stack, nil
}

func exportOptions(cfg *config.Config) export.Options {
	opts := export.DefaultOptions()
	opts.PageSize = cfg.PageSize
	opts.Orientation = cfg.Orientation
	opts.Margins = cfg.MarginInches
	return opts
}

func newManager(cfg *config.Config, invoker gateway.Invoker, renderer export.Renderer, log *logging.Logger, rec *metrics.Recorder) *session.Manager {
	return session.NewManager(session.Deps{
		Loader:            content.NewLoader(),
		Invoker:           invoker,
		Renderer:          renderer,
		Log:               log,
		Metrics:           rec,
		FilterMap:         filter.DefaultFilterMap(),
		DefaultLanguage:   cfg.DefaultLanguage,
		CollapsedDefaults: cfg.CollapsedDefaults(),
		ExportOptions:     exportOptions(cfg),
		ExportSettle:      cfg.ExportSettle(),
		JobTimeout:        cfg.JobTimeout(),
		IdleTimeout:       cfg.SessionIdle(),
	})
}

func newRenderer(cfg *config.Config) *export.ChromeRenderer {
	r := export.NewChromeRenderer(0)
	r.ExecPath = cfg.ChromePath
	return r
}
