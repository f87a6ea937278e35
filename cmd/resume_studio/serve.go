package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jonathan/resume-studio/internal/config"
	"github.com/jonathan/resume-studio/internal/logging"
	"github.com/jonathan/resume-studio/internal/metrics"
	"github.com/jonathan/resume-studio/internal/server"
	"github.com/jonathan/resume-studio/internal/server/ratelimit"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

var (
	servePort       int
	serveCORSOrigin string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long:  `Start an HTTP server that holds visitor sessions, exports PDFs and serves the assistant gateway.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (default 8080)")
	serveCmd.Flags().StringVar(&serveCORSOrigin, "cors-origin", "", "Allowed CORS origin (default *)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings(cmd, func(c *config.Config) {
		if cmd.Flags().Changed("port") {
			c.Port = servePort
		}
		if cmd.Flags().Changed("cors-origin") {
			c.CORSOrigin = serveCORSOrigin
		}
	})
	if err != nil {
		return err
	}

	log := logging.New(cfg.LogLevel)
	defer func() { _ = log.Sync() }()

	sessionCfg, err := config.NewSessionConfig()
	if err != nil {
		return fmt.Errorf("failed to create session config: %w", err)
	}
	devMode, err := config.NewDevModeConfig()
	if err != nil {
		return fmt.Errorf("failed to create developer mode config: %w", err)
	}
	if !devMode.Enabled() {
		log.Warn("developer mode disabled, set DEV_MODE_CODE or DEV_MODE_CODE_HASH to enable it")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	rec := metrics.NewRecorder(registry)

	ctx := context.Background()
	stack, err := buildAssistant(ctx, cfg, log, rec)
	if err != nil {
		return err
	}
	defer func() { _ = stack.Close() }()
	if stack.Backend == nil && cfg.GatewayURL == "" {
		log.Warn("assistant disabled, set GEMINI_API_KEY or GATEWAY_URL to enable it")
	}

	srvCfg := server.Config{
		Port:       cfg.Port,
		CORSOrigin: cfg.CORSOrigin,
		Sessions:   newManager(cfg, stack.Invoker, newRenderer(cfg), log, rec),
		Session:    sessionCfg,
		DevMode:    devMode,
		Metrics:    promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		RateLimit:  ratelimit.LoadConfig(os.Getenv),
		Log:        log,
	}
	if stack.Backend != nil {
		srvCfg.Gateway = stack.Backend
	}

	srv, err := server.New(srvCfg)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}
	return srv.Start(ctx)
}
