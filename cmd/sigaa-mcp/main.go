// Package main runs the SIGAA UFPA MCP server: a browser-automation
// session against the student portal exposed as MCP tools over stdio
// or SSE.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/entrhq/sigaa-mcp/pkg/config"
	"github.com/entrhq/sigaa-mcp/pkg/drive"
	"github.com/entrhq/sigaa-mcp/pkg/llm/openai"
	"github.com/entrhq/sigaa-mcp/pkg/logging"
	"github.com/entrhq/sigaa-mcp/pkg/pdf"
	"github.com/entrhq/sigaa-mcp/pkg/portal"
	"github.com/entrhq/sigaa-mcp/pkg/server"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version and exit")
	envFile := flag.String("env-file", "", "Path to a .env file (default: .env in the working directory)")
	flag.Parse()

	if *showVersion {
		fmt.Printf("sigaa-mcp v%s\n", server.Version)
		return
	}

	// Missing .env is fine; the environment may already be populated.
	if *envFile != "" {
		if err := godotenv.Load(*envFile); err != nil {
			log.Fatalf("failed to load %s: %v", *envFile, err)
		}
	} else {
		_ = godotenv.Load()
	}

	if err := run(); err != nil {
		log.Printf("sigaa-mcp failed: %v", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.FromEnv()
	if err := cfg.EnsureDirs(); err != nil {
		return fmt.Errorf("failed to create working directories: %w", err)
	}

	logger, err := logging.NewLogger("server")
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer logger.Close()

	// The LLM provider is optional: without it the natural-language
	// locator fallback, structured extraction and custom tasks report
	// themselves unavailable instead of failing at startup.
	var provider *openai.Provider
	if cfg.OpenAIAPIKey != "" {
		provider, err = openai.NewProvider(cfg.OpenAIAPIKey, openai.WithModel(cfg.Model))
		if err != nil {
			return fmt.Errorf("failed to initialize llm provider: %w", err)
		}
		logger.Infof("llm provider ready (model %s)", provider.Model())
	} else {
		logger.Warnf("OPENAI_API_KEY not set, running with fixed selectors only")
	}

	manager := newManager(cfg, provider, logger)
	if err := manager.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize browser runtime: %w", err)
	}
	defer manager.Shutdown()

	var driveSvc server.DriveService
	if drive.IsConfigured(cfg) {
		svc, err := drive.NewService(context.Background(), cfg, logger)
		if err != nil {
			// Drive is an optional collaborator; a broken setup only
			// disables the drive_* tools.
			logger.Errorf("drive unavailable: %v", err)
		} else {
			driveSvc = svc
			logger.Infof("drive ready (folder %s)", svc.FolderID())
		}
	} else {
		logger.Infof("drive not configured, drive tools disabled")
	}

	srv := server.New(cfg, manager, pdf.NewExtractor(logger), driveSvc, logger)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Infof("shutting down")
		manager.Shutdown()
		logger.Close()
		os.Exit(0)
	}()

	return srv.Serve()
}

func newManager(cfg *config.Config, provider *openai.Provider, logger *logging.Logger) *portal.Manager {
	if provider == nil {
		// Avoid a typed-nil interface inside the manager.
		return portal.NewManager(cfg, nil, logger)
	}
	return portal.NewManager(cfg, provider, logger)
}
