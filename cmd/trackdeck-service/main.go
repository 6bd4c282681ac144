// Copyright 2026 The Trackdeck Authors
// SPDX-License-Identifier: Apache-2.0

// trackdeck-service is the agent API server. It hosts the JIRA and
// Azure DevOps assistants behind the invoke/stream HTTP API, persists
// conversation threads in the checkpoint store, and serves model
// traffic through the configured LLM providers. All configuration
// comes from the environment (and an optional .env file); see
// lib/config for the contract.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/trackdeck/trackdeck/lib/agent"
	"github.com/trackdeck/trackdeck/lib/azuredevops"
	"github.com/trackdeck/trackdeck/lib/checkpoint"
	"github.com/trackdeck/trackdeck/lib/config"
	"github.com/trackdeck/trackdeck/lib/jira"
	"github.com/trackdeck/trackdeck/lib/llm"
	"github.com/trackdeck/trackdeck/lib/process"
	"github.com/trackdeck/trackdeck/lib/service"
	"github.com/trackdeck/trackdeck/lib/version"
)

func main() {
	if err := run(); err != nil {
		process.Fatal(err)
	}
}

func run() error {
	var showVersion bool
	flag.BoolVar(&showVersion, "version", false, "print version information and exit")
	flag.Parse()

	if showVersion {
		version.Print("trackdeck-service")
		return nil
	}

	ctx, stop := process.InterruptContext(context.Background())
	defer stop()

	settings, err := config.Load()
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if settings.Dev() {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	storeConfig := checkpoint.Config{
		Backend:    settings.DatabaseType,
		SQLitePath: settings.SQLiteDBPath,
		Logger:     logger,
	}
	if settings.DatabaseType == config.DatabasePostgres {
		storeConfig.PostgresURL = settings.PostgresURL()
	}
	store, err := checkpoint.Open(ctx, storeConfig)
	if err != nil {
		return fmt.Errorf("opening checkpoint store: %w", err)
	}
	defer store.Close()

	if settings.ThreadRetention > 0 {
		sweeper := checkpoint.NewSweeper(checkpoint.SweeperConfig{
			Store:     store,
			Retention: settings.ThreadRetention,
			Logger:    logger,
		})
		go sweeper.Run(ctx)
		logger.Info("thread retention sweeper running", "retention", settings.ThreadRetention.String())
	}

	providers := buildProviders(settings)

	guard := agent.NewGuard(agent.GuardConfig{
		APIKey: settings.GroqAPIKey,
		Logger: logger,
	})
	if !guard.Enabled() {
		logger.Warn("content guard disabled: GROQ_API_KEY is not set")
	}

	registry, err := buildRegistry(settings, providers, guard, logger)
	if err != nil {
		return err
	}

	if settings.AuthSecret == "" {
		logger.Warn("AUTH_SECRET is not set; the API accepts unauthenticated requests")
	}
	handler := service.NewHandler(service.HandlerConfig{
		Registry:     registry,
		Store:        store,
		Providers:    providers,
		DefaultModel: settings.DefaultModel,
		AuthSecret:   settings.AuthSecret,
		Logger:       logger,
	})

	server := service.NewHTTPServer(service.HTTPServerConfig{
		Address: settings.Addr(),
		Handler: handler,
		Logger:  logger,
	})

	serveDone := make(chan error, 1)
	go func() {
		serveDone <- server.Serve(ctx)
	}()

	select {
	case <-server.Ready():
		logger.Info("agent service running",
			"address", server.Addr().String(),
			"base_url", settings.BaseURL(),
			"default_agent", registry.DefaultKey(),
			"default_model", settings.DefaultModel,
			"agents", registry.Len(),
			"database", settings.DatabaseType,
		)
	case err := <-serveDone:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
		return ctx.Err()
	}

	// Wait for the shutdown signal, then let the server drain.
	<-ctx.Done()
	logger.Info("shutting down")
	return <-serveDone
}

// buildProviders wires one provider per vendor credential. Which
// catalog models actually serve follows from this map.
func buildProviders(settings *config.Settings) map[llm.Vendor]llm.Provider {
	providers := make(map[llm.Vendor]llm.Provider)
	if settings.OpenAIAPIKey != "" {
		providers[llm.VendorOpenAI] = llm.NewOpenAI(llm.Config{APIKey: settings.OpenAIAPIKey})
	}
	if settings.AnthropicAPIKey != "" {
		providers[llm.VendorAnthropic] = llm.NewAnthropic(llm.Config{APIKey: settings.AnthropicAPIKey})
	}
	return providers
}

// buildRegistry registers an assistant per configured platform: the
// JIRA assistant and its supervisor when JIRA credentials are present,
// the Azure DevOps assistant when a PAT is. The default agent is JIRA
// when available, Azure DevOps otherwise.
func buildRegistry(settings *config.Settings, providers map[llm.Vendor]llm.Provider, guard *agent.Guard, logger *slog.Logger) (*agent.Registry, error) {
	defaultKey := agent.KeyJIRAAssistant
	if !settings.JIRAConfigured() {
		defaultKey = agent.KeyAzureDevOpsAssistant
	}
	registry := agent.NewRegistry(defaultKey)

	register := func(assistant *agent.Assistant) error {
		assistant.Logger = logger
		if err := registry.Register(assistant); err != nil {
			return err
		}
		logger.Info("assistant registered", "agent", assistant.Key)
		return nil
	}

	if settings.JIRAConfigured() {
		client, err := jira.NewClient(jira.Config{
			BaseURL:  settings.JIRAURL,
			Email:    settings.JIRAEmail,
			APIToken: settings.JIRAAPIToken,
			Logger:   logger,
		})
		if err != nil {
			return nil, fmt.Errorf("configuring JIRA client: %w", err)
		}
		if err := register(agent.NewJIRAAssistant(client, guard)); err != nil {
			return nil, err
		}

		// Specialist sub-assistants are pinned to the default model;
		// config validation guarantees its vendor has a provider.
		vendor, _ := llm.VendorOf(settings.DefaultModel)
		supervisor := agent.NewJIRASupervisor(client, agent.SupervisorConfig{
			Provider: providers[vendor],
			Model:    settings.DefaultModel,
			Logger:   logger,
		})
		if err := register(supervisor); err != nil {
			return nil, err
		}
	}

	if settings.AzureDevOpsConfigured() {
		client, err := azuredevops.NewClient(azuredevops.Config{
			OrgURL: settings.AzureDevOpsOrgURL,
			PAT:    settings.AzureDevOpsPAT,
			Logger: logger,
		})
		if err != nil {
			return nil, fmt.Errorf("configuring Azure DevOps client: %w", err)
		}
		if err := register(agent.NewAzureDevOpsAssistant(client, guard)); err != nil {
			return nil, err
		}
	}

	return registry, nil
}
