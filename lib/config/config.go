// Copyright 2026 The Trackdeck Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/caarlos0/env/v9"
	"github.com/joho/godotenv"

	"github.com/trackdeck/trackdeck/lib/llm"
)

// Checkpoint backend names accepted in DATABASE_TYPE. These match the
// backend names of lib/checkpoint, which this package deliberately
// does not import.
const (
	DatabaseSQLite   = "sqlite"
	DatabasePostgres = "postgres"
)

// Settings is the parsed environment contract. Field defaults mirror
// the env tags; a zero Settings is not valid, go through [Load].
type Settings struct {
	// Mode selects the deployment flavor. "dev" enables debug logging
	// and a localhost base URL in startup output.
	Mode string `env:"MODE"`

	// Host and Port form the service bind address.
	Host string `env:"HOST" envDefault:"0.0.0.0"`
	Port int    `env:"PORT" envDefault:"8080"`

	// AuthSecret, when set, requires clients to present it as a
	// bearer token.
	AuthSecret string `env:"AUTH_SECRET"`

	// Provider API keys. At least one must be set; each key unlocks
	// that vendor's catalog models.
	OpenAIAPIKey    string `env:"OPENAI_API_KEY"`
	AnthropicAPIKey string `env:"ANTHROPIC_API_KEY"`

	// GroqAPIKey enables the Llama Guard content guard. Empty runs
	// the assistants unguarded.
	GroqAPIKey string `env:"GROQ_API_KEY"`

	// DefaultModel serves requests that do not name a model. It must
	// belong to a vendor whose API key is set.
	DefaultModel string `env:"DEFAULT_MODEL" envDefault:"gpt-4o-mini"`

	// DatabaseType selects the checkpoint backend.
	DatabaseType string `env:"DATABASE_TYPE" envDefault:"sqlite"`
	SQLiteDBPath string `env:"SQLITE_DB_PATH" envDefault:"checkpoints.db"`

	// ThreadRetention, when positive, enables the background sweep
	// that deletes threads idle for longer than this duration. Uses Go
	// duration syntax ("720h"). Zero keeps threads forever.
	ThreadRetention time.Duration `env:"THREAD_RETENTION"`

	// Postgres connection parts, required when DatabaseType is
	// postgres.
	PostgresUser     string `env:"POSTGRES_USER"`
	PostgresPassword string `env:"POSTGRES_PASSWORD"`
	PostgresHost     string `env:"POSTGRES_HOST"`
	PostgresPort     int    `env:"POSTGRES_PORT"`
	PostgresDB       string `env:"POSTGRES_DB"`

	// JIRA platform credentials. All three together register the JIRA
	// assistants.
	JIRAURL      string `env:"JIRA_URL"`
	JIRAEmail    string `env:"JIRA_EMAIL"`
	JIRAAPIToken string `env:"JIRA_API_TOKEN"`

	// Azure DevOps platform credentials. Both together register the
	// Azure DevOps assistant.
	AzureDevOpsOrgURL string `env:"AZURE_DEVOPS_ORG_URL"`
	AzureDevOpsPAT    string `env:"AZURE_DEVOPS_PAT"`
}

// Load reads the .env file if present, parses the environment, and
// validates the result.
func Load() (*Settings, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: loading .env: %w", err)
	}

	settings := &Settings{}
	if err := env.Parse(settings); err != nil {
		return nil, fmt.Errorf("config: parsing environment: %w", err)
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

// Validate checks the settings for errors. All problems are reported
// at once.
func (settings *Settings) Validate() error {
	var errs []error

	if settings.Port < 1 || settings.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT %d is out of range", settings.Port))
	}

	if settings.OpenAIAPIKey == "" && settings.AnthropicAPIKey == "" {
		errs = append(errs, errors.New("at least one of OPENAI_API_KEY or ANTHROPIC_API_KEY must be set"))
	}

	vendor, known := llm.VendorOf(settings.DefaultModel)
	if !known {
		errs = append(errs, fmt.Errorf("DEFAULT_MODEL %q is not in the model catalog", settings.DefaultModel))
	} else if settings.ProviderKey(vendor) == "" {
		errs = append(errs, fmt.Errorf("DEFAULT_MODEL %q requires %s to be set", settings.DefaultModel, vendorKeyVar(vendor)))
	}

	if settings.ThreadRetention < 0 {
		errs = append(errs, fmt.Errorf("THREAD_RETENTION %s must not be negative", settings.ThreadRetention))
	}

	switch settings.DatabaseType {
	case DatabaseSQLite:
		if settings.SQLiteDBPath == "" {
			errs = append(errs, errors.New("SQLITE_DB_PATH must not be empty"))
		}
	case DatabasePostgres:
		for _, part := range []struct {
			name  string
			empty bool
		}{
			{"POSTGRES_USER", settings.PostgresUser == ""},
			{"POSTGRES_PASSWORD", settings.PostgresPassword == ""},
			{"POSTGRES_HOST", settings.PostgresHost == ""},
			{"POSTGRES_PORT", settings.PostgresPort == 0},
			{"POSTGRES_DB", settings.PostgresDB == ""},
		} {
			if part.empty {
				errs = append(errs, fmt.Errorf("%s is required when DATABASE_TYPE is postgres", part.name))
			}
		}
	default:
		errs = append(errs, fmt.Errorf("DATABASE_TYPE %q must be %q or %q",
			settings.DatabaseType, DatabaseSQLite, DatabasePostgres))
	}

	jiraPartial := settings.JIRAURL != "" || settings.JIRAEmail != "" || settings.JIRAAPIToken != ""
	if jiraPartial && !settings.JIRAConfigured() {
		errs = append(errs, errors.New("JIRA is partially configured: JIRA_URL, JIRA_EMAIL, and JIRA_API_TOKEN must all be set"))
	}
	devopsPartial := settings.AzureDevOpsOrgURL != "" || settings.AzureDevOpsPAT != ""
	if devopsPartial && !settings.AzureDevOpsConfigured() {
		errs = append(errs, errors.New("Azure DevOps is partially configured: AZURE_DEVOPS_ORG_URL and AZURE_DEVOPS_PAT must both be set"))
	}
	if !jiraPartial && !devopsPartial {
		errs = append(errs, errors.New("no platform configured: set JIRA_URL, JIRA_EMAIL, and JIRA_API_TOKEN, or AZURE_DEVOPS_ORG_URL and AZURE_DEVOPS_PAT"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// Dev reports whether the service runs in development mode.
func (settings *Settings) Dev() bool {
	return settings.Mode == "dev"
}

// Addr is the listener bind address.
func (settings *Settings) Addr() string {
	return net.JoinHostPort(settings.Host, strconv.Itoa(settings.Port))
}

// BaseURL is the service URL for client display. A 0.0.0.0 bind host
// is rewritten to localhost, since clients cannot dial the wildcard
// address.
func (settings *Settings) BaseURL() string {
	host := settings.Host
	if host == "0.0.0.0" {
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, strconv.Itoa(settings.Port))
}

// PostgresURL assembles the connection string from the POSTGRES_*
// parts. Credentials are URL-escaped.
func (settings *Settings) PostgresURL() string {
	connection := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(settings.PostgresUser, settings.PostgresPassword),
		Host:   net.JoinHostPort(settings.PostgresHost, strconv.Itoa(settings.PostgresPort)),
		Path:   "/" + settings.PostgresDB,
	}
	return connection.String()
}

// ProviderKey returns the API key configured for vendor, or empty.
func (settings *Settings) ProviderKey(vendor llm.Vendor) string {
	switch vendor {
	case llm.VendorOpenAI:
		return settings.OpenAIAPIKey
	case llm.VendorAnthropic:
		return settings.AnthropicAPIKey
	}
	return ""
}

// AvailableModels returns the catalog models whose vendor has an API
// key configured, in catalog order.
func (settings *Settings) AvailableModels() []string {
	var models []string
	for _, entry := range llm.Catalog() {
		if settings.ProviderKey(entry.Vendor) != "" {
			models = append(models, entry.Model)
		}
	}
	return models
}

// JIRAConfigured reports whether all JIRA credentials are present.
func (settings *Settings) JIRAConfigured() bool {
	return settings.JIRAURL != "" && settings.JIRAEmail != "" && settings.JIRAAPIToken != ""
}

// AzureDevOpsConfigured reports whether the Azure DevOps credentials
// are present.
func (settings *Settings) AzureDevOpsConfigured() bool {
	return settings.AzureDevOpsOrgURL != "" && settings.AzureDevOpsPAT != ""
}

func vendorKeyVar(vendor llm.Vendor) string {
	switch vendor {
	case llm.VendorOpenAI:
		return "OPENAI_API_KEY"
	case llm.VendorAnthropic:
		return "ANTHROPIC_API_KEY"
	}
	return "an API key"
}
