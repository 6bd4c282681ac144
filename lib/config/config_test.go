// Copyright 2026 The Trackdeck Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

// contractVars is every environment variable the package reads.
var contractVars = []string{
	"MODE", "HOST", "PORT", "AUTH_SECRET",
	"OPENAI_API_KEY", "ANTHROPIC_API_KEY", "GROQ_API_KEY",
	"DEFAULT_MODEL",
	"DATABASE_TYPE", "SQLITE_DB_PATH", "THREAD_RETENTION",
	"POSTGRES_USER", "POSTGRES_PASSWORD", "POSTGRES_HOST", "POSTGRES_PORT", "POSTGRES_DB",
	"JIRA_URL", "JIRA_EMAIL", "JIRA_API_TOKEN",
	"AZURE_DEVOPS_ORG_URL", "AZURE_DEVOPS_PAT",
}

// clearEnv unsets every contract variable for the duration of the
// test, restoring prior values on cleanup, so tests are hermetic
// against whatever the host environment carries.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range contractVars {
		if value, ok := os.LookupEnv(name); ok {
			t.Setenv(name, value)
			os.Unsetenv(name)
		}
	}
}

// validSettings is a minimal passing configuration for validation
// tests to perturb.
func validSettings() *Settings {
	return &Settings{
		Host:         "0.0.0.0",
		Port:         8080,
		OpenAIAPIKey: "sk-test",
		DefaultModel: "gpt-4o-mini",
		DatabaseType: DatabaseSQLite,
		SQLiteDBPath: "checkpoints.db",
		JIRAURL:      "https://example.atlassian.net",
		JIRAEmail:    "bot@example.com",
		JIRAAPIToken: "token",
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	clearEnv(t)
	for name, value := range map[string]string{
		"MODE":                 "dev",
		"HOST":                 "10.0.0.5",
		"PORT":                 "9090",
		"AUTH_SECRET":          "hunter2",
		"OPENAI_API_KEY":       "sk-openai",
		"ANTHROPIC_API_KEY":    "sk-ant",
		"GROQ_API_KEY":         "gsk-guard",
		"DEFAULT_MODEL":        "claude-sonnet-4-5",
		"DATABASE_TYPE":        "postgres",
		"SQLITE_DB_PATH":       "unused.db",
		"THREAD_RETENTION":     "720h",
		"POSTGRES_USER":        "app",
		"POSTGRES_PASSWORD":    "secret",
		"POSTGRES_HOST":        "db.internal",
		"POSTGRES_PORT":        "5433",
		"POSTGRES_DB":          "agents",
		"JIRA_URL":             "https://example.atlassian.net",
		"JIRA_EMAIL":           "bot@example.com",
		"JIRA_API_TOKEN":       "jira-token",
		"AZURE_DEVOPS_ORG_URL": "https://dev.azure.com/example",
		"AZURE_DEVOPS_PAT":     "ado-pat",
	} {
		t.Setenv(name, value)
	}

	settings, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if !settings.Dev() {
		t.Error("Dev() = false, want true for MODE=dev")
	}
	if settings.Addr() != "10.0.0.5:9090" {
		t.Errorf("Addr = %q", settings.Addr())
	}
	if settings.AuthSecret != "hunter2" {
		t.Errorf("AuthSecret = %q", settings.AuthSecret)
	}
	if settings.DefaultModel != "claude-sonnet-4-5" {
		t.Errorf("DefaultModel = %q", settings.DefaultModel)
	}
	if settings.DatabaseType != DatabasePostgres {
		t.Errorf("DatabaseType = %q", settings.DatabaseType)
	}
	if !settings.JIRAConfigured() || !settings.AzureDevOpsConfigured() {
		t.Error("both platforms should report configured")
	}
	if settings.GroqAPIKey != "gsk-guard" {
		t.Errorf("GroqAPIKey = %q", settings.GroqAPIKey)
	}
	if settings.ThreadRetention != 720*time.Hour {
		t.Errorf("ThreadRetention = %s, want 720h", settings.ThreadRetention)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("JIRA_URL", "https://example.atlassian.net")
	t.Setenv("JIRA_EMAIL", "bot@example.com")
	t.Setenv("JIRA_API_TOKEN", "token")

	settings, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if settings.Host != "0.0.0.0" || settings.Port != 8080 {
		t.Errorf("bind defaults = %s:%d, want 0.0.0.0:8080", settings.Host, settings.Port)
	}
	if settings.DefaultModel != "gpt-4o-mini" {
		t.Errorf("DefaultModel = %q, want gpt-4o-mini", settings.DefaultModel)
	}
	if settings.DatabaseType != DatabaseSQLite || settings.SQLiteDBPath != "checkpoints.db" {
		t.Errorf("database defaults = %q %q", settings.DatabaseType, settings.SQLiteDBPath)
	}
	if settings.Dev() {
		t.Error("Dev() = true without MODE")
	}
	if settings.AzureDevOpsConfigured() {
		t.Error("Azure DevOps reports configured without credentials")
	}
}

func TestDotEnvFileFillsGaps(t *testing.T) {
	clearEnv(t)

	dir := t.TempDir()
	dotenv := "MODE=dev\nPORT=7777\nOPENAI_API_KEY=sk-from-dotenv\n"
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(dotenv), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)
	t.Cleanup(func() {
		// godotenv injects file values into the process environment.
		os.Unsetenv("MODE")
		os.Unsetenv("OPENAI_API_KEY")
	})

	// Real environment wins over the file; the file fills the rest.
	t.Setenv("PORT", "9001")
	t.Setenv("JIRA_URL", "https://example.atlassian.net")
	t.Setenv("JIRA_EMAIL", "bot@example.com")
	t.Setenv("JIRA_API_TOKEN", "token")

	settings, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if settings.Port != 9001 {
		t.Errorf("Port = %d, want the environment's 9001 over the file's 7777", settings.Port)
	}
	if settings.Mode != "dev" {
		t.Errorf("Mode = %q, want dev from the .env file", settings.Mode)
	}
	if settings.OpenAIAPIKey != "sk-from-dotenv" {
		t.Errorf("OpenAIAPIKey = %q, want the .env value", settings.OpenAIAPIKey)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr []string
	}{
		{
			name:   "valid",
			mutate: func(*Settings) {},
		},
		{
			name: "no provider keys",
			mutate: func(settings *Settings) {
				settings.OpenAIAPIKey = ""
			},
			wantErr: []string{"OPENAI_API_KEY or ANTHROPIC_API_KEY"},
		},
		{
			name: "unknown default model",
			mutate: func(settings *Settings) {
				settings.DefaultModel = "gpt-5-turbo-preview"
			},
			wantErr: []string{"not in the model catalog"},
		},
		{
			name: "default model without its vendor key",
			mutate: func(settings *Settings) {
				settings.DefaultModel = "claude-sonnet-4-5"
			},
			wantErr: []string{"requires ANTHROPIC_API_KEY"},
		},
		{
			name: "unknown database type",
			mutate: func(settings *Settings) {
				settings.DatabaseType = "mysql"
			},
			wantErr: []string{`DATABASE_TYPE "mysql"`},
		},
		{
			name: "postgres with missing parts",
			mutate: func(settings *Settings) {
				settings.DatabaseType = DatabasePostgres
				settings.PostgresUser = "app"
			},
			wantErr: []string{
				"POSTGRES_PASSWORD is required",
				"POSTGRES_HOST is required",
				"POSTGRES_PORT is required",
				"POSTGRES_DB is required",
			},
		},
		{
			name: "partial jira credentials",
			mutate: func(settings *Settings) {
				settings.JIRAAPIToken = ""
			},
			wantErr: []string{"JIRA is partially configured"},
		},
		{
			name: "partial azure devops credentials",
			mutate: func(settings *Settings) {
				settings.AzureDevOpsOrgURL = "https://dev.azure.com/example"
			},
			wantErr: []string{"AZURE_DEVOPS_ORG_URL and AZURE_DEVOPS_PAT"},
		},
		{
			name: "no platform at all",
			mutate: func(settings *Settings) {
				settings.JIRAURL = ""
				settings.JIRAEmail = ""
				settings.JIRAAPIToken = ""
			},
			wantErr: []string{"no platform configured"},
		},
		{
			name: "port out of range",
			mutate: func(settings *Settings) {
				settings.Port = 0
			},
			wantErr: []string{"PORT 0 is out of range"},
		},
		{
			name: "negative thread retention",
			mutate: func(settings *Settings) {
				settings.ThreadRetention = -time.Hour
			},
			wantErr: []string{"THREAD_RETENTION"},
		},
		{
			name: "multiple problems reported together",
			mutate: func(settings *Settings) {
				settings.OpenAIAPIKey = ""
				settings.DatabaseType = "mysql"
			},
			wantErr: []string{"OPENAI_API_KEY or ANTHROPIC_API_KEY", `DATABASE_TYPE "mysql"`},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			settings := validSettings()
			test.mutate(settings)

			err := settings.Validate()
			if len(test.wantErr) == 0 {
				if err != nil {
					t.Fatalf("Validate: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("Validate succeeded, want error")
			}
			for _, want := range test.wantErr {
				if !strings.Contains(err.Error(), want) {
					t.Errorf("error %q does not mention %q", err, want)
				}
			}
		})
	}
}

func TestBaseURL(t *testing.T) {
	settings := validSettings()
	if got := settings.BaseURL(); got != "http://localhost:8080" {
		t.Errorf("BaseURL = %q, want the wildcard host rewritten", got)
	}
	if got := settings.Addr(); got != "0.0.0.0:8080" {
		t.Errorf("Addr = %q, want the bind address unrewritten", got)
	}

	settings.Host = "service.internal"
	settings.Port = 9090
	if got := settings.BaseURL(); got != "http://service.internal:9090" {
		t.Errorf("BaseURL = %q", got)
	}
}

func TestPostgresURL(t *testing.T) {
	settings := validSettings()
	settings.PostgresUser = "app"
	settings.PostgresPassword = "p@ss/w:rd"
	settings.PostgresHost = "db.internal"
	settings.PostgresPort = 5433
	settings.PostgresDB = "agents"

	parsed, err := url.Parse(settings.PostgresURL())
	if err != nil {
		t.Fatalf("PostgresURL did not produce a valid URL: %v", err)
	}
	if parsed.Scheme != "postgres" {
		t.Errorf("scheme = %q", parsed.Scheme)
	}
	if parsed.User.Username() != "app" {
		t.Errorf("user = %q", parsed.User.Username())
	}
	if password, _ := parsed.User.Password(); password != "p@ss/w:rd" {
		t.Errorf("password = %q, want the original round-tripped", password)
	}
	if parsed.Host != "db.internal:5433" || parsed.Path != "/agents" {
		t.Errorf("host = %q path = %q", parsed.Host, parsed.Path)
	}
}

func TestAvailableModels(t *testing.T) {
	settings := validSettings()
	want := []string{"gpt-4o-mini", "gpt-4o"}
	if got := settings.AvailableModels(); !reflect.DeepEqual(got, want) {
		t.Errorf("AvailableModels = %v, want %v", got, want)
	}

	settings.AnthropicAPIKey = "sk-ant"
	want = []string{"gpt-4o-mini", "gpt-4o", "claude-3-5-haiku-latest", "claude-sonnet-4-5"}
	if got := settings.AvailableModels(); !reflect.DeepEqual(got, want) {
		t.Errorf("AvailableModels = %v, want %v", got, want)
	}
}
