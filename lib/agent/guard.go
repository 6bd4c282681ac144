// Copyright 2026 The Trackdeck Authors
// SPDX-License-Identifier: Apache-2.0

package agent

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/trackdeck/trackdeck/lib/llm"
)

// Llama Guard served through Groq's OpenAI-compatible API.
const (
	defaultGuardBaseURL = "https://api.groq.com/openai/v1"
	defaultGuardModel   = "meta-llama/llama-guard-4-12b"
)

// GuardRole selects whose latest message the guard assesses.
type GuardRole string

const (
	GuardRoleUser  GuardRole = "User"
	GuardRoleAgent GuardRole = "Agent"
)

// guardCategories is the Llama Guard hazard taxonomy, in prompt order.
var guardCategories = []struct {
	Code string
	Name string
}{
	{"S1", "Violent Crimes"},
	{"S2", "Non-Violent Crimes"},
	{"S3", "Sex Crimes"},
	{"S4", "Child Exploitation"},
	{"S5", "Defamation"},
	{"S6", "Specialized Advice"},
	{"S7", "Privacy"},
	{"S8", "Intellectual Property"},
	{"S9", "Indiscriminate Weapons"},
	{"S10", "Hate"},
	{"S11", "Self-Harm"},
	{"S12", "Sexual Content"},
	{"S13", "Elections"},
	{"S14", "Code Interpreter Abuse"},
}

// Verdict is the outcome of one guard check. Categories holds the
// human-readable names of the violated hazard categories when Safe is
// false.
type Verdict struct {
	Safe       bool
	Categories []string
}

// GuardConfig configures the content guard.
type GuardConfig struct {
	// APIKey authenticates against the moderation endpoint. Empty
	// disables the guard: every check reports safe.
	APIKey string

	// Model overrides the default Llama Guard model ID.
	Model string

	// BaseURL overrides the default Groq endpoint.
	BaseURL string

	// HTTPClient overrides the client used for guard requests.
	HTTPClient *http.Client

	// Logger receives guard failures. Nil discards them.
	Logger *slog.Logger
}

// Guard screens conversation content with a Llama Guard model. Any
// failure to obtain or parse a verdict fails open: the content is
// treated as safe and the error is logged, so a moderation outage
// never takes the assistants down with it.
type Guard struct {
	provider llm.Provider
	model    string
	logger   *slog.Logger
}

// NewGuard builds a guard from config. With an empty APIKey the guard
// is inert and reports everything safe.
func NewGuard(cfg GuardConfig) *Guard {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	guard := &Guard{
		model:  cfg.Model,
		logger: logger,
	}
	if guard.model == "" {
		guard.model = defaultGuardModel
	}
	if cfg.APIKey == "" {
		return guard
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultGuardBaseURL
	}
	guard.provider = llm.NewOpenAI(llm.Config{
		BaseURL:    baseURL,
		APIKey:     cfg.APIKey,
		HTTPClient: cfg.HTTPClient,
	})
	return guard
}

// Enabled reports whether checks actually reach a moderation model.
func (guard *Guard) Enabled() bool {
	return guard.provider != nil
}

// Check assesses the last message attributed to role against the
// hazard taxonomy.
func (guard *Guard) Check(ctx context.Context, role GuardRole, messages []llm.Message) Verdict {
	if guard.provider == nil {
		return Verdict{Safe: true}
	}

	response, err := guard.provider.Complete(ctx, llm.Request{
		Model:     guard.model,
		Messages:  []llm.Message{llm.UserMessage(guardPrompt(role, messages))},
		MaxTokens: 128,
	})
	if err != nil {
		guard.logger.Error("content guard check failed", "error", err)
		return Verdict{Safe: true}
	}

	verdict, err := parseGuardVerdict(response.TextContent())
	if err != nil {
		guard.logger.Error("content guard returned unparseable verdict",
			"error", err,
			"output", response.TextContent(),
		)
		return Verdict{Safe: true}
	}
	return verdict
}

// guardPrompt renders the Llama Guard task prompt for one assessment.
func guardPrompt(role GuardRole, messages []llm.Message) string {
	var categories strings.Builder
	for _, category := range guardCategories {
		fmt.Fprintf(&categories, "%s: %s.\n", category.Code, category.Name)
	}

	return fmt.Sprintf(`Task: Check if there is unsafe content in '%s' messages in conversations according our safety policy with the below categories.

<BEGIN UNSAFE CONTENT CATEGORIES>
%s<END UNSAFE CONTENT CATEGORIES>

<BEGIN CONVERSATION>

%s

<END CONVERSATION>

Provide your safety assessment for ONLY THE LAST %s message in the above conversation:
- First line must read 'safe' or 'unsafe'.
- If unsafe, a second line must include a comma-separated list of violated categories.`,
		role, categories.String(), guardConversation(messages), role)
}

// guardConversation renders the transcript the way Llama Guard was
// trained to read it. Tool traffic is omitted; only what the user
// typed and the assistant said out loud is assessed.
func guardConversation(messages []llm.Message) string {
	var lines []string
	for _, message := range messages {
		var text strings.Builder
		for _, block := range message.Content {
			if block.Type == llm.ContentText {
				text.WriteString(block.Text)
			}
		}
		if text.Len() == 0 {
			continue
		}
		speaker := "Human"
		if message.Role == llm.RoleAssistant {
			speaker = "Agent"
		}
		lines = append(lines, fmt.Sprintf("%s: %s", speaker, text.String()))
	}
	return strings.Join(lines, "\n\n")
}

// parseGuardVerdict interprets a Llama Guard completion: "safe", or
// "unsafe" followed by a line of category codes.
func parseGuardVerdict(output string) (Verdict, error) {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	switch strings.TrimSpace(strings.ToLower(lines[0])) {
	case "safe":
		return Verdict{Safe: true}, nil
	case "unsafe":
		if len(lines) < 2 {
			return Verdict{}, fmt.Errorf("unsafe verdict without category line")
		}
		var categories []string
		for _, code := range strings.Split(lines[1], ",") {
			categories = append(categories, categoryName(strings.TrimSpace(code)))
		}
		return Verdict{Safe: false, Categories: categories}, nil
	default:
		return Verdict{}, fmt.Errorf("verdict %q is neither safe nor unsafe", lines[0])
	}
}

// categoryName resolves a hazard code to its display name. Unknown
// codes pass through so a taxonomy drift upstream stays visible.
func categoryName(code string) string {
	for _, category := range guardCategories {
		if category.Code == code {
			return category.Name
		}
	}
	return code
}
