// Copyright 2026 The Trackdeck Authors
// SPDX-License-Identifier: Apache-2.0

package toolkit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
	"golang.org/x/sync/errgroup"

	"github.com/trackdeck/trackdeck/lib/llm"
)

// Tool is a single callable operation exposed to the model.
type Tool struct {
	// Name is the unique tool identifier (e.g., "search_issues").
	Name string

	// Description tells the model what the tool does and when to
	// call it.
	Description string

	// InputSchema is the JSON Schema for the tool's arguments,
	// serialized as JSON.
	InputSchema json.RawMessage

	// Run executes the tool. A returned error is a tool-level
	// failure: it becomes an error-flagged result for the model,
	// never an HTTP error for the caller.
	Run func(ctx context.Context, arguments json.RawMessage) (string, error)
}

// New builds a Tool whose argument schema is reflected from the In
// struct. The same struct decodes the model's arguments at call time,
// so schema and decoder cannot drift apart. Struct fields without
// omitempty are required; jsonschema tags carry descriptions, enums,
// and bounds.
func New[In any](name, description string, run func(ctx context.Context, input In) (string, error)) Tool {
	reflector := jsonschema.Reflector{
		Anonymous:                 true,
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var zero In
	schema, err := json.Marshal(reflector.Reflect(&zero))
	if err != nil {
		panic("toolkit: reflecting input schema for " + name + ": " + err.Error())
	}

	return Tool{
		Name:        name,
		Description: description,
		InputSchema: schema,
		Run: func(ctx context.Context, arguments json.RawMessage) (string, error) {
			var input In
			if len(arguments) > 0 {
				if err := json.Unmarshal(arguments, &input); err != nil {
					return "", fmt.Errorf("invalid arguments: %w", err)
				}
			}
			return run(ctx, input)
		},
	}
}

// Set is an ordered, name-unique tool catalog bound to one agent.
type Set struct {
	tools []Tool
	index map[string]int
}

// NewSet builds a Set. Duplicate tool names are a wiring bug in the
// static catalog and panic at construction.
func NewSet(tools ...Tool) Set {
	set := Set{
		tools: make([]Tool, len(tools)),
		index: make(map[string]int, len(tools)),
	}
	copy(set.tools, tools)
	for i, tool := range tools {
		if _, exists := set.index[tool.Name]; exists {
			panic("toolkit: duplicate tool name " + tool.Name)
		}
		set.index[tool.Name] = i
	}
	return set
}

// Len returns the number of tools in the set.
func (set Set) Len() int {
	return len(set.tools)
}

// Names returns the tool names in registration order.
func (set Set) Names() []string {
	names := make([]string, len(set.tools))
	for i, tool := range set.tools {
		names[i] = tool.Name
	}
	return names
}

// Definitions returns the catalog in the shape the model providers
// consume, in registration order.
func (set Set) Definitions() []llm.ToolDefinition {
	definitions := make([]llm.ToolDefinition, len(set.tools))
	for i, tool := range set.tools {
		definitions[i] = llm.ToolDefinition{
			Name:        tool.Name,
			Description: tool.Description,
			InputSchema: tool.InputSchema,
		}
	}
	return definitions
}

// Call dispatches a single tool call and returns its result. Unknown
// tool names and Run failures are reported through the error-flagged
// result so the model can react to them.
func (set Set) Call(ctx context.Context, call llm.ToolUse) llm.ToolResult {
	result := llm.ToolResult{ToolUseID: call.ID}

	position, ok := set.index[call.Name]
	if !ok {
		result.Content = fmt.Sprintf("unknown tool %q", call.Name)
		result.IsError = true
		return result
	}

	output, err := set.tools[position].Run(ctx, call.Input)
	if err != nil {
		result.Content = err.Error()
		result.IsError = true
		return result
	}

	result.Content = output
	return result
}

// CallAll executes one model turn's tool calls concurrently and
// returns the results in call order. Tool failures become
// error-flagged results; only context cancellation aborts the batch.
func (set Set) CallAll(ctx context.Context, calls []llm.ToolUse) ([]llm.ToolResult, error) {
	results := make([]llm.ToolResult, len(calls))

	var group errgroup.Group
	for i, call := range calls {
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = set.Call(ctx, call)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
