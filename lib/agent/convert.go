// Copyright 2026 The Trackdeck Authors
// SPDX-License-Identifier: Apache-2.0

package agent

import (
	"encoding/json"
	"strings"

	"github.com/trackdeck/trackdeck/lib/llm"
	"github.com/trackdeck/trackdeck/lib/schema/chat"
)

// MessageToChat converts one provider-shape message to its wire form.
// An assistant turn becomes a single ai message carrying its tool
// calls; a user turn becomes a human message, except that each
// tool_result block becomes its own tool message. The slice is empty
// for messages with no convertible content.
func MessageToChat(message llm.Message) []chat.ChatMessage {
	var converted []chat.ChatMessage

	if message.Role == llm.RoleAssistant {
		aiMessage := chat.ChatMessage{
			Type:    chat.MessageTypeAI,
			Content: textContent(message),
		}
		for _, block := range message.Content {
			if block.Type != llm.ContentToolUse || block.ToolUse == nil {
				continue
			}
			var args map[string]any
			if len(block.ToolUse.Input) > 0 {
				// Best effort; a model that emits malformed arguments
				// still gets its call shown, just without them.
				_ = json.Unmarshal(block.ToolUse.Input, &args)
			}
			aiMessage.ToolCalls = append(aiMessage.ToolCalls, chat.ToolCall{
				Name: block.ToolUse.Name,
				Args: args,
				ID:   block.ToolUse.ID,
			})
		}
		if aiMessage.Content == "" && len(aiMessage.ToolCalls) == 0 {
			return nil
		}
		return append(converted, aiMessage)
	}

	if text := textContent(message); text != "" {
		converted = append(converted, chat.ChatMessage{
			Type:    chat.MessageTypeHuman,
			Content: text,
		})
	}
	for _, block := range message.Content {
		if block.Type != llm.ContentToolResult || block.ToolResult == nil {
			continue
		}
		converted = append(converted, chat.ChatMessage{
			Type:       chat.MessageTypeTool,
			Content:    block.ToolResult.Content,
			ToolCallID: block.ToolResult.ToolUseID,
		})
	}
	return converted
}

// ToChatMessages converts a transcript to wire form, oldest first.
func ToChatMessages(messages []llm.Message) []chat.ChatMessage {
	var converted []chat.ChatMessage
	for _, message := range messages {
		converted = append(converted, MessageToChat(message)...)
	}
	return converted
}

func textContent(message llm.Message) string {
	var text strings.Builder
	for _, block := range message.Content {
		if block.Type == llm.ContentText {
			text.WriteString(block.Text)
		}
	}
	return text.String()
}
