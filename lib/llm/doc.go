// Copyright 2026 The Trackdeck Authors
// SPDX-License-Identifier: Apache-2.0

// Package llm is a vendor-neutral client layer for Large Language
// Model APIs, covering blocking completion, SSE streaming, and tool
// use.
//
// [Provider] is the central abstraction. Each implementation maps the
// shared Request/Response types onto one vendor's wire format:
//
//   - [OpenAI]: GPT models via the Chat Completions API
//     (/v1/chat/completions)
//   - [Anthropic]: Claude models via the Messages API (/v1/messages)
//
// Authentication is direct, using the API key from [Config]. Because
// the base URL is configurable, the [OpenAI] provider also talks to
// anything speaking the chat completions format (Groq, Azure OpenAI,
// vLLM, Ollama, llama.cpp, and the like).
//
// Streaming responses arrive as Server-Sent Events, parsed by
// [SSEScanner]. [EventStream] yields [StreamEvent] values one at a
// time while assembling the complete [Response] for retrieval after
// the stream ends.
package llm
