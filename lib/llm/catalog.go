// Copyright 2026 The Trackdeck Authors
// SPDX-License-Identifier: Apache-2.0

package llm

// Vendor identifies which API vendor serves a model.
type Vendor string

const (
	VendorOpenAI    Vendor = "openai"
	VendorAnthropic Vendor = "anthropic"
)

// CatalogEntry is one servable chat model.
type CatalogEntry struct {
	Model  string
	Vendor Vendor
}

// catalog lists the chat models this module knows how to serve, in
// display order. Which of these are actually available at runtime
// depends on the vendor API keys present in the environment.
var catalog = []CatalogEntry{
	{Model: "gpt-4o-mini", Vendor: VendorOpenAI},
	{Model: "gpt-4o", Vendor: VendorOpenAI},
	{Model: "claude-3-5-haiku-latest", Vendor: VendorAnthropic},
	{Model: "claude-sonnet-4-5", Vendor: VendorAnthropic},
}

// Catalog returns the known chat models in display order.
func Catalog() []CatalogEntry {
	entries := make([]CatalogEntry, len(catalog))
	copy(entries, catalog)
	return entries
}

// VendorOf returns the vendor that serves model. The second return is
// false when the model is not in the catalog.
func VendorOf(model string) (Vendor, bool) {
	for _, entry := range catalog {
		if entry.Model == model {
			return entry.Vendor, true
		}
	}
	return "", false
}
