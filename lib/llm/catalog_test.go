// Copyright 2026 The Trackdeck Authors
// SPDX-License-Identifier: Apache-2.0

package llm

import "testing"

func TestVendorOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		model  string
		vendor Vendor
		known  bool
	}{
		{"gpt-4o-mini", VendorOpenAI, true},
		{"gpt-4o", VendorOpenAI, true},
		{"claude-3-5-haiku-latest", VendorAnthropic, true},
		{"claude-sonnet-4-5", VendorAnthropic, true},
		{"made-up-model", "", false},
		{"", "", false},
	}

	for _, test := range tests {
		vendor, known := VendorOf(test.model)
		if known != test.known {
			t.Errorf("VendorOf(%q) known = %v, want %v", test.model, known, test.known)
		}
		if vendor != test.vendor {
			t.Errorf("VendorOf(%q) = %q, want %q", test.model, vendor, test.vendor)
		}
	}
}

func TestCatalogIsCopied(t *testing.T) {
	t.Parallel()

	first := Catalog()
	if len(first) == 0 {
		t.Fatal("catalog is empty")
	}

	// Mutating the returned slice must not affect later calls.
	first[0].Model = "mutated"

	second := Catalog()
	if second[0].Model == "mutated" {
		t.Error("Catalog returned a shared slice")
	}
}

func TestCatalogContainsDefaultModel(t *testing.T) {
	t.Parallel()

	// The service default must resolve to a vendor.
	if _, ok := VendorOf("gpt-4o-mini"); !ok {
		t.Error("gpt-4o-mini missing from catalog")
	}
}
