/*
 * Copyright 2025 The supermart-insights Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *    https://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */
package loader

import "testing"

func TestNormalizeHeader(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"already normalized", "region", "region"},
		{"uppercase", "SALES", "sales"},
		{"surrounding whitespace", "  Profit  ", "profit"},
		{"internal spaces", "Product Category", "product_category"},
		{"accented lowercase", "região", "região"},
		{"accented uppercase", "Região", "região"},
		{"bom artifact", "\ufeffsales", "sales"},
		{"bom with case and spaces", "\ufeff Sub Category ", "sub_category"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeHeader(tt.raw); got != tt.want {
				t.Errorf("NormalizeHeader(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestNormalizeHeaderIdempotent(t *testing.T) {
	for _, raw := range []string{"  Região ", "Product Category", "\ufeffSales", "desconto"} {
		once := NormalizeHeader(raw)
		twice := NormalizeHeader(once)
		if once != twice {
			t.Errorf("NormalizeHeader not idempotent for %q: %q != %q", raw, once, twice)
		}
	}
}

func TestNormalizeHeadersKeepsLength(t *testing.T) {
	raw := []string{"Sales", "Sales ", "other"}
	got := NormalizeHeaders(raw)
	if len(got) != len(raw) {
		t.Fatalf("NormalizeHeaders returned %d items, want %d", len(got), len(raw))
	}
	// Two distinct raw headers may collapse; that ambiguity is the caller's
	// to surface, not ours to resolve.
	if got[0] != got[1] {
		t.Errorf("expected %q and %q to normalize identically, got %q and %q", raw[0], raw[1], got[0], got[1])
	}
}
