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

import "strings"

// NormalizeHeader converts a raw header cell into the lookup key used by the
// alias table: byte-order-mark stripped, surrounding whitespace removed,
// lowercased, internal spaces replaced with underscores. Lowercasing is
// Unicode-aware so "Região" and "região" normalize identically. The function
// is idempotent.
func NormalizeHeader(raw string) string {
	h := strings.TrimPrefix(raw, "\ufeff")
	h = strings.TrimSpace(h)
	h = strings.ToLower(h)
	return strings.ReplaceAll(h, " ", "_")
}

// NormalizeHeaders normalizes every header in order. The output has the same
// length as the input; two distinct raw headers may normalize to the same
// string, which callers must treat as an ambiguity rather than resolve
// silently.
func NormalizeHeaders(raw []string) []string {
	out := make([]string, len(raw))
	for i, h := range raw {
		out[i] = NormalizeHeader(h)
	}
	return out
}
