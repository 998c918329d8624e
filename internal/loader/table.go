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

import (
	"github.com/go-gota/gota/dataframe"
)

// CanonicalTable is the loader's output: a typed dataframe whose canonical
// columns have been renamed and coerced, plus the dialect and header mapping
// that produced it. It is treated as immutable; consumers derive new tables
// instead of mutating in place.
type CanonicalTable struct {
	df      dataframe.DataFrame
	Dialect Dialect
	// Mapping is raw header -> final column name.
	Mapping map[string]string
	// RawHeaders preserves the original header order.
	RawHeaders []string
}

// NewCanonicalTable wraps an already-coerced dataframe. Exposed for the
// analytics layer, which derives filtered tables from loaded ones.
func NewCanonicalTable(df dataframe.DataFrame, dialect Dialect, mapping map[string]string, rawHeaders []string) *CanonicalTable {
	return &CanonicalTable{df: df, Dialect: dialect, Mapping: mapping, RawHeaders: rawHeaders}
}

// DataFrame returns the underlying dataframe by value. gota dataframes share
// column storage, so callers must not mutate series in place.
func (t *CanonicalTable) DataFrame() dataframe.DataFrame { return t.df }

// WithFrame returns a new table around df, keeping dialect and mapping.
func (t *CanonicalTable) WithFrame(df dataframe.DataFrame) *CanonicalTable {
	return &CanonicalTable{df: df, Dialect: t.Dialect, Mapping: t.Mapping, RawHeaders: t.RawHeaders}
}

// Names returns the final column names in order.
func (t *CanonicalTable) Names() []string { return t.df.Names() }

// Nrow returns the number of data rows.
func (t *CanonicalTable) Nrow() int { return t.df.Nrow() }

// HasColumn reports whether a final column name is present.
func (t *CanonicalTable) HasColumn(name string) bool {
	for _, n := range t.df.Names() {
		if n == name {
			return true
		}
	}
	return false
}

// MissingFields returns the canonical fields absent after renaming, in
// canonical order. Schema-completeness enforcement belongs to the caller,
// not the loader; this is just the bookkeeping for it.
func (t *CanonicalTable) MissingFields() []string {
	var missing []string
	for _, f := range CanonicalFields {
		if !t.HasColumn(f) {
			missing = append(missing, f)
		}
	}
	return missing
}

// ExtraColumns returns final column names that are not canonical fields,
// preserved pass-through headers included.
func (t *CanonicalTable) ExtraColumns() []string {
	var extra []string
	for _, n := range t.df.Names() {
		if !IsCanonical(n) {
			extra = append(extra, n)
		}
	}
	return extra
}

// MissingCount returns how many cells of a column are missing: NaN for
// numeric canonical fields, empty string for everything else.
func (t *CanonicalTable) MissingCount(name string) int {
	if !t.HasColumn(name) {
		return 0
	}
	s := t.df.Col(name)
	n := 0
	if IsNumericField(name) {
		for _, isNaN := range s.IsNaN() {
			if isNaN {
				n++
			}
		}
		return n
	}
	for i := 0; i < s.Len(); i++ {
		if v, ok := s.Val(i).(string); ok && v == "" {
			n++
		}
	}
	return n
}
