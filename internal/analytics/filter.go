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
package analytics

import (
	"sort"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/mercadata/supermart-insights/internal/loader"
)

// Filter mirrors the dashboard sidebar: region and category allow-lists and
// an inclusive discount range. Empty slices mean "no restriction".
type Filter struct {
	Regions     []string
	Categories  []string
	DiscountMin *float64
	DiscountMax *float64
}

// IsZero reports whether the filter restricts anything.
func (f Filter) IsZero() bool {
	return len(f.Regions) == 0 && len(f.Categories) == 0 && f.DiscountMin == nil && f.DiscountMax == nil
}

// Apply returns a new table restricted to the matching rows. The input is
// never mutated; consumers of the original keep seeing every row.
func (f Filter) Apply(t *loader.CanonicalTable) (*loader.CanonicalTable, error) {
	df := t.DataFrame()
	if len(f.Regions) > 0 {
		df = df.Filter(dataframe.F{Colname: loader.FieldRegion, Comparator: series.In, Comparando: f.Regions})
	}
	if len(f.Categories) > 0 {
		df = df.Filter(dataframe.F{Colname: loader.FieldCategory, Comparator: series.In, Comparando: f.Categories})
	}
	if f.DiscountMin != nil {
		df = df.Filter(dataframe.F{Colname: loader.FieldDiscount, Comparator: series.GreaterEq, Comparando: *f.DiscountMin})
	}
	if f.DiscountMax != nil {
		df = df.Filter(dataframe.F{Colname: loader.FieldDiscount, Comparator: series.LessEq, Comparando: *f.DiscountMax})
	}
	if df.Err != nil {
		return nil, df.Err
	}
	return t.WithFrame(df), nil
}

// DropMissing removes rows with a missing value in any canonical field so
// aggregates are computed over complete rows only. Missing means NaN for
// numeric fields and the empty string for text fields.
func DropMissing(t *loader.CanonicalTable) *loader.CanonicalTable {
	df := t.DataFrame()
	if df.Nrow() == 0 {
		return t
	}

	keep := make([]bool, df.Nrow())
	for i := range keep {
		keep[i] = true
	}
	for _, field := range loader.CanonicalFields {
		if !t.HasColumn(field) {
			continue
		}
		s := df.Col(field)
		if loader.IsNumericField(field) {
			for i, isNaN := range s.IsNaN() {
				if isNaN {
					keep[i] = false
				}
			}
			continue
		}
		for i := 0; i < s.Len(); i++ {
			if v, ok := s.Val(i).(string); ok && v == "" {
				keep[i] = false
			}
		}
	}
	return t.WithFrame(df.Subset(keep))
}

// Levels returns the sorted distinct non-missing values of a text column,
// used to echo the available filter options back to the user.
func Levels(t *loader.CanonicalTable, field string) []string {
	if !t.HasColumn(field) {
		return nil
	}
	s := t.DataFrame().Col(field)
	seen := make(map[string]bool)
	var levels []string
	for i := 0; i < s.Len(); i++ {
		v, ok := s.Val(i).(string)
		if !ok || v == "" || seen[v] {
			continue
		}
		seen[v] = true
		levels = append(levels, v)
	}
	sort.Strings(levels)
	return levels
}
