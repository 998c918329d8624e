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

// Package loader implements the dialect-detecting tabular loader: given a
// delimited text file of supermarket transactions, it determines the most
// likely encoding and delimiter, normalizes headers onto a canonical schema
// through an English/Portuguese alias table, coerces numeric columns and
// trims text columns. Schema-completeness validation is deliberately left to
// the calling layer so detection and validation keep separate failure modes.
package loader

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"go.uber.org/zap"
)

// Loader ties the dialect detector to header normalization and coercion.
type Loader struct {
	detector *Detector
	log      *zap.SugaredLogger
}

// New returns a Loader with the given detection options.
func New(opts Options, log *zap.SugaredLogger) (*Loader, error) {
	det, err := NewDetector(opts, log)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Loader{detector: det, log: log}, nil
}

// Load reads the file at path and returns its canonical table.
func (l *Loader) Load(path string) (*CanonicalTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return l.LoadBytes(raw)
}

// LoadBytes detects the dialect of raw, renames headers onto the canonical
// schema and coerces the designated columns. It returns ErrNoParsableDialect
// or ErrAmbiguousColumnMapping as typed errors; per-cell coercion misses are
// absorbed as missing values and never fail the load.
func (l *Loader) LoadBytes(raw []byte) (*CanonicalTable, error) {
	cand, err := l.detector.Detect(raw)
	if err != nil {
		return nil, err
	}

	rawHeaders := cand.Records[0]
	mapping, err := BuildMapping(rawHeaders)
	if err != nil {
		return nil, err
	}

	records := renameAndTrim(cand.Records, mapping)

	types := make(map[string]series.Type, len(NumericFields))
	for _, f := range NumericFields {
		types[f] = series.Float
	}
	df := dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.WithTypes(types),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("build table: %w", df.Err)
	}

	t := NewCanonicalTable(df, cand.Dialect, mapping, rawHeaders)
	if missing := t.MissingFields(); len(missing) > 0 {
		l.log.Warnf("loaded table is missing canonical fields: %s", strings.Join(missing, ", "))
	}
	return t, nil
}

// renameAndTrim produces a fresh record set with the header row renamed via
// mapping and the cells of canonical text columns whitespace-trimmed. The
// detector's records are left untouched.
func renameAndTrim(records [][]string, mapping map[string]string) [][]string {
	header := make([]string, len(records[0]))
	trimCol := make([]bool, len(header))
	for i, raw := range records[0] {
		final := mapping[raw]
		if final == "" {
			final = ResolveAlias(NormalizeHeader(raw))
		}
		header[i] = final
		// Numeric cells get trimmed too so that " 12.5" coerces instead of
		// turning into a missing value.
		trimCol[i] = IsCanonical(final)
	}

	out := make([][]string, len(records))
	out[0] = header
	for r := 1; r < len(records); r++ {
		row := make([]string, len(records[r]))
		copy(row, records[r])
		for c := range row {
			if c < len(trimCol) && trimCol[c] {
				row[c] = strings.TrimSpace(row[c])
			}
		}
		out[r] = row
	}
	return out
}
