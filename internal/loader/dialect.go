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
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// encodingRegistry maps config-level encoding names onto x/text decoders.
var encodingRegistry = map[string]encoding.Encoding{
	"utf-8":        unicode.UTF8,
	"utf-8-sig":    unicode.UTF8BOM,
	"latin-1":      charmap.ISO8859_1,
	"iso-8859-1":   charmap.ISO8859_1,
	"windows-1252": charmap.Windows1252,
}

// Options control the dialect trial loop. The mojibake threshold and sample
// size are deliberately tunable rather than constants.
type Options struct {
	// Encodings and Delimiters are tried exhaustively, encodings outer,
	// delimiters inner. Order decides score ties, so it is part of the
	// contract.
	Encodings  []string
	Delimiters []rune

	// MojibakeMarkers are substrings that betray a wrong-encoding decode.
	MojibakeMarkers []string
	// MojibakeThreshold is the marker-occurrence count at which the penalty
	// applies. SampleRows caps how many data rows are inspected.
	MojibakeThreshold int
	SampleRows        int

	// FieldWeight is the score contribution of one recovered canonical
	// field. It must exceed maxMojibakePenalty so that one extra recovered
	// field always outranks the corruption penalty.
	FieldWeight int
}

// maxMojibakePenalty caps the penalty contribution at 1 regardless of how
// corrupted the sample looks.
const maxMojibakePenalty = 1

// DefaultOptions cover the encodings and delimiters common in retail CSV
// exports: four encodings, four delimiters, penalty at five marker hits in
// the first fifty rows, weight ten.
func DefaultOptions() Options {
	return Options{
		Encodings:         []string{"utf-8", "utf-8-sig", "latin-1", "windows-1252"},
		Delimiters:        []rune{',', ';', '\t', '|'},
		MojibakeMarkers:   []string{"Ã", "Â", "�"},
		MojibakeThreshold: 5,
		SampleRows:        50,
		FieldWeight:       10,
	}
}

// Validate checks the scoring invariant and that every configured encoding
// and delimiter is usable.
func (o Options) Validate() error {
	if len(o.Encodings) == 0 {
		return fmt.Errorf("detection: at least one encoding is required")
	}
	if len(o.Delimiters) == 0 {
		return fmt.Errorf("detection: at least one delimiter is required")
	}
	for _, name := range o.Encodings {
		if _, ok := encodingRegistry[strings.ToLower(name)]; !ok {
			return fmt.Errorf("detection: unknown encoding %q", name)
		}
	}
	if o.FieldWeight <= maxMojibakePenalty {
		return fmt.Errorf("detection: field weight %d must exceed the maximum mojibake penalty %d, otherwise corruption outranks a recovered field",
			o.FieldWeight, maxMojibakePenalty)
	}
	if o.MojibakeThreshold < 1 {
		return fmt.Errorf("detection: mojibake threshold must be >= 1")
	}
	if o.SampleRows < 1 {
		return fmt.Errorf("detection: sample rows must be >= 1")
	}
	return nil
}

// Dialect identifies the winning (encoding, delimiter) pair.
type Dialect struct {
	Encoding  string `json:"encoding"`
	Delimiter string `json:"delimiter"`
}

// Candidate is one trial result. Only the best-scoring candidate survives
// the selection loop.
type Candidate struct {
	Dialect      Dialect
	Records      [][]string
	Score        int
	RequiredHits int
	Penalty      int
}

// Detector runs the exhaustive (encoding, delimiter) trial loop over a raw
// byte stream.
type Detector struct {
	opts Options
	log  *zap.SugaredLogger
}

// NewDetector validates opts and returns a Detector. A nil logger disables
// trial logging.
func NewDetector(opts Options, log *zap.SugaredLogger) (*Detector, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Detector{opts: opts, log: log}, nil
}

// Detect tries every (encoding, delimiter) pair in fixed order and returns
// the best-scoring candidate. Ties keep the earliest candidate. It returns
// ErrNoParsableDialect when every trial fails to decode/parse or yields at
// most one column.
func (d *Detector) Detect(raw []byte) (*Candidate, error) {
	var best *Candidate
	trials := 0
	for _, encName := range d.opts.Encodings {
		enc := encodingRegistry[strings.ToLower(encName)]
		for _, delim := range d.opts.Delimiters {
			trials++
			cand, err := d.try(raw, encName, enc, delim)
			if err != nil {
				d.log.Debugf("dialect trial %s/%q rejected: %v", encName, string(delim), err)
				continue
			}
			d.log.Debugf("dialect trial %s/%q scored %d (hits=%d penalty=%d)",
				encName, string(delim), cand.Score, cand.RequiredHits, cand.Penalty)
			if best == nil || cand.Score > best.Score {
				best = cand
			}
		}
	}
	if best == nil {
		return nil, &ErrNoParsableDialect{Trials: trials}
	}
	d.log.Infof("detected dialect encoding=%s delimiter=%q score=%d",
		best.Dialect.Encoding, best.Dialect.Delimiter, best.Score)
	return best, nil
}

// try decodes and parses raw under a single dialect and scores the result.
// Any failure here eliminates the candidate without aborting the search.
func (d *Detector) try(raw []byte, encName string, enc encoding.Encoding, delim rune) (*Candidate, error) {
	decoded, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	r := csv.NewReader(bytes.NewReader(decoded))
	r.Comma = delim
	r.LazyQuotes = true
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("parse: empty input")
	}
	// A single-column parse almost always means the delimiter is wrong.
	if len(records[0]) <= 1 {
		return nil, fmt.Errorf("parse: %d column(s), delimiter unlikely", len(records[0]))
	}

	hits := CountRequiredHits(records[0])
	penalty := d.mojibakePenalty(records)

	return &Candidate{
		Dialect:      Dialect{Encoding: strings.ToLower(encName), Delimiter: string(delim)},
		Records:      records,
		Score:        hits*d.opts.FieldWeight - penalty,
		RequiredHits: hits,
		Penalty:      penalty,
	}, nil
}

// mojibakePenalty counts marker occurrences in a bounded sample of data
// rows. The result is capped at maxMojibakePenalty so corruption can only
// break ties between candidates recovering the same canonical fields.
func (d *Detector) mojibakePenalty(records [][]string) int {
	occurrences := 0
	rows := records[1:]
	if len(rows) > d.opts.SampleRows {
		rows = rows[:d.opts.SampleRows]
	}
	// The header participates too: a corrupted "Região" is as telling as a
	// corrupted data cell.
	for _, cell := range records[0] {
		occurrences += countMarkers(cell, d.opts.MojibakeMarkers)
	}
	for _, row := range rows {
		for _, cell := range row {
			occurrences += countMarkers(cell, d.opts.MojibakeMarkers)
		}
		if occurrences >= d.opts.MojibakeThreshold {
			return maxMojibakePenalty
		}
	}
	if occurrences >= d.opts.MojibakeThreshold {
		return maxMojibakePenalty
	}
	return 0
}

func countMarkers(cell string, markers []string) int {
	n := 0
	for _, m := range markers {
		n += strings.Count(cell, m)
	}
	return n
}
