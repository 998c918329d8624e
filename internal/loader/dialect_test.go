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
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

func newTestDetector(t *testing.T) *Detector {
	t.Helper()
	d, err := NewDetector(DefaultOptions(), nil)
	require.NoError(t, err)
	return d
}

const utf8CSV = "sales,profit,quantity,category,discount,region\n" +
	"100.5,20.1,3,Bebidas,0.1,Sul\n" +
	"80.0,-5.0,1,Padaria,0.3,Norte\n"

func TestDetectCommaUTF8(t *testing.T) {
	d := newTestDetector(t)
	cand, err := d.Detect([]byte(utf8CSV))
	require.NoError(t, err)
	assert.Equal(t, "utf-8", cand.Dialect.Encoding)
	assert.Equal(t, ",", cand.Dialect.Delimiter)
	assert.Equal(t, 6, cand.RequiredHits)
	assert.Equal(t, 0, cand.Penalty)
	assert.Len(t, cand.Records, 3)
}

func TestDetectDelimiterRobustness(t *testing.T) {
	// Same logical data, once with commas and once with semicolons; both
	// must yield row-for-row identical records.
	d := newTestDetector(t)

	commaCand, err := d.Detect([]byte(utf8CSV))
	require.NoError(t, err)

	semi := strings.ReplaceAll(utf8CSV, ",", ";")
	semiCand, err := d.Detect([]byte(semi))
	require.NoError(t, err)

	assert.Equal(t, ",", commaCand.Dialect.Delimiter)
	assert.Equal(t, ";", semiCand.Dialect.Delimiter)
	assert.Equal(t, commaCand.Records, semiCand.Records)
}

func TestDetectEncodingRobustness(t *testing.T) {
	// One accented region value per row; the Windows-1252 rendition must
	// select an encoding that decodes it without mojibake, and both runs
	// must agree on the decoded text.
	data := "vendas;lucro;quantidade;categoria;desconto;região\n"
	for i := 0; i < 10; i++ {
		data += "10,5;2;1;Alimentação;0,1;São Paulo\n"
	}

	d := newTestDetector(t)

	utfCand, err := d.Detect([]byte(data))
	require.NoError(t, err)
	assert.Equal(t, "utf-8", utfCand.Dialect.Encoding)

	encoded, err := charmap.Windows1252.NewEncoder().String(data)
	require.NoError(t, err)
	winCand, err := d.Detect([]byte(encoded))
	require.NoError(t, err)

	assert.Zero(t, winCand.Penalty, "chosen encoding should avoid the mojibake penalty")
	assert.Equal(t, utfCand.Records, winCand.Records)
	assert.Contains(t, winCand.Records[0], "região")
}

func TestDetectNoParsableDialect(t *testing.T) {
	// A JSON file misnamed .csv: every delimiter trial yields one column.
	d := newTestDetector(t)
	_, err := d.Detect([]byte("{\"rows\": [1]}\n{\"rows\": [2]}\n"))
	require.Error(t, err)

	var npErr *ErrNoParsableDialect
	require.True(t, errors.As(err, &npErr), "want ErrNoParsableDialect, got %T", err)
	assert.Equal(t, 16, npErr.Trials)
}

func TestDetectEmptyInput(t *testing.T) {
	d := newTestDetector(t)
	_, err := d.Detect(nil)
	var npErr *ErrNoParsableDialect
	require.True(t, errors.As(err, &npErr))
}

func TestDetectDeterministicTieBreak(t *testing.T) {
	// Crafted so the comma and semicolon trials both parse to multiple
	// columns with zero canonical hits and zero penalty. The first pair in
	// the fixed iteration order must win every run.
	input := "a,b;c,d\n1,2;3,4\n"
	d := newTestDetector(t)
	for i := 0; i < 5; i++ {
		cand, err := d.Detect([]byte(input))
		require.NoError(t, err)
		assert.Equal(t, "utf-8", cand.Dialect.Encoding)
		assert.Equal(t, ",", cand.Dialect.Delimiter)
	}
}

func TestDetectMojibakeBreaksTie(t *testing.T) {
	// Latin-1 bytes decoded as UTF-8 show replacement characters; with the
	// headers ASCII the alias hits are equal, so the penalty must decide in
	// favor of latin-1.
	data := "sales;profit;quantity;category;discount;region\n"
	for i := 0; i < 10; i++ {
		data += "10;2;1;Alimentação;0.1;São Paulo\n"
	}
	encoded, err := charmap.ISO8859_1.NewEncoder().String(data)
	require.NoError(t, err)

	d := newTestDetector(t)
	cand, detErr := d.Detect([]byte(encoded))
	require.NoError(t, detErr)
	assert.Equal(t, "latin-1", cand.Dialect.Encoding)
	assert.Zero(t, cand.Penalty)
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Options)
		wantErr string
	}{
		{"defaults are valid", func(o *Options) {}, ""},
		{"no encodings", func(o *Options) { o.Encodings = nil }, "at least one encoding"},
		{"no delimiters", func(o *Options) { o.Delimiters = nil }, "at least one delimiter"},
		{"unknown encoding", func(o *Options) { o.Encodings = []string{"utf-7"} }, "unknown encoding"},
		{"weight below penalty cap", func(o *Options) { o.FieldWeight = 1 }, "must exceed"},
		{"zero threshold", func(o *Options) { o.MojibakeThreshold = 0 }, "threshold"},
		{"zero sample", func(o *Options) { o.SampleRows = 0 }, "sample rows"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			tt.mutate(&opts)
			err := opts.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
