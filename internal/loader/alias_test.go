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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveAlias(t *testing.T) {
	tests := []struct {
		normalized string
		want       string
	}{
		{"sales", "sales"},
		{"vendas", "sales"},
		{"lucro", "profit"},
		{"quantidade", "quantity"},
		{"categoria", "category"},
		{"desconto", "discount"},
		{"região", "region"},
		{"regiao", "region"},
		// Unmapped headers survive unchanged.
		{"supplier_id", "supplier_id"},
		{"order_date", "order_date"},
	}
	for _, tt := range tests {
		if got := ResolveAlias(tt.normalized); got != tt.want {
			t.Errorf("ResolveAlias(%q) = %q, want %q", tt.normalized, got, tt.want)
		}
	}
}

func TestResolveAliasAfterNormalization(t *testing.T) {
	// Case/accent/whitespace variants of the same business term must land
	// on the same canonical field.
	for _, raw := range []string{"Região", "REGIAO", " região ", "region"} {
		got := ResolveAlias(NormalizeHeader(raw))
		assert.Equal(t, FieldRegion, got, "variant %q", raw)
	}
}

func TestCountRequiredHits(t *testing.T) {
	tests := []struct {
		name    string
		headers []string
		want    int
	}{
		{
			name:    "full english schema",
			headers: []string{"Sales", "Profit", "Quantity", "Category", "Discount", "Region"},
			want:    6,
		},
		{
			name:    "full portuguese schema",
			headers: []string{"Vendas", "Lucro", "Quantidade", "Categoria", "Desconto", "Região"},
			want:    6,
		},
		{
			name:    "partial with extras",
			headers: []string{"vendas", "order_id", "supplier_id", "desconto"},
			want:    2,
		},
		{
			name:    "duplicates count once",
			headers: []string{"sales", "vendas", "profit"},
			want:    2,
		},
		{
			name:    "nothing canonical",
			headers: []string{"a", "b", "c"},
			want:    0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CountRequiredHits(tt.headers))
		})
	}
}

func TestBuildMapping(t *testing.T) {
	mapping, err := BuildMapping([]string{"Vendas", "Lucro", "supplier_id"})
	require.NoError(t, err)
	assert.Equal(t, "sales", mapping["Vendas"])
	assert.Equal(t, "profit", mapping["Lucro"])
	assert.Equal(t, "supplier_id", mapping["supplier_id"])
}

func TestBuildMappingAmbiguous(t *testing.T) {
	_, err := BuildMapping([]string{"sales", "vendas", "profit"})
	require.Error(t, err)

	var ambErr *ErrAmbiguousColumnMapping
	require.True(t, errors.As(err, &ambErr), "want ErrAmbiguousColumnMapping, got %T", err)
	assert.Equal(t, "sales", ambErr.Canonical)
	assert.ElementsMatch(t, []string{"sales", "vendas"}, ambErr.Headers)
}
