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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mercadata/supermart-insights/internal/loader"
)

func floatPtr(v float64) *float64 { return &v }

func TestFilterIsZero(t *testing.T) {
	assert.True(t, Filter{}.IsZero())
	assert.False(t, Filter{Regions: []string{"South"}}.IsZero())
	assert.False(t, Filter{DiscountMax: floatPtr(0.3)}.IsZero())
}

func TestFilterApply(t *testing.T) {
	tab := mustLoad(t, analysisCSV)

	tests := []struct {
		name   string
		filter Filter
		rows   int
	}{
		{name: "no restriction", filter: Filter{}, rows: 4},
		{name: "region", filter: Filter{Regions: []string{"South"}}, rows: 2},
		{name: "category", filter: Filter{Categories: []string{"Tech"}}, rows: 2},
		{name: "multiple categories", filter: Filter{Categories: []string{"Tech", "Office"}}, rows: 3},
		{name: "discount range", filter: Filter{DiscountMin: floatPtr(0.1), DiscountMax: floatPtr(0.2)}, rows: 2},
		{name: "combined", filter: Filter{Regions: []string{"North"}, Categories: []string{"Tech"}}, rows: 1},
		{name: "nothing matches", filter: Filter{Regions: []string{"West"}}, rows: 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.filter.Apply(tab)
			require.NoError(t, err)
			assert.Equal(t, tc.rows, got.Nrow())
			// The source table stays untouched.
			assert.Equal(t, 4, tab.Nrow())
		})
	}
}

func TestDropMissing(t *testing.T) {
	csvData := "sales,profit,quantity,discount,category,region\n" +
		"100,20,2,0.1,Tech,South\n" +
		"200,bad,5,0.2,Tech,North\n" +
		"300,30,3,0.0,,South\n" +
		"400,40,4,0.3,Office,North\n"
	tab := mustLoad(t, csvData)
	require.Equal(t, 4, tab.Nrow())

	clean := DropMissing(tab)
	assert.Equal(t, 2, clean.Nrow())
	assert.Equal(t, 4, tab.Nrow())

	sales := clean.DataFrame().Col(loader.FieldSales).Float()
	assert.Equal(t, []float64{100, 400}, sales)
}

func TestLevels(t *testing.T) {
	tab := mustLoad(t, analysisCSV)
	assert.Equal(t, []string{"North", "South"}, Levels(tab, loader.FieldRegion))
	assert.Equal(t, []string{"Furniture", "Office", "Tech"}, Levels(tab, loader.FieldCategory))
	assert.Nil(t, Levels(tab, "warehouse"))
}
