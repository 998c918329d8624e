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

// Package analytics computes the dashboard aggregates over a canonical
// table: sidebar-style filters, headline KPIs, profit breakdowns and the
// discount-impact trendline. It never mutates its input table.
package analytics

import (
	"fmt"
	"math"
	"sort"

	"github.com/go-gota/gota/dataframe"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"

	"github.com/mercadata/supermart-insights/internal/loader"
)

// Summary holds the headline KPIs of a filtered table.
type Summary struct {
	Rows          int     `json:"rows"`
	TotalSales    float64 `json:"total_sales"`
	TotalProfit   float64 `json:"total_profit"`
	TotalQuantity float64 `json:"total_quantity"`
	// Margin is profit over sales, zero when there are no sales.
	Margin      float64 `json:"margin"`
	AvgDiscount float64 `json:"avg_discount"`
}

// Trend is the ordinary-least-squares fit of profit against discount, the
// numeric form of the scatter trendline.
type Trend struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	Valid     bool    `json:"valid"`
}

// BreakdownRow is one group of a profit breakdown.
type BreakdownRow struct {
	Label  string  `json:"label"`
	Profit float64 `json:"profit"`
}

// Analysis is the full result handed to the report layer.
type Analysis struct {
	Summary       Summary        `json:"summary"`
	ByCategory    []BreakdownRow `json:"profit_by_category"`
	ByRegion      []BreakdownRow `json:"profit_by_region"`
	DiscountTrend Trend          `json:"discount_trend"`
	Regions       []string       `json:"regions"`
	Categories    []string       `json:"categories"`
}

// Service computes analyses over canonical tables.
type Service struct {
	log *zap.SugaredLogger
}

// NewService returns an analytics service. A nil logger disables logging.
func NewService(log *zap.SugaredLogger) *Service {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Service{log: log}
}

// AnalyzeParams carries per-run options.
type AnalyzeParams struct {
	Filter Filter
}

// Analyze validates the schema, applies the filter, drops rows with missing
// required cells and computes every aggregate. The input table is read-only
// throughout.
func (s *Service) Analyze(t *loader.CanonicalTable, params AnalyzeParams) (*Analysis, error) {
	if err := RequireFields(t); err != nil {
		return nil, err
	}

	filtered, err := params.Filter.Apply(t)
	if err != nil {
		return nil, fmt.Errorf("apply filters: %w", err)
	}
	clean := DropMissing(filtered)
	s.log.Infof("analyzing %d of %d rows after filters", clean.Nrow(), t.Nrow())

	a := &Analysis{
		Summary:    summarize(clean),
		Regions:    Levels(t, loader.FieldRegion),
		Categories: Levels(t, loader.FieldCategory),
	}
	if clean.Nrow() == 0 {
		return a, nil
	}

	if a.ByCategory, err = profitBreakdown(clean, loader.FieldCategory); err != nil {
		return nil, err
	}
	if a.ByRegion, err = profitBreakdown(clean, loader.FieldRegion); err != nil {
		return nil, err
	}
	a.DiscountTrend = discountTrend(clean)
	return a, nil
}

func summarize(t *loader.CanonicalTable) Summary {
	df := t.DataFrame()
	sum := Summary{Rows: df.Nrow()}
	if sum.Rows == 0 {
		return sum
	}
	sum.TotalSales = df.Col(loader.FieldSales).Sum()
	sum.TotalProfit = df.Col(loader.FieldProfit).Sum()
	sum.TotalQuantity = df.Col(loader.FieldQuantity).Sum()
	sum.AvgDiscount = df.Col(loader.FieldDiscount).Mean()
	if sum.TotalSales != 0 {
		sum.Margin = sum.TotalProfit / sum.TotalSales
	}
	return sum
}

// profitBreakdown sums profit per level of a text field, highest first.
func profitBreakdown(t *loader.CanonicalTable, field string) ([]BreakdownRow, error) {
	df := t.DataFrame()
	groups := df.GroupBy(field)
	if groups.Err != nil {
		return nil, fmt.Errorf("group by %s: %w", field, groups.Err)
	}
	agg := groups.Aggregation(
		[]dataframe.AggregationType{dataframe.Aggregation_SUM},
		[]string{loader.FieldProfit},
	)
	if agg.Err != nil {
		return nil, fmt.Errorf("aggregate %s: %w", field, agg.Err)
	}

	labels := agg.Col(field)
	profits := agg.Col(loader.FieldProfit + "_SUM").Float()
	rows := make([]BreakdownRow, 0, agg.Nrow())
	for i := 0; i < agg.Nrow(); i++ {
		label, _ := labels.Val(i).(string)
		rows = append(rows, BreakdownRow{Label: label, Profit: profits[i]})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Profit != rows[j].Profit {
			return rows[i].Profit > rows[j].Profit
		}
		return rows[i].Label < rows[j].Label
	})
	return rows, nil
}

// discountTrend fits profit = intercept + slope*discount. The fit is marked
// invalid with fewer than two points or when discount has no variance.
func discountTrend(t *loader.CanonicalTable) Trend {
	df := t.DataFrame()
	xs := df.Col(loader.FieldDiscount).Float()
	ys := df.Col(loader.FieldProfit).Float()
	if len(xs) < 2 {
		return Trend{}
	}
	alpha, beta := stat.LinearRegression(xs, ys, nil, false)
	if math.IsNaN(alpha) || math.IsNaN(beta) || math.IsInf(beta, 0) {
		return Trend{}
	}
	return Trend{Slope: beta, Intercept: alpha, Valid: true}
}
