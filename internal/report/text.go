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

// Package report renders an analysis for humans and machines: a plain-text
// dashboard for the terminal and an indented JSON document for files.
package report

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	"github.com/mercadata/supermart-insights/internal/analytics"
)

// FormatBRL renders a value as Brazilian currency, rounded to whole reais
// with dot-grouped thousands. NaN and infinities render as "R$ 0".
func FormatBRL(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "R$ 0"
	}
	return "R$ " + groupThousands(int64(math.Round(v)))
}

// FormatCount renders an integral quantity with dot-grouped thousands.
func FormatCount(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0"
	}
	return groupThousands(int64(math.Round(v)))
}

// FormatPercent renders a ratio as a percentage with one decimal.
func FormatPercent(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", v*100)
}

func groupThousands(n int64) string {
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	digits := fmt.Sprintf("%d", n)
	if len(digits) <= 3 {
		return sign + digits
	}
	var groups []string
	for len(digits) > 3 {
		groups = append([]string{digits[len(digits)-3:]}, groups...)
		digits = digits[:len(digits)-3]
	}
	groups = append([]string{digits}, groups...)
	return sign + strings.Join(groups, ".")
}

// FormatAnalysisAsText renders the full analysis as an aligned plain-text
// report.
func FormatAnalysisAsText(a *analytics.Analysis) string {
	var buffer bytes.Buffer

	buffer.WriteString("--- Summary ---\n")
	buffer.WriteString(fmt.Sprintf("  Rows analyzed:  %s\n", FormatCount(float64(a.Summary.Rows))))
	buffer.WriteString(fmt.Sprintf("  Total sales:    %s\n", FormatBRL(a.Summary.TotalSales)))
	buffer.WriteString(fmt.Sprintf("  Total profit:   %s\n", FormatBRL(a.Summary.TotalProfit)))
	buffer.WriteString(fmt.Sprintf("  Total quantity: %s\n", FormatCount(a.Summary.TotalQuantity)))
	buffer.WriteString(fmt.Sprintf("  Profit margin:  %s\n", FormatPercent(a.Summary.Margin)))
	buffer.WriteString(fmt.Sprintf("  Avg discount:   %s\n", FormatPercent(a.Summary.AvgDiscount)))

	writeBreakdown(&buffer, "Profit by Category", a.ByCategory)
	writeBreakdown(&buffer, "Profit by Region", a.ByRegion)

	buffer.WriteString("\n--- Discount Impact ---\n")
	if a.DiscountTrend.Valid {
		buffer.WriteString(fmt.Sprintf("  Trend: profit = %.2f + %.2f x discount\n",
			a.DiscountTrend.Intercept, a.DiscountTrend.Slope))
	} else {
		buffer.WriteString("  Not enough data points for a trend.\n")
	}

	if len(a.Regions) > 0 || len(a.Categories) > 0 {
		buffer.WriteString("\n--- Dimensions ---\n")
		buffer.WriteString(fmt.Sprintf("  Regions:    %s\n", strings.Join(a.Regions, ", ")))
		buffer.WriteString(fmt.Sprintf("  Categories: %s\n", strings.Join(a.Categories, ", ")))
	}
	return buffer.String()
}

func writeBreakdown(buffer *bytes.Buffer, title string, rows []analytics.BreakdownRow) {
	buffer.WriteString(fmt.Sprintf("\n--- %s ---\n", title))
	if len(rows) == 0 {
		buffer.WriteString("  No rows after filtering.\n")
		return
	}
	width := 0
	for _, row := range rows {
		if len(row.Label) > width {
			width = len(row.Label)
		}
	}
	for _, row := range rows {
		buffer.WriteString(fmt.Sprintf("  %-*s  %s\n", width, row.Label, FormatBRL(row.Profit)))
	}
}
