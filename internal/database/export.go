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
package database

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mercadata/supermart-insights/internal/loader"
)

// ColumnSpec describes one exported column.
type ColumnSpec struct {
	Name string
	Kind ColumnKind
}

// ExportColumns returns the canonical columns present in the table, in
// canonical order.
func ExportColumns(tab *loader.CanonicalTable) []ColumnSpec {
	var cols []ColumnSpec
	for _, field := range loader.CanonicalFields {
		if !tab.HasColumn(field) {
			continue
		}
		kind := KindText
		if loader.IsNumericField(field) {
			kind = KindNumeric
		}
		cols = append(cols, ColumnSpec{Name: field, Kind: kind})
	}
	return cols
}

// BuildExportStatements renders a table export as SQL: one CREATE TABLE IF
// NOT EXISTS followed by batched multi-row INSERTs. Missing values (NaN for
// numeric columns, empty strings for text) become NULL. The statements are
// self-contained so they can be written to a file for review before running.
func BuildExportStatements(handler DialectHandler, tableName string, tab *loader.CanonicalTable, batchSize int) ([]string, error) {
	if tableName == "" {
		return nil, fmt.Errorf("export table name is empty")
	}
	if batchSize < 1 {
		return nil, fmt.Errorf("batch size must be at least 1, got %d", batchSize)
	}
	cols := ExportColumns(tab)
	if len(cols) == 0 {
		return nil, fmt.Errorf("table has no canonical columns to export")
	}

	statements := []string{createTableSQL(handler, tableName, cols)}

	df := tab.DataFrame()
	quotedCols := make([]string, len(cols))
	for i, col := range cols {
		quotedCols[i] = handler.QuoteIdentifier(col.Name)
	}
	insertPrefix := fmt.Sprintf("INSERT INTO %s (%s) VALUES ",
		handler.QuoteIdentifier(tableName), strings.Join(quotedCols, ", "))

	var rows []string
	flush := func() {
		if len(rows) > 0 {
			statements = append(statements, insertPrefix+strings.Join(rows, ", ")+";")
			rows = nil
		}
	}
	for i := 0; i < df.Nrow(); i++ {
		values := make([]string, len(cols))
		for j, col := range cols {
			values[j] = sqlLiteral(df.Col(col.Name).Val(i), col.Kind)
		}
		rows = append(rows, "("+strings.Join(values, ", ")+")")
		if len(rows) == batchSize {
			flush()
		}
	}
	flush()

	return statements, nil
}

func createTableSQL(handler DialectHandler, tableName string, cols []ColumnSpec) string {
	defs := make([]string, len(cols))
	for i, col := range cols {
		defs[i] = fmt.Sprintf("%s %s", handler.QuoteIdentifier(col.Name), handler.ColumnType(col.Kind))
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s);",
		handler.QuoteIdentifier(tableName), strings.Join(defs, ", "))
}

func sqlLiteral(v any, kind ColumnKind) string {
	if kind == KindNumeric {
		f, ok := v.(float64)
		if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
			return "NULL"
		}
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "NULL"
	}
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
