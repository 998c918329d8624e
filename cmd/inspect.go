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
package cmd

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mercadata/supermart-insights/internal/loader"
)

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect <csv-file-or-url>",
	Short: "Show how a CSV would be loaded without analyzing it",
	Long: `Runs dialect detection and header normalization on a CSV and reports
the detected encoding and delimiter, the header-to-column mapping, missing
canonical fields and per-column missing value counts. Useful for checking a
new export before analyzing or exporting it.`,
	Example: `./supermart_analyzer inspect vendas.csv`,
	Args:    cobra.ExactArgs(1),
	RunE:    runInspect,
}

func runInspect(cmd *cobra.Command, args []string) error {
	tab, err := loadInput(cmd, args[0])
	if err != nil {
		return err
	}
	fmt.Print(formatInspection(tab))
	return nil
}

func formatInspection(tab *loader.CanonicalTable) string {
	var buffer bytes.Buffer

	buffer.WriteString("--- Dialect ---\n")
	buffer.WriteString(fmt.Sprintf("  Encoding:  %s\n", tab.Dialect.Encoding))
	buffer.WriteString(fmt.Sprintf("  Delimiter: %q\n", tab.Dialect.Delimiter))
	buffer.WriteString(fmt.Sprintf("  Rows:      %d\n", tab.Nrow()))

	buffer.WriteString("\n--- Column Mapping ---\n")
	for _, raw := range tab.RawHeaders {
		final, ok := tab.Mapping[raw]
		if !ok {
			continue
		}
		marker := ""
		if loader.IsCanonical(final) {
			marker = " (canonical)"
		}
		buffer.WriteString(fmt.Sprintf("  %-30q -> %s%s\n", raw, final, marker))
	}

	if missing := tab.MissingFields(); len(missing) > 0 {
		buffer.WriteString("\n--- Missing Required Columns ---\n")
		buffer.WriteString("  " + strings.Join(missing, ", ") + "\n")
	}

	buffer.WriteString("\n--- Missing Values ---\n")
	any := false
	for _, field := range loader.CanonicalFields {
		if !tab.HasColumn(field) {
			continue
		}
		if n := tab.MissingCount(field); n > 0 {
			buffer.WriteString(fmt.Sprintf("  %-10s %d\n", field, n))
			any = true
		}
	}
	if !any {
		buffer.WriteString("  None.\n")
	}
	return buffer.String()
}
