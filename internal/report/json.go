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
package report

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/mercadata/supermart-insights/internal/analytics"
)

// FormatAnalysisAsJSON renders the analysis as an indented JSON document.
// Breakdown slices are forced non-nil so consumers always see arrays.
func FormatAnalysisAsJSON(a *analytics.Analysis) ([]byte, error) {
	out := *a
	if out.ByCategory == nil {
		out.ByCategory = []analytics.BreakdownRow{}
	}
	if out.ByRegion == nil {
		out.ByRegion = []analytics.BreakdownRow{}
	}
	if out.Regions == nil {
		out.Regions = []string{}
	}
	if out.Categories == nil {
		out.Categories = []string{}
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal analysis: %w", err)
	}
	return data, nil
}

// WriteAnalysisJSON writes the JSON report to a file with a trailing newline.
func WriteAnalysisJSON(a *analytics.Analysis, path string) error {
	data, err := FormatAnalysisAsJSON(a)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write report to %s: %w", path, err)
	}
	return nil
}
