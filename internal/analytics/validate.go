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
	"fmt"
	"strings"

	"github.com/mercadata/supermart-insights/internal/loader"
)

// ErrMissingRequiredColumns is returned when a loaded table lacks canonical
// fields the analytics depend on. This check is deliberately separate from
// the loader: detection/normalization and schema validation are two
// contracts with two failure modes.
type ErrMissingRequiredColumns struct {
	Missing []string
	Found   []string
}

func (e *ErrMissingRequiredColumns) Error() string {
	return fmt.Sprintf("table is missing required columns: %s (found: %s)",
		strings.Join(e.Missing, ", "), strings.Join(e.Found, ", "))
}

// RequireFields verifies that every canonical field is present as a column.
func RequireFields(t *loader.CanonicalTable) error {
	missing := t.MissingFields()
	if len(missing) == 0 {
		return nil
	}
	return &ErrMissingRequiredColumns{Missing: missing, Found: t.Names()}
}
