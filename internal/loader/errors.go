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
	"fmt"
	"strings"
)

// ErrNoParsableDialect is returned when no (encoding, delimiter) combination
// produces a table with more than one column. Per-trial parse failures are
// absorbed by the detector; this is the terminal form.
type ErrNoParsableDialect struct {
	Trials int
}

func (e *ErrNoParsableDialect) Error() string {
	return fmt.Sprintf("no parsable dialect: none of %d encoding/delimiter trials produced a multi-column table", e.Trials)
}

// ErrAmbiguousColumnMapping is returned when two or more raw headers resolve
// to the same canonical field, surfacing the collision instead of letting a
// last-write-wins rename silently drop a column.
type ErrAmbiguousColumnMapping struct {
	Canonical string
	Headers   []string
}

func (e *ErrAmbiguousColumnMapping) Error() string {
	return fmt.Sprintf("ambiguous column mapping: headers [%s] all resolve to canonical field %q",
		strings.Join(e.Headers, ", "), e.Canonical)
}
