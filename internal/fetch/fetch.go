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

// Package fetch lets the CLI accept http(s) URLs wherever it accepts a
// local CSV path.
package fetch

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/carlmjohnson/requests"
)

// IsURL reports whether the input looks like an http or https URL rather
// than a local path.
func IsURL(input string) bool {
	u, err := url.Parse(input)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Download fetches a URL into dir and returns the local file path. The file
// name is taken from the URL path, falling back to download.csv.
func Download(ctx context.Context, rawURL, dir string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid URL %q: %w", rawURL, err)
	}
	name := path.Base(u.Path)
	if name == "" || name == "." || name == "/" {
		name = "download.csv"
	}
	dest := filepath.Join(dir, name)

	err = requests.
		URL(rawURL).
		CheckStatus(200).
		ToFile(dest).
		Fetch(ctx)
	if err != nil {
		return "", fmt.Errorf("download %s: %w", rawURL, err)
	}
	return dest, nil
}

// Describe returns a short label for logs: the file name for local paths,
// the host for URLs.
func Describe(input string) string {
	if !IsURL(input) {
		return filepath.Base(input)
	}
	u, err := url.Parse(input)
	if err != nil {
		return input
	}
	return u.Host + strings.TrimSuffix(u.Path, "/")
}
