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
package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsURL(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"https://example.com/data.csv", true},
		{"http://example.com/data.csv", true},
		{"data.csv", false},
		{"/tmp/data.csv", false},
		{"ftp://example.com/data.csv", false},
		{"https://", false},
		{"C:\\data\\sales.csv", false},
	}
	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.want, IsURL(tc.input))
		})
	}
}

func TestDownload(t *testing.T) {
	const body = "sales,profit\n1,2\n"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	defer srv.Close()

	dir := t.TempDir()
	dest, err := Download(context.Background(), srv.URL+"/sales.csv", dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "sales.csv"), dest)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, body, string(data))
}

func TestDownloadFallbackName(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("x"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	dest, err := Download(context.Background(), srv.URL, dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "download.csv"), dest)
}

func TestDownloadStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := Download(context.Background(), srv.URL+"/missing.csv", t.TempDir())
	require.Error(t, err)
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "sales.csv", Describe("/data/sales.csv"))
	assert.Equal(t, "example.com/files/sales.csv", Describe("https://example.com/files/sales.csv"))
}
