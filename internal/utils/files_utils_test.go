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
package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadSQLStatementsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.sql")
	content := "CREATE TABLE IF NOT EXISTS \"t\" (\"sales\" REAL);\n" +
		"INSERT INTO \"t\" (\"sales\") VALUES (1);\n\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	stmts, err := ReadSQLStatementsFromFile(path)
	require.NoError(t, err)
	require.Len(t, stmts, 2)
	assert.Contains(t, stmts[0], "CREATE TABLE")
	assert.Contains(t, stmts[1], "INSERT INTO")
}

func TestReadSQLStatementsFromFileMissing(t *testing.T) {
	_, err := ReadSQLStatementsFromFile(filepath.Join(t.TempDir(), "nope.sql"))
	assert.Error(t, err)
}

func TestReadContextFiles(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "a.txt")
	second := filepath.Join(dir, "b.txt")
	require.NoError(t, os.WriteFile(first, []byte("campaign notes"), 0644))
	require.NoError(t, os.WriteFile(second, []byte("store list"), 0644))

	combined, err := ReadContextFiles(first + "," + second)
	require.NoError(t, err)
	assert.Contains(t, combined, "campaign notes")
	assert.Contains(t, combined, "store list")

	combined, err = ReadContextFiles("")
	require.NoError(t, err)
	assert.Empty(t, combined)
}

func TestGetDefaultOutputFilePath(t *testing.T) {
	assert.Equal(t, "sales_export.sql", GetDefaultOutputFilePath("/data/sales.csv", "export"))
	assert.Equal(t, "sales_report.json", GetDefaultOutputFilePath("sales.csv", "analyze"))
	assert.Equal(t, "sales_inspect.txt", GetDefaultOutputFilePath("sales.csv", "inspect"))
	assert.Equal(t, "supermart_export.sql", GetDefaultOutputFilePath("", "export"))
}

func TestParseListFlag(t *testing.T) {
	assert.Nil(t, ParseListFlag(""))
	assert.Equal(t, []string{"South", "North"}, ParseListFlag("South, North"))
	assert.Equal(t, []string{"Tech"}, ParseListFlag("Tech,,  "))
}
