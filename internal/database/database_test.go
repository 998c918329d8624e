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
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mercadata/supermart-insights/internal/config"
)

type stubHandler struct{}

func (stubHandler) CreateStandardPool(cfg config.DatabaseConfig) (*sql.DB, error) { return nil, nil }
func (stubHandler) CreateCloudSQLPool(cfg config.DatabaseConfig) (*sql.DB, error) { return nil, nil }
func (stubHandler) QuoteIdentifier(name string) string                            { return `"` + name + `"` }
func (stubHandler) ColumnType(kind ColumnKind) string {
	if kind == KindNumeric {
		return "DOUBLE PRECISION"
	}
	return "TEXT"
}

func TestDialectHandlerRegistry(t *testing.T) {
	RegisterDialectHandler("stub", stubHandler{})

	handler, err := GetDialectHandler("stub")
	require.NoError(t, err)
	assert.Equal(t, `"x"`, handler.QuoteIdentifier("x"))

	_, err = GetDialectHandler("oracle")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database dialect")
}

func newMockDB(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()
	pool, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { pool.Close() })
	return &DB{Pool: pool, Handler: stubHandler{}, log: zap.NewNop().Sugar()}, mock
}

func TestExecuteSQLStatements(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO").WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS "supermarket_sales" ("sales" DOUBLE PRECISION);`,
		`INSERT INTO "supermarket_sales" ("sales") VALUES (1), (2);`,
	}
	require.NoError(t, db.ExecuteSQLStatements(context.Background(), stmts))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecuteSQLStatementsSkipsBlankStatements(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	stmts := []string{"  ", `INSERT INTO "t" ("sales") VALUES (1);`, ""}
	require.NoError(t, db.ExecuteSQLStatements(context.Background(), stmts))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecuteSQLStatementsRollsBackOnError(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO").WillReturnError(fmt.Errorf("disk full"))
	mock.ExpectRollback()

	err := db.ExecuteSQLStatements(context.Background(), []string{`INSERT INTO "t" ("sales") VALUES (1);`})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed executing statement #1")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecuteSQLStatementsEmptyInput(t *testing.T) {
	db, mock := newMockDB(t)
	require.NoError(t, db.ExecuteSQLStatements(context.Background(), nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}
