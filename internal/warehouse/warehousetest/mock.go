// Package warehousetest wires a go-sqlmock connection behind gorm's postgres
// dialector for repository and warehouse tests.
package warehousetest

import (
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/vipul43/sky-pledge/internal/warehouse"
)

// NewMock returns a Warehouse backed by sqlmock. Unmet expectations fail
// the test at cleanup.
func NewMock(t *testing.T) (*warehouse.Warehouse, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		_ = sqlDB.Close()
	})

	return warehouse.New(db), mock
}

// ExpectColumns queues the schema introspection of table in the current
// schema, returning columns in the given order.
func ExpectColumns(mock sqlmock.Sqlmock, table string, columns ...string) {
	rows := sqlmock.NewRows([]string{"column_name"})
	for _, column := range columns {
		rows.AddRow(column)
	}
	mock.ExpectQuery(regexp.QuoteMeta("FROM information_schema.columns")).
		WithArgs("", table).
		WillReturnRows(rows)
}
