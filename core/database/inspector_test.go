package database

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func TestGetTableColumns(t *testing.T) {
	// Setup In-Memory DB
	cfg := Config{
		Driver: "sqlite",
		Name:   ":memory:",
	}
	db, err := Connect(cfg)
	assert.NoError(t, err)
	assert.NotNil(t, db)

	// Create a test table
	// SQLite specific types: INTEGER, TEXT.
	err = db.Exec("CREATE TABLE test_rows (id INTEGER PRIMARY KEY, case_number TEXT, reason TEXT)").Error
	assert.NoError(t, err)

	// Test GetTableColumns
	columns, err := GetTableColumns(db, "test_rows")
	assert.NoError(t, err)
	assert.Len(t, columns, 3)

	// Map columns to map for easy assertion
	colMap := make(map[string]string)
	for _, col := range columns {
		colMap[col.Field] = col.Type
	}

	assert.Equal(t, "integer", colMap["id"])
	assert.Equal(t, "text", colMap["case_number"])
	assert.Equal(t, "text", colMap["reason"])

	// Test non-existent table
	cols, err := GetTableColumns(db, "non_existent")
	// PRAGMA table_info returns empty result for non-existent table in SQLite, implies no error but empty columns
	assert.NoError(t, err)
	assert.Empty(t, cols)
}

func TestMissingColumns(t *testing.T) {
	db, err := Connect(Config{Driver: "sqlite", Name: ":memory:"})
	assert.NoError(t, err)

	err = db.Exec("CREATE TABLE report_rows (id INTEGER PRIMARY KEY, Case_Number TEXT)").Error
	assert.NoError(t, err)

	missing, err := MissingColumns(db, "report_rows", []string{"id", "case_number", "hour"})
	assert.NoError(t, err)
	assert.Equal(t, []string{"hour"}, missing)

	missing, err = MissingColumns(db, "absent_table", []string{"id"})
	assert.NoError(t, err)
	assert.Equal(t, []string{"id"}, missing)
}

func TestGetTableColumns_MySQL(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	assert.NoError(t, err)

	rows := sqlmock.NewRows([]string{"Field", "Type", "Null", "Key", "Default", "Extra"}).
		AddRow("ID", "BIGINT UNSIGNED", "NO", "PRI", nil, "auto_increment").
		AddRow("Case_Number", "VARCHAR(191)", "YES", "", nil, "")
	mock.ExpectQuery("SHOW COLUMNS FROM `report_rows`").WillReturnRows(rows)

	columns, err := GetTableColumns(db, "report_rows")
	assert.NoError(t, err)
	assert.Len(t, columns, 2)
	assert.Equal(t, "case_number", columns[1].Field)
	assert.Equal(t, "varchar(191)", columns[1].Type)
	assert.NoError(t, mock.ExpectationsWereMet())
}
