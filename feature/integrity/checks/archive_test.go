package checks

import (
	"testing"

	"abandon-report/core/database"
	"abandon-report/feature/abandons"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestCheckArchive(t *testing.T) {
	t.Run("Nil DB", func(t *testing.T) {
		_, err := CheckArchive(nil)
		assert.Error(t, err)
	})

	t.Run("Migrated", func(t *testing.T) {
		db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
		require.NoError(t, err)
		require.NoError(t, abandons.NewArchive(db).Migrate())

		report, err := CheckArchive(db)
		require.NoError(t, err)
		assert.True(t, report.Matched)
		assert.Equal(t, "ok", report.Tables["report_runs"].Status)
		assert.Equal(t, "ok", report.Tables["report_rows"].Status)
	})

	t.Run("Empty database", func(t *testing.T) {
		db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
		require.NoError(t, err)

		report, err := CheckArchive(db)
		require.NoError(t, err)
		assert.False(t, report.Matched)
		assert.Equal(t, "error", report.Tables["report_rows"].Status)
		assert.Contains(t, report.Tables["report_rows"].MissingColumns, "case_number")
	})

	t.Run("Inspection error", func(t *testing.T) {
		sqlDB, sqlMock, err := sqlmock.New()
		require.NoError(t, err)
		defer sqlDB.Close()

		db, err := gorm.Open(mysql.New(mysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true}), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		require.NoError(t, err)

		sqlMock.ExpectQuery("SHOW COLUMNS FROM `report_rows`").WillReturnError(assert.AnError)
		sqlMock.ExpectQuery("SHOW COLUMNS FROM `report_runs`").WillReturnError(assert.AnError)

		report, err := CheckArchive(db)
		require.NoError(t, err)
		assert.False(t, report.Matched)
		assert.Len(t, report.Errors, 2)
	})
}
