package checks

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type widget struct {
	ID        string `gorm:"primaryKey;size:64"`
	Name      string `gorm:"size:100"`
	Payload   string `gorm:"type:text"`
	Ignored   string `gorm:"-"`
	UpdatedAt time.Time
}

func (widget) TableName() string { return "widgets" }

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

func TestCheckServerIntegrity_NilDB(t *testing.T) {
	report, err := CheckServerIntegrity(nil, widget{})
	assert.Error(t, err)
	assert.Nil(t, report)
}

func TestCheckServerIntegrity_NoModels(t *testing.T) {
	db, _ := setupMockDB(t)
	report, err := CheckServerIntegrity(db)
	assert.Error(t, err)
	assert.Nil(t, report)
}

func TestCheckServerIntegrity_SQLiteMigrated(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&widget{}))

	report, err := CheckServerIntegrity(db, widget{})
	require.NoError(t, err)
	assert.True(t, report.Matched, "report: %+v", report)
	assert.Equal(t, "sqlite", report.Driver)
	assert.Equal(t, "ok", report.Tables["widgets"].Status)
}

func TestCheckServerIntegrity_SQLiteMissingTable(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	report, err := CheckServerIntegrity(db, widget{})
	require.NoError(t, err)
	assert.False(t, report.Matched)
	assert.NotEmpty(t, report.Errors)
}

func TestCheckServerIntegrity_MissingColumn(t *testing.T) {
	db, mock := setupMockDB(t)

	rows := sqlmock.NewRows([]string{"Field", "Type", "Null", "Key", "Default", "Extra"})
	rows.AddRow("id", "varchar(64)", "NO", "PRI", nil, "")
	rows.AddRow("payload", "text", "YES", "", nil, "")
	rows.AddRow("updated_at", "datetime(3)", "YES", "", nil, "")

	mock.ExpectQuery("SHOW COLUMNS FROM `widgets`").WillReturnRows(rows)

	report, err := CheckServerIntegrity(db, widget{})
	require.NoError(t, err)
	assert.False(t, report.Matched)

	tbl, ok := report.Tables["widgets"]
	require.True(t, ok)
	assert.Equal(t, "error", tbl.Status)
	assert.Equal(t, []string{"name"}, tbl.MissingColumns)
	assert.NotContains(t, tbl.MissingColumns, "ignored")
}

func TestCheckServerIntegrity_TypeMismatch(t *testing.T) {
	db, mock := setupMockDB(t)

	rows := sqlmock.NewRows([]string{"Field", "Type", "Null", "Key", "Default", "Extra"})
	rows.AddRow("id", "varchar(64)", "NO", "PRI", nil, "")
	rows.AddRow("name", "varchar(100)", "YES", "", nil, "")
	rows.AddRow("payload", "int(11)", "YES", "", nil, "")
	rows.AddRow("updated_at", "datetime(3)", "YES", "", nil, "")

	mock.ExpectQuery("SHOW COLUMNS FROM `widgets`").WillReturnRows(rows)

	report, err := CheckServerIntegrity(db, widget{})
	require.NoError(t, err)

	tbl := report.Tables["widgets"]
	assert.Equal(t, []string{"payload: expected text, got int(11)"}, tbl.TypeMismatches)
	assert.Empty(t, tbl.MissingColumns)
}

func TestCheckServerIntegrity_InspectError(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectQuery("SHOW COLUMNS FROM `widgets`").WillReturnError(assert.AnError)

	report, err := CheckServerIntegrity(db, widget{})
	require.NoError(t, err)
	assert.False(t, report.Matched)
	assert.Len(t, report.Errors, 1)
}
