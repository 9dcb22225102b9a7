package services_test

import (
	"fmt"
	"os"
	"testing"

	"gorm.io/gorm"

	"github.com/lthoa462/homework/config"
)

// testDB is nil unless TEST_DATABASE_URL points at a disposable database.
var testDB *gorm.DB

func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		// No database available: DB-backed tests skip themselves.
		os.Exit(m.Run())
	}

	db, err := config.OpenDB(dsn)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open test database: %v\n", err)
		os.Exit(1)
	}
	testDB = db

	code := m.Run()
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	os.Exit(code)
}

// freshDB empties every table and returns the shared connection.
func freshDB(t *testing.T) *gorm.DB {
	t.Helper()
	if testDB == nil {
		t.Skip("skipping integration test (requires TEST_DATABASE_URL)")
	}
	err := testDB.Exec("TRUNCATE subject_entries, homework_reports, schedules, users RESTART IDENTITY CASCADE").Error
	if err != nil {
		t.Fatalf("truncate: %v", err)
	}
	return testDB
}
