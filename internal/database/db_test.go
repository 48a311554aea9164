package database

import (
	"path/filepath"
	"testing"

	"github.com/bilaalmunir/email-to-summary-automation/internal/database/models"
)

func TestInitializeSQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := Initialize("", dbPath)
	if err != nil {
		t.Fatalf("Initialize returned error: %v", err)
	}
	defer func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	}()

	// The log table is migrated automatically
	if !db.Migrator().HasTable(&models.Log{}) {
		t.Error("log table missing after Initialize")
	}
	// The emails table is owned by the remote store and never created here
	if db.Migrator().HasTable(&models.Email{}) {
		t.Error("emails table must not be created by Initialize")
	}
}

func TestProbeEmailsTable(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "probe.db")
	db, err := Initialize("", dbPath)
	if err != nil {
		t.Fatalf("Initialize returned error: %v", err)
	}
	defer func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	}()

	if ProbeEmailsTable(db) {
		t.Error("probe should fail before the emails table exists")
	}
	if err := db.AutoMigrate(&models.Email{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if !ProbeEmailsTable(db) {
		t.Error("probe should succeed once the emails table exists")
	}
}
