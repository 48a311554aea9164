package database

import (
	"log"
	"os"
	"path/filepath"

	"github.com/bilaalmunir/email-to-summary-automation/internal/database/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// EmailsTableDDL is the schema the emails table is expected to carry. The
// service never creates the table itself, it only advises the operator.
const EmailsTableDDL = `create table if not exists emails (
    id bigint generated by default as identity primary key,
    subject text,
    from_address text,
    to_address text,
    date timestamp with time zone,
    text text,
    summary text,
    extracted_at timestamp with time zone default timezone('utc'::text, now())
);`

// Initialize creates and returns a database connection. A Postgres DSN selects
// the remote store; otherwise a local sqlite file is opened.
func Initialize(databaseURL, databasePath string) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}

	var (
		db  *gorm.DB
		err error
	)
	if databaseURL != "" {
		db, err = gorm.Open(postgres.Open(databaseURL), gormConfig)
	} else {
		if mkErr := os.MkdirAll(filepath.Dir(databasePath), 0755); mkErr != nil {
			return nil, mkErr
		}
		db, err = gorm.Open(sqlite.Open(databasePath), gormConfig)
	}
	if err != nil {
		return nil, err
	}

	// The log table is owned by this service and safe to migrate.
	if err := db.AutoMigrate(&models.Log{}); err != nil {
		return nil, err
	}

	return db, nil
}

// ProbeEmailsTable checks that the emails table exists by selecting a single
// row from it. On failure it logs the exact DDL the operator should run.
func ProbeEmailsTable(db *gorm.DB) bool {
	var probe []models.Email
	if err := db.Limit(1).Find(&probe).Error; err != nil {
		log.Printf("[Bootstrap] Warning: emails table might not exist: %v", err)
		log.Printf("[Bootstrap] Please create the following table:\n%s", EmailsTableDDL)
		return false
	}
	return true
}
