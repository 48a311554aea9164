package services

import (
	"github.com/bilaalmunir/email-to-summary-automation/internal/database/models"
	"gorm.io/gorm"
)

// StoreService persists extracted records and reads them back out
type StoreService struct {
	db         *gorm.DB
	logService *LogService
}

// NewStoreService creates a new StoreService instance
func NewStoreService(db *gorm.DB, logService *LogService) *StoreService {
	return &StoreService{
		db:         db,
		logService: logService,
	}
}

// Insert stores a single record. Each record is inserted individually so one
// failure does not affect the others.
func (s *StoreService) Insert(record *models.Email) error {
	if err := s.db.Create(record).Error; err != nil {
		return err
	}
	s.logService.LogInfo(models.LogModuleStore, "insert", "Stored email", map[string]interface{}{
		"subject": record.Subject,
	})
	return nil
}

// ListAll returns every stored record ordered by message date descending
func (s *StoreService) ListAll() ([]models.Email, error) {
	var emails []models.Email
	if err := s.db.Order("date desc").Find(&emails).Error; err != nil {
		return nil, err
	}
	return emails, nil
}
