package repository

import (
	"time"

	"github.com/binaryshield/godeye-console/internal/models"
	"gorm.io/gorm"
)

// SearchRecordRepositoryImpl implements SearchRecordRepository
type SearchRecordRepositoryImpl struct {
	db *gorm.DB
}

func NewSearchRecordRepository(db *gorm.DB) models.SearchRecordRepository {
	return &SearchRecordRepositoryImpl{db: db}
}

func (r *SearchRecordRepositoryImpl) Create(record *models.SearchRecord) error {
	return r.db.Create(record).Error
}

func (r *SearchRecordRepositoryImpl) GetByID(id uint) (*models.SearchRecord, error) {
	var record models.SearchRecord
	err := r.db.First(&record, id).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *SearchRecordRepositoryImpl) GetBySession(session string) ([]models.SearchRecord, error) {
	var records []models.SearchRecord
	err := r.db.Where("user_session = ?", session).
		Order("search_timestamp DESC").
		Find(&records).Error
	return records, err
}

func (r *SearchRecordRepositoryImpl) GetRecent(limit int) ([]models.SearchRecord, error) {
	var records []models.SearchRecord
	err := r.db.Order("search_timestamp DESC").
		Limit(limit).
		Find(&records).Error
	return records, err
}

func (r *SearchRecordRepositoryImpl) CountSince(since time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.SearchRecord{}).
		Where("search_timestamp >= ?", since).
		Count(&count).Error
	return count, err
}

// SystemHealthRepositoryImpl implements SystemHealthRepository
type SystemHealthRepositoryImpl struct {
	db *gorm.DB
}

func NewSystemHealthRepository(db *gorm.DB) models.SystemHealthRepository {
	return &SystemHealthRepositoryImpl{db: db}
}

func (r *SystemHealthRepositoryImpl) UpdateServiceHealth(serviceName, status string, responseTime int, errorMsg string) error {
	return r.db.Exec(`
		INSERT INTO system_health (service_name, status, response_time_ms, error_message, checked_at)
		VALUES (?, ?, ?, ?, NOW())
	`, serviceName, status, responseTime, errorMsg).Error
}

func (r *SystemHealthRepositoryImpl) GetServiceHealth(serviceName string) (*models.SystemHealth, error) {
	var health models.SystemHealth
	err := r.db.Where("service_name = ?", serviceName).
		Order("checked_at DESC").
		First(&health).Error
	if err != nil {
		return nil, err
	}
	return &health, nil
}

func (r *SystemHealthRepositoryImpl) GetAllServicesHealth() ([]models.SystemHealth, error) {
	var health []models.SystemHealth
	err := r.db.Raw(`
		SELECT DISTINCT ON (service_name) *
		FROM system_health
		ORDER BY service_name, checked_at DESC
	`).Scan(&health).Error
	return health, err
}

// RepositoryManager bundles all repositories
type RepositoryManager struct {
	SearchRecord models.SearchRecordRepository
	SystemHealth models.SystemHealthRepository
}

func NewRepositoryManager(db *gorm.DB) *RepositoryManager {
	return &RepositoryManager{
		SearchRecord: NewSearchRecordRepository(db),
		SystemHealth: NewSystemHealthRepository(db),
	}
}
