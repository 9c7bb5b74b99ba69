package models

// GORM models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SearchRecord is the durable trace of a search run through the console.
type SearchRecord struct {
	BaseModel
	QueryText       string    `json:"query_text" gorm:"not null"`
	QueryType       string    `json:"query_type" gorm:"default:'auto'"`
	UserSession     string    `json:"user_session"`
	ResultsCount    int       `json:"results_count" gorm:"default:0"`
	AvgConfidence   float64   `json:"avg_confidence" gorm:"type:decimal(4,3);default:0"`
	SourceCount     int       `json:"source_count" gorm:"default:0"`
	SearchTimestamp time.Time `json:"search_timestamp" gorm:"default:NOW()"`
	ResponseTimeMs  int       `json:"response_time_ms"`
	Succeeded       bool      `json:"succeeded" gorm:"default:true"`
	UserAgent       string    `json:"user_agent"`
	IPAddress       string    `json:"ip_address" gorm:"type:inet"`
}

// SystemHealth represents service health monitoring
type SystemHealth struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	ServiceName    string    `json:"service_name" gorm:"not null"`
	Status         string    `json:"status" gorm:"not null;check:status IN ('healthy','degraded','unhealthy')"`
	ResponseTimeMs int       `json:"response_time_ms"`
	ErrorMessage   string    `json:"error_message"`
	CheckedAt      time.Time `json:"checked_at" gorm:"default:NOW()"`
}

// Database interfaces for repository pattern
type SearchRecordRepository interface {
	Create(record *SearchRecord) error
	GetByID(id uint) (*SearchRecord, error)
	GetBySession(session string) ([]SearchRecord, error)
	GetRecent(limit int) ([]SearchRecord, error)
	CountSince(since time.Time) (int64, error)
}

type SystemHealthRepository interface {
	UpdateServiceHealth(serviceName, status string, responseTime int, errorMsg string) error
	GetServiceHealth(serviceName string) (*SystemHealth, error)
	GetAllServicesHealth() ([]SystemHealth, error)
}

// TableName methods for custom table names
func (SearchRecord) TableName() string { return "search_records" }
func (SystemHealth) TableName() string { return "system_health" }

// Model validation methods
func (sr *SearchRecord) Validate() error {
	if sr.QueryText == "" {
		return fmt.Errorf("query text is required")
	}
	if sr.ResponseTimeMs < 0 {
		return fmt.Errorf("response time cannot be negative")
	}
	validTypes := map[string]bool{
		QueryTypeAuto:   true,
		QueryTypeDomain: true,
		QueryTypeIP:     true,
		QueryTypeEmail:  true,
		QueryTypeURL:    true,
	}
	if !validTypes[sr.QueryType] {
		return fmt.Errorf("invalid query type: %s", sr.QueryType)
	}
	return nil
}

// GORM hooks
func (sr *SearchRecord) BeforeCreate(tx *gorm.DB) error {
	return sr.Validate()
}
