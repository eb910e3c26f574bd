package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// BaseModel contains common columns for all tables
type BaseModel struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate will set a UUID rather than numeric ID
func (base *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if base.ID == "" {
		base.ID = uuid.New().String()
	}
	return nil
}

// DatabaseConfig holds database connection details
type DatabaseConfig struct {
	DSN string
}

// InitDB initializes the database connection and migrates the schema.
// TranslateError lets callers match gorm.ErrDuplicatedKey and
// gorm.ErrForeignKeyViolated instead of driver-specific error codes.
func InitDB(config DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(config.DSN), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(
		&Client{},
		&Doctor{},
		&Visit{},
	)
	if err != nil {
		return nil, err
	}

	return db, nil
}
