package models

import "time"

// Client represents a patient record.
type Client struct {
	BaseModel
	Surname    string `gorm:"size:100;not null" json:"surname"`
	Name       string `gorm:"size:100;not null" json:"name"`
	Patronymic string `gorm:"size:100" json:"patronymic,omitempty"`
	FullName   string `gorm:"size:255;not null;index" json:"full_name"`

	PhoneNumber string     `gorm:"size:32;uniqueIndex;not null" json:"phone_number"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`

	// Back-reference for cascade delete only; visits are queried through
	// their own repository, never loaded as an owned collection.
	Visits []Visit `gorm:"foreignKey:ClientID" json:"-"`
}
