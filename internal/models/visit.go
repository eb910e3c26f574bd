package models

import "time"

// VisitStatus represents the status of a visit
type VisitStatus string

const (
	StatusUnconfirmed VisitStatus = "UNCONFIRMED"
	StatusConfirmed   VisitStatus = "CONFIRMED"
	StatusPaid        VisitStatus = "PAID"
)

// Visit represents a scheduled appointment linking one client and one doctor.
type Visit struct {
	BaseModel
	ClientID string `gorm:"size:36;index;not null" json:"client_id"`
	DoctorID string `gorm:"size:36;index;not null" json:"doctor_id"`

	StartDate time.Time `gorm:"not null;index" json:"start_date"`
	EndDate   time.Time `gorm:"not null" json:"end_date"`

	Cabinet   string      `gorm:"size:50" json:"cabinet,omitempty"`
	Procedure string      `gorm:"type:text" json:"procedure,omitempty"`
	Cost      *float64    `json:"cost,omitempty"`
	Status    VisitStatus `gorm:"size:20;default:'UNCONFIRMED'" json:"status"`

	// Relations (preloaded for display names)
	Client Client `gorm:"foreignKey:ClientID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Doctor Doctor `gorm:"foreignKey:DoctorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}
