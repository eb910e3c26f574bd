package models

// Doctor represents a practitioner record.
type Doctor struct {
	BaseModel
	Surname    string `gorm:"size:100;not null" json:"surname"`
	Name       string `gorm:"size:100;not null" json:"name"`
	Patronymic string `gorm:"size:100" json:"patronymic,omitempty"`
	FullName   string `gorm:"size:255;not null;index" json:"full_name"`

	Speciality string `gorm:"type:text" json:"speciality"`

	Visits []Visit `gorm:"foreignKey:DoctorID" json:"-"`
}
