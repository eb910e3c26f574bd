package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"clinic-server/internal/models"
	"clinic-server/internal/monitoring"
)

// DoctorPatch carries the fields of a partial update; nil means untouched.
type DoctorPatch struct {
	Surname    *string
	Name       *string
	Patronymic *string
	FullName   *string
	Speciality *string
}

func (p DoctorPatch) Changes() map[string]interface{} {
	changes := map[string]interface{}{}
	if p.Surname != nil {
		changes["surname"] = *p.Surname
	}
	if p.Name != nil {
		changes["name"] = *p.Name
	}
	if p.Patronymic != nil {
		changes["patronymic"] = *p.Patronymic
	}
	if p.FullName != nil {
		changes["full_name"] = *p.FullName
	}
	if p.Speciality != nil {
		changes["speciality"] = *p.Speciality
	}
	return changes
}

type doctorRepository struct {
	db *gorm.DB
}

// NewDoctorRepository creates a GORM-backed doctor repository.
func NewDoctorRepository(db *gorm.DB) DoctorRepository {
	return &doctorRepository{db: db}
}

func (r *doctorRepository) Create(ctx context.Context, doctor *models.Doctor) error {
	monitoring.DatabaseQueries.Inc()
	return r.db.WithContext(ctx).Create(doctor).Error
}

func (r *doctorRepository) GetByID(ctx context.Context, id string) (*models.Doctor, error) {
	monitoring.DatabaseQueries.Inc()
	var doctor models.Doctor
	if err := r.db.WithContext(ctx).First(&doctor, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &doctor, nil
}

func (r *doctorRepository) FindBySubstr(ctx context.Context, substr string) ([]models.Doctor, error) {
	monitoring.DatabaseQueries.Inc()
	pattern := "%" + substr + "%"
	var doctors []models.Doctor
	err := r.db.WithContext(ctx).
		Where("full_name ILIKE ? OR speciality ILIKE ?", pattern, pattern).
		Order("name ASC").
		Limit(searchLimit).
		Find(&doctors).Error
	if err != nil {
		return nil, err
	}
	return doctors, nil
}

func (r *doctorRepository) Update(ctx context.Context, id string, patch DoctorPatch) (*models.Doctor, error) {
	changes := patch.Changes()
	if len(changes) > 0 {
		monitoring.DatabaseQueries.Inc()
		res := r.db.WithContext(ctx).Model(&models.Doctor{}).Where("id = ?", id).Updates(changes)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, models.ErrNotFound
		}
	}
	return r.GetByID(ctx, id)
}
