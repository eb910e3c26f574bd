package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"clinic-server/internal/models"
	"clinic-server/internal/monitoring"
)

// ClientPatch carries the fields of a partial update. Nil means "not
// supplied, leave untouched"; a non-nil pointer to a zero value is an
// explicit overwrite.
type ClientPatch struct {
	Surname     *string
	Name        *string
	Patronymic  *string
	FullName    *string
	PhoneNumber *string
	DateOfBirth *time.Time
}

// Changes builds the column map applied to the row. Only supplied fields
// appear in it.
func (p ClientPatch) Changes() map[string]interface{} {
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
	if p.PhoneNumber != nil {
		changes["phone_number"] = *p.PhoneNumber
	}
	if p.DateOfBirth != nil {
		changes["date_of_birth"] = *p.DateOfBirth
	}
	return changes
}

type clientRepository struct {
	db *gorm.DB
}

// NewClientRepository creates a GORM-backed client repository.
func NewClientRepository(db *gorm.DB) ClientRepository {
	return &clientRepository{db: db}
}

func (r *clientRepository) Create(ctx context.Context, client *models.Client) error {
	monitoring.DatabaseQueries.Inc()
	if err := r.db.WithContext(ctx).Create(client).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.ErrPhoneNumberTaken
		}
		return err
	}
	return nil
}

func (r *clientRepository) GetByID(ctx context.Context, id string) (*models.Client, error) {
	monitoring.DatabaseQueries.Inc()
	var client models.Client
	if err := r.db.WithContext(ctx).First(&client, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &client, nil
}

func (r *clientRepository) FindBySubstr(ctx context.Context, substr string) ([]models.Client, error) {
	monitoring.DatabaseQueries.Inc()
	pattern := "%" + substr + "%"
	var clients []models.Client
	err := r.db.WithContext(ctx).
		Where("full_name ILIKE ? OR phone_number ILIKE ?", pattern, pattern).
		Order("name ASC").
		Limit(searchLimit).
		Find(&clients).Error
	if err != nil {
		return nil, err
	}
	return clients, nil
}

func (r *clientRepository) Update(ctx context.Context, id string, patch ClientPatch) (*models.Client, error) {
	changes := patch.Changes()
	if len(changes) > 0 {
		monitoring.DatabaseQueries.Inc()
		res := r.db.WithContext(ctx).Model(&models.Client{}).Where("id = ?", id).Updates(changes)
		if res.Error != nil {
			if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
				return nil, models.ErrPhoneNumberTaken
			}
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, models.ErrNotFound
		}
	}
	return r.GetByID(ctx, id)
}
