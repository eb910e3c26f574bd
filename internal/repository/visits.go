package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"clinic-server/internal/models"
	"clinic-server/internal/monitoring"
)

// visitOrdering sorts by the calendar day of the visit descending (most
// recent day first) and by the time of day ascending within a day. The page
// query, COUNT and SUM all run over the same filter, so the ordering only
// decides which rows land on a page, never which rows are counted.
const visitOrdering = "DATE(start_date) DESC, start_date::time ASC"

// VisitFilter is a search specification over visits. Zero-valued fields
// impose no constraint; supplied fields are combined with AND.
type VisitFilter struct {
	ClientID  string
	DoctorID  string
	StartDate *time.Time // inclusive lower bound on start_date
	EndDate   *time.Time // inclusive upper bound on end_date
	Cabinet   string
	Procedure string
	Status    models.VisitStatus
}

func (f VisitFilter) apply(q *gorm.DB) *gorm.DB {
	if f.ClientID != "" {
		q = q.Where("client_id = ?", f.ClientID)
	}
	if f.DoctorID != "" {
		q = q.Where("doctor_id = ?", f.DoctorID)
	}
	if f.StartDate != nil {
		q = q.Where("start_date >= ?", *f.StartDate)
	}
	if f.EndDate != nil {
		q = q.Where("end_date <= ?", *f.EndDate)
	}
	if f.Cabinet != "" {
		q = q.Where("cabinet = ?", f.Cabinet)
	}
	if f.Procedure != "" {
		q = q.Where("procedure = ?", f.Procedure)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	return q
}

// VisitPatch carries the fields of a partial update; nil means untouched.
// Any status may transition to any other status.
type VisitPatch struct {
	ClientID  *string
	DoctorID  *string
	StartDate *time.Time
	EndDate   *time.Time
	Cabinet   *string
	Procedure *string
	Cost      *float64
	Status    *models.VisitStatus
}

func (p VisitPatch) Changes() map[string]interface{} {
	changes := map[string]interface{}{}
	if p.ClientID != nil {
		changes["client_id"] = *p.ClientID
	}
	if p.DoctorID != nil {
		changes["doctor_id"] = *p.DoctorID
	}
	if p.StartDate != nil {
		changes["start_date"] = *p.StartDate
	}
	if p.EndDate != nil {
		changes["end_date"] = *p.EndDate
	}
	if p.Cabinet != nil {
		changes["cabinet"] = *p.Cabinet
	}
	if p.Procedure != nil {
		changes["procedure"] = *p.Procedure
	}
	if p.Cost != nil {
		changes["cost"] = *p.Cost
	}
	if p.Status != nil {
		changes["status"] = *p.Status
	}
	return changes
}

type visitRepository struct {
	db *gorm.DB
}

// NewVisitRepository creates a GORM-backed visit repository.
func NewVisitRepository(db *gorm.DB) VisitRepository {
	return &visitRepository{db: db}
}

func (r *visitRepository) Create(ctx context.Context, visit *models.Visit) error {
	monitoring.DatabaseQueries.Inc()
	if err := r.db.WithContext(ctx).Create(visit).Error; err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return models.ErrInvalidReference
		}
		return err
	}
	return nil
}

func (r *visitRepository) GetByID(ctx context.Context, id string) (*models.Visit, error) {
	monitoring.DatabaseQueries.Inc()
	var visit models.Visit
	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Doctor").
		First(&visit, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &visit, nil
}

func (r *visitRepository) Find(ctx context.Context, filter VisitFilter, limit, offset int) ([]models.Visit, error) {
	monitoring.DatabaseQueries.Inc()
	var visits []models.Visit
	err := filter.apply(r.db.WithContext(ctx)).
		Preload("Client").
		Preload("Doctor").
		Order(visitOrdering).
		Limit(limit).
		Offset(offset).
		Find(&visits).Error
	if err != nil {
		return nil, err
	}
	return visits, nil
}

func (r *visitRepository) Count(ctx context.Context, filter VisitFilter) (int64, error) {
	monitoring.DatabaseQueries.Inc()
	var total int64
	err := filter.apply(r.db.WithContext(ctx).Model(&models.Visit{})).Count(&total).Error
	return total, err
}

func (r *visitRepository) SumCost(ctx context.Context, filter VisitFilter) (float64, error) {
	monitoring.DatabaseQueries.Inc()
	var totalCost float64
	err := filter.apply(r.db.WithContext(ctx).Model(&models.Visit{})).
		Select("COALESCE(SUM(cost), 0)").
		Scan(&totalCost).Error
	return totalCost, err
}

func (r *visitRepository) Update(ctx context.Context, id string, patch VisitPatch) (*models.Visit, error) {
	changes := patch.Changes()
	if len(changes) > 0 {
		monitoring.DatabaseQueries.Inc()
		res := r.db.WithContext(ctx).Model(&models.Visit{}).Where("id = ?", id).Updates(changes)
		if res.Error != nil {
			if errors.Is(res.Error, gorm.ErrForeignKeyViolated) {
				return nil, models.ErrInvalidReference
			}
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, models.ErrNotFound
		}
	}
	return r.GetByID(ctx, id)
}

// Delete removes the row permanently. Deleting an id that does not exist is
// a no-op.
func (r *visitRepository) Delete(ctx context.Context, id string) error {
	monitoring.DatabaseQueries.Inc()
	return r.db.WithContext(ctx).Delete(&models.Visit{}, "id = ?", id).Error
}
