package repository

import (
	"context"

	"clinic-server/internal/models"
)

// Substring search results are capped regardless of the pattern.
const searchLimit = 20

// ClientRepository provides access to client records.
type ClientRepository interface {
	Create(ctx context.Context, client *models.Client) error
	GetByID(ctx context.Context, id string) (*models.Client, error)
	FindBySubstr(ctx context.Context, substr string) ([]models.Client, error)
	Update(ctx context.Context, id string, patch ClientPatch) (*models.Client, error)
}

// DoctorRepository provides access to doctor records.
type DoctorRepository interface {
	Create(ctx context.Context, doctor *models.Doctor) error
	GetByID(ctx context.Context, id string) (*models.Doctor, error)
	FindBySubstr(ctx context.Context, substr string) ([]models.Doctor, error)
	Update(ctx context.Context, id string, patch DoctorPatch) (*models.Doctor, error)
}

// VisitRepository provides access to visit records. Find, Count and SumCost
// accept the same filter so that a page and its aggregates always describe
// the same logical row set.
type VisitRepository interface {
	Create(ctx context.Context, visit *models.Visit) error
	GetByID(ctx context.Context, id string) (*models.Visit, error)
	Find(ctx context.Context, filter VisitFilter, limit, offset int) ([]models.Visit, error)
	Count(ctx context.Context, filter VisitFilter) (int64, error)
	SumCost(ctx context.Context, filter VisitFilter) (float64, error)
	Update(ctx context.Context, id string, patch VisitPatch) (*models.Visit, error)
	Delete(ctx context.Context, id string) error
}
