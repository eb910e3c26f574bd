package service

import (
	"context"
	"time"

	"clinic-server/internal/models"
	"clinic-server/internal/pagination"
	"clinic-server/internal/repository"
)

// VisitPage is a bounded slice of a filtered result set together with the
// aggregates of the whole set.
type VisitPage struct {
	Total     int64
	Limit     int
	Offset    int
	TotalCost float64
	Visits    []models.Visit
}

// VisitService orchestrates the visit repository to produce consistent
// pages: the returned slice, the total count and the total cost are always
// computed over the same filter.
type VisitService struct {
	repo repository.VisitRepository
}

func NewVisitService(repo repository.VisitRepository) *VisitService {
	return &VisitService{repo: repo}
}

// Search returns one page of matching visits plus the count and cost sum of
// the full filtered set. The aggregates ignore limit and offset; a filter
// matching nothing yields zeros, not an error.
func (s *VisitService) Search(ctx context.Context, filter repository.VisitFilter, params pagination.Params) (*VisitPage, error) {
	params.Validate()

	visits, err := s.repo.Find(ctx, filter, params.Limit, params.Offset)
	if err != nil {
		return nil, err
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	totalCost, err := s.repo.SumCost(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &VisitPage{
		Total:     total,
		Limit:     params.Limit,
		Offset:    params.Offset,
		TotalCost: totalCost,
		Visits:    visits,
	}, nil
}

// Create applies the record defaults before inserting: a visit without an
// end runs one hour, and a visit starts out unconfirmed.
func (s *VisitService) Create(ctx context.Context, visit *models.Visit) error {
	if visit.EndDate.IsZero() {
		visit.EndDate = visit.StartDate.Add(time.Hour)
	}
	if visit.Status == "" {
		visit.Status = models.StatusUnconfirmed
	}
	return s.repo.Create(ctx, visit)
}

func (s *VisitService) GetByID(ctx context.Context, id string) (*models.Visit, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *VisitService) Update(ctx context.Context, id string, patch repository.VisitPatch) (*models.Visit, error) {
	return s.repo.Update(ctx, id, patch)
}

func (s *VisitService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
