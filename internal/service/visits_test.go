package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"clinic-server/internal/models"
	"clinic-server/internal/pagination"
	"clinic-server/internal/repository"
)

// mockVisitRepository implements repository.VisitRepository for testing
type mockVisitRepository struct {
	createFunc  func(ctx context.Context, visit *models.Visit) error
	getByIDFunc func(ctx context.Context, id string) (*models.Visit, error)
	findFunc    func(ctx context.Context, filter repository.VisitFilter, limit, offset int) ([]models.Visit, error)
	countFunc   func(ctx context.Context, filter repository.VisitFilter) (int64, error)
	sumCostFunc func(ctx context.Context, filter repository.VisitFilter) (float64, error)
	updateFunc  func(ctx context.Context, id string, patch repository.VisitPatch) (*models.Visit, error)
	deleteFunc  func(ctx context.Context, id string) error
}

func (m *mockVisitRepository) Create(ctx context.Context, visit *models.Visit) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, visit)
	}
	return errors.New("not implemented")
}

func (m *mockVisitRepository) GetByID(ctx context.Context, id string) (*models.Visit, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, errors.New("not implemented")
}

func (m *mockVisitRepository) Find(ctx context.Context, filter repository.VisitFilter, limit, offset int) ([]models.Visit, error) {
	if m.findFunc != nil {
		return m.findFunc(ctx, filter, limit, offset)
	}
	return nil, errors.New("not implemented")
}

func (m *mockVisitRepository) Count(ctx context.Context, filter repository.VisitFilter) (int64, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx, filter)
	}
	return 0, errors.New("not implemented")
}

func (m *mockVisitRepository) SumCost(ctx context.Context, filter repository.VisitFilter) (float64, error) {
	if m.sumCostFunc != nil {
		return m.sumCostFunc(ctx, filter)
	}
	return 0, errors.New("not implemented")
}

func (m *mockVisitRepository) Update(ctx context.Context, id string, patch repository.VisitPatch) (*models.Visit, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, patch)
	}
	return nil, errors.New("not implemented")
}

func (m *mockVisitRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return errors.New("not implemented")
}

func TestSearchAggregatesIgnorePagination(t *testing.T) {
	var gotLimit, gotOffset int
	mock := &mockVisitRepository{
		findFunc: func(ctx context.Context, filter repository.VisitFilter, limit, offset int) ([]models.Visit, error) {
			gotLimit, gotOffset = limit, offset
			return []models.Visit{{Cabinet: "101"}, {Cabinet: "102"}}, nil
		},
		countFunc: func(ctx context.Context, filter repository.VisitFilter) (int64, error) {
			return 42, nil
		},
		sumCostFunc: func(ctx context.Context, filter repository.VisitFilter) (float64, error) {
			return 1234.50, nil
		},
	}

	svc := NewVisitService(mock)
	page, err := svc.Search(context.Background(), repository.VisitFilter{}, pagination.Params{Limit: 2, Offset: 10})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if gotLimit != 2 || gotOffset != 10 {
		t.Errorf("expected find with 2/10, got %d/%d", gotLimit, gotOffset)
	}
	if len(page.Visits) != 2 {
		t.Errorf("expected 2 visits on the page, got %d", len(page.Visits))
	}
	if page.Total != 42 {
		t.Errorf("expected total 42, got %d", page.Total)
	}
	if page.TotalCost != 1234.50 {
		t.Errorf("expected total cost 1234.50, got %f", page.TotalCost)
	}
	if page.Limit != 2 || page.Offset != 10 {
		t.Errorf("expected page to echo 2/10, got %d/%d", page.Limit, page.Offset)
	}
}

func TestSearchSameFilterEverywhere(t *testing.T) {
	filter := repository.VisitFilter{ClientID: "client-1", Cabinet: "101"}
	var findFilter, countFilter, sumFilter repository.VisitFilter

	mock := &mockVisitRepository{
		findFunc: func(ctx context.Context, f repository.VisitFilter, limit, offset int) ([]models.Visit, error) {
			findFilter = f
			return nil, nil
		},
		countFunc: func(ctx context.Context, f repository.VisitFilter) (int64, error) {
			countFilter = f
			return 0, nil
		},
		sumCostFunc: func(ctx context.Context, f repository.VisitFilter) (float64, error) {
			sumFilter = f
			return 0, nil
		},
	}

	svc := NewVisitService(mock)
	if _, err := svc.Search(context.Background(), filter, pagination.Params{}); err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if findFilter != filter || countFilter != filter || sumFilter != filter {
		t.Error("find, count and sum must all receive the same filter")
	}
}

func TestSearchEmptyResultYieldsZeros(t *testing.T) {
	mock := &mockVisitRepository{
		findFunc: func(ctx context.Context, filter repository.VisitFilter, limit, offset int) ([]models.Visit, error) {
			return nil, nil
		},
		countFunc: func(ctx context.Context, filter repository.VisitFilter) (int64, error) {
			return 0, nil
		},
		sumCostFunc: func(ctx context.Context, filter repository.VisitFilter) (float64, error) {
			return 0, nil
		},
	}

	svc := NewVisitService(mock)
	page, err := svc.Search(context.Background(), repository.VisitFilter{Cabinet: "nowhere"}, pagination.Params{Limit: 10})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if page.Total != 0 || page.TotalCost != 0 || len(page.Visits) != 0 {
		t.Errorf("expected empty page with zero aggregates, got total=%d cost=%f visits=%d",
			page.Total, page.TotalCost, len(page.Visits))
	}
}

func TestSearchClampsPagination(t *testing.T) {
	var gotLimit, gotOffset int
	mock := &mockVisitRepository{
		findFunc: func(ctx context.Context, filter repository.VisitFilter, limit, offset int) ([]models.Visit, error) {
			gotLimit, gotOffset = limit, offset
			return nil, nil
		},
		countFunc: func(ctx context.Context, filter repository.VisitFilter) (int64, error) {
			return 0, nil
		},
		sumCostFunc: func(ctx context.Context, filter repository.VisitFilter) (float64, error) {
			return 0, nil
		},
	}

	svc := NewVisitService(mock)
	if _, err := svc.Search(context.Background(), repository.VisitFilter{}, pagination.Params{Limit: -1, Offset: -5}); err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if gotLimit != pagination.DefaultLimit || gotOffset != 0 {
		t.Errorf("expected clamped %d/0, got %d/%d", pagination.DefaultLimit, gotLimit, gotOffset)
	}
}

func TestCreateAppliesDefaults(t *testing.T) {
	var created *models.Visit
	mock := &mockVisitRepository{
		createFunc: func(ctx context.Context, visit *models.Visit) error {
			created = visit
			return nil
		},
	}

	start := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	svc := NewVisitService(mock)
	visit := models.Visit{ClientID: "c", DoctorID: "d", StartDate: start}
	if err := svc.Create(context.Background(), &visit); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if !created.EndDate.Equal(start.Add(time.Hour)) {
		t.Errorf("expected end date one hour after start, got %v", created.EndDate)
	}
	if created.Status != models.StatusUnconfirmed {
		t.Errorf("expected default status %s, got %s", models.StatusUnconfirmed, created.Status)
	}
}

func TestCreateKeepsExplicitValues(t *testing.T) {
	mock := &mockVisitRepository{
		createFunc: func(ctx context.Context, visit *models.Visit) error { return nil },
	}

	start := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	end := start.Add(30 * time.Minute)
	svc := NewVisitService(mock)
	visit := models.Visit{StartDate: start, EndDate: end, Status: models.StatusPaid}
	if err := svc.Create(context.Background(), &visit); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if !visit.EndDate.Equal(end) {
		t.Errorf("explicit end date overwritten: %v", visit.EndDate)
	}
	if visit.Status != models.StatusPaid {
		t.Errorf("explicit status overwritten: %s", visit.Status)
	}
}
