package periods

import (
	"context"
	"time"

	"daftar/internal/core/apperror"
	appctx "daftar/internal/core/context"
	"daftar/internal/core/id"
	"daftar/internal/domain"
	"daftar/pkg/logger"
)

// Repository persists fiscal periods.
type Repository interface {
	Create(ctx context.Context, period *Period) error
	Update(ctx context.Context, period *Period) error
	GetByID(ctx context.Context, periodID id.ID) (*Period, error)
	// FindByDate returns the period covering the date, or NotFound.
	FindByDate(ctx context.Context, date time.Time) (*Period, error)
	// HasOverlap reports whether any other period intersects the range.
	HasOverlap(ctx context.Context, start, end time.Time, excludeID id.ID) (bool, error)
	List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Period], error)
}

// Service provides fiscal period management and the posting gate.
type Service struct {
	repo Repository
}

// NewService creates a period service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// EnsureOpen fails with NoOpenPeriod when no period covers the date and
// with PeriodClosed when the covering period is closed.
func (s *Service) EnsureOpen(ctx context.Context, date time.Time) error {
	period, err := s.repo.FindByDate(ctx, date)
	if err != nil {
		if apperror.IsNotFound(err) {
			return apperror.NewNoOpenPeriod(date.Format("2006-01-02"))
		}
		return err
	}
	if !period.IsOpen() {
		return apperror.NewPeriodClosed(period.Name)
	}
	return nil
}

// Create opens a new fiscal period after checking it does not overlap
// an existing one.
func (s *Service) Create(ctx context.Context, period *Period) error {
	if err := period.Validate(ctx); err != nil {
		return err
	}

	overlaps, err := s.repo.HasOverlap(ctx, period.StartDate, period.EndDate, id.Nil())
	if err != nil {
		return err
	}
	if overlaps {
		return apperror.NewConflict("period overlaps an existing period").
			WithDetail("startDate", period.StartDate.Format("2006-01-02")).
			WithDetail("endDate", period.EndDate.Format("2006-01-02"))
	}

	if err := s.repo.Create(ctx, period); err != nil {
		return err
	}
	logger.Info(ctx, "fiscal period created", "id", period.ID, "name", period.Name)
	return nil
}

// Close closes a period, blocking further document mutations inside it.
func (s *Service) Close(ctx context.Context, periodID id.ID) error {
	period, err := s.repo.GetByID(ctx, periodID)
	if err != nil {
		return err
	}
	if !period.IsOpen() {
		return apperror.NewConflict("period is already closed").
			WithDetail("period", period.Name)
	}

	now := time.Now().UTC()
	period.Status = StatusClosed
	period.ClosedAt = &now
	period.ClosedBy = appctx.GetActorID(ctx)

	if err := s.repo.Update(ctx, period); err != nil {
		return err
	}
	logger.Info(ctx, "fiscal period closed", "id", period.ID, "name", period.Name)
	return nil
}

// Reopen reverts a closed period to open.
func (s *Service) Reopen(ctx context.Context, periodID id.ID) error {
	period, err := s.repo.GetByID(ctx, periodID)
	if err != nil {
		return err
	}
	if period.IsOpen() {
		return apperror.NewConflict("period is already open").
			WithDetail("period", period.Name)
	}

	period.Status = StatusOpen
	period.ClosedAt = nil
	period.ClosedBy = ""

	if err := s.repo.Update(ctx, period); err != nil {
		return err
	}
	logger.Info(ctx, "fiscal period reopened", "id", period.ID, "name", period.Name)
	return nil
}

// GetByID retrieves a period.
func (s *Service) GetByID(ctx context.Context, periodID id.ID) (*Period, error) {
	return s.repo.GetByID(ctx, periodID)
}

// List retrieves periods with pagination.
func (s *Service) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Period], error) {
	return s.repo.List(ctx, filter)
}
