package dto

import (
	"context"
	"time"

	"daftar/internal/core/apperror"
	"daftar/internal/core/tenant"
	"daftar/internal/domain/periods"
)

// periodDate is the wire format for period bounds.
const periodDate = "2006-01-02"

// CreatePeriodRequest opens a new fiscal period.
type CreatePeriodRequest struct {
	Name      string `json:"name" binding:"required"`
	StartDate string `json:"startDate" binding:"required"`
	EndDate   string `json:"endDate" binding:"required"`
}

// ToPeriod builds the domain period.
func (r CreatePeriodRequest) ToPeriod(ctx context.Context) (*periods.Period, error) {
	tid, err := tenant.GetTenantID(ctx)
	if err != nil {
		return nil, apperror.NewUnauthorized("tenant scope is required")
	}

	start, err := time.ParseInLocation(periodDate, r.StartDate, time.UTC)
	if err != nil {
		return nil, apperror.NewValidation("invalid start date, want YYYY-MM-DD").
			WithDetail("field", "startDate")
	}
	end, err := time.ParseInLocation(periodDate, r.EndDate, time.UTC)
	if err != nil {
		return nil, apperror.NewValidation("invalid end date, want YYYY-MM-DD").
			WithDetail("field", "endDate")
	}

	return periods.New(tid, r.Name, start, end), nil
}

// PeriodResponse is the period representation.
type PeriodResponse struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	StartDate string     `json:"startDate"`
	EndDate   string     `json:"endDate"`
	Status    string     `json:"status"`
	ClosedAt  *time.Time `json:"closedAt,omitempty"`
	ClosedBy  string     `json:"closedBy,omitempty"`
	Version   int        `json:"version"`
}

// FromPeriod maps a domain period to its response.
func FromPeriod(p *periods.Period) PeriodResponse {
	return PeriodResponse{
		ID:        p.ID.String(),
		Name:      p.Name,
		StartDate: p.StartDate.Format(periodDate),
		EndDate:   p.EndDate.Format(periodDate),
		Status:    string(p.Status),
		ClosedAt:  p.ClosedAt,
		ClosedBy:  p.ClosedBy,
		Version:   p.Version,
	}
}
