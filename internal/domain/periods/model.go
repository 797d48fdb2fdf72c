// Package periods manages fiscal periods. Every document mutation is
// gated on the document's business date falling inside an open period.
package periods

import (
	"context"
	"time"

	"daftar/internal/core/apperror"
	"daftar/internal/core/entity"
	"daftar/internal/core/id"
)

// Status is the lifecycle state of a fiscal period.
type Status string

const (
	StatusOpen   Status = "open"
	StatusClosed Status = "closed"
)

// Period is a contiguous date range documents can be posted into.
// Periods of one tenant must not overlap.
type Period struct {
	entity.BaseEntity

	// Name is a human label, e.g. "2026-08" or "FY2026 Q3"
	Name string `db:"name" json:"name"`

	// StartDate and EndDate bound the period, both inclusive
	StartDate time.Time `db:"start_date" json:"startDate"`
	EndDate   time.Time `db:"end_date" json:"endDate"`

	Status Status `db:"status" json:"status"`

	// Closing audit
	ClosedAt *time.Time `db:"closed_at" json:"closedAt,omitempty"`
	ClosedBy string     `db:"closed_by" json:"closedBy,omitempty"`
}

// New creates an open period for the given range.
func New(tenantID id.ID, name string, start, end time.Time) *Period {
	return &Period{
		BaseEntity: entity.NewBaseEntity(tenantID),
		Name:       name,
		StartDate:  start,
		EndDate:    end,
		Status:     StatusOpen,
	}
}

// Validate implements entity.Validatable.
func (p *Period) Validate(ctx context.Context) error {
	if p.Name == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	if p.StartDate.IsZero() || p.EndDate.IsZero() {
		return apperror.NewValidation("start and end dates are required").
			WithDetail("field", "startDate")
	}
	if p.EndDate.Before(p.StartDate) {
		return apperror.NewValidation("end date must not precede start date").
			WithDetail("startDate", p.StartDate.Format("2006-01-02")).
			WithDetail("endDate", p.EndDate.Format("2006-01-02"))
	}
	switch p.Status {
	case StatusOpen, StatusClosed:
	default:
		return apperror.NewValidation("unknown period status").
			WithDetail("status", string(p.Status))
	}
	return nil
}

// Contains reports whether the date falls inside the period.
// Comparison is by calendar date, time of day is ignored.
func (p *Period) Contains(date time.Time) bool {
	d := date.Truncate(24 * time.Hour)
	return !d.Before(p.StartDate.Truncate(24*time.Hour)) &&
		!d.After(p.EndDate.Truncate(24*time.Hour))
}

// IsOpen reports whether documents may be posted into the period.
func (p *Period) IsOpen() bool { return p.Status == StatusOpen }

var _ entity.Validatable = (*Period)(nil)
