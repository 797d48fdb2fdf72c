// Package security provides tenant-level posting policies.
// Policies are an extra gate on top of the fiscal period guard: a tenant can
// restrict backdated posting or large documents without closing a period.
package security

import (
	"context"
	"time"

	"daftar/internal/core/apperror"
	"daftar/internal/core/types"
)

// Action is the mutation being judged by a policy.
type Action string

const (
	ActionPost   Action = "post"
	ActionModify Action = "modify"
	ActionDelete Action = "delete"
)

// PostingPolicy defines rules for document posting.
// Different tenants may have different policies (strict vs flexible).
type PostingPolicy interface {
	// Allow checks whether the given mutation may proceed for a document
	// with the given business date and net amount.
	Allow(ctx context.Context, action Action, docDate time.Time, net types.Money) error
}

// StrictPolicy forbids any changes dated before a hard cutoff.
// Used for regulatory compliance.
type StrictPolicy struct {
	closedUntil time.Time
}

// NewStrictPolicy creates policy that forbids changes before closedUntil.
func NewStrictPolicy(closedUntil time.Time) *StrictPolicy {
	return &StrictPolicy{closedUntil: closedUntil}
}

func (p *StrictPolicy) Allow(ctx context.Context, action Action, docDate time.Time, net types.Money) error {
	if docDate.Before(p.closedUntil) {
		return apperror.NewPeriodClosed(p.closedUntil.Format("2006-01"))
	}
	return nil
}

// OpenPolicy allows all operations (for development/testing).
type OpenPolicy struct{}

func (OpenPolicy) Allow(ctx context.Context, action Action, docDate time.Time, net types.Money) error {
	return nil
}
