package trade

import (
	"context"
	"fmt"
	"time"

	"daftar/internal/core/apperror"
	"daftar/internal/core/entity"
	"daftar/internal/core/id"
	"daftar/internal/core/security"
	"daftar/internal/core/tx"
	"daftar/internal/core/types"
	"daftar/internal/domain"
	"daftar/internal/domain/audit"
	"daftar/pkg/logger"
	"daftar/pkg/numerator"
)

// Repository persists trade documents with their lines and settlement.
type Repository interface {
	Create(ctx context.Context, doc *Document) error
	GetByID(ctx context.Context, docID id.ID) (*Document, error)
	// Update uses optimistic locking on the version column.
	Update(ctx context.Context, doc *Document) error
	// Delete removes the document row. Lines are replaced and removed
	// wholesale via SaveLines/DeleteLines.
	Delete(ctx context.Context, docID id.ID) error
	SaveLines(ctx context.Context, docID id.ID, lines []Line) error
	GetLines(ctx context.Context, docID id.ID) ([]Line, error)
	DeleteLines(ctx context.Context, docID id.ID) error
	List(ctx context.Context, kind Kind, filter domain.DocumentListFilter) (domain.ListResult[*Document], error)
}

// ItemDemand is one item's required quantity for an availability check.
type ItemDemand struct {
	ItemID   id.ID
	Quantity types.Quantity
}

// StockRegister is the stock movement port. Record and Reverse run
// inside the caller's transaction; both keep the balance cache in sync.
type StockRegister interface {
	Record(ctx context.Context, movements []entity.StockMovement) error
	// Reverse deletes the recorder's movements below the given effect
	// version and rolls their quantities out of the balance cache.
	Reverse(ctx context.Context, recorderID id.ID, beforeVersion int) error
	// CheckAvailability locks the balance rows and fails with
	// InsufficientStock if any demand exceeds the available quantity.
	CheckAvailability(ctx context.Context, storeID id.ID, demands []ItemDemand) error
	// EnsureNonNegative locks the balance rows and fails with
	// InsufficientStock if any balance has gone below zero.
	EnsureNonNegative(ctx context.Context, storeID id.ID, itemIDs []id.ID) error
}

// PeriodGuard gates mutations by fiscal period.
type PeriodGuard interface {
	// EnsureOpen returns NoOpenPeriod or PeriodClosed when the date
	// does not fall in an open fiscal period.
	EnsureOpen(ctx context.Context, date time.Time) error
}

// ItemResolver resolves which of the given items are stock-tracked.
// Unknown IDs must produce a NotFound error.
type ItemResolver interface {
	StockedItems(ctx context.Context, ids []id.ID) (map[id.ID]bool, error)
}

// SafeResolver finds the active safe account for a branch. Safe
// settlements normally name the branch only; the account id is looked
// up here unless the caller supplied one explicitly.
type SafeResolver interface {
	SafeIDForBranch(ctx context.Context, branchID id.ID) (id.ID, error)
}

// Orchestrator runs the full mutation lifecycle for trade documents of
// every kind: validation, fiscal gating, totals, stock movements and
// financial impact, all inside one transaction per mutation.
type Orchestrator struct {
	repo      Repository
	stock     StockRegister
	periods   PeriodGuard
	items     ItemResolver
	impact    *ImpactEngine
	safes     SafeResolver
	policy    security.PostingPolicy
	numerator *numerator.Service
	txManager tx.Manager
	sink      audit.Sink
	tax       TaxPolicy
}

// Config assembles an orchestrator's collaborators.
type Config struct {
	Repo      Repository
	Stock     StockRegister
	Periods   PeriodGuard
	Items     ItemResolver
	Impact    *ImpactEngine
	Safes     SafeResolver
	Policy    security.PostingPolicy
	Numerator *numerator.Service
	TxManager tx.Manager
	Audit     audit.Sink
	Tax       TaxPolicy
}

// NewOrchestrator creates a document orchestrator.
func NewOrchestrator(cfg Config) *Orchestrator {
	if cfg.Policy == nil {
		cfg.Policy = security.OpenPolicy{}
	}
	if cfg.Audit == nil {
		cfg.Audit = audit.NopSink{}
	}
	return &Orchestrator{
		repo:      cfg.Repo,
		stock:     cfg.Stock,
		periods:   cfg.Periods,
		items:     cfg.Items,
		impact:    cfg.Impact,
		safes:     cfg.Safes,
		policy:    cfg.Policy,
		numerator: cfg.Numerator,
		txManager: cfg.TxManager,
		sink:      cfg.Audit,
		tax:       cfg.Tax,
	}
}

// Create validates, numbers and posts a new document. The stock
// movements and the financial impact land in the same transaction as
// the document row; on any failure nothing is persisted.
func (o *Orchestrator) Create(ctx context.Context, doc *Document) error {
	CalculateTotals(doc, o.tax)

	if err := o.resolveSettlement(ctx, doc); err != nil {
		return err
	}
	if err := doc.Validate(ctx); err != nil {
		return err
	}
	if err := o.periods.EnsureOpen(ctx, doc.Date); err != nil {
		return err
	}
	if err := o.policy.Allow(ctx, security.ActionPost, doc.Date, doc.Net); err != nil {
		return err
	}

	if doc.Code == "" {
		cfg := numerator.DefaultConfig(doc.Kind.CodePrefix())
		code, err := o.numerator.NextCode(ctx, doc.TenantID, cfg, nil, doc.Date)
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}
		doc.Code = code
	}

	err := o.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		stocked, err := o.items.StockedItems(ctx, itemIDs(doc.Lines))
		if err != nil {
			return err
		}

		if doc.Kind.StockDirection() == entity.RecordTypeExpense && !doc.StockOverride {
			if err := o.stock.CheckAvailability(ctx, doc.StoreID, demands(doc.StockLines(stocked))); err != nil {
				return err
			}
		}

		doc.MarkEffectApplied()
		if err := o.repo.Create(ctx, doc); err != nil {
			return fmt.Errorf("create document: %w", err)
		}
		if err := o.repo.SaveLines(ctx, doc.ID, doc.Lines); err != nil {
			return fmt.Errorf("save lines: %w", err)
		}

		if err := o.stock.Record(ctx, doc.Movements(stocked, doc.EffectVersion)); err != nil {
			return err
		}
		return o.impact.Apply(ctx, doc)
	})
	if err != nil {
		return err
	}

	o.sink.Record(ctx, audit.NewEvent(string(doc.Kind), doc.ID, audit.ActionCreate, doc))
	logger.Info(ctx, "document posted", "kind", doc.Kind, "id", doc.ID, "code", doc.Code, "net", doc.Net)
	return nil
}

// Update replaces a posted document's content. The old effects are
// reversed and the new ones applied inside one transaction, so at no
// point do stale movements or balances coexist with the new document.
func (o *Orchestrator) Update(ctx context.Context, doc *Document) error {
	old, err := o.GetByID(ctx, doc.ID)
	if err != nil {
		return err
	}
	if old.Kind != doc.Kind {
		return apperror.NewValidation("document kind cannot change").
			WithDetail("field", "kind")
	}

	CalculateTotals(doc, o.tax)
	doc.Code = old.Code

	if err := o.resolveSettlement(ctx, doc); err != nil {
		return err
	}
	if err := doc.Validate(ctx); err != nil {
		return err
	}
	// Both the old and the new business date must be in an open
	// period: updating reverses the old effects, and balances recorded
	// in a closed period must stay untouched, same as on delete.
	if err := o.periods.EnsureOpen(ctx, old.Date); err != nil {
		return err
	}
	if !old.Date.Equal(doc.Date) {
		if err := o.periods.EnsureOpen(ctx, doc.Date); err != nil {
			return err
		}
	}
	if err := o.policy.Allow(ctx, security.ActionModify, doc.Date, doc.Net); err != nil {
		return err
	}

	err = o.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		stocked, err := o.items.StockedItems(ctx, itemIDs(append(append([]Line{}, old.Lines...), doc.Lines...)))
		if err != nil {
			return err
		}

		newVersion := old.EffectVersion + 1

		// Reverse the old effects first so availability checks see the
		// store as if the old document never existed.
		if err := o.stock.Reverse(ctx, doc.ID, newVersion); err != nil {
			return err
		}
		if err := o.impact.Reverse(ctx, old); err != nil {
			return err
		}

		if doc.Kind.StockDirection() == entity.RecordTypeExpense && !doc.StockOverride {
			if err := o.stock.CheckAvailability(ctx, doc.StoreID, demands(doc.StockLines(stocked))); err != nil {
				return err
			}
		}

		// doc.Version carries the caller's expected version; the repo
		// increments it and fails with Conflict when it is stale.
		doc.EffectVersion = newVersion
		if err := o.repo.Update(ctx, doc); err != nil {
			return err
		}
		if err := o.repo.SaveLines(ctx, doc.ID, doc.Lines); err != nil {
			return fmt.Errorf("save lines: %w", err)
		}

		if err := o.stock.Record(ctx, doc.Movements(stocked, newVersion)); err != nil {
			return err
		}

		// Shrinking a receipt must not overdraw stock already consumed
		// by later documents. Checked after the new movements land so a
		// reduced receipt still counts toward the balance.
		if doc.Kind.StockDirection() == entity.RecordTypeReceipt && !doc.StockOverride {
			if err := o.stock.EnsureNonNegative(ctx, old.StoreID, itemIDs(old.StockLines(stocked))); err != nil {
				return err
			}
		}

		return o.impact.Apply(ctx, doc)
	})
	if err != nil {
		return err
	}

	o.sink.Record(ctx, audit.NewEvent(string(doc.Kind), doc.ID, audit.ActionUpdate, doc))
	logger.Info(ctx, "document updated", "kind", doc.Kind, "id", doc.ID, "code", doc.Code, "net", doc.Net)
	return nil
}

// Delete removes a document and reverses all its effects.
func (o *Orchestrator) Delete(ctx context.Context, docID id.ID) error {
	old, err := o.GetByID(ctx, docID)
	if err != nil {
		return err
	}

	if err := o.periods.EnsureOpen(ctx, old.Date); err != nil {
		return err
	}
	if err := o.policy.Allow(ctx, security.ActionDelete, old.Date, old.Net); err != nil {
		return err
	}

	err = o.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		stocked, err := o.items.StockedItems(ctx, itemIDs(old.Lines))
		if err != nil {
			return err
		}

		if err := o.stock.Reverse(ctx, docID, old.EffectVersion+1); err != nil {
			return err
		}
		if err := o.impact.Reverse(ctx, old); err != nil {
			return err
		}

		if old.Kind.StockDirection() == entity.RecordTypeReceipt && !old.StockOverride {
			if err := o.stock.EnsureNonNegative(ctx, old.StoreID, itemIDs(old.StockLines(stocked))); err != nil {
				return err
			}
		}

		if err := o.repo.DeleteLines(ctx, docID); err != nil {
			return err
		}
		return o.repo.Delete(ctx, docID)
	})
	if err != nil {
		return err
	}

	o.sink.Record(ctx, audit.NewEvent(string(old.Kind), docID, audit.ActionDelete, old))
	logger.Info(ctx, "document deleted", "kind", old.Kind, "id", docID, "code", old.Code)
	return nil
}

// GetByID retrieves a document with its lines.
func (o *Orchestrator) GetByID(ctx context.Context, docID id.ID) (*Document, error) {
	doc, err := o.repo.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}
	lines, err := o.repo.GetLines(ctx, docID)
	if err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}
	doc.Lines = lines
	return doc, nil
}

// List retrieves documents of one kind with filtering.
func (o *Orchestrator) List(ctx context.Context, kind Kind, filter domain.DocumentListFilter) (domain.ListResult[*Document], error) {
	return o.repo.List(ctx, kind, filter)
}

// resolveSettlement fills in the safe account for plain safe
// settlements from the document's branch. Split settlements name their
// accounts explicitly and are left alone.
func (o *Orchestrator) resolveSettlement(ctx context.Context, doc *Document) error {
	s := &doc.Settlement
	if o.safes == nil || !s.IsCash() || s.CashMode != CashModeSafe || !id.IsNil(s.SafeAccountID) {
		return nil
	}

	safeID, err := o.safes.SafeIDForBranch(ctx, doc.BranchID)
	if err != nil {
		return err
	}
	s.SafeAccountID = safeID
	return nil
}

func itemIDs(lines []Line) []id.ID {
	seen := make(map[id.ID]struct{}, len(lines))
	out := make([]id.ID, 0, len(lines))
	for _, line := range lines {
		if _, ok := seen[line.ItemID]; ok {
			continue
		}
		seen[line.ItemID] = struct{}{}
		out = append(out, line.ItemID)
	}
	return out
}

func demands(lines []Line) []ItemDemand {
	byItem := make(map[id.ID]int)
	out := make([]ItemDemand, 0, len(lines))
	for _, line := range lines {
		if idx, ok := byItem[line.ItemID]; ok {
			out[idx].Quantity += line.Quantity
			continue
		}
		byItem[line.ItemID] = len(out)
		out = append(out, ItemDemand{ItemID: line.ItemID, Quantity: line.Quantity})
	}
	return out
}
