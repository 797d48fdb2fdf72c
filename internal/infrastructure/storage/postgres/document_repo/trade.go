package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"daftar/internal/core/id"
	"daftar/internal/core/tenant"
	"daftar/internal/core/types"
	"daftar/internal/domain"
	"daftar/internal/domain/trade"
	"daftar/internal/infrastructure/storage/postgres"
)

const (
	tradeDocsTable  = "doc_trade"
	tradeLinesTable = "doc_trade_lines"
)

// docRecord is the storage shape of a trade document. The settlement is a
// tagged union in the domain model; here it is flattened into nullable
// columns on the document row.
type docRecord struct {
	trade.Document

	SettlementMethod trade.SettlementMethod `db:"settlement_method"`
	CashMode         trade.CashMode         `db:"cash_mode"`
	SafeAccountID    id.ID                  `db:"safe_account_id"`
	BankAccountID    id.ID                  `db:"bank_account_id"`
	SafeAmount       types.Money            `db:"safe_amount"`
	BankAmount       types.Money            `db:"bank_amount"`
}

func toRecord(doc *trade.Document) *docRecord {
	return &docRecord{
		Document:         *doc,
		SettlementMethod: doc.Settlement.Method,
		CashMode:         doc.Settlement.CashMode,
		SafeAccountID:    doc.Settlement.SafeAccountID,
		BankAccountID:    doc.Settlement.BankAccountID,
		SafeAmount:       doc.Settlement.SafeAmount,
		BankAmount:       doc.Settlement.BankAmount,
	}
}

func fromRecord(rec *docRecord) *trade.Document {
	doc := rec.Document
	doc.Settlement = trade.Settlement{
		Method:        rec.SettlementMethod,
		CashMode:      rec.CashMode,
		SafeAccountID: rec.SafeAccountID,
		BankAccountID: rec.BankAccountID,
		SafeAmount:    rec.SafeAmount,
		BankAmount:    rec.BankAmount,
	}
	if doc.Settlement.Method == trade.SettlementCredit {
		doc.Settlement.PartyID = doc.PartyID
	}
	return &doc
}

// TradeRepo implements trade.Repository. All four document kinds share
// one table; the kind column discriminates them.
type TradeRepo struct {
	*BaseDocumentRepo[*docRecord]
}

// NewTradeRepo creates a new trade document repository.
func NewTradeRepo(txManager *postgres.TxManager) *TradeRepo {
	return &TradeRepo{
		BaseDocumentRepo: NewBaseDocumentRepo[*docRecord](
			txManager,
			tradeDocsTable,
			postgres.ExtractDBColumns[docRecord](),
			func() *docRecord { return &docRecord{} },
		),
	}
}

// Create inserts the document row.
func (r *TradeRepo) Create(ctx context.Context, doc *trade.Document) error {
	return r.BaseDocumentRepo.Create(ctx, toRecord(doc))
}

// GetByID retrieves one document without its lines.
func (r *TradeRepo) GetByID(ctx context.Context, docID id.ID) (*trade.Document, error) {
	rec, err := r.BaseDocumentRepo.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}
	return fromRecord(rec), nil
}

// Update writes the document row with optimistic locking.
func (r *TradeRepo) Update(ctx context.Context, doc *trade.Document) error {
	return r.BaseDocumentRepo.Update(ctx, toRecord(doc))
}

// GetLines retrieves document lines ordered by line number.
func (r *TradeRepo) GetLines(ctx context.Context, docID id.ID) ([]trade.Line, error) {
	q := r.Builder().
		Select(
			"line_id", "line_no", "item_id",
			"quantity", "unit_price", "tax_amount", "net_amount",
		).
		From(tradeLinesTable).
		Where(squirrel.Eq{"document_id": docID}).
		OrderBy("line_no")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var lines []trade.Line
	querier := r.TxManager().GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &lines, sql, args...); err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}

	return lines, nil
}

// SaveLines replaces the document's lines wholesale.
func (r *TradeRepo) SaveLines(ctx context.Context, docID id.ID, lines []trade.Line) error {
	tid, err := tenant.GetTenantID(ctx)
	if err != nil {
		return err
	}

	querier := r.TxManager().GetQuerier(ctx)

	deleteSQL := "DELETE FROM " + tradeLinesTable + " WHERE document_id = $1"
	if _, err := querier.Exec(ctx, deleteSQL, docID); err != nil {
		return fmt.Errorf("delete existing lines: %w", err)
	}

	if len(lines) == 0 {
		return nil
	}

	q := r.Builder().
		Insert(tradeLinesTable).
		Columns(
			"line_id", "document_id", "tenant_id", "line_no", "item_id",
			"quantity", "unit_price", "tax_amount", "net_amount",
		)

	for _, line := range lines {
		q = q.Values(
			line.LineID, docID, tid, line.LineNo, line.ItemID,
			line.Quantity, line.UnitPrice, line.TaxAmount, line.NetAmount,
		)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert lines: %w", err)
	}

	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert lines: %w", err)
	}

	return nil
}

// DeleteLines removes all lines of a document.
func (r *TradeRepo) DeleteLines(ctx context.Context, docID id.ID) error {
	querier := r.TxManager().GetQuerier(ctx)
	deleteSQL := "DELETE FROM " + tradeLinesTable + " WHERE document_id = $1"
	if _, err := querier.Exec(ctx, deleteSQL, docID); err != nil {
		return fmt.Errorf("delete lines: %w", err)
	}
	return nil
}

// List retrieves documents of one kind with filtering and pagination.
// Lines are not attached; services load them per document when needed.
func (r *TradeRepo) List(ctx context.Context, kind trade.Kind, filter domain.DocumentListFilter) (domain.ListResult[*trade.Document], error) {
	result := domain.ListResult[*trade.Document]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q, err := r.TenantScoped(ctx)
	if err != nil {
		return result, err
	}
	q = q.Where(squirrel.Eq{"kind": kind})

	if filter.BranchID != nil {
		q = q.Where(squirrel.Eq{"branch_id": *filter.BranchID})
	}

	if filter.DateFrom != "" {
		q = q.Where(squirrel.GtOrEq{"date": filter.DateFrom})
	}

	if filter.DateTo != "" {
		q = q.Where(squirrel.LtOrEq{"date": filter.DateTo})
	}

	if filter.Search != "" {
		q = q.Where(squirrel.ILike{"code": "%" + filter.Search + "%"})
	}

	countQ := r.Builder().Select("COUNT(*)").FromSelect(q, "sub")
	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return result, fmt.Errorf("build count: %w", err)
	}

	querier := r.TxManager().GetQuerier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count: %w", err)
	}

	orderBy, err := r.ParseOrderBy(filter.OrderBy)
	if err != nil {
		return result, err
	}
	q = q.OrderBy(orderBy)

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	var recs []*docRecord
	if err := pgxscan.Select(ctx, querier, &recs, sql, args...); err != nil {
		return result, fmt.Errorf("select: %w", err)
	}

	result.Items = make([]*trade.Document, 0, len(recs))
	for _, rec := range recs {
		result.Items = append(result.Items, fromRecord(rec))
	}

	return result, nil
}

var _ trade.Repository = (*TradeRepo)(nil)
