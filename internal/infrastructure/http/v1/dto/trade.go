package dto

import (
	"context"
	"time"

	"daftar/internal/core/apperror"
	"daftar/internal/core/id"
	"daftar/internal/core/tenant"
	"daftar/internal/core/types"
	"daftar/internal/domain/trade"
)

// --- Requests ---

// SettlementRequest is the settlement part of a trade document request.
// Exactly one branch is active: cash (with a mode) or credit.
type SettlementRequest struct {
	Method        string      `json:"method" binding:"required,oneof=cash credit"`
	CashMode      string      `json:"cashMode" binding:"omitempty,oneof=safe bank split"`
	SafeAccountID string      `json:"safeAccountId"`
	BankAccountID string      `json:"bankAccountId"`
	SafeAmount    types.Money `json:"safeAmount"`
	BankAmount    types.Money `json:"bankAmount"`
}

// ToSettlement builds the domain settlement. Credit settlements are
// bound to the document party by the caller.
func (r SettlementRequest) ToSettlement(partyID id.ID) (trade.Settlement, error) {
	switch trade.SettlementMethod(r.Method) {
	case trade.SettlementCredit:
		return trade.NewCreditSettlement(partyID), nil

	case trade.SettlementCash:
		mode := trade.CashMode(r.CashMode)
		if mode == trade.CashModeSplit {
			safeID, err := parseOptionalID(r.SafeAccountID, "settlement.safeAccountId")
			if err != nil {
				return trade.Settlement{}, err
			}
			bankID, err := parseOptionalID(r.BankAccountID, "settlement.bankAccountId")
			if err != nil {
				return trade.Settlement{}, err
			}
			return trade.NewSplitSettlement(safeID, r.SafeAmount, bankID, r.BankAmount), nil
		}

		raw := r.SafeAccountID
		field := "settlement.safeAccountId"
		if mode == trade.CashModeBank {
			raw = r.BankAccountID
			field = "settlement.bankAccountId"
		}
		accountID, err := parseOptionalID(raw, field)
		if err != nil {
			return trade.Settlement{}, err
		}
		return trade.NewCashSettlement(mode, accountID), nil
	}

	return trade.Settlement{}, apperror.NewValidation("unknown settlement method").
		WithDetail("field", "settlement.method")
}

// TradeLineRequest is one table part row.
type TradeLineRequest struct {
	ItemID    string         `json:"itemId" binding:"required"`
	Quantity  types.Quantity `json:"quantity" binding:"required"`
	UnitPrice types.Money    `json:"unitPrice"`
}

// CreateTradeDocumentRequest creates and posts a trade document.
// Effects apply immediately; there is no draft state.
type CreateTradeDocumentRequest struct {
	Date          time.Time          `json:"date"`
	BranchID      string             `json:"branchId" binding:"required"`
	StoreID       string             `json:"storeId" binding:"required"`
	PartyID       string             `json:"partyId"`
	Discount      types.Money        `json:"discount"`
	StockOverride bool               `json:"stockOverride"`
	Comment       string             `json:"comment"`
	Settlement    SettlementRequest  `json:"settlement" binding:"required"`
	Lines         []TradeLineRequest `json:"lines" binding:"required,min=1"`
}

// ToDocument builds a domain document of the given kind.
func (r CreateTradeDocumentRequest) ToDocument(ctx context.Context, kind trade.Kind) (*trade.Document, error) {
	tid, err := tenant.GetTenantID(ctx)
	if err != nil {
		return nil, apperror.NewUnauthorized("tenant scope is required")
	}

	branchID, err := parseOptionalID(r.BranchID, "branchId")
	if err != nil {
		return nil, err
	}
	storeID, err := parseOptionalID(r.StoreID, "storeId")
	if err != nil {
		return nil, err
	}
	partyID, err := parseOptionalID(r.PartyID, "partyId")
	if err != nil {
		return nil, err
	}

	doc := trade.New(tid, branchID, kind)
	if !r.Date.IsZero() {
		doc.Date = r.Date.UTC()
	}
	doc.StoreID = storeID
	doc.PartyID = partyID
	doc.Discount = r.Discount
	doc.StockOverride = r.StockOverride
	doc.Comment = r.Comment

	settlement, err := r.Settlement.ToSettlement(partyID)
	if err != nil {
		return nil, err
	}
	doc.Settlement = settlement

	for _, line := range r.Lines {
		itemID, err := parseOptionalID(line.ItemID, "lines.itemId")
		if err != nil {
			return nil, err
		}
		doc.AddLine(itemID, line.Quantity, line.UnitPrice)
	}

	return doc, nil
}

// UpdateTradeDocumentRequest replaces a document's content. The old
// effects are reversed and the new ones applied in one transaction.
// Version is the expected document version for optimistic locking.
type UpdateTradeDocumentRequest struct {
	Date          time.Time          `json:"date"`
	StoreID       string             `json:"storeId" binding:"required"`
	PartyID       string             `json:"partyId"`
	Discount      types.Money        `json:"discount"`
	StockOverride bool               `json:"stockOverride"`
	Comment       string             `json:"comment"`
	Settlement    SettlementRequest  `json:"settlement" binding:"required"`
	Lines         []TradeLineRequest `json:"lines" binding:"required,min=1"`
	Version       int                `json:"version" binding:"required,min=1"`
}

// Apply maps the request onto the loaded document. Code, branch and
// kind are immutable.
func (r UpdateTradeDocumentRequest) Apply(doc *trade.Document) (*trade.Document, error) {
	storeID, err := parseOptionalID(r.StoreID, "storeId")
	if err != nil {
		return nil, err
	}
	partyID, err := parseOptionalID(r.PartyID, "partyId")
	if err != nil {
		return nil, err
	}

	if !r.Date.IsZero() {
		doc.Date = r.Date.UTC()
	}
	doc.StoreID = storeID
	doc.PartyID = partyID
	doc.Discount = r.Discount
	doc.StockOverride = r.StockOverride
	doc.Comment = r.Comment
	doc.SetVersion(r.Version)

	settlement, err := r.Settlement.ToSettlement(partyID)
	if err != nil {
		return nil, err
	}
	doc.Settlement = settlement

	doc.Lines = doc.Lines[:0]
	for _, line := range r.Lines {
		itemID, err := parseOptionalID(line.ItemID, "lines.itemId")
		if err != nil {
			return nil, err
		}
		doc.AddLine(itemID, line.Quantity, line.UnitPrice)
	}

	return doc, nil
}

// --- Responses ---

// SettlementResponse mirrors the stored settlement.
type SettlementResponse struct {
	Method        string      `json:"method"`
	CashMode      string      `json:"cashMode,omitempty"`
	SafeAccountID string      `json:"safeAccountId,omitempty"`
	BankAccountID string      `json:"bankAccountId,omitempty"`
	SafeAmount    types.Money `json:"safeAmount,omitempty"`
	BankAmount    types.Money `json:"bankAmount,omitempty"`
	PartyID       string      `json:"partyId,omitempty"`
}

// TradeLineResponse is one table part row.
type TradeLineResponse struct {
	LineID    string         `json:"lineId"`
	LineNo    int            `json:"lineNo"`
	ItemID    string         `json:"itemId"`
	Quantity  types.Quantity `json:"quantity"`
	UnitPrice types.Money    `json:"unitPrice"`
	TaxAmount types.Money    `json:"taxAmount"`
	NetAmount types.Money    `json:"netAmount"`
}

// TradeDocumentResponse is the full document representation.
type TradeDocumentResponse struct {
	ID            string              `json:"id"`
	Kind          string              `json:"kind"`
	Code          string              `json:"code"`
	Date          time.Time           `json:"date"`
	BranchID      string              `json:"branchId"`
	StoreID       string              `json:"storeId"`
	PartyID       string              `json:"partyId"`
	Subtotal      types.Money         `json:"subtotal"`
	Discount      types.Money         `json:"discount"`
	TaxTotal      types.Money         `json:"taxTotal"`
	Net           types.Money         `json:"net"`
	Settlement    SettlementResponse  `json:"settlement"`
	StockOverride bool                `json:"stockOverride,omitempty"`
	Lines         []TradeLineResponse `json:"lines"`
	Comment       string              `json:"comment,omitempty"`
	Version       int                 `json:"version"`
	EffectVersion int                 `json:"effectVersion"`
	CreatedAt     time.Time           `json:"createdAt"`
	UpdatedAt     time.Time           `json:"updatedAt"`
	CreatedBy     string              `json:"createdBy,omitempty"`
	UpdatedBy     string              `json:"updatedBy,omitempty"`
}

// FromTradeDocument maps a domain document to its response.
func FromTradeDocument(doc *trade.Document) TradeDocumentResponse {
	resp := TradeDocumentResponse{
		ID:            doc.ID.String(),
		Kind:          doc.Kind.String(),
		Code:          doc.Code,
		Date:          doc.Date,
		BranchID:      doc.BranchID.String(),
		StoreID:       doc.StoreID.String(),
		PartyID:       doc.PartyID.String(),
		Subtotal:      doc.Subtotal,
		Discount:      doc.Discount,
		TaxTotal:      doc.TaxTotal,
		Net:           doc.Net,
		StockOverride: doc.StockOverride,
		Comment:       doc.Comment,
		Version:       doc.Version,
		EffectVersion: doc.EffectVersion,
		CreatedAt:     doc.CreatedAt,
		UpdatedAt:     doc.UpdatedAt,
		CreatedBy:     doc.CreatedBy,
		UpdatedBy:     doc.UpdatedBy,
	}

	s := doc.Settlement
	resp.Settlement = SettlementResponse{
		Method:     string(s.Method),
		CashMode:   string(s.CashMode),
		SafeAmount: s.SafeAmount,
		BankAmount: s.BankAmount,
	}
	if !id.IsNil(s.SafeAccountID) {
		resp.Settlement.SafeAccountID = s.SafeAccountID.String()
	}
	if !id.IsNil(s.BankAccountID) {
		resp.Settlement.BankAccountID = s.BankAccountID.String()
	}
	if !id.IsNil(s.PartyID) {
		resp.Settlement.PartyID = s.PartyID.String()
	}

	resp.Lines = make([]TradeLineResponse, len(doc.Lines))
	for i, line := range doc.Lines {
		resp.Lines[i] = TradeLineResponse{
			LineID:    line.LineID.String(),
			LineNo:    line.LineNo,
			ItemID:    line.ItemID.String(),
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			TaxAmount: line.TaxAmount,
			NetAmount: line.NetAmount,
		}
	}

	return resp
}

func parseOptionalID(raw, field string) (id.ID, error) {
	if raw == "" {
		return id.Nil(), nil
	}
	parsed, err := id.Parse(raw)
	if err != nil {
		return id.Nil(), apperror.NewValidation("invalid id format").WithDetail("field", field)
	}
	return parsed, nil
}
