package dto

import (
	"time"

	"daftar/internal/core/entity"
)

// --- Response DTOs for the stock register ---

// StockBalanceResponse represents a stock balance in API responses.
type StockBalanceResponse struct {
	StoreID        string     `json:"storeId"`
	ItemID         string     `json:"itemId"`
	Quantity       float64    `json:"quantity"`
	LastMovementAt *time.Time `json:"lastMovementAt,omitempty"`
}

// FromStockBalance converts entity to response DTO.
func FromStockBalance(b entity.StockBalance) StockBalanceResponse {
	// Zero-value time becomes null in JSON instead of "0001-01-01".
	var lastMovement *time.Time
	if !b.LastMovementAt.IsZero() {
		val := b.LastMovementAt
		lastMovement = &val
	}

	return StockBalanceResponse{
		StoreID:        b.StoreID.String(),
		ItemID:         b.ItemID.String(),
		Quantity:       b.Quantity.Float64(),
		LastMovementAt: lastMovement,
	}
}

// StockMovementResponse represents a stock movement in API responses.
type StockMovementResponse struct {
	LineID          string    `json:"lineId"`
	RecorderID      string    `json:"recorderId"`
	RecorderType    string    `json:"recorderType"`
	RecorderVersion int       `json:"recorderVersion"`
	Period          time.Time `json:"period"`
	RecordType      string    `json:"recordType"`
	StoreID         string    `json:"storeId"`
	ItemID          string    `json:"itemId"`
	Quantity        float64   `json:"quantity"`
	CreatedAt       time.Time `json:"createdAt"`
}

// FromStockMovement converts entity to response DTO.
func FromStockMovement(m entity.StockMovement) StockMovementResponse {
	return StockMovementResponse{
		LineID:          m.LineID.String(),
		RecorderID:      m.RecorderID.String(),
		RecorderType:    m.RecorderType,
		RecorderVersion: m.RecorderVersion,
		Period:          m.Period,
		RecordType:      string(m.RecordType),
		StoreID:         m.StoreID.String(),
		ItemID:          m.ItemID.String(),
		Quantity:        m.Quantity.Float64(),
		CreatedAt:       m.CreatedAt,
	}
}

// StockBalanceListResponse represents a list of stock balances.
type StockBalanceListResponse struct {
	Items []StockBalanceResponse `json:"items"`
}

// StockMovementListResponse represents a list of stock movements.
type StockMovementListResponse struct {
	Items []StockMovementResponse `json:"items"`
}

// ItemAvailabilityResponse is the total on-hand quantity of one item
// across all stores.
type ItemAvailabilityResponse struct {
	ItemID   string  `json:"itemId"`
	Quantity float64 `json:"quantity"`
}
