package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"daftar/internal/core/entity"
	"daftar/internal/core/id"
	"daftar/internal/domain/registers/stock"
	"daftar/internal/infrastructure/http/v1/dto"
)

// StockHandler serves stock register queries.
type StockHandler struct {
	*BaseHandler
	service *stock.Service
	repo    stock.Repository
}

// NewStockHandler creates a new stock register handler.
func NewStockHandler(base *BaseHandler, service *stock.Service, repo stock.Repository) *StockHandler {
	return &StockHandler{
		BaseHandler: base,
		service:     service,
		repo:        repo,
	}
}

// GetBalances handles GET /registers/stock/balances.
// Requires storeId; itemId narrows to a single row.
func (h *StockHandler) GetBalances(c *gin.Context) {
	ctx := c.Request.Context()

	storeID, err := id.Parse(c.Query("storeId"))
	if err != nil {
		h.Error(c, invalidQueryID("storeId"))
		return
	}

	filter := stock.BalanceFilter{
		ExcludeZero: c.Query("excludeZero") == "true",
	}
	if raw := c.Query("itemId"); raw != "" {
		itemID, err := id.Parse(raw)
		if err != nil {
			h.Error(c, invalidQueryID("itemId"))
			return
		}
		filter.ItemIDs = []id.ID{itemID}
	}

	balances, err := h.repo.GetBalancesByStore(ctx, storeID, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]dto.StockBalanceResponse, len(balances))
	for i, b := range balances {
		items[i] = dto.FromStockBalance(b)
	}

	c.JSON(http.StatusOK, dto.StockBalanceListResponse{Items: items})
}

// GetItemAvailability handles GET /registers/stock/availability/:itemId.
// Returns the item's total on-hand quantity across all stores.
func (h *StockHandler) GetItemAvailability(c *gin.Context) {
	itemID, err := id.Parse(c.Param("itemId"))
	if err != nil {
		h.Error(c, invalidQueryID("itemId"))
		return
	}

	quantity, err := h.service.GetItemAvailability(c.Request.Context(), itemID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ItemAvailabilityResponse{
		ItemID:   itemID.String(),
		Quantity: quantity.Float64(),
	})
}

// GetMovements handles GET /registers/stock/movements.
// Requires itemId; storeId, recordType and a date range narrow it down.
func (h *StockHandler) GetMovements(c *gin.Context) {
	ctx := c.Request.Context()

	itemID, err := id.Parse(c.Query("itemId"))
	if err != nil {
		h.Error(c, invalidQueryID("itemId"))
		return
	}

	filter := stock.MovementFilter{
		Limit:  h.ParseIntQuery(c, "limit", 100),
		Offset: h.ParseIntQuery(c, "offset", 0),
	}

	if raw := c.Query("storeId"); raw != "" {
		storeID, err := id.Parse(raw)
		if err != nil {
			h.Error(c, invalidQueryID("storeId"))
			return
		}
		filter.StoreID = &storeID
	}

	if raw := c.Query("recordType"); raw != "" {
		rt := entity.RecordType(raw)
		filter.RecordType = &rt
	}

	if raw := c.Query("from"); raw != "" {
		if from, err := time.Parse(time.RFC3339, raw); err == nil {
			filter.FromDate = &from
		}
	}
	if raw := c.Query("to"); raw != "" {
		if to, err := time.Parse(time.RFC3339, raw); err == nil {
			filter.ToDate = &to
		}
	}

	movements, err := h.service.GetMovementHistory(ctx, itemID, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]dto.StockMovementResponse, len(movements))
	for i, m := range movements {
		items[i] = dto.FromStockMovement(m)
	}

	c.JSON(http.StatusOK, dto.StockMovementListResponse{Items: items})
}

// Recalculate handles POST /registers/stock/recalculate.
// Rebuilds the balance cache from movements; admin-only maintenance.
func (h *StockHandler) Recalculate(c *gin.Context) {
	ctx := c.Request.Context()

	var storeID, itemID *id.ID
	if raw := c.Query("storeId"); raw != "" {
		parsed, err := id.Parse(raw)
		if err != nil {
			h.Error(c, invalidQueryID("storeId"))
			return
		}
		storeID = &parsed
	}
	if raw := c.Query("itemId"); raw != "" {
		parsed, err := id.Parse(raw)
		if err != nil {
			h.Error(c, invalidQueryID("itemId"))
			return
		}
		itemID = &parsed
	}

	if err := h.repo.RecalculateBalances(ctx, storeID, itemID); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "balances recalculated")
}
