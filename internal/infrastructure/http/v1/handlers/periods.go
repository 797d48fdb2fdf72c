package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"daftar/internal/domain"
	"daftar/internal/domain/periods"
	"daftar/internal/infrastructure/http/v1/dto"
)

// PeriodHandler serves fiscal period management.
type PeriodHandler struct {
	*BaseHandler
	service *periods.Service
}

// NewPeriodHandler creates a period handler.
func NewPeriodHandler(base *BaseHandler, service *periods.Service) *PeriodHandler {
	return &PeriodHandler{BaseHandler: base, service: service}
}

// List handles GET /periods.
func (h *PeriodHandler) List(c *gin.Context) {
	filter := domain.DefaultListFilter()
	filter.Search = c.Query("search")
	filter.Limit = h.ParseIntQuery(c, "limit", 50)
	filter.Offset = h.ParseIntQuery(c, "offset", 0)

	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]any, len(result.Items))
	for i, p := range result.Items {
		items[i] = dto.FromPeriod(p)
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// Get handles GET /periods/:id.
func (h *PeriodHandler) Get(c *gin.Context) {
	periodID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	period, err := h.service.GetByID(c.Request.Context(), periodID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromPeriod(period))
}

// Create handles POST /periods. The new period opens immediately.
func (h *PeriodHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreatePeriodRequest
	if !h.BindJSON(c, &req) {
		return
	}

	period, err := req.ToPeriod(ctx)
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.Create(ctx, period); err != nil {
		h.Error(c, err)
		return
	}

	response := dto.FromPeriod(period)
	h.CompleteIdempotency(c, http.StatusCreated, "application/json", response)
	c.JSON(http.StatusCreated, response)
}

// Close handles POST /periods/:id/close. Closed periods reject all
// document mutations dated inside them.
func (h *PeriodHandler) Close(c *gin.Context) {
	periodID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.Close(c.Request.Context(), periodID); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "period closed")
}

// Reopen handles POST /periods/:id/reopen.
func (h *PeriodHandler) Reopen(c *gin.Context) {
	periodID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.Reopen(c.Request.Context(), periodID); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "period reopened")
}
