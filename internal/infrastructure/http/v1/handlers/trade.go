package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"daftar/internal/core/apperror"
	"daftar/internal/core/id"
	"daftar/internal/domain"
	"daftar/internal/domain/documents"
	"daftar/internal/infrastructure/http/v1/dto"
)

// TradeDocumentHandler serves one trade document kind. The binding
// pins the kind; all four kinds share this handler.
//
// There is no separate post step: creating a document applies its
// stock and financial effects, updating reverses and reapplies them,
// deleting reverses them.
type TradeDocumentHandler struct {
	*BaseHandler
	binding *documents.Binding
}

// NewTradeDocumentHandler creates a handler for one document kind.
func NewTradeDocumentHandler(base *BaseHandler, binding *documents.Binding) *TradeDocumentHandler {
	return &TradeDocumentHandler{BaseHandler: base, binding: binding}
}

// List handles GET /{kind}.
func (h *TradeDocumentHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	filter := domain.DocumentListFilter{}
	filter.Search = c.Query("search")
	filter.Limit = h.ParseIntQuery(c, "limit", 50)
	filter.Offset = h.ParseIntQuery(c, "offset", 0)
	filter.OrderBy = c.DefaultQuery("orderBy", "-date")
	filter.DateFrom = c.Query("dateFrom")
	filter.DateTo = c.Query("dateTo")

	if raw := c.Query("branchId"); raw != "" {
		branchID, err := id.Parse(raw)
		if err != nil {
			h.Error(c, invalidQueryID("branchId"))
			return
		}
		filter.BranchID = &branchID
	}

	result, err := h.binding.List(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]any, len(result.Items))
	for i, doc := range result.Items {
		items[i] = dto.FromTradeDocument(doc)
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// Get handles GET /{kind}/:id.
func (h *TradeDocumentHandler) Get(c *gin.Context) {
	docID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	doc, err := h.binding.GetByID(c.Request.Context(), docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromTradeDocument(doc))
}

// Create handles POST /{kind}. The document is posted atomically:
// row, stock movements and financial impact land in one transaction.
func (h *TradeDocumentHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateTradeDocumentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc, err := req.ToDocument(ctx, h.binding.Kind())
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := h.binding.Create(ctx, doc); err != nil {
		h.Error(c, err)
		return
	}

	response := dto.FromTradeDocument(doc)
	h.CompleteIdempotency(c, http.StatusCreated, "application/json", response)
	c.JSON(http.StatusCreated, response)
}

// Update handles PUT /{kind}/:id. Old effects are reversed and new
// ones applied in the same transaction.
func (h *TradeDocumentHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	docID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateTradeDocumentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc, err := h.binding.GetByID(ctx, docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	doc, err = req.Apply(doc)
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := h.binding.Update(ctx, doc); err != nil {
		h.Error(c, err)
		return
	}

	response := dto.FromTradeDocument(doc)
	h.CompleteIdempotency(c, http.StatusOK, "application/json", response)
	c.JSON(http.StatusOK, response)
}

// Delete handles DELETE /{kind}/:id. All effects are reversed before
// the row disappears.
func (h *TradeDocumentHandler) Delete(c *gin.Context) {
	docID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.binding.Delete(c.Request.Context(), docID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

func invalidQueryID(param string) error {
	return apperror.NewValidation("invalid id format").WithDetail("param", param)
}
