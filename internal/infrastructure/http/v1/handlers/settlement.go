package handlers

import (
	"github.com/gin-gonic/gin"

	"breadroute/internal/core/apperror"
	"breadroute/internal/core/id"
	"breadroute/internal/domain/settlement"
	"breadroute/internal/infrastructure/http/v1/dto"
)

// SettlementHandler serves settlement commits and the invoice read models.
type SettlementHandler struct {
	service *settlement.Service
}

// NewSettlementHandler creates the settlement handler.
func NewSettlementHandler(service *settlement.Service) *SettlementHandler {
	return &SettlementHandler{service: service}
}

// Commit closes the seller's cycle into an invoice. Not idempotent: a retry
// settles the post-reset state. On an ambiguous failure check the journal
// before resubmitting.
func (h *SettlementHandler) Commit(c *gin.Context) {
	sellerID, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.SettlementRequest
	if !BindJSON(c, &req) {
		return
	}

	lines := make([]settlement.Line, 0, len(req.Lines))
	for _, line := range req.Lines {
		productID, err := id.Parse(line.ProductID)
		if err != nil {
			HandleError(c, apperror.NewValidation("invalid product id").
				WithDetail("product_id", line.ProductID))
			return
		}
		lines = append(lines, settlement.Line{
			ProductID:  productID,
			FinalQty:   *line.FinalQty,
			ChangesQty: *line.ChangesQty,
		})
	}

	invoice, err := h.service.CommitSettlement(c.Request.Context(), &settlement.Declaration{
		SellerID:          sellerID,
		CommissionPercent: *req.CommissionPercent,
		Lines:             lines,
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	Created(c, dto.NewInvoiceResponse(invoice))
}

// GetInvoice returns a stored invoice with its item snapshots.
func (h *SettlementHandler) GetInvoice(c *gin.Context) {
	invoiceID, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}
	inv, err := h.service.GetInvoice(c.Request.Context(), invoiceID)
	if err != nil {
		HandleError(c, err)
		return
	}
	OK(c, dto.NewInvoiceWithItemsResponse(inv))
}

// ListInvoices returns the invoice journal, newest first.
func (h *SettlementHandler) ListInvoices(c *gin.Context) {
	var query dto.InvoiceListQuery
	if !BindQuery(c, &query) {
		return
	}

	filter := settlement.ListFilter{
		Number: query.Number,
		Limit:  query.Limit,
		Offset: query.Offset,
	}
	var ok bool
	if filter.SellerID, ok = ParseOptionalID(c, query.SellerID, "sellerId"); !ok {
		return
	}
	if filter.DateFrom, ok = ParseOptionalDate(c, query.DateFrom, "dateFrom"); !ok {
		return
	}
	if filter.DateTo, ok = ParseOptionalDate(c, query.DateTo, "dateTo"); !ok {
		return
	}

	result, err := h.service.ListInvoices(c.Request.Context(), filter)
	if err != nil {
		HandleError(c, err)
		return
	}

	items := make([]dto.InvoiceSummaryResponse, 0, len(result.Items))
	for i := range result.Items {
		items = append(items, dto.NewInvoiceSummaryResponse(&result.Items[i]))
	}
	OK(c, dto.ListResponse[dto.InvoiceSummaryResponse]{Items: items, Total: result.Total})
}
