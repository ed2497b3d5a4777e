package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"breadroute/internal/core/apperror"
	"breadroute/internal/domain/reports"
	"breadroute/internal/domain/settlement"
	"breadroute/internal/infrastructure/excel"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportsHandler serves report queries and their xlsx exports.
type ReportsHandler struct {
	service     *reports.Service
	settlements *settlement.Service
	exporter    *excel.Exporter
}

// NewReportsHandler creates the reports handler.
func NewReportsHandler(service *reports.Service, settlements *settlement.Service, exporter *excel.Exporter) *ReportsHandler {
	return &ReportsHandler{service: service, settlements: settlements, exporter: exporter}
}

func (h *ReportsHandler) parseFilter(c *gin.Context) (reports.Filter, bool) {
	var filter reports.Filter
	var ok bool

	if filter.SellerID, ok = ParseOptionalID(c, c.Query("sellerId"), "sellerId"); !ok {
		return filter, false
	}
	if filter.DateFrom, ok = ParseOptionalDate(c, c.Query("dateFrom"), "dateFrom"); !ok {
		return filter, false
	}
	if filter.DateTo, ok = ParseOptionalDate(c, c.Query("dateTo"), "dateTo"); !ok {
		return filter, false
	}

	var query struct {
		Number *int64 `form:"number"`
	}
	if !BindQuery(c, &query) {
		return filter, false
	}
	filter.InvoiceNumber = query.Number

	return filter, true
}

// Summary returns overall totals.
func (h *ReportsHandler) Summary(c *gin.Context) {
	filter, ok := h.parseFilter(c)
	if !ok {
		return
	}
	summary, err := h.service.SalesSummary(c.Request.Context(), filter)
	if err != nil {
		HandleError(c, err)
		return
	}
	OK(c, summary)
}

// Products returns per-product movement.
func (h *ReportsHandler) Products(c *gin.Context) {
	filter, ok := h.parseFilter(c)
	if !ok {
		return
	}
	rows, err := h.service.ProductsSold(c.Request.Context(), filter)
	if err != nil {
		HandleError(c, err)
		return
	}
	OK(c, gin.H{"items": rows})
}

// Sellers returns per-seller totals.
func (h *ReportsHandler) Sellers(c *gin.Context) {
	filter, ok := h.parseFilter(c)
	if !ok {
		return
	}
	rows, err := h.service.SalesBySeller(c.Request.Context(), filter)
	if err != nil {
		HandleError(c, err)
		return
	}
	OK(c, gin.H{"items": rows})
}

func writeWorkbook(c *gin.Context, f *excelize.File, filename string) {
	c.Header("Content-Type", xlsxContentType)
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Status(http.StatusOK)
	if err := f.Write(c.Writer); err != nil {
		HandleError(c, apperror.NewInternal(err))
	}
}

// ExportSummary streams the summary report as xlsx.
func (h *ReportsHandler) ExportSummary(c *gin.Context) {
	filter, ok := h.parseFilter(c)
	if !ok {
		return
	}
	summary, err := h.service.SalesSummary(c.Request.Context(), filter)
	if err != nil {
		HandleError(c, err)
		return
	}
	f, err := h.exporter.SalesSummary(summary)
	if err != nil {
		HandleError(c, apperror.NewInternal(err))
		return
	}
	writeWorkbook(c, f, "sales-summary.xlsx")
}

// ExportProducts streams the products report as xlsx.
func (h *ReportsHandler) ExportProducts(c *gin.Context) {
	filter, ok := h.parseFilter(c)
	if !ok {
		return
	}
	rows, err := h.service.ProductsSold(c.Request.Context(), filter)
	if err != nil {
		HandleError(c, err)
		return
	}
	f, err := h.exporter.ProductsSold(rows)
	if err != nil {
		HandleError(c, apperror.NewInternal(err))
		return
	}
	writeWorkbook(c, f, "products-sold.xlsx")
}

// ExportSellers streams the sellers report as xlsx.
func (h *ReportsHandler) ExportSellers(c *gin.Context) {
	filter, ok := h.parseFilter(c)
	if !ok {
		return
	}
	rows, err := h.service.SalesBySeller(c.Request.Context(), filter)
	if err != nil {
		HandleError(c, err)
		return
	}
	f, err := h.exporter.SalesBySeller(rows)
	if err != nil {
		HandleError(c, apperror.NewInternal(err))
		return
	}
	writeWorkbook(c, f, "sales-by-seller.xlsx")
}

// ExportInvoices streams the invoice journal as xlsx.
func (h *ReportsHandler) ExportInvoices(c *gin.Context) {
	filter, ok := h.parseFilter(c)
	if !ok {
		return
	}

	listFilter := settlement.ListFilter{
		SellerID: filter.SellerID,
		Number:   filter.InvoiceNumber,
		DateFrom: filter.DateFrom,
		DateTo:   filter.DateTo,
		Limit:    10000,
	}
	result, err := h.settlements.ListInvoices(c.Request.Context(), listFilter)
	if err != nil {
		HandleError(c, err)
		return
	}
	f, err := h.exporter.InvoiceJournal(result.Items)
	if err != nil {
		HandleError(c, apperror.NewInternal(err))
		return
	}
	writeWorkbook(c, f, "invoices.xlsx")
}
