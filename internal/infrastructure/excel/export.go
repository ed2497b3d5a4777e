// Package excel renders reports and the invoice journal as xlsx workbooks.
package excel

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"breadroute/internal/domain/reports"
	"breadroute/internal/domain/settlement"
)

const sheet = "Sheet1"

// Exporter builds xlsx files from report read models.
type Exporter struct{}

// NewExporter creates the exporter.
func NewExporter() *Exporter {
	return &Exporter{}
}

func newWorkbook(header []any) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header row: %w", err)
	}
	return f, nil
}

func writeRow(f *excelize.File, rowNum int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

// SalesSummary renders the overall totals as a one-row sheet.
func (e *Exporter) SalesSummary(summary *reports.SalesSummary) (*excelize.File, error) {
	f, err := newWorkbook([]any{
		"Invoices", "Subtotal", "Exempt total", "Changes total", "Commission", "Payable total",
	})
	if err != nil {
		return nil, err
	}

	err = writeRow(f, 2, []any{
		summary.InvoiceCount,
		summary.Subtotal,
		summary.ExemptTotal,
		summary.ChangesTotal,
		summary.CommissionValue,
		summary.PayableTotal,
	})
	if err != nil {
		return nil, err
	}
	return f, nil
}

// ProductsSold renders per-product movement.
func (e *Exporter) ProductsSold(rows []reports.ProductSales) (*excelize.File, error) {
	f, err := newWorkbook([]any{
		"Product", "Units sold", "Sales total", "Changes units", "Changes value",
	})
	if err != nil {
		return nil, err
	}

	for i, row := range rows {
		err = writeRow(f, i+2, []any{
			row.ProductName,
			row.UnitsSold,
			row.SalesTotal,
			row.ChangesUnits,
			row.ChangesValue,
		})
		if err != nil {
			return nil, err
		}
	}
	return f, nil
}

// SalesBySeller renders per-seller totals.
func (e *Exporter) SalesBySeller(rows []reports.SellerSales) (*excelize.File, error) {
	f, err := newWorkbook([]any{
		"Seller", "Invoices", "Subtotal", "Exempt total", "Changes total", "Commission", "Payable total",
	})
	if err != nil {
		return nil, err
	}

	for i, row := range rows {
		err = writeRow(f, i+2, []any{
			row.SellerName,
			row.InvoiceCount,
			row.Subtotal,
			row.ExemptTotal,
			row.ChangesTotal,
			row.CommissionValue,
			row.PayableTotal,
		})
		if err != nil {
			return nil, err
		}
	}
	return f, nil
}

// InvoiceJournal renders the invoice list.
func (e *Exporter) InvoiceJournal(rows []settlement.InvoiceSummary) (*excelize.File, error) {
	f, err := newWorkbook([]any{
		"Number", "Seller", "Issued at", "Commission %",
		"Subtotal", "Exempt total", "Changes total", "Commission", "Payable total",
	})
	if err != nil {
		return nil, err
	}

	for i, row := range rows {
		err = writeRow(f, i+2, []any{
			row.Number,
			row.SellerName,
			row.IssuedAt.Format("2006-01-02 15:04"),
			row.CommissionPercent,
			row.Subtotal,
			row.ExemptTotal,
			row.ChangesTotal,
			row.CommissionValue,
			row.PayableTotal,
		})
		if err != nil {
			return nil, err
		}
	}
	return f, nil
}
