// Package export renders finance data as xlsx workbooks
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/likelee/agency-dashboard/internal/application/port"
	"github.com/likelee/agency-dashboard/internal/domain/entity"
)

const (
	invoiceSheet   = "Invoices"
	statementSheet = "Statements"
	summarySheet   = "Summary"
	dateLayout     = "2006-01-02"

	// excelize built-in number format "#,##0.00"
	numFmtAmount = 4
)

var invoiceHeaders = []string{
	"Number", "Client", "Talent", "Issue Date", "Due Date", "Status",
	"Currency", "Subtotal", "Tax", "Total", "Paid", "Balance",
}

var statementHeaders = []string{
	"Talent", "Division", "Period", "Bookings", "Gross", "Rate %",
	"Commission", "Net Payout", "Status", "Paid At",
}

// Exporter builds workbooks with excelize
type Exporter struct {
	logger *zap.Logger
}

// NewExporter creates a new workbook exporter
func NewExporter(logger *zap.Logger) *Exporter {
	return &Exporter{logger: logger}
}

// Invoices renders one row per invoice followed by a totals row
func (e *Exporter) Invoices(invoices []*entity.Invoice) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", invoiceSheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}
	styles, err := newStyles(f)
	if err != nil {
		return nil, err
	}
	if err := writeHeader(f, invoiceSheet, invoiceHeaders, styles.header); err != nil {
		return nil, err
	}

	var subtotal, tax, total, paid, balance int64
	for i, inv := range invoices {
		row := i + 2
		values := []interface{}{
			inv.Number,
			inv.ClientName,
			inv.TalentName,
			inv.IssueDate.Format(dateLayout),
			inv.DueDate.Format(dateLayout),
			inv.Status,
			inv.Currency,
			toUnits(inv.SubtotalCents),
			toUnits(inv.TaxCents),
			toUnits(inv.TotalCents),
			toUnits(inv.PaidCents),
			toUnits(inv.BalanceCents()),
		}
		if err := writeRow(f, invoiceSheet, row, values); err != nil {
			return nil, err
		}
		subtotal += inv.SubtotalCents
		tax += inv.TaxCents
		total += inv.TotalCents
		paid += inv.PaidCents
		balance += inv.BalanceCents()
	}

	totalsRow := len(invoices) + 2
	totals := []interface{}{"Total", "", "", "", "", "", "",
		toUnits(subtotal), toUnits(tax), toUnits(total), toUnits(paid), toUnits(balance)}
	if err := writeRow(f, invoiceSheet, totalsRow, totals); err != nil {
		return nil, err
	}
	if err := styleRange(f, invoiceSheet, 8, 2, 12, totalsRow, styles.amount); err != nil {
		return nil, err
	}
	if err := styleRange(f, invoiceSheet, 1, totalsRow, 1, totalsRow, styles.header); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(invoiceSheet, "A", "L", 16); err != nil {
		return nil, fmt.Errorf("failed to set column width: %w", err)
	}

	data, err := write(f)
	if err != nil {
		return nil, err
	}
	e.logger.Info("Invoice workbook generated", zap.Int("invoice_count", len(invoices)), zap.Int("bytes", len(data)))
	return data, nil
}

// Statements renders talent statement lines plus a summary sheet
func (e *Exporter) Statements(earnings []*entity.TalentEarning, summary *entity.EarningsSummary) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", statementSheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}
	styles, err := newStyles(f)
	if err != nil {
		return nil, err
	}
	if err := writeHeader(f, statementSheet, statementHeaders, styles.header); err != nil {
		return nil, err
	}

	for i, s := range earnings {
		paidAt := ""
		if s.PaidAt != nil {
			paidAt = s.PaidAt.Format(dateLayout)
		}
		values := []interface{}{
			s.TalentName,
			s.Division,
			s.Period,
			s.BookingCount,
			toUnits(s.GrossCents),
			s.CommissionRate,
			toUnits(s.CommissionCents),
			toUnits(s.NetCents),
			s.Status,
			paidAt,
		}
		if err := writeRow(f, statementSheet, i+2, values); err != nil {
			return nil, err
		}
	}
	if len(earnings) > 0 {
		if err := styleRange(f, statementSheet, 5, 2, 5, len(earnings)+1, styles.amount); err != nil {
			return nil, err
		}
		if err := styleRange(f, statementSheet, 7, 2, 8, len(earnings)+1, styles.amount); err != nil {
			return nil, err
		}
	}
	if err := f.SetColWidth(statementSheet, "A", "J", 16); err != nil {
		return nil, fmt.Errorf("failed to set column width: %w", err)
	}

	if summary != nil {
		if _, err := f.NewSheet(summarySheet); err != nil {
			return nil, fmt.Errorf("failed to add summary sheet: %w", err)
		}
		rows := [][]interface{}{
			{"Talent", summary.TalentCount},
			{"Gross", toUnits(summary.GrossCents)},
			{"Commission", toUnits(summary.CommissionCents)},
			{"Net Payout", toUnits(summary.NetCents)},
			{"Pending", toUnits(summary.PendingCents)},
		}
		for i, r := range rows {
			if err := writeRow(f, summarySheet, i+1, r); err != nil {
				return nil, err
			}
		}
		if err := styleRange(f, summarySheet, 1, 1, 1, len(rows), styles.header); err != nil {
			return nil, err
		}
		if err := styleRange(f, summarySheet, 2, 2, 2, len(rows), styles.amount); err != nil {
			return nil, err
		}
	}

	data, err := write(f)
	if err != nil {
		return nil, err
	}
	e.logger.Info("Statement workbook generated", zap.Int("statement_count", len(earnings)), zap.Int("bytes", len(data)))
	return data, nil
}

type styleSet struct {
	header int
	amount int
}

func newStyles(f *excelize.File) (styleSet, error) {
	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return styleSet{}, fmt.Errorf("failed to create header style: %w", err)
	}
	amount, err := f.NewStyle(&excelize.Style{NumFmt: numFmtAmount})
	if err != nil {
		return styleSet{}, fmt.Errorf("failed to create amount style: %w", err)
	}
	return styleSet{header: header, amount: amount}, nil
}

func writeHeader(f *excelize.File, sheet string, headers []string, style int) error {
	values := make([]interface{}, len(headers))
	for i, h := range headers {
		values[i] = h
	}
	if err := writeRow(f, sheet, 1, values); err != nil {
		return err
	}
	return styleRange(f, sheet, 1, 1, len(headers), 1, style)
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return fmt.Errorf("failed to resolve cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("failed to set %s!%s: %w", sheet, cell, err)
		}
	}
	return nil
}

func styleRange(f *excelize.File, sheet string, col1, row1, col2, row2, style int) error {
	from, err := excelize.CoordinatesToCellName(col1, row1)
	if err != nil {
		return fmt.Errorf("failed to resolve cell: %w", err)
	}
	to, err := excelize.CoordinatesToCellName(col2, row2)
	if err != nil {
		return fmt.Errorf("failed to resolve cell: %w", err)
	}
	if err := f.SetCellStyle(sheet, from, to, style); err != nil {
		return fmt.Errorf("failed to style %s:%s: %w", from, to, err)
	}
	return nil
}

func write(f *excelize.File) ([]byte, error) {
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func toUnits(cents int64) float64 {
	return float64(cents) / 100
}

var _ port.SpreadsheetExporter = (*Exporter)(nil)
