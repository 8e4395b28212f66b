// Package report renders the ledger book as a paginated PDF table.
package report

import (
	"bytes"
	_ "embed"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/netlink-io/khatabook/internal/config"
	"github.com/netlink-io/khatabook/internal/database"
	"github.com/shopspring/decimal"
)

// Filename is the suggested download name for the exported report.
const Filename = "Netlink_Khatabook_Report.pdf"

// The built-in PDF core fonts have no rupee glyph, so the report ships
// its own DejaVu Sans faces.
var (
	//go:embed fonts/DejaVuSans.ttf
	fontRegular []byte
	//go:embed fonts/DejaVuSans-Bold.ttf
	fontBold []byte
)

var tableHeader = []string{"Date", "Person", "Credit", "Debit", "Added By", "Balance"}

// Column widths in mm, summing to the usable width of an A4 page with
// 10mm margins.
var colWidths = []float64{30, 45, 28, 28, 31, 28}

// Generator renders ledger entries into PDF documents.
type Generator struct {
	title    string
	currency string
}

// New creates a new report generator.
func New(cfg *config.ReportConfig) *Generator {
	return &Generator{
		title:    cfg.Title,
		currency: cfg.Currency,
	}
}

// formatAmount renders a monetary cell: currency symbol, one space,
// exactly two decimals.
func (g *Generator) formatAmount(d decimal.Decimal) string {
	return g.currency + " " + d.StringFixed(2)
}

// tableRows converts entries into formatted table cells, one row per
// entry, in the order the entries are given.
func (g *Generator) tableRows(entries []database.LedgerEntry) [][]string {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			e.EntryDate,
			e.Person,
			g.formatAmount(e.Credit),
			g.formatAmount(e.Debit),
			e.AddedBy,
			g.formatAmount(e.Balance),
		})
	}
	return rows
}

// Render produces the PDF byte stream: a title followed by one table
// with a filled header row and one row per entry. The header row is
// repeated after every page break.
func (g *Generator) Render(entries []database.LedgerEntry) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.SetAutoPageBreak(false, 10)
	pdf.AddUTF8FontFromBytes("DejaVu", "", fontRegular)
	pdf.AddUTF8FontFromBytes("DejaVu", "B", fontBold)
	pdf.AddPage()

	pdf.SetFont("DejaVu", "B", 16)
	pdf.CellFormat(0, 10, g.title, "", 1, "C", false, 0, "")
	pdf.Ln(8)

	g.writeHeaderRow(pdf)

	pdf.SetFont("DejaVu", "", 10)
	_, pageHeight := pdf.GetPageSize()
	_, _, _, bottomMargin := pdf.GetMargins()

	for _, row := range g.tableRows(entries) {
		if pdf.GetY()+rowHeight > pageHeight-bottomMargin {
			pdf.AddPage()
			g.writeHeaderRow(pdf)
			pdf.SetFont("DejaVu", "", 10)
		}
		for i, cell := range row {
			pdf.CellFormat(colWidths[i], rowHeight, cell, "1", 0, "C", false, 0, "")
		}
		pdf.Ln(rowHeight)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}
	return buf.Bytes(), nil
}

const rowHeight = 8.0

// writeHeaderRow draws the filled header row: dark blue background,
// white bold text.
func (g *Generator) writeHeaderRow(pdf *fpdf.Fpdf) {
	pdf.SetFont("DejaVu", "B", 10)
	pdf.SetFillColor(0, 0, 139)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetDrawColor(128, 128, 128)
	for i, cell := range tableHeader {
		pdf.CellFormat(colWidths[i], rowHeight, cell, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(rowHeight)
	pdf.SetTextColor(0, 0, 0)
}
