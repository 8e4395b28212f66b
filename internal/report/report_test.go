package report

import (
	"fmt"
	"regexp"
	"testing"

	"github.com/netlink-io/khatabook/internal/config"
	"github.com/netlink-io/khatabook/internal/database"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGenerator() *Generator {
	return New(&config.ReportConfig{
		Title:    "Netlink Report",
		Currency: "₹",
	})
}

func sampleEntries(n int) []database.LedgerEntry {
	entries := make([]database.LedgerEntry, 0, n)
	balance := decimal.Zero
	for i := 0; i < n; i++ {
		credit := decimal.NewFromInt(int64(100 + i))
		balance = balance.Add(credit)
		entries = append(entries, database.LedgerEntry{
			ID:        uint(i + 1),
			EntryDate: "2024-01-02",
			Person:    fmt.Sprintf("Person %d", i+1),
			Credit:    credit,
			Debit:     decimal.Zero,
			AddedBy:   "alice",
			Balance:   balance,
		})
	}
	return entries
}

func TestFormatAmount(t *testing.T) {
	g := newTestGenerator()

	assert.Equal(t, "₹ 500.00", g.formatAmount(decimal.NewFromInt(500)))
	assert.Equal(t, "₹ 0.00", g.formatAmount(decimal.Zero))
	assert.Equal(t, "₹ 12.50", g.formatAmount(decimal.RequireFromString("12.5")))
	assert.Equal(t, "₹ -3.10", g.formatAmount(decimal.RequireFromString("-3.1")))
}

func TestTableRows(t *testing.T) {
	g := newTestGenerator()
	entries := []database.LedgerEntry{
		{
			EntryDate: "2024-01-02",
			Person:    "Alice",
			Credit:    decimal.NewFromInt(500),
			Debit:     decimal.Zero,
			AddedBy:   "bob",
			Balance:   decimal.NewFromInt(500),
		},
		{
			EntryDate: "2024-01-03",
			Person:    "Bob",
			Credit:    decimal.Zero,
			Debit:     decimal.NewFromInt(200),
			AddedBy:   "bob",
			Balance:   decimal.NewFromInt(300),
		},
	}

	rows := g.tableRows(entries)
	require.Len(t, rows, len(entries))

	// Every monetary cell reads "<symbol> <amount with two decimals>".
	money := regexp.MustCompile(`^₹ -?\d+\.\d{2}$`)
	for _, row := range rows {
		require.Len(t, row, len(tableHeader))
		for _, col := range []int{2, 3, 5} {
			assert.Regexp(t, money, row[col])
		}
	}

	assert.Equal(t, []string{"2024-01-02", "Alice", "₹ 500.00", "₹ 0.00", "bob", "₹ 500.00"}, rows[0])
	assert.Equal(t, []string{"2024-01-03", "Bob", "₹ 0.00", "₹ 200.00", "bob", "₹ 300.00"}, rows[1])
}

func TestRenderProducesPDF(t *testing.T) {
	g := newTestGenerator()

	data, err := g.Render(sampleEntries(3))
	require.NoError(t, err)
	require.NotEmpty(t, data)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestRenderEmptyLedger(t *testing.T) {
	g := newTestGenerator()

	data, err := g.Render(nil)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestRenderPaginatesLongLedgers(t *testing.T) {
	g := newTestGenerator()

	// Enough rows to force page breaks.
	data, err := g.Render(sampleEntries(120))
	require.NoError(t, err)
	// A multi-page document is strictly larger than a single-page one.
	short, err := g.Render(sampleEntries(3))
	require.NoError(t, err)
	assert.Greater(t, len(data), len(short))
}
