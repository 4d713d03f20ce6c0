package export

import (
	"strconv"

	"inventory-ledger/internal/core"
)

// CategorySummaryTable renders the Inventory Summary report.
func CategorySummaryTable(rows []core.CategorySummary) Table {
	t := Table{Header: []string{"Category", "Quantity", "Price"}, Rows: make([][]string, 0, len(rows))}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{string(r.Category), strconv.Itoa(r.Quantity), r.MeanPrice.StringFixed(2)})
	}
	return t
}

// GroupAnalysisTable renders a Category or Supplier Analysis report. keyTitle
// names the grouping column.
func GroupAnalysisTable(keyTitle string, rows []core.GroupAnalysis) Table {
	t := Table{
		Header: []string{keyTitle, "Quantity", "Price", "Product Count"},
		Rows:   make([][]string, 0, len(rows)),
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{
			r.Key,
			strconv.Itoa(r.Quantity),
			r.MeanPrice.String(),
			strconv.Itoa(r.ProductCount),
		})
	}
	return t
}

// DailyCountTable renders the transactions-per-day series.
func DailyCountTable(rows []core.DailyCount) Table {
	t := Table{Header: []string{"Date", "Count"}, Rows: make([][]string, 0, len(rows))}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{r.Date.Format(core.DateLayout), strconv.Itoa(r.Count)})
	}
	return t
}

// ReportTable renders the named report over a snapshot.
func ReportTable(kind core.ReportKind, snap core.Snapshot) Table {
	switch kind {
	case core.ReportInventorySummary:
		return CategorySummaryTable(core.InventorySummary(snap.Inventory))
	case core.ReportTransactionHistory:
		return TransactionsTable(core.TransactionHistory(snap.Transactions))
	case core.ReportLowStock:
		return ProductsTable(core.LowStockReport(snap.Inventory))
	case core.ReportCategoryAnalysis:
		return GroupAnalysisTable("Category", core.CategoryAnalysis(snap.Inventory))
	case core.ReportSupplierAnalysis:
		return GroupAnalysisTable("Supplier", core.SupplierAnalysis(snap.Inventory))
	default:
		return Table{Header: []string{}, Rows: [][]string{}}
	}
}
