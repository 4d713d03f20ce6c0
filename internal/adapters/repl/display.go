package repl

import (
	"fmt"
	"io"
	"strings"

	"inventory-ledger/internal/app"
	"inventory-ledger/internal/core"
	"inventory-ledger/internal/export"
)

func rule(out io.Writer, ch string, width int) {
	fmt.Fprintln(out, strings.Repeat(ch, width))
}

func printDashboard(out io.Writer, d *app.DashboardResult) {
	fmt.Fprintln(out)
	rule(out, "=", 72)
	fmt.Fprintln(out, "  DASHBOARD")
	rule(out, "=", 72)
	fmt.Fprintf(out, "  Total Products : %d\n", d.Metrics.TotalProducts)
	fmt.Fprintf(out, "  Total Quantity : %d\n", d.Metrics.TotalQuantity)
	fmt.Fprintf(out, "  Low Stock Items: %d\n", d.Metrics.LowStockCount)
	fmt.Fprintf(out, "  Total Value    : %s\n", d.TotalValueDisplay)

	if len(d.LowStock) > 0 {
		rule(out, "-", 72)
		fmt.Fprintf(out, "  WARNING: %d products are low on stock\n", len(d.LowStock))
		for _, p := range d.LowStock {
			fmt.Fprintf(out, "    %-8s %-28s qty %d / reorder %d\n", p.ProductID, p.ProductName, p.Quantity, p.ReorderLevel)
		}
	}

	rule(out, "-", 72)
	fmt.Fprintln(out, "  Category Distribution")
	for _, c := range d.Distribution {
		fmt.Fprintf(out, "    %-16s %8d\n", c.Category, c.Quantity)
	}

	rule(out, "-", 72)
	fmt.Fprintln(out, "  Top Products by Quantity")
	for _, p := range d.TopProducts {
		fmt.Fprintf(out, "    %-8s %-28s %8d\n", p.ProductID, p.ProductName, p.Quantity)
	}
	rule(out, "=", 72)
}

func printProducts(out io.Writer, title string, products []core.Product, svc app.ApplicationService) {
	fmt.Fprintln(out)
	rule(out, "=", 100)
	fmt.Fprintf(out, "  %s\n", title)
	rule(out, "=", 100)
	if len(products) == 0 {
		fmt.Fprintln(out, "  No products found.")
		rule(out, "=", 100)
		return
	}
	fmt.Fprintf(out, "  %-8s %-22s %-12s %6s %16s %-12s %-12s %7s  %s\n",
		"ID", "NAME", "CATEGORY", "QTY", "PRICE", "SUPPLIER", "LOCATION", "REORDER", "STATUS")
	rule(out, "-", 100)
	for _, p := range products {
		flag := ""
		if core.IsLowStock(p) {
			flag = " (low)"
		}
		fmt.Fprintf(out, "  %-8s %-22s %-12s %6d %16s %-12s %-12s %7d  %s%s\n",
			p.ProductID, p.ProductName, p.Category, p.Quantity, svc.FormatMoney(p.Price),
			p.Supplier, p.Location, p.ReorderLevel, p.Status, flag)
	}
	rule(out, "=", 100)
}

func printProductDetail(out io.Writer, r *app.ProductResult, svc app.ApplicationService) {
	p := r.Product
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  %s  %s\n", p.ProductID, p.ProductName)
	fmt.Fprintf(out, "  Category : %s\n", p.Category)
	fmt.Fprintf(out, "  Quantity : %d (reorder at %d)\n", p.Quantity, p.ReorderLevel)
	fmt.Fprintf(out, "  Price    : %s\n", svc.FormatMoney(p.Price))
	fmt.Fprintf(out, "  Value    : %s\n", r.StockValue)
	fmt.Fprintf(out, "  Supplier : %s\n", p.Supplier)
	fmt.Fprintf(out, "  Location : %s\n", p.Location)
	if p.ExpiryDate != nil {
		fmt.Fprintf(out, "  Expires  : %s\n", p.ExpiryDate.Format(core.DateLayout))
	}
	fmt.Fprintf(out, "  Status   : %s\n", p.Status)
	if r.LowStock {
		fmt.Fprintln(out, "  WARNING: low stock")
	}
	printTransactions(out, r.Transactions)
}

func printMovement(out io.Writer, r *app.TransactionResult) {
	tx := r.Transaction
	fmt.Fprintf(out, "%s recorded: %s %d x %s. On hand: %d.\n",
		tx.Type, tx.TransactionID, tx.Quantity, tx.ProductName, r.Product.Quantity)
	if r.LowStock {
		fmt.Fprintf(out, "WARNING: %s is at or below its reorder level (%d).\n", r.Product.ProductName, r.Product.ReorderLevel)
	}
}

func printTransactions(out io.Writer, txs []core.Transaction) {
	fmt.Fprintln(out)
	rule(out, "=", 80)
	fmt.Fprintln(out, "  TRANSACTIONS")
	rule(out, "=", 80)
	if len(txs) == 0 {
		fmt.Fprintln(out, "  No transactions found.")
		rule(out, "=", 80)
		return
	}
	fmt.Fprintf(out, "  %-8s %-8s %-24s %6s  %-9s %s\n", "ID", "PRODUCT", "NAME", "QTY", "TYPE", "DATE")
	rule(out, "-", 80)
	for _, tx := range txs {
		fmt.Fprintf(out, "  %-8s %-8s %-24s %6d  %-9s %s\n",
			tx.TransactionID, tx.ProductID, tx.ProductName, tx.Quantity, tx.Type, tx.Date.Format("2006-01-02 15:04"))
	}
	rule(out, "=", 80)
}

func printReport(out io.Writer, r *app.ReportResult) {
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  %s\n", strings.ToUpper(r.Title))
	printTable(out, r.Table)
	if len(r.Series) > 0 {
		fmt.Fprintln(out, "  Transactions per day")
		for _, p := range r.Series {
			fmt.Fprintf(out, "    %s  %s %d\n", p.Date.Format(core.DateLayout), strings.Repeat("#", min(p.Count, 50)), p.Count)
		}
	}
}

// printTable renders any interchange table with columns sized to their content.
func printTable(out io.Writer, t export.Table) {
	widths := make([]int, len(t.Header))
	for i, h := range t.Header {
		widths[i] = len(h)
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}
	total := 2
	for _, w := range widths {
		total += w + 2
	}

	writeRow := func(cells []string) {
		var b strings.Builder
		b.WriteString("  ")
		for i, c := range cells {
			if i < len(widths) {
				fmt.Fprintf(&b, "%-*s  ", widths[i], strings.ReplaceAll(c, "\n", " "))
			}
		}
		fmt.Fprintln(out, strings.TrimRight(b.String(), " "))
	}

	rule(out, "=", total)
	writeRow(t.Header)
	rule(out, "-", total)
	if len(t.Rows) == 0 {
		fmt.Fprintln(out, "  No rows.")
	}
	for _, row := range t.Rows {
		writeRow(row)
	}
	rule(out, "=", total)
}

func printHelp(out io.Writer) {
	fmt.Fprintln(out, `Commands:
  /dashboard                              Headline metrics, low-stock alerts and charts
  /inventory [category=.. location=..     Filtered inventory (status defaults to Active;
              status=..|all search=..]     comma-separate multiple values)
  /product <id>                           One product with its transactions
  /add                                    Add a product (guided)
  /update <id> field=value ...            Overwrite fields; quote values with spaces
  /delete <id>                            Remove a product (history is kept)
  /sale <id> <qty>                        Record a sale
  /purchase <id> <qty>                    Record a purchase
  /transactions [id]                      Transaction history, newest first
  /reports                                List available reports
  /report <kind>                          Show a report
  /export <source> [dest] [filters]       Export inventory, transactions, daily counts or a report
  /help                                   This help
  /exit                                   Quit`)
}
