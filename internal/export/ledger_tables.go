package export

import (
	"fmt"
	"strconv"
	"time"

	"inventory-ledger/internal/core"

	"github.com/shopspring/decimal"
)

// Column titles of the two ledger tables.
var (
	ProductHeader = []string{
		"Product ID", "Product Name", "Category", "Quantity", "Price", "Supplier",
		"Location", "Reorder Level", "Expiry Date", "Status",
	}
	TransactionHeader = []string{
		"Transaction ID", "Product ID", "Product Name", "Quantity", "Transaction Type", "Date",
	}
)

// ProductsTable renders inventory rows in ProductHeader order.
func ProductsTable(products []core.Product) Table {
	rows := make([][]string, 0, len(products))
	for _, p := range products {
		expiry := ""
		if p.ExpiryDate != nil {
			expiry = p.ExpiryDate.Format(core.DateLayout)
		}
		rows = append(rows, []string{
			p.ProductID,
			p.ProductName,
			string(p.Category),
			strconv.Itoa(p.Quantity),
			priceCell(p.Price),
			p.Supplier,
			string(p.Location),
			strconv.Itoa(p.ReorderLevel),
			expiry,
			string(p.Status),
		})
	}
	return Table{Header: append([]string(nil), ProductHeader...), Rows: rows}
}

// priceCell writes at least two decimals and never rounds, so 12.345 stays 12.345.
func priceCell(price decimal.Decimal) string {
	if price.Exponent() < -2 {
		return price.String()
	}
	return price.StringFixed(2)
}

// ParseProducts converts a table produced by ProductsTable back into products.
func ParseProducts(t Table) ([]core.Product, error) {
	idx, err := columnIndex(t, ProductHeader)
	if err != nil {
		return nil, err
	}

	out := make([]core.Product, 0, len(t.Rows))
	for i, row := range t.Rows {
		cell := func(name string) string { return row[idx[name]] }
		line := i + 2

		category, err := core.ParseCategory(cell("Category"))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		location, err := core.ParseLocation(cell("Location"))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		status, err := core.ParseStatus(cell("Status"))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		qty, err := strconv.Atoi(cell("Quantity"))
		if err != nil {
			return nil, fmt.Errorf("line %d: quantity: %w", line, err)
		}
		reorder, err := strconv.Atoi(cell("Reorder Level"))
		if err != nil {
			return nil, fmt.Errorf("line %d: reorder level: %w", line, err)
		}
		price, err := decimal.NewFromString(cell("Price"))
		if err != nil {
			return nil, fmt.Errorf("line %d: price: %w", line, err)
		}

		p := core.Product{
			ProductID:    cell("Product ID"),
			ProductName:  cell("Product Name"),
			Category:     category,
			Quantity:     qty,
			Price:        price,
			Supplier:     cell("Supplier"),
			Location:     location,
			ReorderLevel: reorder,
			Status:       status,
		}
		if raw := cell("Expiry Date"); raw != "" {
			d, err := time.Parse(core.DateLayout, raw)
			if err != nil {
				return nil, fmt.Errorf("line %d: expiry date: %w", line, err)
			}
			p.ExpiryDate = &d
		}
		out = append(out, p)
	}
	return out, nil
}

// TransactionsTable renders transactions in TransactionHeader order. Dates
// are written in UTC with full precision.
func TransactionsTable(txs []core.Transaction) Table {
	rows := make([][]string, 0, len(txs))
	for _, tx := range txs {
		rows = append(rows, []string{
			tx.TransactionID,
			tx.ProductID,
			tx.ProductName,
			strconv.Itoa(tx.Quantity),
			string(tx.Type),
			tx.Date.UTC().Format(time.RFC3339Nano),
		})
	}
	return Table{Header: append([]string(nil), TransactionHeader...), Rows: rows}
}

// ParseTransactions converts a table produced by TransactionsTable back into transactions.
func ParseTransactions(t Table) ([]core.Transaction, error) {
	idx, err := columnIndex(t, TransactionHeader)
	if err != nil {
		return nil, err
	}

	out := make([]core.Transaction, 0, len(t.Rows))
	for i, row := range t.Rows {
		cell := func(name string) string { return row[idx[name]] }
		line := i + 2

		qty, err := strconv.Atoi(cell("Quantity"))
		if err != nil {
			return nil, fmt.Errorf("line %d: quantity: %w", line, err)
		}
		txType, err := core.ParseTransactionType(cell("Transaction Type"))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		date, err := time.Parse(time.RFC3339Nano, cell("Date"))
		if err != nil {
			return nil, fmt.Errorf("line %d: date: %w", line, err)
		}
		out = append(out, core.Transaction{
			TransactionID: cell("Transaction ID"),
			ProductID:     cell("Product ID"),
			ProductName:   cell("Product Name"),
			Quantity:      qty,
			Type:          txType,
			Date:          date,
		})
	}
	return out, nil
}

// columnIndex maps each required column to its position in t.
func columnIndex(t Table, required []string) (map[string]int, error) {
	idx := make(map[string]int, len(required))
	for _, name := range required {
		i := t.Column(name)
		if i < 0 {
			return nil, fmt.Errorf("missing column %q", name)
		}
		idx[name] = i
	}
	for i, row := range t.Rows {
		if len(row) != len(t.Header) {
			return nil, fmt.Errorf("line %d: expected %d cells, got %d", i+2, len(t.Header), len(row))
		}
	}
	return idx, nil
}
