package export

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"inventory-ledger/internal/core"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProducts() []core.Product {
	expiry := time.Date(2027, 3, 31, 0, 0, 0, 0, time.UTC)
	return []core.Product{
		{ProductID: "P001", ProductName: "Laptop", Category: core.CategoryElectronics, Quantity: 50,
			Price: decimal.RequireFromString("80000"), Supplier: "TechCorp", Location: core.LocationWarehouseA,
			ReorderLevel: 10, Status: core.StatusActive},
		{ProductID: "P010", ProductName: `Desk, "Oak" 120cm`, Category: core.CategoryFurniture, Quantity: 4,
			Price: decimal.RequireFromString("15999.99"), Supplier: "Wood\nWorks", Location: core.LocationStoreFront,
			ReorderLevel: 2, Status: core.StatusActive},
		{ProductID: "P011", ProductName: "Glue", Category: core.CategoryStationery, Quantity: 0,
			Price: decimal.RequireFromString("0.50"), Supplier: "", Location: core.LocationWarehouseB,
			ReorderLevel: 5, ExpiryDate: &expiry, Status: core.StatusInactive},
	}
}

func TestEncode_GoldenBytes(t *testing.T) {
	table := Table{
		Header: []string{"Product ID", "Product Name", "Quantity"},
		Rows: [][]string{
			{"P001", "Laptop", "50"},
			{"P010", `Desk, "Oak"`, "4"},
			{"P011", "two\nlines", "0"},
			{"P012", "", "1"},
		},
	}

	got, err := table.Marshal()
	require.NoError(t, err)

	want := "Product ID,Product Name,Quantity\n" +
		"P001,Laptop,50\n" +
		"P010,\"Desk, \"\"Oak\"\"\",4\n" +
		"P011,\"two\nlines\",0\n" +
		"P012,,1\n"
	assert.Equal(t, want, string(got))

	again, err := table.Marshal()
	require.NoError(t, err)
	assert.Equal(t, got, again, "encoding is byte-stable")
}

func TestEncode_RaggedRowFails(t *testing.T) {
	_, err := Table{Header: []string{"a", "b"}, Rows: [][]string{{"1"}}}.Marshal()
	assert.Error(t, err)
}

func TestParse_Errors(t *testing.T) {
	_, err := Unmarshal(nil)
	assert.Error(t, err)

	_, err = Unmarshal([]byte("a,b\n\"unterminated\n"))
	assert.Error(t, err)

	headerOnly, err := Unmarshal([]byte("a,b\n"))
	require.NoError(t, err)
	assert.Equal(t, 0, headerOnly.Len())
	assert.NotNil(t, headerOnly.Rows)
}

func TestProducts_RoundTripFilteredView(t *testing.T) {
	view := core.FilterInventory(testProducts(), core.InventoryFilter{
		Categories: []core.Category{core.CategoryFurniture, core.CategoryStationery},
	})
	require.Len(t, view, 2)

	data, err := ProductsTable(view).Marshal()
	require.NoError(t, err)
	table, err := Unmarshal(data)
	require.NoError(t, err)
	parsed, err := ParseProducts(table)
	require.NoError(t, err)

	require.Len(t, parsed, len(view))
	for i := range view {
		want, got := view[i], parsed[i]
		assert.True(t, want.Price.Equal(got.Price), "row %d price: want %s got %s", i, want.Price, got.Price)
		want.Price, got.Price = decimal.Zero, decimal.Zero
		assert.Equal(t, want, got, "row %d", i)
	}

	reencoded, err := ProductsTable(parsed).Marshal()
	require.NoError(t, err)
	assert.Equal(t, string(data), string(reencoded))
}

func TestProducts_RoundTripStoreBuiltProduct(t *testing.T) {
	store := core.NewLedgerStore(core.StoreOptions{})
	expiry := time.Date(2027, 1, 2, 15, 4, 5, 0, time.UTC)
	_, err := store.AddProduct(context.Background(), core.Product{
		ProductID: "P020", ProductName: "Ink", Category: core.CategoryStationery, Quantity: 8,
		Price: decimal.RequireFromString("12.345"), Location: core.LocationStoreFront,
		ReorderLevel: 2, ExpiryDate: &expiry,
	})
	require.NoError(t, err)

	view := core.FilterInventory(store.Inventory(context.Background()), core.InventoryFilter{Search: "ink"})
	require.Len(t, view, 1)

	data, err := ProductsTable(view).Marshal()
	require.NoError(t, err)
	assert.Contains(t, string(data), ",12.345,")
	table, err := Unmarshal(data)
	require.NoError(t, err)
	parsed, err := ParseProducts(table)
	require.NoError(t, err)

	require.Len(t, parsed, 1)
	assert.True(t, view[0].Price.Equal(parsed[0].Price), "price: want %s got %s", view[0].Price, parsed[0].Price)
	require.NotNil(t, parsed[0].ExpiryDate)
	assert.True(t, view[0].ExpiryDate.Equal(*parsed[0].ExpiryDate), "expiry: want %s got %s", view[0].ExpiryDate, parsed[0].ExpiryDate)
	view[0].Price, parsed[0].Price = decimal.Zero, decimal.Zero
	assert.Equal(t, view[0], parsed[0])
}

func TestPriceCell(t *testing.T) {
	assert.Equal(t, "80000.00", priceCell(decimal.RequireFromString("80000")))
	assert.Equal(t, "0.50", priceCell(decimal.RequireFromString("0.5")))
	assert.Equal(t, "12.345", priceCell(decimal.RequireFromString("12.345")))
	assert.Equal(t, "0.0001", priceCell(decimal.RequireFromString("0.0001")))
}

func TestTransactions_RoundTrip(t *testing.T) {
	base := time.Date(2026, 5, 1, 9, 30, 15, 123456789, time.UTC)
	txs := []core.Transaction{
		{TransactionID: "T001", ProductID: "P001", ProductName: "Laptop", Quantity: 5, Type: core.TransactionSale, Date: base},
		{TransactionID: "T002", ProductID: "GONE", ProductName: "Old, discontinued", Quantity: 10, Type: core.TransactionPurchase, Date: base.Add(time.Hour)},
	}

	data, err := TransactionsTable(txs).Marshal()
	require.NoError(t, err)
	table, err := Unmarshal(data)
	require.NoError(t, err)
	parsed, err := ParseTransactions(table)
	require.NoError(t, err)

	assert.Equal(t, txs, parsed)
}

func TestParseProducts_BadCells(t *testing.T) {
	table := ProductsTable(testProducts()[:1])
	table.Rows[0][table.Column("Quantity")] = "lots"
	_, err := ParseProducts(table)
	assert.ErrorContains(t, err, "line 2")

	_, err = ParseProducts(Table{Header: []string{"Product ID"}})
	assert.ErrorContains(t, err, "missing column")
}

func TestReportTable_AllKinds(t *testing.T) {
	snap := core.Snapshot{
		Inventory: testProducts(),
		Transactions: []core.Transaction{
			{TransactionID: "T001", ProductID: "P001", ProductName: "Laptop", Quantity: 5, Type: core.TransactionSale,
				Date: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)},
		},
	}

	for _, kind := range core.ReportKinds() {
		t.Run(string(kind), func(t *testing.T) {
			table := ReportTable(kind, snap)
			require.NotEmpty(t, table.Header)
			_, err := table.Marshal()
			require.NoError(t, err)
		})
	}

	low := ReportTable(core.ReportLowStock, snap)
	require.Equal(t, 1, low.Len())
	assert.Equal(t, "P011", low.Rows[0][0])

	supplier := ReportTable(core.ReportSupplierAnalysis, snap)
	assert.Equal(t, []string{"Supplier", "Quantity", "Price", "Product Count"}, supplier.Header)
}

func TestDirSink_WritesSanitizedFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	sink := NewDirSink(dir)
	table := ProductsTable(testProducts())

	require.NoError(t, sink.Write(context.Background(), "../low stock/report", table))

	path := filepath.Join(dir, "low_stock_report.csv")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	want, err := table.Marshal()
	require.NoError(t, err)
	assert.Equal(t, want, data)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestSanitizeDestination(t *testing.T) {
	tests := map[string]string{
		"inventory":          "inventory",
		"Low Stock":          "Low_Stock",
		"../etc/passwd":      "etc_passwd",
		"  report-2026.csv ": "report-2026_csv",
	}
	for in, want := range tests {
		got, err := SanitizeDestination(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := SanitizeDestination(" /// ")
	assert.Error(t, err)
}

func TestColumnNames(t *testing.T) {
	assert.Equal(t,
		[]string{"product_id", "reorder_level", "transaction_type", "column_4"},
		ColumnNames([]string{"Product ID", "Reorder Level", "Transaction Type", "  "}),
	)
	assert.True(t, strings.HasPrefix(createTableSQL([]string{"inventory"}, []string{"product_id"}), `CREATE TABLE IF NOT EXISTS "inventory"`))
}

func TestPDFSink_WritesReport(t *testing.T) {
	dir := t.TempDir()
	sink := NewPDFSink(dir)
	table := ProductsTable(testProducts())

	require.NoError(t, sink.Write(context.Background(), "Low Stock", table))

	data, err := os.ReadFile(filepath.Join(dir, "Low_Stock.pdf"))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestRenderPDF_Errors(t *testing.T) {
	_, err := RenderPDF("empty", Table{})
	assert.ErrorContains(t, err, "no header")

	_, err = RenderPDF("ragged", Table{Header: []string{"A", "B"}, Rows: [][]string{{"1"}}})
	assert.ErrorContains(t, err, "row 1")
}

func TestAlignFor(t *testing.T) {
	assert.Equal(t, "R", alignFor("80000.00"))
	assert.Equal(t, "R", alignFor("-3"))
	assert.Equal(t, "L", alignFor("Warehouse A"))
	assert.Equal(t, "L", alignFor(""))
}
