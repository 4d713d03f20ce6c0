package app

import (
	"inventory-ledger/internal/core"
	"inventory-ledger/internal/export"
)

// MutationResult is returned by add, update and delete.
type MutationResult struct {
	ProductID string
	Message   string
}

// TransactionResult is returned by stock movements.
type TransactionResult struct {
	Transaction core.Transaction
	Product     core.Product
	LowStock    bool
}

// ProductResult is returned by GetProduct.
type ProductResult struct {
	Product      core.Product
	LowStock     bool
	StockValue   string
	Transactions []core.Transaction
}

// InventoryResult is returned by ListInventory.
type InventoryResult struct {
	Products []core.Product
	Filter   core.InventoryFilter
}

// TransactionListResult is returned by ListTransactions.
type TransactionListResult struct {
	Transactions []core.Transaction
}

// DashboardResult is returned by GetDashboard.
type DashboardResult struct {
	Metrics           core.DashboardMetrics
	TotalValueDisplay string
	Distribution      []core.CategoryQuantity
	TopProducts       []core.Product
	LowStock          []core.Product
	DailyCounts       []core.DailyCount
}

// ReportResult is returned by GetReport.
type ReportResult struct {
	Kind  core.ReportKind
	Title string
	Table export.Table
	// Series is set for the transaction history report.
	Series []core.DailyCount
}

// ExportResult is returned by Export.
type ExportResult struct {
	Destination string
	Rows        int
	Sinks       []string
	// Encoded is the interchange form of the exported table.
	Encoded []byte
}
