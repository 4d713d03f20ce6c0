package app

import (
	"context"

	"inventory-ledger/internal/core"

	"github.com/shopspring/decimal"
)

// ApplicationService is the single interface all UI adapters (REPL, CLI, Web) call.
// It decouples presentation from the ledger. Implementations contain no
// display logic beyond the one money format.
type ApplicationService interface {
	// AddProduct inserts a product and logs the Purchase of its opening quantity.
	AddProduct(ctx context.Context, product core.Product) (*MutationResult, error)

	// UpdateProduct overwrites fields of an existing product. No transaction is logged.
	UpdateProduct(ctx context.Context, productID string, update core.ProductUpdate) (*MutationResult, error)

	// DeleteProduct removes a product. Deleting an unknown ID succeeds.
	DeleteProduct(ctx context.Context, productID string) (*MutationResult, error)

	// RecordSale decreases stock and logs a Sale.
	RecordSale(ctx context.Context, req StockMovementRequest) (*TransactionResult, error)

	// RecordPurchase increases stock and logs a Purchase.
	RecordPurchase(ctx context.Context, req StockMovementRequest) (*TransactionResult, error)

	// GetProduct returns one product with its transaction history.
	GetProduct(ctx context.Context, productID string) (*ProductResult, error)

	// ListInventory returns the filtered inventory view.
	ListInventory(ctx context.Context, filter core.InventoryFilter) (*InventoryResult, error)

	// ListTransactions returns transactions newest first. An empty productID lists all.
	ListTransactions(ctx context.Context, productID string) (*TransactionListResult, error)

	// GetDashboard returns headline metrics and chart data.
	GetDashboard(ctx context.Context) (*DashboardResult, error)

	// GetReport builds one of the named reports over the current ledger.
	GetReport(ctx context.Context, kind core.ReportKind) (*ReportResult, error)

	// Export renders a table and writes it through the configured sinks.
	Export(ctx context.Context, req ExportRequest) (*ExportResult, error)

	// FormatMoney renders an amount in the configured display format.
	FormatMoney(amount decimal.Decimal) string
}
