package app

import (
	"strings"

	"inventory-ledger/internal/core"
)

// StockMovementRequest is the input for RecordSale and RecordPurchase.
type StockMovementRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// Export sources besides the report kinds.
const (
	SourceInventory    = "inventory"
	SourceTransactions = "transactions"
	// SourceDailyCounts is the transactions-per-day series behind the history chart.
	SourceDailyCounts = "transactions-per-day"
)

// ExportRequest selects what to export and where.
type ExportRequest struct {
	// Source is "inventory", "transactions", "transactions-per-day" or a report kind slug.
	Source string `json:"source"`
	// Filter applies when Source is "inventory".
	Filter core.InventoryFilter `json:"filter"`
	// Destination names the file or table. Defaults to Source.
	Destination string `json:"destination,omitempty"`
	// Sink restricts the write to one sink by name. Empty writes to every sink.
	Sink string `json:"sink,omitempty"`
}

func (r ExportRequest) normalized() (ExportRequest, error) {
	r.Source = strings.ToLower(strings.TrimSpace(r.Source))
	if r.Source == "" {
		return r, core.NewValidationError("export source is required", map[string]string{"source": "is required"})
	}
	if strings.TrimSpace(r.Destination) == "" {
		r.Destination = r.Source
	}
	r.Sink = strings.ToLower(strings.TrimSpace(r.Sink))
	return r, nil
}
