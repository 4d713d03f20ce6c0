package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"inventory-ledger/internal/core"
	"inventory-ledger/internal/export"
	"inventory-ledger/internal/logger"
	"inventory-ledger/internal/metrics"

	"github.com/shopspring/decimal"
)

// Options wires the collaborators of an ApplicationService.
type Options struct {
	Store   core.LedgerStore
	Sinks   []export.Sink
	Metrics *metrics.LedgerMetrics
	Logger  *logger.Logger
	// TopN sizes the top-products chart. Defaults to core.DefaultTopN.
	TopN           int
	CurrencySymbol string
}

type appService struct {
	store   core.LedgerStore
	sinks   []export.Sink
	metrics *metrics.LedgerMetrics
	log     *logger.Logger
	topN    int
	money   moneyFormat
}

// NewAppService constructs an appService that satisfies ApplicationService.
func NewAppService(opts Options) ApplicationService {
	s := &appService{
		store:   opts.Store,
		sinks:   opts.Sinks,
		metrics: opts.Metrics,
		log:     opts.Logger,
		topN:    opts.TopN,
		money:   newMoneyFormat(opts.CurrencySymbol),
	}
	if s.log == nil {
		s.log = logger.Nop()
	}
	if s.store == nil {
		s.store = core.NewLedgerStore(core.StoreOptions{Logger: s.log})
	}
	if s.topN <= 0 {
		s.topN = core.DefaultTopN
	}
	return s
}

// ── Mutations ─────────────────────────────────────────────────────────────────

func (s *appService) AddProduct(ctx context.Context, product core.Product) (*MutationResult, error) {
	msg, err := s.store.AddProduct(ctx, product)
	s.metrics.ObserveMutation("add_product", err)
	if err != nil {
		return nil, err
	}
	return &MutationResult{ProductID: product.ProductID, Message: msg}, nil
}

func (s *appService) UpdateProduct(ctx context.Context, productID string, update core.ProductUpdate) (*MutationResult, error) {
	msg, err := s.store.UpdateProduct(ctx, productID, update)
	s.metrics.ObserveMutation("update_product", err)
	if err != nil {
		return nil, err
	}
	return &MutationResult{ProductID: productID, Message: msg}, nil
}

func (s *appService) DeleteProduct(ctx context.Context, productID string) (*MutationResult, error) {
	msg, err := s.store.DeleteProduct(ctx, productID)
	s.metrics.ObserveMutation("delete_product", err)
	if err != nil {
		return nil, err
	}
	return &MutationResult{ProductID: productID, Message: msg}, nil
}

func (s *appService) RecordSale(ctx context.Context, req StockMovementRequest) (*TransactionResult, error) {
	tx, err := s.store.RecordSale(ctx, req.ProductID, req.Quantity)
	s.metrics.ObserveMutation("record_sale", err)
	if err != nil {
		return nil, err
	}
	return s.movementResult(ctx, tx)
}

func (s *appService) RecordPurchase(ctx context.Context, req StockMovementRequest) (*TransactionResult, error) {
	tx, err := s.store.RecordPurchase(ctx, req.ProductID, req.Quantity)
	s.metrics.ObserveMutation("record_purchase", err)
	if err != nil {
		return nil, err
	}
	return s.movementResult(ctx, tx)
}

func (s *appService) movementResult(ctx context.Context, tx core.Transaction) (*TransactionResult, error) {
	p, err := s.store.GetProduct(ctx, tx.ProductID)
	if err != nil {
		// Deleted between the movement and this read.
		return &TransactionResult{Transaction: tx}, nil
	}
	return &TransactionResult{Transaction: tx, Product: p, LowStock: core.IsLowStock(p)}, nil
}

// ── Reads ─────────────────────────────────────────────────────────────────────

func (s *appService) GetProduct(ctx context.Context, productID string) (*ProductResult, error) {
	p, err := s.store.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	return &ProductResult{
		Product:      p,
		LowStock:     core.IsLowStock(p),
		StockValue:   s.money.format(p.StockValue()),
		Transactions: core.TransactionHistory(s.store.TransactionsFor(ctx, productID)),
	}, nil
}

func (s *appService) ListInventory(ctx context.Context, filter core.InventoryFilter) (*InventoryResult, error) {
	return &InventoryResult{
		Products: core.FilterInventory(s.store.Inventory(ctx), filter),
		Filter:   filter,
	}, nil
}

func (s *appService) ListTransactions(ctx context.Context, productID string) (*TransactionListResult, error) {
	var txs []core.Transaction
	if productID == "" {
		txs = s.store.Transactions(ctx)
	} else {
		txs = s.store.TransactionsFor(ctx, productID)
	}
	return &TransactionListResult{Transactions: core.TransactionHistory(txs)}, nil
}

func (s *appService) GetDashboard(ctx context.Context) (*DashboardResult, error) {
	start := time.Now()
	snap := s.store.Snapshot(ctx)

	m := core.ComputeDashboard(snap.Inventory)
	result := &DashboardResult{
		Metrics:           m,
		TotalValueDisplay: s.money.format(m.TotalValue),
		Distribution:      core.CategoryDistribution(snap.Inventory),
		TopProducts:       core.TopByQuantity(snap.Inventory, s.topN),
		LowStock:          core.LowStockReport(snap.Inventory),
		DailyCounts:       core.TransactionCountsByDate(snap.Transactions),
	}
	s.metrics.ObserveReport("dashboard", time.Since(start))
	return result, nil
}

func (s *appService) GetReport(ctx context.Context, kind core.ReportKind) (*ReportResult, error) {
	if _, err := core.ParseReportKind(string(kind)); err != nil {
		return nil, fmt.Errorf("get report: %w", err)
	}
	start := time.Now()
	snap := s.store.Snapshot(ctx)

	result := &ReportResult{
		Kind:  kind,
		Title: kind.Title(),
		Table: export.ReportTable(kind, snap),
	}
	if kind == core.ReportTransactionHistory {
		result.Series = core.TransactionCountsByDate(snap.Transactions)
	}
	s.metrics.ObserveReport(string(kind), time.Since(start))
	return result, nil
}

func (s *appService) FormatMoney(amount decimal.Decimal) string {
	return s.money.format(amount)
}

// ── Export ────────────────────────────────────────────────────────────────────

func (s *appService) Export(ctx context.Context, req ExportRequest) (*ExportResult, error) {
	req, err := req.normalized()
	if err != nil {
		return nil, err
	}
	if req.Sink != "" && !s.hasSink(req.Sink) {
		return nil, core.NewValidationError(
			fmt.Sprintf("export sink %q is not configured", req.Sink),
			map[string]string{"sink": "must be one of " + strings.Join(s.sinkNames(), ", ")})
	}
	table, err := s.exportTable(ctx, req)
	if err != nil {
		return nil, err
	}
	encoded, err := table.Marshal()
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", req.Source, err)
	}

	ctx = s.log.WithFields(ctx, map[string]any{"op": "export", "source": req.Source, "destination": req.Destination})
	result := &ExportResult{Destination: req.Destination, Rows: table.Len(), Encoded: encoded, Sinks: []string{}}
	for _, sink := range s.sinks {
		if req.Sink != "" && sink.Name() != req.Sink {
			continue
		}
		if err := sink.Write(ctx, req.Destination, table); err != nil {
			s.log.Error(ctx, "export failed", err)
			return nil, fmt.Errorf("export to %s: %w", sink.Name(), err)
		}
		s.metrics.AddExportedRows(sink.Name(), table.Len())
		result.Sinks = append(result.Sinks, sink.Name())
	}

	s.log.Info(s.log.WithField(ctx, "rows", table.Len()), "export written")
	return result, nil
}

func (s *appService) exportTable(ctx context.Context, req ExportRequest) (export.Table, error) {
	switch req.Source {
	case SourceInventory:
		return export.ProductsTable(core.FilterInventory(s.store.Inventory(ctx), req.Filter)), nil
	case SourceTransactions:
		return export.TransactionsTable(s.store.Transactions(ctx)), nil
	case SourceDailyCounts:
		return export.DailyCountTable(core.TransactionCountsByDate(s.store.Transactions(ctx))), nil
	}
	kind, err := core.ParseReportKind(req.Source)
	if err != nil {
		return export.Table{}, core.NewValidationError(
			fmt.Sprintf("unknown export source %q", req.Source),
			map[string]string{"source": "must be inventory, transactions, transactions-per-day or a report kind"})
	}
	return export.ReportTable(kind, s.store.Snapshot(ctx)), nil
}

func (s *appService) hasSink(name string) bool {
	for _, sink := range s.sinks {
		if sink.Name() == name {
			return true
		}
	}
	return false
}

func (s *appService) sinkNames() []string {
	names := make([]string, 0, len(s.sinks))
	for _, sink := range s.sinks {
		names = append(names, sink.Name())
	}
	return names
}
