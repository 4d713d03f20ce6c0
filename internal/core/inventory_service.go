package core

import (
	"context"
	"sync"
	"time"

	"inventory-ledger/internal/logger"

	"github.com/shopspring/decimal"
)

// LedgerStore owns the Inventory and Transactions tables. It is the only
// component allowed to mutate them; readers receive copies.
type LedgerStore interface {
	// AddProduct appends p to Inventory and logs a Purchase of its initial
	// quantity in the same step. Fails with ErrDuplicateKey or ErrValidation
	// and leaves both tables untouched.
	AddProduct(ctx context.Context, p Product) (string, error)
	// UpdateProduct overwrites the given fields of an existing product.
	// It never logs a transaction, even when Quantity changes.
	UpdateProduct(ctx context.Context, productID string, update ProductUpdate) (string, error)
	// DeleteProduct removes every row with productID. Deleting a missing
	// product succeeds. Transactions are never touched.
	DeleteProduct(ctx context.Context, productID string) (string, error)
	// LogTransaction appends a transaction with the next generated ID.
	LogTransaction(ctx context.Context, productID, productName string, quantity int, txType TransactionType) Transaction

	// RecordSale decreases stock by qty and logs a Sale.
	RecordSale(ctx context.Context, productID string, qty int) (Transaction, error)
	// RecordPurchase increases stock by qty and logs a Purchase.
	RecordPurchase(ctx context.Context, productID string, qty int) (Transaction, error)

	GetProduct(ctx context.Context, productID string) (Product, error)
	Inventory(ctx context.Context) []Product
	Transactions(ctx context.Context) []Transaction
	// TransactionsFor returns the history of productID, including for deleted products.
	TransactionsFor(ctx context.Context, productID string) []Transaction
	Snapshot(ctx context.Context) Snapshot
}

// StoreOptions configures a LedgerStore.
type StoreOptions struct {
	// Seed pre-loads the demonstration products and transactions.
	Seed bool
	// Clock stamps transaction dates. Defaults to time.Now.
	Clock func() time.Time
	// TxIDWidth is the zero-padded width of the transaction sequence (T001). Defaults to 3.
	// Sequences past the width grow longer (T999, T1000), so IDs only sort
	// correctly by their numeric suffix. Ordering in this package uses Date.
	TxIDWidth int
	Logger    *logger.Logger
}

const defaultTxIDWidth = 3

type ledgerStore struct {
	mu           sync.RWMutex
	inventory    []Product
	transactions []Transaction
	// txSeq is the last issued transaction sequence number.
	txSeq int64

	clock   func() time.Time
	idWidth int
	log     *logger.Logger
}

func NewLedgerStore(opts StoreOptions) LedgerStore {
	s := &ledgerStore{
		clock:   opts.Clock,
		idWidth: opts.TxIDWidth,
		log:     opts.Logger,
	}
	if s.clock == nil {
		s.clock = time.Now
	}
	if s.idWidth <= 0 {
		s.idWidth = defaultTxIDWidth
	}
	if s.log == nil {
		s.log = logger.Nop()
	}
	if opts.Seed {
		s.seed()
	}
	return s
}

// seed loads the demonstration data set. The counter continues after the
// seeded transactions so the next ID is T003.
func (s *ledgerStore) seed() {
	now := s.clock()
	s.inventory = []Product{
		{ProductID: "P001", ProductName: "Laptop", Category: CategoryElectronics, Quantity: 50, Price: decimal.NewFromInt(80000),
			Supplier: "TechCorp", Location: LocationWarehouseA, ReorderLevel: 10, Status: StatusActive},
		{ProductID: "P002", ProductName: "Mouse", Category: CategoryAccessories, Quantity: 200, Price: decimal.NewFromInt(500),
			Supplier: "PeriTech", Location: LocationWarehouseB, ReorderLevel: 50, Status: StatusActive},
		{ProductID: "P003", ProductName: "Keyboard", Category: CategoryAccessories, Quantity: 150, Price: decimal.NewFromInt(1200),
			Supplier: "KeyMaster", Location: LocationWarehouseA, ReorderLevel: 30, Status: StatusActive},
	}
	s.transactions = []Transaction{
		{TransactionID: formatTransactionID(1, s.idWidth), ProductID: "P001", ProductName: "Laptop", Quantity: 5,
			Type: TransactionSale, Date: now.Add(-24 * time.Hour)},
		{TransactionID: formatTransactionID(2, s.idWidth), ProductID: "P002", ProductName: "Mouse", Quantity: 10,
			Type: TransactionPurchase, Date: now},
	}
	s.txSeq = 2
}

func (s *ledgerStore) AddProduct(ctx context.Context, p Product) (string, error) {
	p.Normalize()
	ctx = s.log.WithProductID(s.log.WithField(ctx, "op", "add_product"), p.ProductID)

	if err := p.Validate(); err != nil {
		return "", s.reject(ctx, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(p.ProductID) >= 0 {
		return "", s.reject(ctx, newErrorf(CodeDuplicateKey, "product ID %s already exists", p.ProductID))
	}

	// Nothing below can fail, so the row and its purchase land together.
	s.inventory = append(s.inventory, p.clone())
	tx := s.appendTransactionLocked(p.ProductID, p.ProductName, p.Quantity, TransactionPurchase)

	s.log.Debug(s.log.WithField(ctx, "transaction_id", tx.TransactionID), "product added")
	return "Product added successfully", nil
}

func (s *ledgerStore) UpdateProduct(ctx context.Context, productID string, update ProductUpdate) (string, error) {
	ctx = s.log.WithProductID(s.log.WithField(ctx, "op", "update_product"), productID)

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(productID)
	if idx < 0 {
		return "", s.reject(ctx, newErrorf(CodeNotFound, "product %s not found", productID))
	}

	// Apply to a copy first so an invalid update leaves the row as it was.
	candidate := s.inventory[idx].clone()
	update.applyTo(&candidate)
	if err := candidate.Validate(); err != nil {
		return "", s.reject(ctx, err)
	}
	s.inventory[idx] = candidate

	s.log.Debug(ctx, "product updated")
	return "Product updated successfully", nil
}

func (s *ledgerStore) DeleteProduct(ctx context.Context, productID string) (string, error) {
	ctx = s.log.WithProductID(s.log.WithField(ctx, "op", "delete_product"), productID)

	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.inventory[:0]
	removed := 0
	for _, p := range s.inventory {
		if p.ProductID == productID {
			removed++
			continue
		}
		kept = append(kept, p)
	}
	// Clear the tail so removed rows are not retained by the backing array.
	for i := len(kept); i < len(s.inventory); i++ {
		s.inventory[i] = Product{}
	}
	s.inventory = kept

	s.log.Debug(s.log.WithField(ctx, "removed", removed), "product deleted")
	return "Product deleted successfully", nil
}

func (s *ledgerStore) LogTransaction(ctx context.Context, productID, productName string, quantity int, txType TransactionType) Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := s.appendTransactionLocked(productID, productName, quantity, txType)
	s.log.Debug(s.log.WithFields(ctx, map[string]any{
		"op":             "log_transaction",
		"product_id":     productID,
		"transaction_id": tx.TransactionID,
	}), "transaction logged")
	return tx
}

func (s *ledgerStore) RecordSale(ctx context.Context, productID string, qty int) (Transaction, error) {
	return s.move(ctx, productID, qty, TransactionSale)
}

func (s *ledgerStore) RecordPurchase(ctx context.Context, productID string, qty int) (Transaction, error) {
	return s.move(ctx, productID, qty, TransactionPurchase)
}

// move changes on-hand stock and logs the matching transaction under one lock.
func (s *ledgerStore) move(ctx context.Context, productID string, qty int, txType TransactionType) (Transaction, error) {
	ctx = s.log.WithProductID(s.log.WithField(ctx, "op", "record_"+string(txType)), productID)

	if qty <= 0 {
		return Transaction{}, s.reject(ctx, newError(CodeValidation, "invalid stock movement").
			withDetails(map[string]string{"quantity": "must be greater than 0"}))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(productID)
	if idx < 0 {
		return Transaction{}, s.reject(ctx, newErrorf(CodeNotFound, "product %s not found", productID))
	}

	p := &s.inventory[idx]
	switch txType {
	case TransactionSale:
		if p.Quantity < qty {
			return Transaction{}, s.reject(ctx, newErrorf(CodeInsufficientStock,
				"insufficient stock for product %s: on hand %d, requested %d", productID, p.Quantity, qty))
		}
		p.Quantity -= qty
	case TransactionPurchase:
		p.Quantity += qty
	}

	tx := s.appendTransactionLocked(p.ProductID, p.ProductName, qty, txType)
	s.log.Debug(s.log.WithField(ctx, "transaction_id", tx.TransactionID), "stock moved")
	return tx, nil
}

func (s *ledgerStore) GetProduct(ctx context.Context, productID string) (Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexOf(productID)
	if idx < 0 {
		return Product{}, newErrorf(CodeNotFound, "product %s not found", productID)
	}
	return s.inventory[idx].clone(), nil
}

func (s *ledgerStore) Inventory(ctx context.Context) []Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.copyInventoryLocked()
}

func (s *ledgerStore) Transactions(ctx context.Context) []Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Transaction{}, s.transactions...)
}

func (s *ledgerStore) TransactionsFor(ctx context.Context, productID string) []Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []Transaction{}
	for _, tx := range s.transactions {
		if tx.ProductID == productID {
			out = append(out, tx)
		}
	}
	return out
}

func (s *ledgerStore) Snapshot(ctx context.Context) Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Inventory:    s.copyInventoryLocked(),
		Transactions: append([]Transaction{}, s.transactions...),
	}
}

// ── helpers (callers hold s.mu) ───────────────────────────────────────────────

func (s *ledgerStore) indexOf(productID string) int {
	for i := range s.inventory {
		if s.inventory[i].ProductID == productID {
			return i
		}
	}
	return -1
}

func (s *ledgerStore) appendTransactionLocked(productID, productName string, quantity int, txType TransactionType) Transaction {
	s.txSeq++
	tx := Transaction{
		TransactionID: formatTransactionID(s.txSeq, s.idWidth),
		ProductID:     productID,
		ProductName:   productName,
		Quantity:      quantity,
		Type:          txType,
		Date:          s.clock(),
	}
	s.transactions = append(s.transactions, tx)
	return tx
}

func (s *ledgerStore) copyInventoryLocked() []Product {
	out := make([]Product, len(s.inventory))
	for i, p := range s.inventory {
		out[i] = p.clone()
	}
	return out
}

func (s *ledgerStore) reject(ctx context.Context, err error) error {
	s.log.Warn(s.log.WithField(ctx, "error_code", string(CodeOf(err))), err.Error())
	return err
}
