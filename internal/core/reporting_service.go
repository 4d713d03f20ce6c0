package core

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ── Report types ──────────────────────────────────────────────────────────────

// DashboardMetrics are the four headline figures of the dashboard.
type DashboardMetrics struct {
	TotalProducts int
	TotalQuantity int
	LowStockCount int
	TotalValue    decimal.Decimal // Σ Quantity × Price
}

// CategoryQuantity is one slice of the category distribution.
type CategoryQuantity struct {
	Category Category `json:"category"`
	Quantity int      `json:"quantity"`
}

// CategorySummary is one row of the Inventory Summary report.
type CategorySummary struct {
	Category  Category
	Quantity  int
	MeanPrice decimal.Decimal // rounded to 2 places
}

// GroupAnalysis is one row of the Category or Supplier Analysis report.
type GroupAnalysis struct {
	Key          string
	Quantity     int
	MeanPrice    decimal.Decimal
	ProductCount int // distinct Product IDs in the group
}

// DailyCount is one point of the transactions-over-time series.
type DailyCount struct {
	Date  time.Time `json:"date"` // midnight UTC of the day
	Count int       `json:"count"`
}

// InventoryFilter restricts a filtered view. Empty sets and an empty search
// term impose no restriction.
type InventoryFilter struct {
	Categories []Category `json:"categories,omitempty"`
	Locations  []Location `json:"locations,omitempty"`
	Statuses   []Status   `json:"statuses,omitempty"`
	// Search is matched case-insensitively as a substring of Product Name.
	// It is used verbatim, surrounding spaces included.
	Search string `json:"search,omitempty"`
}

// DefaultTopN is the size of the top-products chart.
const DefaultTopN = 10

// Every function below is a pure read of the rows it is given. None of them
// keeps or mutates the input slices.

// IsLowStock reports whether on-hand quantity has fallen to or below the reorder level.
func IsLowStock(p Product) bool {
	return p.Quantity <= p.ReorderLevel
}

// ComputeDashboard returns the headline metrics for inventory.
func ComputeDashboard(inventory []Product) DashboardMetrics {
	m := DashboardMetrics{TotalProducts: len(inventory), TotalValue: decimal.Zero}
	for _, p := range inventory {
		m.TotalQuantity += p.Quantity
		m.TotalValue = m.TotalValue.Add(p.StockValue())
		if IsLowStock(p) {
			m.LowStockCount++
		}
	}
	return m
}

// LowStockReport returns the low-stock rows in their original order.
func LowStockReport(inventory []Product) []Product {
	out := []Product{}
	for _, p := range inventory {
		if IsLowStock(p) {
			out = append(out, p.clone())
		}
	}
	return out
}

// CategoryDistribution sums Quantity per Category, ordered by category name.
func CategoryDistribution(inventory []Product) []CategoryQuantity {
	totals := map[Category]int{}
	for _, p := range inventory {
		totals[p.Category] += p.Quantity
	}
	out := make([]CategoryQuantity, 0, len(totals))
	for c, q := range totals {
		out = append(out, CategoryQuantity{Category: c, Quantity: q})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out
}

// TopByQuantity returns the n rows with the largest Quantity, descending.
// Ties keep their original row order.
func TopByQuantity(inventory []Product, n int) []Product {
	if n <= 0 {
		return []Product{}
	}
	sorted := make([]Product, len(inventory))
	for i, p := range inventory {
		sorted[i] = p.clone()
	}
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Quantity > sorted[j].Quantity })
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// FilterInventory returns the rows that satisfy every supplied filter.
func FilterInventory(inventory []Product, f InventoryFilter) []Product {
	search := strings.ToLower(f.Search)
	out := []Product{}
	for _, p := range inventory {
		if len(f.Categories) > 0 && !containsValue(f.Categories, p.Category) {
			continue
		}
		if len(f.Locations) > 0 && !containsValue(f.Locations, p.Location) {
			continue
		}
		if len(f.Statuses) > 0 && !containsValue(f.Statuses, p.Status) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.ProductName), search) {
			continue
		}
		out = append(out, p.clone())
	}
	return out
}

// InventorySummary groups by Category: summed Quantity and mean Price rounded to 2 places.
func InventorySummary(inventory []Product) []CategorySummary {
	groups := groupBy(inventory, func(p Product) string { return string(p.Category) })
	out := make([]CategorySummary, 0, len(groups))
	for _, g := range groups {
		out = append(out, CategorySummary{
			Category:  Category(g.key),
			Quantity:  g.quantity,
			MeanPrice: g.meanPrice().Round(2),
		})
	}
	return out
}

// CategoryAnalysis groups by Category with quantity, mean price and product count.
func CategoryAnalysis(inventory []Product) []GroupAnalysis {
	return analyze(groupBy(inventory, func(p Product) string { return string(p.Category) }))
}

// SupplierAnalysis groups by Supplier with quantity, mean price and product count.
func SupplierAnalysis(inventory []Product) []GroupAnalysis {
	return analyze(groupBy(inventory, func(p Product) string { return p.Supplier }))
}

// TransactionHistory returns transactions newest first. Equal dates keep
// their creation order.
func TransactionHistory(transactions []Transaction) []Transaction {
	out := append([]Transaction{}, transactions...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out
}

// TransactionCountsByDate counts transactions per UTC calendar day, oldest first.
func TransactionCountsByDate(transactions []Transaction) []DailyCount {
	counts := map[time.Time]int{}
	for _, tx := range transactions {
		y, m, d := tx.Date.UTC().Date()
		counts[time.Date(y, m, d, 0, 0, 0, 0, time.UTC)]++
	}
	out := make([]DailyCount, 0, len(counts))
	for day, n := range counts {
		out = append(out, DailyCount{Date: day, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// ── grouping ──────────────────────────────────────────────────────────────────

type group struct {
	key        string
	quantity   int
	priceSum   decimal.Decimal
	rows       int
	productIDs map[string]struct{}
}

func (g *group) meanPrice() decimal.Decimal {
	if g.rows == 0 {
		return decimal.Zero
	}
	return g.priceSum.Div(decimal.NewFromInt(int64(g.rows)))
}

// groupBy buckets rows by key and returns the groups ordered by key.
func groupBy(inventory []Product, key func(Product) string) []*group {
	byKey := map[string]*group{}
	for _, p := range inventory {
		k := key(p)
		g, ok := byKey[k]
		if !ok {
			g = &group{key: k, priceSum: decimal.Zero, productIDs: map[string]struct{}{}}
			byKey[k] = g
		}
		g.quantity += p.Quantity
		g.priceSum = g.priceSum.Add(p.Price)
		g.rows++
		g.productIDs[p.ProductID] = struct{}{}
	}
	out := make([]*group, 0, len(byKey))
	for _, g := range byKey {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].key < out[j].key })
	return out
}

func analyze(groups []*group) []GroupAnalysis {
	out := make([]GroupAnalysis, 0, len(groups))
	for _, g := range groups {
		out = append(out, GroupAnalysis{
			Key:          g.key,
			Quantity:     g.quantity,
			MeanPrice:    g.meanPrice(),
			ProductCount: len(g.productIDs),
		})
	}
	return out
}

func containsValue[T comparable](set []T, v T) bool {
	for _, candidate := range set {
		if candidate == v {
			return true
		}
	}
	return false
}
