package core

import (
	"fmt"
	"strings"
)

// Category is the fixed set of product categories offered by the product forms.
type Category string

const (
	CategoryElectronics Category = "Electronics"
	CategoryAccessories Category = "Accessories"
	CategoryFurniture   Category = "Furniture"
	CategoryStationery  Category = "Stationery"
	CategoryOther       Category = "Other"
)

var validCategories = []Category{
	CategoryElectronics,
	CategoryAccessories,
	CategoryFurniture,
	CategoryStationery,
	CategoryOther,
}

// Categories returns the known categories in display order.
func Categories() []Category {
	return append([]Category(nil), validCategories...)
}

func (c Category) String() string { return string(c) }

// IsValid reports whether the value is a known Category.
func (c Category) IsValid() bool {
	for _, candidate := range validCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCategory converts raw input into a Category, ignoring case.
func ParseCategory(value string) (Category, error) {
	norm := normalizeEnumInput(value)
	for _, candidate := range validCategories {
		if strings.EqualFold(string(candidate), norm) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid category %q", value)
}

// Location is the fixed set of storage locations.
type Location string

const (
	LocationWarehouseA Location = "Warehouse A"
	LocationWarehouseB Location = "Warehouse B"
	LocationStoreFront Location = "Store Front"
)

var validLocations = []Location{
	LocationWarehouseA,
	LocationWarehouseB,
	LocationStoreFront,
}

// Locations returns the known locations in display order.
func Locations() []Location {
	return append([]Location(nil), validLocations...)
}

func (l Location) String() string { return string(l) }

// IsValid reports whether the value is a known Location.
func (l Location) IsValid() bool {
	for _, candidate := range validLocations {
		if candidate == l {
			return true
		}
	}
	return false
}

// ParseLocation converts raw input into a Location. Underscores and hyphens
// are read as spaces so "warehouse_a" resolves to "Warehouse A".
func ParseLocation(value string) (Location, error) {
	norm := normalizeEnumInput(value)
	for _, candidate := range validLocations {
		if strings.EqualFold(string(candidate), norm) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid location %q", value)
}

// Status marks whether a product is still carried.
type Status string

const (
	StatusActive   Status = "Active"
	StatusInactive Status = "Inactive"
)

var validStatuses = []Status{StatusActive, StatusInactive}

// Statuses returns the known statuses.
func Statuses() []Status {
	return append([]Status(nil), validStatuses...)
}

func (s Status) String() string { return string(s) }

// IsValid reports whether the value is a known Status.
func (s Status) IsValid() bool {
	for _, candidate := range validStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseStatus converts raw input into a Status, ignoring case.
func ParseStatus(value string) (Status, error) {
	norm := normalizeEnumInput(value)
	for _, candidate := range validStatuses {
		if strings.EqualFold(string(candidate), norm) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid status %q", value)
}

// TransactionType is the direction of a stock movement.
type TransactionType string

const (
	TransactionSale     TransactionType = "Sale"
	TransactionPurchase TransactionType = "Purchase"
)

var validTransactionTypes = []TransactionType{TransactionSale, TransactionPurchase}

func (t TransactionType) String() string { return string(t) }

// IsValid reports whether the value is a known TransactionType.
func (t TransactionType) IsValid() bool {
	for _, candidate := range validTransactionTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseTransactionType converts raw input into a TransactionType, ignoring case.
func ParseTransactionType(value string) (TransactionType, error) {
	norm := normalizeEnumInput(value)
	for _, candidate := range validTransactionTypes {
		if strings.EqualFold(string(candidate), norm) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid transaction type %q", value)
}

// ReportKind names one of the reports an operator can request.
type ReportKind string

const (
	ReportInventorySummary   ReportKind = "inventory-summary"
	ReportTransactionHistory ReportKind = "transaction-history"
	ReportLowStock           ReportKind = "low-stock"
	ReportCategoryAnalysis   ReportKind = "category-analysis"
	ReportSupplierAnalysis   ReportKind = "supplier-analysis"
)

var validReportKinds = []ReportKind{
	ReportInventorySummary,
	ReportTransactionHistory,
	ReportLowStock,
	ReportCategoryAnalysis,
	ReportSupplierAnalysis,
}

// ReportKinds returns every report in menu order.
func ReportKinds() []ReportKind {
	return append([]ReportKind(nil), validReportKinds...)
}

func (k ReportKind) String() string { return string(k) }

var reportTitles = map[ReportKind]string{
	ReportInventorySummary:   "Inventory Summary",
	ReportTransactionHistory: "Transaction History",
	ReportLowStock:           "Low Stock Report",
	ReportCategoryAnalysis:   "Category Analysis",
	ReportSupplierAnalysis:   "Supplier Analysis",
}

// Title is the menu label of the report.
func (k ReportKind) Title() string {
	if t, ok := reportTitles[k]; ok {
		return t
	}
	return string(k)
}

// ParseReportKind accepts the slug ("low-stock") or the menu title ("Low Stock Report").
func ParseReportKind(value string) (ReportKind, error) {
	norm := strings.ToLower(strings.TrimSpace(value))
	norm = strings.TrimSuffix(norm, " report")
	norm = strings.NewReplacer(" ", "-", "_", "-").Replace(norm)
	for _, candidate := range validReportKinds {
		if string(candidate) == norm {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid report kind %q", value)
}

func normalizeEnumInput(value string) string {
	v := strings.TrimSpace(value)
	v = strings.NewReplacer("_", " ", "-", " ").Replace(v)
	return strings.Join(strings.Fields(v), " ")
}
