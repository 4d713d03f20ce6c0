package core

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Product is one row of the Inventory table.
type Product struct {
	ProductID    string          `json:"product_id" validate:"required" jsonschema:"required" jsonschema_description:"Unique product identifier, e.g. P004"`
	ProductName  string          `json:"product_name" validate:"required" jsonschema:"required" jsonschema_description:"Display name of the product"`
	Category     Category        `json:"category" validate:"category" jsonschema:"required,enum=Electronics,enum=Accessories,enum=Furniture,enum=Stationery,enum=Other"`
	Quantity     int             `json:"quantity" validate:"gte=0" jsonschema:"minimum=0" jsonschema_description:"Units on hand"`
	Price        decimal.Decimal `json:"price" validate:"gte=0" jsonschema:"type=string" jsonschema_description:"Unit price as a decimal string, e.g. 1200.00"`
	Supplier     string          `json:"supplier" jsonschema_description:"Supplier name"`
	Location     Location        `json:"location" validate:"location" jsonschema:"required,enum=Warehouse A,enum=Warehouse B,enum=Store Front"`
	ReorderLevel int             `json:"reorder_level" validate:"gte=0" jsonschema:"minimum=0" jsonschema_description:"Quantity at or below which the product is low-stock"`
	ExpiryDate   *time.Time      `json:"expiry_date,omitempty" jsonschema:"format=date-time" jsonschema_description:"Calendar date; the time of day is dropped"`
	Status       Status          `json:"status" validate:"status" jsonschema:"enum=Active,enum=Inactive" jsonschema_description:"Defaults to Active"`
}

// Normalize trims free-text fields and applies the form defaults.
func (p *Product) Normalize() {
	p.ProductID = strings.TrimSpace(p.ProductID)
	p.ProductName = strings.TrimSpace(p.ProductName)
	p.Supplier = strings.TrimSpace(p.Supplier)
	if p.Status == "" {
		p.Status = StatusActive
	}
	if p.ExpiryDate != nil {
		d := calendarDate(*p.ExpiryDate)
		p.ExpiryDate = &d
	}
}

// calendarDate keeps the year, month and day of t as written and drops the
// time of day. Expiry dates are stored as midnight UTC.
func calendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// clone returns a copy that shares no memory with p.
func (p Product) clone() Product {
	if p.ExpiryDate != nil {
		t := *p.ExpiryDate
		p.ExpiryDate = &t
	}
	return p
}

// StockValue is Quantity × Price.
func (p Product) StockValue() decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(int64(p.Quantity)))
}

// Transaction is one append-only row of the Transactions table.
// ProductID is a soft reference: the product may since have been deleted.
type Transaction struct {
	TransactionID string          `json:"transaction_id" jsonschema_description:"Generated, monotonically numbered, e.g. T003"`
	ProductID     string          `json:"product_id"`
	ProductName   string          `json:"product_name" jsonschema_description:"Product name at the time of the transaction"`
	Quantity      int             `json:"quantity" jsonschema_description:"Magnitude of the change"`
	Type          TransactionType `json:"transaction_type" jsonschema:"enum=Sale,enum=Purchase"`
	Date          time.Time       `json:"date"`
}

// Snapshot is a point-in-time copy of both ledger tables.
type Snapshot struct {
	Inventory    []Product
	Transactions []Transaction
}

// ProductUpdate carries the fields to overwrite on an existing product.
// Nil fields are left untouched. The Product ID itself cannot be changed.
type ProductUpdate struct {
	ProductName     *string          `json:"product_name,omitempty"`
	Category        *Category        `json:"category,omitempty"`
	Quantity        *int             `json:"quantity,omitempty"`
	Price           *decimal.Decimal `json:"price,omitempty"`
	Supplier        *string          `json:"supplier,omitempty"`
	Location        *Location        `json:"location,omitempty"`
	ReorderLevel    *int             `json:"reorder_level,omitempty"`
	ExpiryDate      *time.Time       `json:"expiry_date,omitempty"`
	ClearExpiryDate bool             `json:"clear_expiry_date,omitempty"`
	Status          *Status          `json:"status,omitempty"`
}

// IsEmpty reports whether the update changes nothing.
func (u ProductUpdate) IsEmpty() bool {
	return u.ProductName == nil && u.Category == nil && u.Quantity == nil && u.Price == nil &&
		u.Supplier == nil && u.Location == nil && u.ReorderLevel == nil && u.ExpiryDate == nil &&
		!u.ClearExpiryDate && u.Status == nil
}

func (u ProductUpdate) applyTo(p *Product) {
	if u.ProductName != nil {
		p.ProductName = strings.TrimSpace(*u.ProductName)
	}
	if u.Category != nil {
		p.Category = *u.Category
	}
	if u.Quantity != nil {
		p.Quantity = *u.Quantity
	}
	if u.Price != nil {
		p.Price = *u.Price
	}
	if u.Supplier != nil {
		p.Supplier = strings.TrimSpace(*u.Supplier)
	}
	if u.Location != nil {
		p.Location = *u.Location
	}
	if u.ReorderLevel != nil {
		p.ReorderLevel = *u.ReorderLevel
	}
	if u.ClearExpiryDate {
		p.ExpiryDate = nil
	}
	if u.ExpiryDate != nil {
		t := calendarDate(*u.ExpiryDate)
		p.ExpiryDate = &t
	}
	if u.Status != nil {
		p.Status = *u.Status
	}
}

// ParseProductUpdate builds a ProductUpdate from a field-name → raw-value mapping.
// Field names may be given as column titles ("Reorder Level") or in snake_case
// ("reorder_level"). An empty expiry value clears the expiry date.
func ParseProductUpdate(fields map[string]string) (ProductUpdate, error) {
	var u ProductUpdate
	details := map[string]string{}

	for rawKey, rawValue := range fields {
		key := strings.ToLower(strings.Join(strings.Fields(strings.ReplaceAll(rawKey, "_", " ")), " "))
		value := strings.TrimSpace(rawValue)

		switch key {
		case "product name", "name":
			v := value
			u.ProductName = &v
		case "category":
			c, err := ParseCategory(value)
			if err != nil {
				details["category"] = "must be one of the known categories"
				continue
			}
			u.Category = &c
		case "quantity", "qty":
			n, err := strconv.Atoi(value)
			if err != nil {
				details["quantity"] = "must be an integer"
				continue
			}
			u.Quantity = &n
		case "price":
			d, err := decimal.NewFromString(value)
			if err != nil {
				details["price"] = "must be a decimal number"
				continue
			}
			u.Price = &d
		case "supplier":
			v := value
			u.Supplier = &v
		case "location":
			l, err := ParseLocation(value)
			if err != nil {
				details["location"] = "must be one of the known locations"
				continue
			}
			u.Location = &l
		case "reorder level", "reorder":
			n, err := strconv.Atoi(value)
			if err != nil {
				details["reorder_level"] = "must be an integer"
				continue
			}
			u.ReorderLevel = &n
		case "expiry date", "expiry":
			if value == "" {
				u.ClearExpiryDate = true
				continue
			}
			t, err := time.Parse(DateLayout, value)
			if err != nil {
				details["expiry_date"] = "must be a date in YYYY-MM-DD format"
				continue
			}
			u.ExpiryDate = &t
		case "status":
			s, err := ParseStatus(value)
			if err != nil {
				details["status"] = "must be Active or Inactive"
				continue
			}
			u.Status = &s
		case "product id", "id":
			details["product_id"] = "cannot be changed"
		default:
			details[rawKey] = "is not a product field"
		}
	}

	if len(details) > 0 {
		return ProductUpdate{}, newError(CodeValidation, "invalid product update").withDetails(details)
	}
	return u, nil
}

// DateLayout is the calendar-date format used for expiry dates.
const DateLayout = "2006-01-02"

func formatTransactionID(seq int64, width int) string {
	return fmt.Sprintf("T%0*d", width, seq)
}
