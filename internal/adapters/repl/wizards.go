package repl

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"inventory-ledger/internal/core"

	"github.com/shopspring/decimal"
)

// addWizard collects a new product field by field. Typing 'cancel' at any
// prompt aborts without touching the ledger.
func (s *session) addWizard() error {
	fmt.Fprintln(s.out, "Adding a new product. Type 'cancel' at any prompt to abort.")

	var p core.Product
	steps := []struct {
		prompt string
		apply  func(string) error
	}{
		{"Product ID", func(v string) error {
			if v == "" {
				return fmt.Errorf("required")
			}
			p.ProductID = v
			return nil
		}},
		{"Product Name", func(v string) error {
			if v == "" {
				return fmt.Errorf("required")
			}
			p.ProductName = v
			return nil
		}},
		{"Category " + choices(core.Categories()), func(v string) (err error) {
			p.Category, err = core.ParseCategory(v)
			return err
		}},
		{"Quantity [0]", func(v string) (err error) {
			p.Quantity, err = intOrDefault(v, 0)
			return err
		}},
		{"Price [0.00]", func(v string) error {
			if v == "" {
				p.Price = decimal.Zero
				return nil
			}
			d, err := decimal.NewFromString(v)
			if err != nil || d.IsNegative() {
				return fmt.Errorf("must be a non-negative decimal")
			}
			p.Price = d
			return nil
		}},
		{"Supplier", func(v string) error {
			p.Supplier = v
			return nil
		}},
		{"Location " + choices(core.Locations()), func(v string) (err error) {
			p.Location, err = core.ParseLocation(v)
			return err
		}},
		{"Reorder Level [10]", func(v string) (err error) {
			p.ReorderLevel, err = intOrDefault(v, 10)
			return err
		}},
		{"Expiry Date (YYYY-MM-DD, blank for none)", func(v string) error {
			if v == "" {
				return nil
			}
			t, err := time.Parse(core.DateLayout, v)
			if err != nil {
				return fmt.Errorf("use YYYY-MM-DD")
			}
			p.ExpiryDate = &t
			return nil
		}},
		{"Status [Active]", func(v string) error {
			if v == "" {
				p.Status = core.StatusActive
				return nil
			}
			st, err := core.ParseStatus(v)
			p.Status = st
			return err
		}},
	}

	for _, step := range steps {
		for {
			fmt.Fprintf(s.out, "  %s: ", step.prompt)
			raw, readErr := s.reader.ReadString('\n')
			raw = strings.TrimSpace(raw)
			if strings.EqualFold(raw, "cancel") {
				fmt.Fprintln(s.out, "Product creation cancelled.")
				return nil
			}
			if err := step.apply(raw); err != nil {
				if readErr != nil {
					return fmt.Errorf("input ended before the product was complete")
				}
				fmt.Fprintf(s.out, "  Invalid value: %v\n", err)
				continue
			}
			break
		}
	}

	result, err := s.svc.AddProduct(s.ctx, p)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "%s (%s)\n", result.Message, result.ProductID)
	return nil
}

func intOrDefault(v string, def int) (int, error) {
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("must be a whole number ≥ 0")
	}
	return n, nil
}

func choices[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return "(" + strings.Join(parts, " / ") + ")"
}
