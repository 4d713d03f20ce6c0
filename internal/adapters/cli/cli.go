package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"inventory-ledger/internal/app"
	"inventory-ledger/internal/core"
	"inventory-ledger/internal/export"
	"inventory-ledger/internal/schema"
)

const usage = `Available: dashboard, inventory [key=value ...], report <kind> [csv|json],
           export <source> [destination], schema <product|product-update|transaction>, validate`

// Run executes a one-shot CLI command. args is os.Args[1:]; the first
// element is the subcommand name. Product JSON for validate is read from stdin.
func Run(ctx context.Context, svc app.ApplicationService, args []string, stdin io.Reader, stdout io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("missing command\n%s", usage)
	}

	switch strings.ToLower(args[0]) {
	case "dashboard", "dash":
		result, err := svc.GetDashboard(ctx)
		if err != nil {
			return fmt.Errorf("dashboard: %w", err)
		}
		return writeJSON(stdout, map[string]any{
			"total_products":      result.Metrics.TotalProducts,
			"total_quantity":      result.Metrics.TotalQuantity,
			"low_stock_count":     result.Metrics.LowStockCount,
			"total_value":         result.Metrics.TotalValue.StringFixed(2),
			"total_value_display": result.TotalValueDisplay,
			"low_stock":           result.LowStock,
		})

	case "inventory", "inv":
		filter, err := parseFilter(args[1:])
		if err != nil {
			return err
		}
		result, err := svc.ListInventory(ctx, filter)
		if err != nil {
			return fmt.Errorf("inventory: %w", err)
		}
		return export.ProductsTable(result.Products).Encode(stdout)

	case "report", "rep":
		if len(args) < 2 {
			return fmt.Errorf("usage: report <kind> [csv|json]")
		}
		kind, err := core.ParseReportKind(args[1])
		if err != nil {
			return err
		}
		result, err := svc.GetReport(ctx, kind)
		if err != nil {
			return fmt.Errorf("report: %w", err)
		}
		format := "csv"
		if len(args) > 2 {
			format = strings.ToLower(args[2])
		}
		switch format {
		case "csv":
			return result.Table.Encode(stdout)
		case "json":
			return writeJSON(stdout, tableObjects(result.Table))
		default:
			return fmt.Errorf("unknown format %q (csv or json)", format)
		}

	case "export":
		if len(args) < 2 {
			return fmt.Errorf("usage: export <inventory|transactions|transactions-per-day|report-kind> [destination]")
		}
		req := app.ExportRequest{Source: args[1]}
		if len(args) > 2 {
			req.Destination = args[2]
		}
		result, err := svc.Export(ctx, req)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Exported %d rows to %s (%s).\n", result.Rows, result.Destination, strings.Join(result.Sinks, ", "))
		return nil

	case "schema":
		if len(args) < 2 {
			return fmt.Errorf("usage: schema <%s>", strings.Join(schema.Names(), "|"))
		}
		doc, err := schema.Document(args[1])
		if err != nil {
			return err
		}
		return writeJSON(stdout, doc)

	case "validate", "val":
		var p core.Product
		if err := json.NewDecoder(stdin).Decode(&p); err != nil {
			return fmt.Errorf("invalid JSON: %w", err)
		}
		p.Normalize()
		if err := p.Validate(); err != nil {
			return err
		}
		fmt.Fprintln(stdout, "Product is valid.")
		return nil

	default:
		return fmt.Errorf("unknown command: %s\n%s", args[0], usage)
	}
}

// parseFilter reads key=value filter arguments. Unlike the REPL, no status
// default applies: a one-shot command lists exactly what it is asked for.
func parseFilter(args []string) (core.InventoryFilter, error) {
	var f core.InventoryFilter
	for _, a := range args {
		key, value, ok := strings.Cut(a, "=")
		if !ok {
			return f, fmt.Errorf("expected key=value, got %q", a)
		}
		if strings.EqualFold(key, "search") {
			f.Search = value
			continue
		}
		for _, v := range strings.Split(value, ",") {
			v = strings.TrimSpace(v)
			if v == "" {
				continue
			}
			switch strings.ToLower(key) {
			case "category":
				c, err := core.ParseCategory(v)
				if err != nil {
					return f, err
				}
				f.Categories = append(f.Categories, c)
			case "location":
				l, err := core.ParseLocation(v)
				if err != nil {
					return f, err
				}
				f.Locations = append(f.Locations, l)
			case "status":
				s, err := core.ParseStatus(v)
				if err != nil {
					return f, err
				}
				f.Statuses = append(f.Statuses, s)
			default:
				return f, fmt.Errorf("unknown filter %q", key)
			}
		}
	}
	return f, nil
}

// tableObjects turns a table into one JSON object per row keyed by header.
func tableObjects(t export.Table) []map[string]string {
	out := make([]map[string]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		obj := make(map[string]string, len(t.Header))
		for i, h := range t.Header {
			obj[h] = row[i]
		}
		out = append(out, obj)
	}
	return out
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
