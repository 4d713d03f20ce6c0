package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"inventory-ledger/internal/app"
	"inventory-ledger/internal/core"
)

var errExit = errors.New("exit")

// Run starts the interactive REPL loop. It reads slash commands from reader
// and writes all output to out until /exit or end of input.
func Run(ctx context.Context, svc app.ApplicationService, reader *bufio.Reader, out io.Writer) {
	s := &session{ctx: ctx, svc: svc, reader: reader, out: out}

	fmt.Fprintln(out, "Inventory Ledger")
	fmt.Fprintln(out, "Type /help for commands.")
	fmt.Fprintln(out, strings.Repeat("-", 70))

	for {
		fmt.Fprint(out, "\n> ")
		input, readErr := reader.ReadString('\n')
		input = strings.TrimSpace(input)
		if input == "" {
			if readErr != nil {
				return
			}
			continue
		}

		if !strings.HasPrefix(input, "/") {
			fmt.Fprintln(out, "Commands start with '/'. Type /help for the list.")
			continue
		}
		if err := s.dispatch(input); err != nil {
			if errors.Is(err, errExit) {
				fmt.Fprintln(out, "Goodbye!")
				return
			}
			fmt.Fprintf(out, "Error: %v\n", err)
		}
		if readErr != nil {
			return
		}
	}
}

type session struct {
	ctx    context.Context
	svc    app.ApplicationService
	reader *bufio.Reader
	out    io.Writer
}

func (s *session) dispatch(input string) error {
	tokens, err := tokenize(strings.TrimPrefix(input, "/"))
	if err != nil {
		return err
	}
	if len(tokens) == 0 {
		return nil
	}
	cmd := strings.ToLower(tokens[0])
	args := tokens[1:]

	switch cmd {
	case "dashboard", "dash":
		result, err := s.svc.GetDashboard(s.ctx)
		if err != nil {
			return err
		}
		printDashboard(s.out, result)

	case "inventory", "inv":
		filter, err := parseFilter(args)
		if err != nil {
			return err
		}
		result, err := s.svc.ListInventory(s.ctx, filter)
		if err != nil {
			return err
		}
		printProducts(s.out, "INVENTORY", result.Products, s.svc)

	case "product", "show":
		if len(args) < 1 {
			fmt.Fprintln(s.out, "Usage: /product <product-id>")
			return nil
		}
		result, err := s.svc.GetProduct(s.ctx, args[0])
		if err != nil {
			return err
		}
		printProductDetail(s.out, result, s.svc)

	case "add":
		return s.addWizard()

	case "update":
		if len(args) < 2 {
			fmt.Fprintln(s.out, `Usage: /update <product-id> field=value [field=value ...]`)
			fmt.Fprintln(s.out, `  Example: /update P001 quantity=5 "product name=Laptop Pro"`)
			return nil
		}
		fields, err := parseAssignments(args[1:])
		if err != nil {
			return err
		}
		update, err := core.ParseProductUpdate(fields)
		if err != nil {
			return err
		}
		result, err := s.svc.UpdateProduct(s.ctx, args[0], update)
		if err != nil {
			return err
		}
		fmt.Fprintln(s.out, result.Message)

	case "delete", "rm":
		if len(args) < 1 {
			fmt.Fprintln(s.out, "Usage: /delete <product-id>")
			return nil
		}
		result, err := s.svc.DeleteProduct(s.ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(s.out, result.Message)

	case "sale", "sell", "purchase", "buy":
		if len(args) < 2 {
			fmt.Fprintf(s.out, "Usage: /%s <product-id> <qty>\n", cmd)
			return nil
		}
		qty, err := strconv.Atoi(args[1])
		if err != nil || qty <= 0 {
			fmt.Fprintf(s.out, "Invalid quantity: %s\n", args[1])
			return nil
		}
		req := app.StockMovementRequest{ProductID: args[0], Quantity: qty}
		var result *app.TransactionResult
		if cmd == "sale" || cmd == "sell" {
			result, err = s.svc.RecordSale(s.ctx, req)
		} else {
			result, err = s.svc.RecordPurchase(s.ctx, req)
		}
		if err != nil {
			return err
		}
		printMovement(s.out, result)

	case "transactions", "tx":
		productID := ""
		if len(args) > 0 {
			productID = args[0]
		}
		result, err := s.svc.ListTransactions(s.ctx, productID)
		if err != nil {
			return err
		}
		printTransactions(s.out, result.Transactions)

	case "reports":
		fmt.Fprintln(s.out, "Available reports:")
		for _, k := range core.ReportKinds() {
			fmt.Fprintf(s.out, "  %-22s %s\n", k, k.Title())
		}

	case "report":
		if len(args) < 1 {
			fmt.Fprintln(s.out, "Usage: /report <kind>   (see /reports)")
			return nil
		}
		kind, err := core.ParseReportKind(strings.Join(args, " "))
		if err != nil {
			return err
		}
		result, err := s.svc.GetReport(s.ctx, kind)
		if err != nil {
			return err
		}
		printReport(s.out, result)

	case "export":
		if len(args) < 1 {
			fmt.Fprintln(s.out, "Usage: /export <inventory|transactions|transactions-per-day|report-kind> [destination] [filter ...]")
			return nil
		}
		req := app.ExportRequest{Source: args[0]}
		rest := args[1:]
		if len(rest) > 0 && !strings.Contains(rest[0], "=") {
			req.Destination = rest[0]
			rest = rest[1:]
		}
		if req.Filter, err = parseFilter(rest); err != nil {
			return err
		}
		result, err := s.svc.Export(s.ctx, req)
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "Exported %d rows to %s via %s.\n", result.Rows, result.Destination, sinkList(result.Sinks))

	case "help", "h":
		printHelp(s.out)

	case "exit", "quit", "e", "q":
		return errExit

	default:
		fmt.Fprintf(s.out, "Unknown command: /%s  (type /help for all commands)\n", cmd)
	}
	return nil
}

// parseFilter reads category=, location=, status= and search= arguments. Each
// set accepts comma-separated values. Without a status argument only Active
// products are shown; status=all lifts that default.
func parseFilter(args []string) (core.InventoryFilter, error) {
	var f core.InventoryFilter
	statusGiven := false

	fields, err := parseAssignments(args)
	if err != nil {
		return f, err
	}
	for key, value := range fields {
		switch strings.ToLower(key) {
		case "category", "categories":
			for _, v := range splitList(value) {
				c, err := core.ParseCategory(v)
				if err != nil {
					return f, err
				}
				f.Categories = append(f.Categories, c)
			}
		case "location", "locations":
			for _, v := range splitList(value) {
				l, err := core.ParseLocation(v)
				if err != nil {
					return f, err
				}
				f.Locations = append(f.Locations, l)
			}
		case "status", "statuses":
			statusGiven = true
			if strings.EqualFold(value, "all") {
				continue
			}
			for _, v := range splitList(value) {
				st, err := core.ParseStatus(v)
				if err != nil {
					return f, err
				}
				f.Statuses = append(f.Statuses, st)
			}
		case "search", "name":
			f.Search = value
		default:
			return f, fmt.Errorf("unknown filter %q", key)
		}
	}
	if !statusGiven {
		f.Statuses = []core.Status{core.StatusActive}
	}
	return f, nil
}

// parseAssignments turns key=value tokens into a map.
func parseAssignments(args []string) (map[string]string, error) {
	out := make(map[string]string, len(args))
	for _, a := range args {
		key, value, ok := strings.Cut(a, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("expected field=value, got %q", a)
		}
		out[strings.TrimSpace(key)] = value
	}
	return out, nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// tokenize splits a command line on whitespace. Double quotes group words
// and may appear anywhere in a token: name="Laptop Pro" yields name=Laptop Pro.
func tokenize(line string) ([]string, error) {
	var (
		tokens  []string
		current strings.Builder
		inQuote bool
		started bool
	)
	for _, r := range line {
		switch {
		case r == '"':
			inQuote = !inQuote
			started = true
		case !inQuote && (r == ' ' || r == '\t'):
			if started {
				tokens = append(tokens, current.String())
				current.Reset()
				started = false
			}
		default:
			current.WriteRune(r)
			started = true
		}
	}
	if inQuote {
		return nil, fmt.Errorf("unterminated quote")
	}
	if started {
		tokens = append(tokens, current.String())
	}
	return tokens, nil
}

func sinkList(sinks []string) string {
	if len(sinks) == 0 {
		return "no sinks"
	}
	return strings.Join(sinks, ", ")
}
