package web

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"inventory-ledger/internal/app"
	"inventory-ledger/internal/core"

	"github.com/go-chi/chi/v5"
)

type mutationResponse struct {
	ProductID string `json:"product_id"`
	Message   string `json:"message"`
}

type productResponse struct {
	Product      core.Product       `json:"product"`
	LowStock     bool               `json:"low_stock"`
	StockValue   string             `json:"stock_value"`
	Transactions []core.Transaction `json:"transactions"`
}

type movementResponse struct {
	Transaction core.Transaction `json:"transaction"`
	Product     core.Product     `json:"product"`
	LowStock    bool             `json:"low_stock"`
}

type dashboardResponse struct {
	TotalProducts     int                     `json:"total_products"`
	TotalQuantity     int                     `json:"total_quantity"`
	LowStockCount     int                     `json:"low_stock_count"`
	TotalValue        string                  `json:"total_value"`
	TotalValueDisplay string                  `json:"total_value_display"`
	Distribution      []core.CategoryQuantity `json:"category_distribution"`
	TopProducts       []core.Product          `json:"top_products"`
	LowStock          []core.Product          `json:"low_stock"`
	DailyCounts       []core.DailyCount       `json:"transactions_per_day"`
}

// dashboard handles GET /api/dashboard.
func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.svc.GetDashboard(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dashboardResponse{
		TotalProducts:     d.Metrics.TotalProducts,
		TotalQuantity:     d.Metrics.TotalQuantity,
		LowStockCount:     d.Metrics.LowStockCount,
		TotalValue:        d.Metrics.TotalValue.StringFixed(2),
		TotalValueDisplay: d.TotalValueDisplay,
		Distribution:      d.Distribution,
		TopProducts:       d.TopProducts,
		LowStock:          d.LowStock,
		DailyCounts:       d.DailyCounts,
	})
}

// listProducts handles GET /api/products?category=..&location=..&status=..&search=..
// Repeated or comma-separated values widen a set. Status defaults to Active;
// status=all lists every product.
func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	filter, err := filterFromQuery(r)
	if err != nil {
		writeError(w, r, err.Error(), string(core.CodeValidation), http.StatusBadRequest)
		return
	}
	result, err := h.svc.ListInventory(r.Context(), filter)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result.Products)
}

// createProduct handles POST /api/products.
func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var p core.Product
	if !decodeJSON(w, r, &p) {
		return
	}
	result, err := h.svc.AddProduct(r.Context(), p)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, mutationResponse{ProductID: result.ProductID, Message: result.Message})
}

// getProduct handles GET /api/products/{id}.
func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, productResponse{
		Product:      result.Product,
		LowStock:     result.LowStock,
		StockValue:   result.StockValue,
		Transactions: result.Transactions,
	})
}

// updateProduct handles PATCH /api/products/{id}. The body maps field names
// to new values; a null expiry_date clears it.
func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	if !decodeJSON(w, r, &body) {
		return
	}
	fields, err := stringFields(body)
	if err != nil {
		writeError(w, r, err.Error(), string(core.CodeValidation), http.StatusBadRequest)
		return
	}
	update, err := core.ParseProductUpdate(fields)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	result, err := h.svc.UpdateProduct(r.Context(), chi.URLParam(r, "id"), update)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mutationResponse{ProductID: result.ProductID, Message: result.Message})
}

// deleteProduct handles DELETE /api/products/{id}. Deleting an unknown product succeeds.
func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.DeleteProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mutationResponse{ProductID: result.ProductID, Message: result.Message})
}

type movementRequest struct {
	Quantity int `json:"quantity"`
}

// recordSale handles POST /api/products/{id}/sale.
func (h *Handler) recordSale(w http.ResponseWriter, r *http.Request) {
	h.recordMovement(w, r, h.svc.RecordSale)
}

// recordPurchase handles POST /api/products/{id}/purchase.
func (h *Handler) recordPurchase(w http.ResponseWriter, r *http.Request) {
	h.recordMovement(w, r, h.svc.RecordPurchase)
}

func (h *Handler) recordMovement(w http.ResponseWriter, r *http.Request,
	move func(ctx context.Context, req app.StockMovementRequest) (*app.TransactionResult, error)) {
	var body movementRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	result, err := move(r.Context(), app.StockMovementRequest{ProductID: chi.URLParam(r, "id"), Quantity: body.Quantity})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, movementResponse{
		Transaction: result.Transaction,
		Product:     result.Product,
		LowStock:    result.LowStock,
	})
}

// listTransactions handles GET /api/transactions[?product_id=..].
func (h *Handler) listTransactions(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListTransactions(r.Context(), r.URL.Query().Get("product_id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result.Transactions)
}

func filterFromQuery(r *http.Request) (core.InventoryFilter, error) {
	q := r.URL.Query()
	var f core.InventoryFilter

	for _, v := range queryValues(q["category"]) {
		c, err := core.ParseCategory(v)
		if err != nil {
			return f, err
		}
		f.Categories = append(f.Categories, c)
	}
	for _, v := range queryValues(q["location"]) {
		l, err := core.ParseLocation(v)
		if err != nil {
			return f, err
		}
		f.Locations = append(f.Locations, l)
	}
	statuses := queryValues(q["status"])
	switch {
	case len(statuses) == 0:
		f.Statuses = []core.Status{core.StatusActive}
	case len(statuses) == 1 && strings.EqualFold(statuses[0], "all"):
	default:
		for _, v := range statuses {
			s, err := core.ParseStatus(v)
			if err != nil {
				return f, err
			}
			f.Statuses = append(f.Statuses, s)
		}
	}
	f.Search = q.Get("search")
	return f, nil
}

func queryValues(raw []string) []string {
	var out []string
	for _, v := range raw {
		for _, part := range strings.Split(v, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

// stringFields flattens a JSON object into the raw strings ParseProductUpdate expects.
func stringFields(body map[string]any) (map[string]string, error) {
	out := make(map[string]string, len(body))
	for k, v := range body {
		switch val := v.(type) {
		case nil:
			out[k] = ""
		case string:
			out[k] = val
		case float64:
			out[k] = strconv.FormatFloat(val, 'f', -1, 64)
		default:
			return nil, fmt.Errorf("field %q must be a string or number", k)
		}
	}
	return out, nil
}
