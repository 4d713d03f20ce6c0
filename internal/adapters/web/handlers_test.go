package web

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"inventory-ledger/internal/app"
	"inventory-ledger/internal/core"
	"inventory-ledger/internal/export"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T, opts Options, sinks ...export.Sink) *httptest.Server {
	t.Helper()
	store := core.NewLedgerStore(core.StoreOptions{Seed: true, Clock: func() time.Time { return fixedNow }})
	svc := app.NewAppService(app.Options{Store: store, Sinks: sinks})
	srv := httptest.NewServer(NewHandler(svc, opts))
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, srv *httptest.Server, method, path, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, srv.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestHealth_SetsRequestID(t *testing.T) {
	srv := newTestServer(t, Options{})

	resp := do(t, srv, http.MethodGet, "/api/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
	assert.Equal(t, "ok", decode[map[string]string](t, resp)["status"])
}

func TestRequestID_EchoesSafeIDOnly(t *testing.T) {
	srv := newTestServer(t, Options{})

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/health", nil)
	require.NoError(t, err)
	req.Header.Set("X-Request-ID", "abc-123")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "abc-123", resp.Header.Get("X-Request-ID"))

	req.Header.Set("X-Request-ID", "bad id;drop")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.NotEqual(t, "bad id;drop", resp.Header.Get("X-Request-ID"))
}

func TestDashboard(t *testing.T) {
	srv := newTestServer(t, Options{})

	resp := do(t, srv, http.MethodGet, "/api/dashboard", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decode[dashboardResponse](t, resp)
	assert.Equal(t, 3, got.TotalProducts)
	assert.Equal(t, 400, got.TotalQuantity)
	assert.Equal(t, "4280000.00", got.TotalValue)
	assert.Equal(t, "₹4,280,000.00", got.TotalValueDisplay)
}

func TestProducts_CRUD(t *testing.T) {
	srv := newTestServer(t, Options{})

	resp := do(t, srv, http.MethodPost, "/api/products",
		`{"product_id":"P004","product_name":"Desk","category":"Furniture","quantity":4,"price":"7500.00","location":"Store Front","reorder_level":5}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "P004", decode[mutationResponse](t, resp).ProductID)

	resp = do(t, srv, http.MethodGet, "/api/products/P004", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	detail := decode[productResponse](t, resp)
	assert.Equal(t, "Desk", detail.Product.ProductName)
	assert.Equal(t, core.StatusActive, detail.Product.Status)
	assert.True(t, detail.LowStock)

	resp = do(t, srv, http.MethodPatch, "/api/products/P004", `{"quantity":12,"supplier":"WoodWorks"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, srv, http.MethodGet, "/api/products/P004", "")
	detail = decode[productResponse](t, resp)
	assert.Equal(t, 12, detail.Product.Quantity)
	assert.Equal(t, "WoodWorks", detail.Product.Supplier)
	assert.False(t, detail.LowStock)

	resp = do(t, srv, http.MethodDelete, "/api/products/P004", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp = do(t, srv, http.MethodDelete, "/api/products/P004", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, srv, http.MethodGet, "/api/products/P004", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestProducts_ErrorMapping(t *testing.T) {
	srv := newTestServer(t, Options{})

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
		code   string
	}{
		{"duplicate", http.MethodPost, "/api/products",
			`{"product_id":"P001","product_name":"Laptop 2","category":"Electronics","quantity":1,"price":"1","location":"Warehouse A"}`,
			http.StatusConflict, string(core.CodeDuplicateKey)},
		{"invalid product", http.MethodPost, "/api/products",
			`{"product_id":"P010","product_name":"Toy","category":"Toys","quantity":1,"price":"1","location":"Warehouse A"}`,
			http.StatusBadRequest, string(core.CodeValidation)},
		{"malformed json", http.MethodPost, "/api/products", `{`, http.StatusBadRequest, "BAD_REQUEST"},
		{"update missing", http.MethodPatch, "/api/products/P999", `{"quantity":3}`, http.StatusNotFound, string(core.CodeNotFound)},
		{"update bad field", http.MethodPatch, "/api/products/P001", `{"quantity":"many"}`, http.StatusBadRequest, string(core.CodeValidation)},
		{"oversell", http.MethodPost, "/api/products/P001/sale", `{"quantity":51}`, http.StatusUnprocessableEntity, string(core.CodeInsufficientStock)},
		{"zero purchase", http.MethodPost, "/api/products/P001/purchase", `{"quantity":0}`, http.StatusBadRequest, string(core.CodeValidation)},
		{"bad filter", http.MethodGet, "/api/products?category=toys", "", http.StatusBadRequest, string(core.CodeValidation)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, srv, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, resp.StatusCode)
			got := decode[errorResponse](t, resp)
			assert.Equal(t, tt.code, got.Code)
			assert.NotEmpty(t, got.RequestID)
		})
	}
}

func TestListProducts_Filters(t *testing.T) {
	srv := newTestServer(t, Options{})

	resp := do(t, srv, http.MethodPatch, "/api/products/P002", `{"status":"Inactive"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, srv, http.MethodGet, "/api/products", "")
	assert.Len(t, decode[[]core.Product](t, resp), 2)

	resp = do(t, srv, http.MethodGet, "/api/products?status=all", "")
	assert.Len(t, decode[[]core.Product](t, resp), 3)

	resp = do(t, srv, http.MethodGet, "/api/products?status=all&category=accessories&location=warehouse_a,warehouse_b&search=KEY", "")
	products := decode[[]core.Product](t, resp)
	require.Len(t, products, 1)
	assert.Equal(t, "P003", products[0].ProductID)
}

func TestRecordSale_LowStock(t *testing.T) {
	srv := newTestServer(t, Options{})

	resp := do(t, srv, http.MethodPost, "/api/products/P001/sale", `{"quantity":45}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	got := decode[movementResponse](t, resp)
	assert.Equal(t, "T003", got.Transaction.TransactionID)
	assert.Equal(t, core.TransactionSale, got.Transaction.Type)
	assert.Equal(t, 5, got.Product.Quantity)
	assert.True(t, got.LowStock)

	resp = do(t, srv, http.MethodGet, "/api/transactions?product_id=P001", "")
	txs := decode[[]core.Transaction](t, resp)
	require.Len(t, txs, 2)
	assert.Equal(t, "T003", txs[0].TransactionID)
}

func TestReports(t *testing.T) {
	srv := newTestServer(t, Options{})

	resp := do(t, srv, http.MethodGet, "/api/reports", "")
	list := decode[[]reportSummary](t, resp)
	require.Len(t, list, len(core.ReportKinds()))
	assert.Equal(t, "Inventory Summary", list[0].Title)

	resp = do(t, srv, http.MethodGet, "/api/reports/inventory-summary?format=csv", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/csv")
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "inventory-summary.csv")
	table, err := export.Parse(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, []string{"Category", "Quantity", "Price"}, table.Header)
	assert.Equal(t, [][]string{{"Accessories", "350", "850.00"}, {"Electronics", "50", "80000.00"}}, table.Rows)

	resp = do(t, srv, http.MethodGet, "/api/reports/transaction-history", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	history := decode[reportResponse](t, resp)
	assert.Len(t, history.Rows, 2)
	assert.Len(t, history.Series, 2)

	resp = do(t, srv, http.MethodGet, "/api/reports/profit-and-loss", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = do(t, srv, http.MethodGet, "/api/reports/low-stock?format=xml", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCreateExport(t *testing.T) {
	dir := t.TempDir()
	srv := newTestServer(t, Options{}, export.NewDirSink(dir))

	resp := do(t, srv, http.MethodPost, "/api/exports",
		`{"source":"inventory","filter":{"categories":["Accessories"]},"destination":"accessories"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	got := decode[exportResponse](t, resp)
	assert.Equal(t, 2, got.Rows)
	assert.Equal(t, []string{"dir"}, got.Sinks)

	raw, err := base64.StdEncoding.DecodeString(got.CSV)
	require.NoError(t, err)
	table, err := export.Unmarshal(raw)
	require.NoError(t, err)
	products, err := export.ParseProducts(table)
	require.NoError(t, err)
	assert.Len(t, products, 2)

	resp = do(t, srv, http.MethodPost, "/api/exports", `{"source":"ledger"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, srv, http.MethodPost, "/api/exports", `{"source":"transactions","destination":"///"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCreateExport_UnknownSinkIsBadRequest(t *testing.T) {
	dir := t.TempDir()
	srv := newTestServer(t, Options{}, export.NewDirSink(dir))

	resp := do(t, srv, http.MethodPost, "/api/exports", `{"source":"inventory","sink":"nosuch"}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	got := decode[errorResponse](t, resp)
	assert.Equal(t, string(core.CodeValidation), got.Code)
	assert.Contains(t, got.Error, "nosuch")
	assert.Equal(t, "must be one of dir", got.Details["sink"])

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCreateExport_DailyCounts(t *testing.T) {
	srv := newTestServer(t, Options{}, export.NewDirSink(t.TempDir()))

	resp := do(t, srv, http.MethodPost, "/api/exports", `{"source":"transactions-per-day"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	got := decode[exportResponse](t, resp)
	assert.Equal(t, 2, got.Rows)
	assert.Equal(t, "transactions-per-day", got.Destination)
}

func TestDashboard_ChartFieldNames(t *testing.T) {
	srv := newTestServer(t, Options{})

	resp := do(t, srv, http.MethodGet, "/api/dashboard", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var raw map[string]json.RawMessage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&raw))

	var days []map[string]any
	require.NoError(t, json.Unmarshal(raw["transactions_per_day"], &days))
	require.NotEmpty(t, days)
	assert.Contains(t, days[0], "date")
	assert.Contains(t, days[0], "count")
}

func TestGetSchema(t *testing.T) {
	srv := newTestServer(t, Options{})

	resp := do(t, srv, http.MethodGet, "/api/schemas/product", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	doc := decode[map[string]any](t, resp)
	props, ok := doc["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "product_id")

	resp = do(t, srv, http.MethodGet, "/api/schemas/order", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestMetricsRoute_OnlyWhenConfigured(t *testing.T) {
	srv := newTestServer(t, Options{})
	resp := do(t, srv, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	metricsHandler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("inventory_mutations_total 0\n"))
	})
	srv = newTestServer(t, Options{Metrics: metricsHandler})
	resp = do(t, srv, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCORS(t *testing.T) {
	srv := newTestServer(t, Options{AllowedOrigins: []string{"http://localhost:3000"}})

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/api/products", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:3000")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "http://localhost:3000", resp.Header.Get("Access-Control-Allow-Origin"))

	req.Header.Set("Origin", "http://evil.example")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
}
