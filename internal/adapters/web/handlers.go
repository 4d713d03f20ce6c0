package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"inventory-ledger/internal/app"
	"inventory-ledger/internal/logger"

	"github.com/go-chi/chi/v5"
)

// Options configures NewHandler.
type Options struct {
	AllowedOrigins []string
	Logger         *logger.Logger
	// Metrics serves /metrics when set.
	Metrics http.Handler
}

// Handler holds the ApplicationService and the chi router.
type Handler struct {
	svc app.ApplicationService
	log *logger.Logger
}

// NewHandler creates and wires the chi router with all routes.
func NewHandler(svc app.ApplicationService, opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	h := &Handler{svc: svc, log: log}

	r := chi.NewRouter()
	r.Use(RequestID(log))
	r.Use(Logger(log))
	r.Use(Recoverer(log))
	r.Use(CORS(opts.AllowedOrigins))

	r.Get("/api/health", h.health)
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics)
	}

	r.Group(func(r chi.Router) {
		r.Use(RequestBodyLimit(1 << 20)) // 1 MB

		r.Get("/api/dashboard", h.dashboard)

		// ── Products ──────────────────────────────────────────────────────────
		r.Get("/api/products", h.listProducts)
		r.Post("/api/products", h.createProduct)
		r.Get("/api/products/{id}", h.getProduct)
		r.Patch("/api/products/{id}", h.updateProduct)
		r.Delete("/api/products/{id}", h.deleteProduct)
		r.Post("/api/products/{id}/sale", h.recordSale)
		r.Post("/api/products/{id}/purchase", h.recordPurchase)

		// ── Transactions ──────────────────────────────────────────────────────
		r.Get("/api/transactions", h.listTransactions)

		// ── Reports and exports ───────────────────────────────────────────────
		r.Get("/api/reports", h.listReports)
		r.Get("/api/reports/{kind}", h.getReport)
		r.Post("/api/exports", h.createExport)
		r.Get("/api/schemas/{name}", h.getSchema)
	})

	return r
}

// health returns service status.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	type response struct {
		Status string `json:"status"`
	}
	writeJSON(w, http.StatusOK, response{Status: "ok"})
}

// decodeJSON decodes the request body into v and returns false + writes an appropriate
// error response on failure. Returns HTTP 413 when the body exceeds the size limit set
// by RequestBodyLimit middleware; HTTP 400 for all other decode errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, r, "request body too large", "REQUEST_TOO_LARGE", http.StatusRequestEntityTooLarge)
			return false
		}
		writeError(w, r, "invalid JSON body: "+err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return false
	}
	return true
}

// fail logs err against the request and writes the mapped error response.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	h.log.Warn(h.log.WithField(r.Context(), "error", err.Error()), "request rejected")
	writeServiceError(w, r, err)
}
