package web

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"

	"inventory-ledger/internal/app"
	"inventory-ledger/internal/core"
	"inventory-ledger/internal/export"
	"inventory-ledger/internal/schema"

	"github.com/go-chi/chi/v5"
)

type reportSummary struct {
	Kind  string `json:"kind"`
	Title string `json:"title"`
}

type reportResponse struct {
	Kind   string              `json:"kind"`
	Title  string              `json:"title"`
	Header []string            `json:"header"`
	Rows   []map[string]string `json:"rows"`
	Series []core.DailyCount   `json:"series,omitempty"`
}

type exportResponse struct {
	Destination string   `json:"destination"`
	Rows        int      `json:"rows"`
	Sinks       []string `json:"sinks"`
	// CSV is the base64 interchange encoding of the exported table.
	CSV string `json:"csv"`
}

// listReports handles GET /api/reports.
func (h *Handler) listReports(w http.ResponseWriter, r *http.Request) {
	kinds := core.ReportKinds()
	out := make([]reportSummary, 0, len(kinds))
	for _, k := range kinds {
		out = append(out, reportSummary{Kind: k.String(), Title: k.Title()})
	}
	writeJSON(w, http.StatusOK, out)
}

// getReport handles GET /api/reports/{kind}[?format=csv|json].
func (h *Handler) getReport(w http.ResponseWriter, r *http.Request) {
	kind, err := core.ParseReportKind(chi.URLParam(r, "kind"))
	if err != nil {
		writeError(w, r, err.Error(), "NOT_FOUND", http.StatusNotFound)
		return
	}
	format := strings.ToLower(r.URL.Query().Get("format"))
	if format != "" && format != "csv" && format != "json" {
		writeError(w, r, fmt.Sprintf("unknown format %q (csv or json)", format), string(core.CodeValidation), http.StatusBadRequest)
		return
	}

	result, err := h.svc.GetReport(r.Context(), kind)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if format == "csv" {
		body, err := result.Table.Marshal()
		if err != nil {
			h.fail(w, r, err)
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.csv"`, kind))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(body)
		return
	}

	writeJSON(w, http.StatusOK, reportResponse{
		Kind:   kind.String(),
		Title:  result.Title,
		Header: result.Table.Header,
		Rows:   tableObjects(result.Table),
		Series: result.Series,
	})
}

// createExport handles POST /api/exports.
func (h *Handler) createExport(w http.ResponseWriter, r *http.Request) {
	var req app.ExportRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := checkExportRequest(req); msg != "" {
		writeError(w, r, msg, string(core.CodeValidation), http.StatusBadRequest)
		return
	}

	result, err := h.svc.Export(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, exportResponse{
		Destination: result.Destination,
		Rows:        result.Rows,
		Sinks:       result.Sinks,
		CSV:         base64.StdEncoding.EncodeToString(result.Encoded),
	})
}

// getSchema handles GET /api/schemas/{name}.
func (h *Handler) getSchema(w http.ResponseWriter, r *http.Request) {
	doc, err := schema.Document(chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, r, err.Error(), "NOT_FOUND", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// checkExportRequest returns a client-facing message for requests the
// service would reject as malformed.
func checkExportRequest(req app.ExportRequest) string {
	source := strings.ToLower(strings.TrimSpace(req.Source))
	switch source {
	case "":
		return "export source is required"
	case app.SourceInventory, app.SourceTransactions, app.SourceDailyCounts:
	default:
		if _, err := core.ParseReportKind(source); err != nil {
			return fmt.Sprintf("unknown export source %q", req.Source)
		}
	}
	if strings.TrimSpace(req.Destination) != "" {
		if _, err := export.SanitizeDestination(req.Destination); err != nil {
			return err.Error()
		}
	}
	return ""
}

func tableObjects(t export.Table) []map[string]string {
	out := make([]map[string]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		obj := make(map[string]string, len(t.Header))
		for i, col := range t.Header {
			obj[col] = row[i]
		}
		out = append(out, obj)
	}
	return out
}
