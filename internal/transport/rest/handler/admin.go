package handler

import (
	"bytes"
	"dcasassess/internal/service"
	"encoding/json"
	"net/http"
)

// AdminHandler serves the dashboard, reports and users endpoints
type AdminHandler struct {
	statsSvc *service.StatsService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(statsSvc *service.StatsService) *AdminHandler {
	return &AdminHandler{statsSvc: statsSvc}
}

// Stats handles GET /v1/admin/stats
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.statsSvc.Dashboard(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// Reports handles GET /v1/reports
func (h *AdminHandler) Reports(w http.ResponseWriter, r *http.Request) {
	rows, err := h.statsSvc.Reports(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

type deleteReportsRequest struct {
	IDs []string `json:"ids"`
}

// DeleteReports handles DELETE /v1/reports
func (h *AdminHandler) DeleteReports(w http.ResponseWriter, r *http.Request) {
	var req deleteReportsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	n, err := h.statsSvc.DeleteReports(r.Context(), req.IDs)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":      true,
		"deletedCount": n,
	})
}

// ExportCSV handles GET /v1/reports/export.csv
func (h *AdminHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.statsSvc.ExportCSV(r.Context(), &buf); err != nil {
		writeServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="dcas-reports.csv"`)
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// Users handles GET /v1/users
func (h *AdminHandler) Users(w http.ResponseWriter, r *http.Request) {
	users, err := h.statsSvc.ListUsers(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}
