// Package api exposes the status-dashboard HTTP handlers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/ckdake/fitler/internal/domain"
	"github.com/ckdake/fitler/internal/reconcile"
	"github.com/ckdake/fitler/internal/service"
)

// Handler coordinates HTTP requests with the sync service.
type Handler struct {
	syncer   *service.Syncer
	priority []domain.Provider
}

// NewHandler builds a Handler.
func NewHandler(syncer *service.Syncer, priority []domain.Provider) *Handler {
	return &Handler{syncer: syncer, priority: priority}
}

// RegisterRoutes wires endpoints to the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/reconcile/", h.reconcileMonth)
	mux.HandleFunc("/healthz", healthz)
}

// healthz reports a simple OK status for container health checks.
func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

type clusterResponse struct {
	Start         time.Time                          `json:"start"`
	Authoritative domain.Provider                    `json:"authoritative,omitempty"`
	Members       map[domain.Provider]memberResponse `json:"members"`
}

type memberResponse struct {
	ID        string  `json:"id"`
	Name      string  `json:"name,omitempty"`
	Equipment string  `json:"equipment,omitempty"`
	Distance  float64 `json:"distance"`
}

type reconcileResponse struct {
	Month    string                   `json:"month"`
	Clusters []clusterResponse        `json:"clusters"`
	Changes  []domain.ChangeOperation `json:"changes"`
	Skipped  int                      `json:"skipped"`
	Warnings []string                 `json:"warnings,omitempty"`
}

// reconcileMonth runs a cache-only reconciliation pass for the month in the
// path and returns the materialized result. It never calls provider APIs;
// dashboards must not trigger network fetches.
func (h *Handler) reconcileMonth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	raw := strings.TrimPrefix(r.URL.Path, "/v1/reconcile/")
	month, err := domain.ParseMonth(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	res, err := h.syncer.ShowMonth(r.Context(), month)
	if err != nil {
		if errors.Is(err, reconcile.ErrEmptyPriority) || errors.Is(err, reconcile.ErrNoTimezone) {
			writeError(w, http.StatusInternalServerError, "misconfigured", err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "reconcile_failed", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, buildResponse(month, res))
}

func buildResponse(month domain.Month, res *reconcile.Result) reconcileResponse {
	out := reconcileResponse{
		Month:    month.String(),
		Clusters: make([]clusterResponse, 0, len(res.Clusters)),
		Changes:  res.Changes,
		Skipped:  res.Skipped,
	}
	if out.Changes == nil {
		out.Changes = []domain.ChangeOperation{}
	}
	for i, cluster := range res.Clusters {
		cr := clusterResponse{
			Start:   cluster.RepresentativeStart,
			Members: make(map[domain.Provider]memberResponse, len(cluster.Members)),
		}
		if p, ok := res.Authority[i]; ok {
			cr.Authoritative = p
		}
		for _, p := range cluster.Providers() {
			member := cluster.Members[p]
			cr.Members[p] = memberResponse{
				ID:        member.ProviderID,
				Name:      member.Name,
				Equipment: member.Equipment,
				Distance:  member.Distance,
			}
		}
		out.Clusters = append(out.Clusters, cr)
	}
	for _, warning := range res.Warnings {
		out.Warnings = append(out.Warnings, warning.String())
	}
	return out
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
