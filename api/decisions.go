package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/alibeddi/securitycenter/upstream"
)

// DeleteDecision handles DELETE /api/decisions/{id}. The call is proxied to
// the upstream with the cookie token as a bearer credential; upstream
// failures pass through with their original status and error body.
func (a *API) DeleteDecision(w http.ResponseWriter, r *http.Request) {
	token, ok := tokenFromRequest(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "decision id is required")
		return
	}

	if err := a.upstream.DeleteDecision(r.Context(), token, id); err != nil {
		if se, ok := upstream.AsStatusError(err); ok {
			writeJSON(w, se.Status, ErrorResponse{Error: upstreamErrorText(se)})
			return
		}
		writeInternalError(w, "failed to delete decision", err)
		return
	}

	a.audit.logEvent(AuditDecisionDeleted, r, id)
	writeJSON(w, http.StatusOK, DeleteDecisionResponse{Success: true})
}

// ListAlerts handles GET /api/alerts. The upstream alert list JSON is proxied
// verbatim; the dashboard does its filtering client-side.
func (a *API) ListAlerts(w http.ResponseWriter, r *http.Request) {
	token, ok := tokenFromRequest(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	body, err := a.upstream.ListAlerts(r.Context(), token)
	if err != nil {
		if se, ok := upstream.AsStatusError(err); ok {
			writeJSON(w, se.Status, ErrorResponse{Error: upstreamErrorText(se)})
			return
		}
		writeInternalError(w, "failed to fetch alerts", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

// ListAuditEvents handles GET /api/audit, returning the most recent persisted
// audit events. Empty when no audit store is configured.
func (a *API) ListAuditEvents(w http.ResponseWriter, r *http.Request) {
	if _, ok := tokenFromRequest(r); !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	if a.audit.store == nil {
		writeJSON(w, http.StatusOK, ListAuditEventsResponse{Events: []AuditRecord{}})
		return
	}

	events, err := a.audit.store.List(auditListLimit)
	if err != nil {
		writeInternalError(w, "failed to list audit events", err)
		return
	}
	writeJSON(w, http.StatusOK, ListAuditEventsResponse{Events: events})
}

const auditListLimit = 200
