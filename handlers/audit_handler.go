package handlers

import (
	"net/http"
	"strconv"

	"github.com/supplierdesk/supplier-management/app"
	"github.com/supplierdesk/supplier-management/services/audit"
)

// ListAuditEventsHandler lists audit events as a fixed-size page. Query
// parameters: page (1-based, default 1), type (event type, "all" for no
// filter) and q (case-insensitive match on description or supplier name).
func ListAuditEventsHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := audit.Query{
			Page:       1,
			TypeFilter: r.URL.Query().Get("type"),
			Search:     r.URL.Query().Get("q"),
		}

		if raw := r.URL.Query().Get("page"); raw != "" {
			page, err := strconv.Atoi(raw)
			if err != nil {
				respondError(w, http.StatusBadRequest, "bad_request", "Invalid page parameter")
				return
			}
			query.Page = page
		}

		page, err := deps.AuditQueries.ListEvents(r.Context(), query)
		if err != nil {
			HandleServiceError(w, err, deps.Logger)
			return
		}

		respondJSON(w, http.StatusOK, page)
	}
}
