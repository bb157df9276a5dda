package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/supplierdesk/supplier-management/app"
	"github.com/supplierdesk/supplier-management/middleware"
	"github.com/supplierdesk/supplier-management/services/onboarding"
)

// ListWorkflowsHandler lists the workflow catalog, optionally narrowed by
// the q query parameter (case-insensitive match on name or description)
func ListWorkflowsHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		term := r.URL.Query().Get("q")

		definitions, err := deps.WorkflowCatalog.Search(r.Context(), term)
		if err != nil {
			HandleServiceError(w, err, deps.Logger)
			return
		}

		respondJSON(w, http.StatusOK, SuccessResponse{Data: definitions})
	}
}

// StartOnboardingHandler registers a new supplier and dispatches the
// onboarding workflow
func StartOnboardingHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req onboarding.StartOnboardingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "bad_request", "Invalid request body")
			return
		}

		ctx := r.Context()
		req.ActorID = middleware.GetActorFromContext(ctx)
		req.RequestID = middleware.GetRequestIDFromContext(ctx)

		execution, err := deps.Onboarding.StartSupplierOnboarding(ctx, req)
		if err != nil {
			HandleServiceError(w, err, deps.Logger)
			return
		}

		respondJSON(w, http.StatusCreated, SuccessResponse{Data: execution})
	}
}

// StartComplianceReviewHandler schedules a compliance review for a set of
// suppliers
func StartComplianceReviewHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req onboarding.StartReviewRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "bad_request", "Invalid request body")
			return
		}

		ctx := r.Context()
		req.ActorID = middleware.GetActorFromContext(ctx)
		req.RequestID = middleware.GetRequestIDFromContext(ctx)

		executions, err := deps.Onboarding.StartComplianceReview(ctx, req)
		if err != nil {
			HandleServiceError(w, err, deps.Logger)
			return
		}

		respondJSON(w, http.StatusCreated, SuccessResponse{Data: executions})
	}
}

// GetExecutionHandler fetches a single workflow execution by ID
func GetExecutionHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			respondError(w, http.StatusBadRequest, "bad_request", "Invalid execution ID")
			return
		}

		execution, err := deps.Onboarding.GetExecution(r.Context(), id)
		if err != nil {
			HandleServiceError(w, err, deps.Logger)
			return
		}

		respondJSON(w, http.StatusOK, SuccessResponse{Data: execution})
	}
}
