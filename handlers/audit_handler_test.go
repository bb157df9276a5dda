package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/supplierdesk/supplier-management/models"
	"github.com/supplierdesk/supplier-management/repositories"
)

func auditFixture(description string) *models.AuditEvent {
	return models.NewAuditEvent(models.EventTypeComplianceCheck, models.SeverityMedium, description).
		WithStatus(models.EventStatusCompleted)
}

func TestListAuditEventsHandler(t *testing.T) {
	t.Run("returns the first page by default", func(t *testing.T) {
		deps, mocks := newTestDeps(t)

		events := []*models.AuditEvent{auditFixture("Annual review completed")}
		mocks.audits.On("Count", mock.Anything, mock.Anything).Return(int64(41), nil)
		mocks.audits.On("List", mock.Anything, mock.MatchedBy(func(f repositories.EventFilter) bool {
			return f.Limit == 20 && f.Offset == 0
		})).Return(events, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/audit/events", nil)
		w := httptest.NewRecorder()

		ListAuditEventsHandler(deps)(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var page models.Page
		require.NoError(t, json.NewDecoder(w.Body).Decode(&page))
		assert.Equal(t, int64(41), page.Total)
		assert.Equal(t, 20, page.PageSize)
		assert.True(t, page.HasNext)
		require.Len(t, page.Data, 1)
		assert.Equal(t, "Annual review completed", page.Data[0].Description)
	})

	t.Run("passes page, type and search through to the query", func(t *testing.T) {
		deps, mocks := newTestDeps(t)

		mocks.audits.On("Count", mock.Anything, mock.Anything).Return(int64(21), nil)
		mocks.audits.On("List", mock.Anything, mock.MatchedBy(func(f repositories.EventFilter) bool {
			return f.Type == models.EventTypeComplianceCheck &&
				f.Search == "acme" && f.Limit == 20 && f.Offset == 20
		})).Return([]*models.AuditEvent{}, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/audit/events?page=2&type=compliance_check&q=acme", nil)
		w := httptest.NewRecorder()

		ListAuditEventsHandler(deps)(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var page models.Page
		require.NoError(t, json.NewDecoder(w.Body).Decode(&page))
		assert.False(t, page.HasNext)
		assert.NotNil(t, page.Data)
		mocks.audits.AssertExpectations(t)
	})

	t.Run("rejects a non-numeric page", func(t *testing.T) {
		deps, _ := newTestDeps(t)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/audit/events?page=two", nil)
		w := httptest.NewRecorder()

		ListAuditEventsHandler(deps)(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rejects an unknown event type", func(t *testing.T) {
		deps, _ := newTestDeps(t)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/audit/events?type=typo", nil)
		w := httptest.NewRecorder()

		ListAuditEventsHandler(deps)(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var response ErrorResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
		assert.Equal(t, "bad_request", response.Error)
	})
}
