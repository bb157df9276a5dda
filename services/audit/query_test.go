package audit

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/supplierdesk/supplier-management/models"
	"github.com/supplierdesk/supplier-management/repositories"
	"github.com/supplierdesk/supplier-management/services"
	"go.uber.org/zap"
)

func testEvent(eventType models.EventType, description, supplierName string) *models.AuditEvent {
	event := models.NewAuditEvent(eventType, models.SeverityMedium, description)
	if supplierName != "" {
		event.WithSupplier(uuid.New(), supplierName)
	}
	return event
}

func TestFilterEvents(t *testing.T) {
	events := []*models.AuditEvent{
		testEvent(models.EventTypeComplianceCheck, "ISO certificate verified", "Acme Metals"),
		testEvent(models.EventTypeRiskAssessment, "Quarterly risk review", "Beta Logistics"),
		testEvent(models.EventTypeAlert, "Sanctions list hit", "Acme Metals"),
		testEvent(models.EventTypeComplianceCheck, "Insurance lapsed", "Gamma Freight"),
	}

	t.Run("all type filter and empty term match everything", func(t *testing.T) {
		filtered := FilterEvents(events, TypeFilterAll, "")
		assert.Equal(t, events, filtered)
	})

	t.Run("type filter requires exact equality", func(t *testing.T) {
		filtered := FilterEvents(events, "compliance_check", "")
		require.Len(t, filtered, 2)
		assert.Equal(t, events[0], filtered[0])
		assert.Equal(t, events[3], filtered[1])
	})

	t.Run("term matches description case-insensitively", func(t *testing.T) {
		filtered := FilterEvents(events, TypeFilterAll, "SANCTIONS")
		require.Len(t, filtered, 1)
		assert.Equal(t, events[2], filtered[0])
	})

	t.Run("term matches supplier name", func(t *testing.T) {
		filtered := FilterEvents(events, TypeFilterAll, "acme")
		require.Len(t, filtered, 2)
	})

	t.Run("type and term are combined", func(t *testing.T) {
		filtered := FilterEvents(events, "compliance_check", "acme")
		require.Len(t, filtered, 1)
		assert.Equal(t, events[0], filtered[0])
	})

	t.Run("no match on either field excludes the event", func(t *testing.T) {
		filtered := FilterEvents(events, TypeFilterAll, "zeppelin")
		assert.Empty(t, filtered)
	})

	t.Run("event without supplier name only matches on description", func(t *testing.T) {
		orphan := testEvent(models.EventTypeOther, "system maintenance", "")
		filtered := FilterEvents([]*models.AuditEvent{orphan}, TypeFilterAll, "maintenance")
		require.Len(t, filtered, 1)

		filtered = FilterEvents([]*models.AuditEvent{orphan}, TypeFilterAll, "acme")
		assert.Empty(t, filtered)
	})

	t.Run("relative order is preserved", func(t *testing.T) {
		filtered := FilterEvents(events, TypeFilterAll, "a")
		for i := 1; i < len(filtered); i++ {
			prev, cur := -1, -1
			for j, e := range events {
				if e == filtered[i-1] {
					prev = j
				}
				if e == filtered[i] {
					cur = j
				}
			}
			assert.Less(t, prev, cur)
		}
	})
}

func TestQueryServiceListEvents(t *testing.T) {
	t.Run("builds page from list and count", func(t *testing.T) {
		mockRepo := new(MockAuditEventRepository)
		svc := NewQueryService(mockRepo, 20, zap.NewNop())

		events := []*models.AuditEvent{
			testEvent(models.EventTypeAlert, "Sanctions list hit", "Acme Metals"),
		}
		expectedFilter := repositories.EventFilter{
			Search: "acme",
			Limit:  20,
			Offset: 20,
		}
		mockRepo.On("Count", mock.Anything, expectedFilter).Return(int64(41), nil)
		mockRepo.On("List", mock.Anything, expectedFilter).Return(events, nil)

		page, err := svc.ListEvents(context.Background(), Query{Page: 2, TypeFilter: "all", Search: "acme"})
		require.NoError(t, err)
		assert.Equal(t, int64(41), page.Total)
		assert.Equal(t, 20, page.PageSize)
		assert.True(t, page.HasNext) // 41 events, page 2 of 3
		assert.Equal(t, events, page.Data)
		mockRepo.AssertExpectations(t)
	})

	t.Run("last page has no next", func(t *testing.T) {
		mockRepo := new(MockAuditEventRepository)
		svc := NewQueryService(mockRepo, 20, zap.NewNop())

		mockRepo.On("Count", mock.Anything, mock.Anything).Return(int64(41), nil)
		mockRepo.On("List", mock.Anything, mock.Anything).Return([]*models.AuditEvent{}, nil)

		page, err := svc.ListEvents(context.Background(), Query{Page: 3})
		require.NoError(t, err)
		assert.False(t, page.HasNext)
	})

	t.Run("valid type filter narrows the query", func(t *testing.T) {
		mockRepo := new(MockAuditEventRepository)
		svc := NewQueryService(mockRepo, 20, zap.NewNop())

		expectedFilter := repositories.EventFilter{
			Type:  models.EventTypeComplianceCheck,
			Limit: 20,
		}
		mockRepo.On("Count", mock.Anything, expectedFilter).Return(int64(1), nil)
		mockRepo.On("List", mock.Anything, expectedFilter).Return([]*models.AuditEvent{}, nil)

		_, err := svc.ListEvents(context.Background(), Query{Page: 1, TypeFilter: "compliance_check"})
		require.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("unknown type filter is rejected", func(t *testing.T) {
		mockRepo := new(MockAuditEventRepository)
		svc := NewQueryService(mockRepo, 20, zap.NewNop())

		_, err := svc.ListEvents(context.Background(), Query{Page: 1, TypeFilter: "typo"})
		require.Error(t, err)
		assert.True(t, services.IsValidationError(err))
	})

	t.Run("page below one is clamped to the first page", func(t *testing.T) {
		mockRepo := new(MockAuditEventRepository)
		svc := NewQueryService(mockRepo, 20, zap.NewNop())

		expectedFilter := repositories.EventFilter{Limit: 20, Offset: 0}
		mockRepo.On("Count", mock.Anything, expectedFilter).Return(int64(0), nil)
		mockRepo.On("List", mock.Anything, expectedFilter).Return(nil, nil)

		page, err := svc.ListEvents(context.Background(), Query{Page: 0})
		require.NoError(t, err)
		assert.NotNil(t, page.Data)
		assert.Empty(t, page.Data)
		assert.False(t, page.HasNext)
	})
}
