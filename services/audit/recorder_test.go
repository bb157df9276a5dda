package audit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/supplierdesk/supplier-management/models"
	"github.com/supplierdesk/supplier-management/repositories"
	"github.com/supplierdesk/supplier-management/services"
	"go.uber.org/zap"
)

// MockAuditEventRepository is a mock implementation of AuditEventRepository
type MockAuditEventRepository struct {
	mock.Mock
	mu       sync.Mutex
	inserted []*models.AuditEvent
}

func (m *MockAuditEventRepository) Insert(ctx context.Context, event *models.AuditEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	args := m.Called(ctx, event)
	m.inserted = append(m.inserted, event)
	return args.Error(0)
}

func (m *MockAuditEventRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.AuditEvent, error) {
	args := m.Called(ctx, id)
	if event := args.Get(0); event != nil {
		return event.(*models.AuditEvent), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAuditEventRepository) List(ctx context.Context, filter repositories.EventFilter) ([]*models.AuditEvent, error) {
	args := m.Called(ctx, filter)
	if events := args.Get(0); events != nil {
		return events.([]*models.AuditEvent), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAuditEventRepository) Count(ctx context.Context, filter repositories.EventFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAuditEventRepository) WithTx(tx repositories.Transaction) repositories.AuditEventRepository {
	args := m.Called(tx)
	return args.Get(0).(repositories.AuditEventRepository)
}

func (m *MockAuditEventRepository) GetInserted() []*models.AuditEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.inserted
}

func TestRecorderStartStop(t *testing.T) {
	mockRepo := new(MockAuditEventRepository)
	recorder := NewRecorder(mockRepo, zap.NewNop(), Config{BufferSize: 10, WorkerCount: 2})

	err := recorder.Start()
	require.NoError(t, err)

	stats := recorder.GetStats()
	assert.True(t, stats.Started)
	assert.Equal(t, 2, stats.WorkerCount)
	assert.Equal(t, 10, stats.BufferSize)

	// Cannot start again
	err = recorder.Start()
	assert.Error(t, err)

	err = recorder.Stop(5 * time.Second)
	require.NoError(t, err)
}

func TestRecorderRecord(t *testing.T) {
	t.Run("queued events are persisted", func(t *testing.T) {
		mockRepo := new(MockAuditEventRepository)
		mockRepo.On("Insert", mock.Anything, mock.Anything).Return(nil)

		recorder := NewRecorder(mockRepo, zap.NewNop(), Config{BufferSize: 100, WorkerCount: 2})
		require.NoError(t, recorder.Start())

		for i := 0; i < 5; i++ {
			event := models.NewAuditEvent(models.EventTypeAlert, models.SeverityLow, "probe")
			require.NoError(t, recorder.Record(event))
		}

		require.NoError(t, recorder.Stop(5*time.Second))
		assert.Len(t, mockRepo.GetInserted(), 5)
	})

	t.Run("record before start fails", func(t *testing.T) {
		mockRepo := new(MockAuditEventRepository)
		recorder := NewRecorder(mockRepo, zap.NewNop(), DefaultConfig())

		event := models.NewAuditEvent(models.EventTypeAlert, models.SeverityLow, "probe")
		err := recorder.Record(event)
		assert.ErrorIs(t, err, services.ErrRecorderNotStarted)
	})

	t.Run("full buffer drops the event", func(t *testing.T) {
		mockRepo := new(MockAuditEventRepository)
		blocked := make(chan struct{})
		mockRepo.On("Insert", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) { <-blocked }).
			Return(nil)

		recorder := NewRecorder(mockRepo, zap.NewNop(), Config{BufferSize: 1, WorkerCount: 1})
		require.NoError(t, recorder.Start())
		defer func() {
			close(blocked)
			_ = recorder.Stop(5 * time.Second)
		}()

		// Saturate the single worker plus the one-slot buffer, then overflow.
		var err error
		for i := 0; i < 10; i++ {
			event := models.NewAuditEvent(models.EventTypeAlert, models.SeverityLow, "probe")
			if err = recorder.Record(event); err != nil {
				break
			}
		}
		assert.ErrorIs(t, err, services.ErrBufferFull)
	})
}

func TestRecorderConcurrentRecordAndStop(t *testing.T) {
	mockRepo := new(MockAuditEventRepository)
	mockRepo.On("Insert", mock.Anything, mock.Anything).Return(nil)

	recorder := NewRecorder(mockRepo, zap.NewNop(), Config{BufferSize: 4, WorkerCount: 2})
	require.NoError(t, recorder.Start())

	// Hammer Record from several goroutines while Stop closes the channel.
	// Every call must return cleanly; a send on the closed channel would
	// panic and fail the test.
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				event := models.NewAuditEvent(models.EventTypeAlert, models.SeverityLow, "stress")
				err := recorder.Record(event)
				if err != nil {
					assert.True(t,
						errors.Is(err, services.ErrRecorderNotStarted) || errors.Is(err, services.ErrBufferFull),
						"unexpected error: %v", err)
				}
			}
		}()
	}

	require.NoError(t, recorder.Stop(5*time.Second))
	wg.Wait()

	event := models.NewAuditEvent(models.EventTypeAlert, models.SeverityLow, "stress")
	assert.ErrorIs(t, recorder.Record(event), services.ErrRecorderNotStarted)
}

func TestRecorderRecordBlocking(t *testing.T) {
	mockRepo := new(MockAuditEventRepository)
	mockRepo.On("Insert", mock.Anything, mock.Anything).Return(nil)

	recorder := NewRecorder(mockRepo, zap.NewNop(), Config{BufferSize: 10, WorkerCount: 1})
	require.NoError(t, recorder.Start())

	event := models.NewAuditEvent(models.EventTypeScoreUpdate, models.SeverityMedium, "score recomputed")
	err := recorder.RecordBlocking(context.Background(), event)
	require.NoError(t, err)

	require.NoError(t, recorder.Stop(5*time.Second))
	assert.Len(t, mockRepo.GetInserted(), 1)
}

func TestRecorderConvenienceEvents(t *testing.T) {
	mockRepo := new(MockAuditEventRepository)
	mockRepo.On("Insert", mock.Anything, mock.Anything).Return(nil)

	recorder := NewRecorder(mockRepo, zap.NewNop(), Config{BufferSize: 10, WorkerCount: 1})
	require.NoError(t, recorder.Start())

	supplier := models.NewSupplier("sup-100", "Acme Metals", "raw-materials", models.PrimaryContact{
		Name:  "Dana Reyes",
		Email: "dana@acme.example",
	})
	exec := models.NewExecutionContext("supplier-onboarding").WithSupplier(supplier.ID)

	require.NoError(t, recorder.RecordOnboardingStarted(supplier, exec, "user-1", "req-1"))
	require.NoError(t, recorder.RecordDocumentUploaded(supplier, models.UploadedDocument{
		Name: "w9.pdf", Type: "tax-form",
	}, "user-1", "req-1"))
	require.NoError(t, recorder.RecordWorkflowFailed(exec, "supplier rejected", "user-1", "req-1"))

	require.NoError(t, recorder.Stop(5*time.Second))

	inserted := mockRepo.GetInserted()
	require.Len(t, inserted, 3)

	byType := map[models.EventType]*models.AuditEvent{}
	for _, event := range inserted {
		byType[event.Type] = event
	}

	onboarding := byType[models.EventTypeApproval]
	require.NotNil(t, onboarding)
	assert.Equal(t, "Acme Metals", onboarding.SupplierName)
	assert.Equal(t, models.EventStatusPending, onboarding.Status)
	assert.Equal(t, "user-1", onboarding.ActorID)

	failed := byType[models.EventTypeAlert]
	require.NotNil(t, failed)
	assert.Equal(t, models.EventStatusFailed, failed.Status)
	assert.Contains(t, failed.Description, "supplier rejected")
}
