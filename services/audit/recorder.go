package audit

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/supplierdesk/supplier-management/internal/observability"
	"github.com/supplierdesk/supplier-management/models"
	"github.com/supplierdesk/supplier-management/repositories"
	"github.com/supplierdesk/supplier-management/services"
	"go.uber.org/zap"
)

// Recorder persists audit events asynchronously. Events are queued on a
// buffered channel and written by background workers so request handlers
// never block on the audit trail.
//
// Senders hold mu for reading across the channel send and Stop holds it
// for writing while closing the channel, so an in-flight Record can never
// hit a closed channel.
type Recorder struct {
	repo        repositories.AuditEventRepository
	logger      *zap.Logger
	eventChan   chan *models.AuditEvent
	workerCount int
	bufferSize  int
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc
	started     bool
	mu          sync.RWMutex
}

// Config holds configuration for the Recorder
type Config struct {
	BufferSize  int // Size of the event buffer channel
	WorkerCount int // Number of concurrent workers
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		BufferSize:  10000,
		WorkerCount: 5,
	}
}

// NewRecorder creates a new Recorder instance
func NewRecorder(repo repositories.AuditEventRepository, logger *zap.Logger, config Config) *Recorder {
	ctx, cancel := context.WithCancel(context.Background())

	return &Recorder{
		repo:        repo,
		logger:      logger,
		eventChan:   make(chan *models.AuditEvent, config.BufferSize),
		workerCount: config.WorkerCount,
		bufferSize:  config.BufferSize,
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Start starts the background workers
func (r *Recorder) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.started {
		return services.WrapError(services.ErrorTypeConflict, "audit recorder already started", nil)
	}

	for i := 0; i < r.workerCount; i++ {
		r.wg.Add(1)
		go r.worker(i)
	}

	r.started = true
	r.logger.Info("started audit recorder",
		zap.Int("worker_count", r.workerCount),
		zap.Int("buffer_size", r.bufferSize))

	return nil
}

// Stop gracefully stops the recorder, draining all queued events.
// Returns an error if draining takes longer than the timeout.
func (r *Recorder) Stop(timeout time.Duration) error {
	r.mu.Lock()
	if !r.started {
		r.mu.Unlock()
		return services.ErrRecorderNotStarted
	}
	r.started = false
	// Close the event channel (no more events will be accepted)
	close(r.eventChan)
	r.mu.Unlock()

	r.logger.Info("stopping audit recorder")

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		r.logger.Info("audit recorder stopped gracefully")
		r.cancel()
		return nil
	case <-time.After(timeout):
		r.cancel()
		return services.WrapInternal("audit recorder stop timeout", nil)
	}
}

// Record queues an event without blocking. The event is dropped with an
// error when the buffer is full.
func (r *Recorder) Record(event *models.AuditEvent) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if !r.started {
		return services.ErrRecorderNotStarted
	}

	select {
	case r.eventChan <- event:
		return nil
	default:
		observability.AuditEventsDroppedTotal.Inc()
		r.logger.Warn("audit event buffer full, dropping event",
			zap.String("event_type", string(event.Type)),
			zap.String("event_id", event.ID.String()))
		return services.ErrBufferFull
	}
}

// RecordBlocking queues an event, waiting until there is room in the
// buffer or the context is cancelled. The workers keep draining while the
// send blocks, so holding the read lock here cannot wedge Stop.
func (r *Recorder) RecordBlocking(ctx context.Context, event *models.AuditEvent) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if !r.started {
		return services.ErrRecorderNotStarted
	}

	select {
	case r.eventChan <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-r.ctx.Done():
		return services.ErrRecorderNotStarted
	}
}

// worker processes events from the channel
func (r *Recorder) worker(id int) {
	defer r.wg.Done()

	r.logger.Debug("audit worker started", zap.Int("worker_id", id))

	for event := range r.eventChan {
		if err := r.processEvent(event); err != nil {
			observability.AuditEventsRecordedTotal.WithLabelValues(string(event.Type), "error").Inc()
			r.logger.Error("failed to persist audit event",
				zap.Int("worker_id", id),
				zap.Error(err),
				zap.String("event_type", string(event.Type)),
				zap.String("event_id", event.ID.String()))
			continue
		}
		observability.AuditEventsRecordedTotal.WithLabelValues(string(event.Type), "ok").Inc()
	}

	r.logger.Debug("audit worker stopped", zap.Int("worker_id", id))
}

// processEvent writes a single event
func (r *Recorder) processEvent(event *models.AuditEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := r.repo.Insert(ctx, event); err != nil {
		return services.WrapInternal("failed to insert audit event", err)
	}

	return nil
}

// Stats represents recorder statistics
type Stats struct {
	BufferSize    int
	PendingEvents int
	WorkerCount   int
	Started       bool
}

// GetStats returns statistics about the recorder
func (r *Recorder) GetStats() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return Stats{
		BufferSize:    r.bufferSize,
		PendingEvents: len(r.eventChan),
		WorkerCount:   r.workerCount,
		Started:       r.started,
	}
}

// Convenience methods for recording common events

// RecordOnboardingStarted records the start of a supplier onboarding workflow
func (r *Recorder) RecordOnboardingStarted(supplier *models.Supplier, exec *models.ExecutionContext, actorID, requestID string) error {
	event := models.NewAuditEvent(models.EventTypeApproval, models.SeverityMedium,
		"supplier onboarding started for "+supplier.Name).
		WithSupplier(supplier.ID, supplier.Name).
		WithStatus(models.EventStatusPending).
		WithActor(actorID, requestID).
		WithDetails(map[string]interface{}{
			"workflow_id":  exec.WorkflowID,
			"execution_id": exec.ID.String(),
			"category":     supplier.Category,
		})

	return r.Record(event)
}

// RecordDocumentUploaded records a document received during onboarding
func (r *Recorder) RecordDocumentUploaded(supplier *models.Supplier, doc models.UploadedDocument, actorID, requestID string) error {
	event := models.NewAuditEvent(models.EventTypeDocumentUpload, models.SeverityLow,
		"document "+doc.Name+" uploaded for "+supplier.Name).
		WithSupplier(supplier.ID, supplier.Name).
		WithStatus(models.EventStatusCompleted).
		WithActor(actorID, requestID).
		WithDetails(map[string]interface{}{
			"document_name": doc.Name,
			"document_type": doc.Type,
		})

	return r.Record(event)
}

// RecordComplianceReviewScheduled records a compliance review being scheduled
func (r *Recorder) RecordComplianceReviewScheduled(supplierID uuid.UUID, supplierName string, exec *models.ExecutionContext, cadence string, actorID, requestID string) error {
	event := models.NewAuditEvent(models.EventTypeComplianceCheck, models.SeverityMedium,
		"compliance review scheduled for "+supplierName).
		WithSupplier(supplierID, supplierName).
		WithStatus(models.EventStatusPending).
		WithActor(actorID, requestID).
		WithDetails(map[string]interface{}{
			"workflow_id":  exec.WorkflowID,
			"execution_id": exec.ID.String(),
			"cadence":      cadence,
		})

	return r.Record(event)
}

// RecordWorkflowFailed records a workflow start that could not be completed
func (r *Recorder) RecordWorkflowFailed(exec *models.ExecutionContext, reason string, actorID, requestID string) error {
	event := models.NewAuditEvent(models.EventTypeAlert, models.SeverityHigh,
		"workflow "+exec.WorkflowID+" failed: "+reason).
		WithStatus(models.EventStatusFailed).
		WithActor(actorID, requestID).
		WithDetails(map[string]interface{}{
			"workflow_id":  exec.WorkflowID,
			"execution_id": exec.ID.String(),
			"reason":       reason,
		})
	if exec.SupplierID != nil {
		event.SupplierID = exec.SupplierID
	}

	return r.Record(event)
}
