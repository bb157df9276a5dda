package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/supplierdesk/supplier-management/models"
)

// TransactionManager manages database transactions
type TransactionManager interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) (Transaction, error)

	// InTransaction executes a function within a transaction
	// Automatically commits if function succeeds, rolls back on error
	InTransaction(ctx context.Context, fn func(ctx context.Context, tx Transaction) error) error
}

// Transaction represents a database transaction
type Transaction interface {
	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Context returns the transaction context
	Context() context.Context
}

// EventFilter describes the server-side criteria for listing audit events.
// A zero-value Type matches every event type; Search is matched
// case-insensitively against description and supplier name.
type EventFilter struct {
	Type   models.EventType
	Search string
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

// AuditEventRepository handles audit event persistence
type AuditEventRepository interface {
	// Insert inserts a new audit event
	Insert(ctx context.Context, event *models.AuditEvent) error

	// GetByID retrieves an audit event by ID
	GetByID(ctx context.Context, id uuid.UUID) (*models.AuditEvent, error)

	// List retrieves events matching the filter, newest first
	List(ctx context.Context, filter EventFilter) ([]*models.AuditEvent, error)

	// Count returns the number of events matching the filter, ignoring Limit/Offset
	Count(ctx context.Context, filter EventFilter) (int64, error)

	// WithTx returns a new repository instance bound to the transaction
	WithTx(tx Transaction) AuditEventRepository
}

// WorkflowRepository handles workflow definition persistence
type WorkflowRepository interface {
	// List retrieves all workflow definitions ordered by name
	List(ctx context.Context) ([]*models.WorkflowDefinition, error)

	// GetByID retrieves a workflow definition by ID
	GetByID(ctx context.Context, id string) (*models.WorkflowDefinition, error)

	// Upsert inserts or replaces a workflow definition (used for catalog seeding)
	Upsert(ctx context.Context, def *models.WorkflowDefinition) error

	// WithTx returns a new repository instance bound to the transaction
	WithTx(tx Transaction) WorkflowRepository
}

// SupplierRepository handles supplier persistence
type SupplierRepository interface {
	// Create creates a new supplier
	Create(ctx context.Context, supplier *models.Supplier) error

	// GetByID retrieves a supplier by ID
	GetByID(ctx context.Context, id uuid.UUID) (*models.Supplier, error)

	// GetByExternalID retrieves a supplier by its external identifier
	GetByExternalID(ctx context.Context, externalID string) (*models.Supplier, error)

	// List retrieves suppliers with pagination, ordered by name
	List(ctx context.Context, limit, offset int) ([]*models.Supplier, error)

	// UpdateStatus updates a supplier's lifecycle status
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.SupplierStatus) error

	// WithTx returns a new repository instance bound to the transaction
	WithTx(tx Transaction) SupplierRepository
}

// ExecutionRepository handles execution context persistence
type ExecutionRepository interface {
	// Create creates a new execution context
	Create(ctx context.Context, exec *models.ExecutionContext) error

	// GetByID retrieves an execution context by ID
	GetByID(ctx context.Context, id uuid.UUID) (*models.ExecutionContext, error)

	// Update persists state, error, and timestamp changes
	Update(ctx context.Context, exec *models.ExecutionContext) error

	// ListByWorkflow retrieves executions of a workflow, newest first
	ListByWorkflow(ctx context.Context, workflowID string, limit, offset int) ([]*models.ExecutionContext, error)

	// WithTx returns a new repository instance bound to the transaction
	WithTx(tx Transaction) ExecutionRepository
}

// Repositories aggregates all repository interfaces
type Repositories struct {
	Workflows   WorkflowRepository
	Suppliers   SupplierRepository
	Executions  ExecutionRepository
	AuditEvents AuditEventRepository
}
