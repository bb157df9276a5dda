package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/supplierdesk/supplier-management/models"
	"github.com/supplierdesk/supplier-management/repositories"
	"go.uber.org/zap"
)

// ExecutionRepository implements the repositories.ExecutionRepository interface
type ExecutionRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewExecutionRepository creates a new execution context repository
func NewExecutionRepository(db *DB, logger *zap.Logger) repositories.ExecutionRepository {
	return &ExecutionRepository{
		db:     db,
		logger: logger,
	}
}

const executionColumns = `id, workflow_id, supplier_id, state, parameters,
	       error_message, created_at, started_at, completed_at`

// Create creates a new execution context
func (r *ExecutionRepository) Create(ctx context.Context, exec *models.ExecutionContext) error {
	query := `
		INSERT INTO execution_contexts (
			id, workflow_id, supplier_id, state, parameters,
			error_message, created_at, started_at, completed_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9
		)
	`

	executor := GetExecutor(ctx, r.db)
	_, err := executor.ExecContext(ctx, query,
		exec.ID,
		exec.WorkflowID,
		exec.SupplierID,
		exec.State,
		exec.Parameters,
		exec.Error,
		exec.CreatedAt,
		exec.StartedAt,
		exec.CompletedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create execution context: %w", err)
	}

	r.logger.Debug("execution context created",
		zap.String("id", exec.ID.String()),
		zap.String("workflow_id", exec.WorkflowID))
	return nil
}

// GetByID retrieves an execution context by ID
func (r *ExecutionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.ExecutionContext, error) {
	query := `
		SELECT ` + executionColumns + `
		FROM execution_contexts
		WHERE id = $1
	`

	executor := GetExecutor(ctx, r.db)
	exec, err := scanExecution(executor.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("execution context not found: %s", id)
		}
		return nil, fmt.Errorf("failed to get execution context: %w", err)
	}

	return exec, nil
}

// Update persists state, error, and timestamp changes
func (r *ExecutionRepository) Update(ctx context.Context, exec *models.ExecutionContext) error {
	query := `
		UPDATE execution_contexts
		SET state = $2, error_message = $3, started_at = $4, completed_at = $5
		WHERE id = $1
	`

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query,
		exec.ID,
		exec.State,
		exec.Error,
		exec.StartedAt,
		exec.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update execution context: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("execution context not found: %s", exec.ID)
	}

	return nil
}

// ListByWorkflow retrieves executions of a workflow, newest first
func (r *ExecutionRepository) ListByWorkflow(ctx context.Context, workflowID string, limit, offset int) ([]*models.ExecutionContext, error) {
	query := `
		SELECT ` + executionColumns + `
		FROM execution_contexts
		WHERE workflow_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	executor := GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query, workflowID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query execution contexts: %w", err)
	}
	defer rows.Close()

	var execs []*models.ExecutionContext
	for rows.Next() {
		exec, err := scanExecution(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan execution context: %w", err)
		}
		execs = append(execs, exec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating execution context rows: %w", err)
	}

	return execs, nil
}

// WithTx returns a new repository instance bound to the transaction
func (r *ExecutionRepository) WithTx(tx repositories.Transaction) repositories.ExecutionRepository {
	return &ExecutionRepository{
		db:     r.db,
		logger: r.logger,
	}
}

func scanExecution(row rowScanner) (*models.ExecutionContext, error) {
	exec := &models.ExecutionContext{}
	var parameters []byte

	err := row.Scan(
		&exec.ID,
		&exec.WorkflowID,
		&exec.SupplierID,
		&exec.State,
		&parameters,
		&exec.Error,
		&exec.CreatedAt,
		&exec.StartedAt,
		&exec.CompletedAt,
	)
	if err != nil {
		return nil, err
	}

	exec.Parameters = parameters
	return exec, nil
}
