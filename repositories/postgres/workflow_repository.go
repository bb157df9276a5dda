package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/supplierdesk/supplier-management/models"
	"github.com/supplierdesk/supplier-management/repositories"
	"go.uber.org/zap"
)

// WorkflowRepository implements the repositories.WorkflowRepository interface.
// Steps and tags are stored as JSONB; the definition is treated as an
// immutable document once written.
type WorkflowRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewWorkflowRepository creates a new workflow definition repository
func NewWorkflowRepository(db *DB, logger *zap.Logger) repositories.WorkflowRepository {
	return &WorkflowRepository{
		db:     db,
		logger: logger,
	}
}

const workflowColumns = `id, name, description, version, steps,
	       estimated_duration_ms, priority, category, tags, created_at, updated_at`

// List retrieves all workflow definitions ordered by name
func (r *WorkflowRepository) List(ctx context.Context) ([]*models.WorkflowDefinition, error) {
	query := `
		SELECT ` + workflowColumns + `
		FROM workflow_definitions
		ORDER BY name
	`

	executor := GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query workflow definitions: %w", err)
	}
	defer rows.Close()

	var defs []*models.WorkflowDefinition
	for rows.Next() {
		def, err := scanWorkflowDefinition(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan workflow definition: %w", err)
		}
		defs = append(defs, def)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating workflow definition rows: %w", err)
	}

	return defs, nil
}

// GetByID retrieves a workflow definition by ID
func (r *WorkflowRepository) GetByID(ctx context.Context, id string) (*models.WorkflowDefinition, error) {
	query := `
		SELECT ` + workflowColumns + `
		FROM workflow_definitions
		WHERE id = $1
	`

	executor := GetExecutor(ctx, r.db)
	def, err := scanWorkflowDefinition(executor.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("workflow definition not found: %s", id)
		}
		return nil, fmt.Errorf("failed to get workflow definition: %w", err)
	}

	return def, nil
}

// Upsert inserts or replaces a workflow definition (used for catalog seeding)
func (r *WorkflowRepository) Upsert(ctx context.Context, def *models.WorkflowDefinition) error {
	steps, err := json.Marshal(def.Steps)
	if err != nil {
		return fmt.Errorf("failed to marshal workflow steps: %w", err)
	}
	tags, err := json.Marshal(def.Metadata.Tags)
	if err != nil {
		return fmt.Errorf("failed to marshal workflow tags: %w", err)
	}

	query := `
		INSERT INTO workflow_definitions (
			id, name, description, version, steps,
			estimated_duration_ms, priority, category, tags, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
		)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			version = EXCLUDED.version,
			steps = EXCLUDED.steps,
			estimated_duration_ms = EXCLUDED.estimated_duration_ms,
			priority = EXCLUDED.priority,
			category = EXCLUDED.category,
			tags = EXCLUDED.tags,
			updated_at = EXCLUDED.updated_at
	`

	executor := GetExecutor(ctx, r.db)
	_, err = executor.ExecContext(ctx, query,
		def.ID,
		def.Name,
		def.Description,
		def.Version,
		steps,
		def.Metadata.EstimatedDuration,
		def.Metadata.Priority,
		nullableString(def.Metadata.Category),
		tags,
		def.CreatedAt,
		def.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to upsert workflow definition: %w", err)
	}

	r.logger.Debug("workflow definition upserted", zap.String("id", def.ID))
	return nil
}

// WithTx returns a new repository instance bound to the transaction
func (r *WorkflowRepository) WithTx(tx repositories.Transaction) repositories.WorkflowRepository {
	return &WorkflowRepository{
		db:     r.db,
		logger: r.logger,
	}
}

func scanWorkflowDefinition(row rowScanner) (*models.WorkflowDefinition, error) {
	def := &models.WorkflowDefinition{}
	var steps, tags []byte
	var category sql.NullString

	err := row.Scan(
		&def.ID,
		&def.Name,
		&def.Description,
		&def.Version,
		&steps,
		&def.Metadata.EstimatedDuration,
		&def.Metadata.Priority,
		&category,
		&tags,
		&def.CreatedAt,
		&def.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(steps) > 0 {
		if err := json.Unmarshal(steps, &def.Steps); err != nil {
			return nil, fmt.Errorf("failed to unmarshal workflow steps: %w", err)
		}
	}
	if len(tags) > 0 {
		if err := json.Unmarshal(tags, &def.Metadata.Tags); err != nil {
			return nil, fmt.Errorf("failed to unmarshal workflow tags: %w", err)
		}
	}
	def.Metadata.Category = category.String
	return def, nil
}
