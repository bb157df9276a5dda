package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/supplierdesk/supplier-management/models"
	"github.com/supplierdesk/supplier-management/repositories"
	"go.uber.org/zap"
)

// SupplierRepository implements the repositories.SupplierRepository interface
type SupplierRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewSupplierRepository creates a new supplier repository
func NewSupplierRepository(db *DB, logger *zap.Logger) repositories.SupplierRepository {
	return &SupplierRepository{
		db:     db,
		logger: logger,
	}
}

const supplierColumns = `id, external_id, name, category, status,
	       contact_name, contact_email, contact_phone, created_at, updated_at`

// Create creates a new supplier
func (r *SupplierRepository) Create(ctx context.Context, supplier *models.Supplier) error {
	query := `
		INSERT INTO suppliers (
			id, external_id, name, category, status,
			contact_name, contact_email, contact_phone, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
		)
	`

	executor := GetExecutor(ctx, r.db)
	_, err := executor.ExecContext(ctx, query,
		supplier.ID,
		supplier.ExternalID,
		supplier.Name,
		supplier.Category,
		supplier.Status,
		supplier.Contact.Name,
		supplier.Contact.Email,
		nullableString(supplier.Contact.Phone),
		supplier.CreatedAt,
		supplier.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create supplier: %w", err)
	}

	r.logger.Debug("supplier created",
		zap.String("id", supplier.ID.String()),
		zap.String("external_id", supplier.ExternalID))
	return nil
}

// GetByID retrieves a supplier by ID
func (r *SupplierRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Supplier, error) {
	query := `
		SELECT ` + supplierColumns + `
		FROM suppliers
		WHERE id = $1
	`

	executor := GetExecutor(ctx, r.db)
	supplier, err := scanSupplier(executor.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("supplier not found: %s", id)
		}
		return nil, fmt.Errorf("failed to get supplier: %w", err)
	}

	return supplier, nil
}

// GetByExternalID retrieves a supplier by its external identifier
func (r *SupplierRepository) GetByExternalID(ctx context.Context, externalID string) (*models.Supplier, error) {
	query := `
		SELECT ` + supplierColumns + `
		FROM suppliers
		WHERE external_id = $1
	`

	executor := GetExecutor(ctx, r.db)
	supplier, err := scanSupplier(executor.QueryRowContext(ctx, query, externalID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("failed to get supplier by external id: %w", err)
	}

	return supplier, nil
}

// List retrieves suppliers with pagination, ordered by name
func (r *SupplierRepository) List(ctx context.Context, limit, offset int) ([]*models.Supplier, error) {
	query := `
		SELECT ` + supplierColumns + `
		FROM suppliers
		ORDER BY name
		LIMIT $1 OFFSET $2
	`

	executor := GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query suppliers: %w", err)
	}
	defer rows.Close()

	var suppliers []*models.Supplier
	for rows.Next() {
		supplier, err := scanSupplier(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan supplier: %w", err)
		}
		suppliers = append(suppliers, supplier)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating supplier rows: %w", err)
	}

	return suppliers, nil
}

// UpdateStatus updates a supplier's lifecycle status
func (r *SupplierRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.SupplierStatus) error {
	query := `
		UPDATE suppliers
		SET status = $2, updated_at = $3
		WHERE id = $1
	`

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query, id, status, time.Now())
	if err != nil {
		return fmt.Errorf("failed to update supplier status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("supplier not found: %s", id)
	}

	return nil
}

// WithTx returns a new repository instance bound to the transaction
func (r *SupplierRepository) WithTx(tx repositories.Transaction) repositories.SupplierRepository {
	return &SupplierRepository{
		db:     r.db,
		logger: r.logger,
	}
}

func scanSupplier(row rowScanner) (*models.Supplier, error) {
	supplier := &models.Supplier{}
	var phone sql.NullString

	err := row.Scan(
		&supplier.ID,
		&supplier.ExternalID,
		&supplier.Name,
		&supplier.Category,
		&supplier.Status,
		&supplier.Contact.Name,
		&supplier.Contact.Email,
		&phone,
		&supplier.CreatedAt,
		&supplier.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	supplier.Contact.Phone = phone.String
	return supplier, nil
}
