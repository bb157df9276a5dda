package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/supplierdesk/supplier-management/models"
	"github.com/supplierdesk/supplier-management/repositories"
	"go.uber.org/zap"
)

// AuditEventRepository implements the repositories.AuditEventRepository interface
type AuditEventRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewAuditEventRepository creates a new audit event repository
func NewAuditEventRepository(db *DB, logger *zap.Logger) repositories.AuditEventRepository {
	return &AuditEventRepository{
		db:     db,
		logger: logger,
	}
}

const auditEventColumns = `id, event_type, severity, description, supplier_id, supplier_name,
	       status, actor_id, request_id, details, timestamp`

// Insert inserts a new audit event
func (r *AuditEventRepository) Insert(ctx context.Context, event *models.AuditEvent) error {
	query := `
		INSERT INTO audit_events (
			id, event_type, severity, description, supplier_id, supplier_name,
			status, actor_id, request_id, details, timestamp
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
		)
	`

	executor := GetExecutor(ctx, r.db)
	_, err := executor.ExecContext(ctx, query,
		event.ID,
		event.Type,
		event.Severity,
		event.Description,
		event.SupplierID,
		nullableString(event.SupplierName),
		event.Status.Normalize(),
		nullableString(event.ActorID),
		nullableString(event.RequestID),
		event.Details,
		event.Timestamp,
	)

	if err != nil {
		return fmt.Errorf("failed to insert audit event: %w", err)
	}

	r.logger.Debug("audit event inserted",
		zap.String("id", event.ID.String()),
		zap.String("type", string(event.Type)))
	return nil
}

// GetByID retrieves an audit event by ID
func (r *AuditEventRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.AuditEvent, error) {
	query := `
		SELECT ` + auditEventColumns + `
		FROM audit_events
		WHERE id = $1
	`

	executor := GetExecutor(ctx, r.db)
	event, err := scanAuditEvent(executor.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("audit event not found: %s", id)
		}
		return nil, fmt.Errorf("failed to get audit event: %w", err)
	}

	return event, nil
}

// List retrieves events matching the filter, newest first
func (r *AuditEventRepository) List(ctx context.Context, filter repositories.EventFilter) ([]*models.AuditEvent, error) {
	where, args := buildEventWhere(filter)

	query := `
		SELECT ` + auditEventColumns + `
		FROM audit_events
		` + where + `
		ORDER BY timestamp DESC
		LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)
	args = append(args, filter.Limit, filter.Offset)

	executor := GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit events: %w", err)
	}
	defer rows.Close()

	var events []*models.AuditEvent
	for rows.Next() {
		event, err := scanAuditEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan audit event: %w", err)
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating audit event rows: %w", err)
	}

	return events, nil
}

// Count returns the number of events matching the filter, ignoring Limit/Offset
func (r *AuditEventRepository) Count(ctx context.Context, filter repositories.EventFilter) (int64, error) {
	where, args := buildEventWhere(filter)

	query := `SELECT COUNT(*) FROM audit_events ` + where

	executor := GetExecutor(ctx, r.db)
	var total int64
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count audit events: %w", err)
	}

	return total, nil
}

// WithTx returns a new repository instance bound to the transaction
func (r *AuditEventRepository) WithTx(tx repositories.Transaction) repositories.AuditEventRepository {
	return &AuditEventRepository{
		db:     r.db,
		logger: r.logger,
	}
}

// likeEscaper neutralizes the LIKE metacharacters so a search term is
// always matched literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// buildEventWhere assembles the WHERE clause shared by List and Count so
// the total always describes the same result set as the page.
func buildEventWhere(filter repositories.EventFilter) (string, []interface{}) {
	var conditions []string
	var args []interface{}

	if filter.Type != "" {
		args = append(args, filter.Type)
		conditions = append(conditions, fmt.Sprintf("event_type = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+likeEscaper.Replace(filter.Search)+"%")
		n := len(args)
		conditions = append(conditions,
			fmt.Sprintf("(description ILIKE $%d OR supplier_name ILIKE $%d)", n, n))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		conditions = append(conditions, fmt.Sprintf("timestamp >= $%d", len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		conditions = append(conditions, fmt.Sprintf("timestamp <= $%d", len(args)))
	}

	if len(conditions) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conditions, " AND "), args
}

// rowScanner covers both *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAuditEvent(row rowScanner) (*models.AuditEvent, error) {
	event := &models.AuditEvent{}
	var supplierName, actorID, requestID sql.NullString
	var details []byte

	err := row.Scan(
		&event.ID,
		&event.Type,
		&event.Severity,
		&event.Description,
		&event.SupplierID,
		&supplierName,
		&event.Status,
		&actorID,
		&requestID,
		&details,
		&event.Timestamp,
	)
	if err != nil {
		return nil, err
	}

	event.SupplierName = supplierName.String
	event.ActorID = actorID.String
	event.RequestID = requestID.String
	event.Details = details
	return event, nil
}

func nullableString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
