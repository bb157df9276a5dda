package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/supplierdesk/supplier-management/config"
	"go.uber.org/zap"
)

// DB wraps the sql.DB connection pool
type DB struct {
	*sql.DB
	logger *zap.Logger
}

// NewDB creates a new database connection pool
func NewDB(cfg config.DatabaseConfig, logger *zap.Logger) (*DB, error) {
	dsn := cfg.DSN()

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("database connection established",
		zap.String("connection", cfg.LogString()))

	return &DB{
		DB:     db,
		logger: logger,
	}, nil
}

// Close closes the database connection pool
func (db *DB) Close() error {
	db.logger.Info("closing database connection")
	return db.DB.Close()
}

// HealthCheck performs a health check on the database
func (db *DB) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}

	var result int
	if err := db.QueryRowContext(ctx, "SELECT 1").Scan(&result); err != nil {
		return fmt.Errorf("database query check failed: %w", err)
	}

	return nil
}

// Stats returns database connection pool statistics
func (db *DB) Stats() sql.DBStats {
	return db.DB.Stats()
}

// InitSchema initializes the database schema
func (db *DB) InitSchema(ctx context.Context) error {
	schema := `
		-- Suppliers table
		CREATE TABLE IF NOT EXISTS suppliers (
			id UUID PRIMARY KEY,
			external_id VARCHAR(100) NOT NULL UNIQUE,
			name VARCHAR(255) NOT NULL,
			category VARCHAR(100) NOT NULL,
			status VARCHAR(50) NOT NULL,
			contact_name VARCHAR(255) NOT NULL,
			contact_email VARCHAR(255) NOT NULL,
			contact_phone VARCHAR(50),
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		-- Workflow definitions table
		CREATE TABLE IF NOT EXISTS workflow_definitions (
			id VARCHAR(100) PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			description TEXT NOT NULL,
			version VARCHAR(50) NOT NULL,
			steps JSONB NOT NULL DEFAULT '[]',
			estimated_duration_ms BIGINT NOT NULL DEFAULT 0,
			priority VARCHAR(20) NOT NULL,
			category VARCHAR(100),
			tags JSONB,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		-- Execution contexts table
		CREATE TABLE IF NOT EXISTS execution_contexts (
			id UUID PRIMARY KEY,
			workflow_id VARCHAR(100) NOT NULL REFERENCES workflow_definitions(id),
			supplier_id UUID REFERENCES suppliers(id) ON DELETE SET NULL,
			state VARCHAR(20) NOT NULL,
			parameters JSONB,
			error_message TEXT,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			started_at TIMESTAMP,
			completed_at TIMESTAMP
		);

		-- Audit events table
		CREATE TABLE IF NOT EXISTS audit_events (
			id UUID PRIMARY KEY,
			event_type VARCHAR(50) NOT NULL,
			severity VARCHAR(20) NOT NULL,
			description TEXT NOT NULL,
			supplier_id UUID,
			supplier_name VARCHAR(255),
			status VARCHAR(20) NOT NULL,
			actor_id VARCHAR(100),
			request_id VARCHAR(255),
			details JSONB,
			timestamp TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		-- Indexes for performance
		CREATE INDEX IF NOT EXISTS idx_suppliers_external_id ON suppliers(external_id);
		CREATE INDEX IF NOT EXISTS idx_suppliers_status ON suppliers(status);

		CREATE INDEX IF NOT EXISTS idx_execution_contexts_workflow_id ON execution_contexts(workflow_id);
		CREATE INDEX IF NOT EXISTS idx_execution_contexts_supplier_id ON execution_contexts(supplier_id);
		CREATE INDEX IF NOT EXISTS idx_execution_contexts_state ON execution_contexts(state);

		CREATE INDEX IF NOT EXISTS idx_audit_events_event_type ON audit_events(event_type);
		CREATE INDEX IF NOT EXISTS idx_audit_events_supplier_id ON audit_events(supplier_id);
		CREATE INDEX IF NOT EXISTS idx_audit_events_timestamp ON audit_events(timestamp);
		CREATE INDEX IF NOT EXISTS idx_audit_events_request_id ON audit_events(request_id);
	`

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	db.logger.Info("database schema initialized successfully")
	return nil
}
