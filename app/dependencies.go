package app

import (
	"context"
	"fmt"
	"time"

	"github.com/supplierdesk/supplier-management/config"
	"github.com/supplierdesk/supplier-management/middleware"
	"github.com/supplierdesk/supplier-management/repositories"
	"github.com/supplierdesk/supplier-management/repositories/postgres"
	"github.com/supplierdesk/supplier-management/services/audit"
	"github.com/supplierdesk/supplier-management/services/onboarding"
	"github.com/supplierdesk/supplier-management/services/workflow"
	"go.uber.org/zap"
)

// catalogCacheTTL bounds how long the workflow catalog is served from
// memory before the next List goes back to the database.
const catalogCacheTTL = 5 * time.Minute

// Dependencies holds all application dependencies.
// This is the central wiring point for dependency injection.
type Dependencies struct {
	// Infrastructure
	Config *config.Config
	DB     *postgres.DB
	Logger *zap.Logger

	// Repository Factory
	RepoFactory *postgres.RepositoryFactory

	// Repositories
	Workflows   repositories.WorkflowRepository
	Suppliers   repositories.SupplierRepository
	Executions  repositories.ExecutionRepository
	AuditEvents repositories.AuditEventRepository
	TxManager   repositories.TransactionManager

	// Services
	WorkflowCatalog *workflow.Service
	Onboarding      *onboarding.Service
	AuditRecorder   *audit.Recorder
	AuditQueries    *audit.QueryService

	// Auth
	AuthMiddleware *middleware.AuthMiddleware
}

// NewDependencies creates and wires up all application dependencies.
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	// Initialize PostgreSQL
	if err := deps.initDatabase(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Initialize repositories
	if err := deps.initRepositories(); err != nil {
		return nil, fmt.Errorf("failed to initialize repositories: %w", err)
	}

	// Initialize domain services
	if err := deps.initServices(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	// Initialize auth (JWT bearer tokens)
	deps.initAuth(cfg)

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

// initDatabase initializes the PostgreSQL database connection and factory
func (d *Dependencies) initDatabase(ctx context.Context, cfg *config.Config) error {
	factory, err := postgres.NewRepositoryFactory(cfg, d.Logger)
	if err != nil {
		return fmt.Errorf("failed to create repository factory: %w", err)
	}

	d.RepoFactory = factory
	d.DB = factory.GetDB()

	// Test the connection
	if err := d.DB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	if err := factory.InitSchema(ctx); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	d.Logger.Info("database connection established",
		zap.String("connection", cfg.Database.LogString()))

	return nil
}

// initRepositories initializes all repository instances
func (d *Dependencies) initRepositories() error {
	repos := d.RepoFactory.NewRepositories()

	d.Workflows = repos.Workflows
	d.Suppliers = repos.Suppliers
	d.Executions = repos.Executions
	d.AuditEvents = repos.AuditEvents
	d.TxManager = d.RepoFactory.GetTransactionManager()

	d.Logger.Info("repositories initialized")
	return nil
}

// initServices wires the workflow catalog, the async audit recorder and
// the onboarding dispatcher on top of the repositories
func (d *Dependencies) initServices(ctx context.Context, cfg *config.Config) error {
	cache := workflow.NewDefinitionCache(16, catalogCacheTTL)
	d.WorkflowCatalog = workflow.NewService(d.Workflows, cache, d.Logger)
	if err := d.WorkflowCatalog.SeedCatalog(ctx); err != nil {
		return fmt.Errorf("failed to seed workflow catalog: %w", err)
	}

	d.AuditRecorder = audit.NewRecorder(d.AuditEvents, d.Logger, audit.Config{
		BufferSize:  cfg.Audit.BufferSize,
		WorkerCount: cfg.Audit.WorkerCount,
	})
	if err := d.AuditRecorder.Start(); err != nil {
		return fmt.Errorf("failed to start audit recorder: %w", err)
	}

	d.AuditQueries = audit.NewQueryService(d.AuditEvents, cfg.Audit.PageSize, d.Logger)

	d.Onboarding = onboarding.NewService(
		d.WorkflowCatalog,
		d.Suppliers,
		d.Executions,
		d.TxManager,
		d.AuditRecorder,
		d.Logger,
	)

	d.Logger.Info("services initialized",
		zap.Int("audit_page_size", cfg.Audit.PageSize),
		zap.Int("audit_workers", cfg.Audit.WorkerCount))
	return nil
}

func (d *Dependencies) initAuth(cfg *config.Config) {
	if cfg.Auth.JWTSecret == "" {
		d.Logger.Warn("JWT secret not configured, protected routes will reject all requests")
		// Use reject-all validator so protected routes return 401
		d.AuthMiddleware = middleware.NewAuthMiddleware(&rejectAllValidator{}, d.Logger)
		return
	}
	validator := middleware.NewJWTValidator(middleware.JWTConfig{
		Secret:   cfg.Auth.JWTSecret,
		Issuer:   cfg.Auth.Issuer,
		Audience: cfg.Auth.Audience,
	})
	d.AuthMiddleware = middleware.NewAuthMiddleware(validator, d.Logger)
	d.Logger.Info("auth middleware initialized",
		zap.String("issuer", cfg.Auth.Issuer))
}

// rejectAllValidator rejects all tokens (used when no JWT secret is configured)
type rejectAllValidator struct{}

func (*rejectAllValidator) ValidateToken(context.Context, string) (*middleware.Claims, error) {
	return nil, fmt.Errorf("authentication not configured")
}

// Close gracefully shuts down all dependencies
func (d *Dependencies) Close(ctx context.Context) error {
	d.Logger.Info("shutting down dependencies")

	var errs []error

	// Drain the audit buffer before the database goes away
	if d.AuditRecorder != nil {
		timeout := 10 * time.Second
		if deadline, ok := ctx.Deadline(); ok {
			timeout = time.Until(deadline)
		}
		if err := d.AuditRecorder.Stop(timeout); err != nil {
			errs = append(errs, fmt.Errorf("failed to stop audit recorder: %w", err))
		} else {
			d.Logger.Info("audit recorder drained")
		}
	}

	// Close database connection
	if d.RepoFactory != nil {
		if err := d.RepoFactory.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		} else {
			d.Logger.Info("database connection closed")
		}
	}

	// Sync logger
	if d.Logger != nil {
		_ = d.Logger.Sync()
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors during shutdown: %v", errs)
	}

	return nil
}
