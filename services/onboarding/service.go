package onboarding

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/supplierdesk/supplier-management/internal/observability"
	"github.com/supplierdesk/supplier-management/models"
	"github.com/supplierdesk/supplier-management/repositories"
	"github.com/supplierdesk/supplier-management/services"
	"github.com/supplierdesk/supplier-management/services/audit"
	"github.com/supplierdesk/supplier-management/services/workflow"
	"github.com/supplierdesk/supplier-management/utils"
	"go.uber.org/zap"
)

// Review cadences accepted by StartComplianceReview
const (
	CadenceWeekly    = "weekly"
	CadenceMonthly   = "monthly"
	CadenceQuarterly = "quarterly"
	CadenceAnnual    = "annual"
)

// StartOnboardingRequest carries the intake form for a new supplier
type StartOnboardingRequest struct {
	SupplierID        string                    `json:"supplier_id" validate:"required,min=3,max=100"`
	SupplierName      string                    `json:"supplier_name" validate:"required,min=2,max=255"`
	Category          string                    `json:"category" validate:"required,max=100"`
	UploadedDocuments []models.UploadedDocument `json:"uploaded_documents" validate:"dive"`
	PrimaryContact    models.PrimaryContact     `json:"primary_contact" validate:"required"`

	// Set by the handler from the authenticated request, not the body
	ActorID   string `json:"-"`
	RequestID string `json:"-"`
}

// StartReviewRequest schedules a compliance review for a set of suppliers
type StartReviewRequest struct {
	SupplierIDs []uuid.UUID `json:"supplier_ids" validate:"required,min=1"`
	Cadence     string      `json:"cadence" validate:"required,oneof=weekly monthly quarterly annual"`

	ActorID   string `json:"-"`
	RequestID string `json:"-"`
}

// Service dispatches workflow start requests: it creates the supplier and
// execution records transactionally and leaves an audit trail for each start.
type Service struct {
	workflows  *workflow.Service
	suppliers  repositories.SupplierRepository
	executions repositories.ExecutionRepository
	txManager  repositories.TransactionManager
	recorder   *audit.Recorder
	logger     *zap.Logger
}

// NewService creates a new onboarding Service instance
func NewService(
	workflows *workflow.Service,
	suppliers repositories.SupplierRepository,
	executions repositories.ExecutionRepository,
	txManager repositories.TransactionManager,
	recorder *audit.Recorder,
	logger *zap.Logger,
) *Service {
	return &Service{
		workflows:  workflows,
		suppliers:  suppliers,
		executions: executions,
		txManager:  txManager,
		recorder:   recorder,
		logger:     logger,
	}
}

// StartSupplierOnboarding registers a new supplier and dispatches the
// onboarding workflow for it. The supplier and execution records are
// written in one transaction; the returned execution ends in the
// succeeded state, or the call fails and nothing is persisted.
func (s *Service) StartSupplierOnboarding(ctx context.Context, req StartOnboardingRequest) (*models.ExecutionContext, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, services.WrapError(services.ErrorTypeValidation, "invalid onboarding request", err)
	}

	if _, err := s.workflows.GetByID(ctx, workflow.WorkflowSupplierOnboarding); err != nil {
		return nil, err
	}

	if _, err := s.suppliers.GetByExternalID(ctx, req.SupplierID); err == nil {
		return nil, services.NewDomainError(services.ErrorTypeConflict,
			"supplier already exists", nil).WithDetail("supplier_id", req.SupplierID)
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, services.WrapInternal("failed to check for existing supplier", err)
	}

	supplier := models.NewSupplier(req.SupplierID, req.SupplierName, req.Category, req.PrimaryContact)
	exec := models.NewExecutionContext(workflow.WorkflowSupplierOnboarding).
		WithSupplier(supplier.ID).
		WithParameters(map[string]interface{}{
			"supplier_id":    req.SupplierID,
			"category":       req.Category,
			"document_count": len(req.UploadedDocuments),
		})
	exec.MarkPending()

	err := s.txManager.InTransaction(ctx, func(txCtx context.Context, tx repositories.Transaction) error {
		if err := s.suppliers.Create(txCtx, supplier); err != nil {
			return err
		}
		return s.executions.Create(txCtx, exec)
	})
	if err != nil {
		exec.MarkFailed(err.Error())
		observability.WorkflowStartsTotal.WithLabelValues(exec.WorkflowID, string(exec.State)).Inc()
		if auditErr := s.recorder.RecordWorkflowFailed(exec, "onboarding transaction failed", req.ActorID, req.RequestID); auditErr != nil {
			s.logger.Warn("failed to record workflow failure", zap.Error(auditErr))
		}
		return nil, services.WrapError(services.ErrorTypeInternal, "failed to start supplier onboarding", err)
	}

	exec.MarkSucceeded()
	if err := s.executions.Update(ctx, exec); err != nil {
		s.logger.Error("failed to finalize execution state",
			zap.Error(err),
			zap.String("execution_id", exec.ID.String()))
	}
	observability.WorkflowStartsTotal.WithLabelValues(exec.WorkflowID, string(exec.State)).Inc()

	if err := s.recorder.RecordOnboardingStarted(supplier, exec, req.ActorID, req.RequestID); err != nil {
		s.logger.Warn("failed to record onboarding start", zap.Error(err))
	}
	for _, doc := range req.UploadedDocuments {
		if err := s.recorder.RecordDocumentUploaded(supplier, doc, req.ActorID, req.RequestID); err != nil {
			s.logger.Warn("failed to record document upload", zap.Error(err))
		}
	}

	s.logger.Info("supplier onboarding started",
		zap.String("supplier_id", req.SupplierID),
		zap.String("execution_id", exec.ID.String()))

	return exec, nil
}

// StartComplianceReview dispatches the compliance review workflow for each
// supplier. All executions are created in one transaction; an unknown
// supplier fails the whole batch.
func (s *Service) StartComplianceReview(ctx context.Context, req StartReviewRequest) ([]*models.ExecutionContext, error) {
	if err := utils.ValidateStruct(req); err != nil {
		if len(req.SupplierIDs) == 0 {
			return nil, services.ErrNoSuppliers
		}
		return nil, services.WrapError(services.ErrorTypeValidation, "invalid review request", err)
	}

	if _, err := s.workflows.GetByID(ctx, workflow.WorkflowComplianceReview); err != nil {
		return nil, err
	}

	suppliers := make([]*models.Supplier, 0, len(req.SupplierIDs))
	for _, id := range req.SupplierIDs {
		supplier, err := s.suppliers.GetByID(ctx, id)
		if err != nil {
			return nil, services.NewDomainError(services.ErrorTypeNotFound,
				"supplier not found", err).WithDetail("supplier_id", id.String())
		}
		suppliers = append(suppliers, supplier)
	}

	execs := make([]*models.ExecutionContext, 0, len(suppliers))
	for _, supplier := range suppliers {
		exec := models.NewExecutionContext(workflow.WorkflowComplianceReview).
			WithSupplier(supplier.ID).
			WithParameters(map[string]interface{}{
				"cadence":  req.Cadence,
				"category": supplier.Category,
			})
		exec.MarkPending()
		execs = append(execs, exec)
	}

	err := s.txManager.InTransaction(ctx, func(txCtx context.Context, tx repositories.Transaction) error {
		for _, exec := range execs {
			if err := s.executions.Create(txCtx, exec); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		for _, exec := range execs {
			exec.MarkFailed(err.Error())
			observability.WorkflowStartsTotal.WithLabelValues(exec.WorkflowID, string(exec.State)).Inc()
		}
		return nil, services.WrapError(services.ErrorTypeInternal, "failed to schedule compliance reviews", err)
	}

	for i, exec := range execs {
		exec.MarkSucceeded()
		if err := s.executions.Update(ctx, exec); err != nil {
			s.logger.Error("failed to finalize execution state",
				zap.Error(err),
				zap.String("execution_id", exec.ID.String()))
		}
		observability.WorkflowStartsTotal.WithLabelValues(exec.WorkflowID, string(exec.State)).Inc()

		supplier := suppliers[i]
		if err := s.recorder.RecordComplianceReviewScheduled(supplier.ID, supplier.Name, exec, req.Cadence, req.ActorID, req.RequestID); err != nil {
			s.logger.Warn("failed to record review scheduling", zap.Error(err))
		}
	}

	s.logger.Info("compliance reviews scheduled",
		zap.Int("supplier_count", len(suppliers)),
		zap.String("cadence", req.Cadence))

	return execs, nil
}

// GetExecution returns the current state of one execution context
func (s *Service) GetExecution(ctx context.Context, id uuid.UUID) (*models.ExecutionContext, error) {
	exec, err := s.executions.GetByID(ctx, id)
	if err != nil {
		return nil, services.NewDomainError(services.ErrorTypeNotFound,
			"execution context not found", err).WithDetail("execution_id", id.String())
	}
	return exec, nil
}
