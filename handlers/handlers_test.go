package handlers

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/supplierdesk/supplier-management/app"
	"github.com/supplierdesk/supplier-management/models"
	"github.com/supplierdesk/supplier-management/repositories"
	"github.com/supplierdesk/supplier-management/services/audit"
	"github.com/supplierdesk/supplier-management/services/onboarding"
	"github.com/supplierdesk/supplier-management/services/workflow"
	"go.uber.org/zap"
)

// MockWorkflowRepository is a mock implementation of repositories.WorkflowRepository
type MockWorkflowRepository struct {
	mock.Mock
}

func (m *MockWorkflowRepository) List(ctx context.Context) ([]*models.WorkflowDefinition, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.WorkflowDefinition), args.Error(1)
}

func (m *MockWorkflowRepository) GetByID(ctx context.Context, id string) (*models.WorkflowDefinition, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WorkflowDefinition), args.Error(1)
}

func (m *MockWorkflowRepository) Upsert(ctx context.Context, def *models.WorkflowDefinition) error {
	args := m.Called(ctx, def)
	return args.Error(0)
}

func (m *MockWorkflowRepository) WithTx(tx repositories.Transaction) repositories.WorkflowRepository {
	return m
}

// MockAuditEventRepository is a mock implementation of repositories.AuditEventRepository
type MockAuditEventRepository struct {
	mock.Mock
}

func (m *MockAuditEventRepository) Insert(ctx context.Context, event *models.AuditEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockAuditEventRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.AuditEvent, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AuditEvent), args.Error(1)
}

func (m *MockAuditEventRepository) List(ctx context.Context, filter repositories.EventFilter) ([]*models.AuditEvent, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.AuditEvent), args.Error(1)
}

func (m *MockAuditEventRepository) Count(ctx context.Context, filter repositories.EventFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAuditEventRepository) WithTx(tx repositories.Transaction) repositories.AuditEventRepository {
	return m
}

// MockExecutionRepository is a mock implementation of repositories.ExecutionRepository
type MockExecutionRepository struct {
	mock.Mock
}

func (m *MockExecutionRepository) Create(ctx context.Context, exec *models.ExecutionContext) error {
	args := m.Called(ctx, exec)
	return args.Error(0)
}

func (m *MockExecutionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.ExecutionContext, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ExecutionContext), args.Error(1)
}

func (m *MockExecutionRepository) Update(ctx context.Context, exec *models.ExecutionContext) error {
	args := m.Called(ctx, exec)
	return args.Error(0)
}

func (m *MockExecutionRepository) ListByWorkflow(ctx context.Context, workflowID string, limit, offset int) ([]*models.ExecutionContext, error) {
	args := m.Called(ctx, workflowID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ExecutionContext), args.Error(1)
}

func (m *MockExecutionRepository) WithTx(tx repositories.Transaction) repositories.ExecutionRepository {
	return m
}

// testMocks bundles the repositories behind the handler dependencies
type testMocks struct {
	workflows  *MockWorkflowRepository
	executions *MockExecutionRepository
	audits     *MockAuditEventRepository
}

// newTestDeps wires real services over mocked repositories
func newTestDeps(t *testing.T) (*app.Dependencies, *testMocks) {
	t.Helper()

	logger := zap.NewNop()
	mocks := &testMocks{
		workflows:  new(MockWorkflowRepository),
		executions: new(MockExecutionRepository),
		audits:     new(MockAuditEventRepository),
	}

	cache := workflow.NewDefinitionCache(16, time.Minute)
	catalog := workflow.NewService(mocks.workflows, cache, logger)

	recorder := audit.NewRecorder(mocks.audits, logger, audit.Config{BufferSize: 16, WorkerCount: 1})

	deps := &app.Dependencies{
		Logger:          logger,
		WorkflowCatalog: catalog,
		AuditRecorder:   recorder,
		AuditQueries:    audit.NewQueryService(mocks.audits, 20, logger),
		Onboarding: onboarding.NewService(
			catalog, nil, mocks.executions, nil, recorder, logger,
		),
	}
	return deps, mocks
}
