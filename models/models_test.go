package models

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// WorkflowDefinition tests
func TestNewWorkflowDefinition(t *testing.T) {
	def := NewWorkflowDefinition("supplier-onboarding", "Supplier Onboarding", "Onboard new suppliers", "1.2.0")

	assert.Equal(t, "supplier-onboarding", def.ID)
	assert.Equal(t, "Supplier Onboarding", def.Name)
	assert.Equal(t, "Onboard new suppliers", def.Description)
	assert.Equal(t, "1.2.0", def.Version)
	assert.Equal(t, WorkflowPriorityMedium, def.Metadata.Priority)
	assert.False(t, def.CreatedAt.IsZero())
	assert.False(t, def.UpdatedAt.IsZero())
}

func TestWorkflowDefinition_TableName(t *testing.T) {
	assert.Equal(t, "workflow_definitions", WorkflowDefinition{}.TableName())
}

func TestWorkflowDefinition_Builders(t *testing.T) {
	def := NewWorkflowDefinition("compliance-review", "Compliance Review", "Monthly compliance", "2.0.1").
		WithMetadata(WorkflowMetadata{
			EstimatedDuration: 90000,
			Priority:          WorkflowPriorityHigh,
			Category:          "compliance",
			Tags:              []string{"monthly", "audit"},
		}).
		WithSteps(
			WorkflowStep{ID: "collect", Name: "Collect documents", Order: 1},
			WorkflowStep{ID: "review", Name: "Review findings", Order: 2},
		)

	assert.Equal(t, WorkflowPriorityHigh, def.Metadata.Priority)
	assert.Equal(t, int64(90000), def.Metadata.EstimatedDuration)
	require.Len(t, def.Steps, 2)
	assert.Equal(t, "collect", def.Steps[0].ID)
}

func TestWorkflowPriority_IsValid(t *testing.T) {
	assert.True(t, WorkflowPriorityLow.IsValid())
	assert.True(t, WorkflowPriorityHigh.IsValid())
	assert.False(t, WorkflowPriority("urgent").IsValid())
}

// AuditEvent tests
func TestNewAuditEvent(t *testing.T) {
	event := NewAuditEvent(EventTypeComplianceCheck, SeverityHigh, "Quarterly compliance check started")

	assert.NotEqual(t, uuid.Nil, event.ID)
	assert.Equal(t, EventTypeComplianceCheck, event.Type)
	assert.Equal(t, SeverityHigh, event.Severity)
	assert.Equal(t, EventStatusPending, event.Status)
	assert.False(t, event.Timestamp.IsZero())
}

func TestAuditEvent_TableName(t *testing.T) {
	assert.Equal(t, "audit_events", AuditEvent{}.TableName())
}

func TestAuditEvent_Builders(t *testing.T) {
	supplierID := uuid.New()
	event := NewAuditEvent(EventTypeDocumentUpload, SeverityLow, "ISO certificate uploaded").
		WithSupplier(supplierID, "Acme Industrial").
		WithStatus(EventStatusCompleted).
		WithActor("user-17", "req-abc").
		WithDetails(map[string]string{"document": "iso9001.pdf"})

	require.NotNil(t, event.SupplierID)
	assert.Equal(t, supplierID, *event.SupplierID)
	assert.Equal(t, "Acme Industrial", event.SupplierName)
	assert.Equal(t, EventStatusCompleted, event.Status)
	assert.Equal(t, "user-17", event.ActorID)

	var details map[string]string
	require.NoError(t, json.Unmarshal(event.Details, &details))
	assert.Equal(t, "iso9001.pdf", details["document"])
}

func TestEventStatus_Normalize(t *testing.T) {
	assert.Equal(t, EventStatusCompleted, EventStatusCompleted.Normalize())
	assert.Equal(t, EventStatusPending, EventStatusPending.Normalize())
	assert.Equal(t, EventStatusFailed, EventStatusFailed.Normalize())
	// Anything outside the enum is failed, not silently passed through.
	assert.Equal(t, EventStatusFailed, EventStatus("rejected").Normalize())
	assert.Equal(t, EventStatusFailed, EventStatus("").Normalize())
}

func TestSeverity_Rank(t *testing.T) {
	assert.Greater(t, SeverityCritical.Rank(), SeverityHigh.Rank())
	assert.Greater(t, SeverityHigh.Rank(), SeverityMedium.Rank())
	assert.Greater(t, SeverityMedium.Rank(), SeverityLow.Rank())
	assert.Equal(t, 0, Severity("mystery").Rank())
}

func TestEventType_IsValid(t *testing.T) {
	assert.True(t, EventTypeAlert.IsValid())
	assert.True(t, EventTypeOther.IsValid())
	assert.False(t, EventType("login").IsValid())
}

// Supplier tests
func TestNewSupplier(t *testing.T) {
	contact := PrimaryContact{Name: "Dana Ruiz", Email: "dana@acme.example", Phone: "+1-555-0100"}
	supplier := NewSupplier("SUP-001", "Acme Industrial", "manufacturing", contact)

	assert.NotEqual(t, uuid.Nil, supplier.ID)
	assert.Equal(t, "SUP-001", supplier.ExternalID)
	assert.Equal(t, SupplierStatusOnboarding, supplier.Status)
	assert.Equal(t, contact, supplier.Contact)
}

func TestSupplier_TableName(t *testing.T) {
	assert.Equal(t, "suppliers", Supplier{}.TableName())
}

// ExecutionContext tests
func TestNewExecutionContext(t *testing.T) {
	exec := NewExecutionContext("supplier-onboarding")

	assert.NotEqual(t, uuid.Nil, exec.ID)
	assert.Equal(t, "supplier-onboarding", exec.WorkflowID)
	assert.Equal(t, ExecutionStateIdle, exec.State)
	assert.Nil(t, exec.StartedAt)
	assert.Nil(t, exec.CompletedAt)
}

func TestExecutionContext_Transitions(t *testing.T) {
	exec := NewExecutionContext("compliance-review")

	exec.MarkPending()
	assert.Equal(t, ExecutionStatePending, exec.State)
	require.NotNil(t, exec.StartedAt)
	assert.False(t, exec.State.IsTerminal())

	exec.MarkSucceeded()
	assert.Equal(t, ExecutionStateSucceeded, exec.State)
	require.NotNil(t, exec.CompletedAt)
	assert.True(t, exec.State.IsTerminal())
}

func TestExecutionContext_MarkFailed(t *testing.T) {
	exec := NewExecutionContext("compliance-review")
	exec.MarkPending()
	exec.MarkFailed("supplier record missing")

	assert.Equal(t, ExecutionStateFailed, exec.State)
	assert.True(t, exec.State.IsTerminal())
	require.NotNil(t, exec.Error)
	assert.Equal(t, "supplier record missing", *exec.Error)
	require.NotNil(t, exec.CompletedAt)
}

// Presentation lookup tests
func TestPresentationLookups(t *testing.T) {
	assert.Equal(t, "Alert", EventTypeAlert.Presentation().Label)
	assert.Equal(t, "red", SeverityCritical.Presentation().Tone)
	assert.Equal(t, "Completed", EventStatusCompleted.Presentation().Label)
	assert.Equal(t, "High", WorkflowPriorityHigh.Presentation().Label)
}

func TestPresentation_UnknownTagFallback(t *testing.T) {
	assert.Equal(t, defaultPresentation, EventType("login").Presentation())
	assert.Equal(t, defaultPresentation, Severity("mystery").Presentation())
	assert.Equal(t, defaultPresentation, WorkflowPriority("urgent").Presentation())
	// Unknown statuses are failed, never the generic default.
	assert.Equal(t, eventStatusPresentations[EventStatusFailed], EventStatus("rejected").Presentation())
}
