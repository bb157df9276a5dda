package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ExecutionState represents the lifecycle of a workflow start request.
// A newly created context is idle, moves to pending when the request is
// dispatched, and ends in succeeded or failed.
type ExecutionState string

const (
	ExecutionStateIdle      ExecutionState = "idle"
	ExecutionStatePending   ExecutionState = "pending"
	ExecutionStateSucceeded ExecutionState = "succeeded"
	ExecutionStateFailed    ExecutionState = "failed"
)

// IsTerminal reports whether the state allows no further transitions
func (s ExecutionState) IsTerminal() bool {
	return s == ExecutionStateSucceeded || s == ExecutionStateFailed
}

// ExecutionContext is a runtime instance of a workflow definition being
// carried out for a specific supplier.
type ExecutionContext struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	WorkflowID  string          `json:"workflow_id" db:"workflow_id"`
	SupplierID  *uuid.UUID      `json:"supplier_id,omitempty" db:"supplier_id"`
	State       ExecutionState  `json:"state" db:"state"`
	Parameters  json.RawMessage `json:"parameters,omitempty" db:"parameters"`
	Error       *string         `json:"error,omitempty" db:"error_message"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	StartedAt   *time.Time      `json:"started_at,omitempty" db:"started_at"`
	CompletedAt *time.Time      `json:"completed_at,omitempty" db:"completed_at"`
}

// TableName returns the table name for the ExecutionContext model
func (ExecutionContext) TableName() string {
	return "execution_contexts"
}

// NewExecutionContext creates a new ExecutionContext in the idle state
func NewExecutionContext(workflowID string) *ExecutionContext {
	return &ExecutionContext{
		ID:         uuid.New(),
		WorkflowID: workflowID,
		State:      ExecutionStateIdle,
		CreatedAt:  time.Now(),
	}
}

// WithSupplier binds the execution to a supplier
func (e *ExecutionContext) WithSupplier(supplierID uuid.UUID) *ExecutionContext {
	e.SupplierID = &supplierID
	return e
}

// WithParameters sets the start parameters
func (e *ExecutionContext) WithParameters(params interface{}) *ExecutionContext {
	if data, err := json.Marshal(params); err == nil {
		e.Parameters = data
	}
	return e
}

// MarkPending transitions the execution to pending
func (e *ExecutionContext) MarkPending() {
	now := time.Now()
	e.State = ExecutionStatePending
	e.StartedAt = &now
}

// MarkSucceeded transitions the execution to succeeded
func (e *ExecutionContext) MarkSucceeded() {
	now := time.Now()
	e.State = ExecutionStateSucceeded
	e.CompletedAt = &now
}

// MarkFailed transitions the execution to failed and records the reason
func (e *ExecutionContext) MarkFailed(reason string) {
	now := time.Now()
	e.State = ExecutionStateFailed
	e.Error = &reason
	e.CompletedAt = &now
}
