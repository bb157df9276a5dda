package models

import (
	"time"
)

// WorkflowPriority represents the scheduling priority of a workflow definition
type WorkflowPriority string

const (
	WorkflowPriorityLow    WorkflowPriority = "low"
	WorkflowPriorityMedium WorkflowPriority = "medium"
	WorkflowPriorityHigh   WorkflowPriority = "high"
)

// IsValid reports whether p is a known workflow priority
func (p WorkflowPriority) IsValid() bool {
	switch p {
	case WorkflowPriorityLow, WorkflowPriorityMedium, WorkflowPriorityHigh:
		return true
	}
	return false
}

// WorkflowStep is a single step within a workflow definition
type WorkflowStep struct {
	ID          string `json:"id" db:"id"`
	Name        string `json:"name" db:"name"`
	Description string `json:"description,omitempty" db:"description"`
	Order       int    `json:"order" db:"step_order"`
}

// WorkflowMetadata holds descriptive metadata attached to a workflow definition
type WorkflowMetadata struct {
	// EstimatedDuration is the expected runtime in milliseconds
	EstimatedDuration int64            `json:"estimated_duration"`
	Priority          WorkflowPriority `json:"priority"`
	Category          string           `json:"category"`
	Tags              []string         `json:"tags,omitempty"`
}

// WorkflowDefinition is a named, versioned template describing an automatable
// business process and its ordered steps. Definitions are immutable once
// fetched; consumers filter and render them but never mutate them.
type WorkflowDefinition struct {
	ID          string           `json:"id" db:"id"`
	Name        string           `json:"name" db:"name"`
	Description string           `json:"description" db:"description"`
	Version     string           `json:"version" db:"version"`
	Steps       []WorkflowStep   `json:"steps"`
	Metadata    WorkflowMetadata `json:"metadata"`
	CreatedAt   time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at" db:"updated_at"`
}

// TableName returns the table name for the WorkflowDefinition model
func (WorkflowDefinition) TableName() string {
	return "workflow_definitions"
}

// NewWorkflowDefinition creates a new WorkflowDefinition instance
func NewWorkflowDefinition(id, name, description, version string) *WorkflowDefinition {
	now := time.Now()
	return &WorkflowDefinition{
		ID:          id,
		Name:        name,
		Description: description,
		Version:     version,
		Metadata: WorkflowMetadata{
			Priority: WorkflowPriorityMedium,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// WithMetadata sets the definition metadata
func (w *WorkflowDefinition) WithMetadata(meta WorkflowMetadata) *WorkflowDefinition {
	w.Metadata = meta
	return w
}

// WithSteps sets the ordered step sequence
func (w *WorkflowDefinition) WithSteps(steps ...WorkflowStep) *WorkflowDefinition {
	w.Steps = steps
	return w
}
