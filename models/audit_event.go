package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// EventType represents the category of an audit event
type EventType string

const (
	EventTypeComplianceCheck EventType = "compliance_check"
	EventTypeRiskAssessment  EventType = "risk_assessment"
	EventTypeDocumentUpload  EventType = "document_upload"
	EventTypeScoreUpdate     EventType = "score_update"
	EventTypeAlert           EventType = "alert"
	EventTypeApproval        EventType = "approval"
	EventTypeOther           EventType = "other"
)

// IsValid reports whether t is a known event type
func (t EventType) IsValid() bool {
	switch t {
	case EventTypeComplianceCheck, EventTypeRiskAssessment, EventTypeDocumentUpload,
		EventTypeScoreUpdate, EventTypeAlert, EventTypeApproval, EventTypeOther:
		return true
	}
	return false
}

// Severity is an ordinal classification driving visual urgency, not business logic
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// Rank returns the ordinal rank of the severity (critical highest).
// Unknown severities rank below low.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 4
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	}
	return 0
}

// EventStatus represents the terminal state of the audited action.
// The set is exhaustive: anything that is neither completed nor pending
// is recorded as failed.
type EventStatus string

const (
	EventStatusCompleted EventStatus = "completed"
	EventStatusPending   EventStatus = "pending"
	EventStatusFailed    EventStatus = "failed"
)

// Normalize maps any out-of-enum status value onto EventStatusFailed
func (s EventStatus) Normalize() EventStatus {
	switch s {
	case EventStatusCompleted, EventStatusPending:
		return s
	}
	return EventStatusFailed
}

// AuditEvent is an immutable record of a system or human action, tagged with
// type, severity, and status, used for compliance history.
type AuditEvent struct {
	ID           uuid.UUID       `json:"id" db:"id"`
	Type         EventType       `json:"type" db:"event_type"`
	Severity     Severity        `json:"severity" db:"severity"`
	Description  string          `json:"description" db:"description"`
	SupplierID   *uuid.UUID      `json:"supplier_id,omitempty" db:"supplier_id"`
	SupplierName string          `json:"supplier_name,omitempty" db:"supplier_name"`
	Status       EventStatus     `json:"status" db:"status"`
	ActorID      string          `json:"actor_id,omitempty" db:"actor_id"`
	RequestID    string          `json:"request_id,omitempty" db:"request_id"`
	Details      json.RawMessage `json:"details,omitempty" db:"details"`
	Timestamp    time.Time       `json:"timestamp" db:"timestamp"`
}

// TableName returns the table name for the AuditEvent model
func (AuditEvent) TableName() string {
	return "audit_events"
}

// NewAuditEvent creates a new AuditEvent instance
func NewAuditEvent(eventType EventType, severity Severity, description string) *AuditEvent {
	return &AuditEvent{
		ID:          uuid.New(),
		Type:        eventType,
		Severity:    severity,
		Description: description,
		Status:      EventStatusPending,
		Timestamp:   time.Now(),
	}
}

// WithSupplier sets the supplier the event relates to
func (e *AuditEvent) WithSupplier(supplierID uuid.UUID, supplierName string) *AuditEvent {
	e.SupplierID = &supplierID
	e.SupplierName = supplierName
	return e
}

// WithStatus sets the event status, normalizing unknown values to failed
func (e *AuditEvent) WithStatus(status EventStatus) *AuditEvent {
	e.Status = status.Normalize()
	return e
}

// WithActor sets the acting user and originating request
func (e *AuditEvent) WithActor(actorID, requestID string) *AuditEvent {
	e.ActorID = actorID
	e.RequestID = requestID
	return e
}

// WithDetails sets free-form details
func (e *AuditEvent) WithDetails(details interface{}) *AuditEvent {
	if data, err := json.Marshal(details); err == nil {
		e.Details = data
	}
	return e
}

// Page is one page of audit events as returned by the fetch boundary.
// It is regenerated on every page-change request and never mutated client-side.
type Page struct {
	Data     []*AuditEvent `json:"data"`
	Total    int64         `json:"total"`
	PageSize int           `json:"page_size"`
	HasNext  bool          `json:"has_next"`
}
