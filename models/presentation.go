package models

// Presentation carries display metadata for a tagged value. The view layer
// resolves icons and colors from Tone; this package only guarantees that
// every known variant has an entry and that unknown variants resolve to an
// explicit default instead of a zero value.
type Presentation struct {
	Label string `json:"label"`
	Tone  string `json:"tone"`
	Icon  string `json:"icon"`
}

var defaultPresentation = Presentation{Label: "Unknown", Tone: "neutral", Icon: "circle"}

var eventTypePresentations = map[EventType]Presentation{
	EventTypeComplianceCheck: {Label: "Compliance Check", Tone: "blue", Icon: "shield"},
	EventTypeRiskAssessment:  {Label: "Risk Assessment", Tone: "amber", Icon: "gauge"},
	EventTypeDocumentUpload:  {Label: "Document Upload", Tone: "slate", Icon: "file"},
	EventTypeScoreUpdate:     {Label: "Score Update", Tone: "violet", Icon: "trending-up"},
	EventTypeAlert:           {Label: "Alert", Tone: "red", Icon: "bell"},
	EventTypeApproval:        {Label: "Approval", Tone: "green", Icon: "check"},
	EventTypeOther:           {Label: "Other", Tone: "neutral", Icon: "circle"},
}

var severityPresentations = map[Severity]Presentation{
	SeverityCritical: {Label: "Critical", Tone: "red", Icon: "alert-octagon"},
	SeverityHigh:     {Label: "High", Tone: "orange", Icon: "alert-triangle"},
	SeverityMedium:   {Label: "Medium", Tone: "amber", Icon: "alert-circle"},
	SeverityLow:      {Label: "Low", Tone: "slate", Icon: "info"},
}

var eventStatusPresentations = map[EventStatus]Presentation{
	EventStatusCompleted: {Label: "Completed", Tone: "green", Icon: "check-circle"},
	EventStatusPending:   {Label: "Pending", Tone: "amber", Icon: "clock"},
	EventStatusFailed:    {Label: "Failed", Tone: "red", Icon: "x-circle"},
}

var priorityPresentations = map[WorkflowPriority]Presentation{
	WorkflowPriorityLow:    {Label: "Low", Tone: "slate", Icon: "arrow-down"},
	WorkflowPriorityMedium: {Label: "Medium", Tone: "amber", Icon: "minus"},
	WorkflowPriorityHigh:   {Label: "High", Tone: "red", Icon: "arrow-up"},
}

// Presentation resolves display metadata for the event type
func (t EventType) Presentation() Presentation {
	if p, ok := eventTypePresentations[t]; ok {
		return p
	}
	return defaultPresentation
}

// Presentation resolves display metadata for the severity
func (s Severity) Presentation() Presentation {
	if p, ok := severityPresentations[s]; ok {
		return p
	}
	return defaultPresentation
}

// Presentation resolves display metadata for the event status.
// Out-of-enum statuses normalize to failed rather than falling through
// to the generic default.
func (s EventStatus) Presentation() Presentation {
	return eventStatusPresentations[s.Normalize()]
}

// Presentation resolves display metadata for the workflow priority
func (p WorkflowPriority) Presentation() Presentation {
	if pr, ok := priorityPresentations[p]; ok {
		return pr
	}
	return defaultPresentation
}
