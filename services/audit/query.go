package audit

import (
	"context"
	"strings"

	"github.com/supplierdesk/supplier-management/internal/paging"
	"github.com/supplierdesk/supplier-management/models"
	"github.com/supplierdesk/supplier-management/repositories"
	"github.com/supplierdesk/supplier-management/services"
	"go.uber.org/zap"
)

// TypeFilterAll matches every event type
const TypeFilterAll = "all"

// Query describes one page request against the audit trail
type Query struct {
	Page       int    // 1-based page number
	TypeFilter string // event type tag, or "all" / empty for no type filter
	Search     string // case-insensitive substring on description or supplier name
}

// QueryService serves paged, filtered views of the audit trail
type QueryService struct {
	repo     repositories.AuditEventRepository
	pageSize int
	logger   *zap.Logger
}

// NewQueryService creates a new QueryService instance
func NewQueryService(repo repositories.AuditEventRepository, pageSize int, logger *zap.Logger) *QueryService {
	if pageSize < 1 {
		pageSize = paging.DefaultPageSize
	}
	return &QueryService{
		repo:     repo,
		pageSize: pageSize,
		logger:   logger,
	}
}

// PageSize returns the fixed page size used for audit queries
func (s *QueryService) PageSize() int {
	return s.pageSize
}

// ListEvents returns one page of events matching the query, newest first.
// The page is rebuilt from storage on every call so the total and has_next
// flags always describe the current state of the trail.
func (s *QueryService) ListEvents(ctx context.Context, query Query) (*models.Page, error) {
	page := query.Page
	if page < 1 {
		page = 1
	}

	filter := repositories.EventFilter{
		Search: strings.TrimSpace(query.Search),
		Limit:  s.pageSize,
		Offset: (page - 1) * s.pageSize,
	}

	if typeFilter := strings.TrimSpace(query.TypeFilter); typeFilter != "" && typeFilter != TypeFilterAll {
		eventType := models.EventType(typeFilter)
		if !eventType.IsValid() {
			return nil, services.NewDomainError(services.ErrorTypeValidation,
				"invalid audit event type", nil).WithDetail("type", typeFilter)
		}
		filter.Type = eventType
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return nil, services.WrapInternal("failed to count audit events", err)
	}

	events, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, services.WrapInternal("failed to list audit events", err)
	}
	if events == nil {
		events = []*models.AuditEvent{}
	}

	return &models.Page{
		Data:     events,
		Total:    total,
		PageSize: s.pageSize,
		HasNext:  paging.HasNext(total, page, s.pageSize),
	}, nil
}

// FilterEvents narrows an in-memory event list by type tag and search term.
// A typeFilter of "all" (or empty) matches every type; any other value must
// equal the event's type exactly. The term matches case-insensitively
// against the description or the supplier name, and both conditions must
// hold. Order is preserved.
func FilterEvents(events []*models.AuditEvent, typeFilter, term string) []*models.AuditEvent {
	matchAll := typeFilter == "" || typeFilter == TypeFilterAll
	needle := strings.ToLower(term)

	filtered := make([]*models.AuditEvent, 0, len(events))
	for _, event := range events {
		if !matchAll && string(event.Type) != typeFilter {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(event.Description), needle) &&
			!strings.Contains(strings.ToLower(event.SupplierName), needle) {
			continue
		}
		filtered = append(filtered, event)
	}
	return filtered
}
