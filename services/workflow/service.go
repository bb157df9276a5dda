package workflow

import (
	"context"
	"strings"
	"time"

	"github.com/supplierdesk/supplier-management/models"
	"github.com/supplierdesk/supplier-management/repositories"
	"github.com/supplierdesk/supplier-management/services"
	"go.uber.org/zap"
)

// catalogCacheKey is the cache key for the full definition catalog
const catalogCacheKey = "catalog"

// Built-in workflow definition IDs
const (
	WorkflowSupplierOnboarding = "supplier-onboarding"
	WorkflowComplianceReview   = "compliance-review"
)

// Service serves the workflow definition catalog
type Service struct {
	repo   repositories.WorkflowRepository
	cache  *DefinitionCache
	logger *zap.Logger
}

// NewService creates a new workflow Service instance
func NewService(repo repositories.WorkflowRepository, cache *DefinitionCache, logger *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		cache:  cache,
		logger: logger,
	}
}

// List returns all workflow definitions, ordered by name.
// The catalog is cached; definitions change rarely.
func (s *Service) List(ctx context.Context) ([]*models.WorkflowDefinition, error) {
	if defs := s.cache.Get(catalogCacheKey); defs != nil {
		return defs, nil
	}

	defs, err := s.repo.List(ctx)
	if err != nil {
		return nil, services.WrapInternal("failed to list workflow definitions", err)
	}
	if defs == nil {
		defs = []*models.WorkflowDefinition{}
	}

	s.cache.Set(catalogCacheKey, defs)
	return defs, nil
}

// Search returns the definitions whose name or description contains the
// term, preserving catalog order
func (s *Service) Search(ctx context.Context, term string) ([]*models.WorkflowDefinition, error) {
	defs, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return FilterDefinitions(defs, term), nil
}

// GetByID returns a single definition from the catalog
func (s *Service) GetByID(ctx context.Context, id string) (*models.WorkflowDefinition, error) {
	defs, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	for _, def := range defs {
		if def.ID == id {
			return def, nil
		}
	}

	return nil, services.NewDomainError(services.ErrorTypeNotFound,
		"workflow definition not found", nil).WithDetail("workflow_id", id)
}

// InvalidateCatalog drops the cached catalog; the next List reloads it
func (s *Service) InvalidateCatalog() {
	s.cache.Invalidate(catalogCacheKey)
}

// SeedCatalog upserts the built-in workflow definitions. Called once at
// startup so a fresh database serves a usable catalog.
func (s *Service) SeedCatalog(ctx context.Context) error {
	for _, def := range builtinDefinitions() {
		if err := s.repo.Upsert(ctx, def); err != nil {
			return services.WrapInternal("failed to seed workflow catalog", err)
		}
	}

	s.InvalidateCatalog()
	s.logger.Info("workflow catalog seeded")
	return nil
}

func builtinDefinitions() []*models.WorkflowDefinition {
	onboarding := models.NewWorkflowDefinition(
		WorkflowSupplierOnboarding,
		"Supplier Onboarding",
		"Registers a new supplier, collects their documents, and screens them before activation.",
		"1.2.0",
	).WithMetadata(models.WorkflowMetadata{
		EstimatedDuration: (48 * time.Hour).Milliseconds(),
		Priority:          models.WorkflowPriorityHigh,
		Category:          "onboarding",
		Tags:              []string{"supplier", "intake", "screening"},
	}).WithSteps(
		models.WorkflowStep{ID: "register", Name: "Register supplier", Description: "Create the supplier record from the intake form", Order: 1},
		models.WorkflowStep{ID: "collect-documents", Name: "Collect documents", Description: "Gather tax forms, insurance certificates, and banking details", Order: 2},
		models.WorkflowStep{ID: "screen", Name: "Compliance screening", Description: "Run sanctions and adverse media checks", Order: 3},
		models.WorkflowStep{ID: "approve", Name: "Approval", Description: "Final review and activation by the category manager", Order: 4},
	)

	review := models.NewWorkflowDefinition(
		WorkflowComplianceReview,
		"Compliance Review",
		"Periodic compliance review of active suppliers, covering certifications, sanctions, and risk scores.",
		"2.0.1",
	).WithMetadata(models.WorkflowMetadata{
		EstimatedDuration: (24 * time.Hour).Milliseconds(),
		Priority:          models.WorkflowPriorityMedium,
		Category:          "compliance",
		Tags:              []string{"supplier", "compliance", "recurring"},
	}).WithSteps(
		models.WorkflowStep{ID: "refresh-certifications", Name: "Refresh certifications", Description: "Verify certificates on file are still valid", Order: 1},
		models.WorkflowStep{ID: "rescreen", Name: "Re-screen", Description: "Re-run sanctions and watchlist checks", Order: 2},
		models.WorkflowStep{ID: "rescore", Name: "Recompute risk score", Description: "Update the supplier risk score from current data", Order: 3},
	)

	return []*models.WorkflowDefinition{onboarding, review}
}

// FilterDefinitions narrows a definition list by a search term matched
// case-insensitively against the name or the description. An empty term
// returns the input unchanged. Order is preserved.
func FilterDefinitions(defs []*models.WorkflowDefinition, term string) []*models.WorkflowDefinition {
	if term == "" {
		return defs
	}

	needle := strings.ToLower(term)
	filtered := make([]*models.WorkflowDefinition, 0, len(defs))
	for _, def := range defs {
		if strings.Contains(strings.ToLower(def.Name), needle) ||
			strings.Contains(strings.ToLower(def.Description), needle) {
			filtered = append(filtered, def)
		}
	}
	return filtered
}
