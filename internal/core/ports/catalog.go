package ports

import (
	"context"

	"github.com/campushq/campus-admin-api/internal/core/domain"
)

type ModuleRepository interface {
	ListAll(ctx context.Context) ([]domain.Module, error)
}

// CatalogService resolves the sidebar tree for a given active role.
type CatalogService interface {
	ModulesForRole(ctx context.Context, role domain.Role) ([]domain.Module, error)
}
