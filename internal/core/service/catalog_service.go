package service

import (
	"context"
	"sort"

	"github.com/rs/zerolog"

	"github.com/campushq/campus-admin-api/internal/core/domain"
	"github.com/campushq/campus-admin-api/internal/core/ports"
)

// CatalogService resolves which sidebar modules an active role may see.
type CatalogService struct {
	repo   ports.ModuleRepository
	logger zerolog.Logger
}

func NewCatalogService(repo ports.ModuleRepository, logger zerolog.Logger) *CatalogService {
	return &CatalogService{repo: repo, logger: logger}
}

// ModulesForRole returns the modules visible to role, ordered by rank, with
// each module's submodules ordered by rank as well.
func (s *CatalogService) ModulesForRole(ctx context.Context, role domain.Role) ([]domain.Module, error) {
	all, err := s.repo.ListAll(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load module catalog")
		return nil, err
	}

	visible := make([]domain.Module, 0, len(all))
	for _, m := range all {
		if !m.VisibleTo(role) {
			continue
		}
		sort.Slice(m.Submodules, func(i, j int) bool {
			return m.Submodules[i].Rank < m.Submodules[j].Rank
		})
		visible = append(visible, m)
	}
	sort.Slice(visible, func(i, j int) bool { return visible[i].Rank < visible[j].Rank })

	return visible, nil
}
