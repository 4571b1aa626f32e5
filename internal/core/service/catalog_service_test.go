package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushq/campus-admin-api/internal/core/domain"
)

type stubModuleRepo struct {
	modules []domain.Module
}

func (r *stubModuleRepo) ListAll(_ context.Context) ([]domain.Module, error) {
	return r.modules, nil
}

func TestModulesForRole_FiltersAndOrders(t *testing.T) {
	repo := &stubModuleRepo{modules: []domain.Module{
		{
			Name: "Hostel", Route: "/hostel", Rank: 2,
			AllowedRoles: []domain.Role{domain.RoleAdmin, domain.RoleHostel},
			Submodules: []domain.Submodule{
				{Name: "Allocations", Route: "/hostel/allocations", Rank: 2},
				{Name: "Rooms", Route: "/hostel/rooms", Rank: 1},
			},
		},
		{
			Name: "Courses", Route: "/courses", Rank: 1,
			AllowedRoles: []domain.Role{domain.RoleAdmin, domain.RoleTeacher, domain.RoleStudent},
		},
		{
			Name: "Medical", Route: "/medical", Rank: 3,
			AllowedRoles: []domain.Role{domain.RoleMedical},
		},
	}}
	svc := NewCatalogService(repo, zerolog.Nop())

	modules, err := svc.ModulesForRole(context.Background(), domain.RoleAdmin)
	require.NoError(t, err)
	require.Len(t, modules, 2)
	assert.Equal(t, "Courses", modules[0].Name)
	assert.Equal(t, "Hostel", modules[1].Name)
	assert.Equal(t, "Rooms", modules[1].Submodules[0].Name)

	modules, err = svc.ModulesForRole(context.Background(), domain.RoleMedical)
	require.NoError(t, err)
	require.Len(t, modules, 1)
	assert.Equal(t, "Medical", modules[0].Name)

	modules, err = svc.ModulesForRole(context.Background(), domain.RoleCanteen)
	require.NoError(t, err)
	assert.Empty(t, modules)
}
