package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/campushq/campus-admin-api/internal/core/domain"
	"github.com/campushq/campus-admin-api/internal/core/ports"
)

type CatalogHandler struct {
	catalog ports.CatalogService
}

func NewCatalogHandler(catalog ports.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

type moduleListResponse struct {
	Modules []domain.Module `json:"modules"`
}

// Modules returns the sidebar tree for the session's active role.
//
// @Summary      Sidebar modules for the active role
// @Tags         catalog
// @Produce      json
// @Success      200  {object}  moduleListResponse
// @Failure      401  {object}  map[string]string
// @Router       /catalog/modules [get]
func (h *CatalogHandler) Modules(c echo.Context) error {
	role, _ := c.Get("role").(string)
	if role == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	modules, err := h.catalog.ModulesForRole(c.Request().Context(), domain.Role(role))
	if err != nil {
		return err
	}
	if modules == nil {
		modules = []domain.Module{}
	}
	return c.JSON(http.StatusOK, moduleListResponse{Modules: modules})
}
