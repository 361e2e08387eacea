package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/churchops/attendance-system/internal/core/ports"
)

// ServiceHandler exposes the service catalog endpoints.
type ServiceHandler struct {
	catalog ports.CatalogService
}

func NewServiceHandler(catalog ports.CatalogService) *ServiceHandler {
	return &ServiceHandler{catalog: catalog}
}

// ListActive returns active services with a
// can_check_in flag for the current instant.
//
// @Summary      List active services
// @Tags         services
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   ports.ServiceView
// @Failure      401  {object}  errorResponse
// @Router       /api/services [get]
func (h *ServiceHandler) ListActive(c echo.Context) error {
	views, err := h.catalog.ListActive(c.Request().Context(), time.Now().UTC())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, views)
}

// Next returns the next upcoming active service.
//
// @Summary      Next upcoming service
// @Tags         services
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  ports.ServiceView
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/services/next [get]
func (h *ServiceHandler) Next(c echo.Context) error {
	view, err := h.catalog.Next(c.Request().Context(), time.Now().UTC())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

// ListAll returns every service, active or not.
//
// @Summary      List all services
// @Tags         services
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   ports.ServiceView
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /api/services/all [get]
func (h *ServiceHandler) ListAll(c echo.Context) error {
	views, err := h.catalog.ListAll(c.Request().Context(), time.Now().UTC())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, views)
}
