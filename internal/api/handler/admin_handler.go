package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/churchops/attendance-system/internal/core/ports"
)

// AdminHandler exposes the pre-registered roster management endpoints.
type AdminHandler struct {
	roster ports.RosterService
}

func NewAdminHandler(roster ports.RosterService) *AdminHandler {
	return &AdminHandler{roster: roster}
}

type rosterEntryRequest struct {
	Name  string `json:"name"  validate:"required"`
	Phone string `json:"phone"`
	Email string `json:"email" validate:"omitempty,email"`
	Notes string `json:"notes"`
}

// CreateRosterEntry handles POST /api/admin/pending-users.
//
// @Summary      Add a roster entry
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      rosterEntryRequest  true  "Roster entry"
// @Success      201   {object}  domain.PendingUser
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/admin/pending-users [post]
func (h *AdminHandler) CreateRosterEntry(c echo.Context) error {
	var req rosterEntryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	if req.Phone == "" && req.Email == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "phone or email is required")
	}

	entry, err := h.roster.Add(c.Request().Context(), ports.RosterEntryInput{
		Name:  req.Name,
		Phone: req.Phone,
		Email: req.Email,
		Notes: req.Notes,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, entry)
}

// ListRosterEntries handles GET /api/admin/pending-users.
//
// @Summary      List active roster entries
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.PendingUser
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /api/admin/pending-users [get]
func (h *AdminHandler) ListRosterEntries(c echo.Context) error {
	entries, err := h.roster.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, entries)
}

// DeleteRosterEntry handles DELETE /api/admin/pending-users/:id.
//
// @Summary      Remove a roster entry
// @Tags         admin
// @Security     BearerAuth
// @Param        id  path  string  true  "Roster entry ID"
// @Success      204
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/admin/pending-users/{id} [delete]
func (h *AdminHandler) DeleteRosterEntry(c echo.Context) error {
	if err := h.roster.Remove(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
