package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/churchops/attendance-system/internal/api/metrics"
	"github.com/churchops/attendance-system/internal/core/domain"
	"github.com/churchops/attendance-system/internal/core/ports"
)

// AttendanceHandler exposes the check-in and attendance query endpoints.
type AttendanceHandler struct {
	service ports.AttendanceService
}

func NewAttendanceHandler(service ports.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{service: service}
}

// Check records one attendance attempt for the authenticated caller.
//
// @Summary      Check in to a service
// @Tags         attendance
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      checkInRequest  true  "Check-in attempt"
// @Success      201   {object}  attendanceResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/attendance/check [post]
func (h *AttendanceHandler) Check(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req checkInRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	record, err := h.service.CheckIn(c.Request().Context(), ports.CheckInInput{
		UserID:    userID,
		ServiceID: req.ServiceID,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	}, time.Now().UTC())
	if err != nil {
		metrics.CheckinRejectionsTotal.WithLabelValues(rejectionReason(err)).Inc()
		return err
	}

	metrics.CheckinsTotal.WithLabelValues(string(record.Status)).Inc()
	return c.JSON(http.StatusCreated, toAttendanceResponse(record))
}

// My returns the caller's own attendance records.
//
// @Summary      List my attendance records
// @Tags         attendance
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   attendanceResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/attendance/my [get]
func (h *AttendanceHandler) My(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	records, err := h.service.MyAttendances(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAttendanceResponses(records))
}

// ByService returns the records for one service.
//
// @Summary      List attendance for a service
// @Tags         attendance
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Service ID"
// @Success      200  {array}   attendanceResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/attendance/service/{id} [get]
func (h *AttendanceHandler) ByService(c echo.Context) error {
	records, err := h.service.AttendancesByService(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAttendanceResponses(records))
}

// All returns every attendance record.
//
// @Summary      List all attendance records
// @Tags         attendance
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   attendanceResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /api/attendance/all [get]
func (h *AttendanceHandler) All(c echo.Context) error {
	records, err := h.service.AllAttendances(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAttendanceResponses(records))
}

// rejectionReason maps a check-in rejection to its metric label.
func rejectionReason(err error) string {
	var oor *domain.OutOfRangeError
	switch {
	case errors.As(err, &oor):
		return "out_of_range"
	case errors.Is(err, domain.ErrAlreadyCheckedIn):
		return "already_checked"
	case errors.Is(err, domain.ErrCheckInNotOpen):
		return "too_early"
	case errors.Is(err, domain.ErrServiceNotFound):
		return "not_found"
	default:
		return "error"
	}
}
