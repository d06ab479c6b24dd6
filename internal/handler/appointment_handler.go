package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	apperrors "foodlink/internal/errors"
	"foodlink/internal/model"
	"foodlink/internal/service"
)

// AppointmentHandler handles appointment endpoints.
type AppointmentHandler struct {
	svc service.AppointmentService
}

// NewAppointmentHandler creates a new appointment handler.
func NewAppointmentHandler(svc service.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{svc: svc}
}

// ScheduleRequest carries the pickup time for a reserved donation.
type ScheduleRequest struct {
	ScheduledAt time.Time `json:"scheduled_at" validate:"required"`
}

// UpdateStatusRequest carries an appointment status transition.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=CONFIRMED COMPLETED CANCELLED"`
}

// Schedule godoc
// @Summary Schedule the pickup appointment for a donation
// @Tags appointments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Donation ID"
// @Param request body ScheduleRequest true "Schedule data"
// @Success 201 {object} model.Appointment
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /donations/{id}/appointment [post]
func (h *AppointmentHandler) Schedule(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	donationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid donation id")
	}

	var req ScheduleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	appointment, err := h.svc.Schedule(c.Request().Context(), userID, donationID, req.ScheduledAt)
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusCreated, appointment)
}

// UpdateStatus godoc
// @Summary Move an appointment through its lifecycle
// @Tags appointments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Appointment ID"
// @Param request body UpdateStatusRequest true "Target status"
// @Success 200 {object} model.Appointment
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /appointments/{id}/status [put]
func (h *AppointmentHandler) UpdateStatus(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	appointmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid appointment id")
	}

	var req UpdateStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	appointment, err := h.svc.UpdateStatus(c.Request().Context(), userID, appointmentID, model.AppointmentStatus(req.Status))
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, appointment)
}
