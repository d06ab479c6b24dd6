package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	apperrors "foodlink/internal/errors"
	"foodlink/internal/service"
)

// DonationHandler handles donation endpoints.
type DonationHandler struct {
	svc service.DonationService
}

// NewDonationHandler creates a new donation handler.
func NewDonationHandler(svc service.DonationService) *DonationHandler {
	return &DonationHandler{svc: svc}
}

// CreateDonationRequest represents a donation creation request.
type CreateDonationRequest struct {
	Title          string `json:"title" validate:"required"`
	Description    string `json:"description" validate:"max=1000"`
	Quantity       int    `json:"quantity" validate:"required,gt=0"`
	Unit           string `json:"unit"`
	ExpirationDate string `json:"expiration_date" validate:"required"` // YYYY-MM-DD
	PhotoURL       string `json:"photo_url"`
}

// ReviewRequest carries a donor's review of a completed donation.
type ReviewRequest struct {
	Score int `json:"score" validate:"required,min=1,max=5"`
}

// Create godoc
// @Summary Create a donation
// @Tags donations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateDonationRequest true "Donation data"
// @Success 201 {object} model.Donation
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /donations [post]
func (h *DonationHandler) Create(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req CreateDonationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	expiration, err := time.Parse("2006-01-02", req.ExpirationDate)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "expiration_date must be YYYY-MM-DD")
	}

	donation, err := h.svc.Create(c.Request().Context(), userID, service.CreateDonationInput{
		Title:          req.Title,
		Description:    req.Description,
		Quantity:       req.Quantity,
		Unit:           req.Unit,
		ExpirationDate: expiration,
		PhotoURL:       req.PhotoURL,
	})
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusCreated, donation)
}

// ListAvailable godoc
// @Summary List donations open for claiming
// @Tags donations
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Donation
// @Router /donations [get]
func (h *DonationHandler) ListAvailable(c echo.Context) error {
	donations, err := h.svc.ListAvailable(c.Request().Context())
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, donations)
}

// ListMine godoc
// @Summary List the caller's donations
// @Tags donations
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Donation
// @Router /donations/mine [get]
func (h *DonationHandler) ListMine(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	donations, err := h.svc.ListMine(c.Request().Context(), userID)
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, donations)
}

// Get godoc
// @Summary Get a donation by id
// @Tags donations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Donation ID"
// @Success 200 {object} model.Donation
// @Failure 404 {object} errors.ErrorResponse
// @Router /donations/{id} [get]
func (h *DonationHandler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid donation id")
	}

	donation, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, donation)
}

// Accept godoc
// @Summary Claim an available donation
// @Tags donations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Donation ID"
// @Success 200 {object} model.Donation
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /donations/{id}/accept [post]
func (h *DonationHandler) Accept(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid donation id")
	}

	donation, err := h.svc.Accept(c.Request().Context(), userID, id)
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, donation)
}

// Cancel godoc
// @Summary Cancel a donation
// @Tags donations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Donation ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /donations/{id}/cancel [post]
func (h *DonationHandler) Cancel(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid donation id")
	}

	if err := h.svc.Cancel(c.Request().Context(), userID, id); err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message": "donation cancelled",
	})
}

// Review godoc
// @Summary Review the donee of a completed donation
// @Tags donations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Donation ID"
// @Param request body ReviewRequest true "Review score"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /donations/{id}/review [post]
func (h *DonationHandler) Review(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid donation id")
	}

	var req ReviewRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.svc.Review(c.Request().Context(), userID, id, req.Score); err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message": "review recorded",
	})
}
