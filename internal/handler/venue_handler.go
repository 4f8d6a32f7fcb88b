package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/unitime-api/internal/dto"
	"github.com/noah-isme/unitime-api/internal/models"
	appErrors "github.com/noah-isme/unitime-api/pkg/errors"
	"github.com/noah-isme/unitime-api/pkg/response"
)

type venueService interface {
	List(ctx context.Context) ([]models.Venue, error)
	Create(ctx context.Context, req dto.CreateVenueRequest) (*models.Venue, error)
	FreeVenues(ctx context.Context, q dto.FreeVenuesQuery) ([]models.Venue, error)
}

// VenueHandler serves the venue catalog.
type VenueHandler struct {
	service venueService
}

// NewVenueHandler constructs handler.
func NewVenueHandler(svc venueService) *VenueHandler {
	return &VenueHandler{service: svc}
}

// List godoc
// @Summary List venues
// @Tags Venues
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /venues [get]
func (h *VenueHandler) List(c *gin.Context) {
	venues, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, venues, nil)
}

// Create godoc
// @Summary Add a venue
// @Tags Venues
// @Accept json
// @Produce json
// @Param payload body dto.CreateVenueRequest true "Venue payload"
// @Success 201 {object} response.Envelope
// @Router /venues [post]
func (h *VenueHandler) Create(c *gin.Context) {
	var req dto.CreateVenueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	venue, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, venue)
}

// Free godoc
// @Summary List venues free at a time
// @Tags Venues
// @Produce json
// @Param day query string true "Weekday name"
// @Param timeSlot query string false "Period label"
// @Param startSlot query int false "First slot index"
// @Param endSlot query int false "Slot index after the last"
// @Param type query string false "Venue type"
// @Param minCapacity query int false "Minimum capacity"
// @Param timetableId query string false "Also count this timetable's bookings"
// @Param excludingSessionId query string false "Session to ignore"
// @Success 200 {object} response.Envelope
// @Router /venues/free [get]
func (h *VenueHandler) Free(c *gin.Context) {
	var q dto.FreeVenuesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query"))
		return
	}
	venues, err := h.service.FreeVenues(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, venues, nil)
}
