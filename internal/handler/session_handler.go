package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/unitime-api/internal/dto"
	appErrors "github.com/noah-isme/unitime-api/pkg/errors"
	"github.com/noah-isme/unitime-api/pkg/response"
)

type sessionService interface {
	List(ctx context.Context, timetableID string, q dto.SessionQuery) ([]dto.SessionView, error)
	Create(ctx context.Context, timetableID string, req dto.CreateSessionRequest) (*dto.SessionView, error)
	BulkCreate(ctx context.Context, timetableID string, req dto.BulkCreateSessionsRequest) (*dto.BulkCreateSessionsResult, error)
	Update(ctx context.Context, timetableID, sessionID string, req dto.CreateSessionRequest) (*dto.SessionView, error)
	Delete(ctx context.Context, timetableID, sessionID string) error
	Availability(ctx context.Context, timetableID string, q dto.AvailabilityQuery) (*dto.AvailabilityResponse, error)
}

// SessionHandler manages the sessions of one timetable.
type SessionHandler struct {
	service sessionService
}

// NewSessionHandler constructs handler.
func NewSessionHandler(svc sessionService) *SessionHandler {
	return &SessionHandler{service: svc}
}

// List godoc
// @Summary List sessions
// @Tags Sessions
// @Produce json
// @Param id path string true "Timetable ID"
// @Param lecturerId query string false "Filter by lecturer"
// @Param venueId query string false "Filter by venue"
// @Param groupId query string false "Filter by student group"
// @Param day query string false "Filter by weekday name"
// @Success 200 {object} response.Envelope
// @Router /timetables/{id}/sessions [get]
func (h *SessionHandler) List(c *gin.Context) {
	var q dto.SessionQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query"))
		return
	}
	sessions, err := h.service.List(c.Request.Context(), c.Param("id"), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sessions, nil)
}

// Create godoc
// @Summary Add a session
// @Description Rejected with SESSION_CONFLICT when it collides with existing bookings, unless allowConflict is set.
// @Tags Sessions
// @Accept json
// @Produce json
// @Param id path string true "Timetable ID"
// @Param payload body dto.CreateSessionRequest true "Session payload"
// @Success 201 {object} response.Envelope
// @Router /timetables/{id}/sessions [post]
func (h *SessionHandler) Create(c *gin.Context) {
	var req dto.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	session, err := h.service.Create(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, session)
}

// BulkCreate godoc
// @Summary Add several sessions
// @Tags Sessions
// @Accept json
// @Produce json
// @Param id path string true "Timetable ID"
// @Param payload body dto.BulkCreateSessionsRequest true "Bulk payload"
// @Success 200 {object} response.Envelope
// @Router /timetables/{id}/sessions/bulk [post]
func (h *SessionHandler) BulkCreate(c *gin.Context) {
	var req dto.BulkCreateSessionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.service.BulkCreate(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Update godoc
// @Summary Replace a session
// @Tags Sessions
// @Accept json
// @Produce json
// @Param id path string true "Timetable ID"
// @Param sessionId path string true "Session ID"
// @Param payload body dto.CreateSessionRequest true "Session payload"
// @Success 200 {object} response.Envelope
// @Router /timetables/{id}/sessions/{sessionId} [put]
func (h *SessionHandler) Update(c *gin.Context) {
	var req dto.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	session, err := h.service.Update(c.Request.Context(), c.Param("id"), c.Param("sessionId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, session, nil)
}

// Delete godoc
// @Summary Delete a session
// @Tags Sessions
// @Param id path string true "Timetable ID"
// @Param sessionId path string true "Session ID"
// @Success 204
// @Router /timetables/{id}/sessions/{sessionId} [delete]
func (h *SessionHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id"), c.Param("sessionId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Availability godoc
// @Summary Check whether a venue, lecturer or group is free
// @Tags Sessions
// @Produce json
// @Param id path string true "Timetable ID"
// @Param resource query string true "venue, lecturer or group"
// @Param resourceId query string true "Resource ID"
// @Param day query string true "Weekday name"
// @Param timeSlot query string false "Period label"
// @Param startSlot query int false "First slot index"
// @Param endSlot query int false "Slot index after the last"
// @Param excludingSessionId query string false "Session to ignore"
// @Success 200 {object} response.Envelope
// @Router /timetables/{id}/availability [get]
func (h *SessionHandler) Availability(c *gin.Context) {
	var q dto.AvailabilityQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query"))
		return
	}
	result, err := h.service.Availability(c.Request.Context(), c.Param("id"), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
