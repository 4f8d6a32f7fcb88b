package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/unitime-api/internal/dto"
	"github.com/noah-isme/unitime-api/internal/models"
	appErrors "github.com/noah-isme/unitime-api/pkg/errors"
)

type sessionServiceMock struct {
	timetableID string
	created     dto.CreateSessionRequest
	availQuery  dto.AvailabilityQuery
	err         error
}

func (m *sessionServiceMock) List(ctx context.Context, timetableID string, q dto.SessionQuery) ([]dto.SessionView, error) {
	m.timetableID = timetableID
	return []dto.SessionView{}, m.err
}

func (m *sessionServiceMock) Create(ctx context.Context, timetableID string, req dto.CreateSessionRequest) (*dto.SessionView, error) {
	m.timetableID = timetableID
	m.created = req
	if m.err != nil {
		return nil, m.err
	}
	return &dto.SessionView{Session: models.Session{ID: "s-1", TimetableID: timetableID}, DayName: "Monday"}, nil
}

func (m *sessionServiceMock) BulkCreate(ctx context.Context, timetableID string, req dto.BulkCreateSessionsRequest) (*dto.BulkCreateSessionsResult, error) {
	return &dto.BulkCreateSessionsResult{Created: []dto.SessionView{}}, m.err
}

func (m *sessionServiceMock) Update(ctx context.Context, timetableID, sessionID string, req dto.CreateSessionRequest) (*dto.SessionView, error) {
	return &dto.SessionView{Session: models.Session{ID: sessionID}}, m.err
}

func (m *sessionServiceMock) Delete(ctx context.Context, timetableID, sessionID string) error {
	return m.err
}

func (m *sessionServiceMock) Availability(ctx context.Context, timetableID string, q dto.AvailabilityQuery) (*dto.AvailabilityResponse, error) {
	m.availQuery = q
	return &dto.AvailabilityResponse{Available: true, Clashes: []dto.ClashView{}}, m.err
}

type venueServiceMock struct {
	query dto.FreeVenuesQuery
	err   error
}

func (m *venueServiceMock) List(ctx context.Context) ([]models.Venue, error) {
	return []models.Venue{{ID: "v-1", Name: "A101"}}, m.err
}

func (m *venueServiceMock) Create(ctx context.Context, req dto.CreateVenueRequest) (*models.Venue, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &models.Venue{ID: "v-2", Name: req.Name}, nil
}

func (m *venueServiceMock) FreeVenues(ctx context.Context, q dto.FreeVenuesQuery) ([]models.Venue, error) {
	m.query = q
	return []models.Venue{}, m.err
}

func TestSessionHandlerCreate(t *testing.T) {
	svc := &sessionServiceMock{}
	handler := NewSessionHandler(svc)
	body := []byte(`{"moduleId":"CS101","venueId":"v-1","day":"Monday","timeSlot":"09:15-09:55","allowConflict":true}`)
	c, w := newTestContext(http.MethodPost, "/timetables/tt-1/sessions", body)
	c.Params = gin.Params{{Key: "id", Value: "tt-1"}}

	handler.Create(c)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "tt-1", svc.timetableID)
	assert.Equal(t, "CS101", svc.created.ModuleID)
	assert.True(t, svc.created.AllowConflict)
}

func TestSessionHandlerCreateConflict(t *testing.T) {
	handler := NewSessionHandler(&sessionServiceMock{err: appErrors.ErrSessionConflict})
	c, w := newTestContext(http.MethodPost, "/timetables/tt-1/sessions", []byte(`{"moduleId":"CS101"}`))

	handler.Create(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "SESSION_CONFLICT")
}

func TestSessionHandlerAvailabilityBindsQuery(t *testing.T) {
	svc := &sessionServiceMock{}
	handler := NewSessionHandler(svc)
	c, w := newTestContext(http.MethodGet, "/timetables/tt-1/availability?resource=venue&resourceId=v-1&day=Monday&startSlot=2&endSlot=4", nil)

	handler.Availability(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "venue", svc.availQuery.Resource)
	require.NotNil(t, svc.availQuery.StartSlot)
	assert.Equal(t, 2, *svc.availQuery.StartSlot)
	assert.Equal(t, 4, *svc.availQuery.EndSlot)
}

func TestVenueHandlerFree(t *testing.T) {
	svc := &venueServiceMock{}
	handler := NewVenueHandler(svc)
	c, w := newTestContext(http.MethodGet, "/venues/free?day=Tuesday&timeSlot=07:30-08:10&minCapacity=40&timetableId=tt-1", nil)

	handler.Free(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Tuesday", svc.query.Day)
	assert.Equal(t, 40, svc.query.MinCapacity)
	assert.Equal(t, "tt-1", svc.query.TimetableID)
	assert.JSONEq(t, `{"data":[]}`, w.Body.String())
}

func TestVenueHandlerCreateDuplicate(t *testing.T) {
	handler := NewVenueHandler(&venueServiceMock{err: appErrors.ErrConflict})
	c, w := newTestContext(http.MethodPost, "/venues", []byte(`{"name":"A101","type":"lecture","capacity":40}`))

	handler.Create(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}
