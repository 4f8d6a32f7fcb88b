package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/unitime-api/internal/dto"
	"github.com/noah-isme/unitime-api/internal/models"
	"github.com/noah-isme/unitime-api/internal/service"
	appErrors "github.com/noah-isme/unitime-api/pkg/errors"
)

type conflictServiceMock struct {
	scope      service.Scope
	resolveReq dto.ResolveConflictRequest
	autoReq    dto.AutoResolveRequest
	err        error
}

func (m *conflictServiceMock) Detect(ctx context.Context, scope service.Scope) (*dto.ConflictReport, error) {
	m.scope = scope
	if m.err != nil {
		return nil, m.err
	}
	return &dto.ConflictReport{Scope: scope.Kind, TimetableID: scope.TimetableID, Revision: "rev-1", Conflicts: []models.Conflict{}}, nil
}

func (m *conflictServiceMock) Resolve(ctx context.Context, scope service.Scope, req dto.ResolveConflictRequest) (*dto.ResolveConflictResponse, error) {
	m.scope = scope
	m.resolveReq = req
	if m.err != nil {
		return nil, m.err
	}
	return &dto.ResolveConflictResponse{Report: dto.ConflictReport{Revision: "rev-2"}}, nil
}

func (m *conflictServiceMock) AutoResolve(ctx context.Context, scope service.Scope, req dto.AutoResolveRequest) (*dto.AutoResolveResponse, error) {
	m.scope = scope
	m.autoReq = req
	if m.err != nil {
		return nil, m.err
	}
	return &dto.AutoResolveResponse{Report: dto.ConflictReport{Revision: "rev-3"}}, nil
}

type scanSchedulerMock struct {
	timetableID string
	err         error
}

func (m *scanSchedulerMock) Schedule(timetableID, reason string) (string, error) {
	m.timetableID = timetableID
	if m.err != nil {
		return "", m.err
	}
	return "job-9", nil
}

func newTestContext(method, target string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(method, target, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.Request = req
	return c, w
}

func TestConflictHandlerDetectSetsETag(t *testing.T) {
	svc := &conflictServiceMock{}
	handler := NewConflictHandler(svc, nil)
	c, w := newTestContext(http.MethodGet, "/timetables/tt-1/conflicts", nil)
	c.Params = gin.Params{{Key: "id", Value: "tt-1"}}

	handler.Detect(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `"rev-1"`, w.Header().Get("ETag"))
	assert.Equal(t, service.DepartmentScope("tt-1"), svc.scope)

	var body struct {
		Data dto.ConflictReport `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "tt-1", body.Data.TimetableID)
}

func TestConflictHandlerResolveUsesIfMatch(t *testing.T) {
	svc := &conflictServiceMock{}
	handler := NewConflictHandler(svc, nil)
	c, w := newTestContext(http.MethodPost, "/master/conflicts/resolve", []byte(`{"conflictId":1,"resolutionId":2}`))
	c.Request.Header.Set("If-Match", `W/"rev-1"`)

	handler.MasterResolve(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, svc.scope.IsMaster())
	assert.Equal(t, "rev-1", svc.resolveReq.Revision)
	assert.Equal(t, 2, svc.resolveReq.ResolutionID)
	assert.Equal(t, `"rev-2"`, w.Header().Get("ETag"))
}

func TestConflictHandlerResolveMapsErrors(t *testing.T) {
	svc := &conflictServiceMock{err: appErrors.ErrStaleConflict}
	handler := NewConflictHandler(svc, nil)
	c, w := newTestContext(http.MethodPost, "/timetables/tt-1/conflicts/resolve", []byte(`{"revision":"old","conflictId":1,"resolutionId":1}`))
	c.Params = gin.Params{{Key: "id", Value: "tt-1"}}

	handler.Resolve(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "STALE_CONFLICT")
}

func TestConflictHandlerResolveRejectsMalformedBody(t *testing.T) {
	handler := NewConflictHandler(&conflictServiceMock{}, nil)
	c, w := newTestContext(http.MethodPost, "/timetables/tt-1/conflicts/resolve", []byte(`{"conflictId":"one"}`))

	handler.Resolve(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestConflictHandlerAutoResolve(t *testing.T) {
	svc := &conflictServiceMock{}
	handler := NewConflictHandler(svc, nil)
	c, w := newTestContext(http.MethodPost, "/timetables/tt-1/conflicts/auto-resolve", []byte(`{"revision":"rev-1","mode":"iterative"}`))
	c.Params = gin.Params{{Key: "id", Value: "tt-1"}}

	handler.AutoResolve(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "iterative", svc.autoReq.Mode)
	assert.Equal(t, `"rev-3"`, w.Header().Get("ETag"))
}

func TestConflictHandlerMasterScan(t *testing.T) {
	handler := NewConflictHandler(&conflictServiceMock{}, nil)
	c, w := newTestContext(http.MethodPost, "/master/scan", nil)
	handler.MasterScan(c)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	scans := &scanSchedulerMock{}
	handler = NewConflictHandler(&conflictServiceMock{}, scans)
	c, w = newTestContext(http.MethodPost, "/master/scan?timetableId=tt-4", nil)
	handler.MasterScan(c)
	require.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, "tt-4", scans.timetableID)
	assert.Contains(t, w.Body.String(), "job-9")
}
