package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/unitime-api/internal/dto"
	"github.com/noah-isme/unitime-api/internal/service"
	appErrors "github.com/noah-isme/unitime-api/pkg/errors"
	"github.com/noah-isme/unitime-api/pkg/response"
)

type conflictService interface {
	Detect(ctx context.Context, scope service.Scope) (*dto.ConflictReport, error)
	Resolve(ctx context.Context, scope service.Scope, req dto.ResolveConflictRequest) (*dto.ResolveConflictResponse, error)
	AutoResolve(ctx context.Context, scope service.Scope, req dto.AutoResolveRequest) (*dto.AutoResolveResponse, error)
}

type scanScheduler interface {
	Schedule(timetableID, reason string) (string, error)
}

// ConflictHandler exposes detection and resolution for a department
// timetable and for the master view.
type ConflictHandler struct {
	service conflictService
	scans   scanScheduler
}

// NewConflictHandler constructs handler. scans may be nil.
func NewConflictHandler(svc conflictService, scans scanScheduler) *ConflictHandler {
	return &ConflictHandler{service: svc, scans: scans}
}

// Detect godoc
// @Summary Detect conflicts in a timetable
// @Description The report revision is also returned as the ETag header.
// @Tags Conflicts
// @Produce json
// @Param id path string true "Timetable ID"
// @Success 200 {object} response.Envelope
// @Router /timetables/{id}/conflicts [get]
func (h *ConflictHandler) Detect(c *gin.Context) {
	h.detect(c, service.DepartmentScope(c.Param("id")))
}

// Resolve godoc
// @Summary Apply one proposed resolution
// @Description The revision may be sent in the body or as an If-Match header.
// @Tags Conflicts
// @Accept json
// @Produce json
// @Param id path string true "Timetable ID"
// @Param payload body dto.ResolveConflictRequest true "Resolution choice"
// @Success 200 {object} response.Envelope
// @Router /timetables/{id}/conflicts/resolve [post]
func (h *ConflictHandler) Resolve(c *gin.Context) {
	h.resolve(c, service.DepartmentScope(c.Param("id")))
}

// AutoResolve godoc
// @Summary Apply the first resolution of every conflict
// @Tags Conflicts
// @Accept json
// @Produce json
// @Param id path string true "Timetable ID"
// @Param payload body dto.AutoResolveRequest true "Auto-resolve options"
// @Success 200 {object} response.Envelope
// @Router /timetables/{id}/conflicts/auto-resolve [post]
func (h *ConflictHandler) AutoResolve(c *gin.Context) {
	h.autoResolve(c, service.DepartmentScope(c.Param("id")))
}

// MasterDetect godoc
// @Summary Detect conflicts across submitted timetables
// @Tags Master
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /master/conflicts [get]
func (h *ConflictHandler) MasterDetect(c *gin.Context) {
	h.detect(c, service.MasterScope())
}

// MasterResolve godoc
// @Summary Apply one resolution in the master view
// @Tags Master
// @Accept json
// @Produce json
// @Param payload body dto.ResolveConflictRequest true "Resolution choice"
// @Success 200 {object} response.Envelope
// @Router /master/conflicts/resolve [post]
func (h *ConflictHandler) MasterResolve(c *gin.Context) {
	h.resolve(c, service.MasterScope())
}

// MasterAutoResolve godoc
// @Summary Auto-resolve the master view
// @Tags Master
// @Accept json
// @Produce json
// @Param payload body dto.AutoResolveRequest true "Auto-resolve options"
// @Success 200 {object} response.Envelope
// @Router /master/conflicts/auto-resolve [post]
func (h *ConflictHandler) MasterAutoResolve(c *gin.Context) {
	h.autoResolve(c, service.MasterScope())
}

// MasterScan godoc
// @Summary Queue a background master scan
// @Tags Master
// @Produce json
// @Success 202 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /master/scan [post]
func (h *ConflictHandler) MasterScan(c *gin.Context) {
	if h.scans == nil {
		response.Error(c, appErrors.ErrScanQueueUnavailable)
		return
	}
	jobID, err := h.scans.Schedule(c.Query("timetableId"), "manual")
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusAccepted, gin.H{"jobId": jobID}, nil)
}

func (h *ConflictHandler) detect(c *gin.Context, scope service.Scope) {
	report, err := h.service.Detect(c.Request.Context(), scope)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("ETag", quoteETag(report.Revision))
	response.JSON(c, http.StatusOK, report, nil)
}

func (h *ConflictHandler) resolve(c *gin.Context, scope service.Scope) {
	var req dto.ResolveConflictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if req.Revision == "" {
		req.Revision = ifMatch(c)
	}
	result, err := h.service.Resolve(c.Request.Context(), scope, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("ETag", quoteETag(result.Report.Revision))
	response.JSON(c, http.StatusOK, result, nil)
}

func (h *ConflictHandler) autoResolve(c *gin.Context, scope service.Scope) {
	var req dto.AutoResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if req.Revision == "" {
		req.Revision = ifMatch(c)
	}
	result, err := h.service.AutoResolve(c.Request.Context(), scope, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("ETag", quoteETag(result.Report.Revision))
	response.JSON(c, http.StatusOK, result, nil)
}

func quoteETag(revision string) string {
	return `"` + revision + `"`
}

func ifMatch(c *gin.Context) string {
	value := strings.TrimSpace(c.GetHeader("If-Match"))
	value = strings.TrimPrefix(value, "W/")
	return strings.Trim(value, `"`)
}
