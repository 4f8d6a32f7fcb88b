package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/unitime-api/internal/dto"
	appErrors "github.com/noah-isme/unitime-api/pkg/errors"
	"github.com/noah-isme/unitime-api/pkg/jobs"
)

// MasterScanJobType identifies master scan jobs on the queue.
const MasterScanJobType = "master_scan"

// MasterScanPayload describes why a scan was requested.
type MasterScanPayload struct {
	TimetableID string `json:"timetableId,omitempty"`
	Reason      string `json:"reason"`
}

type masterDetector interface {
	Detect(ctx context.Context, scope Scope) (*dto.ConflictReport, error)
}

type jobQueue interface {
	Enqueue(job jobs.Job) (string, error)
	Pending() int
}

// MasterScanner re-detects the master view in the background so that
// has_conflict flags track cross-department clashes after each submission.
type MasterScanner struct {
	conflicts masterDetector
	queue     jobQueue
	metrics   *MetricsService
	logger    *zap.Logger
}

// NewMasterScanner constructs a MasterScanner. Attach a queue with UseQueue
// before scheduling.
func NewMasterScanner(conflicts masterDetector, metrics *MetricsService, logger *zap.Logger) *MasterScanner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MasterScanner{conflicts: conflicts, metrics: metrics, logger: logger}
}

// UseQueue sets the queue scans are scheduled on. The queue's handler is
// normally this scanner's Handle.
func (m *MasterScanner) UseQueue(queue jobQueue) {
	m.queue = queue
}

// Schedule enqueues a master scan.
func (m *MasterScanner) Schedule(timetableID, reason string) (string, error) {
	if m.queue == nil {
		return "", appErrors.ErrScanQueueUnavailable
	}
	id, err := m.queue.Enqueue(jobs.Job{
		Type:    MasterScanJobType,
		Payload: MasterScanPayload{TimetableID: timetableID, Reason: reason},
	})
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrScanQueueUnavailable.Code, appErrors.ErrScanQueueUnavailable.Status, appErrors.ErrScanQueueUnavailable.Message)
	}
	pending := m.queue.Pending()
	m.metrics.SetScanQueueDepth(pending)
	m.logger.Debug("master scan scheduled", zap.String("job_id", id), zap.String("timetable_id", timetableID), zap.Int("pending", pending))
	return id, nil
}

// Handle runs one scan job.
func (m *MasterScanner) Handle(ctx context.Context, job jobs.Job) error {
	if job.Type != MasterScanJobType {
		return fmt.Errorf("unsupported job type %q", job.Type)
	}
	report, err := m.conflicts.Detect(ctx, MasterScope())
	if err != nil {
		return fmt.Errorf("master scan: %w", err)
	}
	fields := []zap.Field{
		zap.String("job_id", job.ID),
		zap.Int("attempt", job.Attempt),
		zap.String("revision", report.Revision),
		zap.Int("conflicts", report.Summary.Total),
	}
	if payload, ok := job.Payload.(MasterScanPayload); ok {
		fields = append(fields, zap.String("timetable_id", payload.TimetableID), zap.String("reason", payload.Reason))
	}
	m.logger.Info("master scan finished", fields...)
	return nil
}

// Observe records queue outcomes; pass it as the queue's Observer.
func (m *MasterScanner) Observe(job jobs.Job, outcome jobs.Outcome, duration time.Duration) {
	m.metrics.ObserveScanJob(string(outcome), duration)
	if m.queue != nil {
		m.metrics.SetScanQueueDepth(m.queue.Pending())
	}
}
