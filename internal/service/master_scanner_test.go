package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/unitime-api/internal/dto"
	"github.com/noah-isme/unitime-api/internal/models"
	appErrors "github.com/noah-isme/unitime-api/pkg/errors"
	"github.com/noah-isme/unitime-api/pkg/jobs"
)

type recordingDetector struct {
	mu     sync.Mutex
	scopes []Scope
	err    error
}

func (d *recordingDetector) Detect(ctx context.Context, scope Scope) (*dto.ConflictReport, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.scopes = append(d.scopes, scope)
	if d.err != nil {
		return nil, d.err
	}
	return &dto.ConflictReport{Revision: "rev", Conflicts: []models.Conflict{}}, nil
}

func (d *recordingDetector) calls() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.scopes)
}

type failingQueue struct{}

func (failingQueue) Enqueue(job jobs.Job) (string, error) {
	return "", errors.New("queue full")
}

func (failingQueue) Pending() int {
	return 0
}

type backlogQueue struct {
	jobs []jobs.Job
}

func (q *backlogQueue) Enqueue(job jobs.Job) (string, error) {
	q.jobs = append(q.jobs, job)
	return "job-1", nil
}

func (q *backlogQueue) Pending() int {
	return len(q.jobs)
}

func TestMasterScannerScheduleRecordsBacklog(t *testing.T) {
	metrics := NewMetricsService()
	queue := &backlogQueue{jobs: []jobs.Job{{Type: MasterScanJobType}}}
	scanner := NewMasterScanner(&recordingDetector{}, metrics, zap.NewNop())
	scanner.UseQueue(queue)

	id, err := scanner.Schedule("tt-1", "submitted")
	require.NoError(t, err)
	assert.Equal(t, "job-1", id)
	assert.Equal(t, int64(2), metrics.Snapshot().ScanQueueDepth)

	queue.jobs = nil
	scanner.Observe(jobs.Job{Type: MasterScanJobType}, jobs.OutcomeSuccess, time.Millisecond)
	assert.Equal(t, int64(0), metrics.Snapshot().ScanQueueDepth)
}

func TestMasterScannerScheduleWithoutQueue(t *testing.T) {
	scanner := NewMasterScanner(&recordingDetector{}, nil, zap.NewNop())

	_, err := scanner.Schedule("tt-1", "submitted")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrScanQueueUnavailable.Code, appErrors.FromError(err).Code)

	scanner.UseQueue(failingQueue{})
	_, err = scanner.Schedule("tt-1", "submitted")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrScanQueueUnavailable.Status, appErrors.FromError(err).Status)
}

func TestMasterScannerHandle(t *testing.T) {
	detector := &recordingDetector{}
	scanner := NewMasterScanner(detector, nil, zap.NewNop())

	err := scanner.Handle(context.Background(), jobs.Job{Type: "report"})
	require.Error(t, err)
	assert.Zero(t, detector.calls())

	err = scanner.Handle(context.Background(), jobs.Job{ID: "job-1", Type: MasterScanJobType, Payload: MasterScanPayload{TimetableID: "tt-1", Reason: "manual"}})
	require.NoError(t, err)
	require.Len(t, detector.scopes, 1)
	assert.True(t, detector.scopes[0].IsMaster())

	detector.err = errors.New("db down")
	assert.Error(t, scanner.Handle(context.Background(), jobs.Job{Type: MasterScanJobType}))
}

func TestMasterScannerRunsOnQueue(t *testing.T) {
	submitted := draftTimetable("tt-cs")
	submitted.Status = models.TimetableStatusSubmitted
	other := draftTimetable("tt-ma")
	other.Status = models.TimetableStatusSubmitted
	f := newFixture(
		[]models.Timetable{submitted, other},
		[]models.Session{
			testSession("cs-1", "tt-cs", "v-a101", "lec-1", "g-1", 0, 2, 3),
			testSession("ma-1", "tt-ma", "v-a101", "lec-2", "g-2", 0, 2, 3),
		},
	)
	metrics := NewMetricsService()
	scanner := NewMasterScanner(newConflictService(f), metrics, zap.NewNop())
	queue := jobs.NewQueue("master-scan", scanner.Handle, jobs.QueueConfig{Observer: scanner.Observe})
	scanner.UseQueue(queue)
	queue.Start(context.Background())
	defer queue.Stop()

	id, err := scanner.Schedule("tt-ma", "submitted")
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	require.Eventually(t, func() bool {
		return f.sessions.byID("cs-1").HasConflict && f.sessions.byID("ma-1").HasConflict
	}, 2*time.Second, 10*time.Millisecond)
}
