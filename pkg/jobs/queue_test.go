package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type outcomeRecorder struct {
	mu       sync.Mutex
	outcomes []Outcome
}

func (r *outcomeRecorder) observe(_ Job, outcome Outcome, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, outcome)
}

func (r *outcomeRecorder) snapshot() []Outcome {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Outcome(nil), r.outcomes...)
}

func TestQueueRejectsBeforeStart(t *testing.T) {
	q := NewQueue("scan", func(context.Context, Job) error { return nil }, QueueConfig{})
	_, err := q.Enqueue(Job{Type: "noop"})
	assert.Error(t, err)
}

func TestQueueRunsJobAndAssignsID(t *testing.T) {
	done := make(chan Job, 1)
	q := NewQueue("scan", func(_ context.Context, job Job) error {
		done <- job
		return nil
	}, QueueConfig{})
	q.Start(context.Background())
	defer q.Stop()

	id, err := q.Enqueue(Job{Type: "master_scan", Payload: "tt-1"})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	select {
	case job := <-done:
		assert.Equal(t, id, job.ID)
		assert.Equal(t, "tt-1", job.Payload)
		assert.False(t, job.Enqueued.IsZero())
	case <-time.After(2 * time.Second):
		t.Fatal("job was not processed")
	}
}

func TestQueueRetriesThenFails(t *testing.T) {
	recorder := &outcomeRecorder{}
	q := NewQueue("scan", func(context.Context, Job) error {
		return errors.New("boom")
	}, QueueConfig{MaxRetries: 1, RetryDelay: 10 * time.Millisecond, Observer: recorder.observe})
	q.Start(context.Background())
	defer q.Stop()

	_, err := q.Enqueue(Job{Type: "master_scan"})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return len(recorder.snapshot()) == 2
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, []Outcome{OutcomeRetry, OutcomeFailed}, recorder.snapshot())
}
