package jobs

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueProcessesJobs(t *testing.T) {
	done := make(chan Job, 1)
	q := NewQueue("test", func(_ context.Context, job Job) error {
		done <- job
		return nil
	}, QueueConfig{})
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job{Type: "dataset.load"}))

	select {
	case job := <-done:
		assert.Equal(t, "dataset.load", job.Type)
		assert.NotEmpty(t, job.ID)
		assert.False(t, job.Enqueued.IsZero())
	case <-time.After(time.Second):
		t.Fatal("job was not processed")
	}
}

func TestQueueRetriesThenReportsExhaustion(t *testing.T) {
	var calls atomic.Int32
	exhausted := make(chan error, 1)
	q := NewQueue("test", func(context.Context, Job) error {
		calls.Add(1)
		return errors.New("source offline")
	}, QueueConfig{
		MaxRetries:  2,
		RetryDelay:  time.Millisecond,
		OnExhausted: func(_ Job, err error) { exhausted <- err },
	})
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job{Type: "dataset.load"}))

	select {
	case err := <-exhausted:
		assert.EqualError(t, err, "source offline")
		assert.Equal(t, int32(3), calls.Load())
	case <-time.After(2 * time.Second):
		t.Fatal("job never exhausted its retries")
	}
}

func TestQueueTryEnqueueWhenFull(t *testing.T) {
	release := make(chan struct{})
	var once sync.Once
	started := make(chan struct{})
	q := NewQueue("test", func(ctx context.Context, _ Job) error {
		once.Do(func() { close(started) })
		select {
		case <-release:
		case <-ctx.Done():
		}
		return nil
	}, QueueConfig{Workers: 1, BufferSize: 1})
	q.Start(context.Background())
	defer q.Stop()
	defer close(release)

	_, err := q.TryEnqueue(Job{})
	require.NoError(t, err)
	<-started

	id, err := q.TryEnqueue(Job{})
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Equal(t, 1, q.Pending())

	_, err = q.TryEnqueue(Job{})
	assert.ErrorIs(t, err, ErrQueueFull)
}

func TestQueueRejectsBeforeStart(t *testing.T) {
	q := NewQueue("test", func(context.Context, Job) error { return nil }, QueueConfig{})

	assert.Error(t, q.Enqueue(Job{}))
	_, err := q.TryEnqueue(Job{})
	assert.Error(t, err)
}
