package web

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mashsong/mash"
)

func waitForStatus(t *testing.T, mq *MashQueue, id string, want JobStatus) MashJob {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		job, ok := mq.Get(id)
		require.True(t, ok)
		if job.Status == want {
			return job
		}
		time.Sleep(5 * time.Millisecond)
	}
	job, _ := mq.Get(id)
	t.Fatalf("job %s stuck in %s, want %s", id, job.Status, want)
	return MashJob{}
}

func TestQueueRunsJobs(t *testing.T) {
	ran := make(chan string, 4)
	mq := NewMashQueue(func(job *MashJob) (string, error) {
		ran <- job.VocalID
		return "/tmp/out.wav", nil
	})

	job := mq.Enqueue("voc", "acc", mash.SectionSpan{From: 1, To: 2}, mash.SectionSpan{})
	assert.NotEmpty(t, job.ID)
	assert.Equal(t, StatusQueued, job.Status)

	done := waitForStatus(t, mq, job.ID, StatusDone)
	assert.Equal(t, "/tmp/out.wav", done.Output)
	assert.Equal(t, "voc", <-ran)

	pending, _ := mq.Status()
	assert.Zero(t, pending)
}

func TestQueueRecordsFailure(t *testing.T) {
	mq := NewMashQueue(func(job *MashJob) (string, error) {
		return "", errors.New("stem missing")
	})

	job := mq.Enqueue("voc", "acc", mash.SectionSpan{}, mash.SectionSpan{})
	failed := waitForStatus(t, mq, job.ID, StatusFailed)
	assert.Equal(t, "stem missing", failed.Error)
	assert.Empty(t, failed.Output)
}

func TestQueueSerializesJobs(t *testing.T) {
	order := make(chan string, 4)
	block := make(chan struct{})
	mq := NewMashQueue(func(job *MashJob) (string, error) {
		order <- job.VocalID
		<-block
		return "", nil
	})

	first := mq.Enqueue("first", "acc", mash.SectionSpan{}, mash.SectionSpan{})
	second := mq.Enqueue("second", "acc", mash.SectionSpan{}, mash.SectionSpan{})

	assert.Equal(t, "first", <-order)
	// The second job must not start while the first is blocked.
	job, ok := mq.Get(second.ID)
	require.True(t, ok)
	assert.Equal(t, StatusQueued, job.Status)

	close(block)
	waitForStatus(t, mq, first.ID, StatusDone)
	waitForStatus(t, mq, second.ID, StatusDone)
	assert.Equal(t, "second", <-order)
}

func TestQueueGetUnknown(t *testing.T) {
	mq := NewMashQueue(func(job *MashJob) (string, error) { return "", nil })
	_, ok := mq.Get("nope")
	assert.False(t, ok)
}
