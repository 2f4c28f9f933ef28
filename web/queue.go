package web

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"mashsong/logger"
	"mashsong/mash"
)

// JobStatus is the lifecycle of a queued mash render.
type JobStatus string

const (
	StatusQueued  JobStatus = "queued"
	StatusRunning JobStatus = "running"
	StatusDone    JobStatus = "done"
	StatusFailed  JobStatus = "failed"
)

// MashJob is one queued render request.
type MashJob struct {
	ID         string           `json:"id"`
	VocalID    string           `json:"vocal_id"`
	AccompID   string           `json:"accomp_id"`
	VocalSpan  mash.SectionSpan `json:"vocal_span"`
	AccompSpan mash.SectionSpan `json:"accomp_span"`
	Status     JobStatus        `json:"status"`
	Output     string           `json:"output,omitempty"`
	Error      string           `json:"error,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
}

// MashQueue serializes render jobs through a single worker goroutine.
// Renders are CPU and disk heavy, so one at a time is deliberate.
type MashQueue struct {
	mutex     sync.Mutex
	jobs      map[string]*MashJob
	pending   []string
	isRunning bool

	runJob func(*MashJob) (string, error)
	log    *zap.Logger
}

// NewMashQueue returns a queue that executes jobs with runJob.
func NewMashQueue(runJob func(*MashJob) (string, error)) *MashQueue {
	return &MashQueue{
		jobs:   make(map[string]*MashJob),
		runJob: runJob,
		log:    logger.Named("queue"),
	}
}

// Enqueue registers a job and starts the worker if it is idle.
func (mq *MashQueue) Enqueue(vocalID, accompID string, vocalSpan, accompSpan mash.SectionSpan) *MashJob {
	job := &MashJob{
		ID:         uuid.NewString(),
		VocalID:    vocalID,
		AccompID:   accompID,
		VocalSpan:  vocalSpan,
		AccompSpan: accompSpan,
		Status:     StatusQueued,
		CreatedAt:  time.Now(),
	}

	mq.mutex.Lock()
	mq.jobs[job.ID] = job
	mq.pending = append(mq.pending, job.ID)
	shouldStart := !mq.isRunning
	if shouldStart {
		mq.isRunning = true
	}
	mq.mutex.Unlock()

	mq.log.Info("job queued",
		zap.String("job", job.ID),
		zap.String("vocal", vocalID),
		zap.String("accomp", accompID))
	if shouldStart {
		go mq.processQueue()
	}
	return job
}

// Get returns a snapshot of a job by ID.
func (mq *MashQueue) Get(id string) (MashJob, bool) {
	mq.mutex.Lock()
	defer mq.mutex.Unlock()
	job, ok := mq.jobs[id]
	if !ok {
		return MashJob{}, false
	}
	return *job, true
}

// Status returns the pending count and whether the worker is running.
func (mq *MashQueue) Status() (int, bool) {
	mq.mutex.Lock()
	defer mq.mutex.Unlock()
	return len(mq.pending), mq.isRunning
}

func (mq *MashQueue) processQueue() {
	for {
		mq.mutex.Lock()
		if len(mq.pending) == 0 {
			mq.isRunning = false
			mq.mutex.Unlock()
			mq.log.Info("queue drained, worker stopping")
			return
		}
		jobID := mq.pending[0]
		mq.pending = mq.pending[1:]
		job := mq.jobs[jobID]
		job.Status = StatusRunning
		mq.mutex.Unlock()

		output, err := mq.runJob(job)

		mq.mutex.Lock()
		if err != nil {
			job.Status = StatusFailed
			job.Error = err.Error()
		} else {
			job.Status = StatusDone
			job.Output = output
		}
		mq.mutex.Unlock()

		if err != nil {
			mq.log.Error("job failed", zap.String("job", jobID), zap.Error(err))
		} else {
			mq.log.Info("job done", zap.String("job", jobID), zap.String("output", output))
		}
	}
}
