package queue

import (
	"context"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/campushq/campus-admin-api/internal/api/metrics"
	"github.com/campushq/campus-admin-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 64
)

// ImportTask is one queued bulk-import payload.
type ImportTask struct {
	JobID string
	Data  []byte
}

// Dispatcher routes import jobs to a fixed set of workers using consistent
// hashing on the job id, so a replayed job id never runs on two workers at
// once.
type Dispatcher struct {
	workers []chan ImportTask
	service ports.CourseService
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.CourseService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ImportTask, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ImportTask, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue hands a task to the worker responsible for its job id.
// The call is non-blocking up to channelBuffer capacity.
func (d *Dispatcher) Enqueue(task ImportTask) {
	idx := d.shardIndex(task.JobID)
	d.workers[idx] <- task
	metrics.ImportQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
}

// shardIndex maps a job id deterministically to a worker index.
func (d *Dispatcher) shardIndex(jobID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(jobID))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ImportTask) {
	for {
		select {
		case <-ctx.Done():
			return
		case task, ok := <-ch:
			if !ok {
				return
			}
			report := d.service.ImportCSV(ctx, task.JobID, task.Data)
			metrics.ImportJobsTotal.WithLabelValues(string(report.Status)).Inc()
			metrics.ImportQueueDepth.WithLabelValues(strconv.Itoa(id)).Set(float64(len(ch)))
			d.log.Info().
				Str("job_id", task.JobID).
				Str("status", string(report.Status)).
				Int("worker_id", id).
				Msg("import job processed")
		}
	}
}
