package worker

// Job is a unit of work executed by a pool worker.
type Job[T any] func() T

// Result pairs a job's output with the id it was submitted under.
type Result[T any] struct {
	JobID  string
	Output T
}

// Pool runs jobs on a fixed number of goroutines. Results arrive in
// completion order, not submission order.
type Pool[T any] struct {
	jobs    chan jobWrapper[T]
	results chan Result[T]
}

type jobWrapper[T any] struct {
	id string
	fn Job[T]
}

func NewPool[T any](workerCount int, bufferSize int) *Pool[T] {
	if workerCount < 1 {
		workerCount = 1
	}
	p := &Pool[T]{
		jobs:    make(chan jobWrapper[T], bufferSize),
		results: make(chan Result[T], bufferSize),
	}

	for i := 0; i < workerCount; i++ {
		go p.worker()
	}

	return p
}

func (p *Pool[T]) worker() {
	for job := range p.jobs {
		p.results <- Result[T]{
			JobID:  job.id,
			Output: job.fn(),
		}
	}
}

// Submit blocks when the job buffer is full.
func (p *Pool[T]) Submit(id string, fn Job[T]) {
	p.jobs <- jobWrapper[T]{id: id, fn: fn}
}

func (p *Pool[T]) Results() <-chan Result[T] {
	return p.results
}

// Close stops the workers once queued jobs are drained. Submit must not be
// called afterwards.
func (p *Pool[T]) Close() {
	close(p.jobs)
}

// Collect submits every job, waits for all of them and returns the outputs
// keyed by job id. The pool is closed on return.
func Collect[T any](workerCount int, jobs map[string]Job[T]) map[string]T {
	p := NewPool[T](workerCount, len(jobs))
	defer p.Close()

	for id, fn := range jobs {
		p.Submit(id, fn)
	}

	out := make(map[string]T, len(jobs))
	for range jobs {
		r := <-p.results
		out[r.JobID] = r.Output
	}
	return out
}
