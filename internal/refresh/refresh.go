// Package refresh runs background cache refreshes on a small worker pool.
// At most one refresh per key is queued or running at a time.
package refresh

import (
    "context"
    "log"
    "sync"
    "time"
)

type Job struct {
    Key string
    Run func(ctx context.Context) error
}

type Refresher struct {
    ch      chan Job
    inFly   sync.Map // key -> struct{}
    timeout time.Duration
    done    chan struct{}
    wg      sync.WaitGroup
    once    sync.Once
}

func New(capacity int, workerCount int, timeout time.Duration) *Refresher {
    if capacity <= 0 { capacity = 256 }
    if workerCount <= 0 { workerCount = 2 }
    if timeout <= 0 { timeout = 15 * time.Second }
    r := &Refresher{ ch: make(chan Job, capacity), timeout: timeout, done: make(chan struct{}) }
    for i := 0; i < workerCount; i++ {
        r.wg.Add(1)
        go r.worker()
    }
    return r
}

// Enqueue reports whether the job was accepted. Jobs for a key already in
// flight, and jobs arriving while the queue is full or closed, are dropped.
func (r *Refresher) Enqueue(j Job) bool {
    if _, exists := r.inFly.LoadOrStore(j.Key, struct{}{}); exists {
        return false
    }
    select {
    case <-r.done:
        r.inFly.Delete(j.Key)
        return false
    default:
    }
    select {
    case r.ch <- j:
        return true
    default:
        // drop if saturated
        r.inFly.Delete(j.Key)
        return false
    }
}

// Close stops the workers after their current job. Queued jobs are dropped.
func (r *Refresher) Close() {
    r.once.Do(func() { close(r.done) })
    r.wg.Wait()
}

func (r *Refresher) worker() {
    defer r.wg.Done()
    for {
        select {
        case <-r.done:
            return
        case j := <-r.ch:
            r.run(j)
        }
    }
}

func (r *Refresher) run(j Job) {
    ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
    defer func() {
        r.inFly.Delete(j.Key)
        cancel()
    }()
    if j.Run == nil { return }
    if err := j.Run(ctx); err != nil {
        log.Printf("[WARN] refresh %s: %v", j.Key, err)
    }
}
