package history

import (
    "context"
    "log"
    "time"

    "github.com/sanathboddhula/real-estate-AI-marketer/internal/events"
    "github.com/sanathboddhula/real-estate-AI-marketer/internal/store"
)

// Sink persists flyer records. *store.Store satisfies it.
type Sink interface {
    RecordFlyer(ctx context.Context, rec *store.FlyerRecord) error
}

// Recorder consumes FlyerGenerated events and writes them to the sink.
type Recorder struct {
    Pub  events.Publisher
    Sink Sink
    // Timeout bounds each write. Zero means 5s.
    Timeout time.Duration
}

func (r *Recorder) Run(ctx context.Context) {
    sub := r.Pub.SubscribeFlyerGenerated()
    for {
        select {
        case <-ctx.Done():
            return
        case evt := <-sub:
            r.record(ctx, evt)
        }
    }
}

func (r *Recorder) record(ctx context.Context, evt events.FlyerGenerated) {
    timeout := r.Timeout
    if timeout <= 0 { timeout = 5 * time.Second }
    ctx, cancel := context.WithTimeout(ctx, timeout)
    defer cancel()
    rec := &store.FlyerRecord{
        SessionID: evt.SessionID,
        Address:   evt.Address,
        Price:     evt.Price,
        Template:  evt.Template,
        Format:    evt.Format,
        FlyerPath: evt.FlyerPath,
        CreatedAt: evt.At,
    }
    if err := r.Sink.RecordFlyer(ctx, rec); err != nil {
        log.Printf("[WARN] history: record flyer session=%s path=%s: %v", evt.SessionID, evt.FlyerPath, err)
        return
    }
    log.Printf("[INFO] history: flyer.generated id=%s session=%s path=%s", rec.ID, evt.SessionID, evt.FlyerPath)
}
