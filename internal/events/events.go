package events

import (
    "context"
    "time"
)

// FlyerGenerated is published after every successful flyer generation.
type FlyerGenerated struct {
    SessionID string
    Address   string
    Price     string
    Template  string
    Format    string
    FlyerPath string
    At        time.Time
}

type Publisher interface {
    PublishFlyerGenerated(ctx context.Context, evt FlyerGenerated)
    SubscribeFlyerGenerated() <-chan FlyerGenerated
}

type inMemory struct { ch chan FlyerGenerated }

func NewInMemory(buffer int) Publisher {
    if buffer <= 0 { buffer = 256 }
    return &inMemory{ ch: make(chan FlyerGenerated, buffer) }
}

// PublishFlyerGenerated never blocks; events are dropped when the buffer is full.
func (m *inMemory) PublishFlyerGenerated(_ context.Context, evt FlyerGenerated) {
    select { case m.ch <- evt: default: }
}

func (m *inMemory) SubscribeFlyerGenerated() <-chan FlyerGenerated { return m.ch }
