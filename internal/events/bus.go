// Package events carries change notifications of the store to interested
// readers. Consumers re-read the full snapshot on every notification.
package events

import (
	"context"
	"sync"
	"time"
)

const (
	CollectionItems       = "items"
	CollectionFDAs        = "fdas"
	CollectionPermissions = "permissions"
	CollectionLogs        = "logs"
)

type Change struct {
	Collection string    `json:"collection"`
	ID         string    `json:"id"`
	Action     string    `json:"action"`
	At         time.Time `json:"at"`
}

type Publisher interface {
	Publish(ctx context.Context, change Change) error
}

type Bus interface {
	Publisher
	// Subscribe returns a channel of changes that is closed when ctx is done.
	Subscribe(ctx context.Context) <-chan Change
}

// MemoryBus fans changes out to in-process subscribers. Slow subscribers miss
// notifications instead of blocking publishers; they catch up on the next one
// because every notification triggers a full re-read.
type MemoryBus struct {
	mu     sync.Mutex
	subs   map[chan Change]struct{}
	buffer int
}

func NewMemoryBus() *MemoryBus {
	return &MemoryBus{subs: make(map[chan Change]struct{}), buffer: 16}
}

func (b *MemoryBus) Publish(_ context.Context, change Change) error {
	if change.At.IsZero() {
		change.At = time.Now().UTC()
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs {
		select {
		case ch <- change:
		default:
		}
	}
	return nil
}

func (b *MemoryBus) Subscribe(ctx context.Context) <-chan Change {
	ch := make(chan Change, b.buffer)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		delete(b.subs, ch)
		close(ch)
		b.mu.Unlock()
	}()
	return ch
}
