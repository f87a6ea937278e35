package session

import (
	"sync"

	"github.com/jonathan/resume-studio/internal/assistant"
)

const subscriberBuffer = 16

// broadcaster fans job state changes out to stream subscribers.
// Slow subscribers lose events rather than block the publisher.
type broadcaster struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]chan assistant.JobState
}

func newBroadcaster() *broadcaster {
	return &broadcaster{subs: make(map[int]chan assistant.JobState)}
}

func (b *broadcaster) subscribe() (<-chan assistant.JobState, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	ch := make(chan assistant.JobState, subscriberBuffer)
	b.subs[id] = ch

	return ch, func() { b.unsubscribe(id) }
}

// unsubscribe closes the channel of id unless closeAll already did.
func (b *broadcaster) unsubscribe(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if ch, ok := b.subs[id]; ok {
		delete(b.subs, id)
		close(ch)
	}
}

func (b *broadcaster) publish(state assistant.JobState) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- state:
		default:
		}
	}
}

func (b *broadcaster) closeAll() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, ch := range b.subs {
		close(ch)
		delete(b.subs, id)
	}
}
