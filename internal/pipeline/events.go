package pipeline

import (
	"sync"
	"time"
)

// Event is one progress notification emitted while a plan is processed.
type Event struct {
	PlanID    string    `json:"plan_id"`
	Stage     string    `json:"stage"`
	Iteration int       `json:"iteration,omitempty"`
	Score     int       `json:"score,omitempty"`
	Message   string    `json:"message,omitempty"`
	Time      time.Time `json:"time"`
}

// eventBus fans processing events out to per-plan subscribers. Slow
// subscribers drop events rather than stall the loop.
type eventBus struct {
	mu   sync.Mutex
	subs map[string][]chan Event
}

func newEventBus() *eventBus {
	return &eventBus{subs: make(map[string][]chan Event)}
}

// Subscribe registers for events of one plan. The returned cancel func
// must be called to release the channel.
func (b *eventBus) Subscribe(planID string) (<-chan Event, func()) {
	ch := make(chan Event, 16)

	b.mu.Lock()
	b.subs[planID] = append(b.subs[planID], ch)
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		chans := b.subs[planID]
		for i, c := range chans {
			if c == ch {
				b.subs[planID] = append(chans[:i], chans[i+1:]...)
				close(c)
				break
			}
		}
		if len(b.subs[planID]) == 0 {
			delete(b.subs, planID)
		}
	}
	return ch, cancel
}

func (b *eventBus) publish(ev Event) {
	ev.Time = time.Now().UTC()

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs[ev.PlanID] {
		select {
		case ch <- ev:
		default:
		}
	}
}
