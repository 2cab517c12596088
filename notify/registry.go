package notify

import (
	"sync"

	"github.com/lawbridge/lawbridge-api/models"
)

// Registry tracks which users currently hold a live delivery channel
// (SSE/long-poll connections in the HTTP layer). It is constructed in main
// and injected wherever needed; nothing reads it through package state.
type Registry struct {
	mu     sync.RWMutex
	online map[uint][]chan models.Notification
}

func NewRegistry() *Registry {
	return &Registry{online: make(map[uint][]chan models.Notification)}
}

// Connect registers a delivery channel for userID. The returned func
// disconnects and closes the channel.
func (r *Registry) Connect(userID uint) (<-chan models.Notification, func()) {
	ch := make(chan models.Notification, 8)

	r.mu.Lock()
	r.online[userID] = append(r.online[userID], ch)
	r.mu.Unlock()

	disconnect := func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		channels := r.online[userID]
		for i, c := range channels {
			if c == ch {
				r.online[userID] = append(channels[:i], channels[i+1:]...)
				close(ch)
				break
			}
		}
		if len(r.online[userID]) == 0 {
			delete(r.online, userID)
		}
	}
	return ch, disconnect
}

// Push delivers to every live channel of userID without blocking; slow
// consumers miss the event and catch up from the notification list endpoint.
// Returns whether at least one channel accepted it.
func (r *Registry) Push(userID uint, notification models.Notification) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	delivered := false
	for _, ch := range r.online[userID] {
		select {
		case ch <- notification:
			delivered = true
		default:
		}
	}
	return delivered
}

// Online reports whether userID has any live channel.
func (r *Registry) Online(userID uint) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.online[userID]) > 0
}
