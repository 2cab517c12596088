package booking

import (
	"sync"
)

// lawyerLocks serializes the check-then-insert booking path per lawyer.
// The lock is held only for the duration of one booking attempt.
type lawyerLocks struct {
	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

func newLawyerLocks() *lawyerLocks {
	return &lawyerLocks{locks: make(map[uint]*sync.Mutex)}
}

// acquire locks the mutex for lawyerID and returns its release func.
func (l *lawyerLocks) acquire(lawyerID uint) func() {
	l.mu.Lock()
	lock, ok := l.locks[lawyerID]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[lawyerID] = lock
	}
	l.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}
