package http

import (
	"sync"
	"time"
)

const (
	entryIdleThreshold      = 1 * time.Hour
	serializerSweepInterval = 30 * time.Minute
)

type userLock struct {
	mu       sync.Mutex
	lastUsed time.Time
}

// TurnSerializer guarantees that turns for one user are applied strictly
// in arrival order. The engine reads and rewrites pending-flow state each
// turn, so two interleaved turns for the same user would corrupt it.
// Different users proceed in parallel.
type TurnSerializer struct {
	mu        sync.Mutex
	locks     map[string]*userLock
	stopSweep chan struct{}
}

func NewTurnSerializer() *TurnSerializer {
	s := &TurnSerializer{
		locks:     make(map[string]*userLock),
		stopSweep: make(chan struct{}),
	}
	go s.sweepLoop()
	return s
}

// Acquire blocks until the user's previous turn has finished and returns
// the release function for this one.
func (s *TurnSerializer) Acquire(userID string) func() {
	s.mu.Lock()
	l, ok := s.locks[userID]
	if !ok {
		l = &userLock{}
		s.locks[userID] = l
	}
	l.lastUsed = time.Now()
	s.mu.Unlock()

	l.mu.Lock()
	return l.mu.Unlock
}

func (s *TurnSerializer) sweepLoop() {
	ticker := time.NewTicker(serializerSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stopSweep:
			return
		}
	}
}

func (s *TurnSerializer) sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for id, l := range s.locks {
		if now.Sub(l.lastUsed) > entryIdleThreshold && l.mu.TryLock() {
			l.mu.Unlock()
			delete(s.locks, id)
		}
	}
}

func (s *TurnSerializer) Stop() {
	close(s.stopSweep)
}
