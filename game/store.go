package game

import (
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/domino14/lineclear/bitboard"
)

var ErrSessionNotFound = errors.New("session not found")

// MemoryStore keeps live sessions in memory. Nothing survives a restart.
type MemoryStore struct {
	sync.RWMutex
	sessions map[string]*Session
	opts     SolverOptions
}

func NewMemoryStore(opts SolverOptions) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*Session),
		opts:     opts,
	}
}

// Create starts a new session on b. The store takes ownership of b.
func (ms *MemoryStore) Create(b *bitboard.Board) (*Session, error) {
	s, err := NewSession(b, ms.opts)
	if err != nil {
		return nil, err
	}
	ms.Lock()
	defer ms.Unlock()
	ms.sessions[s.ID()] = s
	return s, nil
}

func (ms *MemoryStore) Get(id string) (*Session, error) {
	ms.RLock()
	defer ms.RUnlock()
	s, ok := ms.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

func (ms *MemoryStore) Delete(id string) {
	ms.Lock()
	defer ms.Unlock()
	delete(ms.sessions, id)
}

func (ms *MemoryStore) Len() int {
	ms.RLock()
	defer ms.RUnlock()
	return len(ms.sessions)
}

// Expire removes sessions that have not been used for longer than maxIdle and
// returns how many were removed.
func (ms *MemoryStore) Expire(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)
	ms.RLock()
	all := lo.Assign(ms.sessions)
	ms.RUnlock()

	// A session in the middle of a solve holds its own lock, so check
	// idleness without holding the store lock.
	var stale []string
	for id, s := range all {
		if s.lastAccessed().Before(cutoff) {
			stale = append(stale, id)
		}
	}
	if len(stale) == 0 {
		return 0
	}
	ms.Lock()
	defer ms.Unlock()
	for _, id := range stale {
		delete(ms.sessions, id)
	}
	log.Info().Int("expired", len(stale)).Int("remaining", len(ms.sessions)).Msg("expired-sessions")
	return len(stale)
}
