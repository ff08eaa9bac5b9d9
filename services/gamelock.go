package services

import (
	"sync"

	"github.com/google/uuid"
)

// GameLocks serializes every check-then-mutate sequence scoped to one game.
// Locks are created lazily and never span more than one game, so no ordering
// discipline is needed between them.
type GameLocks struct {
	locks sync.Map // uuid.UUID -> *sync.Mutex
}

func NewGameLocks() *GameLocks {
	return &GameLocks{}
}

// Get returns the mutex for a game, creating it on first use.
func (l *GameLocks) Get(gameID uuid.UUID) *sync.Mutex {
	m, _ := l.locks.LoadOrStore(gameID, &sync.Mutex{})
	return m.(*sync.Mutex)
}
