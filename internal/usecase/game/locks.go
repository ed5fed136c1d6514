package game

import "sync"

// gameLocks serializes commands per game id. Entries are dropped once no
// command holds or waits for them.
type gameLocks struct {
	mu    sync.Mutex
	locks map[string]*gameLock
}

type gameLock struct {
	mu   sync.Mutex
	refs int
}

func newGameLocks() *gameLocks {
	return &gameLocks{locks: make(map[string]*gameLock)}
}

func (l *gameLocks) lock(id string) (unlock func()) {
	l.mu.Lock()
	gl, ok := l.locks[id]
	if !ok {
		gl = &gameLock{}
		l.locks[id] = gl
	}
	gl.refs++
	l.mu.Unlock()

	gl.mu.Lock()
	return func() {
		gl.mu.Unlock()
		l.mu.Lock()
		gl.refs--
		if gl.refs == 0 {
			delete(l.locks, id)
		}
		l.mu.Unlock()
	}
}
