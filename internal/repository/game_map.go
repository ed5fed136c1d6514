package repo

import (
	"context"
	"sync"

	"checkers_backend/internal/checkers"
	"checkers_backend/internal/domain/game"
	errs "checkers_backend/internal/errors"
)

// GameMapStorage is the in-memory counterpart of GameRepository. Snapshots
// never expire.
type GameMapStorage struct {
	mu        sync.RWMutex
	snapshots map[string]checkers.Snapshot
	moves     map[string][]game.Move
	games     map[string]game.Game
}

func NewGameMapStorage() *GameMapStorage {
	return &GameMapStorage{
		snapshots: make(map[string]checkers.Snapshot),
		moves:     make(map[string][]game.Move),
		games:     make(map[string]game.Game),
	}
}

func (g *GameMapStorage) SaveSnapshot(_ context.Context, gameID string, snap checkers.Snapshot) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.snapshots[gameID] = snap
	return nil
}

func (g *GameMapStorage) LoadSnapshot(_ context.Context, gameID string) (checkers.Snapshot, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	snap, ok := g.snapshots[gameID]
	if !ok {
		return checkers.Snapshot{}, errs.ErrGameNotFound
	}
	return snap, nil
}

func (g *GameMapStorage) AppendMoves(_ context.Context, gameID string, moves []game.Move) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.moves[gameID] = append(g.moves[gameID], moves...)
	return nil
}

func (g *GameMapStorage) LoadMoves(_ context.Context, gameID string) ([]game.Move, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]game.Move{}, g.moves[gameID]...), nil
}

func (g *GameMapStorage) PutGame(_ context.Context, gameData game.Game) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.games[gameData.ID]; ok {
		return errs.ErrCreateGameFailed
	}
	g.games[gameData.ID] = gameData
	return nil
}

func (g *GameMapStorage) GetGame(_ context.Context, gameID string) (game.Game, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	v, ok := g.games[gameID]
	if !ok {
		return game.Game{}, errs.ErrGameNotFound
	}
	return v, nil
}

func (g *GameMapStorage) FinishGame(_ context.Context, finished game.Game) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	current, ok := g.games[finished.ID]
	if !ok {
		return errs.ErrGameNotFound
	}
	if current.Finished() {
		return nil
	}
	finished.StatsRecorded = current.StatsRecorded
	g.games[finished.ID] = finished
	return nil
}

func (g *GameMapStorage) MarkStatsRecorded(_ context.Context, gameID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	current, ok := g.games[gameID]
	if !ok {
		return errs.ErrGameNotFound
	}
	current.StatsRecorded = true
	g.games[gameID] = current
	return nil
}
