package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"checkers_backend/internal/checkers"
	"checkers_backend/internal/domain/game"
	"checkers_backend/internal/domain/user"
	errs "checkers_backend/internal/errors"
)

type GameStore interface {
	SaveSnapshot(ctx context.Context, gameID string, snap checkers.Snapshot) error
	LoadSnapshot(ctx context.Context, gameID string) (checkers.Snapshot, error)
	AppendMoves(ctx context.Context, gameID string, moves []game.Move) error
	LoadMoves(ctx context.Context, gameID string) ([]game.Move, error)
	PutGame(ctx context.Context, gameData game.Game) error
	GetGame(ctx context.Context, gameID string) (game.Game, error)
	FinishGame(ctx context.Context, finished game.Game) error
	MarkStatsRecorded(ctx context.Context, gameID string) error
}

// ResultRecorder keeps player statistics up to date. RecordResult counts a
// game at most once however often it is called.
type ResultRecorder interface {
	RecordResult(ctx context.Context, id, gameID string, won bool, turnCount int) (user.UserStatistic, error)
	SetCurrentGame(ctx context.Context, id, gameID string) error
}

type Settings struct {
	Variant   checkers.Variant
	Promotion bool
	// Seed of the opponent's random source; 0 picks a time based seed.
	Seed int64
}

type GameUseCase struct {
	store    GameStore
	results  ResultRecorder
	log      *zap.SugaredLogger
	settings Settings
	locks    *gameLocks

	rngMu  sync.Mutex
	rng    *rand.Rand
	policy checkers.Policy

	now func() time.Time
}

func NewGameUseCase(store GameStore, results ResultRecorder, settings Settings, log *zap.SugaredLogger) *GameUseCase {
	seed := settings.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	return &GameUseCase{
		store:    store,
		results:  results,
		log:      log,
		settings: settings,
		locks:    newGameLocks(),
		rng:      rng,
		policy:   checkers.NewRandomPolicy(rng),
		now:      time.Now,
	}
}

// CreateGame starts a game for playerID. Without an explicit color the human
// side is drawn at random.
func (g *GameUseCase) CreateGame(ctx context.Context, playerID string, req game.CreateGameRequest) (game.GameResponse, error) {
	human := checkers.Black
	if req.HumanWhite != nil {
		if *req.HumanWhite {
			human = checkers.White
		}
	} else {
		g.rngMu.Lock()
		if g.rng.Intn(2) == 0 {
			human = checkers.White
		}
		g.rngMu.Unlock()
	}

	rules := checkers.Rules{Promotion: g.settings.Promotion}
	engine, err := checkers.NewGame(g.settings.Variant, human, rules)
	if err != nil {
		return game.GameResponse{}, fmt.Errorf("%w: %v", errs.ErrCreateGameFailed, err)
	}

	variant := g.settings.Variant
	if variant == "" {
		variant = checkers.VariantStandard
	}
	rec := game.Game{
		ID:         uuid.NewString(),
		PlayerID:   playerID,
		HumanColor: human.String(),
		Variant:    string(variant),
		Promotion:  rules.Promotion,
		Status:     game.StatusActive,
		CreatedAt:  g.now(),
	}

	if err = g.store.PutGame(ctx, rec); err != nil {
		return game.GameResponse{}, err
	}
	if err = g.store.SaveSnapshot(ctx, rec.ID, engine.Snapshot()); err != nil {
		g.log.Errorf("не удалось сохранить снимок игры %s: %v", rec.ID, err)
		return game.GameResponse{}, errs.ErrCreateGameFailed
	}
	if err = g.results.SetCurrentGame(ctx, playerID, rec.ID); err != nil {
		g.log.Warnf("failed to set current game of %s: %v", playerID, err)
	}
	if _, over := engine.Winner(); over {
		rec, err = g.finish(ctx, rec, engine, nil)
		if err != nil {
			return game.GameResponse{}, err
		}
	}

	g.log.Infof("game %s created for %s, human plays %s", rec.ID, playerID, human)
	return game.GameResponse{Game: rec, State: engine.State()}, nil
}

func (g *GameUseCase) GetGame(ctx context.Context, playerID, gameID string) (game.GameResponse, error) {
	unlock := g.locks.lock(gameID)
	defer unlock()

	rec, engine, err := g.load(ctx, playerID, gameID)
	if err != nil {
		return game.GameResponse{}, err
	}
	return game.GameResponse{Game: rec, State: engine.State()}, nil
}

func (g *GameUseCase) Select(ctx context.Context, playerID, gameID string, cell checkers.Cell) (game.CommandResponse, error) {
	return g.command(ctx, playerID, gameID, "select", func(e *checkers.Engine) checkers.Result {
		return e.Select(cell)
	})
}

func (g *GameUseCase) Move(ctx context.Context, playerID, gameID string, target checkers.Cell) (game.CommandResponse, error) {
	return g.command(ctx, playerID, gameID, "move", func(e *checkers.Engine) checkers.Result {
		return e.MoveTo(target)
	})
}

func (g *GameUseCase) OpponentMove(ctx context.Context, playerID, gameID string) (game.CommandResponse, error) {
	return g.command(ctx, playerID, gameID, "opponent", func(e *checkers.Engine) checkers.Result {
		g.rngMu.Lock()
		defer g.rngMu.Unlock()
		return e.OpponentMove(g.policy)
	})
}

// Moves returns the move log. Once the live state has expired the log kept in
// the finished game record is returned instead.
func (g *GameUseCase) Moves(ctx context.Context, playerID, gameID string) ([]game.Move, error) {
	rec, err := g.store.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if rec.PlayerID != playerID {
		return nil, errs.ErrNotYourGame
	}
	moves, err := g.store.LoadMoves(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if len(moves) == 0 && len(rec.Moves) > 0 {
		return rec.Moves, nil
	}
	return moves, nil
}

func (g *GameUseCase) load(ctx context.Context, playerID, gameID string) (game.Game, *checkers.Engine, error) {
	rec, err := g.store.GetGame(ctx, gameID)
	if err != nil {
		return game.Game{}, nil, err
	}
	if rec.PlayerID != playerID {
		return game.Game{}, nil, errs.ErrNotYourGame
	}

	snap, err := g.store.LoadSnapshot(ctx, gameID)
	if err != nil {
		if errors.Is(err, errs.ErrGameNotFound) && rec.Finished() {
			return game.Game{}, nil, errs.ErrGameFinished
		}
		return game.Game{}, nil, err
	}

	engine, err := checkers.Restore(snap, rec.Rules())
	if err != nil {
		g.log.Errorf("снимок игры %s не прошёл проверку: %v", gameID, err)
		return game.Game{}, nil, fmt.Errorf("%w: %v", errs.ErrInvalidSnapshot, err)
	}

	// an earlier command saved the final position but did not get to archive it
	if _, over := engine.Winner(); over && (!rec.Finished() || !rec.StatsRecorded) {
		moves, err := g.store.LoadMoves(ctx, gameID)
		if err != nil {
			return game.Game{}, nil, err
		}
		if rec, err = g.finish(ctx, rec, engine, moves); err != nil {
			return game.Game{}, nil, err
		}
	}
	return rec, engine, nil
}

func (g *GameUseCase) command(ctx context.Context, playerID, gameID, name string, apply func(e *checkers.Engine) checkers.Result) (game.CommandResponse, error) {
	unlock := g.locks.lock(gameID)
	defer unlock()

	rec, engine, err := g.load(ctx, playerID, gameID)
	if err != nil {
		return game.CommandResponse{}, err
	}

	turn := engine.TurnCount()
	res := apply(engine)
	if !res.Applied {
		g.log.Infof("game %s: %s rejected", gameID, name)
		return game.CommandResponse{Applied: false, State: res.State}, nil
	}

	if err = g.store.SaveSnapshot(ctx, gameID, engine.Snapshot()); err != nil {
		g.log.Errorf("не удалось сохранить снимок игры %s: %v", gameID, err)
		return game.CommandResponse{}, errs.ErrInternal
	}

	var moves []game.Move
	if len(res.Steps) > 0 {
		logged, err := g.store.LoadMoves(ctx, gameID)
		if err != nil {
			return game.CommandResponse{}, err
		}
		moves = make([]game.Move, 0, len(res.Steps))
		for i, step := range res.Steps {
			moves = append(moves, game.NewMove(len(logged)+i+1, turn, step))
		}
		if err = g.store.AppendMoves(ctx, gameID, moves); err != nil {
			g.log.Errorf("не удалось записать ходы игры %s: %v", gameID, err)
			return game.CommandResponse{}, errs.ErrInternal
		}
		if _, over := engine.Winner(); over {
			if _, err = g.finish(ctx, rec, engine, append(logged, moves...)); err != nil {
				return game.CommandResponse{}, err
			}
		}
	} else if _, over := engine.Winner(); over {
		// the opponent had no move at all
		logged, err := g.store.LoadMoves(ctx, gameID)
		if err != nil {
			return game.CommandResponse{}, err
		}
		if _, err = g.finish(ctx, rec, engine, logged); err != nil {
			return game.CommandResponse{}, err
		}
	}

	g.log.Infof("game %s: %s applied, %d step(s)", gameID, name, len(res.Steps))
	return game.CommandResponse{Applied: true, State: res.State, Steps: res.Steps, Moves: moves}, nil
}

// finish archives the result and updates the owner's statistics. Every step
// is skipped once done, so an interrupted finish is completed by the next
// call and the statistics count the game once.
func (g *GameUseCase) finish(ctx context.Context, rec game.Game, engine *checkers.Engine, moves []game.Move) (game.Game, error) {
	if !rec.Finished() {
		winner, _ := engine.Winner()
		finishedAt := g.now()
		rec.Status = game.StatusFinished
		rec.Winner = winner.String()
		rec.HumanWon = winner == engine.Human()
		rec.TurnCount = engine.TurnCount()
		rec.FinishedAt = &finishedAt
		rec.Moves = moves

		if err := g.store.FinishGame(ctx, rec); err != nil {
			g.log.Errorf("failed to finish game %s: %v", rec.ID, err)
			return game.Game{}, err
		}
	}
	if rec.StatsRecorded {
		return rec, nil
	}

	stat, err := g.results.RecordResult(ctx, rec.PlayerID, rec.ID, rec.HumanWon, rec.TurnCount)
	if err != nil {
		g.log.Errorf("failed to record result of game %s: %v", rec.ID, err)
		return game.Game{}, err
	}
	if err = g.store.MarkStatsRecorded(ctx, rec.ID); err != nil {
		g.log.Errorf("failed to mark statistics of game %s: %v", rec.ID, err)
		return game.Game{}, err
	}
	rec.StatsRecorded = true
	if err = g.results.SetCurrentGame(ctx, rec.PlayerID, ""); err != nil {
		g.log.Warnf("failed to clear current game of %s: %v", rec.PlayerID, err)
	}

	g.log.Infof("game %s finished: %s wins after %d turns (player %s now %d/%d)",
		rec.ID, rec.Winner, rec.TurnCount, rec.PlayerID, stat.Wins, stat.Losses)
	return rec, nil
}
