package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"checkers_backend/internal/bootstrap"
	"checkers_backend/internal/checkers"
	"checkers_backend/internal/domain/game"
	errs "checkers_backend/internal/errors"
)

const gamesCollection = "games"

type GameRepository struct {
	cfg   bootstrap.Config
	log   *zap.SugaredLogger
	redis *redis.Client
	mongo *mongo.Database
}

func NewGameRepository(cfg bootstrap.Config, log *zap.SugaredLogger, redis *redis.Client, mongo *mongo.Database) *GameRepository {
	return &GameRepository{
		cfg:   cfg,
		log:   log,
		redis: redis,
		mongo: mongo,
	}
}

func snapshotKey(gameID string) string {
	return fmt.Sprintf("game:%s:snapshot", gameID)
}

func movesKey(gameID string) string {
	return fmt.Sprintf("game:%s:moves", gameID)
}

func (g *GameRepository) SaveSnapshot(ctx context.Context, gameID string, snap checkers.Snapshot) error {
	blob, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	// the move log lives exactly as long as the snapshot
	_, err = g.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, snapshotKey(gameID), blob, g.cfg.SnapshotTTL)
		pipe.Expire(ctx, movesKey(gameID), g.cfg.SnapshotTTL)
		return nil
	})
	return err
}

func (g *GameRepository) LoadSnapshot(ctx context.Context, gameID string) (checkers.Snapshot, error) {
	blob, err := g.redis.Get(ctx, snapshotKey(gameID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return checkers.Snapshot{}, errs.ErrGameNotFound
		}
		g.log.Errorf("не удалось прочитать снимок игры %s: %v", gameID, err)
		return checkers.Snapshot{}, err
	}

	var snap checkers.Snapshot
	if err = json.Unmarshal(blob, &snap); err != nil {
		g.log.Errorf("снимок игры %s повреждён: %v", gameID, err)
		return checkers.Snapshot{}, fmt.Errorf("%w: %v", errs.ErrInvalidSnapshot, err)
	}
	return snap, nil
}

// AppendMoves pushes moves to the end of the game's log and refreshes its TTL
// together with the snapshot's.
func (g *GameRepository) AppendMoves(ctx context.Context, gameID string, moves []game.Move) error {
	if len(moves) == 0 {
		return nil
	}
	values := make([]any, 0, len(moves))
	for _, m := range moves {
		blob, err := json.Marshal(m)
		if err != nil {
			return err
		}
		values = append(values, blob)
	}

	_, err := g.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, movesKey(gameID), values...)
		pipe.Expire(ctx, movesKey(gameID), g.cfg.SnapshotTTL)
		return nil
	})
	return err
}

func (g *GameRepository) LoadMoves(ctx context.Context, gameID string) ([]game.Move, error) {
	raw, err := g.redis.LRange(ctx, movesKey(gameID), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	moves := make([]game.Move, 0, len(raw))
	for _, item := range raw {
		var m game.Move
		if err = json.Unmarshal([]byte(item), &m); err != nil {
			return nil, fmt.Errorf("%w: %v", errs.ErrInvalidSnapshot, err)
		}
		moves = append(moves, m)
	}
	return moves, nil
}

func (g *GameRepository) PutGame(ctx context.Context, gameData game.Game) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := g.mongo.Collection(gamesCollection).InsertOne(ctx, gameData); err != nil {
		g.log.Errorf("failed to insert game to database: %v", err)
		return errs.ErrCreateGameFailed
	}

	g.log.Infof("game inserted successfully with id: %s", gameData.ID)
	return nil
}

func (g *GameRepository) GetGame(ctx context.Context, gameID string) (game.Game, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var result game.Game
	err := g.mongo.Collection(gamesCollection).FindOne(ctx, bson.M{"_id": gameID}).Decode(&result)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return game.Game{}, errs.ErrGameNotFound
		}
		g.log.Error(err)
		return game.Game{}, errs.ErrInternal
	}
	return result, nil
}

// FinishGame archives the result of a game. A game already finished is left
// as it is, so the call can be repeated.
func (g *GameRepository) FinishGame(ctx context.Context, finished game.Game) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"_id": finished.ID, "status": game.StatusActive}
	update := bson.M{
		"$set": bson.M{
			"status":      game.StatusFinished,
			"winner":      finished.Winner,
			"human_won":   finished.HumanWon,
			"turn_count":  finished.TurnCount,
			"finished_at": finished.FinishedAt,
			"moves":       finished.Moves,
		},
	}
	res, err := g.mongo.Collection(gamesCollection).UpdateOne(ctx, filter, update)
	if err != nil {
		g.log.Errorf("failed to finish game %s: %v", finished.ID, err)
		return errs.ErrInternal
	}
	if res.MatchedCount == 0 {
		_, err = g.GetGame(ctx, finished.ID)
		return err
	}
	return nil
}

func (g *GameRepository) MarkStatsRecorded(ctx context.Context, gameID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"stats_recorded": true}}
	res, err := g.mongo.Collection(gamesCollection).UpdateOne(ctx, bson.M{"_id": gameID}, update)
	if err != nil {
		g.log.Errorf("failed to mark statistics of game %s: %v", gameID, err)
		return errs.ErrInternal
	}
	if res.MatchedCount == 0 {
		return errs.ErrGameNotFound
	}
	return nil
}
