package repo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"checkers_backend/internal/domain/user"
	errs "checkers_backend/internal/errors"
)

const usersCollection = "users"

type MongoUserStorage struct {
	db  *mongo.Database
	log *zap.SugaredLogger
}

func NewMongoUserStorage(db *mongo.Database, log *zap.SugaredLogger) *MongoUserStorage {
	return &MongoUserStorage{db: db, log: log}
}

func (m *MongoUserStorage) GetUser(ctx context.Context, username string) (user.User, error) {
	return m.findOne(ctx, bson.D{{Key: "username", Value: username}})
}

func (m *MongoUserStorage) GetUserByID(ctx context.Context, id string) (user.User, error) {
	return m.findOne(ctx, bson.D{{Key: "_id", Value: id}})
}

func (m *MongoUserStorage) findOne(ctx context.Context, filter bson.D) (user.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var result user.User
	err := m.db.Collection(usersCollection).FindOne(ctx, filter).Decode(&result)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return user.User{}, errs.ErrUserNotFound
		}
		m.log.Errorf("user lookup failed: %v", err)
		return user.User{}, errs.ErrInternal
	}
	return result, nil
}

// CreateUser inserts newUser; the unique check on username is done by a
// lookup first, so two concurrent registrations can still race.
func (m *MongoUserStorage) CreateUser(ctx context.Context, newUser user.User) error {
	_, err := m.GetUser(ctx, newUser.Username)
	if err == nil {
		return errs.ErrUserExists
	}
	if !errors.Is(err, errs.ErrUserNotFound) {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err = m.db.Collection(usersCollection).InsertOne(ctx, newUser); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return errs.ErrUserExists
		}
		m.log.Errorf("failed to insert user %s: %v", newUser.Username, err)
		return errs.ErrInternal
	}
	return nil
}

// UpdateStatistic swaps the statistic only while it still holds the counts of
// old and gameID is not counted yet.
func (m *MongoUserStorage) UpdateStatistic(ctx context.Context, id, gameID string, old, stat user.UserStatistic) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"_id":              id,
		"statistic.wins":   old.Wins,
		"statistic.losses": old.Losses,
		"finished_games":   bson.M{"$ne": gameID},
	}
	update := bson.M{
		"$set": bson.M{
			"statistic":  stat,
			"updated_at": time.Now(),
		},
		"$push": bson.M{"finished_games": gameID},
	}
	res, err := m.db.Collection(usersCollection).UpdateOne(ctx, filter, update)
	if err != nil {
		m.log.Errorf("failed to update statistic of %s: %v", id, err)
		return errs.ErrInternal
	}
	if res.MatchedCount == 0 {
		if _, err = m.GetUserByID(ctx, id); err != nil {
			return err
		}
		return errs.ErrStatisticConflict
	}
	return nil
}

func (m *MongoUserStorage) SetCurrentGame(ctx context.Context, id string, gameID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"current_game_id": gameID, "updated_at": time.Now()}}
	if gameID == "" {
		update = bson.M{
			"$unset": bson.M{"current_game_id": ""},
			"$set":   bson.M{"updated_at": time.Now()},
		}
	}
	_, err := m.db.Collection(usersCollection).UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		m.log.Errorf("failed to set current game of %s: %v", id, err)
		return errs.ErrInternal
	}
	return nil
}

// Leaderboard returns page pageNum (from 1) of players ordered by wins.
func (m *MongoUserStorage) Leaderboard(ctx context.Context, pageNum, pageLimit int) ([]user.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if pageNum < 1 {
		pageNum = 1
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "statistic.wins", Value: -1}, {Key: "statistic.average_moves", Value: 1}, {Key: "username", Value: 1}}).
		SetSkip(int64((pageNum - 1) * pageLimit)).
		SetLimit(int64(pageLimit))

	cursor, err := m.db.Collection(usersCollection).Find(ctx, bson.M{}, opts)
	if err != nil {
		m.log.Error(err)
		return nil, errs.ErrInternal
	}
	defer cursor.Close(ctx)

	result := make([]user.User, 0, pageLimit)
	for cursor.Next(ctx) {
		var u user.User
		if err = cursor.Decode(&u); err != nil {
			m.log.Error(err)
			return nil, errs.ErrInternal
		}
		result = append(result, u)
	}
	return result, cursor.Err()
}
