package errors

import "errors"

var (
	ErrUserNotFound     = errors.New("user with provided username was not found")
	ErrWrongPassword    = errors.New("wrong password")
	ErrSessionNotFound  = errors.New("session was not found")
	ErrUserExists       = errors.New("user already exists")
	ErrCreateGameFailed = errors.New("create game failed")
	ErrGameNotFound     = errors.New("game not found")
	ErrGameFinished     = errors.New("game already finished")
	ErrNotYourGame      = errors.New("game belongs to another player")
	ErrInvalidSnapshot  = errors.New("stored game state is corrupt")
	ErrEmptyCredentials = errors.New("username and password must not be empty")
	ErrInternal         = errors.New("internal error")

	ErrStatisticConflict = errors.New("statistic changed concurrently")
)
