package auth

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	userDomain "checkers_backend/internal/domain/user"
	errs "checkers_backend/internal/errors"
)

type AuthUsecaseHandler struct {
	userStorage    UserStorage
	sessionStorage SessionStorage
	pageLimit      int
}

func NewUserUsecaseHandler(u UserStorage, s SessionStorage, pageLimit int) *AuthUsecaseHandler {
	if pageLimit <= 0 {
		pageLimit = 20
	}
	return &AuthUsecaseHandler{
		userStorage:    u,
		sessionStorage: s,
		pageLimit:      pageLimit,
	}
}

type UserStorage interface {
	GetUser(ctx context.Context, username string) (userDomain.User, error)
	GetUserByID(ctx context.Context, id string) (userDomain.User, error)
	CreateUser(ctx context.Context, newUser userDomain.User) error
	// UpdateStatistic replaces old with stat and marks gameID as counted. It
	// fails with ErrStatisticConflict when the stored statistic is no longer
	// old or gameID is already counted.
	UpdateStatistic(ctx context.Context, id, gameID string, old, stat userDomain.UserStatistic) error
	SetCurrentGame(ctx context.Context, id string, gameID string) error
	Leaderboard(ctx context.Context, pageNum, pageLimit int) ([]userDomain.User, error)
}

type SessionStorage interface {
	GetUserIdBySession(ctx context.Context, sessionID string) (string, error)
	StoreSession(ctx context.Context, sessionID string, userID string) error
	DeleteSession(ctx context.Context, sessionID string) error
}

func (a *AuthUsecaseHandler) RegisterUser(ctx context.Context, username, password string) (sessionID string, err error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", errs.ErrEmptyCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	now := time.Now()
	newUser := userDomain.User{
		ID:           uuid.NewString(),
		Username:     username,
		CreatedAt:    now,
		UpdatedAt:    now,
		PasswordHash: string(hash),
	}
	if err = a.userStorage.CreateUser(ctx, newUser); err != nil {
		return "", err
	}
	return a.newSession(ctx, newUser.ID)
}

func (a *AuthUsecaseHandler) LoginUser(ctx context.Context, providedUsername string, providedPassword string) (sessionID string, err error) {
	userFromDb, err := a.userStorage.GetUser(ctx, strings.TrimSpace(providedUsername))
	if err != nil {
		return "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(userFromDb.PasswordHash), []byte(providedPassword)) != nil {
		return "", errs.ErrWrongPassword
	}
	return a.newSession(ctx, userFromDb.ID)
}

func (a *AuthUsecaseHandler) newSession(ctx context.Context, userID string) (string, error) {
	sessionID := uuid.NewString()
	if err := a.sessionStorage.StoreSession(ctx, sessionID, userID); err != nil {
		return "", err
	}
	return sessionID, nil
}

// returns nil or ErrSessionNotFound
func (a *AuthUsecaseHandler) LogoutUser(ctx context.Context, sessionID string) error {
	return a.sessionStorage.DeleteSession(ctx, sessionID)
}

// CheckAuthorized resolves a session to its user.
func (a *AuthUsecaseHandler) CheckAuthorized(ctx context.Context, sessionID string) (userDomain.User, error) {
	userID, err := a.sessionStorage.GetUserIdBySession(ctx, sessionID)
	if err != nil {
		return userDomain.User{}, err
	}
	u, err := a.userStorage.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, errs.ErrUserNotFound) {
			// the account is gone but the session survived it
			return userDomain.User{}, errs.ErrSessionNotFound
		}
		return userDomain.User{}, err
	}
	return u, nil
}

func (a *AuthUsecaseHandler) GetUserByID(ctx context.Context, id string) (userDomain.User, error) {
	return a.userStorage.GetUserByID(ctx, id)
}

const recordAttempts = 3

// RecordResult folds finished game gameID of user id into its statistics. A
// game already counted leaves them unchanged, so the call can be repeated.
func (a *AuthUsecaseHandler) RecordResult(ctx context.Context, id, gameID string, won bool, turnCount int) (userDomain.UserStatistic, error) {
	for attempt := 0; attempt < recordAttempts; attempt++ {
		u, err := a.userStorage.GetUserByID(ctx, id)
		if err != nil {
			return userDomain.UserStatistic{}, err
		}
		if slices.Contains(u.FinishedGames, gameID) {
			return u.Statistic, nil
		}
		stat := u.Statistic.WithResult(won, turnCount)
		err = a.userStorage.UpdateStatistic(ctx, id, gameID, u.Statistic, stat)
		if errors.Is(err, errs.ErrStatisticConflict) {
			continue
		}
		if err != nil {
			return userDomain.UserStatistic{}, err
		}
		return stat, nil
	}
	return userDomain.UserStatistic{}, errs.ErrStatisticConflict
}

func (a *AuthUsecaseHandler) SetCurrentGame(ctx context.Context, id, gameID string) error {
	return a.userStorage.SetCurrentGame(ctx, id, gameID)
}

func (a *AuthUsecaseHandler) Leaderboard(ctx context.Context, pageNum int) (userDomain.LeaderboardResponse, error) {
	if pageNum < 1 {
		pageNum = 1
	}
	players, err := a.userStorage.Leaderboard(ctx, pageNum, a.pageLimit)
	if err != nil {
		return userDomain.LeaderboardResponse{}, err
	}
	return userDomain.LeaderboardResponse{PageNum: pageNum, Players: players}, nil
}

func (a *AuthUsecaseHandler) PlayerIDBySession(ctx context.Context, sessionID string) (string, error) {
	return a.sessionStorage.GetUserIdBySession(ctx, sessionID)
}
