package repo

import (
	"context"
	"slices"
	"sort"
	"sync"

	"checkers_backend/internal/domain/user"
	errs "checkers_backend/internal/errors"
)

// UserMapStorage keeps players in process memory. It backs local runs without
// MongoDB and the handler tests.
type UserMapStorage struct {
	mu    sync.RWMutex
	users map[string]user.User
}

func NewMapUserStorage() *UserMapStorage {
	return &UserMapStorage{users: make(map[string]user.User)}
}

func (u *UserMapStorage) GetUser(_ context.Context, username string) (user.User, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	for _, v := range u.users {
		if v.Username == username {
			return v, nil
		}
	}
	return user.User{}, errs.ErrUserNotFound
}

func (u *UserMapStorage) GetUserByID(_ context.Context, id string) (user.User, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	v, ok := u.users[id]
	if !ok {
		return user.User{}, errs.ErrUserNotFound
	}
	return v, nil
}

func (u *UserMapStorage) CreateUser(_ context.Context, newUser user.User) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	for _, v := range u.users {
		if v.Username == newUser.Username {
			return errs.ErrUserExists
		}
	}
	u.users[newUser.ID] = newUser
	return nil
}

func (u *UserMapStorage) UpdateStatistic(_ context.Context, id, gameID string, old, stat user.UserStatistic) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	v, ok := u.users[id]
	if !ok {
		return errs.ErrUserNotFound
	}
	if v.Statistic != old || slices.Contains(v.FinishedGames, gameID) {
		return errs.ErrStatisticConflict
	}
	v.Statistic = stat
	v.FinishedGames = append(slices.Clip(v.FinishedGames), gameID)
	u.users[id] = v
	return nil
}

func (u *UserMapStorage) SetCurrentGame(_ context.Context, id string, gameID string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	v, ok := u.users[id]
	if !ok {
		return errs.ErrUserNotFound
	}
	v.CurrentGameID = gameID
	u.users[id] = v
	return nil
}

func (u *UserMapStorage) Leaderboard(_ context.Context, pageNum, pageLimit int) ([]user.User, error) {
	u.mu.RLock()
	all := make([]user.User, 0, len(u.users))
	for _, v := range u.users {
		all = append(all, v)
	}
	u.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		a, b := all[i].Statistic, all[j].Statistic
		if a.Wins != b.Wins {
			return a.Wins > b.Wins
		}
		if a.AverageMoves != b.AverageMoves {
			return a.AverageMoves < b.AverageMoves
		}
		return all[i].Username < all[j].Username
	})

	from := (pageNum - 1) * pageLimit
	if from < 0 || from >= len(all) {
		return []user.User{}, nil
	}
	return all[from:min(from+pageLimit, len(all))], nil
}

type SessionMapStorage struct {
	mu       sync.RWMutex
	sessions map[string]string
}

func NewSessionMapStorage() *SessionMapStorage {
	return &SessionMapStorage{sessions: make(map[string]string)}
}

func (s *SessionMapStorage) GetUserIdBySession(_ context.Context, sessionID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if v, ok := s.sessions[sessionID]; ok {
		return v, nil
	}
	return "", errs.ErrSessionNotFound
}

func (s *SessionMapStorage) StoreSession(_ context.Context, sessionID string, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = userID
	return nil
}

func (s *SessionMapStorage) DeleteSession(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, found := s.sessions[sessionID]; !found {
		return errs.ErrSessionNotFound
	}
	delete(s.sessions, sessionID)
	return nil
}
