package user

import "time"

type User struct {
	ID            string        `json:"id" bson:"_id"`
	Username      string        `json:"username" bson:"username"`
	CreatedAt     time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at" bson:"updated_at"`
	CurrentGameID string        `json:"current_game_id,omitempty" bson:"current_game_id,omitempty"`
	Statistic     UserStatistic `json:"statistic" bson:"statistic"`
	PasswordHash  string        `json:"-" bson:"password_hash"`
	// FinishedGames lists the games already folded into Statistic.
	FinishedGames []string `json:"-" bson:"finished_games,omitempty"`
}

type UserStatistic struct {
	Wins         int     `json:"wins" bson:"wins"`
	Losses       int     `json:"losses" bson:"losses"`
	AverageMoves float64 `json:"average_moves" bson:"average_moves"`
}

func (s UserStatistic) Games() int {
	return s.Wins + s.Losses
}

// WithResult folds a finished game into the statistics. The average is a
// running mean of turn counts over all finished games.
func (s UserStatistic) WithResult(won bool, turnCount int) UserStatistic {
	played := s.Games()
	s.AverageMoves = (float64(played)*s.AverageMoves + float64(turnCount)) / float64(played+1)
	if won {
		s.Wins++
	} else {
		s.Losses++
	}
	return s
}

type LeaderboardResponse struct {
	PageNum int    `json:"page_num"`
	Players []User `json:"players"`
}
