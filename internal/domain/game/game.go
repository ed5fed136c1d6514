package game

import (
	"time"

	"checkers_backend/internal/checkers"
)

const (
	StatusActive   = "active"
	StatusFinished = "finished"
)

type Game struct {
	ID         string     `json:"id" bson:"_id"`
	PlayerID   string     `json:"player_id" bson:"player_id"`
	HumanColor string     `json:"human_color" bson:"human_color"`
	Variant    string     `json:"variant" bson:"variant"`
	Promotion  bool       `json:"promotion" bson:"promotion"`
	Status     string     `json:"status" bson:"status"`
	Winner     string     `json:"winner,omitempty" bson:"winner,omitempty"`
	HumanWon   bool       `json:"human_won" bson:"human_won"`
	TurnCount  int        `json:"turn_count" bson:"turn_count"`
	CreatedAt  time.Time  `json:"created_at" bson:"created_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty" bson:"finished_at,omitempty"`
	Moves      []Move     `json:"moves,omitempty" bson:"moves,omitempty"`

	// StatsRecorded is set once the owner's statistics include this game.
	StatsRecorded bool `json:"stats_recorded" bson:"stats_recorded"`
}

func (g Game) Finished() bool {
	return g.Status == StatusFinished
}

func (g Game) Rules() checkers.Rules {
	return checkers.Rules{Promotion: g.Promotion}
}

type CreateGameRequest struct {
	HumanWhite *bool `json:"human_white,omitempty"`
}

type CellRequest struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (c CellRequest) Cell() checkers.Cell {
	return checkers.Cell{Row: c.Row, Col: c.Col}
}

type GameResponse struct {
	Game  Game           `json:"game"`
	State checkers.State `json:"state"`
}

// CommandResponse is what select/move/opponent commands answer with. A
// rejected command is not an error: Applied is false and State is unchanged.
type CommandResponse struct {
	Applied bool            `json:"applied"`
	State   checkers.State  `json:"state"`
	Steps   []checkers.Step `json:"steps,omitempty"`
	Moves   []Move          `json:"moves,omitempty"`
}
