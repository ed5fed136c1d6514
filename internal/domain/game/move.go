package game

import (
	"fmt"

	"checkers_backend/internal/checkers"
)

// Move is one jump or slide in the game log.
type Move struct {
	Number   int           `json:"number" bson:"number"`
	Turn     int           `json:"turn" bson:"turn"`
	Color    string        `json:"color" bson:"color"`
	From     checkers.Cell `json:"from" bson:"from"`
	To       checkers.Cell `json:"to" bson:"to"`
	Captured bool          `json:"captured" bson:"captured"`
	Crowned  bool          `json:"crowned,omitempty" bson:"crowned,omitempty"`
	Notation string        `json:"notation" bson:"notation"`
}

// NewMove builds the log entry for a step; turn is the turn counter the
// step belongs to.
func NewMove(number, turn int, step checkers.Step) Move {
	return Move{
		Number:   number,
		Turn:     turn,
		Color:    step.Color.String(),
		From:     step.From,
		To:       step.To,
		Captured: step.IsCapture(),
		Crowned:  step.Crowned,
		Notation: Notation(step),
	}
}

// Notation renders "c3-d4" for a slide and "c3:e5" for a jump; a crowning
// gets a trailing "K".
func Notation(step checkers.Step) string {
	sep := "-"
	if step.IsCapture() {
		sep = ":"
	}
	s := fmt.Sprintf("%s%s%s", step.From, sep, step.To)
	if step.Crowned {
		s += "K"
	}
	return s
}

type WSCommand struct {
	Action string `json:"action"`
	Row    int    `json:"row"`
	Col    int    `json:"col"`
}

const (
	ActionSelect   = "select"
	ActionMove     = "move"
	ActionOpponent = "opponent"
	ActionState    = "state"
)

const (
	FrameState = "state"
	FrameError = "error"
)

// WSFrame is one server message on the game websocket.
type WSFrame struct {
	Type     string           `json:"type"`
	Response *CommandResponse `json:"response,omitempty"`
	Error    string           `json:"error,omitempty"`
}
