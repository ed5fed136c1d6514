package main

import (
	"flag"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"checkers_backend/internal/checkers"
)

type outcome struct {
	winner   checkers.Color
	finished bool
	turns    int
	steps    int
}

func main() {
	games := flag.Int("games", 10, "number of games to play")
	seed := flag.Int64("seed", 0, "random seed, 0 for a time based one")
	variant := flag.String("variant", string(checkers.VariantStandard), "board setup: standard or reduced")
	promotion := flag.Bool("promotion", false, "crown men reaching the far row")
	maxTurns := flag.Int("max-turns", 500, "stop a game after this many turns")
	flag.Parse()

	logger := NewLogger()
	defer logger.Sync()

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	policy := checkers.NewRandomPolicy(rand.New(rand.NewSource(*seed)))
	rules := checkers.Rules{Promotion: *promotion}

	var wins [2]int
	unfinished, totalTurns := 0, 0
	for i := 0; i < *games; i++ {
		human := checkers.White
		if i%2 == 1 {
			human = checkers.Black
		}
		e, err := checkers.NewGame(checkers.Variant(*variant), human, rules)
		if err != nil {
			logger.Fatal("Failed to set up board", zap.Error(err))
		}

		res := playGame(e, policy, *maxTurns)
		totalTurns += res.turns
		if !res.finished {
			unfinished++
			logger.Infow("game unfinished", "game", i+1, "turns", res.turns, "steps", res.steps)
			continue
		}
		wins[res.winner]++
		logger.Infow("game over", "game", i+1, "winner", res.winner.String(),
			"human", human.String(), "turns", res.turns, "steps", res.steps)
	}

	avg := 0.0
	if *games > 0 {
		avg = float64(totalTurns) / float64(*games)
	}
	logger.Infow("self-play done",
		"seed", *seed,
		"white_wins", wins[checkers.White],
		"black_wins", wins[checkers.Black],
		"unfinished", unfinished,
		"average_turns", avg,
	)
}

func NewLogger() *zap.SugaredLogger {
	logger, err := zap.NewProduction()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	return logger.Sugar()
}

// playGame drives both sides with policy. The human side goes through
// Select and MoveTo exactly as a player's clicks would.
func playGame(e *checkers.Engine, policy checkers.Policy, maxTurns int) outcome {
	steps := 0
	for e.TurnCount() < maxTurns {
		if w, ok := e.Winner(); ok {
			return outcome{winner: w, finished: true, turns: e.TurnCount(), steps: steps}
		}

		if e.Turn() == e.Opponent() {
			res := e.OpponentMove(policy)
			if !res.Applied {
				break
			}
			steps += len(res.Steps)
			continue
		}

		if !e.ChainActive() {
			id, _, ok := policy.PickPiece(e.Board(), e.Human())
			if !ok {
				break
			}
			p, _ := e.Board().Piece(id)
			if sel, selected := e.Selected(); !selected || sel.ID != id {
				if !e.Select(p.Cell).Applied {
					break
				}
			}
		}
		target, ok := policy.PickTarget(e.Pending())
		if !ok || !e.MoveTo(target).Applied {
			break
		}
		steps++
	}

	w, ok := e.Winner()
	return outcome{winner: w, finished: ok, turns: e.TurnCount(), steps: steps}
}
