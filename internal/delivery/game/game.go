package game

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"checkers_backend/internal/checkers"
	"checkers_backend/internal/domain/game"
	errs "checkers_backend/internal/errors"
	"checkers_backend/internal/httpresponse"
	"checkers_backend/internal/middleware"
	"checkers_backend/internal/utils"
)

type GameUsecase interface {
	CreateGame(ctx context.Context, playerID string, req game.CreateGameRequest) (game.GameResponse, error)
	GetGame(ctx context.Context, playerID, gameID string) (game.GameResponse, error)
	Select(ctx context.Context, playerID, gameID string, cell checkers.Cell) (game.CommandResponse, error)
	Move(ctx context.Context, playerID, gameID string, target checkers.Cell) (game.CommandResponse, error)
	OpponentMove(ctx context.Context, playerID, gameID string) (game.CommandResponse, error)
	Moves(ctx context.Context, playerID, gameID string) ([]game.Move, error)
}

type GameHandler struct {
	log    *zap.SugaredLogger
	gameUC GameUsecase

	connsMu sync.Mutex
	conns   map[string]*websocket.Conn
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

const (
	wsReadLimit   = 4096
	closeReplaced = 4000
)

func NewGameHandler(log *zap.SugaredLogger, gameUC GameUsecase) *GameHandler {
	return &GameHandler{
		log:    log,
		gameUC: gameUC,
		conns:  make(map[string]*websocket.Conn),
	}
}

func (g *GameHandler) HandleNewGame(w http.ResponseWriter, r *http.Request) {
	playerID, _ := middleware.PlayerID(r.Context())

	var req game.CreateGameRequest
	if err := utils.DecodeJSONRequest(r, &req); err != nil {
		g.log.Error("JSON decode error:", err)
		httpresponse.WriteError(w, http.StatusBadRequest, httpresponse.MALFORMEDJSON_errorDesc)
		return
	}

	resp, err := g.gameUC.CreateGame(r.Context(), playerID, req)
	if err != nil {
		g.writeGameError(w, err)
		return
	}

	g.log.Info("New game created with id: " + resp.Game.ID)
	httpresponse.WriteResponseWithStatus(w, http.StatusCreated, resp)
}

func (g *GameHandler) GetGame(w http.ResponseWriter, r *http.Request) {
	playerID, _ := middleware.PlayerID(r.Context())

	resp, err := g.gameUC.GetGame(r.Context(), playerID, chi.URLParam(r, "id"))
	if err != nil {
		g.writeGameError(w, err)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, resp)
}

func (g *GameHandler) Select(w http.ResponseWriter, r *http.Request) {
	g.handleCellCommand(w, r, g.gameUC.Select)
}

func (g *GameHandler) Move(w http.ResponseWriter, r *http.Request) {
	g.handleCellCommand(w, r, g.gameUC.Move)
}

func (g *GameHandler) Opponent(w http.ResponseWriter, r *http.Request) {
	playerID, _ := middleware.PlayerID(r.Context())

	resp, err := g.gameUC.OpponentMove(r.Context(), playerID, chi.URLParam(r, "id"))
	if err != nil {
		g.writeGameError(w, err)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, resp)
}

func (g *GameHandler) Moves(w http.ResponseWriter, r *http.Request) {
	playerID, _ := middleware.PlayerID(r.Context())

	moves, err := g.gameUC.Moves(r.Context(), playerID, chi.URLParam(r, "id"))
	if err != nil {
		g.writeGameError(w, err)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, moves)
}

type cellCommand func(ctx context.Context, playerID, gameID string, cell checkers.Cell) (game.CommandResponse, error)

func (g *GameHandler) handleCellCommand(w http.ResponseWriter, r *http.Request, cmd cellCommand) {
	playerID, _ := middleware.PlayerID(r.Context())

	var req game.CellRequest
	if err := utils.DecodeJSONRequest(r, &req); err != nil {
		g.log.Error("JSON decode error:", err)
		httpresponse.WriteError(w, http.StatusBadRequest, httpresponse.MALFORMEDJSON_errorDesc)
		return
	}

	// a click outside the board is rejected by the engine like any other
	resp, err := cmd(r.Context(), playerID, chi.URLParam(r, "id"), req.Cell())
	if err != nil {
		g.writeGameError(w, err)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, resp)
}

// HandleWS streams commands for one game over a websocket. Only the newest
// connection of a game stays open.
func (g *GameHandler) HandleWS(w http.ResponseWriter, r *http.Request) {
	playerID, _ := middleware.PlayerID(r.Context())
	gameID := chi.URLParam(r, "id")

	initial, err := g.gameUC.GetGame(r.Context(), playerID, gameID)
	if err != nil {
		g.writeGameError(w, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.log.Error("upgrade error:", err)
		return
	}
	conn.SetReadLimit(wsReadLimit)

	g.connsMu.Lock()
	if old, ok := g.conns[gameID]; ok {
		// WriteControl may run alongside the old handler's writes
		_ = old.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(closeReplaced, "Вы были отключены, новое соединение создано."),
			time.Now().Add(time.Second))
		old.Close()
	}
	g.conns[gameID] = conn
	g.connsMu.Unlock()

	defer func() {
		conn.Close()
		g.connsMu.Lock()
		if g.conns[gameID] == conn {
			delete(g.conns, gameID)
		}
		g.connsMu.Unlock()
	}()

	state := game.CommandResponse{Applied: true, State: initial.State}
	if err = conn.WriteJSON(game.WSFrame{Type: game.FrameState, Response: &state}); err != nil {
		return
	}

	for {
		var cmd game.WSCommand
		if err = conn.ReadJSON(&cmd); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, closeReplaced) {
				g.log.Warnf("game %s: read error: %v", gameID, err)
			}
			return
		}

		frame := g.dispatch(r.Context(), playerID, gameID, cmd)
		_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		if err = conn.WriteJSON(frame); err != nil {
			g.log.Warnf("game %s: write error: %v", gameID, err)
			return
		}
	}
}

func (g *GameHandler) dispatch(ctx context.Context, playerID, gameID string, cmd game.WSCommand) game.WSFrame {
	cell := checkers.Cell{Row: cmd.Row, Col: cmd.Col}

	var (
		resp game.CommandResponse
		err  error
	)
	switch cmd.Action {
	case game.ActionSelect:
		resp, err = g.gameUC.Select(ctx, playerID, gameID, cell)
	case game.ActionMove:
		resp, err = g.gameUC.Move(ctx, playerID, gameID, cell)
	case game.ActionOpponent:
		resp, err = g.gameUC.OpponentMove(ctx, playerID, gameID)
	case game.ActionState:
		var full game.GameResponse
		full, err = g.gameUC.GetGame(ctx, playerID, gameID)
		resp = game.CommandResponse{Applied: true, State: full.State}
	default:
		return game.WSFrame{Type: game.FrameError, Error: "unknown action " + cmd.Action}
	}
	if err != nil {
		g.log.Errorf("game %s: %s failed: %v", gameID, cmd.Action, err)
		return game.WSFrame{Type: game.FrameError, Error: err.Error()}
	}
	return game.WSFrame{Type: game.FrameState, Response: &resp}
}

func (g *GameHandler) writeGameError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errs.ErrGameNotFound):
		httpresponse.WriteError(w, http.StatusNotFound, "Игра не найдена")
	case errors.Is(err, errs.ErrNotYourGame):
		httpresponse.WriteError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, errs.ErrGameFinished):
		httpresponse.WriteError(w, http.StatusGone, err.Error())
	default:
		g.log.Error(err)
		httpresponse.WriteInternalErrorResponse(w)
	}
}
