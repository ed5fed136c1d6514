package auth

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	userDomain "checkers_backend/internal/domain/user"
	errs "checkers_backend/internal/errors"
	"checkers_backend/internal/httpresponse"
	"checkers_backend/internal/middleware"
	"checkers_backend/internal/utils"
)

type AuthUsecase interface {
	RegisterUser(ctx context.Context, username, password string) (string, error)
	LoginUser(ctx context.Context, username, password string) (string, error)
	LogoutUser(ctx context.Context, sessionID string) error
	GetUserByID(ctx context.Context, id string) (userDomain.User, error)
	Leaderboard(ctx context.Context, pageNum int) (userDomain.LeaderboardResponse, error)
}

type AuthHandler struct {
	usecaseHandler AuthUsecase
	log            *zap.SugaredLogger
	sessionTTL     time.Duration
}

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func NewAuthHandler(uc AuthUsecase, log *zap.SugaredLogger, sessionTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		usecaseHandler: uc,
		log:            log,
		sessionTTL:     sessionTTL,
	}
}

// Register создаёт игрока и сразу открывает для него сессию.
func (a *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var registerData RegisterRequest
	if err := utils.DecodeJSONRequest(r, &registerData); err != nil {
		a.log.Error("Register: malformed JSON: ", err)
		httpresponse.WriteError(w, http.StatusBadRequest, httpresponse.MALFORMEDJSON_errorDesc)
		return
	}

	sessionID, err := a.usecaseHandler.RegisterUser(r.Context(), registerData.Username, registerData.Password)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrUserExists):
			a.log.Errorf("Register: user already exists: %s", registerData.Username)
			httpresponse.WriteError(w, http.StatusConflict, "Пользователь с таким именем уже существует")
		case errors.Is(err, errs.ErrEmptyCredentials):
			httpresponse.WriteError(w, http.StatusBadRequest, err.Error())
		default:
			a.log.Error("Register: internal error: ", err)
			httpresponse.WriteInternalErrorResponse(w)
		}
		return
	}

	a.setSessionCookie(w, sessionID)
	httpresponse.WriteResponseWithStatus(w, http.StatusCreated, nil)
}

// Login авторизует игрока по логину и паролю и выставляет cookie sessionID.
func (a *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var loginData LoginRequest
	if err := utils.DecodeJSONRequest(r, &loginData); err != nil {
		a.log.Error("Login: malformed JSON: ", err)
		httpresponse.WriteError(w, http.StatusBadRequest, httpresponse.MALFORMEDJSON_errorDesc)
		return
	}

	sessionID, err := a.usecaseHandler.LoginUser(r.Context(), loginData.Username, loginData.Password)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrUserNotFound):
			a.log.Errorf("Login: user not found: %s", loginData.Username)
			httpresponse.WriteError(w, http.StatusUnauthorized, "Пользователь не найден")
		case errors.Is(err, errs.ErrWrongPassword):
			a.log.Errorf("Login: wrong password for user: %s", loginData.Username)
			httpresponse.WriteError(w, http.StatusUnauthorized, "Неверный пароль")
		default:
			a.log.Error("Login: internal error: ", err)
			httpresponse.WriteInternalErrorResponse(w)
		}
		return
	}

	a.setSessionCookie(w, sessionID)
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, nil)
}

func (a *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sessionCookie, err := r.Cookie(middleware.SessionCookie)
	if err != nil {
		a.log.Warn("Logout: no cookie provided")
		httpresponse.WriteError(w, http.StatusBadRequest, http.ErrNoCookie.Error())
		return
	}

	if err = a.usecaseHandler.LogoutUser(r.Context(), sessionCookie.Value); err != nil {
		if errors.Is(err, errs.ErrSessionNotFound) {
			httpresponse.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		a.log.Errorf("Logout: failed to logout: %v", err)
		httpresponse.WriteInternalErrorResponse(w)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Secure:   true,
		HttpOnly: true,
	})
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, nil)
}

// Me отдаёт профиль и статистику текущего игрока.
func (a *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	playerID, _ := middleware.PlayerID(r.Context())
	a.writePlayer(w, r, playerID)
}

func (a *AuthHandler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	a.writePlayer(w, r, chi.URLParam(r, "id"))
}

func (a *AuthHandler) writePlayer(w http.ResponseWriter, r *http.Request, playerID string) {
	u, err := a.usecaseHandler.GetUserByID(r.Context(), playerID)
	if err != nil {
		if errors.Is(err, errs.ErrUserNotFound) {
			httpresponse.WriteError(w, http.StatusNotFound, "Пользователь не найден")
			return
		}
		a.log.Errorf("GetPlayer: %v", err)
		httpresponse.WriteInternalErrorResponse(w)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, u)
}

// Leaderboard отдаёт страницу рейтинга: ?page=N, нумерация с 1.
func (a *AuthHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	pageNum := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			httpresponse.WriteError(w, http.StatusBadRequest, "page must be a positive integer")
			return
		}
		pageNum = n
	}

	resp, err := a.usecaseHandler.Leaderboard(r.Context(), pageNum)
	if err != nil {
		a.log.Errorf("Leaderboard: %v", err)
		httpresponse.WriteInternalErrorResponse(w)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, resp)
}

func (a *AuthHandler) setSessionCookie(w http.ResponseWriter, sessionID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    sessionID,
		Path:     "/",
		Expires:  time.Now().Add(a.sessionTTL),
		Secure:   true,
		HttpOnly: true,
	})
}
