package middleware

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	errs "checkers_backend/internal/errors"
	"checkers_backend/internal/httpresponse"
)

const SessionCookie = "sessionID"

type ctxKey struct{}

// SessionResolver maps a session ID to the ID of its player.
type SessionResolver interface {
	PlayerIDBySession(ctx context.Context, sessionID string) (string, error)
}

// RequireSession rejects requests without a live session and puts the
// player ID into the request context otherwise.
func RequireSession(resolver SessionResolver, log *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookie)
			if err != nil {
				log.Warn("RequireSession: no sessionID cookie")
				httpresponse.WriteResponseWithStatus(w, http.StatusUnauthorized,
					httpresponse.ErrorResponse{ErrorDescription: "Не найдена cookie sessionID"})
				return
			}

			playerID, err := resolver.PlayerIDBySession(r.Context(), cookie.Value)
			if err != nil {
				if errors.Is(err, errs.ErrSessionNotFound) {
					httpresponse.WriteResponseWithStatus(w, http.StatusUnauthorized,
						httpresponse.ErrorResponse{ErrorDescription: "Сессия не найдена или истекла"})
					return
				}
				log.Errorf("RequireSession: %v", err)
				httpresponse.WriteInternalErrorResponse(w)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPlayerID(r.Context(), playerID)))
		})
	}
}

func WithPlayerID(ctx context.Context, playerID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, playerID)
}

func PlayerID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ctxKey{}).(string)
	return id, ok && id != ""
}
