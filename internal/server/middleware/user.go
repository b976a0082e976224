package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/iudanet/finkeeper/internal/server/handlers"
	"github.com/iudanet/finkeeper/pkg/api"
)

// maxUserIDLen ограничение длины идентификатора пользователя
const maxUserIDLen = 128

// UserMiddleware переносит X-User-ID в контекст запроса.
// Запрос без заголовка проходит дальше, ресурсы сами отвечают 401.
func UserMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := r.Header.Get(api.UserHeader)
			if userID == "" {
				next.ServeHTTP(w, r)
				return
			}

			if len(userID) > maxUserIDLen || strings.ContainsAny(userID, " \t\r\n/") {
				logger.Warn("Invalid user header", "length", len(userID))
				writeError(w, http.StatusBadRequest, api.ErrCodeMissingUser, "invalid "+api.UserHeader+" header")
				return
			}

			next.ServeHTTP(w, r.WithContext(handlers.WithUserID(r.Context(), userID)))
		})
	}
}
