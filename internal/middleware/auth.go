package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"DocControl/internal/auth"
)

type contextKey string

const userLoginKey contextKey = "user_login"

const bearerPrefix = "Bearer "

// GetUserLoginFromContext возвращает логин аутентифицированного пользователя,
// положенный в контекст мидлварью WithAuth.
func GetUserLoginFromContext(ctx context.Context) (string, bool) {
	login, ok := ctx.Value(userLoginKey).(string)
	return login, ok && login != ""
}

// WithAuth — сквозной шлюз аутентификации: выполняется до диспетчеризации
// роутов, так что ни один хендлер не может "забыть" проверить токен.
// Пропускает без токена только preflight-запросы (OPTIONS) и явный список
// публичных путей; всё остальное требует Authorization: Bearer <token>.
func WithAuth(codec *auth.TokenCodec, publicPaths map[string]struct{}) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}
			if _, ok := publicPaths[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, bearerPrefix) {
				writeDetail(w, http.StatusUnauthorized, "Authorization header is missing or invalid")
				return
			}

			subject, err := codec.Verify(strings.TrimPrefix(header, bearerPrefix))
			if err != nil {
				if errors.Is(err, auth.ErrTokenExpired) {
					writeDetail(w, http.StatusUnauthorized, "Token expired")
					return
				}
				writeDetail(w, http.StatusUnauthorized, "Token is invalid")
				return
			}

			ctx := context.WithValue(r.Context(), userLoginKey, subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}
