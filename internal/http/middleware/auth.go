package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/vigiaedes/api/internal/acesso"
	"github.com/vigiaedes/api/internal/auth"
	"github.com/vigiaedes/api/internal/http/respond"
)

type contextKey string

const (
	ContextKeySubject contextKey = "subject"
	ContextKeyEmail   contextKey = "email"
	ContextKeyNivel   contextKey = "nivel"
)

// Auth valida o JWT de acesso e injeta a identidade no contexto.
func Auth(jwtManager *auth.JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				respond.Erro(w, http.StatusUnauthorized, "AUTH", "token ausente", nil)
				return
			}

			claims, err := jwtManager.ParseAndValidate(parts[1])
			if err != nil {
				respond.Erro(w, http.StatusUnauthorized, "AUTH", "token inválido", nil)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeySubject, claims.Subject)
			ctx = context.WithValue(ctx, ContextKeyEmail, claims.Email)
			ctx = context.WithValue(ctx, ContextKeyNivel, claims.Nivel)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetSubject recupera o subject do contexto.
func GetSubject(ctx context.Context) string {
	val, _ := ctx.Value(ContextKeySubject).(string)
	return val
}

// GetEmail recupera o e-mail autenticado do contexto.
func GetEmail(ctx context.Context) string {
	val, _ := ctx.Value(ContextKeyEmail).(string)
	return val
}

// GetNivel recupera o nível de acesso do contexto. Identidades sem
// claim válida caem em NivelDesconhecido e são negadas nos gates.
func GetNivel(ctx context.Context) acesso.Nivel {
	val, _ := ctx.Value(ContextKeyNivel).(string)
	return acesso.ParseNivel(val)
}

// RequireNivel garante o nível mínimo exigido pela rota. A negação usa
// um estado dedicado de acesso negado, nunca um no-op silencioso.
func RequireNivel(exigido acesso.Nivel) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			nivel := GetNivel(r.Context())
			if !acesso.Permite(nivel, exigido) {
				respond.Erro(w, http.StatusForbidden, "FORBIDDEN",
					"acesso negado: requer nível "+exigido.String(), nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
