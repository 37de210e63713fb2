package middleware

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/vigiaedes/api/internal/http/respond"
)

// Recover garante resposta sanitizada em caso de panic: nenhuma
// operação assíncrona pode derrubar o processo.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error().Interface("panic", rec).Str("path", r.URL.Path).Msg("panic recuperado")
				respond.Erro(w, http.StatusInternalServerError, "INTERNAL", "erro interno", nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
