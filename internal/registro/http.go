package registro

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vigiaedes/api/internal/http/respond"
)

// Handler expõe as rotas de registros de inspeção.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registra leitura aberta a qualquer sessão e escrita
// atrás do middleware recebido.
func (h *Handler) RegisterRoutes(r chi.Router, escrita func(http.Handler) http.Handler) {
	r.Get("/", h.handleListar)
	r.Group(func(g chi.Router) {
		if escrita != nil {
			g.Use(escrita)
		}
		g.Post("/", h.handleCriar)
	})
}

func (h *Handler) handleListar(w http.ResponseWriter, r *http.Request) {
	carga, err := h.service.Carregar(r.Context())
	if err != nil {
		respond.Erro(w, http.StatusServiceUnavailable, "INTERNAL", "não foi possível carregar os registros", nil)
		return
	}
	respond.ComAviso(w, http.StatusOK, map[string]any{
		"registros": carga.Registros,
		"origem":    carga.Origem,
	}, respond.Alerta(carga.Aviso))
}

func (h *Handler) handleCriar(w http.ResponseWriter, r *http.Request) {
	var reg Registro
	if err := json.NewDecoder(r.Body).Decode(&reg); err != nil {
		respond.Erro(w, http.StatusBadRequest, "VALIDATION", "JSON inválido", nil)
		return
	}

	if err := h.service.Salvar(r.Context(), &reg); err != nil {
		switch err {
		case ErrLocalidadeObrigatoria, ErrPeriodoInvalido:
			respond.Erro(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
		default:
			respond.Erro(w, http.StatusServiceUnavailable, "INTERNAL", "não foi possível salvar o registro", nil)
		}
		return
	}

	respond.ComAviso(w, http.StatusCreated, map[string]any{"registro": reg}, respond.Sucesso("registro salvo"))
}
