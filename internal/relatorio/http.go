package relatorio

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/vigiaedes/api/internal/http/respond"
)

// Handler expõe os painéis agregados e o drill-down por localidade.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/dashboard/semanas", h.handleSemanas)
	r.Get("/dashboard/ciclos", h.handleCiclos)
	r.Get("/localidades/{nome}", h.handleLocalidade)
}

func (h *Handler) handleSemanas(w http.ResponseWriter, r *http.Request) {
	resumos, aviso, err := h.service.PainelSemanas(r.Context())
	if err != nil {
		respond.Erro(w, http.StatusServiceUnavailable, "INTERNAL", "não foi possível montar o painel semanal", nil)
		return
	}
	respond.ComAviso(w, http.StatusOK, map[string]any{"semanas": resumos}, respond.Alerta(aviso))
}

func (h *Handler) handleCiclos(w http.ResponseWriter, r *http.Request) {
	resumos, aviso, err := h.service.PainelCiclos(r.Context())
	if err != nil {
		respond.Erro(w, http.StatusServiceUnavailable, "INTERNAL", "não foi possível montar o painel de ciclos", nil)
		return
	}
	respond.ComAviso(w, http.StatusOK, map[string]any{"ciclos": resumos}, respond.Alerta(aviso))
}

func (h *Handler) handleLocalidade(w http.ResponseWriter, r *http.Request) {
	nome, err := url.PathUnescape(chi.URLParam(r, "nome"))
	if err != nil {
		respond.Erro(w, http.StatusBadRequest, "VALIDATION", "localidade inválida", nil)
		return
	}

	selecao, aviso, err := h.service.Localidade(r.Context(), nome)
	if err != nil {
		respond.Erro(w, http.StatusServiceUnavailable, "INTERNAL", "não foi possível carregar a localidade", nil)
		return
	}
	respond.ComAviso(w, http.StatusOK, map[string]any{"selecao": selecao}, respond.Alerta(aviso))
}
