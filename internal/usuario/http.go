package usuario

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/vigiaedes/api/internal/http/respond"
)

// Handler expõe o painel de gestão de usuários.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.handleListar)
	r.Post("/", h.handleCriar)
	r.Delete("/{id}", h.handleExcluir)
}

func (h *Handler) handleListar(w http.ResponseWriter, r *http.Request) {
	usuarios, err := h.service.Listar(r.Context())
	if err != nil {
		respond.Erro(w, http.StatusInternalServerError, "INTERNAL", "não foi possível listar os usuários", nil)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{"usuarios": usuarios})
}

func (h *Handler) handleCriar(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Formulario
		Senha       string   `json:"senha"`
		Localidades []string `json:"localidades"`
		Ativo       *bool    `json:"ativo"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respond.Erro(w, http.StatusBadRequest, "VALIDATION", "JSON inválido", nil)
		return
	}

	ativo := true
	if payload.Ativo != nil {
		ativo = *payload.Ativo
	}

	criado, err := h.service.Criar(r.Context(), payload.Formulario, payload.Senha, payload.Localidades, ativo)
	if err != nil {
		switch {
		case errors.Is(err, ErrNomeObrigatorio),
			errors.Is(err, ErrEmailObrigatorio),
			errors.Is(err, ErrCargoObrigatorio),
			errors.Is(err, ErrNivelObrigatorio),
			errors.Is(err, ErrEmailInvalido),
			errors.Is(err, ErrNivelInvalido):
			respond.Erro(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
		default:
			respond.Erro(w, http.StatusInternalServerError, "INTERNAL", "não foi possível criar o usuário", nil)
		}
		return
	}

	respond.ComAviso(w, http.StatusCreated, map[string]any{"usuario": criado}, respond.Sucesso("usuário criado"))
}

func (h *Handler) handleExcluir(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Erro(w, http.StatusBadRequest, "VALIDATION", "id inválido", nil)
		return
	}

	alvo, err := h.service.Buscar(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Erro(w, http.StatusNotFound, "NOT_FOUND", err.Error(), nil)
			return
		}
		respond.Erro(w, http.StatusInternalServerError, "INTERNAL", "não foi possível carregar o usuário", nil)
		return
	}

	if err := h.service.Excluir(r.Context(), alvo.ChaveExterna); err != nil {
		if errors.Is(err, ErrChaveAusente) {
			respond.Erro(w, http.StatusConflict, "VALIDATION", err.Error(), nil)
			return
		}
		respond.Erro(w, http.StatusInternalServerError, "INTERNAL", "não foi possível excluir o usuário", nil)
		return
	}

	respond.ComAviso(w, http.StatusOK, nil, respond.Sucesso("usuário removido"))
}
