package usuario

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/vigiaedes/api/internal/acesso"
)

var (
	// ErrNotFound é retornado quando o usuário não existe.
	ErrNotFound = errors.New("usuário não encontrado")
	// ErrChaveAusente impede exclusão de usuário sem chave externa.
	ErrChaveAusente = errors.New("usuário sem chave externa; exclusão não executada")
	// ErrNivelInvalido indica nível de acesso desconhecido.
	ErrNivelInvalido = errors.New("nível de acesso inválido")
)

// Usuario é um operador do painel. A chave externa identifica o perfil
// no serviço de identidade e chaveia os vínculos de localidade.
type Usuario struct {
	ID           uuid.UUID    `json:"id"`
	ChaveExterna *string      `json:"chave_externa,omitempty"`
	Nome         string       `json:"nome"`
	Email        string       `json:"email"`
	Cargo        string       `json:"cargo"`
	Nivel        acesso.Nivel `json:"nivel"`
	SenhaHash    string       `json:"-"`
	Ativo        bool         `json:"ativo"`
	Localidades  []string     `json:"localidades"`
	CriadoEm     time.Time    `json:"criado_em"`
	AtualizadoEm *time.Time   `json:"atualizado_em,omitempty"`
}
