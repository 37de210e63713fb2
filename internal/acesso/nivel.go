package acesso

import (
	"encoding/json"
	"strings"
)

// Nivel representa o nível de acesso de um usuário do painel.
// A ordem dos valores define o ranking de permissão.
type Nivel int

const (
	// NivelDesconhecido é o fallback para identidades sem nível atribuído.
	NivelDesconhecido Nivel = iota
	// NivelAgente é o nível de campo, provisionado apenas por administradores.
	NivelAgente
	// NivelSupervisor é o piso para auto-cadastro.
	NivelSupervisor
	// NivelAdministrador tem acesso irrestrito ao painel.
	NivelAdministrador
)

// String devolve o identificador persistível do nível.
func (n Nivel) String() string {
	switch n {
	case NivelAgente:
		return "agente"
	case NivelSupervisor:
		return "supervisor"
	case NivelAdministrador:
		return "administrador"
	default:
		return "desconhecido"
	}
}

// Rotulo devolve o rótulo exibido no painel.
func (n Nivel) Rotulo() string {
	switch n {
	case NivelAgente:
		return "Agente de Endemias"
	case NivelSupervisor:
		return "Supervisor de Campo"
	case NivelAdministrador:
		return "Administrador"
	default:
		return "Sem Nível"
	}
}

// ParseNivel interpreta o identificador textual, caso-insensível.
func ParseNivel(s string) Nivel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "agente":
		return NivelAgente
	case "supervisor":
		return NivelSupervisor
	case "administrador":
		return NivelAdministrador
	default:
		return NivelDesconhecido
	}
}

// Permite informa se o nível satisfaz o mínimo exigido.
// Identidades sem nível são sempre negadas.
func Permite(nivel, exigido Nivel) bool {
	if nivel == NivelDesconhecido || exigido == NivelDesconhecido {
		return false
	}
	return nivel >= exigido
}

// MarshalJSON serializa o nível como string.
func (n Nivel) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.String())
}

// UnmarshalJSON aceita o identificador textual.
func (n *Nivel) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*n = ParseNivel(s)
	return nil
}
