package registro

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrLocalidadeObrigatoria indica registro sem localidade.
	ErrLocalidadeObrigatoria = errors.New("localidade é obrigatória")
	// ErrPeriodoInvalido indica data final anterior à inicial.
	ErrPeriodoInvalido = errors.New("data final não pode ser anterior à inicial")
)

// Contagem é um inteiro não-negativo vindo de formulário. O formulário
// envia os campos numéricos ora como número, ora como string; valores
// não-numéricos ou negativos viram zero na fronteira.
type Contagem int

// UnmarshalJSON aceita número ou string numérica.
func (c *Contagem) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	s = strings.Trim(s, `"`)
	if s == "" || s == "null" {
		*c = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		*c = 0
		return nil
	}
	*c = Contagem(n)
	return nil
}

// Data é uma data de calendário serializada como AAAA-MM-DD.
type Data struct {
	time.Time
}

// UnmarshalJSON aceita data de calendário ou timestamp RFC3339.
func (d *Data) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		d.Time = time.Time{}
		return nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time = t
			return nil
		}
	}
	return fmt.Errorf("data inválida: %q", s)
}

// MarshalJSON serializa apenas a parte de calendário.
func (d Data) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format("2006-01-02"))
}

// Registro é um boletim de inspeção de uma localidade. Imutável depois
// de persistido: correções geram um novo registro.
type Registro struct {
	ID                  uuid.UUID `json:"id"`
	Municipio           string    `json:"municipio"`
	Localidade          string    `json:"localidade"`
	Ciclo               string    `json:"ciclo"`
	Semana              string    `json:"semana_epidemiologica"`
	Atividade           string    `json:"tipo_atividade"`
	DataInicio          Data      `json:"data_inicio"`
	DataFim             Data      `json:"data_fim"`
	Imoveis             Contagem  `json:"imoveis"`
	Inspecionados       Contagem  `json:"inspecionados"`
	DepositosEliminados Contagem  `json:"depositos_eliminados"`
	DepositosTratados   Contagem  `json:"depositos_tratados"`
	Supervisor          string    `json:"supervisor"`
	CriadoEm            time.Time `json:"criado_em"`
}

// Validar aplica as regras mínimas antes de persistir.
func (r *Registro) Validar() error {
	if strings.TrimSpace(r.Localidade) == "" {
		return ErrLocalidadeObrigatoria
	}
	if !r.DataInicio.IsZero() && !r.DataFim.IsZero() && r.DataFim.Before(r.DataInicio.Time) {
		return ErrPeriodoInvalido
	}
	return nil
}
