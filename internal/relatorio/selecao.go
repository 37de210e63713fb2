package relatorio

import (
	"sort"
	"strings"

	"github.com/vigiaedes/api/internal/registro"
)

// Selecao é a visão de drill-down de uma localidade: o boletim mais
// recente e o histórico completo, do mais novo para o mais antigo.
type Selecao struct {
	Atual     *registro.Registro  `json:"atual,omitempty"`
	Historico []registro.Registro `json:"historico"`
}

// SelecionarLocalidade filtra os registros da localidade informada
// (igualdade exata) e os ordena por data final decrescente. Nome vazio
// limpa a seleção. Cada chamada recomputa tudo a partir da lista
// completa; não há cache entre chamadas.
func SelecionarLocalidade(registros []registro.Registro, nome string) Selecao {
	if strings.TrimSpace(nome) == "" {
		return Selecao{Historico: []registro.Registro{}}
	}

	historico := make([]registro.Registro, 0)
	for _, reg := range registros {
		if reg.Localidade == nome {
			historico = append(historico, reg)
		}
	}

	sort.SliceStable(historico, func(i, j int) bool {
		return historico[j].DataFim.Before(historico[i].DataFim.Time)
	})

	selecao := Selecao{Historico: historico}
	if len(historico) > 0 {
		atual := historico[0]
		selecao.Atual = &atual
	}
	return selecao
}
