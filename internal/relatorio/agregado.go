package relatorio

import (
	"sort"
	"strconv"

	"github.com/vigiaedes/api/internal/registro"
)

// ResumoSemana acumula os totais de uma semana epidemiológica. Os
// totais são sempre recomputados a partir dos registros, nunca
// persistidos.
type ResumoSemana struct {
	Semana                   string              `json:"semana"`
	TotalImoveis             int                 `json:"total_imoveis"`
	TotalInspecionados       int                 `json:"total_inspecionados"`
	TotalDepositosEliminados int                 `json:"total_depositos_eliminados"`
	TotalDepositosTratados   int                 `json:"total_depositos_tratados"`
	Localidades              []registro.Registro `json:"localidades"`
}

// ChaveCiclo identifica um ciclo operacional dentro de uma modalidade.
type ChaveCiclo struct {
	Atividade string
	Ciclo     string
}

// ResumoCiclo tem a mesma forma do resumo semanal, chaveado por
// (atividade, ciclo).
type ResumoCiclo struct {
	Atividade                string              `json:"tipo_atividade"`
	Ciclo                    string              `json:"ciclo"`
	TotalImoveis             int                 `json:"total_imoveis"`
	TotalInspecionados       int                 `json:"total_inspecionados"`
	TotalDepositosEliminados int                 `json:"total_depositos_eliminados"`
	TotalDepositosTratados   int                 `json:"total_depositos_tratados"`
	Localidades              []registro.Registro `json:"localidades"`
}

// AgruparPorSemana soma os quatro campos numéricos de cada registro no
// resumo da sua semana, preservando a ordem de entrada na lista de
// localidades. A chave não é validada aqui: semanas não-numéricas
// ganham bucket normalmente.
func AgruparPorSemana(registros []registro.Registro) map[string]*ResumoSemana {
	resumos := make(map[string]*ResumoSemana)
	for _, reg := range registros {
		resumo, ok := resumos[reg.Semana]
		if !ok {
			resumo = &ResumoSemana{Semana: reg.Semana}
			resumos[reg.Semana] = resumo
		}
		resumo.TotalImoveis += int(reg.Imoveis)
		resumo.TotalInspecionados += int(reg.Inspecionados)
		resumo.TotalDepositosEliminados += int(reg.DepositosEliminados)
		resumo.TotalDepositosTratados += int(reg.DepositosTratados)
		resumo.Localidades = append(resumo.Localidades, reg)
	}
	return resumos
}

// AgruparPorCiclo agrupa por (atividade, ciclo).
func AgruparPorCiclo(registros []registro.Registro) map[ChaveCiclo]*ResumoCiclo {
	resumos := make(map[ChaveCiclo]*ResumoCiclo)
	for _, reg := range registros {
		chave := ChaveCiclo{Atividade: reg.Atividade, Ciclo: reg.Ciclo}
		resumo, ok := resumos[chave]
		if !ok {
			resumo = &ResumoCiclo{Atividade: reg.Atividade, Ciclo: reg.Ciclo}
			resumos[chave] = resumo
		}
		resumo.TotalImoveis += int(reg.Imoveis)
		resumo.TotalInspecionados += int(reg.Inspecionados)
		resumo.TotalDepositosEliminados += int(reg.DepositosEliminados)
		resumo.TotalDepositosTratados += int(reg.DepositosTratados)
		resumo.Localidades = append(resumo.Localidades, reg)
	}
	return resumos
}

// OrdenarPorSemana devolve os resumos em ordem crescente da semana
// interpretada como inteiro ("9" antes de "10"). Chaves que não
// parseiam vêm primeiro, ordenadas entre si pelo texto, sem jamais
// interromper a ordenação.
func OrdenarPorSemana(resumos map[string]*ResumoSemana) []*ResumoSemana {
	ordenados := make([]*ResumoSemana, 0, len(resumos))
	for _, resumo := range resumos {
		ordenados = append(ordenados, resumo)
	}
	sort.SliceStable(ordenados, func(i, j int) bool {
		return semanaMenor(ordenados[i].Semana, ordenados[j].Semana)
	})
	return ordenados
}

// OrdenarPorCiclo ordena por atividade e depois pelo ciclo, com a
// mesma comparação numérica tolerante usada para semanas.
func OrdenarPorCiclo(resumos map[ChaveCiclo]*ResumoCiclo) []*ResumoCiclo {
	ordenados := make([]*ResumoCiclo, 0, len(resumos))
	for _, resumo := range resumos {
		ordenados = append(ordenados, resumo)
	}
	sort.SliceStable(ordenados, func(i, j int) bool {
		if ordenados[i].Atividade != ordenados[j].Atividade {
			return ordenados[i].Atividade < ordenados[j].Atividade
		}
		return semanaMenor(ordenados[i].Ciclo, ordenados[j].Ciclo)
	})
	return ordenados
}

func semanaMenor(a, b string) bool {
	na, oka := strconv.Atoi(a)
	nb, okb := strconv.Atoi(b)
	switch {
	case oka == nil && okb == nil:
		return na < nb
	case oka != nil && okb != nil:
		return a < b
	case oka != nil:
		// chave não-numérica ordena antes de todas as numéricas
		return true
	default:
		return false
	}
}
