package relatorio

import (
	"context"

	"github.com/vigiaedes/api/internal/registro"
)

type fonteRegistros interface {
	Carregar(ctx context.Context) (registro.Carga, error)
}

// Service monta os painéis agregados a partir do adaptador de
// registros, herdando dele o modo degradado de leitura.
type Service struct {
	registros fonteRegistros
}

func NewService(registros fonteRegistros) *Service {
	return &Service{registros: registros}
}

// PainelSemanas devolve os resumos semanais ordenados e o eventual
// aviso de degradação da fonte.
func (s *Service) PainelSemanas(ctx context.Context) ([]*ResumoSemana, string, error) {
	carga, err := s.registros.Carregar(ctx)
	if err != nil {
		return nil, "", err
	}
	return OrdenarPorSemana(AgruparPorSemana(carga.Registros)), carga.Aviso, nil
}

// PainelCiclos devolve os resumos por (atividade, ciclo) ordenados.
func (s *Service) PainelCiclos(ctx context.Context) ([]*ResumoCiclo, string, error) {
	carga, err := s.registros.Carregar(ctx)
	if err != nil {
		return nil, "", err
	}
	return OrdenarPorCiclo(AgruparPorCiclo(carga.Registros)), carga.Aviso, nil
}

// Localidade devolve a seleção de drill-down da localidade informada.
func (s *Service) Localidade(ctx context.Context, nome string) (Selecao, string, error) {
	carga, err := s.registros.Carregar(ctx)
	if err != nil {
		return Selecao{}, "", err
	}
	return SelecionarLocalidade(carga.Registros, nome), carga.Aviso, nil
}
