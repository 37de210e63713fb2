package registro

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
)

// Origem indica de onde os registros foram carregados.
type Origem string

const (
	OrigemBanco Origem = "banco"
	OrigemCache Origem = "cache"
)

// Carga é o resultado de uma leitura, com eventual aviso ao usuário.
type Carga struct {
	Registros []Registro `json:"registros"`
	Origem    Origem     `json:"origem"`
	Aviso     string     `json:"aviso,omitempty"`
}

type listador interface {
	Listar(ctx context.Context) ([]Registro, error)
	Inserir(ctx context.Context, reg *Registro) error
}

type cacheRegistros interface {
	Salvar(ctx context.Context, registros []Registro) error
	Carregar(ctx context.Context) ([]Registro, error)
}

// Service é o adaptador de leitura/gravação dos registros: banco como
// fonte primária, cache local como modo degradado de leitura.
type Service struct {
	repo  listador
	cache cacheRegistros
}

func NewService(repo listador, cache cacheRegistros) *Service {
	return &Service{repo: repo, cache: cache}
}

// Carregar busca os registros do banco; em falha, cai para o cache.
// Cache corrompido vira lista vazia com aviso, nunca erro propagado.
func (s *Service) Carregar(ctx context.Context) (Carga, error) {
	registros, err := s.repo.Listar(ctx)
	if err == nil {
		if registros == nil {
			registros = []Registro{}
		}
		if cerr := s.cache.Salvar(ctx, registros); cerr != nil {
			log.Warn().Err(cerr).Msg("registros: falha ao atualizar cache local")
		}
		return Carga{Registros: registros, Origem: OrigemBanco}, nil
	}

	log.Warn().Err(err).Msg("registros: banco indisponível, usando cache local")

	cacheados, cerr := s.cache.Carregar(ctx)
	if cerr != nil {
		if errors.Is(cerr, ErrCacheCorrompido) {
			return Carga{
				Registros: []Registro{},
				Origem:    OrigemCache,
				Aviso:     "dados locais corrompidos; exibindo lista vazia",
			}, nil
		}
		return Carga{}, cerr
	}

	return Carga{
		Registros: cacheados,
		Origem:    OrigemCache,
		Aviso:     "exibindo dados do cache local; banco indisponível",
	}, nil
}

// Salvar valida e persiste um novo registro, renovando o cache em
// melhor esforço.
func (s *Service) Salvar(ctx context.Context, reg *Registro) error {
	if err := reg.Validar(); err != nil {
		return err
	}
	if err := s.repo.Inserir(ctx, reg); err != nil {
		return err
	}

	if atual, err := s.repo.Listar(ctx); err == nil {
		if cerr := s.cache.Salvar(ctx, atual); cerr != nil {
			log.Warn().Err(cerr).Msg("registros: falha ao renovar cache após gravação")
		}
	}
	return nil
}
