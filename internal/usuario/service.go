package usuario

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/vigiaedes/api/internal/acesso"
	"github.com/vigiaedes/api/internal/auth"
)

type repositorio interface {
	Criar(ctx context.Context, u Usuario) (*Usuario, error)
	Listar(ctx context.Context) ([]Usuario, error)
	BuscarPorID(ctx context.Context, id uuid.UUID) (*Usuario, error)
	BuscarPorEmail(ctx context.Context, email string) (*Usuario, error)
	ExcluirAcessos(ctx context.Context, chave string) error
	ExcluirPerfil(ctx context.Context, chave string) error
}

// Service centraliza os casos de uso de gestão de usuários do painel.
type Service struct {
	repo repositorio
}

func NewService(repo repositorio) *Service {
	return &Service{repo: repo}
}

// Listar devolve os usuários cadastrados.
func (s *Service) Listar(ctx context.Context) ([]Usuario, error) {
	return s.repo.Listar(ctx)
}

// Buscar recupera um usuário pelo ID.
func (s *Service) Buscar(ctx context.Context, id uuid.UUID) (*Usuario, error) {
	return s.repo.BuscarPorID(ctx, id)
}

// Criar valida o formulário e persiste o usuário com seus vínculos.
// É o único caminho, junto com a CLI, que pode atribuir o nível
// agente.
func (s *Service) Criar(ctx context.Context, form Formulario, senha string, localidades []string, ativo bool) (*Usuario, error) {
	if err := form.Validar(); err != nil {
		return nil, err
	}

	nivel := acesso.ParseNivel(form.Nivel)
	if nivel == acesso.NivelDesconhecido {
		return nil, ErrNivelInvalido
	}

	senha = strings.TrimSpace(senha)
	if len(senha) < 8 {
		return nil, errors.New("senha deve ter pelo menos 8 caracteres")
	}
	hash, err := auth.Hash(senha)
	if err != nil {
		return nil, err
	}

	return s.repo.Criar(ctx, Usuario{
		Nome:        strings.TrimSpace(form.Nome),
		Email:       strings.TrimSpace(form.Email),
		Cargo:       strings.TrimSpace(form.Cargo),
		Nivel:       nivel,
		SenhaHash:   hash,
		Ativo:       ativo,
		Localidades: localidades,
	})
}

// Excluir remove o usuário em duas etapas dependentes e não
// transacionais: primeiro os vínculos de localidade (melhor esforço,
// falha apenas logada), depois o perfil (obrigatório, falha aborta).
// Sem chave externa nada é tentado contra o armazenamento.
func (s *Service) Excluir(ctx context.Context, chave *string) error {
	if chave == nil || strings.TrimSpace(*chave) == "" {
		return ErrChaveAusente
	}

	if err := s.repo.ExcluirAcessos(ctx, *chave); err != nil {
		// vínculo órfão é menos danoso do que bloquear a remoção da conta
		log.Warn().Err(err).Str("chave_externa", *chave).
			Msg("usuario: falha ao remover vínculos de localidade")
	}

	if err := s.repo.ExcluirPerfil(ctx, *chave); err != nil {
		return err
	}
	return nil
}
