package usuario

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRepo struct {
	chamadas     []string
	falhaAcessos error
	falhaPerfil  error
	criados      []Usuario
	falhaCriar   error
}

func (s *stubRepo) Criar(ctx context.Context, u Usuario) (*Usuario, error) {
	s.chamadas = append(s.chamadas, "criar")
	if s.falhaCriar != nil {
		return nil, s.falhaCriar
	}
	u.ID = uuid.New()
	s.criados = append(s.criados, u)
	return &u, nil
}

func (s *stubRepo) Listar(ctx context.Context) ([]Usuario, error) {
	s.chamadas = append(s.chamadas, "listar")
	return nil, nil
}

func (s *stubRepo) BuscarPorID(ctx context.Context, id uuid.UUID) (*Usuario, error) {
	s.chamadas = append(s.chamadas, "buscar_id")
	return nil, ErrNotFound
}

func (s *stubRepo) BuscarPorEmail(ctx context.Context, email string) (*Usuario, error) {
	s.chamadas = append(s.chamadas, "buscar_email")
	return nil, ErrNotFound
}

func (s *stubRepo) ExcluirAcessos(ctx context.Context, chave string) error {
	s.chamadas = append(s.chamadas, "excluir_acessos")
	return s.falhaAcessos
}

func (s *stubRepo) ExcluirPerfil(ctx context.Context, chave string) error {
	s.chamadas = append(s.chamadas, "excluir_perfil")
	return s.falhaPerfil
}

func chave(v string) *string { return &v }

func TestExcluirSemChaveNaoTocaNoArmazenamento(t *testing.T) {
	repo := &stubRepo{}
	svc := NewService(repo)

	err := svc.Excluir(context.Background(), nil)
	assert.ErrorIs(t, err, ErrChaveAusente)
	assert.Empty(t, repo.chamadas)

	err = svc.Excluir(context.Background(), chave("   "))
	assert.ErrorIs(t, err, ErrChaveAusente)
	assert.Empty(t, repo.chamadas)
}

func TestExcluirSucessoDegradado(t *testing.T) {
	// falha ao remover vínculos não aborta a exclusão do perfil
	repo := &stubRepo{falhaAcessos: errors.New("timeout")}
	svc := NewService(repo)

	err := svc.Excluir(context.Background(), chave("uid-123"))
	assert.NoError(t, err)
	assert.Equal(t, []string{"excluir_acessos", "excluir_perfil"}, repo.chamadas)
}

func TestExcluirFalhaNoPerfilEFatal(t *testing.T) {
	repo := &stubRepo{falhaPerfil: errors.New("conexão recusada")}
	svc := NewService(repo)

	err := svc.Excluir(context.Background(), chave("uid-123"))
	assert.Error(t, err)
	// os vínculos foram tentados antes, em sequência
	assert.Equal(t, []string{"excluir_acessos", "excluir_perfil"}, repo.chamadas)
}

func TestExcluirOrdemDasEtapas(t *testing.T) {
	repo := &stubRepo{}
	svc := NewService(repo)

	require.NoError(t, svc.Excluir(context.Background(), chave("uid-123")))
	assert.Equal(t, []string{"excluir_acessos", "excluir_perfil"}, repo.chamadas)
}

func TestCriarValidaFormulario(t *testing.T) {
	repo := &stubRepo{}
	svc := NewService(repo)

	_, err := svc.Criar(context.Background(), Formulario{
		Nome: "", Email: "a@b.com", Cargo: "Agente", Nivel: "agente",
	}, "segredo123", nil, true)
	assert.ErrorIs(t, err, ErrNomeObrigatorio)
	assert.Empty(t, repo.chamadas)
}

func TestCriarRejeitaNivelDesconhecido(t *testing.T) {
	svc := NewService(&stubRepo{})

	_, err := svc.Criar(context.Background(), Formulario{
		Nome: "Ana", Email: "a@b.com", Cargo: "Agente", Nivel: "gerente",
	}, "segredo123", nil, true)
	assert.ErrorIs(t, err, ErrNivelInvalido)
}

func TestCriarPersisteComHash(t *testing.T) {
	repo := &stubRepo{}
	svc := NewService(repo)

	criado, err := svc.Criar(context.Background(), Formulario{
		Nome: "Ana", Email: "Ana@Prefeitura.GOV.br", Cargo: "Agente de Endemias", Nivel: "agente",
	}, "segredo123", []string{"Centro"}, true)
	require.NoError(t, err)
	require.NotNil(t, criado)
	assert.NotEmpty(t, criado.SenhaHash)
	assert.NotEqual(t, "segredo123", criado.SenhaHash)
	assert.Equal(t, []string{"Centro"}, criado.Localidades)
}
