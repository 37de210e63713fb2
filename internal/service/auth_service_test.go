package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vigiaedes/api/internal/acesso"
	"github.com/vigiaedes/api/internal/auth"
	"github.com/vigiaedes/api/internal/usuario"
)

type stubUsuarios struct {
	porEmail map[string]*usuario.Usuario
	porID    map[uuid.UUID]*usuario.Usuario
}

func newStubUsuarios() *stubUsuarios {
	return &stubUsuarios{
		porEmail: make(map[string]*usuario.Usuario),
		porID:    make(map[uuid.UUID]*usuario.Usuario),
	}
}

func (s *stubUsuarios) add(u *usuario.Usuario) {
	s.porEmail[strings.ToLower(u.Email)] = u
	s.porID[u.ID] = u
}

func (s *stubUsuarios) BuscarPorEmail(ctx context.Context, email string) (*usuario.Usuario, error) {
	if u, ok := s.porEmail[strings.ToLower(strings.TrimSpace(email))]; ok {
		return u, nil
	}
	return nil, usuario.ErrNotFound
}

func (s *stubUsuarios) BuscarPorID(ctx context.Context, id uuid.UUID) (*usuario.Usuario, error) {
	if u, ok := s.porID[id]; ok {
		return u, nil
	}
	return nil, usuario.ErrNotFound
}

func (s *stubUsuarios) Criar(ctx context.Context, u usuario.Usuario) (*usuario.Usuario, error) {
	u.ID = uuid.New()
	s.add(&u)
	return &u, nil
}

func (s *stubUsuarios) ListarLocalidades(ctx context.Context, chave string) ([]string, error) {
	return []string{}, nil
}

type stubRedis struct {
	store map[string]string
}

func (s *stubRedis) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	if s.store == nil {
		s.store = make(map[string]string)
	}
	switch v := value.(type) {
	case string:
		s.store[key] = v
	case []byte:
		s.store[key] = string(v)
	}
	cmd := redis.NewStatusCmd(ctx)
	cmd.SetVal("OK")
	return cmd
}

func (s *stubRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	cmd := redis.NewStringCmd(ctx)
	val, ok := s.store[key]
	if !ok {
		cmd.SetErr(redis.Nil)
		return cmd
	}
	cmd.SetVal(val)
	return cmd
}

func (s *stubRedis) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	var removed int64
	for _, key := range keys {
		if _, ok := s.store[key]; ok {
			delete(s.store, key)
			removed++
		}
	}
	cmd := redis.NewIntCmd(ctx)
	cmd.SetVal(removed)
	return cmd
}

func newTestService(t *testing.T, usuarios *stubUsuarios) *AuthService {
	t.Helper()
	jwtMgr := auth.NewJWTManager(strings.Repeat("s", 32), 15*time.Minute)
	regras := acesso.NovasRegras([]string{"chefe@prefeitura.gov.br"}, nil)
	return NewAuthService(usuarios, &stubRedis{}, jwtMgr, regras, time.Hour)
}

func usuarioDeTeste(t *testing.T, email string, nivel acesso.Nivel, ativo bool) *usuario.Usuario {
	t.Helper()
	hash, err := auth.Hash("segredo123")
	require.NoError(t, err)
	return &usuario.Usuario{
		ID:        uuid.New(),
		Nome:      "Ana",
		Email:     email,
		Cargo:     "Supervisora",
		Nivel:     nivel,
		SenhaHash: hash,
		Ativo:     ativo,
	}
}

func TestLogin(t *testing.T) {
	usuarios := newStubUsuarios()
	usuarios.add(usuarioDeTeste(t, "ana@x.br", acesso.NivelSupervisor, true))
	svc := newTestService(t, usuarios)

	t.Run("credenciais válidas", func(t *testing.T) {
		result, err := svc.Login(context.Background(), "ana@x.br", "segredo123")
		require.NoError(t, err)
		assert.NotEmpty(t, result.AccessToken)
		assert.NotEmpty(t, result.RefreshToken)
		assert.Equal(t, "supervisor", result.Perfil.Nivel)
		assert.Equal(t, "ana", result.Perfil.Usuario)
		assert.True(t, result.Perfil.Autenticado)
	})

	t.Run("senha errada", func(t *testing.T) {
		_, err := svc.Login(context.Background(), "ana@x.br", "outra-senha")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("email desconhecido", func(t *testing.T) {
		_, err := svc.Login(context.Background(), "ninguem@x.br", "segredo123")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestLoginContaDesativada(t *testing.T) {
	usuarios := newStubUsuarios()
	usuarios.add(usuarioDeTeste(t, "ana@x.br", acesso.NivelSupervisor, false))
	svc := newTestService(t, usuarios)

	_, err := svc.Login(context.Background(), "ana@x.br", "segredo123")
	assert.ErrorIs(t, err, ErrAccountDisabled)
}

func TestLoginSemNivelENegado(t *testing.T) {
	usuarios := newStubUsuarios()
	usuarios.add(usuarioDeTeste(t, "ana@x.br", acesso.NivelDesconhecido, true))
	svc := newTestService(t, usuarios)

	_, err := svc.Login(context.Background(), "ana@x.br", "segredo123")
	assert.ErrorIs(t, err, ErrSemNivel)
}

func TestRegistrar(t *testing.T) {
	t.Run("auto-cadastro comum vira supervisor", func(t *testing.T) {
		svc := newTestService(t, newStubUsuarios())
		result, err := svc.Registrar(context.Background(), "Novo", "novo@gmail.com", "segredo123", "Supervisor")
		require.NoError(t, err)
		assert.Equal(t, "supervisor", result.Perfil.Nivel)
	})

	t.Run("email administrativo vira administrador", func(t *testing.T) {
		svc := newTestService(t, newStubUsuarios())
		result, err := svc.Registrar(context.Background(), "Chefe", "chefe@prefeitura.gov.br", "segredo123", "Coordenador")
		require.NoError(t, err)
		assert.Equal(t, "administrador", result.Perfil.Nivel)
	})

	t.Run("email duplicado", func(t *testing.T) {
		usuarios := newStubUsuarios()
		usuarios.add(usuarioDeTeste(t, "ana@x.br", acesso.NivelSupervisor, true))
		svc := newTestService(t, usuarios)
		_, err := svc.Registrar(context.Background(), "Ana", "ana@x.br", "segredo123", "Supervisora")
		assert.ErrorIs(t, err, ErrEmailEmUso)
	})

	t.Run("senha curta", func(t *testing.T) {
		svc := newTestService(t, newStubUsuarios())
		_, err := svc.Registrar(context.Background(), "Novo", "novo@gmail.com", "curta", "Supervisor")
		assert.Error(t, err)
	})
}

func TestRefreshRotaciona(t *testing.T) {
	usuarios := newStubUsuarios()
	usuarios.add(usuarioDeTeste(t, "ana@x.br", acesso.NivelSupervisor, true))
	svc := newTestService(t, usuarios)

	login, err := svc.Login(context.Background(), "ana@x.br", "segredo123")
	require.NoError(t, err)

	renovado, err := svc.Refresh(context.Background(), login.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, login.RefreshToken, renovado.RefreshToken)

	// o token antigo não vale mais depois da rotação
	_, err = svc.Refresh(context.Background(), login.RefreshToken)
	assert.ErrorIs(t, err, ErrRefreshInvalid)
}

func TestLogoutRevoga(t *testing.T) {
	usuarios := newStubUsuarios()
	usuarios.add(usuarioDeTeste(t, "ana@x.br", acesso.NivelSupervisor, true))
	svc := newTestService(t, usuarios)

	login, err := svc.Login(context.Background(), "ana@x.br", "segredo123")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), login.RefreshToken))

	_, err = svc.Refresh(context.Background(), login.RefreshToken)
	assert.ErrorIs(t, err, ErrRefreshInvalid)
}
