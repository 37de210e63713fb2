package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/vigiaedes/api/internal/acesso"
	"github.com/vigiaedes/api/internal/auth"
	"github.com/vigiaedes/api/internal/usuario"
	"github.com/vigiaedes/api/internal/util"
)

const audiencePainel = "painel"

var (
	// ErrInvalidCredentials indica falha na autenticação.
	ErrInvalidCredentials = errors.New("credenciais inválidas")
	// ErrAccountDisabled indica conta desativada.
	ErrAccountDisabled = errors.New("conta desativada")
	// ErrRefreshInvalid indica refresh token inválido ou expirado.
	ErrRefreshInvalid = errors.New("refresh token inválido")
	// ErrSemNivel indica identidade sem nível de acesso atribuído.
	ErrSemNivel = errors.New("usuário sem nível de acesso")
	// ErrEmailEmUso indica cadastro duplicado.
	ErrEmailEmUso = errors.New("email já cadastrado")
)

type usuarioRepository interface {
	BuscarPorEmail(ctx context.Context, email string) (*usuario.Usuario, error)
	BuscarPorID(ctx context.Context, id uuid.UUID) (*usuario.Usuario, error)
	Criar(ctx context.Context, u usuario.Usuario) (*usuario.Usuario, error)
	ListarLocalidades(ctx context.Context, chave string) ([]string, error)
}

type redisCommander interface {
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// AuthService concentra autenticação, auto-cadastro e sessões.
type AuthService struct {
	usuarios   usuarioRepository
	redis      redisCommander
	jwt        *auth.JWTManager
	regras     acesso.Regras
	refreshTTL time.Duration
}

// NewAuthService cria novo serviço.
func NewAuthService(usuarios usuarioRepository, redisClient redisCommander, jwtMgr *auth.JWTManager, regras acesso.Regras, refreshTTL time.Duration) *AuthService {
	return &AuthService{usuarios: usuarios, redis: redisClient, jwt: jwtMgr, regras: regras, refreshTTL: refreshTTL}
}

// JWT expõe o gerenciador de JWT para os middlewares.
func (s *AuthService) JWT() *auth.JWTManager {
	return s.jwt
}

// PerfilSessao é a identidade de sessão exposta ao painel.
type PerfilSessao struct {
	ID          string   `json:"id"`
	Nome        string   `json:"nome"`
	Email       string   `json:"email"`
	Usuario     string   `json:"usuario"`
	Cargo       string   `json:"cargo"`
	Nivel       string   `json:"nivel"`
	Rotulo      string   `json:"rotulo"`
	Localidades []string `json:"localidades"`
	Autenticado bool     `json:"autenticado"`
}

// LoginResult representa retorno padrão das autenticações.
type LoginResult struct {
	AccessToken   string
	RefreshToken  string
	RefreshExpiry time.Time
	Perfil        PerfilSessao
}

// Login autentica um operador do painel por email e senha.
func (s *AuthService) Login(ctx context.Context, email, senha string) (*LoginResult, error) {
	u, err := s.usuarios.BuscarPorEmail(ctx, email)
	if err != nil {
		if errors.Is(err, usuario.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	ok, err := auth.Verify(senha, u.SenhaHash)
	if err != nil {
		log.Warn().Err(err).Msg("login: verificação de senha falhou")
		return nil, ErrInvalidCredentials
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	if !u.Ativo {
		return nil, ErrAccountDisabled
	}
	if u.Nivel == acesso.NivelDesconhecido {
		return nil, ErrSemNivel
	}

	return s.issueSession(ctx, u)
}

// Registrar cria uma conta por auto-cadastro. O nível vem das regras
// configuradas e nunca é agente: o nível de campo é provisionado pelo
// administrador, fora deste fluxo.
func (s *AuthService) Registrar(ctx context.Context, nome, email, senha, cargo string) (*LoginResult, error) {
	nome = strings.TrimSpace(nome)
	if nome == "" {
		return nil, errors.New("nome é obrigatório")
	}
	if err := util.ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := util.ValidatePassword(senha); err != nil {
		return nil, err
	}

	if _, err := s.usuarios.BuscarPorEmail(ctx, email); err == nil {
		return nil, ErrEmailEmUso
	} else if !errors.Is(err, usuario.ErrNotFound) {
		return nil, err
	}

	hash, err := auth.Hash(senha)
	if err != nil {
		return nil, err
	}

	nivel := s.regras.DeterminarNivel(email, acesso.NivelSupervisor)

	criado, err := s.usuarios.Criar(ctx, usuario.Usuario{
		Nome:      nome,
		Email:     email,
		Cargo:     strings.TrimSpace(cargo),
		Nivel:     nivel,
		SenhaHash: hash,
		Ativo:     true,
	})
	if err != nil {
		return nil, err
	}

	return s.issueSession(ctx, criado)
}

// Refresh rotaciona a sessão a partir do refresh token.
func (s *AuthService) Refresh(ctx context.Context, rawToken string) (*LoginResult, error) {
	if strings.TrimSpace(rawToken) == "" {
		return nil, ErrRefreshInvalid
	}

	key := auth.RefreshRedisKey(auth.HashRefreshToken(rawToken))
	subject, err := s.redis.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrRefreshInvalid
		}
		return nil, err
	}

	id, err := uuid.Parse(subject)
	if err != nil {
		return nil, ErrRefreshInvalid
	}

	u, err := s.usuarios.BuscarPorID(ctx, id)
	if err != nil {
		if errors.Is(err, usuario.ErrNotFound) {
			return nil, ErrRefreshInvalid
		}
		return nil, err
	}
	if !u.Ativo {
		return nil, ErrAccountDisabled
	}

	// rotação: o token antigo deixa de valer antes do novo ser emitido
	_ = s.redis.Del(ctx, key)

	return s.issueSession(ctx, u)
}

// Logout revoga o refresh token atual.
func (s *AuthService) Logout(ctx context.Context, rawToken string) error {
	if strings.TrimSpace(rawToken) == "" {
		return nil
	}
	key := auth.RefreshRedisKey(auth.HashRefreshToken(rawToken))
	if err := s.redis.Del(ctx, key).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	return nil
}

// Perfil monta a identidade de sessão de um usuário autenticado.
func (s *AuthService) Perfil(ctx context.Context, id uuid.UUID) (*PerfilSessao, error) {
	u, err := s.usuarios.BuscarPorID(ctx, id)
	if err != nil {
		return nil, err
	}
	perfil := s.perfilDe(ctx, u)
	return &perfil, nil
}

func (s *AuthService) issueSession(ctx context.Context, u *usuario.Usuario) (*LoginResult, error) {
	access, _, err := s.jwt.GenerateAccessToken(u.ID.String(), audiencePainel, u.Email, u.Nivel.String())
	if err != nil {
		return nil, err
	}

	rawRefresh, hash, err := auth.GenerateRefreshToken()
	if err != nil {
		return nil, err
	}

	expiry := time.Now().Add(s.refreshTTL)
	if err := s.redis.Set(ctx, auth.RefreshRedisKey(hash), u.ID.String(), s.refreshTTL).Err(); err != nil {
		return nil, err
	}

	return &LoginResult{
		AccessToken:   access,
		RefreshToken:  rawRefresh,
		RefreshExpiry: expiry,
		Perfil:        s.perfilDe(ctx, u),
	}, nil
}

func (s *AuthService) perfilDe(ctx context.Context, u *usuario.Usuario) PerfilSessao {
	localidades := u.Localidades
	if localidades == nil && u.ChaveExterna != nil {
		if ls, err := s.usuarios.ListarLocalidades(ctx, *u.ChaveExterna); err == nil {
			localidades = ls
		}
	}
	if localidades == nil {
		localidades = []string{}
	}
	return PerfilSessao{
		ID:          u.ID.String(),
		Nome:        u.Nome,
		Email:       u.Email,
		Usuario:     util.UsernameFromEmail(u.Email),
		Cargo:       u.Cargo,
		Nivel:       u.Nivel.String(),
		Rotulo:      u.Nivel.Rotulo(),
		Localidades: localidades,
		Autenticado: true,
	}
}
