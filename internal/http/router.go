package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/vigiaedes/api/internal/acesso"
	"github.com/vigiaedes/api/internal/config"
	httpmiddleware "github.com/vigiaedes/api/internal/http/middleware"
	"github.com/vigiaedes/api/internal/http/respond"
	"github.com/vigiaedes/api/internal/monitor"
	"github.com/vigiaedes/api/internal/registro"
	"github.com/vigiaedes/api/internal/relatorio"
	"github.com/vigiaedes/api/internal/service"
	"github.com/vigiaedes/api/internal/usuario"
)

type Handler struct {
	cfg           *config.Config
	pool          *pgxpool.Pool
	redis         *redis.Client
	authService   *service.AuthService
	monitor       *monitor.Service
	publicLimiter *httpmiddleware.RateLimiter
	authLimiter   *httpmiddleware.RateLimiter
	devCookies    bool
}

const refreshCookieName = "painel"

// NewRouter devolve roteador configurado com todos os módulos do painel.
func NewRouter(cfg *config.Config, pool *pgxpool.Pool, redisClient *redis.Client, authService *service.AuthService) (http.Handler, error) {
	devCookies := false
	for _, origin := range cfg.AllowOrigins {
		if strings.Contains(origin, "localhost") {
			devCookies = true
			break
		}
	}

	registroRepo := registro.NewRepository(pool)
	registroCache := registro.NewCache(redisClient)
	registroService := registro.NewService(registroRepo, registroCache)
	registroHandler := registro.NewHandler(registroService)

	relatorioService := relatorio.NewService(registroService)
	relatorioHandler := relatorio.NewHandler(relatorioService)

	usuarioRepo := usuario.NewRepository(pool)
	usuarioService := usuario.NewService(usuarioRepo)
	usuarioHandler := usuario.NewHandler(usuarioService)

	monitorRepo := monitor.NewRepository(pool)
	monitorNotifier := monitor.NewSlackNotifier(cfg.Monitoramento.SlackWebhookURL)
	monitorLogger := log.With().Str("component", "monitor").Logger()
	monitorService := monitor.NewService(monitorRepo, []monitor.Alvo{
		{Nome: "postgres", Pinger: pool},
		{Nome: "redis", Pinger: monitor.PingerFunc(func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})},
	}, cfg.Monitoramento, monitorLogger, monitorNotifier)
	monitorService.Start(context.Background())

	h := &Handler{
		cfg:           cfg,
		pool:          pool,
		redis:         redisClient,
		authService:   authService,
		monitor:       monitorService,
		publicLimiter: httpmiddleware.NewRateLimiter(cfg.RateLimitPublic.RequestsPerSecond, cfg.RateLimitPublic.Burst),
		authLimiter:   httpmiddleware.NewRateLimiter(cfg.RateLimitAuth.RequestsPerSecond, cfg.RateLimitAuth.Burst),
		devCookies:    devCookies,
	}

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(httpmiddleware.Logging)
	r.Use(httpmiddleware.Recover)
	r.Use(httpmiddleware.CORS(cfg.AllowOrigins))

	r.Group(func(public chi.Router) {
		public.Use(httpmiddleware.IPRateLimit(h.publicLimiter))

		public.Get("/health", h.Health)
		public.Get("/ready", h.Ready)

		public.Route("/auth", func(auth chi.Router) {
			auth.Post("/login", h.Login)
			auth.Post("/registrar", h.Registrar)
			auth.Post("/refresh", h.Refresh)
			auth.Post("/logout", h.Logout)
		})
	})

	r.Group(func(private chi.Router) {
		private.Use(httpmiddleware.Auth(authService.JWT()))
		private.Use(httpmiddleware.UserRateLimit(h.authLimiter))

		private.Get("/me", h.Me)

		relatorioHandler.RegisterRoutes(private)

		private.Route("/registros", func(rr chi.Router) {
			registroHandler.RegisterRoutes(rr, httpmiddleware.RequireNivel(acesso.NivelSupervisor))
		})

		private.Group(func(admin chi.Router) {
			admin.Use(httpmiddleware.RequireNivel(acesso.NivelAdministrador))

			admin.Route("/usuarios", func(ur chi.Router) {
				usuarioHandler.RegisterRoutes(ur)
			})
			admin.Get("/monitor/resumo", h.MonitorResumo)
		})
	})

	return r, nil
}

// Health responde status simples.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready valida conexões com Postgres e Redis.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	dbErr := h.pool.Ping(ctx)
	redisErr := h.redis.Ping(ctx).Err()

	if dbErr != nil || redisErr != nil {
		respond.Erro(w, http.StatusServiceUnavailable, "INTERNAL", "dependências indisponíveis", map[string]any{
			"db":    errorString(dbErr),
			"redis": errorString(redisErr),
		})
		return
	}

	respond.JSON(w, http.StatusOK, map[string]bool{"ready": true})
}

func errorString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// Login autentica colaboradores do painel.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Email string `json:"email"`
		Senha string `json:"senha"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respond.Erro(w, http.StatusBadRequest, "VALIDATION", "JSON inválido", nil)
		return
	}

	if strings.TrimSpace(payload.Email) == "" || strings.TrimSpace(payload.Senha) == "" {
		respond.Erro(w, http.StatusBadRequest, "VALIDATION", "email e senha são obrigatórios", nil)
		return
	}

	result, err := h.authService.Login(r.Context(), payload.Email, payload.Senha)
	if err != nil {
		h.handleAuthError(w, err)
		return
	}

	h.writeLoginSuccess(w, result)
}

// Registrar cria conta por auto-cadastro. O nível atribuído nunca é
// agente, que só nasce de provisionamento administrativo.
func (h *Handler) Registrar(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Nome  string `json:"nome"`
		Email string `json:"email"`
		Senha string `json:"senha"`
		Cargo string `json:"cargo"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respond.Erro(w, http.StatusBadRequest, "VALIDATION", "JSON inválido", nil)
		return
	}

	if strings.TrimSpace(payload.Nome) == "" || strings.TrimSpace(payload.Email) == "" || strings.TrimSpace(payload.Senha) == "" {
		respond.Erro(w, http.StatusBadRequest, "VALIDATION", "nome, email e senha são obrigatórios", nil)
		return
	}

	result, err := h.authService.Registrar(r.Context(), payload.Nome, payload.Email, payload.Senha, payload.Cargo)
	if err != nil {
		if errors.Is(err, service.ErrEmailEmUso) {
			respond.Erro(w, http.StatusConflict, "VALIDATION", err.Error(), nil)
			return
		}
		h.handleAuthError(w, err)
		return
	}

	h.writeLoginSuccess(w, result)
}

// Refresh rotaciona o refresh token e emite novo access token.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	token, err := refreshFromRequest(r)
	if err != nil {
		respond.Erro(w, http.StatusUnauthorized, "AUTH", "refresh ausente", nil)
		return
	}

	result, err := h.authService.Refresh(r.Context(), token)
	if err != nil {
		if errors.Is(err, service.ErrRefreshInvalid) {
			respond.Erro(w, http.StatusUnauthorized, "AUTH", "refresh inválido", nil)
			return
		}
		respond.Erro(w, http.StatusInternalServerError, "INTERNAL", "erro ao renovar sessão", nil)
		return
	}

	h.writeLoginSuccess(w, result)
}

// Logout revoga o refresh token atual.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if token, err := refreshFromRequest(r); err == nil {
		_ = h.authService.Logout(r.Context(), token)
	}

	h.clearRefreshCookie(w)
	respond.JSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
}

// Me retorna o perfil da sessão autenticada.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	subject, err := uuid.Parse(httpmiddleware.GetSubject(r.Context()))
	if err != nil {
		respond.Erro(w, http.StatusUnauthorized, "AUTH", "subject inválido", nil)
		return
	}

	perfil, err := h.authService.Perfil(r.Context(), subject)
	if err != nil {
		if errors.Is(err, usuario.ErrNotFound) {
			respond.Erro(w, http.StatusUnauthorized, "AUTH", "sessão órfã", nil)
			return
		}
		respond.Erro(w, http.StatusInternalServerError, "INTERNAL", "não foi possível carregar perfil", nil)
		return
	}

	respond.JSON(w, http.StatusOK, map[string]any{"perfil": perfil})
}

// MonitorResumo expõe a saúde consolidada da loja de dados.
func (h *Handler) MonitorResumo(w http.ResponseWriter, r *http.Request) {
	resumos, err := h.monitor.Resumo(r.Context())
	if err != nil {
		respond.Erro(w, http.StatusInternalServerError, "INTERNAL", "não foi possível consolidar verificações", nil)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{"componentes": resumos})
}

func (h *Handler) handleAuthError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		respond.Erro(w, http.StatusUnauthorized, "AUTH", err.Error(), nil)
	case errors.Is(err, service.ErrAccountDisabled):
		respond.Erro(w, http.StatusForbidden, "FORBIDDEN", err.Error(), nil)
	case errors.Is(err, service.ErrSemNivel):
		respond.Erro(w, http.StatusForbidden, "FORBIDDEN", err.Error(), nil)
	default:
		respond.Erro(w, http.StatusInternalServerError, "INTERNAL", "erro ao autenticar", nil)
	}
}

func (h *Handler) writeLoginSuccess(w http.ResponseWriter, result *service.LoginResult) {
	h.setRefreshCookie(w, result.RefreshToken, result.RefreshExpiry)

	respond.JSON(w, http.StatusOK, map[string]any{
		"access_token": result.AccessToken,
		"perfil":       result.Perfil,
	})
}

func refreshFromRequest(r *http.Request) (string, error) {
	if c, err := r.Cookie(refreshCookieName); err == nil && c.Value != "" {
		return c.Value, nil
	}
	return "", errors.New("refresh ausente")
}

func (h *Handler) setRefreshCookie(w http.ResponseWriter, token string, expires time.Time) {
	secure := !h.devCookies
	sameSite := http.SameSiteNoneMode
	if h.devCookies {
		sameSite = http.SameSiteLaxMode
	}
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   secure,
		SameSite: sameSite,
	})
}

func (h *Handler) clearRefreshCookie(w http.ResponseWriter) {
	secure := !h.devCookies
	sameSite := http.SameSiteNoneMode
	if h.devCookies {
		sameSite = http.SameSiteLaxMode
	}
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: sameSite,
	})
}
