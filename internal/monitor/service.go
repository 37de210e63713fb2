package monitor

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/vigiaedes/api/internal/config"
)

// Pinger é satisfeito por pgxpool.Pool e pelo adaptador de Redis.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingerFunc adapta uma função de ping ao contrato Pinger.
type PingerFunc func(ctx context.Context) error

func (f PingerFunc) Ping(ctx context.Context) error { return f(ctx) }

// Alvo nomeia um componente vigiado.
type Alvo struct {
	Nome   string
	Pinger Pinger
}

// Service executa verificações periódicas da loja de dados e mantém
// o estado observado de cada componente para detectar transições.
type Service struct {
	repo     *Repository
	alvos    []Alvo
	cfg      config.MonitoramentoConfig
	notifier Notifier
	logger   zerolog.Logger

	mu     sync.Mutex
	estado map[string]bool

	once   sync.Once
	cancel context.CancelFunc
}

func NewService(repo *Repository, alvos []Alvo, cfg config.MonitoramentoConfig, logger zerolog.Logger, notifier Notifier) *Service {
	return &Service{
		repo:     repo,
		alvos:    alvos,
		cfg:      cfg,
		notifier: notifier,
		logger:   logger,
		estado:   make(map[string]bool),
	}
}

// Start inicia o loop periódico. Seguro para chamar mais de uma vez.
func (s *Service) Start(parent context.Context) {
	if !s.cfg.Ativo {
		return
	}
	s.once.Do(func() {
		ctx, cancel := context.WithCancel(parent)
		s.cancel = cancel
		go s.runLoop(ctx)
	})
}

// Stop encerra o loop periódico.
func (s *Service) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
}

func (s *Service) runLoop(ctx context.Context) {
	interval := s.cfg.Intervalo
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.logger.Info().Dur("interval", interval).Msg("monitor: loop iniciado")

	s.RunOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("monitor: loop encerrado")
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce verifica todos os componentes uma única vez.
func (s *Service) RunOnce(ctx context.Context) {
	for _, alvo := range s.alvos {
		s.verificar(ctx, alvo)
	}
}

func (s *Service) verificar(ctx context.Context, alvo Alvo) {
	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	start := time.Now()
	err := alvo.Pinger.Ping(pingCtx)
	duration := time.Since(start)

	v := Verificacao{
		Componente: alvo.Nome,
		Momento:    time.Now(),
		DuracaoMS:  int(duration.Milliseconds()),
		Sucesso:    err == nil,
	}
	if err != nil {
		msg := err.Error()
		v.Erro = &msg
	}

	if insErr := s.repo.Inserir(ctx, v); insErr != nil {
		s.logger.Warn().Err(insErr).Str("componente", alvo.Nome).Msg("monitor: falha ao gravar verificação")
	}

	s.avaliarTransicao(ctx, alvo.Nome, v)
}

// avaliarTransicao só alerta quando o componente muda de estado, o
// que evita uma enxurrada de mensagens durante indisponibilidades longas.
func (s *Service) avaliarTransicao(ctx context.Context, componente string, v Verificacao) {
	s.mu.Lock()
	anterior, visto := s.estado[componente]
	s.estado[componente] = v.Sucesso
	s.mu.Unlock()

	if !visto || anterior == v.Sucesso {
		return
	}

	if v.Sucesso {
		s.logger.Info().Str("componente", componente).Msg("monitor: componente recuperado")
		s.notificar(ctx, Alerta{
			Componente: componente,
			Texto:      "componente voltou a responder",
			Severidade: "info",
		})
		return
	}

	erro := "sem detalhe"
	if v.Erro != nil {
		erro = *v.Erro
	}
	s.logger.Error().Str("componente", componente).Str("erro", erro).Msg("monitor: componente indisponível")
	s.notificar(ctx, Alerta{
		Componente: componente,
		Texto:      "componente parou de responder: " + erro,
		Severidade: "critico",
	})
}

func (s *Service) notificar(ctx context.Context, alerta Alerta) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, alerta); err != nil {
		s.logger.Warn().Err(err).Str("componente", alerta.Componente).Msg("monitor: falha ao enviar alerta")
	}
}

// Resumo devolve a visão consolidada para o painel administrativo.
func (s *Service) Resumo(ctx context.Context) ([]ResumoComponente, error) {
	return s.repo.Resumo(ctx)
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}
