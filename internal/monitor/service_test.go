package monitor

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vigiaedes/api/internal/config"
)

type stubNotifier struct {
	mu      sync.Mutex
	alertas []Alerta
}

func (s *stubNotifier) Notify(ctx context.Context, msg Alerta) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alertas = append(s.alertas, msg)
	return nil
}

type pingControlado struct {
	err error
}

func (p *pingControlado) Ping(ctx context.Context) error { return p.err }

func newTestService(t *testing.T, mock pgxmock.PgxPoolIface, alvo Alvo, notifier Notifier) *Service {
	t.Helper()
	repo := NewRepository(mock)
	cfg := config.MonitoramentoConfig{Ativo: true}
	return NewService(repo, []Alvo{alvo}, cfg, zerolog.Nop(), notifier)
}

func TestRunOnceGravaVerificacao(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("INSERT INTO verificacoes_loja").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	ping := &pingControlado{}
	svc := newTestService(t, mock, Alvo{Nome: "postgres", Pinger: ping}, nil)

	svc.RunOnce(context.Background())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAlertaApenasNaTransicao(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	for i := 0; i < 4; i++ {
		mock.ExpectExec("INSERT INTO verificacoes_loja").
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
	}

	notifier := &stubNotifier{}
	ping := &pingControlado{}
	svc := newTestService(t, mock, Alvo{Nome: "redis", Pinger: ping}, notifier)

	ctx := context.Background()

	// primeira observação estabelece a linha de base sem alertar
	svc.RunOnce(ctx)
	assert.Empty(t, notifier.alertas)

	// queda dispara alerta crítico
	ping.err = errors.New("connection refused")
	svc.RunOnce(ctx)
	require.Len(t, notifier.alertas, 1)
	assert.Equal(t, "critico", notifier.alertas[0].Severidade)
	assert.Equal(t, "redis", notifier.alertas[0].Componente)

	// permanecer em queda não repete o alerta
	svc.RunOnce(ctx)
	assert.Len(t, notifier.alertas, 1)

	// recuperação avisa uma única vez
	ping.err = nil
	svc.RunOnce(ctx)
	require.Len(t, notifier.alertas, 2)
	assert.Equal(t, "info", notifier.alertas[1].Severidade)
}

func TestNotifierSemWebhookFicaDesligado(t *testing.T) {
	// precisa ser nil de interface, senão o serviço tentaria notificar
	var n Notifier = NewSlackNotifier("")
	assert.True(t, n == nil)
	assert.NotNil(t, NewSlackNotifier("https://hooks.slack.com/services/x"))
}

func TestTransicaoSemNotifierNaoFalha(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	for i := 0; i < 2; i++ {
		mock.ExpectExec("INSERT INTO verificacoes_loja").
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
	}

	ping := &pingControlado{}
	svc := newTestService(t, mock, Alvo{Nome: "postgres", Pinger: ping}, NewSlackNotifier(""))

	ctx := context.Background()
	svc.RunOnce(ctx)
	ping.err = errors.New("timeout")
	svc.RunOnce(ctx)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResumoConsolidaComponentes(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	ultimo := true
	rows := pgxmock.NewRows([]string{"componente", "total", "sucessos", "ultima", "ultimo_sucesso"}).
		AddRow("postgres", 10, 9, nil, &ultimo)

	mock.ExpectQuery("SELECT componente").WillReturnRows(rows)

	repo := NewRepository(mock)
	resumos, err := repo.Resumo(context.Background())
	require.NoError(t, err)
	require.Len(t, resumos, 1)
	assert.Equal(t, 90.0, resumos[0].Disponibilidade)
	assert.NoError(t, mock.ExpectationsWereMet())
}
