package registro

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRepo struct {
	registros []Registro
	falha     error
}

func (s *stubRepo) Listar(ctx context.Context) ([]Registro, error) {
	if s.falha != nil {
		return nil, s.falha
	}
	return s.registros, nil
}

func (s *stubRepo) Inserir(ctx context.Context, reg *Registro) error {
	if s.falha != nil {
		return s.falha
	}
	s.registros = append(s.registros, *reg)
	return nil
}

func TestCarregarDoBancoRenovaCache(t *testing.T) {
	ctx := context.Background()
	repo := &stubRepo{registros: []Registro{{Localidade: "Centro"}}}
	cache := NewCache(&stubRedis{})
	svc := NewService(repo, cache)

	carga, err := svc.Carregar(ctx)
	require.NoError(t, err)
	assert.Equal(t, OrigemBanco, carga.Origem)
	assert.Empty(t, carga.Aviso)
	require.Len(t, carga.Registros, 1)

	// o cache deve refletir a leitura para servir o modo degradado
	cacheados, err := cache.Carregar(ctx)
	require.NoError(t, err)
	assert.Len(t, cacheados, 1)
}

func TestCarregarCaiParaCacheQuandoBancoFalha(t *testing.T) {
	ctx := context.Background()
	cache := NewCache(&stubRedis{})
	require.NoError(t, cache.Salvar(ctx, []Registro{{Localidade: "Centro"}}))

	svc := NewService(&stubRepo{falha: errors.New("conexão recusada")}, cache)

	carga, err := svc.Carregar(ctx)
	require.NoError(t, err)
	assert.Equal(t, OrigemCache, carga.Origem)
	assert.NotEmpty(t, carga.Aviso)
	assert.Len(t, carga.Registros, 1)
}

func TestCarregarCacheCorrompidoViraListaVazia(t *testing.T) {
	ctx := context.Background()
	stub := &stubRedis{store: map[string]string{chaveCache: `nada disso`}}
	svc := NewService(&stubRepo{falha: errors.New("conexão recusada")}, NewCache(stub))

	carga, err := svc.Carregar(ctx)
	require.NoError(t, err)
	assert.Empty(t, carga.Registros)
	assert.NotEmpty(t, carga.Aviso)
}

func TestSalvarValidaAntesDePersistir(t *testing.T) {
	repo := &stubRepo{}
	svc := NewService(repo, NewCache(&stubRedis{}))

	err := svc.Salvar(context.Background(), &Registro{Localidade: ""})
	assert.ErrorIs(t, err, ErrLocalidadeObrigatoria)
	assert.Empty(t, repo.registros)
}
