package registro

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// chaveCache é a chave fixa do fallback local. O payload é um array
// JSON de registros, sem campo de versão: mudanças de esquema apenas
// sobrescrevem.
const chaveCache = "registros:cache"

var (
	// ErrCacheCorrompido indica payload que não pôde ser decodificado.
	ErrCacheCorrompido = errors.New("cache de registros corrompido")
)

type redisCommander interface {
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// Cache guarda a última lista de registros conhecida para o modo
// degradado de leitura.
type Cache struct {
	redis redisCommander
}

func NewCache(client redisCommander) *Cache {
	return &Cache{redis: client}
}

// Salvar sobrescreve o cache com a lista completa.
func (c *Cache) Salvar(ctx context.Context, registros []Registro) error {
	if registros == nil {
		registros = []Registro{}
	}
	payload, err := json.Marshal(registros)
	if err != nil {
		return err
	}
	return c.redis.Set(ctx, chaveCache, payload, 0).Err()
}

// Carregar devolve a lista cacheada. Chave ausente resulta em lista
// vazia; payload corrompido resulta em lista vazia e ErrCacheCorrompido
// para que o chamador avise o usuário sem propagar a falha.
func (c *Cache) Carregar(ctx context.Context) ([]Registro, error) {
	raw, err := c.redis.Get(ctx, chaveCache).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []Registro{}, nil
		}
		return nil, err
	}

	var registros []Registro
	if err := json.Unmarshal(raw, &registros); err != nil {
		_ = c.redis.Del(ctx, chaveCache)
		return []Registro{}, ErrCacheCorrompido
	}
	if registros == nil {
		registros = []Registro{}
	}
	return registros, nil
}
