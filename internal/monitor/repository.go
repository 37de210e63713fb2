package monitor

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB cobre o subconjunto do pool usado pelo repositório.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Repository grava e consolida verificações da loja de dados.
type Repository struct {
	db DB
}

func NewRepository(db DB) *Repository {
	return &Repository{db: db}
}

// Verificacao é o resultado de um ping a um componente.
type Verificacao struct {
	Componente string    `json:"componente"`
	Momento    time.Time `json:"momento"`
	DuracaoMS  int       `json:"duracao_ms"`
	Sucesso    bool      `json:"sucesso"`
	Erro       *string   `json:"erro,omitempty"`
}

func (r *Repository) Inserir(ctx context.Context, v Verificacao) error {
	const query = `
        INSERT INTO verificacoes_loja (componente, momento, duracao_ms, sucesso, erro)
        VALUES ($1, $2, $3, $4, $5)
    `

	_, err := r.db.Exec(ctx, query,
		v.Componente,
		v.Momento,
		v.DuracaoMS,
		v.Sucesso,
		v.Erro,
	)
	return err
}

// ResumoComponente consolida as últimas 24 horas de um componente.
type ResumoComponente struct {
	Componente       string     `json:"componente"`
	Total            int        `json:"total"`
	Sucessos         int        `json:"sucessos"`
	Disponibilidade  float64    `json:"disponibilidade_24h"`
	UltimaVerificada *time.Time `json:"ultima_verificacao,omitempty"`
	UltimoSucesso    *bool      `json:"ultimo_sucesso,omitempty"`
}

func (r *Repository) Resumo(ctx context.Context) ([]ResumoComponente, error) {
	const query = `
        SELECT componente,
               COUNT(*)::int AS total,
               COUNT(*) FILTER (WHERE sucesso)::int AS sucessos,
               MAX(momento) AS ultima,
               (ARRAY_AGG(sucesso ORDER BY momento DESC))[1] AS ultimo_sucesso
        FROM verificacoes_loja
        WHERE momento >= now() - interval '24 hours'
        GROUP BY componente
        ORDER BY componente
    `

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var resumos []ResumoComponente
	for rows.Next() {
		var res ResumoComponente
		if err := rows.Scan(
			&res.Componente,
			&res.Total,
			&res.Sucessos,
			&res.UltimaVerificada,
			&res.UltimoSucesso,
		); err != nil {
			return nil, err
		}
		if res.Total > 0 {
			res.Disponibilidade = round2(float64(res.Sucessos) / float64(res.Total) * 100)
		}
		resumos = append(resumos, res)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return resumos, nil
}
