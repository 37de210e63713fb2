package registro

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const dbTimeout = 3 * time.Second

// DB é o subconjunto de pgxpool.Pool que o repositório consome.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository fornece acesso aos registros de inspeção no Postgres.
type Repository struct {
	db DB
}

func NewRepository(db DB) *Repository {
	return &Repository{db: db}
}

// Listar devolve todos os registros na ordem de inserção.
func (r *Repository) Listar(ctx context.Context) ([]Registro, error) {
	const query = `
        SELECT id, municipio, localidade, ciclo, semana, atividade,
               data_inicio, data_fim, imoveis, inspecionados,
               depositos_eliminados, depositos_tratados, supervisor, criado_em
        FROM registros
        ORDER BY criado_em ASC
    `

	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var registros []Registro
	for rows.Next() {
		reg, err := scanRegistro(rows)
		if err != nil {
			return nil, err
		}
		registros = append(registros, reg)
	}
	return registros, rows.Err()
}

// Inserir persiste um novo registro.
func (r *Repository) Inserir(ctx context.Context, reg *Registro) error {
	const query = `
        INSERT INTO registros
            (id, municipio, localidade, ciclo, semana, atividade,
             data_inicio, data_fim, imoveis, inspecionados,
             depositos_eliminados, depositos_tratados, supervisor)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
        RETURNING criado_em
    `

	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	if reg.ID == uuid.Nil {
		reg.ID = uuid.New()
	}

	return r.db.QueryRow(ctx, query,
		reg.ID,
		reg.Municipio,
		reg.Localidade,
		reg.Ciclo,
		reg.Semana,
		reg.Atividade,
		reg.DataInicio.Time,
		reg.DataFim.Time,
		int(reg.Imoveis),
		int(reg.Inspecionados),
		int(reg.DepositosEliminados),
		int(reg.DepositosTratados),
		reg.Supervisor,
	).Scan(&reg.CriadoEm)
}

func scanRegistro(row pgx.Row) (Registro, error) {
	var (
		reg                                          Registro
		inicio, fim                                  time.Time
		imoveis, inspecionados, eliminados, tratados int
	)
	err := row.Scan(
		&reg.ID,
		&reg.Municipio,
		&reg.Localidade,
		&reg.Ciclo,
		&reg.Semana,
		&reg.Atividade,
		&inicio,
		&fim,
		&imoveis,
		&inspecionados,
		&eliminados,
		&tratados,
		&reg.Supervisor,
		&reg.CriadoEm,
	)
	if err != nil {
		return Registro{}, err
	}
	reg.DataInicio = Data{inicio}
	reg.DataFim = Data{fim}
	reg.Imoveis = Contagem(imoveis)
	reg.Inspecionados = Contagem(inspecionados)
	reg.DepositosEliminados = Contagem(eliminados)
	reg.DepositosTratados = Contagem(tratados)
	return reg, nil
}
