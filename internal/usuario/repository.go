package usuario

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vigiaedes/api/internal/acesso"
	"github.com/vigiaedes/api/internal/db"
)

const dbTimeout = 3 * time.Second

// DB é o subconjunto de pgxpool.Pool que o repositório consome.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Repository fornece acesso aos perfis e vínculos de localidade.
type Repository struct {
	db DB
}

func NewRepository(database DB) *Repository {
	return &Repository{db: database}
}

const colunas = `u.id, u.chave_externa, u.nome, u.email, u.cargo, u.nivel, u.senha_hash, u.ativo, u.criado_em, u.atualizado_em`

// Criar insere o perfil e seus vínculos de localidade em uma única
// transação.
func (r *Repository) Criar(ctx context.Context, u Usuario) (*Usuario, error) {
	const insertPerfil = `
        INSERT INTO usuarios (id, chave_externa, nome, email, cargo, nivel, senha_hash, ativo)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING criado_em
    `
	const insertVinculo = `
        INSERT INTO usuario_localidades (chave_externa, localidade)
        VALUES ($1, $2)
        ON CONFLICT DO NOTHING
    `

	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.ChaveExterna == nil || strings.TrimSpace(*u.ChaveExterna) == "" {
		chave := uuid.NewString()
		u.ChaveExterna = &chave
	}
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	u.Nome = strings.TrimSpace(u.Nome)

	err := db.WithTx(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, insertPerfil,
			u.ID,
			*u.ChaveExterna,
			u.Nome,
			u.Email,
			u.Cargo,
			u.Nivel.String(),
			u.SenhaHash,
			u.Ativo,
		).Scan(&u.CriadoEm); err != nil {
			return err
		}
		for _, localidade := range u.Localidades {
			localidade = strings.TrimSpace(localidade)
			if localidade == "" {
				continue
			}
			if _, err := tx.Exec(ctx, insertVinculo, *u.ChaveExterna, localidade); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Listar devolve todos os perfis com suas localidades agregadas.
func (r *Repository) Listar(ctx context.Context) ([]Usuario, error) {
	const query = `
        SELECT ` + colunas + `,
               COALESCE(array_agg(ul.localidade) FILTER (WHERE ul.localidade IS NOT NULL), '{}')
        FROM usuarios u
        LEFT JOIN usuario_localidades ul ON ul.chave_externa = u.chave_externa
        GROUP BY u.id
        ORDER BY u.criado_em ASC
    `

	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var usuarios []Usuario
	for rows.Next() {
		u, err := scanUsuario(rows, true)
		if err != nil {
			return nil, err
		}
		usuarios = append(usuarios, *u)
	}
	return usuarios, rows.Err()
}

// BuscarPorID recupera um perfil pelo ID, sem os vínculos.
func (r *Repository) BuscarPorID(ctx context.Context, id uuid.UUID) (*Usuario, error) {
	const query = `SELECT ` + colunas + ` FROM usuarios u WHERE u.id = $1`

	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	u, err := scanUsuario(r.db.QueryRow(ctx, query, id), false)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

// BuscarPorEmail recupera um perfil pelo e-mail normalizado.
func (r *Repository) BuscarPorEmail(ctx context.Context, email string) (*Usuario, error) {
	const query = `SELECT ` + colunas + ` FROM usuarios u WHERE u.email = $1`

	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	u, err := scanUsuario(r.db.QueryRow(ctx, query, strings.ToLower(strings.TrimSpace(email))), false)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

// ListarLocalidades devolve os vínculos de uma chave externa.
func (r *Repository) ListarLocalidades(ctx context.Context, chave string) ([]string, error) {
	const query = `SELECT localidade FROM usuario_localidades WHERE chave_externa = $1 ORDER BY localidade`

	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	rows, err := r.db.Query(ctx, query, chave)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	localidades := make([]string, 0)
	for rows.Next() {
		var l string
		if err := rows.Scan(&l); err != nil {
			return nil, err
		}
		localidades = append(localidades, l)
	}
	return localidades, rows.Err()
}

// ExcluirAcessos remove todos os vínculos de localidade da chave.
func (r *Repository) ExcluirAcessos(ctx context.Context, chave string) error {
	const query = `DELETE FROM usuario_localidades WHERE chave_externa = $1`

	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	_, err := r.db.Exec(ctx, query, chave)
	return err
}

// ExcluirPerfil remove o perfil da chave externa.
func (r *Repository) ExcluirPerfil(ctx context.Context, chave string) error {
	const query = `DELETE FROM usuarios WHERE chave_externa = $1`

	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	tag, err := r.db.Exec(ctx, query, chave)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanUsuario(row pgx.Row, comLocalidades bool) (*Usuario, error) {
	var (
		u     Usuario
		nivel string
	)
	dests := []any{
		&u.ID,
		&u.ChaveExterna,
		&u.Nome,
		&u.Email,
		&u.Cargo,
		&nivel,
		&u.SenhaHash,
		&u.Ativo,
		&u.CriadoEm,
		&u.AtualizadoEm,
	}
	if comLocalidades {
		dests = append(dests, &u.Localidades)
	}
	if err := row.Scan(dests...); err != nil {
		return nil, err
	}
	u.Nivel = acesso.ParseNivel(nivel)
	if u.Localidades == nil {
		u.Localidades = []string{}
	}
	return &u, nil
}
