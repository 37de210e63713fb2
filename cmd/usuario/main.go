package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/vigiaedes/api/internal/db"
	"github.com/vigiaedes/api/internal/usuario"
)

// CLI de provisionamento fora de banda. É o único caminho que atribui
// o nível agente, que nunca nasce de auto-cadastro.
func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	_ = godotenv.Load()

	ctx := context.Background()

	dsn := strings.TrimSpace(os.Getenv("DB_DSN"))
	if dsn == "" {
		dsn = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	}
	if dsn == "" {
		log.Fatal().Msg("defina DB_DSN ou DATABASE_URL")
	}

	pool, err := db.NewPool(ctx, dsn)
	if err != nil {
		log.Fatal().Err(err).Msg("não foi possível conectar ao banco")
	}
	defer pool.Close()

	repo := usuario.NewRepository(pool)
	svc := usuario.NewService(repo)

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "create":
		if err := runCreate(ctx, svc, args); err != nil {
			log.Fatal().Err(err).Msg("falha ao criar usuário")
		}
	case "list":
		if err := runList(ctx, svc); err != nil {
			log.Fatal().Err(err).Msg("falha ao listar usuários")
		}
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usuario CLI")
	fmt.Fprintln(os.Stderr, "uso:")
	fmt.Fprintln(os.Stderr, "  usuario create --nome \"Ana Lima\" --email ana@prefeitura.gov.br --cargo \"Agente de Endemias\" --nivel agente --senha segredo123 [--localidades Centro,Alto]")
	fmt.Fprintln(os.Stderr, "  usuario list")
}

func runCreate(ctx context.Context, svc *usuario.Service, args []string) error {
	fs := flag.NewFlagSet("create", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var (
		nome        = fs.String("nome", "", "nome completo")
		email       = fs.String("email", "", "email de acesso")
		cargo       = fs.String("cargo", "", "cargo exibido no painel")
		nivel       = fs.String("nivel", "agente", "nível de acesso (agente, supervisor ou administrador)")
		senha       = fs.String("senha", "", "senha inicial")
		localidades = fs.String("localidades", "", "localidades atribuídas, separadas por vírgula")
	)

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *senha == "" {
		return errors.New("senha é obrigatória")
	}

	var atribuidas []string
	for _, loc := range strings.Split(*localidades, ",") {
		if loc = strings.TrimSpace(loc); loc != "" {
			atribuidas = append(atribuidas, loc)
		}
	}

	criado, err := svc.Criar(ctx, usuario.Formulario{
		Nome:  *nome,
		Email: *email,
		Cargo: *cargo,
		Nivel: *nivel,
	}, *senha, atribuidas, true)
	if err != nil {
		return err
	}

	output, _ := json.MarshalIndent(criado, "", "  ")
	fmt.Println(string(output))
	return nil
}

func runList(ctx context.Context, svc *usuario.Service) error {
	usuarios, err := svc.Listar(ctx)
	if err != nil {
		return err
	}

	if len(usuarios) == 0 {
		fmt.Println("nenhum usuário cadastrado")
		return nil
	}

	encoded, _ := json.MarshalIndent(usuarios, "", "  ")
	fmt.Println(string(encoded))
	return nil
}
