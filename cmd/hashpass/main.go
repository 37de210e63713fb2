// hashpass gera o hash Argon2id usado para semear a senha do primeiro
// administrador do painel direto no banco, antes de existir qualquer
// sessão autenticada.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/vigiaedes/api/internal/auth"
	"github.com/vigiaedes/api/internal/util"
)

func main() {
	verificar := flag.String("verificar", "", "hash existente para conferir contra a senha informada")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "uso: hashpass [-verificar <hash>] [senha]")
		fmt.Fprintln(os.Stderr, "sem argumento, a senha é lida da entrada padrão")
		flag.PrintDefaults()
	}
	flag.Parse()

	senha, err := lerSenha(flag.Args())
	if err != nil {
		fmt.Fprintln(os.Stderr, "erro:", err)
		os.Exit(1)
	}

	if *verificar != "" {
		ok, err := auth.Verify(senha, *verificar)
		if err != nil {
			fmt.Fprintln(os.Stderr, "erro:", err)
			os.Exit(1)
		}
		if !ok {
			fmt.Fprintln(os.Stderr, "senha não confere com o hash")
			os.Exit(1)
		}
		fmt.Println("senha confere")
		return
	}

	if err := util.ValidatePassword(senha); err != nil {
		fmt.Fprintln(os.Stderr, "erro:", err)
		os.Exit(1)
	}

	hash, err := auth.Hash(senha)
	if err != nil {
		fmt.Fprintln(os.Stderr, "erro ao gerar hash:", err)
		os.Exit(1)
	}

	fmt.Println(hash)
}

func lerSenha(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}

	fmt.Fprint(os.Stderr, "senha: ")
	linha, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("lendo a senha: %w", err)
	}
	senha := strings.TrimRight(linha, "\r\n")
	if senha == "" {
		return "", fmt.Errorf("senha vazia")
	}
	return senha, nil
}
