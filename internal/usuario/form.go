package usuario

import (
	"errors"
	"net/mail"
	"strings"
)

var (
	ErrNomeObrigatorio  = errors.New("nome é obrigatório")
	ErrEmailObrigatorio = errors.New("email é obrigatório")
	ErrCargoObrigatorio = errors.New("cargo é obrigatório")
	ErrNivelObrigatorio = errors.New("nível de acesso é obrigatório")
	ErrEmailInvalido    = errors.New("email inválido")
)

// Formulario carrega os campos do cadastro de usuário como chegam do
// painel.
type Formulario struct {
	Nome  string `json:"nome"`
	Email string `json:"email"`
	Cargo string `json:"cargo"`
	Nivel string `json:"nivel"`
}

// Validar aplica as regras na ordem do formulário e para na primeira
// violação, de modo que o painel exiba exatamente uma mensagem. A
// sintaxe do e-mail só é verificada depois dos campos obrigatórios.
func (f Formulario) Validar() error {
	if strings.TrimSpace(f.Nome) == "" {
		return ErrNomeObrigatorio
	}
	if strings.TrimSpace(f.Email) == "" {
		return ErrEmailObrigatorio
	}
	if strings.TrimSpace(f.Cargo) == "" {
		return ErrCargoObrigatorio
	}
	if strings.TrimSpace(f.Nivel) == "" {
		return ErrNivelObrigatorio
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(f.Email)); err != nil {
		return ErrEmailInvalido
	}
	return nil
}
