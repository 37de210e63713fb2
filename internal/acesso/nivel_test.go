package acesso

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseNivel(t *testing.T) {
	assert.Equal(t, NivelAgente, ParseNivel("agente"))
	assert.Equal(t, NivelSupervisor, ParseNivel(" Supervisor "))
	assert.Equal(t, NivelAdministrador, ParseNivel("ADMINISTRADOR"))
	assert.Equal(t, NivelDesconhecido, ParseNivel("gerente"))
	assert.Equal(t, NivelDesconhecido, ParseNivel(""))
}

func TestPermite(t *testing.T) {
	cases := []struct {
		nome    string
		nivel   Nivel
		exigido Nivel
		quer    bool
	}{
		{"administrador acessa rota de supervisor", NivelAdministrador, NivelSupervisor, true},
		{"supervisor acessa rota de supervisor", NivelSupervisor, NivelSupervisor, true},
		{"agente negado em rota de supervisor", NivelAgente, NivelSupervisor, false},
		{"agente acessa rota de agente", NivelAgente, NivelAgente, true},
		{"supervisor negado em rota de administrador", NivelSupervisor, NivelAdministrador, false},
		{"desconhecido sempre negado", NivelDesconhecido, NivelAgente, false},
		{"exigência desconhecida nega tudo", NivelAdministrador, NivelDesconhecido, false},
	}
	for _, tc := range cases {
		t.Run(tc.nome, func(t *testing.T) {
			assert.Equal(t, tc.quer, Permite(tc.nivel, tc.exigido))
		})
	}
}

func TestDeterminarNivel(t *testing.T) {
	regras := NovasRegras(
		[]string{"chefe@prefeitura.gov.br"},
		[]string{"@vigilancia.gov.br"},
	)

	t.Run("email na lista vira administrador", func(t *testing.T) {
		assert.Equal(t, NivelAdministrador, regras.DeterminarNivel("chefe@prefeitura.gov.br", NivelSupervisor))
	})

	t.Run("comparação é caso-insensível", func(t *testing.T) {
		assert.Equal(t, NivelAdministrador, regras.DeterminarNivel("CHEFE@Prefeitura.GOV.br", NivelSupervisor))
	})

	t.Run("domínio administrativo vira administrador", func(t *testing.T) {
		assert.Equal(t, NivelAdministrador, regras.DeterminarNivel("ana@vigilancia.gov.br", NivelSupervisor))
	})

	t.Run("auto-cadastro nunca devolve agente", func(t *testing.T) {
		emails := []string{"novo@gmail.com", "outra@hotmail.com", "x@y.z"}
		for _, e := range emails {
			nivel := regras.DeterminarNivel(e, NivelAgente)
			assert.NotEqual(t, NivelAgente, nivel, "email %s", e)
			assert.Equal(t, NivelSupervisor, nivel)
		}
	})

	t.Run("padrão acima do piso é preservado", func(t *testing.T) {
		assert.Equal(t, NivelSupervisor, regras.DeterminarNivel("novo@gmail.com", NivelSupervisor))
	})
}
