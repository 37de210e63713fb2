package relatorio

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vigiaedes/api/internal/registro"
)

func regComPeriodo(t *testing.T, localidade, inicio, fim string) registro.Registro {
	t.Helper()
	var r registro.Registro
	payload := `{"localidade":"` + localidade + `","data_inicio":"` + inicio + `","data_fim":"` + fim + `"}`
	require.NoError(t, json.Unmarshal([]byte(payload), &r))
	return r
}

func TestSelecionarLocalidadeVaziaLimpaSelecao(t *testing.T) {
	registros := []registro.Registro{
		regComPeriodo(t, "Centro", "2024-01-08", "2024-01-10"),
	}

	selecao := SelecionarLocalidade(registros, "")
	assert.Nil(t, selecao.Atual)
	assert.NotNil(t, selecao.Historico)
	assert.Empty(t, selecao.Historico)
}

func TestSelecionarLocalidadeOrdenaPorDataFim(t *testing.T) {
	registros := []registro.Registro{
		regComPeriodo(t, "Centro", "2024-01-08", "2024-01-10"),
		regComPeriodo(t, "Alto", "2024-01-15", "2024-01-19"),
		regComPeriodo(t, "Centro", "2024-02-01", "2024-02-05"),
	}

	selecao := SelecionarLocalidade(registros, "Centro")
	require.NotNil(t, selecao.Atual)
	assert.Equal(t, "2024-02-05", selecao.Atual.DataFim.Format("2006-01-02"))
	require.Len(t, selecao.Historico, 2)
	assert.Equal(t, "2024-02-05", selecao.Historico[0].DataFim.Format("2006-01-02"))
	assert.Equal(t, "2024-01-10", selecao.Historico[1].DataFim.Format("2006-01-02"))
}

func TestSelecionarLocalidadeSemCorrespondencia(t *testing.T) {
	registros := []registro.Registro{
		regComPeriodo(t, "Centro", "2024-01-08", "2024-01-10"),
	}

	selecao := SelecionarLocalidade(registros, "Serraria")
	assert.Nil(t, selecao.Atual)
	assert.Empty(t, selecao.Historico)
}

func TestSelecionarLocalidadeExigeIgualdadeExata(t *testing.T) {
	registros := []registro.Registro{
		regComPeriodo(t, "Centro", "2024-01-08", "2024-01-10"),
		regComPeriodo(t, "Centro Novo", "2024-01-15", "2024-01-19"),
	}

	selecao := SelecionarLocalidade(registros, "Centro")
	require.Len(t, selecao.Historico, 1)
	assert.Equal(t, "Centro", selecao.Historico[0].Localidade)
}
