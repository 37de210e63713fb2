// Package respond padroniza os envelopes JSON do painel. Todo retorno
// carrega data e error; operações que o painel anuncia ao operador
// carregam também um aviso no topo do envelope.
package respond

import (
	"encoding/json"
	"net/http"
)

// Aviso é a notificação exibida pelo painel junto da resposta.
type Aviso struct {
	Tipo     string `json:"tipo"`
	Mensagem string `json:"mensagem"`
}

// Sucesso cria o aviso de uma operação concluída.
func Sucesso(mensagem string) *Aviso {
	return &Aviso{Tipo: "sucesso", Mensagem: mensagem}
}

// Alerta cria o aviso de um modo degradado. Mensagem vazia devolve nil
// para que o envelope omita o campo.
func Alerta(mensagem string) *Aviso {
	if mensagem == "" {
		return nil
	}
	return &Aviso{Tipo: "alerta", Mensagem: mensagem}
}

// ErrorBody descreve falhas normalizadas.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type envelope struct {
	Data  any        `json:"data"`
	Aviso *Aviso     `json:"aviso,omitempty"`
	Error *ErrorBody `json:"error"`
}

// JSON escreve envelope de sucesso sem aviso.
func JSON(w http.ResponseWriter, status int, data any) {
	ComAviso(w, status, data, nil)
}

// ComAviso escreve envelope de sucesso acompanhado de aviso.
func ComAviso(w http.ResponseWriter, status int, data any, aviso *Aviso) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Data: data, Aviso: aviso})
}

// Erro escreve envelope de erro e mantém formato consistente.
func Erro(w http.ResponseWriter, status int, code, message string, details any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{
		Error: &ErrorBody{Code: code, Message: message, Details: details},
	})
}
