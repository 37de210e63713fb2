package monitor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"
)

// Notifier envia alertas para canais externos.
type Notifier interface {
	Notify(ctx context.Context, msg Alerta) error
}

// Alerta descreve uma mudança de estado digna de aviso ao operador.
type Alerta struct {
	Componente string
	Texto      string
	Severidade string
}

type SlackNotifier struct {
	webhookURL string
	client     *http.Client
}

// NewSlackNotifier devolve Notifier nil quando o webhook não está
// configurado, o que desliga notificações sem ramificação no chamador.
// O retorno é a interface para o nil sobreviver à comparação no serviço.
func NewSlackNotifier(webhookURL string) Notifier {
	if webhookURL == "" {
		return nil
	}
	return &SlackNotifier{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: 5 * time.Second},
	}
}

func (s *SlackNotifier) Notify(ctx context.Context, msg Alerta) error {
	if s == nil || s.webhookURL == "" {
		return errors.New("slack notifier não configurado")
	}

	payload := map[string]any{
		"text": formatSlackMessage(msg),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return errors.New("falha ao notificar slack")
	}
	return nil
}

func formatSlackMessage(msg Alerta) string {
	emoji := ":information_source:"
	switch msg.Severidade {
	case "alerta":
		emoji = ":warning:"
	case "critico":
		emoji = ":rotating_light:"
	}
	if msg.Componente != "" {
		return emoji + " *" + msg.Componente + "*\n" + msg.Texto
	}
	return emoji + " " + msg.Texto
}
