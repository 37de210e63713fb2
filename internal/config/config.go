package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config centraliza a configuração carregada do ambiente.
type Config struct {
	Port          int
	DBDSN         string
	RedisURL      string
	JWTSecret     string
	JWTAccessTTL  time.Duration
	JWTRefreshTTL time.Duration
	AllowOrigins  []string

	RateLimitPublic RateLimitConfig
	RateLimitAuth   RateLimitConfig

	// Regras de nível de acesso, injetadas por configuração: nenhum
	// domínio administrativo é fixado em código.
	AdminEmails   []string
	AdminDominios []string

	Monitoramento MonitoramentoConfig
}

// RateLimitConfig representa limites simples para throttling.
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

// MonitoramentoConfig controla o vigia da loja de dados.
type MonitoramentoConfig struct {
	Ativo           bool
	Intervalo       time.Duration
	SlackWebhookURL string
}

// Load carrega variáveis de ambiente e aplica defaults seguros.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	portStr := getEnv("PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil || port <= 0 {
		return nil, errors.New("PORT inválida")
	}
	cfg.Port = port

	cfg.DBDSN = getEnv("DB_DSN", "")
	if cfg.DBDSN == "" {
		return nil, errors.New("DB_DSN obrigatório")
	}

	cfg.RedisURL = getEnv("REDIS_URL", "")
	if cfg.RedisURL == "" {
		return nil, errors.New("REDIS_URL obrigatório")
	}

	cfg.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", ""))
	if len(cfg.JWTSecret) < 32 {
		return nil, errors.New("JWT_SECRET deve ter pelo menos 32 caracteres")
	}

	accessTTL, err := parseDurationEnv("JWT_ACCESS_TTL", 15*time.Minute)
	if err != nil {
		return nil, err
	}
	cfg.JWTAccessTTL = accessTTL

	refreshTTL, err := parseDurationEnv("JWT_REFRESH_TTL", 30*24*time.Hour)
	if err != nil {
		return nil, err
	}
	cfg.JWTRefreshTTL = refreshTTL

	cfg.AllowOrigins = splitList(getEnv("ALLOW_ORIGINS", ""))

	cfg.RateLimitPublic, err = parseRateLimitEnv("RATE_LIMIT_PUBLIC", RateLimitConfig{RequestsPerSecond: 10, Burst: 20})
	if err != nil {
		return nil, err
	}
	cfg.RateLimitAuth, err = parseRateLimitEnv("RATE_LIMIT_AUTH", RateLimitConfig{RequestsPerSecond: 10, Burst: 40})
	if err != nil {
		return nil, err
	}

	cfg.AdminEmails = splitList(getEnv("NIVEL_ADMIN_EMAILS", ""))
	cfg.AdminDominios = splitList(getEnv("NIVEL_ADMIN_DOMINIOS", ""))

	cfg.Monitoramento.Ativo = getEnv("MONITOR_ATIVO", "false") == "true"
	intervalo, err := parseDurationEnv("MONITOR_INTERVALO", 5*time.Minute)
	if err != nil {
		return nil, err
	}
	cfg.Monitoramento.Intervalo = intervalo
	cfg.Monitoramento.SlackWebhookURL = strings.TrimSpace(getEnv("MONITOR_SLACK_WEBHOOK", ""))

	return cfg, nil
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}

func getEnv(key, def string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return def
}

// parseRateLimitEnv lê <prefixo>_RPS e <prefixo>_BURST, mantendo o
// default quando a variável está ausente.
func parseRateLimitEnv(prefix string, def RateLimitConfig) (RateLimitConfig, error) {
	cfg := def

	if raw := strings.TrimSpace(getEnv(prefix+"_RPS", "")); raw != "" {
		rps, err := strconv.ParseFloat(raw, 64)
		if err != nil || rps <= 0 {
			return RateLimitConfig{}, errors.New(prefix + "_RPS inválido")
		}
		cfg.RequestsPerSecond = rps
	}

	if raw := strings.TrimSpace(getEnv(prefix+"_BURST", "")); raw != "" {
		burst, err := strconv.Atoi(raw)
		if err != nil || burst <= 0 {
			return RateLimitConfig{}, errors.New(prefix + "_BURST inválido")
		}
		cfg.Burst = burst
	}

	return cfg, nil
}

func parseDurationEnv(key string, def time.Duration) (time.Duration, error) {
	val := getEnv(key, "")
	if val == "" {
		return def, nil
	}
	dur, err := time.ParseDuration(val)
	if err != nil {
		return 0, errors.New(key + " inválido")
	}
	return dur, nil
}
