package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	ctopics "github.com/radieske/superodds-monitor/pkg/contracts/topics"
)

// DefaultTargetURL é a página de SuperOdds do BETesporte
const DefaultTargetURL = "https://betesporte.bet.br/sports/desktop/sport-league/999/4200000001"

// Config centraliza variáveis de ambiente e parâmetros de execução dos serviços
// Inclui conexões, tópicos, canais, URL monitorada e portas
type Config struct {
	Env         string // "local", "dev", "prod"
	ServiceName string // ex: "superodds-api", "superodds-monitor", ...
	LogLevel    string // vazio = padrão do ambiente

	RedisAddr    string
	KafkaBrokers string // "a:9092,b:9092"

	// Tópicos/canais
	TopicSnapshots     string
	TopicSnapshotsDLQ  string
	RedisPubSubChannel string

	// Scraping
	TargetURL    string
	FetchTimeout time.Duration
	FetchBrowser bool   // habilita a estratégia com Chrome headless
	ChromePath   string // vazio = Chrome do sistema

	// Cache da API
	CacheBackend string // "memory" | "redis"
	CacheTTL     time.Duration

	// Monitor
	MonitorInterval time.Duration

	// Simulador local da página
	SimRotateInterval time.Duration
	SimMode           string // "normal" | "captcha" | "forbidden"

	// Portas do serviço atual
	HTTPPort    string // Porta pública (ex.: API REST)
	MetricsPort string // Porta exclusiva para /metrics e /healthz
}

// Load carrega variáveis de ambiente (e do .env, se existir) e define defaults
// Resolve portas conforme o SERVICE_NAME
func Load() Config {
	// .env é opcional; variáveis já definidas no ambiente têm precedência
	_ = godotenv.Load()

	svc := getEnv("SERVICE_NAME", "")
	env := getEnv("ENV", "local")

	cfg := Config{
		Env:         env,
		ServiceName: svc,
		LogLevel:    getEnv("LOG_LEVEL", ""),

		RedisAddr:    getEnv("REDIS_ADDR", "localhost:6379"),
		KafkaBrokers: getEnv("KAFKA_BROKERS", "localhost:9092"),

		TopicSnapshots:     getEnv("KAFKA_TOPIC_SNAPSHOTS", ctopics.SuperOddsSnapshots),
		TopicSnapshotsDLQ:  getEnv("KAFKA_TOPIC_SNAPSHOTS_DLQ", ctopics.SuperOddsSnapshotsDLQ),
		RedisPubSubChannel: getEnv("REDIS_PUBSUB_CHANNEL", ctopics.ChannelSuperOddsBroadcast),

		TargetURL:    getEnv("TARGET_URL", DefaultTargetURL),
		FetchTimeout: getDuration("FETCH_TIMEOUT", 30*time.Second),
		FetchBrowser: getBool("FETCH_BROWSER", false),
		ChromePath:   getEnv("CHROME_PATH", ""),

		CacheBackend: getEnv("CACHE_BACKEND", "memory"),
		CacheTTL:     getDuration("CACHE_TTL", 30*time.Second),

		MonitorInterval: getDuration("MONITOR_INTERVAL", time.Minute),

		SimRotateInterval: getDuration("SIM_ROTATE_INTERVAL", 45*time.Second),
		SimMode:           getEnv("SIM_MODE", "normal"),
	}

	// Define portas padrão para cada serviço
	switch svc {
	case "superodds-monitor":
		cfg.HTTPPort = getEnv("HTTP_PORT_MONITOR", "") // monitor não expõe HTTP público
		cfg.MetricsPort = getEnv("METRICS_PORT_MONITOR", "9096")
	case "superodds-notifier":
		cfg.HTTPPort = getEnv("HTTP_PORT_NOTIFIER", "")
		cfg.MetricsPort = getEnv("METRICS_PORT_NOTIFIER", "9097")
	case "betesporte-simulator":
		cfg.HTTPPort = getEnv("HTTP_PORT_SIMULATOR", "8090")
		cfg.MetricsPort = getEnv("METRICS_PORT_SIMULATOR", "9098")
	default: // superodds-api
		cfg.HTTPPort = getEnv("HTTP_PORT", "8080")
		cfg.MetricsPort = getEnv("METRICS_PORT", "9095")
	}

	return cfg
}

// getEnv retorna o valor da variável de ambiente ou o default
func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}

// getDuration aceita o formato de time.ParseDuration ("30s", "1m"); valor inválido usa o default
func getDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func getBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
