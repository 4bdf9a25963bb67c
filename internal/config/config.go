package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type Config struct {
	Mode     Mode
	HTTPAddr string

	// HTTPTimeout bounds each request when non-zero.
	HTTPTimeout time.Duration

	OllamaEndpoint    string
	OllamaModel       string
	OllamaTemperature float64
	OllamaTopP        float64
	OllamaTimeout     time.Duration // 0 = wait for the model indefinitely

	LogFile  string
	LogLevel string

	SessionDriver string // memory|sqlite|postgres|redis
	SessionTTL    time.Duration
	DBDSN         string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	CORSOrigins []string
}

func FromEnv() Config {
	mode := Mode(os.Getenv("MODE"))
	if mode == "" {
		mode = ModeOffline
	}
	return Config{
		Mode:        mode,
		HTTPAddr:    env("HTTP_ADDR", ":5000", asString),
		HTTPTimeout: env("HTTP_TIMEOUT", 0, asDuration),

		OllamaEndpoint:    env("OLLAMA_ENDPOINT", "http://localhost:11434/api/generate", asString),
		OllamaModel:       env("OLLAMA_MODEL", "llama2", asString),
		OllamaTemperature: env("OLLAMA_TEMPERATURE", 0.7, asFloat),
		OllamaTopP:        env("OLLAMA_TOP_P", 1.0, asFloat),
		OllamaTimeout:     env("OLLAMA_TIMEOUT", 0, asDuration),

		LogFile:  env("LOG_FILE", "logs/app.log", asString),
		LogLevel: env("LOG_LEVEL", "info", asString),

		SessionDriver: strings.ToLower(env("SESSION_DRIVER", "memory", asString)),
		SessionTTL:    env("SESSION_TTL", 24*time.Hour, asDuration),
		DBDSN:         os.Getenv("DB_DSN"),

		RedisAddr:     env("REDIS_ADDR", "localhost:6379", asString),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       env("REDIS_DB", 0, strconv.Atoi),

		CORSOrigins: env("CORS_ORIGINS", []string{"http://localhost:5000"}, asList),
	}
}

// SecureCookies reports whether session cookies must only travel over TLS.
func (c Config) SecureCookies() bool { return c.Mode == ModeOnline }

// env parses variable k, falling back to def when it is unset, blank or
// does not parse.
func env[T any](k string, def T, parse func(string) (T, error)) T {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	out, err := parse(v)
	if err != nil {
		return def
	}
	return out
}

func asString(v string) (string, error) { return v, nil }

func asFloat(v string) (float64, error) { return strconv.ParseFloat(v, 64) }

// asDuration accepts Go durations ("90s") or bare seconds ("90").
func asDuration(v string) (time.Duration, error) {
	if d, err := time.ParseDuration(v); err == nil {
		return d, nil
	}
	n, err := strconv.Atoi(v)
	return time.Duration(n) * time.Second, err
}

// asList splits a comma-separated value, dropping blank items.
func asList(v string) ([]string, error) {
	items := lo.Map(strings.Split(v, ","), func(s string, _ int) string { return strings.TrimSpace(s) })
	return lo.Compact(items), nil
}
