package core

//config.go

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"scoreboard/internal/csp"
)

// Config определяет настройки приложения (OWASP A05: Security Misconfiguration, A02: Cryptographic Failures)
type Config struct {
	AppName    string `validate:"required"`
	Addr       string `validate:"required"`               // Адрес HTTP-сервера (например, ":8080")
	Env        string `validate:"oneof=dev staging prod"` // Среда выполнения
	Secure     bool   // Включает HTTPS и связанные настройки безопасности
	SessionKey string `validate:"required"` // Секрет для подписи cookie-сессий и CSRF
	LogDir     string `validate:"required"`
	LogLevel   string `validate:"oneof=trace debug info warn error"`

	// SESSION_EXPIRATION_SECONDS: 0 — срок жизни сессии не проверяется
	SessionExpirationSeconds int `validate:"gte=0"`
	// COUNT_QUERIES: логировать число SQL-запросов на каждый запрос
	CountQueries bool

	DBDriver string `validate:"oneof=mysql sqlite"` // mysql в продакшене, sqlite для dev/тестов
	DBDSN    string `validate:"required"`

	TrustedProxies []string // IP/CIDR доверенных прокси (пусто — без проверки)

	// CSP_POLICY / EXTEND_CSP_POLICY (YAML или JSON)
	CSPPolicy       csp.Policy
	ExtendCSPPolicy csp.Policy

	ShutdownTimeout   time.Duration `validate:"gt=0"` // Таймаут для graceful shutdown
	ReadHeaderTimeout time.Duration `validate:"gt=0"` // Таймаут чтения заголовков HTTP-запроса
	ReadTimeout       time.Duration `validate:"gt=0"` // Таймаут чтения HTTP-запроса
	WriteTimeout      time.Duration `validate:"gt=0"` // Таймаут записи HTTP-ответа
	IdleTimeout       time.Duration `validate:"gt=0"` // Таймаут простоя соединения
	RequestTimeout    time.Duration `validate:"gt=0"` // Таймаут обработки запроса в middleware
}

var validate = validator.New()

// Load загружает конфигурацию из переменных окружения с значениями по умолчанию (OWASP A05)
func Load() (Config, error) {
	cfg := Config{
		AppName:                  getEnv("APP_NAME", "scoreboard"),
		Addr:                     getEnv("HTTP_ADDR", ":8080"),
		Env:                      getEnv("APP_ENV", "dev"),
		Secure:                   getEnvBool("SECURE", false),
		SessionKey:               getEnv("SESSION_KEY", generateRandomKey()),
		LogDir:                   getEnv("LOG_DIR", "logs"),
		LogLevel:                 strings.ToLower(getEnv("LOG_LEVEL", "info")),
		SessionExpirationSeconds: getEnvInt("SESSION_EXPIRATION_SECONDS", 0),
		CountQueries:             getEnvBool("COUNT_QUERIES", false),
		DBDriver:                 getEnv("DB_DRIVER", "mysql"),
		DBDSN:                    getEnv("DB_DSN", "root:admin@tcp(localhost:3306)/scoreboard"),
		TrustedProxies:           getEnvList("TRUSTED_PROXIES"),
		CSPPolicy:                getEnvPolicy("CSP_POLICY"),
		ExtendCSPPolicy:          getEnvPolicy("EXTEND_CSP_POLICY"),
		ShutdownTimeout:          getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		ReadHeaderTimeout:        getEnvDuration("READ_HEADER_TIMEOUT", 5*time.Second),
		ReadTimeout:              getEnvDuration("READ_TIMEOUT", 10*time.Second),
		WriteTimeout:             getEnvDuration("WRITE_TIMEOUT", 30*time.Second),
		IdleTimeout:              getEnvDuration("IDLE_TIMEOUT", 60*time.Second),
		RequestTimeout:           getEnvDuration("REQUEST_TIMEOUT", 15*time.Second),
	}

	if err := validate.Struct(cfg); err != nil {
		return cfg, fmt.Errorf("некорректная конфигурация: %w", err)
	}

	// Проверяет конфигурацию для продакшен-среды
	if cfg.Env == "prod" {
		if len(cfg.SessionKey) < 32 {
			return cfg, errors.New("недостаточная длина SESSION_KEY в продакшене")
		}
		if cfg.DBDriver != "mysql" {
			return cfg, errors.New("в продакшене поддерживается только DB_DRIVER=mysql")
		}
	}

	return cfg, nil
}

// SessionExpiration — срок жизни сессии (0 — не проверяется).
func (c Config) SessionExpiration() time.Duration {
	return time.Duration(c.SessionExpirationSeconds) * time.Second
}

// CSP — источники политики для csp.Builder.
func (c Config) CSP() *csp.Config {
	return &csp.Config{Override: c.CSPPolicy, Extend: c.ExtendCSPPolicy}
}

// getEnv возвращает значение переменной окружения или значение по умолчанию
func getEnv(key, def string) string {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return def
	}
	return val
}

func getEnvBool(key string, def bool) bool {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return def
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		LogError("Неверный формат булева значения", map[string]interface{}{"key": key, "value": val})
		return def
	}
	return b
}

func getEnvInt(key string, def int) int {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return def
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		LogError("Неверный формат числа", map[string]interface{}{"key": key, "value": val, "error": err.Error()})
		return def
	}
	return n
}

// getEnvDuration возвращает значение длительности из переменной окружения или значение по умолчанию
func getEnvDuration(key string, def time.Duration) time.Duration {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return def
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		LogError("Неверный формат длительности", map[string]interface{}{"key": key, "value": val, "error": err.Error()})
		return def
	}
	return d
}

// getEnvList — список через запятую
func getEnvList(key string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// getEnvPolicy разбирает политику CSP; неразборчивое значение логируется и игнорируется
func getEnvPolicy(key string) csp.Policy {
	p, err := csp.ParsePolicy(os.Getenv(key))
	if err != nil {
		LogError("Неверный формат политики CSP", map[string]interface{}{"key": key, "error": err.Error()})
		return nil
	}
	return p
}

// generateRandomKey создаёт случайный 32-байтовый ключ в формате base64
func generateRandomKey() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		LogError("Ошибка генерации ключа сессий", map[string]interface{}{"error": err.Error()})
		return "fallback-key-please-change"
	}
	return base64.StdEncoding.EncodeToString(b)
}
