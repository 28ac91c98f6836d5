package config

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/viper"
)

// Config хранит все настройки приложения
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Auth     AuthConfig
	AI       AIConfig
	Payments PaymentsConfig
	CORS     CORSConfig
}

// ServerConfig содержит настройки HTTP сервера
type ServerConfig struct {
	Port         string `mapstructure:"port"`
	ReadTimeout  int    `mapstructure:"read_timeout"`
	WriteTimeout int    `mapstructure:"write_timeout"`
}

// DatabaseConfig содержит настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig содержит унифицированные настройки подключения к Redis
// Поддерживает режимы: single, sentinel, cluster
type RedisConfig struct {
	// Mode: режим работы Redis ("single", "sentinel", "cluster"). По умолчанию "single".
	Mode string `mapstructure:"mode"`

	// Addrs: список адресов Redis (хост:порт). Используется для всех режимов.
	Addrs []string `mapstructure:"addrs"`

	// Addr: альтернативный адрес для режима 'single', если Addrs пустой
	Addr string `mapstructure:"addr"`

	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`

	// MasterName: имя мастер-сервера Redis (только для режима "sentinel")
	MasterName string `mapstructure:"master_name"`
}

// AuthConfig содержит настройки проверки токенов внешней подсистемы
// аутентификации
type AuthConfig struct {
	// JWTSecret — общий секрет HMAC для проверки access-токенов
	JWTSecret string `mapstructure:"jwt_secret"`
}

// AIConfig содержит настройки LLM и лимитера запросов к нему.
// Пустой APIKey не ошибка: сервис работает в режиме только
// алгоритмического анализа.
type AIConfig struct {
	APIKey      string  `mapstructure:"api_key"`
	BaseURL     string  `mapstructure:"base_url"`
	Model       string  `mapstructure:"model"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	Temperature float64 `mapstructure:"temperature"`
	TimeoutSec  int     `mapstructure:"timeout_sec"`

	// Лимитер исходящих запросов к LLM
	RateLimitRequests   int `mapstructure:"rate_limit_requests"` // запросов за окно
	RateLimitWindowSec  int `mapstructure:"rate_limit_window_sec"`
	RateLimitMaxWaitSec int `mapstructure:"rate_limit_max_wait_sec"`
}

// PaymentsConfig содержит настройки платёжного вебхука
type PaymentsConfig struct {
	WebhookSecret string `mapstructure:"webhook_secret"`
}

// CORSConfig содержит список разрешённых origin
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// PostgresConnectionString формирует строку подключения к PostgreSQL
func (d *DatabaseConfig) PostgresConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// Load загружает конфигурацию из файла и переменных окружения
func Load(configPath string) (*Config, error) {
	vip := viper.New() // отдельный экземпляр, чтобы избежать глобального состояния

	vip.SetDefault("server.port", "8080")
	vip.SetDefault("server.read_timeout", 15)
	vip.SetDefault("server.write_timeout", 30)
	vip.SetDefault("database.sslmode", "disable")
	vip.SetDefault("ai.base_url", "https://api.openai.com")
	vip.SetDefault("ai.model", "gpt-4o-mini")
	vip.SetDefault("ai.max_tokens", 2000)
	vip.SetDefault("ai.temperature", 0.4)
	vip.SetDefault("ai.timeout_sec", 15)
	vip.SetDefault("ai.rate_limit_requests", 20)
	vip.SetDefault("ai.rate_limit_window_sec", 60)
	vip.SetDefault("ai.rate_limit_max_wait_sec", 3)

	// Привязываем переменные окружения ЯВНО
	vip.BindEnv("database.host", "DATABASE_HOST")
	vip.BindEnv("database.port", "DATABASE_PORT")
	vip.BindEnv("database.user", "DATABASE_USER")
	vip.BindEnv("database.password", "DATABASE_PASSWORD")
	vip.BindEnv("database.dbname", "DATABASE_DBNAME")
	vip.BindEnv("database.sslmode", "DATABASE_SSLMODE")

	vip.BindEnv("redis.mode", "REDIS_MODE")
	vip.BindEnv("redis.addrs", "REDIS_ADDRS")
	vip.BindEnv("redis.addr", "REDIS_ADDR")
	vip.BindEnv("redis.password", "REDIS_PASSWORD")
	vip.BindEnv("redis.db", "REDIS_DB")
	vip.BindEnv("redis.master_name", "REDIS_MASTER_NAME")

	vip.BindEnv("auth.jwt_secret", "AUTH_JWT_SECRET")

	vip.BindEnv("ai.api_key", "AI_API_KEY")
	vip.BindEnv("ai.base_url", "AI_BASE_URL")
	vip.BindEnv("ai.model", "AI_MODEL")
	vip.BindEnv("ai.max_tokens", "AI_MAX_TOKENS")
	vip.BindEnv("ai.temperature", "AI_TEMPERATURE")
	vip.BindEnv("ai.timeout_sec", "AI_TIMEOUT_SEC")
	vip.BindEnv("ai.rate_limit_requests", "AI_RATE_LIMIT_REQUESTS")
	vip.BindEnv("ai.rate_limit_window_sec", "AI_RATE_LIMIT_WINDOW_SEC")
	vip.BindEnv("ai.rate_limit_max_wait_sec", "AI_RATE_LIMIT_MAX_WAIT_SEC")

	vip.BindEnv("payments.webhook_secret", "PAYMENTS_WEBHOOK_SECRET")

	vip.BindEnv("cors.allowed_origins", "CORS_ALLOWED_ORIGINS")

	vip.BindEnv("server.port", "SERVER_PORT")
	vip.BindEnv("server.read_timeout", "SERVER_READ_TIMEOUT")
	vip.BindEnv("server.write_timeout", "SERVER_WRITE_TIMEOUT")

	if configPath != "" {
		vip.SetConfigFile(configPath)
		if err := vip.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); ok {
				log.Printf("Файл конфигурации '%s' не найден, используются переменные окружения/умолчания.", configPath)
			} else {
				log.Printf("Предупреждение: не удалось прочитать файл конфигурации '%s': %v", configPath, err)
			}
		}
	}

	var cfg Config
	if err := vip.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if os.Getenv("GIN_MODE") != "release" {
		log.Printf("--- Загруженные значения конфигурации ---")
		log.Printf("Database Host: %s", cfg.Database.Host)
		log.Printf("Database Name: %s", cfg.Database.DBName)
		log.Printf("Redis Addr: %s", cfg.Redis.Addr)
		log.Printf("Redis Mode: %s", cfg.Redis.Mode)
		log.Printf("AI API Key Set: %t", cfg.AI.APIKey != "")
		log.Printf("AI Model: %s", cfg.AI.Model)
		log.Printf("Server Port: %s", cfg.Server.Port)
		log.Printf("-----------------------------------------")
	}

	if cfg.Database.Host == "" || cfg.Database.DBName == "" || cfg.Database.User == "" {
		return nil, fmt.Errorf("database configuration (host, dbname, user) is incomplete in config (check DATABASE_HOST, DATABASE_DBNAME, DATABASE_USER env vars)")
	}
	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("auth JWT secret is required in config (check AUTH_JWT_SECRET env var)")
	}
	if cfg.AI.APIKey == "" {
		log.Println("Warning: AI_API_KEY is not set. All analyses will use the algorithmic path.")
	}

	return &cfg, nil
}
