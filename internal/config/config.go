package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config корневая структура конфигурации приложения
type Config struct {
	Log       LogConfig       `yaml:"log"`
	Storage   StorageConfig   `yaml:"storage"`
	World     WorldConfig     `yaml:"world"`
	EventBus  EventBusConfig  `yaml:"eventbus"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	API       APIConfig       `yaml:"api"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

type LogConfig struct {
	Dir          string `yaml:"dir"`
	ConsoleLevel string `yaml:"console_level"`
	FileLevel    string `yaml:"file_level"`

	// Components переопределяет уровень отдельных компонентов ("storage": "WARN")
	Components map[string]string `yaml:"components"`
}

// StorageConfig описывает хранилище мира.
// Backend: memory, badger, sqlite, mysql, redis или mongo.
type StorageConfig struct {
	Backend     string      `yaml:"backend"`
	Path        string      `yaml:"path"` // каталог badger или файл sqlite
	DSN         string      `yaml:"dsn"`  // только для mysql
	Compression bool        `yaml:"compression"`
	Redis       RedisConfig `yaml:"redis"`
	Mongo       MongoConfig `yaml:"mongo"`
}

type RedisConfig struct {
	Addr      string `yaml:"addr"`
	Password  string `yaml:"password"`
	DB        int    `yaml:"db"`
	KeyPrefix string `yaml:"key_prefix"`
}

type MongoConfig struct {
	URI        string `yaml:"uri"`
	Database   string `yaml:"database"`
	Collection string `yaml:"collection"`
}

type WorldConfig struct {
	Name string `yaml:"name"`
	Seed int64  `yaml:"seed"`
	Size int    `yaml:"size"` // сторона генерируемой области в блоках
}

// EventBusConfig описывает шину событий мира.
// Backend: none, memory или nats.
type EventBusConfig struct {
	Backend        string `yaml:"backend"`
	URL            string `yaml:"url"`
	Stream         string `yaml:"stream"`
	RetentionHours int    `yaml:"retention_hours"`
	Buffer         int    `yaml:"buffer"` // ёмкость in-memory шины
}

type MetricsConfig struct {
	Port int `yaml:"port"`
}

// APIConfig — административный REST API
type APIConfig struct {
	Port int `yaml:"port"`
}

type TelemetryConfig struct {
	Enabled     bool   `yaml:"enabled"`
	ServiceName string `yaml:"service_name"`
	Endpoint    string `yaml:"endpoint"` // host:port OTLP HTTP, пусто — localhost:4318
}

// Default возвращает конфигурацию по умолчанию
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Dir:          "logs",
			ConsoleLevel: "INFO",
			FileLevel:    "DEBUG",
		},
		Storage: StorageConfig{
			Backend: "badger",
			Path:    "data",
			Redis: RedisConfig{
				Addr:      "localhost:6379",
				KeyPrefix: "voxel:",
			},
			Mongo: MongoConfig{
				URI:        "mongodb://localhost:27017",
				Database:   "voxel",
				Collection: "records",
			},
		},
		World: WorldConfig{
			Name: "overworld",
			Seed: 12345,
			Size: 32,
		},
		EventBus: EventBusConfig{
			Backend:        "none",
			URL:            "nats://127.0.0.1:4222",
			Stream:         "WORLD",
			RetentionHours: 24,
			Buffer:         1024,
		},
		Metrics: MetricsConfig{
			Port: 2112,
		},
		API: APIConfig{
			Port: 8080,
		},
		Telemetry: TelemetryConfig{
			ServiceName: "voxel-content",
		},
	}
}

// GetMetricsPort возвращает порт метрик с поддержкой fallback значений
func (m *MetricsConfig) GetMetricsPort() int {
	return getIntWithEnvFallback(m.Port, "CONTENT_METRICS_PORT", 2112)
}

// GetAPIPort возвращает порт REST API: config -> env -> default
func (a *APIConfig) GetAPIPort() int {
	return getIntWithEnvFallback(a.Port, "CONTENT_API_PORT", 8080)
}

// GetBackend возвращает бэкенд хранилища: config -> env -> default
func (s *StorageConfig) GetBackend() string {
	if s.Backend != "" {
		return s.Backend
	}
	if v := os.Getenv("CONTENT_STORAGE_BACKEND"); v != "" {
		return v
	}
	return "badger"
}

// getIntWithEnvFallback возвращает значение с приоритетом: config -> env -> default
func getIntWithEnvFallback(configValue int, envVar string, defaultValue int) int {
	if configValue > 0 {
		return configValue
	}

	if envVal := os.Getenv(envVar); envVal != "" {
		if v, err := strconv.Atoi(envVal); err == nil && v > 0 {
			return v
		}
	}

	return defaultValue
}

// Load читает YAML файл конфигурации поверх значений по умолчанию.
// Если path == "", берётся ENV CONTENT_CONFIG; без файла возвращаются дефолты.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("CONTENT_CONFIG")
		if path == "" {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("чтение конфигурации %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("разбор конфигурации %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate проверяет значения, которые нельзя исправить дефолтами
func (c *Config) Validate() error {
	switch c.Storage.GetBackend() {
	case "memory", "badger", "sqlite", "mysql", "redis", "mongo":
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	if c.Storage.GetBackend() == "mysql" && c.Storage.DSN == "" {
		return fmt.Errorf("storage backend mysql requires dsn")
	}
	switch c.EventBus.Backend {
	case "", "none", "memory", "nats":
	default:
		return fmt.Errorf("unknown eventbus backend %q", c.EventBus.Backend)
	}
	if c.World.Size < 0 {
		return fmt.Errorf("world size must not be negative, got %d", c.World.Size)
	}
	return nil
}
