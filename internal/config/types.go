package config

import "time"

// ConfigLogger настройки логирования
type ConfigLogger struct {
	Level string `mapstructure:"level" validate:"omitempty,oneof=debug info warn error"`
	File  string `mapstructure:"file"`
}

// ConfigServer настройки HTTP сервера API
type ConfigServer struct {
	Port                    int           `mapstructure:"port" validate:"min=1,max=65535"`
	ReadTimeout             time.Duration `mapstructure:"read_timeout" validate:"gt=0"`
	WriteTimeout            time.Duration `mapstructure:"write_timeout" validate:"gt=0"`
	IdleTimeout             time.Duration `mapstructure:"idle_timeout" validate:"gt=0"`
	ReadHeaderTimeout       time.Duration `mapstructure:"read_header_timeout" validate:"gt=0"`
	GracefulShutdownTimeout time.Duration `mapstructure:"graceful_shutdown_timeout" validate:"gt=0"`
	MaxBodyBytes            int64         `mapstructure:"max_body_bytes" validate:"gt=0"`
}

// ConfigStore настройки хранилища (redis или память процесса)
type ConfigStore struct {
	Driver           string        `mapstructure:"driver" validate:"oneof=redis memory"`
	Addr             string        `mapstructure:"addr" validate:"required_if=Driver redis,omitempty,hostname_port"`
	Password         string        `mapstructure:"password"`
	DB               int           `mapstructure:"db" validate:"min=0"`
	SocketTimeout    time.Duration `mapstructure:"socket_timeout" validate:"gt=0"`
	ConnectTimeout   time.Duration `mapstructure:"connect_timeout" validate:"gt=0"`
	MaxRetryAttempts int           `mapstructure:"max_retry_attempts" validate:"min=1"`
	RetryBackoff     time.Duration `mapstructure:"retry_backoff" validate:"min=0"`
}

// ConfigGateway настройки HTTP слоя: CORS и ограничение частоты запросов
type ConfigGateway struct {
	CORSAllowedOrigins string `mapstructure:"cors_allowed_origins"`
	CORSMaxAge         int    `mapstructure:"cors_max_age" validate:"min=0"`
	RateLimitRPS       int    `mapstructure:"rate_limit_rps" validate:"min=0"`
	RateLimitBurst     int    `mapstructure:"rate_limit_burst" validate:"min=0"`
}

// ConfigMetrics настройки отдельного listener'а для /metrics
type ConfigMetrics struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port" validate:"required_if=Enabled true,omitempty,min=1,max=65535"`
}

// ConfigAuth соли для токенов
type ConfigAuth struct {
	Salt      string `mapstructure:"salt" validate:"required"`
	AdminSalt string `mapstructure:"admin_salt" validate:"required"`
}

// Config основная структура конфигурации
type Config struct {
	Logger  *ConfigLogger  `mapstructure:"logger" validate:"required"`
	Server  *ConfigServer  `mapstructure:"server" validate:"required"`
	Store   *ConfigStore   `mapstructure:"store" validate:"required"`
	Gateway *ConfigGateway `mapstructure:"gateway" validate:"required"`
	Metrics *ConfigMetrics `mapstructure:"metrics" validate:"required"`
	Auth    *ConfigAuth    `mapstructure:"auth" validate:"required"`
}
