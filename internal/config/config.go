package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// envPattern - ${VAR} или ${VAR:-default}
var envPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// expandEnvWithDefaults расширяет переменные окружения с поддержкой дефолтных значений
// Формат: ${VAR:-default}
func expandEnvWithDefaults(s string) string {
	return envPattern.ReplaceAllStringFunc(s, func(match string) string {
		matches := envPattern.FindStringSubmatch(match)
		if len(matches) < 2 {
			return match
		}

		varName := matches[1]
		defaultValue := ""
		if len(matches) > 2 {
			defaultValue = matches[2]
		}

		// Если переменная не установлена, используем значение по умолчанию
		value := os.Getenv(varName)
		if value == "" {
			return defaultValue
		}
		return value
	})
}

// InitConfig читает конфигурационный файл и возвращает экземпляр конфигурации
// Использует generic для работы с произвольным типом конфигурации
func InitConfig[C any](configFile string) (*C, error) {
	v := viper.New()
	ext := strings.TrimLeft(filepath.Ext(configFile), ".")

	v.SetConfigFile(configFile)
	v.SetConfigType(ext)
	err := v.ReadInConfig()
	if err != nil {
		return nil, fmt.Errorf("v.ReadInConfig: %w", err)
	}

	// Заменяем переменные окружения формата ${VAR:-default} на их значения
	for _, k := range v.AllKeys() {
		value := v.GetString(k)
		if value == "" {
			continue
		}
		expanded := expandEnvWithDefaults(value)

		// Числа и boolean восстанавливаем в исходный тип, длительности ("5s")
		// остаются строками и разбираются decode hook'ом viper
		if expanded == "true" || expanded == "false" {
			boolValue, _ := strconv.ParseBool(expanded)
			v.Set(k, boolValue)
		} else if intValue, err := strconv.Atoi(expanded); err == nil {
			v.Set(k, intValue)
		} else {
			v.Set(k, expanded)
		}
	}

	cfg := new(C)
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("v.Unmarshal: %w", err)
	}

	return cfg, nil
}

// Load читает конфигурацию сервиса. Отсутствующий файл не ошибка:
// используются значения по умолчанию. Незаданные поля заполняются дефолтами.
func Load(configFile string) (*Config, error) {
	cfg, err := InitConfig[Config](configFile)
	if errors.Is(err, fs.ErrNotExist) {
		cfg, err = &Config{}, nil
	}
	if err != nil {
		return nil, err
	}
	ApplyDefaults(cfg)
	return cfg, nil
}

// Default возвращает конфигурацию по умолчанию
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults заполняет незаданные поля значениями по умолчанию
func ApplyDefaults(cfg *Config) {
	if cfg.Logger == nil {
		cfg.Logger = &ConfigLogger{}
	}
	setDefault(&cfg.Logger.Level, "info")

	if cfg.Server == nil {
		cfg.Server = &ConfigServer{}
	}
	setDefault(&cfg.Server.Port, 8080)
	setDefault(&cfg.Server.ReadTimeout, 15*time.Second)
	setDefault(&cfg.Server.WriteTimeout, 15*time.Second)
	setDefault(&cfg.Server.IdleTimeout, 60*time.Second)
	setDefault(&cfg.Server.ReadHeaderTimeout, 5*time.Second)
	setDefault(&cfg.Server.GracefulShutdownTimeout, 10*time.Second)
	setDefault(&cfg.Server.MaxBodyBytes, 1<<20)

	if cfg.Store == nil {
		cfg.Store = &ConfigStore{}
	}
	setDefault(&cfg.Store.Driver, "redis")
	setDefault(&cfg.Store.Addr, "localhost:6379")
	setDefault(&cfg.Store.SocketTimeout, 5*time.Second)
	setDefault(&cfg.Store.ConnectTimeout, 5*time.Second)
	setDefault(&cfg.Store.MaxRetryAttempts, 5)
	setDefault(&cfg.Store.RetryBackoff, time.Second)

	if cfg.Gateway == nil {
		cfg.Gateway = &ConfigGateway{}
	}
	setDefault(&cfg.Gateway.CORSAllowedOrigins, "*")
	setDefault(&cfg.Gateway.CORSMaxAge, 300)

	if cfg.Metrics == nil {
		cfg.Metrics = &ConfigMetrics{}
	}
	setDefault(&cfg.Metrics.Port, 9090)

	if cfg.Auth == nil {
		cfg.Auth = &ConfigAuth{}
	}
	setDefault(&cfg.Auth.Salt, "Otus")
	setDefault(&cfg.Auth.AdminSalt, "42")
}

func setDefault[T comparable](field *T, value T) {
	var zero T
	if *field == zero {
		*field = value
	}
}

// Validate проверяет значения конфигурации по тегам validate
func Validate(cfg *Config) error {
	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
