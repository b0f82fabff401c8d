package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Validate проверяет корректность конфигурации
func (c *Config) Validate() error {
	var errors []string

	// Валидация порта
	if c.Port == "" {
		errors = append(errors, "port is required")
	} else {
		port, err := strconv.Atoi(c.Port)
		if err != nil {
			errors = append(errors, fmt.Sprintf("invalid port: %s", c.Port))
		} else if port < 1 || port > 65535 {
			errors = append(errors, fmt.Sprintf("port must be between 1 and 65535, got %d", port))
		}
	}

	// Валидация базы данных
	if c.DatabasePath == "" {
		errors = append(errors, "database path is required")
	}

	// Валидация connection pooling
	if c.MaxOpenConns < 1 {
		errors = append(errors, "max open connections must be at least 1")
	}
	if c.MaxIdleConns < 1 {
		errors = append(errors, "max idle connections must be at least 1")
	}
	if c.MaxIdleConns > c.MaxOpenConns {
		errors = append(errors, "max idle connections cannot be greater than max open connections")
	}
	if c.ConnMaxLifetime < time.Second {
		errors = append(errors, "connection max lifetime must be at least 1 second")
	}

	// Валидация порогов сопоставления
	if c.MinScore <= 0 || c.MinScore > 1 {
		errors = append(errors, fmt.Sprintf("min score must be in (0, 1], got %g", c.MinScore))
	}
	if c.ConfidentScore <= 0 || c.ConfidentScore > 1 {
		errors = append(errors, fmt.Sprintf("confident score must be in (0, 1], got %g", c.ConfidentScore))
	}
	if c.MinScore > c.ConfidentScore {
		errors = append(errors, "min score cannot be greater than confident score")
	}

	// Валидация весов смешивания
	if c.Weights.Sequence < 0 || c.Weights.TokenOverlap < 0 || c.Weights.Levenshtein < 0 {
		errors = append(errors, "blend weights must be non-negative")
	}
	if c.Weights.Sequence+c.Weights.TokenOverlap+c.Weights.Levenshtein == 0 {
		errors = append(errors, "blend weights cannot all be zero")
	}

	// Валидация частоты запросов к СБИС
	if c.SbisRequestsPerSecond < 0 {
		errors = append(errors, "SBIS requests per second cannot be negative")
	}

	// Валидация ИНН организации (10 или 12 цифр, если задан)
	if c.Company.INN != "" && !validINN(c.Company.INN) {
		errors = append(errors, fmt.Sprintf("invalid company INN: %s", c.Company.INN))
	}

	// Валидация уровня логирования
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG", "INFO", "WARN", "ERROR":
	default:
		errors = append(errors, fmt.Sprintf("invalid log level: %s", c.LogLevel))
	}

	if len(errors) > 0 {
		return fmt.Errorf("config validation failed: %s", strings.Join(errors, "; "))
	}
	return nil
}

func validINN(inn string) bool {
	if len(inn) != 10 && len(inn) != 12 {
		return false
	}
	for _, r := range inn {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
