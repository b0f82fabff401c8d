package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/vipfat/Sbis-Yen/catalog"
	"github.com/vipfat/Sbis-Yen/document"
	"github.com/vipfat/Sbis-Yen/matching"
)

// Config конфигурация сервера
type Config struct {
	// Сервер
	Port string `json:"port"`

	// База данных справочников
	DatabasePath string `json:"database_path"`

	// Connection pooling
	MaxOpenConns    int           `json:"max_open_conns"`
	MaxIdleConns    int           `json:"max_idle_conns"`
	ConnMaxLifetime time.Duration `json:"conn_max_lifetime"`

	// Excel источники справочников
	CatalogExcelPath      string `json:"catalog_excel_path"`
	CompositionsExcelPath string `json:"compositions_excel_path"`
	ProductionExcelPath   string `json:"production_excel_path"`

	// Сопоставление названий
	MinScore       float64                `json:"min_score"`
	ConfidentScore float64                `json:"confident_score"`
	Weights        matching.Weights       `json:"weights"`
	Overrides      []catalog.OverrideRule `json:"overrides"`

	// СБИС
	SbisServiceURL        string  `json:"sbis_service_url"`
	SbisAuthURL           string  `json:"sbis_auth_url"`
	SbisClientID          string  `json:"sbis_client_id"`
	SbisSecret            string  `json:"sbis_secret"`
	SbisServiceKey        string  `json:"sbis_service_key"`
	SbisRequestsPerSecond float64 `json:"sbis_requests_per_second"`

	// Логирование
	LogLevel string `json:"log_level"`

	// Реквизиты организации
	Company document.Company `json:"company"`
}

// LoadConfig загружает конфигурацию из JSON файла (если путь задан
// и файл существует) с перекрытием переменными окружения.
func LoadConfig(path string) (*Config, error) {
	config := defaults()

	if path != "" {
		raw, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := json.Unmarshal(raw, config); err != nil {
				return nil, fmt.Errorf("invalid config file %s: %w", path, err)
			}
			log.Printf("Config loaded from %s", path)
		case os.IsNotExist(err):
			log.Printf("Config file %s not found, using env and defaults", path)
		default:
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	applyEnv(config)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return config, nil
}

func defaults() *Config {
	return &Config{
		Port:         "9999",
		DatabasePath: "catalogs.db",

		MaxOpenConns:    25,
		MaxIdleConns:    5,
		ConnMaxLifetime: 5 * time.Minute,

		CatalogExcelPath:      "Каталог.xlsx",
		CompositionsExcelPath: "Реестр составов.xlsx",
		ProductionExcelPath:   "Производство.xlsx",

		MinScore:       catalog.DefaultMinScore,
		ConfidentScore: catalog.DefaultConfidentScore,
		Weights:        matching.DefaultWeights(),
		Overrides:      catalog.DefaultOverrides(),

		SbisRequestsPerSecond: 2,

		LogLevel: "INFO",
	}
}

func applyEnv(config *Config) {
	config.Port = getEnv("SERVER_PORT", config.Port)
	config.DatabasePath = getEnv("DATABASE_PATH", config.DatabasePath)

	config.MaxOpenConns = getEnvInt("DB_MAX_OPEN_CONNS", config.MaxOpenConns)
	config.MaxIdleConns = getEnvInt("DB_MAX_IDLE_CONNS", config.MaxIdleConns)
	config.ConnMaxLifetime = getEnvDuration("DB_CONN_MAX_LIFETIME", config.ConnMaxLifetime)

	config.CatalogExcelPath = getEnv("CATALOG_EXCEL_PATH", config.CatalogExcelPath)
	config.CompositionsExcelPath = getEnv("COMPOSITIONS_EXCEL_PATH", config.CompositionsExcelPath)
	config.ProductionExcelPath = getEnv("PRODUCTION_EXCEL_PATH", config.ProductionExcelPath)

	config.MinScore = getEnvFloat("MATCH_MIN_SCORE", config.MinScore)
	config.ConfidentScore = getEnvFloat("MATCH_CONFIDENT_SCORE", config.ConfidentScore)

	config.SbisServiceURL = getEnv("SBIS_SERVICE_URL", config.SbisServiceURL)
	config.SbisAuthURL = getEnv("SBIS_AUTH_URL", config.SbisAuthURL)
	config.SbisClientID = getEnv("SBIS_CLIENT_ID", config.SbisClientID)
	config.SbisSecret = getEnv("SBIS_SECRET", config.SbisSecret)
	config.SbisServiceKey = getEnv("SBIS_SERVICE_KEY", config.SbisServiceKey)
	config.SbisRequestsPerSecond = getEnvFloat("SBIS_REQUESTS_PER_SECOND", config.SbisRequestsPerSecond)

	config.LogLevel = getEnv("LOG_LEVEL", config.LogLevel)

	config.Company.INN = getEnv("COMPANY_INN", config.Company.INN)
	config.Company.WarehouseID = getEnv("COMPANY_WAREHOUSE_ID", config.Company.WarehouseID)
	config.Company.WarehouseName = getEnv("COMPANY_WAREHOUSE_NAME", config.Company.WarehouseName)
}

// getEnv получает переменную окружения или возвращает значение по умолчанию
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt получает переменную окружения как int или возвращает значение по умолчанию
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvFloat получает переменную окружения как float64 или возвращает значение по умолчанию
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getEnvDuration получает переменную окружения как Duration или возвращает значение по умолчанию
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
