package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/vipfat/Sbis-Yen/catalog"
)

// TestLoadConfig_Defaults проверяет значения по умолчанию
func TestLoadConfig_Defaults(t *testing.T) {
	config, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if config.Port != "9999" {
		t.Errorf("Port = %q, want \"9999\"", config.Port)
	}
	if config.MinScore != catalog.DefaultMinScore {
		t.Errorf("MinScore = %g, want %g", config.MinScore, catalog.DefaultMinScore)
	}
	if config.ConfidentScore != catalog.DefaultConfidentScore {
		t.Errorf("ConfidentScore = %g, want %g", config.ConfidentScore, catalog.DefaultConfidentScore)
	}
	if len(config.Overrides) == 0 {
		t.Error("Overrides пусты, ожидались правила по умолчанию")
	}
}

// TestLoadConfig_FileAndEnv проверяет загрузку из файла
// с перекрытием переменными окружения
func TestLoadConfig_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	body := `{
		"port": "8080",
		"database_path": "test.db",
		"min_score": 0.6,
		"company": {"inn": "940200200247", "warehouse_name": "ИП Плетнев"}
	}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	t.Setenv("SERVER_PORT", "8081")
	t.Setenv("MATCH_MIN_SCORE", "0.5")

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	// Окружение перекрывает файл
	if config.Port != "8081" {
		t.Errorf("Port = %q, want \"8081\"", config.Port)
	}
	if config.MinScore != 0.5 {
		t.Errorf("MinScore = %g, want 0.5", config.MinScore)
	}
	// Файл перекрывает значения по умолчанию
	if config.DatabasePath != "test.db" {
		t.Errorf("DatabasePath = %q, want \"test.db\"", config.DatabasePath)
	}
	if config.Company.INN != "940200200247" {
		t.Errorf("Company.INN = %q", config.Company.INN)
	}
}

// TestLoadConfig_MissingFile проверяет работу без файла конфигурации
func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json")); err != nil {
		t.Errorf("LoadConfig() error = %v, отсутствующий файл не должен быть ошибкой", err)
	}
}

// TestValidate проверяет отказ для некорректных настроек
func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"пустой порт", func(c *Config) { c.Port = "" }},
		{"нечисловой порт", func(c *Config) { c.Port = "abc" }},
		{"порог вне диапазона", func(c *Config) { c.MinScore = 1.5 }},
		{"min выше confident", func(c *Config) { c.MinScore = 0.9; c.ConfidentScore = 0.7 }},
		{"нулевые веса", func(c *Config) { c.Weights.Sequence = 0; c.Weights.TokenOverlap = 0; c.Weights.Levenshtein = 0 }},
		{"кривой ИНН", func(c *Config) { c.Company.INN = "123" }},
		{"кривой уровень логов", func(c *Config) { c.LogLevel = "verbose" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := defaults()
			tt.mutate(config)
			if err := config.Validate(); err == nil {
				t.Error("Validate() = nil, ожидалась ошибка")
			}
		})
	}
}
