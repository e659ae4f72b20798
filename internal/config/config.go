package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config stores runtime configuration loaded from the environment.
type Config struct {
	Port         int    `mapstructure:"port" validate:"gt=0,lte=65535"`
	LogLevel     string `mapstructure:"log_level" validate:"oneof=debug info warn warning error"`
	DatabasePath string `mapstructure:"database_path" validate:"required"`
	UploadDir    string `mapstructure:"upload_dir" validate:"required"`
	Language     string `mapstructure:"language" validate:"oneof=french english"`
	MaxCards     int    `mapstructure:"max_cards" validate:"gt=0,lte=500"`
	Workers      int    `mapstructure:"workers" validate:"gt=0,lte=64"`
	NLPEnabled   bool   `mapstructure:"nlp_enabled"`
	// PunktModelDir holds optional <language>.json Punkt models that replace
	// the bundled ones.
	PunktModelDir string `mapstructure:"punkt_model_dir"`
}

// EnvPrefix prefixes every environment override, e.g. FLASHGEN_PORT.
const EnvPrefix = "FLASHGEN"

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", 8080)
	v.SetDefault("log_level", "info")
	v.SetDefault("database_path", "./data/flashcards.db")
	v.SetDefault("upload_dir", "./static/uploads")
	v.SetDefault("language", "french")
	v.SetDefault("max_cards", 10)
	v.SetDefault("workers", 4)
	v.SetDefault("nlp_enabled", true)
	v.SetDefault("punkt_model_dir", "")
}

// Load reads configuration from a local .env file when present and from
// FLASHGEN_ environment variables, then validates it.
func Load() (Config, error) {
	// .env is optional
	_ = godotenv.Load()
	return load()
}

func load() (Config, error) {
	v := viper.New()
	v.SetTypeByDefaultValue(true)
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	cfg.Language = strings.ToLower(cfg.Language)
	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// EnsureDirs creates the upload directory and the database's parent
// directory.
func (c Config) EnsureDirs() error {
	if err := os.MkdirAll(c.UploadDir, 0o755); err != nil {
		return fmt.Errorf("ensure upload dir %s: %w", c.UploadDir, err)
	}
	if err := os.MkdirAll(filepath.Dir(c.DatabasePath), 0o755); err != nil {
		return fmt.Errorf("ensure database dir %s: %w", c.DatabasePath, err)
	}
	return nil
}

func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
