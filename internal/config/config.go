package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config is the single YAML file shared by the terminal UI and the
// back-office API. A missing file runs on defaults; environment variables
// override individual fields for container use.
type Config struct {
	CatalogPath string `yaml:"catalog_path"`
	ReceiptsDir string `yaml:"receipts_dir"`
	LogPath     string `yaml:"log_path"`

	// DatabaseURL switches the catalog and sales journal to Postgres when
	// set; empty means CSV catalog plus in-memory journal.
	DatabaseURL string `yaml:"database_url"`

	ListenAddr           string `yaml:"listen_addr"`
	JWTSecret            string `yaml:"jwt_secret"`
	OperatorPasswordHash string `yaml:"operator_password_hash"`

	MetricsEnabled bool   `yaml:"metrics_enabled"`
	MetricsToken   string `yaml:"metrics_token"`
}

func Default() Config {
	return Config{
		CatalogPath: "products.csv",
		ReceiptsDir: ".",
		LogPath:     "pos.log",
		ListenAddr:  ":8084",
	}
}

// Load reads path if it exists, applies defaults for unset fields, then env
// overrides. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	raw, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if err == nil {
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyDefaults(&cfg)
	applyEnv(&cfg)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	def := Default()
	if cfg.CatalogPath == "" {
		cfg.CatalogPath = def.CatalogPath
	}
	if cfg.ReceiptsDir == "" {
		cfg.ReceiptsDir = def.ReceiptsDir
	}
	if cfg.LogPath == "" {
		cfg.LogPath = def.LogPath
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = def.ListenAddr
	}
}

func applyEnv(cfg *Config) {
	setFromEnv(&cfg.CatalogPath, "POS_CATALOG_PATH")
	setFromEnv(&cfg.ReceiptsDir, "POS_RECEIPTS_DIR")
	setFromEnv(&cfg.DatabaseURL, "POS_DATABASE_URL")
	setFromEnv(&cfg.ListenAddr, "POS_LISTEN_ADDR")
	setFromEnv(&cfg.JWTSecret, "POS_JWT_SECRET")
	setFromEnv(&cfg.OperatorPasswordHash, "POS_OPERATOR_PASSWORD_HASH")
	setFromEnv(&cfg.MetricsToken, "POS_METRICS_TOKEN")

	if v := os.Getenv("POS_METRICS_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.MetricsEnabled = b
		}
	}
}

func setFromEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
