package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type Config struct {
	Mode     Mode   `yaml:"mode"`
	HTTPAddr string `yaml:"http_addr"`

	DBDriver string `yaml:"db_driver"`
	DBDSN    string `yaml:"db_dsn"`

	LogLevel  string `yaml:"log_level"`  // debug|info|warn|error
	LogFormat string `yaml:"log_format"` // text|json

	CORSOriginsOnline  []string `yaml:"cors_origins_online"`
	CORSOriginsOffline []string `yaml:"cors_origins_offline"`

	EnableAdminAPI bool   `yaml:"enable_admin_api"`
	AdminUser      string `yaml:"admin_user"`
	AdminPassHash  string `yaml:"admin_pass_hash"` // bcrypt
	AuthHMACSecret string `yaml:"auth_hmac_secret"`

	// ExposeAnswers serves reference answers to everyone on
	// GET /api/questions/{id}; otherwise only admins see them.
	ExposeAnswers     bool   `yaml:"expose_answers"`
	RecordSubmissions bool   `yaml:"record_submissions"`
	EnableMetrics     bool   `yaml:"enable_metrics"`
	SeedFile          string `yaml:"seed_file"`
}

// Development credentials shipped as defaults. Warnings flags them.
const (
	DefaultAdminPassHash  = "$2y$12$pyZAiWaTfVtM7UElIRStvOC3gNbnp70nmQU4eYopLGBfCJr1DOvji"
	DefaultAuthHMACSecret = "supersecret-dev-key"
)

func FromEnv() Config {
	mode := Mode(os.Getenv("MODE"))
	if mode == "" {
		mode = ModeOffline
	}
	return Config{
		Mode:               mode,
		HTTPAddr:           envOr("HTTP_ADDR", ":5000"),
		DBDriver:           envOr("DB_DRIVER", "sqlite"),
		DBDSN:              envOr("DB_DSN", ""),
		LogLevel:           envOr("LOG_LEVEL", "info"),
		LogFormat:          envOr("LOG_FORMAT", "text"),
		CORSOriginsOnline:  csvOr("CORS_ORIGINS_ONLINE", "https://pseudocheck.mindengage.ai"),
		CORSOriginsOffline: csvOr("CORS_ORIGINS_OFFLINE", "http://localhost:3000"),
		EnableAdminAPI:     envBool("ENABLE_ADMIN_API", mode == ModeOffline),
		AdminUser:          envOr("ADMIN_USER", "admin"),
		AdminPassHash:      envOr("ADMIN_PASS_HASH", DefaultAdminPassHash),
		AuthHMACSecret:     envOr("AUTH_HMAC_SECRET", DefaultAuthHMACSecret),
		ExposeAnswers:      envBool("EXPOSE_ANSWERS", false),
		RecordSubmissions:  envBool("RECORD_SUBMISSIONS", true),
		EnableMetrics:      envBool("ENABLE_METRICS", true),
		SeedFile:           os.Getenv("SEED_FILE"),
	}
}

// LoadFile overlays the YAML file at path onto base. Keys missing from the
// file keep base's value.
func LoadFile(path string, base Config) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return base, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg := base
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return base, fmt.Errorf("config: decode %q: %w", path, err)
	}
	return cfg, nil
}

// Validate returns every problem found in cfg joined into one error.
func Validate(cfg Config) error {
	var errs []error
	if cfg.Mode != ModeOffline && cfg.Mode != ModeOnline {
		errs = append(errs, fmt.Errorf("mode %q is invalid; valid values: offline, online", cfg.Mode))
	}
	if strings.TrimSpace(cfg.HTTPAddr) == "" {
		errs = append(errs, errors.New("http_addr is required"))
	}
	switch strings.ToLower(cfg.DBDriver) {
	case "sqlite", "sqlite3", "postgres", "postgresql", "pg", "pgx":
	default:
		errs = append(errs, fmt.Errorf("db_driver %q is invalid; valid values: sqlite, postgres", cfg.DBDriver))
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log_level %q is invalid; valid values: debug, info, warn, error", cfg.LogLevel))
	}
	switch cfg.LogFormat {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log_format %q is invalid; valid values: text, json", cfg.LogFormat))
	}
	if cfg.EnableAdminAPI {
		if cfg.AdminUser == "" || cfg.AdminPassHash == "" {
			errs = append(errs, errors.New("admin_user and admin_pass_hash are required when the admin API is enabled"))
		}
		if cfg.Mode == ModeOnline && cfg.AuthHMACSecret == DefaultAuthHMACSecret {
			errs = append(errs, errors.New("auth_hmac_secret must be changed in online mode"))
		}
	}
	return errors.Join(errs...)
}

// Warnings lists settings that are valid but unsafe outside local
// development. They apply in every mode.
func Warnings(cfg Config) []string {
	if !cfg.EnableAdminAPI {
		return nil
	}
	var out []string
	if cfg.AdminPassHash == DefaultAdminPassHash {
		out = append(out, "admin_pass_hash is the built-in default; set ADMIN_PASS_HASH")
	}
	if cfg.AuthHMACSecret == DefaultAuthHMACSecret {
		out = append(out, "auth_hmac_secret is the built-in default; set AUTH_HMAC_SECRET")
	}
	return out
}

// CORSOrigins returns the allowed origins for the configured mode.
func (c Config) CORSOrigins() []string {
	if c.Mode == ModeOnline {
		return c.CORSOriginsOnline
	}
	return c.CORSOriginsOffline
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}
func envBool(k string, def bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return def
	}
}
func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
