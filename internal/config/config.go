package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config defines server configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Transport TransportConfig `yaml:"transport"`
	Store     StoreConfig     `yaml:"store"`
	Mongo     MongoConfig     `yaml:"mongo"`
	SQLite    SQLiteConfig    `yaml:"sqlite"`
	Local     LocalConfig     `yaml:"local"`
	Log       LogConfig       `yaml:"log"`
}

type ServerConfig struct {
	Host      string `yaml:"host" validate:"required"`
	Port      int    `yaml:"port" validate:"min=1,max=65535"`
	AuthToken string `yaml:"auth_token"`
}

type TransportConfig struct {
	Mode string `yaml:"mode" validate:"oneof=http stdio"`
}

type StoreConfig struct {
	Backend string `yaml:"backend" validate:"oneof=mongo sqlite local"`
}

type MongoConfig struct {
	URI            string        `yaml:"uri"`
	Database       string        `yaml:"database" validate:"required"`
	ConnectTimeout time.Duration `yaml:"connect_timeout" validate:"min=0"`
	MaxIdleTime    time.Duration `yaml:"max_idle_time" validate:"min=0"`
}

type SQLiteConfig struct {
	Path string `yaml:"path"`
}

type LocalConfig struct {
	Driver        string `yaml:"driver" validate:"oneof=file redis"`
	Dir           string `yaml:"dir"`
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db" validate:"min=0"`
}

type LogConfig struct {
	Level string `yaml:"level" validate:"oneof=debug info warn error"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Transport: TransportConfig{Mode: "http"},
		Store:     StoreConfig{Backend: "sqlite"},
		Mongo: MongoConfig{
			Database:       "cycle",
			ConnectTimeout: 10 * time.Second,
			MaxIdleTime:    time.Minute,
		},
		SQLite: SQLiteConfig{Path: "cycle.db"},
		Local: LocalConfig{
			Driver:    "file",
			Dir:       ".cycle",
			RedisAddr: "localhost:6379",
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load applies, in order: defaults, the YAML file named by CYCLE_CONFIG_PATH,
// and environment variables. Values from a .env file (CYCLE_ENV_FILE, or
// ./.env when present) fill in variables the process environment lacks.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("CYCLE_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	dotenv, err := readEnvFile()
	if err != nil {
		return Config{}, err
	}
	lookup := func(key string) string {
		if v, ok := os.LookupEnv(key); ok {
			return v
		}
		return dotenv[key]
	}

	if err := applyEnv(&cfg, lookup); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field ranges and the backend requirements.
func (c Config) Validate() error {
	validate := validator.New()
	validate.RegisterStructValidation(validateBackend, Config{})
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("invalid config: %s failed %q", verrs[0].Namespace(), verrs[0].Tag())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func validateBackend(sl validator.StructLevel) {
	cfg := sl.Current().Interface().(Config)
	switch cfg.Store.Backend {
	case "mongo":
		if !strings.HasPrefix(cfg.Mongo.URI, "mongodb://") && !strings.HasPrefix(cfg.Mongo.URI, "mongodb+srv://") {
			sl.ReportError(cfg.Mongo.URI, "Mongo.URI", "URI", "mongouri", "")
		}
	case "sqlite":
		if cfg.SQLite.Path == "" {
			sl.ReportError(cfg.SQLite.Path, "SQLite.Path", "Path", "required", "")
		}
	case "local":
		if cfg.Local.Driver == "file" && cfg.Local.Dir == "" {
			sl.ReportError(cfg.Local.Dir, "Local.Dir", "Dir", "required", "")
		}
		if cfg.Local.Driver == "redis" && cfg.Local.RedisAddr == "" {
			sl.ReportError(cfg.Local.RedisAddr, "Local.RedisAddr", "RedisAddr", "required", "")
		}
	}
}

func applyEnv(cfg *Config, lookup func(string) string) error {
	setString := func(key string, dst *string) {
		if v := lookup(key); v != "" {
			*dst = v
		}
	}
	setInt := func(key string, dst *int) error {
		v := lookup(key)
		if v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
		*dst = n
		return nil
	}

	setString("CYCLE_SERVER_HOST", &cfg.Server.Host)
	if err := setInt("CYCLE_SERVER_PORT", &cfg.Server.Port); err != nil {
		return err
	}
	setString("CYCLE_AUTH_TOKEN", &cfg.Server.AuthToken)
	setString("CYCLE_TRANSPORT_MODE", &cfg.Transport.Mode)
	setString("CYCLE_STORE_BACKEND", &cfg.Store.Backend)

	setString("MONGODB_URI", &cfg.Mongo.URI)
	setString("CYCLE_MONGO_URI", &cfg.Mongo.URI)
	setString("CYCLE_MONGO_DATABASE", &cfg.Mongo.Database)
	if v := lookup("CYCLE_MONGO_CONNECT_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid CYCLE_MONGO_CONNECT_TIMEOUT: %w", err)
		}
		cfg.Mongo.ConnectTimeout = d
	}

	setString("CYCLE_SQLITE_PATH", &cfg.SQLite.Path)

	setString("CYCLE_LOCAL_DRIVER", &cfg.Local.Driver)
	setString("CYCLE_LOCAL_DIR", &cfg.Local.Dir)
	setString("CYCLE_REDIS_ADDR", &cfg.Local.RedisAddr)
	setString("CYCLE_REDIS_PASSWORD", &cfg.Local.RedisPassword)
	if err := setInt("CYCLE_REDIS_DB", &cfg.Local.RedisDB); err != nil {
		return err
	}

	setString("CYCLE_LOG_LEVEL", &cfg.Log.Level)
	return nil
}

func readEnvFile() (map[string]string, error) {
	path := os.Getenv("CYCLE_ENV_FILE")
	explicit := path != ""
	if !explicit {
		path = ".env"
	}
	values, err := godotenv.Read(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("read env file: %w", err)
	}
	return values, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
