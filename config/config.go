package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config application-wide configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"db"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Session  SessionConfig  `mapstructure:"session"`
	Log      LogConfig      `mapstructure:"log"`
	School   SchoolConfig   `mapstructure:"school"`
}

// ServerConfig HTTP server settings
type ServerConfig struct {
	Port         int    `mapstructure:"port"`
	BaseURL      string `mapstructure:"base_url"`
	MaxBodyBytes int64  `mapstructure:"max_body_bytes"`

	// MaxUploadBytes applies to the spreadsheet and calendar imports
	MaxUploadBytes int64      `mapstructure:"max_upload_bytes"`
	CORS           CORSConfig `mapstructure:"cors"`
}

// CORSConfig allowed origins for the scanner API
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// DatabaseConfig PostgreSQL connection settings
type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Name            string `mapstructure:"name"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	SSLMode         string `mapstructure:"sslmode"`
	Timezone        string `mapstructure:"timezone"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`  // minutes
	ConnMaxIdleTime int    `mapstructure:"conn_max_idle_time"` // minutes
}

// DSN builds the PostgreSQL connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode, c.Timezone,
	)
}

// RedisConfig Redis settings. An empty Addr disables Redis.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// AuthConfig JWT settings for the scanner API
type AuthConfig struct {
	JWTSecret      string        `mapstructure:"jwt_secret"`
	AccessTokenTTL time.Duration `mapstructure:"access_token_ttl"`
	LoginRateLimit int           `mapstructure:"login_rate_limit"`
	LoginWindow    time.Duration `mapstructure:"login_window"`

	// BootstrapAdminPassword creates the first admin account when no admin exists
	BootstrapAdminPassword string `mapstructure:"bootstrap_admin_password"`
}

// SessionConfig cookie session settings for the admin pages
type SessionConfig struct {
	Name     string        `mapstructure:"name"`
	Secret   string        `mapstructure:"secret"`
	MaxAge   time.Duration `mapstructure:"max_age"`
	Secure   bool          `mapstructure:"secure"`
	SameSite string        `mapstructure:"same_site"`
}

// LogConfig logging settings
type LogConfig struct {
	Level   string `mapstructure:"level"`
	Format  string `mapstructure:"format"`
	DBLevel string `mapstructure:"db_level"` // minimum level persisted to the logs table
	Output  string `mapstructure:"output"`   // optional log file, written alongside stderr
}

// SchoolConfig school-wide settings that are not editable at runtime
type SchoolConfig struct {
	Timezone string `mapstructure:"timezone"`
}

// Location resolves the school timezone, falling back to UTC.
func (c *SchoolConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Load reads configuration from file and environment.
// Precedence: environment > config file > defaults.
func Load(path string) (*Config, error) {
	v := viper.New()

	// ── defaults ──
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.base_url", "http://localhost:8080")
	v.SetDefault("server.max_body_bytes", 1<<20)
	v.SetDefault("server.max_upload_bytes", 12<<20)
	v.SetDefault("server.cors.allow_origins", []string{"http://localhost:5173"})

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.name", "school_scan")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.timezone", "Asia/Manila")
	v.SetDefault("db.max_open_conns", 25)
	v.SetDefault("db.max_idle_conns", 10)
	v.SetDefault("db.conn_max_lifetime", 60)
	v.SetDefault("db.conn_max_idle_time", 30)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("auth.access_token_ttl", "12h")
	v.SetDefault("auth.login_rate_limit", 10)
	v.SetDefault("auth.login_window", "1m")

	v.SetDefault("session.name", "school_scan_session")
	v.SetDefault("session.max_age", "8h")
	v.SetDefault("session.secure", false)
	v.SetDefault("session.same_site", "Lax")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.db_level", "warn")

	v.SetDefault("school.timezone", "Asia/Manila")

	// ── config file ──
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// ── environment ──
	v.SetEnvPrefix("SCAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the settings the server cannot start without
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 16 {
		return fmt.Errorf("config: auth.jwt_secret must be at least 16 characters")
	}
	if len(c.Session.Secret) < 32 {
		return fmt.Errorf("config: session.secret must be at least 32 characters")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port must be between 1 and 65535")
	}
	switch strings.ToLower(c.Session.SameSite) {
	case "", "lax", "strict", "none":
	default:
		return fmt.Errorf("config: session.same_site must be one of Lax, Strict, None")
	}
	// DATE columns are written as local midnight and converted in the DB session zone.
	if c.Database.Timezone != c.School.Timezone {
		return fmt.Errorf("config: db.timezone (%q) must match school.timezone (%q)",
			c.Database.Timezone, c.School.Timezone)
	}
	return nil
}
