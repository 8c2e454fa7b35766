package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Secrets   Secrets         `mapstructure:"secrets"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxBodySize     int64         `mapstructure:"max_body_size"`
	StaticDir       string        `mapstructure:"static_dir"`
}

// Secrets is loaded once at startup and never mutated afterwards.
type Secrets struct {
	WebhookToken string `mapstructure:"webhook_token"`
	Password     string `mapstructure:"password"`
	// PasswordHash is a bcrypt hash; when set it replaces Password.
	PasswordHash string `mapstructure:"password_hash"`
	Secret       string `mapstructure:"secret"`
}

// Missing lists the names of unset secrets. Values are never included.
func (s Secrets) Missing() []string {
	var missing []string
	if s.WebhookToken == "" {
		missing = append(missing, "WEBHOOK_TOKEN")
	}
	if s.Password == "" && s.PasswordHash == "" {
		missing = append(missing, "PASSWORD")
	}
	if s.Secret == "" {
		missing = append(missing, "SECRET")
	}
	return missing
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	AllowedMethods []string `mapstructure:"allowed_methods"`
	AllowedHeaders []string `mapstructure:"allowed_headers"`
	MaxAge         int      `mapstructure:"max_age"`
}

type RateLimitConfig struct {
	// SignPerMinute bounds signature requests per client; 0 disables the limit.
	SignPerMinute int `mapstructure:"sign_per_minute"`
}

type LoggingConfig struct {
	Level    string `mapstructure:"level"`
	Format   string `mapstructure:"format"`
	Output   string `mapstructure:"output"`
	FilePath string `mapstructure:"file_path"`
}

// envAliases are the bare variable names operators already use for this service.
var envAliases = map[string][]string{
	"server.port":                {"PORT"},
	"server.host":                {"HOST"},
	"server.static_dir":          {"STATIC_DIR"},
	"server.max_body_size":       {"MAX_BODY_SIZE"},
	"secrets.webhook_token":      {"WEBHOOK_TOKEN"},
	"secrets.password":           {"PASSWORD"},
	"secrets.password_hash":      {"PASSWORD_HASH"},
	"secrets.secret":             {"SECRET"},
	"cors.allowed_origins":       {"CORS_ALLOWED_ORIGINS"},
	"rate_limit.sign_per_minute": {"RATE_LIMIT_SIGN_PER_MINUTE"},
	"logging.level":              {"LOG_LEVEL"},
	"logging.format":             {"LOG_FORMAT"},
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "")
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 5*time.Second)
	v.SetDefault("server.max_body_size", 1<<20)
	v.SetDefault("server.static_dir", "")

	v.SetDefault("secrets.webhook_token", "")
	v.SetDefault("secrets.password", "")
	v.SetDefault("secrets.password_hash", "")
	v.SetDefault("secrets.secret", "")

	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"})
	v.SetDefault("cors.max_age", 300)

	v.SetDefault("rate_limit.sign_per_minute", 30)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stdout")
	v.SetDefault("logging.file_path", "")
}

// Load reads configuration from defaults, an optional config file at path, a
// .env file in the working directory and the environment, in increasing order
// of precedence. A missing config file or .env file is not an error.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for key, aliases := range envAliases {
		args := append([]string{key, strings.ToUpper(strings.ReplaceAll(key, ".", "_"))}, aliases...)
		if err := v.BindEnv(args...); err != nil {
			return nil, err
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
