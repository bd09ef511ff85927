package config

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	DatabaseURL string

	JWTSecret string
	TokenTTL  time.Duration

	HTTPAddress   string
	GRPCAddress   string
	HTTPSCertFile string
	HTTPSKeyFile  string

	RedisAddress    string
	RedisPassword   string
	RedisDB         int
	ProfileCacheTTL time.Duration

	PasswordAlgorithm string
	BcryptCost        int
	PasswordPepper    string

	AllowedOrigins   []string
	AllowCredentials bool

	RateLimitRPS   int
	RateLimitBurst int

	LogLevel string
}

var required = []string{"DATABASE_URL", "JWT_SECRET"}

// Load reads configuration from the environment, an optional .env file and an
// optional config.json in the working directory. Environment wins.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	v.SetDefault("TOKEN_TTL", "1h")
	v.SetDefault("HTTP_ADDRESS", ":8080")
	v.SetDefault("GRPC_ADDRESS", ":50051")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("PROFILE_CACHE_TTL", "5m")
	v.SetDefault("PASSWORD_ALGORITHM", "bcrypt")
	v.SetDefault("BCRYPT_COST", 10)
	v.SetDefault("RATE_LIMIT_RPS", 50)
	v.SetDefault("RATE_LIMIT_BURST", 100)
	v.SetDefault("LOG_LEVEL", "info")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	for _, key := range required {
		if strings.TrimSpace(v.GetString(key)) == "" {
			return nil, fmt.Errorf("%s is not set", key)
		}
	}

	tokenTTL, err := parseDuration(v, "TOKEN_TTL")
	if err != nil {
		return nil, err
	}
	cacheTTL, err := parseDuration(v, "PROFILE_CACHE_TTL")
	if err != nil {
		return nil, err
	}
	origins, err := parseOrigins(v.GetString("ALLOWED_ORIGINS"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DatabaseURL:       v.GetString("DATABASE_URL"),
		JWTSecret:         v.GetString("JWT_SECRET"),
		TokenTTL:          tokenTTL,
		HTTPAddress:       v.GetString("HTTP_ADDRESS"),
		GRPCAddress:       v.GetString("GRPC_ADDRESS"),
		HTTPSCertFile:     v.GetString("HTTPS_CERT_FILE"),
		HTTPSKeyFile:      v.GetString("HTTPS_KEY_FILE"),
		RedisAddress:      v.GetString("REDIS_ADDRESS"),
		RedisPassword:     v.GetString("REDIS_PASSWORD"),
		RedisDB:           v.GetInt("REDIS_DB"),
		ProfileCacheTTL:   cacheTTL,
		PasswordAlgorithm: strings.ToLower(v.GetString("PASSWORD_ALGORITHM")),
		BcryptCost:        v.GetInt("BCRYPT_COST"),
		PasswordPepper:    v.GetString("PASSWORD_PEPPER"),
		AllowedOrigins:    origins,
		AllowCredentials:  v.GetBool("ALLOW_CREDENTIALS"),
		RateLimitRPS:      v.GetInt("RATE_LIMIT_RPS"),
		RateLimitBurst:    v.GetInt("RATE_LIMIT_BURST"),
		LogLevel:          v.GetString("LOG_LEVEL"),
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// TLSEnabled reports whether both certificate and key are configured.
func (c *Config) TLSEnabled() bool {
	return c.HTTPSCertFile != "" && c.HTTPSKeyFile != ""
}

func (c *Config) validate() error {
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive, got %s", c.TokenTTL)
	}
	switch c.PasswordAlgorithm {
	case "bcrypt", "argon2id":
	default:
		return fmt.Errorf("unsupported PASSWORD_ALGORITHM %q", c.PasswordAlgorithm)
	}
	if (c.HTTPSCertFile == "") != (c.HTTPSKeyFile == "") {
		return fmt.Errorf("HTTPS_CERT_FILE and HTTPS_KEY_FILE must be set together")
	}
	return nil
}

func parseDuration(v *viper.Viper, key string) (time.Duration, error) {
	d, err := time.ParseDuration(v.GetString(key))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

// parseOrigins accepts either a JSON array or a comma-separated list.
func parseOrigins(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if strings.HasPrefix(raw, "[") {
		var out []string
		if err := json.Unmarshal([]byte(raw), &out); err != nil {
			return nil, fmt.Errorf("ALLOWED_ORIGINS: %w", err)
		}
		return out, nil
	}
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if o := strings.TrimRight(strings.TrimSpace(p), "/"); o != "" {
			out = append(out, o)
		}
	}
	return out, nil
}
