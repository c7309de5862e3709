package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	ServerHost         string        `mapstructure:"server_host"`
	ServerPort         int           `mapstructure:"server_port"`
	ServerDomain       string        `mapstructure:"server_domain"`
	ServerReadTimeout  time.Duration `mapstructure:"server_read_timeout"`
	ServerWriteTimeout time.Duration `mapstructure:"server_write_timeout"`
	ServerIdleTimeout  time.Duration `mapstructure:"server_idle_timeout"`
	SiteURL            string        `mapstructure:"site_url"`
	CORSOrigins        []string      `mapstructure:"cors_origins"`
	Timezone           string        `mapstructure:"timezone"`

	DBType     string `mapstructure:"db_type"`
	DBHost     string `mapstructure:"db_host"`
	DBPort     int    `mapstructure:"db_port"`
	DBUser     string `mapstructure:"db_user"`
	DBPassword string `mapstructure:"db_password"`
	DBName     string `mapstructure:"db_name"`
	DBSSLMode  string `mapstructure:"db_sslmode"`
	DBFilePath string `mapstructure:"db_file_path"`

	JWTSecret    string        `mapstructure:"jwt_secret"`
	JWTExpiresIn time.Duration `mapstructure:"jwt_expires_in"`

	AdminEmails      []string `mapstructure:"admin_emails"`
	SuperadminEmails []string `mapstructure:"superadmin_emails"`

	CacheType          string        `mapstructure:"cache_type"`
	CacheTTL           time.Duration `mapstructure:"cache_ttl"`
	CacheMaxCostMB     int64         `mapstructure:"cache_max_cost_mb"`
	CacheRedisAddr     string        `mapstructure:"cache_redis_addr"`
	CacheRedisPassword string        `mapstructure:"cache_redis_password"`
	CacheRedisDB       int           `mapstructure:"cache_redis_db"`

	StorageType      string `mapstructure:"storage_type"`
	StorageLocalPath string `mapstructure:"storage_local_path"`
	MinioEndpoint    string `mapstructure:"minio_endpoint"`
	MinioAccessKey   string `mapstructure:"minio_access_key"`
	MinioSecretKey   string `mapstructure:"minio_secret_key"`
	MinioBucket      string `mapstructure:"minio_bucket"`
	MinioUseSSL      bool   `mapstructure:"minio_use_ssl"`

	UploadMaxSizeMB int `mapstructure:"upload_max_size_mb"`
	UploadMaxFiles  int `mapstructure:"upload_max_files"`

	RateLimitAuthRPS    float64       `mapstructure:"rate_limit_auth_rps"`
	RateLimitAuthBurst  int           `mapstructure:"rate_limit_auth_burst"`
	RateLimitExpireTime time.Duration `mapstructure:"rate_limit_expire_time"`

	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`

	// Used by the client commands.
	APIBaseURL string        `mapstructure:"api_base_url"`
	APIToken   string        `mapstructure:"api_token"`
	APITimeout time.Duration `mapstructure:"api_timeout"`
}

// LoadConfig reads defaults, then the optional config file, then the
// environment. Later sources win.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if strings.HasSuffix(path, ".env") {
			v.SetConfigType("env")
		}
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.CORSOrigins = splitList(cfg.CORSOrigins)
	cfg.AdminEmails = splitList(cfg.AdminEmails)
	cfg.SuperadminEmails = splitList(cfg.SuperadminEmails)

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server_host", "0.0.0.0")
	v.SetDefault("server_port", 8080)
	v.SetDefault("server_domain", "")
	v.SetDefault("server_read_timeout", "15s")
	v.SetDefault("server_write_timeout", "30s")
	v.SetDefault("server_idle_timeout", "120s")
	v.SetDefault("site_url", "http://localhost:3000")
	v.SetDefault("cors_origins", "http://localhost:3000")
	v.SetDefault("timezone", "Asia/Kolkata")

	v.SetDefault("db_type", "sqlite")
	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_port", 5432)
	v.SetDefault("db_user", "postgres")
	v.SetDefault("db_password", "")
	v.SetDefault("db_name", "clubhub")
	v.SetDefault("db_sslmode", "disable")
	v.SetDefault("db_file_path", "./data/clubhub.db")

	v.SetDefault("jwt_secret", "")
	v.SetDefault("jwt_expires_in", "24h")

	v.SetDefault("admin_emails", "")
	v.SetDefault("superadmin_emails", "")

	v.SetDefault("cache_type", "memory")
	v.SetDefault("cache_ttl", "60s")
	v.SetDefault("cache_max_cost_mb", 64)
	v.SetDefault("cache_redis_addr", "localhost:6379")
	v.SetDefault("cache_redis_password", "")
	v.SetDefault("cache_redis_db", 0)

	v.SetDefault("storage_type", "local")
	v.SetDefault("storage_local_path", "./data/uploads")
	v.SetDefault("minio_endpoint", "localhost:9000")
	v.SetDefault("minio_access_key", "")
	v.SetDefault("minio_secret_key", "")
	v.SetDefault("minio_bucket", "clubhub")
	v.SetDefault("minio_use_ssl", false)

	v.SetDefault("upload_max_size_mb", 5)
	v.SetDefault("upload_max_files", 20)

	v.SetDefault("rate_limit_auth_rps", 0.5)
	v.SetDefault("rate_limit_auth_burst", 5)
	v.SetDefault("rate_limit_expire_time", "10m")

	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")

	v.SetDefault("api_base_url", "http://localhost:8080")
	v.SetDefault("api_token", "")
	v.SetDefault("api_timeout", "15s")
}

// splitList accepts both real lists and a single comma separated entry, as
// environment variables only carry strings.
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// Addr returns the listen address as host:port.
func (c *Config) Addr() string {
	host := c.ServerHost
	if host == "" {
		host = "0.0.0.0"
	}
	port := c.ServerPort
	if port == 0 {
		port = 8080
	}
	return fmt.Sprintf("%s:%d", host, port)
}

// BaseURL is the public address of the API, used to build media links.
func (c *Config) BaseURL() string {
	if c.ServerDomain != "" {
		return strings.TrimRight(c.ServerDomain, "/")
	}
	host := c.ServerHost
	if host == "" || host == "0.0.0.0" {
		host = "localhost"
	}
	return fmt.Sprintf("http://%s:%d", host, c.ServerPort)
}

// Location falls back to UTC for an unknown zone name.
func (c *Config) Location() *time.Location {
	if c.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c *Config) UploadMaxBytes() int64 {
	if c.UploadMaxSizeMB <= 0 {
		return 5 << 20
	}
	return int64(c.UploadMaxSizeMB) << 20
}

func (c *Config) Validate() error {
	if len(c.JWTSecret) < 32 {
		return fmt.Errorf("jwt_secret must be at least 32 characters long, got %d", len(c.JWTSecret))
	}
	switch c.DBType {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported db_type %q", c.DBType)
	}
	return nil
}
