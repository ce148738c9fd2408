package config

import (
	"fmt"
	"time"

	"code_practice_backend/internal/grading"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Tracing   TracingConfig `mapstructure:"tracing"`
	Redis     RedisConfig
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Grading   GradingConfig   `mapstructure:"grading"`
	Log       LogConfig       `mapstructure:"log"`

	// 运行时标志（非配置文件，通过命令行参数设置）
	MigrateOnly bool `mapstructure:"-"` // 仅迁移模式（迁移后退出）
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type RateLimitConfig struct {
	MaxRequests   int `mapstructure:"max_requests"`
	WindowMinutes int `mapstructure:"window_minutes"`
}

// LogConfig 日志输出与滚动策略
type LogConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

type ServerConfig struct {
	Port string
	Mode string
}

type DatabaseConfig struct {
	Host      string
	Port      int
	User      string
	Password  string
	DBName    string
	Charset   string
	ParseTime bool
}

type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	ExpireTime time.Duration `mapstructure:"expire_hours"`
}

type TracingConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	CollectorEndpoint string `mapstructure:"collector_endpoint"`
}

type RedisConfig struct {
	Enabled  bool `mapstructure:"enabled"`
	Host     string
	Port     int
	Password string
	DB       int
}

// GradingConfig 判分阈值，可热更新
type GradingConfig struct {
	PartialCorrectRatio float64 `mapstructure:"partial_correct_ratio"`
	CorrectSimilarity   int     `mapstructure:"correct_similarity"`
	PartialSimilarity   int     `mapstructure:"partial_similarity"`
}

// Policy converts the configured thresholds into a grading policy.
func (g GradingConfig) Policy() grading.Policy {
	return grading.Policy{
		PartialCorrectRatio: g.PartialCorrectRatio,
		CorrectSimilarity:   g.CorrectSimilarity,
		PartialSimilarity:   g.PartialSimilarity,
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("database.charset", "utf8mb4")
	v.SetDefault("database.parsetime", true)
	v.SetDefault("jwt.expire_hours", 24)
	v.SetDefault("rate_limit.max_requests", 300)
	v.SetDefault("rate_limit.window_minutes", 1)
	v.SetDefault("log.file", "logs/practice.log")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age_days", 30)
	v.SetDefault("grading.partial_correct_ratio", grading.DefaultPartialCorrectRatio)
	v.SetDefault("grading.correct_similarity", grading.DefaultCorrectSimilarity)
	v.SetDefault("grading.partial_similarity", grading.DefaultPartialSimilarity)
}

// active 保存最近一次加载使用的 viper 实例，供热更新时重新读取
var active *viper.Viper

func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix("CODE_PRACTICE")
	v.AutomaticEnv()
	setDefaults(v)

	// Database
	v.BindEnv("database.host", "DATABASE_HOST")
	v.BindEnv("database.port", "DATABASE_PORT")
	v.BindEnv("database.user", "DATABASE_USER")
	v.BindEnv("database.password", "DATABASE_PASSWORD")
	v.BindEnv("database.dbname", "DATABASE_NAME")

	// JWT
	v.BindEnv("jwt.secret", "JWT_SECRET")

	// Redis
	v.BindEnv("redis.enabled", "REDIS_ENABLED")
	v.BindEnv("redis.host", "REDIS_HOST")
	v.BindEnv("redis.port", "REDIS_PORT")
	v.BindEnv("redis.password", "REDIS_PASSWORD")

	// Server
	v.BindEnv("server.mode", "SERVER_MODE")
	v.BindEnv("server.port", "SERVER_PORT")

	// Log
	v.BindEnv("log.level", "LOG_LEVEL")

	// Tracing
	v.BindEnv("tracing.enabled", "TRACING_ENABLED")
	v.BindEnv("tracing.collector_endpoint", "TRACING_COLLECTOR_ENDPOINT")

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	active = v
	return decode(v)
}

// ConfigFile returns the path of the loaded config file.
func ConfigFile() string {
	if active == nil {
		return ""
	}
	return active.ConfigFileUsed()
}

// Reload re-reads the config file that LoadConfig located.
func Reload() (*Config, error) {
	v := active
	if v == nil {
		return nil, fmt.Errorf("config not loaded")
	}
	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}
	return decode(v)
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.JWT.ExpireTime = cfg.JWT.ExpireTime * time.Hour

	// 生产环境校验 JWT Secret 强度
	if cfg.Server.Mode == "release" && len(cfg.JWT.Secret) < 32 {
		return nil, fmt.Errorf("JWT secret is too short (%d chars), must be at least 32 characters in release mode", len(cfg.JWT.Secret))
	}

	if err := cfg.Grading.Policy().Validate(); err != nil {
		return nil, fmt.Errorf("grading: %w", err)
	}

	return &cfg, nil
}
