// Package config 加载服务配置：config.yaml (可选) + STORE_ 前缀环境变量
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix 环境变量前缀，例如 STORE_DATABASE_DSN
const EnvPrefix = "STORE"

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	RateFeed RateFeedConfig `mapstructure:"rate_feed"`
	Cart     CartConfig     `mapstructure:"cart"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"` // gin 运行模式
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DatabaseConfig struct {
	DSN         string `mapstructure:"dsn"`
	AutoMigrate bool   `mapstructure:"auto_migrate"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type JWTConfig struct {
	Secret   string        `mapstructure:"secret"`
	TokenTTL time.Duration `mapstructure:"token_ttl"`
	Issuer   string        `mapstructure:"issuer"`
}

// RateFeedConfig 外部金价源，URL 为空时不启动同步任务
type RateFeedConfig struct {
	URL      string        `mapstructure:"url"`
	APIKey   string        `mapstructure:"api_key"`
	Cron     string        `mapstructure:"cron"`
	Timeout  time.Duration `mapstructure:"timeout"`
	ProxyURL string        `mapstructure:"proxy_url"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"` // 当前金价缓存
}

type CartConfig struct {
	GuestTTL time.Duration `mapstructure:"guest_ttl"`
}

type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.shutdown_timeout", 30*time.Second)

	v.SetDefault("database.dsn", "host=localhost user=store password=store dbname=goldsmith_store port=5432 sslmode=disable")
	v.SetDefault("database.auto_migrate", true)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("jwt.secret", "goldsmith-store-secret-change-in-production")
	v.SetDefault("jwt.token_ttl", 2*time.Hour)
	v.SetDefault("jwt.issuer", "goldsmith-store")

	v.SetDefault("rate_feed.url", "")
	v.SetDefault("rate_feed.api_key", "")
	v.SetDefault("rate_feed.cron", "0 0/15 * * * *")
	v.SetDefault("rate_feed.timeout", 10*time.Second)
	v.SetDefault("rate_feed.proxy_url", "")
	v.SetDefault("rate_feed.cache_ttl", time.Minute)

	v.SetDefault("cart.guest_ttl", 7*24*time.Hour)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
}

// Load 读取配置，path 为空时在工作目录及 ./config 下查找 config.yaml
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// 未指定路径时配置文件可选
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
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

// Validate 基础校验
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return errors.New("config: server.port is required")
	}
	if c.Database.DSN == "" {
		return errors.New("config: database.dsn is required")
	}
	if c.Cart.GuestTTL <= 0 {
		return errors.New("config: cart.guest_ttl must be positive")
	}
	if c.JWT.Secret == "" {
		return errors.New("config: jwt.secret is required")
	}
	return nil
}
