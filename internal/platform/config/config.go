package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Cache     CacheConfig     `mapstructure:"cache"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	QRCode    QRCodeConfig    `mapstructure:"qrcode"`
	Worker    WorkerConfig    `mapstructure:"worker"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DatabaseConfig struct {
	URL            string `mapstructure:"url"`
	MaxConnections int    `mapstructure:"max_connections"`
}

type CacheConfig struct {
	RenderTTL  time.Duration `mapstructure:"render_ttl"`
	MaxEntries int           `mapstructure:"max_entries"`
}

type JWTConfig struct {
	Secret         string        `mapstructure:"secret"`
	Issuer         string        `mapstructure:"issuer"`
	AccessTokenTTL time.Duration `mapstructure:"access_token_ttl"`
}

type RateLimitConfig struct {
	RenderPerMinute int `mapstructure:"render_per_minute"`
	APIPerMinute    int `mapstructure:"api_per_minute"`
}

type LoggingConfig struct {
	Level    string `mapstructure:"level"`
	Format   string `mapstructure:"format"`
	Output   string `mapstructure:"output"`
	FilePath string `mapstructure:"file_path"`
}

// QRCodeConfig holds the rendering defaults.
type QRCodeConfig struct {
	DefaultLabel string        `mapstructure:"default_label"`
	FontFile     string        `mapstructure:"font_file"` // "" for the bitmap font, "bundled:gobold" for Go Bold
	FontSize     int           `mapstructure:"font_size"`
	Encoder      string        `mapstructure:"encoder"`   // skip2 or boombuler
	Retention    time.Duration `mapstructure:"retention"` // 0 keeps stored codes forever
}

type WorkerConfig struct {
	PurgeInterval time.Duration `mapstructure:"purge_interval"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 15*time.Second)

	v.SetDefault("database.url", "file:data/larry.db")
	v.SetDefault("database.max_connections", 10)

	v.SetDefault("cache.render_ttl", 10*time.Minute)
	v.SetDefault("cache.max_entries", 1000)

	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.issuer", "larry")
	v.SetDefault("jwt.access_token_ttl", time.Hour)

	v.SetDefault("rate_limit.render_per_minute", 120)
	v.SetDefault("rate_limit.api_per_minute", 600)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stdout")
	v.SetDefault("logging.file_path", "")

	v.SetDefault("qrcode.default_label", "Scan me")
	v.SetDefault("qrcode.font_file", "")
	v.SetDefault("qrcode.font_size", 10)
	v.SetDefault("qrcode.encoder", "skip2")
	v.SetDefault("qrcode.retention", 0)

	v.SetDefault("worker.purge_interval", time.Hour)
}

// Load reads the YAML file at path on top of the defaults. Environment
// variables override both, with dots replaced by underscores
// (QRCODE_FONT_FILE). An empty path loads defaults and environment only.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
