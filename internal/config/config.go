package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Signature SignatureConfig `mapstructure:"signature"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Upload    UploadConfig    `mapstructure:"upload"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

type AppConfig struct {
	Name    string `mapstructure:"name"`
	Port    int    `mapstructure:"port"`
	Env     string `mapstructure:"env"`
	BaseURL string `mapstructure:"base_url"`
}

// SignatureConfig describes where documents and signature assets live and
// which signature kinds the UI may offer.
type SignatureConfig struct {
	FilesDirectory   string   `mapstructure:"files_directory"`    // Documents offered for signing
	DataDirectory    string   `mapstructure:"data_directory"`     // Signature assets root (defaults to files_directory/SignatureData)
	DefaultDocument  string   `mapstructure:"default_document"`   // Document opened on start
	PreloadPageCount int      `mapstructure:"preload_page_count"` // 0 loads every page image with the description
	TextSignature    bool     `mapstructure:"text_signature"`
	ImageSignature   bool     `mapstructure:"image_signature"`
	DigitalSignature bool     `mapstructure:"digital_signature"`
	QrCodeSignature  bool     `mapstructure:"qr_code_signature"`
	BarCodeSignature bool     `mapstructure:"bar_code_signature"`
	StampSignature   bool     `mapstructure:"stamp_signature"`
	DownloadOriginal bool     `mapstructure:"download_original"`
	DownloadSigned   bool     `mapstructure:"download_signed"`
	Fonts            []string `mapstructure:"fonts"`          // Fonts offered to text signatures
	MaxPreviewPx     int      `mapstructure:"max_preview_px"` // Largest accepted preview side
}

type DatabaseConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Driver   string `mapstructure:"driver"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

type RedisConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Host     string        `mapstructure:"host"`
	Port     int           `mapstructure:"port"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"` // Seconds a document description stays cached
}

// UploadConfig limits documents fetched from a URL on upload.
type UploadConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`  // Seconds
	MaxSize int64         `mapstructure:"max_size"` // Bytes
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "esign-composer")
	v.SetDefault("app.port", 8080)
	v.SetDefault("app.env", "production")
	v.SetDefault("signature.files_directory", "./DocumentSamples/Signature")
	v.SetDefault("signature.text_signature", true)
	v.SetDefault("signature.image_signature", true)
	v.SetDefault("signature.digital_signature", true)
	v.SetDefault("signature.qr_code_signature", true)
	v.SetDefault("signature.bar_code_signature", true)
	v.SetDefault("signature.stamp_signature", true)
	v.SetDefault("signature.download_original", true)
	v.SetDefault("signature.download_signed", true)
	v.SetDefault("signature.fonts", []string{"Arial", "Courier New", "Helvetica", "Times New Roman"})
	v.SetDefault("signature.max_preview_px", 4096)
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.cache_ttl", 300)
	v.SetDefault("upload.timeout", 60)
	v.SetDefault("upload.max_size", 50<<20)
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
	v.SetDefault("logging.level", "info")
}

func NewConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// Enable environment variable override
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// Convert seconds to durations
	cfg.Redis.CacheTTL = cfg.Redis.CacheTTL * time.Second
	cfg.Upload.Timeout = cfg.Upload.Timeout * time.Second

	return &cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}
