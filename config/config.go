package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type HTTP struct {
	Addr         string        `yaml:"addr" validate:"required"`
	ReadTimeout  time.Duration `yaml:"readTimeout"`
	WriteTimeout time.Duration `yaml:"writeTimeout"`
	IdleTimeout  time.Duration `yaml:"idleTimeout"`
	// CORS для /api
	AllowedOrigins []string `yaml:"allowedOrigins"`
}

type Logging struct {
	Env       string `yaml:"env"`       // dev|stage|prod
	Service   string `yaml:"service"`   // epanel
	Version   string `yaml:"version"`   // v0.1.0
	Backend   string `yaml:"backend"`   // std|zap
	AddSource bool   `yaml:"addSource"` // false|true
	Debug     bool   `yaml:"debug"`     // false|true
}

type Site struct {
	// Origin: публичный адрес сайта, из него строятся ссылки и QR.
	Origin            string        `yaml:"origin" validate:"required,url"`
	PanelPeriod       time.Duration `yaml:"panelPeriod"`
	ParticipantPeriod time.Duration `yaml:"participantPeriod"`
	HandoffTTL        time.Duration `yaml:"handoffTTL"`
}

type QR struct {
	Foreground    string `yaml:"foreground" validate:"hexcolor"`
	Background    string `yaml:"background" validate:"hexcolor"`
	CacheMaxBytes int64  `yaml:"cacheMaxBytes" validate:"gte=0"`
}

type Config struct {
	HTTP    HTTP    `yaml:"http"`
	Logging Logging `yaml:"logging"`
	Site    Site    `yaml:"site"`
	QR      QR      `yaml:"qr"`
}

// LoadConfig reads CONFIG_PATH (default ./config/config.yaml). A .env file in
// the working directory is loaded first when present.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "./config/config.yaml"
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal yaml: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	// установка дефолтов, если значения не указаны
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = ":8080"
	}
	if c.HTTP.ReadTimeout == 0 {
		c.HTTP.ReadTimeout = 15 * time.Second
	}
	if c.HTTP.WriteTimeout == 0 {
		c.HTTP.WriteTimeout = 30 * time.Second
	}
	if c.HTTP.IdleTimeout == 0 {
		c.HTTP.IdleTimeout = 60 * time.Second
	}
	if c.Site.Origin == "" {
		c.Site.Origin = "http://localhost" + c.HTTP.Addr
	}
	if c.Site.PanelPeriod <= 0 {
		c.Site.PanelPeriod = 4 * time.Second
	}
	if c.Site.ParticipantPeriod <= 0 {
		c.Site.ParticipantPeriod = 3 * time.Second
	}
	if c.Site.HandoffTTL <= 0 {
		c.Site.HandoffTTL = 10 * time.Minute
	}
	if c.QR.Foreground == "" {
		c.QR.Foreground = "#1f2937"
	}
	if c.QR.Background == "" {
		c.QR.Background = "#ffffff"
	}
	if c.QR.CacheMaxBytes == 0 {
		c.QR.CacheMaxBytes = 8 << 20
	}
	if c.Logging.Service == "" {
		c.Logging.Service = "epanel"
	}
	if c.Logging.Env == "" {
		c.Logging.Env = "dev"
	}
	if c.Logging.Version == "" {
		c.Logging.Version = "v0.1.0"
	}
	if c.Logging.Backend == "" {
		c.Logging.Backend = "std"
	}

	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
