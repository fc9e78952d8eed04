package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/presenter"
)

const (
	UIWeb      = "web"
	UITerminal = "terminal"

	StorageMemory = "memory"
	StorageRedis  = "redis"
)

type Config struct {
	LogLevel     string        `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	UI           string        `yaml:"ui" env:"UI" env-default:"web"`
	HTTPPort     string        `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	Storage      string        `yaml:"storage" env:"STORAGE" env-default:"memory"`
	SessionTTL   time.Duration `yaml:"session-ttl" env:"SESSION_TTL" env-default:"24h"`
	Redis        Redis         `yaml:"redis"`
	Presentation Presentation  `yaml:"presentation"`
}

type Redis struct {
	Host string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
}

// Presentation holds the timings of the win effects.
type Presentation struct {
	BannerDuration      time.Duration `yaml:"banner-duration" env-default:"4500ms"`
	CelebrationDelay    time.Duration `yaml:"celebration-delay" env-default:"300ms"`
	CelebrationDuration time.Duration `yaml:"celebration-duration" env-default:"2s"`
	FrameInterval       time.Duration `yaml:"frame-interval" env-default:"250ms"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}

	return config
}

func Load(path string) (*Config, error) {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("unable to load config file: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return config, nil
}

func (that *Config) validate() error {
	switch that.UI {
	case UIWeb, UITerminal:
	default:
		return fmt.Errorf("unknown ui %q", that.UI)
	}

	switch that.Storage {
	case StorageMemory, StorageRedis:
	default:
		return fmt.Errorf("unknown storage %q", that.Storage)
	}

	if that.Presentation.FrameInterval <= 0 {
		return fmt.Errorf("frame-interval must be positive, got %s", that.Presentation.FrameInterval)
	}

	return nil
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}

func (that *Presentation) Options() presenter.Options {
	return presenter.Options{
		BannerDuration:      that.BannerDuration,
		CelebrationDelay:    that.CelebrationDelay,
		CelebrationDuration: that.CelebrationDuration,
		FrameInterval:       that.FrameInterval,
	}
}
