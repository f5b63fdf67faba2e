package config

import (
	"fmt"
	"time"

	coreconfig "github.com/go-core-fx/config"
	"go.uber.org/fx"
)

type Config struct {
	APIBaseURL    string        `koanf:"api_base_url"`
	SessionToken  string        `koanf:"session_token"`
	StorePath     string        `koanf:"store_path"`
	RedisURL      string        `koanf:"redis_url"`
	HandoffPhone  string        `koanf:"handoff_phone"`
	Timeout       time.Duration `koanf:"timeout"`
	FetchWait     time.Duration `koanf:"fetch_wait"`
	ShopBatchSize int           `koanf:"shop_batch_size"`
	LogFile       string        `koanf:"log_file"`
	Debug         bool          `koanf:"debug"`
}

// Defaults returns the configuration used before any source is applied.
func Defaults() Config {
	return Config{
		APIBaseURL:    "http://localhost:5000/api",
		StorePath:     "./shopcart.json",
		HandoffPhone:  "9361437687",
		Timeout:       10 * time.Second,
		FetchWait:     5 * time.Second,
		ShopBatchSize: 20,
		LogFile:       "./shopcart.log",
	}
}

func New() (Config, error) {
	cfg := Defaults()

	if err := coreconfig.Load(&cfg); err != nil {
		return Config{}, fmt.Errorf("loading config: %w", err)
	}
	if cfg.ShopBatchSize <= 0 {
		cfg.ShopBatchSize = Defaults().ShopBatchSize
	}
	if cfg.FetchWait <= 0 {
		cfg.FetchWait = Defaults().FetchWait
	}

	return cfg, nil
}

func Module() fx.Option {
	return fx.Module(
		"config",
		fx.Provide(New),
	)
}
