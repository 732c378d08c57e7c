// config — источник загрузки конфигурации contracts-service.
//
// Источники (по убыванию приоритета):
//  1. явный путь --config;
//  2. CONFIG_PATH;
//  3. ./local.yaml;
//  4. только ENV (cleanenv).
//
// Учётные данные Minimax помечены env-required: их отсутствие — фатальная
// ошибка конфигурации на старте процесса, а не при первом запросе.
package config

import (
	"fmt"
	"net"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env      string         `yaml:"env" env:"ENV" env-default:"local"`
	HTTP     HTTPConfig     `yaml:"http"`
	Minimax  MinimaxConfig  `yaml:"minimax"`
	Template TemplateConfig `yaml:"template"`
	Timeouts TimeoutConfig  `yaml:"timeouts"`
}

// TimeoutConfig — общий дедлайн обработки входящего запроса.
type TimeoutConfig struct {
	Service time.Duration `yaml:"service" env:"SERVICE_TIMEOUT" env-default:"30s"`
}

// HTTPConfig — публичный REST-сервер.
type HTTPConfig struct {
	Host string `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"PORT" env-default:"10000"`
}

func (h HTTPConfig) Addr() string { return net.JoinHostPort(h.Host, h.Port) }

// MinimaxConfig — доступ к внешнему API Minimax (OAuth password grant).
type MinimaxConfig struct {
	AuthURL      string        `yaml:"auth_url"      env:"MINIMAX_AUTH_URL" env-required:"true"`
	APIURL       string        `yaml:"api_url"       env:"MINIMAX_API_URL"  env-required:"true"`
	ClientID     string        `yaml:"client_id"     env:"MINIMAX_CLIENT_ID"     env-required:"true"`
	ClientSecret string        `yaml:"client_secret" env:"MINIMAX_CLIENT_SECRET" env-required:"true"`
	Username     string        `yaml:"username"      env:"MINIMAX_USERNAME" env-required:"true"`
	Password     string        `yaml:"password"      env:"MINIMAX_PASSWORD" env-required:"true"`
	Timeout      time.Duration `yaml:"timeout"       env:"MINIMAX_TIMEOUT"  env-default:"15s"`
}

// TemplateConfig — расположение docx-шаблона договора.
type TemplateConfig struct {
	Path string `yaml:"path" env:"CONTRACT_TEMPLATE_PATH" env-default:"templates/Ugovor_template.docx"`
}

// MustLoad — паника при ошибке загрузки.
func MustLoad(path string) *Config {
	cfg, err := Load(path)

	if err != nil {
		panic(err)
	}

	return cfg
}

func Load(path string) (*Config, error) {
	var cfg Config

	tryRead := func(p string) (*Config, error) {
		if p == "" {
			return nil, fmt.Errorf("empty config path")
		}

		if _, err := os.Stat(p); err != nil {
			return nil, fmt.Errorf("config file %q stat failed: %w", p, err)
		}

		if err := cleanenv.ReadConfig(p, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}

		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to overlay env: %w", err)
		}

		return &cfg, nil
	}

	// 1) --config
	if path != "" {
		return tryRead(path)
	}

	// 2) CONFIG_PATH
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		return tryRead(envPath)
	}

	// 3) ./local.yaml
	if _, err := os.Stat("local.yaml"); err == nil {
		if err := cleanenv.ReadConfig("local.yaml", &cfg); err != nil {
			return nil, fmt.Errorf("failed to read local.yaml: %w", err)
		}

		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to overlay env: %w", err)
		}

		return &cfg, nil
	}

	// 4) только ENV
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config not found: provide --config, CONFIG_PATH, local.yaml or env vars: %w", err)
	}
	return &cfg, nil
}
