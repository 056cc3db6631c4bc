// Package config содержит логику чтения конфигурации консоли VoltUp.
package config

import (
	"flag"
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config содержит параметры конфигурации прокси и административной консоли.
// APIBaseURL известен только серверной стороне и никогда не попадает
// к браузерному клиенту.
type Config struct {
	RunAddress    string `env:"RUN_ADDRESS"`
	APIBaseURL    string `env:"API_BASE_URL"`
	SessionFile   string `env:"SESSION_FILE"`
	LoginBypassID string `env:"LOGIN_BYPASS_ID"`
}

// Parse считывает конфигурацию из флагов командной строки и переменных окружения.
func Parse() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	envRunAddress := cfg.RunAddress
	envAPIBaseURL := cfg.APIBaseURL
	envSessionFile := cfg.SessionFile
	envLoginBypassID := cfg.LoginBypassID

	flag.StringVar(&cfg.RunAddress, "a", "localhost:8080", "address and port for HTTP server")
	flag.StringVar(&cfg.APIBaseURL, "b", "", "backend origin for API forwarding")
	flag.StringVar(&cfg.SessionFile, "s", "", "path to the session file")
	flag.StringVar(&cfg.LoginBypassID, "m", "", "login id accepted without a backend call (local testing)")

	flag.Parse()

	if envRunAddress != "" {
		cfg.RunAddress = envRunAddress
	}
	if envAPIBaseURL != "" {
		cfg.APIBaseURL = envAPIBaseURL
	}
	if envSessionFile != "" {
		cfg.SessionFile = envSessionFile
	}
	if envLoginBypassID != "" {
		cfg.LoginBypassID = envLoginBypassID
	}

	if cfg.RunAddress == "" {
		cfg.RunAddress = "localhost:8080"
	}

	return cfg, nil
}
