// Package main реализует административную консоль VoltUp в терминале.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"go.uber.org/zap"

	"github.com/voltup/voltup-console/internal/client"
	"github.com/voltup/voltup-console/internal/config"
	"github.com/voltup/voltup-console/internal/service"
	"github.com/voltup/voltup-console/internal/session"
)

// printNotifier печатает уведомления потоков в терминал.
type printNotifier struct{}

func (printNotifier) Success(msg string) {
	fmt.Fprintln(os.Stdout, msg)
}

func (printNotifier) Error(msg string) {
	fmt.Fprintln(os.Stderr, msg)
}

// app связывает хранилище сессии, клиент API и административные потоки.
type app struct {
	logger *zap.Logger
	store  *session.Store
	auth   *service.Auth
	admin  *service.Admin
}

// newApp собирает зависимости консоли из переменных окружения.
// Сессия передаётся клиенту явно при создании, без глобального состояния.
func newApp() (*app, error) {
	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if cfg.APIBaseURL == "" {
		return nil, fmt.Errorf("API_BASE_URL is not set")
	}

	sessionFile := cfg.SessionFile
	if sessionFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		sessionFile = filepath.Join(home, ".voltupadm-session.json")
	}

	logger, err := zap.NewProduction()
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	store := session.NewStore(sessionFile)
	apiClient := client.New(cfg.APIBaseURL, store, logger)

	return &app{
		logger: logger,
		store:  store,
		auth:   service.NewAuth(apiClient, store, cfg.LoginBypassID, logger),
		admin:  service.NewAdmin(apiClient, printNotifier{}, logger),
	}, nil
}

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
