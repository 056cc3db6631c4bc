package service

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"github.com/voltup/voltup-console/internal/model"
	"github.com/voltup/voltup-console/internal/validation"
)

// bypassUserID — идентификатор, присваиваемый сессии при локальном
// входе в обход бэкенда.
const bypassUserID = "1"

// LoginAPI определяет часть клиента API, используемую потоком входа.
type LoginAPI interface {
	Login(ctx context.Context, nickname string) (*model.LoginResponse, error)
}

// SessionStore определяет жизненный цикл сессии: явная инициализация
// при входе и явное завершение при выходе.
type SessionStore interface {
	Set(sess model.Session) error
	Clear() error
}

// Auth реализует поток входа и выхода администратора.
type Auth struct {
	api      LoginAPI
	store    SessionStore
	bypassID string
	logger   *zap.Logger
}

// NewAuth создаёт поток аутентификации. Непустой bypassID включает
// локальный вход без обращения к бэкенду — исключение для локального
// тестирования, а не общая политика.
func NewAuth(api LoginAPI, store SessionStore, bypassID string, logger *zap.Logger) *Auth {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Auth{
		api:      api,
		store:    store,
		bypassID: bypassID,
		logger:   logger,
	}
}

// Login выполняет вход по нику и делает полученную сессию активной.
// Для незарегистрированного ника возвращается ErrUnregisteredLogin.
func (a *Auth) Login(ctx context.Context, rawNickname string) (model.Session, error) {
	nickname, err := validation.Nickname(rawNickname)
	if err != nil {
		return model.Session{}, err
	}

	if a.bypassID != "" && nickname == a.bypassID {
		sess := model.Session{UserID: bypassUserID, Nickname: nickname}
		if err := a.store.Set(sess); err != nil {
			return model.Session{}, err
		}
		a.logger.Info("login bypass accepted", zap.String("nickname", nickname))
		return sess, nil
	}

	resp, err := a.api.Login(ctx, nickname)
	if err != nil {
		a.logger.Debug("login rejected", zap.String("nickname", nickname), zap.Error(err))
		return model.Session{}, ErrUnregisteredLogin
	}

	sess := model.Session{
		UserID:   strconv.FormatInt(resp.UserID, 10),
		Nickname: resp.Nickname,
	}
	if err := a.store.Set(sess); err != nil {
		return model.Session{}, err
	}

	return sess, nil
}

// Logout завершает активную сессию.
func (a *Auth) Logout() error {
	return a.store.Clear()
}
