// Package session хранит сессию администратора между запусками консоли.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/voltup/voltup-console/internal/model"
)

// Store хранит текущую сессию в памяти и, при заданном пути,
// дублирует её в JSON-файл, чтобы она переживала перезапуск.
// Единовременно активна не более одной сессии; запись выполняют
// только вход и выход, чтение — каждый исходящий запрос.
type Store struct {
	mu      sync.RWMutex
	path    string
	current *model.Session
}

// NewStore создаёт хранилище сессии. Если path не пуст и файл существует,
// сессия восстанавливается из него; повреждённый файл игнорируется.
func NewStore(path string) *Store {
	s := &Store{path: path}

	if path == "" {
		return s
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return s
	}

	var sess model.Session
	if err := json.Unmarshal(data, &sess); err != nil || sess.UserID == "" {
		return s
	}

	s.current = &sess
	return s
}

// Current возвращает активную сессию и признак её наличия.
func (s *Store) Current() (model.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return model.Session{}, false
	}
	return *s.current, true
}

// UserID возвращает идентификатор пользователя активной сессии
// или пустую строку для анонима.
func (s *Store) UserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return ""
	}
	return s.current.UserID
}

// Set делает сессию активной и сохраняет её в файл, если путь задан.
func (s *Store) Set(sess model.Session) error {
	if sess.UserID == "" {
		return errors.New("session user id is empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = &sess

	if s.path == "" {
		return nil
	}
	return s.persist(sess)
}

// Clear завершает сессию и удаляет файл, если путь задан.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = nil

	if s.path == "" {
		return nil
	}

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}

// persist записывает сессию во временный файл и атомарно подменяет целевой.
func (s *Store) persist(sess model.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".session-*")
	if err != nil {
		return fmt.Errorf("create temp session file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write session file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close session file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("rename session file: %w", err)
	}
	return nil
}
