// Package validation содержит проверки пользовательского ввода консоли.
package validation

import (
	"errors"
	"strconv"
	"strings"
)

// ErrEmptyNickname возвращается для пустого или состоящего из пробелов логина.
var ErrEmptyNickname = errors.New("nickname is empty")

// Nickname обрезает пробелы и отклоняет пустой логин.
func Nickname(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", ErrEmptyNickname
	}
	return trimmed, nil
}

// NonNegativeAmount разбирает строку как неотрицательное целое количество баллов.
// Разделители тысяч допускаются и отбрасываются.
func NonNegativeAmount(raw string) (int64, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	value, err := strconv.ParseInt(cleaned, 10, 64)
	if err != nil {
		return 0, errors.New("not a number")
	}
	if value < 0 {
		return 0, errors.New("amount must not be negative")
	}
	return value, nil
}

// PositiveID разбирает строку как положительный числовой идентификатор.
func PositiveID(raw string) (int64, error) {
	value, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, errors.New("not a number")
	}
	if value <= 0 {
		return 0, errors.New("id must be positive")
	}
	return value, nil
}
