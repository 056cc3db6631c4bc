// Package apierr реализует разбор и классификацию ошибок API VoltUp.
package apierr

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Коды бизнес-ошибок, которые потоки обрабатывают отдельным сообщением.
const (
	// CodeInsufficientBalance — у пользователя не хватает баланса,
	// чтобы вернуть выданные баллы.
	CodeInsufficientBalance = "C015"
	// CodeBudgetBelowGranted — запрошенный остаток бюджета меньше уже
	// выданных за сегодня баллов. Код вне перечислимого диапазона
	// C001–C015, поэтому приходит как StatusError.
	CodeBudgetBelowGranted = "C016"
)

// clientCodePattern задаёт перечислимый диапазон бизнес-кодов C001–C015.
var clientCodePattern = regexp.MustCompile(`^C0(0[1-9]|1[0-5])$`)

// Envelope — универсальный формат тела ошибки для любого не-2xx ответа.
type Envelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ClientError — распознанная бизнес-ошибка из перечислимого набора C001–C015.
// Вызывающий код ветвится по Code, не дублируя серверные правила.
type ClientError struct {
	Code    string
	Message string
}

// Error возвращает строковое представление бизнес-ошибки.
func (e *ClientError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// StatusError — любой прочий не-2xx ответ. Code и Message заполнены,
// если конверт ошибки удалось разобрать; иначе Code пуст и ошибка
// передаётся вызывающему без изменений, только со статусом и сырым телом.
type StatusError struct {
	Status  int
	Code    string
	Message string
}

// Error возвращает строковое представление ошибки статуса.
func (e *StatusError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("status %d: %s: %s", e.Status, e.Code, e.Message)
	}
	if e.Message != "" {
		return fmt.Sprintf("status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("status %d", e.Status)
}

// IsClientCode сообщает, входит ли код в перечислимый диапазон C001–C015.
func IsClientCode(code string) bool {
	return clientCodePattern.MatchString(code)
}

// Decode разбирает не-2xx ответ и возвращает типизированную ошибку.
// Конверт {code, message} с кодом из C001–C015 даёт ClientError,
// с любым другим кодом — StatusError с кодом и сообщением.
// Если тело отсутствует или не разбирается, возвращается StatusError
// без кода: исходная транспортная ошибка в неизменном виде.
func Decode(status int, body []byte) error {
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil || env.Code == "" {
		return &StatusError{
			Status:  status,
			Message: strings.TrimSpace(string(body)),
		}
	}

	if IsClientCode(env.Code) {
		return &ClientError{Code: env.Code, Message: env.Message}
	}

	return &StatusError{Status: status, Code: env.Code, Message: env.Message}
}

// CodeOf извлекает машинный код из любой типизированной ошибки API.
// Для ошибок без кода возвращается пустая строка.
func CodeOf(err error) string {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Code
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code
	}

	return ""
}

// MessageOf извлекает человекочитаемое сообщение из типизированной ошибки API.
// Для прочих ошибок возвращается пустая строка.
func MessageOf(err error) string {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Message
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Message
	}

	return ""
}
