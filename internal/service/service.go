// Package service реализует административные потоки консоли VoltUp:
// вход, бюджет, каталог, заказы и рулетку поверх клиента API и кэшей чтения.
package service

import (
	"context"
	"errors"

	"github.com/voltup/voltup-console/internal/model"
)

// ErrMutationInFlight возвращается при повторной отправке мутации,
// пока предыдущая ещё не завершилась. Повторная попытка допустима
// после завершения текущей.
var ErrMutationInFlight = errors.New("mutation already in flight")

// ErrNegativeRemaining возвращается при попытке установить
// отрицательный остаток бюджета. Единственная локальная проверка:
// сверку с уже выданными баллами выполняет только сервер.
var ErrNegativeRemaining = errors.New("remaining must not be negative")

// ErrUnregisteredLogin возвращается, когда бэкенд отверг логин.
var ErrUnregisteredLogin = errors.New("login id is not registered")

// Фиксированные пользовательские сообщения потоков. Сообщения для кодов
// C016 и C015 показываются дословно вместо общих сообщений об ошибке.
const (
	MsgBudgetUpdated      = "budget updated"
	MsgBudgetUpdateFailed = "failed to update the budget"
	MsgBudgetBelowGranted = "cannot set the remaining budget below points already granted today"

	MsgProductCreated      = "product created"
	MsgProductUpdated      = "product updated"
	MsgProductDeleted      = "product deleted"
	MsgProductActionFailed = "failed to update the catalog"

	MsgOrderCanceled     = "order canceled"
	MsgOrderCancelFailed = "failed to cancel the order"

	MsgParticipationCanceled     = "roulette participation canceled"
	MsgParticipationCancelFailed = "failed to cancel the roulette participation"
	MsgInsufficientBalance       = "cannot reclaim granted points: the user's balance is insufficient"
)

// Notifier доставляет пользователю неблокирующие уведомления об
// исходе операции. Консоль печатает их, тесты записывают.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// API определяет контракт клиента API, используемый административными потоками.
type API interface {
	Budget(ctx context.Context) (*model.Budget, error)
	SetBudgetRemaining(ctx context.Context, remaining int64) error
	Products(ctx context.Context) ([]model.Product, error)
	CreateProduct(ctx context.Context, create model.ProductCreate) (*model.Product, error)
	UpdateProduct(ctx context.Context, id int64, update model.ProductUpdate) (*model.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
	Orders(ctx context.Context) ([]model.Order, error)
	CancelOrder(ctx context.Context, id int64) error
	RouletteParticipations(ctx context.Context) ([]model.RouletteParticipation, error)
	CancelRouletteParticipation(ctx context.Context, id int64) error
}
