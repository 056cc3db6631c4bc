package service

import (
	"context"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/voltup/voltup-console/internal/apierr"
	"github.com/voltup/voltup-console/internal/cache"
	"github.com/voltup/voltup-console/internal/model"
)

// Admin реализует административные потоки: чтение через инвалидируемые
// кэши и мутации с обязательной инвалидацией перед уведомлением об
// успехе. Каждая мутация закрыта флагом: повторная отправка, пока
// предыдущая не завершилась, отклоняется. Флаг не защищает от гонки
// двух независимых триггеров — известный пробел, унаследованный от
// блокировки кнопки отправки.
type Admin struct {
	api      API
	notifier Notifier
	logger   *zap.Logger

	budgetCache         *cache.Cache[*model.Budget]
	productsCache       *cache.Cache[[]model.Product]
	ordersCache         *cache.Cache[[]model.Order]
	participationsCache *cache.Cache[[]model.RouletteParticipation]

	budgetBusy   atomic.Bool
	productBusy  atomic.Bool
	orderBusy    atomic.Bool
	rouletteBusy atomic.Bool
}

// NewAdmin создаёт административные потоки поверх клиента API.
func NewAdmin(api API, notifier Notifier, logger *zap.Logger) *Admin {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Admin{
		api:                 api,
		notifier:            notifier,
		logger:              logger,
		budgetCache:         cache.New[*model.Budget](),
		productsCache:       cache.New[[]model.Product](),
		ordersCache:         cache.New[[]model.Order](),
		participationsCache: cache.New[[]model.RouletteParticipation](),
	}
}

// Budget возвращает дневной бюджет из кэша или с сервера.
func (a *Admin) Budget(ctx context.Context) (*model.Budget, error) {
	return a.budgetCache.Get(ctx, a.api.Budget)
}

// SetBudgetRemaining устанавливает остаток дневного бюджета.
// Локально проверяется только неотрицательность: TotalGranted меняется
// конкурентно, и любая сверка с прочитанным снимком была бы устаревшей.
// Отказ сервера с кодом C016 показывается фиксированным сообщением.
func (a *Admin) SetBudgetRemaining(ctx context.Context, remaining int64) error {
	if !a.budgetBusy.CompareAndSwap(false, true) {
		return ErrMutationInFlight
	}
	defer a.budgetBusy.Store(false)

	if remaining < 0 {
		return ErrNegativeRemaining
	}

	if err := a.api.SetBudgetRemaining(ctx, remaining); err != nil {
		a.logger.Warn("budget update rejected", zap.Int64("remaining", remaining), zap.Error(err))
		a.notifyError(err, apierr.CodeBudgetBelowGranted, MsgBudgetBelowGranted, MsgBudgetUpdateFailed)
		return err
	}

	// Инвалидация строго раньше уведомления: следующее чтение после
	// успеха всегда отражает состояние сервера.
	a.budgetCache.Invalidate()
	a.notifier.Success(MsgBudgetUpdated)
	return nil
}

// Products возвращает список товаров из кэша или с сервера.
// Мягко удалённые товары сервер в список не включает.
func (a *Admin) Products(ctx context.Context) ([]model.Product, error) {
	return a.productsCache.Get(ctx, a.api.Products)
}

// CreateProduct регистрирует товар и инвалидирует список.
func (a *Admin) CreateProduct(ctx context.Context, create model.ProductCreate) (*model.Product, error) {
	if !a.productBusy.CompareAndSwap(false, true) {
		return nil, ErrMutationInFlight
	}
	defer a.productBusy.Store(false)

	product, err := a.api.CreateProduct(ctx, create)
	if err != nil {
		a.logger.Warn("product create rejected", zap.String("name", create.Name), zap.Error(err))
		a.notifyError(err, "", "", MsgProductActionFailed)
		return nil, err
	}

	a.productsCache.Invalidate()
	a.notifier.Success(MsgProductCreated)
	return product, nil
}

// UpdateProduct изменяет переданные поля товара и инвалидирует список.
func (a *Admin) UpdateProduct(ctx context.Context, id int64, update model.ProductUpdate) (*model.Product, error) {
	if !a.productBusy.CompareAndSwap(false, true) {
		return nil, ErrMutationInFlight
	}
	defer a.productBusy.Store(false)

	product, err := a.api.UpdateProduct(ctx, id, update)
	if err != nil {
		a.logger.Warn("product update rejected", zap.Int64("id", id), zap.Error(err))
		a.notifyError(err, "", "", MsgProductActionFailed)
		return nil, err
	}

	a.productsCache.Invalidate()
	a.notifier.Success(MsgProductUpdated)
	return product, nil
}

// DeleteProduct мягко удаляет товар и инвалидирует список.
func (a *Admin) DeleteProduct(ctx context.Context, id int64) error {
	if !a.productBusy.CompareAndSwap(false, true) {
		return ErrMutationInFlight
	}
	defer a.productBusy.Store(false)

	if err := a.api.DeleteProduct(ctx, id); err != nil {
		a.logger.Warn("product delete rejected", zap.Int64("id", id), zap.Error(err))
		a.notifyError(err, "", "", MsgProductActionFailed)
		return err
	}

	a.productsCache.Invalidate()
	a.notifier.Success(MsgProductDeleted)
	return nil
}

// Orders возвращает список заказов из кэша или с сервера.
func (a *Admin) Orders(ctx context.Context) ([]model.Order, error) {
	return a.ordersCache.Get(ctx, a.api.Orders)
}

// CancelOrder отменяет заказ. Возврат баллов и восстановление остатков
// выполняет сервер; клиент наблюдает исчезновение заказа из списка
// после инвалидации.
func (a *Admin) CancelOrder(ctx context.Context, id int64) error {
	if !a.orderBusy.CompareAndSwap(false, true) {
		return ErrMutationInFlight
	}
	defer a.orderBusy.Store(false)

	if err := a.api.CancelOrder(ctx, id); err != nil {
		a.logger.Warn("order cancel rejected", zap.Int64("id", id), zap.Error(err))
		a.notifyError(err, "", "", MsgOrderCancelFailed)
		return err
	}

	a.ordersCache.Invalidate()
	a.notifier.Success(MsgOrderCanceled)
	return nil
}

// RouletteParticipations возвращает участия в рулетке из кэша или с сервера.
func (a *Admin) RouletteParticipations(ctx context.Context) ([]model.RouletteParticipation, error) {
	return a.participationsCache.Get(ctx, a.api.RouletteParticipations)
}

// CancelParticipation отменяет участие в рулетке и возврат выданных
// баллов. Отказ с кодом C015 показывается фиксированным сообщением о
// нехватке баланса; список не изменяется до успешной отмены.
func (a *Admin) CancelParticipation(ctx context.Context, id int64) error {
	if !a.rouletteBusy.CompareAndSwap(false, true) {
		return ErrMutationInFlight
	}
	defer a.rouletteBusy.Store(false)

	if err := a.api.CancelRouletteParticipation(ctx, id); err != nil {
		a.logger.Warn("participation cancel rejected", zap.Int64("id", id), zap.Error(err))
		a.notifyError(err, apierr.CodeInsufficientBalance, MsgInsufficientBalance, MsgParticipationCancelFailed)
		return err
	}

	a.participationsCache.Invalidate()
	a.notifier.Success(MsgParticipationCanceled)
	return nil
}

// notifyError выбирает пользовательское сообщение для отказа:
// фиксированный текст для особого кода, иначе сообщение сервера,
// иначе общий текст потока.
func (a *Admin) notifyError(err error, specialCode, specialMsg, fallback string) {
	if a.notifier == nil {
		return
	}

	if specialCode != "" && apierr.CodeOf(err) == specialCode {
		a.notifier.Error(specialMsg)
		return
	}

	if msg := apierr.MessageOf(err); msg != "" {
		a.notifier.Error(msg)
		return
	}

	a.notifier.Error(fallback)
}
