package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voltup/voltup-console/internal/apierr"
	"github.com/voltup/voltup-console/internal/model"
)

type stubAPI struct {
	mu sync.Mutex

	budget      model.Budget
	budgetCalls int

	setBudgetErr  error
	setBudgetHook func()

	products      []model.Product
	productCalls  int
	deleteProduct func(id int64)

	orders      []model.Order
	orderCalls  int
	cancelOrder func(id int64)
	cancelErr   error

	participations     []model.RouletteParticipation
	participationCalls int
	cancelPartErr      error
}

func (s *stubAPI) Budget(ctx context.Context) (*model.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.budgetCalls++
	b := s.budget
	return &b, nil
}

func (s *stubAPI) SetBudgetRemaining(ctx context.Context, remaining int64) error {
	if s.setBudgetHook != nil {
		s.setBudgetHook()
	}
	if s.setBudgetErr != nil {
		return s.setBudgetErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.budget.Remaining = remaining
	s.budget.TotalLimit = s.budget.TotalGranted + remaining
	return nil
}

func (s *stubAPI) Products(ctx context.Context) ([]model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.productCalls++
	return append([]model.Product(nil), s.products...), nil
}

func (s *stubAPI) CreateProduct(ctx context.Context, create model.ProductCreate) (*model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := model.Product{ID: int64(len(s.products) + 1), Name: create.Name, PointPrice: create.PointPrice, Stock: create.Stock}
	s.products = append(s.products, p)
	return &p, nil
}

func (s *stubAPI) UpdateProduct(ctx context.Context, id int64, update model.ProductUpdate) (*model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.products {
		if s.products[i].ID == id {
			if update.Name != nil {
				s.products[i].Name = *update.Name
			}
			if update.PointPrice != nil {
				s.products[i].PointPrice = *update.PointPrice
			}
			if update.Stock != nil {
				s.products[i].Stock = *update.Stock
			}
			p := s.products[i]
			return &p, nil
		}
	}
	return nil, &apierr.StatusError{Status: 404, Message: "product not found"}
}

func (s *stubAPI) DeleteProduct(ctx context.Context, id int64) error {
	if s.deleteProduct != nil {
		s.deleteProduct(id)
	}
	return nil
}

func (s *stubAPI) Orders(ctx context.Context) ([]model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orderCalls++
	return append([]model.Order(nil), s.orders...), nil
}

func (s *stubAPI) CancelOrder(ctx context.Context, id int64) error {
	if s.cancelErr != nil {
		return s.cancelErr
	}
	if s.cancelOrder != nil {
		s.cancelOrder(id)
	}
	return nil
}

func (s *stubAPI) RouletteParticipations(ctx context.Context) ([]model.RouletteParticipation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.participationCalls++
	return append([]model.RouletteParticipation(nil), s.participations...), nil
}

func (s *stubAPI) CancelRouletteParticipation(ctx context.Context, id int64) error {
	return s.cancelPartErr
}

// removeOrder выбрасывает заказ из авторитетного списка заглушки.
func (s *stubAPI) removeOrder(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.orders[:0]
	for _, o := range s.orders {
		if o.OrderID != id {
			kept = append(kept, o)
		}
	}
	s.orders = kept
}

// removeProduct выбрасывает товар из авторитетного списка заглушки.
func (s *stubAPI) removeProduct(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.products[:0]
	for _, p := range s.products {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	s.products = kept
}

type recordingNotifier struct {
	mu        sync.Mutex
	successes []string
	errors    []string
	onSuccess func()
}

func (n *recordingNotifier) Success(msg string) {
	n.mu.Lock()
	n.successes = append(n.successes, msg)
	hook := n.onSuccess
	n.mu.Unlock()

	if hook != nil {
		hook()
	}
}

func (n *recordingNotifier) Error(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.errors = append(n.errors, msg)
}

func TestBudget_RepeatedReadIsIdempotent(t *testing.T) {
	api := &stubAPI{budget: model.Budget{
		BudgetDate:   "2026-09-01",
		TotalGranted: 30000,
		Remaining:    70000,
		TotalLimit:   100000,
	}}
	admin := NewAdmin(api, &recordingNotifier{}, nil)

	first, err := admin.Budget(context.Background())
	require.NoError(t, err)
	second, err := admin.Budget(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, first.TotalGranted+first.Remaining, first.TotalLimit)
	assert.Equal(t, 1, api.budgetCalls, "no intervening write, one backend read")
}

func TestSetBudgetRemaining_InvalidatesBeforeSuccessNotification(t *testing.T) {
	api := &stubAPI{budget: model.Budget{TotalGranted: 30000, Remaining: 70000, TotalLimit: 100000}}
	notifier := &recordingNotifier{}
	admin := NewAdmin(api, notifier, nil)

	_, err := admin.Budget(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, api.budgetCalls)

	// К моменту уведомления об успехе кэш уже должен быть сброшен:
	// чтение из обработчика уведомления обязано дойти до сервера.
	var reloaded *model.Budget
	notifier.onSuccess = func() {
		b, err := admin.Budget(context.Background())
		require.NoError(t, err)
		reloaded = b
	}

	require.NoError(t, admin.SetBudgetRemaining(context.Background(), 50000))

	require.NotNil(t, reloaded)
	assert.Equal(t, int64(50000), reloaded.Remaining)
	assert.Equal(t, int64(80000), reloaded.TotalLimit)
	assert.Equal(t, 2, api.budgetCalls)
	assert.Equal(t, []string{MsgBudgetUpdated}, notifier.successes)
}

func TestSetBudgetRemaining_BelowGrantedShowsFixedMessage(t *testing.T) {
	api := &stubAPI{setBudgetErr: &apierr.StatusError{
		Status:  400,
		Code:    apierr.CodeBudgetBelowGranted,
		Message: "server copy of the rule",
	}}
	notifier := &recordingNotifier{}
	admin := NewAdmin(api, notifier, nil)

	err := admin.SetBudgetRemaining(context.Background(), 100)
	require.Error(t, err)

	require.Len(t, notifier.errors, 1)
	assert.Equal(t, MsgBudgetBelowGranted, notifier.errors[0])
	assert.NotEqual(t, MsgBudgetUpdateFailed, notifier.errors[0])
}

func TestSetBudgetRemaining_OtherBusinessErrorShowsServerMessage(t *testing.T) {
	api := &stubAPI{setBudgetErr: &apierr.ClientError{Code: "C003", Message: "budget is closed for today"}}
	notifier := &recordingNotifier{}
	admin := NewAdmin(api, notifier, nil)

	err := admin.SetBudgetRemaining(context.Background(), 100)
	require.Error(t, err)

	require.Len(t, notifier.errors, 1)
	assert.Equal(t, "budget is closed for today", notifier.errors[0])
}

func TestSetBudgetRemaining_GenericFailure(t *testing.T) {
	api := &stubAPI{setBudgetErr: errors.New("connection reset")}
	notifier := &recordingNotifier{}
	admin := NewAdmin(api, notifier, nil)

	err := admin.SetBudgetRemaining(context.Background(), 100)
	require.Error(t, err)

	require.Len(t, notifier.errors, 1)
	assert.Equal(t, MsgBudgetUpdateFailed, notifier.errors[0])
}

func TestSetBudgetRemaining_RejectsNegativeLocally(t *testing.T) {
	called := false
	api := &stubAPI{setBudgetHook: func() { called = true }}
	admin := NewAdmin(api, &recordingNotifier{}, nil)

	err := admin.SetBudgetRemaining(context.Background(), -1)

	require.ErrorIs(t, err, ErrNegativeRemaining)
	assert.False(t, called, "negative remaining must not reach the backend")
}

func TestSetBudgetRemaining_SecondSubmitWhileInFlight(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	api := &stubAPI{setBudgetHook: func() {
		close(started)
		<-release
	}}
	admin := NewAdmin(api, &recordingNotifier{}, nil)

	firstDone := make(chan error, 1)
	go func() {
		firstDone <- admin.SetBudgetRemaining(context.Background(), 100)
	}()

	select {
	case <-started:
	case <-time.After(time.Second):
		t.Fatal("first submit did not start")
	}

	err := admin.SetBudgetRemaining(context.Background(), 200)
	assert.ErrorIs(t, err, ErrMutationInFlight)

	close(release)
	require.NoError(t, <-firstDone)
}

func TestCancelOrder_GoneFromNextList(t *testing.T) {
	api := &stubAPI{orders: []model.Order{
		{OrderID: 42, Nickname: "a", ProductName: "cable", Quantity: 1},
		{OrderID: 43, Nickname: "b", ProductName: "charger", Quantity: 2},
	}}
	api.cancelOrder = api.removeOrder
	notifier := &recordingNotifier{}
	admin := NewAdmin(api, notifier, nil)

	orders, err := admin.Orders(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 2)

	require.NoError(t, admin.CancelOrder(context.Background(), 42))

	orders, err = admin.Orders(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, int64(43), orders[0].OrderID)
	assert.Equal(t, 2, api.orderCalls, "cancel must invalidate the list cache")
	assert.Equal(t, []string{MsgOrderCanceled}, notifier.successes)
}

func TestDeleteProduct_SoftDeletedNeverReappears(t *testing.T) {
	api := &stubAPI{products: []model.Product{
		{ID: 1, Name: "cable", PointPrice: 500, Stock: 10},
		{ID: 2, Name: "charger", PointPrice: 900, Stock: 3},
	}}
	api.deleteProduct = api.removeProduct
	admin := NewAdmin(api, &recordingNotifier{}, nil)

	products, err := admin.Products(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)

	require.NoError(t, admin.DeleteProduct(context.Background(), 1))

	products, err = admin.Products(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, int64(2), products[0].ID)
}

func TestCancelParticipation_InsufficientBalanceKeepsRow(t *testing.T) {
	api := &stubAPI{
		participations: []model.RouletteParticipation{
			{ParticipationID: 5, Nickname: "winner", GrantedPoint: 3000},
		},
		cancelPartErr: &apierr.ClientError{
			Code:    apierr.CodeInsufficientBalance,
			Message: "server copy of the rule",
		},
	}
	notifier := &recordingNotifier{}
	admin := NewAdmin(api, notifier, nil)

	participations, err := admin.RouletteParticipations(context.Background())
	require.NoError(t, err)
	require.Len(t, participations, 1)

	err = admin.CancelParticipation(context.Background(), 5)
	require.Error(t, err)

	require.Len(t, notifier.errors, 1)
	assert.Equal(t, MsgInsufficientBalance, notifier.errors[0])

	// Без оптимистичного удаления: кэш не сброшен, запись на месте.
	participations, err = admin.RouletteParticipations(context.Background())
	require.NoError(t, err)
	require.Len(t, participations, 1)
	assert.Equal(t, 1, api.participationCalls)
	assert.Empty(t, notifier.successes)
}

func TestCancelParticipation_Success(t *testing.T) {
	api := &stubAPI{participations: []model.RouletteParticipation{
		{ParticipationID: 5, GrantedPoint: 3000},
	}}
	notifier := &recordingNotifier{}
	admin := NewAdmin(api, notifier, nil)

	_, err := admin.RouletteParticipations(context.Background())
	require.NoError(t, err)

	require.NoError(t, admin.CancelParticipation(context.Background(), 5))

	_, err = admin.RouletteParticipations(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, api.participationCalls, "success must invalidate the cache")
	assert.Equal(t, []string{MsgParticipationCanceled}, notifier.successes)
}

func TestCreateProduct_InvalidatesList(t *testing.T) {
	api := &stubAPI{}
	admin := NewAdmin(api, &recordingNotifier{}, nil)

	products, err := admin.Products(context.Background())
	require.NoError(t, err)
	require.Empty(t, products)

	created, err := admin.CreateProduct(context.Background(), model.ProductCreate{Name: "cable", PointPrice: 500, Stock: 10})
	require.NoError(t, err)
	require.NotNil(t, created)

	products, err = admin.Products(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "cable", products[0].Name)
}

func TestUpdateProduct_NotFound(t *testing.T) {
	api := &stubAPI{}
	notifier := &recordingNotifier{}
	admin := NewAdmin(api, notifier, nil)

	_, err := admin.UpdateProduct(context.Background(), 99, model.ProductUpdate{})
	require.Error(t, err)

	require.Len(t, notifier.errors, 1)
	assert.Equal(t, "product not found", notifier.errors[0])
}
