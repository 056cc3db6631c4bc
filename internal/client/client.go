// Package client предоставляет типизированный HTTP-клиент API VoltUp.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/voltup/voltup-console/internal/apierr"
	"github.com/voltup/voltup-console/internal/model"
)

// apiPrefix — фиксированный префикс всех путей API.
const apiPrefix = "/api/v1"

// SessionSource отдаёт идентификатор пользователя текущей сессии.
// Пустая строка означает анонимный запрос без заголовка идентичности.
type SessionSource interface {
	UserID() string
}

// Client инкапсулирует HTTP-взаимодействие с бэкендом VoltUp.
// Каждый запрос проходит две фиксированные стадии конвейера:
// injectIdentity перед отправкой и classify после получения ответа.
// Клиент никогда не повторяет запросы и не изменяет кэши вызывающего.
type Client struct {
	baseURL    string
	httpClient *http.Client
	session    SessionSource
	logger     *zap.Logger
}

// New создаёт клиент API по указанному адресу бэкенда.
func New(baseURL string, sess SessionSource, logger *zap.Logger) *Client {
	base := strings.TrimRight(baseURL, "/")
	if base != "" && !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "http://" + base
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		baseURL: base + apiPrefix,
		// Клиент не навязывает собственный таймаут: запрос завершается
		// по усмотрению сети и бэкенда либо по контексту вызывающего.
		httpClient: &http.Client{},
		session:    sess,
		logger:     logger,
	}
}

// do выполняет один запрос API: собирает его, прогоняет стадию
// injectIdentity, отправляет и передаёт ответ стадии classify.
// Тело сериализуется в JSON; GET и HEAD тела не несут.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if c == nil || c.baseURL == apiPrefix {
		return fmt.Errorf("api client not configured")
	}

	var reader io.Reader
	if body != nil && method != http.MethodGet && method != http.MethodHead {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.injectIdentity(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	c.logger.Debug("api call",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
	)

	return c.classify(resp.StatusCode, data, out)
}

// injectIdentity — стадия запроса: при наличии сессии добавляет
// заголовок X-User-Id. Других изменений запроса не происходит.
func (c *Client) injectIdentity(req *http.Request) {
	if c.session == nil {
		return
	}
	if userID := c.session.UserID(); userID != "" {
		req.Header.Set("X-User-Id", userID)
	}
}

// classify — стадия ответа: успешный ответ декодируется в out,
// любой не-2xx превращается в типизированную ошибку apierr.
func (c *Client) classify(status int, body []byte, out any) error {
	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		return apierr.Decode(status, body)
	}

	if out == nil || len(body) == 0 {
		return nil
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Login выполняет вход по нику: POST /auth/login.
func (c *Client) Login(ctx context.Context, nickname string) (*model.LoginResponse, error) {
	var resp model.LoginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", model.LoginRequest{Nickname: nickname}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Budget возвращает дневной бюджет: GET /admin/budget.
func (c *Client) Budget(ctx context.Context) (*model.Budget, error) {
	var budget model.Budget
	if err := c.do(ctx, http.MethodGet, "/admin/budget", nil, &budget); err != nil {
		return nil, err
	}
	return &budget, nil
}

// SetBudgetRemaining устанавливает остаток дневного бюджета: PATCH /admin/budget.
// Сервер остаётся единственным арбитром инварианта бюджета; клиент
// не сверяет значение с TotalGranted.
func (c *Client) SetBudgetRemaining(ctx context.Context, remaining int64) error {
	return c.do(ctx, http.MethodPatch, "/admin/budget", model.BudgetPatch{Remaining: remaining}, nil)
}

// Products возвращает список товаров: GET /products.
func (c *Client) Products(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	if err := c.do(ctx, http.MethodGet, "/products", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// CreateProduct регистрирует товар: POST /admin/products.
func (c *Client) CreateProduct(ctx context.Context, create model.ProductCreate) (*model.Product, error) {
	var product model.Product
	if err := c.do(ctx, http.MethodPost, "/admin/products", create, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// UpdateProduct изменяет переданные поля товара: PUT /admin/products/{id}.
func (c *Client) UpdateProduct(ctx context.Context, id int64, update model.ProductUpdate) (*model.Product, error) {
	var product model.Product
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/admin/products/%d", id), update, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// DeleteProduct мягко удаляет товар: DELETE /admin/products/{id}.
func (c *Client) DeleteProduct(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/admin/products/%d", id), nil, nil)
}

// Orders возвращает список заказов: GET /admin/orders.
func (c *Client) Orders(ctx context.Context) ([]model.Order, error) {
	var orders []model.Order
	if err := c.do(ctx, http.MethodGet, "/admin/orders", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// CancelOrder отменяет заказ с возвратом баллов и остатков:
// POST /admin/orders/{id}/cancel.
func (c *Client) CancelOrder(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/admin/orders/%d/cancel", id), nil, nil)
}

// RouletteParticipations возвращает список участий в рулетке:
// GET /admin/roulette/participations.
func (c *Client) RouletteParticipations(ctx context.Context) ([]model.RouletteParticipation, error) {
	var participations []model.RouletteParticipation
	if err := c.do(ctx, http.MethodGet, "/admin/roulette/participations", nil, &participations); err != nil {
		return nil, err
	}
	return participations, nil
}

// CancelRouletteParticipation отменяет участие и возвращает выданные
// баллы: POST /admin/roulette/{id}/cancel.
func (c *Client) CancelRouletteParticipation(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/admin/roulette/%d/cancel", id), nil, nil)
}
