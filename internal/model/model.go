// Package model содержит доменные сущности административной консоли VoltUp.
package model

import "time"

// Session описывает аутентифицированного администратора.
// Отсутствие сессии — допустимое состояние (аноним).
type Session struct {
	UserID   string `json:"userId"`
	Nickname string `json:"nickname"`
}

// Budget описывает дневной бюджет выдачи баллов.
// Сервер поддерживает инвариант TotalLimit == TotalGranted + Remaining;
// клиент только наблюдает эти значения и никогда не пересчитывает их сам.
type Budget struct {
	BudgetDate       string `json:"budgetDate"`
	TotalGranted     int64  `json:"totalGranted"`
	Remaining        int64  `json:"remaining"`
	TotalLimit       int64  `json:"totalLimit"`
	ParticipantCount int64  `json:"participantCount"`
}

// BudgetPatch — тело запроса PATCH /admin/budget.
// Передаётся только новый остаток: сервер сам выводит
// TotalLimit = TotalGranted + Remaining.
type BudgetPatch struct {
	Remaining int64 `json:"remaining"`
}

// Product описывает товар каталога.
// Мягко удалённые товары не возвращаются в списках, но их
// идентификаторы не переиспользуются.
type Product struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	PointPrice int64  `json:"pointPrice"`
	Stock      int64  `json:"stock"`
	Deleted    bool   `json:"deleted,omitempty"`
}

// ProductCreate — тело запроса POST /admin/products.
type ProductCreate struct {
	Name       string `json:"name"`
	PointPrice int64  `json:"pointPrice"`
	Stock      int64  `json:"stock"`
}

// ProductUpdate — тело запроса PUT /admin/products/{id}.
// Изменяются только переданные поля.
type ProductUpdate struct {
	Name       *string `json:"name,omitempty"`
	PointPrice *int64  `json:"pointPrice,omitempty"`
	Stock      *int64  `json:"stock,omitempty"`
}

// Order описывает заказ пользователя в административном списке.
type Order struct {
	OrderID     int64     `json:"orderId"`
	UserID      int64     `json:"userId"`
	Nickname    string    `json:"nickname"`
	OrderedAt   time.Time `json:"orderedAt"`
	ProductName string    `json:"productName"`
	Quantity    int64     `json:"quantity"`
}

// RouletteParticipation описывает участие в рулетке и выданные баллы.
// GrantedPoint равен нулю, если приз не выпал.
type RouletteParticipation struct {
	ParticipationID int64     `json:"participationId"`
	UserID          int64     `json:"userId"`
	Nickname        string    `json:"nickname"`
	ParticipatedAt  time.Time `json:"participatedAt"`
	GrantedPoint    int64     `json:"grantedPoint"`
}

// LoginRequest — тело запроса POST /auth/login.
type LoginRequest struct {
	Nickname string `json:"nickname"`
}

// LoginResponse — ответ POST /auth/login.
type LoginResponse struct {
	UserID   int64  `json:"userId"`
	Nickname string `json:"nickname"`
}
