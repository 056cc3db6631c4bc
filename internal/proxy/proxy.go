// Package proxy реализует пограничную пересылку запросов API VoltUp.
//
// Прокси работает на серверной стороне и переправляет запросы
// /api/v1/* на бэкенд, адрес которого задан только в серверной
// конфигурации и никогда не попадает в браузер: клиент обращается
// исключительно к относительному пути того же происхождения.
package proxy

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/voltup/voltup-console/internal/apierr"
	"github.com/voltup/voltup-console/internal/middleware"
)

// Фиксированные коды ответов самого прокси. Внутренние детали сбоя
// в ответ не попадают никогда.
const (
	CodeConfigError = "CONFIG_ERROR"
	CodeProxyError  = "PROXY_ERROR"

	msgConfigError = "API base URL is not configured on the server"
	msgProxyError  = "failed to reach the backend"
)

// forwardHeaders — единственные заголовки, которые прокси переправляет
// на бэкенд; все остальные отбрасываются.
var forwardHeaders = []string{"Content-Type", "X-User-Id", "Authorization"}

// Handler переправляет запросы на бэкенд VoltUp.
type Handler struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
	metrics    *Metrics
}

// New создаёт обработчик пересылки. Пустой baseURL допустим:
// в этом случае каждый запрос получает CONFIG_ERROR без обращения к сети.
func New(baseURL string, logger *zap.Logger, metrics *Metrics) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Handler{
		baseURL: strings.TrimRight(baseURL, "/"),
		// Прокси не навязывает собственный таймаут: запрос завершается
		// или обрывается по усмотрению сети и бэкенда.
		httpClient: &http.Client{},
		logger:     logger,
		metrics:    metrics,
	}
}

// targetURL собирает адрес бэкенда: сегменты пути после префикса и
// строка запроса сохраняются дословно.
func (h *Handler) targetURL(suffix, rawQuery string) string {
	target := h.baseURL + "/api/v1"
	if suffix != "" {
		target += "/" + suffix
	}
	if rawQuery != "" {
		target += "?" + rawQuery
	}
	return target
}

// Forward переправляет один запрос на бэкенд и возвращает его ответ.
// Статус бэкенда сохраняется; JSON-тело разбирается и сериализуется
// заново с откатом к дословной передаче. Прокси никогда не повторяет
// запрос.
func (h *Handler) Forward(w http.ResponseWriter, r *http.Request) {
	if h.baseURL == "" {
		h.metrics.observeFailure(failureConfig)
		h.respondError(w, http.StatusInternalServerError, CodeConfigError, msgConfigError)
		return
	}

	target := h.targetURL(chi.URLParam(r, "*"), r.URL.RawQuery)

	var body io.Reader
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		body = r.Body
	}

	req, err := http.NewRequestWithContext(r.Context(), r.Method, target, body)
	if err != nil {
		h.metrics.observeFailure(failureForward)
		h.respondError(w, http.StatusBadGateway, CodeProxyError, msgProxyError)
		return
	}

	for _, name := range forwardHeaders {
		if value := r.Header.Get(name); value != "" {
			req.Header.Set(name, value)
		}
	}

	start := time.Now()
	resp, err := h.httpClient.Do(req)
	if err != nil {
		h.logger.Error("forward error",
			zap.String("request_id", middleware.GetRequestID(r.Context())),
			zap.String("target", target),
			zap.Error(err),
		)
		h.metrics.observeFailure(failureForward)
		h.respondError(w, http.StatusBadGateway, CodeProxyError, msgProxyError)
		return
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		h.logger.Error("read backend response error",
			zap.String("request_id", middleware.GetRequestID(r.Context())),
			zap.Error(err),
		)
		h.metrics.observeFailure(failureForward)
		h.respondError(w, http.StatusBadGateway, CodeProxyError, msgProxyError)
		return
	}

	h.metrics.observeForwarded(r.Method, resp.StatusCode, time.Since(start))

	contentType := resp.Header.Get("Content-Type")
	if strings.Contains(contentType, "application/json") {
		var parsed any
		if err := json.Unmarshal(data, &parsed); err == nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(resp.StatusCode)
			json.NewEncoder(w).Encode(parsed)
			return
		}
		// Невалидный JSON от бэкенда уходит дословно.
	}

	if contentType == "" {
		contentType = "text/plain"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(resp.StatusCode)
	w.Write(data)
}

// respondError пишет фиксированный конверт ошибки прокси.
func (h *Handler) respondError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(apierr.Envelope{Code: code, Message: message})
}
