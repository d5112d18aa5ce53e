// Package mockapi реализует имитируемый клиент финансового API портала:
// баланс, переводы, история операций, счета, а также административные
// выборки пользователей и журнала запросов. Настоящего бэкенда нет —
// данные синтетические, задержка искусственная.
//
// Клиент опирается на сторы сессии и подписки только для идентификации
// запроса и ограничения частоты по тарифному плану; решения о доступе
// к разделам принимает политика доступа, а не клиент.
package mockapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/time/rate"

	"github.com/finconnect/portal/internal/models"
	entitlementservice "github.com/finconnect/portal/internal/services/entitlement"
)

// Ошибки имитируемого API.
var (
	// ErrUnauthorized возвращается при вызове без аутентифицированного пользователя.
	ErrUnauthorized = errors.New("not authenticated")
	// ErrForbidden возвращается при вызове административной операции не администратором.
	ErrForbidden = errors.New("admin role required")
	// ErrRateLimited возвращается при превышении лимита запросов тарифного плана.
	ErrRateLimited = errors.New("rate limit exceeded")
	// ErrNoSubscriptionForUser возвращается при отмене подписки пользователя, у которого её нет.
	ErrNoSubscriptionForUser = errors.New("user has no active subscription")
)

// Лимит запросов в минуту для пользователя без резолвнутого плана.
const defaultRequestsPerMinute = 10

var requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "finconnect_mock_api_requests_total",
	Help: "Number of simulated financial API calls by endpoint and status code.",
}, []string{"endpoint", "status"})

// SessionReader — срез стора сессии, нужный клиенту.
type SessionReader interface {
	User() *models.User
}

// EntitlementReader — срез стора подписки, нужный клиенту.
type EntitlementReader interface {
	Current() entitlementservice.Entitlement
	Subscription() *models.Subscription
	CancelSubscription(ctx context.Context) (*models.Subscription, error)
}

// Client — имитируемый клиент финансового API.
type Client struct {
	session SessionReader
	ent     EntitlementReader
	log     *slog.Logger
	latency time.Duration

	mu       sync.Mutex
	balance  float64
	txs      []models.Transaction
	logs     []models.RequestLog
	limiters map[string]*rate.Limiter
}

// New создает клиент с синтетическим начальным состоянием:
// стартовый баланс и детерминированная история операций.
func New(session SessionReader, ent EntitlementReader, log *slog.Logger, latency time.Duration) *Client {
	c := &Client{
		session:  session,
		ent:      ent,
		log:      log,
		latency:  latency,
		balance:  125430.55,
		limiters: make(map[string]*rate.Limiter),
	}
	c.txs = seedTransactions()
	return c
}

// GetBalance возвращает текущий баланс счёта.
func (c *Client) GetBalance(ctx context.Context) (*models.Balance, error) {
	if err := c.before(ctx, "/api/balance", "GET"); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return &models.Balance{
		Balance:     c.balance,
		LastUpdated: time.Now(),
	}, nil
}

// ListTransactions возвращает страницу истории операций, от новых к старым,
// и общее количество записей.
func (c *Client) ListTransactions(ctx context.Context, page, pageSize int) ([]models.Transaction, int, error) {
	if err := c.before(ctx, "/api/transactions", "GET"); err != nil {
		return nil, 0, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	ordered := make([]models.Transaction, len(c.txs))
	for i, tx := range c.txs {
		ordered[len(c.txs)-1-i] = tx
	}
	pageItems, total := paginate(ordered, page, pageSize)
	return pageItems, total, nil
}

// Transfer выполняет перевод средств: создаёт завершённую транзакцию
// и уменьшает синтетический баланс.
func (c *Client) Transfer(ctx context.Context, req models.TransferRequest) (*models.Transaction, error) {
	if err := c.before(ctx, "/api/transfer", "POST"); err != nil {
		return nil, err
	}

	tx := models.Transaction{
		ID:                   "tx-" + uuid.NewString(),
		SourceAccountID:      req.SourceAccountID,
		DestinationAccountID: req.DestinationAccountID,
		Amount:               req.Amount,
		Description:          req.Description,
		Status:               models.TransactionCompleted,
		CreatedAt:            time.Now(),
	}

	c.mu.Lock()
	c.balance -= req.Amount
	c.txs = append(c.txs, tx)
	c.mu.Unlock()

	c.log.Info("transfer completed",
		slog.String("transaction_id", tx.ID),
		slog.Float64("amount", tx.Amount))
	return &tx, nil
}

// GetInvoiceSummary возвращает сводку по операциям за последние 30 дней.
func (c *Client) GetInvoiceSummary(ctx context.Context) (*models.InvoiceSummary, error) {
	if err := c.before(ctx, "/api/invoice", "GET"); err != nil {
		return nil, err
	}

	end := time.Now()
	start := end.AddDate(0, 0, -30)

	c.mu.Lock()
	count := 0
	total := 0.0
	for _, tx := range c.txs {
		if tx.CreatedAt.After(start) && tx.Status == models.TransactionCompleted {
			count++
			total += tx.Amount
		}
	}
	c.mu.Unlock()

	return &models.InvoiceSummary{
		StartDate:        start,
		EndDate:          end,
		TransactionCount: count,
		TotalAmount:      total,
		DownloadURL:      fmt.Sprintf("https://api.finconnect.example/invoices/%s.pdf", uuid.NewString()),
	}, nil
}

// ListRequestLogs возвращает страницу журнала обращений к API.
// Доступно только администратору.
func (c *Client) ListRequestLogs(ctx context.Context, page, pageSize int) ([]models.RequestLog, int, error) {
	if err := c.beforeAdmin(ctx, "/api/admin/logs", "GET"); err != nil {
		return nil, 0, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	ordered := make([]models.RequestLog, len(c.logs))
	for i, entry := range c.logs {
		ordered[len(c.logs)-1-i] = entry
	}
	pageItems, total := paginate(ordered, page, pageSize)
	return pageItems, total, nil
}

// ListUsers возвращает список пользователей портала. Доступно только администратору.
func (c *Client) ListUsers(ctx context.Context) ([]models.User, error) {
	if err := c.beforeAdmin(ctx, "/api/admin/users", "GET"); err != nil {
		return nil, err
	}
	return seedUsers(), nil
}

// CancelUserSubscription отменяет подписку указанного пользователя.
// Доступно только администратору. Затрагивает реальный стор подписки,
// если отменяемая подписка принадлежит указанному пользователю.
func (c *Client) CancelUserSubscription(ctx context.Context, userID string) error {
	if err := c.beforeAdmin(ctx, "/api/admin/users/"+userID+"/subscription", "DELETE"); err != nil {
		return err
	}

	sub := c.ent.Subscription()
	if sub == nil || sub.UserID != userID || !sub.IsActive() {
		return ErrNoSubscriptionForUser
	}
	if _, err := c.ent.CancelSubscription(ctx); err != nil {
		return err
	}
	return nil
}

// RequestLogs возвращает полный журнал без проверки роли — для внутренних нужд и тестов.
func (c *Client) RequestLogs() []models.RequestLog {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.RequestLog, len(c.logs))
	copy(out, c.logs)
	return out
}

// before выполняет общие шаги каждого вызова: задержка, проверка сессии,
// лимит запросов по плану, запись в журнал и метрику.
func (c *Client) before(_ context.Context, endpoint, method string) error {
	time.Sleep(c.latency)

	user := c.session.User()
	if user == nil {
		c.record("", endpoint, method, 401)
		return ErrUnauthorized
	}
	if !c.allow(user.ID) {
		c.record(user.ID, endpoint, method, 429)
		return ErrRateLimited
	}
	c.record(user.ID, endpoint, method, 200)
	return nil
}

func (c *Client) beforeAdmin(ctx context.Context, endpoint, method string) error {
	user := c.session.User()
	if user != nil && !user.IsAdmin() {
		time.Sleep(c.latency)
		c.record(user.ID, endpoint, method, 403)
		return ErrForbidden
	}
	return c.before(ctx, endpoint, method)
}

// allow проверяет лимит запросов пользователя, размер лимита берётся из
// requestsPerMinute текущего плана.
func (c *Client) allow(userID string) bool {
	rpm := defaultRequestsPerMinute
	if plan := c.ent.Current().CurrentPlan; plan != nil {
		rpm = plan.RequestsPerMinute
	}

	c.mu.Lock()
	limiter, ok := c.limiters[userID]
	if !ok || limiter.Burst() != rpm {
		limiter = rate.NewLimiter(rate.Limit(float64(rpm)/60.0), rpm)
		c.limiters[userID] = limiter
	}
	c.mu.Unlock()

	return limiter.Allow()
}

func (c *Client) record(userID, endpoint, method string, status int) {
	requestsTotal.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.logs = append(c.logs, models.RequestLog{
		ID:         "log-" + uuid.NewString(),
		UserID:     userID,
		Endpoint:   endpoint,
		Method:     method,
		StatusCode: status,
		Timestamp:  time.Now(),
	})
}

// paginate возвращает страницу списка и общий размер. Номера страниц с единицы.
func paginate[T any](items []T, page, pageSize int) ([]T, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	total := len(items)
	start := (page - 1) * pageSize
	if start >= total {
		return []T{}, total
	}
	end := start + pageSize
	if end > total {
		end = total
	}
	return items[start:end], total
}
