// Package notify реализует ленту пользовательских уведомлений —
// аналог toast-сообщений портала. Сторы сообщают сюда об исходе каждой
// операции строго после изменения состояния и записи в хранилище.
package notify

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Варианты отображения уведомления.
const (
	VariantDefault     = "default"
	VariantDestructive = "destructive"
)

// Notification — одно пользовательское уведомление.
type Notification struct {
	ID        string    `json:"id"`         // Идентификатор уведомления
	Title     string    `json:"title"`      // Заголовок
	Message   string    `json:"message"`    // Текст уведомления
	Variant   string    `json:"variant"`    // default или destructive
	CreatedAt time.Time `json:"created_at"` // Время создания
}

// Notifier описывает контракт доставки уведомлений пользователю.
type Notifier interface {
	// Success сообщает об успешном завершении операции.
	Success(title, message string)
	// Error сообщает о неудаче операции.
	Error(title, message string)
}

// Feed — реализация Notifier с ограниченной лентой последних уведомлений.
// Новые записи вытесняют самые старые; List возвращает их от новых к старым.
type Feed struct {
	log   *slog.Logger
	mu    sync.Mutex
	items []Notification
	limit int
}

// NewFeed создает ленту с ограничением на количество хранимых уведомлений.
func NewFeed(log *slog.Logger, limit int) *Feed {
	if limit <= 0 {
		limit = 50
	}
	return &Feed{log: log, limit: limit}
}

// Success добавляет уведомление об успехе.
func (f *Feed) Success(title, message string) {
	f.log.Info("notification", slog.String("title", title), slog.String("message", message))
	f.push(title, message, VariantDefault)
}

// Error добавляет уведомление об ошибке.
func (f *Feed) Error(title, message string) {
	f.log.Warn("notification", slog.String("title", title), slog.String("message", message))
	f.push(title, message, VariantDestructive)
}

// List возвращает уведомления от самых новых к самым старым.
func (f *Feed) List() []Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Notification, len(f.items))
	for i, n := range f.items {
		out[len(f.items)-1-i] = n
	}
	return out
}

func (f *Feed) push(title, message, variant string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = append(f.items, Notification{
		ID:        uuid.NewString(),
		Title:     title,
		Message:   message,
		Variant:   variant,
		CreatedAt: time.Now(),
	})
	if len(f.items) > f.limit {
		f.items = f.items[len(f.items)-f.limit:]
	}
}
