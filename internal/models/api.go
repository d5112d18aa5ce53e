package models

import "time"

// Balance представляет текущий баланс счёта в имитируемом финансовом API.
type Balance struct {
	Balance     float64   `json:"balance"`      // Текущий баланс, USD
	LastUpdated time.Time `json:"last_updated"` // Время последнего обновления
}

// Статусы транзакций имитируемого API.
const (
	TransactionCompleted = "completed"
	TransactionPending   = "pending"
	TransactionFailed    = "failed"
)

// Transaction представляет одну операцию перевода средств.
type Transaction struct {
	ID                   string    `json:"id"`                     // Идентификатор транзакции
	SourceAccountID      string    `json:"source_account_id"`      // Счёт отправителя
	DestinationAccountID string    `json:"destination_account_id"` // Счёт получателя
	Amount               float64   `json:"amount"`                 // Сумма перевода
	Description          string    `json:"description"`            // Назначение платежа
	Status               string    `json:"status"`                 // completed, pending или failed
	CreatedAt            time.Time `json:"created_at"`             // Время создания
}

// TransferRequest — параметры запроса на перевод средств.
type TransferRequest struct {
	SourceAccountID      string  `json:"source_account_id" validate:"required"`      // Счёт отправителя
	DestinationAccountID string  `json:"destination_account_id" validate:"required"` // Счёт получателя
	Amount               float64 `json:"amount" validate:"required,gt=0"`            // Сумма (>0)
	Description          string  `json:"description,omitempty"`                      // Назначение (опционально)
}

// InvoiceSummary — сводка по операциям за отчётный период.
type InvoiceSummary struct {
	StartDate        time.Time `json:"start_date"`        // Начало периода
	EndDate          time.Time `json:"end_date"`          // Конец периода
	TransactionCount int       `json:"transaction_count"` // Количество операций
	TotalAmount      float64   `json:"total_amount"`      // Суммарный оборот
	DownloadURL      string    `json:"download_url"`      // Ссылка на выгрузку
}

// RequestLog — запись журнала обращений к API, доступного администратору.
type RequestLog struct {
	ID         string    `json:"id"`          // Идентификатор записи
	UserID     string    `json:"user_id"`     // Пользователь, выполнивший запрос
	Endpoint   string    `json:"endpoint"`    // Конечная точка API
	Method     string    `json:"method"`      // HTTP-метод
	StatusCode int       `json:"status_code"` // Код ответа
	Timestamp  time.Time `json:"timestamp"`   // Время обращения
}
