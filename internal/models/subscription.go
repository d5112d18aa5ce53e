package models

import "time"

// Статусы подписки.
const (
	SubscriptionActive    = "active"
	SubscriptionCancelled = "cancelled"
	SubscriptionInactive  = "inactive"
)

// GracePeriod — период после отмены, в течение которого подписка формально
// числится за пользователем (записывается в EndDate, но доступ не продлевает).
const GracePeriod = 30 * 24 * time.Hour

// Subscription представляет подписку пользователя на тарифный план.
// EndDate равен nil для активной подписки без даты окончания.
// Подписка никогда не удаляется, только замещается новой при повторном оформлении.
type Subscription struct {
	ID        string     `json:"id"`         // Уникальный идентификатор подписки
	UserID    string     `json:"user_id"`    // Идентификатор владельца подписки
	PlanID    string     `json:"plan_id"`    // Идентификатор тарифного плана
	Status    string     `json:"status"`     // Статус: active, cancelled или inactive
	StartDate time.Time  `json:"start_date"` // Дата оформления подписки
	EndDate   *time.Time `json:"end_date"`   // Дата окончания, nil — бессрочная
}

// IsActive сообщает, действует ли подписка.
func (s *Subscription) IsActive() bool {
	return s != nil && s.Status == SubscriptionActive
}
