// Package services содержит логику бизнес-уровня для управления подпиской,
// привязанной к текущему пользователю. Жизненный цикл подписки подчинён
// сессии: появление пользователя загружает сохранённую подписку, исчезновение —
// безусловно очищает её.
package services

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/finconnect/portal/internal/lib/sl"
	"github.com/finconnect/portal/internal/models"
	"github.com/finconnect/portal/internal/notify"
	"github.com/finconnect/portal/internal/storage"
)

// Ошибки операций подписки.
var (
	// ErrNotAuthenticated возвращается при попытке оформить подписку без входа.
	ErrNotAuthenticated = errors.New("you must be logged in to subscribe")
	// ErrNoActiveSubscription возвращается при отмене, когда отменять нечего.
	ErrNoActiveSubscription = errors.New("no active subscription to cancel")
	// ErrEmptyPlanID возвращается при пустом идентификаторе плана.
	ErrEmptyPlanID = errors.New("plan id must not be empty")
	// ErrOperationInFlight возвращается, если операция стора ещё не завершилась.
	ErrOperationInFlight = errors.New("operation already in progress")
)

// Entitlement — чистая производная от пары (пользователь, подписка):
// действует ли подписка и какой план ей соответствует.
type Entitlement struct {
	IsSubscribed bool
	CurrentPlan  *models.Plan
}

// Derive вычисляет Entitlement по снимку состояния. Никогда не сохраняется:
// пересчитывается при каждом чтении. Подписка с неизвестным planID считается
// действующей, но план для неё не резолвится.
func Derive(user *models.User, sub *models.Subscription, catalog []models.Plan) Entitlement {
	if user == nil || sub == nil {
		return Entitlement{}
	}
	var plan *models.Plan
	for i := range catalog {
		if catalog[i].ID == sub.PlanID {
			plan = &catalog[i]
			break
		}
	}
	return Entitlement{
		IsSubscribed: sub.IsActive(),
		CurrentPlan:  plan,
	}
}

// EntitlementStore владеет подпиской текущего пользователя.
// Регистрируется слушателем стора сессии через HandleIdentityChange.
type EntitlementStore struct {
	store    storage.Store
	notifier notify.Notifier
	log      *slog.Logger
	latency  time.Duration

	mu      sync.Mutex
	user    *models.User
	sub     *models.Subscription
	loading bool
}

// NewEntitlementStore создает стор подписки. Флаг загрузки взведён до первого
// сигнала об изменении пользователя.
func NewEntitlementStore(store storage.Store, notifier notify.Notifier, log *slog.Logger, latency time.Duration) *EntitlementStore {
	return &EntitlementStore{
		store:    store,
		notifier: notifier,
		log:      log,
		latency:  latency,
		loading:  true,
	}
}

// HandleIdentityChange реагирует на смену пользователя сессии.
// При появлении пользователя загружает сохранённую подписку (подписка чужого
// пользователя отбрасывается); при исчезновении — немедленно и безусловно
// очищает состояние и удаляет ключ из хранилища.
func (s *EntitlementStore) HandleIdentityChange(user *models.User) {
	const op = "entitlement.HandleIdentityChange"
	log := s.log.With(slog.String("op", op))

	s.mu.Lock()
	defer s.mu.Unlock()

	if user == nil {
		s.user = nil
		s.sub = nil
		s.loading = false
		if err := s.store.Remove(storage.KeySubscription); err != nil {
			log.Warn("failed to remove stored subscription", sl.Err(err))
		}
		return
	}

	s.user = user
	s.sub = nil

	var sub models.Subscription
	err := s.store.Get(storage.KeySubscription, &sub)
	switch {
	case errors.Is(err, storage.ErrNotFound):
	case err != nil:
		log.Warn("failed to load stored subscription", sl.Err(err))
	case sub.UserID != user.ID:
		log.Warn("stored subscription belongs to another user, dropping",
			slog.String("subscription_user_id", sub.UserID),
			slog.String("user_id", user.ID))
	default:
		s.sub = &sub
		log.Info("subscription restored",
			slog.String("plan_id", sub.PlanID),
			slog.String("status", sub.Status))
	}
	s.loading = false
}

// Subscribe оформляет подписку на план с имитацией сетевого запроса.
// Требует аутентифицированного пользователя. Идентификатор плана не сверяется
// с каталогом: неизвестный план сохраняется как есть, просто без резолва
// CurrentPlan. Новая подписка замещает предыдущую.
func (s *EntitlementStore) Subscribe(_ context.Context, planID string) (*models.Subscription, error) {
	const op = "entitlement.Subscribe"
	log := s.log.With(slog.String("op", op), slog.String("plan_id", planID))

	if !s.begin() {
		return nil, ErrOperationInFlight
	}
	defer s.end()

	time.Sleep(s.latency)

	s.mu.Lock()
	user := s.user
	s.mu.Unlock()

	if user == nil {
		s.notifier.Error("Subscription Failed", "You must be logged in to subscribe")
		return nil, ErrNotAuthenticated
	}
	if planID == "" {
		s.notifier.Error("Subscription Failed", "Plan is not specified")
		return nil, ErrEmptyPlanID
	}

	sub := &models.Subscription{
		ID:        "sub-" + uuid.NewString(),
		UserID:    user.ID,
		PlanID:    planID,
		Status:    models.SubscriptionActive,
		StartDate: time.Now(),
		EndDate:   nil,
	}

	s.mu.Lock()
	s.sub = sub
	s.mu.Unlock()

	if err := s.store.Set(storage.KeySubscription, sub); err != nil {
		log.Warn("failed to persist subscription", sl.Err(err))
	}

	log.Info("subscription activated", slog.String("subscription_id", sub.ID))

	planName := planID
	if plan := models.FindPlan(planID); plan != nil {
		planName = plan.Name
	}
	s.notifier.Success("Subscription Activated",
		"You are now subscribed to the "+planName+" plan.")
	return sub, nil
}

// CancelSubscription отменяет текущую подписку с имитацией сетевого запроса.
// Статус становится cancelled, EndDate — сейчас плюс 30-дневный период;
// период записывается, но на доступ не влияет: IsSubscribed гаснет сразу.
// Запись не удаляется — остаётся до замещения новой подпиской.
func (s *EntitlementStore) CancelSubscription(_ context.Context) (*models.Subscription, error) {
	const op = "entitlement.CancelSubscription"
	log := s.log.With(slog.String("op", op))

	if !s.begin() {
		return nil, ErrOperationInFlight
	}
	defer s.end()

	time.Sleep(s.latency)

	s.mu.Lock()
	if s.sub == nil {
		s.mu.Unlock()
		s.notifier.Error("Cancellation Failed", "No active subscription to cancel")
		return nil, ErrNoActiveSubscription
	}
	endDate := time.Now().Add(models.GracePeriod)
	updated := *s.sub
	updated.Status = models.SubscriptionCancelled
	updated.EndDate = &endDate
	s.sub = &updated
	s.mu.Unlock()

	if err := s.store.Set(storage.KeySubscription, &updated); err != nil {
		log.Warn("failed to persist subscription", sl.Err(err))
	}

	log.Info("subscription cancelled", slog.String("subscription_id", updated.ID))
	s.notifier.Success("Subscription Cancelled",
		"Your subscription has been cancelled. You will still have access until the end of your billing period.")
	return &updated, nil
}

// Subscription возвращает копию текущей подписки или nil.
func (s *EntitlementStore) Subscription() *models.Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sub == nil {
		return nil
	}
	sub := *s.sub
	return &sub
}

// Current возвращает производный Entitlement для текущего состояния.
func (s *EntitlementStore) Current() Entitlement {
	s.mu.Lock()
	user, sub := s.user, s.sub
	s.mu.Unlock()
	return Derive(user, sub, models.Plans)
}

// IsSubscribed сообщает, действует ли подписка текущего пользователя.
func (s *EntitlementStore) IsSubscribed() bool {
	return s.Current().IsSubscribed
}

// Loading сообщает, выполняется ли загрузка подписки или операция над ней.
func (s *EntitlementStore) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *EntitlementStore) begin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loading {
		return false
	}
	s.loading = true
	return true
}

func (s *EntitlementStore) end() {
	s.mu.Lock()
	s.loading = false
	s.mu.Unlock()
}
