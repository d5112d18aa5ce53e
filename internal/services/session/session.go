// Package services содержит логику бизнес-уровня для управления жизненным циклом
// аутентифицированной сессии: вход, регистрация, выход и восстановление
// сессии из хранилища при старте процесса.
//
// Профиль пользователя и токен сессии устанавливаются и очищаются только вместе.
// Бэкенда аутентификации нет: вход проверяется по двум фиксированным тестовым
// учётным записям, а «сетевая» задержка имитируется.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/finconnect/portal/internal/lib/jwt"
	"github.com/finconnect/portal/internal/lib/password"
	"github.com/finconnect/portal/internal/lib/sl"
	"github.com/finconnect/portal/internal/models"
	"github.com/finconnect/portal/internal/notify"
	"github.com/finconnect/portal/internal/storage"
)

// Ошибки операций сессии.
var (
	// ErrInvalidCredentials возвращается при неверной паре email/пароль.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrRegistrationFailed зарезервирована под настоящую валидацию регистрации.
	ErrRegistrationFailed = errors.New("registration failed")
	// ErrOperationInFlight возвращается, если операция стора ещё не завершилась.
	ErrOperationInFlight = errors.New("operation already in progress")
)

// Маршруты, предлагаемые после успешного входа в зависимости от роли.
const (
	DestinationAdmin   = "/admin/dashboard"
	DestinationPricing = "/pricing"
)

// testAccount — фиксированная тестовая учётная запись.
type testAccount struct {
	id           string
	name         string
	role         string
	passwordHash string
}

// SessionStore владеет профилем пользователя и токеном сессии.
// Все переходы состояния записываются в хранилище и сопровождаются уведомлением,
// строго в этом порядке.
type SessionStore struct {
	store    storage.Store
	tokens   jwt.Maker
	notifier notify.Notifier
	log      *slog.Logger
	latency  time.Duration

	accounts map[string]testAccount

	mu        sync.Mutex
	user      *models.User
	token     string
	loading   bool
	listeners []func(*models.User)
}

// NewSessionStore создает стор сессии. Флаг загрузки взведён до вызова
// Initialize: до завершения восстановления решения о доступе не принимаются.
func NewSessionStore(store storage.Store, tokens jwt.Maker, notifier notify.Notifier, log *slog.Logger, latency time.Duration) (*SessionStore, error) {
	const op = "session.NewSessionStore"

	accounts := make(map[string]testAccount, 2)
	for _, acc := range []struct {
		email, id, name, role string
	}{
		{"user@example.com", "user-123", "Demo User", models.RoleDeveloper},
		{"admin@example.com", "admin-123", "Admin User", models.RoleAdmin},
	} {
		hash, err := password.GetHash("password")
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		accounts[acc.email] = testAccount{
			id:           acc.id,
			name:         acc.name,
			role:         acc.role,
			passwordHash: hash,
		}
	}

	return &SessionStore{
		store:    store,
		tokens:   tokens,
		notifier: notifier,
		log:      log,
		latency:  latency,
		accounts: accounts,
		loading:  true,
	}, nil
}

// OnIdentityChange регистрирует слушателя изменений профиля. Слушатели
// вызываются при восстановлении сессии, входе, регистрации и выходе;
// nil означает отсутствие аутентифицированного пользователя.
func (s *SessionStore) OnIdentityChange(fn func(*models.User)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Initialize восстанавливает сессию из хранилища. Сессия считается
// восстановленной, только если присутствуют и токен, и профиль, а токен
// корректно подписан, не истёк и принадлежит этому профилю; иначе стор
// остаётся неаутентифицированным. В любом случае снимает флаг загрузки.
func (s *SessionStore) Initialize(_ context.Context) {
	const op = "session.Initialize"
	log := s.log.With(slog.String("op", op))

	var token string
	var user models.User

	restored := false
	if err := s.store.Get(storage.KeyToken, &token); err == nil {
		if err := s.store.Get(storage.KeyUser, &user); err == nil {
			claims, err := s.tokens.ParseToken(token)
			switch {
			case err != nil:
				log.Warn("stored token is not valid, starting unauthenticated", sl.Err(err))
			case claims.UserID != user.ID:
				log.Warn("stored token does not match stored user, starting unauthenticated")
			default:
				restored = true
			}
		}
	}

	s.mu.Lock()
	if restored {
		s.user = &user
		s.token = token
	}
	s.loading = false
	current := s.user
	s.mu.Unlock()

	if restored {
		log.Info("session restored", slog.String("user_id", user.ID), slog.String("role", user.Role))
	}
	s.fireIdentityChange(current)
}

// Login выполняет вход с имитацией сетевого запроса. Проверяет пару
// email/пароль по фиксированным тестовым учёткам; любая другая пара даёт
// ErrInvalidCredentials, состояние при этом не изменяется и не сохраняется.
// Возвращает маршрут, куда следует отправить пользователя после входа.
func (s *SessionStore) Login(_ context.Context, email, rawPassword string) (string, error) {
	const op = "session.Login"
	log := s.log.With(slog.String("op", op), slog.String("email", email))

	if !s.begin() {
		return "", ErrOperationInFlight
	}
	defer s.end()

	// Имитируемый запрос: после старта его нельзя отменить.
	time.Sleep(s.latency)

	acc, ok := s.accounts[email]
	if ok {
		if err := password.CompareHash(acc.passwordHash, rawPassword); err != nil {
			ok = false
		}
	}
	if !ok {
		log.Warn("login rejected")
		s.notifier.Error("Login Failed", "Invalid email or password")
		return "", ErrInvalidCredentials
	}

	user := &models.User{
		ID:        acc.id,
		Email:     email,
		Name:      acc.name,
		Role:      acc.role,
		CreatedAt: time.Now(),
	}
	token, err := s.tokens.GenerateToken(user.Email, user.Role, user.ID)
	if err != nil {
		log.Error("failed to issue session token", sl.Err(err))
		s.notifier.Error("Login Failed", "Something went wrong")
		return "", fmt.Errorf("%s: %w", op, err)
	}

	s.setSession(user, token)
	log.Info("login success", slog.String("user_id", user.ID), slog.String("role", user.Role))

	if user.Role == models.RoleAdmin {
		s.notifier.Success("Admin Login Successful", fmt.Sprintf("Welcome back, %s!", user.Name))
		return DestinationAdmin, nil
	}
	s.notifier.Success("Login Successful", fmt.Sprintf("Welcome back, %s!", user.Name))
	return DestinationPricing, nil
}

// Register создает новую учётную запись разработчика с имитацией сетевого
// запроса. Уникальность email не проверяется: повторная регистрация того же
// адреса просто порождает новый профиль.
func (s *SessionStore) Register(_ context.Context, email, _, name string) (string, error) {
	const op = "session.Register"
	log := s.log.With(slog.String("op", op), slog.String("email", email))

	if !s.begin() {
		return "", ErrOperationInFlight
	}
	defer s.end()

	time.Sleep(s.latency)

	user := &models.User{
		ID:        "user-" + uuid.NewString(),
		Email:     email,
		Name:      name,
		Role:      models.RoleDeveloper,
		CreatedAt: time.Now(),
	}
	token, err := s.tokens.GenerateToken(user.Email, user.Role, user.ID)
	if err != nil {
		log.Error("failed to issue session token", sl.Err(err))
		s.notifier.Error("Registration Failed", "Something went wrong")
		return "", fmt.Errorf("%s: %w", op, err)
	}

	s.setSession(user, token)
	log.Info("registration success", slog.String("user_id", user.ID))
	s.notifier.Success("Registration Successful", "Your account has been created successfully.")
	return DestinationPricing, nil
}

// Logout синхронно завершает сессию: очищает профиль и токен, удаляет их из
// хранилища и оповещает слушателей (что каскадно очищает подписку).
// Повторный вызов без активной сессии — no-op.
func (s *SessionStore) Logout() {
	const op = "session.Logout"
	log := s.log.With(slog.String("op", op))

	s.mu.Lock()
	if s.user == nil {
		s.mu.Unlock()
		return
	}
	userID := s.user.ID
	s.user = nil
	s.token = ""
	s.mu.Unlock()

	if err := s.store.Remove(storage.KeyUser); err != nil {
		log.Warn("failed to remove stored user", sl.Err(err))
	}
	if err := s.store.Remove(storage.KeyToken); err != nil {
		log.Warn("failed to remove stored token", sl.Err(err))
	}

	log.Info("logged out", slog.String("user_id", userID))
	s.fireIdentityChange(nil)
	s.notifier.Success("Logged Out", "You have been successfully logged out.")
}

// User возвращает профиль текущего пользователя или nil.
func (s *SessionStore) User() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Token возвращает токен текущей сессии или пустую строку.
func (s *SessionStore) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// IsAuthenticated сообщает, установлен ли профиль пользователя.
func (s *SessionStore) IsAuthenticated() bool {
	return s.User() != nil
}

// Loading сообщает, выполняется ли восстановление сессии или операция входа.
func (s *SessionStore) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// setSession фиксирует новую сессию: сначала состояние, затем запись в
// хранилище, затем оповещение слушателей.
func (s *SessionStore) setSession(user *models.User, token string) {
	s.mu.Lock()
	s.user = user
	s.token = token
	s.mu.Unlock()

	if err := s.store.Set(storage.KeyUser, user); err != nil {
		s.log.Warn("failed to persist user", sl.Err(err))
	}
	if err := s.store.Set(storage.KeyToken, token); err != nil {
		s.log.Warn("failed to persist token", sl.Err(err))
	}
	s.fireIdentityChange(user)
}

// begin взводит флаг загрузки; возвращает false, если другая операция
// ещё выполняется.
func (s *SessionStore) begin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loading {
		return false
	}
	s.loading = true
	return true
}

func (s *SessionStore) end() {
	s.mu.Lock()
	s.loading = false
	s.mu.Unlock()
}

func (s *SessionStore) fireIdentityChange(user *models.User) {
	s.mu.Lock()
	listeners := make([]func(*models.User), len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(user)
	}
}
