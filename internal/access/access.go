// Package access реализует политику доступа к защищённым разделам портала.
// Решение — чистая функция над снимком состояния сессии и подписки,
// без обращения к HTTP или хранилищу, поэтому проверяется напрямую юнит-тестами.
package access

import "github.com/finconnect/portal/internal/models"

// Маршруты, на которые политика перенаправляет при отказе.
const (
	RouteLogin     = "/login"
	RouteDashboard = "/dashboard"
	RoutePricing   = "/pricing"
)

// Requirement описывает требования защищённого раздела.
// Проверки применяются в фиксированном порядке: сначала аутентификация,
// затем роль, затем подписка.
type Requirement struct {
	Authenticated bool // Требуется вход
	Admin         bool // Требуется административная роль
	Subscription  bool // Требуется действующая подписка
}

// State — снимок состояния обоих сторов на момент решения.
type State struct {
	SessionLoading     bool
	EntitlementLoading bool
	User               *models.User
	IsSubscribed       bool
}

// Outcome — исход решения о доступе.
type Outcome int

const (
	// Allowed — раздел можно показывать.
	Allowed Outcome = iota
	// Redirected — вместо раздела выдаётся перенаправление.
	Redirected
	// Deferred — сторы ещё загружаются, решение откладывается.
	Deferred
)

// Decision — результат применения политики к одной попытке навигации.
type Decision struct {
	Outcome        Outcome
	RedirectTo     string // Маршрут перенаправления при Redirected
	RememberOrigin bool   // Нужно ли запомнить исходный маршрут для возврата
}

// Decide применяет политику к снимку состояния. Пока любой из сторов
// загружается, решение откладывается: преждевременных перенаправлений не бывает.
func Decide(state State, req Requirement) Decision {
	if !req.Authenticated && !req.Admin && !req.Subscription {
		return Decision{Outcome: Allowed}
	}

	if state.SessionLoading || state.EntitlementLoading {
		return Decision{Outcome: Deferred}
	}

	if state.User == nil {
		return Decision{
			Outcome:        Redirected,
			RedirectTo:     RouteLogin,
			RememberOrigin: true,
		}
	}

	if req.Admin && !state.User.IsAdmin() {
		return Decision{
			Outcome:    Redirected,
			RedirectTo: RouteDashboard,
		}
	}

	if req.Subscription && !state.IsSubscribed {
		return Decision{
			Outcome:        Redirected,
			RedirectTo:     RoutePricing,
			RememberOrigin: true,
		}
	}

	return Decision{Outcome: Allowed}
}
