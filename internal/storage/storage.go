// Package storage определяет узкий порт key-value хранилища сессионных данных.
// Ключи строковые, значения сериализуются в JSON. Через этот порт сохраняются
// токен, профиль пользователя и подписка, чтобы перезапуск процесса
// восстанавливал ту же сессию.
package storage

import "errors"

// Ключи, под которыми стор сессии и стор подписки хранят свои данные.
const (
	KeyToken        = "token"
	KeyUser         = "user"
	KeySubscription = "subscription"
)

// ErrNotFound возвращается Get, если значения по ключу нет.
var ErrNotFound = errors.New("key not found")

// Store описывает контракт хранилища. Get десериализует значение в result.
// Set и Remove атомарны с точки зрения вызывающего: частично записанных
// состояний не бывает.
type Store interface {
	// Get читает значение по ключу в result, возвращает ErrNotFound при отсутствии.
	Get(key string, result any) error
	// Set сохраняет значение по ключу.
	Set(key string, value any) error
	// Remove удаляет значение по ключу. Отсутствие ключа не является ошибкой.
	Remove(key string) error
}
