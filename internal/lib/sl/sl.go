// Package sl содержит мелкие помощники для структурированного логирования
// через slog: единый формат поля ошибки во всех пакетах портала.
package sl

import "log/slog"

// Err возвращает атрибут лога с ключом "error" и текстом ошибки.
//
// Пример:
//
//	log.Error("login failed", sl.Err(err))
func Err(err error) slog.Attr {
	return slog.String("error", err.Error())
}
