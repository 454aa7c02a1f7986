// Package sl содержит мелкие помощники для логгера slog.
package sl

import "log/slog"

// Err оборачивает ошибку в атрибут с ключом "error", чтобы ошибки
// во всех записях лога выглядели одинаково:
//
//	log.Error("failed to do something", sl.Err(err))
//
// nil-ошибка логируется как "<nil>".
func Err(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "<nil>")
	}
	return slog.String("error", err.Error())
}
