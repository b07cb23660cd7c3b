package storage

import (
	"context"
	"errors"
)

var (
	// ErrNotFound возвращается, если ключ отсутствует в хранилище
	ErrNotFound = errors.New("storage: key not found")
	// ErrClosed возвращается после закрытия хранилища
	ErrClosed = errors.New("storage: store is closed")
)

// Store — хранилище записей мира "ключ → байты".
// Ключи — строки вида "block/1/2/3"; Scan обходит ключи с префиксом
// в лексикографическом порядке.
type Store interface {
	// Put сохраняет значение, перезаписывая существующее
	Put(ctx context.Context, key string, value []byte) error

	// Get возвращает копию значения или ErrNotFound
	Get(ctx context.Context, key string) ([]byte, error)

	// Delete удаляет ключ; удаление отсутствующего ключа не ошибка
	Delete(ctx context.Context, key string) error

	// Scan вызывает fn для каждого ключа с префиксом prefix.
	// Ошибка из fn прерывает обход и возвращается как есть.
	Scan(ctx context.Context, prefix string, fn func(key string, value []byte) error) error

	// Close освобождает ресурсы хранилища
	Close() error
}
