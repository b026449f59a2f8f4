// Package storage сохраняет загруженные файлы и возвращает публичные URL.
package storage

import "context"

// Object — сохранённый файл.
type Object struct {
	Key string // имя в хранилище
	URL string // публично доступный адрес
}

// Backend — хранилище файлов. Put возвращает управление только после того,
// как файл доступен по URL.
type Backend interface {
	Put(ctx context.Context, filename string, data []byte, contentType string) (Object, error)
}
