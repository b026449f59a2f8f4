// Package apperr содержит типизированные ошибки предметной области.
// HTTP-слой переводит их в коды ответа через errors.As.
package apperr

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ValidationError — некорректный или отсутствующий ввод.
// Fields содержит ошибки по именам полей (как в JSON запроса).
type ValidationError struct {
	Message string
	Fields  map[string][]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.Fields[k], ", "))
	}
	return e.Message + " (" + strings.Join(parts, "; ") + ")"
}

// Invalid создаёт ValidationError без детализации по полям.
func Invalid(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

// InvalidField создаёт ValidationError для одного поля.
func InvalidField(field, msg string) *ValidationError {
	return &ValidationError{Message: msg, Fields: map[string][]string{field: {msg}}}
}

// NotFoundError — операция сослалась на несуществующий id.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Entity, e.ID)
}

// NotFound создаёт NotFoundError.
func NotFound(entity, id string) *NotFoundError {
	return &NotFoundError{Entity: entity, ID: id}
}

// UploadError — недопустимый тип файла или превышен лимит размера.
type UploadError struct {
	Message  string
	TooLarge bool
}

func (e *UploadError) Error() string { return e.Message }

// PersistenceError — сбой хранилища при записи или чтении.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Persistence оборачивает ошибку хранилища. nil остаётся nil.
func Persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	return &PersistenceError{Op: op, Err: err}
}

// IsNotFound — короткая проверка для вызывающего кода.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
