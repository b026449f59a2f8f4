// Package upload проверяет и сохраняет изображения элементов.
package upload

import (
	"StateDeck/internal/apperr"
	"StateDeck/internal/storage"
	"context"
	"fmt"
	"path"
	"regexp"
	"strings"
	"time"
)

var allowedTypes = map[string]struct{}{
	"image/png":     {},
	"image/jpeg":    {},
	"image/jpg":     {},
	"image/webp":    {},
	"image/gif":     {},
	"image/svg+xml": {},
}

// File — загруженный пользователем файл с заявленными именем и типом.
type File struct {
	Data []byte
	Name string
	Type string
	Size int64
}

// Stored — результат сохранения. Name/Type/Size — исходные заявленные
// значения, а не очищенное имя файла в хранилище.
type Stored struct {
	Path string
	Name string
	Type string
	Size int64
}

// Limits отдаёт текущий лимит размера; читается при каждой загрузке.
type Limits interface {
	MaxUploadBytes() int64
}

// Store проверяет файлы и пишет их в хранилище.
type Store struct {
	backend storage.Backend
	limits  Limits
	now     func() time.Time
}

// NewStore создаёт Store.
func NewStore(backend storage.Backend, limits Limits) *Store {
	return &Store{backend: backend, limits: limits, now: time.Now}
}

// Save проверяет тип и размер и сохраняет файл. Ошибки проверки — *apperr.UploadError,
// до обращения к хранилищу.
func (s *Store) Save(ctx context.Context, f File) (Stored, error) {
	if _, ok := allowedTypes[f.Type]; !ok {
		return Stored{}, &apperr.UploadError{Message: "Unsupported file type."}
	}
	maxBytes := s.limits.MaxUploadBytes()
	if f.Size > maxBytes {
		return Stored{}, &apperr.UploadError{
			Message:  fmt.Sprintf("File exceeds %dMB limit.", maxBytes/(1024*1024)),
			TooLarge: true,
		}
	}

	obj, err := s.backend.Put(ctx, Filename(f.Name, f.Type, s.now()), f.Data, f.Type)
	if err != nil {
		return Stored{}, fmt.Errorf("upload failed: %w", err)
	}
	return Stored{Path: obj.URL, Name: f.Name, Type: f.Type, Size: f.Size}, nil
}

var (
	unsafeRunRe = regexp.MustCompile(`[^a-zA-Z0-9\-_]+`)
	dashRunRe   = regexp.MustCompile(`-+`)
)

// Filename строит уникальное имя в хранилище:
// <очищенное имя или "element">-<unix ms><расширение>.
func Filename(name, mimeType string, at time.Time) string {
	ext := Extension(name, mimeType)
	base := Sanitize(strings.TrimSuffix(path.Base(name), ext))
	if name == "" {
		base = ""
	}
	if base == "" {
		base = "element"
	}
	return fmt.Sprintf("%s-%d%s", base, at.UnixMilli(), ext)
}

// Extension — расширение из имени файла, иначе по MIME-типу.
func Extension(name, mimeType string) string {
	if ext := path.Ext(name); ext != "" {
		return ext
	}
	switch mimeType {
	case "image/svg+xml":
		return ".svg"
	case "image/png":
		return ".png"
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	}
	return ""
}

// Sanitize заменяет недопустимые символы дефисом, схлопывает повторы
// и приводит к нижнему регистру.
func Sanitize(name string) string {
	s := unsafeRunRe.ReplaceAllString(name, "-")
	s = dashRunRe.ReplaceAllString(s, "-")
	return strings.ToLower(s)
}
