package service

import (
	"StateDeck/internal/apperr"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// storeError переводит ошибку репозитория в ошибку предметной области:
// отсутствующая запись — NotFound, всё остальное логируется как сбой хранилища.
func storeError(logger *zap.SugaredLogger, op, entity, id string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound(entity, id)
	}
	logger.Errorw("storage failure", "op", op, "entity", entity, "id", id, "error", err)
	return apperr.Persistence(op, err)
}

// validID — все ключи uuid; Postgres на строку другого вида отвечает ошибкой
// приведения типа, а не пустым результатом.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
