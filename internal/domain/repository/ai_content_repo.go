package repository

import (
	"github.com/google/uuid"

	"github.com/yourusername/bizfit-api/internal/domain/entity"
)

// AIContentRepository определяет методы для работы с сохранённым AI-контентом.
// Ядро использует его как key-value хранилище с ключом (попытка, тип контента).
type AIContentRepository interface {
	// GetByAttemptAndType возвращает запись для пары (попытка, тип контента)
	// или apperrors.ErrNotFound
	GetByAttemptAndType(attemptID uuid.UUID, contentType string) (*entity.AIContent, error)

	// ExistsByAttemptAndType проверяет наличие записи без её загрузки
	ExistsByAttemptAndType(attemptID uuid.UUID, contentType string) (bool, error)

	// Upsert сохраняет запись; при конфликте по (попытка, тип) побеждает новая
	Upsert(content *entity.AIContent) error

	// ListByAttempt возвращает весь сохранённый контент попытки
	ListByAttempt(attemptID uuid.UUID) ([]entity.AIContent, error)

	// DeleteByAttempt удаляет весь контент попытки
	DeleteByAttempt(attemptID uuid.UUID) error
}
