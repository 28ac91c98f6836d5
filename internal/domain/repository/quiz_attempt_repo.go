package repository

import (
	"github.com/google/uuid"

	"github.com/yourusername/bizfit-api/internal/domain/entity"
)

// QuizAttemptRepository определяет методы для работы с попытками квиза
type QuizAttemptRepository interface {
	Create(attempt *entity.QuizAttempt) error
	GetByID(id uuid.UUID) (*entity.QuizAttempt, error)
	ListByUser(userID uint, limit, offset int) ([]entity.QuizAttempt, int64, error)
	ListAll(limit, offset int) ([]entity.QuizAttempt, int64, error)
}
