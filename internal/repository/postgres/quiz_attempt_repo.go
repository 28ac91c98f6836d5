package postgres

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yourusername/bizfit-api/internal/domain/entity"
	apperrors "github.com/yourusername/bizfit-api/internal/pkg/errors"
)

// QuizAttemptRepo реализует repository.QuizAttemptRepository
type QuizAttemptRepo struct {
	db *gorm.DB
}

// NewQuizAttemptRepo создает новый репозиторий попыток квиза
func NewQuizAttemptRepo(db *gorm.DB) *QuizAttemptRepo {
	return &QuizAttemptRepo{db: db}
}

// Create сохраняет новую попытку
func (r *QuizAttemptRepo) Create(attempt *entity.QuizAttempt) error {
	return r.db.Create(attempt).Error
}

// GetByID возвращает попытку по идентификатору
func (r *QuizAttemptRepo) GetByID(id uuid.UUID) (*entity.QuizAttempt, error) {
	var attempt entity.QuizAttempt
	err := r.db.First(&attempt, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &attempt, nil
}

// ListByUser возвращает попытки пользователя с пагинацией
func (r *QuizAttemptRepo) ListByUser(userID uint, limit, offset int) ([]entity.QuizAttempt, int64, error) {
	var attempts []entity.QuizAttempt
	var total int64

	if err := r.db.Model(&entity.QuizAttempt{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.Where("user_id = ?", userID).
		Order("completed_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&attempts).Error
	if err != nil {
		return nil, 0, err
	}

	return attempts, total, nil
}

// ListAll возвращает все попытки с пагинацией (для админского экспорта)
func (r *QuizAttemptRepo) ListAll(limit, offset int) ([]entity.QuizAttempt, int64, error) {
	var attempts []entity.QuizAttempt
	var total int64

	if err := r.db.Model(&entity.QuizAttempt{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.Order("completed_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&attempts).Error
	if err != nil {
		return nil, 0, err
	}

	return attempts, total, nil
}
