package postgres

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yourusername/bizfit-api/internal/domain/entity"
	apperrors "github.com/yourusername/bizfit-api/internal/pkg/errors"
)

// AIContentRepo реализует repository.AIContentRepository
type AIContentRepo struct {
	db *gorm.DB
}

// NewAIContentRepo создает новый репозиторий AI-контента
func NewAIContentRepo(db *gorm.DB) *AIContentRepo {
	return &AIContentRepo{db: db}
}

// GetByAttemptAndType возвращает запись для пары (попытка, тип контента)
func (r *AIContentRepo) GetByAttemptAndType(attemptID uuid.UUID, contentType string) (*entity.AIContent, error) {
	var content entity.AIContent
	err := r.db.Where("quiz_attempt_id = ? AND content_type = ?", attemptID, contentType).
		First(&content).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &content, nil
}

// ExistsByAttemptAndType проверяет наличие записи без её загрузки
func (r *AIContentRepo) ExistsByAttemptAndType(attemptID uuid.UUID, contentType string) (bool, error) {
	var count int64
	err := r.db.Model(&entity.AIContent{}).
		Where("quiz_attempt_id = ? AND content_type = ?", attemptID, contentType).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Upsert сохраняет запись; при конфликте по (попытка, тип) обновляет контент
// и время генерации — побеждает последняя версия
func (r *AIContentRepo) Upsert(content *entity.AIContent) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "quiz_attempt_id"}, {Name: "content_type"}},
		DoUpdates: clause.AssignmentColumns([]string{"content", "generated_at", "updated_at"}),
	}).Create(content).Error
}

// ListByAttempt возвращает весь сохранённый контент попытки
func (r *AIContentRepo) ListByAttempt(attemptID uuid.UUID) ([]entity.AIContent, error) {
	var contents []entity.AIContent
	// Пустой слайс — валидный результат, ErrNotFound здесь не нужен
	err := r.db.Where("quiz_attempt_id = ?", attemptID).
		Order("generated_at").
		Find(&contents).Error
	return contents, err
}

// DeleteByAttempt удаляет весь контент попытки
func (r *AIContentRepo) DeleteByAttempt(attemptID uuid.UUID) error {
	return r.db.Where("quiz_attempt_id = ?", attemptID).
		Delete(&entity.AIContent{}).Error
}
