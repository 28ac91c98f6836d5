package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/bizfit-api/internal/domain/entity"
	apperrors "github.com/yourusername/bizfit-api/internal/pkg/errors"
)

// BusinessModelRepo реализует repository.BusinessModelRepository
type BusinessModelRepo struct {
	db *gorm.DB
}

// NewBusinessModelRepo создает новый репозиторий справочника бизнес-моделей
func NewBusinessModelRepo(db *gorm.DB) *BusinessModelRepo {
	return &BusinessModelRepo{db: db}
}

// ListAll возвращает все модели справочника
func (r *BusinessModelRepo) ListAll() ([]entity.BusinessModel, error) {
	var models []entity.BusinessModel
	err := r.db.Order("id").Find(&models).Error
	return models, err
}

// GetByID возвращает модель по идентификатору
func (r *BusinessModelRepo) GetByID(id string) (*entity.BusinessModel, error) {
	var model entity.BusinessModel
	err := r.db.First(&model, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &model, nil
}
