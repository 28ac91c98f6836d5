package repository

import (
	"github.com/yourusername/bizfit-api/internal/domain/entity"
)

// BusinessModelRepository определяет методы доступа к справочнику
// бизнес-моделей. Справочник read-only: записи создаются миграциями.
type BusinessModelRepository interface {
	ListAll() ([]entity.BusinessModel, error)
	GetByID(id string) (*entity.BusinessModel, error)
}
