package repository

import (
	"github.com/google/uuid"

	"github.com/yourusername/bizfit-api/internal/domain/entity"
)

// ReportUnlockRepository определяет методы для работы с флагами оплаты отчётов
type ReportUnlockRepository interface {
	Create(unlock *entity.ReportUnlock) error
	ExistsByAttempt(attemptID uuid.UUID) (bool, error)
}
