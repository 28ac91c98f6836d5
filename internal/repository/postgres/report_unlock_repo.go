package postgres

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yourusername/bizfit-api/internal/domain/entity"
)

// ReportUnlockRepo реализует repository.ReportUnlockRepository
type ReportUnlockRepo struct {
	db *gorm.DB
}

// NewReportUnlockRepo создает новый репозиторий флагов оплаты
func NewReportUnlockRepo(db *gorm.DB) *ReportUnlockRepo {
	return &ReportUnlockRepo{db: db}
}

// Create сохраняет флаг оплаты; повторный вебхук по той же попытке
// не приводит к ошибке (идемпотентность вебхуков)
func (r *ReportUnlockRepo) Create(unlock *entity.ReportUnlock) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "quiz_attempt_id"}},
		DoNothing: true,
	}).Create(unlock).Error
}

// ExistsByAttempt проверяет, оплачен ли полный отчёт по попытке
func (r *ReportUnlockRepo) ExistsByAttempt(attemptID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.Model(&entity.ReportUnlock{}).
		Where("quiz_attempt_id = ?", attemptID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
