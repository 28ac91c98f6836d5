package entity

import (
	"time"

	"github.com/google/uuid"
)

// ReportUnlock фиксирует факт оплаты полного отчёта по попытке квиза.
// Запись создаётся обработчиком платёжного вебхука (платёжная подсистема —
// внешняя); здесь хранится только флаг доступа.
type ReportUnlock struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	QuizAttemptID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"quiz_attempt_id"`
	Provider      string    `gorm:"size:20;not null" json:"provider"` // stripe | paypal
	ExternalRef   string    `gorm:"size:255;not null;default:''" json:"external_ref"`
	PaidAt        time.Time `gorm:"not null" json:"paid_at"`
	CreatedAt     time.Time `json:"created_at"`
}

// TableName определяет имя таблицы для GORM
func (ReportUnlock) TableName() string {
	return "report_unlocks"
}
