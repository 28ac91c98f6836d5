package entity

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Типы AI-контента. Пара (попытка, тип) — граница идемпотентности:
// одна попытка никогда не оплачивает одну и ту же генерацию дважды.
const (
	ContentTypePreview         = "preview"
	ContentTypeFullReport      = "full_report"
	ContentTypeCharacteristics = "characteristics"
	ContentTypeAnalysis        = "analysis"

	// ContentTypeModelPrefix — префикс типов контента по конкретной
	// бизнес-модели: model_<id>
	ContentTypeModelPrefix = "model_"
)

// ModelContentType возвращает тип контента для конкретной бизнес-модели
func ModelContentType(businessModelID string) string {
	return ContentTypeModelPrefix + businessModelID
}

// ModelIDFromContentType извлекает идентификатор бизнес-модели из типа
// контента вида model_<id>; для остальных типов возвращает пустую строку
func ModelIDFromContentType(contentType string) string {
	if !strings.HasPrefix(contentType, ContentTypeModelPrefix) {
		return ""
	}
	return strings.TrimPrefix(contentType, ContentTypeModelPrefix)
}

// IsValidContentType проверяет, что тип контента известен системе
func IsValidContentType(contentType string) bool {
	switch contentType {
	case ContentTypePreview, ContentTypeFullReport, ContentTypeCharacteristics, ContentTypeAnalysis:
		return true
	}
	return strings.HasPrefix(contentType, ContentTypeModelPrefix) &&
		len(contentType) > len(ContentTypeModelPrefix)
}

// AIContent представляет сохранённый сгенерированный контент для попытки квиза.
// Ключ (quiz_attempt_id, content_type) уникален; при повторной записи
// побеждает последняя версия.
type AIContent struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	QuizAttemptID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_attempt_content_type" json:"quiz_attempt_id"`
	ContentType   string          `gorm:"size:100;not null;uniqueIndex:idx_attempt_content_type" json:"content_type"`
	Content       json.RawMessage `gorm:"type:jsonb;not null" json:"content"`
	GeneratedAt   time.Time       `gorm:"not null" json:"generated_at"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (AIContent) TableName() string {
	return "ai_contents"
}
