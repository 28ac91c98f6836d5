package entity

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// QuizAttempt представляет одну завершённую попытку прохождения квиза.
// Ответы неизменяемы после отправки; попытка — единица идентичности
// для кешированного AI-контента.
type QuizAttempt struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      *uint     `gorm:"index" json:"user_id,omitempty"`
	SessionID   string    `gorm:"size:64;index" json:"session_id,omitempty"`
	AnswersJSON []byte    `gorm:"type:jsonb;not null" json:"-"`
	CompletedAt time.Time `gorm:"not null;index" json:"completed_at"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}

// Answers десериализует сохранённые ответы попытки
func (qa *QuizAttempt) Answers() (*QuizAnswers, error) {
	var answers QuizAnswers
	if err := json.Unmarshal(qa.AnswersJSON, &answers); err != nil {
		return nil, fmt.Errorf("failed to decode attempt answers: %w", err)
	}
	return &answers, nil
}

// SetAnswers сериализует и сохраняет ответы в попытке
func (qa *QuizAttempt) SetAnswers(answers *QuizAnswers) error {
	data, err := json.Marshal(answers)
	if err != nil {
		return fmt.Errorf("failed to encode attempt answers: %w", err)
	}
	qa.AnswersJSON = data
	return nil
}
