package dto

import (
	"encoding/json"
	"time"

	"github.com/yourusername/bizfit-api/internal/domain/entity"
	"github.com/yourusername/bizfit-api/internal/service/scoring"
)

// SubmitAttemptRequest представляет запрос на отправку завершённого квиза
type SubmitAttemptRequest struct {
	SessionID string              `json:"session_id" binding:"omitempty,max=64"`
	Answers   *entity.QuizAnswers `json:"answers" binding:"required"`
}

// AttemptResponse представляет попытку квиза в формате для ответа клиенту
type AttemptResponse struct {
	ID          string    `json:"id"`
	UserID      *uint     `json:"user_id,omitempty"`
	SessionID   string    `json:"session_id,omitempty"`
	CompletedAt time.Time `json:"completed_at"`
	// ReadyContentTypes перечисляет уже сгенерированные типы контента
	ReadyContentTypes []string `json:"ready_content_types,omitempty"`
}

// NewAttemptResponse создает DTO попытки
func NewAttemptResponse(attempt *entity.QuizAttempt, contents []entity.AIContent) *AttemptResponse {
	resp := &AttemptResponse{
		ID:          attempt.ID.String(),
		UserID:      attempt.UserID,
		SessionID:   attempt.SessionID,
		CompletedAt: attempt.CompletedAt,
	}
	for _, content := range contents {
		resp.ReadyContentTypes = append(resp.ReadyContentTypes, content.ContentType)
	}
	return resp
}

// SubmitAttemptResponse — ответ на отправку квиза: попытка и мгновенные
// алгоритмические баллы. AI-контент доезжает позже через /content и WS.
type SubmitAttemptResponse struct {
	Attempt       *AttemptResponse                  `json:"attempt"`
	InstantScores *scoring.ComprehensiveFitAnalysis `json:"instant_scores"`
}

// ContentResponse представляет сохранённый AI-контент
type ContentResponse struct {
	QuizAttemptID string          `json:"quiz_attempt_id"`
	ContentType   string          `json:"content_type"`
	Content       json.RawMessage `json:"content"`
	GeneratedAt   time.Time       `json:"generated_at"`
}

// NewContentResponse создает DTO сохранённого контента
func NewContentResponse(content *entity.AIContent) *ContentResponse {
	return &ContentResponse{
		QuizAttemptID: content.QuizAttemptID.String(),
		ContentType:   content.ContentType,
		Content:       content.Content,
		GeneratedAt:   content.GeneratedAt,
	}
}

// BusinessModelResponse представляет бизнес-модель каталога
type BusinessModelResponse struct {
	ID                     string   `json:"id"`
	Title                  string   `json:"title"`
	Description            string   `json:"description"`
	Category               string   `json:"category"`
	Difficulty             string   `json:"difficulty"`
	TimeToProfit           string   `json:"time_to_profit"`
	StartupCostMin         float64  `json:"startup_cost_min"`
	StartupCostMax         float64  `json:"startup_cost_max"`
	PotentialIncomeMonthly float64  `json:"potential_income_monthly"`
	RequiredSkills         []string `json:"required_skills"`
}

// NewBusinessModelResponse создает DTO бизнес-модели
func NewBusinessModelResponse(model *entity.BusinessModel) *BusinessModelResponse {
	return &BusinessModelResponse{
		ID:                     model.ID,
		Title:                  model.Title,
		Description:            model.Description,
		Category:               model.Category,
		Difficulty:             model.Difficulty,
		TimeToProfit:           model.TimeToProfit,
		StartupCostMin:         model.StartupCostMin,
		StartupCostMax:         model.StartupCostMax,
		PotentialIncomeMonthly: model.PotentialIncomeMonthly,
		RequiredSkills:         model.RequiredSkills,
	}
}

// PaymentWebhookRequest представляет подтверждение оплаты от платёжного
// провайдера (внешняя подсистема)
type PaymentWebhookRequest struct {
	QuizAttemptID string `json:"quiz_attempt_id" binding:"required,uuid"`
	Provider      string `json:"provider" binding:"required"`
	ExternalRef   string `json:"external_ref" binding:"omitempty,max=255"`
}
