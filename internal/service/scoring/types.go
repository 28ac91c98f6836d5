package scoring

import (
	"time"
)

// Источники результата анализа
const (
	SourceAI          = "ai"
	SourceAlgorithmic = "algorithmic"
)

// FitScoreResult — оценка совместимости пользователя с одной бизнес-моделью
type FitScoreResult struct {
	BusinessModelID string   `json:"business_model_id"`
	Title           string   `json:"title"`
	Score           int      `json:"score"` // 0-100
	Reasoning       string   `json:"reasoning"`
	Strengths       []string `json:"strengths"`
	Challenges      []string `json:"challenges"`
	Confidence      float64  `json:"confidence"` // 0-1
}

// PersonalityProfile — сводный портрет пользователя по ответам квиза
type PersonalityProfile struct {
	Strengths   []string `json:"strengths"`
	WorkStyle   string   `json:"work_style"`
	RiskProfile string   `json:"risk_profile"`
	Summary     string   `json:"summary"`
}

// ComprehensiveFitAnalysis — полный результат анализа совместимости:
// top-N моделей, портрет личности и общие рекомендации
type ComprehensiveFitAnalysis struct {
	TopMatches         []FitScoreResult   `json:"top_matches"`
	PersonalityProfile PersonalityProfile `json:"personality_profile"`
	Recommendations    []string           `json:"recommendations"`
	Source             string             `json:"source"` // ai | algorithmic
	GeneratedAt        time.Time          `json:"generated_at"`
}

// llmFitResponse — ожидаемая структура JSON-ответа LLM.
// Все три верхнеуровневых ключа обязательны; их отсутствие после ремонта
// JSON означает откат на алгоритмический путь.
type llmFitResponse struct {
	PersonalityProfile *llmPersonalityProfile `json:"personalityProfile"`
	BusinessAnalysis   []llmBusinessAnalysis  `json:"businessAnalysis"`
	Recommendations    []string               `json:"recommendations"`
}

type llmPersonalityProfile struct {
	Strengths   []string `json:"strengths"`
	WorkStyle   string   `json:"workStyle"`
	RiskProfile string   `json:"riskProfile"`
	Summary     string   `json:"summary"`
}

type llmBusinessAnalysis struct {
	BusinessModelID string   `json:"businessModelId"`
	FitScore        float64  `json:"fitScore"`
	Reasoning       string   `json:"reasoning"`
	Strengths       []string `json:"strengths"`
	Challenges      []string `json:"challenges"`
	Confidence      float64  `json:"confidence"`
}
