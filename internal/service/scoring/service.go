package scoring

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/yourusername/bizfit-api/internal/ai"
	"github.com/yourusername/bizfit-api/internal/catalog"
	"github.com/yourusername/bizfit-api/internal/domain/entity"
	apperrors "github.com/yourusername/bizfit-api/internal/pkg/errors"
)

// ServiceConfig содержит настройки сервиса анализа совместимости
type ServiceConfig struct {
	// TopN — количество лучших моделей в результате
	TopN int
	// MaxTokens — бюджет токенов на ответ LLM
	MaxTokens int
	// Temperature — температура генерации
	Temperature float64
	// CallTimeout — жёсткий таймаут одного вызова LLM
	CallTimeout time.Duration
}

// DefaultServiceConfig возвращает конфигурацию по умолчанию
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		TopN:        5,
		MaxTokens:   2000,
		Temperature: 0.4,
		CallTimeout: 15 * time.Second,
	}
}

// Service — сервис анализа совместимости с бизнес-моделями.
// Два уровня: LLM-анализ (если клиент сконфигурирован) с гарантированным
// откатом на алгоритмический калькулятор при любом сбое на любом этапе.
type Service struct {
	client     ai.ChatClient // nil — работа без LLM решена при конструировании
	limiter    *RateLimiter
	calculator *FitCalculator
	catalog    *catalog.Catalog

	topN        int
	maxTokens   int
	temperature float64
	callTimeout time.Duration
}

// NewService создает сервис анализа. client может быть nil: тогда все
// запросы обслуживает алгоритмический путь (отсутствие учётных данных —
// решение этапа конструирования, а не ветка на каждый вызов).
func NewService(
	client ai.ChatClient,
	limiter *RateLimiter,
	calculator *FitCalculator,
	cat *catalog.Catalog,
	cfg ServiceConfig,
) *Service {
	if cfg.TopN <= 0 {
		cfg.TopN = 5
	}
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = 15 * time.Second
	}
	if client == nil {
		log.Printf("[Scoring] No LLM client configured, serving algorithmic analysis only")
	}
	return &Service{
		client:      client,
		limiter:     limiter,
		calculator:  calculator,
		catalog:     cat,
		topN:        cfg.TopN,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		callTimeout: cfg.CallTimeout,
	}
}

// Calculator возвращает алгоритмический калькулятор сервиса
func (s *Service) Calculator() *FitCalculator {
	return s.calculator
}

// AlgorithmicAnalysis возвращает чисто алгоритмический анализ.
// Не выполняет I/O и не может завершиться неуспехом.
func (s *Service) AlgorithmicAnalysis(answers *entity.QuizAnswers) *ComprehensiveFitAnalysis {
	return s.buildFallbackAnalysis(answers)
}

// AnalyzeBusinessFit выполняет полный анализ совместимости.
//
// Протокол: нет клиента → алгоритмический путь; иначе слот лимитера →
// вызов LLM с таймаутом → ремонт и разбор JSON → валидация структуры →
// сопоставление со справочником. Любой сбой на любом этапе завершается
// откатом, который сам не может завершиться неуспехом. Повторных попыток
// вызова LLM внутри одного запроса нет.
//
// Ошибка возвращается только при нарушении контракта (nil answers) —
// это ошибка программирования, а не условие времени выполнения.
func (s *Service) AnalyzeBusinessFit(ctx context.Context, answers *entity.QuizAnswers) (*ComprehensiveFitAnalysis, error) {
	if answers == nil {
		return nil, fmt.Errorf("%w: answers are required", apperrors.ErrValidation)
	}

	if s.client == nil {
		return s.buildFallbackAnalysis(answers), nil
	}

	if err := s.limiter.WaitForSlot(ctx); err != nil {
		log.Printf("[Scoring] Rate limit hit, falling back to algorithmic analysis: %v", err)
		return s.buildFallbackAnalysis(answers), nil
	}

	raw, err := s.callLLM(ctx, answers)
	if err != nil {
		log.Printf("[Scoring] LLM call failed, falling back: %v", err)
		return s.buildFallbackAnalysis(answers), nil
	}

	parsed, ok := RepairJSON(raw)
	if !ok {
		log.Printf("[Scoring] LLM output is unrecoverable, falling back. Sample: %s", truncateSample(raw))
		return s.buildFallbackAnalysis(answers), nil
	}

	response, err := validateFitResponse(parsed)
	if err != nil {
		log.Printf("[Scoring] LLM output failed validation, falling back: %v. Sample: %s", err, truncateSample(raw))
		return s.buildFallbackAnalysis(answers), nil
	}

	analysis := s.assembleAnalysis(response)
	if len(analysis.TopMatches) == 0 {
		log.Printf("[Scoring] No LLM matches map to the catalog, falling back")
		return s.buildFallbackAnalysis(answers), nil
	}
	return analysis, nil
}

// callLLM выполняет один вызов chat-completion с жёстким таймаутом
func (s *Service) callLLM(ctx context.Context, answers *entity.QuizAnswers) (string, error) {
	candidates := shortlist(s.calculator, s.catalog.All(), answers, ShortlistSize)

	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	return s.client.Complete(callCtx, ai.CompletionRequest{
		System:      fitSystemPrompt,
		User:        buildFitPrompt(answers, candidates),
		MaxTokens:   s.maxTokens,
		Temperature: s.temperature,
		JSONOnly:    true,
	})
}

// validateFitResponse проверяет наличие обязательных верхнеуровневых ключей
// и приводит разобранный объект к типизированной структуре
func validateFitResponse(parsed map[string]interface{}) (*llmFitResponse, error) {
	for _, key := range []string{"personalityProfile", "businessAnalysis", "recommendations"} {
		if _, ok := parsed[key]; !ok {
			return nil, fmt.Errorf("missing required key %q", key)
		}
	}

	data, err := json.Marshal(parsed)
	if err != nil {
		return nil, fmt.Errorf("failed to re-encode parsed output: %w", err)
	}
	var response llmFitResponse
	if err := json.Unmarshal(data, &response); err != nil {
		return nil, fmt.Errorf("output does not match expected structure: %w", err)
	}
	if response.PersonalityProfile == nil {
		return nil, fmt.Errorf("personalityProfile is not an object")
	}
	if len(response.BusinessAnalysis) == 0 {
		return nil, fmt.Errorf("businessAnalysis is empty")
	}
	return &response, nil
}

// assembleAnalysis сопоставляет ответ LLM со справочником; записи с
// неизвестным id отбрасываются молча, остальные сортируются по баллу
func (s *Service) assembleAnalysis(response *llmFitResponse) *ComprehensiveFitAnalysis {
	matches := make([]FitScoreResult, 0, len(response.BusinessAnalysis))
	for _, entry := range response.BusinessAnalysis {
		model := s.catalog.ByID(entry.BusinessModelID)
		if model == nil {
			continue
		}
		matches = append(matches, FitScoreResult{
			BusinessModelID: model.ID,
			Title:           model.Title,
			Score:           clampScore(entry.FitScore),
			Reasoning:       entry.Reasoning,
			Strengths:       entry.Strengths,
			Challenges:      entry.Challenges,
			Confidence:      clampConfidence(entry.Confidence),
		})
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if len(matches) > s.topN {
		matches = matches[:s.topN]
	}

	profile := PersonalityProfile{
		Strengths:   response.PersonalityProfile.Strengths,
		WorkStyle:   response.PersonalityProfile.WorkStyle,
		RiskProfile: response.PersonalityProfile.RiskProfile,
		Summary:     response.PersonalityProfile.Summary,
	}

	return &ComprehensiveFitAnalysis{
		TopMatches:         matches,
		PersonalityProfile: profile,
		Recommendations:    response.Recommendations,
		Source:             SourceAI,
		GeneratedAt:        time.Now(),
	}
}

// clampScore приводит балл LLM к целому в [0,100]
func clampScore(score float64) int {
	switch {
	case score < 0:
		return 0
	case score > 100:
		return 100
	default:
		return int(score + 0.5)
	}
}

// clampConfidence приводит уверенность к [0,1]
func clampConfidence(c float64) float64 {
	switch {
	case c < 0:
		return 0
	case c > 1:
		return 1
	default:
		return c
	}
}

// truncateSample обрезает образец вывода LLM для диагностики в логах
func truncateSample(s string) string {
	const limit = 200
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
