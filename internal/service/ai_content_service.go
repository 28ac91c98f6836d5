package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/bizfit-api/internal/ai"
	"github.com/yourusername/bizfit-api/internal/catalog"
	"github.com/yourusername/bizfit-api/internal/domain/entity"
	"github.com/yourusername/bizfit-api/internal/domain/repository"
	apperrors "github.com/yourusername/bizfit-api/internal/pkg/errors"
	"github.com/yourusername/bizfit-api/internal/service/scoring"
)

// ContentNotifier получает уведомления о готовности сгенерированного контента
type ContentNotifier interface {
	NotifyContentReady(attemptID uuid.UUID, contentType string)
}

// GateDecision — результат проверки кеша перед генерацией
type GateDecision struct {
	ShouldGenerate bool
	Reason         string
	Existing       *entity.AIContent
}

// AIContentConfig — настройки генерации нарративного контента
type AIContentConfig struct {
	MaxTokens   int
	Temperature float64
	CallTimeout time.Duration
	CacheTTL    time.Duration
}

// DefaultAIContentConfig возвращает настройки генерации по умолчанию
func DefaultAIContentConfig() AIContentConfig {
	return AIContentConfig{
		MaxTokens:   1500,
		Temperature: 0.6,
		CallTimeout: 15 * time.Second,
		CacheTTL:    24 * time.Hour,
	}
}

// AIContentService генерирует и кеширует нарративный контент по попыткам
// квиза. Каждая операция генерации сначала проверяет кеш (Redis, затем
// Postgres); попадание — терминальный успех, кеш никогда не обновляется
// неявно. Любой сбой LLM заменяется персонализированным откатом, поэтому
// генерация не возвращает ошибок, связанных с LLM.
type AIContentService struct {
	client      ai.ChatClient // может быть nil: тогда только откаты
	limiter     *scoring.RateLimiter
	scoringSvc  *scoring.Service
	cache       ContentCache
	attemptRepo repository.QuizAttemptRepository
	unlockRepo  repository.ReportUnlockRepository
	catalog     *catalog.Catalog
	notifier    ContentNotifier // может быть nil

	cfg AIContentConfig
}

// NewAIContentService создает сервис AI-контента
func NewAIContentService(
	client ai.ChatClient,
	limiter *scoring.RateLimiter,
	scoringSvc *scoring.Service,
	contentRepo repository.AIContentRepository,
	attemptRepo repository.QuizAttemptRepository,
	unlockRepo repository.ReportUnlockRepository,
	cacheRepo repository.CacheRepository,
	cat *catalog.Catalog,
	notifier ContentNotifier,
	cfg AIContentConfig,
) *AIContentService {
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 1500
	}
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = 15 * time.Second
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 24 * time.Hour
	}
	return &AIContentService{
		client:      client,
		limiter:     limiter,
		scoringSvc:  scoringSvc,
		cache:       NewContentCache(cacheRepo, contentRepo, cfg.CacheTTL),
		attemptRepo: attemptRepo,
		unlockRepo:  unlockRepo,
		catalog:     cat,
		notifier:    notifier,
		cfg:         cfg,
	}
}

// ShouldGenerate решает, нужна ли генерация для пары (попытка, тип контента).
// Порядок проверок: нет ответов → нет; нет id попытки → нет (контент
// некому атрибутировать); запись уже существует → вернуть сохранённое;
// иначе → генерировать. Проверка советующая, не транзакционная: два
// конкурентных запроса по ещё не закешированному типу могут оба дойти
// до LLM, это принятая гонка.
func (s *AIContentService) ShouldGenerate(contentType string, answers *entity.QuizAnswers, attemptID *uuid.UUID) GateDecision {
	if answers == nil {
		return GateDecision{ShouldGenerate: false, Reason: "no quiz answers"}
	}
	if attemptID == nil || *attemptID == uuid.Nil {
		return GateDecision{ShouldGenerate: false, Reason: "no quiz attempt id"}
	}

	if existing := s.cache.Lookup(*attemptID, contentType); existing != nil {
		return GateDecision{ShouldGenerate: false, Reason: "already generated", Existing: existing}
	}
	return GateDecision{ShouldGenerate: true, Reason: "not cached"}
}

// GetOrGenerate возвращает контент указанного типа для попытки, генерируя
// его при первом обращении. Полный отчёт требует оплаченной разблокировки.
func (s *AIContentService) GetOrGenerate(ctx context.Context, attemptID uuid.UUID, contentType string) (*entity.AIContent, error) {
	if !entity.IsValidContentType(contentType) {
		return nil, fmt.Errorf("%w: unknown content type %q", apperrors.ErrValidation, contentType)
	}
	if modelID := entity.ModelIDFromContentType(contentType); modelID != "" && s.catalog.ByID(modelID) == nil {
		return nil, fmt.Errorf("%w: unknown business model %q", apperrors.ErrValidation, modelID)
	}

	if contentType == entity.ContentTypeFullReport {
		unlocked, err := s.unlockRepo.ExistsByAttempt(attemptID)
		if err != nil {
			return nil, fmt.Errorf("failed to check report unlock: %w", err)
		}
		if !unlocked {
			return nil, fmt.Errorf("%w: full report is not unlocked for this attempt", apperrors.ErrForbidden)
		}
	}

	attempt, err := s.attemptRepo.GetByID(attemptID)
	if err != nil {
		return nil, err
	}
	answers, err := attempt.Answers()
	if err != nil {
		return nil, err
	}

	gate := s.ShouldGenerate(contentType, answers, &attemptID)
	if !gate.ShouldGenerate {
		if gate.Existing != nil {
			return gate.Existing, nil
		}
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, gate.Reason)
	}

	payload := s.generate(ctx, contentType, answers)

	record := &entity.AIContent{
		QuizAttemptID: attemptID,
		ContentType:   contentType,
		Content:       payload,
		GeneratedAt:   time.Now(),
	}
	if err := s.cache.Store(record); err != nil {
		return nil, fmt.Errorf("failed to save generated content: %w", err)
	}
	if s.notifier != nil {
		s.notifier.NotifyContentReady(attemptID, contentType)
	}
	return record, nil
}

// GetOrGenerateAnalysis возвращает полный анализ совместимости для попытки,
// запуская его не более одного раза: результат кешируется под типом
// контента analysis и при повторных обращениях читается из кеша
func (s *AIContentService) GetOrGenerateAnalysis(ctx context.Context, attemptID uuid.UUID) (*scoring.ComprehensiveFitAnalysis, error) {
	attempt, err := s.attemptRepo.GetByID(attemptID)
	if err != nil {
		return nil, err
	}
	answers, err := attempt.Answers()
	if err != nil {
		return nil, err
	}

	gate := s.ShouldGenerate(entity.ContentTypeAnalysis, answers, &attemptID)
	if !gate.ShouldGenerate && gate.Existing != nil {
		var analysis scoring.ComprehensiveFitAnalysis
		if err := json.Unmarshal(gate.Existing.Content, &analysis); err == nil {
			return &analysis, nil
		}
		// нечитаемая запись не должна блокировать попытку: перегенерируем
		log.Printf("[ContentService] Stored analysis for %s is unreadable, regenerating", attemptID)
	}

	analysis, err := s.scoringSvc.AnalyzeBusinessFit(ctx, answers)
	if err != nil {
		return nil, err
	}

	record := &entity.AIContent{
		QuizAttemptID: attemptID,
		ContentType:   entity.ContentTypeAnalysis,
		Content:       mustMarshal(analysis),
		GeneratedAt:   time.Now(),
	}
	if err := s.cache.Store(record); err != nil {
		return nil, fmt.Errorf("failed to save analysis: %w", err)
	}
	if s.notifier != nil {
		s.notifier.NotifyContentReady(attemptID, entity.ContentTypeAnalysis)
	}
	return analysis, nil
}

// ListByAttempt возвращает весь сохранённый контент попытки
func (s *AIContentService) ListByAttempt(attemptID uuid.UUID) ([]entity.AIContent, error) {
	return s.cache.ListByAttempt(attemptID)
}

// generate строит контент указанного типа. Никогда не возвращает ошибку:
// недоступность LLM, мусорный ответ или слишком короткий текст заменяются
// откатом, построенным из ответов пользователя.
func (s *AIContentService) generate(ctx context.Context, contentType string, answers *entity.QuizAnswers) json.RawMessage {
	analysis := s.scoringSvc.AlgorithmicAnalysis(answers)

	if contentType == entity.ContentTypeCharacteristics {
		return s.generateCharacteristics(ctx, answers, analysis)
	}
	return s.generateNarrative(ctx, contentType, answers, analysis)
}

// generateNarrative запрашивает у LLM markdown и разбирает его на секции;
// при любом сбое строит персонализированный откат
func (s *AIContentService) generateNarrative(ctx context.Context, contentType string, answers *entity.QuizAnswers, analysis *scoring.ComprehensiveFitAnalysis) json.RawMessage {
	var model *entity.BusinessModel
	if modelID := entity.ModelIDFromContentType(contentType); modelID != "" {
		model = s.catalog.ByID(modelID)
	}

	system, user := buildNarrativePrompt(contentType, answers, analysis, model)
	raw, err := s.callLLM(ctx, ai.CompletionRequest{
		System:      system,
		User:        user,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err == nil {
		narrative := ParseNarrative(raw)
		if narrative.IsUsable() {
			narrative.ContentType = contentType
			narrative.Source = scoring.SourceAI
			narrative.GeneratedAt = time.Now()
			return mustMarshal(narrative)
		}
		log.Printf("[ContentService] LLM narrative for %s too short or unstructured, using fallback. Sample: %q", contentType, truncateSample(raw))
	} else {
		log.Printf("[ContentService] LLM call failed for %s, using fallback: %v", contentType, err)
	}

	return mustMarshal(s.buildFallbackNarrative(contentType, answers, analysis, model))
}

// generateCharacteristics запрашивает портрет пользователя строгим JSON;
// ответ проходит через ремонт JSON, при неудаче берётся профиль
// алгоритмического анализа
func (s *AIContentService) generateCharacteristics(ctx context.Context, answers *entity.QuizAnswers, analysis *scoring.ComprehensiveFitAnalysis) json.RawMessage {
	system, user := buildCharacteristicsPrompt(answers)
	raw, err := s.callLLM(ctx, ai.CompletionRequest{
		System:      system,
		User:        user,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
		JSONOnly:    true,
	})
	if err == nil {
		if profile, ok := parseCharacteristics(raw); ok {
			return mustMarshal(characteristicsPayload{
				Profile:     *profile,
				Source:      scoring.SourceAI,
				GeneratedAt: time.Now(),
			})
		}
		log.Printf("[ContentService] Unusable characteristics JSON, using fallback. Sample: %q", truncateSample(raw))
	} else {
		log.Printf("[ContentService] LLM call failed for characteristics, using fallback: %v", err)
	}

	return mustMarshal(characteristicsPayload{
		Profile:     analysis.PersonalityProfile,
		Source:      scoring.SourceAlgorithmic,
		GeneratedAt: time.Now(),
	})
}

// callLLM выполняет один вызов LLM под лимитером и таймаутом.
// Повторных попыток нет.
func (s *AIContentService) callLLM(ctx context.Context, req ai.CompletionRequest) (string, error) {
	if s.client == nil {
		return "", fmt.Errorf("no LLM client configured")
	}
	if err := s.limiter.WaitForSlot(ctx); err != nil {
		return "", err
	}
	callCtx, cancel := context.WithTimeout(ctx, s.cfg.CallTimeout)
	defer cancel()
	return s.client.Complete(callCtx, req)
}

// characteristicsPayload — сохраняемая форма контента типа characteristics
type characteristicsPayload struct {
	Profile     scoring.PersonalityProfile `json:"profile"`
	Source      string                     `json:"source"`
	GeneratedAt time.Time                  `json:"generated_at"`
}

// parseCharacteristics ремонтирует и валидирует JSON-портрет из ответа LLM
func parseCharacteristics(raw string) (*scoring.PersonalityProfile, bool) {
	repaired, ok := scoring.RepairJSON(raw)
	if !ok {
		return nil, false
	}
	data, err := json.Marshal(repaired)
	if err != nil {
		return nil, false
	}
	var parsed struct {
		Strengths   []string `json:"strengths"`
		WorkStyle   string   `json:"workStyle"`
		RiskProfile string   `json:"riskProfile"`
		Summary     string   `json:"summary"`
	}
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, false
	}
	if parsed.Summary == "" || len(parsed.Strengths) == 0 {
		return nil, false
	}
	return &scoring.PersonalityProfile{
		Strengths:   parsed.Strengths,
		WorkStyle:   parsed.WorkStyle,
		RiskProfile: parsed.RiskProfile,
		Summary:     parsed.Summary,
	}, true
}

func contentCacheKey(attemptID uuid.UUID, contentType string) string {
	return fmt.Sprintf("ai_content:%s:%s", attemptID, contentType)
}

func mustMarshal(v interface{}) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		// сюда можно попасть только с несериализуемым типом в payload,
		// то есть при ошибке программирования
		log.Printf("[ContentService] Failed to marshal content payload: %v", err)
		return json.RawMessage(`{}`)
	}
	return data
}

func truncateSample(s string) string {
	const max = 200
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
