package scoring

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/bizfit-api/internal/ai"
	"github.com/yourusername/bizfit-api/internal/catalog"
	"github.com/yourusername/bizfit-api/internal/domain/entity"
)

// ============================================================================
// Моки для Service
// ============================================================================

// MockChatClient реализует ai.ChatClient
type MockChatClient struct {
	mock.Mock
}

func (m *MockChatClient) Complete(ctx context.Context, req ai.CompletionRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func newTestService(client ai.ChatClient) *Service {
	cat := catalog.New(catalog.Default())
	calc := NewFitCalculator(DefaultFitWeights(), cat)
	limiter := NewRateLimiter(RateLimiterConfig{
		MaxRequests: 20,
		Window:      60 * time.Second,
		MaxWait:     3 * time.Second,
	})
	return NewService(client, limiter, calc, cat, DefaultServiceConfig())
}

func validAnswers() *entity.QuizAnswers {
	return &entity.QuizAnswers{
		SuccessIncomeGoal:    4000,
		UpfrontInvestment:    1000,
		WeeklyTimeCommitment: 20,
		FirstIncomeTimeline:  "3_6_months",
		TechSkillsRating:     4,
		RiskComfortLevel:     4,
		SelfMotivationLevel:  5,
	}
}

func TestAnalyzeBusinessFit_NilAnswersIsContractViolation(t *testing.T) {
	svc := newTestService(nil)
	_, err := svc.AnalyzeBusinessFit(context.Background(), nil)
	assert.Error(t, err)
}

func TestAnalyzeBusinessFit_NoClientUsesAlgorithmicPath(t *testing.T) {
	svc := newTestService(nil)

	analysis, err := svc.AnalyzeBusinessFit(context.Background(), validAnswers())
	require.NoError(t, err)
	require.NotNil(t, analysis)
	assert.Equal(t, SourceAlgorithmic, analysis.Source)
	assert.NotEmpty(t, analysis.TopMatches)
	assert.NotEmpty(t, analysis.Recommendations)
	assert.NotEmpty(t, analysis.PersonalityProfile.Summary)
}

func TestAnalyzeBusinessFit_ClientErrorFallsBack(t *testing.T) {
	client := new(MockChatClient)
	client.On("Complete", mock.Anything, mock.Anything).
		Return("", errors.New("connection refused"))

	svc := newTestService(client)
	analysis, err := svc.AnalyzeBusinessFit(context.Background(), validAnswers())
	require.NoError(t, err, "LLM failures must never surface to the caller")
	assert.Equal(t, SourceAlgorithmic, analysis.Source)
	assert.NotEmpty(t, analysis.TopMatches)
	client.AssertNumberOfCalls(t, "Complete", 1) // без ретраев
}

func TestAnalyzeBusinessFit_GarbageOutputFallsBack(t *testing.T) {
	client := new(MockChatClient)
	client.On("Complete", mock.Anything, mock.Anything).
		Return("I'm sorry, I can't produce JSON today", nil)

	svc := newTestService(client)
	analysis, err := svc.AnalyzeBusinessFit(context.Background(), validAnswers())
	require.NoError(t, err)
	assert.Equal(t, SourceAlgorithmic, analysis.Source)
	assert.NotEmpty(t, analysis.TopMatches)
}

func TestAnalyzeBusinessFit_FencedEmptyStructureFallsBack(t *testing.T) {
	// Ограждения снимаются, структура валидна, но businessAnalysis пуст:
	// валидация отклоняет и маршрутизирует на откат
	client := new(MockChatClient)
	client.On("Complete", mock.Anything, mock.Anything).
		Return("```json\n{\"personalityProfile\":{},\"businessAnalysis\":[],\"recommendations\":[]}\n```", nil)

	svc := newTestService(client)
	analysis, err := svc.AnalyzeBusinessFit(context.Background(), validAnswers())
	require.NoError(t, err)
	assert.Equal(t, SourceAlgorithmic, analysis.Source)
	assert.NotEmpty(t, analysis.TopMatches)
}

func TestAnalyzeBusinessFit_MissingTopLevelKeyFallsBack(t *testing.T) {
	client := new(MockChatClient)
	client.On("Complete", mock.Anything, mock.Anything).
		Return(`{"personalityProfile":{},"businessAnalysis":[{"businessModelId":"freelancing","fitScore":80}]}`, nil)

	svc := newTestService(client)
	analysis, err := svc.AnalyzeBusinessFit(context.Background(), validAnswers())
	require.NoError(t, err)
	assert.Equal(t, SourceAlgorithmic, analysis.Source)
}

func TestAnalyzeBusinessFit_ValidOutputUsed(t *testing.T) {
	client := new(MockChatClient)
	client.On("Complete", mock.Anything, mock.Anything).Return(`{
		"personalityProfile": {"strengths": ["focused"], "workStyle": "solo", "riskProfile": "bold", "summary": "A focused builder."},
		"businessAnalysis": [
			{"businessModelId": "freelancing", "fitScore": 71, "reasoning": "quick start", "strengths": ["skills"], "challenges": ["feast and famine"], "confidence": 0.8},
			{"businessModelId": "saas-development", "fitScore": 88, "reasoning": "tech profile", "strengths": ["tech"], "challenges": ["long runway"], "confidence": 0.9},
			{"businessModelId": "unknown-model", "fitScore": 99, "reasoning": "dropped", "strengths": [], "challenges": [], "confidence": 1}
		],
		"recommendations": ["ship weekly"]
	}`, nil)

	svc := newTestService(client)
	analysis, err := svc.AnalyzeBusinessFit(context.Background(), validAnswers())
	require.NoError(t, err)
	assert.Equal(t, SourceAI, analysis.Source)

	// Неизвестный id отброшен молча, остальные отсортированы по убыванию
	require.Len(t, analysis.TopMatches, 2)
	assert.Equal(t, "saas-development", analysis.TopMatches[0].BusinessModelID)
	assert.Equal(t, 88, analysis.TopMatches[0].Score)
	assert.Equal(t, "freelancing", analysis.TopMatches[1].BusinessModelID)
	assert.Equal(t, []string{"ship weekly"}, analysis.Recommendations)
	assert.Equal(t, "A focused builder.", analysis.PersonalityProfile.Summary)
}

func TestAnalyzeBusinessFit_OnlyUnknownIDsFallsBack(t *testing.T) {
	client := new(MockChatClient)
	client.On("Complete", mock.Anything, mock.Anything).
		Return(`{"personalityProfile":{"summary":"x"},"businessAnalysis":[{"businessModelId":"ghost","fitScore":90}],"recommendations":["r"]}`, nil)

	svc := newTestService(client)
	analysis, err := svc.AnalyzeBusinessFit(context.Background(), validAnswers())
	require.NoError(t, err)
	assert.Equal(t, SourceAlgorithmic, analysis.Source)
	assert.NotEmpty(t, analysis.TopMatches)
}

func TestAnalyzeBusinessFit_RateLimitExhaustedSkipsLLM(t *testing.T) {
	client := new(MockChatClient)

	cat := catalog.New(catalog.Default())
	calc := NewFitCalculator(DefaultFitWeights(), cat)
	limiter := NewRateLimiter(RateLimiterConfig{
		MaxRequests: 1,
		Window:      time.Hour,
		MaxWait:     time.Millisecond,
	})
	defer limiter.Stop()
	svc := NewService(client, limiter, calc, cat, DefaultServiceConfig())

	// Первый вызов занимает единственный слот
	client.On("Complete", mock.Anything, mock.Anything).Return("", errors.New("boom")).Once()
	_, err := svc.AnalyzeBusinessFit(context.Background(), validAnswers())
	require.NoError(t, err)

	// Второй упирается в лимит: LLM не вызывается, результат алгоритмический
	analysis, err := svc.AnalyzeBusinessFit(context.Background(), validAnswers())
	require.NoError(t, err)
	assert.Equal(t, SourceAlgorithmic, analysis.Source)
	assert.NotEmpty(t, analysis.TopMatches)
	client.AssertNumberOfCalls(t, "Complete", 1)
}

func TestAnalyzeBusinessFit_ScoreClamped(t *testing.T) {
	client := new(MockChatClient)
	client.On("Complete", mock.Anything, mock.Anything).
		Return(`{"personalityProfile":{"summary":"x"},"businessAnalysis":[{"businessModelId":"freelancing","fitScore":150,"confidence":2}],"recommendations":["r"]}`, nil)

	svc := newTestService(client)
	analysis, err := svc.AnalyzeBusinessFit(context.Background(), validAnswers())
	require.NoError(t, err)
	require.Len(t, analysis.TopMatches, 1)
	assert.Equal(t, 100, analysis.TopMatches[0].Score)
	assert.Equal(t, float64(1), analysis.TopMatches[0].Confidence)
}

func TestAlgorithmicAnalysis_TotalOverCatalog(t *testing.T) {
	svc := newTestService(nil)

	// Даже пустые ответы дают непустой результат по каждому требованию
	analysis := svc.AlgorithmicAnalysis(&entity.QuizAnswers{})
	assert.NotEmpty(t, analysis.TopMatches)
	for _, match := range analysis.TopMatches {
		assert.GreaterOrEqual(t, match.Score, 0)
		assert.LessOrEqual(t, match.Score, 100)
		assert.NotEmpty(t, match.Reasoning)
		assert.NotEmpty(t, match.Strengths)
		assert.NotEmpty(t, match.Challenges)
	}
}
