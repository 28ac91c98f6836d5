package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/bizfit-api/internal/domain/entity"
	apperrors "github.com/yourusername/bizfit-api/internal/pkg/errors"
	"github.com/yourusername/bizfit-api/internal/service/scoring"
)

func newAttemptTestService(t *testing.T, attemptRepo *MockQuizAttemptRepo) (*QuizAttemptService, chan uuid.UUID) {
	t.Helper()
	env := newContentTestEnv(t)
	env.attemptRepo = attemptRepo

	svc := NewQuizAttemptService(attemptRepo, env.svc, env.svc.scoringSvc)
	triggered := make(chan uuid.UUID, 1)
	svc.triggerPreview = func(id uuid.UUID) { triggered <- id }
	return svc, triggered
}

func TestSubmitAttempt_NilAnswers(t *testing.T) {
	svc, _ := newAttemptTestService(t, new(MockQuizAttemptRepo))

	_, _, err := svc.SubmitAttempt(context.Background(), nil, "sess-1", nil)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestSubmitAttempt_ReturnsInstantScoresAndTriggersPreview(t *testing.T) {
	attemptRepo := new(MockQuizAttemptRepo)
	svc, triggered := newAttemptTestService(t, attemptRepo)

	var created *entity.QuizAttempt
	attemptRepo.On("Create", mock.Anything).
		Run(func(args mock.Arguments) { created = args.Get(0).(*entity.QuizAttempt) }).
		Return(nil)

	attempt, instant, err := svc.SubmitAttempt(context.Background(), nil, "sess-42", testAnswers())
	require.NoError(t, err)
	require.NotNil(t, attempt)
	assert.NotEqual(t, uuid.Nil, attempt.ID)
	assert.Equal(t, "sess-42", attempt.SessionID)
	assert.Equal(t, created.ID, attempt.ID)

	// мгновенные баллы доступны сразу и не зависят от LLM
	require.NotNil(t, instant)
	assert.Equal(t, scoring.SourceAlgorithmic, instant.Source)
	assert.NotEmpty(t, instant.TopMatches)

	assert.Equal(t, attempt.ID, <-triggered)

	stored, err := attempt.Answers()
	require.NoError(t, err)
	assert.Equal(t, testAnswers().SuccessIncomeGoal, stored.SuccessIncomeGoal)
}

func TestSubmitAttempt_RepoErrorPropagates(t *testing.T) {
	attemptRepo := new(MockQuizAttemptRepo)
	svc, triggered := newAttemptTestService(t, attemptRepo)

	attemptRepo.On("Create", mock.Anything).Return(errors.New("connection reset"))

	_, _, err := svc.SubmitAttempt(context.Background(), nil, "sess-1", testAnswers())
	assert.Error(t, err)
	assert.Empty(t, triggered)
}

func TestAlgorithmicScores(t *testing.T) {
	attemptRepo := new(MockQuizAttemptRepo)
	svc, _ := newAttemptTestService(t, attemptRepo)

	id := uuid.New()
	attemptRepo.On("GetByID", id).Return(testAttempt(t, id), nil)

	analysis, err := svc.AlgorithmicScores(id)
	require.NoError(t, err)
	assert.Equal(t, scoring.SourceAlgorithmic, analysis.Source)
	assert.NotEmpty(t, analysis.TopMatches)
	for _, match := range analysis.TopMatches {
		assert.GreaterOrEqual(t, match.Score, 0)
		assert.LessOrEqual(t, match.Score, 100)
	}
}

func TestAlgorithmicScores_UnknownAttempt(t *testing.T) {
	attemptRepo := new(MockQuizAttemptRepo)
	svc, _ := newAttemptTestService(t, attemptRepo)

	id := uuid.New()
	attemptRepo.On("GetByID", id).Return(nil, apperrors.ErrNotFound)

	_, err := svc.AlgorithmicScores(id)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestListAttempts_ClampsPagination(t *testing.T) {
	attemptRepo := new(MockQuizAttemptRepo)
	svc, _ := newAttemptTestService(t, attemptRepo)

	attemptRepo.On("ListAll", 20, 0).Return([]entity.QuizAttempt{}, int64(0), nil)

	_, _, err := svc.ListAttempts(-5, -10)
	require.NoError(t, err)
	attemptRepo.AssertCalled(t, "ListAll", 20, 0)
}
