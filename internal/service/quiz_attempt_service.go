package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/bizfit-api/internal/domain/entity"
	"github.com/yourusername/bizfit-api/internal/domain/repository"
	apperrors "github.com/yourusername/bizfit-api/internal/pkg/errors"
	"github.com/yourusername/bizfit-api/internal/service/scoring"
)

// QuizAttemptService управляет попытками прохождения квиза.
// Отправка попытки сразу возвращает алгоритмические баллы (чистый расчёт,
// без I/O), а нарративный превью-контент генерируется асинхронно.
type QuizAttemptService struct {
	attemptRepo repository.QuizAttemptRepository
	contentSvc  *AIContentService
	scoringSvc  *scoring.Service

	previewTimeout time.Duration

	// triggerPreview подменяется в тестах
	triggerPreview func(attemptID uuid.UUID)
}

// NewQuizAttemptService создает сервис попыток квиза
func NewQuizAttemptService(
	attemptRepo repository.QuizAttemptRepository,
	contentSvc *AIContentService,
	scoringSvc *scoring.Service,
) *QuizAttemptService {
	s := &QuizAttemptService{
		attemptRepo:    attemptRepo,
		contentSvc:     contentSvc,
		scoringSvc:     scoringSvc,
		previewTimeout: 60 * time.Second,
	}
	s.triggerPreview = s.generatePreviewAsync
	return s
}

// SubmitAttempt сохраняет завершённую попытку и возвращает её вместе с
// мгновенными алгоритмическими баллами. Генерация превью запускается в
// фоне и не задерживает ответ.
func (s *QuizAttemptService) SubmitAttempt(ctx context.Context, userID *uint, sessionID string, answers *entity.QuizAnswers) (*entity.QuizAttempt, *scoring.ComprehensiveFitAnalysis, error) {
	if answers == nil {
		return nil, nil, fmt.Errorf("%w: quiz answers are required", apperrors.ErrValidation)
	}

	attempt := &entity.QuizAttempt{
		ID:          uuid.New(),
		UserID:      userID,
		SessionID:   sessionID,
		CompletedAt: time.Now(),
	}
	if err := attempt.SetAnswers(answers); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	if err := s.attemptRepo.Create(attempt); err != nil {
		return nil, nil, fmt.Errorf("failed to create quiz attempt: %w", err)
	}
	log.Printf("[AttemptService] Created quiz attempt %s (session %s)", attempt.ID, sessionID)

	instant := s.scoringSvc.AlgorithmicAnalysis(answers)

	// Превью генерируется вне контекста запроса: его отмена не должна
	// прерывать уже начатую генерацию
	go s.triggerPreview(attempt.ID)

	return attempt, instant, nil
}

func (s *QuizAttemptService) generatePreviewAsync(attemptID uuid.UUID) {
	ctx, cancel := context.WithTimeout(context.Background(), s.previewTimeout)
	defer cancel()
	if _, err := s.contentSvc.GetOrGenerate(ctx, attemptID, entity.ContentTypePreview); err != nil {
		log.Printf("[AttemptService] Async preview generation failed for %s: %v", attemptID, err)
	}
}

// GetAttempt возвращает попытку по идентификатору
func (s *QuizAttemptService) GetAttempt(id uuid.UUID) (*entity.QuizAttempt, error) {
	return s.attemptRepo.GetByID(id)
}

// AlgorithmicScores возвращает мгновенные алгоритмические баллы попытки.
// Доступны всегда: расчёт чистый и не зависит от LLM и кеша.
func (s *QuizAttemptService) AlgorithmicScores(id uuid.UUID) (*scoring.ComprehensiveFitAnalysis, error) {
	attempt, err := s.attemptRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	answers, err := attempt.Answers()
	if err != nil {
		return nil, err
	}
	return s.scoringSvc.AlgorithmicAnalysis(answers), nil
}

// ListAttempts возвращает страницу всех попыток (админ)
func (s *QuizAttemptService) ListAttempts(limit, offset int) ([]entity.QuizAttempt, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.attemptRepo.ListAll(limit, offset)
}

// ListUserAttempts возвращает страницу попыток пользователя
func (s *QuizAttemptService) ListUserAttempts(userID uint, limit, offset int) ([]entity.QuizAttempt, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.attemptRepo.ListByUser(userID, limit, offset)
}
