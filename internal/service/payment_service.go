package service

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/bizfit-api/internal/domain/entity"
	"github.com/yourusername/bizfit-api/internal/domain/repository"
	apperrors "github.com/yourusername/bizfit-api/internal/pkg/errors"
)

// PaymentService фиксирует оплату полных отчётов. Сама обработка платежей
// живёт во внешней платёжной подсистеме; сюда приходит только подтверждение
// через вебхук.
type PaymentService struct {
	unlockRepo  repository.ReportUnlockRepository
	attemptRepo repository.QuizAttemptRepository
}

// NewPaymentService создает сервис платежей
func NewPaymentService(unlockRepo repository.ReportUnlockRepository, attemptRepo repository.QuizAttemptRepository) *PaymentService {
	return &PaymentService{unlockRepo: unlockRepo, attemptRepo: attemptRepo}
}

// RecordUnlock сохраняет факт оплаты отчёта по попытке. Повторное
// подтверждение того же платежа безопасно: запись на попытку одна.
func (s *PaymentService) RecordUnlock(attemptID uuid.UUID, provider, externalRef string) error {
	if provider != "stripe" && provider != "paypal" {
		return fmt.Errorf("%w: unknown payment provider %q", apperrors.ErrValidation, provider)
	}
	if _, err := s.attemptRepo.GetByID(attemptID); err != nil {
		return err
	}

	unlock := &entity.ReportUnlock{
		QuizAttemptID: attemptID,
		Provider:      provider,
		ExternalRef:   externalRef,
		PaidAt:        time.Now(),
	}
	if err := s.unlockRepo.Create(unlock); err != nil {
		return fmt.Errorf("failed to record report unlock: %w", err)
	}
	log.Printf("[PaymentService] Report unlocked for attempt %s via %s", attemptID, provider)
	return nil
}

// IsUnlocked сообщает, оплачен ли полный отчёт по попытке
func (s *PaymentService) IsUnlocked(attemptID uuid.UUID) (bool, error) {
	return s.unlockRepo.ExistsByAttempt(attemptID)
}
