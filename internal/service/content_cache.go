package service

import (
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/bizfit-api/internal/domain/entity"
	"github.com/yourusername/bizfit-api/internal/domain/repository"
	apperrors "github.com/yourusername/bizfit-api/internal/pkg/errors"
)

// ContentCache — кеш сгенерированного контента по паре
// (попытка, тип контента). Каскад: Redis → Postgres → генерация на
// стороне вызывающего; Store записывает в оба уровня, Postgres — источник
// истины.
type ContentCache interface {
	// Lookup возвращает сохранённый контент или nil при промахе.
	// Ошибки хранилищ трактуются как промах: лучше лишняя генерация,
	// чем отказ.
	Lookup(attemptID uuid.UUID, contentType string) *entity.AIContent

	// Store сохраняет контент в Postgres (upsert, последняя запись
	// выигрывает) и прогревает Redis. Ошибка Redis не фатальна.
	Store(record *entity.AIContent) error

	// ListByAttempt возвращает весь сохранённый контент попытки
	ListByAttempt(attemptID uuid.UUID) ([]entity.AIContent, error)
}

// twoTierContentCache реализует ContentCache поверх Redis и Postgres.
// Найденная в Postgres запись прогревает Redis.
type twoTierContentCache struct {
	cacheRepo   repository.CacheRepository
	contentRepo repository.AIContentRepository
	ttl         time.Duration
}

// NewContentCache создает двухуровневый кеш контента
func NewContentCache(cacheRepo repository.CacheRepository, contentRepo repository.AIContentRepository, ttl time.Duration) ContentCache {
	return &twoTierContentCache{
		cacheRepo:   cacheRepo,
		contentRepo: contentRepo,
		ttl:         ttl,
	}
}

func (c *twoTierContentCache) Lookup(attemptID uuid.UUID, contentType string) *entity.AIContent {
	key := contentCacheKey(attemptID, contentType)

	var cached entity.AIContent
	if err := c.cacheRepo.GetJSON(key, &cached); err == nil && len(cached.Content) > 0 {
		return &cached
	}

	stored, err := c.contentRepo.GetByAttemptAndType(attemptID, contentType)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			log.Printf("[ContentCache] Lookup failed for %s/%s: %v", attemptID, contentType, err)
		}
		return nil
	}
	if err := c.cacheRepo.SetJSON(key, stored, c.ttl); err != nil {
		log.Printf("[ContentCache] Failed to warm redis for %s/%s: %v", attemptID, contentType, err)
	}
	return stored
}

func (c *twoTierContentCache) Store(record *entity.AIContent) error {
	if err := c.contentRepo.Upsert(record); err != nil {
		return err
	}
	key := contentCacheKey(record.QuizAttemptID, record.ContentType)
	if err := c.cacheRepo.SetJSON(key, record, c.ttl); err != nil {
		log.Printf("[ContentCache] Failed to cache content %s/%s: %v", record.QuizAttemptID, record.ContentType, err)
	}
	return nil
}

func (c *twoTierContentCache) ListByAttempt(attemptID uuid.UUID) ([]entity.AIContent, error) {
	return c.contentRepo.ListByAttempt(attemptID)
}
