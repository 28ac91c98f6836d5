package scoring

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"
)

// ErrRateLimitExceeded возвращается, когда ожидание слота превысило бы
// допустимый предел. Для вызывающего это сигнал немедленного отката на
// алгоритмический путь, а не повода для повторных попыток.
var ErrRateLimitExceeded = errors.New("llm rate limit exceeded")

// RateLimiterConfig содержит настройки скользящего окна
type RateLimiterConfig struct {
	// MaxRequests — максимальное количество запросов за Window
	MaxRequests int
	// Window — длина скользящего окна
	Window time.Duration
	// MaxWait — предел ожидания слота; требуемое ожидание сверх предела
	// завершается ErrRateLimitExceeded вместо зависания вызывающего
	MaxWait time.Duration
	// MaxHistory — жёсткий предел хранимой истории отметок времени
	MaxHistory int
	// CleanupInterval — период фоновой очистки устаревших отметок
	CleanupInterval time.Duration
}

// DefaultRateLimiterConfig возвращает конфигурацию по умолчанию:
// 20 запросов к LLM за 60 секунд
func DefaultRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		MaxRequests:     20,
		Window:          60 * time.Second,
		MaxWait:         3 * time.Second,
		MaxHistory:      100,
		CleanupInterval: 30 * time.Second,
	}
}

// RateLimiter — процессо-локальный ограничитель скорости обращений к LLM
// со скользящим окном. Создаётся явно и передаётся сервисам через DI;
// жизненный цикл: NewRateLimiter → WaitForSlot → Stop.
type RateLimiter struct {
	cfg RateLimiterConfig

	mu         sync.Mutex
	timestamps []time.Time

	// now и sleep подменяются в тестах детерминированными часами
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error

	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewRateLimiter создает ограничитель и запускает фоновую очистку
func NewRateLimiter(cfg RateLimiterConfig) *RateLimiter {
	if cfg.MaxRequests <= 0 {
		cfg.MaxRequests = 20
	}
	if cfg.Window <= 0 {
		cfg.Window = 60 * time.Second
	}
	if cfg.MaxHistory < cfg.MaxRequests {
		cfg.MaxHistory = cfg.MaxRequests * 5
	}
	r := &RateLimiter{
		cfg:    cfg,
		now:    time.Now,
		sleep:  sleepCtx,
		stopCh: make(chan struct{}),
	}
	if cfg.CleanupInterval > 0 {
		go r.cleanupLoop()
	}
	return r
}

// WaitForSlot блокирует вызывающего до появления свободного слота.
// Если требуемое ожидание превышает MaxWait — ErrRateLimitExceeded.
// Отмена контекста прерывает ожидание с его ошибкой.
func (r *RateLimiter) WaitForSlot(ctx context.Context) error {
	for {
		r.mu.Lock()
		now := r.now()
		r.pruneLocked(now)

		if len(r.timestamps) < r.cfg.MaxRequests {
			r.timestamps = append(r.timestamps, now)
			r.capHistoryLocked()
			r.mu.Unlock()
			return nil
		}

		// Слот освободится, когда самая старая отметка выйдет из окна
		wait := r.timestamps[0].Add(r.cfg.Window).Sub(now)
		r.mu.Unlock()

		if wait > r.cfg.MaxWait {
			log.Printf("[RateLimiter] Required wait %v exceeds cap %v, rejecting", wait, r.cfg.MaxWait)
			return ErrRateLimitExceeded
		}
		if err := r.sleep(ctx, wait); err != nil {
			return err
		}
	}
}

// Stop останавливает фоновую очистку
func (r *RateLimiter) Stop() {
	r.stopOnce.Do(func() {
		close(r.stopCh)
	})
}

// pruneLocked удаляет отметки старше окна; вызывается под мьютексом
func (r *RateLimiter) pruneLocked(now time.Time) {
	cutoff := now.Add(-r.cfg.Window)
	keep := 0
	for keep < len(r.timestamps) && !r.timestamps[keep].After(cutoff) {
		keep++
	}
	if keep > 0 {
		r.timestamps = append(r.timestamps[:0], r.timestamps[keep:]...)
	}
}

// capHistoryLocked ограничивает размер истории, отбрасывая самые старые отметки
func (r *RateLimiter) capHistoryLocked() {
	if len(r.timestamps) > r.cfg.MaxHistory {
		excess := len(r.timestamps) - r.cfg.MaxHistory
		r.timestamps = append(r.timestamps[:0], r.timestamps[excess:]...)
	}
}

// cleanupLoop периодически чистит историю независимо от входящих запросов
func (r *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(r.cfg.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.mu.Lock()
			r.pruneLocked(r.now())
			r.capHistoryLocked()
			r.mu.Unlock()
		case <-r.stopCh:
			return
		}
	}
}

// sleepCtx ждёт d с учётом отмены контекста
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
