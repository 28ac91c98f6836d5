package scoring

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock — детерминированные часы для тестов лимитера
type fakeClock struct {
	current time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.current
}

func (c *fakeClock) Advance(d time.Duration) {
	c.current = c.current.Add(d)
}

// newTestLimiter создает лимитер с подменёнными часами и записью ожиданий
func newTestLimiter(cfg RateLimiterConfig, clock *fakeClock) (*RateLimiter, *[]time.Duration) {
	cfg.CleanupInterval = 0 // без фоновой горутины в тестах
	r := NewRateLimiter(cfg)
	r.now = clock.Now

	var sleeps []time.Duration
	r.sleep = func(ctx context.Context, d time.Duration) error {
		sleeps = append(sleeps, d)
		clock.Advance(d)
		return nil
	}
	return r, &sleeps
}

func TestRateLimiter_AllowsUpToLimitWithoutDelay(t *testing.T) {
	clock := &fakeClock{current: time.Unix(1000, 0)}
	limiter, sleeps := newTestLimiter(RateLimiterConfig{
		MaxRequests: 20,
		Window:      60 * time.Second,
		MaxWait:     3 * time.Second,
	}, clock)
	defer limiter.Stop()

	for i := 0; i < 20; i++ {
		require.NoError(t, limiter.WaitForSlot(context.Background()), "request %d", i+1)
	}
	assert.Empty(t, *sleeps, "no request under the limit should wait")
}

func TestRateLimiter_RejectsWhenWaitExceedsCap(t *testing.T) {
	clock := &fakeClock{current: time.Unix(1000, 0)}
	limiter, _ := newTestLimiter(RateLimiterConfig{
		MaxRequests: 20,
		Window:      60 * time.Second,
		MaxWait:     3 * time.Second,
	}, clock)
	defer limiter.Stop()

	for i := 0; i < 20; i++ {
		require.NoError(t, limiter.WaitForSlot(context.Background()))
	}

	// Окно заполнено только что: ждать пришлось бы ~60 секунд
	err := limiter.WaitForSlot(context.Background())
	assert.ErrorIs(t, err, ErrRateLimitExceeded)
}

func TestRateLimiter_WaitsWhenSlotIsNear(t *testing.T) {
	clock := &fakeClock{current: time.Unix(1000, 0)}
	limiter, sleeps := newTestLimiter(RateLimiterConfig{
		MaxRequests: 2,
		Window:      60 * time.Second,
		MaxWait:     3 * time.Second,
	}, clock)
	defer limiter.Stop()

	require.NoError(t, limiter.WaitForSlot(context.Background()))
	clock.Advance(58 * time.Second)
	require.NoError(t, limiter.WaitForSlot(context.Background()))

	// Старейшая отметка выйдет из окна через 2 секунды — ждём, не отказываем
	require.NoError(t, limiter.WaitForSlot(context.Background()))
	require.Len(t, *sleeps, 1)
	assert.Equal(t, 2*time.Second, (*sleeps)[0])
}

func TestRateLimiter_WindowSlides(t *testing.T) {
	clock := &fakeClock{current: time.Unix(1000, 0)}
	limiter, sleeps := newTestLimiter(RateLimiterConfig{
		MaxRequests: 20,
		Window:      60 * time.Second,
		MaxWait:     3 * time.Second,
	}, clock)
	defer limiter.Stop()

	for i := 0; i < 20; i++ {
		require.NoError(t, limiter.WaitForSlot(context.Background()))
	}

	// Спустя окно все отметки устаревают и лимит доступен заново
	clock.Advance(61 * time.Second)
	for i := 0; i < 20; i++ {
		require.NoError(t, limiter.WaitForSlot(context.Background()))
	}
	assert.Empty(t, *sleeps)
}

func TestRateLimiter_ContextCancelInterruptsWait(t *testing.T) {
	clock := &fakeClock{current: time.Unix(1000, 0)}
	limiter, _ := newTestLimiter(RateLimiterConfig{
		MaxRequests: 1,
		Window:      60 * time.Second,
		MaxWait:     3 * time.Second,
	}, clock)
	defer limiter.Stop()

	require.NoError(t, limiter.WaitForSlot(context.Background()))
	clock.Advance(59 * time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	limiter.sleep = func(ctx context.Context, d time.Duration) error {
		cancel()
		return ctx.Err()
	}
	err := limiter.WaitForSlot(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRateLimiter_HistoryCapped(t *testing.T) {
	clock := &fakeClock{current: time.Unix(1000, 0)}
	limiter, _ := newTestLimiter(RateLimiterConfig{
		MaxRequests: 5,
		Window:      60 * time.Second,
		MaxWait:     3 * time.Second,
		MaxHistory:  5,
	}, clock)
	defer limiter.Stop()

	// Много запросов с большими интервалами: история не растёт безгранично
	for i := 0; i < 50; i++ {
		require.NoError(t, limiter.WaitForSlot(context.Background()))
		clock.Advance(30 * time.Second)
	}
	limiter.mu.Lock()
	defer limiter.mu.Unlock()
	assert.LessOrEqual(t, len(limiter.timestamps), 5)
}
