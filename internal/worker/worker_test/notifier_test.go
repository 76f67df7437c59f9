package worker_test

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vladislavprovich/familyhub/internal/worker"
	"github.com/vladislavprovich/familyhub/pkg/cache"
)

type mockSender struct {
	mock.Mock
}

func (m *mockSender) Send(ctx context.Context, n *worker.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func newTestNotifier(t *testing.T, config worker.NotifierConfig) (*worker.Notifier, *mockSender, cache.Service) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	sender := new(mockSender)
	store := cache.NewMemory(cache.Config{Capacity: 256, DefaultTTL: time.Minute})

	return worker.NewNotifier(logger, sender, store, config), sender, store
}

func defaultConfig() worker.NotifierConfig {
	return worker.NotifierConfig{
		MaxConcurrency:    4,
		RequestTimeout:    2 * time.Second,
		DedupTTL:          time.Minute,
		CircuitBreakerMax: 5,
	}
}

func TestNotifier_DeliversConcurrently(t *testing.T) {
	notifier, sender, _ := newTestNotifier(t, defaultConfig())

	sender.On("Send", mock.Anything, mock.Anything).Return(nil)

	ctx := context.Background()
	require.NoError(t, notifier.Start(ctx))
	defer func() { _ = notifier.Stop(ctx) }()

	const jobs = 20
	var wg sync.WaitGroup
	results := make([]*worker.NotificationResult, jobs)
	errs := make([]error, jobs)

	for i := 0; i < jobs; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = notifier.Submit(ctx, &worker.Notification{
				ID:        fmt.Sprintf("n%d", i),
				FamilyID:  "42",
				Event:     fmt.Sprintf("post_created_%d", i),
				Message:   "new post in the family feed",
				CreatedAt: time.Now(),
			})
		}(i)
	}
	wg.Wait()

	for i := 0; i < jobs; i++ {
		require.NoError(t, errs[i])
		assert.True(t, results[i].Delivered, "job %d", i)
	}

	sender.AssertNumberOfCalls(t, "Send", jobs)

	metrics := notifier.GetMetrics()
	assert.Equal(t, int64(jobs), metrics.Processed)
	assert.Equal(t, int64(jobs), metrics.Delivered)
	assert.Equal(t, int64(0), metrics.Failed)
	assert.Equal(t, int64(0), metrics.ActiveJobs)
}

func TestNotifier_DedupsSameEvent(t *testing.T) {
	notifier, sender, _ := newTestNotifier(t, defaultConfig())

	sender.On("Send", mock.Anything, mock.Anything).Return(nil)

	ctx := context.Background()
	require.NoError(t, notifier.Start(ctx))
	defer func() { _ = notifier.Stop(ctx) }()

	first, err := notifier.Submit(ctx, &worker.Notification{
		ID:       "n1",
		FamilyID: "42",
		Event:    "recipe_updated",
		Message:  "the pancake recipe changed",
	})
	require.NoError(t, err)
	assert.True(t, first.Delivered)

	second, err := notifier.Submit(ctx, &worker.Notification{
		ID:       "n2",
		FamilyID: "42",
		Event:    "recipe_updated",
		Message:  "the pancake recipe changed",
	})
	require.NoError(t, err)
	assert.True(t, second.Deduped)
	assert.False(t, second.Delivered)

	// A different family with the same event is not deduped.
	third, err := notifier.Submit(ctx, &worker.Notification{
		ID:       "n3",
		FamilyID: "99",
		Event:    "recipe_updated",
		Message:  "another family's recipe",
	})
	require.NoError(t, err)
	assert.True(t, third.Delivered)

	sender.AssertNumberOfCalls(t, "Send", 2)
}

func TestNotifier_DedupMarkerExpires(t *testing.T) {
	config := defaultConfig()
	config.DedupTTL = 50 * time.Millisecond
	notifier, sender, _ := newTestNotifier(t, config)

	sender.On("Send", mock.Anything, mock.Anything).Return(nil)

	ctx := context.Background()
	require.NoError(t, notifier.Start(ctx))
	defer func() { _ = notifier.Stop(ctx) }()

	job := func(id string) *worker.Notification {
		return &worker.Notification{ID: id, FamilyID: "42", Event: "poll_created", Message: "vote now"}
	}

	first, err := notifier.Submit(ctx, job("n1"))
	require.NoError(t, err)
	assert.True(t, first.Delivered)

	time.Sleep(80 * time.Millisecond)

	second, err := notifier.Submit(ctx, job("n2"))
	require.NoError(t, err)
	assert.True(t, second.Delivered, "marker past its TTL must not dedupe")

	sender.AssertNumberOfCalls(t, "Send", 2)
}

func TestNotifier_CircuitBreakerOpens(t *testing.T) {
	config := defaultConfig()
	config.CircuitBreakerMax = 3
	notifier, sender, _ := newTestNotifier(t, config)

	sender.On("Send", mock.Anything, mock.Anything).Return(errors.New("gateway down"))

	ctx := context.Background()
	require.NoError(t, notifier.Start(ctx))
	defer func() { _ = notifier.Stop(ctx) }()

	for i := 0; i < 3; i++ {
		result, err := notifier.Submit(ctx, &worker.Notification{
			ID:       fmt.Sprintf("n%d", i),
			FamilyID: "42",
			Event:    fmt.Sprintf("event_%d", i),
		})
		require.NoError(t, err)
		assert.False(t, result.Delivered)
	}

	assert.False(t, notifier.IsHealthy())

	result, err := notifier.Submit(ctx, &worker.Notification{
		ID:       "rejected",
		FamilyID: "42",
		Event:    "event_x",
	})
	require.NoError(t, err)
	assert.Equal(t, "circuit breaker is open", result.Error)

	sender.AssertNumberOfCalls(t, "Send", 3)
}

func TestNotifier_RequiresID(t *testing.T) {
	notifier, _, _ := newTestNotifier(t, defaultConfig())

	ctx := context.Background()
	require.NoError(t, notifier.Start(ctx))
	defer func() { _ = notifier.Stop(ctx) }()

	_, err := notifier.Submit(ctx, &worker.Notification{FamilyID: "42", Event: "e"})
	require.Error(t, err)
}

func TestNotifier_AbandonedJobStillProcessed(t *testing.T) {
	config := defaultConfig()
	config.MaxConcurrency = 1
	config.RequestTimeout = 100 * time.Millisecond
	notifier, sender, _ := newTestNotifier(t, config)

	// One slow delivery backs up the single-worker queue, so the second
	// submitter gives up waiting while its job is still queued.
	var delivered int64
	sender.On("Send", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
		time.Sleep(250 * time.Millisecond)
		atomic.AddInt64(&delivered, 1)
	}).Return(nil)

	ctx := context.Background()
	require.NoError(t, notifier.Start(ctx))
	defer func() { _ = notifier.Stop(ctx) }()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = notifier.Submit(ctx, &worker.Notification{ID: "n1", FamilyID: "42", Event: "e1"})
	}()

	time.Sleep(20 * time.Millisecond)

	_, err := notifier.Submit(ctx, &worker.Notification{ID: "n2", FamilyID: "42", Event: "e2"})
	require.Error(t, err, "the second submit should give up before the slow worker reaches its job")
	wg.Wait()

	// The abandoned job is still delivered; publishing its result must not
	// bring the pool down.
	require.Eventually(t, func() bool {
		return atomic.LoadInt64(&delivered) == 2
	}, 2*time.Second, 20*time.Millisecond, "the worker should drain the abandoned job")

	assert.True(t, notifier.IsHealthy())
}

func TestNotifier_SubmitAfterStop(t *testing.T) {
	notifier, _, _ := newTestNotifier(t, defaultConfig())

	ctx := context.Background()
	require.NoError(t, notifier.Start(ctx))
	require.NoError(t, notifier.Stop(ctx))

	_, err := notifier.Submit(ctx, &worker.Notification{ID: "n1", FamilyID: "42", Event: "e"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stopped")
}

func TestNotifier_GracefulStop(t *testing.T) {
	notifier, sender, _ := newTestNotifier(t, defaultConfig())

	sender.On("Send", mock.Anything, mock.Anything).Return(nil)

	ctx := context.Background()
	require.NoError(t, notifier.Start(ctx))

	_, err := notifier.Submit(ctx, &worker.Notification{ID: "n1", FamilyID: "42", Event: "e"})
	require.NoError(t, err)

	require.NoError(t, notifier.Stop(ctx))
	assert.False(t, notifier.IsHealthy())
}
