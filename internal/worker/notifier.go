package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vladislavprovich/familyhub/pkg/cache"
)

// Notification is one delivery job: an event that happened in a family,
// fanned out to that family's devices by the external gateway.
type Notification struct {
	ID         string                   `json:"id"`
	FamilyID   string                   `json:"family_id"`
	Event      string                   `json:"event"`
	Message    string                   `json:"message"`
	CreatedAt  time.Time                `json:"created_at"`
	ResultChan chan *NotificationResult `json:"-"`
}

type NotificationResult struct {
	ID          string        `json:"id"`
	Delivered   bool          `json:"delivered"`
	Deduped     bool          `json:"deduped"`
	Error       string        `json:"error,omitempty"`
	ProcessedAt time.Time     `json:"processed_at"`
	Duration    time.Duration `json:"duration"`
}

type NotifierMetrics struct {
	Processed          int64     `json:"processed"`
	Delivered          int64     `json:"delivered"`
	Deduped            int64     `json:"deduped"`
	Failed             int64     `json:"failed"`
	ActiveJobs         int64     `json:"active_jobs"`
	QueueSize          int64     `json:"queue_size"`
	CircuitBreakerOpen bool      `json:"circuit_breaker_open"`
	LastUpdated        time.Time `json:"last_updated"`
}

// Sender delivers notifications to the outside world (push gateway, email).
// Treated as a black box; failures open the circuit breaker.
type Sender interface {
	Send(ctx context.Context, n *Notification) error
}

// Notifier fans notification jobs out to a bounded worker pool. The shared
// cache holds short-TTL "notify_{familyID}_{event}" markers so the same event
// is not delivered twice within the dedup window, even when several services
// emit it concurrently.
type Notifier struct {
	logger *slog.Logger
	sender Sender
	cache  cache.Service
	config NotifierConfig

	jobQueue  chan *Notification
	wg        sync.WaitGroup
	mu        sync.RWMutex
	metricsMu sync.Mutex

	failureCount    int64
	circuitOpen     bool
	circuitOpenTime time.Time

	metrics atomic.Value // holds *NotifierMetrics

	ctx    context.Context
	cancel context.CancelFunc
}

const notifyPrefix = "notify"

func NewNotifier(logger *slog.Logger, sender Sender, store cache.Service, config NotifierConfig) *Notifier {
	if config.MaxConcurrency <= 0 {
		config.MaxConcurrency = 4
	}
	if config.RequestTimeout == 0 {
		config.RequestTimeout = 10 * time.Second
	}
	if config.DedupTTL == 0 {
		config.DedupTTL = 30 * time.Second
	}
	if config.CircuitBreakerMax <= 0 {
		config.CircuitBreakerMax = 10
	}

	ctx, cancel := context.WithCancel(context.Background())

	n := &Notifier{
		logger:   logger,
		sender:   sender,
		cache:    store,
		config:   config,
		jobQueue: make(chan *Notification, config.MaxConcurrency*2),
		ctx:      ctx,
		cancel:   cancel,
	}

	n.metrics.Store(&NotifierMetrics{LastUpdated: time.Now()})

	return n
}

func (n *Notifier) Start(_ context.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.logger.Info("starting notifier", "max_concurrency", n.config.MaxConcurrency)

	for i := 0; i < n.config.MaxConcurrency; i++ {
		n.wg.Add(1)
		go n.workerLoop(i)
	}

	if n.config.MetricsEnabled {
		n.wg.Add(1)
		go n.metricsLoop()
	}

	return nil
}

func (n *Notifier) Stop(_ context.Context) error {
	n.logger.Info("stopping notifier")

	// The queue is never closed: late Submit calls from detached goroutines
	// must fail with an error, not panic on a closed channel. Workers exit
	// through the cancelled context instead.
	n.cancel()
	n.wg.Wait()

	n.logger.Info("notifier stopped")
	return nil
}

// Submit queues a notification and waits for its result. A submitter that
// gives up waiting abandons the job; the worker still processes it and the
// buffered result channel is left to the garbage collector.
func (n *Notifier) Submit(ctx context.Context, job *Notification) (*NotificationResult, error) {
	if job.ID == "" {
		return nil, fmt.Errorf("notification ID is required")
	}

	if n.ctx.Err() != nil {
		return nil, fmt.Errorf("notifier is stopped")
	}

	if n.isCircuitOpen() {
		return &NotificationResult{
			ID:          job.ID,
			Delivered:   false,
			Error:       "circuit breaker is open",
			ProcessedAt: time.Now(),
		}, nil
	}

	job.ResultChan = make(chan *NotificationResult, 1)

	select {
	case n.jobQueue <- job:
	case <-n.ctx.Done():
		return nil, fmt.Errorf("notifier is stopped")
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(n.config.RequestTimeout):
		return nil, fmt.Errorf("timeout queuing notification")
	}

	select {
	case result := <-job.ResultChan:
		return result, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(n.config.RequestTimeout):
		return nil, fmt.Errorf("timeout waiting for result")
	}
}

func (n *Notifier) GetMetrics() *NotifierMetrics {
	if metrics, ok := n.metrics.Load().(*NotifierMetrics); ok {
		return metrics
	}
	return &NotifierMetrics{}
}

func (n *Notifier) IsHealthy() bool {
	return !n.isCircuitOpen() && n.ctx.Err() == nil
}

func (n *Notifier) workerLoop(id int) {
	defer n.wg.Done()

	n.logger.Debug("notifier worker started", "worker_id", id)

	for {
		select {
		case job := <-n.jobQueue:
			n.processJob(id, job)
		case <-n.ctx.Done():
			n.logger.Debug("notifier worker stopping - context cancelled", "worker_id", id)
			return
		}
	}
}

func (n *Notifier) processJob(workerID int, job *Notification) {
	startTime := time.Now()

	n.logger.Debug("processing notification",
		"worker_id", workerID,
		"notification_id", job.ID,
		"event", job.Event,
	)

	result := &NotificationResult{
		ID:          job.ID,
		ProcessedAt: time.Now(),
	}

	n.updateMetrics(func(m *NotifierMetrics) {
		m.ActiveJobs++
		m.Processed++
	})

	defer func() {
		result.Duration = time.Since(startTime)

		n.updateMetrics(func(m *NotifierMetrics) {
			m.ActiveJobs--
			switch {
			case result.Deduped:
				m.Deduped++
			case result.Delivered:
				m.Delivered++
			default:
				m.Failed++
			}
		})

		// The channel is buffered for exactly one result and only this
		// worker sends on it, so the send cannot block even when the
		// submitter already gave up.
		job.ResultChan <- result
	}()

	ctx, cancel := context.WithTimeout(context.Background(), n.config.RequestTimeout)
	defer cancel()

	// One delivery per family+event inside the dedup window.
	dedupKey := cache.Key(notifyPrefix, job.FamilyID, job.Event)
	if seen, err := n.cache.Exists(ctx, dedupKey); err == nil && seen {
		result.Deduped = true
		return
	}

	if err := n.sender.Send(ctx, job); err != nil {
		result.Error = err.Error()
		n.logger.Error("notification delivery failed", "notification_id", job.ID, "error", err)

		if atomic.AddInt64(&n.failureCount, 1) >= int64(n.config.CircuitBreakerMax) {
			n.openCircuitBreaker()
		}
		return
	}

	result.Delivered = true
	_ = n.cache.Set(ctx, dedupKey, job.ID, n.config.DedupTTL)

	atomic.StoreInt64(&n.failureCount, 0)
	n.closeCircuitBreaker()
}

func (n *Notifier) metricsLoop() {
	defer n.wg.Done()

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			n.updateMetrics(func(m *NotifierMetrics) {
				m.LastUpdated = time.Now()
				m.QueueSize = int64(len(n.jobQueue))
				m.CircuitBreakerOpen = n.isCircuitOpen()
			})
		case <-n.ctx.Done():
			return
		}
	}
}

func (n *Notifier) updateMetrics(updateFn func(*NotifierMetrics)) {
	n.metricsMu.Lock()
	defer n.metricsMu.Unlock()

	current := n.GetMetrics()
	updated := *current
	updateFn(&updated)
	n.metrics.Store(&updated)
}

func (n *Notifier) isCircuitOpen() bool {
	n.mu.RLock()
	defer n.mu.RUnlock()

	if !n.circuitOpen {
		return false
	}

	// The circuit resets itself after a cool-down minute.
	if time.Since(n.circuitOpenTime) > time.Minute {
		return false
	}

	return true
}

func (n *Notifier) openCircuitBreaker() {
	n.mu.Lock()
	defer n.mu.Unlock()

	if !n.circuitOpen {
		n.circuitOpen = true
		n.circuitOpenTime = time.Now()
		n.logger.Warn("circuit breaker opened due to delivery failures")
	}
}

func (n *Notifier) closeCircuitBreaker() {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.circuitOpen {
		n.circuitOpen = false
		n.logger.Info("circuit breaker closed")
	}
}
