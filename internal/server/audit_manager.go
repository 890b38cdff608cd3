package server

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// AuditManager batches audit entries and writes them to the logger from a
// small worker pool, off the request path.
type AuditManager struct {
	workerCount int
	batchSize   int
	timeout     time.Duration
	logger      *zap.Logger

	inputChan  chan AuditLogEntry
	batchChan  chan []AuditLogEntry
	shutdownCh chan struct{}
	once       sync.Once

	wg           sync.WaitGroup
	pendingMu    sync.Mutex
	pendingCount int
}

func NewAuditManager(workerCount, batchSize int, timeout time.Duration, logger *zap.Logger) *AuditManager {
	return &AuditManager{
		workerCount: workerCount,
		batchSize:   batchSize,
		timeout:     timeout,
		logger:      logger,
		inputChan:   make(chan AuditLogEntry, workerCount*batchSize*2),
		batchChan:   make(chan []AuditLogEntry, workerCount*2),
		shutdownCh:  make(chan struct{}),
	}
}

func (m *AuditManager) Start(ctx context.Context) {
	m.logger.Info("starting audit manager", zap.Int("workers", m.workerCount), zap.Int("batch_size", m.batchSize))
	m.wg.Add(1)
	go m.runAggregator(ctx)

	for i := 0; i < m.workerCount; i++ {
		m.wg.Add(1)
		go m.runWorker(ctx, i)
	}

	go m.monitorShutdown(ctx)
}

func (m *AuditManager) Shutdown(ctx context.Context) {
	m.once.Do(func() {
		m.logger.Info("initiating audit manager shutdown")
		close(m.shutdownCh)

		done := make(chan struct{})
		go func() {
			m.wg.Wait()
			close(done)
		}()

		select {
		case <-done:
			m.logger.Info("audit manager shutdown completed", zap.Int("pending", m.Pending()))
		case <-ctx.Done():
			m.logger.Warn("audit manager shutdown interrupted", zap.Int("pending", m.Pending()))
		}
	})
}

func (m *AuditManager) monitorShutdown(ctx context.Context) {
	select {
	case <-ctx.Done():
		m.Shutdown(context.Background())
	case <-m.shutdownCh:
	}
}

// LogEntry queues entry. When the queue is full and the request is gone
// the entry is written directly.
func (m *AuditManager) LogEntry(ctx context.Context, entry AuditLogEntry) {
	m.updatePendingCount(1)

	select {
	case <-m.shutdownCh:
		m.emergencyLog(entry)
		return
	default:
	}

	select {
	case m.inputChan <- entry:
	case <-m.shutdownCh:
		m.emergencyLog(entry)
	case <-ctx.Done():
		m.emergencyLog(entry)
	}
}

// Pending is the number of entries accepted but not yet written.
func (m *AuditManager) Pending() int {
	m.pendingMu.Lock()
	defer m.pendingMu.Unlock()
	return m.pendingCount
}

func (m *AuditManager) runAggregator(ctx context.Context) {
	defer m.wg.Done()

	var (
		batch    []AuditLogEntry
		timer    *time.Timer
		timeoutC <-chan time.Time
	)

	defer func() {
		if timer != nil {
			timer.Stop()
		}
		// drain what is already queued
		for {
			select {
			case entry := <-m.inputChan:
				batch = append(batch, entry)
				continue
			default:
			}
			break
		}
		if len(batch) > 0 {
			m.dispatchBatch(batch)
		}
		close(m.batchChan)
	}()

	for {
		select {
		case entry := <-m.inputChan:
			batch = append(batch, entry)
			if len(batch) >= m.batchSize {
				m.dispatchBatch(batch)
				batch = nil
				timeoutC = nil
			} else if len(batch) == 1 {
				timer = time.NewTimer(m.timeout)
				timeoutC = timer.C
			}

		case <-timeoutC:
			m.dispatchBatch(batch)
			batch = nil
			timeoutC = nil

		case <-ctx.Done():
			return

		case <-m.shutdownCh:
			return
		}
	}
}

func (m *AuditManager) dispatchBatch(batch []AuditLogEntry) {
	batchCopy := make([]AuditLogEntry, len(batch))
	copy(batchCopy, batch)

	select {
	case m.batchChan <- batchCopy:
	default:
		m.writeBatch(-1, batchCopy)
	}
}

func (m *AuditManager) runWorker(ctx context.Context, id int) {
	defer m.wg.Done()

	// batchChan is closed by the aggregator on every exit path
	for batch := range m.batchChan {
		m.writeBatch(id, batch)
	}
}

func (m *AuditManager) emergencyLog(entry AuditLogEntry) {
	m.logger.Warn("audit entry written directly", auditFields(entry)...)
	m.updatePendingCount(-1)
}

func (m *AuditManager) writeBatch(workerID int, batch []AuditLogEntry) {
	for _, entry := range batch {
		fields := append(auditFields(entry), zap.Int("worker", workerID))
		m.logger.Info("admin request", fields...)
	}
	m.updatePendingCount(-len(batch))
}

func (m *AuditManager) updatePendingCount(delta int) {
	m.pendingMu.Lock()
	defer m.pendingMu.Unlock()
	m.pendingCount += delta
}

func auditFields(e AuditLogEntry) []zap.Field {
	return []zap.Field{
		zap.Time("timestamp", e.Timestamp),
		zap.String("handler", e.Handler),
		zap.String("method", e.Method),
		zap.String("path", e.Path),
		zap.Int("status_code", e.StatusCode),
		zap.Duration("duration", e.Duration),
		zap.String("actor", e.Actor),
		zap.String("return_id", e.ReturnID),
		zap.String("action", e.Action),
		zap.String("old_status", e.OldStatus),
		zap.String("new_status", e.NewStatus),
		zap.String("request", e.Request),
		zap.String("response", e.Response),
	}
}
