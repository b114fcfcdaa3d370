package outbox

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/lifeos/backend/internal/domain/shared"
)

// Handler delivers one kind of side effect
type Handler interface {
	Handle(ctx context.Context, entry *shared.OutboxEntry) error
}

// HandlerFunc adapts a function to the Handler interface
type HandlerFunc func(ctx context.Context, entry *shared.OutboxEntry) error

// Handle implements Handler
func (f HandlerFunc) Handle(ctx context.Context, entry *shared.OutboxEntry) error {
	return f(ctx, entry)
}

// Config holds outbox processor configuration
type Config struct {
	BatchSize        int
	PollInterval     time.Duration
	CleanupEnabled   bool
	CleanupRetention time.Duration
}

// Processor polls the outbox table and delivers due entries. Failed
// deliveries are rescheduled with exponential backoff; entries that exhaust
// their retries go dead and stay in the table for inspection.
type Processor struct {
	repo     shared.OutboxRepository
	handlers map[shared.SideEffectKind]Handler
	config   Config
	logger   *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewProcessor creates an outbox processor
func NewProcessor(repo shared.OutboxRepository, config Config, logger *zap.Logger) *Processor {
	if config.BatchSize <= 0 {
		config.BatchSize = 50
	}
	if config.PollInterval <= 0 {
		config.PollInterval = 15 * time.Second
	}
	return &Processor{
		repo:     repo,
		handlers: make(map[shared.SideEffectKind]Handler),
		config:   config,
		logger:   logger.Named("outbox"),
	}
}

// Register installs the handler for a side-effect kind
func (p *Processor) Register(kind shared.SideEffectKind, h Handler) {
	p.handlers[kind] = h
}

// Start begins the poll loop
func (p *Processor) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.isRunning {
		p.mu.Unlock()
		return nil
	}
	p.isRunning = true
	p.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	p.wg.Add(1)
	go p.runLoop(ctx)

	p.logger.Info("Outbox processor started",
		zap.Int("batch_size", p.config.BatchSize),
		zap.Duration("poll_interval", p.config.PollInterval),
	)
	return nil
}

// Stop stops the poll loop and waits for in-flight deliveries
func (p *Processor) Stop() {
	p.mu.Lock()
	if !p.isRunning {
		p.mu.Unlock()
		return
	}
	p.isRunning = false
	p.mu.Unlock()

	if p.cancel != nil {
		p.cancel()
	}
	p.wg.Wait()
	p.logger.Info("Outbox processor stopped")
}

func (p *Processor) runLoop(ctx context.Context) {
	defer p.wg.Done()

	ticker := time.NewTicker(p.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := p.ProcessBatch(ctx); err != nil {
				p.logger.Error("Outbox batch failed", zap.Error(err))
			}
			if p.config.CleanupEnabled {
				p.cleanup(ctx)
			}
		}
	}
}

// ProcessBatch delivers one batch of due entries and returns how many were
// attempted. Exposed so the cron endpoint can drive processing on demand.
func (p *Processor) ProcessBatch(ctx context.Context) (int, error) {
	entries, err := p.repo.FindDue(ctx, time.Now(), p.config.BatchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to load due entries: %w", err)
	}

	for i := range entries {
		entry := &entries[i]
		p.deliver(ctx, entry)
	}
	return len(entries), nil
}

func (p *Processor) deliver(ctx context.Context, entry *shared.OutboxEntry) {
	log := p.logger.With(
		zap.String("entry_id", entry.ID.String()),
		zap.String("kind", string(entry.Kind)),
		zap.Int("retry_count", entry.RetryCount),
	)

	if err := entry.MarkProcessing(); err != nil {
		log.Warn("Skipping entry in unexpected state", zap.Error(err))
		return
	}
	if err := p.repo.Save(ctx, entry); err != nil {
		log.Error("Failed to claim entry", zap.Error(err))
		return
	}

	handler, ok := p.handlers[entry.Kind]
	if !ok {
		entry.MarkFailed(fmt.Errorf("no handler for kind %q", entry.Kind))
		if err := p.repo.Save(ctx, entry); err != nil {
			log.Error("Failed to persist entry state", zap.Error(err))
		}
		return
	}

	if err := handler.Handle(ctx, entry); err != nil {
		entry.MarkFailed(err)
		if entry.Status == shared.OutboxStatusDead {
			log.Error("Entry exhausted retries", zap.Error(err))
		} else {
			log.Warn("Delivery failed, will retry", zap.Error(err),
				zap.Timep("next_retry_at", entry.NextRetryAt))
		}
	} else {
		entry.MarkSent()
		log.Debug("Entry delivered")
	}

	if err := p.repo.Save(ctx, entry); err != nil {
		log.Error("Failed to persist entry state", zap.Error(err))
	}
}

func (p *Processor) cleanup(ctx context.Context) {
	cutoff := time.Now().Add(-p.config.CleanupRetention)
	deleted, err := p.repo.DeleteSentBefore(ctx, cutoff)
	if err != nil {
		p.logger.Error("Outbox cleanup failed", zap.Error(err))
		return
	}
	if deleted > 0 {
		p.logger.Info("Pruned delivered outbox entries", zap.Int64("deleted", deleted))
	}
}
