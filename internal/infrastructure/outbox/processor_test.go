package outbox

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/lifeos/backend/internal/domain/shared"
	"github.com/lifeos/backend/internal/infrastructure/persistence"
)

func setupOutboxTest(t *testing.T) shared.OutboxRepository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&shared.OutboxEntry{}))
	return persistence.NewGormOutboxRepository(db)
}

func TestProcessBatchDeliversPendingEntries(t *testing.T) {
	repo := setupOutboxTest(t)
	ctx := context.Background()

	entry, err := shared.NewEmailEntry(uuid.New(), shared.EmailPayload{
		To:      "jana@example.com",
		Subject: "Hi",
		HTML:    "<p>hello</p>",
	})
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, entry))

	var delivered []string
	p := NewProcessor(repo, Config{}, zap.NewNop())
	p.Register(shared.SideEffectEmail, HandlerFunc(func(ctx context.Context, e *shared.OutboxEntry) error {
		delivered = append(delivered, e.ID.String())
		return nil
	}))

	n, err := p.ProcessBatch(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, []string{entry.ID.String()}, delivered)

	stored, err := repo.FindByID(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, shared.OutboxStatusSent, stored.Status)
	assert.NotNil(t, stored.ProcessedAt)
}

func TestProcessBatchSchedulesRetryOnFailure(t *testing.T) {
	repo := setupOutboxTest(t)
	ctx := context.Background()

	entry := shared.NewOutboxEntry(uuid.New(), shared.SideEffectEmail, []byte(`{}`))
	require.NoError(t, repo.Save(ctx, entry))

	p := NewProcessor(repo, Config{}, zap.NewNop())
	p.Register(shared.SideEffectEmail, HandlerFunc(func(ctx context.Context, e *shared.OutboxEntry) error {
		return errors.New("provider down")
	}))

	_, err := p.ProcessBatch(ctx)
	require.NoError(t, err)

	stored, err := repo.FindByID(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, shared.OutboxStatusFailed, stored.Status)
	assert.Equal(t, 1, stored.RetryCount)
	require.NotNil(t, stored.NextRetryAt)
	assert.True(t, stored.NextRetryAt.After(time.Now()))

	// Not due again until the backoff elapses.
	n, err := p.ProcessBatch(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestProcessBatchGoesDeadAfterMaxRetries(t *testing.T) {
	repo := setupOutboxTest(t)
	ctx := context.Background()

	entry := shared.NewOutboxEntry(uuid.New(), shared.SideEffectEmail, []byte(`{}`))
	entry.RetryCount = shared.DefaultMaxRetries - 1
	require.NoError(t, repo.Save(ctx, entry))

	p := NewProcessor(repo, Config{}, zap.NewNop())
	p.Register(shared.SideEffectEmail, HandlerFunc(func(ctx context.Context, e *shared.OutboxEntry) error {
		return errors.New("still down")
	}))

	_, err := p.ProcessBatch(ctx)
	require.NoError(t, err)

	stored, err := repo.FindByID(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, shared.OutboxStatusDead, stored.Status)
}

func TestProcessBatchUnknownKindFails(t *testing.T) {
	repo := setupOutboxTest(t)
	ctx := context.Background()

	entry := shared.NewOutboxEntry(uuid.New(), shared.SideEffectKind("mystery"), []byte(`{}`))
	require.NoError(t, repo.Save(ctx, entry))

	p := NewProcessor(repo, Config{}, zap.NewNop())
	_, err := p.ProcessBatch(ctx)
	require.NoError(t, err)

	stored, err := repo.FindByID(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, shared.OutboxStatusFailed, stored.Status)
	assert.Contains(t, stored.LastError, "no handler")
}
