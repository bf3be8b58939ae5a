package commission

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ditlabs/tokensale-crm/internal/domain/entity"
	errs "github.com/ditlabs/tokensale-crm/internal/domain/error"
	mockcore "github.com/ditlabs/tokensale-crm/mocks/port/core"
	mockpersistence "github.com/ditlabs/tokensale-crm/mocks/port/persistence"
)

func newRetryFixture(t *testing.T) (*RetryProcessor, *engineFixture, *mockpersistence.MockTransactionRepository) {
	t.Helper()

	fixture := newEngineFixture(t)
	lookupRepo := new(mockpersistence.MockTransactionRepository)
	fixedTime := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	processor := NewRetryProcessor(
		fixture.engine,
		fixture.retries,
		lookupRepo,
		mockcore.FrozenTimeProvider(fixedTime),
		mockcore.RelaxedLogger(),
	)
	return processor, fixture, lookupRepo
}

func TestRetryProcessor_EmptyQueue(t *testing.T) {
	processor, fixture, _ := newRetryFixture(t)

	fixture.retries.On("ListUnresolved", mock.Anything, mock.Anything).
		Return([]*entity.SettlementRetry{}, nil)

	resolved, err := processor.ProcessPending(context.Background())
	require.NoError(t, err)
	assert.Zero(t, resolved)
}

func TestRetryProcessor_ResolvesReplayedEntry(t *testing.T) {
	processor, fixture, lookupRepo := newRetryFixture(t)
	buyer := &entity.User{ID: 7, Name: "Organic"} // no referrer: settle is a no-op
	purchase := completedPurchase(buyer.ID)
	entry := &entity.SettlementRetry{PurchaseTransactionID: purchase.ID, Attempts: 1}

	fixture.retries.On("ListUnresolved", mock.Anything, mock.Anything).
		Return([]*entity.SettlementRetry{entry}, nil)
	lookupRepo.On("GetByID", mock.Anything, purchase.ID).Return(purchase, nil)
	fixture.users.On("GetByID", mock.Anything, buyer.ID).Return(buyer, nil)
	fixture.retries.On("Update", mock.Anything, entry).Return(nil)

	resolved, err := processor.ProcessPending(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, resolved)
	assert.True(t, entry.IsResolved())
}

func TestRetryProcessor_KeepsFailingEntryInQueue(t *testing.T) {
	processor, fixture, lookupRepo := newRetryFixture(t)
	entry := &entity.SettlementRetry{PurchaseTransactionID: 42, Attempts: 1}

	fixture.retries.On("ListUnresolved", mock.Anything, mock.Anything).
		Return([]*entity.SettlementRetry{entry}, nil)
	lookupRepo.On("GetByID", mock.Anything, uint64(42)).
		Return(nil, errors.New("connection reset"))
	fixture.retries.On("Update", mock.Anything, entry).Return(nil)

	resolved, err := processor.ProcessPending(context.Background())
	require.NoError(t, err)
	assert.Zero(t, resolved)
	assert.False(t, entry.IsResolved())
	assert.Equal(t, 2, entry.Attempts)
	assert.Equal(t, "connection reset", entry.LastError)
}

func TestRetryProcessor_ResolvesEntryForVanishedPurchase(t *testing.T) {
	processor, fixture, lookupRepo := newRetryFixture(t)
	entry := &entity.SettlementRetry{PurchaseTransactionID: 42, Attempts: 3}

	fixture.retries.On("ListUnresolved", mock.Anything, mock.Anything).
		Return([]*entity.SettlementRetry{entry}, nil)
	lookupRepo.On("GetByID", mock.Anything, uint64(42)).
		Return(nil, errs.ErrTransactionNotFound)
	fixture.retries.On("Update", mock.Anything, entry).Return(nil)

	resolved, err := processor.ProcessPending(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, resolved)
	assert.True(t, entry.IsResolved())
}

func TestRetryProcessor_QueueLookupFailure(t *testing.T) {
	processor, fixture, _ := newRetryFixture(t)

	fixture.retries.On("ListUnresolved", mock.Anything, mock.Anything).
		Return(nil, errors.New("connection reset"))

	_, err := processor.ProcessPending(context.Background())
	assert.Error(t, err)
}
