package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/utils/tests"

	mockcore "github.com/ditlabs/tokensale-crm/mocks/port/core"
)

func newDryRunDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(tests.DummyDialector{}, &gorm.Config{DryRun: true})
	require.NoError(t, err)
	return db
}

func TestUserRepository_RowLocking(t *testing.T) {
	fixedTime := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	timeProvider := mockcore.FrozenTimeProvider(fixedTime)
	logger := mockcore.RelaxedLogger()

	t.Run("Plain reads do not lock", func(t *testing.T) {
		repo := NewUserRepository(newDryRunDB(t), timeProvider, logger)

		q := repo.query(context.Background())
		_, found := q.Statement.Clauses["FOR"]
		assert.False(t, found)
	})

	t.Run("Transactional reads take FOR UPDATE", func(t *testing.T) {
		repo := NewUserRepository(newDryRunDB(t), timeProvider, logger).WithRowLocking()

		q := repo.query(context.Background())
		locking, found := q.Statement.Clauses["FOR"]
		require.True(t, found)

		expression, ok := locking.Expression.(clause.Locking)
		require.True(t, ok)
		assert.Equal(t, "UPDATE", string(expression.Strength))
	})

	t.Run("WithRowLocking leaves the original untouched", func(t *testing.T) {
		repo := NewUserRepository(newDryRunDB(t), timeProvider, logger)
		locked := repo.WithRowLocking()

		assert.True(t, locked.lockRows)
		assert.False(t, repo.lockRows)
	})
}
