package mockpersistence

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/ditlabs/tokensale-crm/internal/domain/entity"
)

// MockTokenPriceRepository is a testify mock for the
// persistence.TokenPriceRepository port
type MockTokenPriceRepository struct {
	mock.Mock
}

func (m *MockTokenPriceRepository) Upsert(ctx context.Context, price *entity.TokenPrice) error {
	args := m.Called(ctx, price)
	return args.Error(0)
}

func (m *MockTokenPriceRepository) GetForDay(ctx context.Context, day time.Time) (*entity.TokenPrice, error) {
	args := m.Called(ctx, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.TokenPrice), args.Error(1)
}

func (m *MockTokenPriceRepository) GetLatest(ctx context.Context) (*entity.TokenPrice, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.TokenPrice), args.Error(1)
}
