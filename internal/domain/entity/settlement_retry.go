package entity

import (
	"time"

	coreport "github.com/ditlabs/tokensale-crm/internal/domain/port/core"
)

// SettlementRetry queues a failed commission settlement for replay.
// Settlement is idempotent, so retrying a purchase that eventually settled
// (or that another path settled first) is harmless.
type SettlementRetry struct {
	ID                    uint64
	PurchaseTransactionID uint64
	Attempts              int
	LastError             string
	ResolvedAt            *time.Time
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// NewSettlementRetry creates a queue entry for the given purchase
func NewSettlementRetry(purchaseTxID uint64, cause string, timeProvider coreport.TimeProvider) *SettlementRetry {
	now := timeProvider.Now()
	return &SettlementRetry{
		PurchaseTransactionID: purchaseTxID,
		Attempts:              1,
		LastError:             cause,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
}

// RecordFailure increments the attempt counter and stores the latest error
func (r *SettlementRetry) RecordFailure(cause string, timeProvider coreport.TimeProvider) {
	r.Attempts++
	r.LastError = cause
	r.UpdatedAt = timeProvider.Now()
}

// Resolve marks the retry as settled
func (r *SettlementRetry) Resolve(timeProvider coreport.TimeProvider) {
	now := timeProvider.Now()
	r.ResolvedAt = &now
	r.UpdatedAt = now
}

// IsResolved reports whether the retry has completed
func (r *SettlementRetry) IsResolved() bool {
	return r.ResolvedAt != nil
}
