package purchase

import (
	"context"

	"github.com/google/uuid"

	coreport "github.com/ditlabs/tokensale-crm/internal/domain/port/core"
	"github.com/ditlabs/tokensale-crm/internal/domain/port/notifier"
	"github.com/ditlabs/tokensale-crm/internal/domain/port/persistence"
	"github.com/ditlabs/tokensale-crm/internal/domain/usecase/commission"
	"github.com/ditlabs/tokensale-crm/internal/domain/usecase/pricing"
)

// Service implements all token purchase flows: user purchase requests, admin
// payment confirmation, admin manual deposits and balance purchases. Every
// path that completes a purchase hands it to the same commission engine.
type Service struct {
	uow          persistence.UnitOfWork
	userRepo     persistence.UserRepository
	pricing      *pricing.Service
	engine       *commission.Engine
	mailer       notifier.Mailer
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewService creates a purchase service
func NewService(
	uow persistence.UnitOfWork,
	userRepo persistence.UserRepository,
	pricingService *pricing.Service,
	engine *commission.Engine,
	mailer notifier.Mailer,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) *Service {
	return &Service{
		uow:          uow,
		userRepo:     userRepo,
		pricing:      pricingService,
		engine:       engine,
		mailer:       mailer,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// newReference issues a unique ledger reference with a flow prefix
func newReference(prefix string) string {
	return prefix + "-" + uuid.NewString()
}

// sendMail runs a mailer call and logs failures. Email delivery is best
// effort and never aborts or rolls back the surrounding work.
func (s *Service) sendMail(what string, fields map[string]any, send func() error) {
	if err := send(); err != nil {
		merged := map[string]any{"email": what, "error": err.Error()}
		for k, v := range fields {
			merged[k] = v
		}
		s.logger.Warn("Failed to send email", merged)
	}
}

// notifyAdmins emails the admin mailbox about a noteworthy event
func (s *Service) notifyAdmins(ctx context.Context, subject, message string) {
	s.sendMail("admin_alert", map[string]any{"subject": subject}, func() error {
		return s.mailer.SendAdminAlert(ctx, subject, message)
	})
}
