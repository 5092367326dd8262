package services

import (
	"context"
	"log"
	"time"

	"tahfiz-portal/internal/adapters/persistence/repositories"
	"tahfiz-portal/internal/config"
	"tahfiz-portal/internal/core/domain"

	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
)

// CronService runs the payout digest and the dialog/session reaper
type CronService struct {
	cron        *cron.Cron
	jobs        config.JobsConfig
	withdrawals repositories.WithdrawalRepository
	payments    *PaymentService
	auth        *AuthService
	notifier    *NotificationService
}

// NewCronService creates a new cron service
func NewCronService(
	jobs config.JobsConfig,
	withdrawals repositories.WithdrawalRepository,
	payments *PaymentService,
	auth *AuthService,
	notifier *NotificationService,
) *CronService {
	return &CronService{
		cron:        cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger))),
		jobs:        jobs,
		withdrawals: withdrawals,
		payments:    payments,
		auth:        auth,
		notifier:    notifier,
	}
}

// Start registers both jobs and starts the scheduler
func (s *CronService) Start() error {
	if _, err := s.cron.AddFunc(s.jobs.PayoutDigestSchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if _, _, err := s.RunPayoutDigest(ctx); err != nil {
			log.Printf("❌ Payout digest failed: %v", err)
		}
	}); err != nil {
		return err
	}

	if _, err := s.cron.AddFunc(s.jobs.DialogReaperSchedule, func() {
		s.RunReaper()
	}); err != nil {
		return err
	}

	s.cron.Start()
	log.Printf("🚀 CronService started [digest=%q reaper=%q idle=%s]",
		s.jobs.PayoutDigestSchedule, s.jobs.DialogReaperSchedule, s.jobs.DialogIdleTTL)
	return nil
}

// Stop stops the scheduler and waits for running jobs
func (s *CronService) Stop() {
	<-s.cron.Stop().Done()
	log.Println("🛑 CronService stopped")
}

// RunPayoutDigest notifies admins of the pending withdrawals, if any
func (s *CronService) RunPayoutDigest(ctx context.Context) (int, decimal.Decimal, error) {
	all, err := s.withdrawals.List(ctx)
	if err != nil {
		return 0, decimal.Zero, err
	}

	count, total := 0, decimal.Zero
	for _, w := range all {
		if w.Status == domain.WithdrawalPending {
			count++
			total = total.Add(w.Amount)
		}
	}
	if count == 0 {
		return 0, total, nil
	}

	if err := s.notifier.NotifyPayoutDigest(ctx, count, total); err != nil {
		return count, total, err
	}
	log.Printf("✅ Payout digest sent: %d pending", count)
	return count, total, nil
}

// RunReaper closes idle payment dialogs and drops expired sessions
func (s *CronService) RunReaper() (dialogs, sessions int) {
	dialogs = s.payments.ReapIdle(s.jobs.DialogIdleTTL)
	sessions = s.auth.PurgeExpired()
	if dialogs > 0 || sessions > 0 {
		log.Printf("✅ Reaper: %d dialogs, %d sessions removed", dialogs, sessions)
	}
	return dialogs, sessions
}
