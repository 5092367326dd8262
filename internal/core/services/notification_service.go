package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"tahfiz-portal/internal/adapters/persistence/repositories"
	"tahfiz-portal/internal/core/domain"
	"tahfiz-portal/internal/pkg/format"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultInboxSize is the number of notifications kept per identity
const DefaultInboxSize = 50

// Notification is one inbox entry
type Notification struct {
	ID          string    `json:"id"`
	RecipientID string    `json:"recipient_id"`
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	CreatedAt   time.Time `json:"created_at"`
}

// NotificationService keeps a bounded in-memory inbox per identity
type NotificationService struct {
	identities repositories.IdentityRepository
	limit      int

	mu    sync.RWMutex
	inbox map[string][]Notification
	now   func() time.Time
}

// NewNotificationService creates a new notification service
func NewNotificationService(identities repositories.IdentityRepository) *NotificationService {
	return &NotificationService{
		identities: identities,
		limit:      DefaultInboxSize,
		inbox:      make(map[string][]Notification),
		now:        time.Now,
	}
}

// Notify appends a notification to one inbox, dropping the oldest entry when full
func (s *NotificationService) Notify(recipientID, title, body string) Notification {
	n := Notification{
		ID:          uuid.NewString(),
		RecipientID: recipientID,
		Title:       title,
		Body:        body,
		CreatedAt:   s.now(),
	}

	s.mu.Lock()
	box := append(s.inbox[recipientID], n)
	if len(box) > s.limit {
		box = box[len(box)-s.limit:]
	}
	s.inbox[recipientID] = box
	s.mu.Unlock()

	log.Printf("🔔 [%s] %s: %s", recipientID, title, body)
	return n
}

// NotifyRole sends the same notification to every identity of a role
func (s *NotificationService) NotifyRole(ctx context.Context, role domain.Role, title, body string) error {
	recipients, err := s.identities.ListByRole(ctx, role)
	if err != nil {
		return err
	}
	for _, r := range recipients {
		s.Notify(r.ID, title, body)
	}
	return nil
}

// Inbox returns the notifications of one identity, newest first
func (s *NotificationService) Inbox(recipientID string) []Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()

	box := s.inbox[recipientID]
	out := make([]Notification, 0, len(box))
	for i := len(box) - 1; i >= 0; i-- {
		out = append(out, box[i])
	}
	return out
}

// NotifyWithdrawalRequested tells admins about a new payout request
func (s *NotificationService) NotifyWithdrawalRequested(ctx context.Context, w *domain.Withdrawal, teacherName string) {
	body := fmt.Sprintf("%s memohon pengeluaran %s ke %s.", teacherName, format.Money(w.Amount), w.Bank)
	if err := s.NotifyRole(ctx, domain.RoleAdmin, "Permohonan pengeluaran baru", body); err != nil {
		log.Printf("⚠️ Failed to notify admins of withdrawal %s: %v", w.ID, err)
	}
}

// NotifyWithdrawalResolved tells the teacher how the request ended
func (s *NotificationService) NotifyWithdrawalResolved(w *domain.Withdrawal) {
	title := "Pengeluaran diluluskan"
	if w.Status == domain.WithdrawalRejected {
		title = "Pengeluaran ditolak"
	}
	body := fmt.Sprintf("Permohonan %s pada %s kini %s.", format.Money(w.Amount), format.Date(w.Date), w.Status)
	if w.Note != "" {
		body += " Catatan: " + w.Note
	}
	s.Notify(w.UstazID, title, body)
}

// NotifyPaymentSucceeded confirms a settled fee to the parent
func (s *NotificationService) NotifyPaymentSucceeded(parentID string, p *domain.Payment) {
	body := fmt.Sprintf("Pembayaran %s menggunakan %s berjaya. Terima kasih.", format.Money(p.Amount), p.Method)
	s.Notify(parentID, "Pembayaran berjaya", body)
}

// NotifyPayoutDigest summarises pending payouts for admins
func (s *NotificationService) NotifyPayoutDigest(ctx context.Context, count int, total decimal.Decimal) error {
	body := fmt.Sprintf("%d permohonan pengeluaran menunggu kelulusan (%s).", count, format.Money(total))
	return s.NotifyRole(ctx, domain.RoleAdmin, "Ringkasan pengeluaran", body)
}
