package repositories

import (
	"context"
	"fmt"
	"log"

	"tahfiz-portal/internal/adapters/persistence/models"
	"tahfiz-portal/internal/core/domain"

	"gorm.io/gorm"
)

// NewGormStore creates a store backed by a gorm connection
func NewGormStore(db *gorm.DB) *Store {
	return &Store{
		Identities:   NewIdentityRepository(db),
		Students:     NewStudentRepository(db),
		Sessions:     NewSessionRepository(db),
		Payments:     NewPaymentRepository(db),
		Withdrawals:  NewWithdrawalRepository(db),
		SchoolConfig: NewSchoolConfigRepository(db),
		seed: func(ctx context.Context, f *Fixture) error {
			return seedGorm(ctx, db, f)
		},
	}
}

// seedGorm inserts the fixture once; an already seeded database is left alone
func seedGorm(ctx context.Context, db *gorm.DB, f *Fixture) error {
	if f == nil {
		return nil
	}

	var count int64
	if err := db.WithContext(ctx).Model(&models.Identity{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Printf("⚠️ Store already seeded (%d identities), skipping", count)
		return nil
	}

	for _, id := range f.Identities {
		if !id.Role.Valid() {
			return fmt.Errorf("identity %s: %w", id.ID, domain.ErrInvalidRole)
		}
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, i := range f.Identities {
			m := models.IdentityFromDomain(i)
			if err := tx.Create(&m).Error; err != nil {
				return fmt.Errorf("seed identity %s: %w", i.ID, err)
			}
		}
		for _, s := range f.Students {
			var parent models.Identity
			err := tx.Where("id = ? AND role = ?", s.ParentID, string(domain.RoleParent)).First(&parent).Error
			if err != nil {
				return notFound(err, "student %s: parent %s", s.ID, s.ParentID)
			}
			m := models.StudentFromDomain(s)
			if err := tx.Create(&m).Error; err != nil {
				return fmt.Errorf("seed student %s: %w", s.ID, err)
			}
		}
		for _, s := range f.Sessions {
			m := models.SessionFromDomain(s)
			if err := tx.Create(&m).Error; err != nil {
				return fmt.Errorf("seed session %s: %w", s.ID, err)
			}
		}
		for _, p := range f.Payments {
			m := models.PaymentFromDomain(p)
			if err := tx.Create(&m).Error; err != nil {
				return fmt.Errorf("seed payment %s: %w", p.ID, err)
			}
		}
		for _, w := range f.Withdrawals {
			m := models.WithdrawalFromDomain(w)
			if err := tx.Create(&m).Error; err != nil {
				return fmt.Errorf("seed withdrawal %s: %w", w.ID, err)
			}
		}
		cfg := models.SchoolConfigFromDomain(f.SchoolConfig)
		if err := tx.Save(&cfg).Error; err != nil {
			return fmt.Errorf("seed school config: %w", err)
		}

		log.Printf("✅ Seeded %d identities, %d sessions, %d payments, %d withdrawals",
			len(f.Identities), len(f.Sessions), len(f.Payments), len(f.Withdrawals))
		return nil
	})
}
