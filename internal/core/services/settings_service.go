package services

import (
	"context"
	"fmt"
	"log"

	"tahfiz-portal/internal/adapters/persistence/repositories"
	"tahfiz-portal/internal/core/domain"
	"tahfiz-portal/internal/pkg/validate"
)

// ProfileInput represents profile update input
type ProfileInput struct {
	Name  string `json:"name" validate:"required,max=150"`
	Email string `json:"email" validate:"required,email"`
}

// SettingsService handles profile and school configuration updates
type SettingsService struct {
	store     *repositories.Store
	processor Processor
}

// NewSettingsService creates a new settings service
func NewSettingsService(store *repositories.Store, processor Processor) *SettingsService {
	return &SettingsService{store: store, processor: processor}
}

// SaveProfile updates the actor's own name and email
func (s *SettingsService) SaveProfile(ctx context.Context, actor *domain.Identity, input ProfileInput) (*domain.Identity, error) {
	if actor == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	if err := s.processor.Process(ctx, Operation{Kind: OpProfile, Ref: actor.ID}); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSubmissionFailed, err)
	}
	if err := s.store.Identities.UpdateProfile(ctx, actor.ID, input.Name, input.Email); err != nil {
		return nil, err
	}

	log.Printf("✅ Profile updated: %s", actor.ID)
	return s.store.Identities.GetByID(ctx, actor.ID)
}

// SchoolConfig returns the school configuration
func (s *SettingsService) SchoolConfig(ctx context.Context) (*domain.SchoolConfig, error) {
	return s.store.SchoolConfig.Get(ctx)
}

// SaveSchoolConfig replaces the school configuration; admins only
func (s *SettingsService) SaveSchoolConfig(ctx context.Context, actor *domain.Identity, cfg domain.SchoolConfig) (*domain.SchoolConfig, error) {
	if actor == nil || actor.Role != domain.RoleAdmin {
		return nil, fmt.Errorf("save school config: %w", domain.ErrForbidden)
	}
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	if err := s.processor.Process(ctx, Operation{Kind: OpSchool, Ref: actor.ID}); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSubmissionFailed, err)
	}
	if err := s.store.SchoolConfig.Save(ctx, &cfg); err != nil {
		return nil, err
	}

	log.Printf("✅ School configuration saved by %s", actor.ID)
	return &cfg, nil
}
