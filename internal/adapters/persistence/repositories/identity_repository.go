package repositories

import (
	"context"
	"errors"
	"fmt"

	"tahfiz-portal/internal/adapters/persistence/models"
	"tahfiz-portal/internal/core/domain"

	"gorm.io/gorm"
)

// notFound maps gorm's record-not-found onto the domain error
func notFound(err error, format string, args ...interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf(format+": %w", append(args, domain.ErrNotFound)...)
	}
	return err
}

// identityRepository implements IdentityRepository on gorm
type identityRepository struct {
	db *gorm.DB
}

// NewIdentityRepository creates a new identity repository
func NewIdentityRepository(db *gorm.DB) IdentityRepository {
	return &identityRepository{db: db}
}

// GetByID gets an identity by ID
func (r *identityRepository) GetByID(ctx context.Context, id string) (*domain.Identity, error) {
	var m models.Identity
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, notFound(err, "identity %s", id)
	}
	return m.ToDomain(), nil
}

// FindFirstByRole gets the first seeded identity of a role
func (r *identityRepository) FindFirstByRole(ctx context.Context, role domain.Role) (*domain.Identity, error) {
	var m models.Identity
	err := r.db.WithContext(ctx).Where("role = ?", string(role)).Order("id ASC").First(&m).Error
	if err != nil {
		return nil, notFound(err, "identity with role %s", role)
	}
	return m.ToDomain(), nil
}

// ListByRole lists identities of a role
func (r *identityRepository) ListByRole(ctx context.Context, role domain.Role) ([]*domain.Identity, error) {
	var rows []models.Identity
	err := r.db.WithContext(ctx).Where("role = ?", string(role)).Order("id ASC").Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]*domain.Identity, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].ToDomain())
	}
	return out, nil
}

// UpdateProfile updates name and email
func (r *identityRepository) UpdateProfile(ctx context.Context, id, name, email string) error {
	res := r.db.WithContext(ctx).Model(&models.Identity{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"name": name, "email": email})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("identity %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// studentRepository implements StudentRepository on gorm
type studentRepository struct {
	db *gorm.DB
}

// NewStudentRepository creates a new student repository
func NewStudentRepository(db *gorm.DB) StudentRepository {
	return &studentRepository{db: db}
}

// GetByID gets a student by ID
func (r *studentRepository) GetByID(ctx context.Context, id string) (*domain.Student, error) {
	var m models.Student
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, notFound(err, "student %s", id)
	}
	return m.ToDomain(), nil
}

// ListByParent lists the students of one parent
func (r *studentRepository) ListByParent(ctx context.Context, parentID string) ([]*domain.Student, error) {
	var rows []models.Student
	if err := r.db.WithContext(ctx).Where("parent_id = ?", parentID).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainStudents(rows), nil
}

// List lists all students
func (r *studentRepository) List(ctx context.Context) ([]*domain.Student, error) {
	var rows []models.Student
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainStudents(rows), nil
}

func toDomainStudents(rows []models.Student) []*domain.Student {
	out := make([]*domain.Student, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].ToDomain())
	}
	return out
}
