package profiles

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/asinwatch/asinwatch-backend/pkg/db"
	dbmodels "github.com/asinwatch/asinwatch-backend/pkg/db/models"
	pkgerrors "github.com/asinwatch/asinwatch-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type profilesRepository interface {
	Create(ctx context.Context, profile *dbmodels.Profile) error
	FindByID(ctx context.Context, userID uuid.UUID) (*dbmodels.Profile, error)
	Exists(ctx context.Context, userID uuid.UUID) (bool, error)
}

// CreateProfileInput carries the optional identity fields. The user id is
// minted by the external identity provider, never here.
type CreateProfileInput struct {
	UserID   uuid.UUID `json:"user_id" validate:"required"`
	Email    *string   `json:"email" validate:"omitempty,email"`
	FullName *string   `json:"full_name"`
}

// Service exposes the minimal identity surface.
type Service interface {
	Create(ctx context.Context, input CreateProfileInput) (*dbmodels.Profile, error)
	Get(ctx context.Context, userID uuid.UUID) (*dbmodels.Profile, error)
	Exists(ctx context.Context, userID uuid.UUID) (bool, error)
}

type service struct {
	repo profilesRepository
}

// NewService builds the profiles service.
func NewService(repo profilesRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("profiles repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CreateProfileInput) (*dbmodels.Profile, error) {
	if input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user_id is required")
	}
	profile := &dbmodels.Profile{
		UserID:   input.UserID,
		Email:    normalizeEmail(input.Email),
		FullName: input.FullName,
	}
	if err := s.repo.Create(ctx, profile); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "profile already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create profile")
	}
	return profile, nil
}

func (s *service) Get(ctx context.Context, userID uuid.UUID) (*dbmodels.Profile, error) {
	profile, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load profile")
	}
	return profile, nil
}

func (s *service) Exists(ctx context.Context, userID uuid.UUID) (bool, error) {
	exists, err := s.repo.Exists(ctx, userID)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check profile")
	}
	return exists, nil
}

func normalizeEmail(email *string) *string {
	if email == nil {
		return nil
	}
	normalized := strings.ToLower(strings.TrimSpace(*email))
	return &normalized
}
