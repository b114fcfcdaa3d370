package identity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/lifeos/backend/internal/domain/identity"
	"github.com/lifeos/backend/internal/domain/shared"
	"github.com/lifeos/backend/internal/infrastructure/auth"
)

// UserService provisions and serves local accounts for provider principals
type UserService struct {
	userRepo  identity.UserRepository
	blacklist auth.TokenBlacklist
}

// NewUserService creates a new UserService
func NewUserService(userRepo identity.UserRepository, blacklist auth.TokenBlacklist) *UserService {
	return &UserService{userRepo: userRepo, blacklist: blacklist}
}

// Provision returns the local user for validated provider claims, creating
// the account on first contact and refreshing the mirrored profile fields
// afterwards.
func (s *UserService) Provision(ctx context.Context, claims *auth.Claims) (*identity.User, error) {
	user, err := s.userRepo.FindBySubject(ctx, claims.Subject)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		user, err = identity.NewUser(claims.Subject, claims.Email, claims.DisplayName)
		if err != nil {
			return nil, err
		}
		user.Admin = claims.Admin
		if err := s.userRepo.Save(ctx, user); err != nil {
			return nil, err
		}
		return user, nil
	}

	if err := user.Refresh(claims.Email, claims.DisplayName); err != nil {
		return nil, err
	}
	user.Admin = claims.Admin
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Me returns the current user's profile
func (s *UserService) Me(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// UpdateSettings replaces the current user's settings blob
func (s *UserService) UpdateSettings(ctx context.Context, userID uuid.UUID, req UpdateSettingsRequest) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := user.SetSettings(req.Settings); err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// Logout blacklists the presented token until it would have expired anyway
func (s *UserService) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims.ID == "" || claims.ExpiresAt == nil {
		return nil
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	return s.blacklist.AddToBlacklist(ctx, claims.ID, ttl)
}
