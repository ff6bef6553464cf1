package service

import (
	"context"
	"errors"
	"fmt"

	"bto-portal-backend/internal/domain"
	"bto-portal-backend/internal/repository"
	"bto-portal-backend/internal/security"
	"bto-portal-backend/internal/utils"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid NRIC or password")
	ErrInvalidNRIC        = errors.New("NRIC must be a letter, seven digits, then a letter")
	ErrNRICTaken          = errors.New("an account with this NRIC already exists")
)

type authService struct {
	userRepo repository.UserRepository
	tokens   security.TokenManager
}

func NewAuthService(userRepo repository.UserRepository, tokens security.TokenManager) AuthService {
	return &authService{userRepo: userRepo, tokens: tokens}
}

func (s *authService) Signup(ctx context.Context, nric, name string, age int32, marital domain.MaritalStatus, email, password string) (*domain.User, error) {
	if err := utils.ValidateNRIC(nric); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidNRIC, err)
	}
	if marital != domain.MaritalStatusSingle && marital != domain.MaritalStatusMarried {
		return nil, fmt.Errorf("unknown marital status %q", marital)
	}
	if age < 0 {
		return nil, fmt.Errorf("age cannot be negative")
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("password must be at least 8 characters")
	}

	if _, err := s.userRepo.GetByNRIC(ctx, nric); err == nil {
		return nil, ErrNRICTaken
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		NRIC:          nric,
		Name:          name,
		Age:           age,
		MaritalStatus: marital,
		Email:         email,
		PasswordHash:  string(hash),
		Role:          domain.UserRoleApplicant,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *authService) Login(ctx context.Context, nric, password string) (string, string, *domain.User, error) {
	user, err := s.userRepo.GetByNRIC(ctx, nric)
	if err != nil {
		return "", "", nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", "", nil, ErrInvalidCredentials
	}

	access, err := s.tokens.GenerateAccessToken(user.NRIC, string(user.Role))
	if err != nil {
		return "", "", nil, err
	}
	refresh, err := s.tokens.GenerateRefreshToken(user.NRIC)
	if err != nil {
		return "", "", nil, err
	}
	return access, refresh, user, nil
}

func (s *authService) RefreshToken(ctx context.Context, refresh string) (string, string, error) {
	claims, err := s.tokens.ValidateToken(refresh)
	if err != nil {
		return "", "", err
	}
	if claims.Type != security.TokenTypeRefresh {
		return "", "", security.ErrWrongTokenType
	}

	// Re-read the user so a role change takes effect on the next access token.
	user, err := s.userRepo.GetByNRIC(ctx, claims.NRIC)
	if err != nil {
		return "", "", security.ErrInvalidToken
	}

	access, err := s.tokens.GenerateAccessToken(user.NRIC, string(user.Role))
	if err != nil {
		return "", "", err
	}
	newRefresh, err := s.tokens.GenerateRefreshToken(user.NRIC)
	if err != nil {
		return "", "", err
	}
	return access, newRefresh, nil
}
