package service

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"jewelry-store/internal/apperr"
	"jewelry-store/internal/dto"
	"jewelry-store/internal/model"
	"jewelry-store/internal/repository"
	"jewelry-store/internal/token"
)

type AuthService interface {
	Register(ctx context.Context, req dto.RegisterRequest) (*model.User, error)
	Login(ctx context.Context, req dto.LoginRequest) (string, error)
}

type authServiceImpl struct {
	jwtSecret string
	userRepo  repository.UserRepository
}

func NewAuthService(jwtSecret string, userRepo repository.UserRepository) AuthService {
	return &authServiceImpl{
		jwtSecret: jwtSecret,
		userRepo:  userRepo,
	}
}

func (s *authServiceImpl) Register(ctx context.Context, req dto.RegisterRequest) (*model.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, apperr.Validation("a valid email is required")
	}
	if len(req.Password) < 8 {
		return nil, apperr.Validation("password must be at least 8 characters")
	}

	exists, err := s.userRepo.EmailExists(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.Conflict("email %s is already registered", email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *authServiceImpl) Login(ctx context.Context, req dto.LoginRequest) (string, error) {
	user, err := s.userRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		// same answer for unknown email and wrong password
		return "", apperr.Unauthorized("invalid credentials")
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return "", apperr.Unauthorized("invalid credentials")
	}

	return token.Issue(s.jwtSecret, user.ID, user.IsAdmin)
}
