package service

import (
	"context"
	"errors"
	"time"

	"tindahan/internal/middleware"
	"tindahan/internal/model"
	"tindahan/internal/repository"
	"tindahan/pkg/apperror"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// DTOs for Request validation
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=6"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

// AuthService covers the single operator account: sign in and password
// rotation. There is no registration surface; the account is seeded at
// startup from configuration.
type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (*TokenResponse, error)
	ChangePassword(ctx context.Context, username string, req ChangePasswordRequest) error
}

type authService struct {
	repo repository.OperatorRepository
}

func NewAuthService(repo repository.OperatorRepository) AuthService {
	return &authService{repo: repo}
}

func (s *authService) Login(ctx context.Context, req LoginRequest) (*TokenResponse, error) {
	op, err := s.repo.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, errors.New("invalid username or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(op.PasswordHash), []byte(req.Password)); err != nil {
		return nil, errors.New("invalid username or password")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": op.Username,
		"iat": time.Now().Unix(),
	})

	tokenString, err := token.SignedString(middleware.GetJWTSecret())
	if err != nil {
		return nil, errors.New("failed to generate token")
	}

	return &TokenResponse{Token: tokenString}, nil
}

func (s *authService) ChangePassword(ctx context.Context, username string, req ChangePasswordRequest) error {
	op, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return apperror.NotFound("operator", username)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(op.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return apperror.Validation("operator", "current_password", "current password is incorrect")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return errors.New("failed to hash password")
	}

	op.PasswordHash = string(hashed)
	return s.repo.Update(ctx, op)
}

// SeedOperator ensures the configured account exists. Called once at startup;
// an existing row is left untouched so a changed password survives restarts.
func SeedOperator(ctx context.Context, repo repository.OperatorRepository, username, password string) (*model.Operator, error) {
	if op, err := repo.FindByUsername(ctx, username); err == nil {
		return op, nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.New("failed to hash operator password")
	}

	op := &model.Operator{
		Username:     username,
		PasswordHash: string(hashed),
	}
	if err := repo.Create(ctx, op); err != nil {
		return nil, err
	}
	return op, nil
}
