package services

import (
	"context"
	"errors"
	"time"
	"unicode"

	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/mikeychann-hash/Evies-Epoxy/apperrors"
	"github.com/mikeychann-hash/Evies-Epoxy/models"
	"github.com/mikeychann-hash/Evies-Epoxy/repository"
)

const tokenTTL = 24 * time.Hour

type SignupRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=100"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

type AuthService struct {
	users     repository.UserRepository
	jwtSecret []byte
}

func NewAuthService(users repository.UserRepository, jwtSecret string) *AuthService {
	return &AuthService{
		users:     users,
		jwtSecret: []byte(jwtSecret),
	}
}

func (s *AuthService) Signup(ctx context.Context, req *SignupRequest) (*AuthResponse, *apperrors.Error) {
	if err := validatePassword(req.Password); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	if _, err := s.users.FindByEmail(ctx, req.Email); err == nil {
		return nil, apperrors.Conflict("Email already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Internal(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	user := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         models.RoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		zap.L().Error("Failed to create user", zap.Error(err))
		return nil, apperrors.Internal(err)
	}

	token, tokenErr := s.generateToken(user)
	if tokenErr != nil {
		return nil, apperrors.Internal(tokenErr)
	}

	zap.L().Info("User signed up", zap.String("user_id", user.ID.String()))
	return &AuthResponse{Token: token, User: *user}, nil
}

func (s *AuthService) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, *apperrors.Error) {
	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(401, "Invalid credentials", nil)
		}
		return nil, apperrors.Internal(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperrors.New(401, "Invalid credentials", nil)
	}

	token, tokenErr := s.generateToken(user)
	if tokenErr != nil {
		return nil, apperrors.Internal(tokenErr)
	}

	zap.L().Info("User logged in", zap.String("user_id", user.ID.String()))
	return &AuthResponse{Token: token, User: *user}, nil
}

func (s *AuthService) generateToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID.String(),
		"email":   user.Email,
		"role":    user.Role,
		"exp":     time.Now().Add(tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

func validatePassword(password string) error {
	var hasUpper, hasLower, hasNumber bool
	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsNumber(char):
			hasNumber = true
		}
	}
	if !hasUpper || !hasLower || !hasNumber {
		return errors.New("password must contain at least one uppercase letter, one lowercase letter, and one number")
	}
	return nil
}
