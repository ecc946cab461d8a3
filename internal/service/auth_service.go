package service

import (
	"context"
	"dcasassess/internal/model"
	"dcasassess/internal/repository"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const RoleAdmin = "admin"

// AuthService handles admin login and session-ownership tokens
type AuthService struct {
	adminRepo       repository.AdminRepo
	jwtSecret       []byte
	adminTokenTTL   time.Duration
	sessionTokenTTL time.Duration
}

// NewAuthService creates a new auth service
func NewAuthService(adminRepo repository.AdminRepo, secret string, adminTTL, sessionTTL time.Duration) *AuthService {
	if secret == "" {
		secret = "super-secret-key-change-in-production"
	}
	if adminTTL <= 0 {
		adminTTL = 24 * time.Hour
	}
	if sessionTTL <= 0 {
		sessionTTL = 30 * 24 * time.Hour
	}
	return &AuthService{
		adminRepo:       adminRepo,
		jwtSecret:       []byte(secret),
		adminTokenTTL:   adminTTL,
		sessionTokenTTL: sessionTTL,
	}
}

// Login checks the bcrypt hash and returns an admin token
func (s *AuthService) Login(ctx context.Context, username, password string) (*model.LoginResponse, error) {
	admin, err := s.adminRepo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, fmt.Errorf("failed to get admin: %w", err)
	}
	if admin == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.GenerateAdminToken(admin)
	if err != nil {
		return nil, err
	}
	return &model.LoginResponse{
		Token:   token,
		AdminID: admin.ID,
	}, nil
}

func (s *AuthService) GenerateAdminToken(admin *model.Admin) (string, error) {
	now := time.Now()
	claims := &model.AdminClaims{
		AdminID:  admin.ID,
		Username: admin.Username,
		Role:     RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.adminTokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// ValidateAdminToken validates an admin JWT and returns claims
func (s *AuthService) ValidateAdminToken(tokenString string) (*model.AdminClaims, error) {
	claims := &model.AdminClaims{}
	if err := s.parse(tokenString, claims); err != nil {
		return nil, err
	}
	if claims.Role != RoleAdmin {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// GenerateSessionToken creates a token that grants access to exactly one session
func (s *AuthService) GenerateSessionToken(sessionID string) (string, error) {
	now := time.Now()
	claims := &model.SessionClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   sessionID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.sessionTokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// ValidateSessionToken validates a session token and returns claims
func (s *AuthService) ValidateSessionToken(tokenString string) (*model.SessionClaims, error) {
	claims := &model.SessionClaims{}
	if err := s.parse(tokenString, claims); err != nil {
		return nil, err
	}
	if claims.SessionID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *AuthService) parse(tokenString string, claims jwt.Claims) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return ErrInvalidToken
	}
	return nil
}

// HashPassword returns a bcrypt hash for seeding admins
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
