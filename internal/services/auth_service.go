// file: internal/services/auth_service.go
package services

import (
	"context"
	"strconv"
	"strings"
	"time"

	"castnfish/internal/config"
	"castnfish/internal/models"
	"castnfish/internal/repositories"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// authService issues and verifies JWT bearer tokens.
type authService struct {
	userRepo repositories.UserRepository
	logger   *zap.Logger
	validate *validator.Validate
	config   config.AuthConfig
}

// NewAuthService creates a new auth service.
func NewAuthService(
	userRepo repositories.UserRepository,
	cfg config.AuthConfig,
	logger *zap.Logger,
) AuthService {
	return &authService{
		userRepo: userRepo,
		logger:   logger,
		validate: validator.New(),
		config:   cfg,
	}
}

type tokenClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Register creates a new account and returns a fresh token.
func (s *authService) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, NewValidationError("invalid registration data", err)
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	username := strings.TrimSpace(req.Username)

	if existing, err := s.userRepo.GetByEmail(ctx, email); err != nil {
		return nil, WrapInternal("failed to check email", err)
	} else if existing != nil {
		return nil, NewConflictError("email is already registered", "EMAIL_TAKEN")
	}
	if existing, err := s.userRepo.GetByUsername(ctx, username); err != nil {
		return nil, WrapInternal("failed to check username", err)
	} else if existing != nil {
		return nil, NewConflictError("username is already taken", "USERNAME_TAKEN")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.config.BCryptCost)
	if err != nil {
		return nil, WrapInternal("failed to hash password", err)
	}

	displayName := req.DisplayName
	if displayName == "" {
		displayName = username
	}

	user := &models.User{
		Email:        email,
		Username:     username,
		PasswordHash: string(hash),
		IsActive:     true,
		DisplayName:  displayName,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		s.logger.Error("Failed to create user",
			zap.String("username", username),
			zap.Error(err),
		)
		return nil, WrapInternal("failed to create account", err)
	}

	s.logger.Info("User registered",
		zap.Int64("user_id", user.ID),
		zap.String("username", user.Username),
	)
	return s.issueToken(user)
}

// Login verifies credentials against either the email or the username.
func (s *authService) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, NewValidationError("invalid login data", err)
	}

	identifier := strings.TrimSpace(req.Identifier)
	var user *models.User
	var err error
	if strings.Contains(identifier, "@") {
		user, err = s.userRepo.GetByEmail(ctx, strings.ToLower(identifier))
	} else {
		user, err = s.userRepo.GetByUsername(ctx, identifier)
	}
	if err != nil {
		return nil, WrapInternal("failed to look up account", err)
	}
	if user == nil || !user.IsActive {
		return nil, NewUnauthorizedError("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Warn("Failed login attempt",
			zap.Int64("user_id", user.ID),
		)
		return nil, NewUnauthorizedError("invalid credentials")
	}

	if err := s.userRepo.UpdateLastSeen(ctx, user.ID); err != nil {
		s.logger.Warn("Failed to update last seen", zap.Error(err))
	}
	return s.issueToken(user)
}

// VerifyToken parses and validates a bearer token.
func (s *authService) VerifyToken(_ context.Context, token string) (*TokenClaims, error) {
	claims := &tokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.config.JWTSecret), nil
	})
	if err != nil || !parsed.Valid {
		return nil, NewUnauthorizedError("invalid or expired token")
	}

	userID, err := claims.RegisteredClaims.GetSubject()
	if err != nil || userID == "" {
		return nil, NewUnauthorizedError("invalid token subject")
	}
	id, err := strconv.ParseInt(userID, 10, 64)
	if err != nil {
		return nil, NewUnauthorizedError("invalid token subject")
	}
	return &TokenClaims{UserID: id, Username: claims.Username}, nil
}

func (s *authService) issueToken(user *models.User) (*AuthResponse, error) {
	expiresAt := time.Now().Add(s.config.JWTExpiry)
	claims := tokenClaims{
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			Issuer:    "castnfish",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		return nil, WrapInternal("failed to sign token", err)
	}

	return &AuthResponse{User: user, Token: signed, ExpiresAt: expiresAt}, nil
}
