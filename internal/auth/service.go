// Package auth issues and validates the JWT session tokens that gate the
// HTTP API and the WebSocket upgrade.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/worldwide-social/worldwide/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameExists     = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNoPassword         = errors.New("account has no password set")
)

// TokenTTL is how long a session token stays valid
const TokenTTL = 24 * time.Hour

// RegisterRequest is the payload for creating a new account
type RegisterRequest struct {
	Username    string `json:"username" binding:"required,min=3,max=30"`
	DisplayName string `json:"display_name" binding:"required"`
	Password    string `json:"password" binding:"required,min=8"`
	AvatarURL   string `json:"avatar_url"`
}

// LoginRequest is the payload for authenticating an existing account
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse carries a signed token plus the account it belongs to
type AuthResponse struct {
	Token     string      `json:"token"`
	User      models.User `json:"user"`
	ExpiresAt time.Time   `json:"expires_at"`
}

// Service handles account registration, login and token validation
type Service struct {
	db        *gorm.DB
	jwtSecret []byte
}

// NewService creates an auth service backed by the given database
func NewService(db *gorm.DB, jwtSecret []byte) *Service {
	return &Service{db: db, jwtSecret: jwtSecret}
}

// Register creates a new account with a bcrypt password hash
func (s *Service) Register(req RegisterRequest) (*AuthResponse, error) {
	var existing models.User
	err := s.db.Where("LOWER(username) = LOWER(?)", req.Username).First(&existing).Error
	if err == nil {
		return nil, ErrUsernameExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("database error: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	hashedStr := string(hashed)
	user := models.User{
		ID:           uuid.New().String(),
		Username:     strings.ToLower(req.Username),
		DisplayName:  req.DisplayName,
		AvatarURL:    req.AvatarURL,
		PasswordHash: &hashedStr,
	}

	if err := s.db.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.generateAuthResponse(&user)
}

// Login authenticates with username/password
func (s *Service) Login(req LoginRequest) (*AuthResponse, error) {
	var user models.User
	err := s.db.Where("LOWER(username) = LOWER(?)", req.Username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	} else if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	if user.PasswordHash == nil {
		return nil, ErrNoPassword
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	user.LastActiveAt = &now
	s.db.Save(&user)

	return s.generateAuthResponse(&user)
}

// TokenForUser signs a fresh token for an already-authenticated user.
// Used when switching between accounts on the local roster.
func (s *Service) TokenForUser(user *models.User) (*AuthResponse, error) {
	return s.generateAuthResponse(user)
}

func (s *Service) generateAuthResponse(user *models.User) (*AuthResponse, error) {
	expiresAt := time.Now().Add(TokenTTL)

	claims := jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"exp":      expiresAt.Unix(),
		"iat":      time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &AuthResponse{
		Token:     tokenString,
		User:      *user,
		ExpiresAt: expiresAt,
	}, nil
}

// ValidateToken checks a token's signature and expiry and returns the
// account it was issued for, fetched fresh from the database.
func (s *Service) ValidateToken(tokenString string) (*models.User, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}

	userID, ok := claims["user_id"].(string)
	if !ok {
		return nil, errors.New("invalid user_id in token")
	}

	var user models.User
	if err := s.db.Where("id = ?", userID).First(&user).Error; err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}

	return &user, nil
}
