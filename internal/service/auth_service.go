package service

import (
	"errors"
	"strings"

	"github.com/pressroom/internal/db"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken         = errors.New("user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// bcryptCost is deliberately slow to resist offline brute force.
const bcryptCost = 12

// AuthService orchestrates registration, login and token validation.
type AuthService struct {
	db     *gorm.DB
	tokens *TokenService
}

// NewAuthService creates an AuthService instance.
func NewAuthService(gdb *gorm.DB, tokens *TokenService) *AuthService {
	return &AuthService{db: gdb, tokens: tokens}
}

// Register creates a new user with a hashed password and issues a token.
// The returned user never carries the password hash in its JSON form.
func (s *AuthService) Register(email, password, name string) (*db.User, string, error) {
	normalized := normalizeEmail(email)

	var existing db.User
	err := s.db.Where("email = ?", normalized).First(&existing).Error
	if err == nil {
		return nil, "", ErrEmailTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, "", err
	}

	user := db.User{
		Email:    normalized,
		Password: string(hashed),
		Name:     strings.TrimSpace(name),
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", err
	}

	return &user, token, nil
}

// Login verifies the credentials and issues a token. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *AuthService) Login(email, password string) (*db.User, string, error) {
	var user db.User
	if err := s.db.Where("email = ?", normalizeEmail(email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", err
	}

	return &user, token, nil
}

// ValidateToken resolves a bearer token to its user. A token for a user
// that no longer exists is invalid.
func (s *AuthService) ValidateToken(token string) (*db.User, error) {
	userID, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	var user db.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	return &user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
