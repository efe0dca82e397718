package services

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"collegerag/models"
)

var (
	// ErrEmailTaken is returned when registering an email that already has
	// an account.
	ErrEmailTaken = errors.New("user with this email already exists")
	// ErrInvalidCredentials is returned for unknown emails, wrong passwords
	// and invalid or expired tokens.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

//go:generate mockgen -source=auth_service.go -destination=mock_auth_service.go -package=services AuthService

// AuthService handles user accounts and access tokens.
type AuthService interface {
	Register(email, name, password string) (*models.User, error)
	Authenticate(email, password string) (*models.User, error)
	UserByID(id string) (*models.User, error)
	IssueToken(userID string) (string, error)
	VerifyToken(token string) (string, error)
}

type userRecord struct {
	id           string
	email        string
	name         string
	passwordHash []byte
}

// authServiceImpl keeps users in memory; the user base is small and accounts
// do not survive a restart.
type authServiceImpl struct {
	mu      sync.Mutex
	byEmail map[string]*userRecord
	byID    map[string]*userRecord
	secret  []byte
	ttl     time.Duration
}

// NewAuthService creates an auth service signing HS256 tokens with secret.
func NewAuthService(secret []byte, ttl time.Duration) AuthService {
	return &authServiceImpl{
		byEmail: make(map[string]*userRecord),
		byID:    make(map[string]*userRecord),
		secret:  secret,
		ttl:     ttl,
	}
}

func (a *authServiceImpl) Register(email, name, password string) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("could not hash password: %w", err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if _, exists := a.byEmail[email]; exists {
		return nil, ErrEmailTaken
	}

	rec := &userRecord{
		id:           uuid.New().String(),
		email:        email,
		name:         name,
		passwordHash: hash,
	}
	a.byEmail[email] = rec
	a.byID[rec.id] = rec

	return rec.user(), nil
}

func (a *authServiceImpl) Authenticate(email, password string) (*models.User, error) {
	a.mu.Lock()
	rec, ok := a.byEmail[email]
	a.mu.Unlock()

	if !ok {
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword(rec.passwordHash, []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return rec.user(), nil
}

func (a *authServiceImpl) UserByID(id string) (*models.User, error) {
	a.mu.Lock()
	rec, ok := a.byID[id]
	a.mu.Unlock()

	if !ok {
		return nil, ErrInvalidCredentials
	}
	return rec.user(), nil
}

// IssueToken signs a token with the user ID as subject.
func (a *authServiceImpl) IssueToken(userID string) (string, error) {
	claims := jwt.MapClaims{
		"sub": userID,
		"exp": time.Now().Add(a.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("could not sign token: %w", err)
	}
	return signed, nil
}

// VerifyToken validates a token and returns its subject (the user ID).
func (a *authServiceImpl) VerifyToken(token string) (string, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", ErrInvalidCredentials
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidCredentials
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", ErrInvalidCredentials
	}
	return sub, nil
}

func (u *userRecord) user() *models.User {
	return &models.User{ID: u.id, Email: u.email, Name: u.name}
}
