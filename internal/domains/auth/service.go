package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/xpanvictor/ticnote/internal/config"
	"github.com/xpanvictor/ticnote/pkg/Logger"
	"golang.org/x/crypto/bcrypt"
)

// Common errors
var (
	ErrAccountNotFound    = errors.New("account not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

// Identity is the caller behind a verified token.
type Identity struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Verifier checks a bearer token and resolves who presented it.
type Verifier interface {
	Validate(ctx context.Context, token string) (*Identity, error)
}

// LoginRequest represents login credentials
// @Description Login credentials, login is a username or an email
type LoginRequest struct {
	Login    string `json:"login" binding:"required" example:"demo"`
	Password string `json:"password" binding:"required" example:"demo-password"`
}

// AuthToken represents an issued access token
// @Description JWT access token
type AuthToken struct {
	AccessToken string    `json:"accessToken" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	ExpiresAt   time.Time `json:"expiresAt" example:"2023-01-02T12:00:00Z"`
}

// Claims represents JWT claims
type Claims struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Email    string `json:"email"`
	jwt.RegisteredClaims
}

type AuthService interface {
	Verifier
	Login(ctx context.Context, req LoginRequest) (*Identity, *AuthToken, error)
}

// Account is a configured user allowed to log in.
type Account struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
}

type AccountRepository interface {
	GetByLogin(login string) (*Account, error)
}

type memoryAccounts struct {
	byLogin map[string]*Account
}

// NewAccountRepository indexes configured accounts by username and email.
func NewAccountRepository(accounts []config.AccountConfig) AccountRepository {
	repo := &memoryAccounts{byLogin: make(map[string]*Account)}
	for _, ac := range accounts {
		account := &Account{
			ID:           ac.ID,
			Username:     ac.Username,
			Email:        ac.Email,
			PasswordHash: ac.PasswordHash,
		}
		if account.ID == "" {
			account.ID = uuid.NewSHA1(uuid.NameSpaceURL, []byte("ticnote:"+ac.Username+ac.Email)).String()
		}
		if ac.Username != "" {
			repo.byLogin[strings.ToLower(ac.Username)] = account
		}
		if ac.Email != "" {
			repo.byLogin[strings.ToLower(ac.Email)] = account
		}
	}
	return repo
}

func (m *memoryAccounts) GetByLogin(login string) (*Account, error) {
	account, ok := m.byLogin[strings.ToLower(strings.TrimSpace(login))]
	if !ok {
		return nil, ErrAccountNotFound
	}
	return account, nil
}

type authService struct {
	repository AccountRepository
	logger     *Logger.Logger
	jwtSecret  string
	tokenTTL   time.Duration
}

func NewAuthService(repository AccountRepository, logger *Logger.Logger, jwtSecret string, tokenTTL time.Duration) AuthService {
	if tokenTTL == 0 {
		tokenTTL = 24 * time.Hour // default 24 hours
	}
	return &authService{
		repository: repository,
		logger:     logger,
		jwtSecret:  jwtSecret,
		tokenTTL:   tokenTTL,
	}
}

// Login implements AuthService
func (s *authService) Login(ctx context.Context, req LoginRequest) (*Identity, *AuthToken, error) {
	account, err := s.repository.GetByLogin(req.Login)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		s.logger.Errorf("error getting account: %v", err)
		return nil, nil, fmt.Errorf("failed to get account: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	identity := &Identity{UserID: account.ID, Username: account.Username, Email: account.Email}
	token, err := s.generateToken(identity)
	if err != nil {
		s.logger.Errorf("error generating token: %v", err)
		return nil, nil, fmt.Errorf("failed to generate token: %w", err)
	}

	s.logger.Infof("account logged in: %s (%s)", account.ID, account.Username)
	return identity, token, nil
}

// Validate implements Verifier
func (s *authService) Validate(ctx context.Context, tokenString string) (*Identity, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.jwtSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, ErrInvalidToken
	}

	return &Identity{UserID: claims.UserID, Username: claims.Username, Email: claims.Email}, nil
}

func (s *authService) generateToken(identity *Identity) (*AuthToken, error) {
	now := time.Now()
	expiresAt := now.Add(s.tokenTTL)

	claims := &Claims{
		UserID:   identity.UserID,
		Username: identity.Username,
		Email:    identity.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   identity.UserID,
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwtSecret))
	if err != nil {
		return nil, err
	}
	return &AuthToken{AccessToken: signed, ExpiresAt: expiresAt}, nil
}
