package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"portfolio/models"
	"portfolio/store"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
)

const defaultTokenTTL = 24 * time.Hour

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// Claims is the payload of a session token.
type Claims struct {
	Username string `json:"username"`
	UserID   string `json:"id"`
	jwt.StandardClaims
}

type AuthConfig struct {
	Secret     string
	TokenTTL   time.Duration
	BcryptCost int
}

// AuthService registers users and issues and verifies HS256 session tokens.
// It keeps no session state; a token stays valid until it expires or the
// secret changes.
type AuthService struct {
	users     store.UserStore
	secret    []byte
	ttl       time.Duration
	cost      int
	dummyHash []byte
	now       func() time.Time
}

func NewAuthService(users store.UserStore, cfg AuthConfig) (*AuthService, error) {
	if cfg.Secret == "" {
		return nil, errors.New("auth: signing secret is empty")
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = defaultTokenTTL
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}

	// Compared against when the username is unknown so both login failures
	// take the same time.
	dummy, err := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("auth: %w", err)
	}

	return &AuthService{
		users:     users,
		secret:    []byte(cfg.Secret),
		ttl:       cfg.TokenTTL,
		cost:      cfg.BcryptCost,
		dummyHash: dummy,
		now:       time.Now,
	}, nil
}

// Register creates a user with a bcrypt-hashed password.
func (s *AuthService) Register(ctx context.Context, username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if err := validateCredentials(username, password); err != nil {
		return nil, err
	}

	if _, err := s.users.FindUserByUsername(ctx, username); err == nil {
		return nil, ErrDuplicateUsername
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Username:  username,
		Password:  string(hashed),
		CreatedAt: s.now(),
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrDuplicateUsername
		}
		return nil, err
	}
	return user, nil
}

// Login checks the credentials and returns a signed token. Unknown users and
// wrong passwords both yield ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *models.User, error) {
	user, err := s.users.FindUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.issue(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *AuthService) issue(user *models.User) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Username: user.Username,
		UserID:   user.ID,
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(s.ttl).Unix(),
		},
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses a session token. Any problem with it, including a missing
// token, is reported as ErrInvalidToken.
func (s *AuthService) Verify(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrInvalidToken
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.UserID == "" || !claims.VerifyExpiresAt(s.now().Unix(), true) {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// TokenTTL is how long issued tokens stay valid.
func (s *AuthService) TokenTTL() time.Duration {
	return s.ttl
}

func validateCredentials(username, password string) error {
	switch n := len(username); {
	case n < 3:
		return &ValidationError{Field: "username", Message: "must be at least 3 characters"}
	case n > 50:
		return &ValidationError{Field: "username", Message: "must be at most 50 characters"}
	}
	if !usernamePattern.MatchString(username) {
		return &ValidationError{Field: "username", Message: "may only contain letters, digits, underscore and dash"}
	}

	switch n := len(password); {
	case n < 6:
		return &ValidationError{Field: "password", Message: "must be at least 6 characters"}
	case n > 72:
		return &ValidationError{Field: "password", Message: "must be at most 72 bytes"}
	}
	return nil
}
