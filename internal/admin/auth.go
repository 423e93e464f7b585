// Package admin issues and verifies the bearer credentials for the
// administrative surface. Tokens are JWTs whose ids are also tracked
// in-process, so a restart invalidates everything outstanding.
package admin

import (
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var ErrBadCredentials = errors.New("bad credentials")

const tokenTTL = 24 * time.Hour

type TokenService struct {
	secret []byte
	hash   []byte

	mu     sync.Mutex
	issued map[string]struct{}
}

func NewTokenService(secret, password string) (*TokenService, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &TokenService{
		secret: []byte(secret),
		hash:   hash,
		issued: make(map[string]struct{}),
	}, nil
}

// Login exchanges the admin password for a signed bearer token.
func (s *TokenService) Login(password string) (string, error) {
	if err := bcrypt.CompareHashAndPassword(s.hash, []byte(password)); err != nil {
		return "", ErrBadCredentials
	}

	tokenID := "admin_" + uuid.NewString()
	now := time.Now()
	claims := jwt.RegisteredClaims{
		ID:        tokenID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.issued[tokenID] = struct{}{}
	s.mu.Unlock()
	return signed, nil
}

// Verify reports whether the token is validly signed, unexpired, and was
// issued by this process.
func (s *TokenService) Verify(token string) bool {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return false
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return false
	}

	s.mu.Lock()
	_, known := s.issued[claims.ID]
	s.mu.Unlock()
	return known
}
