package session

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// RoleGestor is the single role the shared-password login grants. The
// login gate is a convenience lock, not an access-control mechanism.
const RoleGestor = "GESTOR"

// Session is an established login session.
type Session struct {
	Token     string    `json:"token"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Service issues and verifies session tokens.
type Service struct {
	secret         []byte
	sharedPassword string
	ttl            time.Duration
}

// NewService creates a session service. Any email combined with the
// shared password logs in.
func NewService(secret, sharedPassword string, ttl time.Duration) *Service {
	if secret == "" {
		panic("session: secret is required")
	}
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &Service{
		secret:         []byte(secret),
		sharedPassword: sharedPassword,
		ttl:            ttl,
	}
}

// Login checks the shared password and issues a session. The email is
// recorded in the token but never verified.
func (s *Service) Login(email, password string) (*Session, error) {
	if password != s.sharedPassword {
		return nil, ErrWrongPassword
	}

	now := time.Now().UTC()
	expires := now.Add(s.ttl)
	claims := jwt.RegisteredClaims{
		Subject:   strings.TrimSpace(email),
		Audience:  jwt.ClaimStrings{RoleGestor},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, err
	}

	return &Session{
		Token:     token,
		Email:     strings.TrimSpace(email),
		Role:      RoleGestor,
		ExpiresAt: expires,
	}, nil
}

// Verify parses a session token and returns its claims.
func (s *Service) Verify(tokenString string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
