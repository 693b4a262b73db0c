package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrTokenSubject = errors.New("token was issued for another session")

// SessionClaims bind a bearer token to one game session.
type SessionClaims struct {
	SessionId string `json:"session_id"`
	jwt.RegisteredClaims
}

type Tokens struct {
	secret        []byte
	signingMethod jwt.SigningMethod
	tokenLifetime time.Duration
}

func loadSecret() ([]byte, error) {
	secret, ok := os.LookupEnv("SESSION_SECRET")
	if ok {
		return []byte(secret), nil
	}

	secretFile, ok := os.LookupEnv("SESSION_SECRET_FILE")
	if !ok {
		return nil, fmt.Errorf("no SESSION_SECRET or SESSION_SECRET_FILE env variable set")
	}

	data, err := os.ReadFile(secretFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read session secret file: %w", err)
	}

	return []byte(strings.TrimSpace(string(data))), nil
}

func NewTokens() (*Tokens, error) {
	secret, err := loadSecret()
	if err != nil {
		return nil, err
	}
	return NewTokensWithSecret(secret)
}

func NewTokensWithSecret(secret []byte) (*Tokens, error) {
	if len(secret) < 16 {
		return nil, fmt.Errorf("session secret must be at least 16 bytes long")
	}
	t := &Tokens{
		secret:        secret,
		signingMethod: jwt.SigningMethodHS256,
		tokenLifetime: time.Hour * 24,
	}
	return t, nil
}

func (t *Tokens) Sign(sessionId string) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		SessionId: sessionId,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sessionId,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.tokenLifetime)),
		},
	}
	return jwt.NewWithClaims(t.signingMethod, claims).SignedString(t.secret)
}

func (t *Tokens) Parse(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&SessionClaims{},
		func(*jwt.Token) (interface{}, error) {
			return t.secret, nil
		},
		jwt.WithValidMethods([]string{t.signingMethod.Alg()}),
	)
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*SessionClaims)
	if !ok {
		return nil, fmt.Errorf("malformed claims")
	}
	return claims, nil
}

// Authorize checks that claims were issued for sessionId.
func (c *SessionClaims) Authorize(sessionId string) error {
	if c.SessionId != sessionId || c.Subject != sessionId {
		return ErrTokenSubject
	}
	return nil
}
