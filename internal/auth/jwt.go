package auth

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenVerifier issues and validates editor bearer tokens for the admin API
type TokenVerifier struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenVerifier creates a verifier using the EDITOR_JWT_SECRET environment
// variable, falling back to a development secret when unset.
func NewTokenVerifier() *TokenVerifier {
	secret := os.Getenv("EDITOR_JWT_SECRET")
	if secret == "" {
		secret = "localwire-dev-secret" // Development fallback only
	}
	return &TokenVerifier{
		secret: []byte(secret),
		ttl:    12 * time.Hour,
	}
}

// NewTokenVerifierWithSecret creates a verifier with an explicit secret
func NewTokenVerifierWithSecret(secret string, ttl time.Duration) *TokenVerifier {
	return &TokenVerifier{secret: []byte(secret), ttl: ttl}
}

// IssueToken mints a signed token for an editor
func (v *TokenVerifier) IssueToken(editor string) (string, error) {
	if editor == "" {
		return "", fmt.Errorf("editor name is required")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub": editor,
		"iss": "localwire",
		"iat": now.Unix(),
		"exp": now.Add(v.ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(v.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ExtractEditorFromToken verifies a token and returns the editor it was
// issued to.
func (v *TokenVerifier) ExtractEditorFromToken(tokenString string) (string, error) {
	tokenString = strings.TrimPrefix(tokenString, "Bearer ")

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to verify token: %w", err)
	}
	if !token.Valid {
		return "", fmt.Errorf("token is not valid")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invalid token claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", fmt.Errorf("no sub claim in token")
	}

	return sub, nil
}

// ValidateToken is a middleware-friendly function that validates a bearer token
func (v *TokenVerifier) ValidateToken(authHeader string) (string, bool) {
	if authHeader == "" {
		return "", false
	}

	editor, err := v.ExtractEditorFromToken(authHeader)
	if err != nil {
		log.Printf("JWT validation error: %v", err)
		return "", false
	}

	return editor, true
}
