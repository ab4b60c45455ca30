package utils

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/spinquest/spinwheel-backend/internal/config"
)

// GenerateTokenCode mints a short uppercase alphanumeric redemption code from
// a fresh UUID. Uniqueness is enforced by the caller against the store.
func GenerateTokenCode(length int) string {
	code := strings.ReplaceAll(uuid.NewString(), "-", "")
	if length > len(code) {
		length = len(code)
	}
	return strings.ToUpper(code[:length])
}

// NormalizeTokenCode applies the canonical form used everywhere a code is
// compared: trimmed and uppercased.
func NormalizeTokenCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// GenerateJWT generates a signed JWT for an admin session
func GenerateJWT(adminID, username, role string, cfg *config.Config) (string, error) {
	claims := jwt.MapClaims{
		"sub":      adminID,
		"username": username,
		"role":     role,
		"exp":      time.Now().Add(time.Second * time.Duration(cfg.JWT.ExpiresIn)).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWT.Secret))
}

// ValidateJWT parses and validates a JWT, returning its claims
func ValidateJWT(tokenString string, cfg *config.Config) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(cfg.JWT.Secret), nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}
