package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/yourorg/wallboard/internal/utils"
)

// Validator checks HS256 bearer tokens on the upload routes. A nil
// Validator means the routes are open.
type Validator struct {
	secret []byte
}

func NewValidator(secret string) *Validator {
	if secret == "" {
		return nil
	}
	return &Validator{secret: []byte(secret)}
}

func ParseBearerToken(header string) (string, error) {
	if header == "" {
		return "", errors.New("authorization header empty")
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return "", errors.New("invalid authorization header format")
	}
	return parts[1], nil
}

func (v *Validator) Validate(tokenStr string) error {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return v.secret, nil
	})
	if err != nil {
		return err
	}
	if !token.Valid {
		return errors.New("invalid token")
	}
	return nil
}

// RequireToken gates a route behind bearer-token auth.
func RequireToken(v *Validator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tok, err := ParseBearerToken(c.Get("Authorization"))
		if err != nil {
			return utils.JSONError(c, fiber.StatusUnauthorized, "missing authorization")
		}
		if err := v.Validate(tok); err != nil {
			return utils.JSONError(c, fiber.StatusUnauthorized, "invalid token")
		}
		return c.Next()
	}
}
