package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/noah-isme/tonetrace-api/internal/utils"
)

const (
	localUserID   = "user_id"
	localUserRole = "user_role"
)

// Claims is the bearer token payload accepted by the API.
type Claims struct {
	Role  string   `json:"role,omitempty"`
	Roles []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// PrimaryRole returns the first non-empty role carried by the token, lowercased.
func (c Claims) PrimaryRole() string {
	if role := strings.ToLower(strings.TrimSpace(c.Role)); role != "" {
		return role
	}
	for _, candidate := range c.Roles {
		if role := strings.ToLower(strings.TrimSpace(candidate)); role != "" {
			return role
		}
	}
	return ""
}

// JWTProtected returns a middleware that validates HMAC-signed bearer tokens
// and binds the subject and role to the request locals.
func JWTProtected(secret string) fiber.Handler {
	key := []byte(secret)
	parser := jwt.NewParser(jwt.WithValidMethods([]string{
		jwt.SigningMethodHS256.Alg(),
		jwt.SigningMethodHS384.Alg(),
		jwt.SigningMethodHS512.Alg(),
	}))

	return func(c *fiber.Ctx) error {
		authorization := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
		if authorization == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "authorization header missing")
		}

		const bearer = "bearer "
		if len(authorization) <= len(bearer) || !strings.EqualFold(authorization[:len(bearer)], bearer) {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid authorization header")
		}

		tokenString := strings.TrimSpace(authorization[len(bearer):])
		claims := &Claims{}
		token, err := parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
			return key, nil
		})
		if err != nil || !token.Valid {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token")
		}

		if subject := strings.TrimSpace(claims.Subject); subject != "" {
			c.Locals(localUserID, subject)
		}
		if role := claims.PrimaryRole(); role != "" {
			c.Locals(localUserRole, role)
		}

		return c.Next()
	}
}

// UserIDFromContext returns the authenticated subject, if any.
func UserIDFromContext(c *fiber.Ctx) string {
	if id, ok := c.Locals(localUserID).(string); ok {
		return id
	}
	return ""
}
