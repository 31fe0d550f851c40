package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/sinargas/sinargas-backend/internal/delivery/http/respond"
	"github.com/sinargas/sinargas-backend/internal/domain"
)

const (
	localsPrincipal = "principal"
	localsToken     = "token"
)

// TokenChecker answers whether a token has been denylisted by logout.
type TokenChecker interface {
	IsRevoked(ctx context.Context, token string) (bool, error)
}

type Auth struct {
	secret []byte
	tokens TokenChecker
}

func NewAuth(secret string, tokens TokenChecker) *Auth {
	return &Auth{secret: []byte(secret), tokens: tokens}
}

// Protect validates the bearer token, checks the logout denylist and stores
// the resulting principal in locals for downstream handlers.
func (a *Auth) Protect() fiber.Handler {
	return func(c *fiber.Ctx) error {
		auth := c.Get("Authorization")
		parts := strings.SplitN(auth, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return respond.Fail(c, fiber.StatusUnauthorized, "missing or malformed authorization header")
		}
		raw := parts[1]

		token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
			if t.Method != jwt.SigningMethodHS256 {
				return nil, jwt.ErrTokenSignatureInvalid
			}
			return a.secret, nil
		})
		if err != nil || !token.Valid {
			return respond.Fail(c, fiber.StatusUnauthorized, "invalid token")
		}

		revoked, err := a.tokens.IsRevoked(c.Context(), raw)
		if err != nil {
			return respond.Fail(c, fiber.StatusInternalServerError, "internal server error")
		}
		if revoked {
			return respond.Fail(c, fiber.StatusUnauthorized, "token has been revoked")
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return respond.Fail(c, fiber.StatusUnauthorized, "invalid token")
		}

		sub, _ := claims["sub"].(string)
		roleStr, _ := claims["role"].(string)
		role, ok := domain.ParseRole(roleStr)
		if sub == "" || !ok {
			return respond.Fail(c, fiber.StatusUnauthorized, "invalid token")
		}

		p := domain.Principal{UserID: sub, Role: role}
		if branch, ok := claims["branch_id"].(string); ok && branch != "" {
			p.BranchID = &branch
		}

		c.Locals(localsPrincipal, p)
		c.Locals(localsToken, raw)
		return c.Next()
	}
}

// RequireRoles gates a route group to the given roles. Must sit behind
// Protect.
func RequireRoles(roles ...domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p := Principal(c)
		for _, r := range roles {
			if p.Role == r {
				return c.Next()
			}
		}
		return respond.Fail(c, fiber.StatusForbidden, "insufficient role")
	}
}

// Principal returns the authenticated caller placed in locals by Protect.
func Principal(c *fiber.Ctx) domain.Principal {
	p, _ := c.Locals(localsPrincipal).(domain.Principal)
	return p
}

// RawToken returns the bearer token as presented, for logout.
func RawToken(c *fiber.Ctx) string {
	t, _ := c.Locals(localsToken).(string)
	return t
}
