package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/Mcdemzy/plenty-events-backend/internal/model"
	"github.com/Mcdemzy/plenty-events-backend/internal/services"
)

const accountContextKey = "auth_account"

// Guard authenticates bearer tokens and resolves the account they refer to.
// It is state-free per request: token claims carry the account id and role,
// and the store is consulted to reject vanished or deactivated accounts.
type Guard struct {
	tokens   *services.TokenService
	accounts services.AccountStore
	logger   zerolog.Logger
}

func NewGuard(tokens *services.TokenService, accounts services.AccountStore, logger zerolog.Logger) *Guard {
	return &Guard{tokens: tokens, accounts: accounts, logger: logger}
}

// Protect validates the Authorization header, verifies the token and attaches
// the resolved account to the request context.
func (g *Guard) Protect() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get(echo.HeaderAuthorization)
			if auth == "" {
				return unauthenticated(c, "missing authorization header")
			}
			parts := strings.Fields(auth)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return unauthenticated(c, "invalid authorization header")
			}

			claims, err := g.tokens.Verify(parts[1])
			if err != nil {
				return unauthenticated(c, "invalid or expired token")
			}
			if !model.ValidRole(claims.Role) {
				return unauthenticated(c, "invalid role in token")
			}
			id, err := uuid.Parse(claims.AccountID)
			if err != nil {
				return unauthenticated(c, "invalid token claims")
			}

			account, err := g.accounts.GetByID(c.Request().Context(), claims.Role, id)
			if err != nil {
				if errors.Is(err, model.ErrAccountNotFound) {
					return unauthenticated(c, "account no longer exists")
				}
				g.logger.Error().Err(err).Str("role", claims.Role).Msg("guard account lookup failed")
				return c.JSON(http.StatusInternalServerError, echo.Map{
					"success": false,
					"message": "Server error in authentication",
				})
			}
			if !account.IsActive {
				return unauthenticated(c, "account has been deactivated")
			}

			c.Set(accountContextKey, account)
			return next(c)
		}
	}
}

// Authorize restricts a route to the given roles. It must run after Protect.
func Authorize(allowedRoles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			account := CurrentAccount(c)
			if account == nil {
				return unauthenticated(c, "not authenticated")
			}
			for _, role := range allowedRoles {
				if account.Role == role {
					return next(c)
				}
			}
			return c.JSON(http.StatusForbidden, echo.Map{
				"success": false,
				"message": "role " + account.Role + " is not authorized to access this route",
			})
		}
	}
}

// CurrentAccount returns the account attached by Protect, or nil.
func CurrentAccount(c echo.Context) *model.Account {
	if a, ok := c.Get(accountContextKey).(*model.Account); ok {
		return a
	}
	return nil
}

func unauthenticated(c echo.Context, message string) error {
	return c.JSON(http.StatusUnauthorized, echo.Map{
		"success": false,
		"message": message,
	})
}
