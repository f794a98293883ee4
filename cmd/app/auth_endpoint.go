package main

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/Mcdemzy/plenty-events-backend/internal/middleware"
	"github.com/Mcdemzy/plenty-events-backend/internal/model"
	"github.com/Mcdemzy/plenty-events-backend/internal/services"
)

type updatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// writeServiceError maps business errors onto the response envelope and
// hides anything unexpected behind a generic 500.
func writeServiceError(c echo.Context, log zerolog.Logger, err error) error {
	switch {
	case errors.Is(err, services.ErrValidation),
		errors.Is(err, model.ErrDuplicateAccount),
		errors.Is(err, services.ErrInvalidOrExpiredToken),
		errors.Is(err, services.ErrAlreadyVerified):
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": err.Error()})
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrAccountDeactivated):
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": err.Error()})
	case errors.Is(err, model.ErrAccountNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": err.Error()})
	default:
		log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "Internal server error"})
	}
}

func invalidRequest(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid request body"})
}

// registerHandler accepts email, password plus the role's profile fields in a
// flat JSON body; the service validates the required set.
func registerHandler(svc *services.AuthService, log zerolog.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		body := map[string]any{}
		if err := c.Bind(&body); err != nil {
			return invalidRequest(c)
		}
		email, _ := body["email"].(string)
		password, _ := body["password"].(string)
		delete(body, "email")
		delete(body, "password")

		token, account, err := svc.Register(c.Request().Context(), email, password, model.Profile(body))
		if err != nil {
			return writeServiceError(c, log, err)
		}
		return c.JSON(http.StatusCreated, echo.Map{
			"success": true,
			"token":   token,
			"data":    account,
		})
	}
}

func loginHandler(svc *services.AuthService, log zerolog.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := c.Bind(&req); err != nil {
			return invalidRequest(c)
		}
		if req.Email == "" || req.Password == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"success": false,
				"message": "please provide an email and password",
			})
		}

		token, account, err := svc.Login(c.Request().Context(), req.Email, req.Password)
		if err != nil {
			return writeServiceError(c, log, err)
		}
		return c.JSON(http.StatusOK, echo.Map{
			"success": true,
			"token":   token,
			"data":    account,
		})
	}
}

func meHandler(svc *services.AuthService, log zerolog.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		account, err := svc.GetCurrentAccount(c.Request().Context(), middleware.CurrentAccount(c).ID)
		if err != nil {
			return writeServiceError(c, log, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"success": true, "data": account})
	}
}

func updateDetailsHandler(svc *services.AuthService, log zerolog.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		body := map[string]any{}
		if err := c.Bind(&body); err != nil {
			return invalidRequest(c)
		}
		account, err := svc.UpdateProfile(c.Request().Context(), middleware.CurrentAccount(c).ID, model.Profile(body))
		if err != nil {
			return writeServiceError(c, log, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"success": true, "data": account})
	}
}

func updatePasswordHandler(svc *services.AuthService, log zerolog.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := new(updatePasswordRequest)
		if err := c.Bind(req); err != nil {
			return invalidRequest(c)
		}
		token, err := svc.UpdatePassword(c.Request().Context(), middleware.CurrentAccount(c).ID, req.CurrentPassword, req.NewPassword)
		if err != nil {
			return writeServiceError(c, log, err)
		}
		return c.JSON(http.StatusOK, echo.Map{
			"success": true,
			"token":   token,
			"message": "Password updated successfully",
		})
	}
}

// registerRoleAuthRoutes mounts one auth route family. Vendor and waiter
// families are parallel instances of the same handlers bound to role-specific
// services.
func registerRoleAuthRoutes(api *echo.Group, prefix string, svc *services.AuthService, guard *middleware.Guard, limiter echo.MiddlewareFunc, log zerolog.Logger) {
	auth := api.Group(prefix+"/auth", limiter)

	// public
	auth.POST("/register", registerHandler(svc, log))
	auth.POST("/login", loginHandler(svc, log))

	// authenticated, restricted to this family's role
	protected := auth.Group("", guard.Protect(), middleware.Authorize(svc.Role().Name))
	protected.GET("/me", meHandler(svc, log))
	protected.PUT("/updatedetails", updateDetailsHandler(svc, log))
	protected.PUT("/updatepassword", updatePasswordHandler(svc, log))
}
