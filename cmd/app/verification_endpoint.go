package main

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/Mcdemzy/plenty-events-backend/internal/model"
	"github.com/Mcdemzy/plenty-events-backend/internal/services"
)

func verifyEmailHandler(svc *services.VerificationService, log zerolog.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := c.QueryParam("token")
		userType := c.QueryParam("type")
		if token == "" || userType == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"success": false,
				"message": "verification token and user type are required",
			})
		}
		if !model.ValidRole(userType) {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"success": false,
				"message": "invalid user type",
			})
		}

		if _, err := svc.Consume(c.Request().Context(), userType, token); err != nil {
			return writeServiceError(c, log, err)
		}
		return c.JSON(http.StatusOK, echo.Map{
			"success": true,
			"message": "Email verified successfully",
		})
	}
}

func resendVerificationHandler(svc *services.VerificationService, log zerolog.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req struct {
			Email    string `json:"email"`
			UserType string `json:"userType"`
		}
		if err := c.Bind(&req); err != nil {
			return invalidRequest(c)
		}
		if req.Email == "" || req.UserType == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"success": false,
				"message": "email and user type are required",
			})
		}
		if !model.ValidRole(req.UserType) {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"success": false,
				"message": "invalid user type",
			})
		}

		if err := svc.Resend(c.Request().Context(), req.UserType, req.Email); err != nil {
			return writeServiceError(c, log, err)
		}
		return c.JSON(http.StatusOK, echo.Map{
			"success": true,
			"message": "Verification email sent successfully",
		})
	}
}

func registerVerificationRoutes(api *echo.Group, svc *services.VerificationService, log zerolog.Logger) {
	v := api.Group("/verification")
	v.GET("/verify-email", verifyEmailHandler(svc, log))
	v.POST("/resend-verification", resendVerificationHandler(svc, log))
}
