package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/tasknest/internal/common"
	"github.com/dmitrijs2005/tasknest/internal/server/models"
	"github.com/labstack/echo/v4"
)

type forgetRequest struct {
	UserEmail string `json:"userEmail"`
}

type resetRequest struct {
	Password string `json:"password"`
	Token    string `json:"token"`
}

type tokenRequest struct {
	Token string `json:"token"`
}

func (s *Server) signUp(c echo.Context) error {
	var req models.SignUpRequest
	if err := c.Bind(&req); err != nil {
		return badBody(c)
	}

	ctx := c.Request().Context()
	if err := s.accounts.SignUp(ctx, req); err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return respond(c, http.StatusBadRequest, "This email is already used.")
		}
		s.logger.Error(ctx, "sign-up failed", "error", err)
		return respond(c, http.StatusInternalServerError, "Database error")
	}

	return respond(c, http.StatusOK, "Need confirmation")
}

func (s *Server) confirm(c echo.Context) error {
	ctx := c.Request().Context()

	profile, err := s.accounts.Confirm(ctx, c.Param("token"))
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, profile)
	case errors.Is(err, common.ErrorUnauthorized):
		return unauthorized(c)
	case errors.Is(err, common.ErrorNotFound):
		return respond(c, http.StatusNotFound, "No account found")
	case errors.Is(err, common.ErrorAlreadyExists):
		return respond(c, http.StatusBadRequest, "Account already confirmed")
	default:
		s.logger.Error(ctx, "confirm failed", "error", err)
		return respond(c, http.StatusInternalServerError, "Database error")
	}
}

func (s *Server) signIn(c echo.Context) error {
	var req models.SignInRequest
	if err := c.Bind(&req); err != nil {
		return badBody(c)
	}

	ctx := c.Request().Context()
	profile, err := s.accounts.SignIn(ctx, req)
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, profile)
	case errors.Is(err, common.ErrIncorrectPassword):
		return respond(c, http.StatusBadRequest, "Password is incorrect.")
	case errors.Is(err, common.ErrorNotFound):
		return respond(c, http.StatusNotFound, "User doesn't exist.")
	default:
		s.logger.Error(ctx, "sign-in failed", "error", err)
		return respond(c, http.StatusInternalServerError, "Database error")
	}
}

func (s *Server) forget(c echo.Context) error {
	var req forgetRequest
	if err := c.Bind(&req); err != nil {
		return badBody(c)
	}

	ctx := c.Request().Context()
	if err := s.accounts.Forget(ctx, req.UserEmail); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return respond(c, http.StatusBadRequest, "No user with this email")
		}
		s.logger.Error(ctx, "forget failed", "error", err)
		return respond(c, http.StatusInternalServerError, "Database error")
	}

	return respond(c, http.StatusOK, "Success")
}

func (s *Server) reset(c echo.Context) error {
	var req resetRequest
	if err := c.Bind(&req); err != nil {
		return badBody(c)
	}

	ctx := c.Request().Context()
	err := s.accounts.Reset(ctx, req.Token, req.Password)
	switch {
	case err == nil:
		return respond(c, http.StatusOK, "Password reset successfully")
	case errors.Is(err, common.ErrorUnauthorized):
		return unauthorized(c)
	case errors.Is(err, common.ErrorNotFound):
		return respond(c, http.StatusNotFound, "No account found")
	default:
		s.logger.Error(ctx, "reset failed", "error", err)
		return respond(c, http.StatusInternalServerError, "Database error")
	}
}

func (s *Server) sendConfirm(c echo.Context) error {
	var req tokenRequest
	if err := c.Bind(&req); err != nil {
		return badBody(c)
	}

	ctx := c.Request().Context()
	err := s.accounts.SendConfirm(ctx, req.Token)
	switch {
	case err == nil:
		return respond(c, http.StatusOK, "Activation email sent successfully.")
	case errors.Is(err, common.ErrorUnauthorized):
		return unauthorized(c)
	case errors.Is(err, common.ErrorNotFound):
		return respond(c, http.StatusBadRequest, "No user found with this email.")
	case errors.Is(err, common.ErrAlreadyConfirmed):
		return respond(c, http.StatusBadRequest, "User account is already active.")
	case errors.Is(err, common.ErrDelivery):
		return respond(c, http.StatusInternalServerError, "Failed to send activation email.")
	default:
		s.logger.Error(ctx, "send-confirm failed", "error", err)
		return respond(c, http.StatusInternalServerError, "Database error.")
	}
}
