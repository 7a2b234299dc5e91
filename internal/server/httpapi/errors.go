package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type messageResponse struct {
	Message string `json:"message"`
}

func message(msg string) messageResponse {
	return messageResponse{Message: msg}
}

func respond(c echo.Context, status int, msg string) error {
	return c.JSON(status, message(msg))
}

func unauthorized(c echo.Context) error {
	return respond(c, http.StatusUnauthorized, "Unauthorized")
}

func badBody(c echo.Context) error {
	return respond(c, http.StatusBadRequest, "invalid body")
}
