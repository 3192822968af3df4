package api

import (
	"github.com/labstack/echo/v4"

	"github.com/hal9000y/gmail-triage/internal/apperr"
)

// ErrorResponse is the JSON body of every failed API call.
type ErrorResponse struct {
	Error string `json:"error"`
}

func errorJSON(c echo.Context, err error) error {
	status := apperr.HTTPStatus(apperr.KindOf(err))
	return c.JSON(status, ErrorResponse{Error: apperr.PublicMessage(err)})
}
