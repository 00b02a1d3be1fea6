package response

import (
	"errors"
	"net/http"

	"rfid-wallet-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

// The dashboard and the hardware tooling consume the bodies verbatim,
// so success responses are written without an envelope and error
// responses use a flat {"error": ...} object with any detail fields
// (balance, required) merged in at the top level.

// OK sends a 200 response with data as the body.
func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

// Created sends a 201 response with data as the body.
func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

// Message sends a 200 response with a plain message field.
func Message(c *gin.Context, msg string, extra gin.H) {
	body := gin.H{"message": msg}
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(http.StatusOK, body)
}

// Error sends an error response. It checks if err is an *apperror.AppError
// and maps it accordingly, otherwise returns 500.
func Error(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		body := gin.H{"error": appErr.Message}
		for k, v := range appErr.Details {
			body[k] = v
		}
		c.JSON(appErr.HTTPStatus, body)
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}
