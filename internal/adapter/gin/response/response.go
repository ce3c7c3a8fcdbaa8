// Package response defines the envelope every API handler replies with.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	pkgerrors "admin-panel-api/pkg/errors"
)

// Envelope is the wire shape of every API response.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Pagination describes one page of a list payload.
type Pagination struct {
	Total      int64 `json:"total"`
	Page       int64 `json:"page"`
	Limit      int64 `json:"limit"`
	TotalPages int64 `json:"total_pages"`
}

// OK writes a 200 envelope.
func OK(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, Envelope{Success: true, Message: message, Data: data})
}

// Created writes a 201 envelope.
func Created(c *gin.Context, message string, data any) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Message: message, Data: data})
}

// Error writes a failure envelope, deriving the HTTP status and machine code
// from the error. Internal errors are redacted to a generic message.
func Error(c *gin.Context, err error) {
	status, code := pkgerrors.StatusAndCode(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "internal server error"
	}
	c.JSON(status, Envelope{Success: false, Message: message, Error: code})
}

// AbortWith writes a failure envelope and stops the handler chain.
// Meant for middleware.
func AbortWith(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, Envelope{Success: false, Message: message, Error: code})
}
