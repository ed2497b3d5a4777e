// Package handlers implements the HTTP endpoints.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"breadroute/internal/core/apperror"
	"breadroute/internal/core/id"
)

// HandleError attaches err for the error middleware and stops the chain.
func HandleError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// BindJSON binds the request body or reports a validation error.
func BindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		HandleError(c, apperror.NewValidation("invalid request body").WithCause(err))
		return false
	}
	return true
}

// BindQuery binds query parameters or reports a validation error.
func BindQuery(c *gin.Context, obj any) bool {
	if err := c.ShouldBindQuery(obj); err != nil {
		HandleError(c, apperror.NewValidation("invalid query parameters").WithCause(err))
		return false
	}
	return true
}

// ParseIDParam parses a UUID path parameter.
func ParseIDParam(c *gin.Context, name string) (id.ID, bool) {
	parsed, err := id.Parse(c.Param(name))
	if err != nil {
		HandleError(c, apperror.NewValidation("invalid "+name).WithDetail(name, c.Param(name)))
		return id.Nil(), false
	}
	return parsed, true
}

// ParseOptionalID parses an optional UUID query value; empty means absent.
func ParseOptionalID(c *gin.Context, value, name string) (*id.ID, bool) {
	if value == "" {
		return nil, true
	}
	parsed, err := id.Parse(value)
	if err != nil {
		HandleError(c, apperror.NewValidation("invalid "+name).WithDetail(name, value))
		return nil, false
	}
	return &parsed, true
}

// ParseOptionalDate parses an optional RFC 3339 date or date-time query
// value; empty means absent.
func ParseOptionalDate(c *gin.Context, value, name string) (*time.Time, bool) {
	if value == "" {
		return nil, true
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t, true
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		HandleError(c, apperror.NewValidation("invalid "+name+", expected RFC 3339 or YYYY-MM-DD").
			WithDetail(name, value))
		return nil, false
	}
	return &t, true
}

// OK writes a 200 response.
func OK(c *gin.Context, body any) {
	c.JSON(http.StatusOK, body)
}

// Created writes a 201 response.
func Created(c *gin.Context, body any) {
	c.JSON(http.StatusCreated, body)
}
