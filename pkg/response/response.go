package response

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// Machine-readable error codes surfaced in the envelope so clients can
// branch without parsing messages.
const (
	CodeTokenExpired      = "TOKEN_EXPIRED"
	CodeNeedsVerification = "NEEDS_VERIFICATION"
	CodeBanned            = "ACCOUNT_BANNED"
)

// Envelope is the unified API response format.
type Envelope struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message,omitempty"`
	Code       string      `json:"code,omitempty"`
	Data       interface{} `json:"data,omitempty"`
	Errors     []string    `json:"errors,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
	Count      *int64      `json:"count,omitempty"`
}

// Pagination describes a page of a larger result set.
type Pagination struct {
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
	Total    int64 `json:"total"`
}

// AppError is a structured application error with HTTP status, an optional
// machine-readable code, and optional extra payload.
type AppError struct {
	HTTPStatus int
	Code       string
	Message    string
	Errors     []string
	Data       interface{}
}

func (e *AppError) Error() string {
	return e.Message
}

// Pre-defined error constructors

func NewBadRequest(msg string) *AppError {
	return &AppError{HTTPStatus: http.StatusBadRequest, Message: msg}
}

func NewValidation(msg string, fieldErrors []string) *AppError {
	return &AppError{HTTPStatus: http.StatusBadRequest, Message: msg, Errors: fieldErrors}
}

func NewUnauthorized(msg string) *AppError {
	return &AppError{HTTPStatus: http.StatusUnauthorized, Message: msg}
}

func NewUnauthorizedCode(msg, code string) *AppError {
	return &AppError{HTTPStatus: http.StatusUnauthorized, Message: msg, Code: code}
}

func NewForbidden(msg string) *AppError {
	return &AppError{HTTPStatus: http.StatusForbidden, Message: msg}
}

func NewForbiddenCode(msg, code string, data interface{}) *AppError {
	return &AppError{HTTPStatus: http.StatusForbidden, Message: msg, Code: code, Data: data}
}

func NewNotFound(msg string) *AppError {
	return &AppError{HTTPStatus: http.StatusNotFound, Message: msg}
}

func NewConflict(msg string) *AppError {
	return &AppError{HTTPStatus: http.StatusConflict, Message: msg}
}

func NewServerError(msg string) *AppError {
	return &AppError{HTTPStatus: http.StatusInternalServerError, Message: msg}
}

// --- Gin response helpers ---

// Success sends a 200 OK response with data.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

// SuccessMessage sends a 200 OK response with a message only.
func SuccessMessage(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, Envelope{Success: true, Message: msg})
}

// SuccessWith sends a 200 OK with both message and data.
func SuccessWith(c *gin.Context, msg string, data interface{}) {
	c.JSON(http.StatusOK, Envelope{Success: true, Message: msg, Data: data})
}

// Created sends a 201 Created response with data.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Message: "created", Data: data})
}

// Listed sends a 200 OK with a count of items.
func Listed(c *gin.Context, data interface{}, count int64) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data, Count: &count})
}

// Paginated sends a 200 OK with a pagination block.
func Paginated(c *gin.Context, data interface{}, page, pageSize int, total int64) {
	c.JSON(http.StatusOK, Envelope{
		Success:    true,
		Data:       data,
		Pagination: &Pagination{Page: page, PageSize: pageSize, Total: total},
	})
}

// Error sends an error response. *AppError carries its own status and code;
// anything else becomes a generic 500 without leaking internals.
func Error(c *gin.Context, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.HTTPStatus, Envelope{
			Success: false,
			Message: appErr.Message,
			Code:    appErr.Code,
			Errors:  appErr.Errors,
			Data:    appErr.Data,
		})
		return
	}
	c.JSON(http.StatusInternalServerError, Envelope{
		Success: false,
		Message: "internal server error",
	})
}

// BindError sends a 400 for a failed request binding, flattening validator
// field errors into the errors array.
func BindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fieldErrors := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fieldErrors = append(fieldErrors, describeFieldError(fe))
		}
		c.JSON(http.StatusBadRequest, Envelope{
			Success: false,
			Message: "validation failed",
			Errors:  fieldErrors,
		})
		return
	}
	c.JSON(http.StatusBadRequest, Envelope{
		Success: false,
		Message: "invalid request body",
		Errors:  []string{err.Error()},
	})
}

// Convenience error response functions

func BadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, Envelope{Success: false, Message: msg})
}

func Unauthorized(c *gin.Context, msg string) {
	c.JSON(http.StatusUnauthorized, Envelope{Success: false, Message: msg})
}

func UnauthorizedCode(c *gin.Context, msg, code string) {
	c.JSON(http.StatusUnauthorized, Envelope{Success: false, Message: msg, Code: code})
}

func Forbidden(c *gin.Context, msg string) {
	c.JSON(http.StatusForbidden, Envelope{Success: false, Message: msg})
}

func NotFound(c *gin.Context, msg string) {
	c.JSON(http.StatusNotFound, Envelope{Success: false, Message: msg})
}

func ServerError(c *gin.Context, msg string) {
	c.JSON(http.StatusInternalServerError, Envelope{Success: false, Message: msg})
}

func describeFieldError(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be >= %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be <= %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
