package utils

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// AppError 携带 HTTP 状态码的业务错误
type AppError struct {
	Status  int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewValidationError 参数校验失败 (400)
func NewValidationError(message string) *AppError {
	return &AppError{Status: http.StatusBadRequest, Message: message}
}

// NewNotFound 资源不存在 (404)
func NewNotFound(message string) *AppError {
	return &AppError{Status: http.StatusNotFound, Message: message}
}

// NewConflict 唯一性冲突 (409)
func NewConflict(message string) *AppError {
	return &AppError{Status: http.StatusConflict, Message: message}
}

// NewUnauthorized 未登录或凭证错误 (401)
func NewUnauthorized(message string) *AppError {
	return &AppError{Status: http.StatusUnauthorized, Message: message}
}

// NewForbidden 无权限 (403)
func NewForbidden(message string) *AppError {
	return &AppError{Status: http.StatusForbidden, Message: message}
}

// WrapInternal 包装内部错误 (500)
func WrapInternal(message string, err error) *AppError {
	return &AppError{Status: http.StatusInternalServerError, Message: message, Err: err}
}

// StatusOf 将错误归类为 HTTP 状态码
func StatusOf(err error) int {
	var appErr *AppError
	var validationErrs validator.ValidationErrors
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	var numErr *strconv.NumError

	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &appErr):
		return appErr.Status
	case errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return http.StatusConflict
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF),
		errors.As(err, &validationErrs),
		errors.As(err, &syntaxErr),
		errors.As(err, &typeErr),
		errors.As(err, &numErr):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// MessageOf 获取对客户端展示的错误信息，500 错误不暴露细节
func MessageOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Status < http.StatusInternalServerError {
		return appErr.Message
	}

	switch status := StatusOf(err); status {
	case http.StatusNotFound:
		return "资源不存在"
	case http.StatusConflict:
		return "数据已存在"
	case http.StatusBadRequest:
		return "无效的请求数据: " + err.Error()
	case http.StatusInternalServerError:
		return "服务器内部错误"
	default:
		return http.StatusText(status)
	}
}
