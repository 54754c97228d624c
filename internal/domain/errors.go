package domain

import (
	"errors"
	"fmt"

	"git.appkode.ru/pub/go/failure"

	"share_market/pkg/errcodes"
)

// AppError — доменная ошибка, переносимая через границы сервисов и
// репозиториев.
type AppError struct {
	Code    failure.ErrorCode
	Message string
	cause   error
}

func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap отдаёт обёрнутую ошибку для errors.Is/As.
func (e *AppError) Unwrap() error {
	return e.cause
}

func NewError(code failure.ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// WrapError добавляет доменный контекст к существующей ошибке.
func WrapError(err error, code failure.ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		cause:   err,
	}
}

func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

func GetCode(err error) (failure.ErrorCode, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code, true
	}
	return "", false
}

// ToFailure переводит AppError в соответствующий класс failure, чтобы слой
// HTTP-ответов сопоставил ему статус-код. Недоменные ошибки проходят без
// изменений и становятся 500.
func ToFailure(err error) error {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return err
	}

	opts := []failure.Option{
		failure.WithCode(appErr.Code),
		failure.WithDescription(appErr.Message),
	}

	switch {
	case errcodes.IsValidation(appErr.Code):
		return failure.NewInvalidArgumentError(appErr.Error(), opts...)
	case errcodes.IsNotFound(appErr.Code):
		return failure.NewNotFoundError(appErr.Error(), opts...)
	case errcodes.IsConflict(appErr.Code):
		return failure.NewConflictError(appErr.Error(), opts...)
	case errcodes.IsState(appErr.Code):
		return failure.NewUnprocessableEntityError(appErr.Error(), opts...)
	case appErr.Code == errcodes.Forbidden || appErr.Code == errcodes.SelfInterest:
		return failure.NewForbiddenError(appErr.Error(), opts...)
	default:
		return err
	}
}
