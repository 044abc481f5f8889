package usecase

import (
	"errors"
	"fmt"
	"net/http"
)

// HTTPErrorはhandlerがそのままステータスとメッセージに変換するエラー
type HTTPError struct {
	Status  int
	Message string
	// 500のときの原因。レスポンスには出さずログにだけ出す
	Err error
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%d: %s: %v", e.Status, e.Message, e.Err)
	}
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

// 入力不正・業務ルール違反（400）
func NewValidationError(format string, args ...any) error {
	return NewHTTPError(http.StatusBadRequest, fmt.Sprintf(format, args...))
}

func NewNotFoundError(format string, args ...any) error {
	return NewHTTPError(http.StatusNotFound, fmt.Sprintf(format, args...))
}

func NewConflictError(format string, args ...any) error {
	return NewHTTPError(http.StatusConflict, fmt.Sprintf(format, args...))
}

// DB等の失敗。中身はクライアントに返さない
func NewPersistenceError(err error) error {
	return &HTTPError{
		Status:  http.StatusInternalServerError,
		Message: "internal server error",
		Err:     err,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}
