package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"storefront/internal/middleware"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type SuccessResponse struct {
	Message string `json:"message"`
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		//500の中身はログにだけ出す
		if he.Status >= http.StatusInternalServerError {
			logServerError(c, err)
		}
		return c.JSON(he.Status, ErrorResponse{Error: he.Message})
	}

	//500
	logServerError(c, err)
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}

func logServerError(c echo.Context, err error) {
	slog.Error("request failed",
		"method", c.Request().Method,
		"path", c.Path(),
		"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
		"error", err,
	)
}

// JSONを厳密に読む（知らないフィールド・型違い・複数値は400）
func bindStrict(c echo.Context, dst any) error {
	dec := json.NewDecoder(c.Request().Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return usecase.NewValidationError("empty body")
		}
		return usecase.NewValidationError("invalid body")
	}
	if dec.More() {
		return usecase.NewValidationError("invalid body")
	}
	return nil
}

func paramID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, usecase.NewValidationError("invalid %s", name)
	}
	return id, nil
}

// 未指定ならdef
func queryInt(c echo.Context, name string, def int) (int, error) {
	v := c.QueryParam(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, usecase.NewValidationError("invalid %s", name)
	}
	return n, nil
}

func queryBool(c echo.Context, name string) (*bool, error) {
	v := c.QueryParam(name)
	if v == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil, usecase.NewValidationError("invalid %s", name)
	}
	return &b, nil
}

// AdminAuthを通った管理者名
func actorFromContext(c echo.Context) (string, error) {
	name, ok := middleware.AdminFromContext(c)
	if !ok {
		return "", usecase.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	return name, nil
}
