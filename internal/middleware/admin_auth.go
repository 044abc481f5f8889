package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

const (
	CtxAdminKey = "admin_user" // string

	// ログインで発行するJWTを入れるCookie
	AdminSessionCookie = "admin_session"
)

// usecase.AdminAuthUsecaseが満たす
type AdminAuthenticator interface {
	Authenticate(username, password string) bool
	VerifyToken(raw string) (string, error)
}

// 管理画面用の認証。
// Cookie/Bearer のJWTがあればそれを検証し、無ければBasic認証にする
func AdminAuth(authn AdminAuthenticator) echo.MiddlewareFunc {
	basic := echomw.BasicAuthWithConfig(echomw.BasicAuthConfig{
		Realm: "admin",
		Validator: func(username, password string, c echo.Context) (bool, error) {
			if !authn.Authenticate(username, password) {
				return false, nil
			}
			c.Set(CtxAdminKey, username)
			return true, nil
		},
	})

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		withBasic := basic(next)

		return func(c echo.Context) error {
			raw := sessionToken(c)
			if raw == "" {
				return withBasic(c)
			}

			//JWTをパースして検証する
			username, err := authn.VerifyToken(raw)
			if err != nil || username == "" {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			//contextへ保存
			c.Set(CtxAdminKey, username)
			return next(c)
		}
	}
}

// AdminFromContext は認証済み管理者のユーザー名を返す
func AdminFromContext(c echo.Context) (string, bool) {
	v, ok := c.Get(CtxAdminKey).(string)
	return v, ok && v != ""
}

func sessionToken(c echo.Context) string {
	if ck, err := c.Cookie(AdminSessionCookie); err == nil && ck.Value != "" {
		return ck.Value
	}

	//Bearer形式か確認してtokenを抜く
	authz := c.Request().Header.Get(echo.HeaderAuthorization)
	parts := strings.SplitN(authz, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

type errorResponse struct {
	Error string `json:"error"`
}

func errorJSON(msg string) errorResponse {
	return errorResponse{Error: msg}
}
