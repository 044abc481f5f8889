package usecase

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"
	"time"

	"storefront/internal/config"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const adminRole = "ADMIN"

// 認証失敗（ユーザー名かパスワードが違う）
var ErrInvalidCredentials = errors.New("invalid credentials")

type AdminLoginOutput struct {
	Token     string    `json:"-"`
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// 管理者は設定ファイルの1アカウントだけ
type AdminAuthUsecase struct {
	cfg config.Config
	now func() time.Time
}

func NewAdminAuthUsecase(cfg config.Config) *AdminAuthUsecase {
	return &AdminAuthUsecase{cfg: cfg, now: time.Now}
}

// Basic認証・ログイン共通のチェック
func (u *AdminAuthUsecase) Authenticate(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(u.cfg.AdminUsername)) == 1

	var passOK bool
	if u.cfg.AdminPasswordHash != "" {
		//ハッシュがあればそちらを優先
		passOK = bcrypt.CompareHashAndPassword([]byte(u.cfg.AdminPasswordHash), []byte(password)) == nil
	} else {
		passOK = subtle.ConstantTimeCompare([]byte(password), []byte(u.cfg.AdminPassword)) == 1
	}
	return userOK && passOK
}

func (u *AdminAuthUsecase) Login(ctx context.Context, username, password string) (AdminLoginOutput, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return AdminLoginOutput{}, NewValidationError("username and password required")
	}
	if !u.Authenticate(username, password) {
		return AdminLoginOutput{}, &HTTPError{Status: http.StatusUnauthorized, Message: "invalid credentials", Err: ErrInvalidCredentials}
	}

	now := u.now()
	exp := now.Add(u.cfg.AdminSessionTTL)

	claims := jwt.MapClaims{
		"sub":  username,
		"role": adminRole,
		"jti":  uuid.NewString(),
		"iat":  now.Unix(),
		"exp":  exp.Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(u.cfg.JWTSecret))
	if err != nil {
		return AdminLoginOutput{}, NewPersistenceError(err)
	}

	return AdminLoginOutput{Token: token, Username: username, ExpiresAt: exp}, nil
}

// VerifyToken は管理者JWTを検証してユーザー名を返す
func (u *AdminAuthUsecase) VerifyToken(raw string) (string, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(u.cfg.JWTSecret), nil
	})
	if err != nil || token == nil || !token.Valid {
		return "", ErrInvalidCredentials
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidCredentials
	}
	role, _ := claims["role"].(string)
	if role != adminRole {
		return "", ErrInvalidCredentials
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", ErrInvalidCredentials
	}
	return sub, nil
}
