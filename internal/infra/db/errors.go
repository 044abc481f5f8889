package db

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQLのSQLSTATE
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// slugの重複など
func IsUniqueViolation(err error) bool {
	return pgCode(err) == codeUniqueViolation
}

// まだ参照されている行の削除など
func IsForeignKeyViolation(err error) bool {
	return pgCode(err) == codeForeignKeyViolation
}

// stock_quantity >= 0 などのCHECK制約
func IsCheckViolation(err error) bool {
	return pgCode(err) == codeCheckViolation
}
