package postgres

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

const uniqueViolationCode = "23505"

func isNotFound(err error) bool {
	return err == sql.ErrNoRows
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == uniqueViolationCode
	}
	return false
}
