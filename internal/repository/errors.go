package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrBucketConflict reports that an insert lost the race for a
// (base id, day key) bucket to a concurrent create.
var ErrBucketConflict = errors.New("ticket bucket already exists")

const uniqueViolationCode = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
