package repository

import (
	"errors"
	"pms/shared/constant"

	"github.com/lib/pq"
)

// PqErrorCode returns the SQLSTATE of a postgres error anywhere in err's chain.
func PqErrorCode(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}

	return ""
}

func IsForeignKeyViolation(err error) bool {
	return PqErrorCode(err) == constant.PqErrorCodeFkViolation
}

func IsUniqueViolation(err error) bool {
	return PqErrorCode(err) == constant.PqErrorCodeUniqueViolation
}

// IsExclusionViolation reports a breach of an EXCLUDE constraint, such as two active stays on one room.
func IsExclusionViolation(err error) bool {
	return PqErrorCode(err) == constant.PqErrorCodeExclusionViolation
}

// IsInvalidText reports a value postgres could not parse for its column type, such as a malformed uuid.
func IsInvalidText(err error) bool {
	return PqErrorCode(err) == constant.PqErrorCodeInvalidText
}
