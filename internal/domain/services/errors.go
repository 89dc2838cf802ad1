package services

import (
	"database/sql"
	"errors"

	apperrors "github.com/gestionloc/gestionloc_service/pkg/errors"
)

// notFoundOr maps a missing-row error to the resource's not-found error and
// passes every other error through unchanged.
func notFoundOr(err error, code apperrors.ErrorCode, resource string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return apperrors.NotFound(code, resource)
	}
	return err
}
