package sqlite

import (
	"errors"
	"strings"

	"github.com/aussiebroadwan/tenancy/internal/invites/store"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// mapConstraint turns unique violations into store sentinels. The column
// named in sqlite's message decides which one.
func mapConstraint(err error) error {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return err
	}
	if se.Code() != sqlite3.SQLITE_CONSTRAINT_UNIQUE && se.Code() != sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY {
		return err
	}

	msg := se.Error()
	switch {
	case strings.Contains(msg, "invitations.code"):
		return store.ErrDuplicateCode
	case strings.Contains(msg, "users.email"):
		return store.ErrDuplicateEmail
	case strings.Contains(msg, "users.username"):
		return store.ErrDuplicateUsername
	default:
		return store.ErrAlreadyExists
	}
}
