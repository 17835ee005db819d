package sqlite

import (
	"database/sql"
	"errors"
	"regexp"
	"strings"

	"github.com/reelnotes/reelnotes-server/internal/store"

	sqlitedrv "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Captures the constraint type and the table.column list from driver messages
// such as "UNIQUE constraint failed: tags.name_key".
var constraintMsgRe = regexp.MustCompile(`(UNIQUE|FOREIGN KEY|CHECK|NOT NULL) constraint failed(?:: ([\w.]+(?:, [\w.]+)*))?`)

// classify converts a driver error into a *store.Error. It is the only place
// in the repository that looks at SQLite result codes.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound.WithMessage(op + ": not found").WithCause(err)
	}

	var sqlErr *sqlitedrv.Error
	if !errors.As(err, &sqlErr) {
		return store.Unknown(op, err)
	}

	constraint, ok := constraintFromCode(sqlErr.Code())
	if !ok {
		return store.Unknown(op, err)
	}

	target := ""
	if m := constraintMsgRe.FindStringSubmatch(sqlErr.Error()); m != nil {
		if constraint == "" {
			constraint = constraintFromKeyword(m[1])
		}
		target = m[2]
	}

	return &store.Error{
		Kind:       store.KindConstraintViolation,
		Constraint: constraint,
		Target:     target,
		Message:    op,
		Err:        err,
	}
}

// constraintFromCode maps an extended result code to a constraint type.
// ok is false when the code is not a constraint failure at all. A bare
// SQLITE_CONSTRAINT yields ok with an empty constraint, resolved from the message.
func constraintFromCode(code int) (store.Constraint, bool) {
	switch code {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return store.ConstraintUnique, true
	case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
		return store.ConstraintForeignKey, true
	case sqlite3.SQLITE_CONSTRAINT_CHECK:
		return store.ConstraintCheck, true
	case sqlite3.SQLITE_CONSTRAINT_NOTNULL:
		return store.ConstraintNotNull, true
	}
	if code&0xff == sqlite3.SQLITE_CONSTRAINT {
		return "", true
	}
	return "", false
}

func constraintFromKeyword(kw string) store.Constraint {
	switch strings.ToUpper(kw) {
	case "UNIQUE":
		return store.ConstraintUnique
	case "FOREIGN KEY":
		return store.ConstraintForeignKey
	case "CHECK":
		return store.ConstraintCheck
	case "NOT NULL":
		return store.ConstraintNotNull
	}
	return ""
}
