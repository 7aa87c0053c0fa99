package database

import (
	"errors"

	"github.com/lib/pq"
	"github.com/rs/zerolog"
)

// Diagnostics holds the Postgres fields worth logging for a failed statement
type Diagnostics struct {
	Code       string
	Class      string
	Constraint string
	Table      string
	Column     string
	Detail     string
}

// Diagnose extracts Postgres diagnostics from err. ok is false when err does
// not wrap a *pq.Error.
func Diagnose(err error) (Diagnostics, bool) {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return Diagnostics{}, false
	}

	return Diagnostics{
		Code:       string(pqErr.Code),
		Class:      pqErr.Code.Class().Name(),
		Constraint: pqErr.Constraint,
		Table:      pqErr.Table,
		Column:     pqErr.Column,
		Detail:     pqErr.Detail,
	}, true
}

// IsIntegrityViolation reports SQLSTATE class 23 errors (FK, unique, not null, check)
func IsIntegrityViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code.Class() == "23"
}

// MarshalZerologObject lets Diagnostics be attached with Event.Object
func (d Diagnostics) MarshalZerologObject(e *zerolog.Event) {
	e.Str("code", d.Code).Str("class", d.Class)
	if d.Constraint != "" {
		e.Str("constraint", d.Constraint)
	}
	if d.Table != "" {
		e.Str("table", d.Table)
	}
	if d.Column != "" {
		e.Str("column", d.Column)
	}
	if d.Detail != "" {
		e.Str("detail", d.Detail)
	}
}
