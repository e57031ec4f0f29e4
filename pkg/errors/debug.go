package errors

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// ErrorDump is the log-friendly breakdown of an error chain.
type ErrorDump struct {
	TopMessage string `json:"top_message"`
	Code       Code   `json:"code,omitempty"`

	Chain []string `json:"chain,omitempty"`

	PGDriver     string `json:"pg_driver,omitempty"`
	PGCode       string `json:"pg_code,omitempty"`
	PGConstraint string `json:"pg_constraint,omitempty"`
	PGTable      string `json:"pg_table,omitempty"`
	PGColumn     string `json:"pg_column,omitempty"`
	PGDetail     string `json:"pg_detail,omitempty"`
	PGMessage    string `json:"pg_message,omitempty"`
}

func Dump(err error) ErrorDump {
	if err == nil {
		return ErrorDump{}
	}

	d := ErrorDump{TopMessage: err.Error()}
	if te := As(err); te != nil {
		d.Code = te.Code()
	}
	for e := err; e != nil; e = errors.Unwrap(e) {
		d.Chain = append(d.Chain, fmt.Sprintf("%T: %v", e, e))
	}
	fillPG(&d, err)
	return d
}

// PGCode returns the SQLSTATE carried by a Postgres driver error, or "".
func PGCode(err error) string {
	var d ErrorDump
	fillPG(&d, err)
	return d.PGCode
}

// fillPG copies the first pgx or lib/pq error found in err's chain.
func fillPG(d *ErrorDump, err error) {
	if err == nil {
		return
	}
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		d.PGDriver = "pgx"
		d.PGCode, d.PGConstraint, d.PGMessage = pgxErr.Code, pgxErr.ConstraintName, pgxErr.Message
		d.PGTable, d.PGColumn, d.PGDetail = pgxErr.TableName, pgxErr.ColumnName, pgxErr.Detail
		return
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		d.PGDriver = "pq"
		d.PGCode, d.PGConstraint, d.PGMessage = string(pqErr.Code), pqErr.Constraint, pqErr.Message
		d.PGTable, d.PGColumn, d.PGDetail = pqErr.Table, pqErr.Column, pqErr.Detail
	}
}
