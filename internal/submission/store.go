// internal/submission/store.go
//
// Residents table access.
//
// Context
// -------
// These helpers own the SQL for the Residents table and nothing else.
// They run against sqlx's ExtContext abstraction, so the same statements
// work on the pool (*sqlx.DB) and inside a transaction (*sqlx.Tx).  The
// submission service always calls them on a transaction.
//
// Notes
// -----
// • The two UNIQUE keys are the real duplicate guard under concurrency;
//   the service's pre-insert probe is an optimization and a friendlier
//   error path, not the invariant.
// • Column list matches the fields in Application; update both together.
package submission

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// Schema is the DDL for the Residents table, applied at boot through the
// component migration pass.  CREATE TABLE IF NOT EXISTS keeps restarts
// idempotent.
const Schema = `
CREATE TABLE IF NOT EXISTS Residents (
    ResidentID              BIGINT       NOT NULL AUTO_INCREMENT,
    CouncilTaxAccountNumber VARCHAR(32)  NOT NULL,
    FirstName               VARCHAR(100) NOT NULL,
    LastName                VARCHAR(100) NOT NULL,
    Postcode                VARCHAR(8)   NOT NULL,
    Email                   VARCHAR(254) NOT NULL,
    PhoneNumber             VARCHAR(32)  NOT NULL DEFAULT '',
    BankAccountNumber       VARCHAR(32)  NOT NULL,
    SortCode                CHAR(6)      NOT NULL,
    PRIMARY KEY (ResidentID),
    UNIQUE KEY uq_residents_account (CouncilTaxAccountNumber),
    UNIQUE KEY uq_residents_email   (Email)
)`

// residentExists probes for any row sharing either natural key with the
// candidate.  LIMIT 1 because we only care whether a match exists.
func residentExists(ctx context.Context, q sqlx.ExtContext, accountNumber, email string) (bool, error) {
	const query = `
        SELECT ResidentID FROM Residents
        WHERE  CouncilTaxAccountNumber = ? OR Email = ?
        LIMIT  1`
	var id int64
	err := sqlx.GetContext(ctx, q, &id, query, accountNumber, email)
	if err == nil {
		return true, nil
	}
	if isNoRows(err) {
		return false, nil
	}
	return false, err
}

// insertResident writes one Application and returns the generated
// ResidentID.
func insertResident(ctx context.Context, q sqlx.ExtContext, app Application) (int64, error) {
	const query = `
        INSERT INTO Residents (
            CouncilTaxAccountNumber, FirstName, LastName, Postcode, Email,
            PhoneNumber, BankAccountNumber, SortCode
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := q.ExecContext(ctx, query,
		app.CouncilTaxAccountNumber, app.FirstName, app.LastName,
		app.Postcode, app.Email, app.PhoneNumber,
		app.BankAccountNumber, app.SortCode)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}
