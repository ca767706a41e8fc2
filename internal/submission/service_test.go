// internal/submission/service_test.go
//
// Unit-tests for the submission service using sqlmock.  Every test pins
// the transaction shape: begin, probe, insert, then commit or rollback.
//
// Run: go test ./internal/submission -v

package submission

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

var (
	probeSQL  = regexp.QuoteMeta(`SELECT ResidentID FROM Residents WHERE CouncilTaxAccountNumber = ? OR Email = ? LIMIT 1`)
	insertSQL = regexp.QuoteMeta(`INSERT INTO Residents ( CouncilTaxAccountNumber, FirstName, LastName, Postcode, Email, PhoneNumber, BankAccountNumber, SortCode ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
)

func newMockService(t *testing.T) (*Service, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	sdb := sqlx.NewDb(db, "mysql")
	svc, err := NewService(sdb, zap.NewNop().Sugar())
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc, mock, func() { sdb.Close() }
}

func testApp() Application {
	app, errs := Validate(goodRequest())
	if len(errs) != 0 {
		panic("fixture must validate")
	}
	return app
}

func TestSubmitAccepted(t *testing.T) {
	svc, mock, done := newMockService(t)
	defer done()
	app := testApp()

	mock.ExpectBegin()
	mock.ExpectQuery(probeSQL).
		WithArgs(app.CouncilTaxAccountNumber, app.Email).
		WillReturnRows(sqlmock.NewRows([]string{"ResidentID"})) // no match
	mock.ExpectExec(insertSQL).
		WithArgs(app.CouncilTaxAccountNumber, app.FirstName, app.LastName,
			app.Postcode, app.Email, app.PhoneNumber,
			app.BankAccountNumber, app.SortCode).
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectCommit()

	res := svc.Submit(context.Background(), app)
	if res.Outcome != OutcomeAccepted {
		t.Fatalf("outcome = %s, want accepted (diag: %v)", res.Outcome, res.Diagnostic)
	}
	if res.ResidentID != 7 {
		t.Fatalf("resident id = %d, want 7", res.ResidentID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

// TestSubmitDuplicateProbeHit covers both natural keys: the probe matches
// on account number OR email, so either collision short-circuits before
// the insert.
func TestSubmitDuplicateProbeHit(t *testing.T) {
	svc, mock, done := newMockService(t)
	defer done()
	app := testApp()

	mock.ExpectBegin()
	mock.ExpectQuery(probeSQL).
		WithArgs(app.CouncilTaxAccountNumber, app.Email).
		WillReturnRows(sqlmock.NewRows([]string{"ResidentID"}).AddRow(3))
	mock.ExpectRollback()

	res := svc.Submit(context.Background(), app)
	if res.Outcome != OutcomeDuplicate {
		t.Fatalf("outcome = %s, want duplicate", res.Outcome)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

// TestSubmitRacedInsert simulates losing the race to a concurrent
// submission: the probe sees nothing, the insert trips the UNIQUE key.
func TestSubmitRacedInsert(t *testing.T) {
	svc, mock, done := newMockService(t)
	defer done()
	app := testApp()

	mock.ExpectBegin()
	mock.ExpectQuery(probeSQL).
		WithArgs(app.CouncilTaxAccountNumber, app.Email).
		WillReturnRows(sqlmock.NewRows([]string{"ResidentID"}))
	mock.ExpectExec(insertSQL).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})
	mock.ExpectRollback()

	res := svc.Submit(context.Background(), app)
	if res.Outcome != OutcomeDuplicate {
		t.Fatalf("outcome = %s, want duplicate", res.Outcome)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestSubmitProbeError(t *testing.T) {
	svc, mock, done := newMockService(t)
	defer done()
	app := testApp()

	boom := errors.New("connection reset")
	mock.ExpectBegin()
	mock.ExpectQuery(probeSQL).WillReturnError(boom)
	mock.ExpectRollback()

	res := svc.Submit(context.Background(), app)
	if res.Outcome != OutcomeFailure {
		t.Fatalf("outcome = %s, want failure", res.Outcome)
	}
	if !errors.Is(res.Diagnostic, boom) {
		t.Fatalf("diagnostic should wrap the driver error, got %v", res.Diagnostic)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestSubmitInsertError(t *testing.T) {
	svc, mock, done := newMockService(t)
	defer done()
	app := testApp()

	mock.ExpectBegin()
	mock.ExpectQuery(probeSQL).
		WillReturnRows(sqlmock.NewRows([]string{"ResidentID"}))
	mock.ExpectExec(insertSQL).WillReturnError(errors.New("table is full"))
	mock.ExpectRollback()

	res := svc.Submit(context.Background(), app)
	if res.Outcome != OutcomeFailure {
		t.Fatalf("outcome = %s, want failure", res.Outcome)
	}
	if res.Diagnostic == nil {
		t.Fatal("failure result must carry a diagnostic")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

// TestSubmitCommitError pins the §8 property: a storage layer that fails
// on commit yields a failure outcome and no persisted row.
func TestSubmitCommitError(t *testing.T) {
	svc, mock, done := newMockService(t)
	defer done()
	app := testApp()

	mock.ExpectBegin()
	mock.ExpectQuery(probeSQL).
		WillReturnRows(sqlmock.NewRows([]string{"ResidentID"}))
	mock.ExpectExec(insertSQL).WillReturnResult(sqlmock.NewResult(9, 1))
	mock.ExpectCommit().WillReturnError(errors.New("deadlock on commit"))

	res := svc.Submit(context.Background(), app)
	if res.Outcome != OutcomeFailure {
		t.Fatalf("outcome = %s, want failure", res.Outcome)
	}
	if res.ResidentID != 0 {
		t.Fatalf("no id may leak from a failed commit, got %d", res.ResidentID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestNewServiceRejectsNilPool(t *testing.T) {
	if _, err := NewService(nil, zap.NewNop().Sugar()); err == nil {
		t.Fatal("expected error for nil database handle")
	}
}
