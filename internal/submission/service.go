// internal/submission/service.go
//
// Submission service: duplicate check → insert → commit, with rollback on
// every other exit.
//
// Context
// -------
// Submit is the only code path that creates Residents rows.  It owns the
// transaction it opens and guarantees commit-or-rollback before
// returning; it never opens or closes the pool it was constructed with.
// Outcomes come back as a Result value, not as panics or raw driver
// errors, so the boundary layer can map them to user-facing copy without
// inspecting SQL state.
//
// Workflow
// --------
//  1. Begin a transaction on the injected pool.
//  2. Probe for an existing row holding the same account number or email.
//     A hit rolls back and returns OutcomeDuplicate.
//  3. Insert the application and commit.  A duplicate-key error from a
//     raced concurrent insert also maps to OutcomeDuplicate; the UNIQUE
//     constraints are the invariant, the probe is just the fast path.
//  4. Any other database error rolls back and returns OutcomeFailure with
//     the diagnostic attached for the operational log.
package submission

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// mysqlDupEntry is ER_DUP_ENTRY, raised when an insert loses the race
// against another submission carrying the same natural key.
const mysqlDupEntry = 1062

// Service persists validated rebate applications.  Construct with
// NewService; the zero value is invalid.
type Service struct {
	db  *sqlx.DB
	log *zap.SugaredLogger
}

// NewService wires the service to an already-open pool.  The caller keeps
// ownership of the pool and closes it at shutdown.
func NewService(db *sqlx.DB, log *zap.SugaredLogger) (*Service, error) {
	if db == nil {
		return nil, errors.New("submission: nil database handle")
	}
	if log == nil {
		log = zap.S()
	}
	return &Service{db: db, log: log}, nil
}

// Submit runs the duplicate check and insert for one validated
// Application.  The returned Result is always well-formed: Accepted
// carries the new ResidentID, Failure carries a loggable Diagnostic, and
// in every case any transaction opened here has been committed or rolled
// back before Submit returns.
func (s *Service) Submit(ctx context.Context, app Application) Result {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return s.failure(app, fmt.Errorf("begin transaction: %w", err))
	}
	defer tx.Rollback() // no-op once committed

	exists, err := residentExists(ctx, tx, app.CouncilTaxAccountNumber, app.Email)
	if err != nil {
		return s.failure(app, fmt.Errorf("duplicate check: %w", err))
	}
	if exists {
		s.log.Warnw("duplicate sign-up attempt",
			"account", app.CouncilTaxAccountNumber,
			"email", app.Email,
		)
		return Result{Outcome: OutcomeDuplicate}
	}

	id, err := insertResident(ctx, tx, app)
	if err != nil {
		if isDupEntry(err) {
			// Lost the race; the UNIQUE key did its job.
			s.log.Warnw("duplicate sign-up attempt (raced insert)",
				"account", app.CouncilTaxAccountNumber,
				"email", app.Email,
			)
			return Result{Outcome: OutcomeDuplicate}
		}
		return s.failure(app, fmt.Errorf("insert resident: %w", err))
	}

	if err := tx.Commit(); err != nil {
		return s.failure(app, fmt.Errorf("commit: %w", err))
	}

	s.log.Infow("new rebate sign-up",
		"resident_id", id,
		"account", app.CouncilTaxAccountNumber,
		"email", app.Email,
	)
	return Result{Outcome: OutcomeAccepted, ResidentID: id}
}

// failure logs the diagnostic and wraps it in a Failure result.  The
// deferred rollback in Submit releases the transaction before the result
// reaches the boundary layer.
func (s *Service) failure(app Application, err error) Result {
	s.log.Errorw("database operation error",
		"account", app.CouncilTaxAccountNumber,
		"email", app.Email,
		"err", err,
	)
	return Result{Outcome: OutcomeFailure, Diagnostic: err}
}

func isNoRows(err error) bool { return errors.Is(err, sql.ErrNoRows) }

func isDupEntry(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlDupEntry
}
