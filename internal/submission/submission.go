// internal/submission/submission.go
//
// Rebate sign-up domain types.
//
// Context
// -------
// A browser POST arrives as raw strings (SignupRequest), the validator
// turns it into a normalized Application, and the submission service
// persists the Application as a row in the Residents table.  The request
// struct has no identity and is discarded after the attempt; the
// Application never changes once stored (there is no edit or cancel
// workflow).
//
// Notes
// -----
// • Field names mirror the HTML form and the Residents columns; update
//   all three together.
// • Oxford commas, two spaces after periods.
package submission

// SignupRequest carries the submitted form fields exactly as posted, one
// instance per submission.  PhoneNumber is the only optional field.
type SignupRequest struct {
	CouncilTaxAccountNumber string
	FirstName               string
	LastName                string
	Postcode                string
	Email                   string
	PhoneNumber             string
	BankAccountNumber       string
	SortCode                string
}

// Application is the normalized (trimmed) form of a SignupRequest that
// passed validation.  It is the only value the service will persist.
type Application struct {
	CouncilTaxAccountNumber string
	FirstName               string
	LastName                string
	Postcode                string
	Email                   string
	PhoneNumber             string
	BankAccountNumber       string
	SortCode                string
}

// Outcome classifies the result of a submission attempt.
type Outcome int

const (
	// OutcomeAccepted means the application was inserted and committed.
	OutcomeAccepted Outcome = iota

	// OutcomeDuplicate means an existing application already holds the
	// account number or the email.  Nothing was written.
	OutcomeDuplicate

	// OutcomeFailure means the database layer failed during the check,
	// insert, or commit.  Any open transaction was rolled back.
	OutcomeFailure
)

// String returns the lowercase label used in logs and metrics.
func (o Outcome) String() string {
	switch o {
	case OutcomeAccepted:
		return "accepted"
	case OutcomeDuplicate:
		return "duplicate"
	case OutcomeFailure:
		return "failure"
	default:
		return "unknown"
	}
}

// Result is what Submit hands back to the boundary layer.  Diagnostic is
// an opaque error for the operational log; it must never be shown to the
// submitter verbatim.
type Result struct {
	Outcome    Outcome
	ResidentID int64
	Diagnostic error
}
