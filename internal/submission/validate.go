// internal/submission/validate.go
//
// Server-side validation for rebate sign-ups.
//
// Context
// -------
// Validate is a pure function: raw form strings in, either a normalized
// Application or the full list of rule failures out.  Every rule runs
// unconditionally so the submitter sees all problems at once instead of
// fixing them one round-trip at a time.  Rules live in an ordered table of
// predicate+message pairs; message order in the output is table order.
//
// Notes
// -----
// • The email rule is deliberately structural ("@" and "."), not RFC 5322.
//   The council's upstream CRM does its own verification mail-out.
// • Oxford commas, two spaces after periods.
package submission

import "strings"

// ValidationErrors is the ordered list of user-facing rule failures for
// one submission.  It satisfies error so callers may treat a non-empty
// list as a typed failure.
type ValidationErrors []string

func (v ValidationErrors) Error() string { return strings.Join(v, "; ") }

// rule pairs a predicate with the message emitted when it fails.  The
// predicate receives the already-trimmed Application.
type rule struct {
	ok  func(Application) bool
	msg string
}

// rules run in declaration order; output message order matches.
var rules = []rule{
	{allRequiredPresent, "All required fields must be filled."},
	{postcodeLength, "Invalid postcode format."},
	{emailShape, "Invalid email format."},
	{bankAccountShape, "Bank Account Number must be numeric and at least 8 digits."},
	{sortCodeShape, "Sort Code must be 6 digits and numeric."},
}

// Validate trims every field, evaluates the full rule table, and returns
// the normalized Application when no rule failed.  On failure the second
// return holds every failing rule's message, in rule order.
func Validate(raw SignupRequest) (Application, ValidationErrors) {
	app := Application{
		CouncilTaxAccountNumber: strings.TrimSpace(raw.CouncilTaxAccountNumber),
		FirstName:               strings.TrimSpace(raw.FirstName),
		LastName:                strings.TrimSpace(raw.LastName),
		Postcode:                strings.TrimSpace(raw.Postcode),
		Email:                   strings.TrimSpace(raw.Email),
		PhoneNumber:             strings.TrimSpace(raw.PhoneNumber),
		BankAccountNumber:       strings.TrimSpace(raw.BankAccountNumber),
		SortCode:                strings.TrimSpace(raw.SortCode),
	}

	var errs ValidationErrors
	for _, r := range rules {
		if !r.ok(app) {
			errs = append(errs, r.msg)
		}
	}
	if len(errs) > 0 {
		return Application{}, errs
	}
	return app, nil
}

//
// predicates
//

// allRequiredPresent covers every field except PhoneNumber, which is
// optional.  One combined message keeps parity with the front-end copy.
func allRequiredPresent(a Application) bool {
	for _, f := range []string{
		a.CouncilTaxAccountNumber,
		a.FirstName,
		a.LastName,
		a.Postcode,
		a.Email,
		a.BankAccountNumber,
		a.SortCode,
	} {
		if f == "" {
			return false
		}
	}
	return true
}

// postcodeLength is a basic UK postcode length check, bounds inclusive.
func postcodeLength(a Application) bool {
	n := len(a.Postcode)
	return n >= 5 && n <= 8
}

func emailShape(a Application) bool {
	return strings.Contains(a.Email, "@") && strings.Contains(a.Email, ".")
}

func bankAccountShape(a Application) bool {
	return len(a.BankAccountNumber) >= 8 && allDigits(a.BankAccountNumber)
}

func sortCodeShape(a Application) bool {
	return len(a.SortCode) == 6 && allDigits(a.SortCode)
}

// allDigits reports whether s is non-empty ASCII 0-9.
func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
