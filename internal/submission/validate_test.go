// internal/submission/validate_test.go
//
// Unit-tests for the sign-up validator.
//
// Run: go test ./internal/submission -v

package submission

import (
	"reflect"
	"testing"
)

// goodRequest returns a request that passes every rule; tests mutate the
// field under scrutiny.
func goodRequest() SignupRequest {
	return SignupRequest{
		CouncilTaxAccountNumber: "CT1001",
		FirstName:               "Jane",
		LastName:                "Doe",
		Postcode:                "SW1A1AA",
		Email:                   "jane@example.com",
		PhoneNumber:             "",
		BankAccountNumber:       "12345678",
		SortCode:                "123456",
	}
}

func TestValidateAccepts(t *testing.T) {
	app, errs := Validate(goodRequest())
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	want := Application{
		CouncilTaxAccountNumber: "CT1001",
		FirstName:               "Jane",
		LastName:                "Doe",
		Postcode:                "SW1A1AA",
		Email:                   "jane@example.com",
		BankAccountNumber:       "12345678",
		SortCode:                "123456",
	}
	if !reflect.DeepEqual(app, want) {
		t.Fatalf("normalized application mismatch:\n got  %#v\n want %#v", app, want)
	}
}

func TestValidateTrimsFields(t *testing.T) {
	req := goodRequest()
	req.FirstName = "  Jane\t"
	req.Email = " jane@example.com "
	req.SortCode = " 123456 "

	app, errs := Validate(req)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if app.FirstName != "Jane" || app.Email != "jane@example.com" || app.SortCode != "123456" {
		t.Fatalf("fields not trimmed: %#v", app)
	}
}

func TestValidateRequiredFields(t *testing.T) {
	fields := []func(*SignupRequest){
		func(r *SignupRequest) { r.CouncilTaxAccountNumber = "" },
		func(r *SignupRequest) { r.FirstName = "   " },
		func(r *SignupRequest) { r.LastName = "" },
		func(r *SignupRequest) { r.Postcode = "" },
		func(r *SignupRequest) { r.Email = "\t" },
		func(r *SignupRequest) { r.BankAccountNumber = "" },
		func(r *SignupRequest) { r.SortCode = " " },
	}
	for i, blank := range fields {
		req := goodRequest()
		blank(&req)
		_, errs := Validate(req)
		if len(errs) == 0 {
			t.Fatalf("case %d: expected errors, got none", i)
		}
		if errs[0] != "All required fields must be filled." {
			t.Fatalf("case %d: first message = %q", i, errs[0])
		}
	}
}

func TestValidatePhoneNumberOptional(t *testing.T) {
	req := goodRequest()
	req.PhoneNumber = ""
	if _, errs := Validate(req); len(errs) != 0 {
		t.Fatalf("blank phone number should pass: %v", errs)
	}
}

func TestValidatePostcodeBounds(t *testing.T) {
	cases := []struct {
		postcode string
		ok       bool
	}{
		{"AB12", false},    // 4 – below lower bound
		{"AB123", true},    // 5 – lower bound inclusive
		{"SW1A1AA", true},  // 7
		{"SW1A 1AA", true}, // 8 – upper bound inclusive
		{"SW1A 1AAX", false}, // 9 – above upper bound
	}
	for _, c := range cases {
		req := goodRequest()
		req.Postcode = c.postcode
		_, errs := Validate(req)
		if c.ok && len(errs) != 0 {
			t.Errorf("postcode %q: unexpected errors %v", c.postcode, errs)
		}
		if !c.ok && !contains(errs, "Invalid postcode format.") {
			t.Errorf("postcode %q: missing postcode error, got %v", c.postcode, errs)
		}
	}
}

func TestValidateEmailShape(t *testing.T) {
	for _, bad := range []string{"janeexample.com", "jane@examplecom", "jane"} {
		req := goodRequest()
		req.Email = bad
		_, errs := Validate(req)
		if !contains(errs, "Invalid email format.") {
			t.Errorf("email %q: missing email error, got %v", bad, errs)
		}
	}
}

func TestValidateBankAccountNumber(t *testing.T) {
	cases := []struct {
		value string
		ok    bool
	}{
		{"1234567", false},   // 7 digits – too short
		{"12345678", true},   // 8 digits – minimum
		{"123456789", true},  // longer is fine
		{"1234567A", false},  // non-digit
	}
	for _, c := range cases {
		req := goodRequest()
		req.BankAccountNumber = c.value
		_, errs := Validate(req)
		got := contains(errs, "Bank Account Number must be numeric and at least 8 digits.")
		if got == c.ok {
			t.Errorf("bank account %q: ok=%v errs=%v", c.value, c.ok, errs)
		}
	}
}

func TestValidateSortCode(t *testing.T) {
	cases := []struct {
		value string
		ok    bool
	}{
		{"12345", false},   // 5 digits
		{"123456", true},   // exactly 6
		{"1234567", false}, // 7 digits
		{"12a456", false},  // non-digit
	}
	for _, c := range cases {
		req := goodRequest()
		req.SortCode = c.value
		_, errs := Validate(req)
		got := contains(errs, "Sort Code must be 6 digits and numeric.")
		if got == c.ok {
			t.Errorf("sort code %q: ok=%v errs=%v", c.value, c.ok, errs)
		}
	}
}

// TestValidateAccumulates checks that rules do not short-circuit and that
// message order follows rule order.
func TestValidateAccumulates(t *testing.T) {
	req := goodRequest()
	req.Postcode = ""    // fails required + postcode rules
	req.Email = "nope"   // fails email rule
	req.SortCode = "12a" // fails sort-code rule

	_, errs := Validate(req)
	want := ValidationErrors{
		"All required fields must be filled.",
		"Invalid postcode format.",
		"Invalid email format.",
		"Sort Code must be 6 digits and numeric.",
	}
	if !reflect.DeepEqual(errs, want) {
		t.Fatalf("accumulated errors mismatch:\n got  %v\n want %v", errs, want)
	}
}

func contains(errs ValidationErrors, msg string) bool {
	for _, e := range errs {
		if e == msg {
			return true
		}
	}
	return false
}
