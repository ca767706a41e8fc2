// components/signup/signup.go
//
// Rebate sign-up component: form page and submission handling.
//
//------------------------------------------------------------------------------
//
// Context
//   GET  /        renders the sign-up form (clean, or with a success banner
//                 right after a redirect).
//   POST /submit  drives validate → submit and maps the outcome:
//
//     validation errors → re-render, echoed field values, full error list
//     duplicate         → re-render, echoed values, one conflict message
//     database failure  → re-render, echoed values, one generic message;
//                         the diagnostic goes to the log only
//     accepted          → 303 redirect to the clean form + success banner
//
//   The component holds no SQL and no validation rules; those live in
//   internal/submission.  It owns only the HTTP shape of the outcomes.
//
//------------------------------------------------------------------------------

package signup

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/yanizio/rebate/internal/component"
	"github.com/yanizio/rebate/internal/metrics"
	"github.com/yanizio/rebate/internal/requestinfo"
	"github.com/yanizio/rebate/internal/submission"
	"github.com/yanizio/rebate/internal/view"
)

// Compile-time assertion: *Component satisfies component.Component.
var _ component.Component = (*Component)(nil)

const (
	formTemplate = "signup.html"

	msgSuccess   = "Successfully signed up for the Council Tax Rebate! We will process your application shortly."
	msgDuplicate = "A sign-up for this Council Tax Account Number or Email already exists."
	msgFailure   = "An error occurred during submission. Please try again."
)

// Component wires the submission service to the public form.
type Component struct {
	svc   *submission.Service
	views *view.Renderer
	log   *zap.SugaredLogger
}

// New constructs the component.  cmd/web registers it at boot.
func New(svc *submission.Service, views *view.Renderer, log *zap.SugaredLogger) *Component {
	return &Component{svc: svc, views: views, log: log}
}

/*────────────────── component.Component methods ───────────────────────────*/

// Name returns the canonical component key.
func (c *Component) Name() string { return "signup" }

// Mount returns the router prefix; the sign-up form is the site root.
func (c *Component) Mount() string { return "/" }

// Migrations returns the Residents DDL, including the two UNIQUE keys
// that back the duplicate check under concurrency.
func (c *Component) Migrations() []string { return []string{submission.Schema} }

// Routes builds and returns the router mounted at "/".
func (c *Component) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", c.handleFormGET)
	r.Post("/submit", c.handleSubmitPOST)
	return r
}

/*──────────────────────────── page model ───────────────────────────────────*/

// page is the template payload: echoed field values plus at most one of
// Errors (validation), Message (conflict or failure), or Success.
type page struct {
	Form    submission.SignupRequest
	Errors  []string
	Message string
	Success string
}

/*──────────────────────────── Handlers ─────────────────────────────────────*/

func (c *Component) handleFormGET(w http.ResponseWriter, r *http.Request) {
	var p page
	if r.URL.Query().Get("submitted") == "1" {
		p.Success = msgSuccess
	}
	c.render(w, p)
}

func (c *Component) handleSubmitPOST(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	req := submission.SignupRequest{
		CouncilTaxAccountNumber: r.PostFormValue("council_tax_account_number"),
		FirstName:               r.PostFormValue("first_name"),
		LastName:                r.PostFormValue("last_name"),
		Postcode:                r.PostFormValue("postcode"),
		Email:                   r.PostFormValue("email"),
		PhoneNumber:             r.PostFormValue("phone_number"),
		BankAccountNumber:       r.PostFormValue("bank_account_number"),
		SortCode:                r.PostFormValue("sort_code"),
	}

	c.audit(r, req)

	app, errs := submission.Validate(req)
	if len(errs) > 0 {
		metrics.SubmissionsInvalid.Inc()
		c.log.Warnw("validation errors on submission",
			"email", req.Email,
			"errors", []string(errs),
		)
		c.render(w, page{Form: req, Errors: errs})
		return
	}

	res := c.svc.Submit(r.Context(), app)
	switch res.Outcome {
	case submission.OutcomeAccepted:
		metrics.SubmissionsAccepted.Inc()
		// Redirect-after-POST so a refresh cannot resubmit the form.
		http.Redirect(w, r, "/?submitted=1", http.StatusSeeOther)

	case submission.OutcomeDuplicate:
		metrics.SubmissionsDuplicate.Inc()
		c.render(w, page{Form: req, Message: msgDuplicate})

	default:
		metrics.SubmissionsFailed.Inc()
		// res.Diagnostic was already logged by the service.
		c.render(w, page{Form: req, Message: msgFailure})
	}
}

// audit writes one fraud-triage entry per submission attempt, using the
// request metadata attached by the requestinfo middleware.
func (c *Component) audit(r *http.Request, req submission.SignupRequest) {
	info := requestinfo.FromContext(r.Context())
	if info == nil {
		return
	}
	c.log.Infow("sign-up attempt",
		"account", req.CouncilTaxAccountNumber,
		"ip", info.Geo.IP,
		"country", info.Geo.CountryISO,
		"device", info.UA.Device,
		"browser", info.UA.Browser,
		"bot", info.UA.IsBot,
	)
}

func (c *Component) render(w http.ResponseWriter, p page) {
	if err := c.views.Render(w, formTemplate, p); err != nil {
		c.log.Errorw("render error", "template", formTemplate, "err", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
