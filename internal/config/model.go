// internal/config/model.go
//
// Typed configuration model for the rebate sign-up service.
//
// Context
// -------
// These structs define the shape of the tree that `loader.go` builds from
// three overlay layers:
//
//   - optional `.env`                          – dotenv values,
//   - `conf/global.yaml`                       – primary static file,
//   - `REBATE_`-prefixed environment overrides – highest precedence.
//
// Any value whose string begins with `vault:` is resolved through the
// Vault client *before* unmarshalling, so the model never stores Vault
// URIs, only plain strings.
//
// Validation happens immediately after unmarshal; the binary refuses to
// serve when a required field is missing.  A missing DSN is an operator
// mistake and must never be discovered mid-request.
//
// Notes
// -----
//   - Struct tags use `koanf:"…"`; Koanf ignores `yaml` tags.
//   - The `Paths` block is filled at runtime; YAML must not try to set it.
//   - Oxford commas, two spaces after periods.  No em-dash.
package config

//
// HTTP section
//

// HTTP holds web-server tunables.  MetricsAddr serves /metrics on its own
// listener so the citizen-facing port never exposes operational data.
type HTTP struct {
	ListenAddr  string `koanf:"listen_addr"  validate:"required,hostname_port"`
	MetricsAddr string `koanf:"metrics_addr" validate:"required,hostname_port"`
}

//
// Database section
//

// Database holds the DSN template and its secret.
//
// The *template* (`DSN`) lives in YAML so operators can tweak host, port,
// or flags without touching Vault.  The *secret* (`Password`) is expected
// to arrive as a `vault:` reference or an env override, keeping
// credentials out of flat files and git history.  The template must carry
// exactly one %s verb where the password goes.
type Database struct {
	DSN      string `koanf:"dsn"      validate:"required"`
	Password string `koanf:"password" validate:"required"`
}

//
// Geo section
//

// Geo configures the optional GeoLite2 lookup used by the submission
// audit trail.  An empty CityDBPath disables geolocation; audit entries
// then carry the IP only.
type Geo struct {
	CityDBPath string `koanf:"city_db_path"`
}

//
// Paths section (runtime only)
//

// Paths is resolved at runtime, never set in YAML or env.  The loader
// discovers Root (repo root or REBATE_ROOT override) so later code can
// build absolute file paths for logs and templates.
type Paths struct {
	Root string
}

//
// Root aggregate
//

// Config is the immutable aggregate returned by Load() and cached in an
// atomic.Pointer for lock-free reads throughout the app lifetime.
type Config struct {
	HTTP     HTTP     `koanf:"http"`
	Database Database `koanf:"database"`
	Geo      Geo      `koanf:"geo"`
	Paths    Paths    `koanf:"-"`
}
