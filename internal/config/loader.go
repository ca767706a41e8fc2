// internal/config/loader.go
//
// Configuration loader.
//
/*
Context
--------
`Load()` builds one immutable `Config` struct from three layers (highest
precedence last):

  1. Optional `.env` file at `<root>/conf/.env` (dev convenience).
  2. `conf/global.yaml`.
  3. Environment variables prefixed `REBATE_`, where `__` maps to “.”
     (e.g., `REBATE_DATABASE__PASSWORD → database.password`).

After merging, `vault:` references are resolved through the Vault client,
the tree is unmarshalled into strongly-typed structs, validated, enriched
with the runtime root path, and cached in an `atomic.Pointer` for
lock-free reads.

Failure here is a configuration error: the caller must refuse to serve,
not limp along and surface the problem on a citizen's submission.

Notes
-----
  • `rootDir()` honours REBATE_ROOT, then climbs the cwd tree until it
    finds `conf/global.yaml`; this lets `go run ./cmd/web` work from any
    sub-directory.
  • Oxford commas, two spaces after periods.
*/
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	koanf "github.com/knadh/koanf/v2"
	"go.uber.org/zap"

	"github.com/yanizio/rebate/internal/vault"
)

const envPrefix = "REBATE_"

var current atomic.Pointer[Config]

/*──────────────────────────── root discovery ───────────────────────────────*/

// rootDir resolves REBATE_ROOT or climbs directories until conf/global.yaml
// is found.  Falls back to the executable heuristic for production layout.
func rootDir() string {
	if r := os.Getenv("REBATE_ROOT"); r != "" {
		return r
	}

	wd, _ := os.Getwd()
	dir := wd
	for {
		if _, err := os.Stat(filepath.Join(dir, "conf", "global.yaml")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir { // reached filesystem root
			break
		}
		dir = parent
	}

	exe, _ := os.Executable()
	if filepath.Base(filepath.Dir(exe)) == "bin" {
		return filepath.Dir(filepath.Dir(exe))
	}
	return wd
}

/*──────────────────────────── public API ───────────────────────────────────*/

// Load builds, validates, and caches the configuration.  Every error it
// returns is operator-correctable; callers should log it and exit.
func Load(ctx context.Context) (*Config, error) {
	root := rootDir()

	// Layer 1: optional dotenv overlay.
	_ = godotenv.Load(filepath.Join(root, "conf", ".env"))

	k := koanf.New(".")

	// Layer 2: conf/global.yaml.
	yamlPath := filepath.Join(root, "conf", "global.yaml")
	if err := k.Load(file.Provider(yamlPath), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("config: read %s: %w", yamlPath, err)
	}

	// Layer 3: REBATE_-prefixed env overrides.
	if err := k.Load(env.Provider(envPrefix, ".", envToKey), nil); err != nil {
		return nil, fmt.Errorf("config: env overlay: %w", err)
	}

	if err := resolveVaultRefs(ctx, k); err != nil {
		return nil, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	cfg.Paths.Root = root

	if err := validateStruct(&cfg); err != nil {
		return nil, fmt.Errorf("config: validation: %w", err)
	}
	if strings.Count(cfg.Database.DSN, "%s") != 1 {
		return nil, fmt.Errorf("config: database.dsn must contain exactly one %%s verb for the password")
	}

	current.Store(&cfg)
	zap.S().Infow("config loaded",
		"root", root,
		"listen_addr", cfg.HTTP.ListenAddr,
		"metrics_addr", cfg.HTTP.MetricsAddr,
		"geo_enabled", cfg.Geo.CityDBPath != "",
	)
	return &cfg, nil
}

// Get returns the last successfully loaded Config, or nil before Load.
func Get() *Config { return current.Load() }

// ResolvedDSN splices the secret into the DSN template.
func (c *Config) ResolvedDSN() string {
	return fmt.Sprintf(c.Database.DSN, c.Database.Password)
}

/*──────────────────────────── helpers ──────────────────────────────────────*/

// envToKey maps REBATE_DATABASE__PASSWORD to database.password.
func envToKey(s string) string {
	s = strings.TrimPrefix(s, envPrefix)
	s = strings.ToLower(s)
	return strings.ReplaceAll(s, "__", ".")
}

// resolveVaultRefs replaces every `vault:<path>#<key>` string in the tree
// with the secret it names.  The Vault client is only constructed when at
// least one reference exists, so local setups without Vault never pay
// for, or need, a VAULT_ADDR.
func resolveVaultRefs(ctx context.Context, k *koanf.Koanf) error {
	var cli *vault.Client
	for _, key := range k.Keys() {
		raw, ok := k.Get(key).(string)
		if !ok || !strings.HasPrefix(raw, "vault:") {
			continue
		}
		if cli == nil {
			var err error
			if cli, err = vault.New(ctx); err != nil {
				return fmt.Errorf("config: %s needs Vault: %w", key, err)
			}
		}
		val, err := cli.Resolve(ctx, strings.TrimPrefix(raw, "vault:"))
		if err != nil {
			return fmt.Errorf("config: resolve %s: %w", key, err)
		}
		if err := k.Set(key, val); err != nil {
			return fmt.Errorf("config: overwrite %s: %w", key, err)
		}
	}
	return nil
}
