// internal/vault/vault.go
//
// Vault client wrapper for the rebate service.
//
// Context
// -------
//   - Wraps the HashiCorp Vault Go SDK behind the one operation the
//     config loader needs: turn a `<mount/path>#<key>` reference into the
//     secret string it names.
//   - KV-v2 only; that is where the council's platform team keeps the
//     database credentials.
//   - Results are cached per reference for the life of the process, which
//     matches how the loader uses them (once, at boot).
//
// Environment expectations
// ------------------------
//   - VAULT_ADDR   – scheme and host of the Vault server.
//   - VAULT_TOKEN  – token with read access to the referenced paths.
package vault

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	vault "github.com/hashicorp/vault/api"
)

// Client is safe for concurrent use.  Zero value is invalid; construct
// with New.
type Client struct {
	api *vault.Client

	mu    sync.Mutex
	cache map[string]string // reference → resolved value
}

// New constructs a client from VAULT_ADDR and VAULT_TOKEN.
func New(_ context.Context) (*Client, error) {
	addr := os.Getenv("VAULT_ADDR")
	if addr == "" {
		return nil, errors.New("vault: VAULT_ADDR is not set")
	}
	token := os.Getenv("VAULT_TOKEN")
	if token == "" {
		return nil, errors.New("vault: VAULT_TOKEN is not set")
	}

	conf := vault.DefaultConfig()
	conf.Address = addr
	api, err := vault.NewClient(conf)
	if err != nil {
		return nil, fmt.Errorf("vault: new client: %w", err)
	}
	api.SetToken(token)

	return &Client{api: api, cache: map[string]string{}}, nil
}

// Resolve turns "secret/data/rebate#db_password" into the stored string.
// The part before "#" is the full KV-v2 read path, the part after is the
// key inside the secret's data map.
func (c *Client) Resolve(ctx context.Context, ref string) (string, error) {
	path, key, ok := strings.Cut(ref, "#")
	if !ok || path == "" || key == "" {
		return "", fmt.Errorf("vault: malformed reference %q (want path#key)", ref)
	}

	c.mu.Lock()
	if v, hit := c.cache[ref]; hit {
		c.mu.Unlock()
		return v, nil
	}
	c.mu.Unlock()

	sec, err := c.api.Logical().ReadWithContext(ctx, path)
	if err != nil {
		return "", fmt.Errorf("vault: read %s: %w", path, err)
	}
	if sec == nil || sec.Data == nil {
		return "", fmt.Errorf("vault: no secret at %s", path)
	}

	// KV-v2 nests the payload under "data"; fall back to the flat layout
	// for KV-v1 mounts.
	data := sec.Data
	if nested, ok := sec.Data["data"].(map[string]any); ok {
		data = nested
	}
	val, ok := data[key].(string)
	if !ok {
		return "", fmt.Errorf("vault: key %q missing or not a string at %s", key, path)
	}

	c.mu.Lock()
	c.cache[ref] = val
	c.mu.Unlock()
	return val, nil
}
