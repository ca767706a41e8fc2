// internal/view/render.go
//
// Minimal view engine: template lookup under <root>/templates, parsed
// once per file and cached for the life of the process.
//
// Public helpers
// --------------
//   - New     – build a Renderer rooted at a directory.
//   - Render  – write a rendered template to an http.ResponseWriter.
//
// The sign-up pages are plain html/template files with no inheritance
// chain, so one parsed *template.Template per file is enough.  Rendering
// goes through a buffer first; a template that fails half-way must not
// leak a partial page to the citizen.
//
// Style
// -----
// • Oxford commas, two spaces after periods.

package view

import (
	"bytes"
	"html/template"
	"net/http"
	"path/filepath"
	"sync"
)

// Renderer loads templates from <root>/templates on first use.
type Renderer struct {
	root string

	mu    sync.RWMutex
	cache map[string]*template.Template
}

// New returns a Renderer rooted at dir (the repo or install root).
func New(dir string) *Renderer {
	return &Renderer{root: dir, cache: map[string]*template.Template{}}
}

// Render executes templates/<name> with data and streams it to w.  The
// output buffers first so an execution error can still become a clean
// HTTP 500 instead of a torn page.
func (re *Renderer) Render(w http.ResponseWriter, name string, data any) error {
	t, err := re.load(name)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, err = buf.WriteTo(w)
	return err
}

// load returns the cached template or parses it on first use.
func (re *Renderer) load(name string) (*template.Template, error) {
	re.mu.RLock()
	t, ok := re.cache[name]
	re.mu.RUnlock()
	if ok {
		return t, nil
	}

	t, err := template.ParseFiles(filepath.Join(re.root, "templates", name))
	if err != nil {
		return nil, err
	}

	re.mu.Lock()
	re.cache[name] = t
	re.mu.Unlock()
	return t, nil
}
