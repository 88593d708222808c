package fonts

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
)

// Registry holds the fonts local() sources resolve against, keyed by
// case-insensitive name.
type Registry struct {
	mu    sync.RWMutex
	fonts map[string]*sfnt.Font
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{fonts: make(map[string]*sfnt.Font)}
}

// Register parses data and records it under the font's own full, family
// and PostScript names plus any aliases.
func (r *Registry) Register(data []byte, aliases ...string) (*sfnt.Font, error) {
	f, err := sfnt.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}

	names := slices.Clone(aliases)
	var buf sfnt.Buffer
	for _, id := range []sfnt.NameID{sfnt.NameIDFull, sfnt.NameIDPostScript} {
		if name, err := f.Name(&buf, id); err == nil && name != "" {
			names = append(names, name)
		}
	}
	if sub, err := f.Name(&buf, sfnt.NameIDSubfamily); err == nil && strings.EqualFold(sub, "regular") {
		if family, err := f.Name(&buf, sfnt.NameIDFamily); err == nil && family != "" {
			names = append(names, family)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, name := range names {
		r.fonts[strings.ToLower(name)] = f
	}
	return f, nil
}

// RegisterGoFonts registers the Go font family.
func (r *Registry) RegisterGoFonts() error {
	fonts := []struct {
		data    []byte
		aliases []string
	}{
		{goregular.TTF, []string{"Go", "Go Regular"}},
		{gobold.TTF, []string{"Go Bold"}},
		{goitalic.TTF, []string{"Go Italic"}},
		{gobolditalic.TTF, []string{"Go Bold Italic"}},
		{gomono.TTF, []string{"Go Mono"}},
	}
	for _, gf := range fonts {
		if _, err := r.Register(gf.data, gf.aliases...); err != nil {
			return fmt.Errorf("%s: %w", gf.aliases[0], err)
		}
	}
	return nil
}

// LoadDir registers every .ttf and .otf file in dir. Files that fail to
// parse are skipped; the first such error is returned after the walk.
func (r *Registry) LoadDir(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, err
	}

	var n int
	var firstErr error
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext != ".ttf" && ext != ".otf" {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err == nil {
			_, err = r.Register(data, strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())))
		}
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("%s: %w", path, err)
			}
			continue
		}
		n++
	}
	return n, firstErr
}

// Lookup finds a registered font by name.
func (r *Registry) Lookup(name string) (*sfnt.Font, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.fonts[strings.ToLower(strings.TrimSpace(name))]
	return f, ok
}

// Names returns the registered names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.fonts))
	for name := range r.fonts {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
