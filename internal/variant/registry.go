package variant

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
)

//go:embed tables/*.yaml
var tables embed.FS

// Registry is the immutable set of published variants. It is safe for
// concurrent use because nothing mutates it after New returns.
type Registry struct {
	byID  map[string]*Variant
	order []string
}

// New validates every variant and builds a registry. Any violated
// invariant yields a *DefectError listing all issues.
func New(vs ...Variant) (*Registry, error) {
	r := &Registry{byID: make(map[string]*Variant, len(vs))}
	var issues []Issue
	for i := range vs {
		v := vs[i]
		issues = append(issues, validate(&v)...)
		if _, dup := r.byID[v.ID]; dup {
			issues = append(issues, Issue{Variant: v.ID, Field: "id", Message: "duplicate variant id"})
			continue
		}
		r.byID[v.ID] = &v
		r.order = append(r.order, v.ID)
	}
	if len(issues) > 0 {
		return nil, &DefectError{Issues: issues}
	}
	sort.Strings(r.order)
	return r, nil
}

// Load parses every *.yaml file under dir in fsys.
func Load(fsys fs.FS, dir string) (*Registry, error) {
	matches, err := fs.Glob(fsys, path.Join(dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("variant tables: %w", err)
	}
	if len(matches) == 0 {
		return nil, &DefectError{Issues: []Issue{{Variant: dir, Field: "tables", Message: "no variant tables found"}}}
	}
	var (
		vs     []Variant
		defect DefectError
	)
	for _, name := range matches {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		v, err := Parse(name, data)
		if err != nil {
			var de *DefectError
			if errors.As(err, &de) {
				defect.Issues = append(defect.Issues, de.Issues...)
				continue
			}
			return nil, err
		}
		vs = append(vs, v)
	}
	if len(defect.Issues) > 0 {
		return nil, &defect
	}
	return New(vs...)
}

// Default loads the variant tables compiled into the binary.
func Default() (*Registry, error) { return Load(tables, "tables") }

// MustDefault is Default for process start; a defect is fatal.
func MustDefault() *Registry {
	r, err := Default()
	if err != nil {
		panic(err)
	}
	return r
}

// Lookup returns the variant for id or an error wrapping ErrUnknownVariant.
func (r *Registry) Lookup(id string) (*Variant, error) {
	v, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownVariant, id)
	}
	return v, nil
}

// IDs lists registered identifiers in sorted order.
func (r *Registry) IDs() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}
