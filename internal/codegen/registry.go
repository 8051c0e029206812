package codegen

import (
	"sort"
	"strings"

	"github.com/prose-lang/prose/internal/diag"
)

var registry = map[string]func() Emitter{}

// Register makes a backend constructor available under its name. Backends
// register themselves from init, so importing this package is enough to get
// the full set.
func Register(name string, factory func() Emitter) {
	if _, dup := registry[name]; dup {
		panic("codegen: backend " + name + " registered twice")
	}
	registry[name] = factory
}

// Names returns all registered backend names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewEmitter returns a fresh emitter for the named backend.
func NewEmitter(name string) (Emitter, error) {
	factory, ok := registry[name]
	if !ok {
		d := diag.Errorf(diag.StageCodegen, diag.CodeGenUnsupportedBackend, diag.Span{},
			"unsupported backend %s (available: %s)", name, strings.Join(Names(), ", "))
		return nil, &Error{Diagnostic: d}
	}
	return factory(), nil
}
