// Package catalogue describes the standard libraries a Prose program can
// import. Library surfaces are data, not code: each library is a TOML
// document listing the functions it exports and the types they carry, loaded
// either from the embedded defaults or from user-provided files.
package catalogue

import (
	"embed"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

//go:embed libraries/*.toml
var builtinFS embed.FS

// Signature describes one exported function: parameter type names in order
// and the result type name. The type name "Any" matches every type, and an
// empty result means the function returns nothing.
type Signature struct {
	Name   string   `toml:"name"`
	Params []string `toml:"params"`
	Result string   `toml:"result"`
}

// Library is one importable standard library.
type Library struct {
	Name    string      `toml:"name"`
	Doc     string      `toml:"doc"`
	Exports []Signature `toml:"functions"`
}

// Export returns the signature exported under the given name.
func (l *Library) Export(name string) (Signature, bool) {
	for _, sig := range l.Exports {
		if sig.Name == name {
			return sig, true
		}
	}
	return Signature{}, false
}

// Catalogue resolves import names to library descriptions.
type Catalogue interface {
	// Lookup returns the library registered under name.
	Lookup(name string) (*Library, bool)
	// Names returns all registered library names, sorted.
	Names() []string
}

// Table is an in-memory Catalogue.
type Table struct {
	libs map[string]*Library
}

// NewTable returns an empty catalogue table.
func NewTable() *Table {
	return &Table{libs: make(map[string]*Library)}
}

// Add registers a library, replacing any previous entry with the same name.
func (t *Table) Add(lib *Library) error {
	if lib.Name == "" {
		return fmt.Errorf("catalogue: library has no name")
	}
	t.libs[lib.Name] = lib
	return nil
}

// Lookup returns the library registered under name.
func (t *Table) Lookup(name string) (*Library, bool) {
	lib, ok := t.libs[name]
	return lib, ok
}

// Names returns all registered library names, sorted.
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.libs))
	for name := range t.libs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Load decodes a single library description from r.
func Load(r io.Reader) (*Library, error) {
	var lib Library
	if _, err := toml.NewDecoder(r).Decode(&lib); err != nil {
		return nil, fmt.Errorf("catalogue: decoding library: %w", err)
	}
	if lib.Name == "" {
		return nil, fmt.Errorf("catalogue: library has no name")
	}
	return &lib, nil
}

// LoadFile loads a single library description from the named file.
func LoadFile(name string) (*Library, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("catalogue: opening %s: %w", name, err)
	}
	defer f.Close()
	return Load(f)
}

// LoadDir loads every *.toml library description under dir into a table.
func LoadDir(fsys fs.FS, dir string) (*Table, error) {
	table := NewTable()

	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("catalogue: reading %s: %w", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".toml") {
			continue
		}
		name := path.Join(dir, entry.Name())
		f, err := fsys.Open(name)
		if err != nil {
			return nil, fmt.Errorf("catalogue: opening %s: %w", name, err)
		}
		lib, err := Load(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("catalogue: %s: %w", name, err)
		}
		if err := table.Add(lib); err != nil {
			return nil, err
		}
	}

	return table, nil
}

// Builtin returns the catalogue of libraries shipped with the compiler.
func Builtin() *Table {
	table, err := LoadDir(builtinFS, "libraries")
	if err != nil {
		// The embedded descriptions are validated by tests; failing to
		// load them is a packaging bug.
		panic(err)
	}
	return table
}
