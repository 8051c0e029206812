package catalogue

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinLibraries(t *testing.T) {
	table := Builtin()

	assert.Equal(t, []string{"io", "lists", "math", "strings"}, table.Names())

	mathLib, ok := table.Lookup("math")
	require.True(t, ok)
	assert.Equal(t, "math", mathLib.Name)

	sqrt, ok := mathLib.Export("square_root")
	require.True(t, ok)
	assert.Equal(t, []string{"Float"}, sqrt.Params)
	assert.Equal(t, "Float", sqrt.Result)
}

func TestBuiltinSignaturesAreWellFormed(t *testing.T) {
	table := Builtin()

	for _, name := range table.Names() {
		lib, ok := table.Lookup(name)
		require.True(t, ok)
		require.NotEmpty(t, lib.Exports, "library %s exports nothing", name)

		seen := map[string]bool{}
		for _, sig := range lib.Exports {
			assert.NotEmpty(t, sig.Name, "library %s has an unnamed export", name)
			assert.False(t, seen[sig.Name], "library %s exports %s twice", name, sig.Name)
			seen[sig.Name] = true
		}
	}
}

func TestLoad(t *testing.T) {
	src := `
name = "geometry"
doc = "Shapes."

[[functions]]
name = "area_of_circle"
params = ["Float"]
result = "Float"
`
	lib, err := Load(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, "geometry", lib.Name)

	sig, ok := lib.Export("area_of_circle")
	require.True(t, ok)
	assert.Equal(t, "Float", sig.Result)
}

func TestLoad_MissingName(t *testing.T) {
	_, err := Load(strings.NewReader(`doc = "anonymous"`))
	assert.Error(t, err)
}

func TestLoad_BadTOML(t *testing.T) {
	_, err := Load(strings.NewReader(`name = `))
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "geometry.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
name = "geometry"
[[functions]]
name = "area_of_circle"
params = ["Float"]
result = "Float"
`), 0o644))

	lib, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "geometry", lib.Name)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestLoadDir(t *testing.T) {
	fsys := fstest.MapFS{
		"libs/a.toml": &fstest.MapFile{Data: []byte(`
name = "alpha"
[[functions]]
name = "f"
`)},
		"libs/b.toml": &fstest.MapFile{Data: []byte(`
name = "beta"
[[functions]]
name = "g"
result = "Integer"
`)},
		"libs/ignored.txt": &fstest.MapFile{Data: []byte("not toml")},
	}

	table, err := LoadDir(fsys, "libs")
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "beta"}, table.Names())
}

func TestTableAddReplaces(t *testing.T) {
	table := NewTable()
	require.NoError(t, table.Add(&Library{Name: "x", Exports: []Signature{{Name: "old"}}}))
	require.NoError(t, table.Add(&Library{Name: "x", Exports: []Signature{{Name: "new"}}}))

	lib, ok := table.Lookup("x")
	require.True(t, ok)
	_, ok = lib.Export("new")
	assert.True(t, ok)
}
