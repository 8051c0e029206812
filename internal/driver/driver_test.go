package driver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prose-lang/prose/internal/catalogue"
	"github.com/prose-lang/prose/internal/diag"
)

func newPipeline(t *testing.T, backends ...string) *Pipeline {
	t.Helper()

	p, err := NewPipeline(catalogue.Builtin(), backends)
	require.NoError(t, err)
	return p
}

func TestCompile_Valid(t *testing.T) {
	p := newPipeline(t, "python", "javascript", "go")

	res := p.Compile("main.prose", `define function twice that takes n as Integer and returns Integer:
    return n * 2

print(twice(21))
`)

	assert.Equal(t, StateDone, res.State)
	assert.False(t, res.HasErrors())
	assert.Len(t, res.Outputs, 3)
	for backend, out := range res.Outputs {
		assert.NotEmpty(t, out, "backend %s produced nothing", backend)
	}
	assert.Equal(t, []State{
		StateInit, StateTokenizing, StateParsing, StateAnalyzing, StateGenerating, StateDone,
	}, res.Trace)
}

func TestCompile_ParseErrorFails(t *testing.T) {
	p := newPipeline(t, "python")

	res := p.Compile("main.prose", "set x 1\n")

	assert.Equal(t, StateFailed, res.State)
	assert.Empty(t, res.Outputs)
	assert.True(t, res.HasErrors())
	assert.NotContains(t, res.Trace, StateGenerating)
}

func TestCompile_ParseAndSemaErrorsBothReported(t *testing.T) {
	p := newPipeline(t, "python")

	res := p.Compile("main.prose", `set x 1
print(missing)
`)

	assert.Equal(t, StateFailed, res.State)

	stages := map[diag.Stage]bool{}
	for _, d := range res.Diagnostics {
		stages[d.Stage] = true
	}
	assert.True(t, stages[diag.StageParser], "expected a parser diagnostic")
	assert.True(t, stages[diag.StageSema], "expected a sema diagnostic")
}

func TestCompile_SemaErrorSkipsGeneration(t *testing.T) {
	p := newPipeline(t, "python")

	res := p.Compile("main.prose", `create n as Integer
set n to "text"
`)

	assert.Equal(t, StateFailed, res.State)
	assert.Empty(t, res.Outputs)
}

func TestCompile_WarningsDoNotFail(t *testing.T) {
	p := newPipeline(t, "python")

	res := p.Compile("main.prose", `create x as Integer to 1
define function f:
    create x as Integer to 2
    print(x)

f()
`)

	assert.Equal(t, StateDone, res.State)
	assert.NotEmpty(t, res.Diagnostics, "expected a shadowing warning")
	assert.False(t, res.HasErrors())
}

func TestNewPipeline_Validation(t *testing.T) {
	_, err := NewPipeline(catalogue.Builtin(), []string{"cobol"})
	assert.Error(t, err)

	_, err = NewPipeline(catalogue.Builtin(), nil)
	assert.Error(t, err)

	_, err = NewPipeline(nil, []string{"python"})
	assert.Error(t, err)
}

func TestSession_PersistsDefinitions(t *testing.T) {
	s, err := NewSession(catalogue.Builtin(), "python")
	require.NoError(t, err)

	res := s.Eval(`define function twice that takes n as Integer and returns Integer:
    return n * 2
`)
	require.False(t, res.HasErrors(), "diagnostics: %v", res.Diagnostics)

	res = s.Eval("print(twice(4))\n")
	assert.False(t, res.HasErrors())
	assert.Contains(t, res.Output, "print(twice(4))")
}

func TestSession_DiagnosticsPerEntryAndHistory(t *testing.T) {
	s, err := NewSession(catalogue.Builtin(), "python")
	require.NoError(t, err)

	bad := s.Eval("print(missing)\n")
	require.True(t, bad.HasErrors())
	assert.Empty(t, bad.Output)

	good := s.Eval("print(1)\n")
	assert.False(t, good.HasErrors())
	assert.Empty(t, good.Diagnostics)

	assert.Len(t, s.History(), len(bad.Diagnostics))
}

func TestSession_UnknownBackend(t *testing.T) {
	_, err := NewSession(catalogue.Builtin(), "cobol")
	assert.Error(t, err)
}
