package diag

import "testing"

func TestSpanString(t *testing.T) {
	s := Span{Filename: "main.prose", Line: 3, Column: 7}
	if got := s.String(); got != "main.prose:3:7" {
		t.Errorf("got %q", got)
	}

	s.Filename = ""
	if got := s.String(); got != "3:7" {
		t.Errorf("got %q", got)
	}

	if (Span{}).IsValid() {
		t.Error("zero span should not be valid")
	}
	if !(Span{Line: 1, Column: 1}).IsValid() {
		t.Error("1:1 should be valid")
	}
}

func TestListSince(t *testing.T) {
	var l List
	l.Add(Warnf(StageSema, CodeSemaShadowed, Span{}, "first"))
	mark := l.Len()
	l.Add(Errorf(StageSema, CodeSemaUndefinedName, Span{}, "second"))

	since := l.Since(mark)
	if len(since) != 1 || since[0].Message != "second" {
		t.Errorf("Since(%d) = %v", mark, since)
	}
	if got := l.Since(l.Len()); got != nil {
		t.Errorf("Since at end = %v, want nil", got)
	}
}

func TestListErrorCounting(t *testing.T) {
	var l List
	if l.HasErrors() {
		t.Error("empty list should have no errors")
	}

	l.Add(Warnf(StageParser, CodeParseUnexpectedToken, Span{}, "w"))
	if l.HasErrors() {
		t.Error("warnings are not errors")
	}

	l.Add(Errorf(StageParser, CodeParseUnexpectedToken, Span{}, "e"))
	l.Add(Errorf(StageSema, CodeSemaTypeMismatch, Span{}, "e"))
	if !l.HasErrors() || l.ErrorCount() != 2 {
		t.Errorf("ErrorCount = %d, want 2", l.ErrorCount())
	}
}

func TestDiagnosticWith(t *testing.T) {
	d := Errorf(StageSema, CodeSemaUndefinedName, Span{Line: 1, Column: 1}, "undefined name %q", "totl")
	d2 := d.WithSuggestion("total").WithNote("declared below")

	if d.Suggestion != "" || len(d.Notes) != 0 {
		t.Error("WithSuggestion/WithNote must not mutate the receiver")
	}
	if d2.Suggestion != "total" || len(d2.Notes) != 1 {
		t.Errorf("got %+v", d2)
	}
}
