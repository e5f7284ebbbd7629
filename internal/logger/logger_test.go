package logger

import (
	"bytes"
	"testing"
)

func TestStdoutLogger(t *testing.T) {
	var buf bytes.Buffer
	l := &StdoutLogger{Out: &buf}

	l.Logf("planned %s at %d\n", "add_import", 3)
	l.Log("done")

	if got, want := buf.String(), "planned add_import at 3\ndone\n"; got != want {
		t.Fatalf("unexpected output %q, want %q", got, want)
	}
}

func TestQuiet(t *testing.T) {
	var buf bytes.Buffer
	l := &StdoutLogger{Out: &buf}

	Quiet(l, false).Log("hidden")
	Quiet(nil, true).Log("hidden")
	Quiet(l, true).Log("shown")

	if got := buf.String(); got != "shown\n" {
		t.Fatalf("unexpected output %q", got)
	}
}
