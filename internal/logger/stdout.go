package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// StdoutLogger writes to stdout, or to Out when set. Commands emitting json or
// yaml point it at stderr. Safe for concurrent use so parallel injections do
// not interleave partial lines.
type StdoutLogger struct {
	Out io.Writer
	mu  sync.Mutex
}

func (l *StdoutLogger) writer() io.Writer {
	if l.Out != nil {
		return l.Out
	}
	return os.Stdout
}

func (l *StdoutLogger) Logf(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.writer(), format, args...)
}

func (l *StdoutLogger) Log(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.writer(), msg)
}
