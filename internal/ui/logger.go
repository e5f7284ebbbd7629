package ui

import (
	"fmt"
	"io"
	"os"
	"sync"

	"golang.org/x/term"
)

type logEntry struct {
	level   string
	message string
}

var (
	activeLogMu sync.RWMutex
	activeLogCh chan logEntry

	out io.Writer = os.Stdout
)

// setActiveLogChannel sets the channel used by the spinner to receive log updates.
// It is intended for internal use by the spinner only.
func setActiveLogChannel(ch chan logEntry) {
	activeLogMu.Lock()
	activeLogCh = ch
	activeLogMu.Unlock()
}

// clearActiveLogChannel clears the active spinner log channel. Once it
// returns no sender holds the old channel.
func clearActiveLogChannel() {
	setActiveLogChannel(nil)
}

// Logf logs a formatted message. If a spinner is active, the message is
// printed above it. Otherwise, it prints to stdout.
func Logf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	activeLogMu.RLock()
	defer activeLogMu.RUnlock()
	if activeLogCh != nil {
		select {
		case activeLogCh <- logEntry{level: "info", message: msg}:
		default:
			// drop if channel is full to avoid blocking
		}
		return
	}
	fmt.Fprint(out, msg)
}

// Log writes a plain message with newline semantics when not under a spinner.
func Log(msg string) {
	Logf("%s\n", msg)
}

// UILogger is a logger.Logger that routes through Logf.
type UILogger struct{}

func (UILogger) Logf(format string, args ...interface{}) { Logf(format, args...) }
func (UILogger) Log(msg string)                          { Log(msg) }

// IsInteractive reports whether f is a terminal, i.e. whether a spinner can
// be drawn on it.
func IsInteractive(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
