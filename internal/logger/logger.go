package logger

// Logger is the logging surface shared by commands and the injector.
type Logger interface {
	Logf(format string, args ...interface{})
	Log(msg string)
}

// NopLogger discards everything. Used in tests and by the pure planning API.
type NopLogger struct{}

func (NopLogger) Logf(format string, args ...interface{}) {}
func (NopLogger) Log(msg string)                          {}

// Quiet returns l unless verbose is false, in which case messages are dropped.
func Quiet(l Logger, verbose bool) Logger {
	if !verbose || l == nil {
		return NopLogger{}
	}
	return l
}
