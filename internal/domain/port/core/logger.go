package core

// LogLevel orders logging severities from Debug up to Error
type LogLevel int

const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
)

// Logger is the structured logging port used across the domain and adapters.
// Fields carry contextual key/value pairs; a nil map is allowed.
type Logger interface {
	// SetLevel sets the minimum severity that gets emitted
	SetLevel(level LogLevel)
	// GetLevel returns the current minimum severity
	GetLevel() LogLevel
	Debug(message string, fields map[string]any)
	Info(message string, fields map[string]any)
	Warn(message string, fields map[string]any)
	Error(message string, fields map[string]any)
	// Flush writes out any buffered entries before shutdown
	Flush() error
}
