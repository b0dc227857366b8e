package ports

// LogLevel orders log messages by severity. Messages below the configured
// level (--log-level) are dropped.
type LogLevel int

const (
	// LevelDebug covers per-packet and per-frame detail from the inspect,
	// select, extract and export stages.
	LevelDebug LogLevel = iota
	// LevelInfo covers one line per stage from the orchestrator.
	LevelInfo
	// LevelWarn covers problems the run survives, such as a debug dump
	// that could not be saved or an input that yielded no frame.
	LevelWarn
	// LevelError covers failures that end the run without an output image.
	LevelError
	// LevelQuiet disables logging.
	LevelQuiet
)

// String returns the string representation of the log level.
func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	case LevelQuiet:
		return "quiet"
	default:
		return "unknown"
	}
}

// ParseLogLevel parses a string into a LogLevel.
func ParseLogLevel(s string) LogLevel {
	switch s {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn":
		return LevelWarn
	case "error":
		return LevelError
	case "quiet":
		return LevelQuiet
	default:
		return LevelInfo
	}
}

// Logger is the logging port shared by the stages and the orchestrator.
// msg is an l10n key; args fill its format verbs after translation.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})

	// WithComponent returns a Logger whose lines carry the component
	// name, e.g. "inspect" or "extract".
	WithComponent(component string) Logger
}
