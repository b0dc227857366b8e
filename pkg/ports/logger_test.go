package ports

import "testing"

func TestParseLogLevel(t *testing.T) {
	for _, level := range []LogLevel{LevelDebug, LevelInfo, LevelWarn, LevelError, LevelQuiet} {
		if got := ParseLogLevel(level.String()); got != level {
			t.Errorf("ParseLogLevel(%q) = %s, want %s", level.String(), got, level)
		}
	}
	if got := ParseLogLevel("verbose"); got != LevelInfo {
		t.Errorf("unknown level should fall back to info, got %s", got)
	}
	if LogLevel(99).String() != "unknown" {
		t.Errorf("unexpected name for out-of-range level: %s", LogLevel(99))
	}
}
