package filter

import (
	"strings"
	"time"
)

// Severity mirrors the console log levels.
type Severity int

const (
	SeverityDebug Severity = iota
	SeverityInfo
	SeverityWarn
	SeverityError
	SeverityFatal
)

var severityNames = [...]string{"DEBUG", "INFO", "WARN", "ERROR", "FATAL"}

func (s Severity) String() string {
	if s < 0 || int(s) >= len(severityNames) {
		return "UNKNOWN"
	}
	return severityNames[s]
}

// ParseSeverity accepts names case-insensitively; WARNING is an alias for WARN.
func ParseSeverity(raw string) (Severity, bool) {
	name := strings.ToUpper(strings.TrimSpace(raw))
	if name == "WARNING" {
		name = "WARN"
	}
	for i, candidate := range severityNames {
		if candidate == name {
			return Severity(i), true
		}
	}
	return SeverityInfo, false
}

// Record is a single console message as consumed by filters.
type Record struct {
	ID       string
	Stamp    time.Time
	Severity Severity
	Node     string
	Location string
	Message  string
	Topics   []string
}
