package filter

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	coreerrors "rosview/internal/core/errors"
	"rosview/internal/shared/observability"
)

// PatternError reports a regular expression that does not compile.
type PatternError struct {
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid pattern %q: %v", e.Pattern, e.Err)
}

func (e *PatternError) Unwrap() error {
	return e.Err
}

// Filter is a single toggleable location filter.
//
// In regex mode the pattern must match the whole Location of a record. In
// plain mode the text only has to occur somewhere in the Message. The two
// modes deliberately look at different fields.
//
// A Filter is not safe for concurrent use; mutate it from the goroutine that
// owns the console.
type Filter struct {
	notifier

	text    string
	regex   bool
	enabled bool

	compiled    *regexp.Regexp
	compileErr  error
	compiledFor string
	compileOK   bool
	reported    string
}

// New returns an enabled, empty, plain-text filter.
func New() *Filter {
	return &Filter{enabled: true}
}

// NewWith is a convenience constructor that does not notify.
func NewWith(text string, regex, enabled bool) *Filter {
	return &Filter{text: text, regex: regex, enabled: enabled}
}

func (f *Filter) SetText(text string) {
	f.text = text
	if f.enabled {
		f.emit()
	}
}

func (f *Filter) SetEnabled(enabled bool) {
	f.enabled = enabled
	if f.enabled {
		f.emit()
	}
}

func (f *Filter) SetRegex(regex bool) {
	f.regex = regex
	if f.enabled {
		f.emit()
	}
}

func (f *Filter) IsEnabled() bool { return f.enabled }
func (f *Filter) IsRegex() bool   { return f.regex }
func (f *Filter) Text() string    { return f.text }

// Test reports whether record matches the filter. A malformed regular
// expression never matches; the first failure per pattern is logged.
func (f *Filter) Test(record Record) bool {
	var matched bool
	mode := "plain"
	if f.regex {
		mode = "regex"
		re, err := f.pattern()
		if err != nil {
			observability.FilterPatternErrorsTotal.Inc()
			if f.reported != f.text {
				f.reported = f.text
				slog.Warn("filter pattern does not compile, treating as non-match", "pattern", f.text, "error", err)
			}
		} else {
			matched = re.MatchString(record.Location)
		}
	} else {
		matched = strings.Contains(record.Message, f.text)
	}

	result := "miss"
	if matched {
		result = "hit"
	}
	observability.FilterEvaluationsTotal.WithLabelValues(mode, result).Inc()
	return matched
}

// Validate returns an INVALID_PATTERN domain error wrapping a *PatternError
// when the filter is in regex mode and its text does not compile.
func (f *Filter) Validate() error {
	if !f.regex {
		return nil
	}
	if _, err := f.pattern(); err != nil {
		wrapped := coreerrors.Wrap(&PatternError{Pattern: f.text, Err: err}, coreerrors.CodeInvalidPattern, "compile filter pattern")
		return coreerrors.AddContext(wrapped, coreerrors.CtxPattern, f.text)
	}
	return nil
}

func (f *Filter) pattern() (*regexp.Regexp, error) {
	if f.compileOK && f.compiledFor == f.text {
		return f.compiled, f.compileErr
	}
	if _, err := regexp.Compile(f.text); err != nil {
		f.compiled, f.compileErr = nil, err
	} else {
		// Anchor both ends so only a whole-string match counts.
		f.compiled, f.compileErr = regexp.Compile(`^(?:` + f.text + `)$`)
	}
	f.compiledFor = f.text
	f.compileOK = true
	return f.compiled, f.compileErr
}

func (f *Filter) String() string {
	state := "off"
	if f.enabled {
		state = "on"
	}
	kind := "text"
	if f.regex {
		kind = "regex"
	}
	return fmt.Sprintf("[%s] %s %q", state, kind, f.text)
}
