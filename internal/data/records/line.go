package records

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	coreerrors "rosview/internal/core/errors"
	"rosview/internal/engine/filter"
)

type wireRecord struct {
	ID       string          `json:"id"`
	Stamp    json.RawMessage `json:"stamp"`
	Severity string          `json:"severity"`
	Node     string          `json:"node"`
	Location string          `json:"location"`
	Message  string          `json:"message"`
	Topics   []string        `json:"topics"`
}

// ParseLine decodes one JSON console line. The stamp is either an RFC3339
// string or a number of seconds since the epoch.
func ParseLine(line []byte) (filter.Record, error) {
	line = bytes.TrimSpace(line)
	if len(line) == 0 {
		return filter.Record{}, coreerrors.New(coreerrors.CodeValidationError, "empty console line")
	}

	var w wireRecord
	if err := json.Unmarshal(line, &w); err != nil {
		return filter.Record{}, coreerrors.Wrap(err, coreerrors.CodeValidationError, "decode console line")
	}

	stamp, err := parseStamp(w.Stamp)
	if err != nil {
		return filter.Record{}, err
	}

	severity := filter.SeverityInfo
	if strings.TrimSpace(w.Severity) != "" {
		s, ok := filter.ParseSeverity(w.Severity)
		if !ok {
			return filter.Record{}, coreerrors.New(coreerrors.CodeValidationError, fmt.Sprintf("unknown severity %q", w.Severity))
		}
		severity = s
	}

	return filter.Record{
		ID:       w.ID,
		Stamp:    stamp,
		Severity: severity,
		Node:     w.Node,
		Location: w.Location,
		Message:  w.Message,
		Topics:   w.Topics,
	}, nil
}

func parseStamp(raw json.RawMessage) (time.Time, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return time.Time{}, coreerrors.New(coreerrors.CodeValidationError, "console line has no stamp")
	}

	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return time.Time{}, coreerrors.Wrap(err, coreerrors.CodeValidationError, "decode stamp")
		}
		ts, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return time.Time{}, coreerrors.Wrap(err, coreerrors.CodeValidationError, "parse stamp")
		}
		return ts.UTC(), nil
	}

	secs, err := strconv.ParseFloat(string(raw), 64)
	if err != nil {
		return time.Time{}, coreerrors.Wrap(err, coreerrors.CodeValidationError, "parse numeric stamp")
	}
	whole, frac := math.Modf(secs)
	return time.Unix(int64(whole), int64(math.Round(frac*1e9))).UTC(), nil
}
