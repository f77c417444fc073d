package filter

import (
	"fmt"

	coreerrors "rosview/internal/core/errors"
)

// Mode decides how the results of enabled filters are combined.
type Mode int

const (
	ModeAny Mode = iota // logical OR
	ModeAll             // logical AND
)

func (m Mode) String() string {
	if m == ModeAll {
		return "all"
	}
	return "any"
}

// ParseMode maps "any"/"or" and "all"/"and" to a Mode.
func ParseMode(raw string) (Mode, error) {
	switch raw {
	case "", "any", "or":
		return ModeAny, nil
	case "all", "and":
		return ModeAll, nil
	}
	return ModeAny, coreerrors.New(coreerrors.CodeValidationError, fmt.Sprintf("unknown filter mode %q", raw))
}

// Collection aggregates filters and re-emits their change notifications.
type Collection struct {
	notifier

	filters     []*Filter
	unsubscribe []func()
	mode        Mode
	emptyResult bool
}

// NewCollection creates an empty collection. emptyResult is what Match
// returns while no filter is enabled.
func NewCollection(mode Mode, emptyResult bool) *Collection {
	return &Collection{mode: mode, emptyResult: emptyResult}
}

func (c *Collection) Add(f *Filter) {
	if f == nil {
		return
	}
	c.filters = append(c.filters, f)
	c.unsubscribe = append(c.unsubscribe, f.Subscribe(c.emit))
	if f.IsEnabled() {
		c.emit()
	}
}

func (c *Collection) Remove(index int) error {
	if index < 0 || index >= len(c.filters) {
		return coreerrors.New(coreerrors.CodeNotFound, fmt.Sprintf("filter index %d out of range", index))
	}
	wasEnabled := c.filters[index].IsEnabled()
	c.unsubscribe[index]()
	c.filters = append(c.filters[:index], c.filters[index+1:]...)
	c.unsubscribe = append(c.unsubscribe[:index], c.unsubscribe[index+1:]...)
	if wasEnabled {
		c.emit()
	}
	return nil
}

func (c *Collection) Len() int { return len(c.filters) }

func (c *Collection) At(index int) *Filter {
	if index < 0 || index >= len(c.filters) {
		return nil
	}
	return c.filters[index]
}

func (c *Collection) Filters() []*Filter {
	out := make([]*Filter, len(c.filters))
	copy(out, c.filters)
	return out
}

func (c *Collection) Mode() Mode { return c.mode }

func (c *Collection) SetMode(mode Mode) {
	if c.mode == mode {
		return
	}
	c.mode = mode
	c.emit()
}

// Enabled reports how many filters currently take part in Match.
func (c *Collection) Enabled() int {
	n := 0
	for _, f := range c.filters {
		if f.IsEnabled() {
			n++
		}
	}
	return n
}

func (c *Collection) Match(record Record) bool {
	seen := false
	for _, f := range c.filters {
		if !f.IsEnabled() {
			continue
		}
		seen = true
		hit := f.Test(record)
		if c.mode == ModeAny && hit {
			return true
		}
		if c.mode == ModeAll && !hit {
			return false
		}
	}
	if !seen {
		return c.emptyResult
	}
	return c.mode == ModeAll
}

// Validate collects pattern errors of every enabled regex filter.
func (c *Collection) Validate() []error {
	var errs []error
	for i, f := range c.filters {
		if !f.IsEnabled() {
			continue
		}
		if err := f.Validate(); err != nil {
			errs = append(errs, coreerrors.AddContext(err, "index", i))
		}
	}
	return errs
}
