package filter

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestFilterProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("plain mode is substring of message", prop.ForAll(
		func(text, message, location string) bool {
			f := NewWith(text, false, true)
			return f.Test(Record{Message: message, Location: location}) == strings.Contains(message, text)
		},
		gen.AlphaString(),
		gen.AlphaString(),
		gen.AlphaString(),
	))

	properties.Property("plain mode finds embedded text", prop.ForAll(
		func(prefix, text, suffix string) bool {
			f := NewWith(text, false, true)
			return f.Test(Record{Message: prefix + text + suffix})
		},
		gen.AlphaString(),
		gen.AlphaString(),
		gen.AlphaString(),
	))

	// Alphabetic patterns are literals, so a full match is string equality.
	properties.Property("regex mode is full match of location", prop.ForAll(
		func(text, location, message string) bool {
			f := NewWith(text, true, true)
			return f.Test(Record{Location: location, Message: message}) == (location == text)
		},
		gen.AlphaString(),
		gen.AlphaString(),
		gen.AlphaString(),
	))

	properties.Property("regex mode rejects padded location", prop.ForAll(
		func(text string) bool {
			f := NewWith(text, true, true)
			return f.Test(Record{Location: text}) && !f.Test(Record{Location: "_" + text + "_"})
		},
		gen.AlphaString(),
	))

	properties.Property("disable never notifies, enable notifies once", prop.ForAll(
		func(start bool) bool {
			f := NewWith("", false, start)
			n := 0
			f.Subscribe(func() { n++ })
			f.SetEnabled(false)
			if n != 0 {
				return false
			}
			f.SetEnabled(true)
			return n == 1
		},
		gen.Bool(),
	))

	properties.TestingRun(t)
}
