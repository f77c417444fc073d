package filter

import (
	"errors"
	"testing"

	coreerrors "rosview/internal/core/errors"
)

func countNotifications(f *Filter) *int {
	n := 0
	f.Subscribe(func() { n++ })
	return &n
}

func TestFilter_Defaults(t *testing.T) {
	f := New()
	if !f.IsEnabled() {
		t.Fatal("expected new filter to be enabled")
	}
	if f.IsRegex() {
		t.Fatal("expected new filter to be in plain mode")
	}
	if f.Text() != "" {
		t.Fatalf("expected empty text, got %q", f.Text())
	}
}

func TestFilter_PlainModeMatchesMessage(t *testing.T) {
	f := New()
	f.SetText("ERROR")

	if !f.Test(Record{Message: "2024 ERROR disk full"}) {
		t.Fatal("expected substring match on message")
	}
	if f.Test(Record{Message: "all good", Location: "ERROR"}) {
		t.Fatal("plain mode must not look at the location field")
	}
}

func TestFilter_EmptyPlainTextMatchesEverything(t *testing.T) {
	f := New()
	for _, msg := range []string{"", "x", "anything at all"} {
		if !f.Test(Record{Message: msg}) {
			t.Fatalf("expected empty pattern to match %q", msg)
		}
	}
}

func TestFilter_RegexModeRequiresFullLocationMatch(t *testing.T) {
	f := NewWith("abc", true, true)

	if f.Test(Record{Location: "xabcx"}) {
		t.Fatal("partial regex match must not count")
	}
	if !f.Test(Record{Location: "abc"}) {
		t.Fatal("expected exact location match")
	}
	if f.Test(Record{Location: "nope", Message: "abc"}) {
		t.Fatal("regex mode must not look at the message field")
	}

	plain := NewWith("abc", false, true)
	if !plain.Test(Record{Message: "xabcx"}) {
		t.Fatal("same pattern must match the message in plain mode")
	}
}

func TestFilter_RegexAlternationAnchorsAsWhole(t *testing.T) {
	f := NewWith("a|ab", true, true)
	if !f.Test(Record{Location: "ab"}) {
		t.Fatal("expected alternation to be anchored as a group")
	}
	if f.Test(Record{Location: "abc"}) {
		t.Fatal("expected trailing text to prevent a match")
	}

	f.SetText(`/talker/.*\.cpp:\d+`)
	if !f.Test(Record{Location: "/talker/src/main.cpp:42"}) {
		t.Fatal("expected location pattern to match")
	}
}

func TestFilter_MalformedRegexIsNonMatch(t *testing.T) {
	f := NewWith("a)(b", true, true)

	if f.Test(Record{Location: "ab", Message: "a)(b"}) {
		t.Fatal("malformed pattern must never match")
	}
	// Second evaluation goes through the cached error path.
	if f.Test(Record{Location: "a)(b"}) {
		t.Fatal("malformed pattern must never match")
	}

	err := f.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !coreerrors.IsCode(err, coreerrors.CodeInvalidPattern) {
		t.Fatalf("expected INVALID_PATTERN, got %v", err)
	}
	var pe *PatternError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *PatternError in chain, got %T", err)
	}
	if pe.Pattern != "a)(b" {
		t.Fatalf("expected offending pattern to be reported, got %q", pe.Pattern)
	}
}

func TestFilter_RecompilesAfterTextChange(t *testing.T) {
	f := NewWith("[", true, true)
	if f.Validate() == nil {
		t.Fatal("expected error for unterminated class")
	}
	f.SetText("[a-c]+")
	if err := f.Validate(); err != nil {
		t.Fatalf("expected valid pattern after change, got %v", err)
	}
	if !f.Test(Record{Location: "abcab"}) {
		t.Fatal("expected recompiled pattern to match")
	}
}

func TestFilter_ValidateIgnoresPlainMode(t *testing.T) {
	f := NewWith("a)(b", false, true)
	if err := f.Validate(); err != nil {
		t.Fatalf("plain text is never a pattern error, got %v", err)
	}
}

func TestFilter_Notifications(t *testing.T) {
	t.Run("SetEnabledFalseIsSilent", func(t *testing.T) {
		f := New()
		n := countNotifications(f)
		f.SetEnabled(false)
		if *n != 0 {
			t.Fatalf("expected no notification, got %d", *n)
		}
	})

	t.Run("SetEnabledTrueNotifiesOnce", func(t *testing.T) {
		f := NewWith("", false, false)
		n := countNotifications(f)
		f.SetEnabled(true)
		if *n != 1 {
			t.Fatalf("expected exactly one notification, got %d", *n)
		}
		f.SetEnabled(true)
		if *n != 2 {
			t.Fatalf("expected re-enabling to notify again, got %d", *n)
		}
	})

	t.Run("MutationsWhileDisabledAreSilent", func(t *testing.T) {
		f := NewWith("ERROR", false, false)
		n := countNotifications(f)
		f.SetText("WARN")
		f.SetRegex(true)
		if *n != 0 {
			t.Fatalf("expected no notifications while disabled, got %d", *n)
		}
		if f.Text() != "WARN" || !f.IsRegex() {
			t.Fatal("expected state to change even without notification")
		}
	})

	t.Run("MutationsWhileEnabledNotify", func(t *testing.T) {
		f := New()
		n := countNotifications(f)
		f.SetText("WARN")
		f.SetRegex(true)
		if *n != 2 {
			t.Fatalf("expected 2 notifications, got %d", *n)
		}
	})

	t.Run("EachObserverOncePerCall", func(t *testing.T) {
		f := New()
		a := countNotifications(f)
		b := countNotifications(f)
		f.SetText("x")
		if *a != 1 || *b != 1 {
			t.Fatalf("expected each observer once, got a=%d b=%d", *a, *b)
		}
	})

	t.Run("Unsubscribe", func(t *testing.T) {
		f := New()
		n := 0
		cancel := f.Subscribe(func() { n++ })
		f.SetText("a")
		cancel()
		f.SetText("b")
		if n != 1 {
			t.Fatalf("expected 1 notification before unsubscribe, got %d", n)
		}
	})
}
