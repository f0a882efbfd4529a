package harness

import (
	"fmt"
	"strings"
)

// AssertionError describes an output that did not match its expectation.
type AssertionError struct {
	Case     string
	Dialect  string
	Expected string
	Actual   string
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s (%s)\n", e.Case, e.Dialect)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)
	return buf.String()
}

// checkExpect compares out with want and returns one message per mismatch.
func checkExpect(out Output, want Expect) []string {
	var errs []string
	fail := func(expected, actual string) {
		errs = append(errs, (&AssertionError{
			Case:     out.Case,
			Dialect:  out.Dialect,
			Expected: expected,
			Actual:   actual,
		}).Error())
	}

	switch {
	case want.Error != "" && out.Error == "":
		fail("error containing "+quote(want.Error), "rendered "+quote(out.Rendered))
	case want.Error != "" && !strings.Contains(out.Error, want.Error):
		fail("error containing "+quote(want.Error), "error "+quote(out.Error))
	case want.Error == "" && out.Error != "":
		fail("no error", "error "+quote(out.Error))
	case want.SQL != "" && out.Rendered != want.SQL:
		fail(quote(want.SQL), quote(out.Rendered))
	}
	return errs
}

func quote(s string) string {
	return fmt.Sprintf("%q", s)
}
