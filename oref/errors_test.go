package oref

import "testing"

// TestNewError_FormatsMessage verifies:
// GIVEN a format string and arguments
// WHEN NewError is called
// THEN Error() MUST return the formatted message and Kind MUST be
// preserved.
func TestNewError_FormatsMessage(t *testing.T) {
	err := NewError(KindInputParse, "missing field %q", "glucose")
	if err.Kind != KindInputParse {
		t.Errorf("Kind = %v, want KindInputParse", err.Kind)
	}
	want := `missing field "glucose"`
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

// TestKind_String verifies:
// GIVEN each defined Kind value
// WHEN String is called
// THEN it MUST return the expected lowercase, underscore-separated label.
func TestKind_String(t *testing.T) {
	cases := map[Kind]string{
		KindInputParse:       "input_parse",
		KindInvalidTimestamp: "invalid_timestamp",
		KindNumericDomain:    "numeric_domain",
		KindEmpty:            "empty",
	}
	for kind, want := range cases {
		if got := kind.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", kind, got, want)
		}
	}
}
