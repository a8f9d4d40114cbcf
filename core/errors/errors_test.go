package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestMalformedURNError(t *testing.T) {
	err := NewMalformedURN("not-a-urn", "missing cts scheme")

	want := `malformed urn "not-a-urn": missing cts scheme`
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if !errors.Is(err, ErrMalformedURN) {
		t.Error("MalformedURNError should unwrap to ErrMalformedURN")
	}
}

func TestMalformedURNErrorNoURN(t *testing.T) {
	err := &MalformedURNError{Message: "empty segment"}
	want := "malformed urn: empty segment"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestNotFoundError(t *testing.T) {
	err := NewNotFound("passage", "urn:cts:greekLit:tlg0012.tlg001:99.99")

	want := "passage not found: urn:cts:greekLit:tlg0012.tlg001:99.99"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if !errors.Is(err, ErrNotFound) {
		t.Error("NotFoundError should unwrap to ErrNotFound")
	}
}

func TestNotFoundErrorNoID(t *testing.T) {
	err := NewNotFound("hookset", "")
	if err.Error() != "hookset not found" {
		t.Errorf("Error() = %q, want %q", err.Error(), "hookset not found")
	}
}

func TestHooksetLoadError(t *testing.T) {
	err := NewHooksetLoad("ctsresolver.hooks.Missing", "not registered")

	want := `cannot load hookset "ctsresolver.hooks.Missing": not registered`
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if !errors.Is(err, ErrHooksetLoad) {
		t.Error("HooksetLoadError should unwrap to ErrHooksetLoad")
	}
}

func TestParseError(t *testing.T) {
	err := NewParse("CEX", "corpus.cex", "unterminated block")

	want := "failed to parse CEX at corpus.cex: unterminated block"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if !errors.Is(err, ErrInvalidInput) {
		t.Error("ParseError should unwrap to ErrInvalidInput")
	}
}

func TestIOError(t *testing.T) {
	inner := errors.New("disk gone")
	err := NewIO("read", "/data/corpus.cex", inner)

	want := "failed to read /data/corpus.cex: disk gone"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if !errors.Is(err, inner) {
		t.Error("IOError should unwrap to the underlying error")
	}
}

func TestWrappedSentinelPreserved(t *testing.T) {
	err := &NotFoundError{Resource: "work", ID: "urn:cts:greekLit:tlg9999", Err: ErrNotFound}
	wrapped := Wrap(err, "resolving")

	if !errors.Is(wrapped, ErrNotFound) {
		t.Error("wrapped error should still match ErrNotFound")
	}

	var nf *NotFoundError
	if !errors.As(wrapped, &nf) {
		t.Error("wrapped error should expose *NotFoundError via As")
	}
}

func TestWrapNil(t *testing.T) {
	if Wrap(nil, "context") != nil {
		t.Error("Wrap(nil) should return nil")
	}
	if Wrapf(nil, "context %d", 1) != nil {
		t.Error("Wrapf(nil) should return nil")
	}
}

func TestWrapf(t *testing.T) {
	err := Wrapf(ErrMalformedURN, "line %d", 42)
	want := fmt.Sprintf("line %d: %v", 42, ErrMalformedURN)
	if err.Error() != want {
		t.Errorf("Wrapf error = %q, want %q", err.Error(), want)
	}
	if !Is(err, ErrMalformedURN) {
		t.Error("Is should match ErrMalformedURN through Wrapf")
	}
}
