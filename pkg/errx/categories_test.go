package errx

import (
	"errors"
	"testing"
)

func TestCategories_CreateByCode(t *testing.T) {
	err := CreateByCode(CodeCLI, DescCLI, "test", nil)

	if err.Code() != CodeCLI {
		t.Errorf("Code() = %q, want %q", err.Code(), CodeCLI)
	}
}

func TestCategories_FromSentinel(t *testing.T) {
	sentinel := errors.New("sentinel")
	lookup := func(err error) (code, description string) {
		return "", ""
	}
	err := FromSentinel(sentinel, lookup, "test", nil)

	if err.Code() != CodeCLI {
		t.Errorf("Code() = %q, want fallback %q", err.Code(), CodeCLI)
	}
	if !errors.Is(err, sentinel) {
		t.Errorf("errors.Is(err, sentinel) = false, want true")
	}
}

func TestCatalog(t *testing.T) {
	catalog := NewCatalog()
	errAuth := catalog.Sentinel("bad credentials", CodeAuth, DescAuth)

	t.Run("registered sentinel keeps its category", func(t *testing.T) {
		err := catalog.New(errAuth, "username or password are wrong")
		if err.Code() != CodeAuth {
			t.Errorf("Code() = %q, want %q", err.Code(), CodeAuth)
		}
		if !errors.Is(err, errAuth) {
			t.Errorf("errors.Is(err, errAuth) = false, want true")
		}
	})

	t.Run("unknown sentinel falls back to CLI", func(t *testing.T) {
		code, desc := catalog.Lookup(errors.New("other"))
		if code != CodeCLI || desc != DescCLI {
			t.Errorf("Lookup() = (%q, %q), want (%q, %q)", code, desc, CodeCLI, DescCLI)
		}
	})

	t.Run("nil base yields CLI error", func(t *testing.T) {
		cause := errors.New("cause")
		err := catalog.Wrap(nil, cause, "msg")
		if err.Code() != CodeCLI {
			t.Errorf("Code() = %q, want %q", err.Code(), CodeCLI)
		}
		if !errors.Is(err, cause) {
			t.Errorf("errors.Is(err, cause) = false, want true")
		}
	})

	t.Run("unregistered category panics", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Error("Sentinel() with unknown code did not panic")
			}
		}()
		catalog.Sentinel("bogus", "99999", "Bogus")
	})

	t.Run("mismatched description panics", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Error("Sentinel() with wrong description did not panic")
			}
		}()
		catalog.Sentinel("bogus", CodeAuth, DescServer)
	})

	t.Run("context is attached", func(t *testing.T) {
		err := catalog.WrapWithContext(errAuth, nil, "msg", map[string]any{"username": "alice"})
		if err.Context()["username"] != "alice" {
			t.Errorf("Context()[username] = %v, want alice", err.Context()["username"])
		}
	})
}
