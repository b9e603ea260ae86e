package errx

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestFormat_UserString(t *testing.T) {
	t.Run("with message", func(t *testing.T) {
		err := New(CodeAuth, DescAuth, "username or password are wrong")
		if got := UserString(err); got != "username or password are wrong" {
			t.Errorf("UserString(err) = %q, want %q", got, "username or password are wrong")
		}
	})
	t.Run("without message falls back to description", func(t *testing.T) {
		err := New(CodeAuth, DescAuth, "")
		if got := UserString(err); got != DescAuth {
			t.Errorf("UserString(err) = %q, want %q", got, DescAuth)
		}
	})
	t.Run("wrapped by fmt.Errorf", func(t *testing.T) {
		err := fmt.Errorf("outer: %w", New(CodeServer, DescServer, "inner"))
		if got := UserString(err); got != "inner" {
			t.Errorf("UserString(err) = %q, want %q", got, "inner")
		}
	})
	t.Run("with non-errx error", func(t *testing.T) {
		if got := UserString(errors.New("standard error")); got != "standard error" {
			t.Errorf("UserString(err) = %q, want %q", got, "standard error")
		}
	})
	t.Run("with nil error", func(t *testing.T) {
		if got := UserString(nil); got != "" {
			t.Errorf("UserString(nil) = %q, want empty string", got)
		}
	})
}

func TestFormat_IsErrorAndCodeOf(t *testing.T) {
	err := New(CodeConflict, DescConflict, "exists")
	if !IsError(err) {
		t.Errorf("IsError(err) = false, want true")
	}
	if IsError(errors.New("plain")) {
		t.Errorf("IsError(plain) = true, want false")
	}
	if IsError(nil) {
		t.Errorf("IsError(nil) = true, want false")
	}
	if got := CodeOf(fmt.Errorf("ctx: %w", err)); got != CodeConflict {
		t.Errorf("CodeOf() = %q, want %q", got, CodeConflict)
	}
	if got := CodeOf(errors.New("plain")); got != "" {
		t.Errorf("CodeOf(plain) = %q, want empty", got)
	}
}

func TestFormat_DebugString(t *testing.T) {
	t.Run("single error", func(t *testing.T) {
		err := New("70000", "CLI error", "test")
		want := "1: *errx.Error: test | code=70000 | description=\"CLI error\" | message=\"test\""
		if got := DebugString(err); got != want {
			t.Errorf("DebugString(err) = %q, want %q", got, want)
		}
	})
	t.Run("context keys are sorted", func(t *testing.T) {
		err := New(CodeServer, "", "rejected").
			WithContext("status", 400).
			WithContext("artifact", "a.whl")
		want := "1: *errx.Error: rejected | code=78000 | message=\"rejected\" | context={artifact=a.whl, status=400}"
		if got := DebugString(err); got != want {
			t.Errorf("DebugString(err) = %q, want %q", got, want)
		}
	})
	t.Run("chain with cause", func(t *testing.T) {
		cause := errors.New("connection refused")
		got := DebugString(Wrap(CodeTransport, DescTransport, "upload failed", cause))
		lines := strings.Split(got, "\n")
		if len(lines) != 2 {
			t.Fatalf("DebugString lines = %d, want 2: %q", len(lines), got)
		}
		if lines[1] != "2: *errors.errorString: connection refused" {
			t.Errorf("second line = %q", lines[1])
		}
	})
	t.Run("errors.Join", func(t *testing.T) {
		got := DebugString(errors.Join(errors.New("error1"), errors.New("error2")))
		if !strings.Contains(got, "error1") || !strings.Contains(got, "error2") {
			t.Errorf("DebugString(joined) = %q, want both errors", got)
		}
	})
	t.Run("nil error", func(t *testing.T) {
		if got := DebugString(nil); got != "" {
			t.Errorf("DebugString(nil) = %q, want empty string", got)
		}
	})
}

func TestFormat_unwrapAll(t *testing.T) {
	if got := unwrapAll(New(CodeCLI, DescCLI, "x")); got != nil {
		t.Errorf("unwrapAll(no cause) = %v, want nil", got)
	}
	if got := unwrapAll(errors.Join(errors.New("a"), errors.New("b"), errors.New("c"))); len(got) != 3 {
		t.Errorf("unwrapAll(joined) length = %d, want 3", len(got))
	}
	if got := unwrapAll(nil); got != nil {
		t.Errorf("unwrapAll(nil) = %v, want nil", got)
	}
}

func TestFormat_formatContext(t *testing.T) {
	if got := formatContext(map[string]any{"key2": "value2", "key1": "value1"}); got != "key1=value1, key2=value2" {
		t.Errorf("formatContext() = %q, want %q", got, "key1=value1, key2=value2")
	}
	if got := formatContext(nil); got != "" {
		t.Errorf("formatContext(nil) = %q, want empty string", got)
	}
}
