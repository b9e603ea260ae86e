package errx

import (
	"testing"
)

func TestRegistry_DescriptionFor(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{CodeCLI, DescCLI},
		{CodeAuth, DescAuth},
		{CodeConflict, DescConflict},
		{CodeTransport, DescTransport},
	}
	for _, tt := range tests {
		desc, ok := DescriptionFor(tt.code)
		if !ok || desc != tt.want {
			t.Errorf("DescriptionFor(%q) = %q, want %q", tt.code, desc, tt.want)
		}
	}
}

func TestRegistry_UnknownCode(t *testing.T) {
	if desc, ok := DescriptionFor("99999"); ok {
		t.Errorf(`DescriptionFor("99999") = %q, true, want not found`, desc)
	}
}
