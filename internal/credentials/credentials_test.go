package credentials

import (
	"strings"
	"testing"
)

func TestGenerateTherapistCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code, err := GenerateTherapistCode()
		if err != nil {
			t.Fatalf("GenerateTherapistCode() error = %v", err)
		}
		if len(code) != 6 {
			t.Fatalf("code %q has length %d, want 6", code, len(code))
		}
		for _, c := range code {
			if c < '0' || c > '9' {
				t.Fatalf("code %q contains non-digit %q", code, c)
			}
		}
		seen[code] = true
	}
	if len(seen) < 2 {
		t.Error("100 generated codes were all identical")
	}
}

func TestGenerateChildUsername(t *testing.T) {
	for i := 0; i < 50; i++ {
		username, err := GenerateChildUsername()
		if err != nil {
			t.Fatalf("GenerateChildUsername() error = %v", err)
		}
		adjective, noun, ok := strings.Cut(username, "-")
		if !ok || adjective == "" || noun == "" {
			t.Fatalf("username %q is not adjective-noun", username)
		}
	}
}
