package crypto

import (
	"regexp"
	"testing"
)

func TestGenerateToken(t *testing.T) {
	token, err := GenerateToken(32)
	if err != nil {
		t.Fatalf("token error: %v", err)
	}

	if len(token) == 0 {
		t.Fatal("expected token to be non-empty")
	}
}

func TestGenerateHexToken(t *testing.T) {
	hexPattern := regexp.MustCompile(`^[0-9a-f]{32}$`)
	seen := make(map[string]struct{})

	for i := 0; i < 64; i++ {
		token, err := GenerateHexToken(16)
		if err != nil {
			t.Fatalf("token error: %v", err)
		}
		if !hexPattern.MatchString(token) {
			t.Fatalf("expected 32 lowercase hex chars, got %q", token)
		}
		if _, dup := seen[token]; dup {
			t.Fatalf("duplicate token %q", token)
		}
		seen[token] = struct{}{}
	}
}
