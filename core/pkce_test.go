package core

import (
	"encoding/base64"
	"testing"
)

func TestGenerateCodeVerifier_LengthAndUniqueness(t *testing.T) {
	seen := map[string]struct{}{}
	for i := 0; i < 32; i++ {
		verifier, err := GenerateCodeVerifier()
		if err != nil {
			t.Fatalf("generate code verifier: %v", err)
		}
		if _, err := base64.RawURLEncoding.DecodeString(verifier); err != nil {
			t.Fatalf("expected url-safe base64 verifier, got %q: %v", verifier, err)
		}
		if len(verifier) < 43 || len(verifier) > 128 {
			t.Fatalf("expected verifier length within 43..128, got %d", len(verifier))
		}
		if _, dup := seen[verifier]; dup {
			t.Fatalf("expected unique verifiers, got duplicate %q", verifier)
		}
		seen[verifier] = struct{}{}
	}
}

func TestCodeChallengeS256_MatchesKnownVector(t *testing.T) {
	// Appendix B of RFC 7636.
	verifier := "dBjftJeZ4CVP-mB92K27uhbUJU1p1r_wW1gFWFOEjXk"
	want := "E9Melhoa2OwvFrEMTJguCHaoeK1t8URWbuGJSstw-cM"
	if got := CodeChallengeS256(verifier); got != want {
		t.Fatalf("expected challenge %q, got %q", want, got)
	}
}
