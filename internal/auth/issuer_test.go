package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "unit-test-secret-key-not-for-production"

func TestIssueVerifyRoundTrip(t *testing.T) {
	iss := NewIssuer(testSecret, time.Hour)

	cases := []struct {
		name string
		id   uint64
		role string
	}{
		{"customer", 42, "customer"},
		{"admin", 1, "admin"},
		{"large id", 1<<53 - 1, "customer"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			raw, err := iss.Issue(tc.id, tc.role)
			if err != nil {
				t.Fatalf("Issue() error: %v", err)
			}
			got, err := iss.Verify(raw)
			if err != nil {
				t.Fatalf("Verify() error: %v", err)
			}
			if got.CustomerID != tc.id || got.Role != tc.role {
				t.Errorf("Verify() = %+v, want id=%d role=%q", got, tc.id, tc.role)
			}
		})
	}
}

func TestVerifyExpiredToken(t *testing.T) {
	iss := NewIssuer(testSecret, -time.Minute) // already expired at issuance
	raw, err := iss.Issue(7, "customer")
	if err != nil {
		t.Fatalf("Issue() error: %v", err)
	}
	if _, err := iss.Verify(raw); err != ErrInvalidToken {
		t.Errorf("Verify() of expired token = %v, want ErrInvalidToken", err)
	}
}

func TestVerifyTamperedToken(t *testing.T) {
	iss := NewIssuer(testSecret, time.Hour)
	raw, err := iss.Issue(7, "customer")
	if err != nil {
		t.Fatalf("Issue() error: %v", err)
	}

	parts := strings.Split(raw, ".")
	if len(parts) != 3 {
		t.Fatalf("token has %d segments, want 3", len(parts))
	}

	// Swap in the payload of a token that claims the admin role; the
	// signature no longer matches.
	elevated, err := NewIssuer(testSecret, time.Hour).Issue(7, "admin")
	if err != nil {
		t.Fatalf("Issue() error: %v", err)
	}
	forged := parts[0] + "." + strings.Split(elevated, ".")[1] + "." + parts[2]
	if _, err := iss.Verify(forged); err != ErrInvalidToken {
		t.Errorf("Verify() of forged payload = %v, want ErrInvalidToken", err)
	}

	// Corrupt the signature directly.
	broken := parts[0] + "." + parts[1] + "." + parts[2][:len(parts[2])-2] + "xx"
	if _, err := iss.Verify(broken); err != ErrInvalidToken {
		t.Errorf("Verify() of broken signature = %v, want ErrInvalidToken", err)
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	raw, err := NewIssuer("some-other-secret-entirely", time.Hour).Issue(7, "customer")
	if err != nil {
		t.Fatalf("Issue() error: %v", err)
	}
	if _, err := NewIssuer(testSecret, time.Hour).Verify(raw); err != ErrInvalidToken {
		t.Errorf("Verify() with wrong secret = %v, want ErrInvalidToken", err)
	}
}

func TestVerifyMalformed(t *testing.T) {
	iss := NewIssuer(testSecret, time.Hour)
	for _, raw := range []string{"", "not-a-jwt", "a.b.c"} {
		if _, err := iss.Verify(raw); err != ErrInvalidToken {
			t.Errorf("Verify(%q) = %v, want ErrInvalidToken", raw, err)
		}
	}
}

func TestVerifyRejectsMissingClaims(t *testing.T) {
	// A structurally valid token signed with the right secret but without the
	// id/role claims must still be rejected.
	claims := jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := NewIssuer(testSecret, time.Hour).Verify(raw); err != ErrInvalidToken {
		t.Errorf("Verify() without identity claims = %v, want ErrInvalidToken", err)
	}
}

func TestVerifyRejectsUnsignedAlgorithm(t *testing.T) {
	claims := jwt.MapClaims{
		"id":   float64(7),
		"role": "admin",
		"exp":  time.Now().Add(time.Hour).Unix(),
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := NewIssuer(testSecret, time.Hour).Verify(raw); err != ErrInvalidToken {
		t.Errorf("Verify() of alg=none token = %v, want ErrInvalidToken", err)
	}
}
