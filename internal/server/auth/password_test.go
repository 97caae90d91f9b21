package auth

import (
	"strings"
	"testing"
)

func TestHashAndVerify_RoundTrip(t *testing.T) {
	t.Parallel()

	salt, err := CreateSalt()
	if err != nil {
		t.Fatalf("CreateSalt error: %v", err)
	}

	stored := HashPassword("s3cret", salt)

	if !strings.HasPrefix(stored, salt+"$") {
		t.Fatalf("digest %q does not embed salt %q", stored, salt)
	}
	if !VerifyPassword("s3cret", stored) {
		t.Fatalf("VerifyPassword rejected correct password")
	}
	if VerifyPassword("wrong", stored) {
		t.Fatalf("VerifyPassword accepted wrong password")
	}
}

func TestHashPassword_Deterministic(t *testing.T) {
	t.Parallel()

	a := HashPassword("pw", "fixedsalt")
	b := HashPassword("pw", "fixedsalt")
	if a != b {
		t.Fatalf("same password+salt produced different digests: %q vs %q", a, b)
	}

	c := HashPassword("pw", "othersalt")
	if a == c {
		t.Fatalf("different salts produced identical digests")
	}
}

func TestVerifyPassword_MalformedDigest(t *testing.T) {
	t.Parallel()

	if VerifyPassword("pw", "no-delimiter-here") {
		t.Fatalf("VerifyPassword accepted digest without salt delimiter")
	}
	if VerifyPassword("pw", "") {
		t.Fatalf("VerifyPassword accepted empty digest")
	}
}

func TestCreateSalt_Unique(t *testing.T) {
	t.Parallel()

	seen := make(map[string]struct{}, 10000)
	for i := 0; i < 10000; i++ {
		s, err := CreateSalt()
		if err != nil {
			t.Fatalf("CreateSalt error: %v", err)
		}
		if _, dup := seen[s]; dup {
			t.Fatalf("duplicate salt after %d iterations: %q", i, s)
		}
		seen[s] = struct{}{}
	}
}
