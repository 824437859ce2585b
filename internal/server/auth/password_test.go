package auth

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("correct horse")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if hash == "correct horse" {
		t.Fatalf("hash must not equal the plaintext")
	}

	if !CheckPassword(hash, "correct horse") {
		t.Fatalf("expected match for correct password")
	}
	if CheckPassword(hash, "wrong") {
		t.Fatalf("unexpected match for wrong password")
	}
}

func TestCheckPassword_GarbageHash(t *testing.T) {
	t.Parallel()

	if CheckPassword("not-a-bcrypt-hash", "anything") {
		t.Fatalf("garbage hash must never match")
	}
}

func TestHashPassword_DistinctSalts(t *testing.T) {
	t.Parallel()

	h1, err := HashPassword("pw")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	h2, err := HashPassword("pw")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if h1 == h2 {
		t.Fatalf("two hashes of the same password should differ (random salt)")
	}
}
