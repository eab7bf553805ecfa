package utils

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword(t *testing.T) {
	const plain = "correct horse battery"
	hash, err := HashPassword(plain, bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == plain {
		t.Fatal("hash equals plaintext")
	}
	if !VerifyPassword(hash, plain) {
		t.Fatal("verify rejected the original password")
	}
	if VerifyPassword(hash, "wrong password") {
		t.Fatal("verify accepted a wrong password")
	}
}

func TestHashPasswordSalted(t *testing.T) {
	a, err := HashPassword("same-input", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	b, err := HashPassword("same-input", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if a == b {
		t.Fatal("two hashes of the same input are identical")
	}
}

func TestRandomPassword(t *testing.T) {
	a, err := RandomPassword()
	if err != nil {
		t.Fatalf("random: %v", err)
	}
	b, err := RandomPassword()
	if err != nil {
		t.Fatalf("random: %v", err)
	}
	if a == b {
		t.Fatal("two random passwords are identical")
	}
	if len(a) < 32 {
		t.Fatalf("password too short: %d chars", len(a))
	}
	if strings.ContainsAny(a, " \t\n") {
		t.Fatalf("password contains whitespace: %q", a)
	}
}
