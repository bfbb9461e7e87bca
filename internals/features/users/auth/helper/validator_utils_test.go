package helpers

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestValidatePasswordStrength(t *testing.T) {
	tests := map[string]bool{
		"short1":          false,
		"onlyletters":     false,
		"1234567890":      false,
		"rahasia123":      true,
		"Adm1nPassword!!": true,
	}
	for pw, ok := range tests {
		err := ValidatePasswordStrength(pw)
		if (err == nil) != ok {
			t.Errorf("ValidatePasswordStrength(%q) err=%v, want ok=%v", pw, err, ok)
		}
	}
}

func TestHashAndCheck(t *testing.T) {
	hash, err := HashPassword("rahasia123", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if err := CheckPasswordHash(hash, "rahasia123"); err != nil {
		t.Fatalf("check: %v", err)
	}
	if err := CheckPasswordHash(hash, "salah123"); err == nil {
		t.Fatal("wrong password accepted")
	}
}
