package password_test

import (
	"strings"
	"testing"

	"github.com/dropDatabas3/backoffice/internal/security/password"
)

func TestHashAndVerify(t *testing.T) {
	phc, err := password.HashDefault("hunter2!")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(phc, "$argon2id$") {
		t.Fatalf("phc = %q, want $argon2id$ prefix", phc)
	}

	if !password.Verify("hunter2!", phc) {
		t.Fatal("correct password must verify")
	}
	if password.Verify("wrong", phc) {
		t.Fatal("wrong password must not verify")
	}
}

func TestHash_SaltsDiffer(t *testing.T) {
	a, err := password.HashDefault("same")
	if err != nil {
		t.Fatal(err)
	}
	b, err := password.HashDefault("same")
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Fatal("two hashes of the same password must differ (random salt)")
	}
}

func TestVerify_MalformedPHC(t *testing.T) {
	for _, phc := range []string{
		"",
		"not-a-hash",
		"$argon2id$v=19$m=65536,t=3,p=1$short",
		"$bcrypt$whatever",
	} {
		if password.Verify("x", phc) {
			t.Fatalf("malformed phc %q must not verify", phc)
		}
	}
}
