package identity

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestBearerToken(t *testing.T) {
	cases := []struct {
		header  string
		want    string
		wantErr bool
	}{
		{"Bearer abc.def", "abc.def", false},
		{"bearer abc", "abc", false},
		{"Bearer ", "", true},
		{"Basic abc", "", true},
		{"", "", true},
	}
	for _, c := range cases {
		got, err := BearerToken(c.header)
		if (err != nil) != c.wantErr {
			t.Errorf("%q: unexpected error state: %v", c.header, err)
		}
		if got != c.want {
			t.Errorf("%q: expected %q, got %q", c.header, c.want, got)
		}
	}
}

func TestDisplayName(t *testing.T) {
	id := Identity{Email: "jane.doe@example.com"}
	if got := id.DisplayName(); got != "jane.doe" {
		t.Errorf("expected email prefix, got %q", got)
	}
	id.Name = "Jane"
	if got := id.DisplayName(); got != "Jane" {
		t.Errorf("expected Jane, got %q", got)
	}
}

func TestJWTVerifier_IssueAndVerify(t *testing.T) {
	v, err := NewJWTVerifier("test-secret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	token, err := v.Issue(Identity{Subject: "uid-1", Email: "Ann@Example.com", Name: "Ann"}, time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	id, err := v.Verify(context.Background(), token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if id.Subject != "uid-1" || id.Email != "ann@example.com" || id.Name != "Ann" {
		t.Errorf("unexpected identity: %+v", id)
	}
}

func TestJWTVerifier_RejectsForeignSignature(t *testing.T) {
	issuer, _ := NewJWTVerifier("secret-a")
	verifier, _ := NewJWTVerifier("secret-b")

	token, _ := issuer.Issue(Identity{Subject: "uid-1"}, time.Hour)
	if _, err := verifier.Verify(context.Background(), token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestJWTVerifier_RejectsExpired(t *testing.T) {
	v, _ := NewJWTVerifier("test-secret")

	token, _ := v.Issue(Identity{Subject: "uid-1"}, -time.Minute)
	if _, err := v.Verify(context.Background(), token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestNewJWTVerifier_RequiresSecret(t *testing.T) {
	if _, err := NewJWTVerifier(""); err == nil {
		t.Error("expected error for empty secret")
	}
}
