package auth

import (
	"errors"
	"testing"
	"time"
)

func TestJWTer_RoundTrip(t *testing.T) {
	j := &JWTer{Secret: []byte("secret"), Issuer: "users-api", TTL: time.Hour}
	tok, err := j.Issue("admin", "admin")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	c, err := j.Parse(tok)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if c.UID != "admin" || c.Role != "admin" || c.Issuer != "users-api" {
		t.Fatalf("claims = %+v", c)
	}
}

func TestJWTer_Rejects(t *testing.T) {
	j := &JWTer{Secret: []byte("secret"), Issuer: "users-api", TTL: time.Hour}

	other := &JWTer{Secret: []byte("other"), Issuer: "users-api", TTL: time.Hour}
	forged, _ := other.Issue("admin", "admin")
	if _, err := j.Parse(forged); err == nil {
		t.Fatal("token signed with another key must be rejected")
	}

	wrongIss := &JWTer{Secret: []byte("secret"), Issuer: "someone-else", TTL: time.Hour}
	tok, _ := wrongIss.Issue("admin", "admin")
	if _, err := j.Parse(tok); err == nil {
		t.Fatal("token from another issuer must be rejected")
	}

	expired := &JWTer{Secret: []byte("secret"), Issuer: "users-api", TTL: -2 * time.Minute}
	tok, _ = expired.Issue("admin", "admin")
	if _, err := j.Parse(tok); err == nil {
		t.Fatal("expired token must be rejected (beyond leeway)")
	}

	if _, err := (&JWTer{}).Issue("a", "b"); err == nil {
		t.Fatal("empty secret must fail")
	}
}

func TestJWTer_ErrorKinds(t *testing.T) {
	j := &JWTer{Secret: []byte("secret"), Issuer: "users-api", TTL: time.Hour}
	if _, err := j.Parse("not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("garbage: %v", err)
	}
	if _, err := (&JWTer{}).Parse("x"); !errors.Is(err, ErrNoSecret) {
		t.Fatalf("no secret: %v", err)
	}
	tok, _ := j.Issue("root", "admin")
	c, err := j.Parse(tok)
	if err != nil || c.Subject != "root" {
		t.Fatalf("subject = %+v, %v", c, err)
	}
}
