package security

import (
	"testing"
	"time"
)

func TestIssueAndParseStaffToken(t *testing.T) {
	tok, err := IssueStaffToken("secret", "alice", time.Minute)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	claims, err := ParseStaffToken("secret", tok)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if claims.Subject != "alice" || claims.Role != StaffRole {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestParseStaffTokenRejectsWrongSecret(t *testing.T) {
	tok, err := IssueStaffToken("secret", "alice", time.Minute)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if _, err := ParseStaffToken("other", tok); err == nil {
		t.Fatal("expected an error for a token signed with a different secret")
	}
}

func TestParseStaffTokenRejectsExpired(t *testing.T) {
	tok, err := IssueStaffToken("secret", "alice", -time.Minute)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if _, err := ParseStaffToken("secret", tok); err == nil {
		t.Fatal("expected an error for an expired token")
	}
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret", 4)
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if !ComparePassword(hash, "s3cret") {
		t.Fatal("expected matching password to compare true")
	}
	if ComparePassword(hash, "wrong") {
		t.Fatal("expected non-matching password to compare false")
	}
}
