package auth

import (
	"testing"
	"time"

	"github.com/mentormatch/mentor-match-be/internal/apperrors"
	"github.com/mentormatch/mentor-match-be/internal/models"
)

func testUser() models.User {
	return models.User{
		ID:    "user-1",
		Email: "mentor@example.com",
		Name:  "Kim",
		Role:  models.RoleMentor,
	}
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	svc := NewTokenService("test-secret")

	token, err := svc.Issue(testUser())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.UserID != "user-1" {
		t.Errorf("userId = %q, want %q", claims.UserID, "user-1")
	}
	if claims.Role != models.RoleMentor {
		t.Errorf("role = %q, want mentor", claims.Role)
	}
	if claims.Email != "mentor@example.com" {
		t.Errorf("email = %q", claims.Email)
	}
	if claims.Subject != "user-1" {
		t.Errorf("sub = %q, want user id", claims.Subject)
	}
	if claims.ID == "" {
		t.Error("jti is empty")
	}
	if exp := claims.ExpiresAt.Time; time.Until(exp) > time.Hour || time.Until(exp) < 55*time.Minute {
		t.Errorf("exp %v not ~1h out", exp)
	}
}

func TestVerifyExpiredToken(t *testing.T) {
	svc := NewTokenService("test-secret")
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, err := svc.Issue(testUser())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := svc.Verify(token); err != apperrors.ErrUnauthenticated {
		t.Fatalf("expected ErrUnauthenticated for expired token, got %v", err)
	}
}

// Every failure mode must surface as the same error value; callers learn
// nothing about which check failed.
func TestVerifyFailuresCollapse(t *testing.T) {
	svc := NewTokenService("test-secret")
	good, err := svc.Issue(testUser())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	otherKey := NewTokenService("another-secret")
	forged, err := otherKey.Issue(testUser())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	for name, token := range map[string]string{
		"malformed":     "not.a.token",
		"empty":         "",
		"bad signature": forged,
		"truncated":     good[:len(good)-4],
	} {
		if _, err := svc.Verify(token); err != apperrors.ErrUnauthenticated {
			t.Errorf("%s: expected ErrUnauthenticated, got %v", name, err)
		}
	}
}
