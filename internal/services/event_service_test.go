package services

import (
	"testing"

	"github.com/mentormatch/mentor-match-be/internal/models"
)

func TestAuditTrailRecordsActivity(t *testing.T) {
	db := newTestDB(t)
	events := NewEventService(db)
	users := NewUserService(db, events)
	matches := NewMatchRequestService(db, events)

	mentor, err := users.CreateUser("mentor@example.com", "pw", "M", models.RoleMentor)
	if err != nil {
		t.Fatalf("create mentor: %v", err)
	}
	mentee, err := users.CreateUser("mentee@example.com", "pw", "E", models.RoleMentee)
	if err != nil {
		t.Fatalf("create mentee: %v", err)
	}
	req, err := matches.Create(mentee.ID, mentor.ID, "hi")
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	if _, err := matches.Accept(req.ID, mentor.ID); err != nil {
		t.Fatalf("accept: %v", err)
	}

	recent, err := events.GetRecentEvents(10)
	if err != nil {
		t.Fatalf("recent events: %v", err)
	}

	seen := map[string]bool{}
	for _, e := range recent {
		seen[e.Type] = true
	}
	for _, want := range []string{"user.signup", "match.create", "match.accept"} {
		if !seen[want] {
			t.Errorf("missing %s event in audit trail (got %v)", want, seen)
		}
	}
}
