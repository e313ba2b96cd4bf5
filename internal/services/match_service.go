package services

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/mentormatch/mentor-match-be/internal/apperrors"
	"github.com/mentormatch/mentor-match-be/internal/models"
)

// MatchRequestServiceProvider defines the interface for the match request engine.
type MatchRequestServiceProvider interface {
	Create(menteeID, mentorID, message string) (models.MatchRequest, error)
	ListIncoming(mentorID string) ([]models.MatchRequest, error)
	ListOutgoing(menteeID string) ([]models.MatchRequest, error)
	Accept(requestID, mentorID string) (models.MatchRequest, error)
	Reject(requestID, mentorID string) (models.MatchRequest, error)
	Cancel(requestID, menteeID string) (models.MatchRequest, error)
}

// MatchRequestService enforces the match request lifecycle: requests are
// created pending and move exactly once to accepted, rejected or cancelled.
// A mentee holds at most one pending request; a mentor holds at most one
// accepted request. Both invariants are enforced inside a transaction so
// concurrent calls cannot both pass the check.
type MatchRequestService struct {
	db     *sql.DB
	events EventServiceProvider
}

// NewMatchRequestService creates a new MatchRequestService.
func NewMatchRequestService(db *sql.DB, events EventServiceProvider) *MatchRequestService {
	return &MatchRequestService{db: db, events: events}
}

const requestColumns = "id, mentor_id, mentee_id, message, status, created_at, updated_at"

// scanRequest is a helper to scan a match request from a row or rows object.
func scanRequest(scanner interface{ Scan(...interface{}) error }) (models.MatchRequest, error) {
	var req models.MatchRequest
	var message sql.NullString
	err := scanner.Scan(&req.ID, &req.MentorID, &req.MenteeID, &message, &req.Status, &req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		return req, err
	}
	req.Message = message.String
	return req, nil
}

// Create opens a new pending request from a mentee to a mentor. The mentor
// lookup and the one-pending-per-mentee check run in the same transaction
// as the insert. A target that is missing or not a mentor yields the same
// "mentor not found" failure.
func (s *MatchRequestService) Create(menteeID, mentorID, message string) (models.MatchRequest, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return models.MatchRequest{}, err
	}
	defer tx.Rollback()

	var mentorExists bool
	err = tx.QueryRow("SELECT EXISTS(SELECT 1 FROM users WHERE id = ? AND role = ?)", mentorID, models.RoleMentor).Scan(&mentorExists)
	if err != nil {
		return models.MatchRequest{}, err
	}
	if !mentorExists {
		return models.MatchRequest{}, apperrors.NotFound("mentor not found")
	}

	var hasPending bool
	err = tx.QueryRow("SELECT EXISTS(SELECT 1 FROM match_requests WHERE mentee_id = ? AND status = ?)", menteeID, models.StatusPending).Scan(&hasPending)
	if err != nil {
		return models.MatchRequest{}, err
	}
	if hasPending {
		return models.MatchRequest{}, apperrors.Conflict("you already have a pending request")
	}

	id := uuid.New().String()
	_, err = tx.Exec("INSERT INTO match_requests(id, mentor_id, mentee_id, message, status) VALUES(?, ?, ?, ?, ?)",
		id, mentorID, menteeID, message, models.StatusPending)
	if err != nil {
		return models.MatchRequest{}, err
	}

	req, err := scanRequest(tx.QueryRow("SELECT "+requestColumns+" FROM match_requests WHERE id = ?", id))
	if err != nil {
		return models.MatchRequest{}, err
	}
	if err := tx.Commit(); err != nil {
		return models.MatchRequest{}, err
	}

	s.events.CreateEvent("match.create", "info", fmt.Sprintf("Match request sent to mentor %s.", mentorID), &menteeID)
	return req, nil
}

// ListIncoming retrieves all requests targeting a mentor, in creation order.
func (s *MatchRequestService) ListIncoming(mentorID string) ([]models.MatchRequest, error) {
	return s.list("mentor_id", mentorID)
}

// ListOutgoing retrieves all requests originated by a mentee, in creation order.
func (s *MatchRequestService) ListOutgoing(menteeID string) ([]models.MatchRequest, error) {
	return s.list("mentee_id", menteeID)
}

func (s *MatchRequestService) list(ownerColumn, ownerID string) ([]models.MatchRequest, error) {
	rows, err := s.db.Query("SELECT "+requestColumns+" FROM match_requests WHERE "+ownerColumn+" = ? ORDER BY created_at, id", ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []models.MatchRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}

// Accept moves a pending request to accepted. The mentor may hold at most
// one accepted request, checked in the same transaction as the update.
func (s *MatchRequestService) Accept(requestID, mentorID string) (models.MatchRequest, error) {
	req, err := s.transition(requestID, "mentor_id", mentorID, models.StatusAccepted, func(tx *sql.Tx) error {
		var hasAccepted bool
		err := tx.QueryRow("SELECT EXISTS(SELECT 1 FROM match_requests WHERE mentor_id = ? AND status = ?)", mentorID, models.StatusAccepted).Scan(&hasAccepted)
		if err != nil {
			return err
		}
		if hasAccepted {
			return apperrors.Conflict("you already have an accepted mentee")
		}
		return nil
	})
	if err != nil {
		return models.MatchRequest{}, err
	}
	// Other pending requests from the same mentee stay pending; only an
	// explicit reject or cancel moves them.
	s.events.CreateEvent("match.accept", "info", fmt.Sprintf("Match request %s accepted.", requestID), &mentorID)
	return req, nil
}

// Reject moves a pending request to rejected.
func (s *MatchRequestService) Reject(requestID, mentorID string) (models.MatchRequest, error) {
	req, err := s.transition(requestID, "mentor_id", mentorID, models.StatusRejected, nil)
	if err != nil {
		return models.MatchRequest{}, err
	}
	s.events.CreateEvent("match.reject", "info", fmt.Sprintf("Match request %s rejected.", requestID), &mentorID)
	return req, nil
}

// Cancel moves a pending request to cancelled. Ownership is keyed on the
// mentee side. A mentee who wants to retry afterwards creates a new
// request; the cancelled record is never reused.
func (s *MatchRequestService) Cancel(requestID, menteeID string) (models.MatchRequest, error) {
	req, err := s.transition(requestID, "mentee_id", menteeID, models.StatusCancelled, nil)
	if err != nil {
		return models.MatchRequest{}, err
	}
	s.events.CreateEvent("match.cancel", "info", fmt.Sprintf("Match request %s cancelled.", requestID), &menteeID)
	return req, nil
}

// transition loads a request owned by ownerID, refuses to leave a terminal
// state, runs the extra precondition if any, and writes the new status.
// A request that does not exist and a request owned by someone else are
// indistinguishable to the caller.
func (s *MatchRequestService) transition(requestID, ownerColumn, ownerID string, next models.RequestStatus, precondition func(*sql.Tx) error) (models.MatchRequest, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return models.MatchRequest{}, err
	}
	defer tx.Rollback()

	req, err := scanRequest(tx.QueryRow("SELECT "+requestColumns+" FROM match_requests WHERE id = ? AND "+ownerColumn+" = ?", requestID, ownerID))
	if err != nil {
		if err == sql.ErrNoRows {
			return models.MatchRequest{}, apperrors.NotFound("match request not found")
		}
		return models.MatchRequest{}, err
	}

	switch req.Status {
	case models.StatusPending:
		// the only state a transition may leave
	case models.StatusAccepted, models.StatusRejected, models.StatusCancelled:
		return models.MatchRequest{}, apperrors.Conflict("match request is no longer pending")
	}

	if precondition != nil {
		if err := precondition(tx); err != nil {
			return models.MatchRequest{}, err
		}
	}

	_, err = tx.Exec("UPDATE match_requests SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?", next, requestID)
	if err != nil {
		return models.MatchRequest{}, err
	}
	if err := tx.Commit(); err != nil {
		return models.MatchRequest{}, err
	}

	req.Status = next
	return req, nil
}
