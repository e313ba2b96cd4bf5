package api

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/mentormatch/mentor-match-be/internal/auth"
	"github.com/mentormatch/mentor-match-be/internal/database"
	"github.com/mentormatch/mentor-match-be/internal/services"
	"github.com/stretchr/testify/assert"
)

func setupRouter(t *testing.T) *chi.Mux {
	t.Helper()
	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	tokens := auth.NewTokenService("test-secret")
	events := services.NewEventService(db)
	users := services.NewUserService(db, events)
	matches := services.NewMatchRequestService(db, events)
	return NewRouter(tokens, users, matches, []string{"http://localhost:3000"})
}

func doJSON(router http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func signupAndLogin(t *testing.T, router http.Handler, email, role string) string {
	t.Helper()
	w := doJSON(router, "POST", "/api/signup", "", map[string]string{
		"email": email, "password": "testpass", "name": email, "role": role,
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(router, "POST", "/api/login", "", map[string]string{
		"email": email, "password": "testpass",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NotEmpty(t, resp["token"])
	return resp["token"]
}

func TestSignupAndLogin(t *testing.T) {
	router := setupRouter(t)

	token := signupAndLogin(t, router, "mentor@example.com", "mentor")

	// Duplicate email is a 400 with the uniform error body.
	w := doJSON(router, "POST", "/api/signup", "", map[string]string{
		"email": "mentor@example.com", "password": "x", "name": "dup", "role": "mentee",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "detail")

	// Wrong password is 401.
	w = doJSON(router, "POST", "/api/login", "", map[string]string{
		"email": "mentor@example.com", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "incorrect email or password")

	// /api/me round-trips the identity from the token.
	w = doJSON(router, "GET", "/api/me", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var me struct {
		Email string `json:"email"`
		Role  string `json:"role"`
	}
	json.Unmarshal(w.Body.Bytes(), &me)
	assert.Equal(t, "mentor@example.com", me.Email)
	assert.Equal(t, "mentor", me.Role)

	// No token, no entry.
	w = doJSON(router, "GET", "/api/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMentorListRoleGate(t *testing.T) {
	router := setupRouter(t)
	mentorToken := signupAndLogin(t, router, "mentor@example.com", "mentor")
	menteeToken := signupAndLogin(t, router, "mentee@example.com", "mentee")

	w := doJSON(router, "GET", "/api/mentors", mentorToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(router, "GET", "/api/mentors?order_by=name", menteeToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestProfileImageEndpoints(t *testing.T) {
	router := setupRouter(t)
	token := signupAndLogin(t, router, "mentor@example.com", "mentor")

	w := doJSON(router, "GET", "/api/me", token, nil)
	var me struct {
		ID      string `json:"id"`
		Profile struct {
			ImageURL string `json:"imageUrl"`
		} `json:"profile"`
	}
	json.Unmarshal(w.Body.Bytes(), &me)
	assert.Contains(t, me.Profile.ImageURL, "placehold.co")

	// Without a stored image the endpoint redirects to the placeholder.
	w = doJSON(router, "GET", "/api/images/mentor/"+me.ID, "", nil)
	assert.Equal(t, http.StatusTemporaryRedirect, w.Code)

	// A rejected image fails the whole update.
	bad := base64.StdEncoding.EncodeToString([]byte("junk"))
	w = doJSON(router, "PUT", "/api/profile", token, map[string]interface{}{
		"name": "New Name", "bio": "bio", "image": bad,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// A valid 500x500 PNG is stored and served back with its content type.
	var buf bytes.Buffer
	png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 500, 500)))
	good := base64.StdEncoding.EncodeToString(buf.Bytes())
	w = doJSON(router, "PUT", "/api/profile", token, map[string]interface{}{
		"name": "New Name", "bio": "bio", "image": good,
	})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, "GET", "/api/images/mentor/"+me.ID, "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
}

func TestMatchRequestFlow(t *testing.T) {
	router := setupRouter(t)
	mentorToken := signupAndLogin(t, router, "mentor@example.com", "mentor")
	menteeToken := signupAndLogin(t, router, "mentee@example.com", "mentee")

	w := doJSON(router, "GET", "/api/me", mentorToken, nil)
	var mentor struct {
		ID string `json:"id"`
	}
	json.Unmarshal(w.Body.Bytes(), &mentor)

	// Mentors cannot send match requests.
	w = doJSON(router, "POST", "/api/match-requests", mentorToken, map[string]string{
		"mentorId": mentor.ID,
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Mentee sends a request.
	w = doJSON(router, "POST", "/api/match-requests", menteeToken, map[string]string{
		"mentorId": mentor.ID, "message": "hi",
	})
	assert.Equal(t, http.StatusOK, w.Code)
	var req struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	json.Unmarshal(w.Body.Bytes(), &req)
	assert.Equal(t, "pending", req.Status)

	// Second pending request is a 400.
	w = doJSON(router, "POST", "/api/match-requests", menteeToken, map[string]string{
		"mentorId": mentor.ID,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Unknown mentor is a 400 on this endpoint.
	w = doJSON(router, "POST", "/api/match-requests", menteeToken, map[string]string{
		"mentorId": "no-such-mentor",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "mentor not found")

	// The mentor sees it incoming, the mentee outgoing.
	w = doJSON(router, "GET", "/api/match-requests/incoming", mentorToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = doJSON(router, "GET", "/api/match-requests/outgoing", menteeToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// Mentee cannot accept; mentor accepts.
	w = doJSON(router, "PUT", "/api/match-requests/"+req.ID+"/accept", menteeToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = doJSON(router, "PUT", "/api/match-requests/"+req.ID+"/accept", mentorToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// The accepted request can no longer be cancelled.
	w = doJSON(router, "DELETE", "/api/match-requests/"+req.ID, menteeToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
