package services

import (
	"database/sql"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/mentormatch/mentor-match-be/internal/apperrors"
	"github.com/mentormatch/mentor-match-be/internal/imaging"
	"github.com/mentormatch/mentor-match-be/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	CreateUser(email, password, name string, role models.Role) (models.User, error)
	AuthenticateUser(email, password string) (models.User, error)
	GetUserByID(id string) (models.User, error)
	UpdateProfile(id, name, bio string, imagePayload *string, skills []string) (models.User, error)
	ListMentors(skill, orderBy string) ([]models.User, error)
	GetProfileImage(id string) ([]byte, string, error)
}

// UserService provides business logic for user management.
type UserService struct {
	db     *sql.DB
	events EventServiceProvider
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB, events EventServiceProvider) *UserService {
	return &UserService{db: db, events: events}
}

const userColumns = "id, email, role, name, bio, skills_json, profile_image IS NOT NULL, profile_image_mime, created_at"

// scanUser is a helper to scan a user from a row or rows object.
func scanUser(scanner interface{ Scan(...interface{}) error }) (models.User, error) {
	var user models.User
	var name, bio, skills, mime sql.NullString

	err := scanner.Scan(&user.ID, &user.Email, &user.Role, &name, &bio, &skills, &user.HasImage, &mime, &user.CreatedAt)
	if err != nil {
		return user, err
	}

	user.Name = name.String
	user.Bio = bio.String
	user.SkillsJSON = skills.String
	user.ImageMime = mime.String
	user.PrepareForAPI()
	return user, nil
}

// CreateUser registers a new account, hashing the password. The email and
// role are fixed for the lifetime of the account.
func (s *UserService) CreateUser(email, password, name string, role models.Role) (models.User, error) {
	if !role.Valid() {
		return models.User{}, apperrors.Validation("role must be mentor or mentee")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hashedPassword),
		Role:         role,
		Name:         name,
	}

	tx, err := s.db.Begin()
	if err != nil {
		return models.User{}, err
	}
	defer tx.Rollback()

	var exists bool
	if err := tx.QueryRow("SELECT EXISTS(SELECT 1 FROM users WHERE email = ?)", email).Scan(&exists); err != nil {
		return models.User{}, err
	}
	if exists {
		return models.User{}, apperrors.Conflict("email already registered")
	}

	_, err = tx.Exec("INSERT INTO users(id, email, password_hash, role, name) VALUES(?, ?, ?, ?, ?)",
		user.ID, user.Email, user.PasswordHash, user.Role, user.Name)
	if err != nil {
		return models.User{}, err
	}
	if err := tx.Commit(); err != nil {
		return models.User{}, err
	}

	s.events.CreateEvent("user.signup", "info", fmt.Sprintf("New %s account registered.", user.Role), &user.ID)

	// Return user without password hash
	user.PasswordHash = ""
	return user, nil
}

// AuthenticateUser verifies a user's credentials. Unknown emails and wrong
// passwords fail with the identical error so neither case is detectable.
func (s *UserService) AuthenticateUser(email, password string) (models.User, error) {
	row := s.db.QueryRow("SELECT "+userColumns+", password_hash FROM users WHERE email = ?", email)

	var user models.User
	var name, bio, skills, mime sql.NullString
	err := row.Scan(&user.ID, &user.Email, &user.Role, &name, &bio, &skills, &user.HasImage, &mime, &user.CreatedAt, &user.PasswordHash)
	if err != nil {
		return models.User{}, apperrors.ErrBadCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return models.User{}, apperrors.ErrBadCredentials
	}

	user.Name = name.String
	user.Bio = bio.String
	user.SkillsJSON = skills.String
	user.ImageMime = mime.String
	user.PrepareForAPI()

	// Don't send the password hash to the client
	user.PasswordHash = ""
	return user, nil
}

// GetUserByID retrieves a single user by their ID.
func (s *UserService) GetUserByID(id string) (models.User, error) {
	row := s.db.QueryRow("SELECT "+userColumns+" FROM users WHERE id = ?", id)
	user, err := scanUser(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, apperrors.NotFound("user not found")
		}
		return models.User{}, err
	}
	return user, nil
}

// UpdateProfile overwrites name and bio, and conditionally the image and
// skill list. The image is validated before anything is written, so a
// rejected image leaves the whole profile untouched. Skills supplied by
// mentees are ignored, not errored.
func (s *UserService) UpdateProfile(id, name, bio string, imagePayload *string, skills []string) (models.User, error) {
	user, err := s.GetUserByID(id)
	if err != nil {
		return models.User{}, err
	}

	var imageData []byte
	var imageMime string
	if imagePayload != nil {
		imageData, imageMime, err = imaging.Validate(*imagePayload)
		if err != nil {
			return models.User{}, err
		}
	}

	query := "UPDATE users SET name = ?, bio = ?, updated_at = CURRENT_TIMESTAMP"
	args := []interface{}{name, bio}

	if imageData != nil {
		query += ", profile_image = ?, profile_image_mime = ?"
		args = append(args, imageData, imageMime)
	}
	if user.Role == models.RoleMentor && skills != nil {
		user.Skills = skills
		user.PrepareForSave()
		query += ", skills_json = ?"
		args = append(args, user.SkillsJSON)
	}
	query += " WHERE id = ?"
	args = append(args, id)

	if _, err := s.db.Exec(query, args...); err != nil {
		return models.User{}, err
	}

	s.events.CreateEvent("profile.update", "info", "Profile updated.", &id)
	return s.GetUserByID(id)
}

// ListMentors returns all mentor accounts, optionally filtered by an exact
// skill token and ordered by name, raw skill text, or id.
func (s *UserService) ListMentors(skill, orderBy string) ([]models.User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE role = ?"
	switch orderBy {
	case "name":
		query += " ORDER BY name"
	case "skill":
		query += " ORDER BY skills_json"
	default:
		// Unknown order_by values fall back to id ordering, not an error.
		query += " ORDER BY id"
	}

	rows, err := s.db.Query(query, models.RoleMentor)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var mentors []models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		// Exact-token match against the decoded skill list; "Python" must
		// not match a mentor whose only skill is "PythonExpert".
		if skill != "" && !slices.Contains(user.Skills, skill) {
			continue
		}
		mentors = append(mentors, user)
	}
	return mentors, rows.Err()
}

// GetProfileImage returns the stored image bytes and content type for a
// user, or NotFound when the user does not exist or has no image.
func (s *UserService) GetProfileImage(id string) ([]byte, string, error) {
	var data []byte
	var mime sql.NullString
	row := s.db.QueryRow("SELECT profile_image, profile_image_mime FROM users WHERE id = ?", id)
	if err := row.Scan(&data, &mime); err != nil {
		if err == sql.ErrNoRows {
			return nil, "", apperrors.NotFound("user not found")
		}
		return nil, "", err
	}
	if len(data) == 0 {
		return nil, "", apperrors.NotFound("no profile image stored")
	}
	contentType := mime.String
	if contentType == "" {
		contentType = "image/jpeg"
	}
	return data, contentType, nil
}
