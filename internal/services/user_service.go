package services

import (
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/notewise/notewise-be/internal/apperrors"
	"github.com/notewise/notewise-be/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	GetUserByID(id string) (models.User, error)
	CreateUser(name, email, password string) (models.User, error)
	AuthenticateUser(email, password string) (models.User, error)
	UpdateProfile(id string, update ProfileUpdate) (models.User, error)
}

// ProfileUpdate carries the optional fields of a profile change. The
// password is rehashed only when it is present here.
type ProfileUpdate struct {
	Name     string
	Email    string
	Password string
}

// UserService provides business logic for user accounts.
type UserService struct {
	db *sql.DB
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB) *UserService {
	return &UserService{db: db}
}

// GetUserByID retrieves a single user by their ID. The password hash is
// never included.
func (s *UserService) GetUserByID(id string) (models.User, error) {
	var user models.User
	row := s.db.QueryRow("SELECT id, name, email, created_at FROM users WHERE id = ?", id)
	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, apperrors.NotFound("user not found")
		}
		return models.User{}, err
	}
	return user, nil
}

// GetUserByEmail retrieves a single user by their email, including the
// password hash. Only the authentication path should use this.
func (s *UserService) GetUserByEmail(email string) (models.User, error) {
	var user models.User
	row := s.db.QueryRow("SELECT id, name, email, password_hash, created_at FROM users WHERE email = ?", models.NormalizeEmail(email))
	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, apperrors.NotFound("user not found")
		}
		return models.User{}, err
	}
	return user, nil
}

// CreateUser validates the registration fields, hashes the password and
// stores the new account.
func (s *UserService) CreateUser(name, email, password string) (models.User, error) {
	if err := models.ValidateRegistration(name, email, password); err != nil {
		return models.User{}, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, apperrors.Internal(err)
	}

	user := models.User{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(name),
		Email:        models.NormalizeEmail(email),
		PasswordHash: string(hashedPassword),
		CreatedAt:    time.Now().UTC(),
	}

	stmt, err := s.db.Prepare("INSERT INTO users(id, name, email, password_hash, created_at) VALUES(?, ?, ?, ?, ?)")
	if err != nil {
		return models.User{}, err
	}
	defer stmt.Close()

	_, err = stmt.Exec(user.ID, user.Name, user.Email, user.PasswordHash, user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, apperrors.Duplicate("email already registered")
		}
		return models.User{}, err
	}

	// Return user without password hash
	user.PasswordHash = ""
	return user, nil
}

// AuthenticateUser verifies a user's credentials.
func (s *UserService) AuthenticateUser(email, password string) (models.User, error) {
	user, err := s.GetUserByEmail(email)
	if err != nil {
		return models.User{}, apperrors.Unauthenticated("invalid email or password")
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	if err != nil {
		return models.User{}, apperrors.Unauthenticated("invalid email or password")
	}

	// Don't send the password hash to the client
	user.PasswordHash = ""
	return user, nil
}

// UpdateProfile applies the non-empty fields of update to the user. The
// whole payload is validated before any row is touched, so a rejected
// update persists nothing. The password hash is recomputed only when a new
// password is supplied.
func (s *UserService) UpdateProfile(id string, update ProfileUpdate) (models.User, error) {
	var user models.User
	row := s.db.QueryRow("SELECT id, name, email, password_hash, created_at FROM users WHERE id = ?", id)
	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, apperrors.NotFound("user not found")
		}
		return models.User{}, err
	}

	if update.Name != "" {
		user.Name = strings.TrimSpace(update.Name)
	}
	if update.Email != "" {
		if err := models.ValidateEmail(update.Email); err != nil {
			return models.User{}, err
		}
		user.Email = models.NormalizeEmail(update.Email)
	}
	if update.Password != "" {
		if err := models.ValidatePassword(update.Password); err != nil {
			return models.User{}, err
		}
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(update.Password), bcrypt.DefaultCost)
		if err != nil {
			return models.User{}, apperrors.Internal(err)
		}
		user.PasswordHash = string(hashedPassword)
	}

	// A single statement keeps the update all-or-nothing
	_, err = s.db.Exec("UPDATE users SET name = ?, email = ?, password_hash = ? WHERE id = ?",
		user.Name, user.Email, user.PasswordHash, id)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, apperrors.Duplicate("email already registered")
		}
		return models.User{}, err
	}

	user.PasswordHash = ""
	return user, nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
