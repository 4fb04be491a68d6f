package services

import (
	"database/sql"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/notewise/notewise-be/internal/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/notewise/notewise-be/internal/database"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { db.Close() })
	return db
}

func TestCreateUser_HashesAndSanitizes(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)

	user, err := svc.CreateUser("Ann", "Ann@X.com", "secret1")
	require.NoError(t, err)

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "Ann", user.Name)
	assert.Equal(t, "ann@x.com", user.Email, "email is stored lowercased")
	assert.Empty(t, user.PasswordHash, "hash never leaves the store")
	assert.False(t, user.CreatedAt.IsZero())

	var storedHash string
	require.NoError(t, db.QueryRow("SELECT password_hash FROM users WHERE id = ?", user.ID).Scan(&storedHash))
	assert.NotEqual(t, "secret1", storedHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(storedHash), []byte("secret1")))
}

func TestCreateUser_SamePasswordDifferentHashes(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)

	a, err := svc.CreateUser("A", "a@x.com", "samepass")
	require.NoError(t, err)
	b, err := svc.CreateUser("B", "b@x.com", "samepass")
	require.NoError(t, err)

	var hashA, hashB string
	require.NoError(t, db.QueryRow("SELECT password_hash FROM users WHERE id = ?", a.ID).Scan(&hashA))
	require.NoError(t, db.QueryRow("SELECT password_hash FROM users WHERE id = ?", b.ID).Scan(&hashB))
	assert.NotEqual(t, hashA, hashB, "salting must make identical passwords hash differently")
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)

	_, err := svc.CreateUser("Ann", "ann@x.com", "secret1")
	require.NoError(t, err)

	_, err = svc.CreateUser("Other Ann", "Ann@x.com", "secret2")
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, apperrors.StatusOf(err))
}

func TestCreateUser_Validation(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)

	cases := []struct {
		name     string
		userName string
		email    string
		password string
	}{
		{"empty name", "  ", "ann@x.com", "secret1"},
		{"bad email", "Ann", "not-an-email", "secret1"},
		{"short password", "Ann", "ann@x.com", "12345"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateUser(tc.userName, tc.email, tc.password)
			require.Error(t, err)
			assert.Equal(t, http.StatusBadRequest, apperrors.StatusOf(err))
		})
	}

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count))
	assert.Zero(t, count, "invalid registrations must not persist")
}

func TestAuthenticateUser(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)

	created, err := svc.CreateUser("Ann", "ann@x.com", "secret1")
	require.NoError(t, err)

	user, err := svc.AuthenticateUser("ann@x.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)
	assert.Empty(t, user.PasswordHash)

	_, err = svc.AuthenticateUser("ann@x.com", "wrongpass")
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, apperrors.StatusOf(err))

	_, err = svc.AuthenticateUser("nobody@x.com", "secret1")
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, apperrors.StatusOf(err))
}

func TestUpdateProfile_RehashOnlyOnPasswordChange(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)

	user, err := svc.CreateUser("Ann", "ann@x.com", "secret1")
	require.NoError(t, err)

	var hashBefore string
	require.NoError(t, db.QueryRow("SELECT password_hash FROM users WHERE id = ?", user.ID).Scan(&hashBefore))

	// Name-only update must leave the hash untouched
	updated, err := svc.UpdateProfile(user.ID, ProfileUpdate{Name: "Annie"})
	require.NoError(t, err)
	assert.Equal(t, "Annie", updated.Name)

	var hashAfter string
	require.NoError(t, db.QueryRow("SELECT password_hash FROM users WHERE id = ?", user.ID).Scan(&hashAfter))
	assert.Equal(t, hashBefore, hashAfter)

	// Password update recomputes the hash
	_, err = svc.UpdateProfile(user.ID, ProfileUpdate{Password: "newsecret"})
	require.NoError(t, err)

	require.NoError(t, db.QueryRow("SELECT password_hash FROM users WHERE id = ?", user.ID).Scan(&hashAfter))
	assert.NotEqual(t, hashBefore, hashAfter)

	_, err = svc.AuthenticateUser("ann@x.com", "secret1")
	assert.Error(t, err, "old password no longer works")
	_, err = svc.AuthenticateUser("ann@x.com", "newsecret")
	assert.NoError(t, err)
}

func TestUpdateProfile_RejectedUpdateIsAllOrNothing(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)

	user, err := svc.CreateUser("Ann", "ann@x.com", "secret1")
	require.NoError(t, err)

	// A valid name combined with an invalid email must change nothing
	_, err = svc.UpdateProfile(user.ID, ProfileUpdate{Name: "Hijacked", Email: "not-an-email"})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperrors.StatusOf(err))

	got, err := svc.GetUserByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ann", got.Name, "a rejected update must leave no partial state")
	assert.Equal(t, "ann@x.com", got.Email)

	// Same with a valid email combined with a short password
	var hashBefore string
	require.NoError(t, db.QueryRow("SELECT password_hash FROM users WHERE id = ?", user.ID).Scan(&hashBefore))

	_, err = svc.UpdateProfile(user.ID, ProfileUpdate{Email: "annie@x.com", Password: "123"})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperrors.StatusOf(err))

	got, err = svc.GetUserByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "ann@x.com", got.Email)

	var hashAfter string
	require.NoError(t, db.QueryRow("SELECT password_hash FROM users WHERE id = ?", user.ID).Scan(&hashAfter))
	assert.Equal(t, hashBefore, hashAfter)
}

func TestUpdateProfile_EmailChecks(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)

	user, err := svc.CreateUser("Ann", "ann@x.com", "secret1")
	require.NoError(t, err)
	_, err = svc.CreateUser("Bob", "bob@x.com", "secret2")
	require.NoError(t, err)

	_, err = svc.UpdateProfile(user.ID, ProfileUpdate{Email: "not-an-email"})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperrors.StatusOf(err))

	_, err = svc.UpdateProfile(user.ID, ProfileUpdate{Email: "bob@x.com"})
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, apperrors.StatusOf(err))

	updated, err := svc.UpdateProfile(user.ID, ProfileUpdate{Email: "Annie@X.com"})
	require.NoError(t, err)
	assert.Equal(t, "annie@x.com", updated.Email)
}
