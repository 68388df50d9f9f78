package services_test

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/creatorhq/creator-api/internal/logger"
	"github.com/creatorhq/creator-api/internal/models"
	"github.com/creatorhq/creator-api/internal/services"
	"github.com/creatorhq/creator-api/internal/types"
)

func nullString(s string) *sql.NullString {
	return &sql.NullString{String: s, Valid: true}
}

func TestUpsertUserIdempotent(t *testing.T) {
	db := setupTestDB(t)
	log := logger.Nop()

	first := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	if err := services.UpsertUser(db, log, "", services.UserUpsert{
		OpenID:       "open-1",
		Name:         nullString("Casey"),
		Email:        nullString("casey@example.com"),
		LoginMethod:  nullString("google"),
		LastSignedIn: &first,
	}); err != nil {
		t.Fatalf("UpsertUser() error = %v", err)
	}

	second := first.Add(48 * time.Hour)
	if err := services.UpsertUser(db, log, "", services.UserUpsert{
		OpenID:       "open-1",
		LastSignedIn: &second,
	}); err != nil {
		t.Fatalf("UpsertUser() repeat error = %v", err)
	}

	if n := countRows(t, db, &models.User{}); n != 1 {
		t.Fatalf("user count = %d, want 1", n)
	}

	user, err := services.GetUserByOpenID(db, "open-1")
	if err != nil {
		t.Fatalf("GetUserByOpenID() error = %v", err)
	}
	if user == nil {
		t.Fatal("user not found")
	}
	if !user.LastSignedIn.Equal(second) {
		t.Errorf("lastSignedIn = %v, want %v", user.LastSignedIn, second)
	}
	// Omitted fields are left untouched by the second upsert.
	if user.Name == nil || *user.Name != "Casey" {
		t.Errorf("name = %v", user.Name)
	}
	if user.Role != models.RoleUser {
		t.Errorf("role = %q", user.Role)
	}
}

func TestUpsertUserExplicitNull(t *testing.T) {
	db := setupTestDB(t)
	log := logger.Nop()

	if err := services.UpsertUser(db, log, "", services.UserUpsert{
		OpenID: "open-1",
		Name:   nullString("Casey"),
	}); err != nil {
		t.Fatalf("UpsertUser() error = %v", err)
	}

	// An invalid NullString clears the stored value.
	if err := services.UpsertUser(db, log, "", services.UserUpsert{
		OpenID: "open-1",
		Name:   &sql.NullString{},
	}); err != nil {
		t.Fatalf("UpsertUser() error = %v", err)
	}

	user, err := services.GetUserByOpenID(db, "open-1")
	if err != nil {
		t.Fatalf("GetUserByOpenID() error = %v", err)
	}
	if user.Name != nil {
		t.Errorf("name = %q, want NULL", *user.Name)
	}
}

func TestUpsertUserOwnerElevation(t *testing.T) {
	db := setupTestDB(t)
	log := logger.Nop()

	if err := services.UpsertUser(db, log, "owner-id", services.UserUpsert{OpenID: "owner-id"}); err != nil {
		t.Fatalf("UpsertUser() error = %v", err)
	}
	if err := services.UpsertUser(db, log, "owner-id", services.UserUpsert{OpenID: "someone-else"}); err != nil {
		t.Fatalf("UpsertUser() error = %v", err)
	}

	owner, err := services.GetUserByOpenID(db, "owner-id")
	if err != nil {
		t.Fatalf("GetUserByOpenID() error = %v", err)
	}
	if !owner.IsAdmin() {
		t.Errorf("owner role = %q, want admin", owner.Role)
	}

	other, err := services.GetUserByOpenID(db, "someone-else")
	if err != nil {
		t.Fatalf("GetUserByOpenID() error = %v", err)
	}
	if other.IsAdmin() {
		t.Errorf("non-owner role = %q", other.Role)
	}
}

func TestUpsertUserExplicitRoleWins(t *testing.T) {
	db := setupTestDB(t)
	log := logger.Nop()

	role := models.RoleUser
	if err := services.UpsertUser(db, log, "owner-id", services.UserUpsert{
		OpenID: "owner-id",
		Role:   &role,
	}); err != nil {
		t.Fatalf("UpsertUser() error = %v", err)
	}

	owner, err := services.GetUserByOpenID(db, "owner-id")
	if err != nil {
		t.Fatalf("GetUserByOpenID() error = %v", err)
	}
	if owner.Role != models.RoleUser {
		t.Errorf("role = %q, explicit role should win over owner elevation", owner.Role)
	}
}

func TestUpsertUserRequiresOpenID(t *testing.T) {
	db := setupTestDB(t)

	err := services.UpsertUser(db, logger.Nop(), "", services.UserUpsert{})
	var validationErr *types.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("UpsertUser() error = %v, want ValidationError", err)
	}
	if n := countRows(t, db, &models.User{}); n != 0 {
		t.Errorf("user count = %d", n)
	}
}

func TestUpsertUserSwallowsStorageFailure(t *testing.T) {
	db := setupTestDB(t)
	if err := db.Migrator().DropTable(&models.User{}); err != nil {
		t.Fatalf("drop table: %v", err)
	}

	// A storage failure is logged and swallowed: sign-in must not break
	// because the user row could not be refreshed.
	if err := services.UpsertUser(db, logger.Nop(), "", services.UserUpsert{OpenID: "open-1"}); err != nil {
		t.Errorf("UpsertUser() error = %v, want nil", err)
	}
}

func TestGetUserByOpenIDMissing(t *testing.T) {
	db := setupTestDB(t)

	user, err := services.GetUserByOpenID(db, "nobody")
	if err != nil {
		t.Fatalf("GetUserByOpenID() error = %v", err)
	}
	if user != nil {
		t.Errorf("user = %+v, want nil", user)
	}
}
