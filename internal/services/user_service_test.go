package services

import (
	"testing"
	"time"

	"carteira/internal/models"
	"carteira/internal/testutil"

	"golang.org/x/crypto/bcrypt"
)

func TestCreateUser(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		user, err := svc.CreateUser("alice", "password123", "password123")
		testutil.AssertNoError(t, err)

		if user.ID == "" {
			t.Fatal("expected user ID")
		}
		if user.Login != "alice" {
			t.Errorf("expected login alice, got %s", user.Login)
		}
		if !user.IsActive {
			t.Error("expected user to be active")
		}
	})

	t.Run("duplicate_login", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.CreateUser("dup", "password123", "password123")
		testutil.AssertNoError(t, err)

		_, err = svc.CreateUser("DUP", "password456", "password456")
		testutil.AssertAppError(t, err, "DUPLICATE_LOGIN")
	})

	t.Run("confirmation_mismatch", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.CreateUser("bob", "password123", "password124")
		testutil.AssertAppError(t, err, "PASSWORD_MISMATCH")
	})

	t.Run("empty_login", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.CreateUser("  ", "password123", "password123")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("password_is_hashed", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		user, err := svc.CreateUser("carol", "mysecret", "mysecret")
		testutil.AssertNoError(t, err)

		if user.Password == "mysecret" {
			t.Fatal("password should be hashed, not stored in plain text")
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("mysecret")); err != nil {
			t.Errorf("stored hash does not match password: %v", err)
		}
	})
}

func TestGetUserByLogin(t *testing.T) {
	t.Run("found_case_insensitive", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		created := testutil.CreateTestUserWithLogin(t, db, "dave")
		user, err := svc.GetUserByLogin("  Dave ")
		testutil.AssertNoError(t, err)
		if user.ID != created.ID {
			t.Errorf("expected user %s, got %s", created.ID, user.ID)
		}
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.GetUserByLogin("nobody")
		testutil.AssertAppError(t, err, "USER_NOT_FOUND")
	})
}

func TestAttemptLogin(t *testing.T) {
	t.Run("success_resets_counters", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		u := testutil.CreateTestUser(t, db)
		db.Model(u).Update("failed_login_attempts", 3)

		user, err := svc.AttemptLogin(u.Login, testutil.TestPassword)
		testutil.AssertNoError(t, err)
		if user.FailedLoginAttempts != 0 {
			t.Errorf("expected counter reset, got %d", user.FailedLoginAttempts)
		}
		if user.LastLoginAt == nil {
			t.Error("expected last login to be recorded")
		}
	})

	t.Run("unknown_login", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.AttemptLogin("ghost", "whatever")
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
	})

	t.Run("locks_after_repeated_failures", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		u := testutil.CreateTestUser(t, db)
		for range maxFailedLoginAttempts {
			_, err := svc.AttemptLogin(u.Login, "wrong")
			testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
		}

		_, err := svc.AttemptLogin(u.Login, testutil.TestPassword)
		testutil.AssertAppError(t, err, "ACCOUNT_LOCKED")
	})

	t.Run("lock_expires", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db).(*userService)

		u := testutil.CreateTestUser(t, db)
		db.Model(u).Update("locked_until", time.Now().Add(time.Minute))

		svc.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
		_, err := svc.AttemptLogin(u.Login, testutil.TestPassword)
		testutil.AssertNoError(t, err)
	})
}

func TestStoreAndGetRefreshTokenHash(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewUserService(db)

	u := testutil.CreateTestUser(t, db)
	testutil.AssertNoError(t, svc.StoreRefreshTokenHash(u.ID, "hash-1"))

	hash, err := svc.GetRefreshTokenHash(u.ID)
	testutil.AssertNoError(t, err)
	if hash != "hash-1" {
		t.Errorf("expected hash-1, got %q", hash)
	}

	err = svc.StoreRefreshTokenHash("00000000-0000-0000-0000-000000000000", "x")
	testutil.AssertAppError(t, err, "USER_NOT_FOUND")
}

func TestRenameUser(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		u := testutil.CreateTestUserWithLogin(t, db, "old")
		user, err := svc.RenameUser(u.ID, "New")
		testutil.AssertNoError(t, err)
		if user.Login != "new" {
			t.Errorf("expected login new, got %s", user.Login)
		}
	})

	t.Run("same_login", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		u := testutil.CreateTestUserWithLogin(t, db, "same")
		_, err := svc.RenameUser(u.ID, "same")
		testutil.AssertAppError(t, err, "SAME_LOGIN")
	})

	t.Run("taken_by_another_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		testutil.CreateTestUserWithLogin(t, db, "taken")
		u := testutil.CreateTestUserWithLogin(t, db, "mine")
		_, err := svc.RenameUser(u.ID, "taken")
		testutil.AssertAppError(t, err, "DUPLICATE_LOGIN")
	})
}

func TestChangePassword(t *testing.T) {
	t.Run("valid_revokes_refresh_token", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		u := testutil.CreateTestUser(t, db)
		testutil.AssertNoError(t, svc.StoreRefreshTokenHash(u.ID, "hash"))

		testutil.AssertNoError(t, svc.ChangePassword(u.ID, "newpass1", "newpass1"))

		var stored models.User
		db.First(&stored, "id = ?", u.ID)
		if stored.RefreshTokenHash != "" {
			t.Error("expected refresh token to be revoked")
		}
		if !svc.VerifyPassword(&stored, "newpass1") {
			t.Error("expected new password to verify")
		}
	})

	t.Run("mismatch", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		u := testutil.CreateTestUser(t, db)
		err := svc.ChangePassword(u.ID, "a", "b")
		testutil.AssertAppError(t, err, "PASSWORD_MISMATCH")
	})
}
