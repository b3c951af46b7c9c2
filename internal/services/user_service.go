package services

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "carteira/internal/errors"
	"carteira/internal/models"
)

const (
	maxFailedLoginAttempts = 5
	lockoutDuration        = 15 * time.Minute
)

// userService handles user-related business logic.
type userService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewUserService creates a new UserServicer.
func NewUserService(db *gorm.DB) UserServicer {
	return &userService{db: db, now: time.Now}
}

func normalizeLogin(login string) string {
	return strings.ToLower(strings.TrimSpace(login))
}

// CreateUser registers a new user
func (s *userService) CreateUser(login, password, confirmPassword string) (*models.User, error) {
	login = normalizeLogin(login)
	if login == "" || password == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "login and password are required")
	}
	if password != confirmPassword {
		return nil, apperrors.ErrPasswordMismatch
	}

	taken, err := s.loginTaken(login)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperrors.ErrDuplicateLogin
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	user := &models.User{
		Login:    login,
		Password: string(hashedPassword),
		IsActive: true,
	}
	if err := s.db.Create(user).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrPersistence, err)
	}

	return user, nil
}

func (s *userService) loginTaken(login string) (bool, error) {
	var count int64
	if err := s.db.Model(&models.User{}).Where("login = ?", login).Count(&count).Error; err != nil {
		return false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return count > 0, nil
}

// GetUserByLogin retrieves an active user by login
func (s *userService) GetUserByLogin(login string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("login = ? AND is_active = ?", normalizeLogin(login), true).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

// GetUserByID retrieves a user by ID
func (s *userService) GetUserByID(id string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

// VerifyPassword checks if the provided password matches the stored hash
func (s *userService) VerifyPassword(user *models.User, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password))
	return err == nil
}

// AttemptLogin verifies credentials and tracks failures. After
// maxFailedLoginAttempts consecutive failures the account is locked for
// lockoutDuration. Unknown logins and wrong passwords both return
// ErrInvalidCredentials.
func (s *userService) AttemptLogin(login, password string) (*models.User, error) {
	user, err := s.GetUserByLogin(login)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	now := s.now()
	if user.LockedUntil != nil && user.LockedUntil.After(now) {
		return nil, apperrors.ErrAccountLocked
	}

	if !s.VerifyPassword(user, password) {
		updates := map[string]interface{}{"failed_login_attempts": user.FailedLoginAttempts + 1}
		if user.FailedLoginAttempts+1 >= maxFailedLoginAttempts {
			updates["locked_until"] = now.Add(lockoutDuration)
			updates["failed_login_attempts"] = 0
		}
		if err := s.db.Model(user).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil, apperrors.ErrInvalidCredentials
	}

	if err := s.db.Model(user).Updates(map[string]interface{}{
		"failed_login_attempts": 0,
		"locked_until":          nil,
		"last_login_at":         now,
	}).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	user.FailedLoginAttempts = 0
	user.LockedUntil = nil
	user.LastLoginAt = &now
	return user, nil
}

// StoreRefreshTokenHash saves the hash of the user's current refresh token.
func (s *userService) StoreRefreshTokenHash(userID, tokenHash string) error {
	res := s.db.Model(&models.User{}).Where("id = ?", userID).Update("refresh_token_hash", tokenHash)
	if res.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// GetRefreshTokenHash returns the stored refresh token hash.
func (s *userService) GetRefreshTokenHash(userID string) (string, error) {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return "", err
	}
	return user.RefreshTokenHash, nil
}

// RenameUser changes the user's login. The new login must differ from the
// current one and must not belong to another user.
func (s *userService) RenameUser(userID, newLogin string) (*models.User, error) {
	newLogin = normalizeLogin(newLogin)
	if newLogin == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "login is required")
	}

	user, err := s.GetUserByID(userID)
	if err != nil {
		return nil, err
	}
	if user.Login == newLogin {
		return nil, apperrors.ErrSameLogin
	}

	taken, err := s.loginTaken(newLogin)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperrors.ErrDuplicateLogin
	}

	if err := s.db.Model(user).Update("login", newLogin).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrPersistence, err)
	}
	user.Login = newLogin
	return user, nil
}

// ChangePassword replaces the password and revokes the refresh token.
func (s *userService) ChangePassword(userID, password, confirmPassword string) error {
	if password == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "password is required")
	}
	if password != confirmPassword {
		return apperrors.ErrPasswordMismatch
	}

	user, err := s.GetUserByID(userID)
	if err != nil {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := s.db.Model(user).Updates(map[string]interface{}{
		"password":           string(hashed),
		"refresh_token_hash": "",
	}).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrPersistence, err)
	}
	return nil
}
