package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/carejournal/api/internal/platform/auth"
	"github.com/carejournal/api/pkg/validation"
)

const minPasswordLength = 8

type Service struct {
	users      Repository
	signingKey []byte
	tokenTTL   time.Duration
}

func NewService(users Repository, signingKey []byte, tokenTTL time.Duration) *Service {
	return &Service{
		users:      users,
		signingKey: signingKey,
		tokenTTL:   tokenTTL,
	}
}

func validateNewUser(u *User, password string) validation.Errors {
	errs := validation.Errors{}
	if strings.TrimSpace(u.Username) == "" {
		errs["username"] = validation.MsgRequired
	}
	if strings.TrimSpace(u.DisplayName) == "" {
		errs["display_name"] = validation.MsgRequired
	}
	if !u.Role.Valid() {
		errs["role"] = "must be admin, manager or staff"
	}
	if len(password) < minPasswordLength {
		errs["password"] = "must be at least 8 characters"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// CreateUser registers a new account with a bcrypt-hashed password.
func (s *Service) CreateUser(ctx context.Context, u *User, password string) error {
	if errs := validateNewUser(u, password); errs != nil {
		return errs
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	u.Active = true
	return s.users.Create(ctx, u)
}

// Login verifies credentials and issues a signed token. Unknown usernames,
// wrong passwords and inactive accounts all fail with the same error.
func (s *Service) Login(ctx context.Context, username, password string) (string, *User, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}
	if !u.Active {
		return "", nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := auth.IssueToken(s.signingKey, u.ID.String(), u.DisplayName, string(u.Role), s.tokenTTL)
	if err != nil {
		return "", nil, err
	}

	if err := s.users.RecordLogin(ctx, u.ID); err != nil {
		return "", nil, err
	}
	now := time.Now()
	u.LastLoginAt = &now
	return token, u, nil
}

func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *Service) UpdateUser(ctx context.Context, u *User) (*User, error) {
	existing, err := s.users.GetByID(ctx, u.ID)
	if err != nil {
		return nil, err
	}

	errs := validation.Errors{}
	if strings.TrimSpace(u.DisplayName) == "" {
		errs["display_name"] = validation.MsgRequired
	}
	if !u.Role.Valid() {
		errs["role"] = "must be admin, manager or staff"
	}
	if len(errs) > 0 {
		return nil, errs
	}

	u.Username = existing.Username
	u.PasswordHash = existing.PasswordHash
	u.CreatedAt = existing.CreatedAt
	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// ChangePassword sets a new password after verifying the old one.
func (s *Service) ChangePassword(ctx context.Context, id uuid.UUID, oldPassword, newPassword string) error {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(oldPassword)) != nil {
		return ErrInvalidCredentials
	}
	if len(newPassword) < minPasswordLength {
		return validation.Errors{"new_password": "must be at least 8 characters"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, id, string(hash))
}

func (s *Service) DeactivateUser(ctx context.Context, id uuid.UUID) error {
	return s.users.Deactivate(ctx, id)
}

func (s *Service) ListUsers(ctx context.Context, limit, offset int) ([]*User, int, error) {
	return s.users.List(ctx, limit, offset)
}
