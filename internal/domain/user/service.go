package user

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/panscience/chat-server/internal/utils/idgen"
	"github.com/panscience/chat-server/internal/utils/platformerrors"
)

// bcrypt ignores input beyond 72 bytes, so longer passwords are truncated
// explicitly to keep hashing and verification consistent.
const maxPasswordBytes = 72

// Service implements account registration and credential verification.
type Service struct {
	repo   Repository
	logger zerolog.Logger
}

// NewService constructs a user service.
func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Register creates a new account. The email is normalized to lower case and
// both the email and the username must not already exist.
func (s *Service) Register(ctx context.Context, email, username, password string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	username = strings.TrimSpace(username)
	if email == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "email is required", nil, "")
	}
	if username == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "username is required", nil, "")
	}
	if password == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "password is required", nil, "")
	}

	existing, err := s.repo.FindByEmail(ctx, email)
	if err != nil && !platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound) {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "lookup existing user")
	}
	if existing != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeConflict, "email already registered", nil, "")
	}

	taken, err := s.repo.FindByUsername(ctx, username)
	if err != nil && !platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound) {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "lookup existing username")
	}
	if taken != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeConflict, "username already taken", nil, "")
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "hash password")
	}

	publicID, err := idgen.GenerateSecureID("user", 16)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "generate user id")
	}

	u := &User{
		PublicID:     publicID,
		Email:        email,
		Username:     username,
		PasswordHash: hash,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "create user")
	}

	s.logger.Info().Str("user_id", u.PublicID).Msg("user registered")
	return u, nil
}

// Authenticate verifies credentials and returns the matching user. Unknown
// emails and wrong passwords produce the same error so callers cannot probe
// which accounts exist.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound) {
			return nil, invalidCredentials(ctx)
		}
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "lookup user")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), truncatePassword(password)); err != nil {
		return nil, invalidCredentials(ctx)
	}

	return u, nil
}

// GetByPublicID returns the user for the given public identifier.
func (s *Service) GetByPublicID(ctx context.Context, publicID string) (*User, error) {
	u, err := s.repo.FindByPublicID(ctx, publicID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "lookup user")
	}
	return u, nil
}

func invalidCredentials(ctx context.Context) error {
	return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeUnauthorized, "invalid email or password", nil, "")
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(truncatePassword(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func truncatePassword(password string) []byte {
	b := []byte(password)
	if len(b) > maxPasswordBytes {
		b = b[:maxPasswordBytes]
	}
	return b
}
