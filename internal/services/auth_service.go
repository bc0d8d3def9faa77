package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fathima-sithara/contacts-api/internal/avatar"
	"github.com/fathima-sithara/contacts-api/internal/models"
	"github.com/fathima-sithara/contacts-api/internal/repository"
	"github.com/fathima-sithara/contacts-api/internal/storage"
	"github.com/fathima-sithara/contacts-api/internal/token"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Mailer dispatches verification mail. The Brevo client satisfies it.
type Mailer interface {
	IsConfigured() bool
	SendVerificationEmail(ctx context.Context, toEmail, verifyLink string) error
}

type AuthService struct {
	users      repository.UserRepository
	tokens     *token.Manager
	mailer     Mailer
	store      storage.Store
	baseURL    string
	bcryptCost int
	log        *zap.Logger
}

func NewAuthService(
	users repository.UserRepository,
	tokens *token.Manager,
	mailer Mailer,
	store storage.Store,
	baseURL string,
	bcryptCost int,
	log *zap.Logger,
) *AuthService {
	return &AuthService{
		users:      users,
		tokens:     tokens,
		mailer:     mailer,
		store:      store,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		bcryptCost: bcryptCost,
		log:        log,
	}
}

// SignUp registers an unverified user and dispatches the verification email.
// The email is best-effort: a send failure is logged and does not roll back
// the created user, the link can be re-requested through resend.
func (s *AuthService) SignUp(ctx context.Context, email, password, subscription string) (*models.User, error) {
	// The unique index is authoritative; this pre-check only produces the
	// friendly conflict without burning an insert.
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailInUse
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	if subscription == "" {
		subscription = models.DefaultSubscription
	}
	u := &models.User{
		Email:             email,
		PasswordHash:      string(hash),
		Subscription:      subscription,
		AvatarURL:         avatar.GravatarURL(email),
		Verified:          false,
		VerificationToken: uuid.NewString(),
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailInUse
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if err := s.mailer.SendVerificationEmail(ctx, u.Email, s.verifyLink(u.VerificationToken)); err != nil {
		s.log.Warn("verification email not sent", zap.String("email", u.Email), zap.Error(err))
	}
	return u, nil
}

// Verify consumes a verification token: the flag flip and token removal are a
// single conditional update, so a raced second call reports already-verified.
func (s *AuthService) Verify(ctx context.Context, verificationToken string) error {
	u, err := s.users.FindByVerificationToken(ctx, verificationToken)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if u.Verified {
		return ErrAlreadyVerified
	}
	if err := s.users.MarkVerified(ctx, verificationToken); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrAlreadyVerified
		}
		return err
	}
	return nil
}

// ResendVerification sends the existing verification link again.
func (s *AuthService) ResendVerification(ctx context.Context, email string) error {
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrNotAuthorized
		}
		return err
	}
	if u.Verified {
		return ErrAlreadyVerified
	}
	return s.mailer.SendVerificationEmail(ctx, u.Email, s.verifyLink(u.VerificationToken))
}

// SignIn checks credentials, then the verification gate, signs a session token
// and persists it on the user record. Unknown email and wrong password are
// deliberately indistinguishable to the caller.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (string, *models.User, error) {
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}
	if !u.Verified {
		return "", nil, ErrNotVerified
	}

	signed, err := s.tokens.Sign(u.ID.Hex())
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign session token: %w", err)
	}
	if err := s.users.SetToken(ctx, u.ID, signed); err != nil {
		return "", nil, fmt.Errorf("failed to persist session token: %w", err)
	}
	u.Token = signed
	return signed, u, nil
}

// Logout clears the session token; it fails when the user is gone or had no
// token to clear.
func (s *AuthService) Logout(ctx context.Context, id primitive.ObjectID) error {
	prev, err := s.users.ClearToken(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrNotAuthorized
		}
		return err
	}
	if prev.Token == "" {
		return ErrNotAuthorized
	}
	return nil
}

// UpdateAvatar resizes the upload, stores it and records the resulting URL.
// The store write and the user update are not transactional; a crash in
// between leaves an orphan file, never a dangling URL.
func (s *AuthService) UpdateAvatar(ctx context.Context, id primitive.ObjectID, data []byte) (string, error) {
	processed, err := avatar.Process(data)
	if err != nil {
		return "", err
	}
	name := fmt.Sprintf("%s_%s.jpg", id.Hex(), uuid.NewString())
	url, err := s.store.Save(ctx, name, "image/jpeg", processed)
	if err != nil {
		return "", fmt.Errorf("failed to store avatar: %w", err)
	}
	if err := s.users.SetAvatarURL(ctx, id, url); err != nil {
		return "", fmt.Errorf("failed to update avatar url: %w", err)
	}
	return url, nil
}

func (s *AuthService) verifyLink(verificationToken string) string {
	return fmt.Sprintf("%s/users/verify/%s", s.baseURL, verificationToken)
}
