package services

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"path"
	"strings"
	"testing"
	"time"

	"github.com/fathima-sithara/contacts-api/internal/models"
	"github.com/fathima-sithara/contacts-api/internal/repository"
	"github.com/fathima-sithara/contacts-api/internal/token"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ---- fakes ----

type fakeUserRepo struct {
	users map[primitive.ObjectID]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[primitive.ObjectID]*models.User{}}
}

func cloneUser(u *models.User) *models.User {
	cp := *u
	return &cp
}

func (r *fakeUserRepo) Create(_ context.Context, u *models.User) error {
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return repository.ErrDuplicateEmail
		}
	}
	u.ID = primitive.NewObjectID()
	u.CreatedAt = time.Now().UTC()
	u.UpdatedAt = u.CreatedAt
	r.users[u.ID] = cloneUser(u)
	return nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (r *fakeUserRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	if u, ok := r.users[id]; ok {
		return cloneUser(u), nil
	}
	return nil, repository.ErrUserNotFound
}

func (r *fakeUserRepo) FindByVerificationToken(_ context.Context, tok string) (*models.User, error) {
	for _, u := range r.users {
		if u.VerificationToken == tok && tok != "" {
			return cloneUser(u), nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (r *fakeUserRepo) MarkVerified(_ context.Context, tok string) error {
	for _, u := range r.users {
		if u.VerificationToken == tok && !u.Verified {
			u.Verified = true
			u.VerificationToken = ""
			return nil
		}
	}
	return repository.ErrUserNotFound
}

func (r *fakeUserRepo) SetToken(_ context.Context, id primitive.ObjectID, tok string) error {
	u, ok := r.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.Token = tok
	return nil
}

func (r *fakeUserRepo) ClearToken(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	prev := cloneUser(u)
	u.Token = ""
	return prev, nil
}

func (r *fakeUserRepo) SetAvatarURL(_ context.Context, id primitive.ObjectID, url string) error {
	u, ok := r.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.AvatarURL = url
	return nil
}

type fakeMailer struct {
	sentTo    []string
	sentLinks []string
	err       error
}

func (m *fakeMailer) IsConfigured() bool { return true }

func (m *fakeMailer) SendVerificationEmail(_ context.Context, toEmail, verifyLink string) error {
	if m.err != nil {
		return m.err
	}
	m.sentTo = append(m.sentTo, toEmail)
	m.sentLinks = append(m.sentLinks, verifyLink)
	return nil
}

type fakeStore struct {
	saved map[string][]byte
}

func (s *fakeStore) Save(_ context.Context, name, _ string, data []byte) (string, error) {
	if s.saved == nil {
		s.saved = map[string][]byte{}
	}
	s.saved[name] = data
	return path.Join("avatars", name), nil
}

// ---- helpers ----

func newAuthService(repo *fakeUserRepo, mailer *fakeMailer) (*AuthService, *token.Manager) {
	tokens := token.NewManager("test-secret", 23*time.Hour)
	svc := NewAuthService(repo, tokens, mailer, &fakeStore{}, "http://localhost:3000", 4, zap.NewNop())
	return svc, tokens
}

func signUpVerified(t *testing.T, svc *AuthService, repo *fakeUserRepo, email, password string) *models.User {
	t.Helper()
	u, err := svc.SignUp(context.Background(), email, password, "")
	require.NoError(t, err)
	require.NoError(t, svc.Verify(context.Background(), u.VerificationToken))
	return u
}

// ---- tests ----

func TestSignUp(t *testing.T) {
	repo := newFakeUserRepo()
	mailer := &fakeMailer{}
	svc, _ := newAuthService(repo, mailer)

	u, err := svc.SignUp(context.Background(), "user@example.com", "secret123", "")
	require.NoError(t, err)
	require.Equal(t, "starter", u.Subscription)
	require.False(t, u.Verified)
	require.NotEmpty(t, u.VerificationToken)
	require.Contains(t, u.AvatarURL, "gravatar.com/avatar/")
	require.NotEqual(t, "secret123", u.PasswordHash)

	require.Len(t, mailer.sentLinks, 1)
	require.Equal(t, "http://localhost:3000/users/verify/"+u.VerificationToken, mailer.sentLinks[0])
	require.Equal(t, []string{"user@example.com"}, mailer.sentTo)
}

func TestSignUpDuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc, _ := newAuthService(repo, &fakeMailer{})

	_, err := svc.SignUp(context.Background(), "user@example.com", "secret123", "")
	require.NoError(t, err)

	_, err = svc.SignUp(context.Background(), "user@example.com", "other456", "pro")
	require.ErrorIs(t, err, ErrEmailInUse)
}

func TestSignUpMailFailureDoesNotRollBack(t *testing.T) {
	repo := newFakeUserRepo()
	svc, _ := newAuthService(repo, &fakeMailer{err: errors.New("brevo down")})

	u, err := svc.SignUp(context.Background(), "user@example.com", "secret123", "")
	require.NoError(t, err)

	stored, err := repo.FindByEmail(context.Background(), u.Email)
	require.NoError(t, err)
	require.Equal(t, u.ID, stored.ID)
}

func TestVerifyLifecycle(t *testing.T) {
	repo := newFakeUserRepo()
	svc, _ := newAuthService(repo, &fakeMailer{})

	u, err := svc.SignUp(context.Background(), "user@example.com", "secret123", "")
	require.NoError(t, err)

	require.NoError(t, svc.Verify(context.Background(), u.VerificationToken))

	stored, err := repo.FindByEmail(context.Background(), u.Email)
	require.NoError(t, err)
	require.True(t, stored.Verified)
	require.Empty(t, stored.VerificationToken)

	// the token was consumed, a second attempt no longer matches anyone
	err = svc.Verify(context.Background(), u.VerificationToken)
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestVerifyUnknownToken(t *testing.T) {
	svc, _ := newAuthService(newFakeUserRepo(), &fakeMailer{})
	err := svc.Verify(context.Background(), "no-such-token")
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestResendVerification(t *testing.T) {
	repo := newFakeUserRepo()
	mailer := &fakeMailer{}
	svc, _ := newAuthService(repo, mailer)

	u, err := svc.SignUp(context.Background(), "user@example.com", "secret123", "")
	require.NoError(t, err)

	require.NoError(t, svc.ResendVerification(context.Background(), u.Email))
	require.Len(t, mailer.sentLinks, 2)
	require.Equal(t, mailer.sentLinks[0], mailer.sentLinks[1])

	err = svc.ResendVerification(context.Background(), "stranger@example.com")
	require.ErrorIs(t, err, ErrNotAuthorized)

	require.NoError(t, svc.Verify(context.Background(), u.VerificationToken))
	err = svc.ResendVerification(context.Background(), u.Email)
	require.ErrorIs(t, err, ErrAlreadyVerified)
}

func TestSignInBadCredentialsIndistinguishable(t *testing.T) {
	repo := newFakeUserRepo()
	svc, _ := newAuthService(repo, &fakeMailer{})
	signUpVerified(t, svc, repo, "user@example.com", "secret123")

	_, _, errWrongPassword := svc.SignIn(context.Background(), "user@example.com", "wrong-pass")
	_, _, errUnknownEmail := svc.SignIn(context.Background(), "nobody@example.com", "secret123")

	require.ErrorIs(t, errWrongPassword, ErrInvalidCredentials)
	require.ErrorIs(t, errUnknownEmail, ErrInvalidCredentials)
	require.Equal(t, errWrongPassword.Error(), errUnknownEmail.Error())
}

func TestSignInUnverified(t *testing.T) {
	repo := newFakeUserRepo()
	svc, _ := newAuthService(repo, &fakeMailer{})

	_, err := svc.SignUp(context.Background(), "user@example.com", "secret123", "")
	require.NoError(t, err)

	_, _, err = svc.SignIn(context.Background(), "user@example.com", "secret123")
	require.ErrorIs(t, err, ErrNotVerified)
}

func TestSignInIssuesAndPersistsToken(t *testing.T) {
	repo := newFakeUserRepo()
	svc, tokens := newAuthService(repo, &fakeMailer{})
	u := signUpVerified(t, svc, repo, "user@example.com", "secret123")

	signed, loggedIn, err := svc.SignIn(context.Background(), u.Email, "secret123")
	require.NoError(t, err)
	require.Equal(t, u.Email, loggedIn.Email)

	claims, err := tokens.Parse(signed)
	require.NoError(t, err)
	require.Equal(t, u.ID.Hex(), claims.ID)

	stored, err := repo.FindByID(context.Background(), u.ID)
	require.NoError(t, err)
	require.Equal(t, signed, stored.Token)
}

func TestLogout(t *testing.T) {
	repo := newFakeUserRepo()
	svc, _ := newAuthService(repo, &fakeMailer{})
	u := signUpVerified(t, svc, repo, "user@example.com", "secret123")

	_, _, err := svc.SignIn(context.Background(), u.Email, "secret123")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), u.ID))

	stored, err := repo.FindByID(context.Background(), u.ID)
	require.NoError(t, err)
	require.Empty(t, stored.Token)

	// token already cleared
	err = svc.Logout(context.Background(), u.ID)
	require.ErrorIs(t, err, ErrNotAuthorized)
}

func TestUpdateAvatar(t *testing.T) {
	repo := newFakeUserRepo()
	svc, _ := newAuthService(repo, &fakeMailer{})
	u := signUpVerified(t, svc, repo, "user@example.com", "secret123")

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 300, 300))))

	url, err := svc.UpdateAvatar(context.Background(), u.ID, buf.Bytes())
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, "avatars/"))
	require.True(t, strings.HasSuffix(url, ".jpg"))

	stored, err := repo.FindByID(context.Background(), u.ID)
	require.NoError(t, err)
	require.Equal(t, url, stored.AvatarURL)
}
