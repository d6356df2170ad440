package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anandr/kuliahku/internal/app/models"
	"github.com/anandr/kuliahku/internal/app/models/dto"
	"github.com/anandr/kuliahku/internal/pkg/apperrors"
	"github.com/anandr/kuliahku/internal/pkg/auth"
)

type fakeUserStore struct {
	byEmail map[string]*models.User
	byID    map[string]*models.User
	nextID  int
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		byEmail: make(map[string]*models.User),
		byID:    make(map[string]*models.User),
	}
}

func (f *fakeUserStore) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if _, exists := f.byEmail[user.Email]; exists {
		return nil, apperrors.ErrEmailAlreadyExists
	}
	f.nextID++
	created := *user
	created.ID = string(rune('0' + f.nextID))
	created.CreatedAt = time.Now()
	f.byEmail[created.Email] = &created
	f.byID[created.ID] = &created
	return &created, nil
}

func (f *fakeUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if user, ok := f.byEmail[email]; ok {
		return user, nil
	}
	return nil, apperrors.ErrUserNotFound
}

func (f *fakeUserStore) GetByID(ctx context.Context, id string) (*models.User, error) {
	if user, ok := f.byID[id]; ok {
		return user, nil
	}
	return nil, apperrors.ErrUserNotFound
}

type fakeTokenStore struct {
	tokens map[string]*models.RefreshToken
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{tokens: make(map[string]*models.RefreshToken)}
}

func (f *fakeTokenStore) Store(ctx context.Context, token, userID string, expiresAt time.Time) error {
	f.tokens[token] = &models.RefreshToken{
		Token:     token,
		UserID:    userID,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}
	return nil
}

func (f *fakeTokenStore) Get(ctx context.Context, token string) (*models.RefreshToken, error) {
	rt, ok := f.tokens[token]
	if !ok {
		return nil, apperrors.ErrTokenInvalid
	}
	if rt.Revoked {
		return nil, apperrors.ErrTokenRevoked
	}
	if time.Now().After(rt.ExpiresAt) {
		return nil, apperrors.ErrTokenExpired
	}
	return rt, nil
}

func (f *fakeTokenStore) Revoke(ctx context.Context, token string) error {
	rt, ok := f.tokens[token]
	if !ok {
		return apperrors.ErrTokenInvalid
	}
	rt.Revoked = true
	return nil
}

func (f *fakeTokenStore) RevokeAllForUser(ctx context.Context, userID string) error {
	for _, rt := range f.tokens {
		if rt.UserID == userID {
			rt.Revoked = true
		}
	}
	return nil
}

type recordingDropper struct {
	dropped []string
}

func (r *recordingDropper) Drop(ownerID string) {
	r.dropped = append(r.dropped, ownerID)
}

func newAuthServiceForTest(dropper *recordingDropper) (*AuthService, *fakeUserStore, *fakeTokenStore) {
	users := newFakeUserStore()
	tokens := newFakeTokenStore()
	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenExp:  time.Hour,
		RefreshTokenExp: 720 * time.Hour,
		TokenIssuer:     "kuliahku.test",
	})
	svc := NewAuthService(users, tokens, jwtService, nil, "http://localhost:3000", dropper)
	return svc, users, tokens
}

func TestAuthServiceRegister(t *testing.T) {
	t.Run("issues tokens and the dashboard redirect", func(t *testing.T) {
		svc, _, _ := newAuthServiceForTest(&recordingDropper{})

		resp, err := svc.Register(context.Background(), dto.RegisterRequest{
			Email:    "Ani@Example.com",
			Password: "secret-password",
			FullName: "Ani Rahma",
		})
		require.NoError(t, err)
		assert.Equal(t, "ani@example.com", resp.User.Email)
		assert.NotEmpty(t, resp.Token.AccessToken)
		assert.NotEmpty(t, resp.Token.RefreshToken)
		assert.Equal(t, "http://localhost:3000/dashboard/default", resp.RedirectTo)
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		svc, _, _ := newAuthServiceForTest(&recordingDropper{})
		ctx := context.Background()

		_, err := svc.Register(ctx, dto.RegisterRequest{Email: "a@b.com", Password: "secret-password"})
		require.NoError(t, err)

		_, err = svc.Register(ctx, dto.RegisterRequest{Email: "a@b.com", Password: "other-password"})
		assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)
	})

	t.Run("rejects short password", func(t *testing.T) {
		svc, _, _ := newAuthServiceForTest(&recordingDropper{})

		_, err := svc.Register(context.Background(), dto.RegisterRequest{Email: "a@b.com", Password: "short"})
		require.Error(t, err)
		assert.Equal(t, "password", apperrors.FieldOf(err))
	})
}

func TestAuthServiceLogin(t *testing.T) {
	svc, _, _ := newAuthServiceForTest(&recordingDropper{})
	ctx := context.Background()

	_, err := svc.Register(ctx, dto.RegisterRequest{Email: "a@b.com", Password: "secret-password"})
	require.NoError(t, err)

	t.Run("accepts correct credentials", func(t *testing.T) {
		resp, err := svc.Login(ctx, dto.LoginRequest{Email: "a@b.com", Password: "secret-password"})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.Token.AccessToken)
	})

	t.Run("rejects a wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, dto.LoginRequest{Email: "a@b.com", Password: "wrong"})
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})

	t.Run("does not reveal whether the account exists", func(t *testing.T) {
		_, err := svc.Login(ctx, dto.LoginRequest{Email: "nobody@b.com", Password: "whatever"})
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})
}

func TestAuthServiceRefresh(t *testing.T) {
	svc, _, tokens := newAuthServiceForTest(&recordingDropper{})
	ctx := context.Background()

	resp, err := svc.Register(ctx, dto.RegisterRequest{Email: "a@b.com", Password: "secret-password"})
	require.NoError(t, err)
	oldToken := resp.Token.RefreshToken

	rotated, err := svc.Refresh(ctx, oldToken)
	require.NoError(t, err)
	assert.NotEqual(t, oldToken, rotated.Token.RefreshToken)

	// The presented token was revoked by the rotation.
	_, err = svc.Refresh(ctx, oldToken)
	assert.ErrorIs(t, err, apperrors.ErrTokenRevoked)

	assert.True(t, tokens.tokens[oldToken].Revoked)
}

func TestAuthServiceLogout(t *testing.T) {
	dropper := &recordingDropper{}
	svc, _, tokens := newAuthServiceForTest(dropper)
	ctx := context.Background()

	resp, err := svc.Register(ctx, dto.RegisterRequest{Email: "a@b.com", Password: "secret-password"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, resp.User.ID, resp.Token.RefreshToken))

	assert.True(t, tokens.tokens[resp.Token.RefreshToken].Revoked)
	assert.Equal(t, []string{resp.User.ID}, dropper.dropped)
}

func TestAuthServiceSession(t *testing.T) {
	svc, _, _ := newAuthServiceForTest(&recordingDropper{})
	ctx := context.Background()

	resp, err := svc.Register(ctx, dto.RegisterRequest{Email: "a@b.com", Password: "secret-password", FullName: "Ani"})
	require.NoError(t, err)

	session, err := svc.Session(ctx, resp.User.ID)
	require.NoError(t, err)
	assert.True(t, session.Authenticated)
	require.NotNil(t, session.User)
	assert.Equal(t, "a@b.com", session.User.Email)

	session, err = svc.Session(ctx, "ghost")
	require.NoError(t, err)
	assert.False(t, session.Authenticated)
	assert.Nil(t, session.User)
}
