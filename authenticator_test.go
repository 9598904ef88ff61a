package store_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	store "github.com/tsubame-dev/store-api"
)

func testConfig(t *testing.T) *store.Config {
	t.Helper()

	t.Setenv("DATABASE_URL", "file::memory:")
	t.Setenv("SECRET_KEY", "test-signing-key")
	t.Setenv("TOKEN_ISSUER", "test-issuer")

	cfg, err := store.NewConfigFromEnv()
	require.NoError(t, err)
	return cfg
}

// recordingSink collects activity events for assertions.
type recordingSink struct {
	mu     sync.Mutex
	events []store.ActivityEvent
}

func (s *recordingSink) Record(_ context.Context, event store.ActivityEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *recordingSink) Events() []store.ActivityEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]store.ActivityEvent, len(s.events))
	copy(out, s.events)
	return out
}

func TestAuther_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("successful login returns a token that validates", func(t *testing.T) {
		identity := &MockIdentity{}
		identity.On("Email").Return("admin@tsubame.com")
		identity.On("Role").Return("admin")

		provider := &MockIdentityProvider{}
		provider.On("VerifyIdentity", ctx, "admin@tsubame.com", "admin123").Return(identity, nil)

		sink := &recordingSink{}
		auther := store.NewAuthenticator(provider, testConfig(t)).WithActivitySink(sink)

		token, err := auther.Login(ctx, "admin@tsubame.com", "admin123")
		require.NoError(t, err)
		assert.NotEmpty(t, token)

		claims, err := auther.ClaimsFromToken(token)
		require.NoError(t, err)
		assert.Equal(t, "admin@tsubame.com", claims.Subject())
		assert.Equal(t, "admin", claims.Role())

		events := sink.Events()
		require.Len(t, events, 1)
		assert.Equal(t, store.ActivityEventLoginSuccess, events[0].EventType)
		assert.Equal(t, "admin@tsubame.com", events[0].Actor)

		provider.AssertExpectations(t)
	})

	t.Run("provider failure yields bad credentials", func(t *testing.T) {
		provider := &MockIdentityProvider{}
		provider.On("VerifyIdentity", ctx, "nobody@tsubame.com", "whatever").
			Return(nil, store.ErrMismatchedHashAndPassword)

		sink := &recordingSink{}
		auther := store.NewAuthenticator(provider, testConfig(t)).WithActivitySink(sink)

		_, err := auther.Login(ctx, "nobody@tsubame.com", "whatever")
		assert.ErrorIs(t, err, store.ErrBadCredentials)

		events := sink.Events()
		require.Len(t, events, 1)
		assert.Equal(t, store.ActivityEventLoginFailure, events[0].EventType)
	})

	t.Run("unknown account and wrong password are indistinguishable", func(t *testing.T) {
		provider := &MockIdentityProvider{}
		provider.On("VerifyIdentity", ctx, "ghost@tsubame.com", mock.Anything).
			Return(nil, store.ErrMismatchedHashAndPassword)
		provider.On("VerifyIdentity", ctx, "admin@tsubame.com", mock.Anything).
			Return(nil, store.ErrMismatchedHashAndPassword)

		auther := store.NewAuthenticator(provider, testConfig(t))

		_, errMissing := auther.Login(ctx, "ghost@tsubame.com", "whatever")
		_, errWrongPw := auther.Login(ctx, "admin@tsubame.com", "not-the-password")

		assert.Equal(t, errMissing, errWrongPw)
		assert.Equal(t, "Incorrect email or password", store.ErrBadCredentials.Message)
	})

	t.Run("nil identity from provider yields bad credentials", func(t *testing.T) {
		provider := &MockIdentityProvider{}
		provider.On("VerifyIdentity", ctx, "admin@tsubame.com", "admin123").Return(nil, nil)

		auther := store.NewAuthenticator(provider, testConfig(t))

		_, err := auther.Login(ctx, "admin@tsubame.com", "admin123")
		assert.ErrorIs(t, err, store.ErrBadCredentials)
	})
}

func TestAuther_ClaimsFromToken(t *testing.T) {
	provider := &MockIdentityProvider{}
	auther := store.NewAuthenticator(provider, testConfig(t))

	t.Run("garbage token", func(t *testing.T) {
		_, err := auther.ClaimsFromToken("garbage")
		assert.ErrorIs(t, err, store.ErrBadSignature)
	})

	t.Run("expired token", func(t *testing.T) {
		tokenString, err := auther.TokenService().Issue("user@tsubame.com", "user", time.Millisecond)
		require.NoError(t, err)

		time.Sleep(10 * time.Millisecond)

		_, err = auther.ClaimsFromToken(tokenString)
		assert.ErrorIs(t, err, store.ErrTokenExpired)
	})
}

func TestAuther_IdentityFromClaims(t *testing.T) {
	ctx := context.Background()

	identity := &MockIdentity{}
	identity.On("Email").Return("user@tsubame.com")
	identity.On("Role").Return("user")

	provider := &MockIdentityProvider{}
	provider.On("FindIdentityByIdentifier", ctx, "user@tsubame.com").Return(identity, nil)

	auther := store.NewAuthenticator(provider, testConfig(t))

	token, err := auther.TokenService().Issue("user@tsubame.com", "user", time.Hour)
	require.NoError(t, err)

	claims, err := auther.ClaimsFromToken(token)
	require.NoError(t, err)

	resolved, err := auther.IdentityFromClaims(ctx, claims)
	require.NoError(t, err)
	assert.Equal(t, "user@tsubame.com", resolved.Email())

	provider.AssertExpectations(t)
}
