package store

import (
	"context"
	"reflect"
	"time"
)

// Auther orchestrates credential verification and token issuance.
type Auther struct {
	provider     IdentityProvider
	tokenService TokenService
	logger       Logger
	activitySink ActivitySink
}

// NewAuthenticator returns a new Authenticator
func NewAuthenticator(provider IdentityProvider, cfg *Config) *Auther {
	tokenService := NewTokenService(
		[]byte(cfg.GetSigningKey()),
		time.Duration(cfg.GetTokenExpirationMinutes())*time.Minute,
		cfg.GetIssuer(),
		defLogger{},
	)

	return &Auther{
		provider:     provider,
		tokenService: tokenService,
		logger:       defLogger{},
		activitySink: noopActivitySink{},
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// WithActivitySink configures an ActivitySink for emitting auth events.
func (s *Auther) WithActivitySink(sink ActivitySink) *Auther {
	s.activitySink = NormalizeActivitySink(sink)
	return s
}

// WithTokenService overrides the default token service.
func (s *Auther) WithTokenService(ts TokenService) *Auther {
	if ts != nil {
		s.tokenService = ts
	}
	return s
}

// TokenService returns the TokenService instance used by this Authenticator
func (s *Auther) TokenService() TokenService {
	return s.tokenService
}

// Login verifies credentials and mints a session token. Every failure
// path reports the same ErrBadCredentials to the caller.
func (s *Auther) Login(ctx context.Context, identifier, password string) (string, error) {
	identity, err := s.provider.VerifyIdentity(ctx, identifier, password)
	if err != nil {
		s.logger.Info("login verify identity failed for %s", identifier)
		s.emitAuthEvent(ctx, ActivityEventLoginFailure, identifier, nil)
		return "", ErrBadCredentials
	}

	if identity == nil || reflect.ValueOf(identity).IsZero() {
		s.logger.Error("login identity is nil or zero value")
		s.emitAuthEvent(ctx, ActivityEventLoginFailure, identifier, nil)
		return "", ErrBadCredentials
	}

	token, err := s.tokenService.Generate(identity)
	if err != nil {
		s.logger.Error("login token generation failed: %v", err)
		s.emitAuthEvent(ctx, ActivityEventLoginFailure, identifier, map[string]any{
			"error": err.Error(),
		})
		return "", err
	}

	s.emitAuthEvent(ctx, ActivityEventLoginSuccess, identity.Email(), nil)

	return token, nil
}

// ClaimsFromToken validates a raw bearer token and returns its claims.
func (s *Auther) ClaimsFromToken(raw string) (AuthClaims, error) {
	claims, err := s.tokenService.Validate(raw)
	if err != nil {
		s.logger.Debug("token validation failed: %v", err)
		return nil, err
	}
	return claims, nil
}

// IdentityFromClaims resolves validated claims into an account.
func (s *Auther) IdentityFromClaims(ctx context.Context, claims AuthClaims) (Identity, error) {
	identity, err := s.provider.FindIdentityByIdentifier(ctx, claims.Subject())
	if err != nil {
		s.logger.Error("identity lookup for token subject failed: %v", err)
		return nil, err
	}
	return identity, nil
}

func (s *Auther) emitAuthEvent(ctx context.Context, eventType ActivityEventType, actor string, metadata map[string]any) {
	sink := NormalizeActivitySink(s.activitySink)
	event := ActivityEvent{
		EventType:  eventType,
		Entity:     "auth",
		Actor:      actor,
		Metadata:   metadata,
		OccurredAt: time.Now(),
	}

	if err := sink.Record(ctx, event); err != nil {
		s.logger.Warn("activity sink record error: %v", err)
	}
}
