package server

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"

	store "github.com/tsubame-dev/store-api"
)

// claimsKey is where the auth middleware parks validated claims.
const claimsKey = "session_claims"

// LoginPayload is the login request body.
type LoginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (p LoginPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Email, validation.Required, is.Email),
		validation.Field(&p.Password, validation.Required),
	)
}

// TokenResponse is the login success body.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// requireAuth validates the bearer token and stores its claims for the
// handler. Every failure answers with the same fixed message.
func (s *Server) requireAuth(c *fiber.Ctx) error {
	header := c.Get(fiber.HeaderAuthorization)
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "bearer") || token == "" {
		return store.ErrBadSignature
	}

	claims, err := s.auth.ClaimsFromToken(strings.TrimSpace(token))
	if err != nil {
		return err
	}

	c.Locals(claimsKey, claims)
	return c.Next()
}

// sessionClaims fetches what requireAuth stored.
func sessionClaims(c *fiber.Ctx) (store.AuthClaims, bool) {
	claims, ok := c.Locals(claimsKey).(store.AuthClaims)
	return claims, ok
}

func sessionActor(c *fiber.Ctx) string {
	if claims, ok := sessionClaims(c); ok {
		return claims.Subject()
	}
	return ""
}

func (s *Server) handleLogin(c *fiber.Ctx) error {
	var payload LoginPayload
	if err := c.BodyParser(&payload); err != nil {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "invalid request body")
	}
	if err := payload.Validate(); err != nil {
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	}

	token, err := s.auth.Login(c.UserContext(), payload.Email, payload.Password)
	if err != nil {
		return err
	}

	return c.JSON(TokenResponse{AccessToken: token, TokenType: "bearer"})
}

func (s *Server) handleMe(c *fiber.Ctx) error {
	claims, ok := sessionClaims(c)
	if !ok {
		return store.ErrBadSignature
	}

	identity, err := s.auth.IdentityFromClaims(c.UserContext(), claims)
	if err != nil {
		// The account behind a still-valid token may be gone; that is
		// an auth failure, not a 404.
		return store.ErrBadSignature
	}

	if user, ok := store.UserFromIdentity(identity); ok {
		return c.JSON(user)
	}

	return c.JSON(fiber.Map{
		"id":    identity.ID(),
		"email": identity.Email(),
		"role":  identity.Role(),
	})
}
