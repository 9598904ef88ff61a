package store

import (
	"context"

	"github.com/goliatone/go-errors"

	"github.com/tsubame-dev/store-api/repository"
)

// UserProvider resolves identities from the users collection.
type UserProvider struct {
	users  repository.Repository[*User]
	logger Logger
}

// NewUserProvider will create a new UserProvider
func NewUserProvider(users repository.Repository[*User]) *UserProvider {
	return &UserProvider{
		users:  users,
		logger: defLogger{},
	}
}

func (u *UserProvider) WithLogger(l Logger) *UserProvider {
	if l != nil {
		u.logger = l
	}
	return u
}

// VerifyIdentity will find the user, compare the password, and return
// the identity. Missing account and wrong password are indistinguishable
// to the caller.
func (u *UserProvider) VerifyIdentity(ctx context.Context, identifier, password string) (Identity, error) {
	user, err := u.findByEmail(ctx, identifier)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, ErrMismatchedHashAndPassword
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user during verification")
	}

	if err := ComparePasswordAndHash(password, user.HashedPassword); err != nil {
		return nil, err
	}

	return NewIdentityFromUser(user), nil
}

// FindIdentityByIdentifier looks an account up by email without checking
// credentials; used to resolve validated token subjects.
func (u *UserProvider) FindIdentityByIdentifier(ctx context.Context, identifier string) (Identity, error) {
	user, err := u.findByEmail(ctx, identifier)
	if err != nil {
		return nil, err
	}
	return NewIdentityFromUser(user), nil
}

func (u *UserProvider) findByEmail(ctx context.Context, email string) (*User, error) {
	matches, err := u.users.List(ctx, repository.ListCriteria{
		Limit:   1,
		Filters: map[string]any{"email": email},
	})
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, repository.NotFoundError("User not found")
	}
	return matches[0], nil
}
