// Package auth covers credential handling and the session gate in
// front of the ledger routes.
package auth

import (
	"context"
	"errors"

	"github.com/netlink-io/khatabook/internal/database"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ErrInvalidCredentials is returned for an unknown username or a wrong
// password. Both cases share one error so a login response can't be
// used to probe which usernames exist.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrMissingCredentials is returned when the username or password is empty.
var ErrMissingCredentials = errors.New("username and password are required")

// Provider authenticates users against the credential store.
type Provider struct {
	db *database.DB
}

// New creates a new auth provider.
func New(db *database.DB) *Provider {
	return &Provider{db: db}
}

// Register hashes the password with bcrypt and creates the user.
// Returns database.ErrDuplicateUsername when the name is taken.
func (p *Provider) Register(ctx context.Context, username, password string) (*database.User, error) {
	if username == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return p.db.CreateUser(ctx, username, string(hash))
}

// Verify looks up the user and compares the password against the
// stored hash. Unknown users still pay for a hash comparison so the
// two failure paths take comparable time.
func (p *Provider) Verify(ctx context.Context, username, password string) (*database.User, error) {
	user, err := p.db.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			bcrypt.CompareHashAndPassword(dummyHash, []byte(password)) //nolint:errcheck
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// dummyHash is a bcrypt hash of an unguessable throwaway value, used
// to equalize timing when the username doesn't exist.
var dummyHash = func() []byte {
	h, err := bcrypt.GenerateFromPassword([]byte("khatabook-timing-pad"), bcrypt.DefaultCost)
	if err != nil {
		panic(err)
	}
	return h
}()
