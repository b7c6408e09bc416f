// Package auth signs users in by email and scopes their storage keys.
package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/gookit/validate"

	"github.com/aliskhannn/calearner-bot/internal/domain/entities"
)

var ErrInvalidEmail = errors.New("invalid email")

// identityNamespace seeds the name-based identity ids.
var identityNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://calearner.app/identity"))

// Service is a passwordless auth provider: the same email always yields the
// same identity.
type Service struct{}

func NewService() *Service {
	return &Service{}
}

// Login validates email and returns its identity.
func (s *Service) Login(_ context.Context, email string) (*entities.Identity, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !validate.IsEmail(email) {
		return nil, ErrInvalidEmail
	}

	return &entities.Identity{
		ID:    uuid.NewSHA1(identityNamespace, []byte(email)).String(),
		Email: email,
	}, nil
}

// Logout ends the identity's session. There is no server-side state to drop.
func (s *Service) Logout(_ context.Context) error {
	return nil
}

// NamespaceKey scopes baseKey to identityID. Guests use the bare key.
func (s *Service) NamespaceKey(baseKey, identityID string) string {
	if identityID == "" {
		return baseKey
	}
	return baseKey + "_" + identityID
}
