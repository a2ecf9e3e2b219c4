// Package identity resolves request credentials into user identities.
package identity

import "context"

// Identity is a resolved caller.
type Identity struct {
	UserID    string `json:"user_id"`
	IsPremium bool   `json:"is_premium"`
}

// Resolver turns an opaque credential into an Identity. A missing or
// expired credential is an error; the resolver does not issue credentials.
type Resolver interface {
	Resolve(ctx context.Context, credential string) (*Identity, error)
}
