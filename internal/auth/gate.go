package auth

import (
	"context"
	"errors"
	"strings"
)

// Directory is the credential-store lookup surface the gate depends on.
type Directory interface {
	AccountByUsername(ctx context.Context, username string) (*Account, error)
	RolePermissions(ctx context.Context, roleName string) ([]string, error)
}

// Gate enforces required permission codenames before an operation runs.
type Gate struct {
	dir Directory
}

// NewGate constructs a Gate over the given directory.
func NewGate(dir Directory) *Gate {
	return &Gate{dir: dir}
}

// Authorize rejects the call unless the caller holds every required
// permission. Superusers bypass all checks. The caller's account is
// re-resolved from the store by username, so a stale or forged caller
// object cannot grant access. An account that cannot be re-resolved is an
// authentication failure, not an authorization failure.
func (g *Gate) Authorize(ctx context.Context, caller *Account, required ...string) error {
	if caller == nil || strings.TrimSpace(caller.Username) == "" {
		return ErrUnauthorized
	}
	if caller.Superuser {
		return nil
	}

	acct, err := g.dir.AccountByUsername(ctx, caller.Username)
	if err != nil {
		return ErrUnauthorized
	}

	// An account with zero roles has an empty permission set: default-deny.
	held := map[string]struct{}{}
	if acct.Role != "" {
		perms, err := g.dir.RolePermissions(ctx, acct.Role)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return err
		}
		for _, p := range perms {
			held[p] = struct{}{}
		}
	}

	for _, perm := range required {
		if _, ok := held[perm]; !ok {
			return &PermissionError{Missing: perm}
		}
	}
	return nil
}
