package auth

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// RBACStore describes persistence operations for roles and permissions.
type RBACStore interface {
	CreateRole(ctx context.Context, name, description string) (Role, error)
	ListRoles(ctx context.Context) ([]Role, error)
	GetRole(ctx context.Context, roleID string) (Role, error)
	DeleteRole(ctx context.Context, roleID string) error
	SetRolePermissions(ctx context.Context, roleID string, codenames []string) error

	CreatePermission(ctx context.Context, codename, description string) (Permission, error)
	ListPermissions(ctx context.Context) ([]Permission, error)
	GetPermission(ctx context.Context, permissionID string) (Permission, error)
	DeletePermission(ctx context.Context, permissionID string) error
	EnsurePermissions(ctx context.Context, perms []Permission) error
}

var codenamePattern = regexp.MustCompile(`^[a-z]+(_[a-z]+)+$`)

// RBACService provides role and permission administration.
type RBACService struct {
	store RBACStore
}

// NewRBACService constructs RBACService.
func NewRBACService(store RBACStore) (*RBACService, error) {
	if store == nil {
		return nil, errors.New("rbac store is required")
	}
	return &RBACService{store: store}, nil
}

// EnsureBuiltins seeds the predefined permission vocabulary.
func (s *RBACService) EnsureBuiltins(ctx context.Context) error {
	return s.store.EnsurePermissions(ctx, BuiltinPermissions)
}

func (s *RBACService) CreateRole(ctx context.Context, name, description string) (Role, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Role{}, fmt.Errorf("%w: role name is required", ErrInvalidInput)
	}
	return s.store.CreateRole(ctx, name, strings.TrimSpace(description))
}

func (s *RBACService) ListRoles(ctx context.Context) ([]Role, error) {
	return s.store.ListRoles(ctx)
}

func (s *RBACService) GetRole(ctx context.Context, roleID string) (Role, error) {
	roleID = strings.TrimSpace(roleID)
	if roleID == "" {
		return Role{}, fmt.Errorf("%w: role_id is required", ErrInvalidInput)
	}
	return s.store.GetRole(ctx, roleID)
}

func (s *RBACService) DeleteRole(ctx context.Context, roleID string) error {
	roleID = strings.TrimSpace(roleID)
	if roleID == "" {
		return fmt.Errorf("%w: role_id is required", ErrInvalidInput)
	}
	return s.store.DeleteRole(ctx, roleID)
}

// SetRolePermissions replaces the role's permission set. Unknown codenames
// are accepted; they simply never satisfy any gate check.
func (s *RBACService) SetRolePermissions(ctx context.Context, roleID string, codenames []string) error {
	roleID = strings.TrimSpace(roleID)
	if roleID == "" {
		return fmt.Errorf("%w: role_id is required", ErrInvalidInput)
	}
	return s.store.SetRolePermissions(ctx, roleID, dedupeStrings(codenames))
}

func (s *RBACService) CreatePermission(ctx context.Context, codename, description string) (Permission, error) {
	codename = strings.TrimSpace(codename)
	if !codenamePattern.MatchString(codename) {
		return Permission{}, fmt.Errorf("%w: codename must be of the form <verb>_<entity>", ErrInvalidInput)
	}
	return s.store.CreatePermission(ctx, codename, strings.TrimSpace(description))
}

func (s *RBACService) ListPermissions(ctx context.Context) ([]Permission, error) {
	return s.store.ListPermissions(ctx)
}

func (s *RBACService) GetPermission(ctx context.Context, permissionID string) (Permission, error) {
	permissionID = strings.TrimSpace(permissionID)
	if permissionID == "" {
		return Permission{}, fmt.Errorf("%w: permission_id is required", ErrInvalidInput)
	}
	return s.store.GetPermission(ctx, permissionID)
}

func (s *RBACService) DeletePermission(ctx context.Context, permissionID string) error {
	permissionID = strings.TrimSpace(permissionID)
	if permissionID == "" {
		return fmt.Errorf("%w: permission_id is required", ErrInvalidInput)
	}
	return s.store.DeletePermission(ctx, permissionID)
}

func dedupeStrings(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := set[v]; ok {
			continue
		}
		set[v] = struct{}{}
		result = append(result, v)
	}
	return result
}
