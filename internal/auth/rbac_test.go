package auth

import (
	"context"
	"errors"
	"testing"
)

type stubRBACStore struct {
	createdCodename string
	setCodenames    []string
	ensured         []Permission
}

func (s *stubRBACStore) CreateRole(_ context.Context, name, description string) (Role, error) {
	return Role{ID: "r1", Name: name, Description: description}, nil
}
func (s *stubRBACStore) ListRoles(context.Context) ([]Role, error)      { return nil, nil }
func (s *stubRBACStore) GetRole(context.Context, string) (Role, error)  { return Role{}, ErrNotFound }
func (s *stubRBACStore) DeleteRole(context.Context, string) error       { return nil }
func (s *stubRBACStore) SetRolePermissions(_ context.Context, _ string, codenames []string) error {
	s.setCodenames = codenames
	return nil
}
func (s *stubRBACStore) CreatePermission(_ context.Context, codename, description string) (Permission, error) {
	s.createdCodename = codename
	return Permission{ID: "p1", Codename: codename, Description: description}, nil
}
func (s *stubRBACStore) ListPermissions(context.Context) ([]Permission, error) { return nil, nil }
func (s *stubRBACStore) GetPermission(context.Context, string) (Permission, error) {
	return Permission{}, ErrNotFound
}
func (s *stubRBACStore) DeletePermission(context.Context, string) error { return nil }
func (s *stubRBACStore) EnsurePermissions(_ context.Context, perms []Permission) error {
	s.ensured = perms
	return nil
}

func TestCreatePermissionValidatesCodename(t *testing.T) {
	store := &stubRBACStore{}
	svc, err := NewRBACService(store)
	if err != nil {
		t.Fatalf("new rbac service: %v", err)
	}

	if _, err := svc.CreatePermission(context.Background(), "add_bill", "Create bills"); err != nil {
		t.Fatalf("expected valid codename, got %v", err)
	}
	for _, bad := range []string{"addbill", "Add_Bill", "add-bill", "add_", "_bill", "", "add_bill2"} {
		if _, err := svc.CreatePermission(context.Background(), bad, ""); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput for %q, got %v", bad, err)
		}
	}
}

func TestSetRolePermissionsDedupes(t *testing.T) {
	store := &stubRBACStore{}
	svc, _ := NewRBACService(store)

	err := svc.SetRolePermissions(context.Background(), "r1", []string{"add_bill", "add_bill", " view_bill ", ""})
	if err != nil {
		t.Fatalf("set role permissions: %v", err)
	}
	if len(store.setCodenames) != 2 {
		t.Fatalf("expected 2 codenames after dedupe, got %v", store.setCodenames)
	}
}

func TestEnsureBuiltinsSeedsVocabulary(t *testing.T) {
	store := &stubRBACStore{}
	svc, _ := NewRBACService(store)

	if err := svc.EnsureBuiltins(context.Background()); err != nil {
		t.Fatalf("ensure builtins: %v", err)
	}
	if len(store.ensured) != len(BuiltinPermissions) {
		t.Fatalf("expected %d builtin permissions, got %d", len(BuiltinPermissions), len(store.ensured))
	}
}

func TestCreateRoleRequiresName(t *testing.T) {
	svc, _ := NewRBACService(&stubRBACStore{})
	if _, err := svc.CreateRole(context.Background(), "  ", ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
