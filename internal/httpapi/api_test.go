package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"fuatilia.org/internal/auth"
	"fuatilia.org/internal/bills"
	"fuatilia.org/internal/users"
)

// testStore backs the users service and the auth directory in-memory.
type testStore struct {
	mu       sync.Mutex
	accounts map[string]auth.Account
	perms    map[string][]string
	nextID   int
}

func newTestStore() *testStore {
	return &testStore{
		accounts: map[string]auth.Account{},
		perms:    map[string][]string{},
	}
}

func (s *testStore) CreateAccount(_ context.Context, acct auth.Account) (auth.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.accounts {
		if existing.Username == acct.Username {
			return auth.Account{}, auth.ErrConflict
		}
	}
	s.nextID++
	acct.ID = fmt.Sprintf("acct-%d", s.nextID)
	s.accounts[acct.ID] = acct
	return acct, nil
}

func (s *testStore) AccountByID(_ context.Context, id string) (auth.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.accounts[id]
	if !ok {
		return auth.Account{}, auth.ErrNotFound
	}
	return acct, nil
}

func (s *testStore) AccountByUsername(_ context.Context, username string) (*auth.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, acct := range s.accounts {
		if acct.Username == username {
			copied := acct
			return &copied, nil
		}
	}
	return nil, auth.ErrNotFound
}

func (s *testStore) RolePermissions(_ context.Context, roleName string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	perms, ok := s.perms[roleName]
	if !ok {
		return nil, auth.ErrNotFound
	}
	return perms, nil
}

func (s *testStore) FilterAccounts(_ context.Context, _ users.AccountFilter) ([]auth.Account, int, error) {
	return nil, 0, nil
}

func (s *testStore) UpdateAccount(_ context.Context, id string, _ users.AccountUpdate) (auth.Account, error) {
	return s.AccountByID(context.Background(), id)
}

func (s *testStore) DeleteAccount(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.accounts, id)
	return nil
}

func (s *testStore) SetActive(_ context.Context, id string, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.accounts[id]
	if !ok {
		return auth.ErrNotFound
	}
	acct.Active = active
	s.accounts[id] = acct
	return nil
}

func (s *testStore) UpdatePasswordHash(_ context.Context, id, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.accounts[id]
	if !ok {
		return auth.ErrNotFound
	}
	acct.PasswordHash = hash
	s.accounts[id] = acct
	return nil
}

func (s *testStore) UpdateClientCredentials(_ context.Context, id, clientID, secretHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.accounts[id]
	if !ok {
		return auth.ErrNotFound
	}
	acct.ClientID = clientID
	acct.ClientSecretHash = secretHash
	s.accounts[id] = acct
	return nil
}

type emptyBillStore struct{}

func (emptyBillStore) CreateBill(_ context.Context, b bills.Bill) (bills.Bill, error) {
	b.ID = "bill-1"
	return b, nil
}
func (emptyBillStore) BillByID(context.Context, string) (bills.Bill, error) {
	return bills.Bill{}, auth.ErrNotFound
}
func (emptyBillStore) FilterBills(context.Context, bills.Filter) ([]bills.Bill, int, error) {
	return nil, 0, nil
}
func (emptyBillStore) UpdateBill(context.Context, string, bills.Update) (bills.Bill, error) {
	return bills.Bill{}, auth.ErrNotFound
}
func (emptyBillStore) DeleteBill(context.Context, string) error { return auth.ErrNotFound }
func (emptyBillStore) SetBillFileURL(context.Context, string, string) error { return auth.ErrNotFound }

type testEnv struct {
	handler http.Handler
	store   *testStore
	users   *users.Service
	tokens  *auth.TokenService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := newTestStore()
	tokens, err := auth.NewTokenService("test-secret")
	if err != nil {
		t.Fatalf("token service: %v", err)
	}
	userSvc, err := users.NewService(store, tokens)
	if err != nil {
		t.Fatalf("users service: %v", err)
	}
	billSvc, err := bills.NewService(emptyBillStore{})
	if err != nil {
		t.Fatalf("bills service: %v", err)
	}
	api := New(Deps{
		Version:   "test",
		Users:     userSvc,
		Tokens:    tokens,
		Directory: store,
		Bills:     billSvc,
	})
	return &testEnv{handler: api.Handler(), store: store, users: userSvc, tokens: tokens}
}

// seedUser creates an active human account with the given role and returns a
// login token for it.
func (e *testEnv) seedUser(t *testing.T, username, role string, superuser bool) string {
	t.Helper()
	hash, err := auth.HashPassword("long-enough-pass")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	acct, err := e.store.CreateAccount(context.Background(), auth.Account{
		Username:     username,
		Email:        username + "@example.com",
		Kind:         auth.AccountKindHuman,
		PasswordHash: hash,
		Role:         role,
		Superuser:    superuser,
		Active:       true,
	})
	if err != nil {
		t.Fatalf("seed account: %v", err)
	}
	token, _, err := e.tokens.Issue(&acct, auth.ScopeLogin)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return token
}

func (e *testEnv) do(t *testing.T, method, path, token, username string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if username != "" {
		req.Header.Set("X-Authenticated-Username", username)
	}
	rr := httptest.NewRecorder()
	e.handler.ServeHTTP(rr, req)
	return rr
}

func TestHealthzIsPublic(t *testing.T) {
	env := newTestEnv(t)
	rr := env.do(t, http.MethodGet, "/healthz", "", "", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

func TestLoginReturnsGrant(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "wanjiku", "", false)

	rr := env.do(t, http.MethodPost, "/v1/auth/login", "", "", map[string]string{
		"username": "wanjiku",
		"password": "long-enough-pass",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var body map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode grant: %v", err)
	}
	access, ok := body["access"].(string)
	if !ok || access == "" {
		t.Fatalf("expected access token in grant, got %v", body)
	}
	exp, ok := body["exp"].(float64)
	if !ok || int64(exp) <= time.Now().Unix() {
		t.Fatalf("expected future epoch-seconds exp in grant, got %v", body)
	}

	var grant users.TokenGrant
	if err := json.Unmarshal(rr.Body.Bytes(), &grant); err != nil {
		t.Fatalf("decode grant: %v", err)
	}
	if grant.Access != access || grant.Exp != int64(exp) {
		t.Fatalf("unexpected grant %+v", grant)
	}
}

func TestLoginRejectsBadPassword(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "wanjiku", "", false)

	rr := env.do(t, http.MethodPost, "/v1/auth/login", "", "", map[string]string{
		"username": "wanjiku",
		"password": "wrong-password",
	})
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestProtectedEndpointRequiresToken(t *testing.T) {
	env := newTestEnv(t)
	rr := env.do(t, http.MethodGet, "/v1/bills", "", "", nil)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestProtectedEndpointRequiresUsernameHeader(t *testing.T) {
	env := newTestEnv(t)
	token := env.seedUser(t, "wanjiku", "", false)

	rr := env.do(t, http.MethodGet, "/v1/bills", token, "", nil)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without username header, got %d", rr.Code)
	}
}

func TestTokenMustMatchNamedAccount(t *testing.T) {
	env := newTestEnv(t)
	tokenA := env.seedUser(t, "wanjiku", "", false)
	env.seedUser(t, "mwangi", "", false)

	rr := env.do(t, http.MethodGet, "/v1/bills", tokenA, "mwangi", nil)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for cross-account token, got %d", rr.Code)
	}
}

func TestMissingPermissionNamesCodename(t *testing.T) {
	env := newTestEnv(t)
	env.store.perms["reader"] = []string{auth.PermViewUser}
	token := env.seedUser(t, "wanjiku", "reader", false)

	rr := env.do(t, http.MethodGet, "/v1/bills", token, "wanjiku", nil)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d: %s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), "user does not have permission --> view_bill") {
		t.Fatalf("expected response to name missing codename, got %s", rr.Body.String())
	}
}

func TestGrantedPermissionPasses(t *testing.T) {
	env := newTestEnv(t)
	env.store.perms["reader"] = []string{auth.PermViewBill}
	token := env.seedUser(t, "wanjiku", "reader", false)

	rr := env.do(t, http.MethodGet, "/v1/bills", token, "wanjiku", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestUpdateBillRequiresChangePermission(t *testing.T) {
	env := newTestEnv(t)
	env.store.perms["clerk"] = []string{auth.PermAddBill}
	token := env.seedUser(t, "wanjiku", "clerk", false)

	patch := map[string]any{"status": "PASSED"}
	rr := env.do(t, http.MethodPatch, "/v1/bills/bill-1", token, "wanjiku", patch)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d: %s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), "change_bill") {
		t.Fatalf("expected response to name change_bill, got %s", rr.Body.String())
	}

	env.store.perms["clerk"] = []string{auth.PermAddBill, auth.PermChangeBill}
	rr = env.do(t, http.MethodPatch, "/v1/bills/bill-1", token, "wanjiku", patch)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 once permitted, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestSuperuserBypassesGate(t *testing.T) {
	env := newTestEnv(t)
	token := env.seedUser(t, "root", "", true)

	rr := env.do(t, http.MethodGet, "/v1/bills", token, "root", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 for superuser, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestVerifyLinkActivatesAccount(t *testing.T) {
	env := newTestEnv(t)
	acct, err := env.users.CreateUser(context.Background(), users.CreateUserParams{
		Username: "wanjiku",
		Email:    "wanjiku@example.com",
		Password: "long-enough-pass",
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	link, _, err := env.tokens.Issue(&acct, auth.ScopeEmailVerification)
	if err != nil {
		t.Fatalf("issue link token: %v", err)
	}

	rr := env.do(t, http.MethodGet, "/v1/verify/wanjiku/"+link, "", "", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	stored, err := env.store.AccountByUsername(context.Background(), "wanjiku")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if !stored.Active {
		t.Fatalf("expected account activated")
	}
}

func TestVerifyLinkRejectsGarbageToken(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "wanjiku", "", false)

	rr := env.do(t, http.MethodGet, "/v1/verify/wanjiku/not-a-token", "", "", nil)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestUnknownRouteReturnsNotFound(t *testing.T) {
	env := newTestEnv(t)
	token := env.seedUser(t, "root", "", true)
	rr := env.do(t, http.MethodGet, "/v1/nope", token, "root", nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestMethodNotAllowedOnLogin(t *testing.T) {
	env := newTestEnv(t)
	rr := env.do(t, http.MethodGet, "/v1/auth/login", "", "", nil)
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rr.Code)
	}
	if rr.Header().Get("Allow") == "" {
		t.Fatalf("expected Allow header")
	}
}
