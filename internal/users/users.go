package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"fuatilia.org/internal/auth"
	"fuatilia.org/internal/obs"
)

// Store describes account persistence. Implemented by the Postgres store.
type Store interface {
	CreateAccount(ctx context.Context, acct auth.Account) (auth.Account, error)
	AccountByID(ctx context.Context, id string) (auth.Account, error)
	AccountByUsername(ctx context.Context, username string) (*auth.Account, error)
	FilterAccounts(ctx context.Context, f AccountFilter) ([]auth.Account, int, error)
	UpdateAccount(ctx context.Context, id string, upd AccountUpdate) (auth.Account, error)
	DeleteAccount(ctx context.Context, id string) error
	SetActive(ctx context.Context, id string, active bool) error
	UpdatePasswordHash(ctx context.Context, id, hash string) error
	UpdateClientCredentials(ctx context.Context, id, clientID, secretHash string) error
}

// Mailer sends transactional email. The zero dependency case is a no-op
// mailer so account creation works without SMTP configured.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// AccountFilter narrows FilterAccounts results. Zero values mean "any".
type AccountFilter struct {
	Username           string
	Email              string
	Kind               auth.AccountKind
	Role               string
	ParentOrganization string
	Active             *bool
	CreatedAfter       time.Time
	CreatedBefore      time.Time
	UpdatedAfter       time.Time
	UpdatedBefore      time.Time
	Page               int
	ItemsPerPage       int
}

// AccountUpdate carries the mutable account fields. Nil pointers leave the
// stored value untouched.
type AccountUpdate struct {
	Email              *string
	FirstName          *string
	LastName           *string
	PhoneNumber        *string
	Role               *string
	ParentOrganization *string
	Active             *bool
	UpdatedBy          string
}

// CreateUserParams is the input for human account registration.
type CreateUserParams struct {
	Username           string
	Email              string
	Password           string
	FirstName          string
	LastName           string
	PhoneNumber        string
	Role               string
	ParentOrganization string
	CreatedBy          string
}

// CreateAppParams is the input for machine account registration.
type CreateAppParams struct {
	Username           string
	Role               string
	ParentOrganization string
	CreatedBy          string
}

// TokenGrant is the success body of both login flows: the signed token and
// its expiry as epoch seconds.
type TokenGrant struct {
	Access string `json:"access"`
	Exp    int64  `json:"exp"`
}

// Service implements account lifecycle and the two login flows.
type Service struct {
	store   Store
	tokens  *auth.TokenService
	mailer  Mailer
	baseURL string
	now     func() time.Time
}

// Option customizes Service construction.
type Option func(*Service)

// WithClock overrides the time source, used by tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithMailer sets the verification mail sender.
func WithMailer(m Mailer) Option {
	return func(s *Service) { s.mailer = m }
}

// WithBaseURL sets the public origin used in verification links.
func WithBaseURL(u string) Option {
	return func(s *Service) { s.baseURL = strings.TrimRight(u, "/") }
}

// NewService constructs the account service.
func NewService(store Store, tokens *auth.TokenService, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("users store is required")
	}
	if tokens == nil {
		return nil, errors.New("token service is required")
	}
	s := &Service{
		store:   store,
		tokens:  tokens,
		baseURL: "http://localhost:8080",
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// CreateUser registers a human account. The account starts inactive; a
// verification link is emailed in the background and activation happens when
// the holder follows it.
func (s *Service) CreateUser(ctx context.Context, p CreateUserParams) (auth.Account, error) {
	if err := validateUserParams(p); err != nil {
		return auth.Account{}, err
	}
	hash, err := auth.HashPassword(p.Password)
	if err != nil {
		return auth.Account{}, err
	}
	acct := auth.Account{
		Username:           strings.TrimSpace(p.Username),
		Email:              strings.TrimSpace(p.Email),
		FirstName:          strings.TrimSpace(p.FirstName),
		LastName:           strings.TrimSpace(p.LastName),
		PhoneNumber:        strings.TrimSpace(p.PhoneNumber),
		Kind:               auth.AccountKindHuman,
		PasswordHash:       hash,
		Role:               strings.TrimSpace(p.Role),
		ParentOrganization: strings.TrimSpace(p.ParentOrganization),
		Active:             false,
		UpdatedBy:          strings.TrimSpace(p.CreatedBy),
	}
	created, err := s.store.CreateAccount(ctx, acct)
	if err != nil {
		return auth.Account{}, err
	}
	s.sendVerificationEmail(created)
	return created, nil
}

// CreateApp registers a machine account and returns the generated client
// credentials. The plaintext secret is only available in this response.
func (s *Service) CreateApp(ctx context.Context, p CreateAppParams) (auth.Account, auth.ClientCredentials, error) {
	username := strings.TrimSpace(p.Username)
	if len(username) < 3 {
		return auth.Account{}, auth.ClientCredentials{}, fmt.Errorf("%w: username must be at least 3 characters", auth.ErrInvalidInput)
	}
	creds, err := auth.NewClientCredentials()
	if err != nil {
		return auth.Account{}, auth.ClientCredentials{}, err
	}
	acct := auth.Account{
		Username:           username,
		Kind:               auth.AccountKindApp,
		ClientID:           creds.ClientID,
		ClientSecretHash:   creds.ClientSecretHash,
		Role:               strings.TrimSpace(p.Role),
		ParentOrganization: strings.TrimSpace(p.ParentOrganization),
		Active:             true,
		UpdatedBy:          strings.TrimSpace(p.CreatedBy),
	}
	created, err := s.store.CreateAccount(ctx, acct)
	if err != nil {
		return auth.Account{}, auth.ClientCredentials{}, err
	}
	return created, creds, nil
}

// Login exchanges a username and password for a scoped access token. Every
// failure mode collapses to ErrUnauthorized so responses cannot be used to
// probe which accounts exist.
func (s *Service) Login(ctx context.Context, username, password string) (TokenGrant, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return TokenGrant{}, auth.ErrUnauthorized
	}
	acct, err := s.store.AccountByUsername(ctx, username)
	if err != nil {
		obs.CountAuthFailure("login_unknown_user")
		return TokenGrant{}, auth.ErrUnauthorized
	}
	if acct.Kind != auth.AccountKindHuman || !acct.Active {
		obs.CountAuthFailure("login_inactive_or_wrong_kind")
		return TokenGrant{}, auth.ErrUnauthorized
	}
	if auth.VerifyPassword(acct.PasswordHash, password) != nil {
		obs.CountAuthFailure("login_bad_password")
		return TokenGrant{}, auth.ErrUnauthorized
	}
	token, exp, err := s.tokens.Issue(acct, auth.ScopeLogin)
	if err != nil {
		return TokenGrant{}, err
	}
	return TokenGrant{Access: token, Exp: exp.Unix()}, nil
}

// AppToken exchanges client credentials for a scoped access token using the
// client_credentials grant.
func (s *Service) AppToken(ctx context.Context, username, clientID, clientSecret, grantType string) (TokenGrant, error) {
	if grantType != "client_credentials" {
		return TokenGrant{}, fmt.Errorf("%w: grant_type must be client_credentials", auth.ErrInvalidInput)
	}
	username = strings.TrimSpace(username)
	if username == "" || clientID == "" || clientSecret == "" {
		return TokenGrant{}, auth.ErrUnauthorized
	}
	acct, err := s.store.AccountByUsername(ctx, username)
	if err != nil {
		obs.CountAuthFailure("app_token_unknown_user")
		return TokenGrant{}, auth.ErrUnauthorized
	}
	if acct.Kind != auth.AccountKindApp || !acct.Active {
		obs.CountAuthFailure("app_token_inactive_or_wrong_kind")
		return TokenGrant{}, auth.ErrUnauthorized
	}
	if !auth.ChallengeApp(acct, clientID, clientSecret) {
		obs.CountAuthFailure("app_token_bad_credentials")
		return TokenGrant{}, auth.ErrUnauthorized
	}
	token, exp, err := s.tokens.Issue(acct, auth.ScopeLogin)
	if err != nil {
		return TokenGrant{}, err
	}
	return TokenGrant{Access: token, Exp: exp.Unix()}, nil
}

// VerifyLink consumes an emailed link token. Email verification activates the
// account; a credential reset link deactivates it pending a new password.
func (s *Service) VerifyLink(ctx context.Context, username, token string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" || token == "" {
		return "", auth.ErrInvalidToken
	}
	acct, err := s.store.AccountByUsername(ctx, username)
	if err != nil {
		return "", auth.ErrInvalidToken
	}
	scope, err := s.tokens.VerifyLink(token, acct)
	if err != nil {
		return "", err
	}
	switch scope {
	case auth.ScopeEmailVerification:
		if err := s.store.SetActive(ctx, acct.ID, true); err != nil {
			return "", err
		}
	case auth.ScopeCredentialReset:
		if err := s.store.SetActive(ctx, acct.ID, false); err != nil {
			return "", err
		}
	default:
		return "", auth.ErrInvalidToken
	}
	return scope, nil
}

// ResetCredentials rotates credentials for an account. Human accounts get an
// emailed reset link; app accounts get fresh client credentials immediately.
func (s *Service) ResetCredentials(ctx context.Context, id string) (auth.ClientCredentials, error) {
	acct, err := s.store.AccountByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return auth.ClientCredentials{}, err
	}
	if acct.Kind == auth.AccountKindApp {
		creds, err := auth.NewClientCredentials()
		if err != nil {
			return auth.ClientCredentials{}, err
		}
		if err := s.store.UpdateClientCredentials(ctx, acct.ID, creds.ClientID, creds.ClientSecretHash); err != nil {
			return auth.ClientCredentials{}, err
		}
		return creds, nil
	}
	s.sendResetEmail(acct)
	return auth.ClientCredentials{}, nil
}

// SetPassword stores a new password hash and reactivates the account. Used
// after a credential reset link has been followed.
func (s *Service) SetPassword(ctx context.Context, id, password string) error {
	if len(password) < 10 {
		return fmt.Errorf("%w: password must be at least 10 characters", auth.ErrInvalidInput)
	}
	acct, err := s.store.AccountByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return err
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	if err := s.store.UpdatePasswordHash(ctx, acct.ID, hash); err != nil {
		return err
	}
	return s.store.SetActive(ctx, acct.ID, true)
}

// Get returns the account with the given id.
func (s *Service) Get(ctx context.Context, id string) (auth.Account, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return auth.Account{}, fmt.Errorf("%w: user_id is required", auth.ErrInvalidInput)
	}
	return s.store.AccountByID(ctx, id)
}

// Filter returns a page of accounts plus the total match count.
func (s *Service) Filter(ctx context.Context, f AccountFilter) ([]auth.Account, int, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.ItemsPerPage < 1 {
		f.ItemsPerPage = 10
	}
	return s.store.FilterAccounts(ctx, f)
}

// Update applies a partial update to the account.
func (s *Service) Update(ctx context.Context, id string, upd AccountUpdate) (auth.Account, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return auth.Account{}, fmt.Errorf("%w: user_id is required", auth.ErrInvalidInput)
	}
	if upd.Email != nil && !strings.Contains(*upd.Email, "@") {
		return auth.Account{}, fmt.Errorf("%w: email is invalid", auth.ErrInvalidInput)
	}
	return s.store.UpdateAccount(ctx, id, upd)
}

// Delete removes the account.
func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("%w: user_id is required", auth.ErrInvalidInput)
	}
	return s.store.DeleteAccount(ctx, id)
}

func (s *Service) sendVerificationEmail(acct auth.Account) {
	if s.mailer == nil {
		return
	}
	token, _, err := s.tokens.Issue(&acct, auth.ScopeEmailVerification)
	if err != nil {
		obs.LogRequest(map[string]any{"event": "verification_token_issue_failed", "username": acct.Username, "error": err.Error()})
		return
	}
	link := fmt.Sprintf("%s/v1/verify/%s/%s", s.baseURL, acct.Username, token)
	// Mail delivery must not block or fail account creation.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.mailer.Send(ctx, acct.Email, "Verify your Fuatilia account", verificationBody(acct.FirstName, link)); err != nil {
			obs.LogRequest(map[string]any{"event": "verification_email_failed", "username": acct.Username, "error": err.Error()})
		}
	}()
}

func (s *Service) sendResetEmail(acct auth.Account) {
	if s.mailer == nil {
		return
	}
	token, _, err := s.tokens.Issue(&acct, auth.ScopeCredentialReset)
	if err != nil {
		obs.LogRequest(map[string]any{"event": "reset_token_issue_failed", "username": acct.Username, "error": err.Error()})
		return
	}
	link := fmt.Sprintf("%s/v1/verify/%s/%s", s.baseURL, acct.Username, token)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.mailer.Send(ctx, acct.Email, "Reset your Fuatilia credentials", resetBody(acct.FirstName, link)); err != nil {
			obs.LogRequest(map[string]any{"event": "reset_email_failed", "username": acct.Username, "error": err.Error()})
		}
	}()
}

func verificationBody(name, link string) string {
	if name == "" {
		name = "there"
	}
	return fmt.Sprintf("Hello %s,\r\n\r\nWelcome to Fuatilia. Follow the link below to verify your account:\r\n\r\n%s\r\n\r\nThe link expires in one hour. If you did not register, ignore this email.\r\n", name, link)
}

func resetBody(name, link string) string {
	if name == "" {
		name = "there"
	}
	return fmt.Sprintf("Hello %s,\r\n\r\nA credential reset was requested for your Fuatilia account. Follow the link below to continue:\r\n\r\n%s\r\n\r\nThe link expires in one hour. If you did not request this, contact support.\r\n", name, link)
}

func validateUserParams(p CreateUserParams) error {
	if len(strings.TrimSpace(p.Username)) < 3 {
		return fmt.Errorf("%w: username must be at least 3 characters", auth.ErrInvalidInput)
	}
	if !strings.Contains(p.Email, "@") {
		return fmt.Errorf("%w: email is invalid", auth.ErrInvalidInput)
	}
	if len(p.Password) < 10 {
		return fmt.Errorf("%w: password must be at least 10 characters", auth.ErrInvalidInput)
	}
	return nil
}
