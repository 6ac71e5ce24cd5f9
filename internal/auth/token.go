package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token scopes restrict what purpose a token may be used for.
const (
	ScopeLogin             = "login"
	ScopeEmailVerification = "email_verification"
	ScopeCredentialReset   = "user_credential_reset"
)

const (
	defaultIssuer   = "fuatilia"
	defaultTokenTTL = 60 * time.Minute
)

// Claims is the signed claim set embedded in every issued token.
type Claims struct {
	Scope        string   `json:"scope"`
	Username     string   `json:"username"`
	UserID       string   `json:"id"`
	Roles        []string `json:"role"`
	UserType     string   `json:"user_type"`
	Organisation string   `json:"organisation"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies scoped, time-limited bearer tokens.
// Tokens are stateless: revocation before natural expiry is not supported.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

// TokenOption configures TokenService behavior.
type TokenOption func(*TokenService) error

// WithTTL overrides the access token lifetime.
func WithTTL(ttl time.Duration) TokenOption {
	return func(s *TokenService) error {
		if ttl <= 0 {
			return errors.New("token ttl must be greater than zero")
		}
		s.ttl = ttl
		return nil
	}
}

// WithIssuer overrides the token issuer claim.
func WithIssuer(issuer string) TokenOption {
	return func(s *TokenService) error {
		issuer = strings.TrimSpace(issuer)
		if issuer != "" {
			s.issuer = issuer
		}
		return nil
	}
}

// WithClock overrides the time source (useful for tests).
func WithClock(fn func() time.Time) TokenOption {
	return func(s *TokenService) error {
		if fn != nil {
			s.now = fn
		}
		return nil
	}
}

// NewTokenService constructs a TokenService. A missing secret is a fatal
// configuration error: the process must refuse to serve rather than issue
// unverifiable tokens.
func NewTokenService(secret string, opts ...TokenOption) (*TokenService, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, errors.New("auth: signing secret is not configured")
	}
	svc := &TokenService{
		secret: []byte(secret),
		ttl:    defaultTokenTTL,
		issuer: defaultIssuer,
		now:    time.Now,
	}
	for _, opt := range opts {
		if err := opt(svc); err != nil {
			return nil, err
		}
	}
	return svc, nil
}

// Issue signs a token for the account with the given scope. An empty scope
// produces an ordinary login token.
func (s *TokenService) Issue(acct *Account, scope string) (string, time.Time, error) {
	if acct == nil || strings.TrimSpace(acct.Username) == "" {
		return "", time.Time{}, ErrInvalidInput
	}
	now := s.now().UTC()
	exp := now.Add(s.ttl)

	var roles []string
	if acct.Role != "" {
		roles = []string{acct.Role}
	}
	claims := Claims{
		Scope:        scope,
		Username:     acct.Username,
		UserID:       acct.ID,
		Roles:        roles,
		UserType:     string(acct.Kind),
		Organisation: acct.ParentOrganization,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   acct.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// VerifyForAuthentication decides whether the token authenticates the target
// account for ordinary protected calls. The scope must be absent or "login".
func (s *TokenService) VerifyForAuthentication(token string, target *Account) error {
	claims, err := s.parse(token, target)
	if err != nil {
		return err
	}
	if claims.Scope != "" && claims.Scope != ScopeLogin {
		return ErrInvalidToken
	}
	return nil
}

// VerifyLink decides whether a verification-link token is valid for the
// target account and returns its scope. Email verification tokens are only
// honored while the account is still inactive, which prevents replay after
// activation. Credential reset tokens carry no activity precondition.
func (s *TokenService) VerifyLink(token string, target *Account) (string, error) {
	claims, err := s.parse(token, target)
	if err != nil {
		return "", err
	}
	switch {
	case strings.Contains(claims.Scope, ScopeEmailVerification):
		if target.Active {
			return "", ErrInvalidToken
		}
		return ScopeEmailVerification, nil
	case strings.Contains(claims.Scope, ScopeCredentialReset):
		return ScopeCredentialReset, nil
	default:
		return "", ErrInvalidToken
	}
}

func (s *TokenService) parse(token string, target *Account) (*Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" || target == nil {
		return nil, ErrInvalidToken
	}

	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithIssuer(s.issuer))
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Username == "" || claims.Username != target.Username {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
