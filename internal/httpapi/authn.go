package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"fuatilia.org/internal/auth"
	"fuatilia.org/internal/obs"
)

const (
	authHeader     = "Authorization"
	bearer         = "Bearer "
	usernameHeader = "X-Authenticated-Username"
)

var publicPaths = []string{
	"/v1/auth/login",
	"/v1/auth/token",
	"/metrics",
	"/healthz",
	"/readyz",
	"/openapi.yaml",
	"/",
}
var publicPrefixes = []string{
	"/v1/verify/",
}

// withAuth resolves the caller from the username header and verifies the
// bearer token against that account. The header names who the token must
// belong to; the token proves it. A token issued to another account never
// authenticates, regardless of validity.
func (a *API) withAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}
		if isPublicPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		token, err := extractBearerToken(r.Header.Get(authHeader))
		if err != nil {
			obs.CountAuthFailure("missing_bearer")
			writeError(w, r, http.StatusUnauthorized, err.Error())
			return
		}
		username := strings.TrimSpace(r.Header.Get(usernameHeader))
		if username == "" {
			obs.CountAuthFailure("missing_username_header")
			writeError(w, r, http.StatusUnauthorized, "authentication required")
			return
		}

		acct, err := a.dir.AccountByUsername(r.Context(), username)
		if err != nil {
			obs.CountAuthFailure("unknown_username")
			writeError(w, r, http.StatusUnauthorized, "authentication required")
			return
		}
		if !acct.Active {
			obs.CountAuthFailure("inactive_account")
			writeError(w, r, http.StatusUnauthorized, "authentication required")
			return
		}
		if err := a.tokens.VerifyForAuthentication(token, acct); err != nil {
			obs.CountAuthFailure("invalid_token")
			writeError(w, r, http.StatusUnauthorized, "invalid token")
			return
		}

		ctx := auth.ContextWithAccount(r.Context(), acct)
		ctx = auth.ContextWithToken(ctx, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ensurePermissions runs the gate for the authenticated caller. A missing
// permission yields 403 naming the codename; everything else collapses to
// a generic 401.
func (a *API) ensurePermissions(w http.ResponseWriter, r *http.Request, required ...string) bool {
	caller, ok := auth.AccountFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "authentication required")
		return false
	}
	if err := a.gate.Authorize(r.Context(), caller, required...); err != nil {
		var permErr *auth.PermissionError
		if errors.As(err, &permErr) {
			obs.CountAuthFailure("permission_denied")
			writeError(w, r, http.StatusForbidden, permErr.Error())
			return false
		}
		writeError(w, r, http.StatusUnauthorized, "authentication required")
		return false
	}
	return true
}

func caller(r *http.Request) *auth.Account {
	acct, _ := auth.AccountFromContext(r.Context())
	return acct
}

func callerUsername(r *http.Request) string {
	if acct := caller(r); acct != nil {
		return acct.Username
	}
	return ""
}

func extractBearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", errors.New("missing bearer token")
	}
	if !strings.HasPrefix(strings.ToLower(header), strings.ToLower(bearer)) {
		return "", errors.New("invalid authorization scheme")
	}
	token := strings.TrimSpace(header[len(bearer):])
	if token == "" {
		return "", errors.New("missing bearer token")
	}
	return token, nil
}

func isPublicPath(path string) bool {
	for _, p := range publicPaths {
		if path == p {
			return true
		}
	}
	for _, prefix := range publicPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
