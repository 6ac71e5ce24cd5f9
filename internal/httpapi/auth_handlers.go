package httpapi

import (
	"net/http"
	"strings"

	"fuatilia.org/internal/audit"
	"fuatilia.org/internal/auth"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type appTokenRequest struct {
	Username     string `json:"username"`
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	GrantType    string `json:"grant_type"`
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	grant, err := a.users.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), "auth.login", map[string]any{"username": req.Username})
	writeJSON(w, http.StatusOK, grant)
}

func (a *API) handleAppToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	var req appTokenRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	grant, err := a.users.AppToken(r.Context(), req.Username, req.ClientID, req.ClientSecret, req.GrantType)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), "auth.app_token", map[string]any{"username": req.Username})
	writeJSON(w, http.StatusOK, grant)
}

// GET /v1/verify/{username}/{token}
func (a *API) handleVerifyLink(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/verify/"), "/")
	parts := strings.SplitN(path, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	scope, err := a.users.VerifyLink(r.Context(), parts[0], parts[1])
	if err != nil {
		serviceError(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), "auth.verify_link", map[string]any{
		"username": parts[0],
		"scope":    scope,
	})
	msg := "account verified"
	if scope == auth.ScopeCredentialReset {
		msg = "credential reset accepted; account deactivated pending new credentials"
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "detail": msg})
}
