package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"fuatilia.org/internal/audit"
	"fuatilia.org/internal/auth"
	"fuatilia.org/internal/users"
)

type createUserRequest struct {
	Username           string `json:"username"`
	Email              string `json:"email"`
	Password           string `json:"password"`
	FirstName          string `json:"first_name"`
	LastName           string `json:"last_name"`
	PhoneNumber        string `json:"phone_number"`
	Role               string `json:"role"`
	ParentOrganization string `json:"parent_organization"`
}

type createAppRequest struct {
	Username           string `json:"username"`
	Role               string `json:"role"`
	ParentOrganization string `json:"parent_organization"`
}

type updateUserRequest struct {
	Email              *string `json:"email"`
	FirstName          *string `json:"first_name"`
	LastName           *string `json:"last_name"`
	PhoneNumber        *string `json:"phone_number"`
	Role               *string `json:"role"`
	ParentOrganization *string `json:"parent_organization"`
	Active             *bool   `json:"is_active"`
}

func (a *API) handleUsers(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		if !a.ensurePermissions(w, r, auth.PermAddUser) {
			return
		}
		var req createUserRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		acct, err := a.users.CreateUser(r.Context(), users.CreateUserParams{
			Username:           req.Username,
			Email:              req.Email,
			Password:           req.Password,
			FirstName:          req.FirstName,
			LastName:           req.LastName,
			PhoneNumber:        req.PhoneNumber,
			Role:               req.Role,
			ParentOrganization: req.ParentOrganization,
			CreatedBy:          callerUsername(r),
		})
		if err != nil {
			serviceError(w, r, err)
			return
		}
		_ = audit.LogEvent(r.Context(), "users.create", map[string]any{
			"user_id":  acct.ID,
			"username": acct.Username,
		})
		w.Header().Set("Location", fmt.Sprintf("/v1/users/%s", acct.ID))
		writeJSON(w, http.StatusCreated, acct)
	case http.MethodGet:
		if !a.ensurePermissions(w, r, auth.PermViewUser) {
			return
		}
		f := users.AccountFilter{
			Username:           r.URL.Query().Get("username"),
			Email:              r.URL.Query().Get("email"),
			Kind:               auth.AccountKind(strings.ToUpper(r.URL.Query().Get("user_type"))),
			Role:               r.URL.Query().Get("role"),
			ParentOrganization: r.URL.Query().Get("parent_organization"),
			CreatedAfter:       queryTime(r, "created_after"),
			CreatedBefore:      queryTime(r, "created_before"),
			UpdatedAfter:       queryTime(r, "updated_after"),
			UpdatedBefore:      queryTime(r, "updated_before"),
			Page:               queryInt(r, "page", 1),
			ItemsPerPage:       queryInt(r, "items_per_page", 10),
		}
		if raw := r.URL.Query().Get("is_active"); raw != "" {
			active := raw == "true"
			f.Active = &active
		}
		accts, total, err := a.users.Filter(r.Context(), f)
		if err != nil {
			serviceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, pageEnvelope{
			Items: accts, Total: total, Page: f.Page, ItemsPerPage: f.ItemsPerPage,
		})
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func (a *API) handleApps(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	if !a.ensurePermissions(w, r, auth.PermAddUser) {
		return
	}
	var req createAppRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	acct, creds, err := a.users.CreateApp(r.Context(), users.CreateAppParams{
		Username:           req.Username,
		Role:               req.Role,
		ParentOrganization: req.ParentOrganization,
		CreatedBy:          callerUsername(r),
	})
	if err != nil {
		serviceError(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), "users.create_app", map[string]any{
		"user_id":  acct.ID,
		"username": acct.Username,
	})
	w.Header().Set("Location", fmt.Sprintf("/v1/users/%s", acct.ID))
	// The plaintext secret appears in this response only.
	writeJSON(w, http.StatusCreated, map[string]any{
		"account":       acct,
		"client_id":     creds.ClientID,
		"client_secret": creds.ClientSecret,
	})
}

func (a *API) handleUserResource(w http.ResponseWriter, r *http.Request) {
	path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/users/"), "/")
	if path == "" {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	parts := strings.Split(path, "/")
	userID := parts[0]

	if len(parts) == 3 && parts[1] == "credentials" && parts[2] == "reset" {
		a.handleCredentialReset(w, r, userID)
		return
	}
	if len(parts) != 1 {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		if !a.ensurePermissions(w, r, auth.PermViewUser) {
			return
		}
		acct, err := a.users.Get(r.Context(), userID)
		if err != nil {
			serviceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, acct)
	case http.MethodPatch:
		if !a.ensurePermissions(w, r, auth.PermChangeUser) {
			return
		}
		var req updateUserRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		acct, err := a.users.Update(r.Context(), userID, users.AccountUpdate{
			Email:              req.Email,
			FirstName:          req.FirstName,
			LastName:           req.LastName,
			PhoneNumber:        req.PhoneNumber,
			Role:               req.Role,
			ParentOrganization: req.ParentOrganization,
			Active:             req.Active,
			UpdatedBy:          callerUsername(r),
		})
		if err != nil {
			serviceError(w, r, err)
			return
		}
		_ = audit.LogEvent(r.Context(), "users.update", map[string]any{"user_id": userID})
		writeJSON(w, http.StatusOK, acct)
	case http.MethodDelete:
		if !a.ensurePermissions(w, r, auth.PermDeleteUser) {
			return
		}
		if err := a.users.Delete(r.Context(), userID); err != nil {
			serviceError(w, r, err)
			return
		}
		_ = audit.LogEvent(r.Context(), "users.delete", map[string]any{"user_id": userID})
		w.WriteHeader(http.StatusNoContent)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPatch, http.MethodDelete)
	}
}

func (a *API) handleCredentialReset(w http.ResponseWriter, r *http.Request, userID string) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	if !a.ensurePermissions(w, r, auth.PermChangeUser) {
		return
	}
	creds, err := a.users.ResetCredentials(r.Context(), userID)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), "users.credentials_reset", map[string]any{"user_id": userID})
	if creds.ClientID != "" {
		writeJSON(w, http.StatusOK, map[string]any{
			"client_id":     creds.ClientID,
			"client_secret": creds.ClientSecret,
		})
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]any{
		"status": "ok",
		"detail": "credential reset link sent",
	})
}
