package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"fuatilia.org/internal/audit"
	"fuatilia.org/internal/auth"
	"fuatilia.org/internal/props"
)

type createConfigRequest struct {
	Name        string `json:"name"`
	Value       string `json:"value"`
	Description string `json:"description"`
}

type updateConfigRequest struct {
	Value       string `json:"value"`
	Description string `json:"description"`
}

type faqRequest struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

func (a *API) handleConfigs(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		if !a.ensurePermissions(w, r, auth.PermAddConfig) {
			return
		}
		var req createConfigRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		c, err := a.props.CreateConfig(r.Context(), props.Config{
			Name:        req.Name,
			Value:       req.Value,
			Description: req.Description,
			UpdatedBy:   callerUsername(r),
		})
		if err != nil {
			serviceError(w, r, err)
			return
		}
		_ = audit.LogEvent(r.Context(), "configs.create", map[string]any{
			"config_id": c.ID,
			"name":      c.Name,
		})
		w.Header().Set("Location", fmt.Sprintf("/v1/configs/%s", c.ID))
		writeJSON(w, http.StatusCreated, c)
	case http.MethodGet:
		if !a.ensurePermissions(w, r, auth.PermViewConfig) {
			return
		}
		items, err := a.props.ListConfigs(r.Context())
		if err != nil {
			serviceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": items})
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func (a *API) handleConfigResource(w http.ResponseWriter, r *http.Request) {
	configID := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/configs/"), "/")
	if configID == "" || strings.Contains(configID, "/") {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	switch r.Method {
	case http.MethodGet:
		if !a.ensurePermissions(w, r, auth.PermViewConfig) {
			return
		}
		c, err := a.props.GetConfig(r.Context(), configID)
		if err != nil {
			serviceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, c)
	case http.MethodPatch:
		if !a.ensurePermissions(w, r, auth.PermChangeConfig) {
			return
		}
		var req updateConfigRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		c, err := a.props.UpdateConfig(r.Context(), configID, req.Value, req.Description, callerUsername(r))
		if err != nil {
			serviceError(w, r, err)
			return
		}
		_ = audit.LogEvent(r.Context(), "configs.update", map[string]any{"config_id": configID})
		writeJSON(w, http.StatusOK, c)
	case http.MethodDelete:
		if !a.ensurePermissions(w, r, auth.PermDeleteConfig) {
			return
		}
		if err := a.props.DeleteConfig(r.Context(), configID); err != nil {
			serviceError(w, r, err)
			return
		}
		_ = audit.LogEvent(r.Context(), "configs.delete", map[string]any{"config_id": configID})
		w.WriteHeader(http.StatusNoContent)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPatch, http.MethodDelete)
	}
}

func (a *API) handleFAQs(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		if !a.ensurePermissions(w, r, auth.PermAddFAQ) {
			return
		}
		var req faqRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		f, err := a.props.CreateFAQ(r.Context(), props.FAQ{
			Question:  req.Question,
			Answer:    req.Answer,
			UpdatedBy: callerUsername(r),
		})
		if err != nil {
			serviceError(w, r, err)
			return
		}
		_ = audit.LogEvent(r.Context(), "faqs.create", map[string]any{"faq_id": f.ID})
		w.Header().Set("Location", fmt.Sprintf("/v1/faqs/%s", f.ID))
		writeJSON(w, http.StatusCreated, f)
	case http.MethodGet:
		if !a.ensurePermissions(w, r, auth.PermViewFAQ) {
			return
		}
		items, err := a.props.ListFAQs(r.Context())
		if err != nil {
			serviceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": items})
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func (a *API) handleFAQResource(w http.ResponseWriter, r *http.Request) {
	faqID := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/faqs/"), "/")
	if faqID == "" || strings.Contains(faqID, "/") {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	switch r.Method {
	case http.MethodGet:
		if !a.ensurePermissions(w, r, auth.PermViewFAQ) {
			return
		}
		f, err := a.props.GetFAQ(r.Context(), faqID)
		if err != nil {
			serviceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, f)
	case http.MethodPatch:
		if !a.ensurePermissions(w, r, auth.PermChangeFAQ) {
			return
		}
		var req faqRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		f, err := a.props.UpdateFAQ(r.Context(), faqID, req.Question, req.Answer, callerUsername(r))
		if err != nil {
			serviceError(w, r, err)
			return
		}
		_ = audit.LogEvent(r.Context(), "faqs.update", map[string]any{"faq_id": faqID})
		writeJSON(w, http.StatusOK, f)
	case http.MethodDelete:
		if !a.ensurePermissions(w, r, auth.PermDeleteFAQ) {
			return
		}
		if err := a.props.DeleteFAQ(r.Context(), faqID); err != nil {
			serviceError(w, r, err)
			return
		}
		_ = audit.LogEvent(r.Context(), "faqs.delete", map[string]any{"faq_id": faqID})
		w.WriteHeader(http.StatusNoContent)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPatch, http.MethodDelete)
	}
}
