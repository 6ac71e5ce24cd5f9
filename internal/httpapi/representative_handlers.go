package httpapi

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"

	"fuatilia.org/internal/audit"
	"fuatilia.org/internal/auth"
	"fuatilia.org/internal/filestore"
	"fuatilia.org/internal/representatives"
)

const representativeFolder = "representatives"

type createRepresentativeRequest struct {
	FullName                  string `json:"full_name"`
	Position                  string `json:"position"`
	PositionClass             string `json:"position_class"`
	House                     string `json:"house"`
	AreaRepresented           string `json:"area_represented"`
	PhoneNumber               string `json:"phone_number"`
	Gender                    string `json:"gender"`
	CurrentParliamentaryRoles string `json:"current_parliamentary_roles"`
}

type updateRepresentativeRequest struct {
	FullName                  *string `json:"full_name"`
	Position                  *string `json:"position"`
	House                     *string `json:"house"`
	AreaRepresented           *string `json:"area_represented"`
	PhoneNumber               *string `json:"phone_number"`
	CurrentParliamentaryRoles *string `json:"current_parliamentary_roles"`
}

// representativeFileUploadRequest carries a base64-encoded file plus the key
// inputs. IMAGE uploads also update the representative's image URL.
type representativeFileUploadRequest struct {
	ID             string `json:"id"`
	FileType       string `json:"file_type"`
	FileName       string `json:"file_name"`
	Base64Encoding string `json:"base64_encoding"`
	ContentType    string `json:"content_type"`
}

func (a *API) handleRepresentatives(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		if !a.ensurePermissions(w, r, auth.PermAddRepresentative) {
			return
		}
		var req createRepresentativeRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		rep := representatives.Representative{
			FullName:                  req.FullName,
			Position:                  representatives.Position(strings.ToUpper(req.Position)),
			PositionClass:             representatives.PositionClass(strings.ToUpper(req.PositionClass)),
			House:                     representatives.House(strings.ToUpper(req.House)),
			AreaRepresented:           req.AreaRepresented,
			PhoneNumber:               req.PhoneNumber,
			Gender:                    representatives.Gender(strings.ToUpper(req.Gender)),
			CurrentParliamentaryRoles: req.CurrentParliamentaryRoles,
			UpdatedBy:                 callerUsername(r),
		}
		created, err := a.reps.Create(r.Context(), rep)
		if err != nil {
			serviceError(w, r, err)
			return
		}
		_ = audit.LogEvent(r.Context(), "representatives.create", map[string]any{
			"representative_id": created.ID,
			"full_name":         created.FullName,
		})
		w.Header().Set("Location", fmt.Sprintf("/v1/representatives/%s", created.ID))
		writeJSON(w, http.StatusCreated, created)
	case http.MethodGet:
		if !a.ensurePermissions(w, r, auth.PermViewRepresentative) {
			return
		}
		f := representatives.Filter{
			FullName:        r.URL.Query().Get("full_name"),
			Position:        representatives.Position(strings.ToUpper(r.URL.Query().Get("position"))),
			PositionClass:   representatives.PositionClass(strings.ToUpper(r.URL.Query().Get("position_class"))),
			House:           representatives.House(strings.ToUpper(r.URL.Query().Get("house"))),
			AreaRepresented: r.URL.Query().Get("area_represented"),
			Gender:          representatives.Gender(strings.ToUpper(r.URL.Query().Get("gender"))),
			CreatedAfter:    queryTime(r, "created_after"),
			CreatedBefore:   queryTime(r, "created_before"),
			UpdatedAfter:    queryTime(r, "updated_after"),
			UpdatedBefore:   queryTime(r, "updated_before"),
			Page:            queryInt(r, "page", 1),
			ItemsPerPage:    queryInt(r, "items_per_page", 10),
		}
		items, total, err := a.reps.Filter(r.Context(), f)
		if err != nil {
			serviceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, pageEnvelope{
			Items: items, Total: total, Page: f.Page, ItemsPerPage: f.ItemsPerPage,
		})
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func (a *API) handleRepresentativeResource(w http.ResponseWriter, r *http.Request) {
	path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/representatives/"), "/")
	if path == "" {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	parts := strings.Split(path, "/")

	// /v1/representatives/files uploads a typed file;
	// /v1/representatives/files/{id}/{file_type}/{file_name} fetches one.
	if parts[0] == "files" {
		switch len(parts) {
		case 1:
			a.handleRepresentativeFileUpload(w, r)
		case 4:
			a.handleRepresentativeFileFetch(w, r, parts[1], parts[2], parts[3])
		default:
			writeError(w, r, http.StatusNotFound, "resource not found")
		}
		return
	}
	repID := parts[0]

	// /v1/representatives/{id}/files/{file_type} lists stored files.
	if len(parts) == 3 && parts[1] == "files" {
		a.handleRepresentativeFileList(w, r, repID, parts[2])
		return
	}
	if len(parts) != 1 {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		if !a.ensurePermissions(w, r, auth.PermViewRepresentative) {
			return
		}
		rep, err := a.reps.Get(r.Context(), repID)
		if err != nil {
			serviceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, rep)
	case http.MethodPatch:
		if !a.ensurePermissions(w, r, auth.PermChangeRepresentative) {
			return
		}
		var req updateRepresentativeRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		upd := representatives.Update{
			FullName:                  req.FullName,
			AreaRepresented:           req.AreaRepresented,
			PhoneNumber:               req.PhoneNumber,
			CurrentParliamentaryRoles: req.CurrentParliamentaryRoles,
			UpdatedBy:                 callerUsername(r),
		}
		if req.Position != nil {
			pos := representatives.Position(strings.ToUpper(*req.Position))
			upd.Position = &pos
		}
		if req.House != nil {
			house := representatives.House(strings.ToUpper(*req.House))
			upd.House = &house
		}
		rep, err := a.reps.Update(r.Context(), repID, upd)
		if err != nil {
			serviceError(w, r, err)
			return
		}
		_ = audit.LogEvent(r.Context(), "representatives.update", map[string]any{"representative_id": repID})
		writeJSON(w, http.StatusOK, rep)
	case http.MethodDelete:
		if !a.ensurePermissions(w, r, auth.PermDeleteRepresentative) {
			return
		}
		if err := a.reps.Delete(r.Context(), repID); err != nil {
			serviceError(w, r, err)
			return
		}
		_ = audit.LogEvent(r.Context(), "representatives.delete", map[string]any{"representative_id": repID})
		w.WriteHeader(http.StatusNoContent)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPatch, http.MethodDelete)
	}
}

// POST /v1/representatives/files uploads a base64-encoded typed file (image,
// case, manifesto) keyed under the representative.
func (a *API) handleRepresentativeFileUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	if !a.ensurePermissions(w, r, auth.PermAddRepresentativeFile) {
		return
	}
	if a.files == nil {
		writeError(w, r, http.StatusServiceUnavailable, "file storage unavailable")
		return
	}
	var req representativeFileUploadRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.Base64Encoding == "" {
		writeError(w, r, http.StatusBadRequest, "base64_encoding is required")
		return
	}
	rep, err := a.reps.Get(r.Context(), req.ID)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	ft, err := filestore.ParseFileType(req.FileType)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	data, err := base64.StdEncoding.DecodeString(req.Base64Encoding)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "base64_encoding is not valid base64")
		return
	}

	key, err := filestore.ComputeKey(ft, filestore.KeyParams{
		Folder:   representativeFolder,
		ID:       rep.ID,
		FileName: req.FileName,
	})
	if err != nil {
		serviceError(w, r, err)
		return
	}
	url, err := a.files.Upload(r.Context(), key, bytes.NewReader(data), req.ContentType)
	if err != nil {
		writeError(w, r, http.StatusBadGateway, "file upload failed")
		return
	}
	if ft == filestore.TypeImage {
		if _, err := a.reps.Update(r.Context(), rep.ID, representatives.Update{
			ImageURL:  &url,
			UpdatedBy: callerUsername(r),
		}); err != nil {
			serviceError(w, r, err)
			return
		}
	}
	_ = audit.LogEvent(r.Context(), "representatives.file_upload", map[string]any{
		"representative_id": rep.ID,
		"key":               key,
	})
	writeJSON(w, http.StatusCreated, map[string]any{"file_url": url, "key": key})
}

// GET /v1/representatives/{id}/files/{file_type} lists the stored files of
// that type; ALL lists everything under the entity.
func (a *API) handleRepresentativeFileList(w http.ResponseWriter, r *http.Request, repID, fileType string) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	if !a.ensurePermissions(w, r, auth.PermViewRepresentativeFile) {
		return
	}
	if a.files == nil {
		writeError(w, r, http.StatusServiceUnavailable, "file storage unavailable")
		return
	}
	ft, err := filestore.ParseFileType(fileType)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	prefix, err := filestore.ComputeKey(ft, filestore.KeyParams{
		Folder: representativeFolder,
		ID:     repID,
	})
	if err != nil {
		serviceError(w, r, err)
		return
	}
	objects, err := a.files.List(r.Context(), prefix)
	if err != nil {
		writeError(w, r, http.StatusBadGateway, "file listing failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": objects})
}

// GET /v1/representatives/files/{id}/{file_type}/{file_name} fetches one
// stored file by its typed key.
func (a *API) handleRepresentativeFileFetch(w http.ResponseWriter, r *http.Request, repID, fileType, name string) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	if !a.ensurePermissions(w, r, auth.PermViewRepresentativeFile) {
		return
	}
	if a.files == nil {
		writeError(w, r, http.StatusServiceUnavailable, "file storage unavailable")
		return
	}
	ft, err := filestore.ParseFileType(fileType)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	key, err := filestore.ComputeKey(ft, filestore.KeyParams{
		Folder:   representativeFolder,
		ID:       repID,
		FileName: name,
	})
	if err != nil {
		serviceError(w, r, err)
		return
	}
	body, err := a.files.Fetch(r.Context(), key)
	if err != nil {
		writeError(w, r, http.StatusNotFound, "file not found")
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", name))
	_, _ = io.Copy(w, body)
}
