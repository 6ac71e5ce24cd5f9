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
	"fuatilia.org/internal/bills"
	"fuatilia.org/internal/filestore"
)

const documentFolder = "documents"

type createBillRequest struct {
	Title          string `json:"title"`
	Status         string `json:"status"`
	SponsoredBy    string `json:"sponsored_by"`
	SupportedBy    string `json:"supported_by"`
	House          string `json:"house"`
	Summary        string `json:"summary"`
	Topics         string `json:"topics"`
	FinalDateVoted string `json:"final_date_voted"`
}

type updateBillRequest struct {
	Title          *string `json:"title"`
	Summary        *string `json:"summary"`
	Status         *string `json:"status"`
	SponsoredBy    *string `json:"sponsored_by"`
	SupportedBy    *string `json:"supported_by"`
	Topics         *string `json:"topics"`
	FinalDateVoted *string `json:"final_date_voted"`
}

// billFileUploadRequest carries a base64-encoded document plus the key
// inputs. BillID is optional; when present the stored location is recorded
// on the bill.
type billFileUploadRequest struct {
	BillID         string `json:"bill_id"`
	House          string `json:"house"`
	FileName       string `json:"file_name"`
	Base64Encoding string `json:"base64_encoding"`
	ContentType    string `json:"content_type"`
}

func (a *API) handleBills(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		if !a.ensurePermissions(w, r, auth.PermAddBill) {
			return
		}
		var req createBillRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		b := bills.Bill{
			Title:          req.Title,
			Status:         bills.BillStatus(strings.ToUpper(req.Status)),
			SponsoredBy:    req.SponsoredBy,
			SupportedBy:    req.SupportedBy,
			House:          bills.House(strings.ToUpper(req.House)),
			Summary:        req.Summary,
			Topics:         req.Topics,
			FinalDateVoted: req.FinalDateVoted,
			UpdatedBy:      callerUsername(r),
		}
		created, err := a.bills.Create(r.Context(), b)
		if err != nil {
			serviceError(w, r, err)
			return
		}
		_ = audit.LogEvent(r.Context(), "bills.create", map[string]any{
			"bill_id": created.ID,
			"title":   created.Title,
		})
		w.Header().Set("Location", fmt.Sprintf("/v1/bills/%s", created.ID))
		writeJSON(w, http.StatusCreated, created)
	case http.MethodGet:
		if !a.ensurePermissions(w, r, auth.PermViewBill) {
			return
		}
		f := bills.Filter{
			Title:         r.URL.Query().Get("title"),
			House:         bills.House(strings.ToUpper(r.URL.Query().Get("house"))),
			Status:        bills.BillStatus(strings.ToUpper(r.URL.Query().Get("status"))),
			SponsoredBy:   r.URL.Query().Get("sponsored_by"),
			Topics:        r.URL.Query().Get("topics"),
			CreatedAfter:  queryTime(r, "created_after"),
			CreatedBefore: queryTime(r, "created_before"),
			UpdatedAfter:  queryTime(r, "updated_after"),
			UpdatedBefore: queryTime(r, "updated_before"),
			Page:          queryInt(r, "page", 1),
			ItemsPerPage:  queryInt(r, "items_per_page", 10),
		}
		items, total, err := a.bills.Filter(r.Context(), f)
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

func (a *API) handleBillResource(w http.ResponseWriter, r *http.Request) {
	path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/bills/"), "/")
	if path == "" {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	parts := strings.Split(path, "/")

	// /v1/bills/files uploads a document; /v1/bills/files/{house}/{name}
	// streams one back.
	if parts[0] == "files" {
		switch len(parts) {
		case 1:
			a.handleBillFileUpload(w, r)
		case 3:
			a.handleBillFileFetch(w, r, parts[1], parts[2])
		default:
			writeError(w, r, http.StatusNotFound, "resource not found")
		}
		return
	}
	if len(parts) != 1 {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	billID := parts[0]

	switch r.Method {
	case http.MethodGet:
		if !a.ensurePermissions(w, r, auth.PermViewBill) {
			return
		}
		b, err := a.bills.Get(r.Context(), billID)
		if err != nil {
			serviceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, b)
	case http.MethodPatch:
		if !a.ensurePermissions(w, r, auth.PermChangeBill) {
			return
		}
		var req updateBillRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		upd := bills.Update{
			Title:          req.Title,
			Summary:        req.Summary,
			SponsoredBy:    req.SponsoredBy,
			SupportedBy:    req.SupportedBy,
			Topics:         req.Topics,
			FinalDateVoted: req.FinalDateVoted,
			UpdatedBy:      callerUsername(r),
		}
		if req.Status != nil {
			status := bills.BillStatus(strings.ToUpper(*req.Status))
			upd.Status = &status
		}
		b, err := a.bills.Update(r.Context(), billID, upd)
		if err != nil {
			serviceError(w, r, err)
			return
		}
		_ = audit.LogEvent(r.Context(), "bills.update", map[string]any{"bill_id": billID})
		writeJSON(w, http.StatusOK, b)
	case http.MethodDelete:
		if !a.ensurePermissions(w, r, auth.PermDeleteBill) {
			return
		}
		if err := a.bills.Delete(r.Context(), billID); err != nil {
			serviceError(w, r, err)
			return
		}
		_ = audit.LogEvent(r.Context(), "bills.delete", map[string]any{"bill_id": billID})
		w.WriteHeader(http.StatusNoContent)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPatch, http.MethodDelete)
	}
}

// POST /v1/bills/files uploads a base64-encoded bill document keyed by house
// and file name. When the body names a bill the stored location is recorded
// on it.
func (a *API) handleBillFileUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	if !a.ensurePermissions(w, r, auth.PermAddBillFile) {
		return
	}
	if a.files == nil {
		writeError(w, r, http.StatusServiceUnavailable, "file storage unavailable")
		return
	}
	var req billFileUploadRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.Base64Encoding == "" {
		writeError(w, r, http.StatusBadRequest, "base64_encoding is required")
		return
	}
	house, err := bills.ParseHouse(req.House)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	data, err := base64.StdEncoding.DecodeString(req.Base64Encoding)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "base64_encoding is not valid base64")
		return
	}

	key, err := filestore.ComputeKey(filestore.TypeBill, filestore.KeyParams{
		Folder:   documentFolder,
		House:    string(house),
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
	if req.BillID != "" {
		if err := a.bills.AttachFile(r.Context(), req.BillID, url); err != nil {
			serviceError(w, r, err)
			return
		}
	}
	_ = audit.LogEvent(r.Context(), "bills.file_upload", map[string]any{
		"bill_id": req.BillID,
		"key":     key,
	})
	writeJSON(w, http.StatusCreated, map[string]any{"file_url": url, "key": key})
}

// GET /v1/bills/files/{house}/{name}?start_kb=&stop_kb= streams a document,
// optionally a byte range for progressive readers.
func (a *API) handleBillFileFetch(w http.ResponseWriter, r *http.Request, house, name string) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	if !a.ensurePermissions(w, r, auth.PermViewBillFile) {
		return
	}
	if a.files == nil {
		writeError(w, r, http.StatusServiceUnavailable, "file storage unavailable")
		return
	}
	key, err := filestore.ComputeKey(filestore.TypeBill, filestore.KeyParams{
		Folder:   documentFolder,
		House:    strings.ToUpper(house),
		FileName: name,
	})
	if err != nil {
		serviceError(w, r, err)
		return
	}

	startKB := int64(queryInt(r, "start_kb", 0))
	stopKB := int64(queryInt(r, "stop_kb", 0))
	var body io.ReadCloser
	if startKB > 0 || stopKB > 0 {
		body, err = a.files.Stream(r.Context(), key, startKB, stopKB)
	} else {
		body, err = a.files.Fetch(r.Context(), key)
	}
	if err != nil {
		writeError(w, r, http.StatusNotFound, "document not found")
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", name))
	_, _ = io.Copy(w, body)
}
