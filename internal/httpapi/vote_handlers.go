package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"fuatilia.org/internal/audit"
	"fuatilia.org/internal/auth"
	"fuatilia.org/internal/votes"
)

type createVoteRequest struct {
	BillID           string         `json:"bill_id"`
	RepresentativeID string         `json:"representative_id"`
	VoteType         string         `json:"vote_type"`
	Vote             string         `json:"vote"`
	House            string         `json:"house"`
	VoteSummary      map[string]any `json:"vote_summary"`
}

func (a *API) handleVotes(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		if !a.ensurePermissions(w, r, auth.PermAddVote) {
			return
		}
		var req createVoteRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		v := votes.Vote{
			BillID:           req.BillID,
			RepresentativeID: req.RepresentativeID,
			Type:             votes.VoteType(strings.ToUpper(req.VoteType)),
			Vote:             votes.Choice(strings.ToUpper(req.Vote)),
			House:            req.House,
			VoteSummary:      req.VoteSummary,
			UpdatedBy:        callerUsername(r),
		}
		created, err := a.votes.Create(r.Context(), v)
		if err != nil {
			serviceError(w, r, err)
			return
		}
		_ = audit.LogEvent(r.Context(), "votes.create", map[string]any{
			"vote_id": created.ID,
			"bill_id": created.BillID,
		})
		w.Header().Set("Location", fmt.Sprintf("/v1/votes/%s", created.ID))
		writeJSON(w, http.StatusCreated, created)
	case http.MethodGet:
		if !a.ensurePermissions(w, r, auth.PermViewVote) {
			return
		}
		f := votes.Filter{
			BillID:           r.URL.Query().Get("bill_id"),
			RepresentativeID: r.URL.Query().Get("representative_id"),
			Type:             votes.VoteType(strings.ToUpper(r.URL.Query().Get("vote_type"))),
			Vote:             votes.Choice(strings.ToUpper(r.URL.Query().Get("vote"))),
			House:            strings.ToUpper(r.URL.Query().Get("house")),
			CreatedAfter:     queryTime(r, "created_after"),
			CreatedBefore:    queryTime(r, "created_before"),
			Page:             queryInt(r, "page", 1),
			ItemsPerPage:     queryInt(r, "items_per_page", 10),
		}
		items, total, err := a.votes.Filter(r.Context(), f)
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

func (a *API) handleVoteResource(w http.ResponseWriter, r *http.Request) {
	voteID := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/votes/"), "/")
	if voteID == "" || strings.Contains(voteID, "/") {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	switch r.Method {
	case http.MethodGet:
		if !a.ensurePermissions(w, r, auth.PermViewVote) {
			return
		}
		v, err := a.votes.Get(r.Context(), voteID)
		if err != nil {
			serviceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, v)
	case http.MethodDelete:
		if !a.ensurePermissions(w, r, auth.PermDeleteVote) {
			return
		}
		if err := a.votes.Delete(r.Context(), voteID); err != nil {
			serviceError(w, r, err)
			return
		}
		_ = audit.LogEvent(r.Context(), "votes.delete", map[string]any{"vote_id": voteID})
		w.WriteHeader(http.StatusNoContent)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodDelete)
	}
}
