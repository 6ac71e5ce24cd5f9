package votes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"fuatilia.org/internal/auth"
)

// RepresentativeAll marks a vote that belongs to the whole house rather than
// one member, used by consensus and confidential votes.
const RepresentativeAll = "ALL"

// VoteType distinguishes how the vote was taken.
type VoteType string

const (
	TypeIndividual   VoteType = "INDIVIDUAL"
	TypeConsensus    VoteType = "CONSENSUS"
	TypeConfidential VoteType = "CONFIDENTIAL"
)

// Choice is the recorded stance.
type Choice string

const (
	ChoiceYes     Choice = "YES"
	ChoiceNo      Choice = "NO"
	ChoiceAbstain Choice = "ABSTAIN"
	ChoiceAbsent  Choice = "ABSENT"
)

// ParseVoteType validates a vote type string.
func ParseVoteType(s string) (VoteType, error) {
	switch VoteType(strings.ToUpper(strings.TrimSpace(s))) {
	case TypeIndividual:
		return TypeIndividual, nil
	case TypeConsensus:
		return TypeConsensus, nil
	case TypeConfidential:
		return TypeConfidential, nil
	}
	return "", fmt.Errorf("%w: unknown vote type %q", auth.ErrInvalidInput, s)
}

// ParseChoice validates a vote choice string.
func ParseChoice(s string) (Choice, error) {
	switch Choice(strings.ToUpper(strings.TrimSpace(s))) {
	case ChoiceYes:
		return ChoiceYes, nil
	case ChoiceNo:
		return ChoiceNo, nil
	case ChoiceAbstain:
		return ChoiceAbstain, nil
	case ChoiceAbsent:
		return ChoiceAbsent, nil
	}
	return "", fmt.Errorf("%w: unknown vote choice %q", auth.ErrInvalidInput, s)
}

// Vote records a ballot on a bill. Individual votes name the representative;
// consensus and confidential votes carry RepresentativeAll and may attach a
// tally breakdown in VoteSummary. House is recorded on the vote itself since
// a member can change houses between terms.
type Vote struct {
	ID               string         `json:"id"`
	BillID           string         `json:"bill_id"`
	RepresentativeID string         `json:"representative_id"`
	Type             VoteType       `json:"vote_type"`
	Vote             Choice         `json:"vote,omitempty"`
	House            string         `json:"house"`
	VoteSummary      map[string]any `json:"vote_summary,omitempty"`
	UpdatedBy        string         `json:"updated_by,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

// Filter narrows List results.
type Filter struct {
	BillID           string
	RepresentativeID string
	Type             VoteType
	Vote             Choice
	House            string
	CreatedAfter     time.Time
	CreatedBefore    time.Time
	Page             int
	ItemsPerPage     int
}

// Store describes vote persistence.
type Store interface {
	CreateVote(ctx context.Context, v Vote) (Vote, error)
	VoteByID(ctx context.Context, id string) (Vote, error)
	FilterVotes(ctx context.Context, f Filter) ([]Vote, int, error)
	DeleteVote(ctx context.Context, id string) error
}

// Service validates and coordinates vote operations. Votes are immutable
// after recording; corrections are delete and re-create.
type Service struct {
	store Store
}

// NewService constructs the vote service.
func NewService(store Store) (*Service, error) {
	if store == nil {
		return nil, errors.New("votes store is required")
	}
	return &Service{store: store}, nil
}

func (s *Service) Create(ctx context.Context, v Vote) (Vote, error) {
	v.BillID = strings.TrimSpace(v.BillID)
	v.RepresentativeID = strings.TrimSpace(v.RepresentativeID)
	v.House = strings.ToUpper(strings.TrimSpace(v.House))
	if v.BillID == "" {
		return Vote{}, fmt.Errorf("%w: bill_id is required", auth.ErrInvalidInput)
	}
	if v.House == "" {
		return Vote{}, fmt.Errorf("%w: house is required", auth.ErrInvalidInput)
	}
	if _, err := ParseVoteType(string(v.Type)); err != nil {
		return Vote{}, err
	}
	switch v.Type {
	case TypeIndividual:
		if v.RepresentativeID == "" || strings.EqualFold(v.RepresentativeID, RepresentativeAll) {
			return Vote{}, fmt.Errorf("%w: representative_id is required for individual votes", auth.ErrInvalidInput)
		}
		if _, err := ParseChoice(string(v.Vote)); err != nil {
			return Vote{}, err
		}
	default:
		if v.RepresentativeID != "" && !strings.EqualFold(v.RepresentativeID, RepresentativeAll) {
			return Vote{}, fmt.Errorf("%w: %s votes must not name a representative", auth.ErrInvalidInput, strings.ToLower(string(v.Type)))
		}
		v.RepresentativeID = RepresentativeAll
		if v.Vote != "" {
			if _, err := ParseChoice(string(v.Vote)); err != nil {
				return Vote{}, err
			}
		}
	}
	return s.store.CreateVote(ctx, v)
}

func (s *Service) Get(ctx context.Context, id string) (Vote, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Vote{}, fmt.Errorf("%w: vote_id is required", auth.ErrInvalidInput)
	}
	return s.store.VoteByID(ctx, id)
}

func (s *Service) Filter(ctx context.Context, f Filter) ([]Vote, int, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.ItemsPerPage < 1 {
		f.ItemsPerPage = 10
	}
	return s.store.FilterVotes(ctx, f)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("%w: vote_id is required", auth.ErrInvalidInput)
	}
	return s.store.DeleteVote(ctx, id)
}
