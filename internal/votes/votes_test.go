package votes

import (
	"context"
	"errors"
	"testing"

	"fuatilia.org/internal/auth"
)

type stubStore struct {
	created *Vote
}

func (s *stubStore) CreateVote(_ context.Context, v Vote) (Vote, error) {
	v.ID = "vote-1"
	s.created = &v
	return v, nil
}
func (s *stubStore) VoteByID(context.Context, string) (Vote, error) {
	return Vote{}, auth.ErrNotFound
}
func (s *stubStore) FilterVotes(context.Context, Filter) ([]Vote, int, error) {
	return nil, 0, nil
}
func (s *stubStore) DeleteVote(context.Context, string) error { return nil }

func TestIndividualVoteRequiresRepresentativeAndChoice(t *testing.T) {
	svc, err := NewService(&stubStore{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	if _, err := svc.Create(context.Background(), Vote{
		BillID: "bill-1", House: "SENATE", Type: TypeIndividual, Vote: ChoiceYes,
	}); !errors.Is(err, auth.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput without representative, got %v", err)
	}
	if _, err := svc.Create(context.Background(), Vote{
		BillID: "bill-1", House: "SENATE", Type: TypeIndividual, RepresentativeID: "ALL", Vote: ChoiceYes,
	}); !errors.Is(err, auth.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for ALL on individual vote, got %v", err)
	}
	if _, err := svc.Create(context.Background(), Vote{
		BillID: "bill-1", House: "SENATE", Type: TypeIndividual, RepresentativeID: "rep-1",
	}); !errors.Is(err, auth.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput without vote choice, got %v", err)
	}

	v, err := svc.Create(context.Background(), Vote{
		BillID: "bill-1", House: "SENATE", Type: TypeIndividual, RepresentativeID: "rep-1", Vote: ChoiceYes,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if v.RepresentativeID != "rep-1" || v.Vote != ChoiceYes {
		t.Fatalf("unexpected vote %+v", v)
	}
}

func TestConsensusVoteDefaultsRepresentativeAll(t *testing.T) {
	store := &stubStore{}
	svc, _ := NewService(store)

	if _, err := svc.Create(context.Background(), Vote{
		BillID: "bill-1", House: "SENATE", Type: TypeConsensus, RepresentativeID: "rep-1",
	}); !errors.Is(err, auth.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for named representative on consensus vote, got %v", err)
	}

	v, err := svc.Create(context.Background(), Vote{
		BillID: "bill-1",
		House:  "SENATE",
		Type:   TypeConsensus,
		VoteSummary: map[string]any{
			"yes": 40, "no": 12,
		},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if v.RepresentativeID != RepresentativeAll {
		t.Fatalf("expected representative_id ALL, got %q", v.RepresentativeID)
	}
	if v.VoteSummary["yes"] != 40 {
		t.Fatalf("expected vote summary preserved, got %+v", v.VoteSummary)
	}
}

func TestConfidentialVoteCarriesSummaryOnly(t *testing.T) {
	svc, _ := NewService(&stubStore{})

	v, err := svc.Create(context.Background(), Vote{
		BillID:      "bill-1",
		House:       "NATIONAL_ASSEMBLY",
		Type:        TypeConfidential,
		VoteSummary: map[string]any{"outcome": "PASSED"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if v.RepresentativeID != RepresentativeAll {
		t.Fatalf("expected representative_id ALL, got %q", v.RepresentativeID)
	}
}

func TestCreateVoteValidation(t *testing.T) {
	svc, _ := NewService(&stubStore{})

	if _, err := svc.Create(context.Background(), Vote{
		House: "SENATE", Type: TypeIndividual, RepresentativeID: "rep-1", Vote: ChoiceYes,
	}); !errors.Is(err, auth.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput without bill_id, got %v", err)
	}
	if _, err := svc.Create(context.Background(), Vote{
		BillID: "bill-1", Type: TypeIndividual, RepresentativeID: "rep-1", Vote: ChoiceYes,
	}); !errors.Is(err, auth.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput without house, got %v", err)
	}
	if _, err := svc.Create(context.Background(), Vote{
		BillID: "bill-1", House: "SENATE", Type: "SHOW_OF_HANDS",
	}); !errors.Is(err, auth.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown vote type, got %v", err)
	}
}
