package representatives

import (
	"context"
	"errors"
	"testing"

	"fuatilia.org/internal/auth"
)

type stubStore struct {
	created *Representative
}

func (s *stubStore) CreateRepresentative(_ context.Context, r Representative) (Representative, error) {
	r.ID = "rep-1"
	s.created = &r
	return r, nil
}
func (s *stubStore) RepresentativeByID(context.Context, string) (Representative, error) {
	return Representative{}, auth.ErrNotFound
}
func (s *stubStore) FilterRepresentatives(context.Context, Filter) ([]Representative, int, error) {
	return nil, 0, nil
}
func (s *stubStore) UpdateRepresentative(context.Context, string, Update) (Representative, error) {
	return Representative{}, auth.ErrNotFound
}
func (s *stubStore) DeleteRepresentative(context.Context, string) error { return nil }

func TestParsePosition(t *testing.T) {
	got, err := ParsePosition("senator")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got != PositionSenator {
		t.Fatalf("expected SENATOR, got %q", got)
	}
	if _, err := ParsePosition("GOVERNOR"); !errors.Is(err, auth.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestCreateDefaultsPositionClass(t *testing.T) {
	store := &stubStore{}
	svc, err := NewService(store)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	r, err := svc.Create(context.Background(), Representative{
		FullName:        "Amina Odhiambo",
		Position:        PositionMP,
		House:           HouseNational,
		AreaRepresented: "Kibra Constituency",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if r.PositionClass != ClassElected {
		t.Fatalf("expected default class ELECTED, got %q", r.PositionClass)
	}
}

func TestCreateValidation(t *testing.T) {
	svc, _ := NewService(&stubStore{})

	cases := []Representative{
		{Position: PositionMP, House: HouseNational, AreaRepresented: "Kibra Constituency"},
		{FullName: "Amina Odhiambo", House: HouseNational, AreaRepresented: "Kibra Constituency"},
		{FullName: "Amina Odhiambo", Position: PositionMP, AreaRepresented: "Kibra Constituency"},
		{FullName: "Amina Odhiambo", Position: PositionMP, House: HouseNational},
		{FullName: "Amina Odhiambo", Position: "GOVERNOR", House: HouseNational, AreaRepresented: "Kibra Constituency"},
		{FullName: "Amina Odhiambo", Position: PositionMP, House: "COUNTY_ASSEMBLY", AreaRepresented: "Kibra Constituency"},
		{FullName: "Amina Odhiambo", Position: PositionMP, House: HouseNational, AreaRepresented: "Kibra Constituency", PositionClass: "APPOINTED"},
		{FullName: "Amina Odhiambo", Position: PositionMP, House: HouseNational, AreaRepresented: "Kibra Constituency", Gender: "UNKNOWN"},
	}
	for _, r := range cases {
		if _, err := svc.Create(context.Background(), r); !errors.Is(err, auth.ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput for %+v, got %v", r, err)
		}
	}
}

func TestUpdateRejectsBadPosition(t *testing.T) {
	svc, _ := NewService(&stubStore{})

	bad := Position("GOVERNOR")
	if _, err := svc.Update(context.Background(), "rep-1", Update{Position: &bad}); !errors.Is(err, auth.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	badHouse := House("COUNTY_ASSEMBLY")
	if _, err := svc.Update(context.Background(), "rep-1", Update{House: &badHouse}); !errors.Is(err, auth.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for bad house, got %v", err)
	}
	if _, err := svc.Update(context.Background(), "  ", Update{}); !errors.Is(err, auth.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for blank id, got %v", err)
	}
}
