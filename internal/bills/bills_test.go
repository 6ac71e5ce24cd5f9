package bills

import (
	"context"
	"errors"
	"testing"

	"fuatilia.org/internal/auth"
)

type stubStore struct {
	created *Bill
}

func (s *stubStore) CreateBill(_ context.Context, b Bill) (Bill, error) {
	b.ID = "bill-1"
	s.created = &b
	return b, nil
}
func (s *stubStore) BillByID(context.Context, string) (Bill, error) {
	return Bill{}, auth.ErrNotFound
}
func (s *stubStore) FilterBills(context.Context, Filter) ([]Bill, int, error) {
	return nil, 0, nil
}
func (s *stubStore) UpdateBill(context.Context, string, Update) (Bill, error) {
	return Bill{}, auth.ErrNotFound
}
func (s *stubStore) DeleteBill(context.Context, string) error              { return nil }
func (s *stubStore) SetBillFileURL(context.Context, string, string) error { return nil }

func TestParseStatus(t *testing.T) {
	got, err := ParseStatus("second_reading")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got != StatusSecondReading {
		t.Fatalf("expected SECOND_READING, got %q", got)
	}
	if _, err := ParseStatus("THIRD_READING"); !errors.Is(err, auth.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestParseHouse(t *testing.T) {
	got, err := ParseHouse("senate")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got != HouseSenate {
		t.Fatalf("expected SENATE, got %q", got)
	}
	if _, err := ParseHouse("COUNTY_ASSEMBLY"); !errors.Is(err, auth.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestCreateDefaultsStatus(t *testing.T) {
	store := &stubStore{}
	svc, err := NewService(store)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	b, err := svc.Create(context.Background(), Bill{
		Title:       "Finance Bill",
		SponsoredBy: "Hon. Amina Odhiambo",
		House:       HouseNational,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if b.Status != StatusInProgress {
		t.Fatalf("expected default status IN_PROGRESS, got %q", b.Status)
	}
}

func TestCreateValidatesRequiredFields(t *testing.T) {
	svc, _ := NewService(&stubStore{})

	cases := []Bill{
		{SponsoredBy: "Hon. Amina Odhiambo", House: HouseNational},
		{Title: "Finance Bill", House: HouseNational},
		{Title: "Finance Bill", SponsoredBy: "Hon. Amina Odhiambo"},
		{Title: "Finance Bill", SponsoredBy: "Hon. Amina Odhiambo", House: "LOWER_HOUSE"},
	}
	for _, b := range cases {
		if _, err := svc.Create(context.Background(), b); !errors.Is(err, auth.ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput for %+v, got %v", b, err)
		}
	}
}

func TestCreateKeepsOptionalFields(t *testing.T) {
	store := &stubStore{}
	svc, _ := NewService(store)

	b, err := svc.Create(context.Background(), Bill{
		Title:          "Finance Bill",
		SponsoredBy:    "Hon. Amina Odhiambo",
		SupportedBy:    "Hon. Otieno Kibaki",
		House:          HouseSenate,
		Status:         StatusPassed,
		Topics:         "taxation,levies",
		FinalDateVoted: "2026-06-30",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if b.SupportedBy != "Hon. Otieno Kibaki" || b.Topics != "taxation,levies" || b.FinalDateVoted != "2026-06-30" {
		t.Fatalf("unexpected bill %+v", b)
	}
}
